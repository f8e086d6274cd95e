package sandbox

import (
	"os"
	"path/filepath"
)

// BindResult reports whether a bind request made it into the plan.
type BindResult int

const (
	// BindApplied means the target is bound, possibly by an earlier call.
	BindApplied BindResult = iota
	// BindSkipped means the source does not exist on the host and the
	// operation was silently omitted.
	BindSkipped
)

// Builder accumulates bwrap arguments in four ordered segments:
// namespace flags, directory creation, mounts, and environment.
// Build renders the segments in that fixed order, so identical call
// sequences produce identical argument lists.
type Builder struct {
	nsArgs    []string
	dirArgs   []string
	mountArgs []string
	envArgs   []string
	registry  *mountRegistry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{registry: newMountRegistry()}
}

// ensureParents emits --dir operations for every not-yet-declared
// component of path.
func (b *Builder) ensureParents(path string) {
	for _, dir := range b.registry.parentDirs(path) {
		b.dirArgs = append(b.dirArgs, "--dir", dir)
	}
}

// BindReadOnly mounts source read-only at dest, or at source itself
// when dest is empty. A missing source is skipped; a dest that is
// already bound is left alone.
func (b *Builder) BindReadOnly(source, dest string) BindResult {
	return b.bind("--ro-bind", source, dest)
}

// BindReadWrite mounts source read-write at dest, or at source itself
// when dest is empty. Skip semantics match BindReadOnly.
func (b *Builder) BindReadWrite(source, dest string) BindResult {
	return b.bind("--bind", source, dest)
}

func (b *Builder) bind(flag, source, dest string) BindResult {
	if _, err := os.Stat(source); err != nil {
		return BindSkipped
	}
	if dest == "" {
		dest = source
	}
	if !b.registry.markBound(dest) {
		return BindApplied
	}

	realSource, err := filepath.EvalSymlinks(source)
	if err != nil {
		realSource = source
	}
	b.ensureParents(filepath.Dir(dest))
	b.mountArgs = append(b.mountArgs, flag, realSource, dest)
	return BindApplied
}

// Tmpfs mounts a tmpfs at path. The path need not exist on the host.
func (b *Builder) Tmpfs(path string) {
	b.ensureParents(path)
	b.mountArgs = append(b.mountArgs, "--tmpfs", path)
}

// Symlink creates link pointing at target inside the sandbox. The link
// also satisfies the directory requirement for anything bound beneath
// it, the usual case being /bin -> usr/bin on merged-usr hosts.
func (b *Builder) Symlink(target, link string) {
	b.registry.markDir(link)
	b.mountArgs = append(b.mountArgs, "--symlink", target, link)
}

// Dev mounts a minimal /dev at path.
func (b *Builder) Dev(path string) {
	b.mountArgs = append(b.mountArgs, "--dev", path)
}

// Proc mounts procfs at path.
func (b *Builder) Proc(path string) {
	b.mountArgs = append(b.mountArgs, "--proc", path)
}

// Setenv sets an environment variable inside the sandbox. Repeated
// names are kept in call order; bwrap applies them last-one-wins.
func (b *Builder) Setenv(name, value string) {
	b.envArgs = append(b.envArgs, "--setenv", name, value)
}

// Chdir sets the working directory inside the sandbox.
func (b *Builder) Chdir(path string) {
	b.mountArgs = append(b.mountArgs, "--chdir", path)
}

// Unshare detaches the given namespaces. Recognized names are user,
// pid, net, ipc, uts, and cgroup; unrecognized names are ignored.
func (b *Builder) Unshare(namespaces ...string) {
	for _, ns := range namespaces {
		switch ns {
		case "user":
			b.nsArgs = append(b.nsArgs, "--unshare-user")
		case "pid":
			b.nsArgs = append(b.nsArgs, "--unshare-pid")
		case "net":
			b.nsArgs = append(b.nsArgs, "--unshare-net")
		case "ipc":
			b.nsArgs = append(b.nsArgs, "--unshare-ipc")
		case "uts":
			b.nsArgs = append(b.nsArgs, "--unshare-uts")
		case "cgroup":
			b.nsArgs = append(b.nsArgs, "--unshare-cgroup")
		}
	}
}

// Share re-attaches namespaces. bwrap only supports sharing net.
func (b *Builder) Share(namespaces ...string) {
	for _, ns := range namespaces {
		if ns == "net" {
			b.nsArgs = append(b.nsArgs, "--share-net")
		}
	}
}

// Build renders the full bwrap invocation for command. Without a
// command only the plan itself is returned, with no trailing separator.
func (b *Builder) Build(command ...string) []string {
	args := []string{"bwrap", "--die-with-parent", "--new-session"}
	args = append(args, b.nsArgs...)
	args = append(args, b.dirArgs...)
	args = append(args, b.mountArgs...)
	args = append(args, b.envArgs...)
	if len(command) > 0 {
		args = append(args, "--")
		args = append(args, command...)
	}
	return args
}
