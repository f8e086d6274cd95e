package sandbox

import (
	"os"
	"path/filepath"

	"github.com/clodtool/clod/internal/config"
)

// systemRoots are bound read-only when they are real directories; on
// merged-usr hosts they are symlinks into /usr and get recreated as
// symlinks instead.
var systemRoots = []string{"/bin", "/lib", "/lib64", "/sbin"}

// dnsFiles make name resolution work inside the sandbox.
var dnsFiles = []string{
	"/etc/resolv.conf",
	"/etc/hosts",
	"/etc/nsswitch.conf",
	"/etc/host.conf",
	"/etc/gai.conf",
}

// tlsTrustPaths carry the system certificate stores.
var tlsTrustPaths = []string{
	"/etc/ssl",
	"/etc/ca-certificates",
	"/etc/pki",
	"/etc/ca-certificates.conf",
}

var identityFiles = []string{
	"/etc/passwd",
	"/etc/group",
	"/etc/localtime",
}

// toolchainDirs are host-home-relative directories for language and
// version managers, bound read-only when present so installed tools
// keep working inside the sandbox.
var toolchainDirs = []string{
	".local/share/mise",
	".config/mise",
	".cargo",
	".rustup",
	".cache/uv",
	".local/share/uv",
	".pyenv",
	".nvm",
	".npm",
	".volta",
	".bun",
	"go",
	".local/bin",
}

// forwardedEnv is copied from the host environment when set: git
// identity, proxy settings, and the Anthropic API key.
var forwardedEnv = []string{
	"GIT_AUTHOR_NAME",
	"GIT_AUTHOR_EMAIL",
	"GIT_COMMITTER_NAME",
	"GIT_COMMITTER_EMAIL",
	"http_proxy",
	"https_proxy",
	"HTTP_PROXY",
	"HTTPS_PROXY",
	"no_proxy",
	"NO_PROXY",
	"ANTHROPIC_API_KEY",
}

// applyDevProfile drives the builder through the dev profile: the host
// system read-only, PATH and toolchain directories read-only, project
// and sandbox home read-write, environment rooted under the sandbox
// home. The network namespace is deliberately not touched here; the
// caller decides after resolving settings so --no-network can flip it
// without rebuilding the profile.
func applyDevProfile(b *Builder, projectDir, hostHome, sandboxHome string, settings config.Settings) {
	b.Unshare("user", "pid", "uts", "ipc", "cgroup")

	bindSystemBase(b)
	for _, f := range dnsFiles {
		b.BindReadOnly(f, "")
	}
	for _, p := range tlsTrustPaths {
		b.BindReadOnly(p, "")
	}
	for _, f := range identityFiles {
		b.BindReadOnly(f, "")
	}
	if isDir("/etc/alternatives") {
		b.BindReadOnly("/etc/alternatives", "")
	}

	b.Proc("/proc")
	b.Dev("/dev")
	b.Tmpfs("/tmp")
	b.Tmpfs("/run")

	bindPathDirs(b)
	bindToolchainDirs(b, hostHome)

	b.BindReadWrite(projectDir, "")
	b.BindReadWrite(sandboxHome, "")

	applyEnvironment(b, hostHome, sandboxHome, settings)

	b.Chdir(projectDir)
}

// bindSystemBase mounts /usr and the top-level system directories.
func bindSystemBase(b *Builder) {
	b.BindReadOnly("/usr", "")

	for _, root := range systemRoots {
		info, err := os.Lstat(root)
		switch {
		case err != nil:
			// Absent on this host, skip.
		case info.Mode()&os.ModeSymlink != 0:
			// "/bin" becomes a symlink to "usr/bin" inside the sandbox.
			b.Symlink("usr"+root, root)
		case info.IsDir():
			b.BindReadOnly(root, "")
		}
	}
}

// bindPathDirs binds every existing directory on the host PATH. The
// registry collapses duplicates, including directories already covered
// by the system base.
func bindPathDirs(b *Builder) {
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" || !isDir(dir) {
			continue
		}
		b.BindReadOnly(dir, "")
	}
}

func bindToolchainDirs(b *Builder, hostHome string) {
	for _, rel := range toolchainDirs {
		if dir := filepath.Join(hostHome, rel); isDir(dir) {
			b.BindReadOnly(dir, "")
		}
	}
}

func applyEnvironment(b *Builder, hostHome, sandboxHome string, settings config.Settings) {
	b.Setenv("HOME", sandboxHome)
	b.Setenv("XDG_CONFIG_HOME", filepath.Join(sandboxHome, ".config"))
	b.Setenv("XDG_DATA_HOME", filepath.Join(sandboxHome, ".local/share"))
	b.Setenv("XDG_CACHE_HOME", filepath.Join(sandboxHome, ".cache"))

	// Toolchain state points at the host-side directories so caches
	// survive sandbox resets.
	b.Setenv("MISE_DATA_DIR", filepath.Join(hostHome, ".local/share/mise"))
	b.Setenv("MISE_CONFIG_DIR", filepath.Join(hostHome, ".config/mise"))
	b.Setenv("CARGO_HOME", filepath.Join(hostHome, ".cargo"))
	b.Setenv("RUSTUP_HOME", filepath.Join(hostHome, ".rustup"))

	b.Setenv("PATH", os.Getenv("PATH"))
	b.Setenv("TERM", settings.Term)
	b.Setenv("LANG", settings.Lang)
	b.Setenv("SHELL", settings.Shell)

	for _, name := range forwardedEnv {
		if value := os.Getenv(name); value != "" {
			b.Setenv(name, value)
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
