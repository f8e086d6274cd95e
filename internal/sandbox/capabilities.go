package sandbox

import (
	"os"
	"os/exec"
	"strings"
)

// Capabilities describes what the host offers for sandboxing. Probed by
// the doctor command; the jail itself only requires bwrap on PATH.
type Capabilities struct {
	// BwrapPath is the bubblewrap executable, empty when not installed.
	BwrapPath string

	// BwrapVersion is the output of bwrap --version.
	BwrapVersion string

	// UserNamespaces is true when unprivileged user namespaces work.
	UserNamespaces bool

	// ClaudePath is the claude executable, empty when not on PATH.
	ClaudePath string
}

// DetectCapabilities probes the host for sandbox prerequisites.
func DetectCapabilities() *Capabilities {
	caps := &Capabilities{}

	if path, err := exec.LookPath("bwrap"); err == nil {
		caps.BwrapPath = path
		if out, err := exec.Command(path, "--version").Output(); err == nil {
			caps.BwrapVersion = strings.TrimSpace(string(out))
		}
		caps.UserNamespaces = checkUserNamespaces(path)
	}

	if path, err := exec.LookPath("claude"); err == nil {
		caps.ClaudePath = path
	}

	return caps
}

// Ready reports whether a sandbox can actually be started.
func (c *Capabilities) Ready() bool {
	return c.BwrapPath != "" && c.UserNamespaces
}

// checkUserNamespaces tests whether unprivileged user namespaces work.
func checkUserNamespaces(bwrapPath string) bool {
	// Debian kernels expose a sysctl; 0 means disabled. Absence of the
	// file usually means user namespaces are allowed.
	data, err := os.ReadFile("/proc/sys/kernel/unprivileged_userns_clone")
	if err == nil && strings.TrimSpace(string(data)) == "0" {
		return false
	}

	cmd := exec.Command(bwrapPath,
		"--unshare-user",
		"--ro-bind", "/", "/",
		"--",
		"true",
	)
	return cmd.Run() == nil
}
