package sandbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/clodtool/clod/internal/config"
)

// devProfileFixture builds a dev profile plan against temp directories.
func devProfileFixture(t *testing.T, settings config.Settings) (b *Builder, project, hostHome, sandboxHome string) {
	t.Helper()
	project = t.TempDir()
	hostHome = t.TempDir()
	sandboxHome = filepath.Join(project, settings.SandboxName)
	if err := os.MkdirAll(sandboxHome, 0o755); err != nil {
		t.Fatal(err)
	}

	b = NewBuilder()
	applyDevProfile(b, project, hostHome, sandboxHome, settings)
	return b, project, hostHome, sandboxHome
}

func TestDevProfileNamespaces(t *testing.T) {
	b, _, _, _ := devProfileFixture(t, config.DefaultSettings())
	args := b.Build()

	for _, flag := range []string{
		"--unshare-user", "--unshare-pid", "--unshare-uts",
		"--unshare-ipc", "--unshare-cgroup",
	} {
		if countOps(args, flag) != 1 {
			t.Errorf("missing %s", flag)
		}
	}
	if countOps(args, "--unshare-net") != 0 {
		t.Error("network must stay shared by default")
	}
}

func TestDevProfileNetworkDisabled(t *testing.T) {
	settings := config.DefaultSettings().WithNetworkDisabled()
	b, _, _, _ := devProfileFixture(t, settings)

	// The jail command adds the net unshare after the profile, driven
	// by the resolved settings.
	if !settings.EnableNetwork {
		b.Unshare("net")
	}

	args := b.Build()
	for _, flag := range []string{
		"--unshare-user", "--unshare-pid", "--unshare-uts",
		"--unshare-ipc", "--unshare-cgroup", "--unshare-net",
	} {
		if countOps(args, flag) != 1 {
			t.Errorf("missing %s", flag)
		}
	}
}

func TestDevProfileCoreMounts(t *testing.T) {
	b, project, _, sandboxHome := devProfileFixture(t, config.DefaultSettings())
	args := b.Build()

	if countOps(args, "--proc", "/proc") != 1 || countOps(args, "--dev", "/dev") != 1 {
		t.Error("missing /proc or /dev")
	}
	if countOps(args, "--tmpfs", "/tmp") != 1 || countOps(args, "--tmpfs", "/run") != 1 {
		t.Error("missing tmpfs mounts")
	}
	if countOps(args, "--bind", project, project) != 1 {
		t.Error("project must be bound read-write at itself")
	}
	if countOps(args, "--bind", sandboxHome, sandboxHome) != 1 {
		t.Error("sandbox home must be bound read-write at itself")
	}
	if countOps(args, "--chdir", project) != 1 {
		t.Error("working directory must be the project")
	}
}

func TestDevProfilePathDedup(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+dir)

	b, _, _, _ := devProfileFixture(t, config.DefaultSettings())
	args := b.Build()

	count := 0
	for i := 0; i+2 < len(args); i++ {
		if args[i] == "--ro-bind" && args[i+2] == dir {
			count++
		}
	}
	if count != 1 {
		t.Errorf("PATH dir bound %d times, want 1: %v", count, args)
	}
}

func TestDevProfileToolchainDirs(t *testing.T) {
	settings := config.DefaultSettings()
	project := t.TempDir()
	hostHome := t.TempDir()
	sandboxHome := filepath.Join(project, settings.SandboxName)

	cargo := filepath.Join(hostHome, ".cargo")
	if err := os.MkdirAll(cargo, 0o755); err != nil {
		t.Fatal(err)
	}

	b := NewBuilder()
	applyDevProfile(b, project, hostHome, sandboxHome, settings)
	args := b.Build()

	if countOps(args, "--ro-bind", cargo, cargo) != 1 {
		t.Errorf("existing ~/.cargo must be bound read-only: %v", args)
	}
	// Absent managers are skipped without error.
	nvm := filepath.Join(hostHome, ".nvm")
	for i := 0; i+2 < len(args); i++ {
		if args[i] == "--ro-bind" && args[i+2] == nvm {
			t.Errorf("absent ~/.nvm must not be bound")
		}
	}
	// Cargo env always points at the host-side location.
	if countOps(args, "--setenv", "CARGO_HOME", cargo) != 1 {
		t.Errorf("CARGO_HOME must point at the host directory: %v", args)
	}
}

func TestDevProfileEnvironment(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Term = "tmux-256color"
	t.Setenv("GIT_AUTHOR_NAME", "Dev Eloper")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("HTTP_PROXY", "")

	b, _, _, sandboxHome := devProfileFixture(t, settings)
	args := b.Build()

	if countOps(args, "--setenv", "HOME", sandboxHome) != 1 {
		t.Error("HOME must be the sandbox home")
	}
	if countOps(args, "--setenv", "XDG_CONFIG_HOME", filepath.Join(sandboxHome, ".config")) != 1 {
		t.Error("XDG_CONFIG_HOME must live under the sandbox home")
	}
	if countOps(args, "--setenv", "TERM", "tmux-256color") != 1 {
		t.Error("TERM must come from settings")
	}
	if countOps(args, "--setenv", "GIT_AUTHOR_NAME", "Dev Eloper") != 1 {
		t.Error("set git identity must be forwarded")
	}
	if countOps(args, "--setenv", "ANTHROPIC_API_KEY", "sk-test") != 1 {
		t.Error("API key must be forwarded when set")
	}
	if countOps(args, "--setenv", "HTTP_PROXY", "") != 0 {
		t.Error("unset proxy vars must not be forwarded")
	}
}
