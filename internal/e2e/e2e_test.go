//go:build e2e
// +build e2e

// End-to-end tests that launch real bubblewrap sandboxes. They require
// bwrap on PATH and working unprivileged user namespaces; run with:
//
//	go test -tags e2e ./internal/e2e/
package e2e

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/clodtool/clod/internal/config"
	"github.com/clodtool/clod/internal/sandbox"
)

func requireSandbox(t *testing.T) *sandbox.Capabilities {
	t.Helper()
	caps := sandbox.DetectCapabilities()
	if !caps.Ready() {
		t.Skip("bubblewrap or user namespaces unavailable")
	}
	return caps
}

func launch(t *testing.T, project string, settings config.Settings, inner ...string) error {
	t.Helper()
	caps := requireSandbox(t)

	sandboxHome := config.SandboxHome(project, settings)
	builder, err := sandbox.Initialize(project, sandboxHome, settings)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if !settings.EnableNetwork {
		builder.Unshare("net")
	}

	argv := builder.Build(inner...)
	cmd := exec.Command(caps.BwrapPath, argv[1:]...)
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func TestSandboxRunsCommand(t *testing.T) {
	project := t.TempDir()
	settings := config.DefaultSettings()

	if err := launch(t, project, settings, "sh", "-c", "true"); err != nil {
		t.Fatalf("sandboxed command failed: %v", err)
	}
}

func TestProjectWritesVisibleOnHost(t *testing.T) {
	project := t.TempDir()
	settings := config.DefaultSettings()

	err := launch(t, project, settings, "sh", "-c", "echo hello > marker.txt")
	if err != nil {
		t.Fatalf("sandboxed write failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(project, "marker.txt"))
	if err != nil {
		t.Fatalf("marker not visible on host: %v", err)
	}
	if string(data) != "hello\n" {
		t.Errorf("marker content = %q", data)
	}
}

func TestHomeIsSandboxHome(t *testing.T) {
	project := t.TempDir()
	settings := config.DefaultSettings()

	err := launch(t, project, settings, "sh", "-c", `echo "$HOME" > home.txt`)
	if err != nil {
		t.Fatalf("sandboxed command failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(project, "home.txt"))
	if err != nil {
		t.Fatal(err)
	}
	want := config.SandboxHome(project, settings) + "\n"
	if string(data) != want {
		t.Errorf("HOME inside sandbox = %q, want %q", data, want)
	}
}

func TestHostHomeNotWritable(t *testing.T) {
	project := t.TempDir()
	settings := config.DefaultSettings()
	hostHome, err := os.UserHomeDir()
	if err != nil {
		t.Fatal(err)
	}

	probe := filepath.Join(hostHome, "clod-e2e-probe")
	err = launch(t, project, settings, "sh", "-c", "touch "+probe)
	if err == nil {
		os.Remove(probe)
		t.Fatal("write to host home succeeded, expected failure")
	}
	if _, statErr := os.Stat(probe); statErr == nil {
		os.Remove(probe)
		t.Error("probe file appeared in host home")
	}
}

func TestNetworkDisabled(t *testing.T) {
	project := t.TempDir()
	settings := config.DefaultSettings().WithNetworkDisabled()

	// With the network namespace unshared only the loopback device
	// exists.
	err := launch(t, project, settings, "sh", "-c",
		`awk -F: 'NR>2 {gsub(/ /,"",$1); print $1}' /proc/net/dev > net.txt`)
	if err != nil {
		t.Fatalf("sandboxed command failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(project, "net.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "lo\n" {
		t.Errorf("interfaces in sandbox = %q, want only lo", data)
	}
}
