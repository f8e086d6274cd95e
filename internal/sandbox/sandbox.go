package sandbox

import (
	"os"

	"github.com/clodtool/clod/internal/config"
)

// Initialize prepares the sandbox home on disk and returns a Builder
// loaded with the dev profile. The network namespace is left untouched;
// the caller unshares it after inspecting settings so a runtime
// override can flip it without rebuilding the profile.
func Initialize(projectDir, sandboxHome string, settings config.Settings) (*Builder, error) {
	hostHome, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	if err := InitHome(sandboxHome); err != nil {
		return nil, err
	}
	if err := copyClaudeConfig(hostHome, sandboxHome); err != nil {
		return nil, err
	}

	b := NewBuilder()
	applyDevProfile(b, projectDir, hostHome, sandboxHome, settings)
	return b, nil
}
