// Package cli implements the clod command-line interface using Cobra.
// It provides commands for running Claude Code inside a bubblewrap
// sandbox and for diagnosing the host environment.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/clodtool/clod/internal/log"
	"github.com/spf13/cobra"
)

var (
	configFile string
	projectDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "clod",
	Short: "clod - Minimal bubblewrap sandbox for Claude Code",
	Long: `clod runs Claude Code inside a bubblewrap (bwrap) sandbox rooted at a
project directory. Development tools stay available read-only while your
real home directory stays out of reach; the sandbox gets its own home
under the project (.claude-sandbox by default).

Configuration is layered TOML: ~/.config/clod/config.toml, then the
project's clod.toml (or .clod/config.toml), then clod.local.toml (or
.clod/config.local.toml), with CLOD_* environment variables on top.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Init(log.Options{Verbose: verbose})
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "use a specific config file (skips discovery)")
	rootCmd.PersistentFlags().StringVarP(&projectDir, "dir", "d", "", "project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// ExitError carries a specific process exit code to main, used to relay
// the sandboxed command's status.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// resolveProjectDir resolves the --dir flag (or the current directory)
// to an absolute, existing directory.
func resolveProjectDir() (string, error) {
	dir := projectDir
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving project directory: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("project directory %q: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("project directory %q is not a directory", abs)
	}
	return abs, nil
}
