package cli

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"regexp"
	"strings"
	"syscall"

	"github.com/clodtool/clod/internal/config"
	"github.com/clodtool/clod/internal/log"
	"github.com/clodtool/clod/internal/sandbox"
	"github.com/clodtool/clod/internal/ui"
	"github.com/spf13/cobra"
)

var (
	noNetwork bool
	dryRun    bool
	shellMode bool
)

var jailCmd = &cobra.Command{
	Use:   "jail [-- claude args...]",
	Short: "Run Claude Code in a bubblewrap sandbox",
	Long: `Run Claude Code in a bubblewrap sandbox.

The sandbox uses the dev profile: the host system and your development
toolchains are visible read-only, the project directory is writable, and
HOME points at a sandbox home inside the project. On first use the
host's ~/.claude state is copied into the sandbox home so credentials
and settings carry over; later changes stay separate.

Examples:
  # Run in the current directory
  clod jail

  # Run in a specific directory
  clod jail -d ~/myproject

  # Use a specific config file
  clod jail -c myconfig.toml

  # Pass arguments to claude
  clod jail -- --help

  # Print the bwrap command without running it
  clod jail --dry-run

  # Drop into an interactive shell inside the sandbox
  clod jail --shell`,
	Args: cobra.ArbitraryArgs,
	RunE: runJail,
}

func init() {
	rootCmd.AddCommand(jailCmd)
	jailCmd.Flags().BoolVar(&noNetwork, "no-network", false, "disable network access")
	jailCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the bwrap command without executing it")
	jailCmd.Flags().BoolVar(&shellMode, "shell", false, "drop into an interactive shell instead of running claude")
}

func runJail(cmd *cobra.Command, args []string) error {
	bwrapPath, err := exec.LookPath("bwrap")
	if err != nil {
		return errors.New("bubblewrap not found; install it first (e.g. sudo apt install bubblewrap)")
	}

	var claudePath string
	if !shellMode {
		claudePath, err = exec.LookPath("claude")
		if err != nil {
			return errors.New("claude not found in PATH")
		}
	}

	project, err := resolveProjectDir()
	if err != nil {
		return err
	}

	settings, err := config.Load(project, configFile)
	if err != nil {
		return err
	}
	if noNetwork {
		settings = settings.WithNetworkDisabled()
	}

	sandboxHome := config.SandboxHome(project, settings)

	builder, err := sandbox.Initialize(project, sandboxHome, settings)
	if err != nil {
		return err
	}
	if !settings.EnableNetwork {
		builder.Unshare("net")
	}

	inner := innerCommand(settings, args)
	argv := builder.Build(inner...)

	if verbose || dryRun {
		printJailBanner(project, sandboxHome, settings, claudePath)
	}

	log.Debug("assembled sandbox plan",
		"project", project,
		"sandbox", sandboxHome,
		"network", settings.EnableNetwork,
		"args", len(argv),
	)

	if dryRun {
		fmt.Println("# bwrap command:")
		fmt.Println(shellJoin(argv))
		return nil
	}

	return runSandbox(bwrapPath, argv)
}

// innerCommand picks what runs inside the sandbox: the configured shell
// for --shell, otherwise claude with any passthrough arguments.
func innerCommand(settings config.Settings, args []string) []string {
	if shellMode {
		return []string{settings.Shell}
	}
	return append([]string{"claude"}, args...)
}

func printJailBanner(project, sandboxHome string, settings config.Settings, claudePath string) {
	fmt.Println(ui.Bold("clod"))
	fmt.Println("   Profile: dev")
	fmt.Printf("   Project: %s\n", ui.ShortenPath(project))
	fmt.Printf("   Sandbox: %s\n", ui.ShortenPath(sandboxHome))
	if shellMode {
		fmt.Printf("   Shell:   %s\n", settings.Shell)
	} else {
		fmt.Printf("   Claude:  %s\n", claudePath)
	}
	if !settings.EnableNetwork {
		fmt.Printf("   Network: %s disabled\n", ui.WarnTag())
	}
	fmt.Println()
}

// runSandbox executes bwrap as a child with inherited stdio and relays
// its exit status. A signal death maps to the conventional 128+signal
// code, so Ctrl+C surfaces as 130.
func runSandbox(bwrapPath string, argv []string) error {
	child := exec.Command(bwrapPath, argv[1:]...)
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	// The sandboxed process owns the terminal; SIGINT is its to handle.
	signal.Ignore(os.Interrupt)
	defer signal.Reset(os.Interrupt)

	err := child.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			code = 128 + int(ws.Signal())
		}
		return &ExitError{Code: code}
	}
	return fmt.Errorf("running sandbox: %w", err)
}

var shellSafe = regexp.MustCompile(`^[a-zA-Z0-9@%+=:,./_-]+$`)

// shellJoin renders argv as a copy-pasteable shell command.
func shellJoin(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		if shellSafe.MatchString(arg) {
			quoted[i] = arg
			continue
		}
		quoted[i] = "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
	}
	return strings.Join(quoted, " ")
}
