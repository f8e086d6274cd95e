package cli

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"text/tabwriter"

	"github.com/clodtool/clod/internal/config"
	"github.com/clodtool/clod/internal/doctor"
	"github.com/clodtool/clod/internal/sandbox"
	"github.com/clodtool/clod/internal/ui"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose the host environment for sandboxing",
	Long: `Diagnose the host environment for sandboxing.

Checks that bubblewrap is installed, that unprivileged user namespaces
work, that claude is on PATH, and reports which configuration files
would be used for the project directory.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	reg := doctor.NewRegistry()
	reg.Register(&platformSection{})
	reg.Register(&bwrapSection{caps: sandbox.DetectCapabilities()})
	reg.Register(&configSection{})

	for i, s := range reg.Sections() {
		if i > 0 {
			fmt.Println()
		}
		ui.Section(s.Name())
		if err := s.Print(os.Stdout); err != nil {
			ui.Warnf("%s: %v", s.Name(), err)
		}
	}
	return nil
}

type platformSection struct{}

func (s *platformSection) Name() string { return "Platform" }

func (s *platformSection) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "clod\t%s\n", Version())
	fmt.Fprintf(tw, "os/arch\t%s/%s\n", runtime.GOOS, runtime.GOARCH)

	var uts unix.Utsname
	if err := unix.Uname(&uts); err == nil {
		fmt.Fprintf(tw, "kernel\t%s\n", unix.ByteSliceToString(uts.Release[:]))
	}
	return tw.Flush()
}

type bwrapSection struct {
	caps *sandbox.Capabilities
}

func (s *bwrapSection) Name() string { return "Sandbox" }

func (s *bwrapSection) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	if s.caps.BwrapPath != "" {
		fmt.Fprintf(tw, "%s\tbubblewrap\t%s (%s)\n", ui.OKTag(), s.caps.BwrapPath, s.caps.BwrapVersion)
	} else {
		fmt.Fprintf(tw, "%s\tbubblewrap\tnot found (install it, e.g. sudo apt install bubblewrap)\n", ui.FailTag())
	}

	if s.caps.UserNamespaces {
		fmt.Fprintf(tw, "%s\tuser namespaces\tavailable\n", ui.OKTag())
	} else {
		fmt.Fprintf(tw, "%s\tuser namespaces\tunavailable\n", ui.FailTag())
	}

	if s.caps.ClaudePath != "" {
		fmt.Fprintf(tw, "%s\tclaude\t%s\n", ui.OKTag(), s.caps.ClaudePath)
	} else {
		fmt.Fprintf(tw, "%s\tclaude\tnot found in PATH\n", ui.FailTag())
	}

	if err := tw.Flush(); err != nil {
		return err
	}
	if !s.caps.Ready() {
		fmt.Fprintf(w, "\n%s sandboxing will not work until the failures above are fixed\n", ui.WarnTag())
	}
	return nil
}

type configSection struct{}

func (s *configSection) Name() string { return "Configuration" }

func (s *configSection) Print(w io.Writer) error {
	project, err := resolveProjectDir()
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "project\t%s\n", ui.ShortenPath(project))

	if configFile != "" {
		fmt.Fprintf(tw, "config file\t%s (explicit)\n", ui.ShortenPath(configFile))
	} else {
		files, err := config.Discover(project)
		if err != nil {
			return err
		}
		printTier(tw, "user config", files.User)
		printTier(tw, "project config", files.ProjectBase)
		printTier(tw, "local config", files.ProjectLocal)
	}
	settings, err := config.Load(project, configFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(tw, "sandbox home\t%s\n", ui.ShortenPath(config.SandboxHome(project, settings)))
	fmt.Fprintf(tw, "network\t%v\n", settings.EnableNetwork)
	return tw.Flush()
}

func printTier(w io.Writer, label, path string) {
	if path != "" {
		fmt.Fprintf(w, "%s\t%s\n", label, ui.ShortenPath(path))
	} else {
		fmt.Fprintf(w, "%s\t%s\n", label, ui.Dim("none"))
	}
}
