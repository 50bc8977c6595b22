// Package commands implements the mafcheck CLI commands.
package commands

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/treefang/mafcheck/internal/config"
)

var (
	cfgFile string
	verbose bool
	quiet   bool

	// cfg is populated by the root command's persistent pre-run and read by
	// every subcommand.
	cfg *config.Config
)

// NewRootCommand creates the mafcheck root command with all subcommands
// attached.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mafcheck",
		Short: "Maximum Agreement Forest feasibility checker",
		Long: `Mafcheck validates candidate solutions to the Maximum Agreement Forest
problem: every solution component must embed as a rooted subtree into every
host tree of the instance, partitioning the leaves consistently.

Commands:
  check     Validate an instance, or an instance/solution pair
  digest    Print canonical fingerprints for an instance or solution
  dot       Render an instance (and solution overlay) as GraphViz DOT`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setup()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .mafcheck.yaml in CWD or $HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all output except errors")

	rootCmd.AddCommand(NewCheckCommand())
	rootCmd.AddCommand(NewDigestCommand())
	rootCmd.AddCommand(NewDotCommand())

	return rootCmd
}

// setup loads the configuration and installs the process-wide logger and
// color policy.
func setup() error {
	loaded, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	cfg = loaded

	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}

	if verbose {
		level = slog.LevelDebug
	}

	if quiet {
		level = slog.LevelError
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	switch cfg.Color {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	}

	return nil
}
