package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/treefang/mafcheck/internal/checker"
)

// CheckCommand holds the flags for the check command.
type CheckCommand struct {
	paranoid bool
	summary  bool
}

// NewCheckCommand creates and configures the check command.
func NewCheckCommand() *cobra.Command {
	cmd := &CheckCommand{}

	cobraCmd := &cobra.Command{
		Use:   "check INSTANCE [SOLUTION]",
		Short: "Validate an instance, or check a solution's feasibility",
		Long: `Check validates an instance file, and, when a solution file is given,
checks that every solution component embeds into every host tree. The first
failure aborts the run and reports the offending line numbers.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.paranoid, "paranoid", "p", false, "treat reader warnings as errors")
	cobraCmd.Flags().BoolVar(&cmd.summary, "summary", false, "print a per-host-tree forest summary")

	return cobraCmd
}

// Run executes the check command.
func (c *CheckCommand) Run(_ *cobra.Command, args []string) error {
	paranoid := c.paranoid || cfg.Paranoid

	if len(args) == 1 {
		instance, err := checker.CheckInstanceOnly(args[0], paranoid)
		if err != nil {
			return err
		}

		if !quiet {
			color.Green("Instance OK")
			fmt.Printf("Trees in instance: %s, leaves: %s\n",
				humanize.Comma(int64(instance.NumTrees())), humanize.Comma(int64(instance.NumLeaves)))
		}

		return nil
	}

	result, err := checker.CheckFiles(args[0], args[1], checker.Options{
		Paranoid:     paranoid,
		KeepInstance: c.summary,
	})
	if err != nil {
		return err
	}

	if quiet {
		return nil
	}

	color.Green("Solution is feasible")
	fmt.Printf("Trees in solution: %d\n", result.Solution.NumTrees())

	if c.summary {
		writeSummary(os.Stdout, result)
	}

	return nil
}

// writeSummary renders one row per host tree with the size of its final
// forest after all components were isolated.
func writeSummary(out io.Writer, result *checker.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Host Tree (line)", "Forest Roots"})

	for i, f := range result.Forests {
		line := 0
		if result.Instance != nil {
			line = result.Instance.Trees[i].Line
		}

		t.AppendRow(table.Row{line, humanize.Comma(int64(len(f.Roots())))})
	}

	t.Render()
}
