package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/treefang/mafcheck/internal/checker"
	"github.com/treefang/mafcheck/internal/dot"
	"github.com/treefang/mafcheck/internal/reader"
)

// DotCommand holds the flags for the dot command.
type DotCommand struct {
	paranoid bool
	output   string
}

// NewDotCommand creates and configures the dot command.
func NewDotCommand() *cobra.Command {
	cmd := &DotCommand{}

	cobraCmd := &cobra.Command{
		Use:   "dot INSTANCE [SOLUTION]",
		Short: "Render an instance as GraphViz DOT, optionally with a solution overlay",
		Long: `Dot renders every host tree of an instance in GraphViz DOT format. When a
solution is given it is checked first, leaves are colored by their owning
component, and edges cut during matching are dashed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.paranoid, "paranoid", "p", false, "treat reader warnings as errors")
	cobraCmd.Flags().StringVarP(&cmd.output, "output", "o", "", "output file (default: stdout)")

	return cobraCmd
}

// Run executes the dot command.
func (c *DotCommand) Run(_ *cobra.Command, args []string) error {
	paranoid := c.paranoid || cfg.Paranoid

	var writer *dot.Writer

	if len(args) == 2 {
		result, err := checker.CheckFiles(args[0], args[1], checker.Options{
			Paranoid:     paranoid,
			KeepInstance: true,
		})
		if err != nil {
			return err
		}

		writer = dot.NewWriter(result.Instance)
		writer.ColorLeaves(result.Solution, result.Forests)
	} else {
		instance, err := reader.ReadInstanceFile(args[0], paranoid)
		if err != nil {
			return err
		}

		writer = dot.NewWriter(instance)
	}

	out, closeOut, err := c.openOutput()
	if err != nil {
		return err
	}
	defer closeOut()

	return writer.Write(out)
}

func (c *DotCommand) openOutput() (io.Writer, func(), error) {
	if c.output == "" {
		return os.Stdout, func() {}, nil
	}

	file, err := os.Create(c.output)
	if err != nil {
		return nil, nil, fmt.Errorf("create output file: %w", err)
	}

	return file, func() { file.Close() }, nil
}
