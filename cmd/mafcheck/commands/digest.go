package commands

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/treefang/mafcheck/internal/bintree"
	"github.com/treefang/mafcheck/internal/digest"
	"github.com/treefang/mafcheck/internal/reader"
)

// DigestCommand holds the flags for the digest command.
type DigestCommand struct {
	paranoid bool
}

// NewDigestCommand creates and configures the digest command.
func NewDigestCommand() *cobra.Command {
	cmd := &DigestCommand{}

	cobraCmd := &cobra.Command{
		Use:   "digest INSTANCE [SOLUTION]",
		Short: "Print canonical fingerprints for an instance or solution",
		Long: `Digest computes order-invariant 128-bit fingerprints: reordering trees,
reordering solution components, or swapping children anywhere never changes
the output. Useful as a dedup or regression key.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: cmd.Run,
	}

	cobraCmd.Flags().BoolVarP(&cmd.paranoid, "paranoid", "p", false, "treat reader warnings as errors")

	return cobraCmd
}

// Run executes the digest command.
func (c *DigestCommand) Run(_ *cobra.Command, args []string) error {
	paranoid := c.paranoid || cfg.Paranoid

	instance, err := reader.ReadInstanceFile(args[0], paranoid)
	if err != nil {
		return err
	}

	instanceDigest, err := digest.Instance(treeRoots(instance.Trees), instance.NumLeaves)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Kind", "Digest"})
	t.AppendRow(table.Row{"instance", instanceDigest.String()})

	if len(args) == 2 {
		solution, err := reader.ReadSolutionFile(args[1], instance.NumLeaves, paranoid)
		if err != nil {
			return err
		}

		solutionDigest, err := digest.Solution(treeRoots(solution.Trees), uint32(solution.NumTrees()))
		if err != nil {
			return err
		}

		t.AppendRow(table.Row{"solution", solutionDigest.String()})
	}

	t.Render()

	return nil
}

func treeRoots(trees []reader.Tree) []*bintree.Node {
	roots := make([]*bintree.Node, 0, len(trees))
	for _, t := range trees {
		roots = append(roots, t.Root)
	}

	return roots
}
