// Package checker orchestrates one feasibility run: every solution
// component must embed, in file order, into every host tree. The first
// failure anywhere aborts the run with its file location.
package checker

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/treefang/mafcheck/internal/forest"
	"github.com/treefang/mafcheck/internal/reader"
)

// TreeInsertionError reports that a host tree could not be registered with
// its forest.
type TreeInsertionError struct {
	Line int
	Err  error
}

func (e *TreeInsertionError) Error() string {
	return fmt.Sprintf("checker: failed to add input tree in line %d to forest: %v", e.Line, e.Err)
}

func (e *TreeInsertionError) Unwrap() error { return e.Err }

// MismatchError reports a solution component that has no valid embedding in
// a host tree.
type MismatchError struct {
	InstanceLine int
	SolutionLine int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checker: failed to match solution subtree in line %d to instance tree in line %d",
		e.SolutionLine, e.InstanceLine)
}

// Result is the outcome of a feasible run. Instance is nil unless its
// retention was requested; Forests holds one final forest per host tree, in
// file order, for downstream inspection or visualization.
type Result struct {
	Instance *reader.Instance
	Solution *reader.Solution
	Forests  []*forest.Forest
}

// Options control a checker run.
type Options struct {
	// Paranoid turns reader warnings into fatal errors.
	Paranoid bool

	// KeepInstance retains the parsed instance on the result.
	KeepInstance bool
}

// CheckInstanceOnly validates that an instance file parses and lints.
func CheckInstanceOnly(path string, paranoid bool) (*reader.Instance, error) {
	return reader.ReadInstanceFile(path, paranoid)
}

// CheckFiles runs a full feasibility check over an instance file and a
// solution file.
func CheckFiles(instancePath, solutionPath string, opts Options) (*Result, error) {
	instanceFile, err := os.Open(instancePath)
	if err != nil {
		return nil, fmt.Errorf("checker: %w", err)
	}
	defer instanceFile.Close()

	solutionFile, err := os.Open(solutionPath)
	if err != nil {
		return nil, fmt.Errorf("checker: %w", err)
	}
	defer solutionFile.Close()

	return Check(instanceFile, solutionFile, opts)
}

// Check runs a full feasibility check: one forest per host tree, every
// solution component isolated in file order. It fails fast on the first
// registration failure or embedding mismatch, no retries and no recovery.
func Check(instanceReader, solutionReader io.Reader, opts Options) (*Result, error) {
	instance, err := reader.ReadInstance(instanceReader, opts.Paranoid)
	if err != nil {
		return nil, err
	}

	solution, err := reader.ReadSolution(solutionReader, instance.NumLeaves, opts.Paranoid)
	if err != nil {
		return nil, err
	}

	forests := make([]*forest.Forest, 0, instance.NumTrees())

	for _, hostTree := range instance.Trees {
		f := forest.New(instance.NumLeaves)

		if err := f.AddTree(hostTree.Root); err != nil {
			return nil, &TreeInsertionError{Line: hostTree.Line, Err: err}
		}

		for _, component := range solution.Trees {
			if !f.IsolateTree(component.Root) {
				return nil, &MismatchError{
					InstanceLine: hostTree.Line,
					SolutionLine: component.Line,
				}
			}
		}

		forests = append(forests, f)
	}

	slog.Debug("feasible solution found", "components", solution.NumTrees())

	result := &Result{
		Solution: solution,
		Forests:  forests,
	}

	if opts.KeepInstance {
		result.Instance = instance
	}

	return result, nil
}
