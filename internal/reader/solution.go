package reader

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/treefang/mafcheck/internal/bintree"
	"github.com/treefang/mafcheck/internal/lint"
)

// Solution is a parsed candidate solution: one component per tree line, in
// file order.
type Solution struct {
	Trees       []Tree
	StrideLines []StrideLine
}

// NumTrees returns the number of solution components, isolated leaves
// included.
func (s *Solution) NumTrees() int {
	return len(s.Trees)
}

// FoundHeaderWarning reports an instance header inside a solution file;
// solutions should not provide one.
type FoundHeaderWarning struct {
	Line int
}

func (e *FoundHeaderWarning) Error() string {
	return fmt.Sprintf("reader: line %d contains an instance header, but solutions should not provide one", e.Line)
}

// InvalidSolutionLeavesError reports that the solution's components fail
// the combined leaf-coverage lint.
type InvalidSolutionLeavesError struct {
	Err error
}

func (e *InvalidSolutionLeavesError) Error() string {
	return fmt.Sprintf("reader: solution has invalid leaves: %v", e.Err)
}

func (e *InvalidSolutionLeavesError) Unwrap() error { return e.Err }

// solutionVisitor accumulates one pass over a solution file. Unlike the
// instance side, unrecognized lines are only warnings here.
type solutionVisitor struct {
	errors      []error
	warnings    []error
	trees       []Tree
	strideLines []StrideLine
}

func (v *solutionVisitor) visitHeader(line int, _, _ uint32) {
	v.warnings = append(v.warnings, &FoundHeaderWarning{Line: line})
}

func (v *solutionVisitor) visitTree(line int, text string) {
	root, err := bintree.Parse(text, 0)
	if err != nil {
		v.errors = append(v.errors, &InvalidNewickError{Line: line, Err: err})

		return
	}

	v.trees = append(v.trees, Tree{Line: line, Root: root})
}

func (v *solutionVisitor) visitStride(line int, key, value string) {
	if !json.Valid([]byte(value)) {
		v.errors = append(v.errors, &JSONSyntaxError{Line: line, Err: fmt.Errorf("invalid JSON value %q", value)})

		return
	}

	v.strideLines = append(v.strideLines, StrideLine{Key: key, Value: json.RawMessage(value)})
}

func (v *solutionVisitor) visitUnrecognizedDash(line int) {
	v.warnings = append(v.warnings, &UnrecognizedDashLineError{Line: line})
}

func (v *solutionVisitor) visitUnrecognized(line int) {
	v.warnings = append(v.warnings, &UnrecognizedLineError{Line: line})
}

func (v *solutionVisitor) visitExtraWhitespace(line int) {
	v.warnings = append(v.warnings, &ExtraWhitespaceWarning{Line: line})
}

// ReadSolution parses a candidate solution against a leaf universe of size
// numLeaves. The components together must partition [1, numLeaves]. All
// warnings and errors are logged; the first error aborts the read, and under
// the paranoid policy the first warning does too.
func ReadSolution(r io.Reader, numLeaves uint32, paranoid bool) (*Solution, error) {
	v := &solutionVisitor{}

	if err := scan(r, v); err != nil {
		return nil, err
	}

	roots := make([]*bintree.Node, 0, len(v.trees))
	for _, t := range v.trees {
		roots = append(roots, t.Root)
	}

	if err := lint.LeafLabelCoverage(roots, numLeaves); err != nil {
		v.errors = append(v.errors, &InvalidSolutionLeavesError{Err: err})
	}

	for _, w := range v.warnings {
		slog.Warn("solution reader", "warning", w)
	}

	for _, e := range v.errors {
		slog.Error("solution reader", "error", e)
	}

	if len(v.errors) > 0 {
		return nil, v.errors[0]
	}

	if paranoid && len(v.warnings) > 0 {
		return nil, fmt.Errorf("reader: warning while reading solution (paranoid mode): %w", v.warnings[0])
	}

	return &Solution{
		Trees:       v.trees,
		StrideLines: v.strideLines,
	}, nil
}

// ReadSolutionFile parses a candidate solution from a file on disk.
func ReadSolutionFile(path string, numLeaves uint32, paranoid bool) (*Solution, error) {
	slog.Debug("read solution", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}
	defer file.Close()

	return ReadSolution(file, numLeaves, paranoid)
}
