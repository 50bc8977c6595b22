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

// Tree pairs a parsed tree with the 1-based input line it came from.
type Tree struct {
	Line int
	Root *bintree.Node
}

// Instance is a parsed host instance: the header's leaf-universe size plus
// one tree per tree line, in file order.
type Instance struct {
	Trees       []Tree
	StrideLines []StrideLine
	NumLeaves   uint32
}

// NumTrees returns the number of host trees.
func (i *Instance) NumTrees() uint32 {
	return uint32(len(i.Trees))
}

// Instance reading errors.
type (
	// NoHeaderBeforeFirstTreeError reports a tree line before the header.
	NoHeaderBeforeFirstTreeError struct {
		Line int
	}

	// NoHeaderFoundError reports an input without any header line.
	NoHeaderFoundError struct{}

	// InvalidNewickError reports an unparsable tree line.
	InvalidNewickError struct {
		Line int
		Err  error
	}

	// TreeCountMismatchError reports a header/tree-line count disagreement.
	TreeCountMismatchError struct {
		Expected int
		Found    int
	}

	// InvalidLeafLabelsError reports a tree whose leaf labels fail the
	// coverage lint.
	InvalidLeafLabelsError struct {
		Line      int
		TreeIndex int
		Err       error
	}

	// JSONSyntaxError reports a stride line whose value is not valid JSON.
	JSONSyntaxError struct {
		Line int
		Err  error
	}

	// ExtraWhitespaceWarning reports a line with surrounding whitespace.
	ExtraWhitespaceWarning struct {
		Line int
	}

	// UnrecognizedDashLineError reports a `#` line that is neither a
	// header, a comment, nor a stride line.
	UnrecognizedDashLineError struct {
		Line int
	}

	// UnrecognizedLineError reports a line that fits no known class.
	UnrecognizedLineError struct {
		Line int
	}
)

func (e *NoHeaderBeforeFirstTreeError) Error() string {
	return fmt.Sprintf("reader: line %d contains tree, but no header read yet", e.Line)
}

func (e *NoHeaderFoundError) Error() string {
	return "reader: no header found in the input"
}

func (e *InvalidNewickError) Error() string {
	return fmt.Sprintf("reader: line %d contains invalid newick string: %v", e.Line, e.Err)
}

func (e *InvalidNewickError) Unwrap() error { return e.Err }

func (e *TreeCountMismatchError) Error() string {
	return fmt.Sprintf("reader: header indicates %d trees, but found %d", e.Expected, e.Found)
}

func (e *InvalidLeafLabelsError) Error() string {
	return fmt.Sprintf("reader: tree %d in line %d has invalid leaf labels: %v", e.TreeIndex, e.Line, e.Err)
}

func (e *InvalidLeafLabelsError) Unwrap() error { return e.Err }

func (e *JSONSyntaxError) Error() string {
	return fmt.Sprintf("reader: line %d has invalid JSON syntax: %v", e.Line, e.Err)
}

func (e *JSONSyntaxError) Unwrap() error { return e.Err }

func (e *ExtraWhitespaceWarning) Error() string {
	return fmt.Sprintf("reader: line %d has extra whitespace", e.Line)
}

func (e *UnrecognizedDashLineError) Error() string {
	return fmt.Sprintf("reader: line %d starts with '#', but is neither a header ('#p') nor a comment ('# ')", e.Line)
}

func (e *UnrecognizedLineError) Error() string {
	return fmt.Sprintf("reader: line %d is neither a comment, header, nor a tree", e.Line)
}

// instanceVisitor accumulates everything one pass over an instance file
// produces: trees, stride payloads, errors, and warnings.
type instanceVisitor struct {
	errors      []error
	warnings    []error
	headerSeen  bool
	numTrees    uint32
	numLeaves   uint32
	trees       []Tree
	strideLines []StrideLine
	nextInnerID bintree.NodeIdx
}

func (v *instanceVisitor) visitHeader(_ int, numTrees, numLeaves uint32) {
	v.headerSeen = true
	v.numTrees = numTrees
	v.numLeaves = numLeaves
	v.nextInnerID = bintree.NodeIdx(1 + numLeaves)
}

func (v *instanceVisitor) visitTree(line int, text string) {
	if !v.headerSeen {
		v.errors = append(v.errors, &NoHeaderBeforeFirstTreeError{Line: line})
	}

	root, err := bintree.Parse(text, v.nextInnerID)
	if err != nil {
		v.errors = append(v.errors, &InvalidNewickError{Line: line, Err: err})
	} else {
		v.trees = append(v.trees, Tree{Line: line, Root: root})
	}

	// Advance the identity range by a full tree's worth so every host
	// tree's inner nodes stay disjoint.
	v.nextInnerID += bintree.NodeIdx(v.numLeaves)
}

func (v *instanceVisitor) visitStride(line int, key, value string) {
	if !json.Valid([]byte(value)) {
		v.errors = append(v.errors, &JSONSyntaxError{Line: line, Err: fmt.Errorf("invalid JSON value %q", value)})

		return
	}

	v.strideLines = append(v.strideLines, StrideLine{Key: key, Value: json.RawMessage(value)})
}

func (v *instanceVisitor) visitUnrecognizedDash(line int) {
	v.errors = append(v.errors, &UnrecognizedDashLineError{Line: line})
}

func (v *instanceVisitor) visitUnrecognized(line int) {
	v.errors = append(v.errors, &UnrecognizedLineError{Line: line})
}

func (v *instanceVisitor) visitExtraWhitespace(line int) {
	v.warnings = append(v.warnings, &ExtraWhitespaceWarning{Line: line})
}

// finish applies the whole-file checks that only make sense once every line
// was seen: header presence, tree count, per-tree leaf coverage.
func (v *instanceVisitor) finish() {
	if !v.headerSeen {
		v.errors = append(v.errors, &NoHeaderFoundError{})

		return
	}

	if int(v.numTrees) != len(v.trees) {
		v.errors = append(v.errors, &TreeCountMismatchError{
			Expected: int(v.numTrees),
			Found:    len(v.trees),
		})
	}

	for i, tree := range v.trees {
		err := lint.LeafLabelCoverage([]*bintree.Node{tree.Root}, v.numLeaves)
		if err != nil {
			v.errors = append(v.errors, &InvalidLeafLabelsError{
				Line:      tree.Line,
				TreeIndex: i + 1,
				Err:       err,
			})
		}
	}
}

// ReadInstance parses a host instance. All warnings and errors are logged;
// the first error aborts the read, and under the paranoid policy the first
// warning does too.
func ReadInstance(r io.Reader, paranoid bool) (*Instance, error) {
	v := &instanceVisitor{}

	if err := scan(r, v); err != nil {
		return nil, err
	}

	v.finish()

	for _, w := range v.warnings {
		slog.Warn("instance reader", "warning", w)
	}

	for _, e := range v.errors {
		slog.Error("instance reader", "error", e)
	}

	if len(v.errors) > 0 {
		return nil, v.errors[0]
	}

	if paranoid && len(v.warnings) > 0 {
		return nil, fmt.Errorf("reader: warning while reading instance (paranoid mode): %w", v.warnings[0])
	}

	return &Instance{
		Trees:       v.trees,
		StrideLines: v.strideLines,
		NumLeaves:   v.numLeaves,
	}, nil
}

// ReadInstanceFile parses a host instance from a file on disk.
func ReadInstanceFile(path string, paranoid bool) (*Instance, error) {
	slog.Debug("read instance", "path", path)

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reader: %w", err)
	}
	defer file.Close()

	return ReadInstance(file, paranoid)
}
