// Package lint validates leaf-label coverage: a group of trees must use
// every label in [1, n] exactly once.
package lint

import (
	"errors"
	"fmt"
	"slices"

	"github.com/treefang/mafcheck/internal/bintree"
)

// InvalidLabelError reports a leaf label outside [1, Expected].
type InvalidLabelError struct {
	Label    bintree.Label
	Expected uint32
}

func (e *InvalidLabelError) Error() string {
	return fmt.Sprintf("lint: found leaf with label %d, but expected labels in [1, %d]", e.Label, e.Expected)
}

// TooManyLeavesError reports more leaves than the expected universe size.
type TooManyLeavesError struct {
	Expected uint32
}

func (e *TooManyLeavesError) Error() string {
	return fmt.Sprintf("lint: found more than %d leaves", e.Expected)
}

// TooFewLeavesError reports fewer leaves than the expected universe size.
type TooFewLeavesError struct {
	Found    uint32
	Expected uint32
}

func (e *TooFewLeavesError) Error() string {
	return fmt.Sprintf("lint: found only %d leaves, but expected %d", e.Found, e.Expected)
}

// ErrDuplicateLeafLabels reports that two leaves carry the same label.
var ErrDuplicateLeafLabels = errors.New("lint: found duplicate leaf labels")

// LeafLabelCoverage checks that the leaves across all given trees carry
// labels in [1, expectedNumLeaves], without duplicates, and that exactly
// expectedNumLeaves leaves occur in total.
func LeafLabelCoverage(trees []*bintree.Node, expectedNumLeaves uint32) error {
	leaves := make([]bintree.Label, 0, expectedNumLeaves)

	for _, tree := range trees {
		for node := range tree.DFS() {
			label, ok := node.LeafLabel()
			if !ok {
				continue
			}

			if label < 1 || uint32(label) > expectedNumLeaves {
				return &InvalidLabelError{Label: label, Expected: expectedNumLeaves}
			}

			if uint32(len(leaves)) == expectedNumLeaves {
				return &TooManyLeavesError{Expected: expectedNumLeaves}
			}

			leaves = append(leaves, label)
		}
	}

	if uint32(len(leaves)) < expectedNumLeaves {
		return &TooFewLeavesError{Found: uint32(len(leaves)), Expected: expectedNumLeaves}
	}

	slices.Sort(leaves)

	for i := 1; i < len(leaves); i++ {
		if leaves[i] == leaves[i-1] {
			return ErrDuplicateLeafLabels
		}
	}

	return nil
}
