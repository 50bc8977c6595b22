// Package forest owns the current set of root subtrees for one host tree and
// implements the maximum-agreement-forest matching step: repeatedly carving a
// claimed component out of the host tree while diverting non-matching
// branches into new roots.
package forest

import (
	"errors"
	"fmt"

	"github.com/treefang/mafcheck/internal/bintree"
)

// ErrRootAlreadyPresent is returned by AddTree when the same root (by
// identity) was registered before.
var ErrRootAlreadyPresent = errors.New("forest: root is already present in the forest")

// LeafOutOfRangeError is returned by AddTree when a leaf label is zero or
// exceeds the forest's leaf universe.
type LeafOutOfRangeError struct {
	Label     bintree.Label
	NumLeaves uint32
}

func (e *LeafOutOfRangeError) Error() string {
	return fmt.Sprintf("forest: leaf %d is not in required range of [1, %d]", e.Label, e.NumLeaves)
}

// LeafAlreadyPresentError is returned by AddTree when a leaf label was
// registered before, by this or an earlier tree.
type LeafAlreadyPresentError struct {
	Label bintree.Label
}

func (e *LeafAlreadyPresentError) Error() string {
	return fmt.Sprintf("forest: leaf %d is already present in the forest", e.Label)
}

// Forest holds the current roots carved from one host tree plus an index
// from leaf label to that leaf's current node. Every label in [1, numLeaves]
// is registered at most once across all trees ever added; the root list only
// grows.
//
// After any failed AddTree or IsolateTree call the forest's node graph is in
// an undefined state and the forest must be discarded.
type Forest struct {
	roots  []*bintree.Node
	leaves []*bintree.Node // label -> node, slot 0 unused
}

// New creates an empty forest over a leaf universe of size numLeaves.
func New(numLeaves uint32) *Forest {
	return &Forest{
		leaves: make([]*bintree.Node, 1+numLeaves),
	}
}

// AddTree registers a tree and all its leaves with the forest. On error the
// forest may be partially updated and must not be used further.
func (f *Forest) AddTree(root *bintree.Node) error {
	for _, r := range f.roots {
		if r == root {
			return ErrRootAlreadyPresent
		}
	}

	numLeaves := uint32(len(f.leaves) - 1)

	for node := range root.DFS() {
		label, ok := node.LeafLabel()
		if !ok {
			continue
		}

		if label == 0 || uint32(label) > numLeaves {
			return &LeafOutOfRangeError{Label: label, NumLeaves: numLeaves}
		}

		if f.leaves[label] != nil {
			return &LeafAlreadyPresentError{Label: label}
		}

		f.leaves[label] = node
	}

	f.roots = append(f.roots, root)

	return nil
}

// Roots returns the forest's current root list. The returned slice is owned
// by the forest and must not be modified.
func (f *Forest) Roots() []*bintree.Node {
	return f.roots
}

// Leaf returns the current node registered for label, or nil if the label is
// out of range or unregistered.
func (f *Forest) Leaf(label bintree.Label) *bintree.Node {
	if label == 0 || int(label) >= len(f.leaves) {
		return nil
	}

	return f.leaves[label]
}

// IsolateTree attempts to carve a subtree shaped exactly like pattern out of
// the host tree, following the agreement-forest rules: every branch hanging
// off the matched paths is split into its own new root, and the degree-2
// chains left behind are contracted. Reports whether the match succeeded.
//
// On success the matched subtree is registered as a root if it is not one
// already. On failure the forest's node graph may have been partially
// rewritten and the forest must be discarded.
func (f *Forest) IsolateTree(pattern *bintree.Node) bool {
	root := f.isolateTreeMatch(pattern)
	if root == nil {
		return false
	}

	root.UpdateTopologySubtree()

	for _, r := range f.roots {
		if r == root {
			return true
		}
	}

	f.roots = append(f.roots, root)

	return true
}

// isolateTreeMatch recursively resolves pattern against the host graph. For
// a leaf pattern it returns the registered host leaf. For an inner pattern it
// resolves both children, takes their lowest common ancestor, and contracts
// both upward paths, pushing every removed sibling subtree as a new root.
//
// The candidate ancestor must sit at least as deep in the host as the
// pattern node sits in its own component; a shallower ancestor fails the
// match. This guard is load-bearing and must not be relaxed.
func (f *Forest) isolateTreeMatch(pattern *bintree.Node) *bintree.Node {
	if label, ok := pattern.LeafLabel(); ok {
		return f.Leaf(label)
	}

	left, right := pattern.Children()

	matchLeft := f.isolateTreeMatch(left)
	if matchLeft == nil {
		return nil
	}

	matchRight := f.isolateTreeMatch(right)
	if matchRight == nil {
		return nil
	}

	lca := bintree.LowestCommonAncestor(matchLeft, matchRight)
	if lca == nil {
		return nil
	}

	if lca.Depth() < pattern.Depth() {
		return nil
	}

	f.contractPath(matchLeft, lca)
	f.contractPath(matchRight, lca)

	return lca
}

// contractPath splices lower up until it is a direct child of upper. Each
// removed sibling subtree becomes a fresh forest root with its own topology.
// The loop bound is fixed up front because lower's stored depth goes stale
// while splicing.
func (f *Forest) contractPath(lower, upper *bintree.Node) {
	steps := lower.Depth() - upper.Depth() - 1

	for range steps {
		sibling := lower.RemoveSibling()
		sibling.UpdateTopology()
		f.roots = append(f.roots, sibling)
	}
}
