// Package bintree implements the mutable, parent-linked binary tree
// representation used by the agreement-forest checker. Nodes come in two
// variants, leaf and inner, distinguished by construction: a leaf carries a
// label and no children, an inner node owns exactly two children. Every node
// additionally carries a stable identity, a parent back-reference, and a
// depth field that is only valid between topology refreshes.
package bintree

import "iter"

// Label is a leaf label. Valid labels are in [1, numLeaves]; validation is
// the forest's responsibility, not the tree's.
type Label uint32

// NodeIdx is a stable node identity assigned once at construction. It is
// never reused and never changes when the tree is restructured.
type NodeIdx uint32

// depthUnset marks a node whose depth has not been assigned by a topology
// refresh yet.
const depthUnset = -1

// Node is a binary tree node. Exactly one variant is populated: a leaf has
// label set and both children nil, an inner node has both children set.
// Constructors maintain this invariant; there is no third state.
//
// Parents own their children. The parent field is a non-owning
// back-reference and is nil at a root. Node equality is pointer identity.
type Node struct {
	parent *Node
	depth  int
	id     NodeIdx
	label  Label
	left   *Node
	right  *Node
}

// NewLeaf creates a leaf node. Its identity equals its label.
func NewLeaf(label Label) *Node {
	return &Node{
		id:    NodeIdx(label),
		label: label,
		depth: depthUnset,
	}
}

// NewInner creates an inner node owning left and right, and rewires both
// children's parent references to the new node.
func NewInner(id NodeIdx, left, right *Node) *Node {
	n := &Node{
		id:    id,
		left:  left,
		right: right,
		depth: depthUnset,
	}

	left.parent = n
	right.parent = n

	return n
}

// IsLeaf reports whether the node is a leaf.
func (n *Node) IsLeaf() bool {
	return n.left == nil
}

// LeafLabel returns the node's label and true for a leaf, or zero and false
// for an inner node.
func (n *Node) LeafLabel() (Label, bool) {
	if n.IsLeaf() {
		return n.label, true
	}

	return 0, false
}

// Children returns the node's two children, or nils for a leaf.
func (n *Node) Children() (*Node, *Node) {
	return n.left, n.right
}

// Parent returns the node's current parent, or nil at a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// ID returns the node's stable identity.
func (n *Node) ID() NodeIdx {
	return n.id
}

// Depth returns the node's distance from its tree's current root. The value
// is only valid if a topology refresh ran after the last structural edit.
func (n *Node) Depth() int {
	return n.depth
}

// DFS iterates the subtree rooted at n in depth-first pre-order, left child
// before right.
func (n *Node) DFS() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		n.dfs(yield)
	}
}

func (n *Node) dfs(yield func(*Node) bool) bool {
	if !yield(n) {
		return false
	}

	if n.IsLeaf() {
		return true
	}

	return n.left.dfs(yield) && n.right.dfs(yield)
}
