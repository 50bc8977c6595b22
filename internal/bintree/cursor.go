package bintree

// UpdateTopology recomputes depth and parent back-references for the whole
// subtree, treating n as a root: n gets depth 0 and a nil parent, every
// descendant at distance d gets depth d. Call this whenever a node becomes a
// fresh root.
func (n *Node) UpdateTopology() {
	updateTopology(n, 0, nil)
}

// UpdateTopologySubtree recomputes depth and parent back-references for n's
// descendants, anchored at n's existing depth and parent. Use it when n's own
// position is already correct and only the bookkeeping below it is stale,
// e.g. after path contraction.
func (n *Node) UpdateTopologySubtree() {
	updateTopology(n, n.depth, n.parent)
}

func updateTopology(n *Node, depth int, parent *Node) {
	n.depth = depth
	n.parent = parent

	if n.IsLeaf() {
		return
	}

	updateTopology(n.left, depth+1, n)
	updateTopology(n.right, depth+1, n)
}

// LowestCommonAncestor returns the deepest node that is an ancestor of both
// a and b, comparing nodes by identity. It climbs the deeper side until both
// depths match, then lifts both in lock-step. Returns nil if the nodes are in
// different trees (one side reaches a root before the cursors meet).
//
// Both nodes' depths must be fresh.
func LowestCommonAncestor(a, b *Node) *Node {
	if a.depth < b.depth {
		a, b = b, a
	}

	for a.depth > b.depth {
		a = a.parent
		if a == nil {
			return nil
		}
	}

	for a != b {
		a = a.parent
		b = b.parent

		if a == nil || b == nil {
			return nil
		}
	}

	return a
}

// Sibling returns the other child of n's parent, or nil if n is a root.
func (n *Node) Sibling() *Node {
	p := n.parent
	if p == nil {
		return nil
	}

	if p.left == n {
		return p.right
	}

	return p.left
}

// ReplaceChild swaps old for repl among n's children and points repl's
// parent at n. old must currently be a child of n.
func (n *Node) ReplaceChild(old, repl *Node) {
	repl.parent = n

	if n.left == old {
		n.left = repl
	} else {
		n.right = repl
	}
}

// RemoveSibling splices n one level up: with P = n's parent and G = P's
// parent, n replaces P as G's child and P is discarded. Returns n's former
// sibling subtree, now parentless and owned by the caller. Returns nil if n
// is a root or P is a root.
//
// Depth fields of n and its descendants are not refreshed; callers must run
// a topology refresh before relying on them again.
func (n *Node) RemoveSibling() *Node {
	parent := n.parent
	if parent == nil {
		return nil
	}

	grandparent := parent.parent
	if grandparent == nil {
		return nil
	}

	sibling := n.Sibling()
	grandparent.ReplaceChild(parent, n)
	sibling.parent = nil

	return sibling
}
