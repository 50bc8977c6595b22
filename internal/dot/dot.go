// Package dot renders a host instance, optionally overlaid with a checked
// solution, in GraphViz DOT format. Leaves are colored by the solution
// component that claims them, edges crossing component boundaries are
// dashed, and regions contracted away during matching are dotted.
package dot

import (
	"fmt"
	"io"
	"strings"

	"github.com/treefang/mafcheck/internal/bintree"
	"github.com/treefang/mafcheck/internal/forest"
	"github.com/treefang/mafcheck/internal/reader"
)

// uncoloredComponent is the color slot for nodes no solution component claims.
const uncoloredComponent = 1

// Writer produces a DOT document for one instance.
type Writer struct {
	instance  *reader.Instance
	colors    []uint32
	roots     []map[bintree.NodeIdx]struct{}
	leafNames []string
}

// NewWriter creates a writer over a retained instance.
func NewWriter(instance *reader.Instance) *Writer {
	maxID := bintree.NodeIdx(0)

	for _, tree := range instance.Trees {
		for node := range tree.Root.DFS() {
			maxID = max(maxID, node.ID())
		}
	}

	colors := make([]uint32, maxID+1)
	for i := range colors {
		colors[i] = uncoloredComponent
	}

	return &Writer{
		instance: instance,
		colors:   colors,
	}
}

// ColorLeaves assigns each leaf the color of the solution component owning
// its label, then propagates colors up each host tree, stopping at forest
// root boundaries.
func (w *Writer) ColorLeaves(solution *reader.Solution, forests []*forest.Forest) {
	for i, component := range solution.Trees {
		for node := range component.Root.DFS() {
			if label, ok := node.LeafLabel(); ok {
				w.colors[label] = uint32(2 + i)
			}
		}
	}

	for i, f := range forests {
		if i >= len(w.instance.Trees) {
			break
		}

		roots := make(map[bintree.NodeIdx]struct{}, len(f.Roots()))
		for _, r := range f.Roots() {
			roots[r.ID()] = struct{}{}
		}

		w.propagateColors(roots, w.instance.Trees[i].Root)
		w.roots = append(w.roots, roots)
	}
}

// propagateColors lifts leaf colors to inner nodes. A node inherits a
// child's color unless that child starts its own component (it is a forest
// root); two disagreeing root children leave the node uncolored.
func (w *Writer) propagateColors(roots map[bintree.NodeIdx]struct{}, node *bintree.Node) (isRoot bool, color uint32) {
	_, isRoot = roots[node.ID()]

	if !node.IsLeaf() {
		left, right := node.Children()
		lRoot, lColor := w.propagateColors(roots, left)
		rRoot, rColor := w.propagateColors(roots, right)

		switch {
		case lColor == rColor || !lRoot:
			color = lColor
		case !rRoot:
			color = rColor
		default:
			color = uncoloredComponent
		}

		w.colors[node.ID()] = color
	}

	return isRoot, w.colors[node.ID()]
}

// Write renders the DOT document. Each host tree's child order is
// normalized first so repeated renders are stable.
func (w *Writer) Write(out io.Writer) error {
	if _, err := fmt.Fprintln(out, "digraph Instance {"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, " rankdir=TB;"); err != nil {
		return err
	}

	if _, err := fmt.Fprintln(out, " node [colorscheme=set19];"); err != nil {
		return err
	}

	for i, tree := range w.instance.Trees {
		var roots map[bintree.NodeIdx]struct{}
		if i < len(w.roots) {
			roots = w.roots[i]
		}

		name := fmt.Sprintf("t%d", i+1)

		if i > 0 {
			if _, err := fmt.Fprintf(out, " spacer%d [shape=none, label=\"\", width=0, height=1];\n", i); err != nil {
				return err
			}
		}

		if _, err := fmt.Fprintf(out, "  subgraph %s {\n", name); err != nil {
			return err
		}

		tree.Root.NormalizeChildOrder()

		if err := w.writeTree(out, tree.Root, name, roots); err != nil {
			return err
		}

		if _, err := fmt.Fprintln(out, "  }"); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintf(out, " {rank=same;%s}\n", strings.Join(w.leafNames, "; ")); err != nil {
		return err
	}

	_, err := fmt.Fprintln(out, "}")

	return err
}

func (w *Writer) nodeName(name string, node *bintree.Node) string {
	if label, ok := node.LeafLabel(); ok {
		return fmt.Sprintf("%sl%d", name, label)
	}

	return fmt.Sprintf("%sv%d", name, node.ID())
}

// canReachLeaf reports whether a leaf is reachable from node without
// crossing into another forest root. Unreachable regions render dotted: they
// are the chains contraction collapsed.
func canReachLeaf(roots map[bintree.NodeIdx]struct{}, node *bintree.Node) bool {
	if _, isRoot := roots[node.ID()]; isRoot {
		return false
	}

	if node.IsLeaf() {
		return true
	}

	left, right := node.Children()

	return canReachLeaf(roots, left) || canReachLeaf(roots, right)
}

func (w *Writer) writeTree(out io.Writer, node *bintree.Node, name string, roots map[bintree.NodeIdx]struct{}) error {
	color := w.colors[node.ID()]
	key := w.nodeName(name, node)
	_, isRoot := roots[node.ID()]

	if label, ok := node.LeafLabel(); ok {
		shape := "box"
		if isRoot {
			shape = "triangle"
		}

		if _, err := fmt.Fprintf(out, "  %s [label=\"%d\", color=%d, shape=\"%s\"]\n", key, label, color, shape); err != nil {
			return err
		}

		w.leafNames = append(w.leafNames, key)

		return nil
	}

	left, right := node.Children()
	leftReaches := canReachLeaf(roots, left)
	rightReaches := canReachLeaf(roots, right)

	attr := ""

	switch {
	case isRoot && (leftReaches || rightReaches):
		attr = ",shape=\"triangle\""
	case !leftReaches && !rightReaches:
		attr = ",style=\"dotted\""
	}

	if _, err := fmt.Fprintf(out, "  %s[label=\"%d\",color=%d%s]\n", key, node.ID(), color, attr); err != nil {
		return err
	}

	for _, child := range []*bintree.Node{left, right} {
		edgeAttr := ""

		if _, childIsRoot := roots[child.ID()]; childIsRoot {
			edgeAttr = " [style=dashed]"
		} else if !canReachLeaf(roots, child) {
			edgeAttr = "[style=dotted]"
		}

		if _, err := fmt.Fprintf(out, "  %s -> %s%s;\n", key, w.nodeName(name, child), edgeAttr); err != nil {
			return err
		}

		if err := w.writeTree(out, child, name, roots); err != nil {
			return err
		}
	}

	return nil
}
