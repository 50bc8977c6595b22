package bintree

import (
	"fmt"
	"io"
	"strings"
)

// ParseError reports a syntax error in a newick string together with the
// byte offset at which it was detected.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("newick: %s at offset %d", e.Msg, e.Offset)
}

// parser is a recursive-descent parser over one newick line.
type parser struct {
	input  string
	pos    int
	nextID NodeIdx
}

// Parse parses a newick string of the form "((1,2),3);" into a tree and runs
// a topology refresh so the returned root has valid depth and parent fields
// throughout.
//
// Leaves are written as positive integer labels and receive their label as
// identity. Inner nodes receive sequential identities starting at innerBase,
// assigned in the order the nodes are completed (post-order).
func Parse(input string, innerBase NodeIdx) (*Node, error) {
	p := &parser{input: input, nextID: innerBase}

	root, err := p.subtree()
	if err != nil {
		return nil, err
	}

	if err := p.expect(';'); err != nil {
		return nil, err
	}

	if p.pos != len(p.input) {
		return nil, &ParseError{Offset: p.pos, Msg: "trailing characters after ';'"}
	}

	root.UpdateTopology()

	return root, nil
}

func (p *parser) subtree() (*Node, error) {
	if p.pos >= len(p.input) {
		return nil, &ParseError{Offset: p.pos, Msg: "unexpected end of input"}
	}

	if p.input[p.pos] != '(' {
		return p.leaf()
	}

	p.pos++

	left, err := p.subtree()
	if err != nil {
		return nil, err
	}

	if err := p.expect(','); err != nil {
		return nil, err
	}

	right, err := p.subtree()
	if err != nil {
		return nil, err
	}

	if err := p.expect(')'); err != nil {
		return nil, err
	}

	id := p.nextID
	p.nextID++

	return NewInner(id, left, right), nil
}

func (p *parser) leaf() (*Node, error) {
	start := p.pos

	var label uint64

	for p.pos < len(p.input) && p.input[p.pos] >= '0' && p.input[p.pos] <= '9' {
		label = label*10 + uint64(p.input[p.pos]-'0')
		if label > 0xffffffff {
			return nil, &ParseError{Offset: start, Msg: "leaf label out of 32-bit range"}
		}

		p.pos++
	}

	if p.pos == start {
		return nil, &ParseError{Offset: p.pos, Msg: "expected leaf label or '('"}
	}

	return NewLeaf(Label(label)), nil
}

func (p *parser) expect(c byte) error {
	if p.pos >= len(p.input) || p.input[p.pos] != c {
		return &ParseError{Offset: p.pos, Msg: fmt.Sprintf("expected %q", c)}
	}

	p.pos++

	return nil
}

// Newick renders the subtree rooted at n as a newick string, including the
// trailing semicolon.
func (n *Node) Newick() string {
	var sb strings.Builder

	n.writeNewick(&sb)
	sb.WriteByte(';')

	return sb.String()
}

// WriteNewick writes the newick form of the subtree rooted at n, including
// the trailing semicolon, to w.
func (n *Node) WriteNewick(w io.Writer) error {
	_, err := io.WriteString(w, n.Newick())

	return err
}

func (n *Node) writeNewick(sb *strings.Builder) {
	if n.IsLeaf() {
		fmt.Fprintf(sb, "%d", n.label)

		return
	}

	sb.WriteByte('(')
	n.left.writeNewick(sb)
	sb.WriteByte(',')
	n.right.writeNewick(sb)
	sb.WriteByte(')')
}

// NormalizeChildOrder reorders the children of every inner node below n so
// that the child containing the smaller minimum leaf label comes first.
// Structurally identical trees serialize identically afterwards, regardless
// of their original left/right orientation.
func (n *Node) NormalizeChildOrder() {
	if n.IsLeaf() {
		return
	}

	n.left.NormalizeChildOrder()
	n.right.NormalizeChildOrder()

	if n.right.minLeafLabel() < n.left.minLeafLabel() {
		n.left, n.right = n.right, n.left
	}
}

func (n *Node) minLeafLabel() Label {
	if n.IsLeaf() {
		return n.label
	}

	return min(n.left.minLeafLabel(), n.right.minLeafLabel())
}
