package syntax

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Node is a read-only view of a tree-sitter node paired with the source it was
// parsed from. The zero Node stands for an absent node; every accessor is safe
// to call on it.
type Node struct {
	n   *sitter.Node
	src []byte
}

func wrap(n *sitter.Node, src []byte) Node {
	if n == nil {
		return Node{}
	}
	return Node{n: n, src: src}
}

// Exists reports whether n refers to an actual node.
func (n Node) Exists() bool {
	return n.n != nil
}

// ID is stable for the lifetime of the tree and unique among its nodes.
func (n Node) ID() uintptr {
	if n.n == nil {
		return 0
	}
	return n.n.Id()
}

func (n Node) Kind() string {
	if n.n == nil {
		return ""
	}
	return n.n.Kind()
}

// Is reports whether the node kind is one of kinds.
func (n Node) Is(kinds ...string) bool {
	kind := n.Kind()
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func (n Node) IsNamed() bool {
	return n.n != nil && n.n.IsNamed()
}

// IsMalformed reports whether the parser produced this node during error recovery.
func (n Node) IsMalformed() bool {
	return n.n != nil && (n.n.IsError() || n.n.IsMissing())
}

func (n Node) IsComment() bool {
	return n.Kind() == KindComment
}

// Text returns the source text spanned by the node.
func (n Node) Text() string {
	if n.n == nil {
		return ""
	}
	return string(n.src[n.n.StartByte():n.n.EndByte()])
}

// Range is the full byte span the parser assigned to the node.
func (n Node) Range() TextRange {
	if n.n == nil {
		return TextRange{}
	}
	return NewTextRange(n.n.StartByte(), n.n.EndByte())
}

// TrimmedRange is Range without leading and trailing whitespace. It only
// differs from Range for text-like nodes whose span includes blanks.
func (n Node) TrimmedRange() TextRange {
	r := n.Range()
	for r.Start < r.End && isSpace(n.src[r.Start]) {
		r.Start++
	}
	for r.End > r.Start && isSpace(n.src[r.End-1]) {
		r.End--
	}
	return r
}

// Position returns the 1-based line and column of the node start.
func (n Node) Position() Position {
	if n.n == nil {
		return Position{}
	}
	p := n.n.StartPosition()
	return Position{Line: int(p.Row) + 1, Column: int(p.Column) + 1}
}

func (n Node) Parent() (Node, bool) {
	if n.n == nil {
		return Node{}, false
	}
	p := wrap(n.n.Parent(), n.src)
	return p, p.Exists()
}

// Ancestor returns the closest ancestor of one of the given kinds.
func (n Node) Ancestor(kinds ...string) (Node, bool) {
	for p, ok := n.Parent(); ok; p, ok = p.Parent() {
		if p.Is(kinds...) {
			return p, true
		}
	}
	return Node{}, false
}

// Field returns the child stored under the grammar field name.
func (n Node) Field(name string) (Node, bool) {
	if n.n == nil {
		return Node{}, false
	}
	c := wrap(n.n.ChildByFieldName(name), n.src)
	return c, c.Exists()
}

// Children returns every child, including anonymous tokens, in source order.
func (n Node) Children() []Node {
	if n.n == nil {
		return nil
	}
	out := make([]Node, 0, n.n.ChildCount())
	for i := range n.n.ChildCount() {
		out = append(out, wrap(n.n.Child(i), n.src))
	}
	return out
}

// NamedChildren returns the named children in source order, skipping comments.
func (n Node) NamedChildren() []Node {
	if n.n == nil {
		return nil
	}
	out := make([]Node, 0, n.n.NamedChildCount())
	for i := range n.n.NamedChildCount() {
		c := wrap(n.n.NamedChild(i), n.src)
		if c.IsComment() {
			continue
		}
		out = append(out, c)
	}
	return out
}

// FirstNamedChild returns the first named, non-comment child.
func (n Node) FirstNamedChild() (Node, bool) {
	children := n.NamedChildren()
	if len(children) == 0 {
		return Node{}, false
	}
	return children[0], true
}

// ChildOfKind returns the first direct child of the given kind.
func (n Node) ChildOfKind(kind string) (Node, bool) {
	if n.n == nil {
		return Node{}, false
	}
	for i := range n.n.ChildCount() {
		c := n.n.Child(i)
		if c.Kind() == kind {
			return wrap(c, n.src), true
		}
	}
	return Node{}, false
}

// Raw exposes the underlying tree-sitter node.
func (n Node) Raw() *sitter.Node {
	return n.n
}

// Descendants returns all named descendants of the given kinds in pre-order,
// including n itself when it matches.
func (n Node) Descendants(kinds ...string) []Node {
	var out []Node
	var visit func(Node)
	visit = func(c Node) {
		if c.Is(kinds...) {
			out = append(out, c)
		}
		for _, child := range c.NamedChildren() {
			visit(child)
		}
	}
	if n.Exists() {
		visit(n)
	}
	return out
}

// Unquote returns the contents of a string literal node without its quotes.
func Unquote(n Node) string {
	text := n.Text()
	if len(text) >= 2 {
		switch text[0] {
		case '"', '\'', '`':
			if text[len(text)-1] == text[0] {
				return text[1 : len(text)-1]
			}
		}
	}
	return strings.Trim(text, "\"'`")
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
