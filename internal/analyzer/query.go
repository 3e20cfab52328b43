package analyzer

import (
	"fmt"

	"github.com/dejo1307/jsxlint/internal/semantic"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// Phase is the amount of information a rule needs.
type Phase uint8

const (
	// PhaseSyntax rules see only the tree.
	PhaseSyntax Phase = iota
	// PhaseSemantic rules may also resolve identifiers.
	PhaseSemantic
)

func (p Phase) String() string {
	if p == PhaseSemantic {
		return "semantic"
	}
	return "syntax"
}

// Query selects the nodes a rule runs on. N is the typed view the rule works
// with, either a single node kind or a union of several.
type Query[N any] struct {
	phase Phase
	kinds []string
	cast  func(syntax.Node) (N, bool)
}

// Ast builds a syntax-only query. cast converts a node of one of kinds into
// N and returns false for nodes it does not accept.
func Ast[N any](cast func(syntax.Node) (N, bool), kinds ...string) Query[N] {
	return Query[N]{phase: PhaseSyntax, kinds: kinds, cast: cast}
}

// Semantic builds a query whose Context also exposes the semantic model.
func Semantic[N any](cast func(syntax.Node) (N, bool), kinds ...string) Query[N] {
	return Query[N]{phase: PhaseSemantic, kinds: kinds, cast: cast}
}

func (q Query[N]) Phase() Phase {
	return q.phase
}

func (q Query[N]) Kinds() []string {
	return q.kinds
}

// Context is what a rule sees for one matched node.
type Context[N any] struct {
	node  N
	raw   syntax.Node
	phase Phase
	file  *fileState
	meta  *Metadata
}

// Node returns the matched node as the rule's typed view.
func (c *Context[N]) Node() N {
	return c.node
}

// Syntax returns the matched node untyped.
func (c *Context[N]) Syntax() syntax.Node {
	return c.raw
}

// Model returns the semantic model of the file. Calling it from a rule with
// a syntax-only query is a bug in the rule and panics.
func (c *Context[N]) Model() semantic.Model {
	if c.phase != PhaseSemantic {
		panic(fmt.Sprintf("rule %s: semantic model requested by a syntax query", c.meta.Key()))
	}
	return c.file.model()
}

func (c *Context[N]) Tree() *syntax.Tree {
	return c.file.tree
}

func (c *Context[N]) Path() string {
	return c.file.tree.Path
}

func (c *Context[N]) Meta() Metadata {
	return *c.meta
}
