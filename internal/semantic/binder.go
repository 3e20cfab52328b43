package semantic

import (
	"github.com/dejo1307/jsxlint/internal/syntax"
)

type scope struct {
	parent   *scope
	function bool
	decls    map[string]Declaration
}

func (s *scope) declare(d Declaration) {
	if d.Name == "" {
		return
	}
	if _, exists := s.decls[d.Name]; exists {
		return
	}
	s.decls[d.Name] = d
}

// functionScope returns the closest scope that `var` declarations hoist to.
func (s *scope) functionScope() *scope {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.function || cur.parent == nil {
			return cur
		}
	}
	return s
}

// Index is the Model built by Build. It is immutable after construction and
// safe for concurrent readers.
type Index struct {
	scopes map[uintptr]*scope
}

var _ Model = (*Index)(nil)

// Build binds every declaration in tree to its lexical scope. Declarations are
// visible throughout their scope regardless of position, matching hoisting for
// functions and `var` and ignoring the temporal dead zone of `let`/`const`.
func Build(tree *syntax.Tree) *Index {
	ix := &Index{scopes: make(map[uintptr]*scope)}
	root := tree.Root()
	b := binder{ix: ix}
	b.visitChildren(root, b.newScope(root, nil, true))
	return ix
}

// ResolveIdentifier walks the enclosing scopes of ref from the inside out.
func (ix *Index) ResolveIdentifier(ref syntax.Node) (Declaration, bool) {
	if !ref.Is(syntax.KindIdentifier, syntax.KindShorthandPropertyID) {
		return Declaration{}, false
	}
	name := ref.Text()
	for n, ok := ref.Parent(); ok; n, ok = n.Parent() {
		s := ix.scopes[n.ID()]
		if s == nil {
			continue
		}
		if d, found := s.decls[name]; found {
			return d, true
		}
	}
	return Declaration{}, false
}

// Scopes returns how many scopes were created, for diagnostics and tests.
func (ix *Index) Scopes() int {
	return len(ix.scopes)
}

type binder struct {
	ix *Index
}

func (b *binder) newScope(n syntax.Node, parent *scope, function bool) *scope {
	s := &scope{parent: parent, function: function, decls: make(map[string]Declaration)}
	b.ix.scopes[n.ID()] = s
	return s
}

func (b *binder) visitChildren(n syntax.Node, s *scope) {
	for _, c := range n.NamedChildren() {
		b.visit(c, s)
	}
}

func (b *binder) visit(n syntax.Node, s *scope) {
	switch n.Kind() {
	case syntax.KindImportStatement:
		b.declareImport(n, s)

	case syntax.KindFunctionDeclaration, syntax.KindGeneratorFunctionDecl:
		if name, ok := n.Field("name"); ok {
			s.declare(Declaration{Kind: KindFunction, Name: name.Text(), Node: name})
		}
		b.visitFunction(n, s)

	case syntax.KindFunctionExpression, syntax.KindFunction, syntax.KindGeneratorFunction,
		syntax.KindArrowFunction, syntax.KindMethodDefinition:
		b.visitFunction(n, s)

	case syntax.KindClassDeclaration:
		if name, ok := n.Field("name"); ok {
			s.declare(Declaration{Kind: KindClass, Name: name.Text(), Node: name})
		}
		b.visitChildren(n, s)

	case syntax.KindLexicalDeclaration:
		b.visitDeclarators(n, s)

	case syntax.KindVariableDeclaration:
		b.visitDeclarators(n, s.functionScope())
		// Initialisers still run in the block they appear in.
		for _, d := range n.NamedChildren() {
			if value, ok := d.Field("value"); ok {
				b.visit(value, s)
			}
		}

	case syntax.KindStatementBlock, syntax.KindForStatement:
		b.visitChildren(n, b.newScope(n, s, false))

	case syntax.KindForInStatement:
		inner := b.newScope(n, s, false)
		b.declareLoopBinding(n, inner)
		b.visitChildren(n, inner)

	case syntax.KindClass:
		// A named class expression binds its name only inside its own body.
		inner := b.newScope(n, s, false)
		if name, ok := n.Field("name"); ok {
			inner.declare(Declaration{Kind: KindClass, Name: name.Text(), Node: name})
		}
		b.visitChildren(n, inner)

	case syntax.KindCatchClause:
		inner := b.newScope(n, s, false)
		if param, ok := n.Field("parameter"); ok {
			b.declarePattern(param, inner, KindCatchParameter)
		}
		b.visitChildren(n, inner)

	default:
		b.visitChildren(n, s)
	}
}

func (b *binder) visitFunction(n syntax.Node, outer *scope) {
	inner := b.newScope(n, outer, true)
	if n.Is(syntax.KindFunctionExpression, syntax.KindFunction, syntax.KindGeneratorFunction) {
		// A named function expression can refer to itself.
		if name, ok := n.Field("name"); ok {
			inner.declare(Declaration{Kind: KindFunction, Name: name.Text(), Node: name})
		}
	}
	if params, ok := n.Field("parameters"); ok {
		b.declarePattern(params, inner, KindParameter)
	}
	if param, ok := n.Field("parameter"); ok {
		b.declarePattern(param, inner, KindParameter)
	}
	b.visitChildren(n, inner)
}

// declareLoopBinding declares the variable of `for (const x of ...)` and
// `for (let x in ...)` in the loop scope, and hoists `var` to the function.
// Without a declaration keyword the left side is an assignment target.
func (b *binder) declareLoopBinding(loop syntax.Node, inner *scope) {
	kind, ok := loop.Field("kind")
	if !ok {
		return
	}
	left, ok := loop.Field("left")
	if !ok {
		return
	}
	target := inner
	if kind.Text() == "var" {
		target = inner.functionScope()
	}
	b.declarePattern(left, target, KindVariable)
}

// visitDeclarators declares each variable_declarator of decl into target and
// visits initialisers in target.
func (b *binder) visitDeclarators(decl syntax.Node, target *scope) {
	for _, d := range decl.NamedChildren() {
		if d.Kind() != syntax.KindVariableDeclarator {
			continue
		}
		name, ok := d.Field("name")
		if !ok {
			continue
		}
		value, hasValue := d.Field("value")
		if module, ok := requiredModule(value); hasValue && ok {
			b.declareRequire(name, target, module)
		} else {
			b.declarePattern(name, target, KindVariable)
		}
		if hasValue && decl.Kind() == syntax.KindLexicalDeclaration {
			b.visit(value, target)
		}
	}
}

// declarePattern declares every identifier bound by a binding pattern.
// Default values and type annotations are not bindings and are skipped.
func (b *binder) declarePattern(p syntax.Node, s *scope, kind DeclarationKind) {
	switch p.Kind() {
	case syntax.KindIdentifier, syntax.KindShorthandPropertyIDPat:
		s.declare(Declaration{Kind: kind, Name: p.Text(), Node: p})
	case syntax.KindRequiredParameter, syntax.KindOptionalParameter:
		if pat, ok := p.Field("pattern"); ok {
			b.declarePattern(pat, s, kind)
		}
	case syntax.KindAssignmentPattern, syntax.KindObjectAssignmentPattern:
		if left, ok := p.Field("left"); ok {
			b.declarePattern(left, s, kind)
		}
	case syntax.KindPairPattern:
		if value, ok := p.Field("value"); ok {
			b.declarePattern(value, s, kind)
		}
	case syntax.KindRestPattern, syntax.KindObjectPattern, syntax.KindArrayPattern, syntax.KindFormalParameters:
		for _, c := range p.NamedChildren() {
			b.declarePattern(c, s, kind)
		}
	}
}

func (b *binder) declareImport(stmt syntax.Node, s *scope) {
	source, ok := stmt.Field("source")
	if !ok {
		return
	}
	module := syntax.Unquote(source)
	clause, ok := stmt.ChildOfKind(syntax.KindImportClause)
	if !ok {
		return
	}
	for _, c := range clause.NamedChildren() {
		switch c.Kind() {
		case syntax.KindIdentifier:
			s.declare(Declaration{Kind: KindImport, Name: c.Text(), Node: c, Source: module, Imported: ImportDefault})
		case syntax.KindNamespaceImport:
			if id, ok := c.ChildOfKind(syntax.KindIdentifier); ok {
				s.declare(Declaration{Kind: KindImport, Name: id.Text(), Node: id, Source: module, Imported: ImportNamespace})
			}
		case syntax.KindNamedImports:
			for _, spec := range c.NamedChildren() {
				if spec.Kind() != syntax.KindImportSpecifier {
					continue
				}
				name, ok := spec.Field("name")
				if !ok {
					continue
				}
				local := name
				if alias, ok := spec.Field("alias"); ok {
					local = alias
				}
				s.declare(Declaration{
					Kind:     KindImport,
					Name:     local.Text(),
					Node:     local,
					Source:   module,
					Imported: syntax.Unquote(name),
				})
			}
		}
	}
}

// declareRequire handles `const x = require("m")` and
// `const { a, b: c } = require("m")`.
func (b *binder) declareRequire(p syntax.Node, s *scope, module string) {
	switch p.Kind() {
	case syntax.KindIdentifier:
		s.declare(Declaration{Kind: KindRequire, Name: p.Text(), Node: p, Source: module, Imported: ImportNamespace})
	case syntax.KindObjectPattern:
		for _, c := range p.NamedChildren() {
			switch c.Kind() {
			case syntax.KindShorthandPropertyIDPat:
				s.declare(Declaration{Kind: KindRequire, Name: c.Text(), Node: c, Source: module, Imported: c.Text()})
			case syntax.KindPairPattern:
				key, hasKey := c.Field("key")
				value, hasValue := c.Field("value")
				if hasKey && hasValue && value.Kind() == syntax.KindIdentifier {
					s.declare(Declaration{Kind: KindRequire, Name: value.Text(), Node: value, Source: module, Imported: syntax.Unquote(key)})
					continue
				}
				b.declarePattern(c, s, KindVariable)
			default:
				b.declarePattern(c, s, KindVariable)
			}
		}
	default:
		b.declarePattern(p, s, KindVariable)
	}
}

// requiredModule returns the module of a `require("m")` call.
func requiredModule(value syntax.Node) (string, bool) {
	if value.Kind() != syntax.KindCallExpression {
		return "", false
	}
	fn, ok := value.Field("function")
	if !ok || fn.Kind() != syntax.KindIdentifier || fn.Text() != "require" {
		return "", false
	}
	args, ok := value.Field("arguments")
	if !ok {
		return "", false
	}
	first, ok := args.FirstNamedChild()
	if !ok || first.Kind() != syntax.KindString {
		return "", false
	}
	return syntax.Unquote(first), true
}
