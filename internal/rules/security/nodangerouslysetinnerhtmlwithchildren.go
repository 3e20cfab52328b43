// Package security holds rules that catch unsafe rendering patterns.
package security

import (
	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/jsx"
	"github.com/dejo1307/jsxlint/internal/react"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// CreateElementKind tags the alternative held by AnyCreateElement.
type CreateElementKind uint8

const (
	JSXElement CreateElementKind = iota + 1
	JSXSelfClosingElement
	CallExpression
)

// AnyCreateElement is anything that creates an element: `<x>...</x>`,
// `<x />` or a factory call such as React.createElement.
type AnyCreateElement struct {
	kind CreateElementKind
	node syntax.Node
}

func AsAnyCreateElement(n syntax.Node) (AnyCreateElement, bool) {
	switch n.Kind() {
	case syntax.KindJSXElement:
		return AnyCreateElement{kind: JSXElement, node: n}, true
	case syntax.KindJSXSelfClosingElement:
		return AnyCreateElement{kind: JSXSelfClosingElement, node: n}, true
	case syntax.KindCallExpression:
		return AnyCreateElement{kind: CallExpression, node: n}, true
	}
	return AnyCreateElement{}, false
}

func (e AnyCreateElement) Kind() CreateElementKind { return e.kind }
func (e AnyCreateElement) Node() syntax.Node       { return e.node }

// propKind tags the alternative held by dangerousProp.
type propKind uint8

const (
	propAttribute propKind = iota + 1
	propMember
)

// dangerousProp is a prop found either as a JSX attribute or as a member of
// a factory call's props object.
type dangerousProp struct {
	kind   propKind
	attr   jsx.Attribute
	member react.PropMember
}

func (p dangerousProp) Range() syntax.TextRange {
	switch p.kind {
	case propAttribute:
		return p.attr.Range()
	case propMember:
		return p.member.Range()
	}
	return syntax.TextRange{}
}

// ChildrenSource says where the conflicting children come from.
type ChildrenSource uint8

const (
	// ChildrenProp is a `children` prop: `<C children="x" />`.
	ChildrenProp ChildrenSource = iota + 1
	// ChildrenDirect are nested children or trailing factory arguments.
	ChildrenDirect
)

// State is the signal of NoDangerouslySetInnerHTMLWithChildren.
type State struct {
	// DangerousProp is the range of the dangerouslySetInnerHTML prop.
	DangerousProp syntax.TextRange
	Children      ChildrenSource
	ChildrenRange syntax.TextRange
}

// NoDangerouslySetInnerHTMLWithChildren reports elements that pass both
// children and dangerouslySetInnerHTML. React renders the HTML and silently
// drops the children.
type NoDangerouslySetInnerHTMLWithChildren struct {
	factories []react.Factory
}

var _ analyzer.Rule[AnyCreateElement, State] = NoDangerouslySetInnerHTMLWithChildren{}

// NewNoDangerouslySetInnerHTMLWithChildren recognises calls to factories in
// addition to JSX. A nil slice means react.DefaultFactories.
func NewNoDangerouslySetInnerHTMLWithChildren(factories []react.Factory) NoDangerouslySetInnerHTMLWithChildren {
	if factories == nil {
		factories = react.DefaultFactories
	}
	return NoDangerouslySetInnerHTMLWithChildren{factories: factories}
}

func (NoDangerouslySetInnerHTMLWithChildren) Meta() analyzer.Metadata {
	return analyzer.Metadata{
		Name:        "noDangerouslySetInnerHtmlWithChildren",
		Group:       "security",
		Version:     "1.0.0",
		Source:      "eslint-plugin-react/no-danger-with-children",
		Recommended: true,
		Severity:    diag.SevError,
		Docs:        "Report when a DOM element or a component uses both children and the dangerouslySetInnerHTML prop.",
		Invalid: []string{
			"function createMarkup() {\n  return { __html: 'child' }\n}\n<Component dangerouslySetInnerHTML={createMarkup()}>\"child1\"</Component>",
			"function createMarkup() {\n  return { __html: 'child' }\n}\n<Component dangerouslySetInnerHTML={createMarkup()} children=\"child1\" />",
			`React.createElement('div', { dangerouslySetInnerHTML: { __html: 'HTML' } }, 'children')`,
			`React.createElement('div', { dangerouslySetInnerHTML: { __html: 'HTML' }, children: 'children' })`,
		},
		Valid: []string{
			`<div dangerouslySetInnerHTML={{ __html: "HTML" }} />`,
			`<div>children</div>`,
			"<div dangerouslySetInnerHTML={{ __html: \"HTML\" }}>\n</div>",
			`React.createElement('div', { dangerouslySetInnerHTML: { __html: 'HTML' } })`,
			`function createElement() {} createElement('div', { dangerouslySetInnerHTML: { __html: 'HTML' } }, 'children')`,
		},
	}
}

func (NoDangerouslySetInnerHTMLWithChildren) Query() analyzer.Query[AnyCreateElement] {
	return analyzer.Semantic(AsAnyCreateElement,
		syntax.KindJSXElement, syntax.KindJSXSelfClosingElement, syntax.KindCallExpression)
}

func (r NoDangerouslySetInnerHTMLWithChildren) Run(ctx *analyzer.Context[AnyCreateElement]) []State {
	el := ctx.Node()

	var call react.CreateElementCall
	if el.kind == CallExpression {
		c, ok := react.FromCallExpression(el.node, ctx.Model(), r.factories)
		if !ok {
			return nil
		}
		call = c
	}

	dangerous, ok := el.findProp(call, "dangerouslySetInnerHTML")
	if !ok {
		return nil
	}
	if rng, ok := el.directChildren(call); ok {
		return []State{{DangerousProp: dangerous.Range(), Children: ChildrenDirect, ChildrenRange: rng}}
	}
	if prop, ok := el.findProp(call, "children"); ok {
		return []State{{DangerousProp: dangerous.Range(), Children: ChildrenProp, ChildrenRange: prop.Range()}}
	}
	return nil
}

func (NoDangerouslySetInnerHTMLWithChildren) Diagnostic(ctx *analyzer.Context[AnyCreateElement], s State) (diag.Diagnostic, bool) {
	return diag.New(ctx.Category(), s.DangerousProp, "Avoid passing both children and the dangerouslySetInnerHTML prop.").
		Detail(s.ChildrenRange, "This is the source of the children prop").
		Note("Setting HTML content will inadvertently override any passed children in React"), true
}

// findProp looks name up among the attributes or the props object. call is
// the resolved factory call when e is a CallExpression.
func (e AnyCreateElement) findProp(call react.CreateElementCall, name string) (dangerousProp, bool) {
	switch e.kind {
	case JSXElement:
		opening, ok := e.node.Field("open_tag")
		if !ok {
			return dangerousProp{}, false
		}
		return attributeProp(jsx.FindAttributeByName(opening, name))
	case JSXSelfClosingElement:
		return attributeProp(jsx.FindAttributeByName(e.node, name))
	case CallExpression:
		m, ok := call.FindPropByName(name)
		if !ok {
			return dangerousProp{}, false
		}
		return dangerousProp{kind: propMember, member: m}, true
	}
	return dangerousProp{}, false
}

func attributeProp(attr jsx.Attribute, ok bool) (dangerousProp, bool) {
	if !ok {
		return dangerousProp{}, false
	}
	return dangerousProp{kind: propAttribute, attr: attr}, true
}

// directChildren returns the range of children passed other than through a
// children prop. Whitespace-only text is not a child.
func (e AnyCreateElement) directChildren(call react.CreateElementCall) (syntax.TextRange, bool) {
	switch e.kind {
	case JSXElement:
		children := jsx.MeaningfulChildren(e.node)
		if len(children) == 0 {
			return syntax.TextRange{}, false
		}
		return children[0].TrimmedRange().Cover(children[len(children)-1].TrimmedRange()), true
	case JSXSelfClosingElement:
		return syntax.TextRange{}, false
	case CallExpression:
		return call.ChildrenRange()
	}
	return syntax.TextRange{}, false
}
