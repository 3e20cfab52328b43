// Package jsx answers structural questions about JSX elements: attribute
// lookup, constant folding of attribute values and accessibility of children.
package jsx

import (
	"fmt"
	"strings"

	"github.com/dejo1307/jsxlint/internal/syntax"
)

// ElementKind tags the active alternative of AnyElement.
type ElementKind uint8

const (
	OpeningElement ElementKind = iota + 1
	SelfClosingElement
)

func (k ElementKind) String() string {
	switch k {
	case OpeningElement:
		return "OpeningElement"
	case SelfClosingElement:
		return "SelfClosingElement"
	}
	return fmt.Sprintf("ElementKind(%d)", k)
}

// AnyElementKinds lists the node kinds AsAnyElement accepts.
var AnyElementKinds = []string{syntax.KindJSXOpeningElement, syntax.KindJSXSelfClosingElement}

// AnyElement is either the opening tag of `<x>...</x>` or a self-closing
// `<x />`. Both carry a name and an attribute list.
type AnyElement struct {
	kind ElementKind
	node syntax.Node
}

// AsAnyElement wraps n when it is one of AnyElementKinds.
func AsAnyElement(n syntax.Node) (AnyElement, bool) {
	switch n.Kind() {
	case syntax.KindJSXOpeningElement:
		return AnyElement{kind: OpeningElement, node: n}, true
	case syntax.KindJSXSelfClosingElement:
		return AnyElement{kind: SelfClosingElement, node: n}, true
	}
	return AnyElement{}, false
}

func (e AnyElement) Kind() ElementKind {
	return e.kind
}

func (e AnyElement) Node() syntax.Node {
	return e.node
}

// Name returns the tag name of a simple element such as `h1` or `Button`.
// Member (`Foo.Bar`) and namespaced (`svg:rect`) names return false, as do
// elements whose name the parser could not recover.
func (e AnyElement) Name() (string, bool) {
	name, ok := e.node.Field("name")
	if !ok || name.IsMalformed() || name.Kind() != syntax.KindIdentifier {
		return "", false
	}
	text := name.Text()
	return text, text != ""
}

func (e AnyElement) Attributes() []Attribute {
	return Attributes(e.node)
}

func (e AnyElement) FindAttributeByName(name string) (Attribute, bool) {
	return FindAttributeByName(e.node, name)
}

func (e AnyElement) HasTruthyAttribute(name string) bool {
	return HasTruthyAttribute(e.node, name)
}

func (e AnyElement) HasSpreadProp() bool {
	return HasSpreadProp(e.node)
}

// Element returns the enclosing `<x>...</x>` for an opening element and the
// node itself for a self-closing one.
func (e AnyElement) Element() (syntax.Node, bool) {
	switch e.kind {
	case OpeningElement:
		parent, ok := e.node.Parent()
		if !ok || parent.Kind() != syntax.KindJSXElement {
			return syntax.Node{}, false
		}
		return parent, true
	case SelfClosingElement:
		return e.node, true
	}
	return syntax.Node{}, false
}

// HasAccessibleChild reports whether the element renders content that
// assistive technology can reach. Self-closing elements have no children.
func (e AnyElement) HasAccessibleChild() bool {
	switch e.kind {
	case OpeningElement:
		return HasAccessibleChild(e.node)
	case SelfClosingElement:
		return false
	}
	return false
}

// Children returns the child nodes of a `<x>...</x>` element between its tags.
func Children(element syntax.Node) []syntax.Node {
	var out []syntax.Node
	for _, c := range element.NamedChildren() {
		if c.Is(syntax.KindJSXOpeningElement, syntax.KindJSXClosingElement) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MeaningfulChildren drops whitespace-only text, which JSX discards when
// it contains a line break and which never carries content.
func MeaningfulChildren(element syntax.Node) []syntax.Node {
	var out []syntax.Node
	for _, c := range Children(element) {
		if c.Kind() == syntax.KindJSXText && strings.TrimSpace(c.Text()) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// HasAccessibleChild walks the children of the element opened by opening, in
// order, and returns true at the first one that is not hidden from assistive
// technology. Elements with a truthy aria-hidden contribute nothing, and
// neither does anything nested inside them. Blank text, empty expression
// containers and expressions that render nothing are skipped.
func HasAccessibleChild(opening syntax.Node) bool {
	element, ok := opening.Parent()
	if !ok || element.Kind() != syntax.KindJSXElement {
		return false
	}
	for _, child := range MeaningfulChildren(element) {
		if isAccessibleNode(child) {
			return true
		}
	}
	return false
}

func isAccessibleNode(child syntax.Node) bool {
	switch child.Kind() {
	case syntax.KindJSXText, syntax.KindHTMLCharacterRef:
		return true
	case syntax.KindJSXElement:
		open, ok := child.Field("open_tag")
		if !ok {
			open, ok = child.ChildOfKind(syntax.KindJSXOpeningElement)
		}
		if !ok {
			return true
		}
		return !HasTruthyAttribute(open, "aria-hidden")
	case syntax.KindJSXSelfClosingElement:
		return !HasTruthyAttribute(child, "aria-hidden")
	case syntax.KindJSXExpression:
		inner, ok := child.FirstNamedChild()
		if !ok {
			return false
		}
		if inner.Kind() == syntax.KindSpreadElement {
			return true
		}
		return !rendersNothing(Fold(inner))
	}
	// Anything else, including parser error nodes, is given the benefit of
	// the doubt.
	return true
}

// rendersNothing reports whether React skips the value when rendering it as a
// child: booleans, null, undefined and the empty string.
func rendersNothing(v StaticValue) bool {
	switch v.Kind {
	case ValueBoolean, ValueNull, ValueUndefined:
		return true
	case ValueString:
		return v.Text == ""
	}
	return false
}
