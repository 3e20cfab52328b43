package jsx

import "github.com/dejo1307/jsxlint/internal/syntax"

// Attribute is one `name` or `name=value` slot of an element's attribute
// list. Spread slots are not attributes; see HasSpreadProp.
type Attribute struct {
	node syntax.Node
}

// Node returns the underlying jsx_attribute node.
func (a Attribute) Node() syntax.Node {
	return a.node
}

// Name returns the attribute name, including any namespace prefix
// (`xlink:href`).
func (a Attribute) Name() string {
	name, ok := a.node.FirstNamedChild()
	if !ok {
		return ""
	}
	return name.Text()
}

// Initializer returns the value after `=`. Bare attributes have none.
func (a Attribute) Initializer() (syntax.Node, bool) {
	children := a.node.NamedChildren()
	if len(children) < 2 {
		return syntax.Node{}, false
	}
	return children[1], true
}

func (a Attribute) HasInitializer() bool {
	_, ok := a.Initializer()
	return ok
}

// StaticValue folds the initializer. A missing initializer is Unknown, never a
// determinate value.
func (a Attribute) StaticValue() StaticValue {
	init, ok := a.Initializer()
	if !ok {
		return Unknown
	}
	return Fold(init)
}

// Range is the trimmed source range of the whole attribute.
func (a Attribute) Range() syntax.TextRange {
	return a.node.TrimmedRange()
}

// attributeSlots returns attribute and spread slots in source order.
func attributeSlots(element syntax.Node) []syntax.Node {
	var slots []syntax.Node
	for _, c := range element.NamedChildren() {
		if c.Is(syntax.KindJSXAttribute, syntax.KindJSXExpression) {
			slots = append(slots, c)
		}
	}
	return slots
}

func isSpreadSlot(slot syntax.Node) bool {
	if slot.Kind() != syntax.KindJSXExpression {
		return false
	}
	inner, ok := slot.FirstNamedChild()
	return ok && inner.Kind() == syntax.KindSpreadElement
}

// Attributes returns the non-spread attributes of an opening or self-closing
// element in source order.
func Attributes(element syntax.Node) []Attribute {
	var attrs []Attribute
	for _, slot := range attributeSlots(element) {
		if slot.Kind() == syntax.KindJSXAttribute {
			attrs = append(attrs, Attribute{node: slot})
		}
	}
	return attrs
}

// FindAttributeByName returns the first attribute whose name equals name
// exactly. Later duplicates are ignored.
func FindAttributeByName(element syntax.Node, name string) (Attribute, bool) {
	for _, attr := range Attributes(element) {
		if attr.Name() == name {
			return attr, true
		}
	}
	return Attribute{}, false
}

// HasSpreadProp reports whether any slot spreads props of unknown shape into
// the element.
func HasSpreadProp(element syntax.Node) bool {
	for _, slot := range attributeSlots(element) {
		if isSpreadSlot(slot) {
			return true
		}
	}
	return false
}

// hasTrailingSpread reports whether a spread follows attr and may override it.
func hasTrailingSpread(element syntax.Node, attr Attribute) bool {
	after := false
	for _, slot := range attributeSlots(element) {
		if slot.ID() == attr.node.ID() {
			after = true
			continue
		}
		if after && isSpreadSlot(slot) {
			return true
		}
	}
	return false
}

// HasTruthyAttribute reports whether the named attribute is present and
// provably truthy: either bare (`<div hidden>`) or initialised with a value
// that folds to truthy. Dynamic values and attributes that a later spread may
// override are not provably truthy.
func HasTruthyAttribute(element syntax.Node, name string) bool {
	attr, ok := FindAttributeByName(element, name)
	if !ok {
		return false
	}
	if hasTrailingSpread(element, attr) {
		return false
	}
	if !attr.HasInitializer() {
		return true
	}
	return attr.StaticValue().Truthiness() == Truthy
}
