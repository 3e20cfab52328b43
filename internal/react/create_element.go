// Package react recognises calls to element factories such as
// React.createElement and exposes their arguments the same way JSX elements
// expose their attributes.
package react

import (
	"github.com/dejo1307/jsxlint/internal/semantic"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// Factory describes an element factory: a function taking
// (tag, props, ...children) that builds the same element as JSX markup.
type Factory struct {
	// Module is the import specifier the factory is exported from.
	Module string `yaml:"module"`
	// Namespace is the global the library installs when loaded without a
	// module system, e.g. "React". Empty when there is none.
	Namespace string `yaml:"namespace"`
	// Name is the exported function name, e.g. "createElement".
	Name string `yaml:"name"`
}

// DefaultFactories is React's createElement.
var DefaultFactories = []Factory{
	{Module: "react", Namespace: "React", Name: "createElement"},
}

// CreateElementCall is a call expression confirmed to invoke a Factory.
type CreateElementCall struct {
	Call    syntax.Node
	Factory Factory
	// Tag is the first argument.
	Tag syntax.Node
	// Props is the second argument when it is an object literal.
	Props syntax.Node
	// Children are the arguments after props.
	Children []syntax.Node
}

// FromCallExpression matches call against factories. It returns false, and
// never an error, whenever the call cannot be classified with confidence:
// the callee names no factory, the call has no arguments, or the callee
// identifier is bound to something other than the factory's module export.
func FromCallExpression(call syntax.Node, model semantic.Model, factories []Factory) (CreateElementCall, bool) {
	if call.Kind() != syntax.KindCallExpression || model == nil {
		return CreateElementCall{}, false
	}
	callee, ok := call.Field("function")
	if !ok {
		return CreateElementCall{}, false
	}
	factory, ok := matchCallee(callee, model, factories)
	if !ok {
		return CreateElementCall{}, false
	}
	argList, ok := call.Field("arguments")
	if !ok || argList.Kind() != syntax.KindArguments {
		return CreateElementCall{}, false
	}
	args := argList.NamedChildren()
	if len(args) == 0 {
		return CreateElementCall{}, false
	}

	c := CreateElementCall{Call: call, Factory: factory, Tag: args[0]}
	if len(args) > 1 {
		if args[1].Kind() == syntax.KindObject {
			c.Props = args[1]
		}
		c.Children = args[2:]
	}
	return c, true
}

func matchCallee(callee syntax.Node, model semantic.Model, factories []Factory) (Factory, bool) {
	for _, f := range factories {
		if isFactoryCallee(callee, model, f) {
			return f, true
		}
	}
	return Factory{}, false
}

// isFactoryCallee accepts `Namespace.name(...)` and a bare `name(...)`.
func isFactoryCallee(callee syntax.Node, model semantic.Model, f Factory) bool {
	switch callee.Kind() {
	case syntax.KindMemberExpression:
		prop, ok := callee.Field("property")
		if !ok || prop.Text() != f.Name {
			return false
		}
		object, ok := callee.Field("object")
		if !ok || object.Kind() != syntax.KindIdentifier {
			return false
		}
		decl, bound := model.ResolveIdentifier(object)
		if !bound {
			return f.Namespace != "" && object.Text() == f.Namespace
		}
		return decl.IsModuleBinding(f.Module, semantic.ImportDefault, semantic.ImportNamespace)

	case syntax.KindIdentifier:
		decl, bound := model.ResolveIdentifier(callee)
		if !bound {
			return false
		}
		return decl.IsModuleBinding(f.Module, f.Name)
	}
	return false
}

// HasProps reports whether the props argument is an object literal.
func (c CreateElementCall) HasProps() bool {
	return c.Props.Exists()
}

// PropMember is one member of the props object literal.
type PropMember struct {
	node syntax.Node
}

func (m PropMember) Node() syntax.Node {
	return m.node
}

// Name returns the static key of the member.
func (m PropMember) Name() string {
	return memberName(m.node)
}

// Value returns the member value; shorthand members are their own value.
func (m PropMember) Value() (syntax.Node, bool) {
	switch m.node.Kind() {
	case syntax.KindPair:
		return m.node.Field("value")
	case syntax.KindShorthandPropertyID:
		return m.node, true
	}
	return syntax.Node{}, false
}

func (m PropMember) Range() syntax.TextRange {
	return m.node.TrimmedRange()
}

// Members returns the named members of the props object in source order.
// Spread members are skipped.
func (c CreateElementCall) Members() []PropMember {
	if !c.HasProps() {
		return nil
	}
	var out []PropMember
	for _, m := range c.Props.NamedChildren() {
		if memberName(m) != "" {
			out = append(out, PropMember{node: m})
		}
	}
	return out
}

// FindPropByName returns the first member of the props object whose static
// key equals name, mirroring jsx.FindAttributeByName.
func (c CreateElementCall) FindPropByName(name string) (PropMember, bool) {
	for _, m := range c.Members() {
		if m.Name() == name {
			return m, true
		}
	}
	return PropMember{}, false
}

// HasSpreadProp reports whether the props object spreads another object in.
func (c CreateElementCall) HasSpreadProp() bool {
	if !c.HasProps() {
		return false
	}
	for _, m := range c.Props.NamedChildren() {
		if m.Kind() == syntax.KindSpreadElement {
			return true
		}
	}
	return false
}

// ChildrenRange covers every children argument, or false when there are none.
func (c CreateElementCall) ChildrenRange() (syntax.TextRange, bool) {
	if len(c.Children) == 0 {
		return syntax.TextRange{}, false
	}
	r := c.Children[0].TrimmedRange()
	return r.Cover(c.Children[len(c.Children)-1].TrimmedRange()), true
}

// memberName returns the static key of an object member. Computed keys have
// no static name.
func memberName(m syntax.Node) string {
	switch m.Kind() {
	case syntax.KindShorthandPropertyID:
		return m.Text()
	case syntax.KindPair, syntax.KindMethodDefinition:
		var key syntax.Node
		var ok bool
		if m.Kind() == syntax.KindPair {
			key, ok = m.Field("key")
		} else {
			key, ok = m.Field("name")
		}
		if !ok {
			return ""
		}
		switch key.Kind() {
		case syntax.KindPropertyIdentifier:
			return key.Text()
		case syntax.KindString:
			return syntax.Unquote(key)
		}
	}
	return ""
}
