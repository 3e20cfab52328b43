package jsx

import (
	"math"
	"strconv"
	"strings"

	"github.com/dejo1307/jsxlint/internal/syntax"
)

// ValueKind classifies a folded constant.
type ValueKind uint8

const (
	// ValueUnknown means the expression could not be folded.
	ValueUnknown ValueKind = iota
	ValueBoolean
	ValueNumber
	ValueString
	ValueNull
	ValueUndefined
	// ValueObject covers object, array, function and element literals. Their
	// contents are not folded but they are always truthy.
	ValueObject
)

// Truthiness is the three-valued coercion result of a StaticValue.
type Truthiness uint8

const (
	TruthUnknown Truthiness = iota
	Truthy
	Falsy
)

// StaticValue is the constant an expression folds to, when it folds at all.
type StaticValue struct {
	Kind   ValueKind
	Bool   bool
	Number float64
	Text   string
}

// Unknown is the value of anything that does not fold.
var Unknown = StaticValue{}

func (v StaticValue) IsUnknown() bool {
	return v.Kind == ValueUnknown
}

// IsFalsy reports whether the value is definitely falsy. Empty strings, zero,
// false, null and undefined are falsy, and so are the string spellings "false"
// and "0" that markup attributes use for booleans. Unknown values are never
// falsy.
func (v StaticValue) IsFalsy() bool {
	return v.Truthiness() == Falsy
}

func (v StaticValue) Truthiness() Truthiness {
	switch v.Kind {
	case ValueBoolean:
		if v.Bool {
			return Truthy
		}
		return Falsy
	case ValueNumber:
		if v.Number == 0 || math.IsNaN(v.Number) {
			return Falsy
		}
		return Truthy
	case ValueString:
		switch v.Text {
		case "", "false", "0":
			return Falsy
		}
		return Truthy
	case ValueNull, ValueUndefined:
		return Falsy
	case ValueObject:
		return Truthy
	case ValueUnknown:
		return TruthUnknown
	}
	return TruthUnknown
}

// Fold evaluates n when it is a literal, a parenthesised literal, a JSX
// expression container or a simple unary operation over one.
func Fold(n syntax.Node) StaticValue {
	switch n.Kind() {
	case syntax.KindTrue:
		return StaticValue{Kind: ValueBoolean, Bool: true}
	case syntax.KindFalse:
		return StaticValue{Kind: ValueBoolean, Bool: false}
	case syntax.KindNull:
		return StaticValue{Kind: ValueNull}
	case syntax.KindUndefined:
		return StaticValue{Kind: ValueUndefined}
	case syntax.KindIdentifier:
		switch n.Text() {
		case "undefined":
			return StaticValue{Kind: ValueUndefined}
		case "NaN":
			return StaticValue{Kind: ValueNumber, Number: math.NaN()}
		}
		return Unknown
	case syntax.KindNumber:
		f, ok := parseNumber(n.Text())
		if !ok {
			return Unknown
		}
		return StaticValue{Kind: ValueNumber, Number: f}
	case syntax.KindString:
		return StaticValue{Kind: ValueString, Text: stringValue(n)}
	case syntax.KindTemplateString:
		if _, ok := n.ChildOfKind(syntax.KindTemplateSubstitution); ok {
			return Unknown
		}
		return StaticValue{Kind: ValueString, Text: syntax.Unquote(n)}
	case syntax.KindParenthesizedExpression, syntax.KindJSXExpression:
		inner, ok := n.FirstNamedChild()
		if !ok || inner.Kind() == syntax.KindSpreadElement {
			return Unknown
		}
		return Fold(inner)
	case syntax.KindUnaryExpression:
		return foldUnary(n)
	case syntax.KindObject, syntax.KindArray, syntax.KindArrowFunction,
		syntax.KindFunctionExpression, syntax.KindFunction,
		syntax.KindJSXElement, syntax.KindJSXSelfClosingElement:
		return StaticValue{Kind: ValueObject}
	}
	return Unknown
}

func foldUnary(n syntax.Node) StaticValue {
	op, ok := n.Field("operator")
	if !ok {
		return Unknown
	}
	arg, ok := n.Field("argument")
	if !ok {
		return Unknown
	}
	switch op.Text() {
	case "void":
		return StaticValue{Kind: ValueUndefined}
	case "!":
		switch Fold(arg).Truthiness() {
		case Truthy:
			return StaticValue{Kind: ValueBoolean, Bool: false}
		case Falsy:
			return StaticValue{Kind: ValueBoolean, Bool: true}
		}
	case "-", "+":
		v := Fold(arg)
		if v.Kind != ValueNumber {
			return Unknown
		}
		if op.Text() == "-" {
			v.Number = -v.Number
		}
		return v
	}
	return Unknown
}

func parseNumber(text string) (float64, bool) {
	text = strings.TrimSuffix(text, "n")
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return float64(i), true
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// stringValue decodes a string literal. JSX attribute strings carry no escape
// sequences; script strings are decoded when Go's quoting rules agree with them.
func stringValue(n syntax.Node) string {
	raw := syntax.Unquote(n)
	if !strings.Contains(raw, `\`) {
		return raw
	}
	if s, err := strconv.Unquote(`"` + strings.ReplaceAll(raw, `\'`, `'`) + `"`); err == nil {
		return s
	}
	return raw
}
