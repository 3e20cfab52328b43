// Package semantic resolves identifier references to the declarations that
// bind them. Rules only consume the Model interface; Build provides a
// lexical-scope implementation over a parsed tree.
package semantic

import (
	"fmt"

	"github.com/dejo1307/jsxlint/internal/syntax"
)

// DeclarationKind classifies how a name was bound.
type DeclarationKind uint8

const (
	KindImport DeclarationKind = iota + 1
	// KindRequire is a variable initialised from `require("module")`.
	KindRequire
	KindFunction
	KindClass
	KindVariable
	KindParameter
	KindCatchParameter
)

func (k DeclarationKind) String() string {
	switch k {
	case KindImport:
		return "import"
	case KindRequire:
		return "require"
	case KindFunction:
		return "function"
	case KindClass:
		return "class"
	case KindVariable:
		return "variable"
	case KindParameter:
		return "parameter"
	case KindCatchParameter:
		return "catch parameter"
	}
	return fmt.Sprintf("DeclarationKind(%d)", k)
}

// Imported names used for whole-module bindings.
const (
	ImportDefault   = "default"
	ImportNamespace = "*"
)

// Declaration is the binding an identifier resolves to.
type Declaration struct {
	Kind DeclarationKind
	Name string
	// Node is the identifier that introduces the binding.
	Node syntax.Node
	// Source is the module specifier for imports and requires.
	Source string
	// Imported is the exported name the binding refers to: ImportDefault,
	// ImportNamespace or a named export.
	Imported string
}

// IsModuleBinding reports whether the declaration binds something exported
// by module under the given exported name.
func (d Declaration) IsModuleBinding(module string, imported ...string) bool {
	if d.Kind != KindImport && d.Kind != KindRequire {
		return false
	}
	if d.Source != module {
		return false
	}
	for _, name := range imported {
		if d.Imported == name {
			return true
		}
	}
	return false
}

// Model answers name-resolution queries for one tree.
type Model interface {
	// ResolveIdentifier returns the declaration that binds the identifier
	// ref, or false when the name is global or unknown.
	ResolveIdentifier(ref syntax.Node) (Declaration, bool)
}
