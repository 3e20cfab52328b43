// Package analyzer dispatches lint rules over a syntax tree.
//
// A rule declares a Query naming the node kinds it inspects and whether it
// needs the semantic model. Registry.Analyze walks a tree once, pre-order,
// runs every rule whose query matches the current node and turns each signal
// the rule returns into a diagnostic.
package analyzer

import (
	"github.com/dejo1307/jsxlint/internal/diag"
)

// Metadata describes a rule independently of its implementation.
type Metadata struct {
	// Name is the camelCase rule name, e.g. "useHeadingContent".
	Name string `json:"name"`
	// Group is the rule family, e.g. "a11y" or "security".
	Group string `json:"group"`
	// Version is the release that introduced the rule.
	Version string `json:"version"`
	// Source names the lint rule this one is modelled on.
	Source string `json:"source,omitempty"`
	// Recommended rules are enabled when no explicit setting exists.
	Recommended bool          `json:"recommended"`
	Severity    diag.Severity `json:"severity"`
	Docs        string        `json:"docs"`
	// Valid and Invalid are documentation snippets. Every Invalid snippet
	// yields at least one diagnostic and no Valid snippet yields any.
	Valid   []string `json:"valid,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

// Category returns the diagnostic category, e.g. "lint/a11y/useHeadingContent".
func (m Metadata) Category() diag.Category {
	return diag.Category("lint/" + m.Group + "/" + m.Name)
}

// Key returns "group/name", the form used in configuration files.
func (m Metadata) Key() string {
	return m.Group + "/" + m.Name
}
