package security

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/react"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

func check(t *testing.T, src string, factories []react.Factory) ([]diag.Diagnostic, *syntax.Tree) {
	t.Helper()
	tree, err := syntax.Parse("danger.jsx", []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	rule := NewNoDangerouslySetInnerHTMLWithChildren(factories)
	reg := analyzer.NewRegistry(analyzer.Bind[AnyCreateElement, State](rule))
	bag := diag.NewBag()
	require.NoError(t, reg.Analyze(context.Background(), &analyzer.File{Tree: tree}, bag))
	return bag.Items(), tree
}

func TestNoDangerouslySetInnerHTMLWithChildren_Signals(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		primary  string
		children string
	}{
		{
			name:     "factory call with children argument",
			src:      `React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");`,
			primary:  `dangerouslySetInnerHTML: { __html: "x" }`,
			children: `"child"`,
		},
		{
			name:     "factory call with several children",
			src:      `import React from "react"; React.createElement("div", { dangerouslySetInnerHTML: html }, a, b);`,
			primary:  `dangerouslySetInnerHTML: html`,
			children: `a, b`,
		},
		{
			name:     "factory call with children prop",
			src:      `import { createElement } from "react"; createElement("div", { children: "y", dangerouslySetInnerHTML: html });`,
			primary:  `dangerouslySetInnerHTML: html`,
			children: `children: "y"`,
		},
		{
			name:     "self-closing with children prop",
			src:      `<Component dangerouslySetInnerHTML={x} children="y" />`,
			primary:  `dangerouslySetInnerHTML={x}`,
			children: `children="y"`,
		},
		{
			name:     "element with text child",
			src:      `<div dangerouslySetInnerHTML={x}>child</div>`,
			primary:  `dangerouslySetInnerHTML={x}`,
			children: `child`,
		},
		{
			name:     "element with several children",
			src:      "<div dangerouslySetInnerHTML={x}>\n  <span />\n  text\n</div>",
			primary:  `dangerouslySetInnerHTML={x}`,
			children: "<span />\n  text",
		},
		{
			name:     "direct children win over the children prop",
			src:      `<div children="prop" dangerouslySetInnerHTML={x}>direct</div>`,
			primary:  `dangerouslySetInnerHTML={x}`,
			children: `direct`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, tree := check(t, tt.src, nil)
			require.Len(t, got, 1)
			d := got[0]
			assert.Equal(t, tt.primary, tree.Slice(d.Range))
			require.Len(t, d.Details, 1)
			assert.Equal(t, tt.children, tree.Slice(d.Details[0].Range))
			assert.False(t, d.Details[0].Range.Empty())
		})
	}
}

func TestNoDangerouslySetInnerHTMLWithChildren_NoSignal(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"html only", `<div dangerouslySetInnerHTML={{ __html: "x" }} />`},
		{"children only", `<div>child</div>`},
		{"whitespace children", "<div dangerouslySetInnerHTML={x}>\n  \n</div>"},
		{"empty element", `<div dangerouslySetInnerHTML={x}></div>`},
		{"children prop only", `<div children="y" />`},
		{"spread is not children", `<div dangerouslySetInnerHTML={x} {...props} />`},
		{"factory without children", `React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } });`},
		{"factory without props", `React.createElement("div", null, "child");`},
		{"props not an object", `React.createElement("div", props, "child");`},
		{"other call", `render("div", { dangerouslySetInnerHTML: x }, "child");`},
		{
			"shadowed factory function",
			`function createElement() {}
createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");`,
		},
		{
			"shadowed namespace",
			`const React = { createElement() {} };
React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");`,
		},
		{
			"shadowing parameter",
			`import React from "react";
function render(React) {
  return React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");
}`,
		},
		{
			"for-of loop variable",
			`for (const React of libs) {
  React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");
}`,
		},
		{
			"for-in loop variable",
			`import { createElement } from "react";
for (const createElement in fns) {
  createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");
}`,
		},
		{
			"var loop variable",
			`function f() {
  for (var React of libs) {}
  return React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");
}`,
		},
		{
			"named class expression",
			`const x = class React {
  m() { return React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child"); }
};`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := check(t, tt.src, nil)
			assert.Empty(t, got)
		})
	}
}

func TestNoDangerouslySetInnerHTMLWithChildren_Diagnostic(t *testing.T) {
	got, _ := check(t, `<div dangerouslySetInnerHTML={x}>child</div>`, nil)
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, diag.Category("lint/security/noDangerouslySetInnerHtmlWithChildren"), d.Category)
	assert.Equal(t, diag.SevError, d.Severity)
	assert.Equal(t, "Avoid passing both children and the dangerouslySetInnerHTML prop.", d.Message)
	assert.Equal(t, "This is the source of the children prop", d.Details[0].Message)
	assert.Equal(t, []string{"Setting HTML content will inadvertently override any passed children in React"}, d.Notes)
}

func TestNoDangerouslySetInnerHTMLWithChildren_CustomFactory(t *testing.T) {
	preact := []react.Factory{{Module: "preact", Name: "h"}}
	src := `import { h } from "preact";
h("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");`

	got, _ := check(t, src, preact)
	assert.Len(t, got, 1)

	got, _ = check(t, src, nil)
	assert.Empty(t, got)
}

func TestNoDangerouslySetInnerHTMLWithChildren_TypeScript(t *testing.T) {
	tree, err := syntax.Parse("danger.ts", []byte(`import * as React from "react";
React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } } as Props, "child");
React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");`))
	require.NoError(t, err)
	defer tree.Close()

	reg := analyzer.NewRegistry(analyzer.Bind[AnyCreateElement, State](NewNoDangerouslySetInnerHTMLWithChildren(nil)))
	bag := diag.NewBag()
	require.NoError(t, reg.Analyze(context.Background(), &analyzer.File{Tree: tree}, bag))
	// The props argument of the first call is an `as` expression, not an
	// object literal, so only the second call is classified.
	assert.Equal(t, 1, bag.Len())
}

func TestAsAnyCreateElement(t *testing.T) {
	tree, err := syntax.Parse("x.jsx", []byte(`<a><b /></a>; f();`))
	require.NoError(t, err)
	defer tree.Close()

	var kinds []CreateElementKind
	require.NoError(t, tree.Walk(func(n syntax.Node) error {
		if el, ok := AsAnyCreateElement(n); ok {
			kinds = append(kinds, el.Kind())
			assert.Equal(t, n.ID(), el.Node().ID())
		}
		return nil
	}))
	assert.Equal(t, []CreateElementKind{JSXElement, JSXSelfClosingElement, CallExpression}, kinds)
}
