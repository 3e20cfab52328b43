// Package a11y holds accessibility rules for JSX markup.
package a11y

import (
	"slices"

	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/jsx"
)

var headingElements = []string{"h1", "h2", "h3", "h4", "h5", "h6"}

// UseHeadingContent requires heading elements to have content that screen
// readers can reach. Content hidden with aria-hidden does not count.
type UseHeadingContent struct{}

var _ analyzer.Rule[jsx.AnyElement, struct{}] = UseHeadingContent{}

func (UseHeadingContent) Meta() analyzer.Metadata {
	return analyzer.Metadata{
		Name:        "useHeadingContent",
		Group:       "a11y",
		Version:     "1.0.0",
		Source:      "eslint-plugin-jsx-a11y/heading-has-content",
		Recommended: true,
		Severity:    diag.SevError,
		Docs: "Enforce that heading elements (h1, h2, etc.) have content and that the content " +
			"is accessible to screen readers. Accessible means that it is not hidden using the aria-hidden prop.",
		Invalid: []string{
			`<h1 />`,
			`<h1><div aria-hidden /></h1>`,
			`<h1></h1>`,
			`<h2 aria-hidden>title</h2>`,
		},
		Valid: []string{
			`<h1>heading</h1>`,
			`<h1><div aria-hidden="true"></div>visible content</h1>`,
			`<h1 dangerouslySetInnerHTML={{ __html: "heading" }} />`,
			`<h1><div aria-hidden />visible content</h1>`,
			`<h3 children={title} />`,
			`<h4 {...props} />`,
		},
	}
}

func (UseHeadingContent) Query() analyzer.Query[jsx.AnyElement] {
	return analyzer.Ast(jsx.AsAnyElement, jsx.AnyElementKinds...)
}

func (UseHeadingContent) Run(ctx *analyzer.Context[jsx.AnyElement]) []struct{} {
	el := ctx.Node()
	name, ok := el.Name()
	if !ok || !slices.Contains(headingElements, name) {
		return nil
	}
	if el.HasTruthyAttribute("aria-hidden") {
		return []struct{}{{}}
	}
	if hasValidHeadingContent(el) {
		return nil
	}
	switch el.Kind() {
	case jsx.OpeningElement:
		if !el.HasAccessibleChild() {
			return []struct{}{{}}
		}
	case jsx.SelfClosingElement:
		return []struct{}{{}}
	}
	return nil
}

func (UseHeadingContent) Diagnostic(ctx *analyzer.Context[jsx.AnyElement], _ struct{}) (diag.Diagnostic, bool) {
	el := ctx.Node()
	var d diag.Diagnostic
	switch el.Kind() {
	case jsx.OpeningElement:
		element, ok := el.Element()
		if !ok {
			return diag.Diagnostic{}, false
		}
		d = diag.New(ctx.Category(), element.Range(), "Provide screen reader accessible content when using heading elements.")
	case jsx.SelfClosingElement:
		d = diag.New(ctx.Category(), el.Node().TrimmedRange(), "Provide screen reader accessible content when using heading elements.")
	default:
		return diag.Diagnostic{}, false
	}
	return d.Note("All headings on a page should have content that is accessible to screen readers."), true
}

// hasValidHeadingContent reports content supplied through props rather than
// children: dangerouslySetInnerHTML, a children prop that is not statically
// falsy, or a spread that may carry either.
func hasValidHeadingContent(el jsx.AnyElement) bool {
	if _, ok := el.FindAttributeByName("dangerouslySetInnerHTML"); ok {
		return true
	}
	if attr, ok := el.FindAttributeByName("children"); ok && attr.HasInitializer() && !attr.StaticValue().IsFalsy() {
		return true
	}
	return el.HasSpreadProp()
}
