package a11y

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/jsx"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

func check(t *testing.T, src string) ([]diag.Diagnostic, *syntax.Tree) {
	t.Helper()
	tree, err := syntax.Parse("heading.jsx", []byte(src))
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	reg := analyzer.NewRegistry(analyzer.Bind[jsx.AnyElement, struct{}](UseHeadingContent{}))
	bag := diag.NewBag()
	require.NoError(t, reg.Analyze(context.Background(), &analyzer.File{Tree: tree}, bag))
	return bag.Items(), tree
}

func TestUseHeadingContent(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		// Empty headings and non-headings.
		{"self-closing heading", `<h1 />`, true},
		{"empty heading", `<h2></h2>`, true},
		{"blank heading", "<h3>\n  \n</h3>", true},
		{"every level", `<><h4 /><h5 /><h6 /></>`, true},
		{"self-closing div", `<div />`, false},
		{"empty paragraph", `<p></p>`, false},
		{"component named like a heading", `<H1 />`, false},
		{"member tag", `<ui.h1 />`, false},

		// Content.
		{"text", `<h1>heading</h1>`, false},
		{"character reference", `<h1>&nbsp;</h1>`, false},
		{"element child", `<h1><span>title</span></h1>`, false},
		{"expression child", `<h1>{title}</h1>`, false},
		{"empty expression", `<h1>{}</h1>`, true},
		{"null expression", `<h1>{null}</h1>`, true},
		{"boolean expression", `<h1>{false}</h1>`, true},

		// Hidden content.
		{"hidden heading", `<h1 aria-hidden>title</h1>`, true},
		{"hidden heading with html", `<h1 aria-hidden="true" dangerouslySetInnerHTML={{ __html: "x" }} />`, true},
		{"not hidden heading", `<h1 aria-hidden={false}>title</h1>`, false},
		{"only hidden child", `<h1><div aria-hidden /></h1>`, true},
		{"hidden then visible", `<h1><div aria-hidden="true"></div>visible content</h1>`, false},
		{"hidden first child then element", `<h1><span aria-hidden>x</span><span>Title</span></h1>`, false},
		{"visible wrapper around hidden", `<h1><span><i aria-hidden /></span></h1>`, false},
		{"hidden wrapper around text", `<h1><span aria-hidden><b>deep</b></span></h1>`, true},

		// Content through props.
		{"dangerouslySetInnerHTML", `<h1 dangerouslySetInnerHTML={{ __html: "heading" }} />`, false},
		{"children prop", `<h1 children="title" />`, false},
		{"dynamic children prop", `<h1 children={title} />`, false},
		{"falsy children prop", `<h1 children={false} />`, true},
		{"empty children prop", `<h1 children="" />`, true},
		{"bare children prop", `<h1 children />`, true},
		{"spread props", `<h1 {...props} />`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := check(t, tt.src)
			if tt.want {
				assert.NotEmpty(t, got)
			} else {
				assert.Empty(t, got)
			}
		})
	}
}

func TestUseHeadingContent_Ranges(t *testing.T) {
	t.Run("element", func(t *testing.T) {
		src := `const x = <h1></h1>;`
		got, tree := check(t, src)
		require.Len(t, got, 1)
		assert.Equal(t, "<h1></h1>", tree.Slice(got[0].Range))
	})

	t.Run("self-closing", func(t *testing.T) {
		src := `const x = <h2 />;`
		got, tree := check(t, src)
		require.Len(t, got, 1)
		assert.Equal(t, "<h2 />", tree.Slice(got[0].Range))
	})
}

func TestUseHeadingContent_Diagnostic(t *testing.T) {
	got, _ := check(t, `<h1 />`)
	require.Len(t, got, 1)
	d := got[0]
	assert.Equal(t, diag.Category("lint/a11y/useHeadingContent"), d.Category)
	assert.Equal(t, "Provide screen reader accessible content when using heading elements.", d.Message)
	assert.Equal(t, []string{"All headings on a page should have content that is accessible to screen readers."}, d.Notes)
	assert.Empty(t, d.Details)
	assert.Equal(t, "heading.jsx", d.File)
}

func TestUseHeadingContent_Idempotent(t *testing.T) {
	src := `<><h1 /><h2>ok</h2><h3 aria-hidden>x</h3></>`
	first, _ := check(t, src)
	second, _ := check(t, src)
	assert.Len(t, first, 2)
	assert.Equal(t, first, second)
}
