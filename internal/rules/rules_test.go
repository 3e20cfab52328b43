package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/config"
	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/react"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

func analyze(t *testing.T, reg *analyzer.Registry, src string) []diag.Diagnostic {
	t.Helper()
	tree, err := syntax.Parse("example.jsx", []byte(src))
	require.NoError(t, err)
	defer tree.Close()

	bag := diag.NewBag()
	require.NoError(t, reg.Analyze(context.Background(), &analyzer.File{Tree: tree}, bag))
	return bag.Items()
}

// TestDocumentationExamples keeps every rule's documented snippets honest.
func TestDocumentationExamples(t *testing.T) {
	for _, e := range All(react.DefaultFactories) {
		meta := e.Meta()
		reg := analyzer.NewRegistry(e)
		t.Run(meta.Key(), func(t *testing.T) {
			require.NotEmpty(t, meta.Invalid)
			require.NotEmpty(t, meta.Valid)
			for _, src := range meta.Invalid {
				got := analyze(t, reg, src)
				assert.NotEmpty(t, got, "expected a diagnostic for:\n%s", src)
				for _, d := range got {
					assert.Equal(t, meta.Category(), d.Category)
				}
			}
			for _, src := range meta.Valid {
				assert.Empty(t, analyze(t, reg, src), "expected no diagnostic for:\n%s", src)
			}
		})
	}
}

func TestAll_Metadata(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range All(nil) {
		meta := e.Meta()
		assert.NotEmpty(t, meta.Name)
		assert.NotEmpty(t, meta.Group)
		assert.NotEmpty(t, meta.Version)
		assert.NotEmpty(t, meta.Docs)
		assert.False(t, seen[meta.Key()], "duplicate %s", meta.Key())
		seen[meta.Key()] = true
	}
	assert.Len(t, seen, 2)
}

func TestNewRegistry(t *testing.T) {
	t.Run("recommended by default", func(t *testing.T) {
		reg, err := NewRegistry(config.Default())
		require.NoError(t, err)
		assert.Equal(t, 2, reg.Len())
	})

	t.Run("recommended disabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.Recommended = false
		reg, err := NewRegistry(cfg)
		require.NoError(t, err)
		assert.Zero(t, reg.Len())
	})

	t.Run("explicit settings", func(t *testing.T) {
		cfg := config.Default()
		cfg.Recommended = false
		cfg.Rules["a11y/useHeadingContent"] = config.RuleWarn
		reg, err := NewRegistry(cfg)
		require.NoError(t, err)
		require.Equal(t, 1, reg.Len())

		e, ok := reg.Lookup("a11y/useHeadingContent")
		require.True(t, ok)
		assert.Equal(t, diag.SevWarning, e.Severity())

		got := analyze(t, reg, `<h1 />`)
		require.Len(t, got, 1)
		assert.Equal(t, diag.SevWarning, got[0].Severity)
	})

	t.Run("off", func(t *testing.T) {
		cfg := config.Default()
		cfg.Rules["security/noDangerouslySetInnerHtmlWithChildren"] = config.RuleOff
		reg, err := NewRegistry(cfg)
		require.NoError(t, err)
		assert.Equal(t, 1, reg.Len())
		_, ok := reg.Lookup("security/noDangerouslySetInnerHtmlWithChildren")
		assert.False(t, ok)
	})

	t.Run("unknown rule", func(t *testing.T) {
		cfg := config.Default()
		cfg.Rules["a11y/noSuchRule"] = config.RuleError
		_, err := NewRegistry(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "a11y/noSuchRule")
	})
}

func TestNewRegistry_CustomFactories(t *testing.T) {
	cfg := config.Default()
	cfg.Factories = []react.Factory{{Module: "preact", Name: "h"}}
	reg, err := NewRegistry(cfg)
	require.NoError(t, err)

	got := analyze(t, reg, `import { h } from "preact";
h("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");`)
	assert.Len(t, got, 1)

	got = analyze(t, reg, `React.createElement("div", { dangerouslySetInnerHTML: { __html: "x" } }, "child");`)
	assert.Empty(t, got)
}
