package jsonreport

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/report"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

func TestJSONRenderer(t *testing.T) {
	src := "x;\n<h1 />;\n"
	rep := &report.Report{
		Meta: report.Meta{Root: "/repo", FileCount: 2, DiagnosticCount: 2},
		Diagnostics: []diag.Diagnostic{
			diag.New("lint/a11y/useHeadingContent", syntax.TextRange{Start: 3, End: 9}, "msg").InFile("a.jsx"),
			diag.New("lint/a11y/useHeadingContent", syntax.TextRange{Start: 0, End: 1}, "msg").InFile("gone.jsx"),
		},
		Errors:  []report.FileError{{Path: "b.jsx", Message: "unreadable"}},
		Sources: map[string][]byte{"a.jsx": []byte(src)},
	}

	artifacts, err := New().Render(context.Background(), rep)
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, ArtifactName, artifacts[0].Name)
	assert.Equal(t, "application/json", artifacts[0].Type)

	var doc struct {
		Meta        report.Meta `json:"meta"`
		Diagnostics []struct {
			Category string           `json:"category"`
			Severity string           `json:"severity"`
			File     string           `json:"file"`
			Range    syntax.TextRange `json:"range"`
			Start    *syntax.Position `json:"start"`
			End      *syntax.Position `json:"end"`
		} `json:"diagnostics"`
		Errors []report.FileError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(artifacts[0].Content, &doc))

	assert.Equal(t, "/repo", doc.Meta.Root)
	require.Len(t, doc.Diagnostics, 2)

	first := doc.Diagnostics[0]
	assert.Equal(t, "lint/a11y/useHeadingContent", first.Category)
	assert.Equal(t, "error", first.Severity)
	assert.Equal(t, syntax.TextRange{Start: 3, End: 9}, first.Range)
	require.NotNil(t, first.Start)
	assert.Equal(t, syntax.Position{Line: 2, Column: 1}, *first.Start)
	assert.Equal(t, syntax.Position{Line: 2, Column: 7}, *first.End)

	assert.Nil(t, doc.Diagnostics[1].Start, "no source, no positions")
	assert.Equal(t, []report.FileError{{Path: "b.jsx", Message: "unreadable"}}, doc.Errors)
}

func TestJSONRenderer_Empty(t *testing.T) {
	artifacts, err := New().Render(context.Background(), &report.Report{})
	require.NoError(t, err)
	assert.Contains(t, string(artifacts[0].Content), `"diagnostics": []`)
}
