package report

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

func diagnostics() []diag.Diagnostic {
	return []diag.Diagnostic{
		diag.New("lint/a11y/useHeadingContent", syntax.TextRange{Start: 0, End: 6}, "heading").
			Note("note").
			InFile("a.jsx"),
		diag.New("lint/security/noDangerouslySetInnerHtmlWithChildren", syntax.TextRange{Start: 5, End: 30}, "danger").
			Detail(syntax.TextRange{Start: 31, End: 36}, "children").
			WithSeverity(diag.SevWarning).
			InFile("b.jsx"),
		diag.New("lint/a11y/useHeadingContent", syntax.TextRange{Start: 10, End: 16}, "heading").
			InFile("a.jsx"),
	}
}

func TestJSONL(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, diagnostics()))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))
	assert.Contains(t, buf.String(), `"severity":"warning"`)

	got, err := ReadJSONL(&buf)
	require.NoError(t, err)
	assert.Equal(t, diagnostics(), got)
}

func TestJSONLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diagnostics.jsonl")
	require.NoError(t, WriteJSONLFile(path, diagnostics()))

	got, err := ReadJSONLFile(path)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	_, err = ReadJSONLFile(filepath.Join(t.TempDir(), "missing.jsonl"))
	assert.Error(t, err)
}

func TestReadJSONL_Invalid(t *testing.T) {
	_, err := ReadJSONL(strings.NewReader("{\"severity\":\"loud\"}\n"))
	assert.Error(t, err)

	got, err := ReadJSONL(strings.NewReader("\n\n"))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReport_Queries(t *testing.T) {
	r := &Report{Diagnostics: diagnostics()}
	assert.True(t, r.HasErrors())
	assert.Equal(t, 2, r.Count(diag.SevError))
	assert.Equal(t, 1, r.Count(diag.SevWarning))
	assert.Len(t, r.ByFile("a.jsx"), 2)
	assert.Equal(t, []string{"a.jsx", "b.jsx"}, r.Files())

	warnings := &Report{Diagnostics: r.ByFile("b.jsx")}
	assert.False(t, warnings.HasErrors())

	broken := &Report{Errors: []FileError{{Path: "c.jsx", Message: "parse failed"}}}
	assert.True(t, broken.HasErrors())
}
