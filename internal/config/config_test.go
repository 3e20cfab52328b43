package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/react"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, ".", cfg.Root)
	assert.True(t, cfg.Recommended)
	assert.Equal(t, react.DefaultFactories, cfg.Factories)
	assert.Positive(t, cfg.Concurrency)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Contains(t, cfg.Ignore, "node_modules/**")
	assert.NoError(t, cfg.Validate())
}

func TestDefault_FactoriesAreCopied(t *testing.T) {
	cfg := Default()
	cfg.Factories[0].Name = "h"
	assert.Equal(t, "createElement", react.DefaultFactories[0].Name)
}

func TestLoad_Overrides(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `
root: src
recommended: false
rules:
  a11y/useHeadingContent: warn
  security/noDangerouslySetInnerHtmlWithChildren: "off"
factories:
  - module: preact
    name: h
concurrency: 2
output:
  format: json
cache:
  enabled: false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "src", cfg.Root)
	assert.False(t, cfg.Recommended)
	assert.Equal(t, []react.Factory{{Module: "preact", Name: "h"}}, cfg.Factories)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, 8000, cfg.Output.MaxTokens)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, ".jsxlint", cfg.Cache.Dir)

	s, ok := cfg.Setting("a11y/useHeadingContent")
	require.True(t, ok)
	sev, err := s.Severity()
	require.NoError(t, err)
	assert.Equal(t, diag.SevWarning, sev)

	s, ok = cfg.Setting("security/noDangerouslySetInnerHtmlWithChildren")
	require.True(t, ok)
	assert.True(t, s.Off())
}

func TestLoad_FillsDefaults(t *testing.T) {
	path := writeConfig(t, t.TempDir(), `concurrency: 0`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Positive(t, cfg.Concurrency)
	assert.Equal(t, react.DefaultFactories, cfg.Factories)
	assert.Contains(t, cfg.Include, "**/*.tsx")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"bad severity", "rules:\n  a11y/useHeadingContent: loud\n", "a11y/useHeadingContent"},
		{"bare rule name", "rules:\n  useHeadingContent: error\n", "expected group/name"},
		{"factory without name", "factories:\n  - module: react\n", "name is required"},
		{"bad color", "output:\n  color: sometimes\n", "output.color"},
		{"malformed yaml", "rules: [", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.content)
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadDir(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		dir := t.TempDir()
		cfg, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, dir, cfg.Root)
	})

	t.Run("relative root", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "root: web\n")
		cfg, err := LoadDir(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "web"), cfg.Root)
	})
}
