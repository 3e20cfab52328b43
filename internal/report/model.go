// Package report holds the outcome of a lint run and its persisted forms.
package report

import (
	"github.com/dejo1307/jsxlint/internal/diag"
)

// Report holds the complete result of a lint run.
type Report struct {
	Meta        Meta              `json:"meta"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
	Errors      []FileError       `json:"errors,omitempty"`
	// Sources maps each checked path to the exact bytes that were analyzed,
	// so renderers can quote excerpts at diagnostic offsets.
	Sources   map[string][]byte `json:"-"`
	Artifacts []Artifact        `json:"-"`
}

// Meta contains metadata about a lint run.
type Meta struct {
	Root            string     `json:"root"`
	GeneratedAt     string     `json:"generated_at"`
	Duration        string     `json:"duration"`
	Rules           []string   `json:"rules"`
	Fingerprint     string     `json:"fingerprint,omitempty"`
	FileHashes      []FileHash `json:"file_hashes,omitempty"`
	FileCount       int        `json:"file_count"`
	CachedCount     int        `json:"cached_count"`
	DiagnosticCount int        `json:"diagnostic_count"`
}

// FileHash tracks a file's content hash.
type FileHash struct {
	Path string `json:"path"`
	Hash string `json:"hash"`
}

// FileError is a file that could not be checked completely: unreadable,
// unparseable, or a rule failed on it.
type FileError struct {
	Path    string        `json:"path"`
	Rule    diag.Category `json:"rule,omitempty"`
	Message string        `json:"message"`
}

// Artifact represents a generated output file.
type Artifact struct {
	Name    string `json:"name"` // e.g. "report.txt"
	Content []byte `json:"-"`
	Type    string `json:"type"` // MIME type hint
}

// HasErrors reports whether the run should fail: an error-severity
// diagnostic or a file that could not be checked.
func (r *Report) HasErrors() bool {
	if len(r.Errors) > 0 {
		return true
	}
	return r.Count(diag.SevError) > 0
}

// Count returns the number of diagnostics with the given severity.
func (r *Report) Count(sev diag.Severity) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// ByFile returns the diagnostics of one file in report order.
func (r *Report) ByFile(path string) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, d := range r.Diagnostics {
		if d.File == path {
			out = append(out, d)
		}
	}
	return out
}

// Files returns the distinct files with diagnostics, in report order.
func (r *Report) Files() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, d := range r.Diagnostics {
		if _, ok := seen[d.File]; ok {
			continue
		}
		seen[d.File] = struct{}{}
		out = append(out, d.File)
	}
	return out
}
