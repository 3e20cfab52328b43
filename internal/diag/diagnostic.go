package diag

import (
	"slices"

	"github.com/dejo1307/jsxlint/internal/syntax"
)

// Category identifies the rule that produced a diagnostic, e.g.
// "lint/a11y/useHeadingContent".
type Category string

// Detail is a secondary annotated range.
type Detail struct {
	Range   syntax.TextRange `json:"range" msgpack:"r"`
	Message string           `json:"message" msgpack:"m"`
}

// Diagnostic is a finished finding. Ranges are byte offsets into the exact
// source snapshot that was analyzed.
type Diagnostic struct {
	Category Category         `json:"category" msgpack:"c"`
	Severity Severity         `json:"severity" msgpack:"v"`
	File     string           `json:"file,omitempty" msgpack:"f"`
	Range    syntax.TextRange `json:"range" msgpack:"r"`
	Message  string           `json:"message" msgpack:"m"`
	Details  []Detail         `json:"details,omitempty" msgpack:"d"`
	Notes    []string         `json:"notes,omitempty" msgpack:"n"`
}

// New starts a diagnostic anchored at primary. Details and notes are added
// with the chaining methods below.
func New(category Category, primary syntax.TextRange, msg string) Diagnostic {
	return Diagnostic{
		Category: category,
		Severity: SevError,
		Range:    primary,
		Message:  msg,
	}
}

// Detail appends a secondary range. The receiver is left untouched.
func (d Diagnostic) Detail(rng syntax.TextRange, msg string) Diagnostic {
	d.Details = append(slices.Clip(d.Details), Detail{Range: rng, Message: msg})
	return d
}

// Note appends a free-text note. The receiver is left untouched.
func (d Diagnostic) Note(msg string) Diagnostic {
	d.Notes = append(slices.Clip(d.Notes), msg)
	return d
}

// WithSeverity returns a copy with the given severity.
func (d Diagnostic) WithSeverity(sev Severity) Diagnostic {
	d.Severity = sev
	return d
}

// InFile returns a copy attributed to path.
func (d Diagnostic) InFile(path string) Diagnostic {
	d.File = path
	return d
}
