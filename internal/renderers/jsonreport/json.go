// Package jsonreport renders a report as a single JSON document with
// line/column positions added to every range.
package jsonreport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/report"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// ArtifactName is the name of the produced artifact.
const ArtifactName = "report.json"

// JSONRenderer formats a report as indented JSON.
type JSONRenderer struct{}

func New() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Name() string {
	return "json"
}

type document struct {
	Meta        report.Meta        `json:"meta"`
	Diagnostics []entry            `json:"diagnostics"`
	Errors      []report.FileError `json:"errors,omitempty"`
}

type entry struct {
	diag.Diagnostic
	Start *syntax.Position `json:"start,omitempty"`
	End   *syntax.Position `json:"end,omitempty"`
}

// Render produces the report.json artifact.
func (r *JSONRenderer) Render(ctx context.Context, rep *report.Report) ([]report.Artifact, error) {
	doc := document{
		Meta:        rep.Meta,
		Diagnostics: make([]entry, 0, len(rep.Diagnostics)),
		Errors:      rep.Errors,
	}

	lineTables := make(map[string][]uint32)
	for _, d := range rep.Diagnostics {
		e := entry{Diagnostic: d}
		if src, ok := rep.Sources[d.File]; ok {
			lines, cached := lineTables[d.File]
			if !cached {
				lines = syntax.LineStarts(src)
				lineTables[d.File] = lines
			}
			start := syntax.PositionIn(lines, d.Range.Start)
			end := syntax.PositionIn(lines, d.Range.End)
			e.Start, e.End = &start, &end
		}
		doc.Diagnostics = append(doc.Diagnostics, e)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling report: %w", err)
	}
	return []report.Artifact{{
		Name:    ArtifactName,
		Content: append(data, '\n'),
		Type:    "application/json",
	}}, nil
}
