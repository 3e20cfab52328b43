// Package textreport renders diagnostics for a terminal: one block per
// diagnostic with its location, message, a source excerpt and notes.
package textreport

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/report"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// ArtifactName is the name of the produced artifact.
const ArtifactName = "report.txt"

// TextRenderer formats a report as human-readable text.
type TextRenderer struct {
	contextLines int

	location *color.Color
	errorSev *color.Color
	warnSev  *color.Color
	infoSev  *color.Color
	gutter   *color.Color
	marker   *color.Color
	faint    *color.Color
}

// New creates a TextRenderer. contextLines is the number of source lines
// shown around the primary range; useColor forces ANSI colors on or off.
func New(contextLines int, useColor bool) *TextRenderer {
	if contextLines < 0 {
		contextLines = 0
	}
	r := &TextRenderer{
		contextLines: contextLines,
		location:     color.New(color.Bold),
		errorSev:     color.New(color.FgRed, color.Bold),
		warnSev:      color.New(color.FgYellow, color.Bold),
		infoSev:      color.New(color.FgCyan, color.Bold),
		gutter:       color.New(color.FgBlue),
		marker:       color.New(color.FgRed),
		faint:        color.New(color.Faint),
	}
	for _, c := range []*color.Color{r.location, r.errorSev, r.warnSev, r.infoSev, r.gutter, r.marker, r.faint} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

func (r *TextRenderer) Name() string {
	return "text"
}

// Render produces the report.txt artifact.
func (r *TextRenderer) Render(ctx context.Context, rep *report.Report) ([]report.Artifact, error) {
	var sb strings.Builder

	lineTables := make(map[string][]uint32)
	for i, d := range rep.Diagnostics {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		src, ok := rep.Sources[d.File]
		lines, cached := lineTables[d.File]
		if ok && !cached {
			lines = syntax.LineStarts(src)
			lineTables[d.File] = lines
		}
		r.renderDiagnostic(&sb, d, src, lines)
	}

	for _, fe := range rep.Errors {
		if fe.Rule != "" {
			fmt.Fprintf(&sb, "%s %s: rule %s failed: %s\n", r.errorSev.Sprint("error"), fe.Path, fe.Rule, fe.Message)
		} else {
			fmt.Fprintf(&sb, "%s %s: %s\n", r.errorSev.Sprint("error"), fe.Path, fe.Message)
		}
	}

	if len(rep.Diagnostics) > 0 || len(rep.Errors) > 0 {
		sb.WriteString("\n")
	}
	sb.WriteString(r.summary(rep))

	return []report.Artifact{{
		Name:    ArtifactName,
		Content: []byte(sb.String()),
		Type:    "text/plain",
	}}, nil
}

func (r *TextRenderer) severity(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return r.errorSev.Sprint(sev.String())
	case diag.SevWarning:
		return r.warnSev.Sprint(sev.String())
	default:
		return r.infoSev.Sprint(sev.String())
	}
}

func (r *TextRenderer) renderDiagnostic(sb *strings.Builder, d diag.Diagnostic, src []byte, lines []uint32) {
	loc := d.File
	if lines != nil {
		loc = fmt.Sprintf("%s:%s", d.File, syntax.PositionIn(lines, d.Range.Start))
	}
	fmt.Fprintf(sb, "%s %s %s\n", r.location.Sprint(loc), r.severity(d.Severity), r.faint.Sprint(string(d.Category)))
	fmt.Fprintf(sb, "  %s\n", d.Message)

	if lines != nil {
		sb.WriteString("\n")
		r.excerpt(sb, src, lines, d.Range)
	}

	for _, det := range d.Details {
		if lines != nil {
			fmt.Fprintf(sb, "\n  %s %s\n", r.gutter.Sprintf("at %s:", syntax.PositionIn(lines, det.Range.Start)), det.Message)
			r.excerpt(sb, src, lines, det.Range)
		} else {
			fmt.Fprintf(sb, "  %s\n", det.Message)
		}
	}
	for _, note := range d.Notes {
		fmt.Fprintf(sb, "  %s %s\n", r.infoSev.Sprint("i"), note)
	}
}

// excerpt writes the lines around rng with a caret marker under the part of
// the first line the range covers.
func (r *TextRenderer) excerpt(sb *strings.Builder, src []byte, lines []uint32, rng syntax.TextRange) {
	if int(rng.End) > len(src) || rng.Start > rng.End {
		return
	}
	start := syntax.PositionIn(lines, rng.Start)

	first := start.Line - r.contextLines
	if first < 1 {
		first = 1
	}
	last := start.Line + r.contextLines
	if last > len(lines) {
		last = len(lines)
	}

	for n := first; n <= last; n++ {
		text := lineText(src, lines, n)
		fmt.Fprintf(sb, "%s %s\n", r.gutter.Sprintf("%4d│", n), text)
		if n != start.Line {
			continue
		}
		col := min(start.Column-1, len(text))
		end := col + int(rng.End-rng.Start)
		if end > len(text) {
			end = len(text)
		}
		// Columns are byte offsets; the marker is laid out in display cells.
		pad := runewidth.StringWidth(text[:col])
		width := max(runewidth.StringWidth(text[col:end]), 1)
		fmt.Fprintf(sb, "%s %s%s\n", r.gutter.Sprint("    │"), strings.Repeat(" ", pad), r.marker.Sprint(strings.Repeat("^", width)))
	}
}

// lineText returns line n (1-based) without its terminator.
func lineText(src []byte, lines []uint32, n int) string {
	begin := lines[n-1]
	end := uint32(len(src))
	if n < len(lines) {
		end = lines[n] - 1
	}
	return strings.TrimRight(string(src[begin:end]), "\r")
}

func (r *TextRenderer) summary(rep *report.Report) string {
	errs := rep.Count(diag.SevError)
	warns := rep.Count(diag.SevWarning)
	infos := rep.Count(diag.SevInfo)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Checked %d %s", rep.Meta.FileCount, plural(rep.Meta.FileCount, "file", "files"))
	if rep.Meta.CachedCount > 0 {
		fmt.Fprintf(&sb, " (%d cached)", rep.Meta.CachedCount)
	}
	if rep.Meta.Duration != "" {
		fmt.Fprintf(&sb, " in %s", rep.Meta.Duration)
	}
	sb.WriteString(".\n")

	if errs+warns+infos == 0 && len(rep.Errors) == 0 {
		sb.WriteString("No problems found.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Found %s, %s and %s.\n",
		r.errorSev.Sprintf("%d %s", errs, plural(errs, "error", "errors")),
		r.warnSev.Sprintf("%d %s", warns, plural(warns, "warning", "warnings")),
		r.infoSev.Sprintf("%d %s", infos, plural(infos, "info", "infos")))
	if len(rep.Errors) > 0 {
		fmt.Fprintf(&sb, "%d %s could not be checked.\n", len(rep.Errors), plural(len(rep.Errors), "file", "files"))
	}
	return sb.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
