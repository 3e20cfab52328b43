// Package mdsummary renders a compact markdown summary of a lint run for
// LLM consumption, trimmed to a token budget.
package mdsummary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/report"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// ArtifactName is the name of the produced artifact.
const ArtifactName = "summary.md"

// SummaryRenderer produces summary.md.
type SummaryRenderer struct {
	maxTokens int
}

// New creates a SummaryRenderer with the given token budget.
func New(maxTokens int) *SummaryRenderer {
	if maxTokens <= 0 {
		maxTokens = 8000
	}
	return &SummaryRenderer{maxTokens: maxTokens}
}

func (r *SummaryRenderer) Name() string {
	return "markdown"
}

// section holds a rendered section with its display name.
type section struct {
	name    string
	content string
}

// Render produces the summary.md artifact. Sections are ordered by priority;
// lower-priority sections are cut first when the budget is tight.
func (r *SummaryRenderer) Render(ctx context.Context, rep *report.Report) ([]report.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sections := []section{
		{"Summary", r.renderSummary(rep)},
		{"Not Checked", r.renderFileErrors(rep)},
		{"By Rule", r.renderByRule(rep)},
		{"Files Needing Attention", r.renderHotFiles(rep)},
		{"Diagnostics", r.renderDiagnostics(rep)},
		{"Meta", r.renderMeta(rep)},
	}

	header := "# Lint Report\n\n"
	maxChars := r.maxTokens * 4 // rough estimate: 1 token ~= 4 chars
	remaining := maxChars - len(header)

	var sb strings.Builder
	sb.WriteString(header)

	for i, sec := range sections {
		if sec.content == "" {
			continue
		}
		if len(sec.content) <= remaining {
			sb.WriteString(sec.content)
			remaining -= len(sec.content)
			continue
		}
		if remaining > 200 {
			// Cut at a line boundary inside the budget.
			cut := sec.content[:remaining-100]
			if nl := strings.LastIndexByte(cut, '\n'); nl > 0 {
				cut = cut[:nl+1]
			}
			sb.WriteString(cut)
			fmt.Fprintf(&sb, "\n---\n*[Truncated in: %s]*\n", sec.name)
			break
		}
		var omitted []string
		for _, s := range sections[i:] {
			if s.content != "" {
				omitted = append(omitted, s.name)
			}
		}
		fmt.Fprintf(&sb, "\n---\n*[Omitted: %s]*\n", strings.Join(omitted, ", "))
		break
	}

	return []report.Artifact{{
		Name:    ArtifactName,
		Content: []byte(sb.String()),
		Type:    "text/markdown",
	}}, nil
}

func (r *SummaryRenderer) renderSummary(rep *report.Report) string {
	var sb strings.Builder
	sb.WriteString("## Summary\n\n")
	fmt.Fprintf(&sb, "- Files checked: %d (%d from cache)\n", rep.Meta.FileCount, rep.Meta.CachedCount)
	fmt.Fprintf(&sb, "- Errors: %d\n", rep.Count(diag.SevError))
	fmt.Fprintf(&sb, "- Warnings: %d\n", rep.Count(diag.SevWarning))
	fmt.Fprintf(&sb, "- Infos: %d\n", rep.Count(diag.SevInfo))
	if len(rep.Errors) > 0 {
		fmt.Fprintf(&sb, "- Files not checked: %d\n", len(rep.Errors))
	}
	if len(rep.Diagnostics) == 0 && len(rep.Errors) == 0 {
		sb.WriteString("\n_No problems found._\n")
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *SummaryRenderer) renderFileErrors(rep *report.Report) string {
	if len(rep.Errors) == 0 {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Not Checked\n\n")
	for _, fe := range rep.Errors {
		if fe.Rule != "" {
			fmt.Fprintf(&sb, "- `%s`: rule `%s` failed: %s\n", fe.Path, fe.Rule, fe.Message)
		} else {
			fmt.Fprintf(&sb, "- `%s`: %s\n", fe.Path, fe.Message)
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *SummaryRenderer) renderByRule(rep *report.Report) string {
	if len(rep.Diagnostics) == 0 {
		return ""
	}

	type ruleCount struct {
		category diag.Category
		count    int
		files    map[string]bool
	}
	byRule := make(map[diag.Category]*ruleCount)
	for _, d := range rep.Diagnostics {
		rc, ok := byRule[d.Category]
		if !ok {
			rc = &ruleCount{category: d.Category, files: make(map[string]bool)}
			byRule[d.Category] = rc
		}
		rc.count++
		rc.files[d.File] = true
	}

	counts := make([]*ruleCount, 0, len(byRule))
	for _, rc := range byRule {
		counts = append(counts, rc)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].count != counts[j].count {
			return counts[i].count > counts[j].count
		}
		return counts[i].category < counts[j].category
	})

	var sb strings.Builder
	sb.WriteString("## By Rule\n\n")
	sb.WriteString("| Rule | Diagnostics | Files |\n")
	sb.WriteString("|------|-------------|-------|\n")
	for _, rc := range counts {
		fmt.Fprintf(&sb, "| `%s` | %d | %d |\n", rc.category, rc.count, len(rc.files))
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *SummaryRenderer) renderHotFiles(rep *report.Report) string {
	files := rep.Files()
	if len(files) < 2 {
		return ""
	}

	type fileScore struct {
		path   string
		errors int
		total  int
	}
	scored := make([]fileScore, 0, len(files))
	for _, f := range files {
		s := fileScore{path: f}
		for _, d := range rep.ByFile(f) {
			s.total++
			if d.Severity == diag.SevError {
				s.errors++
			}
		}
		scored = append(scored, s)
	}
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].errors != scored[j].errors {
			return scored[i].errors > scored[j].errors
		}
		return scored[i].total > scored[j].total
	})

	// Show top 10
	limit := min(len(scored), 10)

	var sb strings.Builder
	sb.WriteString("## Files Needing Attention\n\n")
	sb.WriteString("| File | Errors | Total |\n")
	sb.WriteString("|------|--------|-------|\n")
	for _, s := range scored[:limit] {
		fmt.Fprintf(&sb, "| `%s` | %d | %d |\n", s.path, s.errors, s.total)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *SummaryRenderer) renderDiagnostics(rep *report.Report) string {
	if len(rep.Diagnostics) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("## Diagnostics\n")
	for _, file := range rep.Files() {
		fmt.Fprintf(&sb, "\n### %s\n\n", file)
		var lines []uint32
		if src, ok := rep.Sources[file]; ok {
			lines = syntax.LineStarts(src)
		}
		for _, d := range rep.ByFile(file) {
			loc := "?"
			if lines != nil {
				loc = syntax.PositionIn(lines, d.Range.Start).String()
			}
			fmt.Fprintf(&sb, "- %s **%s** `%s`: %s\n", loc, d.Severity, d.Category, d.Message)
			for _, det := range d.Details {
				if lines != nil {
					fmt.Fprintf(&sb, "  - at %s: %s\n", syntax.PositionIn(lines, det.Range.Start), det.Message)
				} else {
					fmt.Fprintf(&sb, "  - %s\n", det.Message)
				}
			}
		}
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *SummaryRenderer) renderMeta(rep *report.Report) string {
	var sb strings.Builder
	sb.WriteString("---\n\n")
	fmt.Fprintf(&sb, "*Generated at %s in %s. Rules: %s.*\n",
		rep.Meta.GeneratedAt, rep.Meta.Duration, strings.Join(rep.Meta.Rules, ", "))
	return sb.String()
}
