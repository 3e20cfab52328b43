package analyzer

import (
	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// Rule is a single lint check. N is the node view selected by Query, S the
// signal Run produces for each problem found on that node.
type Rule[N, S any] interface {
	Meta() Metadata
	Query() Query[N]
	// Run inspects one matched node. It returns nil when there is nothing to
	// report.
	Run(ctx *Context[N]) []S
	// Diagnostic turns a signal into a diagnostic. Returning false drops the
	// signal silently.
	Diagnostic(ctx *Context[N], signal S) (diag.Diagnostic, bool)
}

// Category is shorthand for ctx.Meta().Category().
func (c *Context[N]) Category() diag.Category {
	return c.meta.Category()
}

// Entry is a rule with its type parameters erased, ready to be placed in a
// Registry.
type Entry struct {
	meta     Metadata
	phase    Phase
	kinds    []string
	severity diag.Severity
	run      func(f *fileState, n syntax.Node, meta *Metadata, emit func(diag.Diagnostic))
}

// Bind erases the type parameters of rule.
func Bind[N, S any](rule Rule[N, S]) Entry {
	meta := rule.Meta()
	q := rule.Query()
	return Entry{
		meta:     meta,
		phase:    q.phase,
		kinds:    q.kinds,
		severity: meta.Severity,
		run: func(f *fileState, n syntax.Node, meta *Metadata, emit func(diag.Diagnostic)) {
			node, ok := q.cast(n)
			if !ok {
				return
			}
			ctx := &Context[N]{node: node, raw: n, phase: q.phase, file: f, meta: meta}
			for _, signal := range rule.Run(ctx) {
				if d, ok := rule.Diagnostic(ctx, signal); ok {
					emit(d)
				}
			}
		},
	}
}

func (e Entry) Meta() Metadata {
	return e.meta
}

func (e Entry) Phase() Phase {
	return e.phase
}

// Severity is the severity every diagnostic of the rule is reported with.
func (e Entry) Severity() diag.Severity {
	return e.severity
}

// WithSeverity returns a copy of e reporting at sev.
func (e Entry) WithSeverity(sev diag.Severity) Entry {
	e.severity = sev
	return e
}
