package diag

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Reporter receives finished diagnostics. Implementations must not retain
// and mutate the Details or Notes slices.
type Reporter interface {
	Report(d Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic)

func (f ReporterFunc) Report(d Diagnostic) { f(d) }

// Bag collects diagnostics. It is safe for concurrent use.
type Bag struct {
	mu    sync.Mutex
	items []Diagnostic
}

func NewBag() *Bag {
	return &Bag{}
}

// Report implements Reporter.
func (b *Bag) Report(d Diagnostic) {
	b.Add(d)
}

func (b *Bag) Add(ds ...Diagnostic) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.items = append(b.items, ds...)
}

func (b *Bag) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.items)
}

// Items returns a copy of the collected diagnostics.
func (b *Bag) Items() []Diagnostic {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Diagnostic, len(b.items))
	copy(out, b.items)
	return out
}

// Merge appends everything collected by other.
func (b *Bag) Merge(other *Bag) {
	b.Add(other.Items()...)
}

// HasErrors reports whether any diagnostic has SevError.
func (b *Bag) HasErrors() bool {
	return b.Count(SevError) > 0
}

// Count returns the number of diagnostics with exactly the given severity.
func (b *Bag) Count(sev Severity) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for i := range b.items {
		if b.items[i].Severity == sev {
			n++
		}
	}
	return n
}

// Sort orders diagnostics by file, start, end, severity (desc) and category
// so output is deterministic regardless of analysis scheduling.
func (b *Bag) Sort() {
	b.mu.Lock()
	defer b.mu.Unlock()
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.File != dj.File {
			return di.File < dj.File
		}
		if di.Range.Start != dj.Range.Start {
			return di.Range.Start < dj.Range.Start
		}
		if di.Range.End != dj.Range.End {
			return di.Range.End < dj.Range.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Category < dj.Category
	})
}

// Dedup drops diagnostics that repeat category, file, primary range and
// details. Signals sharing a primary range but pointing at different details
// are distinct findings and are all kept.
func (b *Bag) Dedup() {
	b.mu.Lock()
	defer b.mu.Unlock()
	seen := make(map[string]bool, len(b.items))
	kept := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := dedupKey(d)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, d)
	}
	b.items = kept
}

func dedupKey(d Diagnostic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s:%s:%s", d.Category, d.File, d.Range)
	for _, det := range d.Details {
		fmt.Fprintf(&sb, "|%s:%s", det.Range, det.Message)
	}
	return sb.String()
}
