package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"runtime/debug"
	"strings"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/semantic"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// Registry is an immutable table of rules indexed by the node kinds they
// query. It is safe for concurrent use by multiple Analyze calls.
type Registry struct {
	entries []Entry
	byKey   map[string]int
	byKind  map[string][]int
}

// NewRegistry builds a registry from entries in order. Two entries with the
// same group and name are a programming error and panic.
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{
		entries: make([]Entry, 0, len(entries)),
		byKey:   make(map[string]int, len(entries)),
		byKind:  make(map[string][]int),
	}
	for _, e := range entries {
		if e.run == nil {
			panic(fmt.Sprintf("analyzer: entry %q was not created by Bind", e.meta.Key()))
		}
		key := e.meta.Key()
		if _, dup := r.byKey[key]; dup {
			panic(fmt.Sprintf("analyzer: duplicate rule %q", key))
		}
		i := len(r.entries)
		r.entries = append(r.entries, e)
		r.byKey[key] = i
		for _, kind := range e.kinds {
			r.byKind[kind] = append(r.byKind[kind], i)
		}
	}
	return r
}

// Len returns the number of rules.
func (r *Registry) Len() int {
	return len(r.entries)
}

// Entries returns the rules in registration order.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Rules returns the metadata of every rule in registration order.
func (r *Registry) Rules() []Metadata {
	out := make([]Metadata, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.meta
	}
	return out
}

// Lookup finds a rule by "group/name" or by its full category.
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.byKey[strings.TrimPrefix(name, "lint/")]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// Filter derives a registry holding the entries keep accepts.
func (r *Registry) Filter(keep func(Entry) bool) *Registry {
	var kept []Entry
	for _, e := range r.entries {
		if keep(e) {
			kept = append(kept, e)
		}
	}
	return NewRegistry(kept...)
}

// Fingerprint identifies the rule set and severities. Cached results are
// only valid for the fingerprint they were produced under.
func (r *Registry) Fingerprint() string {
	h := sha256.New()
	for _, e := range r.entries {
		fmt.Fprintf(h, "%s@%s=%s\n", e.meta.Key(), e.meta.Version, e.severity)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// File is one parsed source file to analyze.
type File struct {
	Tree *syntax.Tree
	// Model resolves identifiers. When nil it is built from Tree the first
	// time a semantic rule matches.
	Model semantic.Model
}

type fileState struct {
	tree *syntax.Tree
	sem  semantic.Model
}

func (f *fileState) model() semantic.Model {
	if f.sem == nil {
		f.sem = semantic.Build(f.tree)
	}
	return f.sem
}

// Analyze runs every rule over file and reports the resulting diagnostics,
// stamped with the rule severity and the file path. Nodes are visited once
// in pre-order; at each node rules run in registration order.
//
// A rule panic stops the pass and is returned as a *RuleError. Cancellation
// of ctx is checked before each node and returns ctx.Err().
func (r *Registry) Analyze(ctx context.Context, file *File, reporter diag.Reporter) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f := &fileState{tree: file.Tree, sem: file.Model}
	return file.Tree.Walk(func(n syntax.Node) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, i := range r.byKind[n.Kind()] {
			if err := r.run(f, &r.entries[i], n, reporter); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *Registry) run(f *fileState, e *Entry, n syntax.Node, reporter diag.Reporter) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &RuleError{
				Rule:  e.meta.Category(),
				Path:  f.tree.Path,
				Range: n.TrimmedRange(),
				Value: v,
				Stack: debug.Stack(),
			}
		}
	}()
	e.run(f, n, &e.meta, func(d diag.Diagnostic) {
		reporter.Report(d.WithSeverity(e.severity).InFile(f.tree.Path))
	})
	return nil
}
