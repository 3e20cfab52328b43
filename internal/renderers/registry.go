package renderers

import (
	"context"
	"sort"

	"github.com/dejo1307/jsxlint/internal/report"
)

// Renderer turns a finished lint report into one or more artifacts.
type Renderer interface {
	// Name is the output format selected by output.format, e.g. "text".
	Name() string
	Render(ctx context.Context, rep *report.Report) ([]report.Artifact, error)
}

// Registry maps output format names to renderers, in registration order.
type Registry struct {
	renderers []Renderer
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds rnd, replacing any renderer already registered under its name.
func (r *Registry) Register(rnd Renderer) {
	for i, existing := range r.renderers {
		if existing.Name() == rnd.Name() {
			r.renderers[i] = rnd
			return
		}
	}
	r.renderers = append(r.renderers, rnd)
}

// Get returns the renderer for format.
func (r *Registry) Get(format string) (Renderer, bool) {
	for _, rnd := range r.renderers {
		if rnd.Name() == format {
			return rnd, true
		}
	}
	return nil, false
}

func (r *Registry) Len() int {
	return len(r.renderers)
}

// Names lists the registered formats, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.renderers))
	for _, rnd := range r.renderers {
		names = append(names, rnd.Name())
	}
	sort.Strings(names)
	return names
}
