// Package rules assembles the built-in lint rules into a registry.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dejo1307/jsxlint/internal/analyzer"
	"github.com/dejo1307/jsxlint/internal/config"
	"github.com/dejo1307/jsxlint/internal/jsx"
	"github.com/dejo1307/jsxlint/internal/react"
	"github.com/dejo1307/jsxlint/internal/rules/a11y"
	"github.com/dejo1307/jsxlint/internal/rules/security"
)

// All returns every built-in rule at its default severity.
func All(factories []react.Factory) []analyzer.Entry {
	return []analyzer.Entry{
		analyzer.Bind[jsx.AnyElement, struct{}](a11y.UseHeadingContent{}),
		analyzer.Bind[security.AnyCreateElement, security.State](security.NewNoDangerouslySetInnerHTMLWithChildren(factories)),
	}
}

// NewRegistry selects and configures the built-in rules according to cfg.
// A rule named in cfg.Rules is enabled unless set to "off"; any other rule
// is enabled when it is recommended and cfg.Recommended is set.
func NewRegistry(cfg *config.Config) (*analyzer.Registry, error) {
	all := All(cfg.Factories)

	known := make(map[string]bool, len(all))
	for _, e := range all {
		known[e.Meta().Key()] = true
	}
	var unknown []string
	for name := range cfg.Rules {
		if !known[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("unknown rules: %s", strings.Join(unknown, ", "))
	}

	var enabled []analyzer.Entry
	for _, e := range all {
		setting, ok := cfg.Setting(e.Meta().Key())
		if !ok {
			if cfg.Recommended && e.Meta().Recommended {
				enabled = append(enabled, e)
			}
			continue
		}
		if setting.Off() {
			continue
		}
		sev, err := setting.Severity()
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", e.Meta().Key(), err)
		}
		enabled = append(enabled, e.WithSeverity(sev))
	}
	return analyzer.NewRegistry(enabled...), nil
}
