package analyzer

import (
	"fmt"

	"github.com/dejo1307/jsxlint/internal/diag"
	"github.com/dejo1307/jsxlint/internal/syntax"
)

// RuleError reports a rule that panicked. The pass over the file stops at
// the node being inspected; diagnostics reported before that are kept.
type RuleError struct {
	Rule  diag.Category
	Path  string
	Range syntax.TextRange
	Value any
	Stack []byte
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule %s panicked on %s at %s: %v", e.Rule, e.Path, e.Range, e.Value)
}

// Unwrap exposes the panic value when it was an error.
func (e *RuleError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
