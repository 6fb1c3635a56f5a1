package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// Rule is a single detection capability over one source unit.
// Implementations hold no mutable state: Detect may run concurrently
// for different units and must depend only on its argument. Token
// driven rules return nil for units that failed to lex; rules that can
// work from raw lines may still match those.
type Rule interface {
	ID() string
	Title() string
	Category() ir.Category
	Severity() ir.Severity
	Suggestion() string
	Detect(u *source.Unit) []ir.Span
}

// BaseRule carries the static metadata shared by the built-in rules.
type BaseRule struct {
	RuleID         string
	RuleTitle      string
	RuleCategory   ir.Category
	RuleSeverity   ir.Severity
	RuleSuggestion string
}

func (b BaseRule) ID() string            { return b.RuleID }
func (b BaseRule) Title() string         { return b.RuleTitle }
func (b BaseRule) Category() ir.Category { return b.RuleCategory }
func (b BaseRule) Severity() ir.Severity { return b.RuleSeverity }
func (b BaseRule) Suggestion() string    { return b.RuleSuggestion }
