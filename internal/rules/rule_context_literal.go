package rules

import (
	"strings"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// ContextLiteralRule flags provider values built inline. A fresh
// object identity every render forces every consumer of the context
// to re-render, memoized or not.
type ContextLiteralRule struct {
	BaseRule
}

func NewContextLiteralRule() *ContextLiteralRule {
	return &ContextLiteralRule{
		BaseRule: BaseRule{
			RuleID:         "rerender-context-literal",
			RuleTitle:      "Inline context value re-renders every consumer on each render",
			RuleCategory:   ir.CategoryRerender,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Memoize the value with useMemo keyed on its parts",
		},
	}
}

func (r *ContextLiteralRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "value" {
			continue
		}
		if !seqAt(toks, i+1, "=", "{") {
			continue
		}
		if i+3 >= len(toks) || (toks[i+3].Text != "{" && toks[i+3].Text != "[") {
			continue
		}
		if strings.Contains(u.Line(t.Line), "Provider") {
			out = append(out, spanAt(u, t, ""))
		}
	}
	return out
}
