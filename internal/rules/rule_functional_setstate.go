package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// FunctionalSetStateRule flags setters called with their own current
// state value, e.g. setCount(count + 1). Stale closures make these
// updates lose writes; the functional form also keeps the callback
// reference stable for memoized children.
type FunctionalSetStateRule struct {
	BaseRule
}

func NewFunctionalSetStateRule() *FunctionalSetStateRule {
	return &FunctionalSetStateRule{
		BaseRule: BaseRule{
			RuleID:         "rerender-functional-setstate",
			RuleTitle:      "Setter reads the state it replaces instead of using the functional form",
			RuleCategory:   ir.CategoryRerender,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Pass an updater: setCount(c => c + 1)",
		},
	}
}

func (r *FunctionalSetStateRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	setters := stateBindings(toks)
	if len(setters) == 0 {
		return nil
	}
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent {
			continue
		}
		value := setters[t.Text]
		if value == "" || !seqAt(toks, i+1, "(") {
			continue
		}
		close := matchingParen(toks, i+1)
		if close == -1 {
			continue
		}
		for j := i + 2; j < close; j++ {
			if toks[j].Type == source.TokenIdent && toks[j].Text == value {
				// The functional form already in place does not match:
				// its parameter shadows the state name only when the
				// author picked the same ident, which reads fine.
				if j == i+2 && seqAt(toks, j+1, "=>") {
					break
				}
				out = append(out, spanAt(u, t, t.Text+"("+value+" ...)"))
				break
			}
		}
	}
	return out
}
