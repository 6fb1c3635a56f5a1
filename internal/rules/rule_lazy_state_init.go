package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// LazyStateInitRule flags useState initialized with a call result.
// The initializer runs on every render even though React only uses it
// on the first one; the lazy form runs it once.
type LazyStateInitRule struct {
	BaseRule
}

func NewLazyStateInitRule() *LazyStateInitRule {
	return &LazyStateInitRule{
		BaseRule: BaseRule{
			RuleID:         "rerender-lazy-state-init",
			RuleTitle:      "useState initializer is recomputed on every render",
			RuleCategory:   ir.CategoryRerender,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Wrap it in a thunk: useState(() => compute())",
		},
	}
}

func (r *LazyStateInitRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "useState" || !seqAt(toks, i+1, "(") {
			continue
		}
		if callExpressionAt(toks, i+2) {
			out = append(out, spanAt(u, t, initializerText(toks, i+2)))
		}
	}
	return out
}

// callExpressionAt reports whether the tokens starting at j spell a
// plain call like compute(...) or JSON.parse(...), as opposed to a
// literal, bare ident, or arrow thunk.
func callExpressionAt(toks []source.Token, j int) bool {
	k := j
	for k+1 < len(toks) && toks[k].Type == source.TokenIdent && toks[k+1].Text == "." {
		k += 2
	}
	if k >= len(toks) || toks[k].Type != source.TokenIdent {
		return false
	}
	return seqAt(toks, k+1, "(")
}

func initializerText(toks []source.Token, j int) string {
	text := ""
	for k := j; k < len(toks) && k < j+6; k++ {
		text += toks[k].Text
		if toks[k].Text == "(" {
			return text + "...)"
		}
	}
	return text
}
