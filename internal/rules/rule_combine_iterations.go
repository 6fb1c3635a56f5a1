package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

var chainable = map[string]bool{"map": true, "filter": true, "reduce": true, "forEach": true, "flatMap": true}

// CombineIterationsRule flags chained array passes like
// .filter(...).map(...) that walk the collection once per link and
// allocate an intermediate array at each step.
type CombineIterationsRule struct {
	BaseRule
}

func NewCombineIterationsRule() *CombineIterationsRule {
	return &CombineIterationsRule{
		BaseRule: BaseRule{
			RuleID:         "js-combine-iterations",
			RuleTitle:      "Chained array methods traverse the collection multiple times",
			RuleCategory:   ir.CategoryJSPerf,
			RuleSeverity:   ir.SeverityLowMedium,
			RuleSuggestion: "Fold the passes into one loop or a single reduce when the collection is large",
		},
	}
}

func (r *CombineIterationsRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	toks := u.Tokens
	flagged := make(map[int]bool)
	var out []ir.Span
	for i := 0; i < len(toks); i++ {
		if toks[i].Text != "." || i+2 >= len(toks) {
			continue
		}
		name := toks[i+1]
		if name.Type != source.TokenIdent || !chainable[name.Text] || toks[i+2].Text != "(" {
			continue
		}
		callEnd := matchingParen(toks, i+2)
		if callEnd == -1 || callEnd+2 >= len(toks) {
			continue
		}
		next := toks[callEnd+2]
		if toks[callEnd+1].Text == "." && next.Type == source.TokenIdent && chainable[next.Text] &&
			seqAt(toks, callEnd+3, "(") && !flagged[name.Line] {
			flagged[name.Line] = true
			out = append(out, spanAt(u, name, "."+name.Text+"()."+next.Text+"()"))
		}
	}
	return out
}
