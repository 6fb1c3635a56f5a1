package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// SpreadAccumulatorRule flags reduce callbacks that spread the
// accumulator into a fresh object or array each step, which copies
// everything copied so far and turns a linear pass quadratic.
type SpreadAccumulatorRule struct {
	BaseRule
}

func NewSpreadAccumulatorRule() *SpreadAccumulatorRule {
	return &SpreadAccumulatorRule{
		BaseRule: BaseRule{
			RuleID:         "js-spread-accumulator",
			RuleTitle:      "Spreading the accumulator in reduce is quadratic",
			RuleCategory:   ir.CategoryJSPerf,
			RuleSeverity:   ir.SeverityHigh,
			RuleSuggestion: "Mutate the accumulator in place, or build with Object.fromEntries / a plain loop",
		},
	}
}

func (r *SpreadAccumulatorRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := 0; i < len(toks); i++ {
		if !seqAt(toks, i, ".", "reduce", "(") {
			continue
		}
		callEnd := matchingParen(toks, i+2)
		if callEnd == -1 {
			continue
		}
		acc := firstParam(toks, i+3)
		if acc == "" {
			continue
		}
		for j := i + 3; j < callEnd; j++ {
			if toks[j].Text == "..." && j+1 < len(toks) &&
				toks[j+1].Type == source.TokenIdent && toks[j+1].Text == acc {
				out = append(out, spanAt(u, toks[j], "..."+acc))
				break
			}
		}
	}
	return out
}

// firstParam extracts the accumulator name from "(acc, x) =>" or
// "acc =>" style callbacks.
func firstParam(toks []source.Token, j int) string {
	if j >= len(toks) {
		return ""
	}
	if toks[j].Type == source.TokenIdent && seqAt(toks, j+1, "=>") {
		return toks[j].Text
	}
	if toks[j].Text == "(" && j+1 < len(toks) && toks[j+1].Type == source.TokenIdent {
		return toks[j+1].Text
	}
	return ""
}
