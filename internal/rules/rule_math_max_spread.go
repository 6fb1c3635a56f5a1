package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// MathMaxSpreadRule flags Math.max(...arr) / Math.min(...arr). Every
// element becomes a call argument, which overflows the stack on large
// inputs and is slower than a single pass.
type MathMaxSpreadRule struct {
	BaseRule
}

func NewMathMaxSpreadRule() *MathMaxSpreadRule {
	return &MathMaxSpreadRule{
		BaseRule: BaseRule{
			RuleID:         "js-math-max-spread",
			RuleTitle:      "Spreading an array into Math.max/min risks stack overflow",
			RuleCategory:   ir.CategoryJSPerf,
			RuleSeverity:   ir.SeverityLow,
			RuleSuggestion: "Reduce over the array instead: arr.reduce((m, v) => v > m ? v : m)",
		},
	}
}

func (r *MathMaxSpreadRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := range toks {
		if !seqAt(toks, i, "Math", ".") || i+4 >= len(toks) {
			continue
		}
		fn := toks[i+2].Text
		if (fn == "max" || fn == "min") && seqAt(toks, i+3, "(", "...") {
			out = append(out, spanAt(u, toks[i], "Math."+fn+"(...)"))
		}
	}
	return out
}
