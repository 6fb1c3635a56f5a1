package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// JSONCloneRule flags JSON.parse(JSON.stringify(x)) deep clones,
// which serialize the whole graph through text and drop Dates, Maps
// and undefined on the way.
type JSONCloneRule struct {
	BaseRule
}

func NewJSONCloneRule() *JSONCloneRule {
	return &JSONCloneRule{
		BaseRule: BaseRule{
			RuleID:         "js-json-clone",
			RuleTitle:      "Deep clone via JSON round trip is slow and lossy",
			RuleCategory:   ir.CategoryJSPerf,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Use structuredClone, or clone only the fields that change",
		},
	}
}

func (r *JSONCloneRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := range toks {
		if seqAt(toks, i, "JSON", ".", "parse", "(", "JSON", ".", "stringify") {
			out = append(out, spanAt(u, toks[i], ""))
		}
	}
	return out
}
