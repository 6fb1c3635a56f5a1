package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// ForceDynamicRule flags route segment config that turns off static
// rendering for the whole segment: force-dynamic and revalidate = 0.
type ForceDynamicRule struct {
	BaseRule
}

func NewForceDynamicRule() *ForceDynamicRule {
	return &ForceDynamicRule{
		BaseRule: BaseRule{
			RuleID:         "server-force-dynamic",
			RuleTitle:      "Route segment opts the whole page out of static rendering",
			RuleCategory:   ir.CategoryServerPerf,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Keep the page static and isolate dynamic data behind Suspense or cached fetches",
		},
	}
}

func (r *ForceDynamicRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.InAppDir {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := range toks {
		if !seqAt(toks, i, "export", "const") {
			continue
		}
		if seqAt(toks, i+2, "dynamic", "=") && i+4 < len(toks) &&
			toks[i+4].Type == source.TokenString && unquoted(toks[i+4].Text) == "force-dynamic" {
			out = append(out, spanAt(u, toks[i+2], "dynamic = \"force-dynamic\""))
		}
		if seqAt(toks, i+2, "revalidate", "=", "0") {
			out = append(out, spanAt(u, toks[i+2], "revalidate = 0"))
		}
	}
	return out
}

func unquoted(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
