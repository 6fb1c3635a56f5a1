package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// FetchInEffectRule flags data fetching inside useEffect. The request
// cannot start until after the component renders and hydrates, which
// chains a client round trip onto the page load.
type FetchInEffectRule struct {
	BaseRule
}

func NewFetchInEffectRule() *FetchInEffectRule {
	return &FetchInEffectRule{
		BaseRule: BaseRule{
			RuleID:         "waterfall-fetch-in-effect",
			RuleTitle:      "Data fetch inside useEffect delays the request until after hydration",
			RuleCategory:   ir.CategoryWaterfalls,
			RuleSeverity:   ir.SeverityHigh,
			RuleSuggestion: "Fetch in a server component, route loader, or a cache library like SWR or React Query",
		},
	}
}

func (r *FetchInEffectRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "useEffect" {
			continue
		}
		start, end := callbackBody(toks, i)
		for j := start; j >= 0 && j < end; j++ {
			if toks[j].Type != source.TokenIdent {
				continue
			}
			if toks[j].Text == "fetch" || toks[j].Text == "axios" {
				out = append(out, spanAt(u, toks[j], toks[j].Text+" call"))
				break
			}
		}
	}
	return out
}
