package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// FetchNoStoreRule flags fetches that opt out of the data cache in
// server code, turning every render into an origin round trip.
type FetchNoStoreRule struct {
	BaseRule
}

func NewFetchNoStoreRule() *FetchNoStoreRule {
	return &FetchNoStoreRule{
		BaseRule: BaseRule{
			RuleID:         "server-fetch-no-store",
			RuleTitle:      "Uncached fetch in server code hits the origin on every request",
			RuleCategory:   ir.CategoryServerPerf,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Prefer revalidate with a sensible window, or cache tags you can invalidate",
		},
	}
}

func (r *FetchNoStoreRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.IsServerContext() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "cache" || !seqAt(toks, i+1, ":") {
			continue
		}
		if i+2 < len(toks) && toks[i+2].Type == source.TokenString && unquoted(toks[i+2].Text) == "no-store" {
			out = append(out, spanAt(u, t, "cache: \"no-store\""))
		}
	}
	return out
}
