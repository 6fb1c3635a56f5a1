package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// DeferThirdPartyRule flags third-party script tags that block or
// compete with hydration: raw <script src> in JSX and next/script with
// the beforeInteractive strategy.
type DeferThirdPartyRule struct {
	BaseRule
}

func NewDeferThirdPartyRule() *DeferThirdPartyRule {
	return &DeferThirdPartyRule{
		BaseRule: BaseRule{
			RuleID:         "bundle-defer-third-party",
			RuleTitle:      "Third-party script loads eagerly instead of deferring",
			RuleCategory:   ir.CategoryBundleSize,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Use next/script with strategy=\"lazyOnload\" or \"afterInteractive\" for analytics and widgets",
		},
	}
}

func (r *DeferThirdPartyRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := 0; i < len(toks); i++ {
		if seqAt(toks, i, "<", "script") {
			out = append(out, spanAt(u, toks[i], "raw <script> tag in JSX"))
			i++
			continue
		}
		if toks[i].Type == source.TokenIdent && toks[i].Text == "strategy" &&
			seqAt(toks, i+1, "=") && i+2 < len(toks) &&
			toks[i+2].Type == source.TokenString && toks[i+2].Text == `"beforeInteractive"` {
			out = append(out, spanAt(u, toks[i], "strategy=\"beforeInteractive\""))
		}
	}
	return out
}
