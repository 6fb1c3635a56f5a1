package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// ImgElementRule flags raw <img> tags where next/image is available.
// The plain element skips sizing, lazy loading and format negotiation,
// and unsized images shift layout.
type ImgElementRule struct {
	BaseRule
}

func NewImgElementRule() *ImgElementRule {
	return &ImgElementRule{
		BaseRule: BaseRule{
			RuleID:         "render-img-element",
			RuleTitle:      "Raw <img> bypasses image optimization and risks layout shift",
			RuleCategory:   ir.CategoryRenderingPerf,
			RuleSeverity:   ir.SeverityMediumHigh,
			RuleSuggestion: "Use next/image, or at minimum set width, height and loading=\"lazy\"",
		},
	}
}

func (r *ImgElementRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	if !u.InAppDir && !u.InPagesDir && !u.HasImport("next") {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := range toks {
		if seqAt(toks, i, "<", "img") {
			out = append(out, spanAt(u, toks[i], ""))
		}
	}
	return out
}
