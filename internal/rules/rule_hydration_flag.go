package rules

import (
	"strings"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

var hydrationFlagNames = []string{"mounted", "ismounted", "hasmounted", "isclient", "hydrated", "ishydrated"}

// HydrationFlagRule flags the mounted-flag pattern: useState(false)
// flipped in an effect to gate client-only output. It forces a second
// render of the whole component right after hydration and makes the
// server HTML deliberately wrong.
type HydrationFlagRule struct {
	BaseRule
}

func NewHydrationFlagRule() *HydrationFlagRule {
	return &HydrationFlagRule{
		BaseRule: BaseRule{
			RuleID:         "render-hydration-flag",
			RuleTitle:      "Mounted-flag state double-renders the tree after hydration",
			RuleCategory:   ir.CategoryRenderingPerf,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Render the client-only part behind next/dynamic with ssr: false, or use useSyncExternalStore",
		},
	}
}

func (r *HydrationFlagRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := 0; i+6 < len(toks); i++ {
		if toks[i].Text != "[" || toks[i+1].Type != source.TokenIdent {
			continue
		}
		if !isHydrationFlagName(toks[i+1].Text) {
			continue
		}
		if !seqAt(toks, i+2, ",") || !seqAt(toks, i+4, "]", "=", "useState") {
			continue
		}
		out = append(out, spanAt(u, toks[i+1], toks[i+1].Text))
	}
	return out
}

func isHydrationFlagName(name string) bool {
	lower := strings.ToLower(name)
	for _, known := range hydrationFlagNames {
		if lower == known {
			return true
		}
	}
	return false
}
