package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

var scrollBlockingEvents = map[string]bool{
	"scroll":     true,
	"wheel":      true,
	"touchstart": true,
	"touchmove":  true,
}

// PassiveListenersRule flags scroll-blocking listeners registered
// without { passive: true }. The browser must wait for the handler
// before it may scroll, which shows up directly as input latency.
type PassiveListenersRule struct {
	BaseRule
}

func NewPassiveListenersRule() *PassiveListenersRule {
	return &PassiveListenersRule{
		BaseRule: BaseRule{
			RuleID:         "adv-passive-listeners",
			RuleTitle:      "Scroll-blocking listener registered without passive: true",
			RuleCategory:   ir.CategoryAdvanced,
			RuleSeverity:   ir.SeverityLowMedium,
			RuleSuggestion: "Pass { passive: true } unless the handler really calls preventDefault",
		},
	}
}

func (r *PassiveListenersRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "addEventListener" || !seqAt(toks, i+1, "(") {
			continue
		}
		if i+2 >= len(toks) || toks[i+2].Type != source.TokenString || !scrollBlockingEvents[unquoted(toks[i+2].Text)] {
			continue
		}
		end := matchingParen(toks, i+1)
		if end == -1 {
			continue
		}
		passive := false
		for j := i + 3; j < end; j++ {
			if toks[j].Type == source.TokenIdent && toks[j].Text == "passive" {
				passive = true
				break
			}
		}
		if !passive {
			out = append(out, spanAt(u, t, unquoted(toks[i+2].Text)))
		}
	}
	return out
}
