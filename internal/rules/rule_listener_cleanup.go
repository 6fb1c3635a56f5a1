package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// ListenerCleanupRule flags effects that attach listeners or timers
// without tearing them down. Every remount stacks another handler, so
// the page does the same work N times over and leaks nodes.
type ListenerCleanupRule struct {
	BaseRule
}

func NewListenerCleanupRule() *ListenerCleanupRule {
	return &ListenerCleanupRule{
		BaseRule: BaseRule{
			RuleID:         "adv-listener-cleanup",
			RuleTitle:      "Effect attaches a listener or timer without cleanup",
			RuleCategory:   ir.CategoryAdvanced,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Return a cleanup that removes the listener or clears the timer",
		},
	}
}

// Attach calls and their teardown counterparts, checked in this
// order. One-shot setTimeout is deliberately absent: clearing it is
// situational.
var cleanupPairs = []struct{ attach, detach string }{
	{"addEventListener", "removeEventListener"},
	{"setInterval", "clearInterval"},
}

func (r *ListenerCleanupRule) Detect(u *source.Unit) []ir.Span {
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
		if start < 0 {
			continue
		}
		present := make(map[string]bool)
		for j := start; j < end; j++ {
			if toks[j].Type == source.TokenIdent {
				present[toks[j].Text] = true
			}
		}
		for _, pair := range cleanupPairs {
			if present[pair.attach] && !present[pair.detach] {
				for j := start; j < end; j++ {
					if toks[j].Type == source.TokenIdent && toks[j].Text == pair.attach {
						out = append(out, spanAt(u, toks[j], pair.attach+" without "+pair.detach))
						break
					}
				}
			}
		}
	}
	return out
}
