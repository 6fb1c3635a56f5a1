package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// DerivedStateEffectRule flags useEffect bodies whose only job is to
// push derived data back into state. That double-renders every update:
// once for the source change, once for the setter.
type DerivedStateEffectRule struct {
	BaseRule
}

func NewDerivedStateEffectRule() *DerivedStateEffectRule {
	return &DerivedStateEffectRule{
		BaseRule: BaseRule{
			RuleID:         "rerender-derived-state-effect",
			RuleTitle:      "State derived inside useEffect renders twice per update",
			RuleCategory:   ir.CategoryRerender,
			RuleSeverity:   ir.SeverityMediumHigh,
			RuleSuggestion: "Compute it during render, with useMemo if it is expensive",
		},
	}
}

func (r *DerivedStateEffectRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	setters := stateBindings(toks)
	if len(setters) == 0 {
		return nil
	}
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "useEffect" {
			continue
		}
		start, end := callbackBody(toks, i)
		if start < 0 {
			continue
		}
		// Effects that talk to the outside world are legitimate; only
		// flag bodies that do nothing but set state.
		if effectOnlySetsState(toks, start, end, setters) {
			for j := start; j < end; j++ {
				if toks[j].Type == source.TokenIdent && setters[toks[j].Text] != "" {
					out = append(out, spanAt(u, toks[j], toks[j].Text))
					break
				}
			}
		}
	}
	return out
}

func effectOnlySetsState(toks []source.Token, start, end int, setters map[string]string) bool {
	sawSetter := false
	for j := start; j < end; j++ {
		t := toks[j]
		if t.Type != source.TokenIdent {
			continue
		}
		if setters[t.Text] != "" && seqAt(toks, j+1, "(") {
			sawSetter = true
			continue
		}
		switch t.Text {
		case "fetch", "axios", "await", "addEventListener", "subscribe",
			"setTimeout", "setInterval", "requestAnimationFrame", "console",
			"localStorage", "sessionStorage", "document", "window":
			return false
		}
	}
	return sawSetter
}
