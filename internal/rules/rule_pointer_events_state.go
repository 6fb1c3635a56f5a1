package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

var pointerEventNames = map[string]bool{
	"mousemove":   true,
	"pointermove": true,
	"touchmove":   true,
	"drag":        true,
	"dragover":    true,
}

var pointerJSXProps = map[string]bool{
	"onMouseMove":   true,
	"onPointerMove": true,
	"onTouchMove":   true,
	"onDrag":        true,
	"onDragOver":    true,
}

// PointerEventsStateRule flags state updates driven by continuous
// pointer events. Those fire per pixel of movement, so each one
// becomes a render; the tree repaints hundreds of times per second.
type PointerEventsStateRule struct {
	BaseRule
}

func NewPointerEventsStateRule() *PointerEventsStateRule {
	return &PointerEventsStateRule{
		BaseRule: BaseRule{
			RuleID:         "adv-pointer-events-state",
			RuleTitle:      "Continuous pointer events drive setState on every movement",
			RuleCategory:   ir.CategoryAdvanced,
			RuleSeverity:   ir.SeverityMediumHigh,
			RuleSuggestion: "Write to a ref and batch paints with requestAnimationFrame, or throttle the handler",
		},
	}
}

func (r *PointerEventsStateRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent {
			continue
		}
		switch {
		case t.Text == "addEventListener" && seqAt(toks, i+1, "("):
			if i+2 < len(toks) && toks[i+2].Type == source.TokenString && pointerEventNames[unquoted(toks[i+2].Text)] {
				if end := matchingParen(toks, i+1); end != -1 && rangeCallsSetter(toks, i+3, end) {
					out = append(out, spanAt(u, t, unquoted(toks[i+2].Text)))
				}
			}
		case pointerJSXProps[t.Text] && seqAt(toks, i+1, "=", "{"):
			if end := matchingBrace(toks, i+2); end != -1 && rangeCallsSetter(toks, i+3, end) {
				out = append(out, spanAt(u, t, t.Text))
			}
		}
	}
	return out
}

func rangeCallsSetter(toks []source.Token, start, end int) bool {
	for j := start; j < end && j < len(toks); j++ {
		if toks[j].Type == source.TokenIdent && isSetterName(toks[j].Text) && seqAt(toks, j+1, "(") {
			return true
		}
	}
	return false
}
