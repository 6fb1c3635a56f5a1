package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// NestedComponentRule flags component definitions inside another
// function body. Each render recreates the type, so React unmounts
// and remounts the whole subtree, losing state and DOM.
type NestedComponentRule struct {
	BaseRule
}

func NewNestedComponentRule() *NestedComponentRule {
	return &NestedComponentRule{
		BaseRule: BaseRule{
			RuleID:         "rerender-nested-component",
			RuleTitle:      "Component defined during render remounts its subtree on every pass",
			RuleCategory:   ir.CategoryRerender,
			RuleSeverity:   ir.SeverityHigh,
			RuleSuggestion: "Move the component to module scope and pass what it needs as props",
		},
	}
}

func (r *NestedComponentRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Depth < 1 {
			continue
		}
		switch t.Text {
		case "function":
			if i+2 < len(toks) && toks[i+1].Type == source.TokenIdent &&
				isComponentName(toks[i+1].Text) && toks[i+2].Text == "(" {
				out = append(out, spanAt(u, toks[i+1], toks[i+1].Text))
			}
		case "const", "let", "var":
			if i+2 >= len(toks) || toks[i+1].Type != source.TokenIdent ||
				!isComponentName(toks[i+1].Text) || toks[i+2].Text != "=" {
				continue
			}
			if nestedComponentValue(toks, i+3) {
				out = append(out, spanAt(u, toks[i+1], toks[i+1].Text))
			}
		}
	}
	return out
}

// nestedComponentValue reports whether the expression starting at j is
// a function literal: "( params ) =>", "x =>" or "function".
func nestedComponentValue(toks []source.Token, j int) bool {
	if j >= len(toks) {
		return false
	}
	switch {
	case toks[j].Text == "function":
		return true
	case toks[j].Type == source.TokenIdent && seqAt(toks, j+1, "=>"):
		return true
	case toks[j].Text == "(":
		if close := matchingParen(toks, j); close != -1 {
			return seqAt(toks, close+1, "=>")
		}
	}
	return false
}
