package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// IndexKeyRule flags key={index} inside .map callbacks. Index keys
// make insertions and removals rewrite every following sibling and
// carry state to the wrong rows.
type IndexKeyRule struct {
	BaseRule
}

func NewIndexKeyRule() *IndexKeyRule {
	return &IndexKeyRule{
		BaseRule: BaseRule{
			RuleID:         "render-index-key",
			RuleTitle:      "Array index used as the list key",
			RuleCategory:   ir.CategoryRenderingPerf,
			RuleSeverity:   ir.SeverityMedium,
			RuleSuggestion: "Key on a stable identity from the data, like item.id",
		},
	}
}

func (r *IndexKeyRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.UsesReact() {
		return nil
	}
	toks := u.Tokens
	var out []ir.Span
	for i := 0; i < len(toks); i++ {
		if !seqAt(toks, i, ".", "map", "(") {
			continue
		}
		callEnd := matchingParen(toks, i+2)
		if callEnd == -1 {
			continue
		}
		idx := secondParam(toks, i+3)
		if idx == "" {
			continue
		}
		for j := i + 3; j < callEnd; j++ {
			if seqAt(toks, j, "key", "=", "{", idx, "}") {
				out = append(out, spanAt(u, toks[j], "key={"+idx+"}"))
				break
			}
		}
	}
	return out
}

// secondParam extracts the index parameter from "(item, index) =>".
// Destructured first params like ({id}, i) are walked over.
func secondParam(toks []source.Token, j int) string {
	if j >= len(toks) || toks[j].Text != "(" {
		return ""
	}
	close := matchingParen(toks, j)
	if close == -1 || !seqAt(toks, close+1, "=>") {
		return ""
	}
	depth := 0
	for k := j + 1; k < close; k++ {
		switch toks[k].Text {
		case "{", "[":
			depth++
		case "}", "]":
			depth--
		case ",":
			if depth == 0 && k+1 < close && toks[k+1].Type == source.TokenIdent {
				return toks[k+1].Text
			}
		}
	}
	return ""
}
