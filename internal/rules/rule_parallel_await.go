package rules

import (
	"fmt"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// ParallelAwaitRule flags back-to-back awaited assignments where the
// later call never reads the earlier result. Those requests serialize
// for no reason and stack into full round-trip waterfalls.
type ParallelAwaitRule struct {
	BaseRule
}

func NewParallelAwaitRule() *ParallelAwaitRule {
	return &ParallelAwaitRule{
		BaseRule: BaseRule{
			RuleID:         "waterfall-parallel-await",
			RuleTitle:      "Sequential awaits of independent operations create a request waterfall",
			RuleCategory:   ir.CategoryWaterfalls,
			RuleSeverity:   ir.SeverityCritical,
			RuleSuggestion: "Start the promises first and await them together with Promise.all",
		},
	}
}

type awaitStmt struct {
	tok     source.Token
	binding string
	refs    map[string]bool
}

func (r *ParallelAwaitRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	stmts := collectAwaits(u.Tokens)
	var out []ir.Span
	for i := 1; i < len(stmts); i++ {
		prev, cur := stmts[i-1], stmts[i]
		if prev.binding == "" {
			continue
		}
		if cur.tok.Depth != prev.tok.Depth || cur.tok.Line-prev.tok.Line > 3 {
			continue
		}
		if cur.refs[prev.binding] {
			continue
		}
		hint := fmt.Sprintf("does not use %q awaited on line %d", prev.binding, prev.tok.Line)
		out = append(out, spanAt(u, cur.tok, hint))
	}
	return out
}

func collectAwaits(toks []source.Token) []awaitStmt {
	var stmts []awaitStmt
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "await" {
			continue
		}
		st := awaitStmt{tok: t, refs: make(map[string]bool)}
		if i >= 2 && toks[i-1].Text == "=" && toks[i-2].Type == source.TokenIdent {
			st.binding = toks[i-2].Text
		}
		for _, lt := range toks {
			if lt.Line == t.Line && lt.Type == source.TokenIdent {
				st.refs[lt.Text] = true
			}
		}
		stmts = append(stmts, st)
	}
	return stmts
}
