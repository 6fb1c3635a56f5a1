package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// AwaitInLoopRule flags awaits inside loop bodies, which serialize
// work that usually could run concurrently. for-await-of streams are
// sequential on purpose and are left alone.
type AwaitInLoopRule struct {
	BaseRule
}

func NewAwaitInLoopRule() *AwaitInLoopRule {
	return &AwaitInLoopRule{
		BaseRule: BaseRule{
			RuleID:         "waterfall-await-in-loop",
			RuleTitle:      "Await inside a loop runs iterations one at a time",
			RuleCategory:   ir.CategoryWaterfalls,
			RuleSeverity:   ir.SeverityHigh,
			RuleSuggestion: "Collect the promises and await Promise.all, or use a bounded concurrency helper",
		},
	}
}

func (r *AwaitInLoopRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	toks := u.Tokens
	flagged := make(map[int]bool)
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent {
			continue
		}
		switch t.Text {
		case "for", "while", "do":
			if t.Text == "for" && seqAt(toks, i+1, "await") {
				continue
			}
			start, end := loopBody(toks, i)
			for j := start; j >= 0 && j < end; j++ {
				if toks[j].Type == source.TokenIdent && toks[j].Text == "await" {
					if !flagged[toks[j].Line] {
						flagged[toks[j].Line] = true
						out = append(out, spanAt(u, toks[j], ""))
					}
					break
				}
			}
		case "forEach":
			// list.forEach(async item => ...) fires without awaiting;
			// an await in there serializes nothing and hides errors.
			if i > 0 && toks[i-1].Text == "." && seqAt(toks, i+1, "(", "async") && !flagged[t.Line] {
				flagged[t.Line] = true
				out = append(out, spanAt(u, t, "async callback passed to forEach"))
			}
		}
	}
	return out
}
