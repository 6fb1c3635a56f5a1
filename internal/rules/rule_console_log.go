package rules

import (
	"strings"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

var consoleNoisy = map[string]bool{"log": true, "debug": true, "info": true, "trace": true, "dir": true}

// ConsoleLogRule flags leftover console output. Logging serializes
// its arguments eagerly, so a console.log of a large object in a hot
// path costs real time even with devtools closed.
//
// This is a plain-text capable rule: units that failed to lex are
// still checked line by line.
type ConsoleLogRule struct {
	BaseRule
}

func NewConsoleLogRule() *ConsoleLogRule {
	return &ConsoleLogRule{
		BaseRule: BaseRule{
			RuleID:         "js-console-log",
			RuleTitle:      "Leftover console call serializes its arguments on every hit",
			RuleCategory:   ir.CategoryJSPerf,
			RuleSeverity:   ir.SeverityLow,
			RuleSuggestion: "Remove it or route it through a logger that is compiled out of production builds",
		},
	}
}

func (r *ConsoleLogRule) Detect(u *source.Unit) []ir.Span {
	if u.Parsed {
		return r.detectTokens(u)
	}
	return r.detectLines(u)
}

func (r *ConsoleLogRule) detectTokens(u *source.Unit) []ir.Span {
	toks := u.Tokens
	var out []ir.Span
	for i, t := range toks {
		if t.Type != source.TokenIdent || t.Text != "console" {
			continue
		}
		if seqAt(toks, i+1, ".") && i+2 < len(toks) && consoleNoisy[toks[i+2].Text] {
			out = append(out, spanAt(u, t, "console."+toks[i+2].Text))
		}
	}
	return out
}

// detectLines is the degraded-unit fallback: substring matching over
// raw lines, skipping what is obviously a comment.
func (r *ConsoleLogRule) detectLines(u *source.Unit) []ir.Span {
	var out []ir.Span
	for n, line := range u.Lines {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "//") || strings.HasPrefix(trim, "*") {
			continue
		}
		col := strings.Index(line, "console.")
		if col == -1 {
			continue
		}
		rest := line[col+len("console."):]
		dot := strings.IndexAny(rest, "( ")
		if dot == -1 {
			continue
		}
		if consoleNoisy[rest[:dot]] {
			out = append(out, ir.Span{
				Line:    n + 1,
				Col:     col + 1,
				Snippet: u.Snippet(n + 1),
				Hint:    "console." + rest[:dot],
			})
		}
	}
	return out
}
