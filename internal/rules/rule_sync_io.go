package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

var syncCalls = map[string]bool{
	"readFileSync":   true,
	"writeFileSync":  true,
	"appendFileSync": true,
	"existsSync":     true,
	"readdirSync":    true,
	"statSync":       true,
	"lstatSync":      true,
	"mkdirSync":      true,
	"rmSync":         true,
	"unlinkSync":     true,
	"copyFileSync":   true,
	"execSync":       true,
	"spawnSync":      true,
}

// SyncIORule flags blocking filesystem and process calls in code that
// serves requests. One slow sync call stalls the whole event loop.
type SyncIORule struct {
	BaseRule
}

func NewSyncIORule() *SyncIORule {
	return &SyncIORule{
		BaseRule: BaseRule{
			RuleID:         "server-sync-io",
			RuleTitle:      "Synchronous I/O blocks the event loop while serving requests",
			RuleCategory:   ir.CategoryServerPerf,
			RuleSeverity:   ir.SeverityHigh,
			RuleSuggestion: "Use the fs/promises or async child_process APIs and await them",
		},
	}
}

func (r *SyncIORule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	if !u.IsServerContext() && !importsNodeIO(u) {
		return nil
	}
	var out []ir.Span
	for i, t := range u.Tokens {
		if t.Type == source.TokenIdent && syncCalls[t.Text] && seqAt(u.Tokens, i+1, "(") {
			out = append(out, spanAt(u, t, t.Text))
		}
	}
	return out
}

func importsNodeIO(u *source.Unit) bool {
	for _, mod := range []string{"fs", "node:fs", "child_process", "node:child_process"} {
		if u.HasImport(mod) {
			return true
		}
	}
	return false
}
