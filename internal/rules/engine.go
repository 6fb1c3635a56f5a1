package rules

import (
	"context"
	"fmt"
	"hash/crc32"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// Options narrows a run without touching the registry itself.
type Options struct {
	// SeverityMin drops violations below this level. Empty keeps all.
	SeverityMin ir.Severity
	// Categories restricts matching to these categories. Empty = all.
	Categories []ir.Category
	// Disabled rule IDs are skipped entirely.
	Disabled []string
	// SeverityOverrides reassigns a rule's level, keyed by rule ID.
	SeverityOverrides map[string]ir.Severity
	// Workers bounds unit-level parallelism. <=0 picks a default;
	// 1 forces the serial path. Output is identical either way.
	Workers int
}

func (o Options) workers() int {
	if o.Workers > 0 {
		return o.Workers
	}
	return min(runtime.GOMAXPROCS(0), 8)
}

// Result is everything one matching pass produced.
type Result struct {
	Violations  []ir.Violation
	Warnings    []ir.Warning
	RulesActive int
}

// unitOutcome keeps per-unit output in its slot so parallel runs
// flatten back into exact traversal order.
type unitOutcome struct {
	violations []ir.Violation
	warnings   []ir.Warning
}

// Evaluate applies every active rule to every unit. Violations come
// back in traversal order: units in scan order, rules in registration
// order within a unit, spans in detector order within a rule. A
// panicking detector becomes a rule-evaluation warning for that
// rule/unit pair and matching continues. Cancellation aborts between
// evaluations and is the only error this returns.
func Evaluate(ctx context.Context, reg *Registry, units []*source.Unit, opts Options) (*Result, error) {
	active := ActiveRules(reg, opts)
	res := &Result{RulesActive: len(active)}

	outcomes := make([]unitOutcome, len(units))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(opts.workers())
	for i, u := range units {
		i, u := i, u
		eg.Go(func() error {
			out := &outcomes[i]
			for _, rule := range active {
				if err := gctx.Err(); err != nil {
					return err
				}
				spans, warn := safeDetect(rule, u)
				if warn != nil {
					out.warnings = append(out.warnings, *warn)
					continue
				}
				sev := effectiveSeverity(rule, opts)
				if opts.SeverityMin != "" && sev.Rank() < opts.SeverityMin.Rank() {
					continue
				}
				for _, sp := range spans {
					out.violations = append(out.violations, buildViolation(rule, sev, u, sp))
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Flatten serially; the run-local ID guard keeps IDs unique even
	// when identical snippets hash alike.
	seen := make(map[string]struct{})
	seq := 0
	for i := range outcomes {
		for _, v := range outcomes[i].violations {
			if _, dup := seen[v.ID]; dup || v.ID == "" {
				for {
					seq++
					candidate := fmt.Sprintf("%s-%06d", v.RuleID, seq)
					if _, taken := seen[candidate]; !taken {
						v.ID = candidate
						break
					}
				}
			}
			seen[v.ID] = struct{}{}
			res.Violations = append(res.Violations, v)
		}
		res.Warnings = append(res.Warnings, outcomes[i].warnings...)
	}
	return res, nil
}

// ActiveRules resolves the option filters against the registry,
// keeping registration order.
func ActiveRules(reg *Registry, opts Options) []Rule {
	disabled := make(map[string]bool, len(opts.Disabled))
	for _, id := range opts.Disabled {
		disabled[strings.ToLower(strings.TrimSpace(id))] = true
	}
	var cats map[ir.Category]bool
	if len(opts.Categories) > 0 {
		cats = make(map[ir.Category]bool, len(opts.Categories))
		for _, c := range opts.Categories {
			cats[c] = true
		}
	}
	var out []Rule
	for _, rule := range reg.All() {
		if disabled[strings.ToLower(rule.ID())] {
			continue
		}
		if cats != nil && !cats[rule.Category()] {
			continue
		}
		out = append(out, rule)
	}
	return out
}

func effectiveSeverity(rule Rule, opts Options) ir.Severity {
	if sev, ok := opts.SeverityOverrides[strings.ToLower(rule.ID())]; ok && sev.Valid() {
		return sev
	}
	return rule.Severity()
}

func safeDetect(rule Rule, u *source.Unit) (spans []ir.Span, warn *ir.Warning) {
	defer func() {
		if rec := recover(); rec != nil {
			spans = nil
			warn = &ir.Warning{
				Kind:    ir.WarnRuleEvaluation,
				Path:    u.Path,
				RuleID:  rule.ID(),
				Message: fmt.Sprintf("detector panicked: %v", rec),
			}
		}
	}()
	return rule.Detect(u), nil
}

func buildViolation(rule Rule, sev ir.Severity, u *source.Unit, sp ir.Span) ir.Violation {
	msg := rule.Title()
	if sp.Hint != "" {
		msg += " (" + sp.Hint + ")"
	}
	return ir.Violation{
		ID:         makeID(rule.ID(), u.Path, sp),
		RuleID:     rule.ID(),
		Severity:   sev,
		Category:   rule.Category(),
		Path:       u.Path,
		Line:       sp.Line,
		EndLine:    sp.EndLine,
		Col:        sp.Col,
		EndCol:     sp.EndCol,
		Message:    msg,
		Snippet:    sp.Snippet,
		Suggestion: rule.Suggestion(),
	}
}

func makeID(ruleID, path string, sp ir.Span) string {
	data := fmt.Sprintf("%s|%s|%d|%d|%s", ruleID, path, sp.Line, sp.Col, sp.Snippet)
	sum := crc32.ChecksumIEEE([]byte(data))
	return fmt.Sprintf("%s-%08x", ruleID, sum)
}
