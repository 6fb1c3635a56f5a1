package ir

import "time"

const Version = "1.0"

// Severity levels, strongest first. Rank gives the sort weight.
type Severity string

const (
	SeverityCritical   Severity = "critical"
	SeverityHigh       Severity = "high"
	SeverityMediumHigh Severity = "medium-high"
	SeverityMedium     Severity = "medium"
	SeverityLowMedium  Severity = "low-medium"
	SeverityLow        Severity = "low"
)

// Severities in descending order of urgency.
var Severities = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMediumHigh,
	SeverityMedium,
	SeverityLowMedium,
	SeverityLow,
}

var severityRank = map[Severity]int{
	SeverityCritical:   6,
	SeverityHigh:       5,
	SeverityMediumHigh: 4,
	SeverityMedium:     3,
	SeverityLowMedium:  2,
	SeverityLow:        1,
}

func (s Severity) Rank() int { return severityRank[s] }

func (s Severity) Valid() bool { return severityRank[s] != 0 }

// ParseSeverity maps a user-supplied level name to a Severity.
// Returns false for anything outside the fixed set.
func ParseSeverity(s string) (Severity, bool) {
	sev := Severity(s)
	return sev, sev.Valid()
}

// Category is the fixed performance-area taxonomy a rule belongs to.
type Category string

const (
	CategoryBundleSize    Category = "bundle-size"
	CategoryWaterfalls    Category = "waterfalls"
	CategoryRerender      Category = "rerender"
	CategoryRenderingPerf Category = "rendering-perf"
	CategoryJSPerf        Category = "js-perf"
	CategoryAdvanced      Category = "advanced-patterns"
	CategoryServerPerf    Category = "server-perf"
)

var Categories = []Category{
	CategoryBundleSize,
	CategoryWaterfalls,
	CategoryRerender,
	CategoryRenderingPerf,
	CategoryJSPerf,
	CategoryAdvanced,
	CategoryServerPerf,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Span is one matched region inside a source unit. Columns are 1-based
// and optional (0 means whole line). Hint carries per-match detail that
// detectors splice into the violation message.
type Span struct {
	Line    int    `json:"line"`
	EndLine int    `json:"end_line,omitempty"`
	Col     int    `json:"col,omitempty"`
	EndCol  int    `json:"end_col,omitempty"`
	Snippet string `json:"snippet,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

type Violation struct {
	ID         string   `json:"id"`
	RuleID     string   `json:"rule_id"`
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	Path       string   `json:"path"`
	Line       int      `json:"line"`
	EndLine    int      `json:"end_line,omitempty"`
	Col        int      `json:"col,omitempty"`
	EndCol     int      `json:"end_col,omitempty"`
	Message    string   `json:"message"`
	Snippet    string   `json:"snippet,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Warning kinds. A warning is a recoverable condition the run records
// instead of aborting on.
const (
	WarnUnreadableFile = "unreadable-file"
	WarnRuleEvaluation = "rule-evaluation"
)

type Warning struct {
	Kind    string `json:"kind"`
	Path    string `json:"path,omitempty"`
	RuleID  string `json:"rule_id,omitempty"`
	Message string `json:"message"`
}

type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Root      string    `json:"root"`
	IRVersion string    `json:"ir_version,omitempty"`

	Context    Context     `json:"context"`
	Violations []Violation `json:"violations,omitempty"`
	Warnings   []Warning   `json:"warnings,omitempty"`
	Summary    Summary     `json:"summary"`
}

// Context records the knobs the run was produced under, so stored runs
// stay interpretable and diffable.
type Context struct {
	SeverityThreshold Severity   `json:"severity_threshold,omitempty"`
	Categories        []Category `json:"categories,omitempty"`
	DisabledRules     []string   `json:"disabled_rules,omitempty"`
	Workers           int        `json:"workers,omitempty"`
}

type Summary struct {
	FilesScanned  int              `json:"files_scanned"`
	FilesDegraded int              `json:"files_degraded,omitempty"`
	RulesActive   int              `json:"rules_active"`
	Total         int              `json:"total"`
	BySeverity    map[Severity]int `json:"by_severity,omitempty"`
	ByCategory    map[Category]int `json:"by_category,omitempty"`
	Waived        int              `json:"waived,omitempty"`
	ImpactScore   float64          `json:"impact_score,omitempty"`
	DurationMS    int64            `json:"duration_ms,omitempty"`
}

// Summarize recomputes the aggregate counters from the violation list,
// preserving counters the pipeline fills in elsewhere.
func (r *Run) Summarize() {
	s := &r.Summary
	s.Total = len(r.Violations)
	s.BySeverity = make(map[Severity]int)
	s.ByCategory = make(map[Category]int)
	for _, v := range r.Violations {
		s.BySeverity[v.Severity]++
		s.ByCategory[v.Category]++
	}
}
