package impact

import (
	"sort"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// Severity weights for impact scoring. The spread is deliberately
// non-linear: one critical outranks a pile of lows so the top-files
// table surfaces the right offenders first.
var weights = map[ir.Severity]float64{
	ir.SeverityCritical:   25,
	ir.SeverityHigh:       15,
	ir.SeverityMediumHigh: 10,
	ir.SeverityMedium:     6,
	ir.SeverityLowMedium:  3,
	ir.SeverityLow:        1,
}

// Weight returns the score contribution of one severity level.
func Weight(s ir.Severity) float64 { return weights[s] }

// Score sums the severity weights over a violation list.
func Score(violations []ir.Violation) float64 {
	total := 0.0
	for _, v := range violations {
		total += weights[v.Severity]
	}
	return total
}

// FileImpact aggregates one file's violations for ranking.
type FileImpact struct {
	Path  string      `json:"path"`
	Score float64     `json:"score"`
	Count int         `json:"count"`
	Worst ir.Severity `json:"worst"`
}

// TopFiles ranks files by impact score descending, path ascending on
// ties, capped at n (n <= 0 keeps all).
func TopFiles(violations []ir.Violation, n int) []FileImpact {
	byPath := make(map[string]*FileImpact)
	for _, v := range violations {
		fi := byPath[v.Path]
		if fi == nil {
			fi = &FileImpact{Path: v.Path, Worst: v.Severity}
			byPath[v.Path] = fi
		}
		fi.Score += weights[v.Severity]
		fi.Count++
		if v.Severity.Rank() > fi.Worst.Rank() {
			fi.Worst = v.Severity
		}
	}
	out := make([]FileImpact, 0, len(byPath))
	for _, fi := range byPath {
		out = append(out, *fi)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Path < out[j].Path
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// ByCategory splits the run score across categories.
func ByCategory(violations []ir.Violation) map[ir.Category]float64 {
	out := make(map[ir.Category]float64)
	for _, v := range violations {
		out[v.Category] += weights[v.Severity]
	}
	return out
}
