package reporting

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// Format selects a report renderer.
type Format string

const (
	FormatHuman  Format = "human"
	FormatJSON   Format = "json"
	FormatSARIF  Format = "sarif"
	FormatGitHub Format = "github"
	FormatHTML   Format = "html"
)

// Formats lists the accepted --format values.
var Formats = []Format{FormatHuman, FormatJSON, FormatSARIF, FormatGitHub, FormatHTML}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown format %q (want human|json|sarif|github|html)", s)
}

// Render writes the run in the requested format. Output is a pure
// function of the run: same run, same bytes.
func Render(w io.Writer, run *ir.Run, f Format) error {
	switch f {
	case FormatHuman:
		return renderHuman(w, run)
	case FormatJSON:
		return RenderJSON(w, run)
	case FormatSARIF:
		return renderSARIF(w, run)
	case FormatGitHub:
		return renderGitHub(w, run)
	case FormatHTML:
		return renderHTML(w, run)
	}
	return fmt.Errorf("unknown format %q", f)
}

// SortForReport copies the violations into report order: severity rank
// descending, then path, line, column, and finally rule ID so the
// order is total.
func SortForReport(in []ir.Violation) []ir.Violation {
	out := make([]ir.Violation, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() > b.Severity.Rank()
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Col != b.Col {
			return a.Col < b.Col
		}
		return a.RuleID < b.RuleID
	})
	return out
}

func renderHuman(w io.Writer, run *ir.Run) error {
	bw := bufio.NewWriter(w)
	sorted := SortForReport(run.Violations)

	for _, sev := range ir.Severities {
		var group []ir.Violation
		for _, v := range sorted {
			if v.Severity == sev {
				group = append(group, v)
			}
		}
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(bw, "%s (%d)\n", strings.ToUpper(string(sev)), len(group))
		for _, v := range group {
			loc := fmt.Sprintf("%s:%d", v.Path, v.Line)
			if v.Col > 0 {
				loc = fmt.Sprintf("%s:%d", loc, v.Col)
			}
			fmt.Fprintf(bw, "  %s  [%s] %s\n", loc, v.RuleID, v.Message)
			if v.Snippet != "" {
				fmt.Fprintf(bw, "      > %s\n", v.Snippet)
			}
			if v.Suggestion != "" {
				fmt.Fprintf(bw, "      fix: %s\n", v.Suggestion)
			}
		}
		fmt.Fprintln(bw)
	}
	if len(sorted) == 0 {
		fmt.Fprintln(bw, "No violations at or above the configured threshold.")
		fmt.Fprintln(bw)
	}

	if len(run.Warnings) > 0 {
		fmt.Fprintf(bw, "Warnings (%d)\n", len(run.Warnings))
		for _, wn := range run.Warnings {
			if wn.RuleID != "" {
				fmt.Fprintf(bw, "  %s %s @ %s: %s\n", wn.Kind, wn.RuleID, wn.Path, wn.Message)
			} else {
				fmt.Fprintf(bw, "  %s %s: %s\n", wn.Kind, wn.Path, wn.Message)
			}
		}
		fmt.Fprintln(bw)
	}

	s := run.Summary
	fmt.Fprintln(bw, "Summary")
	fmt.Fprintf(bw, "  files scanned: %d\n", s.FilesScanned)
	if s.FilesDegraded > 0 {
		fmt.Fprintf(bw, "  files degraded: %d\n", s.FilesDegraded)
	}
	fmt.Fprintf(bw, "  rules active: %d\n", s.RulesActive)
	fmt.Fprintf(bw, "  violations: %d\n", s.Total)
	if s.Waived > 0 {
		fmt.Fprintf(bw, "  waived: %d\n", s.Waived)
	}
	if line := countsLine(s.BySeverity, ir.Severities); line != "" {
		fmt.Fprintf(bw, "  by severity: %s\n", line)
	}
	if line := countsLine(s.ByCategory, ir.Categories); line != "" {
		fmt.Fprintf(bw, "  by category: %s\n", line)
	}
	if s.ImpactScore > 0 {
		fmt.Fprintf(bw, "  impact score: %.1f\n", s.ImpactScore)
	}
	return bw.Flush()
}

// countsLine renders non-zero counters in the fixed enum order, so the
// line never depends on map iteration.
func countsLine[K ~string](counts map[K]int, order []K) string {
	var parts []string
	for _, k := range order {
		if n := counts[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", string(k), n))
		}
	}
	return strings.Join(parts, " ")
}
