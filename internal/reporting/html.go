package reporting

import (
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"

	"github.com/codewithboateng/reactlift/internal/impact"
	"github.com/codewithboateng/reactlift/internal/ir"
)

var severityColors = map[ir.Severity]string{
	ir.SeverityCritical:   "#b91c1c",
	ir.SeverityHigh:       "#c2410c",
	ir.SeverityMediumHigh: "#b45309",
	ir.SeverityMedium:     "#a16207",
	ir.SeverityLowMedium:  "#4d7c0f",
	ir.SeverityLow:        "#15803d",
}

func sevBadge(s ir.Severity) string {
	color := severityColors[s]
	if color == "" {
		color = "#666"
	}
	return fmt.Sprintf("<span class='badge' style='background:%s'>%s</span>", color, html.EscapeString(string(s)))
}

func renderHTML(w io.Writer, run *ir.Run) error {
	// Head + styles
	fmt.Fprintf(w, "<!doctype html><html><head><meta charset='utf-8'><title>%s</title>", html.EscapeString(run.ID))
	fmt.Fprint(w, "<style>body{font-family:system-ui,Arial,sans-serif;padding:20px;line-height:1.4} table{border-collapse:collapse;margin:8px 0} td,th{border:1px solid #ddd;padding:6px;text-align:left} h1,h2{margin:6px 0 4px} .dim{color:#666} .mono{font-family:ui-monospace,Menlo,Consolas,monospace} .badge{color:#fff;border-radius:3px;padding:1px 6px;font-size:12px}</style>")
	fmt.Fprint(w, "</head><body>")

	// Title + summary
	s := run.Summary
	fmt.Fprintf(w, "<h1>reactlift report &ndash; <span class='mono'>%s</span></h1>", html.EscapeString(run.ID))
	fmt.Fprintf(w, "<p class='dim'>Root: <span class='mono'>%s</span></p>", html.EscapeString(run.Root))
	fmt.Fprintf(w, "<p>Files: %d &nbsp; Violations: %d &nbsp; Impact score: %.1f</p>", s.FilesScanned, s.Total, s.ImpactScore)

	if run.Context.SeverityThreshold != "" {
		fmt.Fprintf(w, "<p class='dim'>Severity threshold: %s", html.EscapeString(string(run.Context.SeverityThreshold)))
		if n := len(run.Context.DisabledRules); n > 0 {
			fmt.Fprintf(w, " &nbsp; Disabled rules: %d", n)
		}
		if s.Waived > 0 {
			fmt.Fprintf(w, " &nbsp; Waived: %d", s.Waived)
		}
		fmt.Fprint(w, "</p>")
	}

	if line := countsLine(s.BySeverity, ir.Severities); line != "" {
		fmt.Fprintf(w, "<p class='dim'>By severity: %s</p>", html.EscapeString(line))
	}
	if line := countsLine(s.ByCategory, ir.Categories); line != "" {
		fmt.Fprintf(w, "<p class='dim'>By category: %s</p>", html.EscapeString(line))
	}

	// Top files by impact
	if tops := impact.TopFiles(run.Violations, 20); len(tops) > 0 {
		fmt.Fprint(w, "<h2>Top Files</h2><table><tr><th>File</th><th>Impact</th><th>Violations</th><th>Worst</th></tr>")
		for _, fi := range tops {
			fmt.Fprintf(w, "<tr><td class='mono'>%s</td><td>%.1f</td><td>%d</td><td>%s</td></tr>",
				html.EscapeString(fi.Path), fi.Score, fi.Count, sevBadge(fi.Worst))
		}
		fmt.Fprint(w, "</table>")
	}

	// All violations
	if len(run.Violations) > 0 {
		fmt.Fprint(w, "<h2>All Violations</h2><table><tr><th>Severity</th><th>Rule</th><th>Location</th><th>Message</th><th>Snippet</th></tr>")
		for _, v := range SortForReport(run.Violations) {
			loc := fmt.Sprintf("%s:%d", v.Path, v.Line)
			if v.Col > 0 {
				loc = fmt.Sprintf("%s:%d", loc, v.Col)
			}
			fmt.Fprintf(w, "<tr><td>%s</td><td class='mono'>%s</td><td class='mono'>%s</td><td>%s</td><td class='mono'>%s</td></tr>",
				sevBadge(v.Severity),
				html.EscapeString(v.RuleID),
				html.EscapeString(loc),
				html.EscapeString(v.Message),
				html.EscapeString(v.Snippet),
			)
		}
		fmt.Fprint(w, "</table>")
	} else {
		fmt.Fprint(w, "<h2>All Violations</h2><p class='dim'>No violations at or above the configured threshold.</p>")
	}

	// Warnings
	if len(run.Warnings) > 0 {
		fmt.Fprint(w, "<h2>Warnings</h2><table><tr><th>Kind</th><th>Where</th><th>Message</th></tr>")
		for _, wn := range run.Warnings {
			where := wn.Path
			if wn.RuleID != "" {
				where = wn.RuleID + " @ " + wn.Path
			}
			fmt.Fprintf(w, "<tr><td>%s</td><td class='mono'>%s</td><td>%s</td></tr>",
				html.EscapeString(wn.Kind), html.EscapeString(where), html.EscapeString(wn.Message))
		}
		fmt.Fprint(w, "</table>")
	}

	_, err := fmt.Fprint(w, "</body></html>")
	return err
}

// WriteHTML writes the HTML report to <outDir>/<runID>.html.
func WriteHTML(runID, outDir string, run *ir.Run) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, runID+".html")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := renderHTML(f, run); err != nil {
		return "", err
	}
	return path, nil
}
