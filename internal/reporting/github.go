package reporting

import (
	"fmt"
	"io"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// githubLevel folds the six severities into the three annotation
// levels GitHub Actions understands.
func githubLevel(s ir.Severity) string {
	switch s {
	case ir.SeverityCritical, ir.SeverityHigh:
		return "error"
	case ir.SeverityMediumHigh, ir.SeverityMedium:
		return "warning"
	default:
		return "notice"
	}
}

// renderGitHub emits workflow command annotations:
// ::error file={name},line={line},col={col}::{message}
func renderGitHub(w io.Writer, run *ir.Run) error {
	for _, v := range SortForReport(run.Violations) {
		loc := fmt.Sprintf("file=%s,line=%d", v.Path, v.Line)
		if v.Col > 0 {
			loc = fmt.Sprintf("%s,col=%d", loc, v.Col)
		}
		if _, err := fmt.Fprintf(w, "::%s %s::[%s] %s\n", githubLevel(v.Severity), loc, v.RuleID, v.Message); err != nil {
			return err
		}
	}
	return nil
}
