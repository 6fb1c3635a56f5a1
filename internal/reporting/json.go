package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// violationRecord is the wire shape of one violation: the stable field
// names consumers key on, independent of the internal struct.
type violationRecord struct {
	ID         string      `json:"id,omitempty"`
	Rule       string      `json:"rule"`
	Severity   ir.Severity `json:"severity"`
	Category   ir.Category `json:"category"`
	File       string      `json:"file"`
	Line       int         `json:"line"`
	Column     int         `json:"column,omitempty"`
	EndLine    int         `json:"end_line,omitempty"`
	EndColumn  int         `json:"end_column,omitempty"`
	Message    string      `json:"message,omitempty"`
	Snippet    string      `json:"snippet,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// jsonReport is the machine format: the record sequence plus the
// trailing summary, with recoverable warnings carried alongside.
type jsonReport struct {
	RunID    string            `json:"run_id,omitempty"`
	Root     string            `json:"root,omitempty"`
	Records  []violationRecord `json:"records"`
	Warnings []ir.Warning      `json:"warnings,omitempty"`
	Summary  ir.Summary        `json:"summary"`
}

// RenderJSON writes the structured report: violation records in report
// order followed by the summary.
func RenderJSON(w io.Writer, run *ir.Run) error {
	rep := jsonReport{
		RunID:    run.ID,
		Root:     run.Root,
		Records:  make([]violationRecord, 0, len(run.Violations)),
		Warnings: run.Warnings,
		Summary:  run.Summary,
	}
	for _, v := range SortForReport(run.Violations) {
		rep.Records = append(rep.Records, violationRecord{
			ID:         v.ID,
			Rule:       v.RuleID,
			Severity:   v.Severity,
			Category:   v.Category,
			File:       v.Path,
			Line:       v.Line,
			Column:     v.Col,
			EndLine:    v.EndLine,
			EndColumn:  v.EndCol,
			Message:    v.Message,
			Snippet:    v.Snippet,
			Suggestion: v.Suggestion,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

// ParseJSON reads a structured report back into a run. Together with
// RenderJSON this round-trips the violation set, warnings and summary.
func ParseJSON(r io.Reader) (*ir.Run, error) {
	var rep jsonReport
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	run := &ir.Run{
		ID:       rep.RunID,
		Root:     rep.Root,
		Warnings: rep.Warnings,
		Summary:  rep.Summary,
	}
	for _, rec := range rep.Records {
		run.Violations = append(run.Violations, ir.Violation{
			ID:         rec.ID,
			RuleID:     rec.Rule,
			Severity:   rec.Severity,
			Category:   rec.Category,
			Path:       rec.File,
			Line:       rec.Line,
			Col:        rec.Column,
			EndLine:    rec.EndLine,
			EndCol:     rec.EndColumn,
			Message:    rec.Message,
			Snippet:    rec.Snippet,
			Suggestion: rec.Suggestion,
		})
	}
	return run, nil
}

// WriteJSON writes the structured report to <outDir>/<runID>.json.
func WriteJSON(runID, outDir string, run *ir.Run) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(outDir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := RenderJSON(f, run); err != nil {
		return "", err
	}
	return path, nil
}
