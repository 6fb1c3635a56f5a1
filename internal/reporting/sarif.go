package reporting

import (
	"encoding/json"
	"io"
	"sort"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// SARIF 2.1.0 output, the interchange format CI scanners ingest.

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID   string    `json:"id"`
	Name string    `json:"name"`
	Help sarifText `json:"help"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// sarifLevel folds the six severities into SARIF's three levels.
func sarifLevel(s ir.Severity) string {
	switch s {
	case ir.SeverityCritical, ir.SeverityHigh:
		return "error"
	case ir.SeverityMediumHigh, ir.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

func renderSARIF(w io.Writer, run *ir.Run) error {
	sorted := SortForReport(run.Violations)

	// One rules entry per distinct rule, sorted by ID. The suggestion
	// doubles as the rule help text.
	helpByRule := make(map[string]string)
	for _, v := range sorted {
		if _, ok := helpByRule[v.RuleID]; !ok {
			help := v.Suggestion
			if help == "" {
				help = v.Message
			}
			helpByRule[v.RuleID] = help
		}
	}
	ruleIDs := make([]string, 0, len(helpByRule))
	for id := range helpByRule {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	rules := make([]sarifRule, 0, len(ruleIDs))
	for _, id := range ruleIDs {
		rules = append(rules, sarifRule{
			ID:   id,
			Name: id,
			Help: sarifText{Text: helpByRule[id]},
		})
	}

	results := make([]sarifResult, 0, len(sorted))
	for _, v := range sorted {
		results = append(results, sarifResult{
			RuleID:  v.RuleID,
			Level:   sarifLevel(v.Severity),
			Message: sarifText{Text: v.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: v.Path},
					Region: sarifRegion{
						StartLine:   v.Line,
						StartColumn: v.Col,
						EndLine:     v.EndLine,
						EndColumn:   v.EndCol,
					},
				},
			}},
		})
	}

	log := sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:           "reactlift",
				InformationURI: "https://github.com/codewithboateng/reactlift",
				Rules:          rules,
			}},
			Results: results,
		}},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(log)
}
