package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/codewithboateng/reactlift/internal/impact"
	"github.com/codewithboateng/reactlift/internal/ir"
)

// lineTolerance is how far a violation may drift between runs and
// still count as the same one. Edits above a match site shift every
// line below it; keying on exact lines would report the whole file as
// churn.
const lineTolerance = 5

type DiffPayload struct {
	BaseID   string        `json:"base_id"`
	HeadID   string        `json:"head_id"`
	Summary  DiffSummary   `json:"summary"`
	New      []diffEntry   `json:"new"`
	Resolved []diffEntry   `json:"resolved"`
	Changed  []diffChanged `json:"changed"`
}

type DiffSummary struct {
	NewCount        int     `json:"new"`
	ResolvedCount   int     `json:"resolved"`
	PersistingCount int     `json:"persisting"`
	ChangedCount    int     `json:"changed"`
	ImpactDelta     float64 `json:"impact_delta"`
}

type diffEntry struct {
	RuleID   string      `json:"rule_id"`
	Severity ir.Severity `json:"severity"`
	Category ir.Category `json:"category,omitempty"`
	Path     string      `json:"path"`
	Line     int         `json:"line"`
	Message  string      `json:"message,omitempty"`
	Snippet  string      `json:"snippet,omitempty"`
}

type diffChanged struct {
	Key     string    `json:"key"`
	Base    diffEntry `json:"base"`
	Head    diffEntry `json:"head"`
	Changed []string  `json:"fields_changed"`
}

// BuildDiff pairs the two runs' violations by rule, path and snippet,
// tolerating small line drift, and classifies the remainder as new or
// resolved. A persisting pair whose severity or message moved is also
// listed as changed.
func BuildDiff(base, head *ir.Run) DiffPayload {
	bm := groupByKey(base.Violations)
	hm := groupByKey(head.Violations)

	keys := make(map[string]struct{}, len(bm)+len(hm))
	for k := range bm {
		keys[k] = struct{}{}
	}
	for k := range hm {
		keys[k] = struct{}{}
	}
	sortedKeys := make([]string, 0, len(keys))
	for k := range keys {
		sortedKeys = append(sortedKeys, k)
	}
	sort.Strings(sortedKeys)

	var (
		added    []diffEntry
		resolved []diffEntry
		changed  []diffChanged
		kept     int
	)
	for _, k := range sortedKeys {
		bs, hs := bm[k], hm[k]
		sort.Slice(bs, func(i, j int) bool { return bs[i].Line < bs[j].Line })
		sort.Slice(hs, func(i, j int) bool { return hs[i].Line < hs[j].Line })

		// Two-pointer pairing over line-sorted lists: nearest lines
		// within the tolerance pair up, everything else spills over.
		i, j := 0, 0
		for i < len(bs) && j < len(hs) {
			d := hs[j].Line - bs[i].Line
			switch {
			case d > lineTolerance:
				resolved = append(resolved, asEntry(bs[i]))
				i++
			case d < -lineTolerance:
				added = append(added, asEntry(hs[j]))
				j++
			default:
				kept++
				if fields := changedFields(bs[i], hs[j]); len(fields) > 0 {
					changed = append(changed, diffChanged{
						Key:     k,
						Base:    asEntry(bs[i]),
						Head:    asEntry(hs[j]),
						Changed: fields,
					})
				}
				i++
				j++
			}
		}
		for ; i < len(bs); i++ {
			resolved = append(resolved, asEntry(bs[i]))
		}
		for ; j < len(hs); j++ {
			added = append(added, asEntry(hs[j]))
		}
	}

	sortEntries(added)
	sortEntries(resolved)
	sort.Slice(changed, func(i, j int) bool { return changed[i].Key < changed[j].Key })

	return DiffPayload{
		BaseID: base.ID,
		HeadID: head.ID,
		Summary: DiffSummary{
			NewCount:        len(added),
			ResolvedCount:   len(resolved),
			PersistingCount: kept,
			ChangedCount:    len(changed),
			ImpactDelta:     impact.Score(head.Violations) - impact.Score(base.Violations),
		},
		New:      added,
		Resolved: resolved,
		Changed:  changed,
	}
}

// RenderDiffText prints the one-screen diff summary.
func RenderDiffText(w io.Writer, d DiffPayload) error {
	fmt.Fprintf(w, "diff %s -> %s\n", d.BaseID, d.HeadID)
	fmt.Fprintf(w, "  new: %d  resolved: %d  persisting: %d  changed: %d  impact delta: %+.1f\n",
		d.Summary.NewCount, d.Summary.ResolvedCount, d.Summary.PersistingCount, d.Summary.ChangedCount, d.Summary.ImpactDelta)
	for _, e := range d.New {
		fmt.Fprintf(w, "  + %s:%d [%s] %s\n", e.Path, e.Line, e.RuleID, e.Message)
	}
	for _, e := range d.Resolved {
		fmt.Fprintf(w, "  - %s:%d [%s] %s\n", e.Path, e.Line, e.RuleID, e.Message)
	}
	return nil
}

// WriteDiffJSON writes the diff payload to
// <outDir>/diff_<base>__<head>.json.
func WriteDiffJSON(baseID, headID, outDir string, base, head *ir.Run) (string, error) {
	path := filepath.Join(outDir, "diff_"+baseID+"__"+headID+".json")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	payload := BuildDiff(base, head)
	payload.BaseID, payload.HeadID = baseID, headID
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}

func groupByKey(vs []ir.Violation) map[string][]ir.Violation {
	out := make(map[string][]ir.Violation)
	for _, v := range vs {
		k := keyOf(v)
		out[k] = append(out[k], v)
	}
	return out
}

// keyOf is the logical identity of a violation across runs: what it
// is and where, minus the exact line.
func keyOf(v ir.Violation) string {
	var sb strings.Builder
	sb.WriteString(strings.ToLower(strings.TrimSpace(v.RuleID)))
	sb.WriteByte('|')
	sb.WriteString(v.Path)
	sb.WriteByte('|')
	sb.WriteString(strings.TrimSpace(v.Snippet))
	return sb.String()
}

func changedFields(base, head ir.Violation) []string {
	var fields []string
	if base.Severity != head.Severity {
		fields = append(fields, "severity")
	}
	if strings.TrimSpace(base.Message) != strings.TrimSpace(head.Message) {
		fields = append(fields, "message")
	}
	return fields
}

func asEntry(v ir.Violation) diffEntry {
	return diffEntry{
		RuleID:   v.RuleID,
		Severity: v.Severity,
		Category: v.Category,
		Path:     v.Path,
		Line:     v.Line,
		Message:  v.Message,
		Snippet:  v.Snippet,
	}
}

func sortEntries(es []diffEntry) {
	sort.Slice(es, func(i, j int) bool {
		a, b := es[i], es[j]
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.RuleID < b.RuleID
	})
}
