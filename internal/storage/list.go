package storage

import (
	"database/sql"
	"time"

	"github.com/codewithboateng/reactlift/internal/ir"
)

// ListRuns returns a lightweight list of runs with counts.
func (db *DB) ListRuns(limit, offset int) ([]RunRow, error) {
	const q = `
		SELECT r.id, r.started_at, r.root, r.ir_version,
		       (SELECT COUNT(1) FROM violations v WHERE v.run_id = r.id) AS violations
		  FROM runs r
		 ORDER BY r.started_at DESC, r.id DESC
		 LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var rr RunRow
		var startedAtStr string
		if err := rows.Scan(&rr.ID, &startedAtStr, &rr.Root, &rr.IRVersion, &rr.Violations); err != nil {
			return nil, err
		}
		rr.StartedAt = parseStoredTime(startedAtStr)
		out = append(out, rr)
	}
	return out, rows.Err()
}

// ListViolations returns a run's violations at or above a minimum
// severity, optionally narrowed to one category, in report order
// (severity rank desc, then path, line, rule).
func (db *DB) ListViolations(runID, minSeverity, category string) ([]ir.Violation, error) {
	q := `
		SELECT id, rule_id, severity, category, path, line, col, message, snippet
		  FROM violations
		 WHERE run_id = ?
		   AND (CASE severity
			WHEN 'critical' THEN 6
			WHEN 'high' THEN 5
			WHEN 'medium-high' THEN 4
			WHEN 'medium' THEN 3
			WHEN 'low-medium' THEN 2
			ELSE 1 END)
		       >= (CASE ?
			WHEN 'critical' THEN 6
			WHEN 'high' THEN 5
			WHEN 'medium-high' THEN 4
			WHEN 'medium' THEN 3
			WHEN 'low-medium' THEN 2
			ELSE 1 END)`
	args := []any{runID, minSeverity}
	if category != "" {
		q += ` AND category = ?`
		args = append(args, category)
	}
	q += `
		 ORDER BY
		       (CASE severity
			WHEN 'critical' THEN 6
			WHEN 'high' THEN 5
			WHEN 'medium-high' THEN 4
			WHEN 'medium' THEN 3
			WHEN 'low-medium' THEN 2
			ELSE 1 END) DESC,
		       path, line, rule_id, id`
	rows, err := db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ir.Violation
	for rows.Next() {
		var v ir.Violation
		var sev, cat string
		if err := rows.Scan(&v.ID, &v.RuleID, &sev, &cat, &v.Path, &v.Line, &v.Col, &v.Message, &v.Snippet); err != nil {
			return nil, err
		}
		v.Severity = ir.Severity(sev)
		v.Category = ir.Category(cat)
		out = append(out, v)
	}
	return out, rows.Err()
}

// HasRun reports whether a run ID exists without loading its JSON.
func (db *DB) HasRun(id string) (bool, error) {
	const q = `SELECT 1 FROM runs WHERE id = ? LIMIT 1`
	var one int
	err := db.conn.QueryRow(q, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

// parseStoredTime accepts both timestamp encodings the schema has used.
func parseStoredTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}
