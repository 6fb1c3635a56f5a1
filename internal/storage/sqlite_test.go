package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/reactlift/internal/ir"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, db.CreateSchema())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func storedRun(id string, started time.Time, vs ...ir.Violation) *ir.Run {
	run := &ir.Run{
		ID:         id,
		StartedAt:  started,
		Root:       "/repo",
		IRVersion:  ir.Version,
		Violations: vs,
	}
	run.Summarize()
	return run
}

func storedViolation(id, rule, path string, line int, sev ir.Severity, cat ir.Category) ir.Violation {
	return ir.Violation{
		ID:       id,
		RuleID:   rule,
		Severity: sev,
		Category: cat,
		Path:     path,
		Line:     line,
		Col:      1,
		Message:  "message for " + rule,
		Snippet:  "snippet for " + rule,
	}
}

func TestSaveAndLoadRun(t *testing.T) {
	db := openTestDB(t)
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	orig := storedRun("run-1", started,
		storedViolation("v1", "js-console-log", "src/a.ts", 4, ir.SeverityLow, ir.CategoryJSPerf),
		storedViolation("v2", "render-img-element", "app/page.tsx", 12, ir.SeverityMediumHigh, ir.CategoryRenderingPerf),
	)
	require.NoError(t, db.SaveRun(orig))

	got, err := db.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, "run-1", got.ID)
	assert.Equal(t, "/repo", got.Root)
	assert.Equal(t, ir.Version, got.IRVersion)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, orig.Violations, got.Violations)
	assert.Equal(t, 2, got.Summary.Total)
}

func TestSaveRun_UpsertReplacesViolations(t *testing.T) {
	db := openTestDB(t)
	started := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	require.NoError(t, db.SaveRun(storedRun("run-1", started,
		storedViolation("v1", "js-console-log", "src/a.ts", 4, ir.SeverityLow, ir.CategoryJSPerf),
		storedViolation("v2", "js-console-log", "src/b.ts", 9, ir.SeverityLow, ir.CategoryJSPerf),
	)))
	require.NoError(t, db.SaveRun(storedRun("run-1", started,
		storedViolation("v3", "render-img-element", "app/page.tsx", 2, ir.SeverityMediumHigh, ir.CategoryRenderingPerf),
	)))

	got, err := db.LoadRun("run-1")
	require.NoError(t, err)
	require.Len(t, got.Violations, 1)
	assert.Equal(t, "v3", got.Violations[0].ID)

	rows, err := db.ListViolations("run-1", "low", "")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "old violation rows are replaced, not appended")
}

func TestLoadRun_NotFound(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LoadRun("never-saved")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.Contains(t, err.Error(), "never-saved")
}

func TestLoadLatestRun(t *testing.T) {
	db := openTestDB(t)

	_, err := db.LoadLatestRun()
	assert.True(t, errors.Is(err, ErrRunNotFound), "empty store has no latest run")

	base := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	require.NoError(t, db.SaveRun(storedRun("run-old", base)))
	require.NoError(t, db.SaveRun(storedRun("run-new", base.Add(time.Hour))))

	got, err := db.LoadLatestRun()
	require.NoError(t, err)
	assert.Equal(t, "run-new", got.ID)
}
