package rules

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// stubRule lets tests register rules with fixed metadata and a
// pluggable detector.
type stubRule struct {
	BaseRule
	detect func(u *source.Unit) []ir.Span
}

func (s stubRule) Detect(u *source.Unit) []ir.Span {
	if s.detect == nil {
		return nil
	}
	return s.detect(u)
}

func newStub(id string, sev ir.Severity, cat ir.Category, detect func(*source.Unit) []ir.Span) stubRule {
	return stubRule{
		BaseRule: BaseRule{
			RuleID:         id,
			RuleTitle:      "Stub " + id,
			RuleCategory:   cat,
			RuleSeverity:   sev,
			RuleSuggestion: "stub suggestion",
		},
		detect: detect,
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newStub("my-rule", ir.SeverityLow, ir.CategoryJSPerf, nil)))
	assert.Equal(t, 1, reg.Len())

	got, ok := reg.Get("my-rule")
	require.True(t, ok)
	assert.Equal(t, "my-rule", got.ID())

	_, ok = reg.Get("MY-RULE")
	assert.True(t, ok, "lookup is case-insensitive")

	_, ok = reg.Get("absent")
	assert.False(t, ok)
}

func TestRegistry_DuplicateID(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newStub("dup", ir.SeverityLow, ir.CategoryJSPerf, nil)))

	err := reg.Register(newStub("DUP", ir.SeverityHigh, ir.CategoryRerender, nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateRule))
	assert.Equal(t, 1, reg.Len(), "collision leaves the registry unchanged")
}

func TestRegistry_EmptyID(t *testing.T) {
	reg := NewRegistry()
	assert.Error(t, reg.Register(newStub("  ", ir.SeverityLow, ir.CategoryJSPerf, nil)))
	assert.Equal(t, 0, reg.Len())
}

func TestRegistry_AllIsACopy(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newStub("a", ir.SeverityLow, ir.CategoryJSPerf, nil)))
	require.NoError(t, reg.Register(newStub("b", ir.SeverityLow, ir.CategoryJSPerf, nil)))

	all := reg.All()
	require.Len(t, all, 2)
	all[0] = newStub("z", ir.SeverityLow, ir.CategoryJSPerf, nil)

	got, ok := reg.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a", got.ID())
}

func TestRegistry_ByCategory(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(newStub("r1", ir.SeverityLow, ir.CategoryRerender, nil)))
	require.NoError(t, reg.Register(newStub("j1", ir.SeverityLow, ir.CategoryJSPerf, nil)))
	require.NoError(t, reg.Register(newStub("r2", ir.SeverityLow, ir.CategoryRerender, nil)))

	got := reg.ByCategory(ir.CategoryRerender)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID())
	assert.Equal(t, "r2", got[1].ID())
}

func TestBuiltinRegistry_Catalog(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, 26, reg.Len())

	seen := map[string]bool{}
	for _, r := range reg.All() {
		assert.False(t, seen[r.ID()], "duplicate id %s", r.ID())
		seen[r.ID()] = true
		assert.Equal(t, strings.ToLower(r.ID()), r.ID(), "%s: ids are lowercase", r.ID())
		assert.True(t, r.Severity().Valid(), "%s: severity", r.ID())
		assert.True(t, r.Category().Valid(), "%s: category", r.ID())
		assert.NotEmpty(t, r.Title(), "%s: title", r.ID())
		assert.NotEmpty(t, r.Suggestion(), "%s: suggestion", r.ID())
	}

	_, ok := reg.Get("BUNDLE-BARREL-IMPORTS")
	assert.True(t, ok)
}

func TestBuiltinRegistry_CategoryOrder(t *testing.T) {
	var cats []ir.Category
	for _, r := range DefaultRegistry().All() {
		if len(cats) == 0 || cats[len(cats)-1] != r.Category() {
			cats = append(cats, r.Category())
		}
	}
	// Each category appears once: registration never interleaves them.
	assert.Equal(t, []ir.Category{
		ir.CategoryBundleSize,
		ir.CategoryWaterfalls,
		ir.CategoryServerPerf,
		ir.CategoryRerender,
		ir.CategoryRenderingPerf,
		ir.CategoryJSPerf,
		ir.CategoryAdvanced,
	}, cats)
}
