package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// Libraries heavy enough that loading them with the initial client
// bundle is rarely justified.
var defaultHeavyPackages = []string{
	"chart.js",
	"react-chartjs-2",
	"echarts",
	"echarts-for-react",
	"highcharts",
	"plotly.js",
	"react-plotly.js",
	"d3",
	"three",
	"@react-three/fiber",
	"monaco-editor",
	"@monaco-editor/react",
	"codemirror",
	"mapbox-gl",
	"leaflet",
	"react-leaflet",
	"quill",
	"react-quill",
	"pdfjs-dist",
	"xlsx",
	"video.js",
}

// DynamicImportsRule flags heavy libraries statically imported into
// client components instead of being code-split.
type DynamicImportsRule struct {
	BaseRule
	packages []string
}

func NewDynamicImportsRule(extra ...string) *DynamicImportsRule {
	return &DynamicImportsRule{
		BaseRule: BaseRule{
			RuleID:         "bundle-dynamic-imports",
			RuleTitle:      "Heavy library is imported statically in a client component",
			RuleCategory:   ir.CategoryBundleSize,
			RuleSeverity:   ir.SeverityHigh,
			RuleSuggestion: "Load it on demand with next/dynamic or React.lazy so it stays out of the initial bundle",
		},
		packages: append(append([]string{}, defaultHeavyPackages...), extra...),
	}
}

func (r *DynamicImportsRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed || !u.HasUseClient {
		return nil
	}
	var out []ir.Span
	for _, imp := range u.Imports {
		if imp.Dynamic || imp.TypeOnly {
			continue
		}
		for _, pkg := range r.packages {
			if source.ModuleMatches(imp.Module, pkg) {
				out = append(out, ir.Span{
					Line:    imp.Line,
					Snippet: u.Snippet(imp.Line),
					Hint:    imp.Module,
				})
				break
			}
		}
	}
	return out
}
