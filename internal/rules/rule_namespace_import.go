package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// NamespaceImportRule flags "import * as x" over tree-shakeable
// utility libraries, which forces bundlers to keep every export.
type NamespaceImportRule struct {
	BaseRule
	packages []string
}

func NewNamespaceImportRule(extra ...string) *NamespaceImportRule {
	pkgs := append([]string{}, defaultBarrelPackages...)
	pkgs = append(pkgs, "lodash-es")
	return &NamespaceImportRule{
		BaseRule: BaseRule{
			RuleID:         "bundle-namespace-import",
			RuleTitle:      "Namespace import defeats tree shaking for this library",
			RuleCategory:   ir.CategoryBundleSize,
			RuleSeverity:   ir.SeverityLowMedium,
			RuleSuggestion: "Import only the functions you use so the bundler can drop the rest",
		},
		packages: append(pkgs, extra...),
	}
}

func (r *NamespaceImportRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	var out []ir.Span
	for _, imp := range u.Imports {
		if imp.Namespace == "" || imp.TypeOnly {
			continue
		}
		for _, pkg := range r.packages {
			if source.ModuleMatches(imp.Module, pkg) {
				out = append(out, ir.Span{
					Line:    imp.Line,
					Snippet: u.Snippet(imp.Line),
					Hint:    "* as " + imp.Namespace + " from \"" + imp.Module + "\"",
				})
				break
			}
		}
	}
	return out
}
