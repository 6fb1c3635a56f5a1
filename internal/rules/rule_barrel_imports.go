package rules

import (
	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// Packages whose root entry point re-exports the whole library. A
// named import from the root defeats tree shaking and drags thousands
// of modules into the bundle.
var defaultBarrelPackages = []string{
	"lodash",
	"ramda",
	"date-fns",
	"rxjs",
	"antd",
	"@mui/material",
	"@mui/icons-material",
	"react-icons",
	"@tabler/icons-react",
	"react-bootstrap",
}

// BarrelImportsRule flags named imports from known barrel packages.
type BarrelImportsRule struct {
	BaseRule
	packages []string
}

func NewBarrelImportsRule(extra ...string) *BarrelImportsRule {
	return &BarrelImportsRule{
		BaseRule: BaseRule{
			RuleID:         "bundle-barrel-imports",
			RuleTitle:      "Named import from a barrel package pulls the whole library into the bundle",
			RuleCategory:   ir.CategoryBundleSize,
			RuleSeverity:   ir.SeverityCritical,
			RuleSuggestion: "Import from the specific module path instead, e.g. lodash/merge or @mui/material/Button",
		},
		packages: append(append([]string{}, defaultBarrelPackages...), extra...),
	}
}

func (r *BarrelImportsRule) Detect(u *source.Unit) []ir.Span {
	if !u.Parsed {
		return nil
	}
	var out []ir.Span
	for _, imp := range u.Imports {
		if imp.TypeOnly || imp.ReExport || len(imp.Named) == 0 {
			continue
		}
		for _, pkg := range r.packages {
			// Only the root entry is the barrel; subpath imports are
			// exactly the fix.
			if imp.Module == pkg {
				out = append(out, ir.Span{
					Line:    imp.Line,
					Snippet: u.Snippet(imp.Line),
					Hint:    "{" + imp.Named[0] + "} from \"" + pkg + "\"",
				})
				break
			}
		}
	}
	return out
}
