package source

import "strings"

// Import is one module binding found in a unit. Named holds the
// exported names as written at the import site (aliases dropped).
type Import struct {
	Module     string
	Default    string
	Named      []string
	Namespace  string
	SideEffect bool
	Dynamic    bool
	Require    bool
	ReExport   bool
	TypeOnly   bool
	Line       int
}

// extractImports pulls the import table out of a token stream. It
// recognizes static imports, dynamic import(), require() calls and
// re-exports ("export ... from"), which is what the bundle rules need.
func extractImports(toks []Token) []Import {
	var out []Import
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Type != TokenIdent {
			continue
		}
		switch t.Text {
		case "import":
			if imp, next, ok := parseImport(toks, i); ok {
				out = append(out, imp)
				i = next
			}
		case "require":
			if imp, next, ok := parseRequire(toks, i); ok {
				out = append(out, imp)
				i = next
			}
		case "export":
			if imp, next, ok := parseReExport(toks, i); ok {
				out = append(out, imp)
				i = next
			}
		}
	}
	return out
}

func parseImport(toks []Token, i int) (Import, int, bool) {
	imp := Import{Line: toks[i].Line}
	j := i + 1
	if j >= len(toks) {
		return imp, i, false
	}

	// import("mod")
	if toks[j].Text == "(" {
		if j+1 < len(toks) && toks[j+1].Type == TokenString {
			imp.Module = unquote(toks[j+1].Text)
			imp.Dynamic = true
			return imp, j + 1, true
		}
		return imp, i, false
	}

	// import "mod"
	if toks[j].Type == TokenString {
		imp.Module = unquote(toks[j].Text)
		imp.SideEffect = true
		return imp, j, true
	}

	if toks[j].Type == TokenIdent && toks[j].Text == "type" {
		// "import type X from" but not "import type from 'mod'"
		if j+1 < len(toks) && toks[j+1].Text != "from" {
			imp.TypeOnly = true
			j++
		}
	}

	// Clause: default ident, {named}, * as ns, in any comma order.
	for j < len(toks) {
		t := toks[j]
		if t.Type == TokenIdent && t.Text == "from" {
			if j+1 < len(toks) && toks[j+1].Type == TokenString {
				imp.Module = unquote(toks[j+1].Text)
				return imp, j + 1, true
			}
			return imp, i, false
		}
		switch {
		case t.Text == "{":
			j = parseNamed(toks, j, &imp)
			continue
		case t.Text == "*":
			if j+2 < len(toks) && toks[j+1].Text == "as" && toks[j+2].Type == TokenIdent {
				imp.Namespace = toks[j+2].Text
				j += 3
				continue
			}
			j++
		case t.Type == TokenIdent && imp.Default == "" && t.Text != "as":
			imp.Default = t.Text
			j++
		case t.Text == "," || t.Text == ";":
			j++
		case t.Type == TokenString || t.Text == "(" || t.Text == ")":
			// Ran into something that is not an import clause.
			return imp, i, false
		default:
			j++
		}
		if j > i+64 {
			// Clause runaway guard for broken sources.
			return imp, i, false
		}
	}
	return imp, i, false
}

// parseNamed consumes "{ a, b as c, type d }" starting at the brace,
// appending source-side names to imp.Named.
func parseNamed(toks []Token, j int, imp *Import) int {
	j++ // {
	for j < len(toks) && toks[j].Text != "}" {
		t := toks[j]
		if t.Type == TokenIdent && t.Text != "as" && t.Text != "type" {
			// Skip the alias side of "orig as alias".
			if j == 0 || toks[j-1].Text != "as" {
				imp.Named = append(imp.Named, t.Text)
			}
		}
		j++
	}
	if j < len(toks) {
		j++ // }
	}
	return j
}

func parseRequire(toks []Token, i int) (Import, int, bool) {
	if i+2 < len(toks) && toks[i+1].Text == "(" && toks[i+2].Type == TokenString {
		return Import{
			Module:  unquote(toks[i+2].Text),
			Require: true,
			Line:    toks[i].Line,
		}, i + 2, true
	}
	return Import{}, i, false
}

// parseReExport recognizes "export * from 'mod'" and
// "export { ... } from 'mod'", the barrel-file building blocks.
func parseReExport(toks []Token, i int) (Import, int, bool) {
	j := i + 1
	if j >= len(toks) {
		return Import{}, i, false
	}
	imp := Import{Line: toks[i].Line, ReExport: true}
	switch toks[j].Text {
	case "*":
		j++
		if j+1 < len(toks) && toks[j].Text == "as" {
			j += 2
		}
	case "{":
		j = parseNamed(toks, j, &imp)
	default:
		return Import{}, i, false
	}
	if j+1 < len(toks) && toks[j].Type == TokenIdent && toks[j].Text == "from" && toks[j+1].Type == TokenString {
		imp.Module = unquote(toks[j+1].Text)
		return imp, j + 1, true
	}
	return Import{}, i, false
}

func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}

// ModuleMatches reports whether an import source equals pkg or is a
// subpath of it ("lodash" matches "lodash" and "lodash/merge" but not
// "lodash-es").
func ModuleMatches(module, pkg string) bool {
	return module == pkg || strings.HasPrefix(module, pkg+"/")
}
