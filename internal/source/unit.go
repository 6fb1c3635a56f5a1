package source

import (
	"path"
	"strings"
)

// Unit is one source file prepared for matching. Path is
// forward-slash separated and relative to the scan root. When Parsed
// is false the lexer gave up and only Text/Lines are usable; token
// driven detectors must return no matches for such units.
type Unit struct {
	Path    string
	Text    string
	Lines   []string
	Tokens  []Token
	Imports []Import
	Parsed  bool

	HasUseClient   bool
	HasUseServer   bool
	InAppDir       bool
	InPagesDir     bool
	IsRouteHandler bool
	IsAPIRoute     bool
}

// NewUnit lexes text into a matchable unit. Lex failures degrade the
// unit instead of failing: tokens and imports stay empty.
func NewUnit(relPath, text string) *Unit {
	u := &Unit{
		Path: relPath,
		Text: text,
	}
	u.Lines = splitLines(text)

	toks, err := Lex(text)
	if err == nil {
		u.Parsed = true
		u.Tokens = toks
		u.Imports = extractImports(toks)
		u.scanDirectives()
	}
	u.classifyPath()
	return u
}

// scanDirectives looks for "use client"/"use server" in the directive
// prologue (leading string statements).
func (u *Unit) scanDirectives() {
	for i := 0; i < len(u.Tokens); i++ {
		t := u.Tokens[i]
		if t.Type == TokenString {
			switch unquote(t.Text) {
			case "use client":
				u.HasUseClient = true
			case "use server":
				u.HasUseServer = true
			}
			continue
		}
		if t.Type == TokenPunct && t.Text == ";" {
			continue
		}
		return
	}
}

func (u *Unit) classifyPath() {
	segs := strings.Split(u.Path, "/")
	base := segs[len(segs)-1]
	stem := strings.TrimSuffix(base, path.Ext(base))
	for i, s := range segs[:len(segs)-1] {
		switch s {
		case "app":
			u.InAppDir = true
		case "pages":
			u.InPagesDir = true
			for _, rest := range segs[i+1 : len(segs)-1] {
				if rest == "api" {
					u.IsAPIRoute = true
				}
			}
		}
	}
	if u.InAppDir && stem == "route" {
		u.IsRouteHandler = true
	}
	if u.IsAPIRoute {
		u.IsRouteHandler = true
	}
}

// Line returns the 1-based source line, or "" out of range.
func (u *Unit) Line(n int) string {
	if n < 1 || n > len(u.Lines) {
		return ""
	}
	return u.Lines[n-1]
}

// Snippet returns the trimmed source line capped for report output.
func (u *Unit) Snippet(n int) string {
	s := strings.TrimSpace(u.Line(n))
	if len(s) > 160 {
		s = s[:157] + "..."
	}
	return s
}

func (u *Unit) HasImport(pkg string) bool {
	_, ok := u.FindImport(pkg)
	return ok
}

// FindImport returns the first import whose module is pkg or a
// subpath of pkg.
func (u *Unit) FindImport(pkg string) (*Import, bool) {
	for i := range u.Imports {
		if ModuleMatches(u.Imports[i].Module, pkg) {
			return &u.Imports[i], true
		}
	}
	return nil, false
}

// UsesReact reports whether the unit plausibly contains React
// component code.
func (u *Unit) UsesReact() bool {
	if u.HasImport("react") || u.HasImport("next") {
		return true
	}
	ext := path.Ext(u.Path)
	return ext == ".jsx" || ext == ".tsx"
}

// IsServerContext reports whether the unit runs on the server by
// default: app-router modules without "use client", route handlers
// and pages/api handlers.
func (u *Unit) IsServerContext() bool {
	if u.HasUseClient {
		return false
	}
	return u.InAppDir || u.IsRouteHandler
}

func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
