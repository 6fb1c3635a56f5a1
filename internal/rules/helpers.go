package rules

import (
	"unicode"

	"github.com/codewithboateng/reactlift/internal/ir"
	"github.com/codewithboateng/reactlift/internal/source"
)

// spanAt builds a one-line match span anchored at a token.
func spanAt(u *source.Unit, tok source.Token, hint string) ir.Span {
	return ir.Span{
		Line:    tok.Line,
		Col:     tok.Col,
		Snippet: u.Snippet(tok.Line),
		Hint:    hint,
	}
}

func lineSpan(u *source.Unit, line int, hint string) ir.Span {
	return ir.Span{Line: line, Snippet: u.Snippet(line), Hint: hint}
}

// seqAt reports whether the token texts starting at i match exactly.
func seqAt(toks []source.Token, i int, texts ...string) bool {
	if i+len(texts) > len(toks) {
		return false
	}
	for k, want := range texts {
		if toks[i+k].Text != want {
			return false
		}
	}
	return true
}

// matchingBrace returns the index of the "}" paired with the "{" at
// open, or -1. Pairs share the same Depth value.
func matchingBrace(toks []source.Token, open int) int {
	d := toks[open].Depth
	for i := open + 1; i < len(toks); i++ {
		if toks[i].Text == "}" && toks[i].Depth == d {
			return i
		}
	}
	return -1
}

// matchingParen returns the index of the ")" paired with the "(" at
// open, or -1.
func matchingParen(toks []source.Token, open int) int {
	d := toks[open].ParenDepth
	for i := open + 1; i < len(toks); i++ {
		if toks[i].Text == ")" && toks[i].ParenDepth == d {
			return i
		}
	}
	return -1
}

// callbackBody locates the braced body of a callback passed to the
// call starting at callIdent ("useEffect", "addEventListener", ...).
// It accepts arrow and function expressions and returns the token
// range strictly inside the braces, or (-1, -1).
func callbackBody(toks []source.Token, callIdent int) (int, int) {
	limit := callIdent + 16
	if limit > len(toks) {
		limit = len(toks)
	}
	for i := callIdent + 1; i < limit; i++ {
		if toks[i].Text == "{" {
			if end := matchingBrace(toks, i); end != -1 {
				return i + 1, end
			}
			return -1, -1
		}
	}
	return -1, -1
}

// loopBody finds the braced body of the loop keyword at i ("for",
// "while"). Braceless single-statement loops are skipped.
func loopBody(toks []source.Token, i int) (int, int) {
	d := toks[i].Depth
	limit := i + 120
	if limit > len(toks) {
		limit = len(toks)
	}
	for j := i + 1; j < limit; j++ {
		if toks[j].Text == "{" && toks[j].Depth == d {
			if end := matchingBrace(toks, j); end != -1 {
				return j + 1, end
			}
			return -1, -1
		}
		// A ";" back at the loop's own depth ends a braceless body.
		if toks[j].Text == ";" && toks[j].Depth == d && toks[j].ParenDepth == toks[i].ParenDepth {
			return -1, -1
		}
	}
	return -1, -1
}

// isComponentName reports the React component naming convention.
func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}

// isSetterName matches the useState setter convention ("setValue").
func isSetterName(name string) bool {
	return len(name) > 3 && name[:3] == "set" && unicode.IsUpper(rune(name[3]))
}

// stateBindings extracts the value/setter ident pairs declared via
// "const [value, setValue] = useState(...)".
func stateBindings(toks []source.Token) map[string]string {
	out := make(map[string]string)
	for i := 0; i+6 < len(toks); i++ {
		if toks[i].Text != "[" || toks[i+1].Type != source.TokenIdent {
			continue
		}
		if !seqAt(toks, i+2, ",") || toks[i+3].Type != source.TokenIdent {
			continue
		}
		if !seqAt(toks, i+4, "]", "=") {
			continue
		}
		j := i + 6
		if toks[j].Text == "React" && j+2 < len(toks) && toks[j+1].Text == "." {
			j += 2
		}
		if toks[j].Text == "useState" {
			out[toks[i+3].Text] = toks[i+1].Text // setter -> value
		}
	}
	return out
}
