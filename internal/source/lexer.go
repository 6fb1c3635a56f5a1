package source

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type TokenType string

const (
	TokenIdent    TokenType = "IDENT"
	TokenNumber   TokenType = "NUMBER"
	TokenString   TokenType = "STRING"
	TokenTemplate TokenType = "TEMPLATE"
	TokenRegex    TokenType = "REGEX"
	TokenPunct    TokenType = "PUNCT"
)

// Token is one lexical element of a source unit. Depth is the brace
// nesting level: a matching {} pair shares the same Depth, tokens
// between them carry Depth+1. ParenDepth works the same way for ().
type Token struct {
	Type       TokenType
	Text       string
	Line       int
	Col        int
	Depth      int
	ParenDepth int
}

// lexer walks the raw text by byte offset so ambiguous constructs
// (regex vs division) can re-scan without buffering tricks.
type lexer struct {
	src    string
	pos    int
	line   int
	col    int
	depth  int
	parens int
	toks   []Token
	last   Token // last emitted token, for regex disambiguation
}

// Lex tokenizes JavaScript/TypeScript/JSX text. Comments and
// whitespace are consumed; string and template bodies are kept raw.
// An unterminated string, template or block comment fails the whole
// lex, which callers treat as a degraded (plain-text only) unit.
func Lex(src string) ([]Token, error) {
	lx := &lexer{src: src, line: 1, col: 1}
	if strings.HasPrefix(src, "#!") {
		lx.skipLine()
	}
	for lx.pos < len(lx.src) {
		if err := lx.step(); err != nil {
			return nil, err
		}
	}
	return lx.toks, nil
}

func (l *lexer) step() error {
	ch := l.src[l.pos]
	switch {
	case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
		l.advance(1)
	case ch == '/' && l.peekAt(1) == '/':
		l.skipLine()
	case ch == '/' && l.peekAt(1) == '*':
		return l.skipBlockComment()
	case ch == '/' && l.regexAllowed():
		return l.scanRegex()
	case isIdentStart(rune(ch)) || ch >= utf8.RuneSelf:
		l.scanIdent()
	case ch >= '0' && ch <= '9':
		l.scanNumber()
	case ch == '"' || ch == '\'':
		return l.scanString(ch)
	case ch == '`':
		return l.scanTemplate()
	default:
		l.scanPunct()
	}
	return nil
}

// regexAllowed reports whether a '/' at the current position starts a
// regex literal rather than division, judged from the previous token.
func (l *lexer) regexAllowed() bool {
	switch l.last.Type {
	case "":
		return true
	case TokenIdent:
		switch l.last.Text {
		case "return", "typeof", "case", "in", "of", "instanceof", "delete", "void", "do", "else", "yield", "await", "new":
			return true
		}
		return false
	case TokenNumber, TokenString, TokenTemplate, TokenRegex:
		return false
	case TokenPunct:
		switch l.last.Text {
		case ")", "]", "}", "<":
			// "<" guards JSX closing tags, which are not regexes.
			return false
		}
		return true
	}
	return false
}

func (l *lexer) scanRegex() error {
	start, line, col := l.pos, l.line, l.col
	i := l.pos + 1
	inClass := false
	for i < len(l.src) {
		c := l.src[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == '\n' {
			break
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			i++
			for i < len(l.src) && isIdentPart(rune(l.src[i])) {
				i++
			}
			l.emitAt(TokenRegex, l.src[start:i], line, col)
			l.advance(i - l.pos)
			return nil
		}
		i++
	}
	// No terminator on this line: it was division after all.
	l.scanPunct()
	return nil
}

func (l *lexer) scanIdent() {
	start, line, col := l.pos, l.line, l.col
	for l.pos < len(l.src) {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) && r < utf8.RuneSelf {
			break
		}
		l.advanceRune(r, size)
	}
	l.emitAt(TokenIdent, l.src[start:l.pos], line, col)
}

func (l *lexer) scanNumber() {
	start, line, col := l.pos, l.line, l.col
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		ok := c >= '0' && c <= '9' ||
			c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F' ||
			c == 'x' || c == 'X' || c == 'o' || c == 'O' ||
			c == '.' || c == '_' || c == 'n'
		if !ok {
			// Exponent sign is only part of the number right after e/E.
			if (c == '+' || c == '-') && l.pos > start {
				prev := l.src[l.pos-1]
				if prev == 'e' || prev == 'E' {
					ok = true
				}
			}
		}
		if !ok {
			break
		}
		l.advance(1)
	}
	l.emitAt(TokenNumber, l.src[start:l.pos], line, col)
}

func (l *lexer) scanString(quote byte) error {
	start, line, col := l.pos, l.line, l.col
	i := l.pos + 1
	for i < len(l.src) {
		c := l.src[i]
		if c == '\\' {
			i += 2
			continue
		}
		if c == quote {
			l.emitAt(TokenString, l.src[start:i+1], line, col)
			l.advance(i + 1 - l.pos)
			return nil
		}
		if c == '\n' {
			return fmt.Errorf("line %d: unterminated string literal", line)
		}
		i++
	}
	return fmt.Errorf("line %d: unterminated string literal", line)
}

// scanTemplate consumes a template literal including ${} expressions,
// emitting it as a single token. Nested templates inside expressions
// are tracked by brace counting.
func (l *lexer) scanTemplate() error {
	start, line, col := l.pos, l.line, l.col
	i := l.pos + 1
	exprDepth := 0
	for i < len(l.src) {
		c := l.src[i]
		switch {
		case c == '\\':
			i += 2
			continue
		case exprDepth == 0 && c == '`':
			l.emitAt(TokenTemplate, l.src[start:i+1], line, col)
			l.advance(i + 1 - l.pos)
			return nil
		case exprDepth == 0 && c == '$' && i+1 < len(l.src) && l.src[i+1] == '{':
			exprDepth++
			i++
		case exprDepth > 0 && c == '{':
			exprDepth++
		case exprDepth > 0 && c == '}':
			exprDepth--
		}
		i++
	}
	return fmt.Errorf("line %d: unterminated template literal", line)
}

func (l *lexer) scanPunct() {
	line, col := l.line, l.col
	text := string(l.src[l.pos])
	if l.src[l.pos] == '=' && l.peekAt(1) == '>' {
		text = "=>"
	} else if l.src[l.pos] == '.' && l.peekAt(1) == '.' && l.peekAt(2) == '.' {
		text = "..."
	} else if l.src[l.pos] == '?' && l.peekAt(1) == '.' {
		text = "?."
	}

	switch text {
	case "{":
		l.emitDepths(TokenPunct, text, line, col, l.depth, l.parens)
		l.depth++
	case "}":
		if l.depth > 0 {
			l.depth--
		}
		l.emitDepths(TokenPunct, text, line, col, l.depth, l.parens)
	case "(":
		l.emitDepths(TokenPunct, text, line, col, l.depth, l.parens)
		l.parens++
	case ")":
		if l.parens > 0 {
			l.parens--
		}
		l.emitDepths(TokenPunct, text, line, col, l.depth, l.parens)
	default:
		l.emitAt(TokenPunct, text, line, col)
	}
	l.advance(len(text))
}

func (l *lexer) skipLine() {
	for l.pos < len(l.src) && l.src[l.pos] != '\n' {
		l.advance(1)
	}
}

func (l *lexer) skipBlockComment() error {
	line := l.line
	l.advance(2)
	for l.pos < len(l.src) {
		if l.src[l.pos] == '*' && l.peekAt(1) == '/' {
			l.advance(2)
			return nil
		}
		l.advance(1)
	}
	return fmt.Errorf("line %d: unterminated block comment", line)
}

func (l *lexer) emitAt(t TokenType, text string, line, col int) {
	l.emitDepths(t, text, line, col, l.depth, l.parens)
}

func (l *lexer) emitDepths(t TokenType, text string, line, col, depth, parens int) {
	tok := Token{Type: t, Text: text, Line: line, Col: col, Depth: depth, ParenDepth: parens}
	l.toks = append(l.toks, tok)
	l.last = tok
}

func (l *lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *lexer) advance(n int) {
	for i := 0; i < n && l.pos < len(l.src); i++ {
		if l.src[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

func (l *lexer) advanceRune(r rune, size int) {
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos += size
}

func isIdentStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_' || r == '$' || r == '#'
}

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}
