package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Text
	}
	return out
}

func TestLex_Basic(t *testing.T) {
	toks, err := Lex("const x = 42;")
	require.NoError(t, err)
	assert.Equal(t, []string{"const", "x", "=", "42", ";"}, texts(toks))

	assert.Equal(t, TokenIdent, toks[0].Type)
	assert.Equal(t, TokenIdent, toks[1].Type)
	assert.Equal(t, TokenPunct, toks[2].Type)
	assert.Equal(t, TokenNumber, toks[3].Type)

	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 1, toks[0].Col)
	assert.Equal(t, 7, toks[1].Col)
	assert.Equal(t, 11, toks[3].Col)
}

func TestLex_LineAndColAcrossLines(t *testing.T) {
	toks, err := Lex("let a;\nlet b;\n")
	require.NoError(t, err)
	require.Len(t, toks, 6)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[3].Line)
	assert.Equal(t, 1, toks[3].Col)
	assert.Equal(t, 5, toks[4].Col)
}

func TestLex_StringsKeepQuotes(t *testing.T) {
	toks, err := Lex(`const s = "hi"; const q = 'yo';`)
	require.NoError(t, err)
	var strs []string
	for _, tok := range toks {
		if tok.Type == TokenString {
			strs = append(strs, tok.Text)
		}
	}
	assert.Equal(t, []string{`"hi"`, `'yo'`}, strs)
}

func TestLex_StringEscapes(t *testing.T) {
	toks, err := Lex(`const s = "a\"b";`)
	require.NoError(t, err)
	require.Len(t, toks, 5)
	assert.Equal(t, `"a\"b"`, toks[3].Text)
}

func TestLex_TemplateIsOneToken(t *testing.T) {
	toks, err := Lex("const s = `a ${x + 1} b`;")
	require.NoError(t, err)
	var tmpl []Token
	for _, tok := range toks {
		if tok.Type == TokenTemplate {
			tmpl = append(tmpl, tok)
		}
	}
	require.Len(t, tmpl, 1)
	assert.Equal(t, "`a ${x + 1} b`", tmpl[0].Text)
}

func TestLex_NestedTemplateExpression(t *testing.T) {
	toks, err := Lex("const s = `outer ${ {a: 1}.a } end`;")
	require.NoError(t, err)
	var count int
	for _, tok := range toks {
		if tok.Type == TokenTemplate {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestLex_CommentsAreSkipped(t *testing.T) {
	toks, err := Lex("// leading\nlet a = 1; /* mid */ let b = 2;\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"let", "a", "=", "1", ";", "let", "b", "=", "2", ";"}, texts(toks))
	assert.Equal(t, 2, toks[0].Line)
}

func TestLex_RegexVersusDivision(t *testing.T) {
	toks, err := Lex("const re = /ab+c/gi;")
	require.NoError(t, err)
	var regex []Token
	for _, tok := range toks {
		if tok.Type == TokenRegex {
			regex = append(regex, tok)
		}
	}
	require.Len(t, regex, 1)
	assert.Equal(t, "/ab+c/gi", regex[0].Text)

	toks, err = Lex("const y = a / b / c;")
	require.NoError(t, err)
	for _, tok := range toks {
		assert.NotEqual(t, TokenRegex, tok.Type, "division must not lex as regex: %q", tok.Text)
	}
}

func TestLex_RegexAfterReturn(t *testing.T) {
	toks, err := Lex("function f(s) { return /\\d+/.test(s); }")
	require.NoError(t, err)
	found := false
	for _, tok := range toks {
		if tok.Type == TokenRegex {
			found = true
			assert.Equal(t, `/\d+/`, tok.Text)
		}
	}
	assert.True(t, found, "regex after return should lex as a regex literal")
}

func TestLex_CompoundPunct(t *testing.T) {
	toks, err := Lex("const f = (x) => ({ ...x, y: a?.b });")
	require.NoError(t, err)
	got := texts(toks)
	assert.Contains(t, got, "=>")
	assert.Contains(t, got, "...")
	assert.Contains(t, got, "?.")
}

func TestLex_DepthPairsBraces(t *testing.T) {
	toks, err := Lex("function f() { if (x) { y(); } }")
	require.NoError(t, err)

	var opens, closes []Token
	for _, tok := range toks {
		switch tok.Text {
		case "{":
			opens = append(opens, tok)
		case "}":
			closes = append(closes, tok)
		}
	}
	require.Len(t, opens, 2)
	require.Len(t, closes, 2)
	// Matching pairs share a depth; the inner pair sits one deeper.
	assert.Equal(t, 0, opens[0].Depth)
	assert.Equal(t, 0, closes[1].Depth)
	assert.Equal(t, 1, opens[1].Depth)
	assert.Equal(t, 1, closes[0].Depth)
}

func TestLex_ParenDepth(t *testing.T) {
	toks, err := Lex("f(g(h()))")
	require.NoError(t, err)
	var depths []int
	for _, tok := range toks {
		if tok.Text == "(" {
			depths = append(depths, tok.ParenDepth)
		}
	}
	assert.Equal(t, []int{0, 1, 2}, depths)
}

func TestLex_ShebangSkipped(t *testing.T) {
	toks, err := Lex("#!/usr/bin/env node\nlet x = 1;")
	require.NoError(t, err)
	require.NotEmpty(t, toks)
	assert.Equal(t, "let", toks[0].Text)
	assert.Equal(t, 2, toks[0].Line)
}

func TestLex_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"unterminated string", `const s = "oops`},
		{"string broken by newline", "const s = \"a\nb\";"},
		{"unterminated template", "const s = `never ends"},
		{"unterminated block comment", "let a = 1; /* dangling"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.src)
			assert.Error(t, err)
		})
	}
}

func TestLex_JSXTags(t *testing.T) {
	toks, err := Lex(`const el = <img src="/a.png" />;`)
	require.NoError(t, err)
	got := texts(toks)
	assert.Contains(t, got, "<")
	assert.Contains(t, got, "img")
	assert.Contains(t, got, "src")
}

func TestLex_NumberForms(t *testing.T) {
	toks, err := Lex("const a = 0x1f + 1_000 + 1e-3 + 10n;")
	require.NoError(t, err)
	var nums []string
	for _, tok := range toks {
		if tok.Type == TokenNumber {
			nums = append(nums, tok.Text)
		}
	}
	assert.Equal(t, []string{"0x1f", "1_000", "1e-3", "10n"}, nums)
}
