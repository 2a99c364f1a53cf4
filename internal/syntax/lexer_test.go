package syntax

import (
	"testing"

	"github.com/grindlemire/decorous/internal/diag"
)

func lexAll(l *Lexer) []Token {
	var toks []Token
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks
		}
	}
}

func checkTokens(t *testing.T, got, expected []Token) {
	t.Helper()
	if len(got) != len(expected) {
		t.Fatalf("got %d tokens %v, want %d", len(got), got, len(expected))
	}
	for i, tok := range got {
		want := expected[i]
		if tok.Type != want.Type {
			t.Errorf("token %d: Type = %v, want %v", i, tok.Type, want.Type)
		}
		if tok.Literal != want.Literal {
			t.Errorf("token %d: Literal = %q, want %q", i, tok.Literal, want.Literal)
		}
		if tok.Loc != want.Loc {
			t.Errorf("token %d: Loc = %v, want %v", i, tok.Loc, want.Loc)
		}
	}
}

func TestLexer_Markup(t *testing.T) {
	type tc struct {
		input    string
		expected []Token
	}

	tests := map[string]tc{
		"empty": {
			input:    "",
			expected: []Token{{Type: TokenEOF, Loc: diag.Loc(0, 0)}},
		},
		"text": {
			input: "hello",
			expected: []Token{
				{Type: TokenText, Literal: "hello", Loc: diag.Loc(0, 5)},
				{Type: TokenEOF, Loc: diag.Loc(5, 0)},
			},
		},
		"element": {
			input: "#div hi /div",
			expected: []Token{
				{Type: TokenElemBegin, Literal: "div", Loc: diag.Loc(0, 4)},
				{Type: TokenText, Literal: " hi ", Loc: diag.Loc(4, 4)},
				{Type: TokenElemEnd, Literal: "div", Loc: diag.Loc(8, 4)},
				{Type: TokenEOF, Loc: diag.Loc(12, 0)},
			},
		},
		"escapes": {
			input: `a \/ b \# c \{`,
			expected: []Token{
				{Type: TokenText, Literal: "a / b # c {", Loc: diag.Loc(0, 14)},
				{Type: TokenEOF, Loc: diag.Loc(14, 0)},
			},
		},
		"single dash is text": {
			input: "a-b",
			expected: []Token{
				{Type: TokenText, Literal: "a-b", Loc: diag.Loc(0, 3)},
				{Type: TokenEOF, Loc: diag.Loc(3, 0)},
			},
		},
		"nested mustache braces": {
			input: "{a + {b: 1}.b}",
			expected: []Token{
				{Type: TokenMustache, Literal: "a + {b: 1}.b", Loc: diag.Loc(0, 14)},
				{Type: TokenEOF, Loc: diag.Loc(14, 0)},
			},
		},
		"brace inside string": {
			input: `{"}"}`,
			expected: []Token{
				{Type: TokenMustache, Literal: `"}"`, Loc: diag.Loc(0, 5)},
				{Type: TokenEOF, Loc: diag.Loc(5, 0)},
			},
		},
		"block start": {
			input: "{#for",
			expected: []Token{
				{Type: TokenBlockStart, Literal: "for", Loc: diag.Loc(0, 5)},
				{Type: TokenEOF, Loc: diag.Loc(5, 0)},
			},
		},
		"extender and end": {
			input: "{:else}{/if }",
			expected: []Token{
				{Type: TokenBlockExtend, Literal: "else", Loc: diag.Loc(0, 7)},
				{Type: TokenBlockEnd, Literal: "if", Loc: diag.Loc(7, 6)},
				{Type: TokenEOF, Loc: diag.Loc(13, 0)},
			},
		},
		"comment": {
			input: "// hi there\nx",
			expected: []Token{
				{Type: TokenComment, Literal: "hi there", Loc: diag.Loc(0, 11)},
				{Type: TokenText, Literal: "\nx", Loc: diag.Loc(11, 2)},
				{Type: TokenEOF, Loc: diag.Loc(13, 0)},
			},
		},
		"fence": {
			input: "---js",
			expected: []Token{
				{Type: TokenFence, Literal: "---", Loc: diag.Loc(0, 3)},
				{Type: TokenText, Literal: "js", Loc: diag.Loc(3, 2)},
				{Type: TokenEOF, Loc: diag.Loc(5, 0)},
			},
		},
		"unclosed mustache": {
			input: "{a",
			expected: []Token{
				{Type: TokenIllegal, Literal: "{a", Loc: diag.Loc(0, 2)},
				{Type: TokenEOF, Loc: diag.Loc(2, 0)},
			},
		},
		"block end without brace": {
			input: "{/if x",
			expected: []Token{
				{Type: TokenIllegal, Literal: "{/if ", Loc: diag.Loc(0, 5)},
				{Type: TokenText, Literal: "x", Loc: diag.Loc(5, 1)},
				{Type: TokenEOF, Loc: diag.Loc(6, 0)},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			checkTokens(t, lexAll(NewLexer(tt.input)), tt.expected)
		})
	}
}

func TestLexer_Attrs(t *testing.T) {
	type tc struct {
		input    string
		expected []Token
	}

	tests := map[string]tc{
		"all attribute forms": {
			input: `class="green" id={x} @click={f} :value: ]`,
			expected: []Token{
				{Type: TokenIdent, Literal: "class", Loc: diag.Loc(0, 5)},
				{Type: TokenEquals, Literal: "=", Loc: diag.Loc(5, 1)},
				{Type: TokenString, Literal: "green", Loc: diag.Loc(6, 7)},
				{Type: TokenIdent, Literal: "id", Loc: diag.Loc(14, 2)},
				{Type: TokenEquals, Literal: "=", Loc: diag.Loc(16, 1)},
				{Type: TokenMustache, Literal: "x", Loc: diag.Loc(17, 3)},
				{Type: TokenAt, Literal: "@", Loc: diag.Loc(21, 1)},
				{Type: TokenIdent, Literal: "click", Loc: diag.Loc(22, 5)},
				{Type: TokenEquals, Literal: "=", Loc: diag.Loc(27, 1)},
				{Type: TokenMustache, Literal: "f", Loc: diag.Loc(28, 3)},
				{Type: TokenColon, Literal: ":", Loc: diag.Loc(32, 1)},
				{Type: TokenIdent, Literal: "value", Loc: diag.Loc(33, 5)},
				{Type: TokenColon, Literal: ":", Loc: diag.Loc(38, 1)},
				{Type: TokenRBracket, Literal: "]", Loc: diag.Loc(40, 1)},
				{Type: TokenEOF, Loc: diag.Loc(41, 0)},
			},
		},
		"for header": {
			input: "item, i in",
			expected: []Token{
				{Type: TokenIdent, Literal: "item", Loc: diag.Loc(0, 4)},
				{Type: TokenComma, Literal: ",", Loc: diag.Loc(4, 1)},
				{Type: TokenIdent, Literal: "i", Loc: diag.Loc(6, 1)},
				{Type: TokenIdent, Literal: "in", Loc: diag.Loc(8, 2)},
				{Type: TokenEOF, Loc: diag.Loc(10, 0)},
			},
		},
		"unterminated string": {
			input: `"abc`,
			expected: []Token{
				{Type: TokenIllegal, Literal: `"abc`, Loc: diag.Loc(0, 4)},
				{Type: TokenEOF, Loc: diag.Loc(4, 0)},
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			l := NewLexer(tt.input)
			l.SetAttrMode(true)
			checkTokens(t, lexAll(l), tt.expected)
		})
	}
}

func TestLexer_Peek(t *testing.T) {
	l := NewLexer("#p hi")
	peeked := l.Peek()
	next := l.Next()
	if peeked != next {
		t.Errorf("Peek() = %v, Next() = %v", peeked, next)
	}
	if l.Pos() != 2 {
		t.Errorf("Pos() = %d, want 2", l.Pos())
	}
}
