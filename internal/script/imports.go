package script

import (
	"errors"
	"io"
	"strconv"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/js"
)

// importSpan is the location of one import declaration inside a script block.
type importSpan struct {
	start, end int
	specifier  string
	names      []string
}

type jsToken struct {
	tt     js.TokenType
	text   string
	start  int
	end    int
	lineBr bool // a line terminator preceded this token
}

// tokenStream yields significant tokens of a script, skipping whitespace and
// comments and deciding between division and regular expression literals.
type tokenStream struct {
	lexer  *js.Lexer
	offset int
	prev   js.TokenType
	src    string
}

func newTokenStream(src string) *tokenStream {
	return &tokenStream{lexer: js.NewLexer(parse.NewInputString(src)), src: src, prev: js.ErrorToken}
}

// next returns the next significant token. ok is false at end of input.
func (ts *tokenStream) next() (tok jsToken, ok bool, err error) {
	lineBr := false
	for {
		tt, data := ts.lexer.Next()
		start := ts.offset
		switch tt {
		case js.ErrorToken:
			if lexErr := ts.lexer.Err(); lexErr != nil && !isEOF(lexErr) {
				return jsToken{}, false, &Error{Message: lexErr.Error(), Offset: start, Length: 1}
			}
			return jsToken{}, false, nil
		case js.WhitespaceToken, js.CommentToken:
			ts.offset += len(data)
			continue
		case js.LineTerminatorToken, js.CommentLineTerminatorToken:
			ts.offset += len(data)
			lineBr = true
			continue
		case js.DivToken, js.DivEqToken:
			if !endsOperand(ts.prev) {
				tt, data = ts.lexer.RegExp()
				if tt == js.ErrorToken {
					return jsToken{}, false, &Error{Message: "unterminated regular expression", Offset: start, Length: 1}
				}
			}
		}
		ts.offset += len(data)
		ts.prev = tt
		return jsToken{tt: tt, text: string(data), start: start, end: ts.offset, lineBr: lineBr}, true, nil
	}
}

func isEOF(err error) bool {
	return errors.Is(err, io.EOF)
}

// endsOperand reports whether a "/" following a token of type tt is a
// division operator rather than the start of a regular expression.
func endsOperand(tt js.TokenType) bool {
	switch tt {
	case js.CloseParenToken, js.CloseBracketToken, js.CloseBraceToken,
		js.StringToken, js.RegExpToken, js.TemplateToken, js.TemplateEndToken,
		js.ThisToken, js.SuperToken, js.TrueToken, js.FalseToken, js.NullToken,
		js.PrivateIdentifierToken, js.IncrToken, js.DecrToken:
		return true
	}
	return js.IsNumeric(tt) || js.IsIdentifier(tt)
}

// scanImports finds top-level import declarations in src.
func scanImports(src string) ([]importSpan, error) {
	ts := newTokenStream(src)
	var (
		imports  []importSpan
		depth    int
		stmtHead = true
	)

	for {
		tok, ok, err := ts.next()
		if err != nil {
			return nil, err
		}
		if !ok {
			return imports, nil
		}

		if tok.lineBr && depth == 0 {
			stmtHead = true
		}

		switch tok.tt {
		case js.OpenBraceToken, js.OpenParenToken, js.OpenBracketToken, js.TemplateStartToken:
			depth++
			stmtHead = false
			continue
		case js.CloseBraceToken, js.CloseParenToken, js.CloseBracketToken, js.TemplateEndToken:
			depth--
			stmtHead = depth == 0 && tok.tt == js.CloseBraceToken
			continue
		case js.SemicolonToken:
			stmtHead = depth == 0
			continue
		case js.ImportToken:
			if depth == 0 && stmtHead {
				imp, isDecl, err := parseImport(ts, src, tok)
				if err != nil {
					return nil, err
				}
				if isDecl {
					imports = append(imports, imp)
					stmtHead = true
					continue
				}
			}
		}
		stmtHead = false
	}
}

// parseImport reads the remainder of an import declaration whose "import"
// keyword is tok. isDecl is false for dynamic import() and import.meta.
func parseImport(ts *tokenStream, src string, tok jsToken) (imp importSpan, isDecl bool, err error) {
	imp.start = tok.start
	inBraces := false
	var pending string // name awaiting a possible "as" alias
	sawAs := false

	for {
		t, ok, err := ts.next()
		if err != nil {
			return imp, false, err
		}
		if !ok {
			return imp, false, &Error{Message: "unterminated import declaration", Offset: tok.start, Length: tok.end - tok.start}
		}

		switch {
		case t.tt == js.OpenParenToken || t.tt == js.DotToken:
			if pending == "" && len(imp.names) == 0 && !inBraces {
				return imp, false, nil
			}
			return imp, false, &Error{Message: "unexpected token in import declaration", Offset: t.start, Length: t.end - t.start}
		case t.tt == js.StringToken && !inBraces:
			if pending != "" {
				imp.names = append(imp.names, pending)
			}
			spec, uerr := strconv.Unquote(normalizeQuotes(t.text))
			if uerr != nil {
				spec = t.text[1 : len(t.text)-1]
			}
			imp.specifier = spec
			imp.end = t.end
			imp.end = consumeSemicolon(src, imp.end)
			return imp, true, nil
		case t.tt == js.OpenBraceToken:
			inBraces = true
		case t.tt == js.CloseBraceToken:
			if pending != "" {
				imp.names = append(imp.names, pending)
				pending = ""
			}
			inBraces = false
		case t.tt == js.CommaToken:
			if pending != "" {
				imp.names = append(imp.names, pending)
				pending = ""
			}
		case t.tt == js.MulToken:
			pending = ""
		case t.tt == js.AsToken && !sawAs:
			sawAs = true
			continue
		case t.tt == js.FromToken && !inBraces:
			if pending != "" {
				imp.names = append(imp.names, pending)
				pending = ""
			}
		case js.IsIdentifierName(t.tt) || t.tt == js.StringToken:
			// After "as" the alias replaces the imported name.
			pending = t.text
		}
		sawAs = false
	}
}

// consumeSemicolon extends an import's end over an optional semicolon on the
// same line.
func consumeSemicolon(src string, end int) int {
	i := end
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	if i < len(src) && src[i] == ';' {
		return i + 1
	}
	return end
}

func normalizeQuotes(s string) string {
	if len(s) >= 2 && s[0] == '\'' {
		inner := s[1 : len(s)-1]
		return strconv.Quote(inner)
	}
	return s
}
