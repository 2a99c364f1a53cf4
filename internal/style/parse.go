package style

import (
	"errors"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"github.com/grindlemire/decorous/internal/script"
)

// Error is a CSS syntax error. Offset is relative to the component file.
type Error struct {
	Message string
	Offset  int
}

func (e *Error) Error() string {
	return e.Message
}

type token struct {
	tt   css.TokenType
	text string
	off  int // offset within the style block
}

// groupRules are at-rules whose block holds nested, scopable rules.
var groupRules = map[string]bool{
	"media":     true,
	"supports":  true,
	"container": true,
	"layer":     true,
	"document":  true,
	"scope":     true,
}

// frameRules hold nested rules whose selectors must not be scoped.
var frameRules = map[string]bool{
	"keyframes":         true,
	"-webkit-keyframes": true,
	"-moz-keyframes":    true,
}

// Parse parses a style block located at offset in the component file.
func Parse(src string, offset int) (*Sheet, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, &Error{Message: err.Error(), Offset: offset}
	}
	p := &parser{src: src, offset: offset, toks: toks}
	rules, err := p.parseRules(false)
	if err != nil {
		return nil, err
	}
	return &Sheet{Rules: rules}, nil
}

func lex(src string) ([]token, error) {
	l := css.NewLexer(parse.NewInputString(src))
	var toks []token
	off := 0
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, text: string(text), off: off})
		off += len(text)
	}
}

type parser struct {
	src    string
	offset int
	toks   []token
	pos    int
}

func (p *parser) eof() bool {
	return p.pos >= len(p.toks)
}

func (p *parser) peek() token {
	if p.eof() {
		return token{tt: css.ErrorToken, off: len(p.src)}
	}
	return p.toks[p.pos]
}

func (p *parser) errorf(off int, msg string) error {
	return &Error{Message: msg, Offset: p.offset + off}
}

func (p *parser) skipTrivia() {
	for !p.eof() {
		switch p.peek().tt {
		case css.WhitespaceToken, css.CommentToken, css.CDOToken, css.CDCToken:
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseRules(nested bool) ([]Rule, error) {
	var rules []Rule
	for {
		p.skipTrivia()
		tok := p.peek()
		switch {
		case p.eof():
			if nested {
				return nil, p.errorf(tok.off, "unclosed block, expected '}'")
			}
			return rules, nil
		case tok.tt == css.RightBraceToken:
			if !nested {
				return nil, p.errorf(tok.off, "unexpected '}'")
			}
			p.pos++
			return rules, nil
		case tok.tt == css.AtKeywordToken:
			r, err := p.parseAtRule()
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		default:
			r, err := p.parseRegularRule()
			if err != nil {
				return nil, err
			}
			rules = append(rules, r)
		}
	}
}

// prelude collects tokens up to a top-level '{' or ';'. The terminator is
// left unconsumed.
func (p *parser) prelude() []token {
	var out []token
	depth := 0
	for !p.eof() {
		tok := p.peek()
		switch tok.tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken, css.SemicolonToken:
			if depth == 0 {
				return out
			}
		case css.RightBraceToken:
			if depth == 0 {
				return out
			}
		}
		out = append(out, tok)
		p.pos++
	}
	return out
}

func (p *parser) parseAtRule() (*AtRule, error) {
	at := p.peek()
	p.pos++
	r := &AtRule{Name: strings.ToLower(at.text[1:]), Offset: p.offset + at.off}
	r.Prelude = joinTokens(p.prelude())

	tok := p.peek()
	switch {
	case tok.tt == css.SemicolonToken:
		p.pos++
		return r, nil
	case p.eof(), tok.tt == css.RightBraceToken:
		// a trailing statement at-rule may omit its semicolon
		return r, nil
	}

	p.pos++ // '{'
	r.Block = true
	var err error
	if groupRules[r.Name] || frameRules[r.Name] {
		r.Rules, err = p.parseRules(true)
	} else {
		r.Declarations, err = p.parseDeclarations()
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (p *parser) parseRegularRule() (*RegularRule, error) {
	start := p.peek()
	sel := p.prelude()
	if p.peek().tt != css.LeftBraceToken {
		return nil, p.errorf(p.peek().off, "expected '{' after selector")
	}
	p.pos++

	selectors, err := p.parseSelectors(sel)
	if err != nil {
		return nil, err
	}
	decls, err := p.parseDeclarations()
	if err != nil {
		return nil, err
	}
	return &RegularRule{Selectors: selectors, Declarations: decls, Offset: p.offset + start.off}, nil
}

func (p *parser) parseDeclarations() ([]Declaration, error) {
	var decls []Declaration
	for {
		p.skipTrivia()
		tok := p.peek()
		switch {
		case p.eof():
			return nil, p.errorf(tok.off, "unclosed block, expected '}'")
		case tok.tt == css.SemicolonToken:
			p.pos++
			continue
		case tok.tt == css.RightBraceToken:
			p.pos++
			return decls, nil
		case tok.tt != css.IdentToken && tok.tt != css.CustomPropertyNameToken:
			return nil, p.errorf(tok.off, "expected a property name")
		}
		p.pos++

		p.skipTrivia()
		if p.peek().tt != css.ColonToken {
			return nil, p.errorf(p.peek().off, "expected ':' after property name")
		}
		p.pos++

		values, err := p.parseValues()
		if err != nil {
			return nil, err
		}
		decls = append(decls, Declaration{Property: tok.text, Values: values})
	}
}

// parseValues reads a declaration value up to a top-level ';' or '}'.
func (p *parser) parseValues() ([]Value, error) {
	var values []Value
	var text strings.Builder
	flush := func() {
		if text.Len() > 0 {
			values = append(values, Value{Text: text.String()})
			text.Reset()
		}
	}

	p.skipTrivia()
	depth := 0
	for !p.eof() {
		tok := p.peek()
		switch tok.tt {
		case css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				flush()
				return trimValues(values), nil
			}
		case css.LeftParenthesisToken, css.FunctionToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken:
			m, err := p.parseMustache()
			if err != nil {
				return nil, err
			}
			flush()
			values = append(values, Value{Mustache: m})
			continue
		case css.WhitespaceToken:
			text.WriteByte(' ')
			p.pos++
			continue
		case css.CommentToken:
			p.pos++
			continue
		}
		text.WriteString(tok.text)
		p.pos++
	}
	return nil, p.errorf(len(p.src), "unclosed block, expected '}'")
}

// parseMustache consumes a balanced {expr} and parses its contents.
func (p *parser) parseMustache() (*Mustache, error) {
	open := p.peek()
	p.pos++
	depth := 1
	for !p.eof() {
		tok := p.peek()
		p.pos++
		switch tok.tt {
		case css.LeftBraceToken:
			depth++
		case css.RightBraceToken:
			depth--
			if depth == 0 {
				body := p.src[open.off+1 : tok.off]
				expr, err := script.ParseExpr(body, p.offset+open.off+1)
				if err != nil {
					return nil, err
				}
				return &Mustache{Expr: expr, ID: -1}, nil
			}
		}
	}
	return nil, p.errorf(open.off, "unclosed mustache, expected '}'")
}

func trimValues(values []Value) []Value {
	if len(values) == 0 {
		return values
	}
	if first := &values[0]; first.Mustache == nil {
		first.Text = strings.TrimLeft(first.Text, " ")
	}
	if last := &values[len(values)-1]; last.Mustache == nil {
		last.Text = strings.TrimRight(last.Text, " ")
	}
	out := values[:0]
	for _, v := range values {
		if v.Mustache != nil || v.Text != "" {
			out = append(out, v)
		}
	}
	return out
}

// joinTokens renders tokens with runs of whitespace collapsed.
func joinTokens(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		switch t.tt {
		case css.WhitespaceToken:
			b.WriteByte(' ')
		case css.CommentToken:
		default:
			b.WriteString(t.text)
		}
	}
	return strings.TrimSpace(b.String())
}
