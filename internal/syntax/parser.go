package syntax

import (
	"errors"
	"fmt"
	"strings"

	"github.com/grindlemire/decorous/internal/debug"
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/script"
	"github.com/grindlemire/decorous/internal/style"
)

// Parser parses a component file into an Ast.
//
// Most errors abort the parse. Mismatched closing tags and errors inside
// embedded JavaScript or CSS are collected instead, so several can be
// reported at once; the parse still fails at the end.
type Parser struct {
	source  *diag.Source
	lexer   *Lexer
	current Token
	errors  *ErrorList
	pre     Preprocessor
	ast     *Ast
}

// Option configures a Parser.
type Option func(*Parser)

// WithPreprocessor sets the preprocessor used for code blocks in languages
// other than js and css.
func WithPreprocessor(pre Preprocessor) Option {
	return func(p *Parser) {
		if pre != nil {
			p.pre = pre
		}
	}
}

// NewParser creates a new Parser for the given file.
func NewParser(filename, src string, opts ...Option) *Parser {
	p := &Parser{
		source: diag.NewSource(filename, src),
		lexer:  NewLexer(src),
		errors: NewErrorList(),
		pre:    NullPreprocessor{},
		ast:    &Ast{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses a component file. The returned error, if any, is an
// *ErrorList.
func Parse(filename, src string, opts ...Option) (*Ast, error) {
	return NewParser(filename, src, opts...).ParseFile()
}

// Errors returns the errors collected so far.
func (p *Parser) Errors() *ErrorList {
	return p.errors
}

// ParseFile parses the whole file.
func (p *Parser) ParseFile() (*Ast, error) {
	if err := p.parseFile(); err != nil {
		var perr *Error
		if !errors.As(err, &perr) {
			perr = p.newError(ErrExpected, p.current.Loc, err.Error())
		}
		p.errors.Add(perr)
	}
	if p.errors.HasErrors() {
		debug.Log("parse %s: %d error(s)", p.source.Name, p.errors.Len())
		return nil, p.errors
	}
	debug.Log("parse %s: %d root node(s)", p.source.Name, len(p.ast.Nodes))
	return p.ast, nil
}

func (p *Parser) parseFile() error {
	p.advance()
	for {
		switch p.current.Type {
		case TokenEOF:
			return nil
		case TokenFence:
			if err := p.parseCodeBlock(); err != nil {
				return err
			}
		default:
			nodes, err := p.parseNodes(func(tok Token) (bool, error) {
				return tok.Type == TokenFence || tok.Type == TokenEOF, nil
			})
			if err != nil {
				return err
			}
			p.ast.Nodes = append(p.ast.Nodes, nodes...)
		}
	}
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.current = p.lexer.Next()
}

// attrMode switches the lexer between attribute and markup mode.
func (p *Parser) attrMode(on bool) {
	p.lexer.SetAttrMode(on)
}

// expect advances and checks the new current token has the given type.
func (p *Parser) expect(typ TokenType, what string) (Token, error) {
	p.advance()
	if p.current.Type != typ {
		return p.current, p.expected(what)
	}
	return p.current, nil
}

func (p *Parser) newError(kind ErrorKind, loc diag.Location, msg string) *Error {
	return &Error{
		Kind:    kind,
		Pos:     p.source.Position(loc.Offset),
		Loc:     loc,
		Message: msg,
	}
}

func (p *Parser) expected(what string) *Error {
	return p.newError(ErrExpected, p.current.Loc, fmt.Sprintf("expected %s, got %s", what, p.current.Type))
}

// illegal reports an illegal token from the lexer.
func (p *Parser) illegal(tok Token) *Error {
	switch {
	case strings.HasPrefix(tok.Literal, "{/"), strings.HasPrefix(tok.Literal, "{:"):
		e := p.newError(ErrExpectedCharacter, tok.Loc, "invalid character, expected '}'")
		e.Name = "}"
		return e
	case strings.HasPrefix(tok.Literal, "{"):
		loc := diag.Loc(tok.Loc.Offset, 1)
		e := p.newError(ErrUnclosedMustache, loc, "unclosed mustache")
		e.Hint = fmt.Sprintf("mustache opened on line %d", p.source.Line(tok.Loc.Offset))
		return e
	case strings.HasPrefix(tok.Literal, "\""), strings.HasPrefix(tok.Literal, "'"):
		return p.newError(ErrExpectedCharacter, tok.Loc, "unterminated string")
	}
	return p.newError(ErrExpected, tok.Loc, fmt.Sprintf("unexpected character %q", tok.Literal))
}

// jsError records an error from embedded JavaScript or CSS.
func (p *Parser) jsError(err error) {
	var jerr *script.Error
	if errors.As(err, &jerr) {
		loc := diag.Loc(jerr.Offset, jerr.Length)
		e := p.newError(ErrJavaScript, loc, jerr.Error())
		e.Hint = "the error occurred here"
		p.errors.Add(e)
		return
	}
	var cerr *style.Error
	if errors.As(err, &cerr) {
		loc := diag.Loc(cerr.Offset, 1)
		p.errors.Add(p.newError(ErrCSSParsing, loc, "css parsing error: "+cerr.Message))
		return
	}
	p.errors.Add(p.newError(ErrJavaScript, p.current.Loc, err.Error()))
}

// parseExpr parses embedded JavaScript, recording any error. The returned
// expression is nil on error.
func (p *Parser) parseExpr(src string, offset int) *script.Expr {
	expr, err := script.ParseExpr(src, offset)
	if err != nil {
		p.jsError(err)
		return nil
	}
	return expr
}

// parseNodes parses nodes until stop reports true for the current token.
// The stopping token is left as current. Leading whitespace of the first
// text node and trailing whitespace of the last one are trimmed.
func (p *Parser) parseNodes(stop func(Token) (bool, error)) ([]Node, error) {
	var nodes []Node
	first := true
	for {
		done, err := stop(p.current)
		if err != nil {
			return nil, err
		}
		if done {
			break
		}

		node, err := p.parseNode()
		if err != nil {
			return nil, err
		}
		if t, ok := node.(*Text); ok && first {
			t.Value = strings.TrimPrefix(t.Value, " ")
			if strings.TrimSpace(t.Value) == "" {
				continue
			}
		}
		first = false
		nodes = append(nodes, node)
	}

	if n := len(nodes); n > 0 {
		if t, ok := nodes[n-1].(*Text); ok {
			if strings.TrimSpace(t.Value) == "" {
				nodes = nodes[:n-1]
			} else {
				t.Value = strings.TrimSuffix(t.Value, " ")
			}
		}
	}
	return nodes, nil
}

// parseNode parses the node starting at the current token and advances past
// it.
func (p *Parser) parseNode() (Node, error) {
	tok := p.current
	switch tok.Type {
	case TokenText:
		p.advance()
		return &Text{Value: tok.Literal, Location: tok.Loc}, nil

	case TokenComment:
		p.advance()
		return &Comment{Value: tok.Literal, Location: tok.Loc}, nil

	case TokenMustache:
		p.advance()
		expr := p.parseExpr(tok.Literal, tok.Loc.Offset+1)
		return &Mustache{Expr: expr, Location: tok.Loc}, nil

	case TokenElemBegin:
		return p.parseElement()

	case TokenBlockStart:
		return p.parseSpecialBlock()

	case TokenIllegal:
		return nil, p.illegal(tok)

	case TokenElemEnd:
		e := p.newError(ErrExpected, tok.Loc, fmt.Sprintf("unexpected closing tag /%s", tok.Literal))
		e.Name = tok.Literal
		e.Hint = `use \/ to write a literal slash`
		return nil, e
	}

	return nil, p.expected("the beginning of an element, a JavaScript expression or plain text")
}
