package syntax

import (
	"fmt"

	"github.com/grindlemire/decorous/internal/diag"
)

// parseElement parses #tag[attrs] children /tag or #tag[attrs]:text.
func (p *Parser) parseElement() (Node, error) {
	open := p.current
	if open.Literal == "" {
		e := p.newError(ErrExpected, open.Loc, "expected an element name")
		e.Hint = `use \# to write a literal #`
		return nil, e
	}

	elem := &Element{Tag: open.Literal}
	if p.lexer.peekByte() == '[' {
		attrs, err := p.parseAttrs()
		if err != nil {
			return nil, err
		}
		elem.Attrs = attrs
	}

	if p.lexer.peekByte() == ':' {
		p.lexer.pos++
		text := p.lexer.readText(true)
		text.Literal = trimRight(text.Literal)
		elem.Inline = true
		if text.Literal != "" {
			elem.Children = []Node{&Text{Value: text.Literal, Location: text.Loc}}
		}
		elem.Location = diag.Loc(open.Loc.Offset, p.lexer.Pos()-open.Loc.Offset)
		p.advance()
		return elem, nil
	}

	p.advance()
	children, err := p.parseNodes(func(tok Token) (bool, error) {
		switch tok.Type {
		case TokenEOF, TokenFence:
			return false, p.unclosed(open.Loc, elem.Tag, "tag")
		case TokenElemEnd:
			return true, nil
		}
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	elem.Children = children

	closing := p.current
	if closing.Literal != elem.Tag {
		p.errors.Add(p.invalidClosing(closing.Loc, elem.Tag))
	}
	elem.Location = diag.Loc(open.Loc.Offset, closing.Loc.End()-open.Loc.Offset)
	p.advance()
	return elem, nil
}

// unclosed reports a construct opened at loc that never closes. The error
// sits where the parser gave up; the hint points back at the opening.
func (p *Parser) unclosed(loc diag.Location, name, what string) *Error {
	e := p.newError(ErrUnclosedTag, p.current.Loc, fmt.Sprintf("unclosed %s: %s", what, name))
	e.Name = name
	e.Hint = fmt.Sprintf("%s opened on line %d", name, p.source.Line(loc.Offset))
	e.HintLoc = &loc
	return e
}

func (p *Parser) invalidClosing(loc diag.Location, expected string) *Error {
	e := p.newError(ErrInvalidClosingTag, loc, fmt.Sprintf("invalid closing tag, expected %s", expected))
	e.Name = expected
	return e
}

// parseAttrs parses [attr ...]. The lexer is positioned on the '['; on return
// it is positioned just past the ']' in markup mode.
func (p *Parser) parseAttrs() ([]Attribute, error) {
	open := diag.Loc(p.lexer.Pos(), 1)
	p.lexer.pos++
	p.attrMode(true)
	defer p.attrMode(false)

	var attrs []Attribute
	for {
		p.advance()
		tok := p.current
		switch tok.Type {
		case TokenRBracket:
			return attrs, nil

		case TokenEOF:
			e := p.newError(ErrUnclosedAttrs, open, "unclosed attribute list")
			e.Hint = "expected a right bracket"
			return nil, e

		case TokenComma:
			continue

		case TokenAt:
			name, err := p.expect(TokenIdent, "an event name")
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokenEquals, "an equals sign"); err != nil {
				return nil, err
			}
			val, err := p.expect(TokenMustache, "a JavaScript expression")
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, &EventHandler{
				Event:    name.Literal,
				Expr:     p.parseExpr(val.Literal, val.Loc.Offset+1),
				Location: diag.Loc(tok.Loc.Offset, val.Loc.End()-tok.Loc.Offset),
			})

		case TokenColon:
			name, err := p.expect(TokenIdent, "a binding name")
			if err != nil {
				return nil, err
			}
			end, err := p.expect(TokenColon, "a colon")
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, &Binding{
				Name:     name.Literal,
				Location: diag.Loc(tok.Loc.Offset, end.Loc.End()-tok.Loc.Offset),
			})

		case TokenIdent:
			kv, err := p.parseKeyValue(tok)
			if err != nil {
				return nil, err
			}
			attrs = append(attrs, kv)

		case TokenIllegal:
			return nil, p.illegal(tok)

		default:
			return nil, p.expected("an attribute")
		}
	}
}

func (p *Parser) parseKeyValue(key Token) (*KeyValue, error) {
	kv := &KeyValue{Key: key.Literal, Location: key.Loc}
	if p.lexer.Peek().Type != TokenEquals {
		return kv, nil
	}
	p.advance()

	p.advance()
	val := p.current
	switch val.Type {
	case TokenString:
		kv.Literal = val.Literal
		kv.HasLiteral = true
	case TokenMustache:
		kv.Expr = p.parseExpr(val.Literal, val.Loc.Offset+1)
	case TokenIllegal:
		return nil, p.illegal(val)
	default:
		return nil, p.expected("quoted text or a JavaScript expression")
	}
	kv.Location = diag.Loc(key.Loc.Offset, val.Loc.End()-key.Loc.Offset)
	return kv, nil
}

func trimRight(s string) string {
	end := len(s)
	for end > 0 && isSpace(s[end-1]) {
		end--
	}
	return s[:end]
}
