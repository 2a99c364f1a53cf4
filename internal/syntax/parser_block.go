package syntax

import (
	"fmt"
	"strings"

	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/script"
	"github.com/grindlemire/decorous/internal/style"
)

// parseSpecialBlock parses {#if}, {#for} and {#use} blocks.
func (p *Parser) parseSpecialBlock() (Node, error) {
	open := p.current
	switch open.Literal {
	case "if":
		return p.parseIf(open)
	case "for":
		return p.parseFor(open)
	case "use":
		return p.parseUse(open)
	}
	e := p.newError(ErrInvalidSpecialBlockType, open.Loc, fmt.Sprintf("invalid special block type: %s", open.Literal))
	e.Name = open.Literal
	e.Hint = "expected a for block, an if block or a use block"
	return nil, e
}

// blockExpr reads the expression of a block header up to its closing brace.
func (p *Parser) blockExpr(open Token) (*script.Expr, error) {
	start := p.lexer.Pos()
	body, ok := p.lexer.readBalanced()
	if !ok {
		e := p.newError(ErrExpectedCharacter, open.Loc, "invalid character, expected '}'")
		e.Name = "}"
		e.Hint = "the block header is never closed"
		return nil, e
	}
	return p.parseExpr(body, start), nil
}

// blockBody parses nodes up to the end or extender of the block opened by
// open. The end or extender token is left as current.
func (p *Parser) blockBody(open Token) ([]Node, error) {
	return p.parseNodes(func(tok Token) (bool, error) {
		switch tok.Type {
		case TokenEOF, TokenFence:
			return false, p.unclosed(open.Loc, open.Literal, "block")
		case TokenBlockEnd, TokenBlockExtend:
			return true, nil
		}
		return false, nil
	})
}

// closeBlock checks the current block end token and advances past it.
func (p *Parser) closeBlock(open Token) diag.Location {
	end := p.current
	if end.Type == TokenBlockEnd && end.Literal != open.Literal {
		p.errors.Add(p.invalidClosing(end.Loc, open.Literal))
	}
	p.advance()
	return diag.Loc(open.Loc.Offset, end.Loc.End()-open.Loc.Offset)
}

func (p *Parser) invalidExtender(tok Token, expected string) *Error {
	e := p.newError(ErrInvalidExtender, tok.Loc, fmt.Sprintf("invalid special block extender, expected %s", expected))
	e.Name = expected
	return e
}

func (p *Parser) parseIf(open Token) (Node, error) {
	expr, err := p.blockExpr(open)
	if err != nil {
		return nil, err
	}
	block := &IfBlock{Expr: expr}

	p.advance()
	if block.Then, err = p.blockBody(open); err != nil {
		return nil, err
	}

	if p.current.Type == TokenBlockExtend {
		if p.current.Literal != "else" {
			return nil, p.invalidExtender(p.current, "else")
		}
		block.HasElse = true
		p.advance()
		if block.Else, err = p.blockBody(open); err != nil {
			return nil, err
		}
		if p.current.Type == TokenBlockExtend {
			return nil, p.invalidExtender(p.current, "/if")
		}
	}

	block.Location = p.closeBlock(open)
	return block, nil
}

func (p *Parser) parseFor(open Token) (Node, error) {
	block := &ForBlock{}

	p.attrMode(true)
	binding, err := p.expect(TokenIdent, "a binding name")
	if err != nil {
		p.attrMode(false)
		return nil, err
	}
	block.Binding = binding.Literal

	p.advance()
	if p.current.Type == TokenComma {
		index, err := p.expect(TokenIdent, "an index name")
		if err != nil {
			p.attrMode(false)
			return nil, err
		}
		block.Index = index.Literal
		p.advance()
	}
	if p.current.Type != TokenIdent || p.current.Literal != "in" {
		p.attrMode(false)
		return nil, p.expected("the in keyword")
	}
	p.attrMode(false)

	if block.Expr, err = p.blockExpr(open); err != nil {
		return nil, err
	}

	p.advance()
	if block.Body, err = p.blockBody(open); err != nil {
		return nil, err
	}
	if p.current.Type == TokenBlockExtend {
		return nil, p.invalidExtender(p.current, "/for")
	}

	block.Location = p.closeBlock(open)
	return block, nil
}

func (p *Parser) parseUse(open Token) (Node, error) {
	p.attrMode(true)
	path, err := p.expect(TokenString, "a quoted path")
	if err != nil {
		p.attrMode(false)
		return nil, err
	}
	end, err := p.expect(TokenRBrace, "a right brace")
	p.attrMode(false)
	if err != nil {
		return nil, err
	}
	p.advance()
	return &UseBlock{
		Path:     path.Literal,
		Location: diag.Loc(open.Loc.Offset, end.Loc.End()-open.Loc.Offset),
	}, nil
}

// parseCodeBlock parses ---lang[:static] body ---. The current token is the
// opening fence.
func (p *Parser) parseCodeBlock() error {
	open := p.current
	lang := p.lexer.readWhile(isLangChar)
	if lang == "" {
		return p.newError(ErrExpected, diag.Loc(open.Loc.End(), 0), "expected the language of the code block")
	}

	static := false
	if p.lexer.peekByte() == ':' {
		p.lexer.pos++
		start := p.lexer.Pos()
		word := p.lexer.readWhile(isLangChar)
		if word != "static" {
			e := p.newError(ErrExpectedStatic, diag.Loc(start, len(word)), "expected the static keyword")
			e.Note = "the static keyword evaluates the code block at compile time"
			return e
		}
		static = true
	}

	body, offset, ok := p.lexer.readUntil("---")
	if !ok {
		return p.unclosedFence(open)
	}
	block := &CodeBlock{
		Lang:     strings.ToLower(lang),
		Body:     body,
		Offset:   offset,
		Location: diag.Loc(open.Loc.Offset, p.lexer.Pos()-open.Loc.Offset),
	}
	p.advance()

	if static {
		if p.ast.Static != nil {
			p.errors.Add(p.newError(ErrCannotHaveTwoStatics, block.Location, "cannot have more than one static block"))
			return nil
		}
		p.ast.Static = block
		return nil
	}
	p.codeBlock(block)
	return nil
}

func (p *Parser) unclosedFence(open Token) *Error {
	loc := diag.Loc(len(p.source.Text), 0)
	e := p.newError(ErrUnclosedCodeBlock, loc, "unclosed code block")
	e.Hint = fmt.Sprintf("code block opened on line %d", p.source.Line(open.Loc.Offset))
	e.HintLoc = &open.Loc
	return e
}

// codeBlock routes a code block by language.
func (p *Parser) codeBlock(block *CodeBlock) {
	switch block.Lang {
	case "js", "javascript":
		p.setScript(block.Body, block)
		return
	case "css":
		p.setStyle(block.Body, block)
		return
	}

	ov, err := p.pre.Preprocess(block.Lang, block.Body)
	if err != nil {
		e := p.newError(ErrPreprocessor, block.Location, fmt.Sprintf("preprocessor error: %v", err))
		p.errors.Add(e)
		return
	}
	switch ov.Kind {
	case OverrideJS:
		p.setScript(ov.Body, block)
	case OverrideCSS:
		p.setStyle(ov.Body, block)
	default:
		if p.ast.Foreign != nil {
			p.errors.Add(p.newError(ErrCannotHaveTwoWasmBlocks, block.Location, "cannot have more than one WebAssembly block"))
			return
		}
		p.ast.Foreign = block
	}
}

func (p *Parser) setScript(src string, block *CodeBlock) {
	if p.ast.Script != nil {
		p.errors.Add(p.newError(ErrCannotHaveTwoScripts, block.Location, "cannot have more than one script block"))
		return
	}
	prog, err := script.ParseProgram(src, block.Offset)
	if err != nil {
		p.jsError(err)
		return
	}
	p.ast.Script = prog
}

func (p *Parser) setStyle(src string, block *CodeBlock) {
	if p.ast.Style != nil {
		p.errors.Add(p.newError(ErrCannotHaveTwoStyles, block.Location, "cannot have more than one style block"))
		return
	}
	sheet, err := style.Parse(src, block.Offset)
	if err != nil {
		p.jsError(err)
		return
	}
	p.ast.Style = sheet
}
