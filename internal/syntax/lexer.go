package syntax

import (
	"strings"

	"github.com/grindlemire/decorous/internal/diag"
)

// Lexer tokenizes component source. It has two modes: markup mode for
// template content and attribute mode for the insides of attribute lists and
// special block headers.
type Lexer struct {
	src   string
	pos   int  // current position in src
	attrs bool // attribute mode
}

// NewLexer creates a new Lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// SetAttrMode switches between markup mode and attribute mode.
func (l *Lexer) SetAttrMode(on bool) {
	l.attrs = on
}

// Pos returns the byte offset of the next unread character.
func (l *Lexer) Pos() int {
	return l.pos
}

// Next returns the next token from the source.
func (l *Lexer) Next() Token {
	if l.attrs {
		return l.nextAttr()
	}
	return l.nextMarkup()
}

// Peek returns the next token without consuming it.
func (l *Lexer) Peek() Token {
	saved := *l
	tok := l.Next()
	*l = saved
	return tok
}

// peekByte returns the next unread byte, or 0 at the end of input.
func (l *Lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.src[l.pos:], s)
}

func (l *Lexer) token(typ TokenType, literal string, start int) Token {
	return Token{Type: typ, Literal: literal, Loc: diag.Loc(start, l.pos-start)}
}

func (l *Lexer) readWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.src) && pred(l.src[l.pos]) {
		l.pos++
	}
	return l.src[start:l.pos]
}

func (l *Lexer) nextMarkup() Token {
	if l.pos >= len(l.src) {
		return l.token(TokenEOF, "", l.pos)
	}

	start := l.pos
	switch l.src[l.pos] {
	case '#':
		l.pos++
		return l.token(TokenElemBegin, l.readWhile(isTagChar), start)

	case '/':
		if l.hasPrefix("//") {
			end := strings.IndexByte(l.src[l.pos:], '\n')
			if end < 0 {
				end = len(l.src) - l.pos
			}
			l.pos += end
			return l.token(TokenComment, strings.TrimSpace(l.src[start+2:l.pos]), start)
		}
		l.pos++
		return l.token(TokenElemEnd, l.readWhile(isTagChar), start)

	case '{':
		return l.readBrace()

	case '-':
		if l.hasPrefix("---") {
			l.pos += 3
			return l.token(TokenFence, "---", start)
		}
	}

	return l.readText(false)
}

// readBrace lexes a special block token or a mustache.
func (l *Lexer) readBrace() Token {
	start := l.pos
	switch {
	case l.hasPrefix("{#"):
		l.pos += 2
		return l.token(TokenBlockStart, l.readWhile(isTagChar), start)

	case l.hasPrefix("{/"), l.hasPrefix("{:"):
		typ := TokenBlockEnd
		if l.src[l.pos+1] == ':' {
			typ = TokenBlockExtend
		}
		l.pos += 2
		name := l.readWhile(isTagChar)
		l.readWhile(isSpace)
		if l.peekByte() != '}' {
			return l.token(TokenIllegal, l.src[start:l.pos], start)
		}
		l.pos++
		return l.token(typ, name, start)
	}

	l.pos++
	body, ok := l.readBalanced()
	if !ok {
		return l.token(TokenIllegal, l.src[start:l.pos], start)
	}
	return l.token(TokenMustache, body, start)
}

// readBalanced reads up to the '}' that closes an already consumed '{',
// skipping nested braces and string literals. The closing brace is consumed
// but not returned. On failure the lexer is left at the end of input.
func (l *Lexer) readBalanced() (string, bool) {
	start := l.pos
	depth := 1
	for l.pos < len(l.src) {
		switch c := l.src[l.pos]; c {
		case '"', '\'', '`':
			l.skipString(c)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				body := l.src[start:l.pos]
				l.pos++
				return body, true
			}
		}
		l.pos++
	}
	return "", false
}

func (l *Lexer) skipString(quote byte) {
	l.pos++
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		switch {
		case c == '\\':
			l.pos += 2
			continue
		case c == quote:
			l.pos++
			return
		case c == '\n' && quote != '`':
			return
		}
		l.pos++
	}
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
}

// readText reads plain text up to the next markup construct, resolving
// backslash escapes. Inline text also stops at the end of the line.
func (l *Lexer) readText(inline bool) Token {
	start := l.pos
	var sb strings.Builder
	for l.pos < len(l.src) {
		c := l.src[l.pos]
		if c == '\\' && l.pos+1 < len(l.src) {
			sb.WriteByte(l.src[l.pos+1])
			l.pos += 2
			continue
		}
		if c == '{' || c == '#' || c == '/' || (c == '-' && l.hasPrefix("---")) {
			break
		}
		if inline && c == '\n' {
			break
		}
		sb.WriteByte(c)
		l.pos++
	}
	return l.token(TokenText, sb.String(), start)
}

func (l *Lexer) nextAttr() Token {
	l.readWhile(isSpace)
	if l.pos >= len(l.src) {
		return l.token(TokenEOF, "", l.pos)
	}

	start := l.pos
	c := l.src[l.pos]
	switch c {
	case '"', '\'':
		l.pos++
		for l.pos < len(l.src) && l.src[l.pos] != c {
			if l.src[l.pos] == '\\' {
				l.pos++
			}
			l.pos++
		}
		if l.pos >= len(l.src) {
			l.pos = len(l.src)
			return l.token(TokenIllegal, l.src[start:], start)
		}
		l.pos++
		return l.token(TokenString, l.src[start+1:l.pos-1], start)
	case '{':
		l.pos++
		body, ok := l.readBalanced()
		if !ok {
			return l.token(TokenIllegal, l.src[start:l.pos], start)
		}
		return l.token(TokenMustache, body, start)
	}

	if isIdentChar(c) {
		return l.token(TokenIdent, l.readWhile(isIdentChar), start)
	}

	l.pos++
	lit := l.src[start:l.pos]
	switch c {
	case '=':
		return l.token(TokenEquals, lit, start)
	case ':':
		return l.token(TokenColon, lit, start)
	case '@':
		return l.token(TokenAt, lit, start)
	case ',':
		return l.token(TokenComma, lit, start)
	case ']':
		return l.token(TokenRBracket, lit, start)
	case '}':
		return l.token(TokenRBrace, lit, start)
	}
	return l.token(TokenIllegal, lit, start)
}

// readUntil reads raw text up to and including delim, returning the text
// before it and its offset.
func (l *Lexer) readUntil(delim string) (string, int, bool) {
	start := l.pos
	idx := strings.Index(l.src[l.pos:], delim)
	if idx < 0 {
		l.pos = len(l.src)
		return l.src[start:], start, false
	}
	l.pos += idx + len(delim)
	return l.src[start : start+idx], start, true
}

func isTagChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == '$' || c == '.'
}

func isLangChar(c byte) bool {
	return isAlnum(c) || c == '-' || c == '_' || c == '+'
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
