package syntax

import (
	"fmt"

	"github.com/grindlemire/decorous/internal/diag"
)

// TokenType identifies the kind of a token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIllegal

	// Markup mode
	TokenText        // plain text, escapes removed
	TokenElemBegin   // #tag
	TokenElemEnd     // /tag
	TokenBlockStart  // {#name
	TokenBlockEnd    // {/name}
	TokenBlockExtend // {:name}
	TokenMustache    // {expr}
	TokenComment     // // comment
	TokenFence       // ---

	// Attribute mode
	TokenIdent
	TokenString // "literal"
	TokenEquals
	TokenColon
	TokenAt
	TokenComma
	TokenRBracket
	TokenRBrace
)

var tokenNames = map[TokenType]string{
	TokenEOF:         "the end of the file",
	TokenIllegal:     "an invalid token",
	TokenText:        "plain text",
	TokenElemBegin:   "the beginning of an element",
	TokenElemEnd:     "a closing tag",
	TokenBlockStart:  "the beginning of a special block",
	TokenBlockEnd:    "the end of a special block",
	TokenBlockExtend: "a special block extender",
	TokenMustache:    "a JavaScript expression",
	TokenComment:     "a comment",
	TokenFence:       "a code block",
	TokenIdent:       "an identifier",
	TokenString:      "quoted text",
	TokenEquals:      "an equals sign",
	TokenColon:       "a colon",
	TokenAt:          "an at sign",
	TokenComma:       "a comma",
	TokenRBracket:    "a right bracket",
	TokenRBrace:      "a right brace",
}

// String returns a human readable description of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical token. Literal holds the meaningful part of the token:
// the tag name for element tokens, the block name for block tokens and the
// contents for mustaches, strings and text.
type Token struct {
	Type    TokenType
	Literal string
	Loc     diag.Location
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Type, t.Literal, t.Loc)
}
