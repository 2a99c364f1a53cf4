package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/file"
	"github.com/dop251/goja/parser"
)

// Code is a parsed piece of script tied to the text it was parsed from.
type Code struct {
	Source string // text exactly as written in the component
	Offset int    // byte offset of Source within the component file

	root  ast.Node
	shift int // offset of Source[0] within the text handed to goja
}

// Root returns the goja syntax tree for this code.
func (c *Code) Root() ast.Node {
	return c.root
}

// local converts a goja index into a byte offset within Source.
func (c *Code) local(idx file.Idx) int {
	return int(idx) - 1 - c.shift
}

// span converts a goja node's extent into a Source-relative span.
func (c *Code) span(n ast.Node) Span {
	return Span{Start: c.local(n.Idx0()), End: c.local(n.Idx1())}
}

// Expr is a single embedded expression, such as a mustache or attribute value.
type Expr struct {
	Code
}

// Node returns the root expression.
func (e *Expr) Node() ast.Expression {
	return e.root.(ast.Expression)
}

// IsArrowFunction reports whether the whole expression is an arrow function.
func (e *Expr) IsArrowFunction() bool {
	_, ok := e.root.(*ast.ArrowFunctionLiteral)
	return ok
}

// ParseExpr parses src as a single expression located at offset in the
// component file.
func ParseExpr(src string, offset int) (*Expr, error) {
	if strings.TrimSpace(src) == "" {
		return nil, &Error{Message: "expected an expression", Offset: offset, Length: len(src)}
	}
	wrapped := "(" + src + "\n)"
	prog, err := parser.ParseFile(nil, "", wrapped, 0, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, convertError(err, wrapped, 1, offset, len(src))
	}
	if len(prog.Body) != 1 {
		return nil, &Error{Message: "expected a single expression", Offset: offset, Length: len(src)}
	}
	stmt, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		return nil, &Error{Message: "expected an expression", Offset: offset, Length: len(src)}
	}
	return &Expr{Code: Code{Source: src, Offset: offset, root: stmt.Expression, shift: 1}}, nil
}

// Error is a JavaScript syntax or evaluation error located in the component
// file.
type Error struct {
	Message string
	Offset  int
	Length  int
}

// Error implements the error interface.
func (e *Error) Error() string {
	return "JavaScript error: " + e.Message
}

// convertError maps a goja parse error onto component file offsets. shift is
// the number of wrapper bytes preceding the user text in parsed.
func convertError(err error, parsed string, shift, offset, length int) error {
	var list parser.ErrorList
	if !errors.As(err, &list) || len(list) == 0 {
		return &Error{Message: err.Error(), Offset: offset, Length: length}
	}
	first := list[0]
	pos := offsetOf(parsed, first.Position.Line, first.Position.Column) - shift
	if pos < 0 {
		pos = 0
	}
	if pos > length {
		pos = length
	}
	return &Error{Message: first.Message, Offset: offset + pos, Length: 1}
}

// offsetOf converts a 1-based line and byte column into a byte offset.
func offsetOf(text string, line, col int) int {
	off := 0
	for l := 1; l < line; l++ {
		i := strings.IndexByte(text[off:], '\n')
		if i < 0 {
			return len(text)
		}
		off += i + 1
	}
	off += col - 1
	if off > len(text) {
		return len(text)
	}
	return off
}

func (e *Expr) String() string {
	return fmt.Sprintf("Expr(%q@%d)", e.Source, e.Offset)
}
