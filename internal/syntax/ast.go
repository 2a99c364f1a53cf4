package syntax

import (
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/script"
	"github.com/grindlemire/decorous/internal/style"
)

// Ast is a parsed component file.
type Ast struct {
	Nodes  []Node
	Script *script.Program // nil when there is no js block
	Style  *style.Sheet    // nil when there is no css block

	// Foreign is a code block in a language the compiler does not handle
	// itself, kept verbatim for external tooling.
	Foreign *CodeBlock

	// Static is a block evaluated at compile time.
	Static *CodeBlock
}

// Node is a template node.
type Node interface {
	node()
	Loc() diag.Location
}

// Element is #tag[attrs] children /tag.
type Element struct {
	Tag      string
	Attrs    []Attribute
	Children []Node
	Inline   bool // written as #tag:text
	Location diag.Location
}

// Text is literal text with escapes resolved.
type Text struct {
	Value    string
	Location diag.Location
}

// Comment is a // comment.
type Comment struct {
	Value    string
	Location diag.Location
}

// Mustache is an interpolated {expression}.
type Mustache struct {
	Expr     *script.Expr
	Location diag.Location
}

// IfBlock is {#if expr} ... {:else} ... {/if}.
type IfBlock struct {
	Expr     *script.Expr
	Then     []Node
	Else     []Node
	HasElse  bool
	Location diag.Location
}

// ForBlock is {#for binding[, index] in expr} ... {/for}.
type ForBlock struct {
	Binding  string
	Index    string // empty when no index is bound
	Expr     *script.Expr
	Body     []Node
	Location diag.Location
}

// UseBlock is {#use "path"}.
type UseBlock struct {
	Path     string
	Location diag.Location
}

func (*Element) node()  {}
func (*Text) node()     {}
func (*Comment) node()  {}
func (*Mustache) node() {}
func (*IfBlock) node()  {}
func (*ForBlock) node() {}
func (*UseBlock) node() {}

func (n *Element) Loc() diag.Location  { return n.Location }
func (n *Text) Loc() diag.Location     { return n.Location }
func (n *Comment) Loc() diag.Location  { return n.Location }
func (n *Mustache) Loc() diag.Location { return n.Location }
func (n *IfBlock) Loc() diag.Location  { return n.Location }
func (n *ForBlock) Loc() diag.Location { return n.Location }
func (n *UseBlock) Loc() diag.Location { return n.Location }

// Attribute is an element attribute.
type Attribute interface {
	attribute()
	Loc() diag.Location
}

// KeyValue is name, name="literal" or name={expr}. At most one of Literal
// and Expr is meaningful: Expr when non-nil, Literal when HasLiteral.
type KeyValue struct {
	Key        string
	Literal    string
	HasLiteral bool
	Expr       *script.Expr
	Location   diag.Location
}

// EventHandler is @event={expr}.
type EventHandler struct {
	Event    string
	Expr     *script.Expr
	Location diag.Location
}

// Binding is a two-way binding :name:.
type Binding struct {
	Name     string
	Location diag.Location
}

func (*KeyValue) attribute()     {}
func (*EventHandler) attribute() {}
func (*Binding) attribute()      {}

func (a *KeyValue) Loc() diag.Location     { return a.Location }
func (a *EventHandler) Loc() diag.Location { return a.Location }
func (a *Binding) Loc() diag.Location      { return a.Location }

// IsBare reports whether the attribute has no value at all.
func (a *KeyValue) IsBare() bool {
	return a.Expr == nil && !a.HasLiteral
}

// CodeBlock is a fenced ---lang block kept as source.
type CodeBlock struct {
	Lang     string
	Body     string
	Offset   int // offset of Body in the file
	Location diag.Location
}

// Walk calls fn for every node in pre-order. Returning false from fn skips
// the node's children.
func Walk(nodes []Node, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		switch n := n.(type) {
		case *Element:
			Walk(n.Children, fn)
		case *IfBlock:
			Walk(n.Then, fn)
			Walk(n.Else, fn)
		case *ForBlock:
			Walk(n.Body, fn)
		}
	}
}
