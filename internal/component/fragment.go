package component

import (
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/syntax"
)

// FragmentMetadata identifies a node of the fragment tree.
type FragmentMetadata struct {
	ID       uint32
	ParentID *uint32 // nil for roots
	Location diag.Location

	// Scope is the id of the innermost for block whose body contains the
	// node, if any.
	Scope *uint32
}

// Node is an elaborated template node. Data is the parsed node; its own
// child lists are superseded by Children and Else.
type Node struct {
	Meta     FragmentMetadata
	Data     syntax.Node
	Children []*Node // element children, if-block then branch, for-block body
	Else     []*Node // if-block else branch
}

// Element returns the node as an element, or nil.
func (n *Node) Element() *syntax.Element {
	e, _ := n.Data.(*syntax.Element)
	return e
}

// Walk visits nodes in pre-order, which is also id order. Returning false
// from fn skips the node's children.
func Walk(nodes []*Node, fn func(*Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		Walk(n.Children, fn)
		Walk(n.Else, fn)
	}
}

// fragmentBuilder assigns ids in pre-order.
type fragmentBuilder struct {
	vars      *DeclaredVariables
	currentID uint32
}

func (b *fragmentBuilder) build(nodes []syntax.Node, parent *uint32, scope *uint32, env map[string]uint32) []*Node {
	out := make([]*Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, b.node(n, parent, scope, env))
	}
	return out
}

func (b *fragmentBuilder) node(n syntax.Node, parent *uint32, scope *uint32, env map[string]uint32) *Node {
	id := b.currentID
	b.currentID++
	node := &Node{
		Meta: FragmentMetadata{ID: id, ParentID: parent, Location: n.Loc(), Scope: scope},
		Data: n,
	}
	pid := id
	self := &pid

	switch n := n.(type) {
	case *syntax.Element:
		for _, attr := range n.Attrs {
			switch attr := attr.(type) {
			case *syntax.EventHandler:
				if attr.Expr != nil && attr.Expr.IsArrowFunction() {
					b.vars.InsertArrowExpr(attr.Expr, scope)
				}
			case *syntax.Binding:
				b.vars.InsertBinding(attr.Name)
			}
		}
		node.Children = b.build(n.Children, self, scope, env)

	case *syntax.IfBlock:
		node.Children = b.build(n.Then, self, scope, env)
		node.Else = b.build(n.Else, self, scope, env)

	case *syntax.ForBlock:
		inner := make(map[string]uint32, len(env)+2)
		for k, v := range env {
			inner[k] = v
		}
		inner[n.Binding] = b.vars.generateID()
		if n.Index != "" {
			inner[n.Index] = b.vars.generateID()
		}
		b.vars.InsertScope(id, inner)
		node.Children = b.build(n.Body, self, self, inner)
	}
	return node
}
