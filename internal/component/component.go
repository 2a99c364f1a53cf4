package component

import (
	"fmt"

	"github.com/grindlemire/decorous/internal/debug"
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/script"
	"github.com/grindlemire/decorous/internal/style"
	"github.com/grindlemire/decorous/internal/syntax"
)

// ToplevelNode is a script statement that runs once per component instance.
// SubstituteAssignRefs is set for declarations and reactive blocks, whose
// assignments must go through the update scheduler.
type ToplevelNode struct {
	Stmt                 *script.Statement
	SubstituteAssignRefs bool
}

// CSSMustache is a CSS mustache and its custom property index.
type CSSMustache struct {
	Expr  *script.Expr
	Index uint32
}

// Component is the elaborated model of one component file.
type Component struct {
	tree     []*Node
	vars     *DeclaredVariables
	toplevel []ToplevelNode
	hoist    []*script.Statement
	reactive []*script.Statement

	css        *style.Sheet
	cssPrefix  string
	scopeClass string
	styled     []uint32

	foreign *syntax.CodeBlock
	static  *syntax.CodeBlock
	uses    map[uint32]string

	report *diag.Report
}

// New builds a Component from a parsed file. It cannot fail on input the
// parser accepted; inconsistencies are internal errors and panic.
func New(ast *syntax.Ast) *Component {
	c := &Component{
		vars:    NewDeclaredVariables(),
		css:     ast.Style,
		foreign: ast.Foreign,
		static:  ast.Static,
		uses:    make(map[uint32]string),
		report:  diag.NewReport(),
	}
	if ast.Script != nil {
		c.extractToplevel(ast.Script)
	}

	b := &fragmentBuilder{vars: c.vars}
	c.tree = b.build(ast.Nodes, nil, nil, nil)
	c.checkTree()

	debug.Log("component: %d root node(s), %d toplevel statement(s), %d hoisted",
		len(c.tree), len(c.toplevel), len(c.hoist))
	return c
}

// extractToplevel sorts script statements into declarations, hoisted
// imports, reactive blocks and everything else.
func (c *Component) extractToplevel(prog *script.Program) {
	for _, stmt := range prog.Statements {
		if stmt.IsImport() {
			c.hoist = append(c.hoist, stmt)
			continue
		}

		if names := script.DeclaredNames(stmt.Node()); len(names) > 0 {
			for _, name := range names {
				c.vars.InsertVar(name)
			}
			c.toplevel = append(c.toplevel, ToplevelNode{Stmt: stmt, SubstituteAssignRefs: true})
			continue
		}

		if script.IsReactiveLabel(stmt.Node()) {
			c.vars.InsertReactiveBlock(stmt)
			c.reactive = append(c.reactive, stmt)
			c.toplevel = append(c.toplevel, ToplevelNode{Stmt: stmt, SubstituteAssignRefs: true})
			continue
		}

		c.toplevel = append(c.toplevel, ToplevelNode{Stmt: stmt})
	}
}

// checkTree verifies the parent links and id order of the fragment tree.
func (c *Component) checkTree() {
	next := uint32(0)
	var check func(nodes []*Node, parent *uint32)
	check = func(nodes []*Node, parent *uint32) {
		for _, n := range nodes {
			if n.Meta.ID != next {
				panic(fmt.Sprintf("internal error: node id %d out of order, expected %d", n.Meta.ID, next))
			}
			next++
			switch {
			case parent == nil && n.Meta.ParentID != nil:
				panic(fmt.Sprintf("internal error: root node %d has a parent", n.Meta.ID))
			case parent != nil && (n.Meta.ParentID == nil || *n.Meta.ParentID != *parent):
				panic(fmt.Sprintf("internal error: node %d is not linked to its parent %d", n.Meta.ID, *parent))
			}
			check(n.Children, &n.Meta.ID)
			check(n.Else, &n.Meta.ID)
		}
	}
	check(c.tree, nil)
}

// FragmentTree returns the root nodes in order.
func (c *Component) FragmentTree() []*Node {
	return c.tree
}

// DeclaredVars returns the slot table.
func (c *Component) DeclaredVars() *DeclaredVariables {
	return c.vars
}

// ToplevelNodes returns the statements of the per-instance initializer.
func (c *Component) ToplevelNodes() []ToplevelNode {
	return c.toplevel
}

// Hoist returns the statements emitted once, outside any instance.
func (c *Component) Hoist() []*script.Statement {
	return c.hoist
}

// ReactiveBlocks returns the $: statements in source order.
func (c *Component) ReactiveBlocks() []*script.Statement {
	return c.reactive
}

// CSS returns the style sheet, or nil.
func (c *Component) CSS() *style.Sheet {
	return c.css
}

// CSSMustaches returns the CSS mustaches ordered by index.
func (c *Component) CSSMustaches() []CSSMustache {
	if c.css == nil {
		return nil
	}
	var out []CSSMustache
	for _, m := range c.css.Mustaches() {
		if idx, ok := c.vars.CSSMustache(m.Expr); ok {
			out = append(out, CSSMustache{Expr: m.Expr, Index: idx})
		}
	}
	return out
}

// ScopeClass returns the class added to scoped elements, or "" when the
// component has no style sheet.
func (c *Component) ScopeClass() string {
	return c.scopeClass
}

// StyledElements returns the ids of the elements that carry the scope class.
func (c *Component) StyledElements() []uint32 {
	return c.styled
}

// CodeBlock returns the foreign code block, or nil.
func (c *Component) CodeBlock() *syntax.CodeBlock {
	return c.foreign
}

// StaticBlock returns the compile-time block, or nil.
func (c *Component) StaticBlock() *syntax.CodeBlock {
	return c.static
}

// Uses returns the resolved specifier of every {#use} node, keyed by id.
func (c *Component) Uses() map[uint32]string {
	return c.uses
}

// Diagnostics returns the warnings and errors reported by passes.
func (c *Component) Diagnostics() *diag.Report {
	return c.report
}

// Descendants returns every node of the fragment tree in id order.
func (c *Component) Descendants() []*Node {
	var out []*Node
	Walk(c.tree, func(n *Node) bool {
		out = append(out, n)
		return true
	})
	return out
}

// removeToplevel deletes the entry for stmt and reports whether it existed.
func (c *Component) removeToplevel(stmt *script.Statement) bool {
	for i, t := range c.toplevel {
		if t.Stmt == stmt {
			c.toplevel = append(c.toplevel[:i], c.toplevel[i+1:]...)
			return true
		}
	}
	return false
}
