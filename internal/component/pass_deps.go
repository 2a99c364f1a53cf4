package component

import (
	"context"
	"fmt"

	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/script"
	"github.com/grindlemire/decorous/internal/syntax"
)

// DepAnalysisPass removes declarations nothing uses and hoists the ones
// nothing mutates, so only state that can change occupies a reactive slot.
// It also warns about references that resolve to nothing.
type DepAnalysisPass struct {
	WarnUnbound bool
}

func (*DepAnalysisPass) Name() string { return "deps" }

// Run implements Pass.
func (p *DepAnalysisPass) Run(_ context.Context, c *Component) error {
	a := &depAnalysis{
		c:      c,
		graph:  NewDepGraph(c.toplevel),
		known:  c.knownNames(),
		warn:   p.WarnUnbound,
		warned: make(map[string]bool),
	}

	for _, n := range c.Descendants() {
		a.node(n)
	}
	for _, m := range c.CSSMustaches() {
		a.code(&m.Expr.Code, nil, true)
	}
	for _, t := range c.toplevel {
		_, isDecl := a.graph.Lookup(firstName(t.Stmt))
		a.code(&t.Stmt.Code, nil, !isDecl)
	}

	for _, d := range a.graph.Unused() {
		for _, name := range d.Names {
			c.vars.RemoveVar(name)
		}
		if !c.removeToplevel(d.Stmt) {
			panic(fmt.Sprintf("internal error: declaration of %v missing from toplevel", d.Names))
		}
	}
	for _, d := range a.graph.Unmutated() {
		for _, name := range d.Names {
			c.vars.RemoveVar(name)
		}
		if c.removeToplevel(d.Stmt) {
			c.hoist = append(c.hoist, d.Stmt)
		}
	}
	return nil
}

type depAnalysis struct {
	c      *Component
	graph  *DepGraph
	known  map[string]bool
	warn   bool
	warned map[string]bool
}

func (a *depAnalysis) node(n *Node) {
	scope := n.Meta.Scope
	switch data := n.Data.(type) {
	case *syntax.Element:
		for _, attr := range data.Attrs {
			switch attr := attr.(type) {
			case *syntax.Binding:
				a.graph.MarkUsed(attr.Name)
				a.graph.MarkMutated(attr.Name)
				a.checkBound(attr.Name, attr.Location.Offset, scope)
			case *syntax.EventHandler:
				a.expr(attr.Expr, scope)
			case *syntax.KeyValue:
				a.expr(attr.Expr, scope)
			}
		}
	case *syntax.IfBlock:
		a.expr(data.Expr, scope)
	case *syntax.ForBlock:
		a.expr(data.Expr, scope)
	case *syntax.Mustache:
		a.expr(data.Expr, scope)
	}
}

func (a *depAnalysis) expr(e *script.Expr, scope *uint32) {
	if e == nil {
		return
	}
	a.code(&e.Code, scope, true)
}

// code records the references of one piece of script. Names bound by the
// enclosing loop scope are not top-level references.
func (a *depAnalysis) code(code *script.Code, scope *uint32, uses bool) {
	for _, ref := range code.UnboundRefs() {
		if scope != nil && a.c.vars.IsScopeVar(ref.Name, *scope) {
			continue
		}
		if uses {
			a.graph.MarkUsed(ref.Name)
		}
		if ref.AssignTarget {
			a.graph.MarkMutated(ref.Name)
		}
		a.checkBound(ref.Name, code.Offset+ref.Offset, scope)
	}
}

func (a *depAnalysis) checkBound(name string, offset int, scope *uint32) {
	if !a.warn || a.known[name] || a.warned[name] || IsGlobal(name) {
		return
	}
	if scope != nil && a.c.vars.IsScopeVar(name, *scope) {
		return
	}
	a.warned[name] = true
	a.c.report.Add(diag.Warningf(offset, "possibly unbound variable: %s", name))
}

// knownNames returns every name bound at the top level of the script.
func (c *Component) knownNames() map[string]bool {
	known := make(map[string]bool)
	for _, stmt := range c.hoist {
		for _, name := range stmt.BoundNames() {
			known[name] = true
		}
	}
	for _, t := range c.toplevel {
		for _, name := range t.Stmt.BoundNames() {
			known[name] = true
		}
	}
	// $: name = ... introduces name.
	for _, stmt := range c.reactive {
		for _, ref := range stmt.UnboundRefs() {
			if ref.AssignTarget {
				known[ref.Name] = true
			}
		}
	}
	return known
}

func firstName(stmt *script.Statement) string {
	if stmt.IsImport() {
		return ""
	}
	if names := script.DeclaredNames(stmt.Node()); len(names) > 0 {
		return names[0]
	}
	return ""
}
