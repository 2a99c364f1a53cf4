package decorous

import (
	"strings"

	"github.com/grindlemire/decorous/internal/component"
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/rewrite"
	"github.com/grindlemire/decorous/internal/script"
	"github.com/grindlemire/decorous/internal/style"
	"github.com/grindlemire/decorous/internal/syntax"
)

// Summary is a serializable view of a compiled component, with every
// expression already rewritten for the context array.
type Summary struct {
	File        string        `json:"file" yaml:"file"`
	ContextLen  uint32        `json:"context_len" yaml:"context_len"`
	Vars        []Slot        `json:"vars,omitempty" yaml:"vars,omitempty"`
	Bindings    []Slot        `json:"bindings,omitempty" yaml:"bindings,omitempty"`
	Closures    []Closure     `json:"closures,omitempty" yaml:"closures,omitempty"`
	Scopes      []Scope       `json:"scopes,omitempty" yaml:"scopes,omitempty"`
	Hoist       []string      `json:"hoist,omitempty" yaml:"hoist,omitempty"`
	Toplevel    []string      `json:"toplevel,omitempty" yaml:"toplevel,omitempty"`
	Reactive    []Reactive    `json:"reactive,omitempty" yaml:"reactive,omitempty"`
	Nodes       []NodeSummary `json:"nodes,omitempty" yaml:"nodes,omitempty"`
	ScopeClass  string        `json:"scope_class,omitempty" yaml:"scope_class,omitempty"`
	CSS         string        `json:"css,omitempty" yaml:"css,omitempty"`
	CSSVars     []Expression  `json:"css_vars,omitempty" yaml:"css_vars,omitempty"`
	Foreign     string        `json:"foreign,omitempty" yaml:"foreign,omitempty"`
	Uses        []Use         `json:"uses,omitempty" yaml:"uses,omitempty"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Runtime     string        `json:"runtime" yaml:"runtime"`
}

// Slot is a named context slot.
type Slot struct {
	Name  string `json:"name" yaml:"name"`
	Index uint32 `json:"index" yaml:"index"`
}

// Closure is an event handler promoted to a context slot.
type Closure struct {
	Index uint32  `json:"index" yaml:"index"`
	Scope *uint32 `json:"scope,omitempty" yaml:"scope,omitempty"`
	Code  string  `json:"code" yaml:"code"`
}

// Scope lists the names a for block binds.
type Scope struct {
	ID    uint32 `json:"id" yaml:"id"`
	Slots []Slot `json:"slots" yaml:"slots"`
}

// Reactive is a $: block and the guard that re-runs it.
type Reactive struct {
	Index uint32 `json:"index" yaml:"index"`
	Code  string `json:"code" yaml:"code"`
	Dirty string `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// Expression is a rewritten template expression and its dirty guard. An
// empty guard means the expression never changes after initialization.
type Expression struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Code  string `json:"code" yaml:"code"`
	Dirty string `json:"dirty,omitempty" yaml:"dirty,omitempty"`
}

// NodeSummary is one node of the fragment tree.
type NodeSummary struct {
	ID     uint32       `json:"id" yaml:"id"`
	Parent *uint32      `json:"parent,omitempty" yaml:"parent,omitempty"`
	Kind   string       `json:"kind" yaml:"kind"`
	Tag    string       `json:"tag,omitempty" yaml:"tag,omitempty"`
	Text   string       `json:"text,omitempty" yaml:"text,omitempty"`
	Exprs  []Expression `json:"exprs,omitempty" yaml:"exprs,omitempty"`
}

// Use is a resolved {#use} block.
type Use struct {
	Node     uint32 `json:"node" yaml:"node"`
	Resolved string `json:"resolved" yaml:"resolved"`
}

// Diagnostic is a diagnostic with its resolved position.
type Diagnostic struct {
	Position        string `json:"position" yaml:"position"`
	diag.Diagnostic `yaml:",inline"`
}

// Summary builds the serializable view of r.
func (r *Result) Summary() Summary {
	c := r.Component
	vars := c.DeclaredVars()

	s := Summary{
		File:       r.Source.Name,
		ContextLen: vars.CurrentID(),
		ScopeClass: c.ScopeClass(),
		CSS:        c.StyleText(),
		Runtime:    rewrite.Runtime(vars.CurrentID()),
	}
	for _, v := range vars.Vars() {
		s.Vars = append(s.Vars, Slot(v))
	}
	for _, b := range vars.Bindings() {
		s.Bindings = append(s.Bindings, Slot(b))
	}
	for _, e := range vars.ArrowExprs() {
		slot, _ := vars.ArrowExpr(e)
		s.Closures = append(s.Closures, Closure{
			Index: slot.Index,
			Scope: slot.Scope,
			Code:  rewrite.ReplaceAssignments(&e.Code, vars, slot.Scope),
		})
	}
	for _, id := range vars.ScopeIDs() {
		sc := Scope{ID: id}
		for _, v := range vars.Scope(id) {
			sc.Slots = append(sc.Slots, Slot(v))
		}
		s.Scopes = append(s.Scopes, sc)
	}

	for _, stmt := range c.Hoist() {
		s.Hoist = append(s.Hoist, stmt.Trimmed())
	}
	for _, t := range c.ToplevelNodes() {
		s.Toplevel = append(s.Toplevel, strings.TrimSpace(rewrite.ReplaceStatement(t.Stmt, vars, t.SubstituteAssignRefs)))
	}
	for _, stmt := range c.ReactiveBlocks() {
		idx, _ := vars.ReactiveBlock(stmt)
		s.Reactive = append(s.Reactive, Reactive{
			Index: idx,
			Code:  strings.TrimSpace(rewrite.ReplaceAssignments(&stmt.Code, vars, nil)),
			Dirty: rewrite.CalcDirty(&stmt.Code, vars, nil).String(),
		})
	}

	for _, n := range c.Descendants() {
		s.Nodes = append(s.Nodes, summarizeNode(n, vars))
	}
	for _, m := range c.CSSMustaches() {
		s.CSSVars = append(s.CSSVars, Expression{
			Name:  style.CustomProperty(c.CSSPrefix(), int(m.Index)),
			Code:  rewrite.ReplaceNamerefs(m.Expr, vars, nil),
			Dirty: rewrite.CalcDirty(&m.Expr.Code, vars, nil).String(),
		})
	}
	if blk := c.CodeBlock(); blk != nil {
		s.Foreign = blk.Lang
	}
	for _, n := range c.Descendants() {
		if resolved, ok := c.Uses()[n.Meta.ID]; ok {
			s.Uses = append(s.Uses, Use{Node: n.Meta.ID, Resolved: resolved})
		}
	}
	for _, d := range c.Diagnostics().Diagnostics() {
		s.Diagnostics = append(s.Diagnostics, Diagnostic{
			Position:   r.Source.Position(d.Offset).String(),
			Diagnostic: d,
		})
	}
	return s
}

func summarizeNode(n *component.Node, vars *component.DeclaredVariables) NodeSummary {
	out := NodeSummary{ID: n.Meta.ID, Parent: n.Meta.ParentID}
	scope := n.Meta.Scope
	expr := func(name string, e *script.Expr) {
		if e == nil {
			return
		}
		out.Exprs = append(out.Exprs, Expression{
			Name:  name,
			Code:  rewrite.ReplaceNamerefs(e, vars, scope),
			Dirty: rewrite.CalcDirty(&e.Code, vars, scope).String(),
		})
	}

	switch data := n.Data.(type) {
	case *syntax.Element:
		out.Kind = "element"
		out.Tag = data.Tag
		for _, attr := range data.Attrs {
			switch attr := attr.(type) {
			case *syntax.KeyValue:
				expr(attr.Key, attr.Expr)
			case *syntax.EventHandler:
				expr("@"+attr.Event, attr.Expr)
			case *syntax.Binding:
				if handler, ok := rewrite.BindingHandler(attr.Name, vars); ok {
					out.Exprs = append(out.Exprs, Expression{Name: ":" + attr.Name, Code: handler})
				}
			}
		}
	case *syntax.Text:
		out.Kind = "text"
		out.Text = data.Value
	case *syntax.Comment:
		out.Kind = "comment"
		out.Text = data.Value
	case *syntax.Mustache:
		out.Kind = "mustache"
		expr("", data.Expr)
	case *syntax.IfBlock:
		out.Kind = "if"
		expr("", data.Expr)
	case *syntax.ForBlock:
		out.Kind = "for"
		out.Text = data.Binding
		if data.Index != "" {
			out.Text += ", " + data.Index
		}
		expr("", data.Expr)
	case *syntax.UseBlock:
		out.Kind = "use"
		out.Text = data.Path
	}
	return out
}
