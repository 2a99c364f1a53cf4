package script

import (
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/token"
)

// Span is a byte range within a Code's Source.
type Span struct {
	Start int
	End   int
}

// Reference is a free identifier found by [Code.UnboundRefs].
type Reference struct {
	Name   string
	Offset int // byte offset of the identifier within Source
	Length int

	// AssignTarget is set when the identifier is written to, either as the
	// left side of an assignment or as the operand of ++ or --.
	AssignTarget bool

	// Assign is the span of the whole assignment or update expression. It is
	// only set for plain identifier targets, which are the ones that can be
	// wrapped by a scheduling call.
	Assign *Span

	// Pattern is the span of the whole destructuring assignment when the
	// identifier is written through a pattern, as in [a, b] = [b, a]. Assign
	// is nil for such targets.
	Pattern *Span

	// Postfix marks x++ and x-- updates, whose value is the old value.
	Postfix bool

	// Shorthand marks {name} in an object literal or pattern, which expands to
	// {name: name}.
	Shorthand bool
}

// UnboundRefs returns every identifier reference in the code that is not bound
// by a parameter or declaration inside the code itself, in source order of
// discovery. References inside nested function bodies are included when they
// refer to outer names.
func (c *Code) UnboundRefs() []Reference {
	if c.root == nil {
		return nil
	}
	r := &resolver{code: c, seen: make(map[int]bool)}
	switch n := c.root.(type) {
	case ast.Statement:
		r.block([]ast.Statement{n})
	case ast.Expression:
		r.expr(n)
	}
	return r.refs
}

// resolver walks a goja tree keeping a stack of names declared so far.
type resolver struct {
	code     *Code
	declared []string
	refs     []Reference
	seen     map[int]bool
}

func (r *resolver) isDeclared(name string) bool {
	for i := len(r.declared) - 1; i >= 0; i-- {
		if r.declared[i] == name {
			return true
		}
	}
	return false
}

func (r *resolver) declare(names ...string) {
	r.declared = append(r.declared, names...)
}

func (r *resolver) mark() int {
	return len(r.declared)
}

func (r *resolver) reset(mark int) {
	r.declared = r.declared[:mark]
}

func (r *resolver) ident(id *ast.Identifier) *Reference {
	name := id.Name.String()
	if r.isDeclared(name) {
		return nil
	}
	off := r.code.local(id.Idx)
	if r.seen[off] {
		return nil
	}
	r.seen[off] = true
	r.refs = append(r.refs, Reference{Name: name, Offset: off, Length: len(name)})
	return &r.refs[len(r.refs)-1]
}

// target records an identifier that is written by the expression spanning n.
func (r *resolver) target(id *ast.Identifier, n ast.Node, postfix bool) {
	ref := r.ident(id)
	if ref == nil {
		return
	}
	sp := r.code.span(n)
	ref.AssignTarget = true
	ref.Assign = &sp
	ref.Postfix = postfix
}

// block processes statements sequentially; declarations are visible to the
// statements that follow them until the end of the block.
func (r *resolver) block(list []ast.Statement) {
	m := r.mark()
	for _, s := range list {
		r.stmt(s)
	}
	r.reset(m)
}

// scoped processes a statement in its own block scope.
func (r *resolver) scoped(s ast.Statement) {
	if s == nil {
		return
	}
	r.block([]ast.Statement{s})
}

func (r *resolver) stmt(s ast.Statement) {
	switch s := s.(type) {
	case nil:
	case *ast.BlockStatement:
		r.block(s.List)
	case *ast.ExpressionStatement:
		r.expr(s.Expression)
	case *ast.VariableStatement:
		r.bindings(s.List)
	case *ast.LexicalDeclaration:
		r.bindings(s.List)
	case *ast.FunctionDeclaration:
		if s.Function.Name != nil {
			r.declare(s.Function.Name.Name.String())
		}
		r.function(s.Function)
	case *ast.ClassDeclaration:
		if s.Class.Name != nil {
			r.declare(s.Class.Name.Name.String())
		}
		r.class(s.Class)
	case *ast.IfStatement:
		r.expr(s.Test)
		r.scoped(s.Consequent)
		r.scoped(s.Alternate)
	case *ast.ForStatement:
		m := r.mark()
		switch init := s.Initializer.(type) {
		case *ast.ForLoopInitializerExpression:
			r.expr(init.Expression)
		case *ast.ForLoopInitializerVarDeclList:
			r.bindings(init.List)
		case *ast.ForLoopInitializerLexicalDecl:
			r.bindings(init.LexicalDeclaration.List)
		}
		r.expr(s.Test)
		r.expr(s.Update)
		r.scoped(s.Body)
		r.reset(m)
	case *ast.ForInStatement:
		r.forInto(s.Into, s.Source, s.Body)
	case *ast.ForOfStatement:
		r.forInto(s.Into, s.Source, s.Body)
	case *ast.WhileStatement:
		r.expr(s.Test)
		r.scoped(s.Body)
	case *ast.DoWhileStatement:
		r.scoped(s.Body)
		r.expr(s.Test)
	case *ast.ReturnStatement:
		r.expr(s.Argument)
	case *ast.ThrowStatement:
		r.expr(s.Argument)
	case *ast.SwitchStatement:
		r.expr(s.Discriminant)
		m := r.mark()
		for _, c := range s.Body {
			r.expr(c.Test)
			for _, cs := range c.Consequent {
				r.stmt(cs)
			}
		}
		r.reset(m)
	case *ast.TryStatement:
		r.block(s.Body.List)
		if s.Catch != nil {
			m := r.mark()
			if s.Catch.Parameter != nil {
				r.patternDefaults(s.Catch.Parameter)
				r.declare(PatternNames(s.Catch.Parameter)...)
			}
			r.block(s.Catch.Body.List)
			r.reset(m)
		}
		if s.Finally != nil {
			r.block(s.Finally.List)
		}
	case *ast.LabelledStatement:
		r.stmt(s.Statement)
	case *ast.WithStatement:
		r.expr(s.Object)
		r.scoped(s.Body)
	}
}

func (r *resolver) forInto(into ast.ForInto, source ast.Expression, body ast.Statement) {
	m := r.mark()
	r.expr(source)
	switch into := into.(type) {
	case *ast.ForIntoVar:
		r.bindings([]*ast.Binding{into.Binding})
	case *ast.ForDeclaration:
		r.patternDefaults(into.Target)
		r.declare(PatternNames(into.Target)...)
	case *ast.ForIntoExpression:
		r.assignTarget(into.Expression, nil)
	}
	r.scoped(body)
	r.reset(m)
}

// bindings declares each binding after scanning its initializer, so an
// initializer never sees its own name.
func (r *resolver) bindings(list []*ast.Binding) {
	for _, b := range list {
		r.expr(b.Initializer)
		r.patternDefaults(b.Target)
		r.declare(PatternNames(b.Target)...)
	}
}

// patternDefaults scans the expressions embedded in a binding pattern:
// default values and computed keys.
func (r *resolver) patternDefaults(target ast.Expression) {
	switch t := target.(type) {
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			switch p := p.(type) {
			case *ast.PropertyShort:
				r.expr(p.Initializer)
			case *ast.PropertyKeyed:
				if p.Computed {
					r.expr(p.Key)
				}
				r.patternDefaults(p.Value)
			}
		}
		r.patternDefaults(t.Rest)
	case *ast.ArrayPattern:
		for _, e := range t.Elements {
			r.patternDefaults(e)
		}
		r.patternDefaults(t.Rest)
	case *ast.AssignExpression:
		r.patternDefaults(t.Left)
		r.expr(t.Right)
	case *ast.Binding:
		r.patternDefaults(t.Target)
		r.expr(t.Initializer)
	}
}

func (r *resolver) params(pl *ast.ParameterList) {
	if pl == nil {
		return
	}
	r.bindings(pl.List)
	if pl.Rest != nil {
		r.patternDefaults(pl.Rest)
		r.declare(PatternNames(pl.Rest)...)
	}
}

func (r *resolver) function(fn *ast.FunctionLiteral) {
	m := r.mark()
	if fn.Name != nil {
		r.declare(fn.Name.Name.String())
	}
	r.params(fn.ParameterList)
	if fn.Body != nil {
		r.block(fn.Body.List)
	}
	r.reset(m)
}

func (r *resolver) arrow(fn *ast.ArrowFunctionLiteral) {
	m := r.mark()
	r.params(fn.ParameterList)
	switch body := fn.Body.(type) {
	case *ast.BlockStatement:
		r.block(body.List)
	case *ast.ExpressionBody:
		r.expr(body.Expression)
	}
	r.reset(m)
}

func (r *resolver) class(c *ast.ClassLiteral) {
	r.expr(c.SuperClass)
	m := r.mark()
	if c.Name != nil {
		r.declare(c.Name.Name.String())
	}
	for _, el := range c.Body {
		switch el := el.(type) {
		case *ast.FieldDefinition:
			if el.Computed {
				r.expr(el.Key)
			}
			r.expr(el.Initializer)
		case *ast.MethodDefinition:
			if el.Computed {
				r.expr(el.Key)
			}
			r.function(el.Body)
		case *ast.ClassStaticBlock:
			r.block(el.Block.List)
		}
	}
	r.reset(m)
}

// assignTarget records the identifiers written by an assignment whose left
// side is target. whole is the assignment expression, or nil when the write
// cannot be wrapped (for-in/of heads).
func (r *resolver) assignTarget(target ast.Expression, whole ast.Node) {
	switch t := target.(type) {
	case *ast.Identifier:
		if whole == nil {
			if ref := r.ident(t); ref != nil {
				ref.AssignTarget = true
			}
			return
		}
		r.target(t, whole, false)
	case *ast.ObjectPattern, *ast.ArrayPattern:
		r.patternDefaults(t)
		var sp *Span
		if whole != nil {
			s := r.code.span(whole)
			sp = &s
		}
		r.patternTargets(t, sp)
	default:
		r.expr(target)
	}
}

// patternTargets marks every identifier bound by a destructuring assignment
// pattern as written. whole is the span of the assignment, if known.
func (r *resolver) patternTargets(target ast.Expression, whole *Span) {
	mark := func(id *ast.Identifier, shorthand bool) {
		if ref := r.ident(id); ref != nil {
			ref.AssignTarget = true
			ref.Pattern = whole
			ref.Shorthand = shorthand
		}
	}
	switch t := target.(type) {
	case *ast.Identifier:
		mark(t, false)
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			switch p := p.(type) {
			case *ast.PropertyShort:
				id := p.Name
				mark(&id, true)
			case *ast.PropertyKeyed:
				r.patternTargets(p.Value, whole)
			}
		}
		r.patternTargets(t.Rest, whole)
	case *ast.ArrayPattern:
		for _, e := range t.Elements {
			r.patternTargets(e, whole)
		}
		r.patternTargets(t.Rest, whole)
	case *ast.AssignExpression:
		r.patternTargets(t.Left, whole)
	case nil:
	default:
		r.expr(t)
	}
}

func (r *resolver) expr(e ast.Expression) {
	switch e := e.(type) {
	case nil:
	case *ast.Identifier:
		r.ident(e)
	case *ast.AssignExpression:
		r.assignTarget(e.Left, e)
		r.expr(e.Right)
	case *ast.UnaryExpression:
		if id, ok := e.Operand.(*ast.Identifier); ok && (e.Operator == token.INCREMENT || e.Operator == token.DECREMENT) {
			r.target(id, e, e.Postfix)
			return
		}
		r.expr(e.Operand)
	case *ast.BinaryExpression:
		r.expr(e.Left)
		r.expr(e.Right)
	case *ast.ConditionalExpression:
		r.expr(e.Test)
		r.expr(e.Consequent)
		r.expr(e.Alternate)
	case *ast.SequenceExpression:
		for _, s := range e.Sequence {
			r.expr(s)
		}
	case *ast.CallExpression:
		r.expr(e.Callee)
		for _, a := range e.ArgumentList {
			r.expr(a)
		}
	case *ast.NewExpression:
		r.expr(e.Callee)
		for _, a := range e.ArgumentList {
			r.expr(a)
		}
	case *ast.DotExpression:
		r.expr(e.Left)
	case *ast.PrivateDotExpression:
		r.expr(e.Left)
	case *ast.BracketExpression:
		r.expr(e.Left)
		r.expr(e.Member)
	case *ast.OptionalChain:
		r.expr(e.Expression)
	case *ast.Optional:
		r.expr(e.Expression)
	case *ast.ArrayLiteral:
		for _, v := range e.Value {
			r.expr(v)
		}
	case *ast.ObjectLiteral:
		for _, p := range e.Value {
			switch p := p.(type) {
			case *ast.PropertyShort:
				id := p.Name
				if ref := r.ident(&id); ref != nil {
					ref.Shorthand = true
				}
				r.expr(p.Initializer)
			case *ast.PropertyKeyed:
				if p.Computed {
					r.expr(p.Key)
				}
				r.expr(p.Value)
			case *ast.SpreadElement:
				r.expr(p.Expression)
			}
		}
	case *ast.SpreadElement:
		r.expr(e.Expression)
	case *ast.TemplateLiteral:
		r.expr(e.Tag)
		for _, x := range e.Expressions {
			r.expr(x)
		}
	case *ast.FunctionLiteral:
		r.function(e)
	case *ast.ArrowFunctionLiteral:
		r.arrow(e)
	case *ast.ClassLiteral:
		r.class(e)
	case *ast.YieldExpression:
		r.expr(e.Argument)
	case *ast.AwaitExpression:
		r.expr(e.Argument)
	case *ast.ObjectPattern, *ast.ArrayPattern:
		r.patternDefaults(e)
		r.patternTargets(e, nil)
	}
}
