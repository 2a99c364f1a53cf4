package component

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/script"
)

// StaticPass evaluates the :static code block at compile time and turns each
// of its bindings into an ordinary top-level declaration initialized with
// the computed value.
type StaticPass struct {
	Timeout time.Duration
}

func (*StaticPass) Name() string { return "static" }

// Run implements Pass.
func (p *StaticPass) Run(ctx context.Context, c *Component) error {
	blk := c.static
	if blk == nil {
		return nil
	}
	if blk.Lang != "js" && blk.Lang != "javascript" {
		c.report.Add(diag.Errorf(blk.Location.Offset, "static blocks must be JavaScript, found %q", blk.Lang).
			WithNote("only js blocks can be evaluated at compile time"))
		return nil
	}

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	decls, err := script.Evaluate(ctx, blk.Body, blk.Offset)
	if err != nil {
		var jsErr *script.Error
		if !errors.As(err, &jsErr) {
			return err
		}
		c.report.Add(diag.Errorf(blk.Location.Offset, "static block failed: %s", jsErr.Message).
			WithHelper("while evaluating this block", diag.Loc(jsErr.Offset, jsErr.Length)))
		return nil
	}

	var prepend []ToplevelNode
	for _, d := range decls {
		if _, exists := c.vars.Var(d.Name); exists {
			c.report.Add(diag.Errorf(blk.Location.Offset, "static binding %s is also declared by the script", d.Name))
			continue
		}
		prog, err := script.ParseProgram(fmt.Sprintf("let %s = %s;", d.Name, d.Value), blk.Offset)
		if err != nil {
			return fmt.Errorf("reparse static binding %s: %w", d.Name, err)
		}
		c.vars.InsertVar(d.Name)
		for _, stmt := range prog.Statements {
			prepend = append(prepend, ToplevelNode{Stmt: stmt, SubstituteAssignRefs: true})
		}
	}
	c.toplevel = append(prepend, c.toplevel...)
	return nil
}
