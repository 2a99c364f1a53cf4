package script

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dop251/goja"
	"github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"

	"github.com/grindlemire/decorous/internal/debug"
)

// Decl is a binding produced by evaluating a compile-time block. Value is the
// binding's JSON encoding.
type Decl struct {
	Name  string
	Value string
}

// Evaluate runs a compile-time script block and returns the JSON value of
// every top-level binding it declares, in declaration order. Bindings whose
// values cannot be represented as JSON (functions, undefined) are skipped.
// Evaluation is interrupted when ctx is done.
func Evaluate(ctx context.Context, src string, offset int) ([]Decl, error) {
	prog, err := parser.ParseFile(nil, "", src, 0, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, convertError(err, src, 0, offset, len(src))
	}

	var names []string
	for _, stmt := range prog.Body {
		names = append(names, DeclaredNames(stmt)...)
		if c, ok := stmt.(*ast.ClassDeclaration); ok && c.Class.Name != nil {
			names = append(names, c.Class.Name.Name.String())
		}
	}

	vm := goja.New()
	installConsole(vm)

	stop := context.AfterFunc(ctx, func() {
		vm.Interrupt(ctx.Err())
	})
	defer stop()

	if _, err := vm.RunString(src); err != nil {
		return nil, evalError(err, offset, len(src))
	}

	var decls []Decl
	for _, name := range names {
		v, err := vm.RunString("JSON.stringify(" + name + ")")
		if err != nil {
			return nil, evalError(err, offset, len(src))
		}
		if goja.IsUndefined(v) || goja.IsNull(v) {
			continue
		}
		decls = append(decls, Decl{Name: name, Value: v.String()})
	}
	return decls, nil
}

func evalError(err error, offset, length int) error {
	var exc *goja.Exception
	if errors.As(err, &exc) {
		return &Error{Message: exc.Value().String(), Offset: offset, Length: length}
	}
	var interrupted *goja.InterruptedError
	if errors.As(err, &interrupted) {
		return &Error{Message: fmt.Sprintf("evaluation interrupted: %v", interrupted.Value()), Offset: offset, Length: length}
	}
	return &Error{Message: err.Error(), Offset: offset, Length: length}
}

// installConsole routes console output from compile-time blocks to the debug
// log.
func installConsole(vm *goja.Runtime) {
	logger := func(level string) func(goja.FunctionCall) goja.Value {
		return func(call goja.FunctionCall) goja.Value {
			parts := make([]string, len(call.Arguments))
			for i, a := range call.Arguments {
				parts[i] = a.String()
			}
			debug.Log("static %s: %s", level, strings.Join(parts, " "))
			return goja.Undefined()
		}
	}
	console := vm.NewObject()
	_ = console.Set("log", logger("log"))
	_ = console.Set("warn", logger("warn"))
	_ = console.Set("error", logger("error"))
	_ = vm.Set("console", console)
}
