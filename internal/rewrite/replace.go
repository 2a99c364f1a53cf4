package rewrite

import (
	"fmt"
	"strings"

	"github.com/grindlemire/decorous/internal/component"
	"github.com/grindlemire/decorous/internal/script"
)

// ScheduleFunc is the runtime function every slot write goes through.
const ScheduleFunc = "__schedule_update"

// CtxAccess returns the expression reading slot idx.
func CtxAccess(idx uint32) string {
	return fmt.Sprintf("ctx[%d]", idx)
}

// ReplaceNamerefs rewrites code from a template expression so that it runs
// against the context array. Reads of slots become ctx[i]; writes are
// wrapped in scheduling calls. A promoted arrow function is replaced by the
// slot holding it.
func ReplaceNamerefs(expr *script.Expr, vars *component.DeclaredVariables, scope *uint32) string {
	if slot, ok := vars.ArrowExpr(expr); ok {
		return CtxAccess(slot.Index)
	}

	var (
		edits    []edit
		patterns patternWrites
	)
	for _, ref := range expr.UnboundRefs() {
		idx, ok := slotOf(ref, vars, scope)
		if !ok {
			continue
		}
		if ref.AssignTarget {
			switch {
			case ref.Assign != nil:
				edits = append(edits, schedule(ref, idx, CtxAccess(idx))...)
			case ref.Pattern != nil:
				patterns.add(*ref.Pattern, idx, CtxAccess(idx))
			default:
				// for-in/of heads have no expression to wrap.
				continue
			}
		}
		text := CtxAccess(idx)
		if ref.Shorthand {
			text = ref.Name + ": " + text
		}
		edits = append(edits, replaceSpan(ref.Offset, ref.Offset+ref.Length, text))
	}
	edits = append(edits, patterns.edits()...)
	return apply(expr.Source, edits)
}

// ReplaceAssignments wraps every write to a slot in a scheduling call and
// leaves names alone. It is meant for code that runs where the component's
// variables are in scope, such as the instance initializer and promoted
// closures.
func ReplaceAssignments(code *script.Code, vars *component.DeclaredVariables, scope *uint32) string {
	var (
		edits    []edit
		patterns patternWrites
	)
	for _, ref := range code.UnboundRefs() {
		if !ref.AssignTarget {
			continue
		}
		idx, ok := slotOf(ref, vars, scope)
		if !ok {
			continue
		}
		switch {
		case ref.Assign != nil:
			edits = append(edits, schedule(ref, idx, ref.Name)...)
		case ref.Pattern != nil:
			patterns.add(*ref.Pattern, idx, ref.Name)
		}
	}
	edits = append(edits, patterns.edits()...)
	return apply(code.Source, edits)
}

// ReplaceStatement renders a top-level statement of the instance
// initializer. Statements that do not substitute assignments are emitted as
// written.
func ReplaceStatement(stmt *script.Statement, vars *component.DeclaredVariables, substitute bool) string {
	if !substitute {
		return stmt.Source
	}
	return ReplaceAssignments(&stmt.Code, vars, nil)
}

// BindingHandler returns the event listener of a two-way binding :name:.
func BindingHandler(name string, vars *component.DeclaredVariables) (string, bool) {
	idx, ok := vars.Var(name)
	if !ok {
		return "", false
	}
	return fmt.Sprintf("(ev) => %s(%d, %s = ev.target.value)", ScheduleFunc, idx, name), true
}

func slotOf(ref script.Reference, vars *component.DeclaredVariables, scope *uint32) (uint32, bool) {
	if scope != nil && vars.IsScopeVar(ref.Name, *scope) {
		return 0, false
	}
	return vars.Var(ref.Name)
}

// schedule wraps the write of ref. A postfix update evaluates to the old
// value, so the scheduled value is re-read after it.
func schedule(ref script.Reference, idx uint32, target string) []edit {
	opening := fmt.Sprintf("%s(%d, ", ScheduleFunc, idx)
	closing := ")"
	if ref.Postfix {
		opening += "("
		closing = ", " + target + "))"
	}
	return wrapSpan(ref.Assign.Start, ref.Assign.End, opening, closing)
}

// patternWrites collects the slots written by each destructuring assignment.
type patternWrites struct {
	spans []script.Span
	slots map[script.Span][]patternSlot
}

type patternSlot struct {
	idx    uint32
	target string
}

func (p *patternWrites) add(span script.Span, idx uint32, target string) {
	if p.slots == nil {
		p.slots = make(map[script.Span][]patternSlot)
	}
	slots, ok := p.slots[span]
	if !ok {
		p.spans = append(p.spans, span)
	}
	for _, s := range slots {
		if s.idx == idx {
			return
		}
	}
	p.slots[span] = append(slots, patternSlot{idx: idx, target: target})
}

// edits wraps every destructuring assignment in a call that schedules each
// slot it wrote and then yields the assignment's value:
//
//	((__v) => (__schedule_update(0, a), __schedule_update(1, b), __v))([a, b] = [b, a])
func (p *patternWrites) edits() []edit {
	var edits []edit
	for _, span := range p.spans {
		var b strings.Builder
		b.WriteString("((__v) => (")
		for _, s := range p.slots[span] {
			fmt.Fprintf(&b, "%s(%d, %s), ", ScheduleFunc, s.idx, s.target)
		}
		b.WriteString("__v))(")
		edits = append(edits, wrapSpan(span.Start, span.End, b.String(), ")")...)
	}
	return edits
}
