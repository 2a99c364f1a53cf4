package component

import (
	"maps"
	"slices"

	"github.com/grindlemire/decorous/internal/script"
)

// Slot is a named reactive slot.
type Slot struct {
	Name  string
	Index uint32
}

// ArrowSlot is the slot of an event handler closure promoted to the
// component context. Scope is the loop scope the handler lives in.
type ArrowSlot struct {
	Index uint32
	Scope *uint32
}

// DeclaredVariables maps names and promoted expressions to slot indices.
//
// All slots except CSS mustaches share one counter. Indices are handed out in
// increasing order and never reused, so removing a variable leaves a gap.
// CSS mustaches have their own counter because they index custom
// properties, not the context array.
type DeclaredVariables struct {
	vars         map[string]uint32
	arrowExprs   map[*script.Expr]ArrowSlot
	bindings     map[string]uint32
	scopes       map[uint32]map[string]uint32
	cssMustaches map[*script.Expr]uint32
	reactive     map[*script.Statement]uint32

	currentID  uint32
	cssCurrent uint32
}

// NewDeclaredVariables creates an empty table.
func NewDeclaredVariables() *DeclaredVariables {
	return &DeclaredVariables{
		vars:         make(map[string]uint32),
		arrowExprs:   make(map[*script.Expr]ArrowSlot),
		bindings:     make(map[string]uint32),
		scopes:       make(map[uint32]map[string]uint32),
		cssMustaches: make(map[*script.Expr]uint32),
		reactive:     make(map[*script.Statement]uint32),
	}
}

func (d *DeclaredVariables) generateID() uint32 {
	id := d.currentID
	d.currentID++
	return id
}

// InsertVar allocates a slot for a top-level variable.
func (d *DeclaredVariables) InsertVar(name string) uint32 {
	id := d.generateID()
	d.vars[name] = id
	return id
}

// InsertArrowExpr allocates a slot for a promoted event handler closure.
func (d *DeclaredVariables) InsertArrowExpr(expr *script.Expr, scope *uint32) uint32 {
	id := d.generateID()
	d.arrowExprs[expr] = ArrowSlot{Index: id, Scope: scope}
	return id
}

// InsertBinding allocates a slot for the handler of a two-way binding.
func (d *DeclaredVariables) InsertBinding(name string) uint32 {
	id := d.generateID()
	d.bindings[name] = id
	return id
}

// InsertReactiveBlock allocates a slot for a $: block.
func (d *DeclaredVariables) InsertReactiveBlock(stmt *script.Statement) uint32 {
	id := d.generateID()
	d.reactive[stmt] = id
	return id
}

// InsertScope records the loop-local names of the for block with the given
// node id.
func (d *DeclaredVariables) InsertScope(scopeID uint32, env map[string]uint32) {
	d.scopes[scopeID] = env
}

// InsertCSSMustache allocates a custom property index for a CSS mustache.
func (d *DeclaredVariables) InsertCSSMustache(expr *script.Expr) uint32 {
	id := d.cssCurrent
	d.cssCurrent++
	d.cssMustaches[expr] = id
	return id
}

// GetVar resolves name as seen from inside scope. Loop-local names shadow
// top-level variables.
func (d *DeclaredVariables) GetVar(name string, scope *uint32) (uint32, bool) {
	if scope != nil {
		if id, ok := d.scopes[*scope][name]; ok {
			return id, true
		}
	}
	id, ok := d.vars[name]
	return id, ok
}

// IsScopeVar reports whether name is bound by the loop scope scopeID or one
// of its enclosing loops.
func (d *DeclaredVariables) IsScopeVar(name string, scopeID uint32) bool {
	_, ok := d.scopes[scopeID][name]
	return ok
}

// Var returns the slot of a top-level variable.
func (d *DeclaredVariables) Var(name string) (uint32, bool) {
	id, ok := d.vars[name]
	return id, ok
}

// ArrowExpr returns the slot of a promoted closure.
func (d *DeclaredVariables) ArrowExpr(expr *script.Expr) (ArrowSlot, bool) {
	s, ok := d.arrowExprs[expr]
	return s, ok
}

// Binding returns the slot of a two-way binding handler.
func (d *DeclaredVariables) Binding(name string) (uint32, bool) {
	id, ok := d.bindings[name]
	return id, ok
}

// ReactiveBlock returns the slot of a $: block.
func (d *DeclaredVariables) ReactiveBlock(stmt *script.Statement) (uint32, bool) {
	id, ok := d.reactive[stmt]
	return id, ok
}

// CSSMustache returns the custom property index of a CSS mustache.
func (d *DeclaredVariables) CSSMustache(expr *script.Expr) (uint32, bool) {
	id, ok := d.cssMustaches[expr]
	return id, ok
}

// Scope returns the names bound by a loop scope, including those inherited
// from enclosing loops.
func (d *DeclaredVariables) Scope(scopeID uint32) []Slot {
	return sortedSlots(d.scopes[scopeID])
}

// ScopeIDs returns the ids of all loop scopes in increasing order.
func (d *DeclaredVariables) ScopeIDs() []uint32 {
	return slices.Sorted(maps.Keys(d.scopes))
}

// Vars returns the top-level variables ordered by index.
func (d *DeclaredVariables) Vars() []Slot {
	return sortedSlots(d.vars)
}

// Bindings returns the binding handler slots ordered by index.
func (d *DeclaredVariables) Bindings() []Slot {
	return sortedSlots(d.bindings)
}

// ArrowExprs returns the promoted closures ordered by index.
func (d *DeclaredVariables) ArrowExprs() []*script.Expr {
	exprs := slices.Collect(maps.Keys(d.arrowExprs))
	slices.SortFunc(exprs, func(a, b *script.Expr) int {
		return int(d.arrowExprs[a].Index) - int(d.arrowExprs[b].Index)
	})
	return exprs
}

// Len returns the number of allocated context slots still in the table.
func (d *DeclaredVariables) Len() int {
	n := len(d.vars) + len(d.arrowExprs) + len(d.bindings) + len(d.reactive)
	// Nested loops repeat the bindings of the loops around them.
	seen := make(map[uint32]bool)
	for _, env := range d.scopes {
		for _, id := range env {
			if !seen[id] {
				seen[id] = true
				n++
			}
		}
	}
	return n
}

// CurrentID returns the next index that would be allocated. Every allocated
// index is below it.
func (d *DeclaredVariables) CurrentID() uint32 {
	return d.currentID
}

// CSSLen returns the number of CSS mustaches.
func (d *DeclaredVariables) CSSLen() int {
	return len(d.cssMustaches)
}

// RemoveVar deletes a top-level variable. Its index is not reused.
func (d *DeclaredVariables) RemoveVar(name string) bool {
	if _, ok := d.vars[name]; !ok {
		return false
	}
	delete(d.vars, name)
	return true
}

func sortedSlots(m map[string]uint32) []Slot {
	out := make([]Slot, 0, len(m))
	for name, id := range m {
		out = append(out, Slot{Name: name, Index: id})
	}
	slices.SortFunc(out, func(a, b Slot) int {
		if a.Index != b.Index {
			return int(a.Index) - int(b.Index)
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return out
}
