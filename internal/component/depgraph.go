package component

import (
	"github.com/grindlemire/decorous/internal/script"
)

// Declaration is a vertex of the dependency graph: one top-level
// declaration statement and the names it binds.
type Declaration struct {
	Stmt    *script.Statement
	Names   []string
	Mutated bool
	Used    bool
}

// DepGraph relates top-level declarations. There is an edge B -> A when A's
// statement references a name declared by B.
type DepGraph struct {
	decls      []*Declaration
	dependents [][]int // B -> A
	deps       [][]int // A -> B
	byName     map[string]int
}

// NewDepGraph builds the graph over the declarations among toplevel.
func NewDepGraph(toplevel []ToplevelNode) *DepGraph {
	g := &DepGraph{byName: make(map[string]int)}
	for _, t := range toplevel {
		if t.Stmt.IsImport() {
			continue
		}
		names := script.DeclaredNames(t.Stmt.Node())
		if len(names) == 0 {
			continue
		}
		idx := len(g.decls)
		g.decls = append(g.decls, &Declaration{Stmt: t.Stmt, Names: names})
		for _, name := range names {
			g.byName[name] = idx
		}
	}
	g.dependents = make([][]int, len(g.decls))
	g.deps = make([][]int, len(g.decls))

	for a, d := range g.decls {
		seen := make(map[int]bool)
		for _, ref := range d.Stmt.UnboundRefs() {
			b, ok := g.byName[ref.Name]
			if !ok || b == a || seen[b] {
				continue
			}
			seen[b] = true
			g.dependents[b] = append(g.dependents[b], a)
			g.deps[a] = append(g.deps[a], b)
		}
	}
	return g
}

// Declarations returns the vertices in source order.
func (g *DepGraph) Declarations() []*Declaration {
	return g.decls
}

// Lookup returns the declaration binding name.
func (g *DepGraph) Lookup(name string) (*Declaration, bool) {
	i, ok := g.byName[name]
	if !ok {
		return nil, false
	}
	return g.decls[i], true
}

// Dependents returns the declarations that reference names declared by d.
func (g *DepGraph) Dependents(d *Declaration) []*Declaration {
	return g.collect(g.dependents, d)
}

// Dependencies returns the declarations whose names d references.
func (g *DepGraph) Dependencies(d *Declaration) []*Declaration {
	return g.collect(g.deps, d)
}

func (g *DepGraph) collect(adj [][]int, d *Declaration) []*Declaration {
	for i, decl := range g.decls {
		if decl != d {
			continue
		}
		out := make([]*Declaration, 0, len(adj[i]))
		for _, j := range adj[i] {
			out = append(out, g.decls[j])
		}
		return out
	}
	return nil
}

// MarkMutated marks the declaration of name as mutated, along with every
// declaration that transitively depends on it. It reports whether name is
// declared.
func (g *DepGraph) MarkMutated(name string) bool {
	start, ok := g.byName[name]
	if !ok {
		return false
	}
	g.propagate(start, g.dependents, func(d *Declaration) *bool { return &d.Mutated })
	return true
}

// MarkUsed marks the declaration of name as used, along with every
// declaration it transitively depends on. It reports whether name is
// declared.
func (g *DepGraph) MarkUsed(name string) bool {
	start, ok := g.byName[name]
	if !ok {
		return false
	}
	g.propagate(start, g.deps, func(d *Declaration) *bool { return &d.Used })
	return true
}

// propagate sets a flag on start and everything reachable from it.
func (g *DepGraph) propagate(start int, adj [][]int, flag func(*Declaration) *bool) {
	work := []int{start}
	for len(work) > 0 {
		i := work[len(work)-1]
		work = work[:len(work)-1]
		f := flag(g.decls[i])
		if *f {
			continue
		}
		*f = true
		work = append(work, adj[i]...)
	}
}

// Unused returns the declarations nothing uses.
func (g *DepGraph) Unused() []*Declaration {
	var out []*Declaration
	for _, d := range g.decls {
		if !d.Used {
			out = append(out, d)
		}
	}
	return out
}

// Unmutated returns the used declarations that are never mutated.
func (g *DepGraph) Unmutated() []*Declaration {
	var out []*Declaration
	for _, d := range g.decls {
		if d.Used && !d.Mutated {
			out = append(out, d)
		}
	}
	return out
}
