package component

import (
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/syntax"
)

// UseResolver turns the path of a {#use "path"} block into a reference code
// generators can emit, such as a module specifier.
type UseResolver interface {
	Resolve(path string) (string, error)
}

// NullResolver resolves every path to itself.
type NullResolver struct{}

// Resolve implements UseResolver.
func (NullResolver) Resolve(path string) (string, error) {
	return path, nil
}

// ResolveFunc adapts a function to UseResolver.
type ResolveFunc func(path string) (string, error)

// Resolve implements UseResolver.
func (f ResolveFunc) Resolve(path string) (string, error) {
	return f(path)
}

// ResolveUses resolves every {#use} block. Failures are reported as error
// diagnostics at the block; the remaining blocks are still resolved.
func (c *Component) ResolveUses(r UseResolver) {
	for _, n := range c.Descendants() {
		use, ok := n.Data.(*syntax.UseBlock)
		if !ok {
			continue
		}
		spec, err := r.Resolve(use.Path)
		if err != nil {
			c.report.Add(diag.Errorf(use.Location.Offset, "cannot resolve %q: %v", use.Path, err))
			continue
		}
		c.uses[n.Meta.ID] = spec
	}
}
