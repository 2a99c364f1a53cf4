package component

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/grindlemire/decorous/internal/syntax"
)

// DefaultScopePrefix is used when CSSPass has no prefix.
const DefaultScopePrefix = "decor"

// CSSPass isolates the component's style sheet. Every selector is narrowed to
// a class derived from the sheet's contents, every element is recorded as a
// carrier of that class, and every CSS mustache gets a custom property index.
type CSSPass struct {
	Prefix string
}

func (*CSSPass) Name() string { return "css" }

// Run implements Pass.
func (p *CSSPass) Run(_ context.Context, c *Component) error {
	if c.css == nil {
		return nil
	}
	prefix := p.Prefix
	if prefix == "" {
		prefix = DefaultScopePrefix
	}

	// Hash before scoping so the class does not depend on itself.
	h := fnv.New32a()
	_, _ = h.Write([]byte(c.css.Format(prefix)))
	c.cssPrefix = prefix
	c.scopeClass = prefix + "-" + strconv.FormatUint(uint64(h.Sum32()), 36)

	c.css.Scope(c.scopeClass)
	for _, m := range c.css.Mustaches() {
		m.ID = int(c.vars.InsertCSSMustache(m.Expr))
	}

	c.styled = c.styled[:0]
	for _, n := range c.Descendants() {
		if _, ok := n.Data.(*syntax.Element); ok {
			c.styled = append(c.styled, n.Meta.ID)
		}
	}
	return nil
}

// CSSPrefix returns the prefix used for scope classes and custom
// properties.
func (c *Component) CSSPrefix() string {
	if c.cssPrefix == "" {
		return DefaultScopePrefix
	}
	return c.cssPrefix
}

// StyleText returns the scoped style sheet as CSS, or "" when the component
// has none.
func (c *Component) StyleText() string {
	if c.css == nil {
		return ""
	}
	return c.css.Format(c.CSSPrefix())
}
