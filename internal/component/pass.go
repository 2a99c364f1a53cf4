package component

import (
	"context"
	"fmt"
	"time"

	"github.com/grindlemire/decorous/internal/debug"
)

// Pass transforms a Component in place.
type Pass interface {
	Name() string
	Run(ctx context.Context, c *Component) error
}

// Options configures the standard passes.
type Options struct {
	// ScopePrefix prefixes the scope class and CSS custom properties.
	ScopePrefix string
	// WarnUnbound enables "possibly unbound variable" warnings.
	WarnUnbound bool
	// LintElements enables unknown element warnings.
	LintElements bool
	// StaticTimeout bounds the evaluation of static blocks. Zero means no
	// limit beyond the caller's context.
	StaticTimeout time.Duration
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ScopePrefix:   "decor",
		WarnUnbound:   true,
		LintElements:  true,
		StaticTimeout: 5 * time.Second,
	}
}

// DefaultPasses returns the standard pass pipeline.
func DefaultPasses(opts Options) []Pass {
	passes := []Pass{
		&StaticPass{Timeout: opts.StaticTimeout},
		&CSSPass{Prefix: opts.ScopePrefix},
		&DepAnalysisPass{WarnUnbound: opts.WarnUnbound},
	}
	if opts.LintElements {
		passes = append(passes, &ElementLintPass{})
	}
	return passes
}

// Run runs passes in order. It stops at the first pass that returns an
// error; user-facing problems are diagnostics, not errors.
func (c *Component) Run(ctx context.Context, passes ...Pass) error {
	for _, p := range passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		before := c.report.Len()
		if err := p.Run(ctx, c); err != nil {
			return fmt.Errorf("%s pass: %w", p.Name(), err)
		}
		debug.Log("pass %s: %d new diagnostic(s)", p.Name(), c.report.Len()-before)
	}
	return nil
}
