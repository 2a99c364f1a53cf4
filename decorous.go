package decorous

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grindlemire/decorous/internal/component"
	"github.com/grindlemire/decorous/internal/config"
	"github.com/grindlemire/decorous/internal/debug"
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/syntax"
)

// Result is a compiled component.
type Result struct {
	Component *component.Component
	Source    *diag.Source
}

// Diagnostics returns the warnings and errors reported by the passes.
func (r *Result) Diagnostics() *diag.Report {
	return r.Component.Diagnostics()
}

// HasErrors reports whether any pass reported an error.
func (r *Result) HasErrors() bool {
	return r.Component.Diagnostics().HasErrors()
}

// FormatDiagnostics renders the diagnostics with file positions.
func (r *Result) FormatDiagnostics() string {
	return r.Component.Diagnostics().Format(r.Source)
}

type options struct {
	cfg      *config.Config
	pre      syntax.Preprocessor
	resolver component.UseResolver
	passes   []component.Pass
}

// Option configures Compile.
type Option func(*options)

// WithConfig compiles with cfg instead of the defaults. Its preprocessors are
// used unless WithPreprocessor is also given.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithPreprocessor sets the preprocessor for code blocks in other languages.
func WithPreprocessor(p syntax.Preprocessor) Option {
	return func(o *options) {
		o.pre = p
	}
}

// WithResolver sets the resolver of {#use} paths.
func WithResolver(r component.UseResolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithPasses replaces the standard passes. With no arguments no pass runs.
func WithPasses(passes ...component.Pass) Option {
	return func(o *options) {
		o.passes = append([]component.Pass{}, passes...)
	}
}

// Compile compiles the component src read from filename.
func Compile(filename, src string, opts ...Option) (*Result, error) {
	return CompileContext(context.Background(), filename, src, opts...)
}

// CompileContext is Compile with a context bounding compile-time evaluation.
// A syntax error is returned as a *syntax.ErrorList.
func CompileContext(ctx context.Context, filename, src string, opts ...Option) (*Result, error) {
	o := options{resolver: component.NullResolver{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cfg == nil {
		o.cfg = config.Defaults()
	}
	if o.pre == nil {
		o.pre = config.NewPipeline(o.cfg)
	}
	if o.passes == nil {
		o.passes = component.DefaultPasses(o.cfg.PassOptions())
	}

	debug.Log("compile %s: %d bytes", filename, len(src))
	ast, err := syntax.Parse(filename, src, syntax.WithPreprocessor(o.pre))
	if err != nil {
		debug.Log("compile %s: parse failed: %v", filename, err)
		return nil, err
	}

	c := component.New(ast)
	c.ResolveUses(o.resolver)
	if err := c.Run(ctx, o.passes...); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	debug.Log("compile %s: %d diagnostic(s)", filename, c.Diagnostics().Len())

	return &Result{Component: c, Source: diag.NewSource(filename, src)}, nil
}

// CompileFile reads and compiles a component file. Diagnostics name the file
// by its base name.
func CompileFile(ctx context.Context, path string, opts ...Option) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return CompileContext(ctx, filepath.Base(path), string(src), opts...)
}
