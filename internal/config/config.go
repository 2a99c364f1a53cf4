// Package config loads decorous.yaml.
package config

import (
	"time"

	"github.com/grindlemire/decorous/internal/component"
)

// Config is the compiler configuration.
type Config struct {
	ScopePrefix   string                  `yaml:"scope_prefix"`
	Warnings      WarningsConfig          `yaml:"warnings"`
	Elements      ElementsConfig          `yaml:"elements"`
	Static        StaticConfig            `yaml:"static"`
	Preprocessors map[string]Preprocessor `yaml:"preprocessors"`

	// BaseDir is the directory of the loaded file, or "" for defaults.
	BaseDir string `yaml:"-"`
}

// WarningsConfig toggles optional warnings.
type WarningsConfig struct {
	Unbound bool `yaml:"unbound"`
}

// ElementsConfig configures the element lint.
type ElementsConfig struct {
	Lint bool `yaml:"lint"`
}

// StaticConfig configures compile-time evaluation.
type StaticConfig struct {
	Timeout time.Duration `yaml:"timeout"`
}

// Target is the language a preprocessor produces.
type Target string

const (
	TargetJS  Target = "js"
	TargetCSS Target = "css"
)

// Preprocessor turns a code block in some language into JavaScript or CSS by
// piping it through shell commands in order.
type Preprocessor struct {
	Pipeline []string `yaml:"pipeline"`
	Target   Target   `yaml:"target"`
}

// Defaults returns the configuration used when no file is found. Loaded
// files are decoded on top of it.
func Defaults() *Config {
	return &Config{
		ScopePrefix: component.DefaultScopePrefix,
		Warnings:    WarningsConfig{Unbound: true},
		Elements:    ElementsConfig{Lint: true},
		Static:      StaticConfig{Timeout: 5 * time.Second},
		Preprocessors: map[string]Preprocessor{
			"scss": {Pipeline: []string{"sass --stdin"}, Target: TargetCSS},
			"sass": {Pipeline: []string{"sass --stdin --indented"}, Target: TargetCSS},
			"ts":   {Pipeline: []string{"tsc --outFile /dev/stdout /dev/stdin"}, Target: TargetJS},
		},
	}
}

// PassOptions returns the options of the standard passes.
func (c *Config) PassOptions() component.Options {
	return component.Options{
		ScopePrefix:   c.ScopePrefix,
		WarnUnbound:   c.Warnings.Unbound,
		LintElements:  c.Elements.Lint,
		StaticTimeout: c.Static.Timeout,
	}
}
