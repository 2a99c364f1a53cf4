package config

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/grindlemire/decorous/internal/debug"
	"github.com/grindlemire/decorous/internal/syntax"
)

// Pipeline runs configured preprocessors through the shell. It implements
// syntax.Preprocessor.
type Pipeline struct {
	Preprocessors map[string]Preprocessor
	// Dir is the working directory of the commands.
	Dir string
	// Timeout bounds each command. Zero means no limit.
	Timeout time.Duration
	// Shell runs each command as Shell -c command. Defaults to sh.
	Shell string
}

// NewPipeline returns a Pipeline over the preprocessors of cfg.
func NewPipeline(cfg *Config) *Pipeline {
	return &Pipeline{
		Preprocessors: cfg.Preprocessors,
		Dir:           cfg.BaseDir,
		Timeout:       time.Minute,
	}
}

// Preprocess implements syntax.Preprocessor. Languages without a configured
// preprocessor are left alone.
func (p *Pipeline) Preprocess(lang, body string) (syntax.Override, error) {
	pre, ok := p.Preprocessors[lang]
	if !ok {
		return syntax.Override{}, nil
	}

	out := body
	for i, command := range pre.Pipeline {
		var err error
		out, err = p.run(command, out)
		if err != nil {
			return syntax.Override{}, err
		}
		debug.Log("preprocessor %s: %q (%d/%d)", lang, command, i+1, len(pre.Pipeline))
	}

	kind := syntax.OverrideJS
	if pre.Target == TargetCSS {
		kind = syntax.OverrideCSS
	}
	return syntax.Override{Kind: kind, Body: out}, nil
}

func (p *Pipeline) run(command, stdin string) (string, error) {
	ctx := context.Background()
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	shell := p.Shell
	if shell == "" {
		shell = "sh"
	}
	cmd := exec.CommandContext(ctx, shell, "-c", command)
	cmd.Dir = p.Dir
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("`%s` failed: %w: %s", command, err, msg)
		}
		return "", fmt.Errorf("`%s` failed: %w", command, err)
	}
	return stdout.String(), nil
}
