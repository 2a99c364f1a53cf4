package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grindlemire/decorous/internal/syntax"
)

func noEnv(string) string { return "" }

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "decor", cfg.ScopePrefix)
	assert.True(t, cfg.Warnings.Unbound)
	assert.True(t, cfg.Elements.Lint)
	assert.Equal(t, 5*time.Second, cfg.Static.Timeout)
	assert.Equal(t, TargetCSS, cfg.Preprocessors["scss"].Target)
	assert.Equal(t, TargetJS, cfg.Preprocessors["ts"].Target)

	opts := cfg.PassOptions()
	assert.Equal(t, "decor", opts.ScopePrefix)
	assert.True(t, opts.WarnUnbound)
	assert.True(t, opts.LintElements)
	assert.Equal(t, 5*time.Second, opts.StaticTimeout)
}

func TestInterpolateEnv(t *testing.T) {
	getenv := func(key string) string {
		switch key {
		case "PREFIX":
			return "app"
		case "SASS":
			return "/opt/sass"
		}
		return ""
	}

	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"simple":           {input: "scope_prefix: ${PREFIX}", want: "scope_prefix: app"},
		"default unused":   {input: "scope_prefix: ${PREFIX:-x}", want: "scope_prefix: app"},
		"default used":     {input: "scope_prefix: ${UNSET:-x}", want: "scope_prefix: x"},
		"unset":            {input: "scope_prefix: ${UNSET}", want: "scope_prefix: "},
		"several":          {input: "${SASS} --stdin ${PREFIX}", want: "/opt/sass --stdin app"},
		"no interpolation": {input: "scope_prefix: $PREFIX", want: "scope_prefix: $PREFIX"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(interpolateEnv([]byte(tt.input), getenv)))
		})
	}
}

func TestParse(t *testing.T) {
	data := `
scope_prefix: ${PREFIX:-app}
warnings:
  unbound: false
static:
  timeout: 250ms
preprocessors:
  less:
    pipeline: ["lessc -"]
    target: css
`
	cfg, err := Parse([]byte(data), noEnv)
	require.NoError(t, err)

	assert.Equal(t, "app", cfg.ScopePrefix)
	assert.False(t, cfg.Warnings.Unbound)
	assert.True(t, cfg.Elements.Lint, "unset fields keep their defaults")
	assert.Equal(t, 250*time.Millisecond, cfg.Static.Timeout)
	assert.Equal(t, []string{"lessc -"}, cfg.Preprocessors["less"].Pipeline)
	assert.Contains(t, cfg.Preprocessors, "scss", "default preprocessors are kept")
}

func TestParse_Invalid(t *testing.T) {
	type tc struct {
		input string
		want  string
	}

	tests := map[string]tc{
		"bad yaml": {
			input: "scope_prefix: [",
			want:  "failed to parse config",
		},
		"bad prefix": {
			input: "scope_prefix: 1abc",
			want:  `invalid scope_prefix "1abc"`,
		},
		"negative timeout": {
			input: "static:\n  timeout: -1s",
			want:  "static.timeout must not be negative",
		},
		"bad target": {
			input: "preprocessors:\n  coffee:\n    pipeline: [coffee -sc]\n    target: wasm",
			want:  "preprocessors.coffee: target must be 'js' or 'css'",
		},
		"empty pipeline": {
			input: "preprocessors:\n  coffee:\n    target: js",
			want:  "preprocessors.coffee: pipeline is required",
		},
		"built-in language": {
			input: "preprocessors:\n  css:\n    pipeline: [cat]\n    target: css",
			want:  "preprocessors.css: built-in languages cannot be preprocessed",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), noEnv)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte("scope_prefix: site\n"), 0o644))

	cfg, err := Load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "site", cfg.ScopePrefix)
	assert.Equal(t, dir, cfg.BaseDir)

	fromEnv, err := Load("", func(key string) string {
		if key == EnvVar {
			return path
		}
		return ""
	})
	require.NoError(t, err)
	assert.Equal(t, "site", fromEnv.ScopePrefix)

	_, err = Load(filepath.Join(dir, "missing.yaml"), noEnv)
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoad_NoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
}

func TestPipeline(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pipelines run through sh")
	}

	p := &Pipeline{
		Preprocessors: map[string]Preprocessor{
			"upper": {Pipeline: []string{"tr a-z A-Z", "sed 's/COLOR/color/'"}, Target: TargetCSS},
			"js":    {Pipeline: []string{"cat"}, Target: TargetJS},
			"fails": {Pipeline: []string{"echo broken >&2; exit 3"}, Target: TargetJS},
		},
		Timeout: 10 * time.Second,
	}

	ov, err := p.Preprocess("upper", "p { color: red; }")
	require.NoError(t, err)
	assert.Equal(t, syntax.OverrideCSS, ov.Kind)
	assert.Equal(t, "P { color: RED; }", strings.TrimSpace(ov.Body))

	ov, err = p.Preprocess("js", "let a = 1;")
	require.NoError(t, err)
	assert.Equal(t, syntax.Override{Kind: syntax.OverrideJS, Body: "let a = 1;"}, ov)

	ov, err = p.Preprocess("rust", "fn main() {}")
	require.NoError(t, err)
	assert.Equal(t, syntax.OverrideNone, ov.Kind)

	_, err = p.Preprocess("fails", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestPipeline_InParser(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("pipelines run through sh")
	}

	p := &Pipeline{Preprocessors: map[string]Preprocessor{
		"scss": {Pipeline: []string{"cat"}, Target: TargetCSS},
	}}
	ast, err := syntax.Parse("test.decor", "---scss\np { color: red; }\n---\n#p:hi\n", syntax.WithPreprocessor(p))
	require.NoError(t, err)
	require.NotNil(t, ast.Style)
	assert.Nil(t, ast.Foreign)
}
