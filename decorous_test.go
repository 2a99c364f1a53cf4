package decorous

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/grindlemire/decorous/internal/component"
	"github.com/grindlemire/decorous/internal/config"
	"github.com/grindlemire/decorous/internal/diag"
	"github.com/grindlemire/decorous/internal/syntax"
)

const counter = "---js\nlet count = 0;\nlet unused = 1;\n---\n" +
	"#button[@click={() => count++}]:more\n" +
	"#p {count} /p"

func TestCompile(t *testing.T) {
	type tc struct {
		input    string
		warnings []string
		errors   []string
	}

	tests := map[string]tc{
		"counter": {
			input: counter,
		},
		"unbound name": {
			input:    "#p {missing} /p",
			warnings: []string{"possibly unbound variable: missing"},
		},
		"unknown element": {
			input:    "#foo/foo",
			warnings: []string{"unknown element: foo"},
		},
		"failing static block": {
			input:  "---js:static\nthrow new Error(\"nope\");\n---\n",
			errors: []string{"static block failed: Error: nope"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			result, err := Compile("test.decor", tt.input)
			if err != nil {
				t.Fatalf("Compile: %v", err)
			}

			if got := messages(result.Diagnostics().Warnings()); !slices.Equal(got, tt.warnings) {
				t.Errorf("warnings = %v, want %v", got, tt.warnings)
			}
			if got := messages(result.Diagnostics().Errors()); !slices.Equal(got, tt.errors) {
				t.Errorf("errors = %v, want %v", got, tt.errors)
			}
			if result.HasErrors() != (len(tt.errors) > 0) {
				t.Errorf("HasErrors() = %v", result.HasErrors())
			}
		})
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile("broken.decor", `#p[class="a"`)
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var list *syntax.ErrorList
	if !errors.As(err, &list) {
		t.Fatalf("error %T is not a *syntax.ErrorList", err)
	}
	if !strings.Contains(err.Error(), "broken.decor") {
		t.Errorf("error %q does not name the file", err)
	}
}

func TestCompile_Options(t *testing.T) {
	t.Run("config", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.ScopePrefix = "app"
		cfg.Warnings.Unbound = false

		result, err := Compile("test.decor", "---css\np { color: red; }\n---\n#p {missing} /p", WithConfig(cfg))
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if class := result.Component.ScopeClass(); !strings.HasPrefix(class, "app-") {
			t.Errorf("ScopeClass() = %q, want app- prefix", class)
		}
		if n := result.Diagnostics().Len(); n != 0 {
			t.Errorf("expected no diagnostics, got %s", result.FormatDiagnostics())
		}
	})

	t.Run("passes", func(t *testing.T) {
		result, err := Compile("test.decor", counter, WithPasses())
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if _, ok := result.Component.DeclaredVars().Var("unused"); !ok {
			t.Error("without passes nothing is removed")
		}

		result, err = Compile("test.decor", "#foo {missing} /foo", WithPasses())
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if n := result.Diagnostics().Len(); n != 0 {
			t.Errorf("expected no diagnostics without passes, got %s", result.FormatDiagnostics())
		}
	})

	t.Run("resolver", func(t *testing.T) {
		resolver := component.ResolveFunc(func(path string) (string, error) {
			return "/components/" + path, nil
		})
		result, err := Compile("test.decor", "{#use \"./header\"}", WithResolver(resolver))
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}
		if got := result.Component.Uses()[0]; got != "/components/./header" {
			t.Errorf("Uses()[0] = %q", got)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := CompileContext(ctx, "test.decor", counter)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("CompileContext() = %v, want context.Canceled", err)
		}
	})
}

func TestCompileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "counter.decor")
	if err := os.WriteFile(path, []byte(counter), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := CompileFile(context.Background(), path)
	if err != nil {
		t.Fatalf("CompileFile: %v", err)
	}
	if result.Source.Name != "counter.decor" {
		t.Errorf("Source.Name = %q, want the base name", result.Source.Name)
	}

	if _, err := CompileFile(context.Background(), filepath.Join(dir, "missing.decor")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestSummary(t *testing.T) {
	result, err := Compile("counter.decor", counter)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	s := result.Summary()

	if s.File != "counter.decor" {
		t.Errorf("File = %q", s.File)
	}
	if s.ContextLen != 3 {
		t.Errorf("ContextLen = %d, want 3", s.ContextLen)
	}
	if len(s.Vars) != 1 || s.Vars[0] != (Slot{Name: "count", Index: 0}) {
		t.Errorf("Vars = %v, want [{count 0}]", s.Vars)
	}
	if len(s.Toplevel) != 1 || s.Toplevel[0] != "let count = 0;" {
		t.Errorf("Toplevel = %q", s.Toplevel)
	}

	if len(s.Closures) != 1 {
		t.Fatalf("Closures = %v, want one", s.Closures)
	}
	closure := s.Closures[0]
	if closure.Index != 2 || closure.Code != "() => __schedule_update(0, (count++, count))" {
		t.Errorf("Closures[0] = %+v", closure)
	}

	var button, mustache *NodeSummary
	for i := range s.Nodes {
		switch s.Nodes[i].Kind {
		case "element":
			if s.Nodes[i].Tag == "button" {
				button = &s.Nodes[i]
			}
		case "mustache":
			mustache = &s.Nodes[i]
		}
	}
	if button == nil || len(button.Exprs) != 1 || button.Exprs[0].Code != "ctx[2]" {
		t.Errorf("button = %+v, want the click handler read from ctx[2]", button)
	}
	if mustache == nil {
		t.Fatal("no mustache node")
	}
	want := Expression{Code: "ctx[0]", Dirty: "dirty[0] & 1"}
	if len(mustache.Exprs) != 1 || mustache.Exprs[0] != want {
		t.Errorf("mustache exprs = %+v, want %+v", mustache.Exprs, want)
	}
	if mustache.Parent == nil {
		t.Error("mustache must have the paragraph as parent")
	}

	if !strings.Contains(s.Runtime, "new Uint8Array(1)") {
		t.Errorf("Runtime = %q", s.Runtime)
	}
}

func TestSummary_Encoding(t *testing.T) {
	result, err := Compile("test.decor", "#p {missing} /p")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	s := result.Summary()

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	for _, want := range []string{`"position":"test.decor:1:5"`, `"severity":"warning"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("json %s missing %s", data, want)
		}
	}

	out, err := yaml.Marshal(s)
	if err != nil {
		t.Fatalf("yaml: %v", err)
	}
	if !strings.Contains(string(out), "severity: warning") {
		t.Errorf("yaml output missing severity:\n%s", out)
	}
}

func messages(ds []diag.Diagnostic) []string {
	var out []string
	for _, d := range ds {
		out = append(out, d.Message)
	}
	return out
}
