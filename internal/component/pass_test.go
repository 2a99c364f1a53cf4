package component

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/grindlemire/decorous/internal/script"
)

func runPasses(t *testing.T, c *Component, passes ...Pass) {
	t.Helper()
	if err := c.Run(context.Background(), passes...); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func hasStmt(stmts []*script.Statement, prefix string) bool {
	for _, s := range stmts {
		if strings.HasPrefix(s.Trimmed(), prefix) {
			return true
		}
	}
	return false
}

func toplevelHas(c *Component, prefix string) bool {
	for _, t := range c.ToplevelNodes() {
		if strings.HasPrefix(t.Stmt.Trimmed(), prefix) {
			return true
		}
	}
	return false
}

func TestDepAnalysis(t *testing.T) {
	type tc struct {
		input        string
		wantToplevel []string
		wantHoisted  []string
		wantRemoved  []string
		wantVars     []string
	}

	tests := map[string]tc{
		"dead code": {
			input:       "---js\nlet unused = 1;\nlet used = 2;\n---\n{used}",
			wantHoisted: []string{"let used"},
			wantRemoved: []string{"let unused"},
		},
		"static hoisting": {
			input:       "---js\nlet x = 3;\n---\n{x}",
			wantHoisted: []string{"let x"},
		},
		"mutated by handler": {
			input:        "---js\nlet count = 0;\n---\n#button[@click={() => count++}]:{count}\n",
			wantToplevel: []string{"let count"},
			wantVars:     []string{"count"},
		},
		"mutation is transitive": {
			input: "---js\nlet count = 0;\nlet doubled = count * 2;\nlet quad = doubled * 2;\n---\n" +
				"{quad}#button[@click={() => count++}]:inc\n",
			wantToplevel: []string{"let count", "let doubled", "let quad"},
			wantVars:     []string{"count", "doubled", "quad"},
		},
		"usage is transitive": {
			input:       "---js\nlet base = 1;\nlet derived = base + 1;\n---\n{derived}",
			wantHoisted: []string{"let base", "let derived"},
		},
		"binding mutates": {
			input:        "---js\nlet name = \"\";\n---\n#input[:name:]/input",
			wantToplevel: []string{"let name"},
			wantVars:     []string{"name"},
		},
		"toplevel statement mutates and uses": {
			input:        "---js\nlet n = 0;\nsetInterval(() => n++, 1000);\n---\n",
			wantToplevel: []string{"let n", "setInterval"},
			wantVars:     []string{"n"},
		},
		"unused function": {
			input:       "---js\nfunction helper() {}\n---\n#p:hi\n",
			wantRemoved: []string{"function helper"},
		},
		"loop binding shadows": {
			input:       "---js\nlet item = 1;\nlet items = [2];\n---\n{#for item in items}{item}{/for}",
			wantHoisted: []string{"let items"},
			wantRemoved: []string{"let item ="},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newComponent(t, tt.input)
			runPasses(t, c, &DepAnalysisPass{})

			for _, want := range tt.wantToplevel {
				if !toplevelHas(c, want) {
					t.Errorf("expected %q in toplevel nodes", want)
				}
			}
			for _, want := range tt.wantHoisted {
				if !hasStmt(c.Hoist(), want) {
					t.Errorf("expected %q in hoist", want)
				}
				if toplevelHas(c, want) {
					t.Errorf("%q must leave the toplevel nodes", want)
				}
			}
			for _, want := range tt.wantRemoved {
				if toplevelHas(c, want) || hasStmt(c.Hoist(), want) {
					t.Errorf("%q must be removed", want)
				}
			}

			got := c.DeclaredVars().Vars()
			if len(got) != len(tt.wantVars) {
				t.Fatalf("Vars() = %v, want %v", got, tt.wantVars)
			}
			for i, name := range tt.wantVars {
				if got[i].Name != name {
					t.Errorf("Vars()[%d] = %s, want %s", i, got[i].Name, name)
				}
			}
		})
	}
}

func TestDepAnalysis_HoistKeepsOrder(t *testing.T) {
	src := "---js\nimport a from \"./a.js\";\nlet base = a;\nlet derived = base + 1;\n---\n{derived}"
	c := newComponent(t, src)
	runPasses(t, c, &DepAnalysisPass{})

	hoist := c.Hoist()
	if len(hoist) != 3 {
		t.Fatalf("expected 3 hoisted statements, got %d", len(hoist))
	}
	if !hoist[0].IsImport() {
		t.Error("the import must stay first")
	}
	if !strings.HasPrefix(hoist[1].Trimmed(), "let base") || !strings.HasPrefix(hoist[2].Trimmed(), "let derived") {
		t.Errorf("hoist order = %q, %q", hoist[1].Trimmed(), hoist[2].Trimmed())
	}
}

func TestDepAnalysis_UnboundWarnings(t *testing.T) {
	type tc struct {
		input string
		want  []string
	}

	tests := map[string]tc{
		"one warning per name": {
			input: "---js\nlet a = 1;\n---\n{a}{missing}{missing + Math.max(a, 1)}",
			want:  []string{"missing"},
		},
		"loop bindings are bound": {
			input: "{#for item, i in [1, 2]}{item}{i}{/for}",
		},
		"globals are bound": {
			input: "{window.innerWidth}{JSON.stringify({})}",
		},
		"imports are bound": {
			input: "---js\nimport { fmt } from \"./fmt.js\";\n---\n{fmt(1)}",
		},
		"reactive assignment binds": {
			input: "---js\nlet a = 1;\n$: doubled = a * 2;\n---\n{doubled}",
		},
		"handler and binding": {
			input: "#input[:nope: @input={() => other++}]/input",
			want:  []string{"nope", "other"},
		},
		"local parameters": {
			input: "{[1].map((v) => v * 2)}",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newComponent(t, tt.input)
			runPasses(t, c, &DepAnalysisPass{WarnUnbound: true})

			warnings := c.Diagnostics().Warnings()
			if len(warnings) != len(tt.want) {
				t.Fatalf("got %d warnings %v, want %v", len(warnings), warnings, tt.want)
			}
			for i, name := range tt.want {
				if want := "possibly unbound variable: " + name; warnings[i].Message != want {
					t.Errorf("warning %d = %q, want %q", i, warnings[i].Message, want)
				}
			}
		})
	}
}

func TestDepAnalysis_UnboundWarningOffset(t *testing.T) {
	src := "---js\nlet a = 1;\n---\n{a}{missing}"
	c := newComponent(t, src)
	runPasses(t, c, &DepAnalysisPass{WarnUnbound: true})

	warnings := c.Diagnostics().Warnings()
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if want := strings.Index(src, "missing"); warnings[0].Offset != want {
		t.Errorf("Offset = %d, want %d", warnings[0].Offset, want)
	}
}

func TestDepAnalysis_WarningsDisabled(t *testing.T) {
	c := newComponent(t, "{missing}")
	runPasses(t, c, &DepAnalysisPass{})

	if n := c.Diagnostics().Len(); n != 0 {
		t.Errorf("expected no diagnostics, got %d", n)
	}
}

func TestCSSPass(t *testing.T) {
	src := "---css\np { color: {color}; }\nh1, .title:hover { margin: 0; }\n---\n" +
		"---js\nlet color = \"red\";\nsetTimeout(() => color = \"blue\", 10);\n---\n" +
		"#div #p:hi\n/div"
	c := newComponent(t, src)
	runPasses(t, c, &CSSPass{}, &DepAnalysisPass{})

	class := c.ScopeClass()
	if !strings.HasPrefix(class, "decor-") {
		t.Fatalf("ScopeClass() = %q, want decor- prefix", class)
	}
	styled := c.StyledElements()
	if len(styled) != 2 || styled[0] != 0 || styled[1] != 1 {
		t.Errorf("StyledElements() = %v, want [0 1]", styled)
	}

	mustaches := c.CSSMustaches()
	if len(mustaches) != 1 || mustaches[0].Index != 0 {
		t.Fatalf("CSSMustaches() = %v, want one at index 0", mustaches)
	}

	text := c.StyleText()
	for _, want := range []string{
		"p." + class + " {",
		"h1." + class + ", .title." + class + ":hover",
		"var(--decor-0)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("StyleText() = %q, missing %q", text, want)
		}
	}

	// The CSS mustache reads color, and the timeout writes it.
	if !toplevelHas(c, "let color") {
		t.Error("color must stay reactive")
	}
}

func TestCSSPass_ScopeClass(t *testing.T) {
	classOf := func(src, prefix string) string {
		c := newComponent(t, src)
		runPasses(t, c, &CSSPass{Prefix: prefix})
		return c.ScopeClass()
	}

	a := classOf("---css\np { color: red; }\n---\n", "")
	if again := classOf("---css\np { color: red; }\n---\n", ""); again != a {
		t.Errorf("scope class not stable: %q vs %q", a, again)
	}
	if other := classOf("---css\np { color: blue; }\n---\n", ""); other == a {
		t.Errorf("different sheets share scope class %q", a)
	}
	if custom := classOf("---css\np { color: red; }\n---\n", "app"); !strings.HasPrefix(custom, "app-") {
		t.Errorf("scope class %q ignores prefix", custom)
	}
	if none := classOf("#p:hi\n", ""); none != "" {
		t.Errorf("component without styles has scope class %q", none)
	}
}

func TestStaticPass(t *testing.T) {
	src := "---js:static\nconst greeting = \"hi\";\nconst nums = [1, 2].map((n) => n * 2);\nfunction skipped() {}\n---\n" +
		"---js\nlet other = 1;\n---\n{greeting}{nums}{other}"
	c := newComponent(t, src)
	runPasses(t, c, &StaticPass{})

	if c.Diagnostics().HasErrors() {
		t.Fatalf("unexpected errors: %v", c.Diagnostics().Errors())
	}
	top := c.ToplevelNodes()
	if len(top) != 3 {
		t.Fatalf("expected 3 toplevel nodes, got %d", len(top))
	}
	if got := top[0].Stmt.Trimmed(); got != `let greeting = "hi";` {
		t.Errorf("toplevel 0 = %q", got)
	}
	if got := top[1].Stmt.Trimmed(); got != `let nums = [2,4];` {
		t.Errorf("toplevel 1 = %q", got)
	}
	if !strings.HasPrefix(top[2].Stmt.Trimmed(), "let other") {
		t.Errorf("toplevel 2 = %q", top[2].Stmt.Trimmed())
	}

	vars := c.DeclaredVars()
	if id, ok := vars.Var("greeting"); !ok || id != 1 {
		t.Errorf("greeting slot = %d, %v, want 1", id, ok)
	}
	if _, ok := vars.Var("skipped"); ok {
		t.Error("functions cannot be exported from a static block")
	}

	runPasses(t, c, &DepAnalysisPass{WarnUnbound: true})
	if !hasStmt(c.Hoist(), "let greeting") {
		t.Error("unmutated static binding must be hoisted")
	}
	if n := len(c.Diagnostics().Warnings()); n != 0 {
		t.Errorf("unexpected warnings: %v", c.Diagnostics().Warnings())
	}
}

func TestStaticPass_Errors(t *testing.T) {
	type tc struct {
		input   string
		timeout time.Duration
		want    string
	}

	tests := map[string]tc{
		"throws": {
			input: "---js:static\nthrow new Error(\"boom\");\n---\n",
			want:  "static block failed: Error: boom",
		},
		"not javascript": {
			input: "---ts:static\nconst a: number = 1;\n---\n",
			want:  "static blocks must be JavaScript",
		},
		"conflicts with script": {
			input: "---js\nlet a = 1;\n---\n---js:static\nlet a = 2;\n---\n{a}",
			want:  "static binding a is also declared by the script",
		},
		"runs forever": {
			input:   "---js:static\nwhile (true) {}\n---\n",
			timeout: 50 * time.Millisecond,
			want:    "interrupted",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newComponent(t, tt.input)
			runPasses(t, c, &StaticPass{Timeout: tt.timeout})

			errs := c.Diagnostics().Errors()
			if len(errs) != 1 {
				t.Fatalf("expected 1 error, got %v", errs)
			}
			if !strings.Contains(errs[0].Message, tt.want) {
				t.Errorf("error = %q, want it to contain %q", errs[0].Message, tt.want)
			}
		})
	}
}

func TestElementLintPass(t *testing.T) {
	type tc struct {
		input string
		want  []string
	}

	tests := map[string]tc{
		"html":            {input: "#div #span:a\n/div"},
		"unknown":         {input: "#foo/foo", want: []string{"unknown element: foo"}},
		"custom element":  {input: "#my-widget/my-widget"},
		"component name":  {input: "#Widget/Widget"},
		"svg content":     {input: "#svg #circle/circle #foo/foo /svg"},
		"nested unknown":  {input: "#ul #li #bar/bar /li /ul", want: []string{"unknown element: bar"}},
		"attribute atoms": {input: "#href/href", want: []string{"unknown element: href"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			c := newComponent(t, tt.input)
			runPasses(t, c, &ElementLintPass{})

			warnings := c.Diagnostics().Warnings()
			if len(warnings) != len(tt.want) {
				t.Fatalf("got warnings %v, want %v", warnings, tt.want)
			}
			for i, want := range tt.want {
				if warnings[i].Message != want {
					t.Errorf("warning %d = %q, want %q", i, warnings[i].Message, want)
				}
			}
		})
	}
}

func TestResolveUses(t *testing.T) {
	src := "{#use \"./card.decor\"}#div {#use \"./missing.decor\"} /div"

	c := newComponent(t, src)
	c.ResolveUses(NullResolver{})
	if got := c.Uses()[0]; got != "./card.decor" {
		t.Errorf("Uses()[0] = %q, want ./card.decor", got)
	}
	if got := c.Uses()[2]; got != "./missing.decor" {
		t.Errorf("Uses()[2] = %q, want ./missing.decor", got)
	}

	c = newComponent(t, src)
	c.ResolveUses(ResolveFunc(func(path string) (string, error) {
		if strings.Contains(path, "missing") {
			return "", errors.New("no such file")
		}
		return "/abs/" + path, nil
	}))
	if got := c.Uses()[0]; got != "/abs/./card.decor" {
		t.Errorf("Uses()[0] = %q", got)
	}
	if _, ok := c.Uses()[2]; ok {
		t.Error("failed use must not be recorded")
	}
	errs := c.Diagnostics().Errors()
	if len(errs) != 1 || !strings.Contains(errs[0].Message, "no such file") {
		t.Errorf("errors = %v, want one resolution failure", errs)
	}
}

type failingPass struct{}

func (failingPass) Name() string { return "failing" }

func (failingPass) Run(context.Context, *Component) error { return errors.New("broken") }

func TestRun(t *testing.T) {
	c := newComponent(t, "---js\nlet a = 1;\n---\n{a}")
	if err := c.Run(context.Background(), DefaultPasses(DefaultOptions())...); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !hasStmt(c.Hoist(), "let a") {
		t.Error("default passes must hoist a")
	}

	err := c.Run(context.Background(), failingPass{})
	if err == nil || err.Error() != "failing pass: broken" {
		t.Errorf("err = %v, want 'failing pass: broken'", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Run(ctx, &DepAnalysisPass{}); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestDepGraph(t *testing.T) {
	c := newComponent(t, "---js\nlet a = 1;\nlet b = a;\nlet c = b + a;\nlet d = 4;\n---\n")
	g := NewDepGraph(c.ToplevelNodes())

	if n := len(g.Declarations()); n != 4 {
		t.Fatalf("expected 4 declarations, got %d", n)
	}
	a, _ := g.Lookup("a")
	cDecl, _ := g.Lookup("c")
	if got := len(g.Dependents(a)); got != 2 {
		t.Errorf("a has %d dependents, want 2", got)
	}
	if got := len(g.Dependencies(cDecl)); got != 2 {
		t.Errorf("c has %d dependencies, want 2", got)
	}

	if !g.MarkMutated("a") {
		t.Fatal("MarkMutated(a) = false")
	}
	if g.MarkMutated("nope") {
		t.Error("MarkMutated(nope) = true")
	}
	for _, name := range []string{"a", "b", "c"} {
		if d, _ := g.Lookup(name); !d.Mutated {
			t.Errorf("%s not mutated", name)
		}
	}
	if d, _ := g.Lookup("d"); d.Mutated {
		t.Error("d must not be mutated")
	}

	g.MarkUsed("c")
	unused := g.Unused()
	if len(unused) != 1 || unused[0].Names[0] != "d" {
		t.Errorf("Unused() = %v, want d", unused)
	}
	if got := g.Unmutated(); len(got) != 0 {
		t.Errorf("Unmutated() = %v, want none", got)
	}
}
