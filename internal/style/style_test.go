package style

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Format(t *testing.T) {
	type tc struct {
		input    string
		expected string
	}

	tests := map[string]tc{
		"basic rule": {
			input:    "p { color: green; }",
			expected: "p { color: green; }",
		},
		"whitespace is collapsed": {
			input:    "p { color:green; background: red      ; }",
			expected: "p { color: green; background: red; }",
		},
		"multiple rules": {
			input:    "p { color: green; } h1 { color: red; }",
			expected: "p { color: green; }\nh1 { color: red; }",
		},
		"compound selectors": {
			input:    "p.green:has(h1, h2):hover::after { color: green; }",
			expected: "p.green:has(h1, h2):hover::after { color: green; }",
		},
		"selector list": {
			input:    "p::after,span.yellow { color: green; }",
			expected: "p::after, span.yellow { color: green; }",
		},
		"combinators": {
			input:    "ul>li   a+b~c { color: green; }",
			expected: "ul > li a + b ~ c { color: green; }",
		},
		"function values": {
			input:    "p { color: rgba(1, 2, 3, 4); font-family: \"Fira Mono\", monospace; }",
			expected: "p { color: rgba(1, 2, 3, 4); font-family: \"Fira Mono\", monospace; }",
		},
		"statement at-rule": {
			input:    "@import \"style.css\";",
			expected: "@import \"style.css\";",
		},
		"media query": {
			input:    "@media (hover: hover) { p { color: green; } }",
			expected: "@media (hover: hover) { p { color: green; } }",
		},
		"empty media query": {
			input:    "@media (hover: hover) {}",
			expected: "@media (hover: hover) { }",
		},
		"font face": {
			input:    "@font-face { font-family: x; src: url(x.woff); }",
			expected: "@font-face { font-family: x; src: url(x.woff); }",
		},
		"comments are dropped": {
			input:    "/* hi */ p { /* there */ color: green; }",
			expected: "p { color: green; }",
		},
		"attribute selector": {
			input:    "a[href^=\"http\"] { color: blue; }",
			expected: "a[href^=\"http\"] { color: blue; }",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sheet, err := Parse(tt.input, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, sheet.Format("decor"))
		})
	}
}

func TestParse_Mustaches(t *testing.T) {
	sheet, err := Parse("p { color: {color}; border: 1px solid {theme.border}; }", 10)
	require.NoError(t, err)

	ms := sheet.Mustaches()
	require.Len(t, ms, 2)
	assert.Equal(t, "color", ms[0].Expr.Source)
	assert.Equal(t, 22, ms[0].Expr.Offset)
	assert.Equal(t, "theme.border", ms[1].Expr.Source)
	assert.Equal(t, -1, ms[0].ID)

	ms[0].ID = 0
	ms[1].ID = 1
	assert.Equal(t, "p { color: var(--decor-0); border: 1px solid var(--decor-1); }", sheet.Format("decor"))
}

func TestParse_NestedMustacheBraces(t *testing.T) {
	sheet, err := Parse("p { color: {({a: 'red'}).a}; }", 0)
	require.NoError(t, err)
	ms := sheet.Mustaches()
	require.Len(t, ms, 1)
	assert.Equal(t, "({a: 'red'}).a", ms[0].Expr.Source)
}

func TestParse_Errors(t *testing.T) {
	type tc struct {
		input   string
		message string
	}

	tests := map[string]tc{
		"unclosed block": {
			input:   "p { color: green;",
			message: "unclosed block, expected '}'",
		},
		"missing brace": {
			input:   "p color: green;",
			message: "expected '{' after selector",
		},
		"missing colon": {
			input:   "p { color green; }",
			message: "expected ':' after property name",
		},
		"stray close": {
			input:   "}",
			message: "unexpected '}'",
		},
		"dangling combinator": {
			input:   "p > { color: green; }",
			message: "selector cannot end with a combinator",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(tt.input, 0)
			require.Error(t, err)
			var serr *Error
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.message, serr.Message)
		})
	}
}

func TestParse_BadMustache(t *testing.T) {
	_, err := Parse("p { color: {1 +}; }", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JavaScript error")
}

func TestSheet_Scope(t *testing.T) {
	type tc struct {
		input    string
		expected string
	}

	tests := map[string]tc{
		"simple": {
			input:    "p { color: green; }",
			expected: "p.decor-x { color: green; }",
		},
		"pseudos stay last": {
			input:    "p.green:hover::after { color: green; }",
			expected: "p.green.decor-x:hover::after { color: green; }",
		},
		"every compound": {
			input:    "ul > li a, h1 { color: green; }",
			expected: "ul.decor-x > li.decor-x a.decor-x, h1.decor-x { color: green; }",
		},
		"media is scoped": {
			input:    "@media print { p { color: black; } }",
			expected: "@media print { p.decor-x { color: black; } }",
		},
		"keyframes are not": {
			input:    "@keyframes spin { from { opacity: 0; } to { opacity: 1; } }",
			expected: "@keyframes spin { from { opacity: 0; } to { opacity: 1; } }",
		},
		"bare pseudo": {
			input:    ":root { color: red; }",
			expected: ":root { color: red; }",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sheet, err := Parse(tt.input, 0)
			require.NoError(t, err)
			sheet.Scope("decor-x")
			assert.Equal(t, tt.expected, sheet.Format("decor"))
		})
	}
}
