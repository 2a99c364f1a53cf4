package style

import (
	"fmt"
	"strings"

	"github.com/grindlemire/decorous/internal/script"
)

// Sheet is a parsed style block.
type Sheet struct {
	Rules []Rule
}

// Rule is either a *RegularRule or an *AtRule.
type Rule interface {
	rule()
	format(b *strings.Builder, prefix string)
}

// RegularRule is a selector list followed by a declaration block.
type RegularRule struct {
	Selectors    []Selector
	Declarations []Declaration
	Offset       int
}

// AtRule is an at-rule such as @media or @import. Statement at-rules have no
// block. Conditional group rules hold nested Rules; descriptor rules such as
// @font-face hold Declarations.
type AtRule struct {
	Name         string
	Prelude      string
	Block        bool
	Rules        []Rule
	Declarations []Declaration
	Offset       int
}

func (*RegularRule) rule() {}
func (*AtRule) rule()      {}

// Selector is one complex selector of a selector list.
type Selector struct {
	Parts []Part
}

// Part is a compound selector together with the combinator that joins it to
// the previous part. The first part has an empty combinator.
type Part struct {
	Combinator string
	Text       string
	Pseudos    []Pseudo
}

// Pseudo is a pseudo-class (:hover, :has(a, b)) or pseudo-element (::after).
type Pseudo struct {
	Element bool
	Name    string
	Arg     string
	HasArg  bool
}

// Declaration is a property and its value.
type Declaration struct {
	Property string
	Values   []Value
}

// Value is a run of literal CSS text or a mustache.
type Value struct {
	Text     string
	Mustache *Mustache
}

// Mustache is an embedded expression inside a declaration value. ID is the
// custom property index assigned by the component model, or -1.
type Mustache struct {
	Expr *script.Expr
	ID   int
}

func (p Pseudo) String() string {
	var b strings.Builder
	b.WriteByte(':')
	if p.Element {
		b.WriteByte(':')
	}
	b.WriteString(p.Name)
	if p.HasArg {
		b.WriteByte('(')
		b.WriteString(p.Arg)
		b.WriteByte(')')
	}
	return b.String()
}

func (p Part) String() string {
	var b strings.Builder
	b.WriteString(p.Text)
	for _, ps := range p.Pseudos {
		b.WriteString(ps.String())
	}
	return b.String()
}

func (s Selector) String() string {
	var b strings.Builder
	for i, p := range s.Parts {
		if i > 0 {
			if p.Combinator == " " || p.Combinator == "" {
				b.WriteByte(' ')
			} else {
				b.WriteString(" " + p.Combinator + " ")
			}
		}
		b.WriteString(p.String())
	}
	return b.String()
}

// Mustaches returns every mustache in the sheet in source order.
func (s *Sheet) Mustaches() []*Mustache {
	var out []*Mustache
	walkDeclarations(s.Rules, func(d *Declaration) {
		for _, v := range d.Values {
			if v.Mustache != nil {
				out = append(out, v.Mustache)
			}
		}
	})
	return out
}

func walkDeclarations(rules []Rule, fn func(*Declaration)) {
	for _, r := range rules {
		switch r := r.(type) {
		case *RegularRule:
			for i := range r.Declarations {
				fn(&r.Declarations[i])
			}
		case *AtRule:
			for i := range r.Declarations {
				fn(&r.Declarations[i])
			}
			walkDeclarations(r.Rules, fn)
		}
	}
}

// CustomProperty returns the name of the custom property bound to mustache
// id under the given class prefix.
func CustomProperty(prefix string, id int) string {
	return fmt.Sprintf("--%s-%d", prefix, id)
}

// Format renders the sheet. Mustaches become var() references named with
// prefix.
func (s *Sheet) Format(prefix string) string {
	var b strings.Builder
	for i, r := range s.Rules {
		if i > 0 {
			b.WriteByte('\n')
		}
		r.format(&b, prefix)
	}
	return b.String()
}

func (r *RegularRule) format(b *strings.Builder, prefix string) {
	for i, sel := range r.Selectors {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(sel.String())
	}
	b.WriteString(" {")
	formatDeclarations(b, r.Declarations, prefix)
	b.WriteString(" }")
}

func (r *AtRule) format(b *strings.Builder, prefix string) {
	b.WriteByte('@')
	b.WriteString(r.Name)
	if r.Prelude != "" {
		b.WriteByte(' ')
		b.WriteString(r.Prelude)
	}
	if !r.Block {
		b.WriteByte(';')
		return
	}
	b.WriteString(" {")
	if len(r.Rules) > 0 {
		for _, inner := range r.Rules {
			b.WriteByte(' ')
			inner.format(b, prefix)
		}
	} else {
		formatDeclarations(b, r.Declarations, prefix)
	}
	b.WriteString(" }")
}

func formatDeclarations(b *strings.Builder, decls []Declaration, prefix string) {
	for _, d := range decls {
		b.WriteByte(' ')
		b.WriteString(d.Property)
		b.WriteString(": ")
		for _, v := range d.Values {
			if v.Mustache == nil {
				b.WriteString(v.Text)
				continue
			}
			b.WriteString("var(")
			b.WriteString(CustomProperty(prefix, v.Mustache.ID))
			b.WriteByte(')')
		}
		b.WriteByte(';')
	}
}
