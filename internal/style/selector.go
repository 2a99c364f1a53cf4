package style

import (
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// parseSelectors splits a selector prelude into complex selectors.
func (p *parser) parseSelectors(toks []token) ([]Selector, error) {
	var out []Selector
	start := 0
	depth := 0
	for i, t := range toks {
		switch t.tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.CommaToken:
			if depth > 0 {
				continue
			}
			sel, err := p.parseSelector(toks[start:i])
			if err != nil {
				return nil, err
			}
			out = append(out, sel)
			start = i + 1
		}
	}
	sel, err := p.parseSelector(toks[start:])
	if err != nil {
		return nil, err
	}
	return append(out, sel), nil
}

func (p *parser) parseSelector(toks []token) (Selector, error) {
	var sel Selector
	var cur Part
	comb := ""
	started := false

	begin := func() {
		if !started {
			started = true
			return
		}
		if comb == "" {
			return
		}
		sel.Parts = append(sel.Parts, cur)
		cur = Part{Combinator: comb}
		comb = ""
	}

	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.tt {
		case css.WhitespaceToken, css.CommentToken:
			if started && comb == "" {
				comb = " "
			}
		case css.DelimToken:
			if t.text == ">" || t.text == "+" || t.text == "~" {
				if !started {
					return sel, p.errorf(t.off, "selector cannot start with a combinator")
				}
				comb = t.text
				continue
			}
			begin()
			cur.Text += t.text
		case css.ColonToken:
			begin()
			ps, next, err := p.parsePseudo(toks, i)
			if err != nil {
				return sel, err
			}
			cur.Pseudos = append(cur.Pseudos, ps)
			i = next - 1
		case css.LeftBracketToken:
			begin()
			end := matching(toks, i, css.RightBracketToken)
			cur.Text += rawTokens(toks[i:end])
			i = end - 1
		default:
			begin()
			cur.Text += t.text
		}
	}
	if !started {
		off := len(p.src)
		if len(toks) > 0 {
			off = toks[0].off
		}
		return sel, p.errorf(off, "expected a selector")
	}
	if comb != "" && comb != " " {
		return sel, p.errorf(toks[len(toks)-1].off, "selector cannot end with a combinator")
	}
	sel.Parts = append(sel.Parts, cur)
	return sel, nil
}

// parsePseudo parses a pseudo-class or pseudo-element starting at the colon
// at toks[i]. It returns the index of the first token after it.
func (p *parser) parsePseudo(toks []token, i int) (Pseudo, int, error) {
	var ps Pseudo
	i++
	if i < len(toks) && toks[i].tt == css.ColonToken {
		ps.Element = true
		i++
	}
	if i >= len(toks) {
		return ps, i, p.errorf(toks[i-1].off, "expected a pseudo-class name")
	}
	t := toks[i]
	switch t.tt {
	case css.IdentToken:
		ps.Name = t.text
		return ps, i + 1, nil
	case css.FunctionToken:
		ps.Name = strings.TrimSuffix(t.text, "(")
		ps.HasArg = true
		end := matching(toks, i, css.RightParenthesisToken)
		if end-1 > i && toks[end-1].tt == css.RightParenthesisToken {
			ps.Arg = strings.TrimSpace(rawTokens(toks[i+1 : end-1]))
		} else {
			ps.Arg = strings.TrimSpace(rawTokens(toks[i+1 : end]))
		}
		return ps, end, nil
	}
	return ps, i, p.errorf(t.off, "expected a pseudo-class name")
}

// matching returns the index just past the token closing the group opened at
// toks[i], or len(toks) when it is unclosed.
func matching(toks []token, i int, closer css.TokenType) int {
	depth := 0
	for j := i; j < len(toks); j++ {
		switch toks[j].tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			depth--
			if depth == 0 && toks[j].tt == closer {
				return j + 1
			}
		}
	}
	return len(toks)
}

func rawTokens(toks []token) string {
	var b strings.Builder
	for _, t := range toks {
		if t.tt == css.WhitespaceToken {
			b.WriteByte(' ')
			continue
		}
		b.WriteString(t.text)
	}
	return b.String()
}
