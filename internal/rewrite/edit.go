package rewrite

import (
	"cmp"
	"slices"
	"strings"
)

type editKind int

// At one position, closing text ends what came before, opening text starts
// what follows, and a replacement consumes the source after both.
const (
	editClose editKind = iota
	editOpen
	editReplace
)

type edit struct {
	pos  int
	end  int // equal to pos for insertions
	kind editKind
	// order breaks ties within a kind: inner closes before outer ones and
	// outer opens before inner ones.
	order int
	text  string
}

func replaceSpan(start, end int, text string) edit {
	return edit{pos: start, end: end, kind: editReplace, text: text}
}

func wrapSpan(start, end int, opening, closing string) []edit {
	return []edit{
		{pos: start, end: start, kind: editOpen, order: -end, text: opening},
		{pos: end, end: end, kind: editClose, order: -start, text: closing},
	}
}

// apply applies non-overlapping edits to src in one pass.
func apply(src string, edits []edit) string {
	if len(edits) == 0 {
		return src
	}
	slices.SortStableFunc(edits, func(a, b edit) int {
		return cmp.Or(
			cmp.Compare(a.pos, b.pos),
			cmp.Compare(a.kind, b.kind),
			cmp.Compare(a.order, b.order),
		)
	})

	var b strings.Builder
	last := 0
	for _, e := range edits {
		if e.pos < last {
			panic("internal error: overlapping rewrite edits")
		}
		b.WriteString(src[last:e.pos])
		b.WriteString(e.text)
		last = e.end
	}
	b.WriteString(src[last:])
	return b.String()
}
