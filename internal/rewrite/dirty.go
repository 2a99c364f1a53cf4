package rewrite

import (
	"fmt"
	"slices"
	"strings"

	"github.com/grindlemire/decorous/internal/component"
	"github.com/grindlemire/decorous/internal/script"
)

// DirtyIndex is one byte of the dirty bitmap and the bits of it an
// expression depends on.
type DirtyIndex struct {
	Byte uint32
	Mask uint8
}

// DirtyIndices is the dirty guard of an expression, ordered by byte.
type DirtyIndices []DirtyIndex

// IsEmpty reports whether the expression depends on no reactive slot.
func (d DirtyIndices) IsEmpty() bool {
	return len(d) == 0
}

// String renders the guard as a JavaScript condition, for example
// "dirty[0] & 3 || dirty[1] & 1". It is empty when d is empty.
func (d DirtyIndices) String() string {
	parts := make([]string, len(d))
	for i, idx := range d {
		parts[i] = fmt.Sprintf("dirty[%d] & %d", idx.Byte, idx.Mask)
	}
	return strings.Join(parts, " || ")
}

// Position returns where slot idx lives in the dirty bitmap.
func Position(idx uint32) DirtyIndex {
	return DirtyIndex{Byte: idx / 8, Mask: 1 << (idx % 8)}
}

// CalcDirty returns the bits that must be checked before re-running code.
// Names bound by the loop scope the code lives in are rebound on every
// iteration and never contribute.
func CalcDirty(code *script.Code, vars *component.DeclaredVariables, scope *uint32) DirtyIndices {
	var out DirtyIndices
	for _, ref := range code.UnboundRefs() {
		if scope != nil && vars.IsScopeVar(ref.Name, *scope) {
			continue
		}
		idx, ok := vars.Var(ref.Name)
		if !ok {
			continue
		}
		pos := Position(idx)
		if i := slices.IndexFunc(out, func(d DirtyIndex) bool { return d.Byte == pos.Byte }); i >= 0 {
			out[i].Mask |= pos.Mask
			continue
		}
		out = append(out, pos)
	}
	slices.SortFunc(out, func(a, b DirtyIndex) int {
		return int(a.Byte) - int(b.Byte)
	})
	return out
}
