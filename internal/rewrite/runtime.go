package rewrite

import (
	"fmt"
	"strings"
)

// DirtyLen returns the number of bytes in the dirty bitmap of a context with
// ctxLen slots.
func DirtyLen(ctxLen uint32) uint32 {
	if ctxLen == 0 {
		return 1
	}
	return (ctxLen + 7) / 8
}

// Runtime returns the scheduler that every rewritten write calls. Writes are
// visible immediately; the first write after a flush queues one microtask
// that hands the accumulated bitmap to fragment.u and then clears it, so any
// number of synchronous writes cause one update pass.
func Runtime(ctxLen uint32) string {
	var b strings.Builder
	fmt.Fprintf(&b, "const dirty = new Uint8Array(%d);\n", DirtyLen(ctxLen))
	b.WriteString("let updating = false;\n")
	fmt.Fprintf(&b, "function %s(ctx_idx, val) {\n", ScheduleFunc)
	b.WriteString("\tctx[ctx_idx] = val;\n")
	b.WriteString("\tdirty[ctx_idx >> 3] |= 1 << (ctx_idx % 8);\n")
	b.WriteString("\tif (updating) return;\n")
	b.WriteString("\tupdating = true;\n")
	b.WriteString("\tPromise.resolve().then(() => {\n")
	b.WriteString("\t\tfragment.u(dirty);\n")
	b.WriteString("\t\tupdating = false;\n")
	b.WriteString("\t\tdirty.fill(0);\n")
	b.WriteString("\t});\n")
	b.WriteString("}\n")
	return b.String()
}
