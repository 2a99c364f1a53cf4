// Package rewrite turns script code into the code a renderer emits.
//
// Reactive state lives in a context array, ctx, indexed by the slots of a
// component.DeclaredVariables table. Every write to a slot goes through
// __schedule_update, which stores the value, sets the slot's bit in the dirty
// bitmap and queues one flush per microtask. Update code for a template
// expression is guarded by the bits CalcDirty computes for it.
//
// All rewrites are span edits against the original text. Text outside the
// rewritten spans is preserved byte for byte.
package rewrite
