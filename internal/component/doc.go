// Package component builds the Component model from a parsed file and runs
// the passes that shape it for code generation.
//
// The model has three parts that every backend reads: the fragment tree,
// whose nodes carry dense ids and parent links; the DeclaredVariables table,
// which maps each reactive name or promoted closure to a slot index; and the
// script split into per-instance statements and hoisted statements.
//
// Passes run in order and mutate the Component in place:
//
//	StaticPass       evaluates ---js:static blocks
//	CSSPass          scopes the style sheet and binds CSS mustaches
//	DepAnalysisPass  drops unused declarations, hoists unmutated ones
//	ElementLintPass  warns about unknown element names
//
// Passes report problems as diagnostics on the Component rather than
// failing.
package component
