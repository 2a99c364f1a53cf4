// Package script wraps the embedded JavaScript of a component.
//
// Expressions and script statements are parsed with goja's parser and kept
// as opaque handles ([Expr], [Statement]) that remember their source text and
// file offset. The compiler only asks structural questions of them:
//
//   - [Code.UnboundRefs]: free identifier references, with assignment targets
//   - [DeclaredNames]: names bound by a top-level declaration
//   - [PatternNames]: names bound by a destructuring pattern
//
// goja has no ES module syntax, so import declarations are located with the
// tdewolff JavaScript lexer and masked out before the rest of the program is
// parsed. [Evaluate] runs compile-time blocks in a goja runtime.
package script
