// Package style parses component style blocks.
//
// The dialect is plain CSS with one extension: a declaration value may embed
// a JavaScript expression in braces, as in
//
//	p { color: {color}; width: {w}px; }
//
// Each such mustache is kept as a [Mustache] so the component model can bind
// it to a CSS custom property. Sheets can be scoped to a component by
// appending a class to every compound selector.
package style
