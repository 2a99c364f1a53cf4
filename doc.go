// Package decorous compiles .decor component files into the model that code
// generators consume.
//
// A component file has fenced code blocks (---js, ---css, ---js:static, or
// any other language for foreign tooling) and markup made of #tag[attrs]
// elements, {#if}/{#for}/{#use} blocks and {expression} mustaches:
//
//	---js
//	let count = 0;
//	---
//	#button[@click={() => count++}]:more
//	#p Clicked {count} times /p
//
// Compile parses the file, builds the fragment tree and the table of reactive
// slots, and runs the standard passes: compile-time evaluation, CSS scoping,
// dependency analysis and element linting. Syntax errors fail the compile;
// everything the passes find is reported as diagnostics alongside a usable
// result.
package decorous
