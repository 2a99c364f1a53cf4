// Package syntax parses decorous component files into an [Ast].
//
// A component file is markup with optional fenced code blocks before or
// after it:
//
//	---js
//	let name = "world";
//	---
//	#div[class="greeting"]
//	  #p hello {name} /p
//	  {#if name === "world"} #span:everyone {:else} {name} {/if}
//	/div
//	---css
//	p { color: green; }
//	---
//
// Elements open with #tag and close with /tag. Special blocks use
// {#if}, {#for} and {#use}; any other braces hold a JavaScript expression.
// A backslash escapes the next character in text.
package syntax
