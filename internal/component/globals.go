package component

// globals are names that resolve at runtime without a declaration in the
// component and so are never reported as unbound.
var globals = map[string]bool{}

func init() {
	for _, name := range []string{
		// language
		"undefined", "NaN", "Infinity", "globalThis", "arguments",
		"Object", "Function", "Array", "Number", "String", "Boolean", "Symbol", "BigInt",
		"Math", "JSON", "Date", "RegExp", "Error", "TypeError", "RangeError", "SyntaxError",
		"ReferenceError", "EvalError", "URIError", "AggregateError",
		"Map", "Set", "WeakMap", "WeakSet", "WeakRef", "FinalizationRegistry",
		"Promise", "Proxy", "Reflect", "Intl",
		"ArrayBuffer", "SharedArrayBuffer", "DataView", "Atomics",
		"Int8Array", "Uint8Array", "Uint8ClampedArray", "Int16Array", "Uint16Array",
		"Int32Array", "Uint32Array", "Float32Array", "Float64Array",
		"BigInt64Array", "BigUint64Array",
		"parseInt", "parseFloat", "isNaN", "isFinite",
		"encodeURI", "encodeURIComponent", "decodeURI", "decodeURIComponent",
		"eval", "queueMicrotask", "structuredClone",

		// browser
		"window", "self", "document", "navigator", "location", "history", "screen",
		"console", "alert", "confirm", "prompt",
		"setTimeout", "clearTimeout", "setInterval", "clearInterval",
		"requestAnimationFrame", "cancelAnimationFrame", "requestIdleCallback",
		"fetch", "Request", "Response", "Headers", "URL", "URLSearchParams",
		"FormData", "Blob", "File", "FileReader", "AbortController", "AbortSignal",
		"localStorage", "sessionStorage", "indexedDB", "crypto", "performance",
		"Event", "CustomEvent", "EventTarget", "KeyboardEvent", "MouseEvent",
		"Node", "Element", "HTMLElement", "Text", "DocumentFragment",
		"MutationObserver", "IntersectionObserver", "ResizeObserver",
		"WebSocket", "Worker", "WebAssembly", "TextEncoder", "TextDecoder",
		"atob", "btoa", "getComputedStyle", "matchMedia",
	} {
		globals[name] = true
	}
}

// IsGlobal reports whether name is a JavaScript or browser global.
func IsGlobal(name string) bool {
	return globals[name]
}
