// Package diag holds the source locations and diagnostics shared by every
// stage of the decorous compiler.
//
// A [Location] is a byte span into the component source. Stages report
// problems as [Diagnostic] values collected in a [Report]; a [Source] maps
// byte offsets back to line and column for display.
package diag
