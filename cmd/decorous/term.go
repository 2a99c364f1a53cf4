package main

import "strings"

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiReset  = "\x1b[0m"
)

var severityColors = strings.NewReplacer(
	": error: ", ": "+ansiRed+"error"+ansiReset+": ",
	": warning: ", ": "+ansiYellow+"warning"+ansiReset+": ",
)

// colorize highlights the severity of every diagnostic line.
func colorize(s string) string {
	return severityColors.Replace(s)
}
