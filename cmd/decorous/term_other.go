//go:build !unix && !windows

package main

func isTerminal(fd uintptr) bool {
	return false
}
