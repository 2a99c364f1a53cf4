// Package main provides the CLI tool for .decor components.
//
// Usage:
//
//	decorous check [path...]      Compile .decor files and report diagnostics
//	decorous inspect <file>       Print the compiled model of one file
//	decorous help                 Show help
//
// Examples:
//
//	decorous check ./...          Recursively check all .decor files
//	decorous check ./components   Check a specific directory
//	decorous inspect -format yaml counter.decor
package main

import (
	"fmt"
	"os"
)

const version = "0.1.0"

const usage = `decorous - compiler front end for .decor components

Usage:
  decorous <command> [options] [path...]

Commands:
  check       Compile .decor files and report diagnostics
  inspect     Print the compiled model of a .decor file
  version     Print version information
  help        Show this help message

Options:
  -v                  Verbose output (check)
  -format json|yaml   Output format (inspect, default json)
  -config path        Config file (default: decorous.yaml, or $DECOROUS_CONFIG)
  -log path           Write a debug log (default: $DECOROUS_DEBUG)

Examples:
  decorous check ./...                    Recursively check all .decor files
  decorous check ./components             Check files in a directory
  decorous check -v counter.decor         Verbose output
  decorous inspect counter.decor          Print the model as JSON
  decorous inspect -format yaml a.decor   Print the model as YAML
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "check":
		if err := runCheck(args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "inspect":
		if err := runInspect(args, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("decorous version %s\n", version)
	case "help", "-h", "--help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", command)
		fmt.Print(usage)
		os.Exit(1)
	}
}
