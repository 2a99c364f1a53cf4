package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/grindlemire/decorous"
)

// checkResult is the outcome of checking one file.
type checkResult struct {
	path     string
	output   string // formatted diagnostics or the fatal error
	warnings int
	failed   bool
}

// runCheck implements the check subcommand.
// It compiles every .decor file and prints the diagnostics of each.
func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	verbose := fs.Bool("v", false, "Verbose output")
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	paths := fs.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectDecorFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no .decor files found")
	}

	opts, err := common.setup()
	if err != nil {
		return err
	}

	if *verbose {
		fmt.Printf("Checking %d .decor file(s)\n", len(files))
	}

	results, err := checkFiles(context.Background(), files, opts)
	if err != nil {
		return err
	}

	color := isTerminal(os.Stderr.Fd())
	failed := report(os.Stdout, os.Stderr, results, *verbose, color)
	if failed > 0 {
		return fmt.Errorf("%d file(s) had errors", failed)
	}

	if *verbose {
		fmt.Printf("All %d file(s) passed checks\n", len(files))
	}
	return nil
}

// checkFiles compiles files concurrently. Results are in the order of files.
func checkFiles(ctx context.Context, files []string, opts []decorous.Option) ([]checkResult, error) {
	results := make([]checkResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range files {
		g.Go(func() error {
			res, err := checkFile(ctx, path, opts)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// checkFile compiles a single file. Syntax errors and failed passes are
// part of the result; only a cancelled context is returned as an error.
func checkFile(ctx context.Context, path string, opts []decorous.Option) (checkResult, error) {
	res := checkResult{path: path}

	result, err := decorous.CompileFile(ctx, path, compileOptions(opts, path)...)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return res, err
		}
		res.output = err.Error()
		res.failed = true
		return res, nil
	}

	res.output = result.FormatDiagnostics()
	res.warnings = len(result.Diagnostics().Warnings())
	res.failed = result.HasErrors()
	return res, nil
}

// report prints results and returns the number of files that failed.
func report(stdout, stderr io.Writer, results []checkResult, verbose, color bool) int {
	var failed int
	for _, res := range results {
		if verbose {
			fmt.Fprintf(stdout, "Checking %s\n", res.path)
		}
		if res.failed {
			failed++
		}
		if res.output == "" {
			continue
		}
		out := res.output
		if color {
			out = colorize(out)
		}
		fmt.Fprintln(stderr, out)
	}
	return failed
}
