package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/grindlemire/decorous"
)

// runInspect implements the inspect subcommand.
// It compiles one file and prints its model.
func runInspect(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	format := fs.String("format", "json", "Output format: json or yaml")
	var common commonFlags
	common.register(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if fs.NArg() != 1 {
		return errors.New("inspect takes exactly one file")
	}
	if *format != "json" && *format != "yaml" {
		return fmt.Errorf("unknown format %q", *format)
	}

	opts, err := common.setup()
	if err != nil {
		return err
	}

	path := fs.Arg(0)
	result, err := decorous.CompileFile(context.Background(), path, compileOptions(opts, path)...)
	if err != nil {
		return err
	}
	return writeSummary(out, result.Summary(), *format)
}

func writeSummary(out io.Writer, s decorous.Summary, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	}
}
