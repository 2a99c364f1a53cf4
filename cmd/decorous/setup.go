package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grindlemire/decorous"
	"github.com/grindlemire/decorous/internal/component"
	"github.com/grindlemire/decorous/internal/config"
	"github.com/grindlemire/decorous/internal/debug"
)

// commonFlags are the flags every compiling subcommand accepts.
type commonFlags struct {
	configPath string
	logPath    string
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configPath, "config", "", "Path to the config file")
	fs.StringVar(&f.logPath, "log", "", "Path to a debug log file")
}

// setup enables debug logging and loads the config.
func (f *commonFlags) setup() ([]decorous.Option, error) {
	if f.logPath != "" {
		if err := debug.Init(f.logPath); err != nil {
			return nil, err
		}
	} else if _, err := debug.InitFromEnv(); err != nil {
		return nil, err
	}

	cfg, err := config.Load(f.configPath, os.Getenv)
	if err != nil {
		return nil, err
	}
	debug.Log("config: base dir %q, prefix %q", cfg.BaseDir, cfg.ScopePrefix)

	return []decorous.Option{decorous.WithConfig(cfg)}, nil
}

// compileOptions adds the resolver for the component at path to base.
func compileOptions(base []decorous.Option, path string) []decorous.Option {
	opts := make([]decorous.Option, 0, len(base)+1)
	opts = append(opts, base...)
	return append(opts, decorous.WithResolver(fileResolver(filepath.Dir(path))))
}

// fileResolver resolves {#use} paths to existing component files relative
// to dir. A path without an extension gets .decor.
func fileResolver(dir string) component.UseResolver {
	return component.ResolveFunc(func(path string) (string, error) {
		full := path
		if !filepath.IsAbs(full) {
			full = filepath.Join(dir, path)
		}
		if filepath.Ext(full) == "" {
			full += fileExt
		}
		info, err := os.Stat(full)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("%s is a directory", full)
		}
		return full, nil
	})
}
