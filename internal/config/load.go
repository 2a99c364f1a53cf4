package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "decorous.yaml"

// EnvVar names a configuration file to use instead of FileName.
const EnvVar = "DECOROUS_CONFIG"

// Load reads the configuration with ${VAR} interpolation. An empty path
// searches EnvVar and then FileName; when neither exists the defaults are
// returned.
func Load(path string, getenv func(string) string) (*Config, error) {
	path, err := resolvePath(path, getenv)
	if err != nil {
		return nil, err
	}
	if path == "" {
		return Defaults(), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data, getenv)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.BaseDir = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes configuration data on top of the defaults.
func Parse(data []byte, getenv func(string) string) (*Config, error) {
	data = interpolateEnv(data, getenv)

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolvePath finds the config file to use.
// Search order: explicit path > DECOROUS_CONFIG > ./decorous.yaml.
func resolvePath(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	if env := getenv(EnvVar); env != "" {
		if _, err := os.Stat(env); err != nil {
			return "", fmt.Errorf("%s file not found: %s", EnvVar, env)
		}
		return env, nil
	}
	if _, err := os.Stat(FileName); err == nil {
		return FileName, nil
	}
	return "", nil
}

// envPattern matches ${VAR} or ${VAR:-default}
var envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// interpolateEnv replaces ${VAR} and ${VAR:-default} with environment values.
func interpolateEnv(data []byte, getenv func(string) string) []byte {
	return envPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		parts := envPattern.FindSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		value := getenv(string(parts[1]))
		if value == "" && len(parts) >= 3 && len(parts[2]) > 0 {
			value = string(parts[2])
		}
		return []byte(value)
	})
}

var prefixPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

func validate(cfg *Config) error {
	var errs []string

	if !prefixPattern.MatchString(cfg.ScopePrefix) {
		errs = append(errs, fmt.Sprintf("invalid scope_prefix %q (must be a CSS identifier)", cfg.ScopePrefix))
	}
	if cfg.Static.Timeout < 0 {
		errs = append(errs, "static.timeout must not be negative")
	}
	for lang, p := range cfg.Preprocessors {
		switch lang {
		case "js", "javascript", "css":
			errs = append(errs, fmt.Sprintf("preprocessors.%s: built-in languages cannot be preprocessed", lang))
		}
		if len(p.Pipeline) == 0 {
			errs = append(errs, fmt.Sprintf("preprocessors.%s: pipeline is required", lang))
		}
		if p.Target != TargetJS && p.Target != TargetCSS {
			errs = append(errs, fmt.Sprintf("preprocessors.%s: target must be 'js' or 'css', got %q", lang, p.Target))
		}
	}

	if len(errs) > 0 {
		return errors.New("invalid config:\n  - " + strings.Join(errs, "\n  - "))
	}
	return nil
}
