package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadOptions selects the files a Loader reads.
type LoadOptions struct {
	Path     string // apigen.yaml location; empty skips the file
	Required bool   // a missing file at Path is an error
	DotEnv   string // .env location; empty or missing skips it
}

// Loader merges compiled defaults, apigen.yaml, .env and the environment.
type Loader struct {
	lookupEnv func(string) (string, bool)
	source    string
}

// NewLoader creates a Loader that reads the process environment.
func NewLoader() *Loader {
	return &Loader{lookupEnv: os.LookupEnv}
}

// NewLoaderWithEnv creates a Loader that reads environment values from env
// instead of the process environment.
func NewLoaderWithEnv(env map[string]string) *Loader {
	return &Loader{lookupEnv: func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}}
}

// Source returns the config file read by the last Load, or "" if none was.
func (l *Loader) Source() string {
	return l.source
}

// @MX:NOTE: [AUTO] Precedence, lowest to highest: defaults, apigen.yaml, .env, process environment. CLI flags are applied by the caller.
// Load returns the merged and validated configuration.
func (l *Loader) Load(opts LoadOptions) (*Config, error) {
	l.source = ""
	cfg := NewDefaultConfig()

	if opts.Path != "" {
		loaded, err := loadYAMLFile(opts.Path, cfg)
		if err != nil {
			return nil, err
		}
		if !loaded && opts.Required {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, opts.Path)
		}
		if loaded {
			l.source = opts.Path
		}
	}

	dotenv, err := readDotEnv(opts.DotEnv)
	if err != nil {
		return nil, err
	}

	lookup := func(key string) (string, bool) {
		if v, ok := l.lookupEnv(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if errs := applyEnvOverrides(cfg, lookup); len(errs) > 0 {
		return nil, &ValidationErrors{Errors: errs}
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadYAMLFile decodes path over target. A missing file reports (false, nil).
func loadYAMLFile(path string, target any) (bool, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, target); err != nil {
		return false, fmt.Errorf("parse %s: %w: %v", path, ErrInvalidYAML, err)
	}

	return true, nil
}

// readDotEnv parses a .env file without touching the process environment.
func readDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return values, nil
}

// applyEnvOverrides applies APIGEN_* values. Malformed booleans are
// reported rather than ignored.
func applyEnvOverrides(cfg *Config, lookup func(string) (string, bool)) []ValidationError {
	var errs []ValidationError

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || strings.TrimSpace(v) == "" {
			return
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   key,
				Message: "must be a boolean (true, false, 1, 0)",
				Value:   v,
				Wrapped: ErrInvalidConfig,
			})
			return
		}
		*dst = b
	}

	str(EnvOutputDir, &cfg.Generator.OutputDir)
	str(EnvBackend, &cfg.Generator.Backend)
	str(EnvFramework, &cfg.Generator.Framework)
	boolean(EnvRequireIDFirst, &cfg.Generator.RequireIDFirst)
	str(EnvTemplatesDir, &cfg.Generator.TemplatesDir)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvLogFormat, &cfg.Log.Format)
	boolean(EnvNoColor, &cfg.Log.NoColor)

	return errs
}
