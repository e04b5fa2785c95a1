package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	l := NewLoaderWithEnv(nil)
	cfg, err := l.Load(LoadOptions{Path: filepath.Join(t.TempDir(), "apigen.yaml")})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(NewDefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if l.Source() != "" {
		t.Errorf("Source() = %q, want empty when no file was read", l.Source())
	}
}

func TestLoad_RequiredFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewLoaderWithEnv(nil).Load(LoadOptions{
		Path:     filepath.Join(t.TempDir(), "missing.yaml"),
		Required: true,
	})
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestLoad_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeFile(t, dir, "apigen.yaml", `
generator:
  output_dir: from-yaml
  backend: postgres
  framework: axum
  require_id_first: false
log:
  level: debug
  format: json
`)
	dotenv := writeFile(t, dir, ".env", "APIGEN_FRAMEWORK=actix\nAPIGEN_OUTPUT_DIR=from-dotenv\n")

	l := NewLoaderWithEnv(map[string]string{
		EnvOutputDir: "from-env",
		EnvNoColor:   "1",
	})
	cfg, err := l.Load(LoadOptions{Path: path, DotEnv: dotenv})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	want := &Config{
		Generator: GeneratorConfig{
			OutputDir:      "from-env",
			Backend:        "postgres",
			Framework:      "actix",
			RequireIDFirst: false,
		},
		Log: LogConfig{Level: "debug", Format: "json", NoColor: true},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if l.Source() != path {
		t.Errorf("Source() = %q, want %q", l.Source(), path)
	}
}

func TestLoad_DotEnvDoesNotTouchProcessEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := writeFile(t, dir, ".env", "APIGEN_TEST_ONLY_KEY=value\n")

	if _, err := NewLoader().Load(LoadOptions{DotEnv: dotenv}); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if _, ok := os.LookupEnv("APIGEN_TEST_ONLY_KEY"); ok {
		t.Error(".env values must not be exported to the process environment")
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		yaml    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "malformed_yaml",
			yaml:    "generator: [",
			wantErr: ErrInvalidYAML,
		},
		{
			name:    "bad_boolean_env",
			env:     map[string]string{EnvRequireIDFirst: "sometimes"},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "bad_log_level",
			yaml:    "log:\n  level: verbose\n",
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "unexpanded_token",
			env:     map[string]string{EnvOutputDir: "${HOME}/out"},
			wantErr: ErrDynamicToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := LoadOptions{}
			if tt.yaml != "" {
				opts.Path = writeFile(t, t.TempDir(), "apigen.yaml", tt.yaml)
			}
			_, err := NewLoaderWithEnv(tt.env).Load(opts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSave(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "apigen.yaml")
	cfg := NewDefaultConfig()
	cfg.Generator.Framework = "actix"

	if err := Save(path, cfg, false); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := Save(path, cfg, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second Save without overwrite: expected ErrConfigExists, got %v", err)
	}
	if err := Save(path, cfg, true); err != nil {
		t.Errorf("Save with overwrite error: %v", err)
	}

	got, err := NewLoaderWithEnv(nil).Load(LoadOptions{Path: path, Required: true})
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("saved config mismatch (-want +got):\n%s", diff)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only apigen.yaml in directory, found %d entries", len(entries))
	}
}
