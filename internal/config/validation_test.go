package config

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		mutate     func(*Config)
		wantFields []string
		wantErr    error
	}{
		{
			name:   "defaults_are_valid",
			mutate: func(*Config) {},
		},
		{
			name:   "upper_case_log_level",
			mutate: func(c *Config) { c.Log.Level = "DEBUG" },
		},
		{
			name:       "empty_output_dir",
			mutate:     func(c *Config) { c.Generator.OutputDir = "  " },
			wantFields: []string{"generator.output_dir"},
			wantErr:    ErrInvalidConfig,
		},
		{
			name: "bad_log_settings",
			mutate: func(c *Config) {
				c.Log.Level = "trace"
				c.Log.Format = "xml"
			},
			wantFields: []string{"log.level", "log.format"},
			wantErr:    ErrInvalidConfig,
		},
		{
			name:       "templates_dir_with_unexpanded_var",
			mutate:     func(c *Config) { c.Generator.TemplatesDir = "$TEMPLATES/rust" },
			wantFields: []string{"generator.templates_dir"},
			wantErr:    ErrDynamicToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)

			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			var verrs *ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected *ValidationErrors, got %T", err)
			}
			if len(verrs.Errors) != len(tt.wantFields) {
				t.Fatalf("got %d errors, want %d: %v", len(verrs.Errors), len(tt.wantFields), err)
			}
			for i, field := range tt.wantFields {
				if verrs.Errors[i].Field != field {
					t.Errorf("error %d field = %q, want %q", i, verrs.Errors[i].Field, field)
				}
				if !strings.Contains(err.Error(), field) {
					t.Errorf("message should mention %q: %v", field, err)
				}
			}
		})
	}
}
