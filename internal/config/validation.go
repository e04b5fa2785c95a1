package config

import (
	"regexp"
	"slices"
	"strings"
)

// Unexpanded variable references that must not appear in path values. The
// generator does not expand them, so they would end up as literal
// directory names.
var dynamicTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\{[^}]+\}`),        // ${VAR}
	regexp.MustCompile(`\{\{[^}]+\}\}`),      // {{VAR}}
	regexp.MustCompile(`\$[A-Z_][A-Z0-9_]*`), // $VAR
}

// Validate checks the configuration for correctness and returns every
// problem found as *ValidationErrors.
func Validate(cfg *Config) error {
	var errs []ValidationError

	errs = append(errs, validateGenerator(&cfg.Generator)...)
	errs = append(errs, validateLog(&cfg.Log)...)

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateGenerator(g *GeneratorConfig) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(g.OutputDir) == "" {
		errs = append(errs, ValidationError{
			Field:   "generator.output_dir",
			Message: "required field is empty",
			Wrapped: ErrInvalidConfig,
		})
	}

	paths := []struct {
		field string
		value string
	}{
		{"generator.output_dir", g.OutputDir},
		{"generator.templates_dir", g.TemplatesDir},
	}
	for _, p := range paths {
		for _, pattern := range dynamicTokenPatterns {
			if tok := pattern.FindString(p.value); tok != "" {
				errs = append(errs, ValidationError{
					Field:   p.field,
					Message: "contains unexpanded token " + tok,
					Value:   p.value,
					Wrapped: ErrDynamicToken,
				})
				break
			}
		}
	}
	return errs
}

func validateLog(l *LogConfig) []ValidationError {
	var errs []ValidationError

	if !slices.Contains(ValidLogLevels, strings.ToLower(l.Level)) {
		errs = append(errs, ValidationError{
			Field:   "log.level",
			Message: "must be one of: " + strings.Join(ValidLogLevels, ", "),
			Value:   l.Level,
			Wrapped: ErrInvalidConfig,
		})
	}
	if !slices.Contains(ValidLogFormats, strings.ToLower(l.Format)) {
		errs = append(errs, ValidationError{
			Field:   "log.format",
			Message: "must be one of: " + strings.Join(ValidLogFormats, ", "),
			Value:   l.Format,
			Wrapped: ErrInvalidConfig,
		})
	}
	return errs
}
