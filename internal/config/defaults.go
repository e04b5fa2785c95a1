package config

import "github.com/modu-ai/apigen/internal/defs"

// Default value constants.
const (
	DefaultLogLevel       = "info"
	DefaultLogFormat      = "text"
	DefaultRequireIDFirst = true
)

// Environment variable names, all prefixed with defs.EnvPrefix.
const (
	EnvOutputDir      = defs.EnvPrefix + "_OUTPUT_DIR"
	EnvBackend        = defs.EnvPrefix + "_BACKEND"
	EnvFramework      = defs.EnvPrefix + "_FRAMEWORK"
	EnvRequireIDFirst = defs.EnvPrefix + "_REQUIRE_ID_FIRST"
	EnvTemplatesDir   = defs.EnvPrefix + "_TEMPLATES_DIR"
	EnvLogLevel       = defs.EnvPrefix + "_LOG_LEVEL"
	EnvLogFormat      = defs.EnvPrefix + "_LOG_FORMAT"
	EnvNoColor        = defs.EnvPrefix + "_NO_COLOR"
)

// ValidLogLevels and ValidLogFormats list the accepted log settings.
var (
	ValidLogLevels  = []string{"debug", "info", "warn", "error"}
	ValidLogFormats = []string{"text", "json"}
)

// NewDefaultConfig returns the compiled-in configuration.
func NewDefaultConfig() *Config {
	return &Config{
		Generator: GeneratorConfig{
			OutputDir:      defs.DefaultOutputDir,
			RequireIDFirst: DefaultRequireIDFirst,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
