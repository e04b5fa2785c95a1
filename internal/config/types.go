package config

// Config is the merged generator configuration.
type Config struct {
	Generator GeneratorConfig `yaml:"generator"`
	Log       LogConfig       `yaml:"log"`
}

// GeneratorConfig controls where and how projects are generated.
type GeneratorConfig struct {
	OutputDir      string `yaml:"output_dir"`
	Backend        string `yaml:"backend"`   // empty uses the capability table default
	Framework      string `yaml:"framework"` // empty uses the backend's default
	RequireIDFirst bool   `yaml:"require_id_first"`
	TemplatesDir   string `yaml:"templates_dir"` // empty uses the bundled templates
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level   string `yaml:"level"`  // debug, info, warn, error
	Format  string `yaml:"format"` // text, json
	NoColor bool   `yaml:"no_color"`
}
