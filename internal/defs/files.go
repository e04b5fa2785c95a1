package defs

import "io/fs"

// Common file and directory names used across the project.
const (
	// ConfigYAML is the optional generator configuration file.
	ConfigYAML = "apigen.yaml"

	// DotEnv is the optional environment override file read at startup.
	DotEnv = ".env"

	// DefaultOutputDir is the directory that receives generated projects.
	DefaultOutputDir = "output"

	// ProjectDirPrefix prefixes every generated project folder.
	ProjectDirPrefix = "project_"

	// EnvPrefix prefixes every environment override (APIGEN_BACKEND, ...).
	EnvPrefix = "APIGEN"
)

// EntityPlaceholder is replaced by the lower-cased entity name in the
// output path of entity-scoped slots.
const EntityPlaceholder = "{entity}"

// Permissions for generated directories and files.
const (
	DirPerm  fs.FileMode = 0o755
	FilePerm fs.FileMode = 0o644
)
