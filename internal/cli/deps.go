// Package cli provides the Cobra command tree and dependency wiring for the
// apigen CLI. This file defines the Dependencies struct (Composition Root)
// that wires the configuration, logger, capability table, asset repository,
// generator and terminal UI together.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/apigen/internal/assets"
	"github.com/modu-ai/apigen/internal/config"
	"github.com/modu-ai/apigen/internal/core/project"
	"github.com/modu-ai/apigen/internal/defs"
	"github.com/modu-ai/apigen/internal/resilience"
	"github.com/modu-ai/apigen/internal/schema"
	"github.com/modu-ai/apigen/internal/stack"
	"github.com/modu-ai/apigen/internal/ui"
)

// annotationConfigOptional marks commands that run without an existing
// config file even when --config is given.
const annotationConfigOptional = "apigen/config-optional"

// Dependencies holds the services used by CLI commands. It is the only
// place where concrete types are instantiated.
type Dependencies struct {
	Config       *config.Config
	ConfigSource string // config file actually read, "" when defaults only
	Logger       *slog.Logger
	Table        *stack.Table
	Assets       assets.Repository
	Sources      *schema.SourceReader
	Headless     *ui.HeadlessManager
	Theme        *ui.Theme

	// env replaces the process environment when set.
	env map[string]string
}

// @MX:ANCHOR: [AUTO] init is the Composition Root that wires all modules for one command run
// @MX:REASON: [AUTO] every subcommand depends on it through the root PersistentPreRunE
// init loads configuration, applies persistent flag overrides and builds
// the services. It runs once per command invocation.
func (d *Dependencies) init(cmd *cobra.Command) error {
	path := getStringFlag(cmd, "config")
	required := cmd.Flags().Changed("config") && cmd.Annotations[annotationConfigOptional] != "true"
	if path == "" {
		path = defs.ConfigYAML
	}

	loader := config.NewLoader()
	if d.env != nil {
		loader = config.NewLoaderWithEnv(d.env)
	}
	cfg, err := loader.Load(config.LoadOptions{
		Path:     path,
		Required: required,
		DotEnv:   defs.DotEnv,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = getStringFlag(cmd, "log-level")
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = getStringFlag(cmd, "log-format")
	}
	if cmd.Flags().Changed("no-color") {
		cfg.Log.NoColor = getBoolFlag(cmd, "no-color")
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	table, err := stack.Default()
	if err != nil {
		return fmt.Errorf("load capability table: %w", err)
	}

	repo, err := repository(cfg.Generator.TemplatesDir)
	if err != nil {
		return err
	}

	d.Config = cfg
	d.ConfigSource = loader.Source()
	d.Logger = newLogger(cfg.Log, cmd.ErrOrStderr())
	d.Table = table
	d.Assets = repo
	d.Sources = schema.NewSourceReader()
	d.Sources.Stdin = cmd.InOrStdin()
	d.Sources.Logger = d.Logger
	d.Sources.Retry = resilience.FetchPolicy()
	if d.Headless == nil {
		d.Headless = ui.NewHeadlessManager()
	}
	d.Theme = ui.NewTheme(cfg.Log.NoColor)

	d.Logger.Debug("dependencies initialized",
		"config", d.ConfigSource,
		"templates", cfg.Generator.TemplatesDir,
	)
	return nil
}

// Generator builds a generator over repo, or over the configured assets
// when repo is nil.
func (d *Dependencies) Generator(repo assets.Repository) project.Generator {
	if repo == nil {
		repo = d.Assets
	}
	return project.NewGenerator(d.Table, repo, d.Logger)
}

// Progress returns a progress factory writing to w.
func (d *Dependencies) Progress(w io.Writer) *ui.Progress {
	return ui.NewProgress(d.Theme, d.Headless, w)
}

// repository selects the bundled templates or an on-disk override.
func repository(dir string) (assets.Repository, error) {
	if dir == "" {
		return assets.Embedded(), nil
	}
	repo, err := assets.NewDirRepository(dir)
	if err != nil {
		return nil, fmt.Errorf("open templates dir: %w", err)
	}
	return repo, nil
}

// newLogger builds the structured logger from the log section. Logs go to
// w (stderr) so generated listings on stdout stay clean.
func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
