package project

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/modu-ai/apigen/internal/assets"
	"github.com/modu-ai/apigen/internal/defs"
	"github.com/modu-ai/apigen/internal/schema"
	"github.com/modu-ai/apigen/internal/stack"
	"github.com/modu-ai/apigen/internal/template"
	"github.com/modu-ai/apigen/pkg/models"
)

// GenerateOptions configures one generation run.
type GenerateOptions struct {
	Schema      *models.Schema // Decoded input schema.
	ProjectID   string         // Names the output folder project_<id>; must be unique per concurrent run.
	ProjectName string         // Crate name seen by templates. Defaults to the folder name.
	OutputRoot  string         // Parent of the project folder. Defaults to "output".
	Backend     string         // Storage backend, e.g. "postgres". Empty selects the default.
	Framework   string         // Web framework, e.g. "axum". Empty selects the backend default.
	Policy      schema.Policy  // Validation policy.
	OnFile      ProgressFunc   // Optional per-file progress callback.
}

// GenerateResult summarizes a completed run.
type GenerateResult struct {
	Root         string               // Project directory that received the files.
	Selection    models.TechSelection // Resolved backend/framework pair.
	CreatedDirs  []string             // Relative, slash-separated.
	CreatedFiles []string             // Relative, slash-separated, in write order.
}

// Generator runs the validate, resolve, render and write pipeline.
type Generator interface {
	// Generate produces a project for opts. Decode, validation and
	// technology errors are returned before the filesystem is touched.
	Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error)

	// Plan validates and renders without writing, returning the files a
	// Generate call with the same options would write.
	Plan(ctx context.Context, opts GenerateOptions) (*stack.SlotMap, []template.RenderedFile, error)
}

// projectGenerator is the concrete implementation of Generator.
type projectGenerator struct {
	table  *stack.Table
	repo   assets.Repository
	writer *Writer
	logger *slog.Logger
}

// NewGenerator creates a Generator over a capability table and an asset
// repository. Both are read-only and may be shared between generators.
func NewGenerator(table *stack.Table, repo assets.Repository, logger *slog.Logger) Generator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &projectGenerator{
		table:  table,
		repo:   repo,
		writer: NewWriter(logger),
		logger: logger,
	}
}

// @MX:ANCHOR: [AUTO] Generate is the pipeline entry point used by the CLI generate command.
// @MX:REASON: [AUTO] stage order decides which failures can leave partial output
func (g *projectGenerator) Generate(ctx context.Context, opts GenerateOptions) (*GenerateResult, error) {
	slots, files, err := g.Plan(ctx, opts)
	if err != nil {
		return nil, err
	}

	// Step 4: Write
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outputRoot := opts.OutputRoot
	if outputRoot == "" {
		outputRoot = defs.DefaultOutputDir
	}
	written, err := g.writer.Write(ctx, outputRoot, opts.ProjectID, files, opts.OnFile)
	if err != nil {
		return nil, fmt.Errorf("write project: %w", err)
	}

	g.logger.Info("project generated",
		"project", opts.ProjectID,
		"root", written.Root,
		"backend", slots.Selection.Backend,
		"framework", slots.Selection.Framework,
		"files", len(written.CreatedFiles),
	)

	return &GenerateResult{
		Root:         written.Root,
		Selection:    slots.Selection,
		CreatedDirs:  written.CreatedDirs,
		CreatedFiles: written.CreatedFiles,
	}, nil
}

func (g *projectGenerator) Plan(ctx context.Context, opts GenerateOptions) (*stack.SlotMap, []template.RenderedFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := validateProjectID(opts.ProjectID); err != nil {
		return nil, nil, err
	}

	// Step 1: Validate
	if err := schema.Validate(opts.Schema, opts.Policy); err != nil {
		return nil, nil, err
	}
	g.logger.Debug("schema validated",
		"entities", len(opts.Schema.Entities),
		"fields", opts.Schema.FieldCount(),
	)

	// Step 2: Resolve
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	slots, err := g.table.Resolve(opts.Backend, opts.Framework)
	if err != nil {
		return nil, nil, err
	}
	g.logger.Debug("technology resolved",
		"backend", slots.Selection.Backend,
		"framework", slots.Selection.Framework,
		"slots", len(slots.Slots),
	)

	// Step 3: Load and render
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	engine := template.NewEngine(template.WithLogger(g.logger))
	if err := engine.Load(slots, g.repo); err != nil {
		return nil, nil, err
	}

	name := opts.ProjectName
	if name == "" {
		name = FolderName(opts.ProjectID)
	}
	files, err := engine.Render(ctx, opts.Schema, template.ProjectInfo{
		ID:        opts.ProjectID,
		Name:      name,
		Backend:   slots.Selection.Backend,
		Framework: slots.Selection.Framework,
	})
	if err != nil {
		return nil, nil, err
	}

	return slots, files, nil
}
