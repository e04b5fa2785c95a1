package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/modu-ai/apigen/internal/assets"
	"github.com/modu-ai/apigen/internal/core/project"
	"github.com/modu-ai/apigen/internal/schema"
	"github.com/modu-ai/apigen/internal/ui"
	"github.com/modu-ai/apigen/pkg/models"
)

// projectIDLength is the number of UUID hex characters used for a
// generated project id.
const projectIDLength = 8

func newGenerateCmd(d *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <schema> [backend] [framework]",
		Short: "Generate a backend project from an entity schema",
		Long: `Generate a backend project from an entity schema.

<schema> is a file path, an http(s) URL, "-" for stdin, or an inline JSON
document. The optional positional backend and framework are equivalent to
--backend and --framework. When neither is given the configured defaults
apply, or the capability table defaults when nothing is configured.`,
		Example: `  apigen generate schema.json
  apigen generate schema.yaml postgres actix
  apigen generate '{"entities":[{"name":"user","fields":[{"name":"id","field_type":"integer"}]}]}'
  apigen generate api.yaml --openapi --project-id demo`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, d, args)
		},
	}

	cmd.Flags().String("backend", "", "Storage backend (e.g. postgres)")
	cmd.Flags().String("framework", "", "Web framework (e.g. axum, actix)")
	cmd.Flags().StringP("output", "o", "", "Directory that receives project folders")
	cmd.Flags().String("project-id", "", "Project identifier (default: random)")
	cmd.Flags().String("name", "", "Crate name (default: project_<id>)")
	cmd.Flags().Bool("openapi", false, "Read the schema as an OpenAPI 3 document")
	cmd.Flags().Bool("require-id-first", true, "Require the first entity's first field to be \"id\"")
	cmd.Flags().String("templates-dir", "", "Load templates from this directory instead of the bundled set")
	cmd.Flags().BoolP("interactive", "i", false, "Pick backend and framework interactively")
	cmd.Flags().Bool("dry-run", false, "List the files that would be written without writing them")

	return cmd
}

func runGenerate(cmd *cobra.Command, d *Dependencies, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	cfg := d.Config.Generator

	backend, err := pickArg(cmd, args, 1, "backend", cfg.Backend)
	if err != nil {
		return err
	}
	framework, err := pickArg(cmd, args, 2, "framework", cfg.Framework)
	if err != nil {
		return err
	}

	explicit := len(args) > 1 || cmd.Flags().Changed("backend") || cmd.Flags().Changed("framework")
	if getBoolFlag(cmd, "interactive") && !explicit {
		picker := ui.NewPicker(d.Theme, d.Headless)
		backend, err = picker.Select(ctx, "Storage backend", d.Table.Backends(), d.Table.DefaultBackend())
		if err != nil {
			return err
		}
		framework, err = picker.Select(ctx, "Web framework", d.Table.Frameworks(backend), d.Table.DefaultFramework(backend))
		if err != nil {
			return err
		}
	}

	var repo assets.Repository
	if cmd.Flags().Changed("templates-dir") {
		repo, err = repository(getStringFlag(cmd, "templates-dir"))
		if err != nil {
			return err
		}
	}

	s, err := loadSchema(cmd, d, args[0])
	if err != nil {
		return err
	}

	policy := schema.Policy{RequireIDFirst: cfg.RequireIDFirst}
	if cmd.Flags().Changed("require-id-first") {
		policy.RequireIDFirst = getBoolFlag(cmd, "require-id-first")
	}

	outputRoot := cfg.OutputDir
	if cmd.Flags().Changed("output") {
		outputRoot = getStringFlag(cmd, "output")
	}

	projectID := getStringFlag(cmd, "project-id")
	if projectID == "" {
		projectID = newProjectID()
	}

	opts := project.GenerateOptions{
		Schema:      s,
		ProjectID:   projectID,
		ProjectName: getStringFlag(cmd, "name"),
		OutputRoot:  outputRoot,
		Backend:     backend,
		Framework:   framework,
		Policy:      policy,
	}
	gen := d.Generator(repo)

	if getBoolFlag(cmd, "dry-run") {
		slots, files, err := gen.Plan(ctx, opts)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s %s (%s)\n",
			d.Theme.Title("Dry run:"), filepath.Join(outputRoot, project.FolderName(projectID)), slots.Selection)
		for _, f := range files {
			_, _ = fmt.Fprintf(out, "  %s %s\n", f.Path, d.Theme.Muted(fmt.Sprintf("(%d bytes)", len(f.Content))))
		}
		return nil
	}

	progress := d.Progress(out)
	var bar ui.ProgressBar
	opts.OnFile = func(done, total int, relPath string) {
		if bar == nil {
			bar = progress.Start("Writing files", total)
		}
		bar.Advance(done, relPath)
	}

	res, err := gen.Generate(ctx, opts)
	if bar != nil {
		bar.Done()
	}
	if err != nil {
		return err
	}

	printSummary(out, d.Theme, s, res)
	return nil
}

// pickArg resolves one technology identifier from the positional argument
// at pos, the named flag, or the configured fallback, in that order. A
// positional value that contradicts an explicit flag is an error.
func pickArg(cmd *cobra.Command, args []string, pos int, flag, fallback string) (string, error) {
	flagSet := cmd.Flags().Changed(flag)
	flagVal := getStringFlag(cmd, flag)
	if len(args) > pos {
		if flagSet && !strings.EqualFold(strings.TrimSpace(flagVal), strings.TrimSpace(args[pos])) {
			return "", fmt.Errorf("conflicting %s: argument %q, --%s %q", flag, args[pos], flag, flagVal)
		}
		return args[pos], nil
	}
	if flagSet {
		return flagVal, nil
	}
	return fallback, nil
}

// loadSchema reads and decodes ref, showing a spinner for remote sources.
func loadSchema(cmd *cobra.Command, d *Dependencies, ref string) (*models.Schema, error) {
	openAPI := getBoolFlag(cmd, "openapi")
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		sp := d.Progress(cmd.ErrOrStderr()).Spinner("Fetching " + ref)
		defer sp.Stop()
	}
	s, err := d.Sources.Load(cmd.Context(), ref, openAPI)
	if err != nil {
		return nil, err
	}
	d.Logger.Debug("schema loaded", "ref", ref, "entities", len(s.Entities))
	return s, nil
}

func newProjectID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:projectIDLength]
}

func printSummary(w io.Writer, theme *ui.Theme, s *models.Schema, res *project.GenerateResult) {
	_, _ = fmt.Fprintln(w, theme.Success("✓ Project generated"))
	_, _ = fmt.Fprintf(w, "  %s %s\n", theme.Key("Location: "), res.Root)
	_, _ = fmt.Fprintf(w, "  %s %s\n", theme.Key("Stack:    "), res.Selection)
	_, _ = fmt.Fprintf(w, "  %s %d (%s)\n", theme.Key("Entities: "), len(s.Entities), strings.Join(s.EntityNames(), ", "))
	_, _ = fmt.Fprintf(w, "  %s %d\n", theme.Key("Files:    "), len(res.CreatedFiles))
}
