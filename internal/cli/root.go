package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/modu-ai/apigen/internal/defs"
	"github.com/modu-ai/apigen/pkg/version"
)

// newRootCmd builds the command tree around d. Subcommands read d after
// the root PersistentPreRunE has initialized it.
func newRootCmd(d *Dependencies) *cobra.Command {
	root := &cobra.Command{
		Use:   "apigen",
		Short: "Generate a REST backend project from an entity schema",
		Long: `apigen turns an entity schema (JSON, YAML or OpenAPI 3) into a complete,
buildable backend project for a chosen storage backend and web framework.

Each run validates the schema, resolves the technology pair against the
capability table, renders every template slot and writes the result to
output/project_<id>/.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return d.init(cmd)
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("apigen %s\n", version.GetFullVersion()))

	root.PersistentFlags().String("config", defs.ConfigYAML, "Path to the apigen configuration file")
	root.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	root.PersistentFlags().String("log-format", "", "Log format: text or json")
	root.PersistentFlags().Bool("no-color", false, "Disable colors and animated output")

	root.AddCommand(
		newGenerateCmd(d),
		newValidateCmd(d),
		newStackCmd(d),
		newConfigCmd(d),
		newVersionCmd(),
	)
	return root
}

// @MX:ANCHOR: [AUTO] Execute is the main entry point for the apigen CLI
// @MX:REASON: [AUTO] called from cmd/apigen/main.go; errors are printed here once
// Execute builds the command tree and runs it against os.Args.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	d := &Dependencies{}
	root := newRootCmd(d)
	if err := root.ExecuteContext(ctx); err != nil {
		printError(root, d, err)
		return err
	}
	return nil
}

// printError writes err to stderr, styled when the theme is available.
func printError(cmd *cobra.Command, d *Dependencies, err error) {
	msg := "Error: " + err.Error()
	if d.Theme != nil {
		msg = d.Theme.Error(msg)
	}
	_, _ = fmt.Fprintln(cmd.ErrOrStderr(), msg)
}

func getStringFlag(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		return ""
	}
	return val
}

func getBoolFlag(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return val
}
