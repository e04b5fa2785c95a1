package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/modu-ai/apigen/internal/stack"
	"github.com/modu-ai/apigen/internal/ui"
)

func newStackCmd(d *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stack",
		Short: "List the supported backends, frameworks and their template slots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			md, err := stackMarkdown(d.Table)
			if err != nil {
				return err
			}

			plain := getBoolFlag(cmd, "plain") || d.Headless.IsHeadless() || !ui.IsTerminal(out)
			rendered, err := ui.NewMarkdown(plain, d.Theme.NoColor).Render(md)
			if err != nil {
				return fmt.Errorf("render stack table: %w", err)
			}
			_, err = fmt.Fprint(out, rendered)
			return err
		},
	}

	cmd.Flags().Bool("plain", false, "Print raw Markdown")
	return cmd
}

// stackMarkdown describes every backend/framework pair in the table.
func stackMarkdown(t *stack.Table) (string, error) {
	var b strings.Builder
	b.WriteString("# Supported technology\n\n")
	b.WriteString("| backend | framework | default |\n")
	b.WriteString("|---|---|---|\n")
	for _, backend := range t.Backends() {
		for _, fw := range t.Frameworks(backend) {
			mark := ""
			if backend == t.DefaultBackend() && fw == t.DefaultFramework(backend) {
				mark = "yes"
			} else if fw == t.DefaultFramework(backend) {
				mark = "backend default"
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", backend, fw, mark)
		}
	}

	for _, backend := range t.Backends() {
		for _, fw := range t.Frameworks(backend) {
			slots, err := t.Resolve(backend, fw)
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "\n## %s\n\n", slots.Selection)
			b.WriteString("| slot | scope | output |\n")
			b.WriteString("|---|---|---|\n")
			for _, s := range slots.Slots {
				fmt.Fprintf(&b, "| %s | %s | `%s` |\n", s.Name, s.Scope, s.Output)
			}
		}
	}
	return b.String(), nil
}
