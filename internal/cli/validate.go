package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/modu-ai/apigen/internal/schema"
)

func newValidateCmd(d *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <schema>",
		Short: "Decode and validate an entity schema without generating",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			s, err := loadSchema(cmd, d, args[0])
			if err != nil {
				return err
			}

			policy := schema.Policy{RequireIDFirst: d.Config.Generator.RequireIDFirst}
			if cmd.Flags().Changed("require-id-first") {
				policy.RequireIDFirst = getBoolFlag(cmd, "require-id-first")
			}
			if err := schema.NewValidator(policy).Validate(s); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(out, "%s %d entities, %d fields\n",
				d.Theme.Success("✓ Schema valid:"), len(s.Entities), s.FieldCount())
			for _, e := range s.Entities {
				_, _ = fmt.Fprintf(out, "  %s %s\n", d.Theme.Key(e.Name), d.Theme.Muted(fmt.Sprintf("(%d fields)", len(e.Fields))))
			}
			return nil
		},
	}

	cmd.Flags().Bool("openapi", false, "Read the schema as an OpenAPI 3 document")
	cmd.Flags().Bool("require-id-first", true, "Require the first entity's first field to be \"id\"")
	return cmd
}
