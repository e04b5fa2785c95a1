package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/modu-ai/apigen/internal/config"
)

func newConfigCmd(d *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the apigen configuration file",
	}

	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a configuration file with the default settings",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationConfigOptional: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := getStringFlag(cmd, "config")
			if err := config.Save(path, config.NewDefaultConfig(), getBoolFlag(cmd, "force")); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", d.Theme.Success("✓ Wrote"), path)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "Overwrite an existing configuration file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			data, err := yaml.Marshal(d.Config)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			source := d.ConfigSource
			if source == "" {
				source = "defaults"
			}
			_, _ = fmt.Fprintf(out, "# source: %s\n", source)
			_, err = out.Write(data)
			return err
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
