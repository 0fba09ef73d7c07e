package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MeKo-Tech/imgbatch/internal/config"
)

func newConfigCommand(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the imgbatch configuration",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := yaml.Marshal(a.cfg)
			if err != nil {
				return fmt.Errorf("failed to render configuration: %w", err)
			}
			w := cmd.OutOrStdout()
			if used := a.v.ConfigFileUsed(); used != "" {
				_, _ = fmt.Fprintf(w, "# config file: %s\n", used)
			}
			_, _ = w.Write(out)
			if err := a.cfg.Validate(); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [file]",
		Short: "Write a configuration file with default values",
		Long: `Write the default configuration to the given file, or to imgbatch.yaml in
the current directory. An existing file is never overwritten.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.ConfigFileName + ".yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if err := config.GenerateDefaultConfigFile(path); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Configuration written to %s\n", path)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, initCmd)
	return configCmd
}
