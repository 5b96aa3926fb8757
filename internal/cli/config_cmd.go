package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raveheart1/relver/internal/config"
	apperrors "github.com/raveheart1/relver/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect relver configuration",
	Long:  `Commands for viewing the effective configuration and its file locations.`,
}

var configShowCmd = &cobra.Command{
	Use:          "show",
	Short:        "Print the effective configuration as YAML",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Shape the output with the same keys the config files use.
		effective := map[string]string{
			"tag_mode":      cfg.TagMode,
			"line_format":   cfg.LineFormat,
			"output_format": cfg.OutputFormat,
			"packager":      cfg.Packager,
		}
		data, err := yaml.Marshal(effective)
		if err != nil {
			return apperrors.Wrap(err, apperrors.Configuration)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:          "path",
	Short:        "Print config file locations",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		userPath, err := config.UserConfigPath()
		if err != nil {
			userPath = "(unavailable)"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user:    %s\n", userPath)
		fmt.Fprintf(cmd.OutOrStdout(), "project: %s\n", config.ProjectConfigPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:          "init",
	Short:        "Print a commented config template",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprint(cmd.OutOrStdout(), config.GetDefaultConfigTemplate())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
}
