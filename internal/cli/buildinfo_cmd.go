package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relver/internal/version"
)

// buildinfoCmd is a hidden diagnostic command; release pipelines use it to
// verify which binary they are actually running.
var buildinfoCmd = &cobra.Command{
	Use:    "buildinfo",
	Short:  "Print detailed build information",
	Hidden: true,
	// Overrides the root hook: build info must print even when the
	// configuration is broken.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "version:   %s\n", version.Version)
		fmt.Fprintf(out, "commit:    %s\n", version.Commit)
		fmt.Fprintf(out, "built:     %s\n", version.BuildDate)
		fmt.Fprintf(out, "dev build: %v\n", version.IsDevBuild())
	},
}

func init() {
	rootCmd.AddCommand(buildinfoCmd)
}
