// Package cli implements the relver command line interface: the version
// and changelog façades plus configuration helpers, built on cobra.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relver/internal/config"
	apperrors "github.com/raveheart1/relver/internal/errors"
	"github.com/raveheart1/relver/internal/gitrepo"
	"github.com/raveheart1/relver/internal/output"
	"github.com/raveheart1/relver/internal/version"
)

var (
	flagConfigPath string
	flagDebug      bool

	// cfg is the effective configuration, loaded before any command runs.
	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "relver",
	Short: "Derive versions and changelogs from git history",
	Long: `relver derives build-facing identifiers from the history of a git
repository: a semantic version triple (VERSION, RELEASE, METADATA) and a
changelog covering the commits since the nearest preceding tag.

Given a tag, branch, commit, or nothing at all (HEAD), it deterministically
answers "what version is this?" and "what changed since the last release?".`,
	Example: `  # Version triple for HEAD
  relver version

  # Version triple for a tag
  relver version v1.0.0-2_beta

  # Markdown changelog since the last annotated tag
  relver changelog

  # RPM changelog entry, lightweight tags included
  relver changelog --lightweight --format rpm`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(flagConfigPath)
		if err != nil {
			return apperrors.Wrap(err, apperrors.Configuration,
				"Check the config file syntax against 'relver config show'",
			)
		}
		cfg = loaded

		if flagDebug {
			gitrepo.SetDebugLogger(func(format string, args ...any) {
				fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
			})
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "Path to config file (default .relver/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output for repository queries")
	rootCmd.SetVersionTemplate(fmt.Sprintf("relver {{.Version}} (commit %s, built %s)\n", version.Commit, version.BuildDate))
}

// Execute runs the root command and prints any structured error.
// The returned error, if non-nil, carries the process exit code; main
// retrieves it with ExitCode.
func Execute() error {
	err := rootCmd.Execute()
	if err == nil {
		return nil
	}

	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		// Errors go to stderr, so color support is decided there rather
		// than by fatih/color's stdout-based default.
		if output.DetectTerminalCapabilities().SupportsColor {
			apperrors.PrintError(cliErr)
		} else {
			fmt.Fprint(os.Stderr, apperrors.FormatErrorPlain(cliErr))
		}
	} else {
		var exitErr *ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return err
}

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if cliErr := apperrors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case apperrors.Argument, apperrors.Reference:
			return ExitInvalidArguments
		case apperrors.Configuration:
			return ExitConfigInvalid
		default:
			return ExitRepositoryFailure
		}
	}

	return ExitRepositoryFailure
}
