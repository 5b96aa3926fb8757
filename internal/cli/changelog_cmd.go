package cli

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raveheart1/relver/internal/changelog"
	apperrors "github.com/raveheart1/relver/internal/errors"
	"github.com/raveheart1/relver/internal/gitrepo"
	"github.com/raveheart1/relver/internal/output"
	"github.com/raveheart1/relver/internal/refs"
)

var (
	changelogAnnotated   bool
	changelogLightweight bool
	changelogFormat      string
	changelogLineFormat  string
)

var changelogCmd = &cobra.Command{
	Use:   "changelog [ref]",
	Short: "Render the changelog since the nearest preceding tag",
	Long: `Render the non-merge commits between the nearest preceding tag and the
given reference (HEAD when omitted). When the reference sits exactly on a
tag, the boundary steps back one tag so the range is never empty.

Markdown output emits one section per requested tag kind; RPM output emits
a single dated entry with dash-prefixed bullets.`,
	Example: `  # Markdown changelog since the last annotated tag
  relver changelog

  # Sections for both annotated and lightweight boundaries
  relver changelog --annotated --lightweight

  # RPM changelog entry for a tag
  relver changelog v1.2.0 --format rpm

  # Custom commit line template
  relver changelog --line-format "%h: %s"`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) == 1 {
			input = args[0]
		}
		return runChangelog(cmd, input)
	},
}

func init() {
	rootCmd.AddCommand(changelogCmd)

	changelogCmd.Flags().BoolVar(&changelogAnnotated, "annotated", false, "Resolve a boundary among annotated tags")
	changelogCmd.Flags().BoolVar(&changelogLightweight, "lightweight", false, "Resolve a boundary among all tags, lightweight included")
	changelogCmd.Flags().StringVar(&changelogFormat, "format", "", "Output format: markdown or rpm (default from config)")
	changelogCmd.Flags().StringVar(&changelogLineFormat, "line-format", "", "Per-commit template, %h = short hash, %s = subject")
}

// requestedModes translates the flag set into an ordered mode list:
// annotated first when both are requested, the configured default when
// neither is.
func requestedModes() []gitrepo.TagMatchMode {
	var modes []gitrepo.TagMatchMode
	if changelogAnnotated {
		modes = append(modes, gitrepo.AnnotatedOnly)
	}
	if changelogLightweight {
		modes = append(modes, gitrepo.IncludeLightweight)
	}
	if len(modes) == 0 {
		modes = append(modes, cfg.Mode())
	}
	return modes
}

func runChangelog(cmd *cobra.Command, input string) error {
	format := changelogFormat
	if format == "" {
		format = cfg.OutputFormat
	}
	if format != "markdown" && format != "rpm" {
		return apperrors.InvalidOutputFormat(format)
	}

	lineFormat := changelogLineFormat
	if lineFormat == "" {
		lineFormat = cfg.LineFormatFor(format)
	}

	repo, err := gitrepo.Open("")
	if err != nil {
		return apperrors.RepositoryAccess(err)
	}

	modes := requestedModes()
	ref, err := refs.Classify(repo, input, modes[0])
	if err != nil {
		var unresolved *refs.UnresolvedReferenceError
		if errors.As(err, &unresolved) {
			return apperrors.UnresolvedReference(unresolved.Ref)
		}
		return apperrors.RepositoryAccess(err)
	}

	opts := changelog.Options{
		Modes:      modes,
		LineFormat: lineFormat,
		Now:        time.Now(),
		Packager:   cfg.Packager,
	}

	// Render into a buffer so a failed walk never leaves partial output.
	var buf bytes.Buffer
	spin := output.NewSpinner("walking history")
	spin.Start()
	if format == "rpm" {
		err = changelog.RenderRPMEntry(repo, ref.Name, opts, &buf)
	} else {
		err = changelog.RenderSections(repo, ref.Name, opts, &buf)
	}
	spin.Stop()
	if err != nil {
		return apperrors.RepositoryAccess(err)
	}

	fmt.Fprint(cmd.OutOrStdout(), buf.String())
	return nil
}
