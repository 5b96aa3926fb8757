package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	apperrors "github.com/raveheart1/relver/internal/errors"
	"github.com/raveheart1/relver/internal/gitrepo"
	"github.com/raveheart1/relver/internal/refs"
	"github.com/raveheart1/relver/internal/semver"
)

var versionLightweight bool

var versionCmd = &cobra.Command{
	Use:   "version [ref]",
	Short: "Derive the version triple for a reference",
	Long: `Derive the (VERSION, RELEASE, METADATA) triple for a tag, branch, or
commit. With no argument the reference is HEAD; when HEAD sits exactly on a
tag it is versioned as that tag.

Parsed tags carry their own version. Anything else gets a synthetic
MAJOR.MINOR.commitCount version ranked by trust: 0.2 for tags that do not
parse, 0.1 for branches, 0.0 for bare commits.`,
	Example: `  # Version of HEAD
  relver version

  # Version of a release tag
  relver version v1.0.0-2_beta

  # Consider lightweight tags too
  relver version --lightweight`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		input := ""
		if len(args) == 1 {
			input = args[0]
		}
		return runVersion(cmd, input)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().BoolVar(&versionLightweight, "lightweight", false, "Consider lightweight tags as well as annotated ones")
}

func runVersion(cmd *cobra.Command, input string) error {
	repo, err := gitrepo.Open("")
	if err != nil {
		return apperrors.RepositoryAccess(err)
	}

	mode := cfg.Mode()
	if versionLightweight {
		mode = gitrepo.IncludeLightweight
	}

	ref, err := refs.Classify(repo, input, mode)
	if err != nil {
		var unresolved *refs.UnresolvedReferenceError
		if errors.As(err, &unresolved) {
			return apperrors.UnresolvedReference(unresolved.Ref)
		}
		return apperrors.RepositoryAccess(err)
	}

	triple, err := semver.Synthesize(repo, ref)
	if err != nil {
		return apperrors.RepositoryAccess(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "VERSION=%s\n", triple.Version)
	fmt.Fprintf(out, "RELEASE=%d\n", triple.Release)
	fmt.Fprintf(out, "METADATA=%s\n", triple.Metadata)
	return nil
}
