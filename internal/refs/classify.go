// Package refs classifies an input token into one of the three reference
// tiers relver derives versions from: tag, branch, or bare commit. The
// classification is read-only and stable for the duration of a run.
package refs

import (
	"errors"
	"fmt"

	"github.com/raveheart1/relver/internal/gitrepo"
)

// Kind is the resolved reference tier.
type Kind int

const (
	// KindTag means the reference names an existing tag (or HEAD sits
	// exactly on one).
	KindTag Kind = iota
	// KindBranch means the reference names an existing branch.
	KindBranch
	// KindCommit is the universal fallback: a bare commit or detached,
	// untagged HEAD.
	KindCommit
)

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "tag"
	case KindBranch:
		return "branch"
	default:
		return "commit"
	}
}

// UnresolvedReferenceError indicates the input matches neither a tag nor a
// branch and is not HEAD.
type UnresolvedReferenceError struct {
	Ref string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("reference %q matches no tag or branch", e.Ref)
}

// Reference is a classified input token.
type Reference struct {
	// Name is the resolved reference: the tag or branch name, or "HEAD"
	// for the commit tier.
	Name string
	// Kind is the tier the reference resolved to.
	Kind Kind
}

// Classify resolves input to a Reference. An empty input is treated as
// HEAD. For HEAD, the classifier first checks whether HEAD coincides with
// the nearest tag under mode (zero commits between them), in which case the
// reference is reclassified as that tag; otherwise it is the current branch
// when one resolves, or a bare commit. A non-HEAD input must name an
// existing tag or branch, tags taking precedence.
func Classify(repo gitrepo.Repository, input string, mode gitrepo.TagMatchMode) (Reference, error) {
	if input == "" || input == "HEAD" {
		return classifyHead(repo, mode)
	}

	isTag, err := repo.TagExists(input)
	if err != nil {
		return Reference{}, fmt.Errorf("checking tag %q: %w", input, err)
	}
	if isTag {
		return Reference{Name: input, Kind: KindTag}, nil
	}

	isBranch, err := repo.BranchExists(input)
	if err != nil {
		return Reference{}, fmt.Errorf("checking branch %q: %w", input, err)
	}
	if isBranch {
		return Reference{Name: input, Kind: KindBranch}, nil
	}

	return Reference{}, &UnresolvedReferenceError{Ref: input}
}

// classifyHead decides which tier an unresolved HEAD belongs to.
func classifyHead(repo gitrepo.Repository, mode gitrepo.TagMatchMode) (Reference, error) {
	// HEAD sitting exactly on a tag is the tag. A missing tag is not an
	// error here; untagged repositories fall through to the lower tiers.
	tag, err := repo.NearestTag("HEAD", mode.Lightweight())
	if err == nil {
		count, cErr := repo.NonMergeCommitCount(tag, "HEAD")
		if cErr != nil {
			return Reference{}, fmt.Errorf("counting commits %s..HEAD: %w", tag, cErr)
		}
		if count == 0 {
			return Reference{Name: tag, Kind: KindTag}, nil
		}
	} else if !errors.Is(err, gitrepo.ErrNoTagFound) {
		return Reference{}, fmt.Errorf("querying nearest tag: %w", err)
	}

	branch, err := repo.ResolveSymbolicHead()
	if err == nil {
		return Reference{Name: branch, Kind: KindBranch}, nil
	}
	if !errors.Is(err, gitrepo.ErrDetachedHead) {
		return Reference{}, fmt.Errorf("resolving symbolic HEAD: %w", err)
	}

	return Reference{Name: "HEAD", Kind: KindCommit}, nil
}
