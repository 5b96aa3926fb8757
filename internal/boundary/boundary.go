// Package boundary resolves the nearest meaningful changelog boundary for a
// reference: the closest preceding tag that is strictly prior to the
// reference. Both version synthesis and changelog range generation share
// this resolution so neither ever describes a zero-length range.
package boundary

import (
	"errors"
	"fmt"

	"github.com/raveheart1/relver/internal/gitrepo"
)

// ErrNoPriorBoundary indicates the boundary search ran off the start of
// history: no tag exists strictly before the reference. Changelog callers
// recover by treating the range as "everything since the beginning".
var ErrNoPriorBoundary = errors.New("no prior boundary")

// Nearest returns the name of the nearest tag at or before ref under the
// given mode, stepping one tag further back when ref sits exactly on the
// naive result. The lookback is a single bounded step, not a recursion:
// a second degenerate result means no earlier tag exists.
func Nearest(repo gitrepo.Repository, ref string, mode gitrepo.TagMatchMode) (string, error) {
	tag, err := repo.NearestTag(ref, mode.Lightweight())
	if err != nil {
		if errors.Is(err, gitrepo.ErrNoTagFound) {
			return "", ErrNoPriorBoundary
		}
		return "", fmt.Errorf("querying nearest tag: %w", err)
	}

	count, err := repo.NonMergeCommitCount(tag, ref)
	if err != nil {
		return "", fmt.Errorf("counting commits %s..%s: %w", tag, ref, err)
	}
	if count > 0 {
		return tag, nil
	}

	// ref coincides with the tag; the boundary must be the tag before it.
	prior, err := repo.NearestTag(tag+"^", mode.Lightweight())
	if err != nil {
		if errors.Is(err, gitrepo.ErrNoTagFound) || errors.Is(err, gitrepo.ErrUnknownRevision) {
			return "", ErrNoPriorBoundary
		}
		return "", fmt.Errorf("querying tag before %s: %w", tag, err)
	}
	return prior, nil
}
