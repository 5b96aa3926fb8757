package gitrepo

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Git is the go-git backed Repository implementation.
type Git struct {
	repo *git.Repository
}

var _ Repository = (*Git)(nil)

// Open opens the git repository at the specified path or the current
// working directory. It uses go-git's PlainOpenWithOptions with
// DetectDotGit enabled to traverse up the directory tree to find the
// repository root. If path is empty, the current working directory is used.
func Open(path string) (*Git, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[gitrepo] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	return &Git{repo: repo}, nil
}

// NearestTag walks the ancestry of ref (including ref's own commit) and
// returns the name of the first tagged commit encountered. With
// includeLightweight false, only annotated tags are considered. When a
// commit carries several eligible tags, the lexically greatest name wins
// so repeated queries are deterministic. On merged histories "nearest"
// means first in preorder encounter order, the same order walkRange
// visits commits in, not shortest graph distance.
func (g *Git) NearestTag(ref string, includeLightweight bool) (string, error) {
	tagged, err := g.taggedCommits(includeLightweight)
	if err != nil {
		return "", err
	}
	if len(tagged) == 0 {
		return "", fmt.Errorf("nearest tag for %q: %w", ref, ErrNoTagFound)
	}

	start, err := g.resolveCommit(ref)
	if err != nil {
		return "", err
	}

	iter := object.NewCommitPreorderIter(start, nil, nil)
	defer iter.Close()

	var found string
	err = iter.ForEach(func(c *object.Commit) error {
		if names, ok := tagged[c.Hash]; ok {
			found = names[len(names)-1]
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walking history from %q: %w", ref, err)
	}
	if found == "" {
		return "", fmt.Errorf("nearest tag for %q: %w", ref, ErrNoTagFound)
	}

	logDebug("[gitrepo] NearestTag(%s, lightweight=%v): %s", ref, includeLightweight, found)
	return found, nil
}

// taggedCommits maps commit hashes to the sorted tag names pointing at them.
func (g *Git) taggedCommits(includeLightweight bool) (map[plumbing.Hash][]string, error) {
	tags, err := g.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer tags.Close()

	tagged := make(map[plumbing.Hash][]string)
	err = tags.ForEach(func(r *plumbing.Reference) error {
		name := r.Name().Short()

		if tagObj, tagErr := g.repo.TagObject(r.Hash()); tagErr == nil {
			// Annotated tag: resolve through the tag object to the commit.
			commit, cErr := tagObj.Commit()
			if cErr != nil {
				return nil
			}
			tagged[commit.Hash] = append(tagged[commit.Hash], name)
			return nil
		}

		if !includeLightweight {
			return nil
		}
		tagged[r.Hash()] = append(tagged[r.Hash()], name)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating tags: %w", err)
	}

	for _, names := range tagged {
		sort.Strings(names)
	}
	return tagged, nil
}

// ResolveSymbolicHead returns the short branch name HEAD points at.
// Returns ErrDetachedHead when HEAD is not on a branch.
func (g *Git) ResolveSymbolicHead() (string, error) {
	head, err := g.repo.Head()
	if err != nil {
		return "", fmt.Errorf("getting HEAD reference: %w", err)
	}
	if !head.Name().IsBranch() {
		return "", ErrDetachedHead
	}
	return head.Name().Short(), nil
}

// TagExists reports whether a tag with the exact name exists.
func (g *Git) TagExists(name string) (bool, error) {
	_, err := g.repo.Reference(plumbing.NewTagReferenceName(name), true)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, fmt.Errorf("checking tag %q: %w", name, err)
}

// BranchExists reports whether a local branch with the exact name exists.
func (g *Git) BranchExists(name string) (bool, error) {
	_, err := g.repo.Reference(plumbing.NewBranchReferenceName(name), true)
	if err == nil {
		return true, nil
	}
	if err == plumbing.ErrReferenceNotFound {
		return false, nil
	}
	return false, fmt.Errorf("checking branch %q: %w", name, err)
}

// NonMergeCommitCount counts single-parent commits in the range (from, to].
// An empty from counts all history reachable from to.
func (g *Git) NonMergeCommitCount(from, to string) (int, error) {
	count := 0
	err := g.walkRange(from, to, func(c *object.Commit) {
		count++
	})
	if err != nil {
		return 0, err
	}
	logDebug("[gitrepo] NonMergeCommitCount(%s, %s): %d", from, to, count)
	return count, nil
}

// ListNonMergeCommitSubjects returns single-parent commits in (from, to],
// newest first, with their message subject lines.
func (g *Git) ListNonMergeCommitSubjects(from, to string) ([]Commit, error) {
	var commits []Commit
	err := g.walkRange(from, to, func(c *object.Commit) {
		subject, _, _ := strings.Cut(c.Message, "\n")
		commits = append(commits, Commit{
			Hash:    c.Hash.String(),
			Subject: strings.TrimSpace(subject),
		})
	})
	if err != nil {
		return nil, err
	}
	return commits, nil
}

// walkRange visits every non-merge commit in (from, to], newest first,
// with the same semantics as git rev-list from..to: everything reachable
// from from is excluded, including ancestors reachable only through a
// merge's other parent. A range whose endpoints coincide visits nothing.
func (g *Git) walkRange(from, to string, visit func(*object.Commit)) error {
	start, err := g.resolveCommit(to)
	if err != nil {
		return err
	}

	var excluded map[plumbing.Hash]bool
	if from != "" {
		boundary, err := g.resolveCommit(from)
		if err != nil {
			return err
		}
		excluded, err = reachableSet(boundary)
		if err != nil {
			return fmt.Errorf("walking boundary %s: %w", from, err)
		}
	}

	iter := object.NewCommitPreorderIter(start, excluded, nil)
	defer iter.Close()

	err = iter.ForEach(func(c *object.Commit) error {
		if c.NumParents() > 1 {
			return nil
		}
		visit(c)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking range %s..%s: %w", from, to, err)
	}
	return nil
}

// reachableSet collects every commit reachable from c, c included.
func reachableSet(c *object.Commit) (map[plumbing.Hash]bool, error) {
	seen := make(map[plumbing.Hash]bool)

	iter := object.NewCommitPreorderIter(c, nil, nil)
	defer iter.Close()

	err := iter.ForEach(func(c *object.Commit) error {
		seen[c.Hash] = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seen, nil
}

// LatestCommitHash resolves ref to its full commit hash.
func (g *Git) LatestCommitHash(ref string) (string, error) {
	commit, err := g.resolveCommit(ref)
	if err != nil {
		return "", err
	}
	return commit.Hash.String(), nil
}

// CountTagsMatchingPrefix counts tags whose name begins with "v" followed
// by the given numeric version prefix. The match is deliberately loose:
// v1.2 also counts v1.2.0 and v1.20.x, matching the historical behavior
// release-candidate numbering depends on.
func (g *Git) CountTagsMatchingPrefix(prefix string) (int, error) {
	tags, err := g.repo.Tags()
	if err != nil {
		return 0, fmt.Errorf("listing tags: %w", err)
	}
	defer tags.Close()

	count := 0
	err = tags.ForEach(func(r *plumbing.Reference) error {
		if strings.HasPrefix(r.Name().Short(), "v"+prefix) {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("iterating tags: %w", err)
	}
	return count, nil
}

// resolveCommit resolves a revision string (HEAD, branch, tag, hash, or a
// suffixed form like "v1.0^") to its commit object.
func (g *Git) resolveCommit(ref string) (*object.Commit, error) {
	if ref == "" {
		ref = "HEAD"
	}
	hash, err := g.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", ref, ErrUnknownRevision)
	}
	commit, err := g.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("reading commit %s: %w", hash, err)
	}
	return commit, nil
}
