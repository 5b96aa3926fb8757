// Package testutil provides test utilities and helpers for relver tests.
package testutil

import (
	"fmt"
	"strings"

	"github.com/raveheart1/relver/internal/gitrepo"
)

// FakeRepo is an in-memory gitrepo.Repository for kernel tests. History is
// modeled as a linear sequence of commits, oldest first; tags and branches
// point at positions in that sequence. This keeps scenarios reproducible
// without touching a real repository.
type FakeRepo struct {
	// Commits is the linear history, oldest first.
	Commits []gitrepo.Commit
	// Tags maps tag name to the index of the tagged commit.
	Tags map[string]int
	// AnnotatedTags marks which tags are annotated.
	AnnotatedTags map[string]bool
	// Branches maps branch name to the index of its tip commit.
	Branches map[string]int
	// Head is the index of the commit HEAD points at.
	Head int
	// HeadBranch is the symbolic branch HEAD is on; empty means detached.
	HeadBranch string
	// Err, when set, is returned by every query to simulate access failure.
	Err error
}

var _ gitrepo.Repository = (*FakeRepo)(nil)

// position resolves a reference token to an index in the commit sequence.
// Supports tag names, branch names, "HEAD", full hashes, and a single
// trailing "^" (parent of the referenced commit).
func (f *FakeRepo) position(ref string) (int, error) {
	if ref == "" {
		ref = "HEAD"
	}
	if base, ok := strings.CutSuffix(ref, "^"); ok {
		pos, err := f.position(base)
		if err != nil {
			return 0, err
		}
		if pos == 0 {
			return 0, fmt.Errorf("resolving %q: %w", ref, gitrepo.ErrUnknownRevision)
		}
		return pos - 1, nil
	}
	if ref == "HEAD" {
		return f.Head, nil
	}
	if i, ok := f.Tags[ref]; ok {
		return i, nil
	}
	if i, ok := f.Branches[ref]; ok {
		return i, nil
	}
	for i, c := range f.Commits {
		if c.Hash == ref {
			return i, nil
		}
	}
	return 0, fmt.Errorf("resolving %q: %w", ref, gitrepo.ErrUnknownRevision)
}

func (f *FakeRepo) eligible(name string, includeLightweight bool) bool {
	if includeLightweight {
		return true
	}
	return f.AnnotatedTags[name]
}

// NearestTag returns the eligible tag closest at or before ref. Ties on the
// same commit resolve to the lexically greatest name, matching the go-git
// implementation.
func (f *FakeRepo) NearestTag(ref string, includeLightweight bool) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	pos, err := f.position(ref)
	if err != nil {
		return "", err
	}
	best, bestPos := "", -1
	for name, i := range f.Tags {
		if i > pos || !f.eligible(name, includeLightweight) {
			continue
		}
		if i > bestPos || (i == bestPos && name > best) {
			best, bestPos = name, i
		}
	}
	if bestPos < 0 {
		return "", fmt.Errorf("nearest tag for %q: %w", ref, gitrepo.ErrNoTagFound)
	}
	return best, nil
}

// ResolveSymbolicHead returns the branch HEAD is on, or ErrDetachedHead.
func (f *FakeRepo) ResolveSymbolicHead() (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	if f.HeadBranch == "" {
		return "", gitrepo.ErrDetachedHead
	}
	return f.HeadBranch, nil
}

// TagExists reports whether the named tag exists.
func (f *FakeRepo) TagExists(name string) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.Tags[name]
	return ok, nil
}

// BranchExists reports whether the named branch exists.
func (f *FakeRepo) BranchExists(name string) (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	_, ok := f.Branches[name]
	return ok, nil
}

// NonMergeCommitCount counts commits in (from, to].
func (f *FakeRepo) NonMergeCommitCount(from, to string) (int, error) {
	commits, err := f.ListNonMergeCommitSubjects(from, to)
	if err != nil {
		return 0, err
	}
	return len(commits), nil
}

// ListNonMergeCommitSubjects returns commits in (from, to], newest first.
func (f *FakeRepo) ListNonMergeCommitSubjects(from, to string) ([]gitrepo.Commit, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	end, err := f.position(to)
	if err != nil {
		return nil, err
	}
	start := -1
	if from != "" {
		start, err = f.position(from)
		if err != nil {
			return nil, err
		}
	}
	var out []gitrepo.Commit
	for i := end; i > start; i-- {
		out = append(out, f.Commits[i])
	}
	return out, nil
}

// LatestCommitHash resolves ref to its commit hash.
func (f *FakeRepo) LatestCommitHash(ref string) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	pos, err := f.position(ref)
	if err != nil {
		return "", err
	}
	return f.Commits[pos].Hash, nil
}

// CountTagsMatchingPrefix counts tags named "v<prefix>…".
func (f *FakeRepo) CountTagsMatchingPrefix(prefix string) (int, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	count := 0
	for name := range f.Tags {
		if strings.HasPrefix(name, "v"+prefix) {
			count++
		}
	}
	return count, nil
}

// LinearHistory builds n commits with deterministic hashes and subjects,
// oldest first: hash "%040x" of the index, subject "commit <i>".
func LinearHistory(n int) []gitrepo.Commit {
	commits := make([]gitrepo.Commit, n)
	for i := range commits {
		commits[i] = gitrepo.Commit{
			Hash:    fmt.Sprintf("%040x", i+1),
			Subject: fmt.Sprintf("commit %d", i+1),
		}
	}
	return commits
}
