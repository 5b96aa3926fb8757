// Package gitrepo provides read-only git repository queries for relver:
// nearest-tag lookup, reference resolution, and non-merge commit walks.
// It uses the go-git library exclusively, so no git CLI installation is
// required. All queries are one-shot reads against a consistent local view;
// nothing in this package mutates the repository.
package gitrepo

import "errors"

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default, it's a no-op. Set it via SetDebugLogger to enable
// debug output.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for repository operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Sentinel errors distinguishing recoverable lookup misses from genuine
// repository access failures. Callers match these with errors.Is.
var (
	// ErrNoTagFound indicates no tag of the requested kind is reachable
	// from the queried reference.
	ErrNoTagFound = errors.New("no tag found")

	// ErrDetachedHead indicates HEAD does not point at a branch.
	ErrDetachedHead = errors.New("detached HEAD")

	// ErrUnknownRevision indicates a revision string could not be resolved
	// to a commit.
	ErrUnknownRevision = errors.New("unknown revision")
)

// TagMatchMode controls which tag kinds a nearest-tag query considers.
type TagMatchMode int

const (
	// AnnotatedOnly restricts queries to annotated tags.
	AnnotatedOnly TagMatchMode = iota
	// IncludeLightweight considers lightweight tags as well.
	IncludeLightweight
)

// String returns a human-readable name for the mode.
func (m TagMatchMode) String() string {
	if m == IncludeLightweight {
		return "lightweight"
	}
	return "annotated"
}

// Lightweight reports whether lightweight tags are considered.
func (m TagMatchMode) Lightweight() bool {
	return m == IncludeLightweight
}

// Commit is a single history entry returned by commit-subject listings.
type Commit struct {
	// Hash is the full hex commit hash.
	Hash string
	// Subject is the first line of the commit message.
	Subject string
}

// Repository is the capability set relver needs from a versioned store.
// Any backend satisfying these primitives suffices; the go-git
// implementation is Git. Range arguments follow git convention: from is
// exclusive, to is inclusive, and an empty from means "all history
// reachable from to".
type Repository interface {
	// NearestTag returns the name of the nearest tag at or before ref.
	// With includeLightweight false only annotated tags are considered.
	// Returns ErrNoTagFound when no matching tag is reachable.
	NearestTag(ref string, includeLightweight bool) (string, error)

	// ResolveSymbolicHead returns the branch name HEAD points at, or
	// ErrDetachedHead when HEAD is detached.
	ResolveSymbolicHead() (string, error)

	// TagExists reports whether a tag with the exact name exists.
	TagExists(name string) (bool, error)

	// BranchExists reports whether a local branch with the exact name exists.
	BranchExists(name string) (bool, error)

	// NonMergeCommitCount counts single-parent commits in (from, to].
	NonMergeCommitCount(from, to string) (int, error)

	// LatestCommitHash resolves ref to its commit hash.
	LatestCommitHash(ref string) (string, error)

	// ListNonMergeCommitSubjects returns single-parent commits in
	// (from, to], newest first.
	ListNonMergeCommitSubjects(from, to string) ([]Commit, error)

	// CountTagsMatchingPrefix counts tags whose name starts with
	// "v" followed by the given numeric version prefix.
	CountTagsMatchingPrefix(prefix string) (int, error)
}
