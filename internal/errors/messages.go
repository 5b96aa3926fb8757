package errors

import "fmt"

// Common error messages for the relver CLI.
// These templates ensure consistent, actionable error messages.

// UnresolvedReference creates an error for an input that matches neither a
// tag nor a branch.
func UnresolvedReference(ref string) *CLIError {
	return NewReferenceError(
		fmt.Sprintf("reference %q matches no tag or branch", ref),
		"Check the spelling against 'git tag' and 'git branch' output",
		"Omit the argument to derive the version from HEAD",
	)
}

// RepositoryAccess creates an error for a failed repository query.
func RepositoryAccess(err error) *CLIError {
	return WrapWithMessage(err, Repository,
		"repository query failed",
		"Verify the current directory is inside a git repository",
		"Check that the repository is not corrupt (try 'git fsck')",
	)
}

// InvalidOutputFormat creates an error for an unknown changelog format.
func InvalidOutputFormat(format string) *CLIError {
	return NewArgumentErrorWithUsage(
		fmt.Sprintf("unknown output format %q", format),
		"relver changelog [ref] --format markdown|rpm",
		"Use 'markdown' for sectioned output or 'rpm' for a dated entry",
	)
}
