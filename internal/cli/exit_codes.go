package cli

import "fmt"

// Exit codes for the relver CLI.
// These codes support programmatic composition and CI/CD integration.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitRepositoryFailure indicates the repository could not be read.
	ExitRepositoryFailure = 1

	// ExitInvalidArguments indicates invalid command arguments, including
	// a reference that matches neither a tag nor a branch.
	ExitInvalidArguments = 3

	// ExitConfigInvalid indicates invalid configuration.
	ExitConfigInvalid = 4
)

// ExitError carries an explicit process exit code out of a command.
type ExitError struct {
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError creates an ExitError with the given code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}
