package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the codex-notify CLI.
// Codex ignores the hook's exit status, but scripts and the check command rely on it.
const (
	// ExitSuccess indicates a delivered, skipped, or ignored event
	ExitSuccess = 0

	// ExitFailure indicates a missing argument, invalid JSON, or a missing/invalid config
	ExitFailure = 1
)

// exitError is a custom error type that carries an exit code.
// It is returned after the failure has already been reported, so it prints nothing itself.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitFailure
}

// isReported reports whether err was already shown to the user
func isReported(err error) bool {
	var e *exitError
	return errors.As(err, &e)
}
