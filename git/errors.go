package git

import (
	"errors"
	"fmt"
)

// Sentinel errors that can be checked with errors.Is().
// These wrap underlying go-git errors while providing a stable API for consumers.

// ErrAlreadyUpToDate is returned when a fetch results in no changes because
// the local and remote states are already synchronized.
var ErrAlreadyUpToDate = errors.New("already up to date")

// ErrAuthRequired is returned when an operation requires authentication
// but no credentials were provided or available.
var ErrAuthRequired = errors.New("authentication required")

// ErrEmptyCommit is returned when a commit would record no changes and
// empty commits were not allowed.
var ErrEmptyCommit = errors.New("nothing to commit")

// ErrInvalidRef is returned when a reference name, path or option is
// malformed or invalid for the requested operation.
var ErrInvalidRef = errors.New("invalid reference")

// ErrResolveFailed is returned when a revision or remote cannot be resolved.
var ErrResolveFailed = errors.New("cannot resolve revision")

// WrapError wraps an error with additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapErrorf wraps an error with formatted additional context while preserving
// the ability to check against sentinel errors using errors.Is().
func WrapErrorf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
