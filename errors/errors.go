package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Usage errors are raised synchronously to the caller and never classified.
var (
	// ErrNoCallback is returned when a callback-style call is made without a callback.
	ErrNoCallback = stderrors.New("callback function is required")

	// ErrInvalidArgument is returned when an argument has an unsupported type or value.
	ErrInvalidArgument = stderrors.New("invalid argument")
)

// Error is a compatibility error synthesized from a platform failure.
// It is created once when a platform operation fails with a recognised
// condition and is never mutated afterwards.
type Error struct {
	// Code is the stable error code, e.g. ENOENT.
	Code ErrorCode

	// Syscall is the name of the operation that failed, e.g. "open" or "scandir".
	Syscall string

	// Path is the path the operation was applied to.
	Path string

	// Err is the original platform error, if there was one.
	Err error
}

// New creates an Error for the given code, syscall and path.
// cause may be nil when the condition was detected by the shim itself.
func New(code ErrorCode, syscall, path string, cause error) *Error {
	return &Error{
		Code:    code,
		Syscall: syscall,
		Path:    path,
		Err:     cause,
	}
}

// Error renders the conventional "CODE: description, syscall 'path'" message.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s, %s '%s'", e.Code, e.Code.Description(), e.Syscall, e.Path)
}

// Unwrap returns the original platform error.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches target. Besides other *Error values
// (matched by code, and by syscall when the target names one), the standard
// io/fs sentinels are recognised so errors.Is(err, fs.ErrNotExist) keeps working.
func (e *Error) Is(target error) bool {
	switch target {
	case fs.ErrNotExist:
		return e.Code == CodeNotFound
	case fs.ErrExist:
		return e.Code == CodeAlreadyExists || e.Code == CodeNotEmpty
	}

	var t *Error
	if stderrors.As(target, &t) {
		return t.Code == e.Code && (t.Syscall == "" || t.Syscall == e.Syscall)
	}
	return false
}

// Errno returns the platform errno matching the code.
func (e *Error) Errno() syscall.Errno {
	return e.Code.Errno()
}

// Negative returns the negated errno, the numeric form error records traditionally carry.
func (e *Error) Negative() int {
	return -int(e.Errno())
}

// PathError converts the error into an *os.PathError carrying a bare errno,
// the shape os.IsNotExist and os.IsExist understand.
func (e *Error) PathError() *os.PathError {
	return &os.PathError{Op: e.Syscall, Path: e.Path, Err: e.Errno()}
}

// CodeOf returns the code carried by err, or "" if err is not a classified error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// ToOSError converts classified errors into *os.PathError and returns
// every other error unchanged.
func ToOSError(err error) error {
	var e *Error
	if stderrors.As(err, &e) {
		return e.PathError()
	}
	return err
}
