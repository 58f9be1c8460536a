// Package errors provides the stable error vocabulary used by the filesystem shim.
// Platform failures are classified into a small set of POSIX-style string codes
// so that consumers which branch on error codes keep working regardless of the
// host platform's error text.
package errors

import "syscall"

// ErrorCode represents a stable, platform independent failure kind.
// Codes are string-based so they read naturally in logs and match the
// conventional POSIX names consumers already branch on.
type ErrorCode string

const (
	// CodeNotFound indicates a path (or one of its parents) does not exist.
	CodeNotFound ErrorCode = "ENOENT"

	// CodeAlreadyExists indicates the target exists and the operation forbids overwriting it.
	CodeAlreadyExists ErrorCode = "EEXIST"

	// CodeNotDirectory indicates a path component that must be a directory is not one.
	CodeNotDirectory ErrorCode = "ENOTDIR"

	// CodeNotEmpty indicates a directory could not be removed because it has entries.
	CodeNotEmpty ErrorCode = "ENOTEMPTY"

	// CodeIsDirectory indicates a file operation was attempted on a directory.
	CodeIsDirectory ErrorCode = "EISDIR"
)

var descriptions = map[ErrorCode]string{
	CodeNotFound:      "no such file or directory",
	CodeAlreadyExists: "file already exists",
	CodeNotDirectory:  "not a directory",
	CodeNotEmpty:      "directory not empty",
	CodeIsDirectory:   "illegal operation on a directory",
}

var errnos = map[ErrorCode]syscall.Errno{
	CodeNotFound:      syscall.ENOENT,
	CodeAlreadyExists: syscall.EEXIST,
	CodeNotDirectory:  syscall.ENOTDIR,
	CodeNotEmpty:      syscall.ENOTEMPTY,
	CodeIsDirectory:   syscall.EISDIR,
}

// Description returns the human-readable text conventionally paired with the code.
func (c ErrorCode) Description() string {
	if d, ok := descriptions[c]; ok {
		return d
	}
	return "unknown error"
}

// Errno returns the platform errno corresponding to the code, or 0 if none.
func (c ErrorCode) Errno() syscall.Errno {
	return errnos[c]
}

// codeForErrno is the inverse of Errno.
func codeForErrno(errno syscall.Errno) (ErrorCode, bool) {
	for code, e := range errnos {
		if e == errno {
			return code, true
		}
	}
	return "", false
}
