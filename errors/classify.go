package errors

import (
	stderrors "errors"
	"io/fs"
	"slices"
	"syscall"
)

// Syscall names attached to classified errors.
const (
	SyscallOpen     = "open"
	SyscallUnlink   = "unlink"
	SyscallScandir  = "scandir"
	SyscallMkdir    = "mkdir"
	SyscallRmdir    = "rmdir"
	SyscallStat     = "stat"
	SyscallLstat    = "lstat"
	SyscallReadlink = "readlink"
	SyscallSymlink  = "symlink"
	SyscallChmod    = "chmod"
	SyscallRename   = "rename"
)

// table lists, per syscall, the codes a platform failure may be mapped onto.
// Conditions outside the list propagate as the raw platform error.
var table = map[string][]ErrorCode{
	SyscallOpen:     {CodeNotFound, CodeAlreadyExists, CodeIsDirectory},
	SyscallUnlink:   {CodeNotFound, CodeIsDirectory},
	SyscallScandir:  {CodeNotFound, CodeNotDirectory},
	SyscallMkdir:    {CodeNotFound, CodeAlreadyExists, CodeNotDirectory},
	SyscallRmdir:    {CodeNotFound, CodeNotDirectory, CodeNotEmpty},
	SyscallStat:     {CodeNotFound},
	SyscallLstat:    {CodeNotFound},
	SyscallReadlink: {CodeNotFound},
	SyscallSymlink:  {CodeNotFound, CodeAlreadyExists},
	SyscallRename:   {CodeNotFound},
	SyscallChmod:    nil,
}

// Codes returns the codes the given syscall may be classified into.
func Codes(syscall string) []ErrorCode {
	return slices.Clone(table[syscall])
}

// Classify maps a platform error raised by syscall on path onto the stable
// vocabulary. Errors that are already classified, or whose condition is not
// mapped for the syscall, are returned unchanged.
func Classify(syscall, path string, err error) error {
	if err == nil {
		return nil
	}

	var classified *Error
	if stderrors.As(err, &classified) {
		return err
	}

	code, ok := Detect(err)
	if !ok || !slices.Contains(table[syscall], code) {
		return err
	}
	return New(code, syscall, path, err)
}

// Detect determines the condition behind a platform error. Platform error
// kinds are consulted first; message matching is the last resort.
func Detect(err error) (ErrorCode, bool) {
	if code, ok := detectKind(err); ok {
		return code, true
	}
	return matchMessage(err.Error())
}

func detectKind(err error) (ErrorCode, bool) {
	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		if code, ok := codeForErrno(errno); ok {
			return code, true
		}
	}

	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return CodeNotFound, true
	case stderrors.Is(err, fs.ErrExist):
		return CodeAlreadyExists, true
	}
	return "", false
}
