package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	err := New(CodeNotFound, SyscallOpen, "/repo/.git/HEAD", nil)
	assert.Equal(t, "ENOENT: no such file or directory, open '/repo/.git/HEAD'", err.Error())

	err = New(CodeAlreadyExists, SyscallMkdir, "dir", nil)
	assert.Equal(t, "EEXIST: file already exists, mkdir 'dir'", err.Error())
}

func TestError_Is(t *testing.T) {
	notFound := New(CodeNotFound, SyscallStat, "x", nil)
	exists := New(CodeAlreadyExists, SyscallMkdir, "x", nil)

	tests := []struct {
		name     string
		err      error
		target   error
		expected bool
	}{
		{"not found is fs.ErrNotExist", notFound, fs.ErrNotExist, true},
		{"not found is not fs.ErrExist", notFound, fs.ErrExist, false},
		{"exists is fs.ErrExist", exists, fs.ErrExist, true},
		{"wrapped not found", fmt.Errorf("context: %w", notFound), fs.ErrNotExist, true},
		{"same code any syscall", notFound, &Error{Code: CodeNotFound}, true},
		{"same code same syscall", notFound, &Error{Code: CodeNotFound, Syscall: SyscallStat}, true},
		{"same code other syscall", notFound, &Error{Code: CodeNotFound, Syscall: SyscallLstat}, false},
		{"different code", notFound, &Error{Code: CodeAlreadyExists}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, stderrors.Is(tt.err, tt.target))
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := &os.PathError{Op: "open", Path: "x", Err: syscall.ENOENT}
	err := New(CodeNotFound, SyscallOpen, "x", cause)

	var pathErr *os.PathError
	require.True(t, stderrors.As(err, &pathErr))
	assert.Same(t, cause, pathErr)
}

func TestError_PathError(t *testing.T) {
	err := New(CodeNotFound, SyscallStat, "missing", nil)
	pathErr := err.PathError()

	assert.True(t, os.IsNotExist(pathErr))
	assert.Equal(t, "stat", pathErr.Op)
	assert.Equal(t, "missing", pathErr.Path)

	assert.True(t, os.IsExist(New(CodeAlreadyExists, SyscallMkdir, "d", nil).PathError()))
	assert.Equal(t, -int(syscall.ENOENT), err.Negative())
}

func TestToOSError(t *testing.T) {
	coded := fmt.Errorf("wrapped: %w", New(CodeNotFound, SyscallOpen, "f", nil))
	assert.True(t, os.IsNotExist(ToOSError(coded)))

	plain := stderrors.New("boom")
	assert.Same(t, plain, ToOSError(plain))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeNotEmpty, CodeOf(New(CodeNotEmpty, SyscallRmdir, "d", nil)))
	assert.Equal(t, ErrorCode(""), CodeOf(stderrors.New("plain")))
	assert.True(t, IsCode(New(CodeIsDirectory, SyscallUnlink, "d", nil), CodeIsDirectory))
	assert.False(t, IsCode(nil, CodeNotFound))
}
