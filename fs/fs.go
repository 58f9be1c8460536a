// Package fs presents a go-billy filesystem through the asynchronous file-I/O
// contract Git libraries expect: whole-file reads and writes, directory
// listing, mkdir/rmdir with recursion, stat/lstat with derived timestamp
// fields and symlink handling, all failing with stable error codes
// (see the errors package).
//
// FS methods are the deferred-result form of every operation and the single
// source of truth. Callbacks adapts them to the error-first callback
// convention.
package fs

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// FS is the filesystem shim. It holds no state besides its configuration and
// is safe for concurrent use as long as the platform filesystem is.
type FS struct {
	platform billy.Filesystem
	logger   *slog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithLogger traces every operation at debug level.
// If logger is nil, tracing is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(f *FS) {
		f.logger = logger
	}
}

// New creates a shim over the given platform filesystem.
func New(platform billy.Filesystem, opts ...Option) *FS {
	f := &FS{platform: platform}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Platform returns the underlying go-billy filesystem.
//
//nolint:ireturn // exposes the adapter target.
func (f *FS) Platform() billy.Filesystem {
	return f.platform
}

// Exists reports whether path exists without following a trailing symlink.
func (f *FS) Exists(ctx context.Context, path string) (bool, error) {
	if _, err := f.Lstat(ctx, path); err != nil {
		if errors.IsCode(err, errors.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// begin checks ctx and traces the start of an operation.
func (f *FS) begin(ctx context.Context, op, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.logger != nil {
		f.logger.DebugContext(ctx, "fs operation", "op", op, "path", path)
	}
	return nil
}

// fail traces a failed operation and returns err unchanged.
func (f *FS) fail(ctx context.Context, op, path string, err error) error {
	if f.logger != nil {
		f.logger.DebugContext(ctx, "fs operation failed",
			"op", op,
			"path", path,
			"code", string(errors.CodeOf(err)),
			"error", err,
		)
	}
	return err
}

// classified maps err for syscall and traces the failure.
func (f *FS) classified(ctx context.Context, op, syscall, path string, err error) error {
	return f.fail(ctx, op, path, errors.Classify(syscall, path, err))
}

// requireParent fails with ENOENT or ENOTDIR when the parent of path is
// missing or not a directory. Platforms such as osfs and memfs create missing
// parents implicitly, which the contract forbids.
func (f *FS) requireParent(ctx context.Context, op, syscall, path string) error {
	parent := parentDir(path)
	if parent == "" {
		return nil
	}
	info, err := f.platform.Stat(parent)
	if err != nil {
		if code, ok := errors.Detect(err); ok && code == errors.CodeNotFound {
			return f.fail(ctx, op, path, errors.New(errors.CodeNotFound, syscall, path, err))
		}
		return f.classified(ctx, op, syscall, path, err)
	}
	if !info.IsDir() {
		return f.fail(ctx, op, path, errors.New(errors.CodeNotDirectory, syscall, path, nil))
	}
	return nil
}

// isNotFound reports whether a raw platform error means "does not exist".
func isNotFound(err error) bool {
	if os.IsNotExist(err) {
		return true
	}
	code, ok := errors.Detect(err)
	return ok && code == errors.CodeNotFound
}
