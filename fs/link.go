package fs

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// Readlink returns the target of the symbolic link at path.
func (f *FS) Readlink(ctx context.Context, path string) (string, error) {
	const op = "readlink"
	if err := f.begin(ctx, op, path); err != nil {
		return "", err
	}
	target, err := f.platform.Readlink(path)
	if err != nil {
		return "", f.classified(ctx, op, errors.SyscallReadlink, path, err)
	}
	return target, nil
}

// Symlink creates a symbolic link at path pointing to target. typ may be
// empty; it only matters on platforms that distinguish link kinds.
func (f *FS) Symlink(ctx context.Context, target, path string, typ SymlinkType) error {
	const op = "symlink"
	if err := f.begin(ctx, op, path); err != nil {
		return err
	}
	switch typ {
	case "", SymlinkFile, SymlinkDir, SymlinkJunction:
	default:
		return fmt.Errorf("%w: unknown symlink type %q", errors.ErrInvalidArgument, string(typ))
	}

	if _, err := f.platform.Lstat(path); err == nil {
		return f.fail(ctx, op, path, errors.New(errors.CodeAlreadyExists, errors.SyscallSymlink, path, nil))
	}
	if err := f.requireParent(ctx, op, errors.SyscallSymlink, path); err != nil {
		return err
	}
	if err := f.platform.Symlink(target, path); err != nil {
		return f.classified(ctx, op, errors.SyscallSymlink, path, err)
	}
	return nil
}

// Chmod sets the permission bits of path. Platform errors are returned
// unchanged.
func (f *FS) Chmod(ctx context.Context, path string, mode any) error {
	const op = "chmod"
	if err := f.begin(ctx, op, path); err != nil {
		return err
	}
	perm, err := ParseMode(mode)
	if err != nil {
		return err
	}
	if err := f.chmod(path, perm); err != nil {
		return f.fail(ctx, op, path, err)
	}
	return nil
}

// chmod keeps the file type bits of path, which memfs stores in the same
// mode it overwrites.
func (f *FS) chmod(path string, perm os.FileMode) error {
	ch, ok := f.platform.(billy.Chmod)
	if !ok {
		return &os.PathError{Op: errors.SyscallChmod, Path: path, Err: stderrors.ErrUnsupported}
	}
	mode := perm
	if info, err := f.platform.Lstat(path); err == nil {
		mode |= info.Mode() & os.ModeType
	}
	return ch.Chmod(path, mode)
}
