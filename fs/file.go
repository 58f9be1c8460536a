package fs

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// ReadFile reads the whole file at path. With an encoding the content is
// also decoded into text.
func (f *FS) ReadFile(ctx context.Context, path string, opts *ReadFileOptions) (Content, error) {
	const op = "readFile"
	if err := f.begin(ctx, op, path); err != nil {
		return Content{}, err
	}
	o, err := mergeOptions(defaultReadFileOptions, opts)
	if err != nil {
		return Content{}, err
	}

	info, err := f.platform.Stat(path)
	if err != nil {
		return Content{}, f.classified(ctx, op, errors.SyscallOpen, path, err)
	}
	if info.IsDir() {
		return Content{}, f.fail(ctx, op, path, errors.New(errors.CodeIsDirectory, errors.SyscallOpen, path, nil))
	}

	data, err := util.ReadFile(f.platform, path)
	if err != nil {
		return Content{}, f.classified(ctx, op, errors.SyscallOpen, path, err)
	}
	return newContent(data, o.Encoding)
}

// WriteFile writes data to the file at path, creating or truncating it as
// the flag dictates. data may be a string, a []byte or a Content. The parent
// directory must already exist.
func (f *FS) WriteFile(ctx context.Context, path string, data any, opts *WriteFileOptions) error {
	const op = "writeFile"
	if err := f.begin(ctx, op, path); err != nil {
		return err
	}
	o, err := mergeOptions(defaultWriteFileOptions, opts)
	if err != nil {
		return err
	}
	flag, err := parseFlag(o.Flag)
	if err != nil {
		return err
	}
	perm, err := ParseMode(o.Mode)
	if err != nil {
		return err
	}
	buf, err := payload(data, o.Encoding)
	if err != nil {
		return err
	}

	if err := f.requireParent(ctx, op, errors.SyscallOpen, path); err != nil {
		return err
	}
	if info, err := f.platform.Stat(path); err == nil && info.IsDir() {
		return f.fail(ctx, op, path, errors.New(errors.CodeIsDirectory, errors.SyscallOpen, path, nil))
	}

	file, err := f.platform.OpenFile(path, flag, perm)
	if err != nil {
		return f.classified(ctx, op, errors.SyscallOpen, path, err)
	}
	if _, err := file.Write(buf); err != nil {
		_ = file.Close()
		return f.fail(ctx, op, path, fmt.Errorf("write %s: %w", path, err))
	}
	if err := file.Close(); err != nil {
		return f.fail(ctx, op, path, fmt.Errorf("close %s: %w", path, err))
	}
	return nil
}

// Unlink removes a non-directory entry. A symbolic link is removed itself,
// never its target.
func (f *FS) Unlink(ctx context.Context, path string) error {
	const op = "unlink"
	if err := f.begin(ctx, op, path); err != nil {
		return err
	}

	info, err := f.platform.Lstat(path)
	if err != nil {
		return f.classified(ctx, op, errors.SyscallUnlink, path, err)
	}
	if info.IsDir() {
		return f.fail(ctx, op, path, errors.New(errors.CodeIsDirectory, errors.SyscallUnlink, path, nil))
	}
	if err := f.platform.Remove(path); err != nil {
		return f.classified(ctx, op, errors.SyscallUnlink, path, err)
	}
	return nil
}

// parseFlag translates a textual open flag into os.OpenFile flags.
func parseFlag(flag string) (int, error) {
	switch flag {
	case "", "w":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC, nil
	case "wx", "xw":
		return os.O_WRONLY | os.O_CREATE | os.O_TRUNC | os.O_EXCL, nil
	case "w+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC, nil
	case "wx+", "xw+":
		return os.O_RDWR | os.O_CREATE | os.O_TRUNC | os.O_EXCL, nil
	case "a":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND, nil
	case "ax", "xa":
		return os.O_WRONLY | os.O_CREATE | os.O_APPEND | os.O_EXCL, nil
	case "a+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND, nil
	case "ax+", "xa+":
		return os.O_RDWR | os.O_CREATE | os.O_APPEND | os.O_EXCL, nil
	default:
		return 0, fmt.Errorf("%w: unknown file flag %q", errors.ErrInvalidArgument, flag)
	}
}
