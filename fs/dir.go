package fs

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// Dirent is a directory entry returned by Readdir.
type Dirent struct {
	// Name is the base name of the entry.
	Name string

	typ   os.FileMode
	typed bool
	info  os.FileInfo
}

// HasType reports whether the entry was listed with file types.
func (d Dirent) HasType() bool { return d.typed }

// IsFile reports whether the entry is a regular file.
func (d Dirent) IsFile() bool { return d.typed && d.typ.IsRegular() }

// IsDirectory reports whether the entry is a directory.
func (d Dirent) IsDirectory() bool { return d.typed && d.typ.IsDir() }

// IsSymbolicLink reports whether the entry is a symbolic link.
func (d Dirent) IsSymbolicLink() bool { return d.typed && d.typ&os.ModeSymlink != 0 }

// Info returns the platform file info, or nil without file types.
func (d Dirent) Info() os.FileInfo { return d.info }

// Readdir lists the entries of the directory at path, sorted by name.
func (f *FS) Readdir(ctx context.Context, path string, opts *ReaddirOptions) ([]Dirent, error) {
	const op = "readdir"
	if err := f.begin(ctx, op, path); err != nil {
		return nil, err
	}
	o, err := mergeOptions(defaultReaddirOptions, opts)
	if err != nil {
		return nil, err
	}

	// memfs lists a regular file as an empty directory.
	info, err := f.platform.Stat(path)
	if err != nil {
		return nil, f.classified(ctx, op, errors.SyscallScandir, path, err)
	}
	if !info.IsDir() {
		return nil, f.fail(ctx, op, path, errors.New(errors.CodeNotDirectory, errors.SyscallScandir, path, nil))
	}

	infos, err := f.platform.ReadDir(path)
	if err != nil {
		return nil, f.classified(ctx, op, errors.SyscallScandir, path, err)
	}

	entries := make([]Dirent, 0, len(infos))
	for _, fi := range infos {
		d := Dirent{Name: fi.Name()}
		if o.WithFileTypes {
			d.typ = fi.Mode().Type()
			d.typed = true
			d.info = fi
		}
		entries = append(entries, d)
	}
	slices.SortFunc(entries, func(a, b Dirent) int { return strings.Compare(a.Name, b.Name) })
	return entries, nil
}

// Mkdir creates the directory at path. Without Recursive the parent must
// exist and path must not.
func (f *FS) Mkdir(ctx context.Context, path string, opts *MkdirOptions) error {
	const op = "mkdir"
	if err := f.begin(ctx, op, path); err != nil {
		return err
	}
	o, err := mergeOptions(defaultMkdirOptions, opts)
	if err != nil {
		return err
	}
	perm, err := ParseMode(o.Mode)
	if err != nil {
		return err
	}

	info, err := f.platform.Lstat(path)
	switch {
	case err == nil && o.Recursive && info.IsDir():
		return nil
	case err == nil:
		return f.fail(ctx, op, path, errors.New(errors.CodeAlreadyExists, errors.SyscallMkdir, path, nil))
	case !isNotFound(err):
		return f.classified(ctx, op, errors.SyscallMkdir, path, err)
	}

	if !o.Recursive {
		if err := f.requireParent(ctx, op, errors.SyscallMkdir, path); err != nil {
			return err
		}
	}
	created := f.missingDirs(path)
	if err := f.platform.MkdirAll(path, perm); err != nil {
		return f.classified(ctx, op, errors.SyscallMkdir, path, err)
	}

	// osfs creates directories as 0o755 regardless of perm.
	if opts == nil || opts.Mode == nil {
		return nil
	}
	if _, ok := f.platform.(billy.Chmod); !ok {
		return nil
	}
	for _, dir := range created {
		if err := f.chmod(dir, perm); err != nil {
			return f.fail(ctx, op, dir, err)
		}
	}
	return nil
}

// missingDirs lists path and those of its ancestors that do not exist yet,
// deepest first.
func (f *FS) missingDirs(path string) []string {
	var missing []string
	for dir := filepath.Clean(path); dir != ""; dir = parentDir(dir) {
		if _, err := f.platform.Lstat(dir); !isNotFound(err) {
			break
		}
		missing = append(missing, dir)
	}
	return missing
}

// Rmdir removes the directory at path. Without Recursive the directory must
// be empty. Recursive removals are retried with linear backoff on transient
// failures, up to MaxRetries times.
func (f *FS) Rmdir(ctx context.Context, path string, opts *RmdirOptions) error {
	const op = "rmdir"
	if err := f.begin(ctx, op, path); err != nil {
		return err
	}
	o, err := mergeOptions(defaultRmdirOptions, opts)
	if err != nil {
		return err
	}

	info, err := f.platform.Lstat(path)
	if err != nil {
		return f.classified(ctx, op, errors.SyscallRmdir, path, err)
	}
	if !info.IsDir() {
		return f.fail(ctx, op, path, errors.New(errors.CodeNotDirectory, errors.SyscallRmdir, path, nil))
	}

	if !o.Recursive {
		if err := f.platform.Remove(path); err != nil {
			return f.classified(ctx, op, errors.SyscallRmdir, path, err)
		}
		return nil
	}

	for attempt := 0; ; attempt++ {
		err = util.RemoveAll(f.platform, path)
		if err == nil {
			return nil
		}
		if attempt >= o.MaxRetries || !retryable(err) {
			return f.classified(ctx, op, errors.SyscallRmdir, path, err)
		}
		if f.logger != nil {
			f.logger.DebugContext(ctx, "retrying rmdir", "path", path, "attempt", attempt+1, "error", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt+1) * o.RetryDelay):
		}
	}
}

// retryable reports whether a removal failure may succeed on a later attempt.
func retryable(err error) bool {
	var errno syscall.Errno
	if stderrors.As(err, &errno) {
		return errno == syscall.EBUSY || errno == syscall.ENOTEMPTY || errno == syscall.EPERM
	}
	code, ok := errors.Detect(err)
	return ok && code == errors.CodeNotEmpty
}

// parentDir returns the parent of path, or "" when path has none.
func parentDir(path string) string {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if parent == clean || parent == "." || parent == string(filepath.Separator) {
		return ""
	}
	return parent
}
