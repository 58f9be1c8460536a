package billy

import (
	"context"
	"os"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
	shimfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
)

// Bridge exposes a shim as a billy.Filesystem so go-git can run on it.
//
// Metadata, directory and link queries go through the shim and carry its
// error codes. File handles come straight from the platform since go-git
// needs the platform's own locking and truncation; their open errors are
// still classified. Every coded error is converted to an *os.PathError with
// a bare errno, the shape os.IsNotExist and os.IsExist understand.
type Bridge struct {
	ctx      context.Context
	shim     *shimfs.FS
	platform billy.Filesystem
}

var _ billy.Filesystem = (*Bridge)(nil)

// NewBridge wraps shim for go-git.
func NewBridge(shim *shimfs.FS) *Bridge {
	return &Bridge{
		ctx:      context.Background(),
		shim:     shim,
		platform: shim.Platform(),
	}
}

// WithContext returns a copy of the bridge whose shim calls use ctx.
func (b *Bridge) WithContext(ctx context.Context) *Bridge {
	c := *b
	c.ctx = ctx
	return &c
}

// Shim returns the wrapped shim.
func (b *Bridge) Shim() *shimfs.FS {
	return b.shim
}

// Create implements billy.Basic.
//
//nolint:ireturn // billy.File is dictated by upstream.
func (b *Bridge) Create(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
}

// Open implements billy.Basic.
//
//nolint:ireturn // billy.File is dictated by upstream.
func (b *Bridge) Open(filename string) (billy.File, error) {
	return b.OpenFile(filename, os.O_RDONLY, 0)
}

// OpenFile implements billy.Basic.
//
//nolint:ireturn // billy.File is dictated by upstream.
func (b *Bridge) OpenFile(filename string, flag int, perm os.FileMode) (billy.File, error) {
	f, err := b.platform.OpenFile(filename, flag, perm)
	if err != nil {
		return nil, errors.ToOSError(errors.Classify(errors.SyscallOpen, filename, err))
	}
	return f, nil
}

// Stat implements billy.Basic.
func (b *Bridge) Stat(filename string) (os.FileInfo, error) {
	st, err := b.shim.Stat(b.ctx, filename)
	if err != nil {
		return nil, errors.ToOSError(err)
	}
	return st.FileInfo(), nil
}

// Rename implements billy.Basic.
func (b *Bridge) Rename(oldpath, newpath string) error {
	if err := b.platform.Rename(oldpath, newpath); err != nil {
		return errors.ToOSError(errors.Classify(errors.SyscallRename, oldpath, err))
	}
	return nil
}

// Remove implements billy.Basic. Directories must be empty.
func (b *Bridge) Remove(filename string) error {
	st, err := b.shim.Lstat(b.ctx, filename)
	if err != nil {
		return errors.ToOSError(err)
	}
	if st.IsDirectory() {
		return errors.ToOSError(b.shim.Rmdir(b.ctx, filename, nil))
	}
	return errors.ToOSError(b.shim.Unlink(b.ctx, filename))
}

// Join implements billy.Basic.
func (b *Bridge) Join(elem ...string) string {
	return b.platform.Join(elem...)
}

// TempFile implements billy.TempFile.
//
//nolint:ireturn // billy.File is dictated by upstream.
func (b *Bridge) TempFile(dir, prefix string) (billy.File, error) {
	f, err := b.platform.TempFile(dir, prefix)
	if err != nil {
		return nil, errors.ToOSError(errors.Classify(errors.SyscallOpen, dir, err))
	}
	return f, nil
}

// ReadDir implements billy.Dir.
func (b *Bridge) ReadDir(path string) ([]os.FileInfo, error) {
	entries, err := b.shim.Readdir(b.ctx, path, &shimfs.ReaddirOptions{WithFileTypes: true})
	if err != nil {
		return nil, errors.ToOSError(err)
	}
	infos := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, e.Info())
	}
	return infos, nil
}

// MkdirAll implements billy.Dir.
func (b *Bridge) MkdirAll(filename string, perm os.FileMode) error {
	return errors.ToOSError(b.shim.Mkdir(b.ctx, filename, &shimfs.MkdirOptions{Recursive: true, Mode: perm}))
}

// Lstat implements billy.Symlink.
func (b *Bridge) Lstat(filename string) (os.FileInfo, error) {
	st, err := b.shim.Lstat(b.ctx, filename)
	if err != nil {
		return nil, errors.ToOSError(err)
	}
	return st.FileInfo(), nil
}

// Symlink implements billy.Symlink. Missing parents of link are created,
// which go-git relies on during checkout.
func (b *Bridge) Symlink(target, link string) error {
	if err := b.platform.Symlink(target, link); err != nil {
		return errors.ToOSError(errors.Classify(errors.SyscallSymlink, link, err))
	}
	return nil
}

// Readlink implements billy.Symlink.
func (b *Bridge) Readlink(link string) (string, error) {
	target, err := b.shim.Readlink(b.ctx, link)
	if err != nil {
		return "", errors.ToOSError(err)
	}
	return target, nil
}

// Chroot implements billy.Chroot.
//
//nolint:ireturn // billy.Filesystem is dictated by upstream.
func (b *Bridge) Chroot(path string) (billy.Filesystem, error) {
	return chroot.New(b, path), nil
}

// Root implements billy.Chroot.
func (b *Bridge) Root() string {
	return b.platform.Root()
}

// Capabilities implements billy.Capable.
func (b *Bridge) Capabilities() billy.Capability {
	return billy.Capabilities(b.platform)
}
