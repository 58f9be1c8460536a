package billy

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	shimfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
)

// BaseOSFS is a billy.Filesystem that acts like the native filesystem:
// paths are used as given, absolute or relative to the working directory.
type BaseOSFS struct {
	osfs.ChrootOS
}

// Chroot returns a new filesystem rooted at the provided path.
//
//nolint:ireturn // billy.Filesystem is an interface; signature is dictated by upstream.
func (b *BaseOSFS) Chroot(path string) (billy.Filesystem, error) {
	return osfs.New(path), nil
}

// Root returns the root path for this filesystem.
func (b *BaseOSFS) Root() string {
	return "/"
}

// NewBaseOSFS creates a shim over the unrooted native filesystem.
func NewBaseOSFS(opts ...shimfs.Option) *shimfs.FS {
	return shimfs.New(&BaseOSFS{}, opts...)
}
