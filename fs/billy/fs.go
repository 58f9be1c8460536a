// Package billy provides go-billy platform constructors for the fs shim and
// the Bridge that hands a shim back to go-git as a billy.Filesystem.
package billy

import (
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"

	shimfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
)

// NewFS creates a shim over the given go-billy filesystem.
func NewFS(fsys billy.Filesystem, opts ...shimfs.Option) *shimfs.FS {
	return shimfs.New(fsys, opts...)
}

// NewInMemoryFS creates a shim over a fresh in-memory filesystem.
func NewInMemoryFS(opts ...shimfs.Option) *shimfs.FS {
	return shimfs.New(memfs.New(), opts...)
}

// NewOSFS creates a shim over the OS filesystem rooted at path.
func NewOSFS(path string, opts ...shimfs.Option) *shimfs.FS {
	return shimfs.New(osfs.New(path), opts...)
}
