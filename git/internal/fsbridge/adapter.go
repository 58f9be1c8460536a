// Package fsbridge connects the filesystem shim to go-git's storage layer.
package fsbridge

import (
	"github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
	shimbilly "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs/billy"
)

// ToBillyFilesystem exposes fsys as a billy.Filesystem go-git can run on.
func ToBillyFilesystem(fsys *fs.FS) *shimbilly.Bridge {
	return shimbilly.NewBridge(fsys)
}
