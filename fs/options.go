package fs

import (
	"fmt"
	"os"
	"time"

	"dario.cat/mergo"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// ReadFileOptions configures ReadFile.
type ReadFileOptions struct {
	// Encoding decodes the file into text. Empty returns raw bytes.
	Encoding Encoding
}

// WriteFileOptions configures WriteFile.
type WriteFileOptions struct {
	// Encoding governs how string data is turned into bytes. Defaults to utf8.
	Encoding Encoding

	// Mode is the permission used when the file is created, as a number or
	// an octal string. Defaults to 0o666.
	Mode any

	// Flag is the open flag: "w" (default), "wx", "a", "ax", "w+" or "a+".
	Flag string
}

// ReaddirOptions configures Readdir.
type ReaddirOptions struct {
	// WithFileTypes annotates every entry with its file type.
	WithFileTypes bool
}

// MkdirOptions configures Mkdir.
type MkdirOptions struct {
	// Recursive creates missing parents and tolerates an existing directory.
	Recursive bool

	// Mode is the permission of created directories, as a number or an octal
	// string. Defaults to 0o777.
	Mode any
}

// RmdirOptions configures Rmdir.
type RmdirOptions struct {
	// Recursive removes the directory and everything below it.
	Recursive bool

	// MaxRetries is how many times a recursive removal is retried after a
	// transient failure (EBUSY, ENOTEMPTY, EPERM).
	MaxRetries int

	// RetryDelay is the linear backoff step between retries. Defaults to 100ms.
	RetryDelay time.Duration
}

// SymlinkType distinguishes file and directory link targets on platforms
// that need it. It is accepted and validated everywhere, and otherwise ignored.
type SymlinkType string

// Symlink types.
const (
	SymlinkFile     SymlinkType = "file"
	SymlinkDir      SymlinkType = "dir"
	SymlinkJunction SymlinkType = "junction"
)

// SymlinkOptions configures Symlink when called through Callbacks.
type SymlinkOptions struct {
	Type SymlinkType
}

// Defaults for every option record.
var (
	defaultReadFileOptions  = ReadFileOptions{}
	defaultWriteFileOptions = WriteFileOptions{Encoding: EncodingUTF8, Mode: os.FileMode(0o666), Flag: "w"}
	defaultReaddirOptions   = ReaddirOptions{}
	defaultMkdirOptions     = MkdirOptions{Mode: os.FileMode(0o777)}
	defaultRmdirOptions     = RmdirOptions{RetryDelay: 100 * time.Millisecond}
)

// mergeOptions overlays the non-zero fields of opts on defaults.
func mergeOptions[T any](defaults T, opts *T) (T, error) {
	merged := defaults
	if opts == nil {
		return merged, nil
	}
	if err := mergo.Merge(&merged, *opts, mergo.WithOverride); err != nil {
		return defaults, fmt.Errorf("%w: merge options: %v", errors.ErrInvalidArgument, err)
	}
	return merged, nil
}
