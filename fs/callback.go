package fs

import (
	"context"
	"fmt"
	"reflect"
	"slices"
	"sync"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// Callback signatures accepted by Callbacks. Each callback is invoked exactly
// once, with either a result or a non-nil error.
type (
	ContentCallback = func(Content, error)
	ErrorCallback   = func(error)
	DirentsCallback = func([]Dirent, error)
	StatsCallback   = func(*Stats, error)
	StringCallback  = func(string, error)
)

// Callbacks exposes FS with the error-first callback convention. Every method
// takes its positional arguments, an optional options value and a trailing
// callback. If the value before the callback is itself a function it is
// taken as the callback and default options apply.
//
// Usage errors (no callback, wrong callback signature, bad options type) are
// returned synchronously and the callback is never invoked. Otherwise the
// call returns nil and the callback runs on its own goroutine.
type Callbacks struct {
	ctx context.Context
	fs  *FS
	wg  sync.WaitGroup
}

// NewCallbacks creates the callback form of fsys. ctx is passed to every
// operation.
func NewCallbacks(ctx context.Context, fsys *FS) *Callbacks {
	return &Callbacks{ctx: ctx, fs: fsys}
}

// Wait blocks until every callback started so far has returned. It must not
// run concurrently with calls that start new operations.
func (c *Callbacks) Wait() {
	c.wg.Wait()
}

// ReadFile reads path: ReadFile(path, [options], cb ContentCallback).
func (c *Callbacks) ReadFile(path string, args ...any) error {
	opts, cb, err := resolveArgs[ReadFileOptions, ContentCallback](args)
	if err != nil {
		return err
	}
	c.run(func() {
		content, err := c.fs.ReadFile(c.ctx, path, opts)
		if err != nil {
			cb(Content{}, err)
			return
		}
		cb(content, nil)
	})
	return nil
}

// WriteFile writes data to path: WriteFile(path, data, [options], cb ErrorCallback).
func (c *Callbacks) WriteFile(path string, data any, args ...any) error {
	opts, cb, err := resolveArgs[WriteFileOptions, ErrorCallback](args)
	if err != nil {
		return err
	}
	c.run(func() { cb(c.fs.WriteFile(c.ctx, path, data, opts)) })
	return nil
}

// Unlink removes path: Unlink(path, cb ErrorCallback).
func (c *Callbacks) Unlink(path string, args ...any) error {
	cb, err := resolveCallback[ErrorCallback](args)
	if err != nil {
		return err
	}
	c.run(func() { cb(c.fs.Unlink(c.ctx, path)) })
	return nil
}

// Readdir lists path: Readdir(path, [options], cb DirentsCallback).
func (c *Callbacks) Readdir(path string, args ...any) error {
	opts, cb, err := resolveArgs[ReaddirOptions, DirentsCallback](args)
	if err != nil {
		return err
	}
	c.run(func() {
		entries, err := c.fs.Readdir(c.ctx, path, opts)
		if err != nil {
			cb(nil, err)
			return
		}
		cb(entries, nil)
	})
	return nil
}

// Mkdir creates path: Mkdir(path, [options], cb ErrorCallback).
func (c *Callbacks) Mkdir(path string, args ...any) error {
	opts, cb, err := resolveArgs[MkdirOptions, ErrorCallback](args)
	if err != nil {
		return err
	}
	c.run(func() { cb(c.fs.Mkdir(c.ctx, path, opts)) })
	return nil
}

// Rmdir removes path: Rmdir(path, [options], cb ErrorCallback).
func (c *Callbacks) Rmdir(path string, args ...any) error {
	opts, cb, err := resolveArgs[RmdirOptions, ErrorCallback](args)
	if err != nil {
		return err
	}
	c.run(func() { cb(c.fs.Rmdir(c.ctx, path, opts)) })
	return nil
}

// Stat describes path: Stat(path, cb StatsCallback).
func (c *Callbacks) Stat(path string, args ...any) error {
	cb, err := resolveCallback[StatsCallback](args)
	if err != nil {
		return err
	}
	c.run(func() { deliver(cb)(c.fs.Stat(c.ctx, path)) })
	return nil
}

// Lstat describes path without following links: Lstat(path, cb StatsCallback).
func (c *Callbacks) Lstat(path string, args ...any) error {
	cb, err := resolveCallback[StatsCallback](args)
	if err != nil {
		return err
	}
	c.run(func() { deliver(cb)(c.fs.Lstat(c.ctx, path)) })
	return nil
}

// Readlink reads the link at path: Readlink(path, cb StringCallback).
func (c *Callbacks) Readlink(path string, args ...any) error {
	cb, err := resolveCallback[StringCallback](args)
	if err != nil {
		return err
	}
	c.run(func() {
		target, err := c.fs.Readlink(c.ctx, path)
		if err != nil {
			cb("", err)
			return
		}
		cb(target, nil)
	})
	return nil
}

// Symlink links path to target: Symlink(target, path, [type], cb ErrorCallback).
// The type may be given as a string, a SymlinkType or SymlinkOptions.
func (c *Callbacks) Symlink(target, path string, args ...any) error {
	if len(args) > 0 {
		args = slices.Clone(args)
		switch t := args[0].(type) {
		case string:
			args[0] = SymlinkOptions{Type: SymlinkType(t)}
		case SymlinkType:
			args[0] = SymlinkOptions{Type: t}
		}
	}
	opts, cb, err := resolveArgs[SymlinkOptions, ErrorCallback](args)
	if err != nil {
		return err
	}
	var typ SymlinkType
	if opts != nil {
		typ = opts.Type
	}
	c.run(func() { cb(c.fs.Symlink(c.ctx, target, path, typ)) })
	return nil
}

// Chmod changes the mode of path: Chmod(path, mode, cb ErrorCallback).
func (c *Callbacks) Chmod(path string, mode any, args ...any) error {
	cb, err := resolveCallback[ErrorCallback](args)
	if err != nil {
		return err
	}
	c.run(func() { cb(c.fs.Chmod(c.ctx, path, mode)) })
	return nil
}

func (c *Callbacks) run(fn func()) {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		fn()
	}()
}

// deliver forwards exactly one of result or error to cb.
func deliver(cb StatsCallback) func(*Stats, error) {
	return func(s *Stats, err error) {
		if err != nil {
			cb(nil, err)
			return
		}
		cb(s, nil)
	}
}

// invocable reports whether v is a function value.
func invocable(v any) bool {
	return v != nil && reflect.TypeOf(v).Kind() == reflect.Func
}

// resolveArgs splits trailing arguments into options and callback. The
// argument before the callback is treated as options unless it is itself
// invocable, in which case options are omitted.
func resolveArgs[O, C any](args []any) (*O, C, error) {
	var zero C
	if len(args) == 0 {
		return nil, zero, errors.ErrNoCallback
	}

	if invocable(args[0]) {
		if len(args) > 1 {
			return nil, zero, fmt.Errorf("%w: unexpected arguments after callback", errors.ErrInvalidArgument)
		}
		cb, err := asCallback[C](args[0])
		return nil, cb, err
	}

	opts, err := asOptions[O](args[0])
	if err != nil {
		return nil, zero, err
	}
	if len(args) < 2 {
		return nil, zero, errors.ErrNoCallback
	}
	if len(args) > 2 {
		return nil, zero, fmt.Errorf("%w: unexpected arguments after callback", errors.ErrInvalidArgument)
	}
	cb, err := asCallback[C](args[1])
	if err != nil {
		return nil, zero, err
	}
	return opts, cb, nil
}

// resolveCallback accepts a lone trailing callback.
func resolveCallback[C any](args []any) (C, error) {
	var zero C
	switch {
	case len(args) == 0:
		return zero, errors.ErrNoCallback
	case len(args) > 1:
		return zero, fmt.Errorf("%w: unexpected arguments after callback", errors.ErrInvalidArgument)
	}
	return asCallback[C](args[0])
}

func asCallback[C any](v any) (C, error) {
	var zero C
	if !invocable(v) {
		if v == nil {
			return zero, errors.ErrNoCallback
		}
		return zero, fmt.Errorf("%w: callback must be a function, got %T", errors.ErrInvalidArgument, v)
	}
	if reflect.ValueOf(v).IsNil() {
		return zero, errors.ErrNoCallback
	}
	cb, ok := v.(C)
	if !ok {
		return zero, fmt.Errorf("%w: callback has signature %T, want %T", errors.ErrInvalidArgument, v, zero)
	}
	return cb, nil
}

func asOptions[O any](v any) (*O, error) {
	switch o := v.(type) {
	case nil:
		return nil, nil
	case O:
		return &o, nil
	case *O:
		return o, nil
	default:
		var want O
		return nil, fmt.Errorf("%w: options must be %T, got %T", errors.ErrInvalidArgument, want, v)
	}
}
