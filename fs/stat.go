package fs

import (
	"context"
	"os"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// Stats is the metadata record returned by Stat and Lstat.
//
// Timestamps are pointers: a platform that does not report a time leaves both
// the time and its millisecond field nil. Ctime falls back to Birthtime when
// the platform has no separate change time.
type Stats struct {
	Name  string
	Mode  os.FileMode
	Size  int64
	Dev   uint64
	Ino   uint64
	Nlink uint64
	Uid   uint32
	Gid   uint32

	Mtime     *time.Time
	Atime     *time.Time
	Ctime     *time.Time
	Birthtime *time.Time

	MtimeMs     *int64
	AtimeMs     *int64
	CtimeMs     *int64
	BirthtimeMs *int64

	info os.FileInfo
}

// IsFile reports whether the record describes a regular file.
func (s *Stats) IsFile() bool { return s.Mode.IsRegular() }

// IsDirectory reports whether the record describes a directory.
func (s *Stats) IsDirectory() bool { return s.Mode.IsDir() }

// IsSymbolicLink reports whether the record describes a symbolic link.
func (s *Stats) IsSymbolicLink() bool { return s.Mode&os.ModeSymlink != 0 }

// FileInfo returns the platform file info the record was built from.
func (s *Stats) FileInfo() os.FileInfo { return s.info }

// Stat returns metadata for path, following symbolic links.
func (f *FS) Stat(ctx context.Context, path string) (*Stats, error) {
	const op = "stat"
	if err := f.begin(ctx, op, path); err != nil {
		return nil, err
	}
	info, err := f.platform.Stat(path)
	if err != nil {
		return nil, f.classified(ctx, op, errors.SyscallStat, path, err)
	}
	return newStats(info), nil
}

// Lstat returns metadata for path without following a trailing symbolic link.
func (f *FS) Lstat(ctx context.Context, path string) (*Stats, error) {
	const op = "lstat"
	if err := f.begin(ctx, op, path); err != nil {
		return nil, err
	}
	info, err := f.platform.Lstat(path)
	if err != nil {
		return nil, f.classified(ctx, op, errors.SyscallLstat, path, err)
	}
	return newStats(info), nil
}

func newStats(info os.FileInfo) *Stats {
	s := &Stats{
		Name: info.Name(),
		Mode: info.Mode(),
		Size: info.Size(),
		info: info,
	}
	if mt := info.ModTime(); !mt.IsZero() {
		s.Mtime = &mt
	}
	fillSys(s, info.Sys())
	s.derive()
	return s
}

// derive fills Ctime from Birthtime when missing and computes the
// millisecond fields from whichever times are present.
func (s *Stats) derive() {
	if s.Ctime == nil && s.Birthtime != nil {
		ct := *s.Birthtime
		s.Ctime = &ct
	}
	s.MtimeMs = millis(s.Mtime)
	s.AtimeMs = millis(s.Atime)
	s.CtimeMs = millis(s.Ctime)
	s.BirthtimeMs = millis(s.Birthtime)
}

// millis derives the millisecond epoch field of t, or nil when t is absent.
func millis(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}

func timePtr(t time.Time) *time.Time {
	return &t
}
