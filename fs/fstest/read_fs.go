package fstest

import (
	"context"
	stderrors "errors"
	"io/fs"
	"testing"
	"time"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
	shimfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
)

// expectCode fails the test unless err is a classified error with the given
// code and syscall.
func expectCode(t *testing.T, call string, err error, code errors.ErrorCode, syscall string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: got nil error, want %s", call, code)
		return
	}
	var e *errors.Error
	if !stderrors.As(err, &e) {
		t.Errorf("%s: got unclassified error %v, want %s", call, err, code)
		return
	}
	if e.Code != code || e.Syscall != syscall {
		t.Errorf("%s: got %s/%s, want %s/%s", call, e.Code, e.Syscall, code, syscall)
	}
}

// TestMissingPaths checks that every read-side operation fails with ENOENT,
// tagged with its syscall name, on a path that does not exist.
func TestMissingPaths(t *testing.T, filesystem *shimfs.FS) {
	ctx := context.Background()
	const missing = "does-not-exist"

	_, err := filesystem.ReadFile(ctx, missing, nil)
	expectCode(t, "ReadFile", err, errors.CodeNotFound, errors.SyscallOpen)

	_, err = filesystem.Stat(ctx, missing)
	expectCode(t, "Stat", err, errors.CodeNotFound, errors.SyscallStat)

	_, err = filesystem.Lstat(ctx, missing)
	expectCode(t, "Lstat", err, errors.CodeNotFound, errors.SyscallLstat)

	_, err = filesystem.Readlink(ctx, missing)
	expectCode(t, "Readlink", err, errors.CodeNotFound, errors.SyscallReadlink)

	err = filesystem.Unlink(ctx, missing)
	expectCode(t, "Unlink", err, errors.CodeNotFound, errors.SyscallUnlink)

	err = filesystem.Rmdir(ctx, missing, nil)
	expectCode(t, "Rmdir", err, errors.CodeNotFound, errors.SyscallRmdir)

	_, err = filesystem.Readdir(ctx, missing, nil)
	expectCode(t, "Readdir", err, errors.CodeNotFound, errors.SyscallScandir)

	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Errorf("Readdir: errors.Is(err, fs.ErrNotExist) = false for %v", err)
	}
}

// TestReadFS tests ReadFile, Stat and Readdir on existing entries.
func TestReadFS(t *testing.T, filesystem *shimfs.FS) {
	ctx := context.Background()
	content := []byte("test file content")

	if err := filesystem.Mkdir(ctx, "testdir/nested", &shimfs.MkdirOptions{Recursive: true}); err != nil {
		t.Fatalf("Mkdir(testdir/nested): setup failed: %v", err)
	}
	if err := filesystem.WriteFile(ctx, "testdir/testfile.txt", content, nil); err != nil {
		t.Fatalf("WriteFile(testdir/testfile.txt): setup failed: %v", err)
	}

	t.Run("ReadFile", func(t *testing.T) {
		got, err := filesystem.ReadFile(ctx, "testdir/testfile.txt", nil)
		if err != nil {
			t.Fatalf("ReadFile: got error %v", err)
		}
		if string(got.Bytes()) != string(content) {
			t.Errorf("ReadFile: got %q, want %q", got.Bytes(), content)
		}
	})

	t.Run("ReadFileEncoded", func(t *testing.T) {
		got, err := filesystem.ReadFile(ctx, "testdir/testfile.txt", &shimfs.ReadFileOptions{Encoding: shimfs.EncodingUTF8})
		if err != nil {
			t.Fatalf("ReadFile: got error %v", err)
		}
		if text, ok := got.Text(); !ok || text != string(content) {
			t.Errorf("ReadFile: got text %q (decoded=%v), want %q", text, ok, content)
		}
	})

	t.Run("ReadFileDirectory", func(t *testing.T) {
		_, err := filesystem.ReadFile(ctx, "testdir", nil)
		expectCode(t, "ReadFile(dir)", err, errors.CodeIsDirectory, errors.SyscallOpen)
	})

	t.Run("StatFile", func(t *testing.T) {
		st, err := filesystem.Stat(ctx, "testdir/testfile.txt")
		if err != nil {
			t.Fatalf("Stat: got error %v", err)
		}
		if !st.IsFile() || st.IsDirectory() {
			t.Errorf("Stat: IsFile=%v IsDirectory=%v, want file", st.IsFile(), st.IsDirectory())
		}
		if st.Size != int64(len(content)) {
			t.Errorf("Stat: Size=%d, want %d", st.Size, len(content))
		}
	})

	t.Run("Readdir", func(t *testing.T) {
		entries, err := filesystem.Readdir(ctx, "testdir", &shimfs.ReaddirOptions{WithFileTypes: true})
		if err != nil {
			t.Fatalf("Readdir: got error %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("Readdir: got %d entries, want 2", len(entries))
		}
		if entries[0].Name != "nested" || !entries[0].IsDirectory() {
			t.Errorf("Readdir[0]: got %q dir=%v, want nested directory", entries[0].Name, entries[0].IsDirectory())
		}
		if entries[1].Name != "testfile.txt" || !entries[1].IsFile() {
			t.Errorf("Readdir[1]: got %q file=%v, want testfile.txt file", entries[1].Name, entries[1].IsFile())
		}
	})

	t.Run("ReaddirNotDirectory", func(t *testing.T) {
		_, err := filesystem.Readdir(ctx, "testdir/testfile.txt", nil)
		expectCode(t, "Readdir(file)", err, errors.CodeNotDirectory, errors.SyscallScandir)
	})
}

// TestMetadata checks that derived millisecond fields agree with their base
// timestamps and are absent exactly when the base is absent.
func TestMetadata(t *testing.T, filesystem *shimfs.FS) {
	ctx := context.Background()
	if err := filesystem.WriteFile(ctx, "stamped", "x", nil); err != nil {
		t.Fatalf("WriteFile: setup failed: %v", err)
	}

	for _, get := range []struct {
		name string
		fn   func(context.Context, string) (*shimfs.Stats, error)
	}{
		{"Stat", filesystem.Stat},
		{"Lstat", filesystem.Lstat},
	} {
		st, err := get.fn(ctx, "stamped")
		if err != nil {
			t.Fatalf("%s: got error %v", get.name, err)
		}
		if st.Mtime == nil {
			t.Errorf("%s: Mtime is nil, want modification time", get.name)
		}
		checkDerived(t, get.name+" mtime", st.Mtime, st.MtimeMs)
		checkDerived(t, get.name+" atime", st.Atime, st.AtimeMs)
		checkDerived(t, get.name+" ctime", st.Ctime, st.CtimeMs)
		checkDerived(t, get.name+" birthtime", st.Birthtime, st.BirthtimeMs)
		if st.Ctime == nil && st.Birthtime != nil {
			t.Errorf("%s: Ctime nil while Birthtime is set", get.name)
		}
	}
}

func checkDerived(t *testing.T, what string, base *time.Time, ms *int64) {
	t.Helper()
	switch {
	case base == nil && ms != nil:
		t.Errorf("%s: derived field %d present without base time", what, *ms)
	case base != nil && ms == nil:
		t.Errorf("%s: derived field absent for base time %v", what, *base)
	case base != nil && *ms != base.UnixMilli():
		t.Errorf("%s: derived field %d, want %d", what, *ms, base.UnixMilli())
	}
}
