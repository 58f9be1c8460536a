package fstest

import (
	"context"
	"sync"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
	shimfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
)

// TestWriteFS tests WriteFile and Unlink.
func TestWriteFS(t *testing.T, filesystem *shimfs.FS) {
	ctx := context.Background()

	t.Run("CreateAndOverwrite", func(t *testing.T) {
		if err := filesystem.WriteFile(ctx, "file.txt", "first", nil); err != nil {
			t.Fatalf("WriteFile: got error %v", err)
		}
		if err := filesystem.WriteFile(ctx, "file.txt", "second", nil); err != nil {
			t.Fatalf("WriteFile(overwrite): got error %v", err)
		}
		got, err := filesystem.ReadFile(ctx, "file.txt", nil)
		if err != nil {
			t.Fatalf("ReadFile: got error %v", err)
		}
		if got.String() != "second" {
			t.Errorf("ReadFile: got %q, want %q", got.String(), "second")
		}
	})

	t.Run("Exclusive", func(t *testing.T) {
		err := filesystem.WriteFile(ctx, "file.txt", "x", &shimfs.WriteFileOptions{Flag: "wx"})
		expectCode(t, "WriteFile(wx)", err, errors.CodeAlreadyExists, errors.SyscallOpen)
	})

	t.Run("MissingParent", func(t *testing.T) {
		err := filesystem.WriteFile(ctx, "no-such-dir/file.txt", "x", nil)
		expectCode(t, "WriteFile(missing parent)", err, errors.CodeNotFound, errors.SyscallOpen)
	})

	t.Run("Unlink", func(t *testing.T) {
		if err := filesystem.Unlink(ctx, "file.txt"); err != nil {
			t.Fatalf("Unlink: got error %v", err)
		}
		if ok, _ := filesystem.Exists(ctx, "file.txt"); ok {
			t.Errorf("Unlink: file still exists")
		}
	})
}

// TestMkdir tests mkdir with and without recursion.
func TestMkdir(t *testing.T, filesystem *shimfs.FS) {
	ctx := context.Background()

	if err := filesystem.Mkdir(ctx, "dir", &shimfs.MkdirOptions{Mode: "0755"}); err != nil {
		t.Fatalf("Mkdir(dir): got error %v", err)
	}

	t.Run("ExistingWithoutRecursion", func(t *testing.T) {
		err := filesystem.Mkdir(ctx, "dir", nil)
		expectCode(t, "Mkdir(existing)", err, errors.CodeAlreadyExists, errors.SyscallMkdir)
	})

	t.Run("ExistingWithRecursion", func(t *testing.T) {
		if err := filesystem.Mkdir(ctx, "dir", &shimfs.MkdirOptions{Recursive: true}); err != nil {
			t.Errorf("Mkdir(existing, recursive): got error %v, want nil", err)
		}
	})

	t.Run("MissingIntermediate", func(t *testing.T) {
		err := filesystem.Mkdir(ctx, "a/b/c", nil)
		expectCode(t, "Mkdir(a/b/c)", err, errors.CodeNotFound, errors.SyscallMkdir)
	})

	t.Run("Recursive", func(t *testing.T) {
		if err := filesystem.Mkdir(ctx, "a/b/c", &shimfs.MkdirOptions{Recursive: true, Mode: 0o750}); err != nil {
			t.Fatalf("Mkdir(a/b/c, recursive): got error %v", err)
		}
		st, err := filesystem.Stat(ctx, "a/b/c")
		if err != nil {
			t.Fatalf("Stat(a/b/c): got error %v", err)
		}
		if !st.IsDirectory() {
			t.Errorf("Stat(a/b/c): not a directory")
		}
		for _, dir := range []string{"a", "a/b", "a/b/c"} {
			st, err := filesystem.Stat(ctx, dir)
			if err != nil {
				t.Fatalf("Stat(%s): got error %v", dir, err)
			}
			if got := st.Mode.Perm(); got != 0o750 {
				t.Errorf("Stat(%s).Mode.Perm() = %o, want 750", dir, got)
			}
		}
	})
}

// TestRmdir tests directory removal.
func TestRmdir(t *testing.T, filesystem *shimfs.FS) {
	ctx := context.Background()

	if err := filesystem.Mkdir(ctx, "full/inner", &shimfs.MkdirOptions{Recursive: true}); err != nil {
		t.Fatalf("Mkdir: setup failed: %v", err)
	}
	if err := filesystem.WriteFile(ctx, "full/inner/file", "x", nil); err != nil {
		t.Fatalf("WriteFile: setup failed: %v", err)
	}

	t.Run("NotEmpty", func(t *testing.T) {
		err := filesystem.Rmdir(ctx, "full", nil)
		expectCode(t, "Rmdir(full)", err, errors.CodeNotEmpty, errors.SyscallRmdir)
	})

	t.Run("NotDirectory", func(t *testing.T) {
		err := filesystem.Rmdir(ctx, "full/inner/file", nil)
		expectCode(t, "Rmdir(file)", err, errors.CodeNotDirectory, errors.SyscallRmdir)
	})

	t.Run("Recursive", func(t *testing.T) {
		if err := filesystem.Rmdir(ctx, "full", &shimfs.RmdirOptions{Recursive: true, MaxRetries: 3}); err != nil {
			t.Fatalf("Rmdir(full, recursive): got error %v", err)
		}
		if ok, _ := filesystem.Exists(ctx, "full"); ok {
			t.Errorf("Rmdir(full, recursive): directory still exists")
		}
	})

	t.Run("IdempotentCleanup", func(t *testing.T) {
		err := filesystem.Rmdir(ctx, "full", &shimfs.RmdirOptions{Recursive: true})
		if err != nil && !errors.IsCode(err, errors.CodeNotFound) {
			t.Errorf("Rmdir(removed): got %v, want ENOENT or nil", err)
		}
	})
}

// TestSymlink tests Symlink, Readlink and Lstat on links.
func TestSymlink(t *testing.T, filesystem *shimfs.FS) {
	ctx := context.Background()

	if err := filesystem.WriteFile(ctx, "target.txt", "linked", nil); err != nil {
		t.Fatalf("WriteFile: setup failed: %v", err)
	}
	if err := filesystem.Symlink(ctx, "target.txt", "link", shimfs.SymlinkFile); err != nil {
		t.Fatalf("Symlink: got error %v", err)
	}

	target, err := filesystem.Readlink(ctx, "link")
	if err != nil {
		t.Fatalf("Readlink: got error %v", err)
	}
	if target != "target.txt" {
		t.Errorf("Readlink: got %q, want %q", target, "target.txt")
	}

	lst, err := filesystem.Lstat(ctx, "link")
	if err != nil {
		t.Fatalf("Lstat: got error %v", err)
	}
	if !lst.IsSymbolicLink() {
		t.Errorf("Lstat: IsSymbolicLink = false, want true")
	}

	st, err := filesystem.Stat(ctx, "link")
	if err != nil {
		t.Fatalf("Stat: got error %v", err)
	}
	if !st.IsFile() {
		t.Errorf("Stat: link did not resolve to a file")
	}

	err = filesystem.Symlink(ctx, "target.txt", "link", "")
	expectCode(t, "Symlink(existing)", err, errors.CodeAlreadyExists, errors.SyscallSymlink)
}

// TestCallbacks checks that the callback form delivers exactly one outcome
// per call, with and without options.
func TestCallbacks(t *testing.T, filesystem *shimfs.FS) {
	cbs := shimfs.NewCallbacks(context.Background(), filesystem)

	var mu sync.Mutex
	outcomes := map[string]int{}
	record := func(name string, hasResult bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		outcomes[name]++
		if hasResult == (err != nil) {
			t.Errorf("%s: hasResult=%v err=%v, want exactly one", name, hasResult, err)
		}
	}

	calls := []struct {
		name string
		call func() error
	}{
		{"mkdir", func() error {
			return cbs.Mkdir("cbdir", func(err error) { record("mkdir", err == nil, err) })
		}},
		{"mkdir-options", func() error {
			return cbs.Mkdir("cbdir/sub", &shimfs.MkdirOptions{Mode: "700"}, func(err error) {
				record("mkdir-options", err == nil, err)
			})
		}},
		{"readdir", func() error {
			return cbs.Readdir("cbdir", func(d []shimfs.Dirent, err error) { record("readdir", d != nil, err) })
		}},
		{"stat-missing", func() error {
			return cbs.Stat("cbmissing", func(s *shimfs.Stats, err error) { record("stat-missing", s != nil, err) })
		}},
		{"rmdir-missing", func() error {
			return cbs.Rmdir("cbmissing", func(err error) { record("rmdir-missing", err == nil, err) })
		}},
	}

	for _, c := range calls {
		if err := c.call(); err != nil {
			t.Fatalf("%s: got synchronous error %v", c.name, err)
		}
		cbs.Wait()
	}

	for _, c := range calls {
		if outcomes[c.name] != 1 {
			t.Errorf("%s: callback invoked %d times, want 1", c.name, outcomes[c.name])
		}
	}

	if err := cbs.Stat("cbdir"); err == nil {
		t.Errorf("Stat without callback: got nil, want ErrNoCallback")
	}
}
