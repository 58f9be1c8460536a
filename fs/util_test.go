package fs

import (
	"context"
	"os"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want os.FileMode
	}{
		{"int", 0o755, 0o755},
		{"uint32", uint32(0o644), 0o644},
		{"file mode passthrough", os.FileMode(0o600) | os.ModeDir, os.FileMode(0o600) | os.ModeDir},
		{"octal string", "755", 0o755},
		{"leading zero", "0644", 0o644},
		{"0o prefix", "0o700", 0o700},
		{"setuid and sticky", 0o5755, 0o755 | os.ModeSetuid | os.ModeSticky},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if err != nil {
				t.Fatalf("ParseMode(%v) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	for _, bad := range []any{"rwx", "999", -1, 0o17777, 1.5} {
		if _, err := ParseMode(bad); err == nil {
			t.Errorf("ParseMode(%v) succeeded, want error", bad)
		}
	}
}

func TestExists(t *testing.T) {
	ctx := context.Background()
	mfs := memfs.New()
	if err := util.WriteFile(mfs, "present.txt", []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	fsys := New(mfs)

	t.Run("existing file returns true", func(t *testing.T) {
		ok, err := fsys.Exists(ctx, "present.txt")
		if err != nil {
			t.Fatalf("Exists returned error: %v", err)
		}
		if !ok {
			t.Errorf("Exists(present.txt) = false, want true")
		}
	})

	t.Run("missing file returns false without error", func(t *testing.T) {
		ok, err := fsys.Exists(ctx, "does-not-exist-12345")
		if err != nil {
			t.Fatalf("Exists returned error: %v", err)
		}
		if ok {
			t.Errorf("Exists(does-not-exist-12345) = true, want false")
		}
	})
}

func TestParentDir(t *testing.T) {
	tests := map[string]string{
		"a.txt":      "",
		"/a.txt":     "",
		"a/b.txt":    "a",
		"a/b/c":      "a/b",
		"./a/b/":     "a",
		"/abs/dir/x": "/abs/dir",
		".":          "",
	}
	for in, want := range tests {
		if got := parentDir(in); got != want {
			t.Errorf("parentDir(%q) = %q, want %q", in, got, want)
		}
	}
}
