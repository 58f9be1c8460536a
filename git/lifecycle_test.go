package git

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
	billyfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs/billy"
	shimhttp "github.com/input-output-hk/catalyst-forge-libs/gitshim/http"
)

// TestInit tests repository initialization with various configurations
func TestInit(t *testing.T) {
	tests := []struct {
		name     string
		opts     func() Options
		validate func(t *testing.T, repo *Repo, err error)
	}{
		{
			name: "non-bare repository",
			opts: func() Options {
				return Options{
					FS:      billyfs.NewInMemoryFS(),
					Bare:    false,
					Workdir: ".",
				}
			},
			validate: func(t *testing.T, repo *Repo, err error) {
				require.NoError(t, err)
				require.NotNil(t, repo)
				assert.NotNil(t, repo.repo, "repo.repo should not be nil")
				assert.NotNil(t, repo.worktree, "worktree should not be nil for non-bare repo")
			},
		},
		{
			name: "bare repository",
			opts: func() Options {
				return Options{
					FS:   billyfs.NewInMemoryFS(),
					Bare: true,
				}
			},
			validate: func(t *testing.T, repo *Repo, err error) {
				require.NoError(t, err)
				require.NotNil(t, repo)
				assert.NotNil(t, repo.repo, "repo.repo should not be nil")
				assert.Nil(t, repo.worktree, "worktree should be nil for bare repo")
			},
		},
		{
			name: "invalid options - nil filesystem",
			opts: func() Options {
				return Options{FS: nil}
			},
			validate: func(t *testing.T, repo *Repo, err error) {
				require.ErrorIs(t, err, ErrInvalidRef)
				assert.Nil(t, repo)
			},
		},
		{
			name: "default options",
			opts: func() Options {
				return Options{FS: billyfs.NewInMemoryFS()}
			},
			validate: func(t *testing.T, repo *Repo, err error) {
				require.NoError(t, err)
				require.NotNil(t, repo)
				assert.Equal(t, DefaultWorkdir, repo.options.Workdir)
				assert.Equal(t, DefaultStorerCacheSize, repo.options.StorerCacheSize)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts()
			repo, err := Init(context.Background(), &opts)
			tt.validate(t, repo, err)
		})
	}
}

func TestInit_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Init(ctx, &Options{FS: billyfs.NewInMemoryFS()})
	assert.ErrorIs(t, err, context.Canceled)
}

// TestInit_GitDirectoryStructure verifies the git directory structure is created correctly
func TestInit_GitDirectoryStructure(t *testing.T) {
	tests := []struct {
		name          string
		workdir       string
		bare          bool
		expectedFiles []string
		absentAtRoot  []string
	}{
		{
			name:          "non-bare repository structure",
			workdir:       ".",
			expectedFiles: []string{".git/HEAD", ".git/objects", ".git/refs"},
		},
		{
			name:          "bare repository structure",
			workdir:       ".",
			bare:          true,
			expectedFiles: []string{"HEAD", "config", "refs", "objects"},
		},
		{
			name:          "nested workdir",
			workdir:       "projects/myrepo",
			expectedFiles: []string{"projects/myrepo/.git/HEAD", "projects/myrepo/.git/config"},
			absentAtRoot:  []string{".git", "HEAD"},
		},
		{
			name:          "bare repository in subdir",
			workdir:       "repos/bare-repo",
			bare:          true,
			expectedFiles: []string{"repos/bare-repo/HEAD", "repos/bare-repo/config"},
			absentAtRoot:  []string{".git", "HEAD", "config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			memFS := billyfs.NewInMemoryFS()

			_, err := Init(ctx, &Options{
				FS:      memFS,
				Bare:    tt.bare,
				Workdir: tt.workdir,
			})
			require.NoError(t, err)

			for _, file := range tt.expectedFiles {
				ok, err := memFS.Exists(ctx, file)
				require.NoError(t, err)
				assert.True(t, ok, "expected %s to exist", file)
			}
			for _, file := range tt.absentAtRoot {
				ok, err := memFS.Exists(ctx, file)
				require.NoError(t, err)
				assert.False(t, ok, "expected %s to be absent", file)
			}
		})
	}
}

// TestOpen tests opening existing repositories
func TestOpen(t *testing.T) {
	initialized := func(bare bool) func(t *testing.T) *fs.FS {
		return func(t *testing.T) *fs.FS {
			memFS := billyfs.NewInMemoryFS()
			_, err := Init(context.Background(), &Options{FS: memFS, Bare: bare})
			require.NoError(t, err)
			return memFS
		}
	}

	tests := []struct {
		name     string
		setup    func(t *testing.T) *fs.FS
		bare     bool
		validate func(t *testing.T, repo *Repo, err error)
	}{
		{
			name:  "open existing non-bare repository",
			setup: initialized(false),
			validate: func(t *testing.T, repo *Repo, err error) {
				require.NoError(t, err)
				require.NotNil(t, repo)
				assert.NotNil(t, repo.repo)
				assert.NotNil(t, repo.worktree)
			},
		},
		{
			name:  "open existing bare repository",
			setup: initialized(true),
			bare:  true,
			validate: func(t *testing.T, repo *Repo, err error) {
				require.NoError(t, err)
				require.NotNil(t, repo)
				assert.NotNil(t, repo.repo)
				assert.Nil(t, repo.worktree)
			},
		},
		{
			name: "open non-existent repository",
			setup: func(*testing.T) *fs.FS {
				return billyfs.NewInMemoryFS()
			},
			validate: func(t *testing.T, repo *Repo, err error) {
				require.Error(t, err, "should fail for non-existent repository")
				assert.Nil(t, repo)
			},
		},
		{
			name: "invalid options - nil filesystem",
			setup: func(*testing.T) *fs.FS {
				return nil
			},
			validate: func(t *testing.T, repo *Repo, err error) {
				require.ErrorIs(t, err, ErrInvalidRef)
				assert.Nil(t, repo)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := Options{FS: tt.setup(t), Bare: tt.bare}
			repo, err := Open(context.Background(), &opts)
			tt.validate(t, repo, err)
		})
	}
}

func TestOpen_OnDisk(t *testing.T) {
	ctx := context.Background()
	osFS := billyfs.NewOSFS(t.TempDir())

	tr := &testRepo{ctx: ctx, fs: osFS}
	repo, err := Init(ctx, &Options{FS: osFS, Workdir: "repo"})
	require.NoError(t, err)
	tr.repo = repo
	tr.writeFile(t, "repo/README.md", "# repo\n")
	require.NoError(t, repo.Add(ctx, "README.md"))
	want, err := repo.Commit(ctx, "docs: readme", testSignature, CommitOpts{})
	require.NoError(t, err)

	reopened, err := Open(ctx, &Options{FS: osFS, Workdir: "repo"})
	require.NoError(t, err)
	got, err := reopened.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

// TestClone tests argument validation for cloning
func TestClone(t *testing.T) {
	tests := []struct {
		name string
		url  string
		opts func() Options
	}{
		{
			name: "empty URL",
			url:  "",
			opts: func() Options {
				return Options{FS: billyfs.NewInMemoryFS()}
			},
		},
		{
			name: "invalid options - nil filesystem",
			url:  "https://github.com/user/repo.git",
			opts: func() Options {
				return Options{FS: nil}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts()
			repo, err := Clone(context.Background(), tt.url, &opts)
			require.ErrorIs(t, err, ErrInvalidRef)
			assert.Nil(t, repo)
		})
	}
}

func TestClone_OverHTTPShim(t *testing.T) {
	src := setupTestRepo(t, false)
	head := src.commitFiles(t, "feat: initial", map[string]string{
		"README.md":   "hello\n",
		"src/main.go": "package main\n",
	})
	url := newSmartHTTPServer(t, src.repo.repo.Storer)

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ctx := context.Background()
	dst := billyfs.NewInMemoryFS()
	repo, err := Clone(ctx, url, &Options{
		FS:      dst,
		Workdir: "checkout",
		HTTP:    shimhttp.NewClient(shimhttp.WithLogger(logger)),
		Logger:  logger,
	})
	require.NoError(t, err)

	got, err := repo.Head(ctx)
	require.NoError(t, err)
	assert.Equal(t, head, got)

	content, err := dst.ReadFile(ctx, path.Join("checkout", "src/main.go"), nil)
	require.NoError(t, err)
	assert.Equal(t, "package main\n", string(content.Bytes()))

	status, err := repo.Status(ctx, ".")
	require.NoError(t, err)
	assert.Equal(t, StatusUnmodified, status)

	assert.Contains(t, logs.String(), "http request", "traffic must go through the HTTP shim")
	assert.Contains(t, logs.String(), "cloned repository")
}

func TestClone_RedirectedRepository(t *testing.T) {
	src := setupTestRepo(t, false)
	head := src.commitFiles(t, "feat: initial", map[string]string{"README.md": "hello\n"})
	oldURL := strings.TrimSuffix(newSmartHTTPServer(t, src.repo.repo.Storer), "/repo.git") + "/old.git"

	tests := []struct {
		name string
		http *shimhttp.Client
	}{
		{name: "go-git transport"},
		{name: "http shim", http: shimhttp.NewClient()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo, err := Clone(ctx, oldURL, &Options{
				FS:   billyfs.NewInMemoryFS(),
				HTTP: tt.http,
			})
			require.NoError(t, err)

			got, err := repo.Head(ctx)
			require.NoError(t, err)
			assert.Equal(t, head, got)
		})
	}
}

func TestClone_MissingRepository(t *testing.T) {
	src := setupTestRepoWithCommit(t)
	url := newSmartHTTPServer(t, src.repo.repo.Storer)

	_, err := Clone(context.Background(), url+"/nope", &Options{
		FS:   billyfs.NewInMemoryFS(),
		HTTP: shimhttp.NewClient(),
	})
	assert.Error(t, err)
}

// mockAuthProvider is a test implementation of AuthProvider for testing auth flow
type mockAuthProvider struct {
	auth   transport.AuthMethod
	called bool
}

//nolint:ireturn // transport.AuthMethod is an interface required by go-git
func (m *mockAuthProvider) Method(string) (transport.AuthMethod, error) {
	m.called = true
	return m.auth, nil
}

// TestClone_WithAuthProvider tests that auth providers are called during clone
func TestClone_WithAuthProvider(t *testing.T) {
	src := setupTestRepoWithCommit(t)
	url := newSmartHTTPServer(t, src.repo.repo.Storer)

	mockAuth := &mockAuthProvider{
		auth: &http.BasicAuth{Username: "test", Password: "password"},
	}

	_, err := Clone(context.Background(), url, &Options{
		FS:   billyfs.NewInMemoryFS(),
		Auth: mockAuth,
		HTTP: shimhttp.NewClient(),
	})
	require.NoError(t, err)
	assert.True(t, mockAuth.called, "auth provider should have been called")
}

// TestClone_Network clones a small public repository. It needs network
// access and only runs with GITSHIM_E2E=1.
func TestClone_Network(t *testing.T) {
	if testing.Short() || os.Getenv("GITSHIM_E2E") != "1" {
		t.Skip("set GITSHIM_E2E=1 to run network tests")
	}

	ctx := context.Background()
	repo, err := Clone(ctx, "https://github.com/octocat/Hello-World.git", &Options{
		FS:           billyfs.NewInMemoryFS(),
		ShallowDepth: 1,
		HTTP:         shimhttp.NewClient(shimhttp.WithUserAgent("gitshim-e2e")),
	})
	require.NoError(t, err)

	status, err := repo.Status(ctx, "README")
	require.NoError(t, err)
	assert.Equal(t, StatusUnmodified, status)
}
