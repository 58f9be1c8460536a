package git

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
	"github.com/input-output-hk/catalyst-forge-libs/gitshim/git/internal/auth"
	"github.com/input-output-hk/catalyst-forge-libs/gitshim/git/internal/fsbridge"
	shimhttp "github.com/input-output-hk/catalyst-forge-libs/gitshim/http"
)

const (
	// DefaultStorerCacheSize is the default size for the LRU object cache.
	DefaultStorerCacheSize = 1000

	// DefaultWorkdir is the default worktree directory name.
	DefaultWorkdir = "."

	// DefaultRemoteName is the default remote name used for operations.
	DefaultRemoteName = "origin"
)

// Options configures repository discovery/creation and performance.
type Options struct {
	// FS is the REQUIRED filesystem shim (OS or in-memory).
	// All repository state lives within this filesystem.
	FS *fs.FS

	// Workdir is the path within FS for the worktree root.
	// Defaults to "." (current directory in FS).
	Workdir string

	// Bare indicates if this should be a bare repository (.git only, no worktree).
	Bare bool

	// StorerCacheSize sets the LRU objects cache entries.
	// Defaults to DefaultStorerCacheSize.
	StorerCacheSize int

	// Auth is an optional provider that resolves per-URL AuthMethod.
	// If nil, no authentication will be available.
	Auth AuthProvider

	// HTTP routes http and https remotes through the HTTP shim when set.
	// go-git's transport registry is process-wide, so installing it affects
	// every repository in the process.
	HTTP *shimhttp.Client

	// ShallowDepth sets the depth for shallow clone/fetch operations.
	// If 0, full clone/fetch operations are performed.
	ShallowDepth int

	// GlobalExcludes makes Status also honour the user's global ignore file,
	// $XDG_CONFIG_HOME/git/ignore, read from the host filesystem.
	GlobalExcludes bool

	// Logger traces repository operations at debug level. Nil disables tracing.
	Logger *slog.Logger
}

// Validate checks that the Options are properly configured.
// It returns an error if required fields are missing or invalid.
func (o *Options) Validate() error {
	if o.FS == nil {
		return WrapError(ErrInvalidRef, "FS is required")
	}

	if o.StorerCacheSize < 0 {
		return WrapError(ErrInvalidRef, "StorerCacheSize cannot be negative")
	}

	if o.ShallowDepth < 0 {
		return WrapError(ErrInvalidRef, "ShallowDepth cannot be negative")
	}

	return nil
}

// applyDefaults sets default values for any unset fields in Options.
func (o *Options) applyDefaults() {
	if o.Workdir == "" {
		o.Workdir = DefaultWorkdir
	}

	if o.StorerCacheSize == 0 {
		o.StorerCacheSize = DefaultStorerCacheSize
	}
}

// layout resolves the storage and worktree filesystems for opts.
func layout(opts *Options) (*filesystem.Storage, gobilly.Filesystem, error) {
	scopedFS, err := fsbridge.ToBillyFilesystem(opts.FS).Chroot(opts.Workdir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to chroot to workdir %q: %w", opts.Workdir, err)
	}

	if opts.Bare {
		return fsbridge.NewStorage(scopedFS, opts.StorerCacheSize), nil, nil
	}

	dotGitFS, err := scopedFS.Chroot(".git")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access .git directory: %w", err)
	}
	return fsbridge.NewStorage(dotGitFS, opts.StorerCacheSize), scopedFS, nil
}

// newRepo wraps a go-git repository, attaching the worktree when not bare.
func newRepo(repo *git.Repository, opts *Options) (*Repo, error) {
	r := &Repo{
		repo:    repo,
		fs:      opts.FS,
		options: *opts,
	}

	if !opts.Bare {
		worktree, err := repo.Worktree()
		if err != nil {
			return nil, WrapError(err, "failed to get worktree")
		}
		r.worktree = worktree
	}

	return r, nil
}

// Init creates a new git repository at the specified location.
func Init(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	opts.applyDefaults()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	storage, worktreeFS, err := layout(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Init(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to initialize repository")
	}

	if opts.Logger != nil {
		opts.Logger.DebugContext(ctx, "initialized repository", "workdir", opts.Workdir, "bare", opts.Bare)
	}
	return newRepo(repo, opts)
}

// Open discovers and opens an existing git repository.
// The repository must already exist at the specified workdir within the filesystem.
func Open(ctx context.Context, opts *Options) (*Repo, error) {
	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	opts.applyDefaults()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	storage, worktreeFS, err := layout(opts)
	if err != nil {
		return nil, err
	}

	repo, err := git.Open(storage, worktreeFS)
	if err != nil {
		return nil, WrapError(err, "failed to open repository")
	}

	return newRepo(repo, opts)
}

// Clone creates a new repository by cloning from a remote URL.
//
// The remoteURL should be a valid git URL (https://, http:// or file:// for
// local repos). For shallow clones, set ShallowDepth > 0 to limit the clone
// depth. When HTTP is set, http and https traffic goes through the HTTP shim.
//
// Context timeout/cancellation is honored during the clone operation.
func Clone(ctx context.Context, remoteURL string, opts *Options) (*Repo, error) {
	if remoteURL == "" {
		return nil, WrapError(ErrInvalidRef, "remote URL cannot be empty")
	}

	if err := opts.Validate(); err != nil {
		return nil, WrapError(err, "invalid options")
	}

	opts.applyDefaults()

	storage, worktreeFS, err := layout(opts)
	if err != nil {
		return nil, err
	}

	cloneOpts := &git.CloneOptions{
		URL:          remoteURL,
		Depth:        opts.ShallowDepth,
		SingleBranch: opts.ShallowDepth > 0,
	}

	if opts.Auth != nil {
		authMethod, authErr := opts.Auth.Method(remoteURL)
		if authErr != nil {
			return nil, WrapError(authErr, "failed to get authentication method")
		}
		cloneOpts.Auth = authMethod
	}

	if opts.HTTP != nil {
		shimhttp.Install(opts.HTTP)
	}

	start := time.Now()
	repo, err := git.CloneContext(ctx, storage, worktreeFS, cloneOpts)
	if err != nil {
		return nil, WrapError(err, "failed to clone repository")
	}

	if opts.Logger != nil {
		opts.Logger.DebugContext(ctx, "cloned repository",
			"url", auth.Redact(remoteURL),
			"workdir", opts.Workdir,
			"depth", opts.ShallowDepth,
			"elapsed", time.Since(start),
		)
	}
	return newRepo(repo, opts)
}

// AuthProvider resolves authentication methods for git operations.
// Implementations should handle different URL schemes and credential sources.
type AuthProvider interface {
	// Method returns the appropriate transport.AuthMethod for the given remote URL.
	// Returns nil if no authentication is needed/available for this URL.
	// Returns an error if authentication cannot be resolved for the URL.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// Signature represents an author/committer signature for commits.
type Signature struct {
	// Name is the author's or committer's name.
	Name string

	// Email is the author's or committer's email address.
	Email string

	// When is the timestamp for the signature.
	When time.Time
}

// CommitOpts configures commit creation behavior.
type CommitOpts struct {
	// AllowEmpty allows creating commits with no changes.
	AllowEmpty bool
}

// Repo represents a git repository and provides high-level operations.
// It wraps a go-git Repository and Worktree operating on the filesystem shim.
type Repo struct {
	repo     *git.Repository
	worktree *git.Worktree
	fs       *fs.FS
	options  Options
}

// Head returns the hash HEAD points at.
func (r *Repo) Head(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	head, err := r.repo.Head()
	if err != nil {
		return "", WrapError(ErrResolveFailed, "failed to resolve HEAD")
	}
	return head.Hash().String(), nil
}
