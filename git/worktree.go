package git

import (
	"context"
	"errors"
	"strings"

	gobilly "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/git/internal/fsbridge"
)

// workdirFS returns the worktree root as seen through the shim, bound to ctx.
//
//nolint:ireturn // billy.Filesystem is dictated by upstream.
func (r *Repo) workdirFS(ctx context.Context) (gobilly.Filesystem, error) {
	scoped, err := fsbridge.ToBillyFilesystem(r.fs).WithContext(ctx).Chroot(r.options.Workdir)
	if err != nil {
		return nil, WrapErrorf(err, "failed to chroot to workdir %q", r.options.Workdir)
	}
	return scoped, nil
}

// expandPaths resolves glob patterns against the worktree. Plain paths are
// kept only when keep reports true for them.
func (r *Repo) expandPaths(ctx context.Context, paths []string, keep func(gobilly.Filesystem, string) bool) ([]string, error) {
	workdirFS, err := r.workdirFS(ctx)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, path := range paths {
		if path == "" {
			continue
		}

		if strings.ContainsAny(path, "*?[") {
			matches, globErr := util.Glob(workdirFS, path)
			if globErr != nil {
				return nil, WrapErrorf(globErr, "invalid glob pattern %q", path)
			}
			out = append(out, matches...)
			continue
		}

		if keep(workdirFS, path) {
			out = append(out, path)
		}
	}
	return out, nil
}

// Add stages files in the worktree for the next commit.
// It supports glob patterns. Files that don't exist are silently ignored
// (matching git add behavior).
func (r *Repo) Add(ctx context.Context, paths ...string) error {
	if r.worktree == nil {
		return WrapError(ErrInvalidRef, "cannot add files in bare repository")
	}

	pathsToAdd, err := r.expandPaths(ctx, paths, func(wfs gobilly.Filesystem, path string) bool {
		_, statErr := wfs.Lstat(path)
		return statErr == nil
	})
	if err != nil {
		return err
	}

	for _, path := range pathsToAdd {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.worktree.Add(path); err != nil {
			return WrapErrorf(err, "failed to add path %q", path)
		}
	}

	r.debug(ctx, "staged paths", "count", len(pathsToAdd))
	return nil
}

// Remove removes files from the index and worktree.
// Paths that are not tracked are silently ignored.
func (r *Repo) Remove(ctx context.Context, paths ...string) error {
	if r.worktree == nil {
		return WrapError(ErrInvalidRef, "cannot remove files in bare repository")
	}

	pathsToRemove, err := r.expandPaths(ctx, paths, func(gobilly.Filesystem, string) bool { return true })
	if err != nil {
		return err
	}

	for _, path := range pathsToRemove {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := r.worktree.Remove(path); err != nil && !errors.Is(err, index.ErrEntryNotFound) {
			return WrapErrorf(err, "failed to remove path %q", path)
		}
	}

	return nil
}

// Commit creates a new commit with the specified message and author/committer.
// It returns the SHA of the new commit. Unless opts.AllowEmpty is set, a
// commit with nothing staged fails with ErrEmptyCommit.
func (r *Repo) Commit(ctx context.Context, msg string, who Signature, opts CommitOpts) (string, error) {
	if r.worktree == nil {
		return "", WrapError(ErrInvalidRef, "cannot commit in bare repository")
	}

	if msg == "" {
		return "", WrapError(ErrInvalidRef, "commit message cannot be empty")
	}

	if who.Name == "" || who.Email == "" {
		return "", WrapError(ErrInvalidRef, "committer name and email are required")
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	sig := &object.Signature{
		Name:  who.Name,
		Email: who.Email,
		When:  who.When,
	}

	hash, err := r.worktree.Commit(msg, &git.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: opts.AllowEmpty,
	})
	if err != nil {
		if errors.Is(err, git.ErrEmptyCommit) {
			return "", ErrEmptyCommit
		}
		return "", WrapError(err, "failed to create commit")
	}

	r.debug(ctx, "created commit", "hash", hash.String())
	return hash.String(), nil
}

func (r *Repo) debug(ctx context.Context, msg string, args ...any) {
	if r.options.Logger != nil {
		r.options.Logger.DebugContext(ctx, msg, args...)
	}
}
