package git

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
)

// Fetch fetches changes from the specified remote.
// It supports pruning stale remote branches and shallow fetching when depth > 0.
// Returns ErrAlreadyUpToDate if there are no changes to fetch.
//
// Context timeout/cancellation is honored during the fetch operation.
func (r *Repo) Fetch(ctx context.Context, remote string, prune bool, depth int) error {
	if remote == "" {
		remote = DefaultRemoteName
	}
	if depth < 0 {
		return WrapError(ErrInvalidRef, "depth cannot be negative")
	}

	remoteConfig, err := r.repo.Remote(remote)
	if err != nil {
		if errors.Is(err, git.ErrRemoteNotFound) {
			return WrapErrorf(ErrResolveFailed, "remote %q not found", remote)
		}
		return WrapError(err, "failed to get remote configuration")
	}

	fetchOpts := &git.FetchOptions{
		RemoteName: remote,
		Prune:      prune,
		Depth:      depth,
	}

	if r.options.Auth != nil {
		urls := remoteConfig.Config().URLs
		if len(urls) == 0 {
			return WrapErrorf(ErrResolveFailed, "remote %q has no URL", remote)
		}
		authMethod, authErr := r.options.Auth.Method(urls[0])
		if authErr != nil {
			return WrapError(ErrAuthRequired, authErr.Error())
		}
		fetchOpts.Auth = authMethod
	}

	err = r.repo.FetchContext(ctx, fetchOpts)
	if err != nil {
		if errors.Is(err, git.NoErrAlreadyUpToDate) {
			return ErrAlreadyUpToDate
		}
		return WrapError(err, "failed to fetch from remote")
	}

	r.debug(ctx, "fetched", "remote", remote, "prune", prune, "depth", depth)
	return nil
}
