package git

import (
	"context"
	"testing"

	"github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billyfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs/billy"
	shimhttp "github.com/input-output-hk/catalyst-forge-libs/gitshim/http"
)

// TestFetch_Errors covers remotes that cannot be fetched from.
func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name    string
		remote  string
		depth   int
		wantErr error
	}{
		{name: "non-existent remote", remote: "nonexistent", wantErr: ErrResolveFailed},
		{name: "empty remote uses origin", remote: "", wantErr: ErrResolveFailed},
		{name: "negative depth", remote: "origin", depth: -1, wantErr: ErrInvalidRef},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := setupTestRepo(t, false)
			err := tr.repo.Fetch(tr.ctx, tt.remote, false, tt.depth)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFetch_AuthFailure(t *testing.T) {
	tr := setupTestRepo(t, false)
	_, err := tr.repo.repo.CreateRemote(&config.RemoteConfig{
		Name: DefaultRemoteName,
		URLs: []string{"ssh://git@example.com/repo.git"},
	})
	require.NoError(t, err)
	tr.repo.options.Auth = NewBasicAuth("user", "pass")

	err = tr.repo.Fetch(tr.ctx, "", false, 0)
	assert.ErrorIs(t, err, ErrAuthRequired)
}

func TestFetch_OverHTTPShim(t *testing.T) {
	src := setupTestRepoWithCommit(t)
	url := newSmartHTTPServer(t, src.repo.repo.Storer)

	ctx := context.Background()
	repo, err := Clone(ctx, url, &Options{
		FS:   billyfs.NewInMemoryFS(),
		HTTP: shimhttp.NewClient(),
	})
	require.NoError(t, err)

	err = repo.Fetch(ctx, "", false, 0)
	require.ErrorIs(t, err, ErrAlreadyUpToDate)

	next := src.commitFiles(t, "feat: second", map[string]string{"second.txt": "2"})

	require.NoError(t, repo.Fetch(ctx, DefaultRemoteName, true, 0))

	ref, err := repo.repo.Reference("refs/remotes/origin/master", true)
	require.NoError(t, err)
	assert.Equal(t, next, ref.Hash().String())

	err = repo.Fetch(ctx, DefaultRemoteName, false, 0)
	assert.ErrorIs(t, err, ErrAlreadyUpToDate)
}
