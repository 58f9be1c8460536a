package git

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/pktline"
	"github.com/go-git/go-git/v5/plumbing/protocol/packp"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/go-git/go-git/v5/plumbing/transport"
	gitclient "github.com/go-git/go-git/v5/plumbing/transport/client"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/server"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/gitshim/fs"
	fsb "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs/billy"
)

// testRepo is a helper struct that contains a test repository and its filesystem
type testRepo struct {
	repo *Repo
	fs   *fs.FS
	ctx  context.Context
}

var testSignature = Signature{
	Name:  "Test User",
	Email: "test@example.com",
	When:  time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
}

// setupTestRepo creates a new test repository with an in-memory filesystem
func setupTestRepo(t *testing.T, bare bool) *testRepo {
	t.Helper()

	ctx := context.Background()
	memFS := fsb.NewInMemoryFS()

	repo, err := Init(ctx, &Options{
		FS:      memFS,
		Bare:    bare,
		Workdir: ".",
	})
	require.NoError(t, err, "failed to initialize test repository")
	require.NotNil(t, repo, "repository should not be nil")

	return &testRepo{
		repo: repo,
		fs:   memFS,
		ctx:  ctx,
	}
}

// setupTestRepoWithCommit creates a test repository with test.txt committed.
func setupTestRepoWithCommit(t *testing.T) *testRepo {
	t.Helper()

	tr := setupTestRepo(t, false)
	tr.commitFiles(t, "Initial commit", map[string]string{"test.txt": "initial content"})
	return tr
}

// writeFile writes content to name through the filesystem shim, creating
// parent directories.
func (tr *testRepo) writeFile(t *testing.T, name, content string) {
	t.Helper()

	if dir := path.Dir(name); dir != "." {
		require.NoError(t, tr.fs.Mkdir(tr.ctx, dir, &fs.MkdirOptions{Recursive: true}))
	}
	require.NoError(t, tr.fs.WriteFile(tr.ctx, name, content, nil), "failed to write %s", name)
}

// commitFiles writes, stages and commits files, returning the commit hash.
func (tr *testRepo) commitFiles(t *testing.T, msg string, files map[string]string) string {
	t.Helper()

	paths := make([]string, 0, len(files))
	for name, content := range files {
		tr.writeFile(t, name, content)
		paths = append(paths, name)
	}
	require.NoError(t, tr.repo.Add(tr.ctx, paths...))

	hash, err := tr.repo.Commit(tr.ctx, msg, testSignature, CommitOpts{})
	require.NoError(t, err, "failed to commit")
	return hash
}

// staticLoader serves one storer for every endpoint.
type staticLoader struct {
	st storer.Storer
}

func (l staticLoader) Load(*transport.Endpoint) (storer.Storer, error) {
	return l.st, nil
}

// newSmartHTTPServer serves st read-only over git's smart HTTP protocol at
// <url>/repo.git. <url>/old.git/info/refs permanently redirects there.
// go-git's http transport is restored when the test ends.
func newSmartHTTPServer(t *testing.T, st storer.Storer) string {
	t.Helper()

	t.Cleanup(func() {
		gitclient.InstallProtocol("http", githttp.DefaultClient)
		gitclient.InstallProtocol("https", githttp.DefaultClient)
	})

	srv := server.NewServer(staticLoader{st: st})
	ep, err := transport.NewEndpoint("http://localhost/repo.git")
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.HandleFunc("/old.git/info/refs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/repo.git/info/refs?"+r.URL.RawQuery, http.StatusMovedPermanently)
	})
	mux.HandleFunc("/repo.git/info/refs", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("service") != transport.UploadPackServiceName {
			http.Error(w, "only upload-pack is served", http.StatusForbidden)
			return
		}
		sess, err := srv.NewUploadPackSession(ep, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		ar, err := sess.AdvertisedReferencesContext(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		ar.Prefix = [][]byte{[]byte("# service=" + transport.UploadPackServiceName), pktline.Flush}
		w.Header().Set("Content-Type", "application/x-git-upload-pack-advertisement")
		_ = ar.Encode(w)
	})
	mux.HandleFunc("/repo.git/"+transport.UploadPackServiceName, func(w http.ResponseWriter, r *http.Request) {
		req := packp.NewUploadPackRequest()
		if err := req.UploadRequest.Decode(r.Body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		sc := pktline.NewScanner(r.Body)
		for sc.Scan() {
			line := bytes.TrimSuffix(sc.Bytes(), []byte("\n"))
			if string(line) == "done" {
				break
			}
			if hash, ok := bytes.CutPrefix(line, []byte("have ")); ok {
				req.Haves = append(req.Haves, plumbing.NewHash(string(hash)))
			}
		}

		sess, err := srv.NewUploadPackSession(ep, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp, err := sess.UploadPack(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/x-git-upload-pack-result")
		_ = resp.Encode(w)
	})

	hs := httptest.NewServer(mux)
	t.Cleanup(hs.Close)
	return hs.URL + "/repo.git"
}
