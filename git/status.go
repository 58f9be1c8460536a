package git

import (
	"context"
	"errors"
	"path"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"

	shimerrors "github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
)

// FileStatus describes one path across HEAD, the index and the worktree.
// A leading "*" marks a worktree that differs from the index.
type FileStatus string

const (
	StatusUnmodified       FileStatus = "unmodified"
	StatusModified         FileStatus = "modified"
	StatusAdded            FileStatus = "added"
	StatusDeleted          FileStatus = "deleted"
	StatusAbsent           FileStatus = "absent"
	StatusIgnored          FileStatus = "ignored"
	StatusUnstagedModified FileStatus = "*modified"
	StatusUnstagedDeleted  FileStatus = "*deleted"
	StatusUnstagedAdded    FileStatus = "*added"
	StatusUnstagedAbsent   FileStatus = "*absent"
	StatusUnstagedRevert   FileStatus = "*unmodified"
	StatusUndeleted        FileStatus = "*undeleted"
	StatusUndeleteModified FileStatus = "*undeletemodified"
)

// Status reports the state of a single file relative to the worktree root.
// An empty path or "." summarises the whole worktree: StatusUnmodified when
// it is clean and StatusUnstagedModified otherwise.
func (r *Repo) Status(ctx context.Context, file string) (FileStatus, error) {
	if r.worktree == nil {
		return "", WrapError(ErrInvalidRef, "cannot compute status in bare repository")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if file == "" || file == "." {
		return r.summary()
	}

	rel := path.Clean(strings.TrimPrefix(file, "./"))
	if path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", WrapErrorf(ErrInvalidRef, "path %q is outside the worktree", file)
	}

	head, err := r.headOID(rel)
	if err != nil {
		return "", err
	}
	staged, err := r.indexOID(rel)
	if err != nil {
		return "", err
	}
	work, isDir, err := r.workdirOID(ctx, rel)
	if err != nil {
		return "", err
	}

	if head == nil && staged == nil && (work != nil || isDir) {
		ignored, err := r.ignored(ctx, rel, isDir)
		if err != nil {
			return "", err
		}
		if ignored {
			return StatusIgnored, nil
		}
	}

	return classify(head, staged, work), nil
}

// classify maps the presence and equality of the three object ids to a
// status. A nil id means the path is absent from that tree.
func classify(head, staged, work *plumbing.Hash) FileStatus {
	h, i, w := head != nil, staged != nil, work != nil
	switch {
	case !h && !w && !i:
		return StatusAbsent
	case !h && !w && i:
		return StatusUnstagedAbsent
	case !h && w && !i:
		return StatusUnstagedAdded
	case !h && w && i:
		if *work == *staged {
			return StatusAdded
		}
		return StatusUnstagedAdded
	case h && !w && !i:
		return StatusDeleted
	case h && !w && i:
		return StatusUnstagedDeleted
	case h && w && !i:
		if *work == *head {
			return StatusUndeleted
		}
		return StatusUndeleteModified
	}

	switch {
	case *work == *head && *work == *staged:
		return StatusUnmodified
	case *work == *head:
		return StatusUnstagedRevert
	case *work == *staged:
		return StatusModified
	default:
		return StatusUnstagedModified
	}
}

func (r *Repo) summary() (FileStatus, error) {
	st, err := r.worktree.Status()
	if err != nil {
		return "", WrapError(err, "failed to get worktree status")
	}
	if st.IsClean() {
		return StatusUnmodified, nil
	}
	return StatusUnstagedModified, nil
}

// headOID returns the blob id of rel in the HEAD commit, or nil.
func (r *Repo) headOID(rel string) (*plumbing.Hash, error) {
	ref, err := r.repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapError(err, "failed to resolve HEAD")
	}

	commit, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, WrapError(err, "failed to read HEAD commit")
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, WrapError(err, "failed to read HEAD tree")
	}

	entry, err := tree.FindEntry(rel)
	switch {
	case errors.Is(err, object.ErrEntryNotFound),
		errors.Is(err, object.ErrDirectoryNotFound),
		errors.Is(err, plumbing.ErrObjectNotFound):
		return nil, nil
	case err != nil:
		return nil, WrapErrorf(err, "failed to look up %q in HEAD", rel)
	}
	if !entry.Mode.IsFile() {
		return nil, nil
	}
	return &entry.Hash, nil
}

// indexOID returns the staged blob id of rel, or nil.
func (r *Repo) indexOID(rel string) (*plumbing.Hash, error) {
	idx, err := r.repo.Storer.Index()
	if err != nil {
		return nil, WrapError(err, "failed to read index")
	}
	entry, err := idx.Entry(rel)
	if errors.Is(err, index.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, WrapErrorf(err, "failed to look up %q in index", rel)
	}
	return &entry.Hash, nil
}

// workdirOID hashes rel as it exists in the worktree, reading through the
// filesystem shim. Directories have no id but are reported through isDir.
func (r *Repo) workdirOID(ctx context.Context, rel string) (*plumbing.Hash, bool, error) {
	full := path.Join(r.options.Workdir, rel)

	st, err := r.fs.Lstat(ctx, full)
	if shimerrors.IsCode(err, shimerrors.CodeNotFound) || shimerrors.IsCode(err, shimerrors.CodeNotDirectory) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, WrapErrorf(err, "failed to stat %q", rel)
	}

	var data []byte
	switch {
	case st.IsDirectory():
		return nil, true, nil
	case st.IsSymbolicLink():
		target, err := r.fs.Readlink(ctx, full)
		if err != nil {
			return nil, false, WrapErrorf(err, "failed to read link %q", rel)
		}
		data = []byte(target)
	default:
		content, err := r.fs.ReadFile(ctx, full, nil)
		if err != nil {
			return nil, false, WrapErrorf(err, "failed to read %q", rel)
		}
		data = content.Bytes()
	}

	oid := plumbing.ComputeHash(plumbing.BlobObject, data)
	return &oid, false, nil
}

// ignored applies .git/info/exclude, every .gitignore in the worktree, the
// worktree's extra excludes and, when enabled, the global excludes to rel.
func (r *Repo) ignored(ctx context.Context, rel string, isDir bool) (bool, error) {
	wfs, err := r.workdirFS(ctx)
	if err != nil {
		return false, err
	}
	patterns, err := gitignore.ReadPatterns(wfs, nil)
	if err != nil {
		return false, WrapError(err, "failed to read ignore patterns")
	}
	patterns = append(patterns, r.worktree.Excludes...)
	if r.options.GlobalExcludes {
		global, err := globalExcludes(ctx)
		if err != nil {
			return false, err
		}
		patterns = append(global, patterns...)
	}
	if len(patterns) == 0 {
		return false, nil
	}
	return gitignore.NewMatcher(patterns).Match(strings.Split(rel, "/"), isDir), nil
}
