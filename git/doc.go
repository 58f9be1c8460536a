// Package git is a small facade over go-git that runs every repository on the
// filesystem shim and, optionally, sends smart-HTTP traffic through the HTTP
// shim.
//
// All repository state lives in a *fs.FS, so the same code works on disk and
// in memory:
//
//	fsys := billy.NewInMemoryFS()
//	repo, err := git.Init(ctx, &git.Options{FS: fsys})
//
//	// Clone through the HTTP shim.
//	repo, err = git.Clone(ctx, "https://github.com/org/repo.git", &git.Options{
//	    FS:           fsys,
//	    Workdir:      "checkout",
//	    ShallowDepth: 1,
//	    HTTP:         http.NewClient(),
//	    Auth:         git.NewTokenAuth(token, "github.com"),
//	})
//
// # Making Commits
//
//	err = repo.Add(ctx, "*.go", "README.md")
//	sha, err := repo.Commit(ctx, "feat: add new feature", git.Signature{
//	    Name:  "Jane Doe",
//	    Email: "jane@example.com",
//	    When:  time.Now(),
//	}, git.CommitOpts{})
//
// # Status
//
// Status compares HEAD, the index and the worktree for one path and reports
// it as a FileStatus: "unmodified", "*modified", "added", "*undeleted" and
// so on. A leading "*" means the worktree differs from the index.
// Status(ctx, ".") summarises the whole worktree. Options.GlobalExcludes adds
// the user's $XDG_CONFIG_HOME/git/ignore to the ignore rules.
//
// # Errors
//
// Failures wrap the sentinels in errors.go and can be tested with errors.Is.
// Fetch reports a no-op as ErrAlreadyUpToDate.
//
// # Transport registry
//
// go-git keeps one process-wide transport per URL scheme. Setting
// Options.HTTP installs the HTTP shim for http and https for every
// repository in the process.
package git
