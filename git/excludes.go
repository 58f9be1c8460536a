package git

import (
	"bufio"
	"bytes"
	"context"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	shimerrors "github.com/input-output-hk/catalyst-forge-libs/gitshim/errors"
	billyfs "github.com/input-output-hk/catalyst-forge-libs/gitshim/fs/billy"
)

// globalExcludesFile is git's default core.excludesFile location.
func globalExcludesFile() string {
	return filepath.Join(xdg.ConfigHome, "git", "ignore")
}

// globalExcludes reads the user's global ignore file from the host
// filesystem. A missing file yields no patterns.
func globalExcludes(ctx context.Context) ([]gitignore.Pattern, error) {
	file := globalExcludesFile()
	content, err := billyfs.NewBaseOSFS().ReadFile(ctx, file, nil)
	if err != nil {
		if shimerrors.IsCode(err, shimerrors.CodeNotFound) || shimerrors.IsCode(err, shimerrors.CodeNotDirectory) {
			return nil, nil
		}
		return nil, WrapErrorf(err, "failed to read global excludes %q", file)
	}

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(content.Bytes()))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}
	return patterns, nil
}
