// Package vcs implements the modified-file tracker on top of the local git
// worktree.
package vcs

import (
	"context"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"go.trai.ch/fastbuild/internal/core/domain"
	"go.trai.ch/fastbuild/internal/core/ports"
	"go.trai.ch/zerr"
)

// Tracker reports files modified relative to HEAD, including untracked
// files. The status walk is synchronous and may take a while on large
// worktrees; callers block on it by design.
type Tracker struct {
	root string
}

var _ ports.ModifiedFileTracker = (*Tracker)(nil)

// NewTracker creates a Tracker for the worktree containing root.
func NewTracker(root string) *Tracker {
	return &Tracker{root: root}
}

// ModifiedFiles returns the set of locally changed files as absolute paths.
func (t *Tracker) ModifiedFiles(ctx context.Context) (domain.FileSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(t.root, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrModifiedFileQuery.Error())
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrModifiedFileQuery.Error())
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrModifiedFileQuery.Error())
	}

	worktreeRoot := worktree.Filesystem.Root()
	set := make(domain.FileSet, len(status))
	for path, fileStatus := range status {
		if fileStatus.Worktree == git.Unmodified && fileStatus.Staging == git.Unmodified {
			continue
		}
		set[filepath.Join(worktreeRoot, path)] = struct{}{}
	}
	return set, nil
}
