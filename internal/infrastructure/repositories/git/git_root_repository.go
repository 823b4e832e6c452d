package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"

	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

// RootRepository detects the work tree root with go-git, walking up from the
// given directory until a `.git` entry is found.
type RootRepository struct{}

var _ repositories.RootRepository = (*RootRepository)(nil)

// NewRootRepository creates a new git root repository.
func NewRootRepository() *RootRepository {
	return &RootRepository{}
}

// RepositoryRoot returns the work tree root enclosing dir.
func (it *RootRepository) RepositoryRoot(dir string) (string, error) {
	//nolint:exhaustruct // only DetectDotGit is relevant
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open a git repository from %s: %w", dir, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("failed to resolve the git work tree from %s: %w", dir, err)
	}
	return worktree.Filesystem.Root(), nil
}
