//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"errors"

	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

// StubRootRepository implements repositories.RootRepository with a fixed answer.
type StubRootRepository struct {
	Root string // empty means "not a repository"
}

var _ repositories.RootRepository = (*StubRootRepository)(nil)

func (s *StubRootRepository) RepositoryRoot(_ string) (string, error) {
	if s.Root == "" {
		return "", errors.New("repository does not exist")
	}
	return s.Root, nil
}
