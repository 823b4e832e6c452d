//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

// StubSourceRepository implements repositories.SourceRepository with canned dependencies.
type StubSourceRepository struct {
	// --- identity ---
	SourceType string

	// --- Enabled ---
	Undetected bool

	// --- Dependencies ---
	Deps              []*entities.Dependency
	DependenciesErr   error
	DependenciesCalls int
}

var _ repositories.SourceRepository = (*StubSourceRepository)(nil)

func (s *StubSourceRepository) Type() string { return s.SourceType }

func (s *StubSourceRepository) Enabled(_ context.Context) bool { return !s.Undetected }

func (s *StubSourceRepository) Dependencies(_ context.Context) ([]*entities.Dependency, error) {
	s.DependenciesCalls++
	if s.DependenciesErr != nil {
		return nil, s.DependenciesErr
	}
	result := make([]*entities.Dependency, 0, len(s.Deps))
	for _, dependency := range s.Deps {
		clone := *dependency
		result = append(result, &clone)
	}
	return result, nil
}

// Factory returns a factory handing out this stub for every app.
func (s *StubSourceRepository) Factory() repositories.SourceFactory {
	return func(_ *entities.AppConfiguration) repositories.SourceRepository { return s }
}

// StubSourcesByApp returns a factory handing out a stub per app name, or an empty source.
func StubSourcesByApp(sourceType string, byApp map[string]*StubSourceRepository) repositories.SourceFactory {
	return func(app *entities.AppConfiguration) repositories.SourceRepository {
		if stub, ok := byApp[app.Name()]; ok {
			return stub
		}
		return &StubSourceRepository{SourceType: sourceType}
	}
}
