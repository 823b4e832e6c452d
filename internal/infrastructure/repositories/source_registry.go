package repositories

import (
	"context"
	"sort"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	domainRepos "github.com/rios0rios0/licensecache/internal/domain/repositories"
)

// SourceRegistry maps source types to the factories creating them.
type SourceRegistry struct {
	factories map[string]domainRepos.SourceFactory
}

// NewSourceRegistry creates an empty source registry.
func NewSourceRegistry() *SourceRegistry {
	return &SourceRegistry{
		factories: make(map[string]domainRepos.SourceFactory),
	}
}

// Register adds a source factory under the given type (e.g. "go").
func (r *SourceRegistry) Register(sourceType string, factory domainRepos.SourceFactory) {
	r.factories[sourceType] = factory
}

// Get returns the factory registered for the type, or nil if not registered.
func (r *SourceRegistry) Get(sourceType string) domainRepos.SourceFactory {
	return r.factories[sourceType]
}

// Types returns the registered source types, sorted.
func (r *SourceRegistry) Types() []string {
	types := make([]string, 0, len(r.factories))
	for sourceType := range r.factories {
		types = append(types, sourceType)
	}
	sort.Strings(types)
	return types
}

// SourcesFor creates the sources enabled by the app configuration, sorted by type.
// The returned sources exclude the app's ignored dependencies, sort them by name,
// and enumerate them at most once.
func (r *SourceRegistry) SourcesFor(app *entities.AppConfiguration) []domainRepos.SourceRepository {
	var sources []domainRepos.SourceRepository
	for _, sourceType := range r.Types() {
		if !app.Enabled(sourceType) {
			continue
		}
		sources = append(sources, &appSource{
			source: r.factories[sourceType](app),
			app:    app,
		})
	}
	return sources
}

// appSource applies the app's ignore list to a source.
type appSource struct {
	source domainRepos.SourceRepository
	app    *entities.AppConfiguration

	once         sync.Once
	dependencies []*entities.Dependency
	err          error
}

var _ domainRepos.SourceRepository = (*appSource)(nil)

func (s *appSource) Type() string { return s.source.Type() }

func (s *appSource) Enabled(ctx context.Context) bool { return s.source.Enabled(ctx) }

func (s *appSource) Dependencies(ctx context.Context) ([]*entities.Dependency, error) {
	s.once.Do(func() {
		all, err := s.source.Dependencies(ctx)
		if err != nil {
			s.err = err
			return
		}

		s.dependencies = make([]*entities.Dependency, 0, len(all))
		for _, dependency := range all {
			if dependency.Type == "" {
				dependency.Type = s.source.Type()
			}
			if s.app.Ignored(dependency.Identity()) {
				logger.Debugf("[%s] %s: ignoring %s", s.app.Name(), s.Type(), dependency.Name)
				continue
			}
			s.dependencies = append(s.dependencies, dependency)
		}
		sort.SliceStable(s.dependencies, func(i, j int) bool {
			return s.dependencies[i].Name < s.dependencies[j].Name
		})
	})
	return s.dependencies, s.err
}
