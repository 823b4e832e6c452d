//go:build unit

package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/reports"
	infraRepos "github.com/rios0rios0/licensecache/internal/infrastructure/repositories"
	"github.com/rios0rios0/licensecache/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/licensecache/test/infrastructure/repositorydoubles"
)

const testSource = "test"

// fixture wires a pipeline over a temporary repository with in-memory collaborators.
type fixture struct {
	root     string
	registry *infraRepos.SourceRegistry
	records  *doubles.InMemoryRecordRepository
	licenses *doubles.StubLicenseRepository
	pipeline *commands.Pipeline
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	registry := infraRepos.NewSourceRegistry()
	return &fixture{
		root:     t.TempDir(),
		registry: registry,
		records:  doubles.NewInMemoryRecordRepository(),
		licenses: &doubles.StubLicenseRepository{},
		pipeline: commands.NewPipeline(registry),
	}
}

func (f *fixture) config(t *testing.T, options entities.Options) *entities.Configuration {
	t.Helper()
	if options == nil {
		options = entities.Options{"name": "app"}
	}
	config, err := entities.NewConfiguration(options, entities.LoadOptions{WorkingDir: f.root, RepositoryRoot: f.root})
	require.NoError(t, err)
	return config
}

// dependency returns a dependency whose files exist on disk.
func (f *fixture) dependency(t *testing.T, name, version string) *entities.Dependency {
	t.Helper()
	path := filepath.Join(f.root, "deps", name)
	require.NoError(t, os.MkdirAll(path, 0o755))
	return entitybuilders.NewDependencyBuilder().
		WithName(name).
		WithVersion(version).
		WithType(testSource).
		WithPath(path).
		BuildDependency()
}

func (f *fixture) cache() *commands.CacheCommand {
	return commands.NewCacheCommand(f.pipeline, f.records, f.licenses)
}

func (f *fixture) status() *commands.StatusCommand {
	return commands.NewStatusCommand(f.pipeline, f.records)
}

// cachedRecord stores a record for the dependency in the app's cache.
func (f *fixture) cachedRecord(
	app *entities.AppConfiguration,
	name string,
	metadata map[string]any,
	text string,
) string {
	path := app.CacheFilePath(testSource, name)
	base := map[string]any{
		entities.MetadataName: name,
		entities.MetadataType: testSource,
	}
	for key, value := range metadata {
		base[key] = value
	}
	f.records.Files[path] = entities.NewDependencyRecord(base, []entities.LicenseText{{Sources: "LICENSE", Text: text}}, nil)
	return path
}

func runOptions() (commands.RunOptions, *reports.Reporter) {
	reporter := reports.NewReporter(nil)
	return commands.RunOptions{Reporter: reporter}, reporter
}

// dependencyReports returns the dependency reports of the last run keyed by name.
func dependencyReports(reporter *reports.Reporter) map[string]*entities.Report {
	result := map[string]*entities.Report{}
	reporter.LastRun().Walk(func(report *entities.Report, _ []*entities.Report) {
		if report.Kind == entities.DependencyReport {
			result[report.Name] = report
		}
	})
	return result
}
