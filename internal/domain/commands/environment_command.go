package commands

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const commandEnvironment = "environment"

// EnvironmentCommand reports the resolved settings of every app without
// enumerating dependencies.
type EnvironmentCommand struct {
	pipeline *Pipeline
}

// NewEnvironmentCommand creates a new EnvironmentCommand.
func NewEnvironmentCommand(pipeline *Pipeline) *EnvironmentCommand {
	return &EnvironmentCommand{pipeline: pipeline}
}

// Execute reports every app's configuration.
func (it *EnvironmentCommand) Execute(
	ctx context.Context,
	config *entities.Configuration,
	opts RunOptions,
) (bool, error) {
	return it.pipeline.Run(ctx, commandEnvironment, config, opts, &environmentRun{
		pipeline: it.pipeline,
		opts:     opts,
	})
}

type environmentRun struct {
	pipeline *Pipeline
	opts     RunOptions
}

// PrepareApp fills the app report and stops before the sources are enumerated.
func (it *environmentRun) PrepareApp(
	ctx context.Context,
	app *entities.AppConfiguration,
	report *entities.Report,
) (bool, error) {
	sources := it.pipeline.Sources(ctx, app, it.opts.SourceTypes)
	types := make([]string, 0, len(sources))
	for _, source := range sources {
		types = append(types, source.Type())
	}

	report.Set("name", app.Name())
	report.Set("root", app.Root())
	report.Set("source_path", app.SourcePath())
	report.Set("cache_path", app.CachePath())
	report.Set("shared_cache", app.SharedCache())
	report.Set("sources", types)
	report.Set("allowed", app.AllowedLicenses())
	return false, nil
}

func (it *environmentRun) EvaluateDependency(
	context.Context,
	*entities.AppConfiguration,
	repositories.SourceRepository,
	*entities.Dependency,
	*entities.Report,
) (bool, error) {
	return true, nil
}
