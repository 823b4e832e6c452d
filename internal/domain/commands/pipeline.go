package commands

import (
	"context"
	"errors"
	"slices"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/licensecache/internal/infrastructure/repositories"
)

// Command is implemented by every licensecache command.
type Command interface {
	Execute(ctx context.Context, config *entities.Configuration, opts RunOptions) (bool, error)
}

// RunOptions holds runtime options for a single command run.
type RunOptions struct {
	Reporter    repositories.Reporter
	SourceTypes []string // If set, only these source types are evaluated
	Force       bool     // cache: rewrite every record
	Licenses    bool     // list: include the detected license
}

// Evaluator is the per-dependency work of a command.
type Evaluator interface {
	EvaluateDependency(
		ctx context.Context,
		app *entities.AppConfiguration,
		source repositories.SourceRepository,
		dependency *entities.Dependency,
		report *entities.Report,
	) (bool, error)
}

// AppPreparer is optionally implemented by evaluators that contribute app-level
// report data. Returning false skips the app's sources.
type AppPreparer interface {
	PrepareApp(ctx context.Context, app *entities.AppConfiguration, report *entities.Report) (bool, error)
}

// AppFinalizer is optionally implemented by evaluators that act once every source
// of an app was evaluated. It receives the sources that were evaluated and the
// app result so far, and returns the final app result.
type AppFinalizer interface {
	FinalizeApp(
		ctx context.Context,
		app *entities.AppConfiguration,
		sources []repositories.SourceRepository,
		report *entities.Report,
		result bool,
	) (bool, error)
}

// RunFinalizer is optionally implemented by evaluators that act once every app
// was evaluated. It returns the final run result.
type RunFinalizer interface {
	FinalizeRun(ctx context.Context, report *entities.Report, result bool) (bool, error)
}

// Pipeline walks apps -> sources -> dependencies, one at a time, and reduces the
// evaluator results with a logical AND. Failures of a source or a dependency are
// recorded on the nearest report and only fail that scope; reporting protocol
// violations are returned immediately.
type Pipeline struct {
	registry *infraRepos.SourceRegistry
}

// NewPipeline creates a pipeline enumerating sources from the registry.
func NewPipeline(registry *infraRepos.SourceRegistry) *Pipeline {
	return &Pipeline{registry: registry}
}

// Run evaluates every app of the configuration under a run report named after the command.
func (it *Pipeline) Run(
	ctx context.Context,
	command string,
	config *entities.Configuration,
	opts RunOptions,
	evaluator Evaluator,
) (bool, error) {
	return opts.Reporter.ReportRun(command, func(report *entities.Report) (bool, error) {
		result := true
		for _, app := range config.Apps() {
			ok, err := it.runApp(ctx, app, opts, evaluator)
			if err != nil {
				return false, err
			}
			result = result && ok
		}

		if finalizer, ok := evaluator.(RunFinalizer); ok {
			final, err := finalizer.FinalizeRun(ctx, report, result)
			if err != nil {
				return false, recordError(report, err)
			}
			result = final
		}
		return result, nil
	})
}

func (it *Pipeline) runApp(
	ctx context.Context,
	app *entities.AppConfiguration,
	opts RunOptions,
	evaluator Evaluator,
) (bool, error) {
	return opts.Reporter.ReportApp(app, func(report *entities.Report) (bool, error) {
		if preparer, ok := evaluator.(AppPreparer); ok {
			proceed, err := preparer.PrepareApp(ctx, app, report)
			if err != nil {
				return false, recordError(report, err)
			}
			if !proceed {
				return len(report.Errors) == 0, nil
			}
		}

		sources := it.Sources(ctx, app, opts.SourceTypes)
		result := true
		for _, source := range sources {
			ok, err := it.runSource(ctx, app, source, opts, evaluator)
			if err != nil {
				return false, err
			}
			result = result && ok
		}

		if finalizer, ok := evaluator.(AppFinalizer); ok {
			final, err := finalizer.FinalizeApp(ctx, app, sources, report, result)
			if err != nil {
				return false, recordError(report, err)
			}
			result = final
		}
		return result, nil
	})
}

func (it *Pipeline) runSource(
	ctx context.Context,
	app *entities.AppConfiguration,
	source repositories.SourceRepository,
	opts RunOptions,
	evaluator Evaluator,
) (bool, error) {
	return opts.Reporter.ReportSource(source, func(report *entities.Report) (bool, error) {
		dependencies, err := source.Dependencies(ctx)
		if err != nil {
			logger.Debugf("[%s] %s: failed to enumerate dependencies: %v", app.Name(), source.Type(), err)
			return false, recordError(report, err)
		}

		result := true
		for _, dependency := range dependencies {
			ok, depErr := it.runDependency(ctx, app, source, dependency, opts, evaluator)
			if depErr != nil {
				return false, depErr
			}
			result = result && ok
		}
		return result, nil
	})
}

func (it *Pipeline) runDependency(
	ctx context.Context,
	app *entities.AppConfiguration,
	source repositories.SourceRepository,
	dependency *entities.Dependency,
	opts RunOptions,
	evaluator Evaluator,
) (bool, error) {
	return opts.Reporter.ReportDependency(dependency, func(report *entities.Report) (bool, error) {
		if dependency.HasErrors() {
			report.AddError(dependency.Errors...)
			return false, nil
		}

		ok, err := evaluator.EvaluateDependency(ctx, app, source, dependency, report)
		if err != nil {
			return false, recordError(report, err)
		}
		return ok, nil
	})
}

// Sources returns the app's enabled sources that detect their package manager,
// restricted to the given types when any are set.
func (it *Pipeline) Sources(
	ctx context.Context,
	app *entities.AppConfiguration,
	types []string,
) []repositories.SourceRepository {
	var result []repositories.SourceRepository
	for _, source := range it.registry.SourcesFor(app) {
		if len(types) > 0 && !slices.Contains(types, source.Type()) {
			continue
		}
		if !source.Enabled(ctx) {
			logger.Debugf("[%s] %s: not detected in %s", app.Name(), source.Type(), app.SourcePath())
			continue
		}
		result = append(result, source)
	}
	return result
}

// recordError records a recoverable error on the report. Protocol violations are
// returned so that they abort the run.
func recordError(report *entities.Report, err error) error {
	if errors.Is(err, entities.ErrReportProtocol) {
		return err
	}
	report.AddError(err.Error())
	return nil
}
