package commands

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const commandList = "list"

// ListCommand enumerates the dependencies of every app without touching the cache.
type ListCommand struct {
	pipeline *Pipeline
	licenses repositories.LicenseRepository
}

// NewListCommand creates a new ListCommand.
func NewListCommand(pipeline *Pipeline, licenses repositories.LicenseRepository) *ListCommand {
	return &ListCommand{pipeline: pipeline, licenses: licenses}
}

// Execute lists every dependency of every app.
func (it *ListCommand) Execute(
	ctx context.Context,
	config *entities.Configuration,
	opts RunOptions,
) (bool, error) {
	return it.pipeline.Run(ctx, commandList, config, opts, &listRun{licenses: it.licenses, opts: opts})
}

type listRun struct {
	licenses repositories.LicenseRepository
	opts     RunOptions
}

func (it *listRun) EvaluateDependency(
	ctx context.Context,
	_ *entities.AppConfiguration,
	_ repositories.SourceRepository,
	dependency *entities.Dependency,
	report *entities.Report,
) (bool, error) {
	report.Set("version", dependency.Version)
	if !it.opts.Licenses {
		return true, nil
	}

	record, err := it.licenses.Record(ctx, dependency)
	if err != nil {
		report.AddWarning(err.Error())
		return true, nil
	}
	if record != nil {
		report.Set("license", record.License())
	}
	return true, nil
}
