package commands

import (
	"context"
	"fmt"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const commandNotices = "notices"

// NoticesCommand loads the cached records so that reporters can render the
// license and notice texts of every dependency.
type NoticesCommand struct {
	pipeline *Pipeline
	records  repositories.RecordRepository
}

// NewNoticesCommand creates a new NoticesCommand.
func NewNoticesCommand(pipeline *Pipeline, records repositories.RecordRepository) *NoticesCommand {
	return &NoticesCommand{pipeline: pipeline, records: records}
}

// Execute loads the cached record of every dependency of every app.
func (it *NoticesCommand) Execute(
	ctx context.Context,
	config *entities.Configuration,
	opts RunOptions,
) (bool, error) {
	return it.pipeline.Run(ctx, commandNotices, config, opts, it)
}

// EvaluateDependency stores the cached record in the report, warning when it is missing.
func (it *NoticesCommand) EvaluateDependency(
	_ context.Context,
	app *entities.AppConfiguration,
	source repositories.SourceRepository,
	dependency *entities.Dependency,
	report *entities.Report,
) (bool, error) {
	filename := app.CacheFilePath(source.Type(), dependency.Name)
	cached, err := it.records.Read(filename)
	if err != nil {
		return false, err
	}
	if cached == nil {
		report.AddWarning(fmt.Sprintf("expected cached record not found at %s", filename))
		return true, nil
	}

	report.Set(entities.ReportKeyCachedRecord, cached)
	return true, nil
}
