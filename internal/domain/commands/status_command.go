package commands

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const (
	commandStatus = "status"

	errRecordNotFound       = "cached dependency record not found"
	errRecordOutOfDate      = "cached dependency record out of date"
	errMissingLicenseText   = "missing license text"
	errLicenseNeedsReview   = "license needs review: "
	errLicenseChangedReview = "license text has changed and needs re-review. " +
		"if the new text is ok, remove the `review_changed_license` flag from the cached record"
)

// StatusCommand checks the cached records against the live dependencies and the
// app's allowed and reviewed lists.
type StatusCommand struct {
	pipeline *Pipeline
	records  repositories.RecordRepository
}

// NewStatusCommand creates a new StatusCommand.
func NewStatusCommand(pipeline *Pipeline, records repositories.RecordRepository) *StatusCommand {
	return &StatusCommand{pipeline: pipeline, records: records}
}

// Execute returns true when every dependency has an up to date, acceptable record.
func (it *StatusCommand) Execute(
	ctx context.Context,
	config *entities.Configuration,
	opts RunOptions,
) (bool, error) {
	return it.pipeline.Run(ctx, commandStatus, config, opts, it)
}

// EvaluateDependency appends an error for every problem found with the cached record.
func (it *StatusCommand) EvaluateDependency(
	_ context.Context,
	app *entities.AppConfiguration,
	source repositories.SourceRepository,
	dependency *entities.Dependency,
	report *entities.Report,
) (bool, error) {
	filename := app.CacheFilePath(source.Type(), dependency.Name)
	report.Set("filename", filename)
	report.Set("version", dependency.Version)

	cached, err := it.records.Read(filename)
	if err != nil {
		return false, err
	}

	if cached == nil {
		report.Set("license", nil)
		report.AddError(errRecordNotFound)
		return false, nil
	}

	report.Set("license", cached.License())
	if cached.Version() != dependency.Version {
		report.AddError(errRecordOutOfDate)
	}
	if !cached.HasLicenseText() {
		report.AddError(errMissingLicenseText)
	}

	identity := entities.DependencyIdentity{
		Type:    source.Type(),
		Name:    dependency.Name,
		Version: cached.Version(),
	}
	switch {
	case cached.ReviewChangedLicense():
		report.AddError(errLicenseChangedReview)
	case !app.Allowed(cached.License()) && !app.Reviewed(identity):
		report.AddError(errLicenseNeedsReview + cached.License())
	}

	return len(report.Errors) == 0, nil
}
