package repositories

import (
	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// ReportFunc runs inside an open report and returns the scope's result.
type ReportFunc func(report *entities.Report) (bool, error)

// Reporter opens nested reports in the run -> app -> source -> dependency order.
// Opening a report out of order returns an error wrapping entities.ErrReportProtocol.
type Reporter interface {
	ReportRun(command string, fn ReportFunc) (bool, error)
	ReportApp(app *entities.AppConfiguration, fn ReportFunc) (bool, error)
	ReportSource(source SourceRepository, fn ReportFunc) (bool, error)
	ReportDependency(dependency *entities.Dependency, fn ReportFunc) (bool, error)
}
