package reports

import (
	"fmt"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

// Listener receives report lifecycle events. Renderers implement it to stream
// progress or serialize the finished tree; the nesting bookkeeping stays in Reporter.
type Listener interface {
	// BeginReport is called when a report opens, before its scope runs.
	BeginReport(report *entities.Report)
	// EndReport is called once the scope finished and the report is attached to its parent.
	EndReport(report *entities.Report)
}

// Reporter enforces the run -> app -> source -> dependency nesting with an
// explicit stack of open reports.
type Reporter struct {
	listener Listener
	stack    []*entities.Report
	last     *entities.Report
}

var _ repositories.Reporter = (*Reporter)(nil)

// NewReporter creates a reporter forwarding lifecycle events to listener.
func NewReporter(listener Listener) *Reporter {
	if listener == nil {
		listener = NopListener{}
	}
	return &Reporter{listener: listener}
}

// ReportRun opens the root report.
func (it *Reporter) ReportRun(command string, fn repositories.ReportFunc) (bool, error) {
	if len(it.stack) > 0 {
		return false, fmt.Errorf("%w: cannot start a run report while a %s report is open",
			entities.ErrReportProtocol, it.top().Kind)
	}
	report := entities.NewReport(command, entities.RunReport, nil)
	it.last = report
	return it.open(report, fn)
}

// ReportApp opens an app report under the open run report.
func (it *Reporter) ReportApp(app *entities.AppConfiguration, fn repositories.ReportFunc) (bool, error) {
	if err := it.expect(entities.RunReport, entities.AppReport); err != nil {
		return false, err
	}
	return it.open(entities.NewReport(app.Name(), entities.AppReport, app), fn)
}

// ReportSource opens a source report under the open app report.
func (it *Reporter) ReportSource(source repositories.SourceRepository, fn repositories.ReportFunc) (bool, error) {
	if err := it.expect(entities.AppReport, entities.SourceReport); err != nil {
		return false, err
	}
	return it.open(entities.NewReport(source.Type(), entities.SourceReport, source), fn)
}

// ReportDependency opens a dependency report under the open source report.
func (it *Reporter) ReportDependency(dependency *entities.Dependency, fn repositories.ReportFunc) (bool, error) {
	if err := it.expect(entities.SourceReport, entities.DependencyReport); err != nil {
		return false, err
	}
	return it.open(entities.NewReport(dependency.Name, entities.DependencyReport, dependency), fn)
}

// LastRun returns the most recently opened run report.
func (it *Reporter) LastRun() *entities.Report { return it.last }

func (it *Reporter) expect(parent, child entities.ReportKind) error {
	top := it.top()
	if top == nil {
		return fmt.Errorf("%w: cannot open a %s report without an open %s report",
			entities.ErrReportProtocol, child, parent)
	}
	if top.Kind != parent {
		return fmt.Errorf("%w: cannot open a %s report while a %s report is open",
			entities.ErrReportProtocol, child, top.Kind)
	}
	return nil
}

// open runs fn inside report; the report is closed and attached on every exit path.
func (it *Reporter) open(report *entities.Report, fn repositories.ReportFunc) (bool, error) {
	parent := it.top()
	it.stack = append(it.stack, report)
	it.listener.BeginReport(report)

	defer func() {
		it.stack = it.stack[:len(it.stack)-1]
		if parent != nil {
			parent.Append(report)
		}
		it.listener.EndReport(report)
	}()

	return fn(report)
}

func (it *Reporter) top() *entities.Report {
	if len(it.stack) == 0 {
		return nil
	}
	return it.stack[len(it.stack)-1]
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) BeginReport(*entities.Report) {}
func (NopListener) EndReport(*entities.Report)   {}

// MultiListener fans events out to several listeners in order.
type MultiListener []Listener

func (m MultiListener) BeginReport(report *entities.Report) {
	for _, listener := range m {
		listener.BeginReport(report)
	}
}

func (m MultiListener) EndReport(report *entities.Report) {
	for _, listener := range m {
		listener.EndReport(report)
	}
}
