//go:build unit

package reports_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/reports"
	"github.com/rios0rios0/licensecache/test/domain/entitybuilders"
	"github.com/rios0rios0/licensecache/test/domain/reportdoubles"
	doubles "github.com/rios0rios0/licensecache/test/infrastructure/repositorydoubles"
)

func testApp(t *testing.T) *entities.AppConfiguration {
	t.Helper()
	app, err := entitybuilders.NewAppConfigurationBuilder(filepath.Join(t.TempDir(), "repo")).
		WithName("app").
		BuildApp()
	require.NoError(t, err)
	return app
}

func TestReporter(t *testing.T) {
	t.Parallel()

	t.Run("should nest reports and notify the listener in order", func(t *testing.T) {
		t.Parallel()

		// given
		listener := &reportdoubles.SpyListener{}
		reporter := reports.NewReporter(listener)
		app := testApp(t)
		source := &doubles.StubSourceRepository{SourceType: "go"}
		dependency := entitybuilders.NewDependencyBuilder().WithName("dep").BuildDependency()

		// when
		result, err := reporter.ReportRun("status", func(*entities.Report) (bool, error) {
			return reporter.ReportApp(app, func(*entities.Report) (bool, error) {
				return reporter.ReportSource(source, func(*entities.Report) (bool, error) {
					return reporter.ReportDependency(dependency, func(report *entities.Report) (bool, error) {
						report.Set("version", "1.0.0")
						return true, nil
					})
				})
			})
		})

		// then
		require.NoError(t, err)
		assert.True(t, result)
		assert.Equal(t, []string{
			"begin run status", "begin app app", "begin source go", "begin dependency dep",
			"end dependency dep", "end source go", "end app app", "end run status",
		}, listener.Events)

		run := reporter.LastRun()
		require.Len(t, run.Reports, 1)
		require.Len(t, run.Reports[0].Reports, 1)
		require.Len(t, run.Reports[0].Reports[0].Reports, 1)
		assert.Same(t, app, run.Reports[0].Target)
	})

	t.Run("should return a protocol error when a source report is opened without an app", func(t *testing.T) {
		t.Parallel()

		// given
		reporter := reports.NewReporter(nil)
		source := &doubles.StubSourceRepository{SourceType: "go"}

		// when
		_, err := reporter.ReportRun("cache", func(*entities.Report) (bool, error) {
			return reporter.ReportSource(source, func(*entities.Report) (bool, error) { return true, nil })
		})

		// then
		require.ErrorIs(t, err, entities.ErrReportProtocol)
	})

	t.Run("should return a protocol error when an app report is opened inside another app", func(t *testing.T) {
		t.Parallel()

		// given
		reporter := reports.NewReporter(nil)
		app := testApp(t)

		// when
		_, err := reporter.ReportRun("cache", func(*entities.Report) (bool, error) {
			return reporter.ReportApp(app, func(*entities.Report) (bool, error) {
				return reporter.ReportApp(app, func(*entities.Report) (bool, error) { return true, nil })
			})
		})

		// then
		require.ErrorIs(t, err, entities.ErrReportProtocol)
	})

	t.Run("should return a protocol error when a dependency report has no open report", func(t *testing.T) {
		t.Parallel()

		// given
		reporter := reports.NewReporter(nil)
		dependency := entitybuilders.NewDependencyBuilder().BuildDependency()

		// when
		_, err := reporter.ReportDependency(dependency, func(*entities.Report) (bool, error) { return true, nil })

		// then
		require.ErrorIs(t, err, entities.ErrReportProtocol)
	})

	t.Run("should close and attach the report when the scope returns an error", func(t *testing.T) {
		t.Parallel()

		// given
		listener := &reportdoubles.SpyListener{}
		reporter := reports.NewReporter(listener)
		app := testApp(t)
		boom := errors.New("boom")

		// when
		_, err := reporter.ReportRun("list", func(*entities.Report) (bool, error) {
			return reporter.ReportApp(app, func(*entities.Report) (bool, error) { return false, boom })
		})
		_, secondErr := reporter.ReportRun("list", func(*entities.Report) (bool, error) { return true, nil })

		// then
		require.ErrorIs(t, err, boom)
		require.NoError(t, secondErr)
		assert.Contains(t, listener.Events, "end app app")
	})
}

func TestMultiListener(t *testing.T) {
	t.Parallel()

	t.Run("should forward every event to every listener", func(t *testing.T) {
		t.Parallel()

		// given
		first := &reportdoubles.SpyListener{}
		second := &reportdoubles.SpyListener{}
		reporter := reports.NewReporter(reports.MultiListener{first, second})

		// when
		_, err := reporter.ReportRun("env", func(*entities.Report) (bool, error) { return true, nil })

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"begin run env", "end run env"}, first.Events)
		assert.Equal(t, first.Events, second.Events)
	})
}
