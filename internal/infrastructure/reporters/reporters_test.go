//go:build unit

package reporters_test

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/reporters"
	"github.com/rios0rios0/licensecache/test/domain/entitybuilders"
)

// tree builds run -> app -> go with a passing and a failing dependency.
func tree(t *testing.T) (*entities.Report, *entities.Report, *entities.Report, []*entities.Report) {
	t.Helper()
	app, err := entitybuilders.NewAppConfigurationBuilder(t.TempDir()).WithName("app").BuildApp()
	require.NoError(t, err)

	run := entities.NewReport("status", entities.RunReport, nil)
	appReport := entities.NewReport("app", entities.AppReport, app)
	source := entities.NewReport("go", entities.SourceReport, nil)
	passing := entities.NewReport("alpha", entities.DependencyReport, nil)
	passing.Set("version", "v1.0.0")
	passing.Set("license", "mit")
	failing := entities.NewReport("beta", entities.DependencyReport, nil)
	failing.Set("version", "v2.0.0")
	failing.Set("filename", "/repo/.licenses/go/beta.dep.yml")
	failing.AddError("missing license text")

	run.Append(appReport)
	appReport.Append(source)
	source.Append(passing)
	source.Append(failing)
	return run, appReport, source, []*entities.Report{passing, failing}
}

func TestNewListener(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		command  string
		format   string
		expected any
	}{
		{name: "should print status marks as text", command: reporters.CommandStatus, format: "text", expected: &reporters.StatusListener{}},
		{name: "should print cache progress by default", command: reporters.CommandCache, format: "", expected: &reporters.CacheListener{}},
		{name: "should write notices files as text", command: reporters.CommandNotices, format: "text", expected: &reporters.NoticesListener{}},
		{name: "should encode the environment as YAML by default", command: reporters.CommandEnvironment, format: "", expected: &reporters.TreeListener{}},
		{name: "should encode any command as JSON", command: reporters.CommandList, format: "json", expected: &reporters.TreeListener{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			listener, err := reporters.NewListener(tt.command, tt.format, &bytes.Buffer{})

			// then
			require.NoError(t, err)
			assert.IsType(t, tt.expected, listener)
		})
	}

	t.Run("should reject an unknown format", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := reporters.NewListener(reporters.CommandStatus, "xml", &bytes.Buffer{})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown format "xml"`)
	})
}

func TestStatusListener(t *testing.T) {
	t.Parallel()

	t.Run("should print a mark per dependency and list the failures", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		listener := reporters.NewStatusListener(out)
		run, _, _, dependencies := tree(t)

		// when
		for _, dependency := range dependencies {
			listener.EndReport(dependency)
		}
		listener.EndReport(run)

		// then
		assert.Equal(t, ".F\n"+
			"\n/repo/.licenses/go/beta.dep.yml:\n"+
			"  - missing license text\n"+
			"\n2 dependencies checked, 1 errors found.\n", out.String())
	})

	t.Run("should name reports without a filename by their path", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		listener := reporters.NewStatusListener(out)
		run, _, source, _ := tree(t)
		source.AddError("failed to enumerate")

		// when
		listener.EndReport(run)

		// then
		assert.Contains(t, out.String(), "\napp/go:\n  - failed to enumerate\n")
		assert.Contains(t, out.String(), "2 dependencies checked, 2 errors found.")
	})
}

func TestCacheListener(t *testing.T) {
	t.Parallel()

	t.Run("should print the app, source and cached dependencies", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		listener := reporters.NewCacheListener(out)
		_, appReport, source, dependencies := tree(t)
		dependencies[0].Set("cached", true)

		// when
		listener.BeginReport(appReport)
		listener.BeginReport(source)
		for _, dependency := range dependencies {
			listener.EndReport(dependency)
		}

		// then
		assert.Equal(t, "Caching dependency records for app\n"+
			"  go\n"+
			"    Caching alpha (v1.0.0)\n"+
			"      error: missing license text\n", out.String())
	})
}

func TestListListener(t *testing.T) {
	t.Parallel()

	t.Run("should print dependencies with their versions and licenses", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		listener := reporters.NewListListener(out)
		_, appReport, source, dependencies := tree(t)

		// when
		listener.BeginReport(appReport)
		listener.BeginReport(source)
		listener.EndReport(dependencies[0])

		// then
		assert.Equal(t, "app\n  go\n    alpha (v1.0.0): mit\n", out.String())
	})
}

func TestEnvironmentListener(t *testing.T) {
	t.Parallel()

	t.Run("should print the app settings as key value pairs", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		listener := reporters.NewEnvironmentListener(out)
		appReport := entities.NewReport("app", entities.AppReport, nil)
		appReport.Set("cache_path", "/repo/.licenses")
		appReport.Set("allowed", []string{"mit", "isc"})

		// when
		listener.EndReport(appReport)

		// then
		assert.Equal(t, "app\n  allowed: mit, isc\n  cache_path: /repo/.licenses\n", out.String())
	})
}

func TestTreeListener(t *testing.T) {
	t.Parallel()

	t.Run("should encode the run as JSON once it ends", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		listener := reporters.NewTreeListener(out, reporters.EncodeJSON)
		run, appReport, _, _ := tree(t)

		// when
		listener.EndReport(appReport)
		assert.Empty(t, out.String())
		listener.EndReport(run)

		// then
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
		apps := decoded["apps"].([]any)
		require.Len(t, apps, 1)
		app := apps[0].(map[string]any)
		assert.Equal(t, "app", app["name"])
		sources := app["sources"].([]any)
		dependencies := sources[0].(map[string]any)["dependencies"].([]any)
		require.Len(t, dependencies, 2)
		beta := dependencies[1].(map[string]any)
		assert.Equal(t, "beta", beta["name"])
		assert.Equal(t, []any{"missing license text"}, beta["errors"])
		assert.NotContains(t, decoded, "name")
	})

	t.Run("should encode the run as YAML", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		run, _, _, _ := tree(t)

		// when
		reporters.NewTreeListener(out, reporters.EncodeYAML).EndReport(run)

		// then
		assert.True(t, strings.HasPrefix(out.String(), "apps:\n  - name: app\n"))
		assert.Contains(t, out.String(), "errors:\n")
		assert.Contains(t, out.String(), "- missing license text\n")
	})

	t.Run("should flatten cached records into plain data", func(t *testing.T) {
		t.Parallel()

		// given
		dependency := entities.NewReport("alpha", entities.DependencyReport, nil)
		dependency.Set(entities.ReportKeyCachedRecord, entities.NewDependencyRecord(
			map[string]any{"name": "alpha", "license": "mit"},
			[]entities.LicenseText{{Sources: "LICENSE", Text: "MIT"}},
			nil,
		))

		// when
		document := reporters.Document(dependency)

		// then
		record := document[entities.ReportKeyCachedRecord].(map[string]any)
		assert.Equal(t, "mit", record["license"])
		assert.Equal(t, []entities.LicenseText{{Sources: "LICENSE", Text: "MIT"}}, record["licenses"])
		assert.Equal(t, "alpha", document["name"])
	})
}

func TestNoticesListener(t *testing.T) {
	t.Parallel()

	t.Run("should render the texts of every cached record", func(t *testing.T) {
		t.Parallel()

		// given
		_, appReport, _, dependencies := tree(t)
		dependencies[0].Set(entities.ReportKeyCachedRecord, entities.NewDependencyRecord(
			map[string]any{"name": "alpha", "version": "v1.0.0", "license": "mit"},
			[]entities.LicenseText{{Sources: "LICENSE", Text: "MIT License text\n"}},
			[]entities.LicenseText{{Sources: "NOTICE", Text: "Notice text"}},
		))

		// when
		notices := reporters.RenderNotices(appReport)

		// then
		assert.True(t, strings.HasPrefix(notices, "app THIRD PARTY NOTICES\n"))
		assert.Contains(t, notices, "go/alpha v1.0.0\nlicense: mit\n\nMIT License text\n\nNotice text\n")
		assert.NotContains(t, notices, "beta")
	})

	t.Run("should write the notices file of the app", func(t *testing.T) {
		t.Parallel()

		// given
		out := &bytes.Buffer{}
		_, appReport, _, _ := tree(t)
		app := appReport.Target.(*entities.AppConfiguration)

		// when
		reporters.NewNoticesListener(out).EndReport(appReport)

		// then
		content, err := os.ReadFile(app.NoticesFilePath())
		require.NoError(t, err)
		assert.Equal(t, reporters.RenderNotices(appReport), string(content))
		assert.Equal(t, "Writing notices for app to "+app.NoticesFilePath()+"\n", out.String())
	})
}
