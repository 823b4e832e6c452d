//go:build unit

package golang_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/repositories/golang"
	"github.com/rios0rios0/licensecache/test/domain/entitybuilders"
	"github.com/rios0rios0/licensecache/test/infrastructure/repositorydoubles"
)

const goMod = `module example.com/app

go 1.22

require (
	github.com/Foo/bar v1.2.3
	example.com/local v0.0.0
	example.com/forked v1.0.0
	example.com/app v0.0.0
)

replace example.com/local => ../local

replace example.com/forked v1.0.0 => example.com/fork v1.1.0
`

func newGoApp(t *testing.T, goModContent string, options map[string]any) *entities.AppConfiguration {
	t.Helper()
	root := t.TempDir()
	if goModContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte(goModContent), 0o644))
	}
	builder := entitybuilders.NewAppConfigurationBuilder(root).WithName("app")
	for key, value := range options {
		builder.WithOption(key, value)
	}
	app, err := builder.BuildApp()
	require.NoError(t, err)
	return app
}

func TestGoSourceRepositoryEnabled(t *testing.T) {
	t.Parallel()

	t.Run("should be enabled when the source path has a go.mod", func(t *testing.T) {
		t.Parallel()

		// given
		source := golang.NewSourceFactory(&repositorydoubles.StubRunner{})(newGoApp(t, goMod, nil))

		// when
		enabled := source.Enabled(context.Background())

		// then
		assert.True(t, enabled)
		assert.Equal(t, golang.SourceType, source.Type())
	})

	t.Run("should be disabled without a go.mod", func(t *testing.T) {
		t.Parallel()

		// given
		source := golang.NewSourceFactory(&repositorydoubles.StubRunner{})(newGoApp(t, "", nil))

		// when
		enabled := source.Enabled(context.Background())

		// then
		assert.False(t, enabled)
	})
}

func TestGoSourceRepositoryDependencies(t *testing.T) {
	t.Parallel()

	t.Run("should locate required modules in the configured module cache", func(t *testing.T) {
		t.Parallel()

		// given
		cache := t.TempDir()
		runner := &repositorydoubles.StubRunner{}
		app := newGoApp(t, goMod, map[string]any{"go": map[string]any{"module_cache": cache}})

		// when
		dependencies, err := golang.NewSourceFactory(runner)(app).Dependencies(context.Background())

		// then
		require.NoError(t, err)
		require.Len(t, dependencies, 3)
		assert.Empty(t, runner.Calls)

		assert.Equal(t, "github.com/Foo/bar", dependencies[0].Name)
		assert.Equal(t, "v1.2.3", dependencies[0].Version)
		assert.Equal(t, golang.SourceType, dependencies[0].Type)
		assert.Equal(t, filepath.Join(cache, "github.com", "!foo", "bar@v1.2.3"), dependencies[0].Path)
		assert.Equal(t, "https://pkg.go.dev/github.com/Foo/bar", dependencies[0].Metadata[entities.MetadataHomepage])

		assert.Equal(t, "example.com/local", dependencies[1].Name)
		assert.Equal(t, filepath.Join(filepath.Dir(app.SourcePath()), "local"), dependencies[1].Path)

		assert.Equal(t, "example.com/forked", dependencies[2].Name)
		assert.Equal(t, "v1.0.0", dependencies[2].Version)
		assert.Equal(t, filepath.Join(cache, "example.com", "fork@v1.1.0"), dependencies[2].Path)
	})

	t.Run("should fail on a malformed go.mod", func(t *testing.T) {
		t.Parallel()

		// given
		app := newGoApp(t, "module\nrequire (\n", map[string]any{"go": map[string]any{"module_cache": t.TempDir()}})

		// when
		_, err := golang.NewSourceFactory(&repositorydoubles.StubRunner{})(app).Dependencies(context.Background())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}

//nolint:paralleltest // modifies the GOMODCACHE environment variable
func TestGoSourceRepositoryModuleCacheFromGoEnv(t *testing.T) {
	t.Setenv("GOMODCACHE", "")

	t.Run("should ask the go toolchain for the module cache", func(t *testing.T) {
		// given
		runner := &repositorydoubles.StubRunner{Output: "/go/pkg/mod"}
		app := newGoApp(t, goMod, nil)

		// when
		dependencies, err := golang.NewSourceFactory(runner)(app).Dependencies(context.Background())

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{app.SourcePath() + ": go env GOMODCACHE"}, runner.Calls)
		assert.Equal(t, filepath.Join("/go/pkg/mod", "github.com", "!foo", "bar@v1.2.3"), dependencies[0].Path)
	})

	t.Run("should return the failure of the go toolchain", func(t *testing.T) {
		// given
		shellErr := &entities.ShellError{Command: "go env GOMODCACHE", ExitCode: 1}
		app := newGoApp(t, goMod, nil)

		// when
		_, err := golang.NewSourceFactory(&repositorydoubles.StubRunner{Err: shellErr})(app).Dependencies(context.Background())

		// then
		var target *entities.ShellError
		require.ErrorAs(t, err, &target)
		assert.Equal(t, 1, target.ExitCode)
	})
}
