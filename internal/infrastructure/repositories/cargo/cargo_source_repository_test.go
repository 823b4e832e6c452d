//go:build unit

package cargo_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/repositories/cargo"
	"github.com/rios0rios0/licensecache/test/domain/entitybuilders"
)

const cargoLock = `# This file is automatically @generated by Cargo.
version = 3

[[package]]
name = "app"
version = "0.1.0"
dependencies = ["serde", "tool"]

[[package]]
name = "serde"
version = "1.0.190"
source = "registry+https://github.com/rust-lang/crates.io-index"
checksum = "abc"

[[package]]
name = "tool"
version = "0.2.0"
source = "git+https://github.com/example/tool?branch=main#0123456789abcdef"

[[package]]
name = "missing"
version = "3.0.0"
source = "registry+https://github.com/rust-lang/crates.io-index"
`

func newCargoApp(t *testing.T, lock, home string) *entities.AppConfiguration {
	t.Helper()
	root := t.TempDir()
	if lock != "" {
		require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.lock"), []byte(lock), 0o644))
	}
	app, err := entitybuilders.NewAppConfigurationBuilder(root).
		WithName("crate").
		WithOption("cargo", map[string]any{"home": home}).
		BuildApp()
	require.NoError(t, err)
	return app
}

func mkdir(t *testing.T, elem ...string) string {
	t.Helper()
	dir := filepath.Join(elem...)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	return dir
}

func TestCargoSourceRepositoryEnabled(t *testing.T) {
	t.Parallel()

	t.Run("should be enabled when the source path has a Cargo.lock", func(t *testing.T) {
		t.Parallel()

		// given
		app := newCargoApp(t, cargoLock, t.TempDir())

		// when
		enabled := cargo.NewSourceFactory()(app).Enabled(context.Background())

		// then
		assert.True(t, enabled)
	})

	t.Run("should be disabled without a Cargo.lock", func(t *testing.T) {
		t.Parallel()

		// given
		app := newCargoApp(t, "", t.TempDir())

		// when
		enabled := cargo.NewSourceFactory()(app).Enabled(context.Background())

		// then
		assert.False(t, enabled)
	})
}

func TestCargoSourceRepositoryDependencies(t *testing.T) {
	t.Parallel()

	t.Run("should locate registry and git packages under the cargo home", func(t *testing.T) {
		t.Parallel()

		// given
		home := t.TempDir()
		serdeDir := mkdir(t, home, "registry", "src", "index.crates.io-6f17d22bba15001f", "serde-1.0.190")
		toolDir := mkdir(t, home, "git", "checkouts", "tool-1a2b3c4d", "0123456")
		app := newCargoApp(t, cargoLock, home)

		// when
		dependencies, err := cargo.NewSourceFactory()(app).Dependencies(context.Background())

		// then
		require.NoError(t, err)
		require.Len(t, dependencies, 3)

		assert.Equal(t, "serde", dependencies[0].Name)
		assert.Equal(t, "1.0.190", dependencies[0].Version)
		assert.Equal(t, serdeDir, dependencies[0].Path)
		assert.Equal(t, "https://crates.io/crates/serde", dependencies[0].Metadata[entities.MetadataHomepage])

		assert.Equal(t, "tool", dependencies[1].Name)
		assert.Equal(t, toolDir, dependencies[1].Path)

		assert.Equal(t, "missing", dependencies[2].Name)
		assert.Empty(t, dependencies[2].Path)
		require.Len(t, dependencies[2].Errors, 1)
		assert.Contains(t, dependencies[2].Errors[0], "package missing 3.0.0 not found")
	})

	t.Run("should locate packages under a cargo home containing glob characters", func(t *testing.T) {
		t.Parallel()

		// given
		home := filepath.Join(t.TempDir(), "cargo[1]{a,b}*")
		serdeDir := mkdir(t, home, "registry", "src", "index.crates.io-6f17d22bba15001f", "serde-1.0.190")
		toolDir := mkdir(t, home, "git", "checkouts", "tool-1a2b3c4d", "0123456")
		mkdir(t, home, "git", "checkouts", "toolbox-99", "0123456")
		app := newCargoApp(t, cargoLock, home)

		// when
		dependencies, err := cargo.NewSourceFactory()(app).Dependencies(context.Background())

		// then
		require.NoError(t, err)
		require.Len(t, dependencies, 3)
		assert.Equal(t, serdeDir, dependencies[0].Path)
		assert.Equal(t, toolDir, dependencies[1].Path)
		assert.Empty(t, dependencies[0].Errors)
		assert.Empty(t, dependencies[1].Errors)
	})

	t.Run("should rename packages locked at several versions", func(t *testing.T) {
		t.Parallel()

		// given
		lock := `
[[package]]
name = "rand"
version = "0.7.3"
source = "registry+https://github.com/rust-lang/crates.io-index"

[[package]]
name = "rand"
version = "0.8.5"
source = "registry+https://github.com/rust-lang/crates.io-index"
`
		app := newCargoApp(t, lock, t.TempDir())

		// when
		dependencies, err := cargo.NewSourceFactory()(app).Dependencies(context.Background())

		// then
		require.NoError(t, err)
		require.Len(t, dependencies, 2)
		assert.Equal(t, "rand-0.7.3", dependencies[0].Name)
		assert.Equal(t, "rand-0.8.5", dependencies[1].Name)
	})

	t.Run("should fail on a malformed Cargo.lock", func(t *testing.T) {
		t.Parallel()

		// given
		app := newCargoApp(t, "[[package]\nname = ", t.TempDir())

		// when
		_, err := cargo.NewSourceFactory()(app).Dependencies(context.Background())

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse")
	})
}
