//go:build unit

package git_test

import (
	"os"
	"path/filepath"
	"testing"

	gogit "github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/licensecache/internal/infrastructure/repositories/git"
)

func TestRootRepositoryRepositoryRoot(t *testing.T) {
	t.Parallel()

	t.Run("should find the work tree root from a nested directory", func(t *testing.T) {
		t.Parallel()

		// given
		root := t.TempDir()
		_, err := gogit.PlainInit(root, false)
		require.NoError(t, err)
		nested := filepath.Join(root, "services", "api")
		require.NoError(t, os.MkdirAll(nested, 0o755))

		// when
		result, err := git.NewRootRepository().RepositoryRoot(nested)

		// then
		require.NoError(t, err)
		assert.Equal(t, root, result)
	})

	t.Run("should fail outside of a git repository", func(t *testing.T) {
		t.Parallel()

		// given
		dir := t.TempDir()

		// when
		_, err := git.NewRootRepository().RepositoryRoot(dir)

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open a git repository")
	})
}
