//go:build unit

package records_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/repositories/records"
)

func sampleRecord() *entities.DependencyRecord {
	return entities.NewDependencyRecord(
		map[string]any{
			entities.MetadataLicense:  "mit",
			"zeta":                    "last",
			entities.MetadataName:     "github.com/sirupsen/logrus",
			entities.MetadataHomepage: "https://pkg.go.dev/github.com/sirupsen/logrus",
			"alpha":                   "first",
			entities.MetadataVersion:  "1.10",
			entities.MetadataType:     "go",
		},
		[]entities.LicenseText{{Sources: "LICENSE", Text: "The MIT License (MIT)\n\nCopyright (c) 2014 Simon Eskildsen"}},
		nil,
	)
}

func TestEncode(t *testing.T) {
	t.Parallel()

	t.Run("should write well-known keys first and the remaining keys sorted", func(t *testing.T) {
		t.Parallel()

		// given
		record := sampleRecord()

		// when
		data, err := records.Encode(record)

		// then
		require.NoError(t, err)
		expected := `---
name: github.com/sirupsen/logrus
version: "1.10"
type: go
homepage: https://pkg.go.dev/github.com/sirupsen/logrus
license: mit
alpha: first
zeta: last
licenses:
  - sources: LICENSE
    text: |-
      The MIT License (MIT)

      Copyright (c) 2014 Simon Eskildsen
notices: []
`
		assert.Equal(t, expected, string(data))
	})

	t.Run("should produce identical bytes for identical records", func(t *testing.T) {
		t.Parallel()

		// when
		first, firstErr := records.Encode(sampleRecord())
		second, secondErr := records.Encode(sampleRecord())

		// then
		require.NoError(t, firstErr)
		require.NoError(t, secondErr)
		assert.Equal(t, first, second)
	})
}

func TestYAMLRecordRepository(t *testing.T) {
	t.Parallel()

	t.Run("should read back what was written", func(t *testing.T) {
		t.Parallel()

		// given
		repository := records.NewRecordRepository()
		path := filepath.Join(t.TempDir(), "go", "github.com", "sirupsen", "logrus.dep.yml")

		// when
		writeErr := repository.Write(path, sampleRecord())
		record, readErr := repository.Read(path)

		// then
		require.NoError(t, writeErr)
		require.NoError(t, readErr)
		assert.Equal(t, "1.10", record.Version())
		assert.Equal(t, "mit", record.License())
		assert.True(t, record.Matches(sampleRecord()))
		assert.Empty(t, record.Notices)
	})

	t.Run("should rewrite a record read back to identical bytes", func(t *testing.T) {
		t.Parallel()

		// given
		repository := records.NewRecordRepository()
		path := filepath.Join(t.TempDir(), "dep.dep.yml")
		require.NoError(t, repository.Write(path, sampleRecord()))
		before, err := os.ReadFile(path)
		require.NoError(t, err)
		record, err := repository.Read(path)
		require.NoError(t, err)

		// when
		require.NoError(t, repository.Write(path, record))

		// then
		after, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, string(before), string(after))
	})

	t.Run("should return nil without error for a missing record", func(t *testing.T) {
		t.Parallel()

		// given
		repository := records.NewRecordRepository()

		// when
		record, err := repository.Read(filepath.Join(t.TempDir(), "missing.dep.yml"))

		// then
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	t.Run("should return a record error for malformed content", func(t *testing.T) {
		t.Parallel()

		// given
		repository := records.NewRecordRepository()
		path := filepath.Join(t.TempDir(), "broken.dep.yml")
		require.NoError(t, os.WriteFile(path, []byte("licenses: not-a-list\n"), 0o644))

		// when
		_, err := repository.Read(path)

		// then
		var recordErr *entities.RecordError
		require.ErrorAs(t, err, &recordErr)
		assert.Equal(t, path, recordErr.Path)
	})

	t.Run("should accept bare text entries", func(t *testing.T) {
		t.Parallel()

		// given
		repository := records.NewRecordRepository()
		path := filepath.Join(t.TempDir(), "bare.dep.yml")
		require.NoError(t, os.WriteFile(path, []byte("name: bare\nlicenses:\n  - MIT License\n"), 0o644))

		// when
		record, err := repository.Read(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "MIT License", record.Content())
	})

	t.Run("should list record files recursively and delete them", func(t *testing.T) {
		t.Parallel()

		// given
		repository := records.NewRecordRepository()
		dir := t.TempDir()
		nested := filepath.Join(dir, "go", "github.com", "a.dep.yml")
		top := filepath.Join(dir, "npm", "b.dep.yml")
		require.NoError(t, repository.Write(nested, sampleRecord()))
		require.NoError(t, repository.Write(top, sampleRecord()))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "NOTICE"), []byte("notice"), 0o644))

		// when
		files, listErr := repository.List(dir)
		deleteErr := repository.Delete(nested)
		remaining, _ := repository.List(dir)

		// then
		require.NoError(t, listErr)
		require.NoError(t, deleteErr)
		assert.Equal(t, []string{nested, top}, files)
		assert.Equal(t, []string{top}, remaining)
	})

	t.Run("should list nothing for a missing cache directory", func(t *testing.T) {
		t.Parallel()

		// given
		repository := records.NewRecordRepository()

		// when
		files, err := repository.List(filepath.Join(t.TempDir(), "missing"))

		// then
		require.NoError(t, err)
		assert.Empty(t, files)
	})
}
