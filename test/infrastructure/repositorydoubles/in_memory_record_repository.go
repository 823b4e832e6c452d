//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

// InMemoryRecordRepository implements repositories.RecordRepository over a map keyed by path.
type InMemoryRecordRepository struct {
	Files   map[string]*entities.DependencyRecord
	Writes  []string
	Deletes []string
	ReadErr error
}

var _ repositories.RecordRepository = (*InMemoryRecordRepository)(nil)

// NewInMemoryRecordRepository creates an empty repository.
func NewInMemoryRecordRepository() *InMemoryRecordRepository {
	return &InMemoryRecordRepository{Files: map[string]*entities.DependencyRecord{}}
}

func (s *InMemoryRecordRepository) Read(path string) (*entities.DependencyRecord, error) {
	if s.ReadErr != nil {
		return nil, s.ReadErr
	}
	return s.Files[path], nil
}

func (s *InMemoryRecordRepository) Write(path string, record *entities.DependencyRecord) error {
	s.Writes = append(s.Writes, path)
	s.Files[path] = record
	return nil
}

func (s *InMemoryRecordRepository) List(dir string) ([]string, error) {
	prefix := filepath.Clean(dir) + string(filepath.Separator)
	var paths []string
	for path := range s.Files {
		if strings.HasPrefix(path, prefix) && strings.HasSuffix(path, "."+entities.RecordExtension) {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

func (s *InMemoryRecordRepository) Delete(path string) error {
	s.Deletes = append(s.Deletes, path)
	delete(s.Files, path)
	return nil
}
