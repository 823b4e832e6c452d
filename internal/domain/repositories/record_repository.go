package repositories

import "github.com/rios0rios0/licensecache/internal/domain/entities"

// RecordRepository reads and writes cached dependency records.
type RecordRepository interface {
	// Read returns the record stored at path, or nil without error when no file exists.
	Read(path string) (*entities.DependencyRecord, error)

	// Write stores the record at path, creating missing parent directories.
	Write(path string, record *entities.DependencyRecord) error

	// List returns every record file under dir.
	List(dir string) ([]string, error)

	// Delete removes the record file at path.
	Delete(path string) error
}
