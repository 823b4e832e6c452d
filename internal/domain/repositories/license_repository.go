package repositories

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// LicenseRepository computes a fresh license record from a dependency's files.
type LicenseRepository interface {
	// Record returns the dependency record, or nil when the dependency carries errors.
	Record(ctx context.Context, dependency *entities.Dependency) (*entities.DependencyRecord, error)
}
