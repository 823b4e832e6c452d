package repositories

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// SourceRepository abstracts a package-manager specific dependency enumerator
// (Go modules, Terraform modules, Cargo, npm, etc.). Each instance is bound to
// one app and reads from that app's source_path; it never changes the working directory.
type SourceRepository interface {
	// Type returns the stable source identifier (e.g. "go", "npm"), used as the
	// cache subdirectory and the report key.
	Type() string

	// Enabled returns true if the app's source_path uses this package manager.
	Enabled(ctx context.Context) bool

	// Dependencies returns the dependencies of the app. Failures of external
	// commands are returned as *entities.ShellError.
	Dependencies(ctx context.Context) ([]*entities.Dependency, error)
}

// SourceFactory creates a source bound to an app.
type SourceFactory func(app *entities.AppConfiguration) SourceRepository
