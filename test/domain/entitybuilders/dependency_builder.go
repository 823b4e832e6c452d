//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"maps"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// DependencyBuilder helps create test dependencies with a fluent interface.
type DependencyBuilder struct {
	*testkit.BaseBuilder
	name     string
	version  string
	depType  string
	path     string
	errors   []string
	metadata map[string]any
}

// NewDependencyBuilder creates a new dependency builder with sensible defaults.
func NewDependencyBuilder() *DependencyBuilder {
	return &DependencyBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		name:        "test-dependency",
		version:     "1.0.0",
		depType:     "test",
		path:        "/tmp/test-dependency",
	}
}

// WithName sets the dependency name.
func (b *DependencyBuilder) WithName(name string) *DependencyBuilder {
	b.name = name
	return b
}

// WithVersion sets the dependency version.
func (b *DependencyBuilder) WithVersion(version string) *DependencyBuilder {
	b.version = version
	return b
}

// WithType sets the source type.
func (b *DependencyBuilder) WithType(depType string) *DependencyBuilder {
	b.depType = depType
	return b
}

// WithPath sets the path of the dependency's files.
func (b *DependencyBuilder) WithPath(path string) *DependencyBuilder {
	b.path = path
	return b
}

// WithErrors sets the enumeration errors.
func (b *DependencyBuilder) WithErrors(errors ...string) *DependencyBuilder {
	b.errors = errors
	return b
}

// WithMetadata sets one metadata value.
func (b *DependencyBuilder) WithMetadata(key string, value any) *DependencyBuilder {
	if b.metadata == nil {
		b.metadata = map[string]any{}
	}
	b.metadata[key] = value
	return b
}

// Build creates the dependency (satisfies testkit.Builder interface).
func (b *DependencyBuilder) Build() interface{} {
	return b.BuildDependency()
}

// BuildDependency creates the dependency with a concrete return type.
func (b *DependencyBuilder) BuildDependency() *entities.Dependency {
	return &entities.Dependency{
		Name:     b.name,
		Version:  b.version,
		Type:     b.depType,
		Path:     b.path,
		Errors:   append([]string(nil), b.errors...),
		Metadata: maps.Clone(b.metadata),
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *DependencyBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.name = "test-dependency"
	b.version = "1.0.0"
	b.depType = "test"
	b.path = "/tmp/test-dependency"
	b.errors = nil
	b.metadata = nil
	return b
}

// Clone creates a deep copy of the DependencyBuilder.
func (b *DependencyBuilder) Clone() testkit.Builder {
	return &DependencyBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		name:        b.name,
		version:     b.version,
		depType:     b.depType,
		path:        b.path,
		errors:      append([]string(nil), b.errors...),
		metadata:    maps.Clone(b.metadata),
	}
}
