//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// AppConfigurationBuilder helps create app configurations with a fluent interface.
type AppConfigurationBuilder struct {
	*testkit.BaseBuilder
	root    string
	options entities.Options
}

// NewAppConfigurationBuilder creates a builder for an app rooted at root whose
// source path is the root itself.
func NewAppConfigurationBuilder(root string) *AppConfigurationBuilder {
	return &AppConfigurationBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		root:        root,
		options:     entities.Options{"source_path": root},
	}
}

// WithOption sets a raw app option.
func (b *AppConfigurationBuilder) WithOption(key string, value any) *AppConfigurationBuilder {
	b.options[key] = value
	return b
}

// WithName sets the app name.
func (b *AppConfigurationBuilder) WithName(name string) *AppConfigurationBuilder {
	return b.WithOption("name", name)
}

// WithSourcePath sets the app source path.
func (b *AppConfigurationBuilder) WithSourcePath(path string) *AppConfigurationBuilder {
	return b.WithOption("source_path", path)
}

// WithCachePath sets the app cache path.
func (b *AppConfigurationBuilder) WithCachePath(path string) *AppConfigurationBuilder {
	return b.WithOption("cache_path", path)
}

// WithAllowed sets the allowed licenses.
func (b *AppConfigurationBuilder) WithAllowed(licenses ...string) *AppConfigurationBuilder {
	return b.WithOption("allowed", licenses)
}

// Build creates the app configuration (satisfies testkit.Builder interface).
func (b *AppConfigurationBuilder) Build() interface{} {
	app, err := b.BuildApp()
	if err != nil {
		panic(err)
	}
	return app
}

// BuildApp creates the app configuration with a concrete return type.
func (b *AppConfigurationBuilder) BuildApp() (*entities.AppConfiguration, error) {
	return entities.NewAppConfiguration(
		b.options.Clone(),
		entities.Options{},
		entities.LoadOptions{WorkingDir: b.root, RepositoryRoot: b.root},
	)
}

// Reset clears the builder state, allowing it to be reused.
func (b *AppConfigurationBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.options = entities.Options{"source_path": b.root}
	return b
}

// Clone creates a deep copy of the AppConfigurationBuilder.
func (b *AppConfigurationBuilder) Clone() testkit.Builder {
	return &AppConfigurationBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		root:        b.root,
		options:     b.options.Clone(),
	}
}
