package npm

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const (
	// SourceType identifies npm package dependencies.
	SourceType = "npm"

	lockFile             = "package-lock.json"
	nodeModules          = "node_modules/"
	optionProductionOnly = "production_only"
	homepagePrefix       = "https://www.npmjs.com/package/"
)

// SourceRepository enumerates the packages installed from an app's package-lock.json.
type SourceRepository struct {
	app *entities.AppConfiguration
}

var _ repositories.SourceRepository = (*SourceRepository)(nil)

// NewSourceFactory returns a factory binding npm sources to apps.
func NewSourceFactory() repositories.SourceFactory {
	return func(app *entities.AppConfiguration) repositories.SourceRepository {
		return &SourceRepository{app: app}
	}
}

type lockfile struct {
	LockfileVersion int                    `json:"lockfileVersion"`
	Packages        map[string]lockPackage `json:"packages"`
}

type lockPackage struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Resolved string `json:"resolved"`
	Dev      bool   `json:"dev"`
	Optional bool   `json:"optional"`
	Link     bool   `json:"link"`
}

func (it *SourceRepository) Type() string { return SourceType }

// Enabled returns true if the app's source path has a package-lock.json file.
func (it *SourceRepository) Enabled(_ context.Context) bool {
	_, err := os.Stat(filepath.Join(it.app.SourcePath(), lockFile))
	return err == nil
}

// Dependencies returns every package under node_modules recorded by the lockfile.
// Only lockfile versions 2 and 3 carry the `packages` map this relies on.
func (it *SourceRepository) Dependencies(_ context.Context) ([]*entities.Dependency, error) {
	lockPath := filepath.Join(it.app.SourcePath(), lockFile)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", lockPath, err)
	}

	var lock lockfile
	if err = json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", lockPath, err)
	}
	if lock.LockfileVersion < 2 {
		return nil, fmt.Errorf("%s: lockfileVersion %d is not supported, regenerate it with npm 7 or later",
			lockPath, lock.LockfileVersion)
	}

	productionOnly := it.productionOnly()
	keys := make([]string, 0, len(lock.Packages))
	for key := range lock.Packages {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	seen := map[string]bool{}
	dependencies := make([]*entities.Dependency, 0, len(keys))
	for _, key := range keys {
		pkg := lock.Packages[key]
		if !strings.Contains(key, nodeModules) || (productionOnly && pkg.Dev) {
			continue
		}

		name := packageName(key, pkg)
		if seen[name+"@"+pkg.Version] {
			continue
		}
		seen[name+"@"+pkg.Version] = true

		dependency := &entities.Dependency{
			Name:    name,
			Version: pkg.Version,
			Type:    SourceType,
			Path:    filepath.Join(it.app.SourcePath(), filepath.FromSlash(key)),
			Metadata: map[string]any{
				entities.MetadataHomepage: homepagePrefix + name,
			},
		}
		if pkg.Link && pkg.Resolved != "" {
			dependency.Path = filepath.Join(it.app.SourcePath(), filepath.FromSlash(pkg.Resolved))
		}
		if pkg.Optional && !dependency.Exists() {
			continue
		}
		dependencies = append(dependencies, dependency)
	}

	entities.DisambiguateNames(dependencies)
	return dependencies, nil
}

func (it *SourceRepository) productionOnly() bool {
	value, ok := it.app.SourceOption(SourceType, optionProductionOnly)
	if !ok {
		return true
	}
	enabled, isBool := value.(bool)
	return !isBool || enabled
}

// packageName returns the package name from the last node_modules segment of the
// lockfile key, which keeps the scope of scoped packages.
func packageName(key string, pkg lockPackage) string {
	if pkg.Name != "" {
		return pkg.Name
	}
	index := strings.LastIndex(key, nodeModules)
	name := key[index+len(nodeModules):]
	return path.Clean(name)
}
