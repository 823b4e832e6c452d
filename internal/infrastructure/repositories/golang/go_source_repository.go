package golang

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
	"github.com/rios0rios0/licensecache/internal/infrastructure/repositories/shell"
)

const (
	// SourceType identifies Go module dependencies.
	SourceType = "go"

	goModFile         = "go.mod"
	optionModuleCache = "module_cache"
	homepagePrefix    = "https://pkg.go.dev/"
)

// SourceRepository enumerates the modules required by an app's go.mod.
type SourceRepository struct {
	app    *entities.AppConfiguration
	runner shell.Runner
}

var _ repositories.SourceRepository = (*SourceRepository)(nil)

// NewSourceFactory returns a factory binding Go sources to apps.
func NewSourceFactory(runner shell.Runner) repositories.SourceFactory {
	return func(app *entities.AppConfiguration) repositories.SourceRepository {
		return &SourceRepository{app: app, runner: runner}
	}
}

func (it *SourceRepository) Type() string { return SourceType }

// Enabled returns true if the app's source path has a go.mod file.
func (it *SourceRepository) Enabled(_ context.Context) bool {
	_, err := os.Stat(filepath.Join(it.app.SourcePath(), goModFile))
	return err == nil
}

// Dependencies returns every required module, located in the module cache or
// at the directory of a local replace directive.
func (it *SourceRepository) Dependencies(ctx context.Context) ([]*entities.Dependency, error) {
	path := filepath.Join(it.app.SourcePath(), goModFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	file, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	moduleCache, err := it.moduleCache(ctx)
	if err != nil {
		return nil, err
	}

	dependencies := make([]*entities.Dependency, 0, len(file.Require))
	for _, require := range file.Require {
		if file.Module != nil && require.Mod.Path == file.Module.Mod.Path {
			continue
		}

		dependency := &entities.Dependency{
			Name:    require.Mod.Path,
			Version: require.Mod.Version,
			Type:    SourceType,
			Metadata: map[string]any{
				entities.MetadataHomepage: homepagePrefix + require.Mod.Path,
			},
		}
		it.resolvePath(dependency, require.Mod, findReplace(file.Replace, require.Mod), moduleCache)
		dependencies = append(dependencies, dependency)
	}
	return dependencies, nil
}

func (it *SourceRepository) resolvePath(
	dependency *entities.Dependency,
	mod module.Version,
	replace *modfile.Replace,
	moduleCache string,
) {
	if replace != nil {
		if replace.New.Version == "" {
			dependency.Path = filepath.Join(it.app.SourcePath(), replace.New.Path)
			if filepath.IsAbs(replace.New.Path) {
				dependency.Path = replace.New.Path
			}
			return
		}
		mod = replace.New
	}

	escapedPath, err := module.EscapePath(mod.Path)
	if err != nil {
		dependency.Errors = append(dependency.Errors, err.Error())
		return
	}
	escapedVersion, err := module.EscapeVersion(mod.Version)
	if err != nil {
		dependency.Errors = append(dependency.Errors, err.Error())
		return
	}
	dependency.Path = filepath.Join(moduleCache, escapedPath+"@"+escapedVersion)
}

// moduleCache resolves GOMODCACHE from the app options, the environment or `go env`.
func (it *SourceRepository) moduleCache(ctx context.Context) (string, error) {
	if value, ok := it.app.SourceOption(SourceType, optionModuleCache); ok {
		if dir, isString := value.(string); isString && dir != "" {
			return dir, nil
		}
	}
	if dir := os.Getenv("GOMODCACHE"); dir != "" {
		return dir, nil
	}
	return it.runner.Execute(ctx, it.app.SourcePath(), "go", "env", "GOMODCACHE")
}

func findReplace(replaces []*modfile.Replace, mod module.Version) *modfile.Replace {
	var match *modfile.Replace
	for _, replace := range replaces {
		if replace.Old.Path != mod.Path {
			continue
		}
		if replace.Old.Version == mod.Version {
			return replace
		}
		if replace.Old.Version == "" {
			match = replace
		}
	}
	return match
}
