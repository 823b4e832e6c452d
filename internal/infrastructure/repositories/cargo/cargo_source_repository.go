package cargo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const (
	// SourceType identifies Rust crate dependencies.
	SourceType = "cargo"

	lockFile       = "Cargo.lock"
	optionHome     = "home"
	homepagePrefix = "https://crates.io/crates/"
)

// SourceRepository enumerates the packages pinned by an app's Cargo.lock.
type SourceRepository struct {
	app *entities.AppConfiguration
}

var _ repositories.SourceRepository = (*SourceRepository)(nil)

// NewSourceFactory returns a factory binding Cargo sources to apps.
func NewSourceFactory() repositories.SourceFactory {
	return func(app *entities.AppConfiguration) repositories.SourceRepository {
		return &SourceRepository{app: app}
	}
}

type lockfile struct {
	Packages []lockPackage `toml:"package"`
}

type lockPackage struct {
	Name     string `toml:"name"`
	Version  string `toml:"version"`
	Source   string `toml:"source"`
	Checksum string `toml:"checksum"`
}

func (it *SourceRepository) Type() string { return SourceType }

// Enabled returns true if the app's source path has a Cargo.lock file.
func (it *SourceRepository) Enabled(_ context.Context) bool {
	_, err := os.Stat(filepath.Join(it.app.SourcePath(), lockFile))
	return err == nil
}

// Dependencies returns every package fetched from a registry or git source.
// Workspace members have no source and are skipped.
func (it *SourceRepository) Dependencies(_ context.Context) ([]*entities.Dependency, error) {
	path := filepath.Join(it.app.SourcePath(), lockFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var lock lockfile
	if err = toml.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	home := it.cargoHome()
	dependencies := make([]*entities.Dependency, 0, len(lock.Packages))
	for _, pkg := range lock.Packages {
		if pkg.Source == "" {
			continue
		}

		dependency := &entities.Dependency{
			Name:    pkg.Name,
			Version: pkg.Version,
			Type:    SourceType,
			Metadata: map[string]any{
				entities.MetadataHomepage: homepagePrefix + pkg.Name,
			},
		}
		if dir := packageDir(home, pkg); dir != "" {
			dependency.Path = dir
		} else {
			dependency.Errors = append(dependency.Errors,
				fmt.Sprintf("package %s %s not found in %s, run `cargo fetch`", pkg.Name, pkg.Version, home))
		}
		dependencies = append(dependencies, dependency)
	}

	entities.DisambiguateNames(dependencies)
	return dependencies, nil
}

// cargoHome resolves CARGO_HOME from the app options, the environment or the user's home.
func (it *SourceRepository) cargoHome() string {
	if value, ok := it.app.SourceOption(SourceType, optionHome); ok {
		if dir, isString := value.(string); isString && dir != "" {
			return dir
		}
	}
	if dir := os.Getenv("CARGO_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cargo"
	}
	return filepath.Join(home, ".cargo")
}

// packageDir locates the unpacked sources of a package, or returns "" when absent.
func packageDir(home string, pkg lockPackage) string {
	switch {
	case strings.HasPrefix(pkg.Source, "registry+"), strings.HasPrefix(pkg.Source, "sparse+"):
		return registryDir(home, pkg)
	case strings.HasPrefix(pkg.Source, "git+"):
		return checkoutDir(home, pkg)
	default:
		return ""
	}
}

// registryDir looks for `<name>-<version>` under every registry index in `registry/src`.
func registryDir(home string, pkg lockPackage) string {
	indexes, err := os.ReadDir(filepath.Join(home, "registry", "src"))
	if err != nil {
		return ""
	}
	for _, index := range indexes {
		if !index.IsDir() {
			continue
		}
		dir := filepath.Join(home, "registry", "src", index.Name(), pkg.Name+"-"+pkg.Version)
		if info, statErr := os.Stat(dir); statErr == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// checkoutDir looks for the short commit of a git source under `git/checkouts/<name>-<hash>`.
func checkoutDir(home string, pkg lockPackage) string {
	_, commit, _ := strings.Cut(pkg.Source, "#")
	if commit == "" {
		return ""
	}
	if len(commit) > 7 {
		commit = commit[:7]
	}

	pattern := escapeMeta(filepath.ToSlash(filepath.Join(home, "git", "checkouts"))) +
		"/" + escapeMeta(pkg.Name) + "-*/" + escapeMeta(commit)
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil || len(matches) == 0 {
		return ""
	}
	return matches[0]
}

// escapeMeta quotes the glob metacharacters of a literal path segment.
func escapeMeta(value string) string {
	var builder strings.Builder
	for _, char := range value {
		if strings.ContainsRune(`\*?[]{}`, char) {
			builder.WriteRune('\\')
		}
		builder.WriteRune(char)
	}
	return builder.String()
}
