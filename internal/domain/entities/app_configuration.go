package entities

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DefaultCachePath is the cache directory used when none is configured, relative to the app root.
	DefaultCachePath = ".licenses"

	noticesFileName = "NOTICE"
)

// AppConfiguration holds the runtime policy of one configured application.
// It is built once when the Configuration loads and only changes through
// Ignore, Review and Allow.
type AppConfiguration struct {
	name        string
	root        string
	sourcePath  string
	cachePath   string
	sharedCache bool
	sources     map[string]bool
	ignored     map[string][]string
	reviewed    map[string][]string
	allowed     []string
	extra       map[string]any
}

// NewAppConfiguration merges inherited options under the app options and resolves
// the app root, source_path, name and cache_path.
func NewAppConfiguration(options, inherited Options, env LoadOptions) (*AppConfiguration, error) {
	inherited = inherited.Clone()
	delete(inherited, "apps")
	merged := inherited.Merge(options)

	if _, ok := merged.String("source_path"); !ok {
		return nil, NewConfigurationError("", "source_path is required", nil)
	}

	var typed AppOptions
	if err := decodeOptions(map[string]any(merged), &typed); err != nil {
		return nil, NewConfigurationError(typed.SourcePath, "unable to read app options", err)
	}

	root, err := rootFor(merged, env)
	if err != nil {
		return nil, err
	}

	app := &AppConfiguration{
		root:        root,
		sourcePath:  absoluteFrom(root, typed.SourcePath),
		sharedCache: typed.SharedCache,
		sources:     nonNilBools(typed.Sources),
		ignored:     nonNilLists(typed.Ignored),
		reviewed:    nonNilLists(typed.Reviewed),
		allowed:     slices.Clone(typed.Allowed),
		extra:       typed.Extra,
	}

	app.name, err = app.generateName(typed.Name)
	if err != nil {
		return nil, err
	}
	app.cachePath = absoluteFrom(root, detectCachePath(options, inherited, app.name))

	return app, nil
}

// detectCachePath applies the cache_path precedence: explicit app value, inherited shared
// value, inherited value joined with the app name, default joined with the app name.
func detectCachePath(options, inherited Options, appName string) string {
	if cachePath, ok := options.String("cache_path"); ok {
		return cachePath
	}

	cachePath, inheritedOK := inherited.String("cache_path")
	if inheritedOK && inherited.Bool("shared_cache") {
		return cachePath
	}
	if !inheritedOK {
		cachePath = DefaultCachePath
	}
	return filepath.Join(cachePath, appName)
}

func (it *AppConfiguration) generateName(value any) (string, error) {
	switch typed := value.(type) {
	case nil:
		return filepath.Base(it.sourcePath), nil
	case string:
		if typed == "" {
			return filepath.Base(it.sourcePath), nil
		}
		return typed, nil
	case map[string]any, Options:
		var nameOpts NameOptions
		if err := decodeOptions(typed, &nameOpts); err != nil {
			return "", NewConfigurationError(it.sourcePath, "unable to read name options", err)
		}
		return it.generatedName(nameOpts)
	default:
		return "", NewConfigurationError(it.sourcePath, fmt.Sprintf("invalid app name value: %v", value), nil)
	}
}

func (it *AppConfiguration) generatedName(opts NameOptions) (string, error) {
	switch opts.Generator {
	case "", NameGeneratorDirectoryName:
		return filepath.Base(it.sourcePath), nil
	case NameGeneratorRelativePath:
		return it.relativePathName(opts)
	default:
		return "", NewConfigurationError(
			it.sourcePath,
			fmt.Sprintf("invalid app name generator value %q", opts.Generator),
			nil,
		)
	}
}

func (it *AppConfiguration) relativePathName(opts NameOptions) (string, error) {
	depth := 0
	if opts.Depth != nil {
		depth = *opts.Depth
	}
	if depth < 0 {
		return "", NewConfigurationError(it.sourcePath, "name.depth cannot be negative", nil)
	}

	relative, err := filepath.Rel(it.root, it.sourcePath)
	if err != nil || relative == ".." || strings.HasPrefix(relative, ".."+string(filepath.Separator)) {
		return "", NewConfigurationError(
			it.sourcePath,
			"source_path must be a descendant of the app root to generate an app name from the relative source_path",
			err,
		)
	}
	if relative == "." {
		return filepath.Base(it.root), nil
	}

	separator := opts.Separator
	if separator == "" {
		separator = defaultNameSeparator
	}

	parts := strings.Split(filepath.ToSlash(relative), "/")
	if depth > 0 && depth < len(parts) {
		parts = parts[len(parts)-depth:]
	}
	return strings.Join(parts, separator), nil
}

func (it *AppConfiguration) Name() string       { return it.name }
func (it *AppConfiguration) Root() string       { return it.root }
func (it *AppConfiguration) SourcePath() string { return it.sourcePath }
func (it *AppConfiguration) CachePath() string  { return it.cachePath }
func (it *AppConfiguration) SharedCache() bool  { return it.sharedCache }

// Option returns a source-specific setting that is not part of the core schema.
func (it *AppConfiguration) Option(key string) (any, bool) {
	value, ok := it.extra[key]
	return value, ok
}

// SourceOption returns a nested setting under the source type key, e.g. `go: {module_cache: ...}`.
func (it *AppConfiguration) SourceOption(sourceType, key string) (any, bool) {
	section, ok := it.extra[sourceType].(map[string]any)
	if !ok {
		return nil, false
	}
	value, ok := section[key]
	return value, ok
}

// Enabled reports whether the given source type is enabled. When any source type is
// explicitly enabled, only explicitly enabled types are; otherwise every type is
// enabled unless explicitly disabled.
func (it *AppConfiguration) Enabled(sourceType string) bool {
	defaultValue := true
	for _, enabled := range it.sources {
		if enabled {
			defaultValue = false
			break
		}
	}
	if enabled, ok := it.sources[sourceType]; ok {
		return enabled
	}
	return defaultValue
}

// Ignored reports whether the dependency matches an ignore pattern for its type.
func (it *AppConfiguration) Ignored(id DependencyIdentity) bool {
	return anyPatternMatches(it.ignored[id.Type], id)
}

// Reviewed reports whether the dependency matches a review pattern for its type.
func (it *AppConfiguration) Reviewed(id DependencyIdentity) bool {
	return anyPatternMatches(it.reviewed[id.Type], id)
}

// Allowed reports whether the license classification is explicitly allowed.
func (it *AppConfiguration) Allowed(license string) bool {
	return slices.Contains(it.allowed, license)
}

// Ignore adds the dependency to the ignored list, optionally pinned to its version.
func (it *AppConfiguration) Ignore(id DependencyIdentity, atVersion bool) {
	it.ignored[id.Type] = appendPattern(it.ignored[id.Type], id.pattern(atVersion))
}

// Review adds the dependency to the reviewed list, optionally pinned to its version.
func (it *AppConfiguration) Review(id DependencyIdentity, atVersion bool) {
	it.reviewed[id.Type] = appendPattern(it.reviewed[id.Type], id.pattern(atVersion))
}

// Allow adds a license classification to the allowed list.
func (it *AppConfiguration) Allow(license string) {
	it.allowed = appendPattern(it.allowed, license)
}

// CacheFilePath returns the location of the cached record for a dependency.
func (it *AppConfiguration) CacheFilePath(sourceType, dependencyName string) string {
	return filepath.Join(
		it.cachePath,
		sourceType,
		filepath.FromSlash(dependencyName)+"."+RecordExtension,
	)
}

// CacheKey returns the `<type>/<name>` key of a dependency.
func CacheKey(sourceType, dependencyName string) string {
	return sourceType + "/" + dependencyName
}

// CacheKeyForFile converts a cache file path back to its `<type>/<name>` key.
// ok is false for files outside the cache path or without the record extension.
func (it *AppConfiguration) CacheKeyForFile(path string) (string, bool) {
	relative, err := filepath.Rel(it.cachePath, path)
	if err != nil || strings.HasPrefix(relative, "..") {
		return "", false
	}
	relative = filepath.ToSlash(relative)
	key, found := strings.CutSuffix(relative, "."+RecordExtension)
	return key, found
}

// NoticesFilePath returns where the notices for this app are written.
func (it *AppConfiguration) NoticesFilePath() string {
	if it.sharedCache {
		return filepath.Join(it.cachePath, noticesFileName+"."+it.name)
	}
	return filepath.Join(it.cachePath, noticesFileName)
}

// SourceSettings returns a copy of the configured enable/disable flags.
func (it *AppConfiguration) SourceSettings() map[string]bool {
	return maps.Clone(it.sources)
}

// IgnoredPatterns returns the ignore patterns for a source type.
func (it *AppConfiguration) IgnoredPatterns(sourceType string) []string {
	return slices.Clone(it.ignored[sourceType])
}

// ReviewedPatterns returns the review patterns for a source type.
func (it *AppConfiguration) ReviewedPatterns(sourceType string) []string {
	return slices.Clone(it.reviewed[sourceType])
}

// AllowedLicenses returns the allowed license classifications, sorted.
func (it *AppConfiguration) AllowedLicenses() []string {
	result := slices.Clone(it.allowed)
	sort.Strings(result)
	return result
}

func anyPatternMatches(patterns []string, id DependencyIdentity) bool {
	for _, pattern := range patterns {
		if patternMatches(pattern, id) {
			return true
		}
	}
	return false
}

// patternMatches matches `name` or `name@version` glob patterns. Scoped names such as
// `@scope/pkg` keep their leading `@`.
func patternMatches(pattern string, id DependencyIdentity) bool {
	target := id.Name
	if at := strings.LastIndex(pattern, "@"); at > 0 {
		target = id.Name + "@" + id.Version
	}
	if pattern == target {
		return true
	}
	matched, err := doublestar.Match(pattern, target)
	return err == nil && matched
}

func appendPattern(patterns []string, pattern string) []string {
	if slices.Contains(patterns, pattern) {
		return patterns
	}
	return append(patterns, pattern)
}

func nonNilBools(values map[string]bool) map[string]bool {
	if values == nil {
		return map[string]bool{}
	}
	return values
}

func nonNilLists(values map[string][]string) map[string][]string {
	if values == nil {
		return map[string][]string{}
	}
	return values
}

func absoluteFrom(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
