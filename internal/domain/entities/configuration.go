package entities

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ConfigFileNames are the conventional configuration file names, in lookup order.
//
//nolint:gochecknoglobals // read-only lookup table
var ConfigFileNames = []string{".licensed.yml", ".licensed.yaml", ".licensed.json"}

// LoadOptions carries the process environment the configuration is resolved against.
// RepositoryRoot is computed once by the caller (empty outside of a repository).
type LoadOptions struct {
	ConfigPath     string // file or directory, relative to WorkingDir; empty means WorkingDir
	WorkingDir     string
	RepositoryRoot string
}

// Configuration is the root settings plus the ordered list of expanded apps.
type Configuration struct {
	options Options
	apps    []*AppConfiguration
}

// LoadConfiguration finds, parses and expands the configuration file.
func LoadConfiguration(env LoadOptions) (*Configuration, error) {
	if env.WorkingDir == "" {
		workingDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve the working directory: %w", err)
		}
		env.WorkingDir = workingDir
	}

	configPath := absoluteFrom(env.WorkingDir, env.ConfigPath)
	info, statErr := os.Stat(configPath)
	if statErr != nil {
		return nil, NewConfigurationError("", fmt.Sprintf("configuration file %q not found", configPath), statErr)
	}

	if info.IsDir() {
		found, ok := FindConfigFile(configPath)
		if !ok {
			logger.Debugf("No configuration file found in %q, using defaults", configPath)
			return NewConfiguration(Options{}, env)
		}
		configPath = found
	}

	logger.Debugf("Using configuration file %q", configPath)
	options, err := ParseConfigFile(configPath)
	if err != nil {
		return nil, err
	}
	return NewConfiguration(options, env)
}

// FindConfigFile returns the first conventional configuration file inside dir.
func FindConfigFile(dir string) (string, bool) {
	for _, name := range ConfigFileNames {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}
	return "", false
}

// ParseConfigFile reads a YAML or JSON configuration file. A `root: true` value, at the
// top level or on an app, is replaced with the directory containing the file.
func ParseConfigFile(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigurationError("", fmt.Sprintf("failed to read configuration file %q", path), err)
	}

	options := Options{}
	extension := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch extension {
	case "json":
		err = json.Unmarshal(data, &options)
	case "yml", "yaml":
		err = yaml.Unmarshal(data, &options)
	default:
		return nil, NewConfigurationError("", fmt.Sprintf("unknown file type %q for %q", extension, path), nil)
	}
	if err != nil {
		return nil, NewConfigurationError("", fmt.Sprintf("failed to parse configuration file %q", path), err)
	}

	configDir := filepath.Dir(path)
	expandConfigRoot(options, configDir)
	if apps, ok := options["apps"].([]any); ok {
		for _, app := range apps {
			if appOptions, isMap := app.(map[string]any); isMap {
				expandConfigRoot(appOptions, configDir)
			}
		}
	}
	return options, nil
}

func expandConfigRoot(options map[string]any, configDir string) {
	if root, ok := options["root"].(bool); ok && root {
		options["root"] = configDir
	}
}

// NewConfiguration builds every AppConfiguration from in-memory options.
func NewConfiguration(options Options, env LoadOptions) (*Configuration, error) {
	if env.WorkingDir == "" {
		workingDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve the working directory: %w", err)
		}
		env.WorkingDir = workingDir
	}

	options = options.Clone()
	rawApps, err := appOptionsList(options["apps"])
	if err != nil {
		return nil, err
	}
	delete(options, "apps")

	if len(rawApps) == 0 {
		defaults := Options{"source_path": env.WorkingDir}
		rawApps = []Options{defaults.Merge(options)}
	}

	if root, ok := options["root"]; ok && root != nil {
		for _, app := range rawApps {
			if _, hasRoot := app["root"]; !hasRoot {
				app["root"] = root
			}
		}
	}

	config := &Configuration{options: options}
	for _, rawApp := range rawApps {
		expanded, expandErr := ExpandAppSourcePath(rawApp, env)
		if expandErr != nil {
			return nil, expandErr
		}
		for _, appOptions := range expanded {
			app, appErr := NewAppConfiguration(appOptions, options, env)
			if appErr != nil {
				return nil, appErr
			}
			config.apps = append(config.apps, app)
		}
	}

	if validateErr := validateUniqueApps(config.apps); validateErr != nil {
		return nil, validateErr
	}

	logger.Debugf("Loaded %d app configuration(s)", len(config.apps))
	return config, nil
}

// Apps returns the expanded app configurations in configuration order.
func (it *Configuration) Apps() []*AppConfiguration { return it.apps }

// Options returns the global options the apps inherit from.
func (it *Configuration) Options() Options { return it.options.Clone() }

// ExpandAppSourcePath expands one raw app into one app per directory matched by its
// source_path patterns. Explicit names and cache paths are suffixed with the matched
// directory name so that every expanded app stays unique.
func ExpandAppSourcePath(app Options, env LoadOptions) ([]Options, error) {
	app = app.Clone()

	root, err := rootFor(app, env)
	if err != nil {
		return nil, err
	}

	patterns, err := stringList(app["source_path"])
	if err != nil {
		return nil, NewConfigurationError("", "invalid source_path", err)
	}
	if len(patterns) == 0 {
		app["source_path"] = root
		return []Options{app}, nil
	}

	if len(patterns) == 1 && !strings.HasPrefix(patterns[0], "!") {
		candidate := absoluteFrom(root, patterns[0])
		if isDirectory(candidate) {
			app["source_path"] = candidate
			return []Options{app}, nil
		}
	}

	matched, err := globDirectories(root, patterns)
	if err != nil {
		return nil, err
	}

	if len(matched) == 0 {
		if _, isString := app["source_path"].(string); !isString {
			app["source_path"] = root
		}
		return []Options{app}, nil
	}

	configs := make([]Options, 0, len(matched))
	for _, dir := range matched {
		config := app.Clone()
		config["source_path"] = dir
		dirName := filepath.Base(dir)

		if name, ok := config["name"].(string); ok {
			config["name"] = name + "-" + dirName
		}
		if cachePath, ok := config.String("cache_path"); ok && !config.Bool("shared_cache") {
			config["cache_path"] = filepath.Join(cachePath, dirName)
		}
		configs = append(configs, config)
	}
	return configs, nil
}

// globDirectories applies inclusion and `!` exclusion patterns in order, keeping directories only.
func globDirectories(root string, patterns []string) ([]string, error) {
	matched := map[string]struct{}{}
	for _, pattern := range patterns {
		exclude := strings.HasPrefix(pattern, "!")
		pattern = absoluteFrom(root, strings.TrimPrefix(pattern, "!"))

		paths, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, NewConfigurationError("", fmt.Sprintf("invalid source_path pattern %q", pattern), err)
		}
		for _, path := range paths {
			if exclude {
				delete(matched, path)
			} else {
				matched[path] = struct{}{}
			}
		}
		for path := range matched {
			if !isDirectory(path) {
				delete(matched, path)
			}
		}
	}

	result := make([]string, 0, len(matched))
	for path := range matched {
		result = append(result, path)
	}
	sort.Strings(result)
	return result, nil
}

// rootFor resolves the app root: explicit root, repository root, then working directory.
func rootFor(options Options, env LoadOptions) (string, error) {
	switch root := options["root"].(type) {
	case nil:
	case string:
		if root != "" {
			return absoluteFrom(env.WorkingDir, root), nil
		}
	case bool:
		if root && env.ConfigPath != "" {
			return filepath.Dir(absoluteFrom(env.WorkingDir, env.ConfigPath)), nil
		}
	default:
		return "", NewConfigurationError("", fmt.Sprintf("invalid root value: %v", root), nil)
	}

	if env.RepositoryRoot != "" {
		return env.RepositoryRoot, nil
	}
	return env.WorkingDir, nil
}

func appOptionsList(value any) ([]Options, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case []Options:
		result := make([]Options, 0, len(typed))
		for _, app := range typed {
			result = append(result, app.Clone())
		}
		return result, nil
	case []any:
		result := make([]Options, 0, len(typed))
		for i, item := range typed {
			app, ok := item.(map[string]any)
			if !ok {
				return nil, NewConfigurationError("", fmt.Sprintf("apps[%d] must be a map", i), nil)
			}
			result = append(result, Options(app).Clone())
		}
		return result, nil
	default:
		return nil, NewConfigurationError("", "apps must be a list", nil)
	}
}

func validateUniqueApps(apps []*AppConfiguration) error {
	seen := make(map[string]struct{}, len(apps))
	for _, app := range apps {
		key := app.CachePath() + "\x00" + app.Name()
		if _, exists := seen[key]; exists {
			return NewConfigurationError(
				app.Name(),
				fmt.Sprintf("another app uses the same name and cache_path %q", app.CachePath()),
				nil,
			)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func isDirectory(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
