package commands

import (
	"context"
	"fmt"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const commandCache = "cache"

// CacheCommand refreshes the cached dependency records of every app and removes
// records of dependencies that are no longer used.
type CacheCommand struct {
	pipeline *Pipeline
	records  repositories.RecordRepository
	licenses repositories.LicenseRepository
}

// NewCacheCommand creates a new CacheCommand.
func NewCacheCommand(
	pipeline *Pipeline,
	records repositories.RecordRepository,
	licenses repositories.LicenseRepository,
) *CacheCommand {
	return &CacheCommand{pipeline: pipeline, records: records, licenses: licenses}
}

// Execute caches the records of every dependency of every app.
func (it *CacheCommand) Execute(
	ctx context.Context,
	config *entities.Configuration,
	opts RunOptions,
) (bool, error) {
	return it.pipeline.Run(ctx, commandCache, config, opts, &cacheRun{
		command:    it,
		opts:       opts,
		cachePaths: map[string]*cachePathState{},
	})
}

type cacheRun struct {
	command *CacheCommand
	opts    RunOptions

	// apps sharing a cache path are collected together, stale records are only
	// removed once every app of the run was evaluated
	cachePaths map[string]*cachePathState
	order      []string
}

// cachePathState holds the live records of every app writing to one cache path.
type cachePathState struct {
	apps    []*entities.AppConfiguration
	valid   map[string]struct{}
	blocked bool
}

func (it *cacheRun) cachePath(app *entities.AppConfiguration) *cachePathState {
	state, ok := it.cachePaths[app.CachePath()]
	if !ok {
		state = &cachePathState{valid: map[string]struct{}{}}
		it.cachePaths[app.CachePath()] = state
		it.order = append(it.order, app.CachePath())
	}
	state.apps = append(state.apps, app)
	return state
}

func (it *cacheRun) EvaluateDependency(
	ctx context.Context,
	app *entities.AppConfiguration,
	source repositories.SourceRepository,
	dependency *entities.Dependency,
	report *entities.Report,
) (bool, error) {
	if dependency.Path == "" {
		report.AddError("dependency path not found")
		return false, nil
	}

	filename := app.CacheFilePath(source.Type(), dependency.Name)
	report.Set("filename", filename)
	report.Set("version", dependency.Version)

	cached, err := it.command.records.Read(filename)
	if err != nil {
		return false, err
	}

	record, err := it.command.licenses.Record(ctx, dependency)
	if err != nil {
		return false, err
	}
	if record == nil {
		return false, fmt.Errorf("no license record could be computed for %s", dependency.Name)
	}

	matches := cached != nil && record.Matches(cached)
	if matches {
		// the text did not change, keep the classification a reviewer may have set
		record.Set(entities.MetadataLicense, cached.License())
	}

	if it.opts.Force || needsWrite(dependency, cached) {
		if cached != nil && !matches && app.Reviewed(dependency.Identity()) {
			record.Set(entities.MetadataReviewChangedLicense, true)
		}
		if writeErr := it.command.records.Write(filename, record); writeErr != nil {
			return false, writeErr
		}
		logger.Debugf("[%s] %s: cached %s@%s", app.Name(), source.Type(), dependency.Name, dependency.Version)
		report.Set("cached", true)
	}

	if !dependency.Exists() {
		report.AddWarning(fmt.Sprintf("expected dependency path %s does not exist", dependency.Path))
	}
	return true, nil
}

// needsWrite reports whether the cached record is missing, unversioned or out of date.
func needsWrite(dependency *entities.Dependency, cached *entities.DependencyRecord) bool {
	if cached == nil {
		return true
	}
	cachedVersion := cached.Version()
	if cachedVersion == "" {
		return true
	}
	return cachedVersion != dependency.Version
}

// FinalizeApp collects the records every evaluated source reported. Nothing is
// removed from the app's cache path when a source failed to enumerate its dependencies.
func (it *cacheRun) FinalizeApp(
	ctx context.Context,
	app *entities.AppConfiguration,
	sources []repositories.SourceRepository,
	report *entities.Report,
	result bool,
) (bool, error) {
	state := it.cachePath(app)
	for _, source := range sources {
		dependencies, err := source.Dependencies(ctx)
		if err != nil {
			report.AddWarning(fmt.Sprintf(
				"stale records were not removed: %s dependencies could not be enumerated", source.Type(),
			))
			state.blocked = true
			return result, nil
		}
		for _, dependency := range dependencies {
			state.valid[entities.CacheKey(source.Type(), dependency.Name)] = struct{}{}
		}
	}
	return result, nil
}

// FinalizeRun removes, once per cache path, the cached records that no app
// sharing that path reported.
func (it *cacheRun) FinalizeRun(_ context.Context, _ *entities.Report, result bool) (bool, error) {
	for _, cachePath := range it.order {
		state := it.cachePaths[cachePath]
		if state.blocked {
			logger.Debugf("Keeping every record in %s, a source failed to enumerate", cachePath)
			continue
		}
		if err := it.removeStale(cachePath, state); err != nil {
			return false, err
		}
	}
	return result, nil
}

func (it *cacheRun) removeStale(cachePath string, state *cachePathState) error {
	files, err := it.command.records.List(cachePath)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(state.apps))
	for _, app := range state.apps {
		names = append(names, app.Name())
	}

	// every app of the state resolves keys against the same cache path
	app := state.apps[0]
	for _, file := range files {
		key, ok := app.CacheKeyForFile(file)
		if !ok {
			continue
		}
		if _, live := state.valid[key]; live {
			continue
		}
		if len(it.opts.SourceTypes) > 0 && !slices.Contains(it.opts.SourceTypes, sourceTypeOf(key)) {
			continue
		}
		if deleteErr := it.command.records.Delete(file); deleteErr != nil {
			return deleteErr
		}
		logger.Infof("[%s] removed stale record %s", strings.Join(names, ", "), key)
	}
	return nil
}

func sourceTypeOf(key string) string {
	sourceType, _, _ := strings.Cut(key, "/")
	return sourceType
}
