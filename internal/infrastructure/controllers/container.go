package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	constructors := []any{
		NewCommandRunner,
		NewCacheController,
		NewStatusController,
		NewListController,
		NewNoticesController,
		NewEnvironmentController,
		NewControllers,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	cacheController *CacheController,
	statusController *StatusController,
	listController *ListController,
	noticesController *NoticesController,
	environmentController *EnvironmentController,
) *[]entities.Controller {
	return &[]entities.Controller{
		cacheController,
		statusController,
		listController,
		noticesController,
		environmentController,
	}
}
