package commands

import (
	"go.uber.org/dig"
)

// Cache is the interface for the cache command.
type Cache interface{ Command }

// Status is the interface for the status command.
type Status interface{ Command }

// List is the interface for the list command.
type List interface{ Command }

// Notices is the interface for the notices command.
type Notices interface{ Command }

// Environment is the interface for the environment command.
type Environment interface{ Command }

// RegisterProviders registers all command providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register command constructors
	constructors := []any{
		NewPipeline,
		NewCacheCommand,
		NewStatusCommand,
		NewListCommand,
		NewNoticesCommand,
		NewEnvironmentCommand,
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Bind interfaces to implementations
	bindings := []any{
		func(impl *CacheCommand) Cache { return impl },
		func(impl *StatusCommand) Status { return impl },
		func(impl *ListCommand) List { return impl },
		func(impl *NoticesCommand) Notices { return impl },
		func(impl *EnvironmentCommand) Environment { return impl },
	}
	for _, binding := range bindings {
		if err := container.Provide(binding); err != nil {
			return err
		}
	}

	return nil
}
