package repositories

import (
	"go.uber.org/dig"

	domainRepos "github.com/rios0rios0/licensecache/internal/domain/repositories"
	cargoRepo "github.com/rios0rios0/licensecache/internal/infrastructure/repositories/cargo"
	gitRepo "github.com/rios0rios0/licensecache/internal/infrastructure/repositories/git"
	goRepo "github.com/rios0rios0/licensecache/internal/infrastructure/repositories/golang"
	licenseRepo "github.com/rios0rios0/licensecache/internal/infrastructure/repositories/licenses"
	npmRepo "github.com/rios0rios0/licensecache/internal/infrastructure/repositories/npm"
	recordRepo "github.com/rios0rios0/licensecache/internal/infrastructure/repositories/records"
	"github.com/rios0rios0/licensecache/internal/infrastructure/repositories/shell"
	tfRepo "github.com/rios0rios0/licensecache/internal/infrastructure/repositories/terraform"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register shared infrastructure
	constructors := []any{
		func() shell.Runner { return shell.NewRunner() },
		func() domainRepos.RecordRepository { return recordRepo.NewRecordRepository() },
		func() domainRepos.LicenseRepository { return licenseRepo.NewLicenseRepository() },
		func() domainRepos.RootRepository { return gitRepo.NewRootRepository() },
	}
	for _, constructor := range constructors {
		if err := container.Provide(constructor); err != nil {
			return err
		}
	}

	// Register source registry with all source factories
	return container.Provide(func(runner shell.Runner) *SourceRegistry {
		reg := NewSourceRegistry()
		reg.Register(cargoRepo.SourceType, cargoRepo.NewSourceFactory())
		reg.Register(goRepo.SourceType, goRepo.NewSourceFactory(runner))
		reg.Register(npmRepo.SourceType, npmRepo.NewSourceFactory())
		reg.Register(tfRepo.SourceType, tfRepo.NewSourceFactory())
		return reg
	})
}
