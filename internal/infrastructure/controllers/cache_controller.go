package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/reporters"
)

// CacheController handles the "cache" subcommand.
type CacheController struct {
	command commands.Cache
	runner  *CommandRunner
}

// NewCacheController creates a new CacheController.
func NewCacheController(command commands.Cache, runner *CommandRunner) *CacheController {
	return &CacheController{command: command, runner: runner}
}

// GetBind returns the Cobra command metadata for the cache controller.
func (it *CacheController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "cache",
		Short: "Cache the license metadata of every dependency",
		Long: `Enumerate the dependencies of every configured app and write one record
per dependency into the app's cache directory.

Records are only rewritten when the dependency version changed, unless --force
is given. Records of dependencies that are no longer used are removed.`,
	}
}

// AddFlags adds the cache-specific flags to the given Cobra command.
func (it *CacheController) AddFlags(cmd *cobra.Command) {
	AddCommonFlags(cmd, reporters.DefaultFormat(reporters.CommandCache))
	cmd.Flags().Bool(flagForce, false, "Rewrite every record, even when it is up to date")
}

// Execute runs the cache command.
func (it *CacheController) Execute(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool(flagForce)
	return it.runner.Run(cmd, reporters.CommandCache, it.command, commands.RunOptions{Force: force})
}
