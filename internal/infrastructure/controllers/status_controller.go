package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/reporters"
)

// StatusController handles the "status" subcommand.
type StatusController struct {
	command commands.Status
	runner  *CommandRunner
}

// NewStatusController creates a new StatusController.
func NewStatusController(command commands.Status, runner *CommandRunner) *StatusController {
	return &StatusController{command: command, runner: runner}
}

// GetBind returns the Cobra command metadata for the status controller.
func (it *StatusController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "status",
		Short: "Check the cached records against the license policy",
		Long: `Check that every dependency has an up to date cached record with license text,
and that its license is allowed or the dependency was reviewed.

Exits with a non-zero status when any check fails.`,
	}
}

func (it *StatusController) AddFlags(cmd *cobra.Command) {
	AddCommonFlags(cmd, reporters.DefaultFormat(reporters.CommandStatus))
}

// Execute runs the status command.
func (it *StatusController) Execute(cmd *cobra.Command, _ []string) error {
	return it.runner.Run(cmd, reporters.CommandStatus, it.command, commands.RunOptions{})
}
