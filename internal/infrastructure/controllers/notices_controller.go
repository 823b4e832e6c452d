package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/reporters"
)

// NoticesController handles the "notices" subcommand.
type NoticesController struct {
	command commands.Notices
	runner  *CommandRunner
}

// NewNoticesController creates a new NoticesController.
func NewNoticesController(command commands.Notices, runner *CommandRunner) *NoticesController {
	return &NoticesController{command: command, runner: runner}
}

// GetBind returns the Cobra command metadata for the notices controller.
func (it *NoticesController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "notices",
		Short: "Write the license and notice texts of every app",
		Long: `Read the cached records of every app and write their license and notice
texts into a NOTICE file inside the app's cache directory.`,
	}
}

func (it *NoticesController) AddFlags(cmd *cobra.Command) {
	AddCommonFlags(cmd, reporters.DefaultFormat(reporters.CommandNotices))
}

// Execute runs the notices command.
func (it *NoticesController) Execute(cmd *cobra.Command, _ []string) error {
	return it.runner.Run(cmd, reporters.CommandNotices, it.command, commands.RunOptions{})
}
