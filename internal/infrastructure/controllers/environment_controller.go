package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/reporters"
)

// EnvironmentController handles the "env" subcommand.
type EnvironmentController struct {
	command commands.Environment
	runner  *CommandRunner
}

// NewEnvironmentController creates a new EnvironmentController.
func NewEnvironmentController(command commands.Environment, runner *CommandRunner) *EnvironmentController {
	return &EnvironmentController{command: command, runner: runner}
}

// GetBind returns the Cobra command metadata for the environment controller.
func (it *EnvironmentController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "env",
		Short: "Show the resolved settings of every app",
		Long:  "Show the name, paths and enabled sources of every configured app after expansion.",
	}
}

func (it *EnvironmentController) AddFlags(cmd *cobra.Command) {
	AddCommonFlags(cmd, reporters.DefaultFormat(reporters.CommandEnvironment))
}

// Execute runs the environment command.
func (it *EnvironmentController) Execute(cmd *cobra.Command, _ []string) error {
	return it.runner.Run(cmd, reporters.CommandEnvironment, it.command, commands.RunOptions{})
}
