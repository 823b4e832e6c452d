package controllers

import (
	"github.com/spf13/cobra"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/infrastructure/reporters"
)

// ListController handles the "list" subcommand.
type ListController struct {
	command commands.List
	runner  *CommandRunner
}

// NewListController creates a new ListController.
func NewListController(command commands.List, runner *CommandRunner) *ListController {
	return &ListController{command: command, runner: runner}
}

// GetBind returns the Cobra command metadata for the list controller.
func (it *ListController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "list",
		Short: "List the dependencies of every app",
		Long:  "List the dependencies found for every configured app without reading or writing the cache.",
	}
}

func (it *ListController) AddFlags(cmd *cobra.Command) {
	AddCommonFlags(cmd, reporters.DefaultFormat(reporters.CommandList))
	cmd.Flags().Bool(flagLicenses, false, "Detect and show the license of every dependency")
}

// Execute runs the list command.
func (it *ListController) Execute(cmd *cobra.Command, _ []string) error {
	licenses, _ := cmd.Flags().GetBool(flagLicenses)
	return it.runner.Run(cmd, reporters.CommandList, it.command, commands.RunOptions{Licenses: licenses})
}
