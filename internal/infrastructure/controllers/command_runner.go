package controllers

import (
	"fmt"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/reports"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
	"github.com/rios0rios0/licensecache/internal/infrastructure/reporters"
)

const (
	flagConfig   = "config"
	flagFormat   = "format"
	flagSources  = "sources"
	flagForce    = "force"
	flagLicenses = "licenses"
)

// CommandRunner loads the configuration and runs a command with a reporter
// rendering to the cobra command's output. It is shared by every controller.
type CommandRunner struct {
	roots repositories.RootRepository
}

// NewCommandRunner creates a new CommandRunner.
func NewCommandRunner(roots repositories.RootRepository) *CommandRunner {
	return &CommandRunner{roots: roots}
}

// AddCommonFlags adds the flags every command accepts.
func AddCommonFlags(cmd *cobra.Command, defaultFormat string) {
	cmd.Flags().StringP(flagConfig, "c", "",
		"Path to the configuration file or its directory (default: current directory)")
	cmd.Flags().StringP(flagFormat, "f", defaultFormat,
		fmt.Sprintf("Output format (%s, %s, %s)", reporters.FormatText, reporters.FormatYAML, reporters.FormatJSON))
	cmd.Flags().StringSlice(flagSources, nil, "Only evaluate these source types")
}

// Run executes command and returns entities.ErrCommandFailed when its result is false.
func (it *CommandRunner) Run(
	cmd *cobra.Command,
	name string,
	command commands.Command,
	opts commands.RunOptions,
) error {
	config, err := it.LoadConfiguration(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString(flagFormat)
	listener, err := reporters.NewListener(name, format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	opts.Reporter = reports.NewReporter(listener)
	opts.SourceTypes, _ = cmd.Flags().GetStringSlice(flagSources)

	success, err := command.Execute(cmd.Context(), config, opts)
	if err != nil {
		return err
	}
	if !success {
		return fmt.Errorf("%w: %s", entities.ErrCommandFailed, name)
	}
	return nil
}

// LoadConfiguration resolves the configuration named by the --config flag.
func (it *CommandRunner) LoadConfiguration(cmd *cobra.Command) (*entities.Configuration, error) {
	workingDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve the working directory: %w", err)
	}

	configPath, _ := cmd.Flags().GetString(flagConfig)
	env := entities.LoadOptions{ConfigPath: configPath, WorkingDir: workingDir}

	root, rootErr := it.roots.RepositoryRoot(workingDir)
	if rootErr != nil {
		logger.Debugf("Not inside a git repository, apps default to the working directory: %v", rootErr)
	} else {
		env.RepositoryRoot = root
	}

	return entities.LoadConfiguration(env)
}
