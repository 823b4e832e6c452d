package shell

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// Runner executes external commands.
type Runner interface {
	// Execute runs the command in dir and returns its trimmed standard output.
	// A failed command is returned as *entities.ShellError.
	Execute(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// NewRunner creates a new ExecRunner.
func NewRunner() *ExecRunner {
	return &ExecRunner{}
}

func (it *ExecRunner) Execute(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	commandLine := strings.TrimSpace(name + " " + strings.Join(args, " "))
	logger.Debugf("Running '%s' in %s", commandLine, dir)

	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return "", &entities.ShellError{
			Command:  commandLine,
			ExitCode: exitCode,
			Stderr:   stderr.String(),
			Err:      err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}
