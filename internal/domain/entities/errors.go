package entities

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrReportProtocol is returned when reports are opened out of the run -> app -> source -> dependency order.
	ErrReportProtocol = errors.New("report protocol violation")

	// ErrCommandFailed is returned by controllers when a command finished with a failing result.
	ErrCommandFailed = errors.New("command failed")
)

// ConfigurationError is a fatal error raised while loading the configuration,
// before any dependency is traversed.
type ConfigurationError struct {
	App    string // app name or source_path, empty for global settings
	Reason string
	Err    error
}

// NewConfigurationError creates a ConfigurationError for the given app.
func NewConfigurationError(app, reason string, err error) *ConfigurationError {
	return &ConfigurationError{App: app, Reason: reason, Err: err}
}

func (e *ConfigurationError) Error() string {
	var sb strings.Builder
	sb.WriteString("invalid configuration")
	if e.App != "" {
		fmt.Fprintf(&sb, " for app %q", e.App)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ShellError describes a failed external command.
type ShellError struct {
	Command  string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ShellError) Error() string {
	msg := fmt.Sprintf("'%s' exited with status %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += "\n  " + strings.ReplaceAll(stderr, "\n", "\n  ")
	}
	return msg
}

func (e *ShellError) Unwrap() error { return e.Err }

// RecordError is returned when a cached dependency record cannot be read or written.
type RecordError struct {
	Path string
	Err  error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("dependency record %s: %v", e.Path, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
