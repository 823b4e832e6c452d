package reporters

import (
	"fmt"
	"io"

	"github.com/rios0rios0/licensecache/internal/domain/reports"
)

const (
	FormatText = "text"
	FormatYAML = "yaml"
	FormatJSON = "json"

	CommandCache       = "cache"
	CommandStatus      = "status"
	CommandList        = "list"
	CommandNotices     = "notices"
	CommandEnvironment = "environment"
)

// DefaultFormat returns the output format used when none is requested.
func DefaultFormat(command string) string {
	if command == CommandEnvironment {
		return FormatYAML
	}
	return FormatText
}

// NewListener returns the listener rendering the reports of command in format to out.
func NewListener(command, format string, out io.Writer) (reports.Listener, error) {
	switch format {
	case "":
		return NewListener(command, DefaultFormat(command), out)
	case FormatYAML:
		return NewTreeListener(out, EncodeYAML), nil
	case FormatJSON:
		return NewTreeListener(out, EncodeJSON), nil
	case FormatText:
		return newTextListener(command, out), nil
	default:
		return nil, fmt.Errorf("unknown format %q, expected one of %s, %s or %s",
			format, FormatText, FormatYAML, FormatJSON)
	}
}

func newTextListener(command string, out io.Writer) reports.Listener {
	switch command {
	case CommandCache:
		return NewCacheListener(out)
	case CommandStatus:
		return NewStatusListener(out)
	case CommandList:
		return NewListListener(out)
	case CommandNotices:
		return NewNoticesListener(out)
	default:
		return NewEnvironmentListener(out)
	}
}
