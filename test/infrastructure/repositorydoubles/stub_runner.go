//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"strings"

	"github.com/rios0rios0/licensecache/internal/infrastructure/repositories/shell"
)

// StubRunner implements shell.Runner returning canned output and recording calls.
type StubRunner struct {
	Output string
	Err    error
	Calls  []string // "dir: name args..."
}

var _ shell.Runner = (*StubRunner)(nil)

func (s *StubRunner) Execute(_ context.Context, dir, name string, args ...string) (string, error) {
	s.Calls = append(s.Calls, dir+": "+strings.Join(append([]string{name}, args...), " "))
	if s.Err != nil {
		return "", s.Err
	}
	return s.Output, nil
}
