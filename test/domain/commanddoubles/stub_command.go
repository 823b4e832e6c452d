//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/licensecache/internal/domain/commands"
	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// StubCommand is a stub implementation of every licensecache command.
type StubCommand struct {
	Result           bool
	ExecuteErr       error
	ExecuteCallCount int
	LastConfig       *entities.Configuration
	LastOpts         commands.RunOptions
}

var (
	_ commands.Cache       = (*StubCommand)(nil)
	_ commands.Status      = (*StubCommand)(nil)
	_ commands.List        = (*StubCommand)(nil)
	_ commands.Notices     = (*StubCommand)(nil)
	_ commands.Environment = (*StubCommand)(nil)
)

func (s *StubCommand) Execute(
	_ context.Context,
	config *entities.Configuration,
	opts commands.RunOptions,
) (bool, error) {
	s.ExecuteCallCount++
	s.LastConfig = config
	s.LastOpts = opts
	return s.Result, s.ExecuteErr
}
