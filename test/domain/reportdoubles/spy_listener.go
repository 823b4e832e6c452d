//go:build integration || unit || test

package reportdoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"fmt"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/reports"
)

// SpyListener records every report lifecycle event as "<begin|end> <kind> <name>".
type SpyListener struct {
	Events []string
	Ended  []*entities.Report
}

var _ reports.Listener = (*SpyListener)(nil)

func (s *SpyListener) BeginReport(report *entities.Report) {
	s.Events = append(s.Events, fmt.Sprintf("begin %s %s", report.Kind, report.Name))
}

func (s *SpyListener) EndReport(report *entities.Report) {
	s.Events = append(s.Events, fmt.Sprintf("end %s %s", report.Kind, report.Name))
	s.Ended = append(s.Ended, report)
}
