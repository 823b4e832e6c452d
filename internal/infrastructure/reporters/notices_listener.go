package reporters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

const noticesSeparator = "----------------------------------------------------------------------"

// NoticesListener writes one notices file per app from the cached records loaded
// by the notices command.
type NoticesListener struct {
	textWriter
}

// NewNoticesListener creates a new NoticesListener.
func NewNoticesListener(out io.Writer) *NoticesListener {
	return &NoticesListener{textWriter: newTextWriter(out)}
}

func (it *NoticesListener) BeginReport(*entities.Report) {}

func (it *NoticesListener) EndReport(report *entities.Report) {
	if report.Kind != entities.AppReport {
		if report.Kind == entities.DependencyReport || report.Kind == entities.SourceReport {
			it.printProblems(report, "  ")
		}
		return
	}

	app, ok := report.Target.(*entities.AppConfiguration)
	if !ok {
		return
	}

	path := app.NoticesFilePath()
	if err := writeNotices(path, report); err != nil {
		logger.Errorf("[%s] failed to write notices: %v", app.Name(), err)
		it.printf("%s\n", it.styles.failure.Render(fmt.Sprintf("error: failed to write %s: %v", path, err)))
		return
	}
	it.printf("%s\n", it.styles.title.Render(fmt.Sprintf("Writing notices for %s to %s", app.Name(), path)))
}

func writeNotices(path string, app *entities.Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(RenderNotices(app)), 0o644)
}

// RenderNotices renders the license and notice texts of every cached record in an app report.
func RenderNotices(app *entities.Report) string {
	var builder strings.Builder
	builder.WriteString(app.Name + " THIRD PARTY NOTICES\n\n")
	builder.WriteString("This file lists the third party dependencies of " + app.Name +
		" with their licenses and notices.\n")

	for _, source := range app.Reports {
		for _, dependency := range source.Reports {
			value, _ := dependency.Get(entities.ReportKeyCachedRecord)
			record, ok := value.(*entities.DependencyRecord)
			if !ok {
				continue
			}

			builder.WriteString("\n" + noticesSeparator + "\n\n")
			fmt.Fprintf(&builder, "%s/%s %s\n", source.Name, record.Name(), record.Version())
			fmt.Fprintf(&builder, "license: %s\n", record.License())
			for _, text := range slices.Concat(record.Licenses, record.Notices) {
				if strings.TrimSpace(text.Text) == "" {
					continue
				}
				builder.WriteString("\n" + strings.TrimRight(text.Text, "\n") + "\n")
			}
		}
	}
	return builder.String()
}
