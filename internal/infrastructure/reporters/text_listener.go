package reporters

import (
	"fmt"
	"io"
	"strings"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// textWriter holds the output and styles shared by the text listeners.
type textWriter struct {
	out    io.Writer
	styles styles
}

func newTextWriter(out io.Writer) textWriter {
	return textWriter{out: out, styles: newStyles(out)}
}

func (it textWriter) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(it.out, format, args...)
}

// printProblems prints the warnings and errors of a single report under an indent.
func (it textWriter) printProblems(report *entities.Report, indent string) {
	for _, warning := range report.Warnings {
		it.printf("%s%s\n", indent, it.styles.warning.Render("warning: "+warning))
	}
	for _, message := range report.Errors {
		it.printf("%s%s\n", indent, it.styles.failure.Render("error: "+message))
	}
}

// CacheListener prints progress while records are cached.
type CacheListener struct {
	textWriter
}

// NewCacheListener creates a new CacheListener.
func NewCacheListener(out io.Writer) *CacheListener {
	return &CacheListener{textWriter: newTextWriter(out)}
}

func (it *CacheListener) BeginReport(report *entities.Report) {
	switch report.Kind {
	case entities.AppReport:
		it.printf("%s\n", it.styles.title.Render("Caching dependency records for "+report.Name))
	case entities.SourceReport:
		it.printf("  %s\n", it.styles.header.Render(report.Name))
	default:
	}
}

func (it *CacheListener) EndReport(report *entities.Report) {
	switch report.Kind {
	case entities.DependencyReport:
		if cached, _ := report.Get("cached"); cached == true {
			version, _ := report.Get("version")
			it.printf("    Caching %s (%v)\n", report.Name, version)
		}
		it.printProblems(report, "      ")
	case entities.SourceReport:
		it.printProblems(report, "    ")
	case entities.AppReport:
		it.printProblems(report, "  ")
	case entities.RunReport:
		it.printProblems(report, "")
		if count := report.ErrorCount(); count > 0 {
			it.printf("%s\n", it.styles.failure.Render(fmt.Sprintf("%d errors found", count)))
		}
	}
}

// StatusListener prints a mark per checked dependency and a summary of the errors.
type StatusListener struct {
	textWriter
}

// NewStatusListener creates a new StatusListener.
func NewStatusListener(out io.Writer) *StatusListener {
	return &StatusListener{textWriter: newTextWriter(out)}
}

func (it *StatusListener) BeginReport(*entities.Report) {}

func (it *StatusListener) EndReport(report *entities.Report) {
	switch report.Kind {
	case entities.DependencyReport:
		if len(report.Errors) > 0 {
			it.printf("%s", it.styles.failure.Render("F"))
		} else {
			it.printf("%s", it.styles.success.Render("."))
		}
	case entities.RunReport:
		it.printSummary(report)
	default:
	}
}

func (it *StatusListener) printSummary(run *entities.Report) {
	it.printf("\n")

	checked := 0
	errorCount := 0
	run.Walk(func(report *entities.Report, parents []*entities.Report) {
		if report.Kind == entities.DependencyReport {
			checked++
		}
		if len(report.Errors) == 0 {
			return
		}
		errorCount += len(report.Errors)

		it.printf("\n%s:\n", it.styles.header.Render(location(report, parents)))
		for _, message := range report.Errors {
			it.printf("  - %s\n", message)
		}
	})

	summary := fmt.Sprintf("%d dependencies checked, %d errors found.", checked, errorCount)
	if errorCount > 0 {
		it.printf("\n%s\n", it.styles.failure.Render(summary))
		return
	}
	it.printf("\n%s\n", it.styles.success.Render(summary))
}

// location names a report by its filename when one is known, otherwise by its path in the tree.
func location(report *entities.Report, parents []*entities.Report) string {
	if filename, ok := report.Get("filename"); ok {
		if value, isString := filename.(string); isString && value != "" {
			return value
		}
	}
	names := make([]string, 0, len(parents)+1)
	for _, parent := range parents {
		if parent.Kind != entities.RunReport {
			names = append(names, parent.Name)
		}
	}
	return strings.Join(append(names, report.Name), "/")
}

// ListListener prints every dependency grouped by app and source.
type ListListener struct {
	textWriter
}

// NewListListener creates a new ListListener.
func NewListListener(out io.Writer) *ListListener {
	return &ListListener{textWriter: newTextWriter(out)}
}

func (it *ListListener) BeginReport(report *entities.Report) {
	switch report.Kind {
	case entities.AppReport:
		it.printf("%s\n", it.styles.title.Render(report.Name))
	case entities.SourceReport:
		it.printf("  %s\n", it.styles.header.Render(report.Name))
	default:
	}
}

func (it *ListListener) EndReport(report *entities.Report) {
	switch report.Kind {
	case entities.DependencyReport:
		version, _ := report.Get("version")
		line := fmt.Sprintf("    %s (%v)", report.Name, version)
		if license, ok := report.Get("license"); ok {
			line += it.styles.dim.Render(fmt.Sprintf(": %v", license))
		}
		it.printf("%s\n", line)
		it.printProblems(report, "      ")
	case entities.SourceReport:
		it.printProblems(report, "    ")
	case entities.AppReport:
		it.printProblems(report, "  ")
	case entities.RunReport:
		it.printProblems(report, "")
	}
}

// EnvironmentListener prints the settings of every app as indented key/value pairs.
type EnvironmentListener struct {
	textWriter
}

// NewEnvironmentListener creates a new EnvironmentListener.
func NewEnvironmentListener(out io.Writer) *EnvironmentListener {
	return &EnvironmentListener{textWriter: newTextWriter(out)}
}

func (it *EnvironmentListener) BeginReport(*entities.Report) {}

func (it *EnvironmentListener) EndReport(report *entities.Report) {
	if report.Kind != entities.AppReport {
		it.printProblems(report, "")
		return
	}

	it.printf("%s\n", it.styles.title.Render(report.Name))
	for _, key := range report.Keys() {
		value, _ := report.Get(key)
		if list, ok := value.([]string); ok {
			value = strings.Join(list, ", ")
		}
		it.printf("  %s: %v\n", it.styles.dim.Render(key), value)
	}
	it.printProblems(report, "  ")
}
