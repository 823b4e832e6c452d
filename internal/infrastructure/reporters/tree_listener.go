package reporters

import (
	"encoding/json"
	"io"
	"maps"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
)

// Encoder serializes a report document to out.
type Encoder func(out io.Writer, document map[string]any) error

// EncodeYAML writes the document as YAML.
func EncodeYAML(out io.Writer, document map[string]any) error {
	encoder := yaml.NewEncoder(out)
	encoder.SetIndent(2)
	if err := encoder.Encode(document); err != nil {
		return err
	}
	return encoder.Close()
}

// EncodeJSON writes the document as indented JSON.
func EncodeJSON(out io.Writer, document map[string]any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(document)
}

// TreeListener serializes the whole report tree once the run report closes.
type TreeListener struct {
	out    io.Writer
	encode Encoder
}

// NewTreeListener creates a listener writing the finished run with encode.
func NewTreeListener(out io.Writer, encode Encoder) *TreeListener {
	return &TreeListener{out: out, encode: encode}
}

func (it *TreeListener) BeginReport(*entities.Report) {}

func (it *TreeListener) EndReport(report *entities.Report) {
	if report.Kind != entities.RunReport {
		return
	}
	if err := it.encode(it.out, Document(report)); err != nil {
		logger.Errorf("failed to write the %s report: %v", report.Name, err)
	}
}

// childKeys names the list holding the children of each report kind.
var childKeys = map[entities.ReportKind]string{
	entities.RunReport:    "apps",
	entities.AppReport:    "sources",
	entities.SourceReport: "dependencies",
}

// Document converts a report and its descendants to plain maps and slices.
func Document(report *entities.Report) map[string]any {
	document := map[string]any{}
	for key, value := range report.Data() {
		document[key] = plain(value)
	}
	if report.Kind != entities.RunReport {
		document["name"] = report.Name
	}
	if len(report.Errors) > 0 {
		document["errors"] = report.Errors
	}
	if len(report.Warnings) > 0 {
		document["warnings"] = report.Warnings
	}

	if key, ok := childKeys[report.Kind]; ok {
		children := make([]map[string]any, 0, len(report.Reports))
		for _, child := range report.Reports {
			children = append(children, Document(child))
		}
		document[key] = children
	}
	return document
}

func plain(value any) any {
	record, ok := value.(*entities.DependencyRecord)
	if !ok {
		return value
	}

	converted := maps.Clone(record.Metadata)
	if converted == nil {
		converted = map[string]any{}
	}
	converted["licenses"] = record.Licenses
	converted["notices"] = record.Notices
	return converted
}
