package entities

import (
	"maps"
	"slices"
	"sort"
)

// ReportKeyCachedRecord holds the *DependencyRecord loaded by the notices command.
const ReportKeyCachedRecord = "cached_record"

// ReportKind is the nesting level of a report.
type ReportKind int

const (
	RunReport ReportKind = iota
	AppReport
	SourceReport
	DependencyReport
)

func (k ReportKind) String() string {
	switch k {
	case RunReport:
		return "run"
	case AppReport:
		return "app"
	case SourceReport:
		return "source"
	case DependencyReport:
		return "dependency"
	default:
		return "unknown"
	}
}

// Report is one node of the run -> app -> source -> dependency result tree.
// Adding errors, warnings or data never fails.
type Report struct {
	Name     string
	Kind     ReportKind
	Target   any // *AppConfiguration, the source, or *Dependency
	Errors   []string
	Warnings []string
	Reports  []*Report

	data map[string]any
}

// NewReport creates an empty report node.
func NewReport(name string, kind ReportKind, target any) *Report {
	return &Report{Name: name, Kind: kind, Target: target, data: map[string]any{}}
}

// Set stores a value under key.
func (r *Report) Set(key string, value any) { r.data[key] = value }

// Get returns the value stored under key.
func (r *Report) Get(key string) (any, bool) {
	value, ok := r.data[key]
	return value, ok
}

// Data returns a copy of the report's key/value map.
func (r *Report) Data() map[string]any { return maps.Clone(r.data) }

// Keys returns the report's keys, sorted.
func (r *Report) Keys() []string {
	keys := make([]string, 0, len(r.data))
	for key := range r.data {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// AddError appends error messages to the report.
func (r *Report) AddError(messages ...string) { r.Errors = append(r.Errors, messages...) }

// AddWarning appends warning messages to the report.
func (r *Report) AddWarning(messages ...string) { r.Warnings = append(r.Warnings, messages...) }

// Append attaches a closed child report.
func (r *Report) Append(child *Report) { r.Reports = append(r.Reports, child) }

// Walk visits the report and every descendant depth-first, parents first.
func (r *Report) Walk(visit func(report *Report, parents []*Report)) {
	r.walk(nil, visit)
}

func (r *Report) walk(parents []*Report, visit func(*Report, []*Report)) {
	visit(r, parents)
	path := append(slices.Clone(parents), r)
	for _, child := range r.Reports {
		child.walk(path, visit)
	}
}

// ErrorCount returns the number of errors in the report and its descendants.
func (r *Report) ErrorCount() int {
	count := 0
	r.Walk(func(report *Report, _ []*Report) { count += len(report.Errors) })
	return count
}
