package entities

import (
	"fmt"
	"maps"
	"regexp"
	"strings"
)

// RecordExtension is the file extension of cached dependency records.
const RecordExtension = "dep.yml"

// LicenseText is one license or notice text with the files it was read from.
type LicenseText struct {
	Sources string `yaml:"sources" json:"sources"`
	Text    string `yaml:"text"    json:"text"`
}

// DependencyRecord is the persisted license summary of one dependency.
type DependencyRecord struct {
	Metadata map[string]any
	Licenses []LicenseText
	Notices  []LicenseText
}

// NewDependencyRecord creates a record from metadata, license and notice texts.
func NewDependencyRecord(metadata map[string]any, licenses, notices []LicenseText) *DependencyRecord {
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &DependencyRecord{
		Metadata: maps.Clone(metadata),
		Licenses: licenses,
		Notices:  notices,
	}
}

// Get returns a metadata value.
func (r *DependencyRecord) Get(key string) (any, bool) {
	value, ok := r.Metadata[key]
	return value, ok
}

// Set assigns a metadata value.
func (r *DependencyRecord) Set(key string, value any) {
	r.Metadata[key] = value
}

// String returns a metadata value formatted as a string, empty when absent.
func (r *DependencyRecord) String(key string) string {
	value, ok := r.Metadata[key]
	if !ok || value == nil {
		return ""
	}
	if str, isString := value.(string); isString {
		return str
	}
	return fmt.Sprint(value)
}

func (r *DependencyRecord) Name() string    { return r.String(MetadataName) }
func (r *DependencyRecord) Version() string { return r.String(MetadataVersion) }
func (r *DependencyRecord) License() string { return r.String(MetadataLicense) }

// ReviewChangedLicense reports whether the record is flagged for re-review.
func (r *DependencyRecord) ReviewChangedLicense() bool {
	flag, ok := r.Metadata[MetadataReviewChangedLicense].(bool)
	return ok && flag
}

// Identity returns the type, name and version stored in the record.
func (r *DependencyRecord) Identity() DependencyIdentity {
	return DependencyIdentity{Type: r.String(MetadataType), Name: r.Name(), Version: r.Version()}
}

// Content returns every license text concatenated.
func (r *DependencyRecord) Content() string {
	var sb strings.Builder
	for _, license := range r.Licenses {
		sb.WriteString(license.Text)
	}
	return sb.String()
}

// HasLicenseText reports whether at least one non-blank license text is recorded.
func (r *DependencyRecord) HasLicenseText() bool {
	return strings.TrimSpace(r.Content()) != ""
}

// Matches reports whether both records carry the same license content once
// whitespace, punctuation, casing and copyright lines are normalized away.
func (r *DependencyRecord) Matches(other *DependencyRecord) bool {
	if r == nil || other == nil {
		return false
	}
	return NormalizeContent(r.Content()) == NormalizeContent(other.Content())
}

var (
	copyrightLine = regexp.MustCompile(`(?im)^\s*(copyright|\(c\)|©).*$`)
	nonWordRun    = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

// NormalizeContent reduces license text to lowercase words separated by single spaces.
func NormalizeContent(text string) string {
	text = copyrightLine.ReplaceAllString(text, " ")
	text = nonWordRun.ReplaceAllString(strings.ToLower(text), " ")
	return strings.TrimSpace(text)
}
