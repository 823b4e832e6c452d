package entities

import (
	"maps"
	"os"
)

// Metadata keys shared by dependencies and their records.
const (
	MetadataName                 = "name"
	MetadataVersion              = "version"
	MetadataType                 = "type"
	MetadataSummary              = "summary"
	MetadataHomepage             = "homepage"
	MetadataLicense              = "license"
	MetadataReviewChangedLicense = "review_changed_license"
)

// DependencyIdentity is what ignore/review patterns are matched against.
type DependencyIdentity struct {
	Type    string
	Name    string
	Version string
}

func (id DependencyIdentity) pattern(atVersion bool) string {
	if atVersion && id.Version != "" {
		return id.Name + "@" + id.Version
	}
	return id.Name
}

// Dependency is a dependency enumerated from a source during one command run.
type Dependency struct {
	Name     string
	Version  string
	Type     string         // source type that enumerated the dependency
	Path     string         // absolute path of the dependency's files
	Errors   []string       // enumeration problems; a dependency with errors has no record
	Metadata map[string]any // extra record metadata such as summary or homepage
}

// Identity returns the type, name and version of the dependency.
func (d *Dependency) Identity() DependencyIdentity {
	return DependencyIdentity{Type: d.Type, Name: d.Name, Version: d.Version}
}

// HasErrors reports whether the source attached errors to the dependency.
func (d *Dependency) HasErrors() bool { return len(d.Errors) > 0 }

// Exists reports whether the dependency path is present on disk.
func (d *Dependency) Exists() bool {
	if d.Path == "" {
		return false
	}
	_, err := os.Stat(d.Path)
	return err == nil
}

// RecordMetadata returns the metadata a fresh record of this dependency starts from.
func (d *Dependency) RecordMetadata() map[string]any {
	metadata := maps.Clone(d.Metadata)
	if metadata == nil {
		metadata = map[string]any{}
	}
	metadata[MetadataName] = d.Name
	metadata[MetadataVersion] = d.Version
	metadata[MetadataType] = d.Type
	return metadata
}

// DisambiguateNames renames dependencies sharing a name to `<name>-<version>` so
// that every dependency of a source maps to its own cache file.
func DisambiguateNames(dependencies []*Dependency) {
	counts := make(map[string]int, len(dependencies))
	for _, dependency := range dependencies {
		counts[dependency.Name]++
	}
	for _, dependency := range dependencies {
		if counts[dependency.Name] > 1 && dependency.Version != "" {
			dependency.Name = dependency.Name + "-" + dependency.Version
		}
	}
}
