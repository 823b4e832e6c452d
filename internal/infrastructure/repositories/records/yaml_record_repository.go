package records

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const (
	dirMode  = 0o755
	fileMode = 0o644

	keyLicenses = "licenses"
	keyNotices  = "notices"
)

// leadingKeys are written first, in this order; other metadata follows sorted.
//
//nolint:gochecknoglobals // read-only ordering table
var leadingKeys = []string{
	entities.MetadataName,
	entities.MetadataVersion,
	entities.MetadataType,
	entities.MetadataSummary,
	entities.MetadataHomepage,
	entities.MetadataLicense,
}

// YAMLRecordRepository stores dependency records as YAML documents.
type YAMLRecordRepository struct{}

var _ repositories.RecordRepository = (*YAMLRecordRepository)(nil)

// NewRecordRepository creates a new YAML record repository.
func NewRecordRepository() *YAMLRecordRepository {
	return &YAMLRecordRepository{}
}

// Read parses the record at path. A missing file is a cache miss, not an error.
func (it *YAMLRecordRepository) Read(path string) (*entities.DependencyRecord, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil //nolint:nilnil // a missing record is a cache miss
	}
	if err != nil {
		return nil, &entities.RecordError{Path: path, Err: err}
	}

	raw := map[string]any{}
	if unmarshalErr := yaml.Unmarshal(data, &raw); unmarshalErr != nil {
		return nil, &entities.RecordError{Path: path, Err: fmt.Errorf("failed to parse: %w", unmarshalErr)}
	}

	licenses, err := decodeTexts(raw[keyLicenses])
	if err != nil {
		return nil, &entities.RecordError{Path: path, Err: err}
	}
	notices, err := decodeTexts(raw[keyNotices])
	if err != nil {
		return nil, &entities.RecordError{Path: path, Err: err}
	}
	delete(raw, keyLicenses)
	delete(raw, keyNotices)

	return entities.NewDependencyRecord(raw, licenses, notices), nil
}

// Write serializes the record to path, creating missing parent directories.
func (it *YAMLRecordRepository) Write(path string, record *entities.DependencyRecord) error {
	data, err := Encode(record)
	if err != nil {
		return &entities.RecordError{Path: path, Err: err}
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(path), dirMode); mkdirErr != nil {
		return &entities.RecordError{Path: path, Err: mkdirErr}
	}
	if writeErr := os.WriteFile(path, data, fileMode); writeErr != nil {
		return &entities.RecordError{Path: path, Err: writeErr}
	}
	return nil
}

// List returns every record file under dir, sorted. A missing dir holds no records.
func (it *YAMLRecordRepository) List(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrNotExist) && path == dir {
				return filepath.SkipDir
			}
			return walkErr
		}
		if !entry.IsDir() && strings.HasSuffix(path, "."+entities.RecordExtension) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list records in %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

// Delete removes the record file at path.
func (it *YAMLRecordRepository) Delete(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &entities.RecordError{Path: path, Err: err}
	}
	return nil
}

// Encode renders a record with a stable key order: well-known metadata first,
// remaining metadata sorted, then licenses and notices.
func Encode(record *entities.DependencyRecord) ([]byte, error) {
	document := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, key := range orderedKeys(record.Metadata) {
		if err := addPair(document, key, record.Metadata[key]); err != nil {
			return nil, err
		}
	}
	if err := addPair(document, keyLicenses, nonNilTexts(record.Licenses)); err != nil {
		return nil, err
	}
	if err := addPair(document, keyNotices, nonNilTexts(record.Notices)); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(document); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode record: %w", err)
	}
	return buf.Bytes(), nil
}

func orderedKeys(metadata map[string]any) []string {
	keys := make([]string, 0, len(metadata))
	seen := make(map[string]struct{}, len(leadingKeys))
	for _, key := range leadingKeys {
		if _, ok := metadata[key]; ok {
			keys = append(keys, key)
			seen[key] = struct{}{}
		}
	}

	var rest []string
	for key := range metadata {
		if _, ok := seen[key]; !ok && key != keyLicenses && key != keyNotices {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func addPair(node *yaml.Node, key string, value any) error {
	keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	valueNode := &yaml.Node{}
	if err := valueNode.Encode(value); err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	node.Content = append(node.Content, keyNode, valueNode)
	return nil
}

func nonNilTexts(texts []entities.LicenseText) []entities.LicenseText {
	if texts == nil {
		return []entities.LicenseText{}
	}
	return texts
}

// decodeTexts accepts `{sources, text}` entries as well as bare text entries.
func decodeTexts(value any) ([]entities.LicenseText, error) {
	items, ok := value.([]any)
	if value == nil {
		return nil, nil
	}
	if !ok {
		return nil, fmt.Errorf("expected a list of texts but found %T", value)
	}

	texts := make([]entities.LicenseText, 0, len(items))
	for _, item := range items {
		switch typed := item.(type) {
		case string:
			texts = append(texts, entities.LicenseText{Text: typed})
		case map[string]any:
			sources, _ := typed["sources"].(string)
			text, _ := typed["text"].(string)
			texts = append(texts, entities.LicenseText{Sources: sources, Text: text})
		default:
			return nil, fmt.Errorf("unexpected text entry %v", item)
		}
	}
	return texts, nil
}
