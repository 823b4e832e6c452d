package licenses

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/licensecheck"
	logger "github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const (
	// LicenseNone is the classification of a dependency without any license text.
	LicenseNone = "none"
	// LicenseOther is the classification of texts that do not match exactly one known license.
	LicenseOther = "other"

	minCoveragePercent = 75.0
	maxFileSize        = 1 << 20
)

//nolint:gochecknoglobals // read-only file name prefixes
var (
	licensePrefixes = []string{"license", "licence", "copying", "unlicense"}
	noticePrefixes  = []string{"notice", "authors", "copyright", "third_party_notices", "thirdpartynotices"}
	readmePrefixes  = []string{"readme"}
)

// LicenseRepository reads license and notice files from a dependency directory
// and classifies them with licensecheck.
type LicenseRepository struct{}

var _ repositories.LicenseRepository = (*LicenseRepository)(nil)

// NewLicenseRepository creates a new LicenseRepository.
func NewLicenseRepository() *LicenseRepository {
	return &LicenseRepository{}
}

// Record computes the license record of a dependency.
func (it *LicenseRepository) Record(
	_ context.Context,
	dependency *entities.Dependency,
) (*entities.DependencyRecord, error) {
	if dependency.HasErrors() {
		return nil, nil //nolint:nilnil // dependencies with errors have no record
	}

	licenses, notices, err := scanDirectory(dependency.Path)
	if err != nil {
		return nil, err
	}

	metadata := dependency.RecordMetadata()
	metadata[entities.MetadataLicense] = Classify(licenses)
	return entities.NewDependencyRecord(metadata, licenses, notices), nil
}

// Classify returns the lowercase SPDX identifier shared by every license text,
// LicenseOther when texts disagree or are not recognized, or LicenseNone without text.
func Classify(texts []entities.LicenseText) string {
	keys := map[string]struct{}{}
	for _, text := range texts {
		if strings.TrimSpace(text.Text) == "" {
			continue
		}
		keys[classifyText(text.Text)] = struct{}{}
	}

	switch len(keys) {
	case 0:
		return LicenseNone
	case 1:
		for key := range keys {
			return key
		}
	}
	return LicenseOther
}

func classifyText(text string) string {
	coverage := licensecheck.Scan([]byte(text))
	if coverage.Percent < minCoveragePercent {
		return LicenseOther
	}

	ids := map[string]struct{}{}
	for _, match := range coverage.Match {
		if match.IsURL {
			continue
		}
		ids[strings.ToLower(match.ID)] = struct{}{}
	}
	if len(ids) != 1 {
		return LicenseOther
	}
	for id := range ids {
		return id
	}
	return LicenseOther
}

// scanDirectory reads the license and notice files at the top of dir. When no
// license file exists, the license section of a README is used instead.
func scanDirectory(dir string) ([]entities.LicenseText, []entities.LicenseText, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) || dir == "" {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}

	var licenses, notices, readmes []entities.LicenseText
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		lower := strings.ToLower(name)
		switch {
		case hasAnyPrefix(lower, licensePrefixes):
			licenses = appendText(licenses, dir, name)
		case hasAnyPrefix(lower, noticePrefixes):
			notices = appendText(notices, dir, name)
		case hasAnyPrefix(lower, readmePrefixes):
			readmes = appendText(readmes, dir, name)
		}
	}

	if len(licenses) == 0 {
		for _, readme := range readmes {
			if section := ReadmeLicenseSection(readme.Text); section != "" {
				licenses = append(licenses, entities.LicenseText{Sources: readme.Sources, Text: section})
				break
			}
		}
	}
	return licenses, notices, nil
}

func appendText(texts []entities.LicenseText, dir, name string) []entities.LicenseText {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil || info.Size() > maxFileSize {
		logger.Debugf("Skipping %s", path)
		return texts
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Debugf("Failed to read %s: %v", path, err)
		return texts
	}
	return append(texts, entities.LicenseText{Sources: name, Text: strings.TrimSpace(string(data))})
}

// ReadmeLicenseSection returns the body of a markdown "License" heading, up to the
// next heading of the same or a higher level.
func ReadmeLicenseSection(readme string) string {
	source := []byte(readme)
	document := goldmark.DefaultParser().Parse(text.NewReader(source))

	level := 0
	start, end := -1, len(source)
	for node := document.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Lines().Len() == 0 {
			continue
		}

		if start < 0 {
			title := strings.ToLower(strings.TrimSpace(string(heading.Lines().Value(source))))
			if strings.HasPrefix(title, "license") || strings.HasPrefix(title, "licence") {
				level = heading.Level
				start = headingEnd(heading, source)
			}
			continue
		}
		if heading.Level <= level {
			end = lineStart(source, heading.Lines().At(0).Start)
			break
		}
	}

	if start < 0 || start >= end {
		return ""
	}
	return strings.TrimSpace(string(source[start:end]))
}

// headingEnd returns the offset of the line following a heading, skipping the
// underline of setext headings.
func headingEnd(heading *ast.Heading, source []byte) int {
	first := heading.Lines().At(0)
	last := heading.Lines().At(heading.Lines().Len() - 1)

	end := lineEnd(source, max(last.Stop-1, last.Start))
	prefix := strings.TrimLeft(string(source[lineStart(source, first.Start):first.Start]), " ")
	if !strings.HasPrefix(prefix, "#") {
		end = lineEnd(source, end)
	}
	return end
}

func lineStart(source []byte, offset int) int {
	return bytes.LastIndexByte(source[:offset], '\n') + 1
}

func lineEnd(source []byte, offset int) int {
	if offset >= len(source) {
		return len(source)
	}
	index := bytes.IndexByte(source[offset:], '\n')
	if index < 0 {
		return len(source)
	}
	return offset + index + 1
}

func hasAnyPrefix(value string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}
