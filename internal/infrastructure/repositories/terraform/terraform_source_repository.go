package terraform

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	logger "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/licensecache/internal/domain/entities"
	"github.com/rios0rios0/licensecache/internal/domain/repositories"
)

const (
	// SourceType identifies Terraform module dependencies.
	SourceType = "terraform"

	modulesManifest = ".terraform/modules/modules.json"
	registryPrefix  = "https://registry.terraform.io/modules/"
)

// SourceRepository enumerates the `module` blocks of the app's root Terraform module.
type SourceRepository struct {
	app *entities.AppConfiguration
}

var _ repositories.SourceRepository = (*SourceRepository)(nil)

// NewSourceFactory returns a factory binding Terraform sources to apps.
func NewSourceFactory() repositories.SourceFactory {
	return func(app *entities.AppConfiguration) repositories.SourceRepository {
		return &SourceRepository{app: app}
	}
}

func (it *SourceRepository) Type() string { return SourceType }

// Enabled returns true if the app's source path has any *.tf file.
func (it *SourceRepository) Enabled(_ context.Context) bool {
	matches, err := filepath.Glob(filepath.Join(it.app.SourcePath(), "*.tf"))
	return err == nil && len(matches) > 0
}

// moduleCall is a remote module referenced by a `module` block.
type moduleCall struct {
	key     string
	source  string
	version string
}

type manifest struct {
	Modules []manifestEntry `json:"Modules"`
}

type manifestEntry struct {
	Key     string `json:"Key"`
	Source  string `json:"Source"`
	Version string `json:"Version"`
	Dir     string `json:"Dir"`
}

// Dependencies returns every remote module call. Local modules (`./`, `../`) are
// part of the app itself and are skipped.
func (it *SourceRepository) Dependencies(_ context.Context) ([]*entities.Dependency, error) {
	files, err := filepath.Glob(filepath.Join(it.app.SourcePath(), "*.tf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	var calls []moduleCall
	for _, file := range files {
		fileCalls, scanErr := scanModuleCalls(file)
		if scanErr != nil {
			return nil, scanErr
		}
		calls = append(calls, fileCalls...)
	}

	installed, err := it.readManifest()
	if err != nil {
		return nil, err
	}

	dependencies := make([]*entities.Dependency, 0, len(calls))
	for _, call := range calls {
		dependency := &entities.Dependency{
			Name:     call.key,
			Version:  call.version,
			Type:     SourceType,
			Metadata: map[string]any{entities.MetadataHomepage: homepage(call.source)},
		}

		if entry, ok := installed[call.key]; ok {
			dependency.Path = filepath.Join(it.app.SourcePath(), entry.Dir)
			if dependency.Version == "" {
				dependency.Version = entry.Version
			}
		} else {
			dependency.Errors = append(dependency.Errors,
				fmt.Sprintf("module %q is not installed, run `terraform init`", call.key))
		}
		dependencies = append(dependencies, dependency)
	}
	return dependencies, nil
}

func (it *SourceRepository) readManifest() (map[string]manifestEntry, error) {
	path := filepath.Join(it.app.SourcePath(), modulesManifest)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Debugf("No Terraform modules manifest found at %s", path)
		return map[string]manifestEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var parsed manifest
	if err = json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	entries := make(map[string]manifestEntry, len(parsed.Modules))
	for _, entry := range parsed.Modules {
		entries[entry.Key] = entry
	}
	return entries, nil
}

// scanModuleCalls parses a Terraform file and returns its remote module calls.
func scanModuleCalls(path string) ([]moduleCall, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(content, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse %s: %s", path, diags.Error())
	}

	bodyContent, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "module", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to read module blocks in %s: %s", path, diags.Error())
	}

	var calls []moduleCall
	for _, block := range bodyContent.Blocks {
		attrs, _ := block.Body.JustAttributes()
		source := stringAttribute(attrs, "source")
		if source == "" || isLocalSource(source) {
			continue
		}

		call := moduleCall{
			key:     block.Labels[0],
			source:  source,
			version: stringAttribute(attrs, "version"),
		}
		if call.version == "" {
			call.version = refFromSource(source)
		}
		calls = append(calls, call)
	}
	return calls, nil
}

func stringAttribute(attrs hcl.Attributes, name string) string {
	attr, ok := attrs[name]
	if !ok {
		return ""
	}
	value, diags := attr.Expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() || value.Type() != cty.String || value.IsNull() {
		return ""
	}
	return value.AsString()
}

func isLocalSource(source string) bool {
	return strings.HasPrefix(source, "./") || strings.HasPrefix(source, "../")
}

// refFromSource extracts `?ref=` from a git or generic module source.
func refFromSource(source string) string {
	_, query, found := strings.Cut(source, "?")
	if !found {
		return ""
	}
	for _, pair := range strings.Split(query, "&") {
		if ref, ok := strings.CutPrefix(pair, "ref="); ok {
			return ref
		}
	}
	return ""
}

// homepage returns a browsable URL for the module source.
func homepage(source string) string {
	clean := strings.TrimPrefix(source, "git::")
	clean, _, _ = strings.Cut(clean, "?")

	scheme, rest, hasScheme := strings.Cut(clean, "://")
	if hasScheme {
		rest, _, _ = strings.Cut(rest, "//")
		return scheme + "://" + strings.TrimSuffix(rest, ".git")
	}

	clean, _, _ = strings.Cut(clean, "//")
	if strings.Count(clean, "/") == 2 && !strings.Contains(clean, ".") {
		return registryPrefix + clean
	}
	return strings.TrimSuffix(clean, ".git")
}
