package entities

import (
	"fmt"
	"maps"

	"github.com/go-viper/mapstructure/v2"
)

// Options is a raw, untyped configuration map as read from a configuration file
// or passed in memory. Keys follow the configuration file schema.
type Options map[string]any

// Clone returns a shallow copy of the options.
func (o Options) Clone() Options {
	if o == nil {
		return Options{}
	}
	return maps.Clone(o)
}

// Merge returns a copy of base with every key of override applied on top of it.
func (o Options) Merge(override Options) Options {
	merged := o.Clone()
	maps.Copy(merged, override)
	return merged
}

// String returns the value for key when it is a non-empty string.
func (o Options) String(key string) (string, bool) {
	value, ok := o[key].(string)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

// Bool returns true only when key holds the boolean true.
func (o Options) Bool(key string) bool {
	value, ok := o[key].(bool)
	return ok && value
}

// AppOptions is the typed view of one app's merged options.
type AppOptions struct {
	Root        string              `mapstructure:"root"`
	SourcePath  string              `mapstructure:"source_path"`
	CachePath   string              `mapstructure:"cache_path"`
	SharedCache bool                `mapstructure:"shared_cache"`
	Name        any                 `mapstructure:"name"`
	Sources     map[string]bool     `mapstructure:"sources"`
	Ignored     map[string][]string `mapstructure:"ignored"`
	Reviewed    map[string][]string `mapstructure:"reviewed"`
	Allowed     []string            `mapstructure:"allowed"`
	Extra       map[string]any      `mapstructure:",remain"`
}

// NameOptions configures generated app names.
type NameOptions struct {
	Generator string `mapstructure:"generator"`
	Separator string `mapstructure:"separator"`
	Depth     *int   `mapstructure:"depth"`
}

const (
	NameGeneratorDirectoryName = "directory_name"
	NameGeneratorRelativePath  = "relative_path"

	defaultNameSeparator = "-"
)

// decodeOptions converts a raw options map into the given typed structure.
func decodeOptions(input any, output any) error {
	//nolint:exhaustruct // only the non-default decoder settings are relevant
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if decodeErr := decoder.Decode(input); decodeErr != nil {
		return fmt.Errorf("failed to decode options: %w", decodeErr)
	}
	return nil
}

// stringList normalizes a string or list-of-strings value, dropping empty entries.
func stringList(value any) ([]string, error) {
	switch typed := value.(type) {
	case nil:
		return nil, nil
	case string:
		if typed == "" {
			return nil, nil
		}
		return []string{typed}, nil
	case []string:
		return compact(typed), nil
	case []any:
		result := make([]string, 0, len(typed))
		for _, item := range typed {
			str, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected a string but found %v", item)
			}
			result = append(result, str)
		}
		return compact(result), nil
	default:
		return nil, fmt.Errorf("expected a string or a list of strings but found %v", value)
	}
}

func compact(values []string) []string {
	result := make([]string, 0, len(values))
	for _, value := range values {
		if value != "" {
			result = append(result, value)
		}
	}
	return result
}
