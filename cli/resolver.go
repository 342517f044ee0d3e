package cli

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
)

// resolve is a [kong.ConfigurationLoader] that reads a plain JSON object and
// exposes its top-level keys as flag values.
//
// It can be used with [kong.Configuration] like this:
//
//	kong.Configuration(resolve(name), "/path/to/config")
//
// Unlike the teacher's aenv-language resolver, LESS source text is not a
// sensible config format, so this reads raw JSON instead of parsing a
// custom DSL:
//
//	{
//	  "log_level": "debug",
//	  "log_format": "json",
//	  "import_dir": ["vendor/less"]
//	}
//
// Flag names with hyphens (e.g., "log-level") may use underscores in the
// config file (e.g., "log_level"). Command-line flags override config file
// values.
//
// name is unused by this loader; it is accepted to keep the loader's shape
// symmetric with [kong.Configuration]'s other callers in this package,
// which all key off a single base config name.
func resolve(name string) func(r io.Reader) (kong.Resolver, error) {
	return func(r io.Reader) (kong.Resolver, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return jsonConfig{}, nil
		}

		var raw map[string]any
		if json.Unmarshal(data, &raw) != nil {
			// Not valid JSON (e.g. the file doesn't exist) - empty config.
			return jsonConfig{}, nil
		}

		return jsonConfig(raw), nil
	}
}

// jsonConfig implements [kong.Resolver] for a flat JSON configuration
// object.
type jsonConfig map[string]any

// Validate implements [kong.Resolver].
func (jsonConfig) Validate(*kong.Application) error {
	return nil
}

// Resolve implements [kong.Resolver].
func (r jsonConfig) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	name := flag.Name
	underscoreName := strings.ReplaceAll(name, "-", "_")

	value, ok := r[name]
	if !ok {
		value, ok = r[underscoreName]
		if !ok {
			return nil, nil
		}
	}

	return jsonToFlagValue(value), nil
}

// jsonToFlagValue coerces a decoded JSON value into the string/[]string
// shape Kong expects for flag values.
func jsonToFlagValue(v any) any {
	switch val := v.(type) {
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		out := make([]string, len(val))
		for i, e := range val {
			out[i] = toFlagString(e)
		}

		return out
	default:
		return val
	}
}

func toFlagString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}
