package cli

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/zoobzio/luatable"
	"github.com/zoobzio/luatable/bson"
	"github.com/zoobzio/luatable/json"
	"github.com/zoobzio/luatable/msgpack"
	"github.com/zoobzio/luatable/yaml"
)

// defaultFormat is used when neither --from nor the input extension names one.
const defaultFormat = "json"

var sources = map[string]func() luatable.Source{
	"json":    json.New,
	"yaml":    yaml.New,
	"msgpack": msgpack.New,
	"bson":    bson.New,
}

var extensions = map[string]string{
	".json":    "json",
	".yaml":    "yaml",
	".yml":     "yaml",
	".msgpack": "msgpack",
	".mpk":     "msgpack",
	".bson":    "bson",
}

// formatNames returns the supported input formats in sorted order.
func formatNames() []string {
	names := make([]string, 0, len(sources))
	for name := range sources {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// resolveFormat picks the input format: the explicit value if given, else
// the input file extension, else json.
func resolveFormat(from, input string) (string, error) {
	if from != "" {
		from = strings.ToLower(from)
		if _, ok := sources[from]; !ok {
			return "", fmt.Errorf("unknown input format: %q, valid formats are: %s", from, strings.Join(formatNames(), ", "))
		}
		return from, nil
	}
	if input != "" && input != stdio {
		if format, ok := extensions[strings.ToLower(filepath.Ext(input))]; ok {
			return format, nil
		}
	}
	return defaultFormat, nil
}

// sourceFor returns the source for a resolved format name.
func sourceFor(format string) (luatable.Source, error) {
	newSource, ok := sources[format]
	if !ok {
		return nil, fmt.Errorf("unknown input format: %q", format)
	}
	return newSource(), nil
}
