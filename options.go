package luatable

import (
	"fmt"
	"strings"
)

// Defaults applied by New.
const (
	DefaultIndent   = "\t"
	DefaultMaxDepth = 64
)

// ContentType is the MIME type of serializer output.
const ContentType = "text/x-lua"

// config holds validated serializer settings. It is immutable once New returns.
type config struct {
	indent         string
	preamble       string
	maxDepth       int
	maxEntries     int
	cycleDetection bool
}

func defaultConfig() config {
	return config{
		indent:         DefaultIndent,
		maxDepth:       DefaultMaxDepth,
		cycleDetection: true,
	}
}

// Option configures a Serializer.
type Option func(*config) error

// WithIndent sets the indentation unit repeated once per nesting level.
// It may be empty but must contain only spaces and tabs.
func WithIndent(unit string) Option {
	return func(c *config) error {
		if strings.Trim(unit, " \t") != "" {
			return newConfigError("indent", fmt.Sprintf("%q contains characters other than spaces and tabs", unit))
		}
		c.indent = unit
		return nil
	}
}

// WithPreamble sets text written before the top-level value, such as
// "return " or "local config = ". Nested tables never receive it.
func WithPreamble(preamble string) Option {
	return func(c *config) error {
		c.preamble = preamble
		return nil
	}
}

// WithMaxDepth sets the deepest table nesting allowed; the root table is depth 1.
func WithMaxDepth(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return newConfigError("max depth", fmt.Sprintf("must be at least 1, got %d", n))
		}
		c.maxDepth = n
		return nil
	}
}

// WithMaxEntries caps the total number of table entries written in one call.
// Zero means unlimited.
func WithMaxEntries(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return newConfigError("max entries", fmt.Sprintf("must not be negative, got %d", n))
		}
		c.maxEntries = n
		return nil
	}
}

// WithCycleDetection toggles the ancestry check for tables that contain
// themselves. With it disabled, cyclic input fails with ErrDepthExceeded.
func WithCycleDetection(enabled bool) Option {
	return func(c *config) error {
		c.cycleDetection = enabled
		return nil
	}
}

func buildConfig(opts []Option) (config, error) {
	c := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&c); err != nil {
			return config{}, err
		}
	}
	return c, nil
}
