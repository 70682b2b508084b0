package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/zoobzio/luatable"
	"gopkg.in/yaml.v3"
)

// Settings is the YAML config file accepted by --config. Unset keys keep
// the serializer defaults.
type Settings struct {
	Indent         *string `yaml:"indent"`
	Preamble       *string `yaml:"preamble"`
	MaxDepth       *int    `yaml:"max_depth"`
	MaxEntries     *int    `yaml:"max_entries"`
	CycleDetection *bool   `yaml:"cycle_detection"`
}

// LoadSettings reads a config file. Unknown keys are rejected.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}
	return ParseSettings(data)
}

// ParseSettings decodes config file contents. Empty input yields empty Settings.
func ParseSettings(data []byte) (*Settings, error) {
	s := &Settings{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return s, nil
}

// Options converts the set keys into serializer options.
func (s *Settings) Options() []luatable.Option {
	if s == nil {
		return nil
	}
	var opts []luatable.Option
	if s.Indent != nil {
		opts = append(opts, luatable.WithIndent(*s.Indent))
	}
	if s.Preamble != nil {
		opts = append(opts, luatable.WithPreamble(*s.Preamble))
	}
	if s.MaxDepth != nil {
		opts = append(opts, luatable.WithMaxDepth(*s.MaxDepth))
	}
	if s.MaxEntries != nil {
		opts = append(opts, luatable.WithMaxEntries(*s.MaxEntries))
	}
	if s.CycleDetection != nil {
		opts = append(opts, luatable.WithCycleDetection(*s.CycleDetection))
	}
	return opts
}
