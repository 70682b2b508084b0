// Package yaml provides a YAML source that keeps mapping key order.
package yaml

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/zoobzio/luatable"
	"gopkg.in/yaml.v3"
)

// YAML core schema tags.
const (
	tagNull   = "!!null"
	tagBool   = "!!bool"
	tagInt    = "!!int"
	tagFloat  = "!!float"
	tagStr    = "!!str"
	tagBinary = "!!binary"
	tagMerge  = "!!merge"
)

// yamlSource implements luatable.Source for YAML.
type yamlSource struct{}

// New returns a YAML source.
func New() luatable.Source {
	return &yamlSource{}
}

// ContentType returns the MIME type for YAML.
func (s *yamlSource) ContentType() string {
	return "application/yaml"
}

// Decode reads the first YAML document. Mappings become tables in document
// order and sequences become sequences. Aliases refer to the same table as
// their anchor. Mapping keys that are themselves collections are kept as
// table keys, which the serializer rejects.
func (s *yamlSource) Decode(data []byte) (luatable.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return luatable.Nil(), err
	}
	if doc.Kind == 0 {
		// empty input
		return luatable.Nil(), nil
	}
	d := &decoder{tables: make(map[*yaml.Node]*luatable.Table)}
	return d.node(&doc)
}

type decoder struct {
	tables map[*yaml.Node]*luatable.Table
}

func (d *decoder) node(n *yaml.Node) (luatable.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return luatable.Nil(), nil
		}
		return d.node(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return luatable.Nil(), fmt.Errorf("line %d: unresolved alias %q", n.Line, n.Value)
		}
		return d.node(n.Alias)
	case yaml.MappingNode:
		return d.collection(n, d.mapping)
	case yaml.SequenceNode:
		return d.collection(n, d.sequence)
	case yaml.ScalarNode:
		return scalar(n)
	default:
		return luatable.Nil(), fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// collection returns the table for n, reusing it when n was already seen
// through an alias.
func (d *decoder) collection(n *yaml.Node, fill func(*yaml.Node, *luatable.Table) error) (luatable.Value, error) {
	if t, ok := d.tables[n]; ok {
		return luatable.TableValue(t), nil
	}
	t := luatable.NewTable()
	d.tables[n] = t
	if err := fill(n, t); err != nil {
		return luatable.Nil(), err
	}
	return luatable.TableValue(t), nil
}

func (d *decoder) mapping(n *yaml.Node, t *luatable.Table) error {
	if len(n.Content)%2 != 0 {
		return fmt.Errorf("line %d: mapping has odd number of nodes", n.Line)
	}
	for i := 0; i < len(n.Content); i += 2 {
		if n.Content[i].ShortTag() == tagMerge {
			if err := d.merge(n.Content[i+1], t); err != nil {
				return err
			}
			continue
		}
		k, err := d.node(n.Content[i])
		if err != nil {
			return err
		}
		v, err := d.node(n.Content[i+1])
		if err != nil {
			return err
		}
		t.Set(k, v)
	}
	return nil
}

// merge copies the entries of a "<<" value into t. Keys already present in
// t are kept.
func (d *decoder) merge(n *yaml.Node, t *luatable.Table) error {
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}
	for _, src := range sources {
		v, err := d.node(src)
		if err != nil {
			return err
		}
		from, err := v.AsTable()
		if err != nil {
			return fmt.Errorf("line %d: merge value must be a mapping", src.Line)
		}
		for k, v := range from.All() {
			if _, exists := t.Get(k); !exists {
				t.Set(k, v)
			}
		}
	}
	return nil
}

func (d *decoder) sequence(n *yaml.Node, t *luatable.Table) error {
	for _, item := range n.Content {
		v, err := d.node(item)
		if err != nil {
			return err
		}
		t.Append(v)
	}
	return nil
}

func scalar(n *yaml.Node) (luatable.Value, error) {
	switch n.ShortTag() {
	case tagNull:
		return luatable.Nil(), nil
	case tagBool:
		var b bool
		if err := n.Decode(&b); err != nil {
			return luatable.Nil(), err
		}
		return luatable.Bool(b), nil
	case tagInt:
		var i int64
		if err := n.Decode(&i); err == nil {
			return luatable.Int(i), nil
		}
		// out of int64 range; keep the magnitude as a float
		var f float64
		if err := n.Decode(&f); err != nil {
			return luatable.Nil(), err
		}
		return luatable.Float(f), nil
	case tagFloat:
		var f float64
		if err := n.Decode(&f); err != nil {
			return luatable.Nil(), err
		}
		return luatable.Float(f), nil
	case tagBinary:
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return luatable.Nil(), fmt.Errorf("line %d: %w", n.Line, err)
		}
		return luatable.String(string(b)), nil
	case tagStr:
		return luatable.String(n.Value), nil
	default:
		// timestamps, merge keys and application tags keep their source text
		return luatable.String(n.Value), nil
	}
}
