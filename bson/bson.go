// Package bson provides a BSON source that keeps document field order.
package bson

import (
	"errors"
	"fmt"
	"time"

	"github.com/zoobzio/luatable"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// bsonSource implements luatable.Source for BSON.
type bsonSource struct{}

// New returns a BSON source.
func New() luatable.Source {
	return &bsonSource{}
}

// ContentType returns the MIME type for BSON.
func (s *bsonSource) ContentType() string {
	return "application/bson"
}

// Decode reads a BSON document. Documents become tables in field order and
// arrays become sequences. ObjectIDs become hex strings, datetimes become
// RFC 3339 strings, binary and decimal128 values become strings, and other
// BSON types (regex, javascript, timestamps, min/max keys) become opaque.
func (s *bsonSource) Decode(data []byte) (luatable.Value, error) {
	var doc bson.D
	if err := bson.Unmarshal(data, &doc); err != nil {
		return luatable.Nil(), err
	}
	return convert(doc, 1)
}

// convert maps a decoded BSON value. depth is the nesting level a document
// or array found here would have.
func convert(raw any, depth int) (luatable.Value, error) {
	switch raw.(type) {
	case primitive.D, primitive.A, primitive.M:
		if depth > luatable.MaxDecodeDepth {
			return luatable.Nil(), fmt.Errorf("%w: nesting passes %d levels", luatable.ErrDepthExceeded, luatable.MaxDecodeDepth)
		}
	}

	switch v := raw.(type) {
	case nil:
		return luatable.Nil(), nil
	case primitive.D:
		t := luatable.NewTable()
		for _, e := range v {
			val, err := convert(e.Value, depth+1)
			if err != nil {
				return luatable.Nil(), elementError(fmt.Sprintf("field %q", e.Key), err)
			}
			t.SetString(e.Key, val)
		}
		return luatable.TableValue(t), nil
	case primitive.A:
		t := luatable.NewTable()
		for i, item := range v {
			val, err := convert(item, depth+1)
			if err != nil {
				return luatable.Nil(), elementError(fmt.Sprintf("element %d", i), err)
			}
			t.Append(val)
		}
		return luatable.TableValue(t), nil
	case primitive.M:
		// only produced when a caller decodes into maps; key order is lost
		return luatable.FromGo(map[string]any(v)), nil
	case bool:
		return luatable.Bool(v), nil
	case int32:
		return luatable.Int(int64(v)), nil
	case int64:
		return luatable.Int(v), nil
	case float64:
		return luatable.Float(v), nil
	case string:
		return luatable.String(v), nil
	case primitive.ObjectID:
		return luatable.String(v.Hex()), nil
	case primitive.DateTime:
		return luatable.String(v.Time().UTC().Format(time.RFC3339Nano)), nil
	case primitive.Binary:
		return luatable.String(string(v.Data)), nil
	case primitive.Decimal128:
		return luatable.String(v.String()), nil
	case primitive.Null, primitive.Undefined:
		return luatable.Nil(), nil
	default:
		return luatable.Opaque(v), nil
	}
}

// elementError prefixes err with where it occurred, except for nesting
// errors, which would otherwise carry one prefix per level.
func elementError(where string, err error) error {
	if errors.Is(err, luatable.ErrDepthExceeded) {
		return err
	}
	return fmt.Errorf("%s: %w", where, err)
}
