// Package json provides a JSON source that keeps object key order.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/zoobzio/luatable"
)

// jsonSource implements luatable.Source for JSON.
type jsonSource struct{}

// New returns a JSON source.
func New() luatable.Source {
	return &jsonSource{}
}

// ContentType returns the MIME type for JSON.
func (s *jsonSource) ContentType() string {
	return "application/json"
}

// Decode reads a single JSON document. Objects become tables in key order,
// arrays become sequences, integral numbers within int64 become Int and all
// other numbers become Float.
func (s *jsonSource) Decode(data []byte) (luatable.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec, 1)
	if err != nil {
		return luatable.Nil(), err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return luatable.Nil(), errors.New("unexpected data after top-level value")
	}
	return v, nil
}

// decodeValue reads the next value. depth is the nesting level an object
// or array starting here would have.
func decodeValue(dec *json.Decoder, depth int) (luatable.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return luatable.Nil(), err
	}
	return decodeToken(dec, tok, depth)
}

func decodeToken(dec *json.Decoder, tok json.Token, depth int) (luatable.Value, error) {
	switch t := tok.(type) {
	case nil:
		return luatable.Nil(), nil
	case bool:
		return luatable.Bool(t), nil
	case string:
		return luatable.String(t), nil
	case json.Number:
		return number(t)
	case json.Delim:
		if depth > luatable.MaxDecodeDepth {
			return luatable.Nil(), fmt.Errorf("%w: nesting passes %d levels at offset %d", luatable.ErrDepthExceeded, luatable.MaxDecodeDepth, dec.InputOffset())
		}
		switch t {
		case '{':
			return decodeObject(dec, depth)
		case '[':
			return decodeArray(dec, depth)
		}
		return luatable.Nil(), fmt.Errorf("unexpected delimiter %q", t)
	default:
		return luatable.Nil(), fmt.Errorf("unexpected token %v", tok)
	}
}

func decodeObject(dec *json.Decoder, depth int) (luatable.Value, error) {
	t := luatable.NewTable()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return luatable.Nil(), err
		}
		key, ok := tok.(string)
		if !ok {
			return luatable.Nil(), fmt.Errorf("object key %v is not a string", tok)
		}
		v, err := decodeValue(dec, depth+1)
		if err != nil {
			return luatable.Nil(), err
		}
		t.SetString(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return luatable.Nil(), err
	}
	return luatable.TableValue(t), nil
}

func decodeArray(dec *json.Decoder, depth int) (luatable.Value, error) {
	t := luatable.NewTable()
	for dec.More() {
		v, err := decodeValue(dec, depth+1)
		if err != nil {
			return luatable.Nil(), err
		}
		t.Append(v)
	}
	if _, err := dec.Token(); err != nil {
		return luatable.Nil(), err
	}
	return luatable.TableValue(t), nil
}

func number(n json.Number) (luatable.Value, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return luatable.Int(i), nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return luatable.Nil(), fmt.Errorf("number %s: %w", n, err)
	}
	return luatable.Float(f), nil
}
