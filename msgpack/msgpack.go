// Package msgpack provides a MessagePack source that keeps map key order.
package msgpack

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/vmihailenco/msgpack/v5/msgpcode"
	"github.com/zoobzio/luatable"
)

// msgpackSource implements luatable.Source for MessagePack.
type msgpackSource struct{}

// New returns a MessagePack source.
func New() luatable.Source {
	return &msgpackSource{}
}

// ContentType returns the MIME type for MessagePack.
func (s *msgpackSource) ContentType() string {
	return "application/msgpack"
}

// Decode reads a single MessagePack object. Maps become tables in wire
// order, arrays become sequences, bin and str become strings, timestamps
// become RFC 3339 strings and other extension types become opaque values.
func (s *msgpackSource) Decode(data []byte) (luatable.Value, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(dec, 1)
	if err != nil {
		return luatable.Nil(), err
	}
	if _, err := dec.PeekCode(); !errors.Is(err, io.EOF) {
		return luatable.Nil(), errors.New("unexpected data after top-level object")
	}
	return v, nil
}

// decodeValue reads the next object. depth is the nesting level a map or
// array starting here would have.
func decodeValue(dec *msgpack.Decoder, depth int) (luatable.Value, error) {
	c, err := dec.PeekCode()
	if err != nil {
		return luatable.Nil(), err
	}

	isMap := msgpcode.IsFixedMap(c) || c == msgpcode.Map16 || c == msgpcode.Map32
	isArray := msgpcode.IsFixedArray(c) || c == msgpcode.Array16 || c == msgpcode.Array32
	if (isMap || isArray) && depth > luatable.MaxDecodeDepth {
		return luatable.Nil(), fmt.Errorf("%w: nesting passes %d levels", luatable.ErrDepthExceeded, luatable.MaxDecodeDepth)
	}
	switch {
	case isMap:
		return decodeMap(dec, depth)
	case isArray:
		return decodeArray(dec, depth)
	}

	raw, err := dec.DecodeInterfaceLoose()
	if err != nil {
		return luatable.Nil(), err
	}
	return scalar(raw), nil
}

func decodeMap(dec *msgpack.Decoder, depth int) (luatable.Value, error) {
	n, err := dec.DecodeMapLen()
	if err != nil {
		return luatable.Nil(), err
	}
	if n == -1 {
		return luatable.Nil(), nil
	}
	t := luatable.NewTable()
	for i := 0; i < n; i++ {
		k, err := decodeValue(dec, depth+1)
		if err != nil {
			return luatable.Nil(), elementError("map key", i, err)
		}
		v, err := decodeValue(dec, depth+1)
		if err != nil {
			return luatable.Nil(), elementError("map value", i, err)
		}
		t.Set(k, v)
	}
	return luatable.TableValue(t), nil
}

func decodeArray(dec *msgpack.Decoder, depth int) (luatable.Value, error) {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return luatable.Nil(), err
	}
	if n == -1 {
		return luatable.Nil(), nil
	}
	t := luatable.NewTable()
	for i := 0; i < n; i++ {
		v, err := decodeValue(dec, depth+1)
		if err != nil {
			return luatable.Nil(), elementError("array element", i, err)
		}
		t.Append(v)
	}
	return luatable.TableValue(t), nil
}

// elementError prefixes err with the position it occurred at. Nesting
// errors pass through unchanged so they do not grow one prefix per level.
func elementError(what string, i int, err error) error {
	if errors.Is(err, luatable.ErrDepthExceeded) {
		return err
	}
	return fmt.Errorf("%s %d: %w", what, i, err)
}

// scalar maps the loose decoder output onto the value model.
func scalar(raw any) luatable.Value {
	switch v := raw.(type) {
	case nil:
		return luatable.Nil()
	case bool:
		return luatable.Bool(v)
	case int64:
		return luatable.Int(v)
	case uint64:
		if v > math.MaxInt64 {
			return luatable.Opaque(v)
		}
		return luatable.Int(int64(v))
	case float64:
		return luatable.Float(v)
	case string:
		return luatable.String(v)
	case []byte:
		return luatable.String(string(v))
	default:
		// timestamps and extension types
		return luatable.FromGo(v)
	}
}
