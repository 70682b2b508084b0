package luatable

import (
	"fmt"
	"math"
	"strconv"
	"unicode/utf8"
)

// namedEscapes maps bytes with a single-letter Lua escape.
var namedEscapes = [256]byte{
	'\a': 'a',
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
	'\v': 'v',
	'"':  '"',
	'\\': '\\',
}

// scalarError is returned by the scalar encoders. The encoder unpacks it
// into an EncodeError carrying the path.
type scalarError struct {
	sentinel error
	detail   string
}

func (e *scalarError) Error() string {
	return e.sentinel.Error() + ": " + e.detail
}

func (e *scalarError) Unwrap() error {
	return e.sentinel
}

// appendQuoted appends s as a double-quoted Lua string literal.
func appendQuoted(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for i := 0; i < len(s); {
		c := s[i]
		if c < utf8.RuneSelf {
			switch {
			case namedEscapes[c] != 0:
				dst = append(dst, '\\', namedEscapes[c])
			case c < 0x20 || c == 0x7f:
				dst = appendDecimalEscape(dst, c)
			default:
				dst = append(dst, c)
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			dst = appendDecimalEscape(dst, c)
			i++
			continue
		}
		dst = append(dst, s[i:i+size]...)
		i += size
	}
	return append(dst, '"')
}

// appendDecimalEscape writes c as \ddd. Always three digits, so a digit
// following the escape cannot be absorbed into it.
func appendDecimalEscape(dst []byte, c byte) []byte {
	return append(dst, '\\', '0'+c/100, '0'+c/10%10, '0'+c%10)
}

// appendInt writes i in decimal. math.MinInt64 reads back as -2^63 in every
// Lua version; 5.3 and later load it as a float of that value.
func appendInt(dst []byte, i int64) []byte {
	return strconv.AppendInt(dst, i, 10)
}

// appendFloat appends the shortest text that reads back as the same float.
func appendFloat(dst []byte, f float64) ([]byte, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return dst, fmt.Errorf("non-finite number %v", f)
	}
	start := len(dst)
	dst = strconv.AppendFloat(dst, f, 'g', -1, 64)
	for _, c := range dst[start:] {
		if c == '.' || c == 'e' {
			return dst, nil
		}
	}
	// Keep the float subtype: Lua reads "2" as an integer.
	return append(dst, '.', '0'), nil
}

// appendScalar appends the literal form of a non-table value.
// Opaque values and non-finite floats return ErrUnrepresentable.
func appendScalar(dst []byte, v Value) ([]byte, error) {
	switch v.kind {
	case KindNil:
		return append(dst, "nil"...), nil
	case KindBool:
		return strconv.AppendBool(dst, v.boolVal), nil
	case KindInt:
		return appendInt(dst, v.intVal), nil
	case KindFloat:
		out, err := appendFloat(dst, v.floatVal)
		if err != nil {
			return dst, &scalarError{sentinel: ErrUnrepresentable, detail: err.Error()}
		}
		return out, nil
	case KindString:
		return appendQuoted(dst, v.strVal), nil
	case KindOpaque:
		return dst, &scalarError{sentinel: ErrUnrepresentable, detail: fmt.Sprintf("%T has no literal form", v.opaque)}
	default:
		return dst, &scalarError{sentinel: ErrUnrepresentable, detail: fmt.Sprintf("kind %s is not a scalar", v.kind)}
	}
}

// appendKey appends the literal index for a table key, without brackets.
// Only strings and finite numbers are valid keys.
func appendKey(dst []byte, k Value) ([]byte, error) {
	switch k.kind {
	case KindString:
		return appendQuoted(dst, k.strVal), nil
	case KindInt:
		return appendInt(dst, k.intVal), nil
	case KindFloat:
		out, err := appendFloat(dst, k.floatVal)
		if err != nil {
			return dst, &scalarError{sentinel: ErrInvalidKey, detail: err.Error()}
		}
		return out, nil
	default:
		return dst, &scalarError{sentinel: ErrInvalidKey, detail: k.kind.String() + " key"}
	}
}

// encodeKey returns the literal index for k.
func encodeKey(k Value) (string, error) {
	b, err := appendKey(nil, k)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// EncodeScalar returns the Lua literal for a non-table value.
func EncodeScalar(v Value) (string, error) {
	if v.kind == KindTable {
		return "", &scalarError{sentinel: ErrUnrepresentable, detail: "table is not a scalar"}
	}
	b, err := appendScalar(nil, v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
