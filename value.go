package luatable

import (
	"fmt"
	"math"
	"strconv"
)

// Kind identifies the variant held by a Value.
type Kind uint8

// Value kinds. KindInt and KindFloat together make up Lua's number type.
// KindOpaque marks values with no literal form (funcs, channels, handles).
const (
	KindNil Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTable
	KindOpaque
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTable:
		return "table"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Value is a tagged union over the kinds a Lua literal can carry.
// The zero Value is nil.
type Value struct {
	kind Kind

	// Only the field matching kind is meaningful.
	boolVal  bool
	intVal   int64
	floatVal float64
	strVal   string
	tableVal *Table
	opaque   any
}

// Nil returns the nil value.
func Nil() Value {
	return Value{}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, boolVal: b}
}

// Int returns an integer value.
func Int(i int64) Value {
	return Value{kind: KindInt, intVal: i}
}

// Float returns a floating-point value.
func Float(f float64) Value {
	return Value{kind: KindFloat, floatVal: f}
}

// String returns a string value. Lua strings are byte strings, so s may
// hold arbitrary bytes.
func String(s string) Value {
	return Value{kind: KindString, strVal: s}
}

// TableValue wraps t. A nil *Table yields the nil value.
func TableValue(t *Table) Value {
	if t == nil {
		return Nil()
	}
	return Value{kind: KindTable, tableVal: t}
}

// Opaque wraps a Go value that has no literal representation.
// Serializing it fails with ErrUnrepresentable.
func Opaque(x any) Value {
	return Value{kind: KindOpaque, opaque: x}
}

// Kind returns the variant held by v.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNil reports whether v is nil.
func (v Value) IsNil() bool {
	return v.kind == KindNil
}

// IsNumber reports whether v is an Int or a Float.
func (v Value) IsNumber() bool {
	return v.kind == KindInt || v.kind == KindFloat
}

// AsBool returns the boolean held by v.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, v.kindError(KindBool)
	}
	return v.boolVal, nil
}

// AsInt returns the integer held by v. Floats with an exact integer value
// are accepted.
func (v Value) AsInt() (int64, error) {
	switch v.kind {
	case KindInt:
		return v.intVal, nil
	case KindFloat:
		if i, ok := floatToInt(v.floatVal); ok {
			return i, nil
		}
		return 0, fmt.Errorf("float %v has no integer representation", v.floatVal)
	}
	return 0, v.kindError(KindInt)
}

// AsFloat returns the number held by v as a float64.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.floatVal, nil
	case KindInt:
		return float64(v.intVal), nil
	}
	return 0, v.kindError(KindFloat)
}

// AsString returns the string held by v.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", v.kindError(KindString)
	}
	return v.strVal, nil
}

// AsTable returns the table held by v.
func (v Value) AsTable() (*Table, error) {
	if v.kind != KindTable {
		return nil, v.kindError(KindTable)
	}
	return v.tableVal, nil
}

// Opaque returns the Go value wrapped by an opaque Value, or nil.
func (v Value) Opaque() any {
	if v.kind != KindOpaque {
		return nil
	}
	return v.opaque
}

// String returns a short human-readable rendering for debugging and error
// messages. It is not the serialized form.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		return strconv.FormatBool(v.boolVal)
	case KindInt:
		return strconv.FormatInt(v.intVal, 10)
	case KindFloat:
		return strconv.FormatFloat(v.floatVal, 'g', -1, 64)
	case KindString:
		return strconv.Quote(v.strVal)
	case KindTable:
		return fmt.Sprintf("table(%d)", v.tableVal.Len())
	case KindOpaque:
		return fmt.Sprintf("opaque(%T)", v.opaque)
	default:
		return "unknown"
	}
}

func (v Value) kindError(want Kind) error {
	return fmt.Errorf("value is %s, not %s", v.kind, want)
}

// floatToInt reports whether f is an integral value inside the int64 range.
func floatToInt(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}
