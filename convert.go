package luatable

import (
	"cmp"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"
)

var (
	valueType         = reflect.TypeFor[Value]()
	tablePtrType      = reflect.TypeFor[*Table]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
	marshalerType     = reflect.TypeFor[Marshaler]()
)

// FromGo converts a Go value into a Value.
//
//   - nil, nil pointers, nil maps and nil slices become nil
//   - bool, integers and floats become the matching scalar; unsigned
//     integers above math.MaxInt64 become opaque
//   - strings and byte slices become strings
//   - Marshaler implementations supply their own Value
//   - encoding.TextMarshaler implementations become strings
//   - slices and arrays become sequences keyed 1..N
//   - maps become tables with keys sorted: numbers ascending, then
//     strings, then anything else
//   - structs become tables of their exported fields in declaration order,
//     named by the `lua` tag, then the `json` tag, then the field name
//   - Value and *Table pass through unchanged
//   - funcs, channels, complex numbers and unsafe pointers become opaque
//
// Go maps, slices and pointers that refer back to an enclosing value are
// converted into tables that contain themselves, which the serializer
// reports as a cycle.
//
// Conversion stops DefaultMaxDepth tables down. A container below that
// level becomes an empty placeholder table that the serializer always
// rejects with ErrDepthExceeded.
func FromGo(x any) Value {
	return fromGo(x, DefaultMaxDepth)
}

// fromGo converts x, descending at most maxDepth tables.
func fromGo(x any, maxDepth int) Value {
	switch v := x.(type) {
	case nil:
		return Nil()
	case Value:
		return v
	case *Table:
		return TableValue(v)
	}
	c := &converter{ancestors: make(map[visitKey]*Table), maxDepth: maxDepth}
	return c.convert(reflect.ValueOf(x), 1)
}

// visitKey identifies a map, slice or pointer currently being converted.
type visitKey struct {
	ptr uintptr
	typ reflect.Type
	len int
}

type converter struct {
	ancestors map[visitKey]*Table
	following map[visitKey]struct{}
	maxDepth  int
}

// convert maps rv onto a Value. depth is the level a table built here
// would occupy, counted the way the encoder counts it.
func (c *converter) convert(rv reflect.Value, depth int) Value {
	if !rv.IsValid() {
		return Nil()
	}
	switch rv.Type() {
	case valueType:
		return rv.Interface().(Value)
	case tablePtrType:
		return TableValue(rv.Interface().(*Table))
	}
	if rv.Kind() != reflect.Interface && rv.Type().Implements(marshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Nil()
		}
		return rv.Interface().(Marshaler).MarshalLua()
	}
	if rv.Kind() != reflect.Interface && rv.Type().Implements(textMarshalerType) {
		if rv.Kind() == reflect.Pointer && rv.IsNil() {
			return Nil()
		}
		text, err := rv.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return Opaque(rv.Interface())
		}
		return String(string(text))
	}

	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Opaque(rv.Interface())
		}
		return Int(int64(u))
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Interface:
		if rv.IsNil() {
			return Nil()
		}
		return c.convert(rv.Elem(), depth)
	case reflect.Pointer:
		if rv.IsNil() {
			return Nil()
		}
		elem := rv.Elem()
		if (elem.Kind() == reflect.Struct && elem.Type() != valueType) || (elem.Kind() == reflect.Array && elem.Type().Elem().Kind() != reflect.Uint8) {
			return c.table(c.keyOf(rv), depth, func(t *Table) {
				c.fill(t, elem, depth)
			})
		}
		if k := elem.Kind(); k == reflect.Pointer || k == reflect.Interface {
			// chains that never reach a table, such as x = &x
			key := c.keyOf(rv)
			if _, ok := c.following[key]; ok {
				return Opaque(rv.Interface())
			}
			if c.following == nil {
				c.following = make(map[visitKey]struct{})
			}
			c.following[key] = struct{}{}
			defer delete(c.following, key)
		}
		return c.convert(elem, depth)
	case reflect.Slice:
		if rv.IsNil() {
			return Nil()
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return String(string(rv.Bytes()))
		}
		return c.table(c.keyOf(rv), depth, func(t *Table) {
			c.fill(t, rv, depth)
		})
	case reflect.Map:
		if rv.IsNil() {
			return Nil()
		}
		return c.table(c.keyOf(rv), depth, func(t *Table) {
			c.fill(t, rv, depth)
		})
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return String(string(b))
		}
		if depth > c.maxDepth {
			return TableValue(cutTable())
		}
		t := NewTable()
		c.fill(t, rv, depth)
		return TableValue(t)
	case reflect.Struct:
		if depth > c.maxDepth {
			return TableValue(cutTable())
		}
		t := NewTable()
		c.fill(t, rv, depth)
		return TableValue(t)
	default:
		// Func, Chan, Complex64, Complex128, UnsafePointer
		if rv.CanInterface() {
			return Opaque(rv.Interface())
		}
		return Opaque(rv.Type().String())
	}
}

func (c *converter) keyOf(rv reflect.Value) visitKey {
	key := visitKey{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		key.len = rv.Len()
	}
	return key
}

// table returns the table for key, creating and filling it unless the key
// is already being converted further up the stack.
func (c *converter) table(key visitKey, depth int, fill func(*Table)) Value {
	if t, ok := c.ancestors[key]; ok {
		return TableValue(t)
	}
	if depth > c.maxDepth {
		return TableValue(cutTable())
	}
	t := NewTable()
	c.ancestors[key] = t
	defer delete(c.ancestors, key)
	fill(t)
	return TableValue(t)
}

// fill adds the members of a slice, array, map or struct to t, which sits
// at depth.
func (c *converter) fill(t *Table, rv reflect.Value, depth int) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			t.Append(c.convert(rv.Index(i), depth+1))
		}
	case reflect.Map:
		type pair struct {
			key  Value
			typ  string
			text string
			val  reflect.Value
		}
		pairs := make([]pair, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key()
			if k.Kind() == reflect.Interface && !k.IsNil() {
				k = k.Elem()
			}
			pairs = append(pairs, pair{
				key:  c.convert(k, depth+1),
				typ:  k.Type().String(),
				text: fmt.Sprint(k.Interface()),
				val:  iter.Value(),
			})
		}
		// Keys sharing a Lua slot (1 and 1.0, int and int8) still need a
		// fixed order, since Set keeps the first key and the last value.
		slices.SortStableFunc(pairs, func(a, b pair) int {
			if n := compareKeys(a.key, b.key); n != 0 {
				return n
			}
			if n := cmp.Compare(a.key.kind, b.key.kind); n != 0 {
				return n
			}
			if n := strings.Compare(a.typ, b.typ); n != 0 {
				return n
			}
			return strings.Compare(a.text, b.text)
		})
		for _, p := range pairs {
			t.Set(p.key, c.convert(p.val, depth+1))
		}
	case reflect.Struct:
		for _, field := range structPlan(rv.Type()) {
			fv, err := rv.FieldByIndexErr(field.index)
			if err != nil {
				continue
			}
			if field.omitEmpty && fv.IsZero() {
				continue
			}
			t.Set(String(field.name), c.convert(fv, depth+1))
		}
	}
}

// keyRank orders key kinds: numbers, then strings, then everything else.
func keyRank(k Value) int {
	switch k.kind {
	case KindInt, KindFloat:
		return 0
	case KindString:
		return 1
	default:
		return 2
	}
}

func compareKeys(a, b Value) int {
	if n := cmp.Compare(keyRank(a), keyRank(b)); n != 0 {
		return n
	}
	switch keyRank(a) {
	case 0:
		if a.kind == KindInt && b.kind == KindInt {
			return cmp.Compare(a.intVal, b.intVal)
		}
		af, _ := a.AsFloat()
		bf, _ := b.AsFloat()
		return cmp.Compare(af, bf)
	case 1:
		return strings.Compare(a.strVal, b.strVal)
	}
	return 0
}
