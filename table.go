package luatable

import (
	"iter"
	"math"
)

// Entry is a single key/value pair of a Table.
type Entry struct {
	Key   Value
	Value Value
}

// Table is an ordered associative container. Entries iterate in insertion
// order, which is also the order they are serialized in.
//
// Table is not safe for concurrent mutation.
type Table struct {
	entries []Entry
	index   map[slotKey]int
	cut     bool
}

// cutTable returns the placeholder FromGo leaves where it stopped
// descending. The encoder rejects it at any depth.
func cutTable() *Table {
	return &Table{cut: true}
}

// slotKey identifies the slot a scalar key addresses. Integral floats share
// the slot of the equal integer, matching Lua key normalization.
type slotKey struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
}

func slotOf(k Value) (slotKey, bool) {
	switch k.kind {
	case KindBool:
		return slotKey{kind: KindBool, b: k.boolVal}, true
	case KindInt:
		return slotKey{kind: KindInt, i: k.intVal}, true
	case KindFloat:
		if i, ok := floatToInt(k.floatVal); ok {
			return slotKey{kind: KindInt, i: i}, true
		}
		if math.IsNaN(k.floatVal) {
			return slotKey{}, false
		}
		return slotKey{kind: KindFloat, f: k.floatVal}, true
	case KindString:
		return slotKey{kind: KindString, s: k.strVal}, true
	}
	return slotKey{}, false
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// NewSequence returns a table holding values under the keys 1..len(values).
func NewSequence(values ...Value) *Table {
	t := &Table{entries: make([]Entry, 0, len(values))}
	for _, v := range values {
		t.Append(v)
	}
	return t
}

// Set stores v under k. An existing scalar key keeps its position and has
// its value replaced; any other key is appended. Keys that cannot be
// serialized (tables, nil, opaque values) are stored as given and rejected
// when the table is serialized.
func (t *Table) Set(k, v Value) *Table {
	slot, ok := slotOf(k)
	if ok {
		if i, found := t.index[slot]; found {
			t.entries[i].Value = v
			return t
		}
		if t.index == nil {
			t.index = make(map[slotKey]int)
		}
		t.index[slot] = len(t.entries)
	}
	t.entries = append(t.entries, Entry{Key: k, Value: v})
	return t
}

// SetString is shorthand for Set(String(k), v).
func (t *Table) SetString(k string, v Value) *Table {
	return t.Set(String(k), v)
}

// Append stores v under the key Len()+1.
func (t *Table) Append(v Value) *Table {
	return t.Set(Int(int64(len(t.entries)+1)), v)
}

// Get returns the value stored under k.
func (t *Table) Get(k Value) (Value, bool) {
	slot, ok := slotOf(k)
	if !ok {
		return Nil(), false
	}
	i, found := t.index[slot]
	if !found {
		return Nil(), false
	}
	return t.entries[i].Value, true
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Entries returns a copy of the entries in iteration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// All iterates over the entries in order.
func (t *Table) All() iter.Seq2[Value, Value] {
	return func(yield func(Value, Value) bool) {
		for _, e := range t.entries {
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}
