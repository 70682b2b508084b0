package luatable

import (
	"math"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindNil, "nil"},
		{KindBool, "bool"},
		{KindInt, "int"},
		{KindFloat, "float"},
		{KindString, "string"},
		{KindTable, "table"},
		{KindOpaque, "opaque"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestValue_ZeroIsNil(t *testing.T) {
	var v Value
	if !v.IsNil() {
		t.Error("zero Value should be nil")
	}
	if v.Kind() != KindNil {
		t.Errorf("Kind() = %s, want nil", v.Kind())
	}
}

func TestTableValue_NilTable(t *testing.T) {
	if v := TableValue(nil); !v.IsNil() {
		t.Errorf("TableValue(nil) = %v, want nil", v)
	}
}

func TestValue_Accessors(t *testing.T) {
	if b, err := Bool(true).AsBool(); err != nil || !b {
		t.Errorf("AsBool() = %v, %v", b, err)
	}
	if i, err := Int(-7).AsInt(); err != nil || i != -7 {
		t.Errorf("AsInt() = %v, %v", i, err)
	}
	if f, err := Float(1.5).AsFloat(); err != nil || f != 1.5 {
		t.Errorf("AsFloat() = %v, %v", f, err)
	}
	if s, err := String("x").AsString(); err != nil || s != "x" {
		t.Errorf("AsString() = %v, %v", s, err)
	}
	tbl := NewTable()
	if got, err := TableValue(tbl).AsTable(); err != nil || got != tbl {
		t.Errorf("AsTable() = %v, %v", got, err)
	}
	ch := make(chan int)
	if got := Opaque(ch).Opaque(); got != ch {
		t.Errorf("Opaque() = %v, want channel", got)
	}
	if got := Int(1).Opaque(); got != nil {
		t.Errorf("Int.Opaque() = %v, want nil", got)
	}
}

func TestValue_AccessorKindMismatch(t *testing.T) {
	if _, err := String("x").AsBool(); err == nil {
		t.Error("AsBool() on string should fail")
	}
	if _, err := Bool(true).AsInt(); err == nil {
		t.Error("AsInt() on bool should fail")
	}
	if _, err := String("1").AsFloat(); err == nil {
		t.Error("AsFloat() on string should fail")
	}
	if _, err := Int(1).AsString(); err == nil {
		t.Error("AsString() on int should fail")
	}
	if _, err := Nil().AsTable(); err == nil {
		t.Error("AsTable() on nil should fail")
	}
}

func TestValue_NumberConversions(t *testing.T) {
	if i, err := Float(3).AsInt(); err != nil || i != 3 {
		t.Errorf("Float(3).AsInt() = %v, %v", i, err)
	}
	if _, err := Float(3.5).AsInt(); err == nil {
		t.Error("Float(3.5).AsInt() should fail")
	}
	if _, err := Float(math.Inf(1)).AsInt(); err == nil {
		t.Error("Float(+Inf).AsInt() should fail")
	}
	if f, err := Int(4).AsFloat(); err != nil || f != 4 {
		t.Errorf("Int(4).AsFloat() = %v, %v", f, err)
	}
	if !Int(1).IsNumber() || !Float(1).IsNumber() || String("1").IsNumber() {
		t.Error("IsNumber() mismatch")
	}
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Nil(), "nil"},
		{Bool(false), "false"},
		{Int(42), "42"},
		{Float(0.5), "0.5"},
		{String("a\"b"), `"a\"b"`},
		{TableValue(NewSequence(Int(1), Int(2))), "table(2)"},
		{Opaque(func() {}), "opaque(func())"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
