package luatable

import (
	"errors"
	"math"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"
)

type convertAddress struct {
	City string `lua:"city"`
	Zip  string `json:"zip,omitempty"`
}

type convertUser struct {
	Name     string          `lua:"name"`
	Email    string          `json:"email"`
	Age      int             `lua:"age,omitempty"`
	Password string          `lua:"-"`
	Tags     []string        `lua:"tags"`
	Address  *convertAddress `lua:"address"`
	Plain    bool
	internal string
}

func TestFromGo_Struct(t *testing.T) {
	u := convertUser{
		Name:     "alice",
		Email:    "a@example.com",
		Password: "secret",
		Tags:     []string{"x"},
		Address:  &convertAddress{City: "Oslo"},
		Plain:    true,
		internal: "hidden",
	}
	got := mustMarshal(t, u)
	want := "{\n" +
		"\t[\"name\"] = \"alice\",\n" +
		"\t[\"email\"] = \"a@example.com\",\n" +
		"\t[\"tags\"] = {\n\t\t[1] = \"x\"\n\t},\n" +
		"\t[\"address\"] = {\n\t\t[\"city\"] = \"Oslo\"\n\t},\n" +
		"\t[\"Plain\"] = true\n" +
		"}"
	if got != want {
		t.Errorf("Marshal() =\n%s\nwant\n%s", got, want)
	}
}

func TestFromGo_NilMembers(t *testing.T) {
	v := FromGo(convertUser{})
	tbl, err := v.AsTable()
	if err != nil {
		t.Fatalf("AsTable() error: %v", err)
	}
	tags, ok := tbl.Get(String("tags"))
	if !ok || !tags.IsNil() {
		t.Errorf("nil slice field = %v, want nil", tags)
	}
	addr, ok := tbl.Get(String("address"))
	if !ok || !addr.IsNil() {
		t.Errorf("nil pointer field = %v, want nil", addr)
	}
}

func TestFromGo_Scalars(t *testing.T) {
	var nilPtr *int
	n := 5
	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Nil()},
		{"nil pointer", nilPtr, Nil()},
		{"pointer", &n, Int(5)},
		{"int8", int8(-3), Int(-3)},
		{"uint32", uint32(7), Int(7)},
		{"float32", float32(0.5), Float(0.5)},
		{"bytes", []byte("raw"), String("raw")},
		{"byte array", [3]byte{'a', 'b', 'c'}, String("abc")},
		{"value", Int(9), Int(9)},
		{"duration", 2 * time.Second, Int(int64(2 * time.Second))},
		{"text marshaler", net.IPv4(10, 0, 0, 1), String("10.0.0.1")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FromGo(tt.in); got != tt.want {
				t.Errorf("FromGo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromGo_Time(t *testing.T) {
	ts := time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC)
	if got := FromGo(ts); got != String("2025-01-15T10:30:00Z") {
		t.Errorf("FromGo(time) = %v", got)
	}
}

func TestFromGo_LargeUintIsOpaque(t *testing.T) {
	v := FromGo(uint64(math.MaxUint64))
	if v.Kind() != KindOpaque {
		t.Errorf("Kind() = %s, want opaque", v.Kind())
	}
	if FromGo(uint64(math.MaxInt64)).Kind() != KindInt {
		t.Error("MaxInt64 as uint64 should stay an int")
	}
}

func TestFromGo_Opaque(t *testing.T) {
	for _, in := range []any{func() {}, make(chan int), complex(1, 2)} {
		if v := FromGo(in); v.Kind() != KindOpaque {
			t.Errorf("FromGo(%T) kind = %s, want opaque", in, v.Kind())
		}
	}

	_, err := Marshal(map[string]any{"fn": func() {}})
	if !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("Marshal() error = %v, want ErrUnrepresentable", err)
	}
}

func TestFromGo_MapKeyOrder(t *testing.T) {
	m := map[any]int{
		"b":  1,
		"a":  2,
		10:   3,
		2:    4,
		1.5:  5,
		true: 6,
	}
	tbl, _ := FromGo(m).AsTable()
	want := []Value{Float(1.5), Int(2), Int(10), String("a"), String("b"), Bool(true)}
	keys := keysOf(tbl)
	if len(keys) != len(want) {
		t.Fatalf("len = %d, want %d", len(keys), len(want))
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("key %d = %v, want %v", i, keys[i], want[i])
		}
	}
}

func TestFromGo_Slices(t *testing.T) {
	got := mustMarshal(t, [][]int{{1}, {}})
	want := "{\n\t[1] = {\n\t\t[1] = 1\n\t},\n\t[2] = {\n\t}\n}"
	if got != want {
		t.Errorf("Marshal() = %q, want %q", got, want)
	}
}

func TestFromGo_CyclicMap(t *testing.T) {
	m := map[string]any{"name": "root"}
	m["self"] = m

	_, err := Marshal(m)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("Marshal() error = %v, want ErrCycleDetected", err)
	}
	var encErr *EncodeError
	errors.As(err, &encErr)
	if got := encErr.Path.String(); got != `["self"]` {
		t.Errorf("Path = %s, want [\"self\"]", got)
	}
}

type convertNode struct {
	Name string       `lua:"name"`
	Next *convertNode `lua:"next"`
}

func TestFromGo_CyclicPointer(t *testing.T) {
	a := &convertNode{Name: "a"}
	b := &convertNode{Name: "b", Next: a}
	a.Next = b

	_, err := Marshal(a)
	if !errors.Is(err, ErrCycleDetected) {
		t.Fatalf("Marshal() error = %v, want ErrCycleDetected", err)
	}
	var encErr *EncodeError
	errors.As(err, &encErr)
	if got := encErr.Path.String(); got != `["next"]["next"]` {
		t.Errorf("Path = %s, want [\"next\"][\"next\"]", got)
	}
}

func TestFromGo_SharedPointerIsNotCycle(t *testing.T) {
	shared := &convertAddress{City: "Oslo"}
	v := map[string]*convertAddress{"home": shared, "work": shared}
	if _, err := Marshal(v); err != nil {
		t.Errorf("Marshal() error: %v", err)
	}
}

type celsius float64

func (c celsius) MarshalLua() Value {
	return String(strconv.FormatFloat(float64(c), 'f', 1, 64) + "C")
}

type secret struct{ key string }

func (s *secret) MarshalLua() Value {
	return Opaque(s)
}

func TestFromGo_Marshaler(t *testing.T) {
	v := map[string]any{"temp": celsius(21.5), "none": (*secret)(nil)}
	tbl, _ := FromGo(v).AsTable()

	if got, _ := tbl.Get(String("temp")); got != String("21.5C") {
		t.Errorf("temp = %v, want \"21.5C\"", got)
	}
	if got, _ := tbl.Get(String("none")); !got.IsNil() {
		t.Errorf("nil Marshaler = %v, want nil", got)
	}

	_, err := Marshal(map[string]any{"key": &secret{key: "k"}})
	if !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("Marshal() error = %v, want ErrUnrepresentable", err)
	}
}

func nestedSlices(n int) any {
	var v any = "leaf"
	for range n {
		v = []any{v}
	}
	return v
}

func TestFromGo_DeepValue(t *testing.T) {
	_, err := Marshal(nestedSlices(1_000_000))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Fatalf("Marshal() error = %v, want ErrDepthExceeded", err)
	}
	var encErr *EncodeError
	errors.As(err, &encErr)
	if got, want := encErr.Path.String(), strings.Repeat("[1]", DefaultMaxDepth); got != want {
		t.Errorf("Path = %s, want %s", got, want)
	}
}

func TestFromGo_DeepStruct(t *testing.T) {
	head := &convertNode{Name: "0"}
	for i := range 100_000 {
		head = &convertNode{Name: strconv.Itoa(i + 1), Next: head}
	}
	_, err := Marshal(head, WithMaxDepth(10))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("Marshal() error = %v, want ErrDepthExceeded", err)
	}
}

func TestFromGo_DepthFollowsSerializer(t *testing.T) {
	v := nestedSlices(DefaultMaxDepth + 10)

	if _, err := Marshal(v, WithMaxDepth(DefaultMaxDepth+20)); err != nil {
		t.Errorf("Marshal() with a higher limit error: %v", err)
	}

	// FromGo on its own stops at DefaultMaxDepth; the cut is still reported
	_, err := Marshal(FromGo(v), WithMaxDepth(DefaultMaxDepth+20))
	if !errors.Is(err, ErrDepthExceeded) {
		t.Errorf("Marshal(FromGo()) error = %v, want ErrDepthExceeded", err)
	}
}

func TestFromGo_SelfPointer(t *testing.T) {
	var x any
	x = &x
	if v := FromGo(x); v.Kind() != KindOpaque {
		t.Errorf("Kind() = %s, want opaque", v.Kind())
	}
	_, err := Marshal(map[string]any{"x": x})
	if !errors.Is(err, ErrUnrepresentable) {
		t.Errorf("Marshal() error = %v, want ErrUnrepresentable", err)
	}
}
