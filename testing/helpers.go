// Package testing provides test utilities for luatable.
//
// Output is checked by evaluating it in an embedded Lua interpreter
// (gopher-lua, Lua 5.1 semantics) and comparing the result with the Value
// that was serialized.
package testing

import (
	"fmt"
	"testing"

	lua "github.com/yuin/gopher-lua"
	"github.com/zoobzio/luatable"
)

// Eval evaluates a Lua expression and returns its value.
// text must not carry a preamble.
func Eval(text string) (lua.LValue, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	fn, err := L.LoadString("return " + text)
	if err != nil {
		return lua.LNil, err
	}
	L.Push(fn)
	if err := L.PCall(0, 1, nil); err != nil {
		return lua.LNil, err
	}
	lv := L.Get(-1)
	L.Pop(1)
	return lv, nil
}

// MustEval evaluates text and fails the test on error.
func MustEval(t testing.TB, text string) lua.LValue {
	t.Helper()
	lv, err := Eval(text)
	if err != nil {
		t.Fatalf("lua eval failed: %v\n%s", err, text)
	}
	return lv
}

// Equal reports whether the Lua value got is what evaluating the
// serialization of want should produce. Table entries whose value is nil
// are ignored, since Lua does not store them. Numbers compare as float64.
func Equal(want luatable.Value, got lua.LValue) error {
	switch want.Kind() {
	case luatable.KindNil:
		if got != lua.LNil {
			return fmt.Errorf("want nil, got %s %v", got.Type(), got)
		}
	case luatable.KindBool:
		b, _ := want.AsBool()
		lb, ok := got.(lua.LBool)
		if !ok || bool(lb) != b {
			return fmt.Errorf("want %v, got %s %v", b, got.Type(), got)
		}
	case luatable.KindInt, luatable.KindFloat:
		f, _ := want.AsFloat()
		ln, ok := got.(lua.LNumber)
		if !ok || float64(ln) != f {
			return fmt.Errorf("want %v, got %s %v", f, got.Type(), got)
		}
	case luatable.KindString:
		s, _ := want.AsString()
		ls, ok := got.(lua.LString)
		if !ok || string(ls) != s {
			return fmt.Errorf("want %q, got %s %v", s, got.Type(), got)
		}
	case luatable.KindTable:
		tbl, _ := want.AsTable()
		lt, ok := got.(*lua.LTable)
		if !ok {
			return fmt.Errorf("want table, got %s", got.Type())
		}
		return equalTable(tbl, lt)
	default:
		return fmt.Errorf("%s values have no Lua form", want.Kind())
	}
	return nil
}

func equalTable(want *luatable.Table, got *lua.LTable) error {
	n := 0
	for k, v := range want.All() {
		if v.IsNil() {
			continue
		}
		n++
		lk, err := luaKey(k)
		if err != nil {
			return err
		}
		if err := Equal(v, got.RawGet(lk)); err != nil {
			return fmt.Errorf("[%v]: %w", k, err)
		}
	}

	count := 0
	got.ForEach(func(_, _ lua.LValue) {
		count++
	})
	if count != n {
		return fmt.Errorf("want %d entries, got %d", n, count)
	}
	return nil
}

func luaKey(k luatable.Value) (lua.LValue, error) {
	switch k.Kind() {
	case luatable.KindString:
		s, _ := k.AsString()
		return lua.LString(s), nil
	case luatable.KindInt, luatable.KindFloat:
		f, _ := k.AsFloat()
		return lua.LNumber(f), nil
	default:
		return lua.LNil, fmt.Errorf("%s key has no Lua form", k.Kind())
	}
}

// AssertRoundTrip serializes v, evaluates the output and checks it
// rebuilds v. It returns the serialized text.
func AssertRoundTrip(t testing.TB, v luatable.Value, opts ...luatable.Option) string {
	t.Helper()
	text, err := luatable.Marshal(v, opts...)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if err := Equal(v, MustEval(t, text)); err != nil {
		t.Errorf("round trip mismatch: %v\n%s", err, text)
	}
	return text
}

// Fixture returns a table exercising every scalar kind, nesting, escapes
// and an empty table.
func Fixture() luatable.Value {
	return luatable.TableValue(luatable.NewTable().
		SetString("name", luatable.String("service \"api\"\n\tv2")).
		SetString("port", luatable.Int(8080)).
		SetString("ratio", luatable.Float(0.25)).
		SetString("whole", luatable.Float(3)).
		SetString("enabled", luatable.Bool(true)).
		SetString("tags", luatable.TableValue(luatable.NewSequence(
			luatable.String("a"),
			luatable.String("\x00\x1b\x7f"),
			luatable.String("héllo"),
		))).
		SetString("limits", luatable.TableValue(luatable.NewTable().
			Set(luatable.Int(-1), luatable.String("negative")).
			Set(luatable.Float(1.5), luatable.String("fraction")))).
		SetString("empty", luatable.TableValue(luatable.NewTable())))
}
