package luatable

import (
	"errors"
	"io"
	"testing"
)

func TestEncodeError_Is(t *testing.T) {
	err := newEncodeError(ErrCycleDetected, Path{String("a")}, "table contains itself")

	if !errors.Is(err, ErrCycleDetected) {
		t.Error("EncodeError should unwrap to ErrCycleDetected")
	}
	if errors.Is(err, ErrDepthExceeded) {
		t.Error("EncodeError should not match ErrDepthExceeded")
	}
}

func TestEncodeError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "full context",
			err:  newEncodeError(ErrUnrepresentable, Path{String("users"), Int(3)}, "func() has no literal form"),
			want: `unrepresentable value at ["users"][3]: func() has no literal form`,
		},
		{
			name: "root without detail",
			err:  &EncodeError{Err: ErrDepthExceeded},
			want: "depth exceeded at <root>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEncodeError_PathIsSnapshot(t *testing.T) {
	path := Path{String("a"), String("b")}
	err := newEncodeError(ErrInvalidKey, path, "")
	path[1] = String("changed")

	var encErr *EncodeError
	errors.As(err, &encErr)
	if got := encErr.Path.String(); got != `["a"]["b"]` {
		t.Errorf("Path = %s, want [\"a\"][\"b\"]", got)
	}
}

func TestPath_String(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{nil, "<root>"},
		{Path{Int(1)}, "[1]"},
		{Path{String("a b"), Float(2.5)}, `["a b"][2.5]`},
		{Path{String("q\"")}, `["q\""]`},
		{Path{Bool(true)}, "[true]"},
	}
	for _, tt := range tests {
		if got := tt.path.String(); got != tt.want {
			t.Errorf("Path.String() = %s, want %s", got, tt.want)
		}
	}
}

func TestConfigError(t *testing.T) {
	err := newConfigError("max depth", "must be at least 1, got 0")
	if !errors.Is(err, ErrInvalidOption) {
		t.Error("ConfigError should unwrap to ErrInvalidOption")
	}
	want := "invalid option max depth: must be at least 1, got 0"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &ConfigError{Err: ErrInvalidOption, Option: "indent"}
	if got := bare.Error(); got != "invalid option indent" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDecodeError(t *testing.T) {
	err := newDecodeError("application/json", io.ErrUnexpectedEOF)

	if !errors.Is(err, ErrDecode) {
		t.Error("DecodeError should match ErrDecode")
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("DecodeError should match its cause")
	}
	want := "decode failed (application/json): unexpected EOF"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	bare := &DecodeError{Err: ErrDecode, ContentType: "application/bson"}
	if got := bare.Error(); got != "decode failed (application/bson)" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(bare, ErrDecode) {
		t.Error("DecodeError without cause should match ErrDecode")
	}
}

func TestSentinelErrors_Distinct(t *testing.T) {
	sentinels := []error{
		ErrUnrepresentable,
		ErrInvalidKey,
		ErrDepthExceeded,
		ErrCycleDetected,
		ErrBudgetExceeded,
		ErrInvalidOption,
		ErrDecode,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v should not match %v", a, b)
			}
		}
	}
}
