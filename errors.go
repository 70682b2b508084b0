package luatable

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrUnrepresentable indicates a value has no Lua literal form
	// (NaN, infinities, funcs, channels, other opaque values).
	ErrUnrepresentable = errors.New("unrepresentable value")

	// ErrInvalidKey indicates a table key that cannot be written as a literal index.
	ErrInvalidKey = errors.New("invalid key")

	// ErrDepthExceeded indicates tables nested deeper than the configured maximum.
	ErrDepthExceeded = errors.New("depth exceeded")

	// ErrCycleDetected indicates a table that appears inside itself.
	ErrCycleDetected = errors.New("cycle detected")

	// ErrBudgetExceeded indicates more entries than the configured maximum.
	ErrBudgetExceeded = errors.New("entry budget exceeded")

	// ErrInvalidOption indicates a serializer option with an invalid value.
	ErrInvalidOption = errors.New("invalid option")

	// ErrDecode indicates a source adapter failed to read its input.
	ErrDecode = errors.New("decode failed")
)

// Path is the sequence of keys leading from the root value to a nested value.
type Path []Value

// String renders the path in Lua index syntax, e.g. ["users"][3]["name"].
func (p Path) String() string {
	if len(p) == 0 {
		return "<root>"
	}
	var sb strings.Builder
	for _, k := range p {
		sb.WriteByte('[')
		if text, err := encodeKey(k); err == nil {
			sb.WriteString(text)
		} else {
			sb.WriteString(k.String())
		}
		sb.WriteByte(']')
	}
	return sb.String()
}

// clone copies p so an error keeps its path after the encoder unwinds.
func (p Path) clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// EncodeError reports a serialization failure and where it happened.
// It wraps one of ErrUnrepresentable, ErrInvalidKey, ErrDepthExceeded,
// ErrCycleDetected or ErrBudgetExceeded.
type EncodeError struct {
	Err    error  // Underlying sentinel error
	Path   Path   // Keys from the root to the offending value
	Detail string // What was found there
}

func (e *EncodeError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at %s: %s", e.Err.Error(), e.Path, e.Detail)
	}
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Path)
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// ConfigError reports an invalid serializer option.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrInvalidOption)
	Option string // Option name
	Detail string // Why it was rejected
}

func (e *ConfigError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s %s: %s", e.Err.Error(), e.Option, e.Detail)
	}
	return fmt.Sprintf("%s %s", e.Err.Error(), e.Option)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// DecodeError reports a source adapter failure.
type DecodeError struct {
	Err         error  // Underlying sentinel error (ErrDecode)
	ContentType string // Content type of the source
	Cause       error  // Original error from the adapter
}

func (e *DecodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %v", e.Err.Error(), e.ContentType, e.Cause)
	}
	return fmt.Sprintf("%s (%s)", e.Err.Error(), e.ContentType)
}

func (e *DecodeError) Unwrap() []error {
	if e.Cause == nil {
		return []error{e.Err}
	}
	return []error{e.Err, e.Cause}
}

// newEncodeError creates an EncodeError with a snapshot of path.
func newEncodeError(sentinel error, path Path, detail string) error {
	return &EncodeError{
		Err:    sentinel,
		Path:   path.clone(),
		Detail: detail,
	}
}

// newConfigError creates a ConfigError for a rejected option.
func newConfigError(option, detail string) error {
	return &ConfigError{
		Err:    ErrInvalidOption,
		Option: option,
		Detail: detail,
	}
}

// newDecodeError creates a DecodeError for adapter failures.
func newDecodeError(contentType string, cause error) error {
	return &DecodeError{
		Err:         ErrDecode,
		ContentType: contentType,
		Cause:       cause,
	}
}
