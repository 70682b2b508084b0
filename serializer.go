package luatable

import (
	"context"
	"io"
	"time"
)

// Serializer renders values as Lua table literals.
//
// A Serializer is immutable after New and safe for concurrent use. Each call
// builds its output in a private buffer; on failure no text is returned or
// written.
type Serializer struct {
	cfg config
}

// New creates a Serializer. Options are applied in order over the defaults:
// tab indentation, no preamble, maximum depth 64, cycle detection on and no
// entry budget.
func New(opts ...Option) (*Serializer, error) {
	cfg, err := buildConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Serializer{cfg: cfg}, nil
}

// ContentType returns the MIME type of the output.
func (s *Serializer) ContentType() string {
	return ContentType
}

// Serialize renders v. v may be a Value, a *Table, or any Go value
// accepted by FromGo.
func (s *Serializer) Serialize(ctx context.Context, v any) (string, error) {
	out, err := s.serialize(ctx, v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// Marshal renders v as bytes.
func (s *Serializer) Marshal(v any) ([]byte, error) {
	return s.serialize(context.Background(), v)
}

// Encode renders v and writes it, followed by a newline, to w.
// Nothing is written when serialization fails.
func (s *Serializer) Encode(ctx context.Context, w io.Writer, v any) error {
	out, err := s.serialize(ctx, v)
	if err != nil {
		return err
	}
	out = append(out, '\n')
	_, err = w.Write(out)
	return err
}

func (s *Serializer) serialize(ctx context.Context, v any) ([]byte, error) {
	start := time.Now()
	emitSerializeStart(ctx)

	e := newEncoder(s.cfg)
	err := e.encode(fromGo(v, s.cfg.maxDepth))
	if err != nil {
		emitSerializeComplete(ctx, 0, e.entries, e.maxSeen, time.Since(start), err)
		return nil, err
	}

	emitSerializeComplete(ctx, len(e.buf), e.entries, e.maxSeen, time.Since(start), nil)
	return e.buf, nil
}

// Marshal renders v with the given options.
func Marshal(v any, opts ...Option) (string, error) {
	return MarshalContext(context.Background(), v, opts...)
}

// MarshalContext renders v with the given options. ctx is passed to the
// emitted signals.
func MarshalContext(ctx context.Context, v any, opts ...Option) (string, error) {
	s, err := New(opts...)
	if err != nil {
		return "", err
	}
	return s.Serialize(ctx, v)
}
