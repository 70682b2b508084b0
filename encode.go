package luatable

import (
	"errors"
	"fmt"
)

// encoder holds the state of one serialization call. It is never shared
// between calls.
type encoder struct {
	cfg      config
	buf      []byte
	path     Path
	visiting map[*Table]struct{}
	entries  int
	maxSeen  int
}

func newEncoder(cfg config) *encoder {
	e := &encoder{cfg: cfg}
	if cfg.cycleDetection {
		e.visiting = make(map[*Table]struct{})
	}
	return e
}

// encode renders the top-level value, preamble included.
func (e *encoder) encode(v Value) error {
	e.buf = append(e.buf, e.cfg.preamble...)
	return e.encodeValue(v, 1)
}

// encodeValue writes v. depth is the level a table found here would occupy.
func (e *encoder) encodeValue(v Value, depth int) error {
	if v.kind == KindTable {
		return e.encodeTable(v.tableVal, depth)
	}
	out, err := appendScalar(e.buf, v)
	if err != nil {
		return e.fail(err)
	}
	e.buf = out
	return nil
}

func (e *encoder) encodeTable(t *Table, depth int) error {
	if depth > e.cfg.maxDepth {
		return newEncodeError(ErrDepthExceeded, e.path, fmt.Sprintf("table nested deeper than %d", e.cfg.maxDepth))
	}
	if t.cut {
		return newEncodeError(ErrDepthExceeded, e.path, fmt.Sprintf("go value nested deeper than %d", DefaultMaxDepth))
	}
	if e.visiting != nil {
		if _, ok := e.visiting[t]; ok {
			return newEncodeError(ErrCycleDetected, e.path, "table contains itself")
		}
		e.visiting[t] = struct{}{}
		defer delete(e.visiting, t)
	}
	if depth > e.maxSeen {
		e.maxSeen = depth
	}

	e.buf = append(e.buf, '{', '\n')
	for i, entry := range t.entries {
		e.entries++
		if e.cfg.maxEntries > 0 && e.entries > e.cfg.maxEntries {
			return newEncodeError(ErrBudgetExceeded, e.path, fmt.Sprintf("more than %d entries", e.cfg.maxEntries))
		}
		if i > 0 {
			e.buf = append(e.buf, ',', '\n')
		}
		e.writeIndent(depth)
		e.buf = append(e.buf, '[')
		out, err := appendKey(e.buf, entry.Key)
		if err != nil {
			return newEncodeError(ErrInvalidKey, e.path, fmt.Sprintf("%s cannot be a key", describeKey(entry.Key)))
		}
		e.buf = append(out, "] = "...)

		e.path = append(e.path, entry.Key)
		if err := e.encodeValue(entry.Value, depth+1); err != nil {
			return err
		}
		e.path = e.path[:len(e.path)-1]
	}
	if len(t.entries) > 0 {
		e.buf = append(e.buf, '\n')
	}
	e.writeIndent(depth - 1)
	e.buf = append(e.buf, '}')
	return nil
}

func (e *encoder) writeIndent(depth int) {
	for range depth {
		e.buf = append(e.buf, e.cfg.indent...)
	}
}

// fail wraps a scalar encoding error with the current path.
func (e *encoder) fail(err error) error {
	var se *scalarError
	if errors.As(err, &se) {
		return newEncodeError(se.sentinel, e.path, se.detail)
	}
	return newEncodeError(ErrUnrepresentable, e.path, err.Error())
}

func describeKey(k Value) string {
	switch k.kind {
	case KindFloat:
		return fmt.Sprintf("float %v", k.floatVal)
	case KindOpaque:
		return fmt.Sprintf("opaque %T", k.opaque)
	default:
		return k.kind.String()
	}
}
