package luatable

import (
	"context"
	"time"
)

// MaxDecodeDepth is the deepest collection nesting a Source accepts. Deeper
// documents fail with an error wrapping ErrDepthExceeded.
const MaxDecodeDepth = 10000

// Source reads a document format into a Value, preserving document order.
// Implementations live in the json, yaml, msgpack and bson subpackages.
type Source interface {
	// ContentType returns the MIME type this source reads (e.g., "application/json").
	ContentType() string

	// Decode converts data into a Value.
	Decode(data []byte) (Value, error)
}

// Decode runs src over data. Adapter failures are wrapped in a DecodeError.
func Decode(ctx context.Context, src Source, data []byte) (Value, error) {
	start := time.Now()
	v, err := src.Decode(data)
	if err != nil {
		err = newDecodeError(src.ContentType(), err)
		emitDecodeComplete(ctx, src.ContentType(), len(data), time.Since(start), err)
		return Nil(), err
	}
	emitDecodeComplete(ctx, src.ContentType(), len(data), time.Since(start), nil)
	return v, nil
}
