package luatable

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for serializer events.
var (
	SignalSerializeStart    = capitan.NewSignal("luatable.serialize.start", "Serialization beginning")
	SignalSerializeComplete = capitan.NewSignal("luatable.serialize.complete", "Serialization finished")
	SignalDecodeComplete    = capitan.NewSignal("luatable.decode.complete", "Source decode finished")
)

// Keys for typed event data.
var (
	KeyContentType = capitan.NewStringKey("content_type")
	KeySize        = capitan.NewIntKey("size")
	KeyEntries     = capitan.NewIntKey("entries")
	KeyDepth       = capitan.NewIntKey("depth")
	KeyDuration    = capitan.NewDurationKey("duration")
	KeyError       = capitan.NewErrorKey("error")
)

// emitSerializeStart emits an event when serialization begins.
func emitSerializeStart(ctx context.Context) {
	capitan.Emit(ctx, SignalSerializeStart,
		KeyContentType.Field(ContentType),
	)
}

// emitSerializeComplete emits an event when serialization finishes.
func emitSerializeComplete(ctx context.Context, size, entries, depth int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(ContentType),
		KeySize.Field(size),
		KeyEntries.Field(entries),
		KeyDepth.Field(depth),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalSerializeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalSerializeComplete, fields...)
	}
}

// emitDecodeComplete emits an event when a source adapter finishes.
func emitDecodeComplete(ctx context.Context, contentType string, size int, duration time.Duration, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySize.Field(size),
		KeyDuration.Field(duration),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
