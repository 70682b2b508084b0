package luatable

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitSerializeStart(_ *testing.T) {
	// Should not panic
	emitSerializeStart(context.Background())
}

func TestEmitSerializeComplete_Success(_ *testing.T) {
	emitSerializeComplete(context.Background(), 128, 4, 2, 100*time.Millisecond, nil)
}

func TestEmitSerializeComplete_Error(_ *testing.T) {
	emitSerializeComplete(context.Background(), 0, 1, 1, 100*time.Millisecond, errors.New("test error"))
}

func TestEmitDecodeComplete_Success(_ *testing.T) {
	emitDecodeComplete(context.Background(), "application/json", 64, 100*time.Millisecond, nil)
}

func TestEmitDecodeComplete_Error(_ *testing.T) {
	emitDecodeComplete(context.Background(), "application/json", 0, 100*time.Millisecond, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	// Verify signals are properly initialized
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalSerializeStart", SignalSerializeStart},
		{"SignalSerializeComplete", SignalSerializeComplete},
		{"SignalDecodeComplete", SignalDecodeComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s should not be nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyContentType", KeyContentType},
		{"KeySize", KeySize},
		{"KeyEntries", KeyEntries},
		{"KeyDepth", KeyDepth},
		{"KeyDuration", KeyDuration},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s should not be nil", k.name)
		}
	}
}
