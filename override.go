package luatable

// Marshaler lets a type bypass reflection-based conversion. When a Go value
// passed to FromGo (or found inside one) implements Marshaler, its
// MarshalLua result is used as is, ahead of encoding.TextMarshaler and the
// struct field walk.
//
// Types with no literal form should return Opaque(receiver); the serializer
// then reports ErrUnrepresentable with the path to the value.
type Marshaler interface {
	MarshalLua() Value
}
