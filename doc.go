// Package luatable renders values as Lua table-constructor literals.
//
// The output, when evaluated by Lua, rebuilds an equivalent value:
//
//	{
//		["name"] = "api",
//		["ports"] = {
//			[1] = 80,
//			[2] = 443
//		},
//		["debug"] = false
//	}
//
// # Value Model
//
// Value is a closed tagged union over nil, bool, int, float, string, table
// and opaque. Table is an ordered map; entries are written in insertion
// order, so output is deterministic. Keys must be strings or finite numbers.
//
//	t := luatable.NewTable().
//	    SetString("name", luatable.String("api")).
//	    SetString("ports", luatable.TableValue(luatable.NewSequence(
//	        luatable.Int(80), luatable.Int(443))))
//
// Arbitrary Go values are accepted as well and converted with FromGo:
//
//	type Service struct {
//	    Name  string `lua:"name"`
//	    Ports []int  `lua:"ports"`
//	    Debug bool   `json:"debug,omitempty"`
//	}
//
//	text, err := luatable.Marshal(Service{Name: "api", Ports: []int{80, 443}})
//
// Types that implement Marshaler choose their own Value.
//
// # Options
//
//   - WithIndent(unit)         indentation unit per level (default tab)
//   - WithPreamble(s)          text before the root value, e.g. "return "
//   - WithMaxDepth(n)          deepest nesting allowed (default 64)
//   - WithCycleDetection(bool) reject tables that contain themselves (default on)
//   - WithMaxEntries(n)        cap on entries written per call (default unlimited)
//
// # Errors
//
// Failures return an *EncodeError wrapping one of ErrUnrepresentable,
// ErrInvalidKey, ErrDepthExceeded, ErrCycleDetected or ErrBudgetExceeded,
// with the Path of keys leading to the problem. No partial output is
// returned.
//
// # Lossy Points
//
// Lua drops table entries whose value is nil, and reads tables keyed 1..N
// as sequences. Both are properties of the target language.
//
// # Sources
//
// The json, yaml, msgpack and bson subpackages read documents into Values
// while keeping document order:
//
//	v, err := luatable.Decode(ctx, yaml.New(), data)
//	text, err := luatable.MarshalContext(ctx, v, luatable.WithPreamble("return "))
//
// # Signals
//
// Serialization and decoding emit capitan signals (SignalSerializeStart,
// SignalSerializeComplete, SignalDecodeComplete) carrying size, entry count,
// depth, duration and error fields.
package luatable
