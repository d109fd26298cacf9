package extract

import (
	"fmt"
	"strconv"
)

// ValueKind enumerates the closed set of header value representations.
type ValueKind int

const (
	String ValueKind = iota
	Int
	Float
	Bool
	// Opaque marks a value that had no native scalar form and was
	// stringified instead of being dropped.
	Opaque
)

// Value is one header value as a small tagged union. Conversion from the
// decoder's dynamic value is total: every input maps to one of the five
// kinds, never to an error.
type Value struct {
	Kind  ValueKind
	Str   string
	Int   int64
	Float float64
	Bool  bool
}

// Coerce converts an arbitrary decoder value to a Value.
func Coerce(v any) Value {
	switch x := v.(type) {
	case string:
		return Value{Kind: String, Str: x}
	case bool:
		return Value{Kind: Bool, Bool: x}
	case int:
		return Value{Kind: Int, Int: int64(x)}
	case int8:
		return Value{Kind: Int, Int: int64(x)}
	case int16:
		return Value{Kind: Int, Int: int64(x)}
	case int32:
		return Value{Kind: Int, Int: int64(x)}
	case int64:
		return Value{Kind: Int, Int: x}
	case uint8:
		return Value{Kind: Int, Int: int64(x)}
	case uint16:
		return Value{Kind: Int, Int: int64(x)}
	case uint32:
		return Value{Kind: Int, Int: int64(x)}
	case uint64:
		return Value{Kind: Int, Int: int64(x)}
	case float32:
		return Value{Kind: Float, Float: float64(x)}
	case float64:
		return Value{Kind: Float, Float: x}
	default:
		return Value{Kind: Opaque, Str: fmt.Sprint(v)}
	}
}

// Native returns the value as the plain Go scalar used for serialization.
func (v Value) Native() any {
	switch v.Kind {
	case String, Opaque:
		return v.Str
	case Int:
		return v.Int
	case Float:
		return v.Float
	case Bool:
		return v.Bool
	default:
		return v.Str
	}
}

// AsString renders the value for display and unit-label collection.
func (v Value) AsString() string {
	switch v.Kind {
	case String, Opaque:
		return v.Str
	case Int:
		return strconv.FormatInt(v.Int, 10)
	case Float:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case Bool:
		return strconv.FormatBool(v.Bool)
	default:
		return v.Str
	}
}

// AsInt reports the value as an integer when it is numeric.
func (v Value) AsInt() (int64, bool) {
	switch v.Kind {
	case Int:
		return v.Int, true
	case Float:
		return int64(v.Float), true
	default:
		return 0, false
	}
}

// MarshalJSON serializes the native scalar form.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case Int:
		return []byte(strconv.FormatInt(v.Int, 10)), nil
	case Float:
		f := strconv.FormatFloat(v.Float, 'g', -1, 64)
		// JSON cannot carry NaN/Inf; degrade to the string form.
		if v.Float != v.Float || v.Float > 1.797e308 || v.Float < -1.797e308 {
			return strconv.AppendQuote(nil, f), nil
		}
		return []byte(f), nil
	case Bool:
		return []byte(strconv.FormatBool(v.Bool)), nil
	default:
		return strconv.AppendQuote(nil, v.Str), nil
	}
}
