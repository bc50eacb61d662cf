package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Value is a sealed interface over the JSON-like types a state document may
// contain: Null, Bool, Int, Float, String, Array, and Object.
// Ints and floats are kept distinct so a number round-trips through the
// canonical encoding without formatting drift (7 stays 7, 7.5 stays 7.5).
type Value interface {
	stateValue() // Sealed - only these types implement it
}

// Null represents a JSON null.
type Null struct{}

func (Null) stateValue() {}

// Bool represents a JSON boolean.
type Bool bool

func (Bool) stateValue() {}

// Int represents a JSON number with no fractional or exponent part.
// Always int64.
type Int int64

func (Int) stateValue() {}

// Float represents a JSON number with a fractional or exponent part.
// NaN and infinities are not representable in JSON; construct through
// NewFloat to reject them at the ingestion boundary.
type Float float64

func (Float) stateValue() {}

// String represents a JSON string.
type String string

func (String) stateValue() {}

// Array represents a JSON array. Element order is semantically significant
// and preserved by the canonical encoding.
type Array []Value

func (Array) stateValue() {}

// Object represents a JSON object. Key order is NOT semantically significant;
// the canonical encoding sorts keys byte-wise.
type Object map[string]Value

func (Object) stateValue() {}

// NewFloat constructs a Float, rejecting NaN and infinities.
// These are a caller-side construction error (MalformedInput), never
// something the canonicalizer has to paper over.
func NewFloat(f float64) (Float, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &MalformedInputError{Value: fmt.Sprintf("%v", f)}
	}
	return Float(f), nil
}

// MalformedInputError reports a value that has no JSON representation
// (NaN, ±Inf). Fatal to the call that produced it, recoverable by the caller.
type MalformedInputError struct {
	Value string
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("MALFORMED_INPUT: value has no JSON representation: %s", e.Value)
}

// ParseValue decodes raw JSON into a Value. Numbers are decoded with
// json.Number so integers and floats are distinguished exactly as written.
// Trailing non-whitespace content after the value is rejected.
func ParseValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing content after JSON value")
	}

	return fromAny(raw)
}

// fromAny recursively converts a decoded JSON value to a Value.
func fromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(val), nil
	case string:
		return String(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Int(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return nil, fmt.Errorf("unrepresentable number: %s", val)
		}
		return NewFloat(f)
	case []any:
		arr := make(Array, len(val))
		for i, elem := range val {
			sv, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("array[%d]: %w", i, err)
			}
			arr[i] = sv
		}
		return arr, nil
	case map[string]any:
		obj := make(Object, len(val))
		for k, elem := range val {
			sv, err := fromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("object[%q]: %w", k, err)
			}
			obj[k] = sv
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unsupported type: %T", v)
	}
}

// Interface converts a Value back to plain Go types (nil, bool, int64,
// float64, string, []any, map[string]any). Useful for handing documents to
// encoders that don't know about the Value types.
func Interface(v Value) any {
	switch val := v.(type) {
	case Null:
		return nil
	case Bool:
		return bool(val)
	case Int:
		return int64(val)
	case Float:
		return float64(val)
	case String:
		return string(val)
	case Array:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Interface(elem)
		}
		return out
	case Object:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[k] = Interface(elem)
		}
		return out
	default:
		return nil
	}
}

// Clone returns a deep copy of a Value. Scalars are copied by value;
// arrays and objects are copied recursively.
func Clone(v Value) Value {
	switch val := v.(type) {
	case Array:
		out := make(Array, len(val))
		for i, elem := range val {
			out[i] = Clone(elem)
		}
		return out
	case Object:
		out := make(Object, len(val))
		for k, elem := range val {
			out[k] = Clone(elem)
		}
		return out
	default:
		return v
	}
}
