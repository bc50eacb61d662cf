package state

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Canonical produces the deterministic byte encoding of a Value. This is the
// ONLY serialization that may feed the integrity digests.
//
// Rules, applied uniformly at every depth:
//   - null/bool: JSON literals
//   - Int: minimal base-10 form, no plus sign, no leading zeros
//   - Float: the textual form a standard JSON encoder would print
//     (shortest round-trip representation; exponent form only below 1e-6
//     or at/above 1e21)
//   - String: strict JSON escaping, no HTML escaping, NFC normalized
//   - Array: elements in original order, joined with ','
//   - Object: entries sorted by byte-wise (ordinal) key comparison
//   - no whitespace anywhere
//
// Canonical is total over well-formed Values; it only fails on a Float
// holding NaN or ±Inf, which indicates the ingestion boundary was bypassed.
func Canonical(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendCanonical(buf *bytes.Buffer, v Value) error {
	switch val := v.(type) {
	case Null:
		buf.WriteString("null")
		return nil
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
		return nil
	case Int:
		buf.Write(strconv.AppendInt(nil, int64(val), 10))
		return nil
	case Float:
		return appendCanonicalFloat(buf, float64(val))
	case String:
		return appendCanonicalString(buf, string(val))
	case Array:
		return appendCanonicalArray(buf, val)
	case Object:
		return appendCanonicalObject(buf, val)
	case nil:
		return fmt.Errorf("nil Value: use Null{} for JSON null")
	default:
		return fmt.Errorf("unsupported Value type: %T", v)
	}
}

// appendCanonicalFloat writes the fixed textual form for a float. It mirrors
// what encoding/json prints for a float64: shortest representation that
// round-trips, with exponent notation only for magnitudes below 1e-6 or at
// or above 1e21, and single-digit exponents not zero-padded.
func appendCanonicalFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return &MalformedInputError{Value: strconv.FormatFloat(f, 'g', -1, 64)}
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}

	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// strconv pads single-digit exponents: 1e+21 prints as "1e+21" but
		// 1e-7 prints as "1e-07". Strip the pad to match the encoder form.
		if n := len(b); n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	buf.Write(b)
	return nil
}

// appendCanonicalString writes a string with strict JSON escaping.
// The input is NFC-normalized first so visually identical strings that
// differ only in Unicode composition hash the same. HTML escaping is
// disabled: <, >, & appear literally.
func appendCanonicalString(buf *bytes.Buffer, s string) error {
	normalized := norm.NFC.String(s)

	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(normalized); err != nil {
		return err
	}

	// json.Encoder appends a trailing newline; drop it.
	out := tmp.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	buf.Write(out)
	return nil
}

func appendCanonicalArray(buf *bytes.Buffer, arr Array) error {
	buf.WriteByte('[')
	for i, elem := range arr {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendCanonical(buf, elem); err != nil {
			return fmt.Errorf("array[%d]: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return nil
}

func appendCanonicalObject(buf *bytes.Buffer, obj Object) error {
	buf.WriteByte('{')

	// Keys are NFC-normalized BEFORE sorting, so the byte-wise ordinal order
	// holds on the bytes actually emitted and composition differences never
	// change the output. Two distinct raw keys that normalize to the same
	// string would emit a duplicate key, so that is an error. Go's native
	// string comparison is already byte-wise; sort.Strings gives exactly the
	// required ordering.
	keys := make([]string, 0, len(obj))
	values := make(map[string]Value, len(obj))
	for k, v := range obj {
		nk := norm.NFC.String(k)
		if _, dup := values[nk]; dup {
			return fmt.Errorf("duplicate object key after normalization: %q", nk)
		}
		keys = append(keys, nk)
		values[nk] = v
	}
	sort.Strings(keys)

	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := appendCanonicalString(buf, k); err != nil {
			return fmt.Errorf("key %q: %w", k, err)
		}
		buf.WriteByte(':')
		if err := appendCanonical(buf, values[k]); err != nil {
			return fmt.Errorf("value for key %q: %w", k, err)
		}
	}

	buf.WriteByte('}')
	return nil
}
