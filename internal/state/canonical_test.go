package state

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalBasic(t *testing.T) {
	tests := []struct {
		name     string
		input    Value
		expected string
	}{
		{"null", Null{}, "null"},
		{"bool true", Bool(true), "true"},
		{"bool false", Bool(false), "false"},
		{"int", Int(42), "42"},
		{"negative int", Int(-100), "-100"},
		{"zero", Int(0), "0"},
		{"max int64", Int(9223372036854775807), "9223372036854775807"},
		{"min int64", Int(-9223372036854775808), "-9223372036854775808"},
		{"string", String("hello"), `"hello"`},
		{"empty string", String(""), `""`},
		{"empty array", Array{}, "[]"},
		{"empty object", Object{}, "{}"},
		{"array of ints", Array{Int(1), Int(2), Int(3)}, "[1,2,3]"},
		{"simple object", Object{"a": Int(1)}, `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Canonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestCanonicalFloatForms(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"simple fraction", 0.5, "0.5"},
		{"whole float prints without fraction", 7.0, "7"},
		{"negative fraction", -2.25, "-2.25"},
		{"shortest round-trip form", 0.1, "0.1"},
		{"large magnitude switches to exponent", 1e21, "1e+21"},
		{"small magnitude switches to exponent", 1e-7, "1e-7"},
		{"boundary stays plain", 1e20, "100000000000000000000"},
		{"small boundary stays plain", 1e-6, "0.000001"},
		{"zero", 0.0, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Canonical(Float(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestCanonicalFloatRoundTrips(t *testing.T) {
	// A float that survives parse -> canonicalize must print the same text
	// it arrived as. This is the "no formatting drift" invariant.
	for _, text := range []string{"0.5", "3.14159", "-0.001", "2.5e-8"} {
		v, err := ParseValue([]byte(text))
		require.NoError(t, err)
		out, err := Canonical(v)
		require.NoError(t, err)

		reparsed, err := ParseValue(out)
		require.NoError(t, err)
		assert.Equal(t, v, reparsed, "round-trip drift for %s", text)
	}
}

func TestCanonicalRejectsNonFiniteFloat(t *testing.T) {
	// A non-finite Float can only exist if the ingestion boundary was
	// bypassed; canonicalization still refuses to emit invalid JSON.
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Canonical(Object{"x": Float(f)})
		require.Error(t, err)

		var malformed *MalformedInputError
		assert.ErrorAs(t, err, &malformed)
	}
}

func TestCanonicalSortedKeys(t *testing.T) {
	obj := Object{
		"zebra": Int(1),
		"alpha": Int(2),
		"beta":  Int(3),
	}

	result, err := Canonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":2,"beta":3,"zebra":1}`, string(result))
}

func TestCanonicalNestedSortedKeys(t *testing.T) {
	obj := Object{
		"z": Object{
			"b": Int(1),
			"a": Int(2),
		},
		"a": Int(3),
	}

	result, err := Canonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"a":3,"z":{"a":2,"b":1}}`, string(result))
}

func TestCanonicalByteWiseKeyOrder(t *testing.T) {
	// Ordinal byte-wise comparison: uppercase sorts before lowercase, and
	// multi-byte UTF-8 keys sort after ASCII.
	obj := Object{
		"b": Int(1),
		"B": Int(2),
		"é": Int(3),
	}

	result, err := Canonical(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"B":2,"b":1,"é":3}`, string(result))
}

func TestCanonicalDeterministicAcrossInsertionOrder(t *testing.T) {
	build := func(keys []string) Object {
		obj := Object{}
		for i, k := range keys {
			obj[k] = Int(int64(i))
		}
		// values must match regardless of order, so fix them by key
		for _, k := range keys {
			obj[k] = String(k)
		}
		return obj
	}

	a := build([]string{"one", "two", "three", "four"})
	b := build([]string{"four", "three", "two", "one"})

	ca, err := Canonical(a)
	require.NoError(t, err)
	cb, err := Canonical(b)
	require.NoError(t, err)

	assert.Equal(t, string(ca), string(cb), "canonical bytes must not depend on insertion order")
}

func TestCanonicalListOrderIsSignificant(t *testing.T) {
	forward := Array{Int(1), Int(2), Int(3)}
	reversed := Array{Int(3), Int(2), Int(1)}

	cf, err := Canonical(forward)
	require.NoError(t, err)
	cr, err := Canonical(reversed)
	require.NoError(t, err)

	assert.NotEqual(t, string(cf), string(cr), "list order must change canonical output")
}

func TestCanonicalNoHTMLEscape(t *testing.T) {
	// <, >, & stay literal; the HTML-safe \u escapes must never appear.
	result, err := Canonical(String("<script>a & b</script>"))
	require.NoError(t, err)
	assert.Equal(t, `"<script>a & b</script>"`, string(result))
	assert.NotContains(t, string(result), `\u003c`)
	assert.NotContains(t, string(result), `\u003e`)
	assert.NotContains(t, string(result), `\u0026`)
}

func TestCanonicalStringEscaping(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "line1\nline2", `"line1\nline2"`},
		{"tab", "a\tb", `"a\tb"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Canonical(String(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(result))
		})
	}
}

func TestCanonicalNFCNormalization(t *testing.T) {
	// "é" composed (U+00E9) vs decomposed (e + U+0301) must hash identically.
	composed := String("café")
	decomposed := String("café")

	c1, err := Canonical(composed)
	require.NoError(t, err)
	c2, err := Canonical(decomposed)
	require.NoError(t, err)

	assert.Equal(t, string(c1), string(c2))
}

func TestCanonicalNoWhitespace(t *testing.T) {
	obj := Object{
		"list": Array{Int(1), String("two")},
		"map":  Object{"k": Null{}},
	}

	result, err := Canonical(obj)
	require.NoError(t, err)
	assert.NotContains(t, string(result), " ")
	assert.NotContains(t, string(result), "\n")
}

func TestCanonicalKeyNormalization(t *testing.T) {
	// Keys normalize before sorting, so composition differences never change
	// the canonical bytes and the emitted keys are in byte-wise order.
	// A key arriving as e+U+0301 starts with byte 0x65 and would raw-sort
	// before "f"; its composed form (0xC3 0xA9) must still emit after "f".
	composed := Object{"\u00e9": Int(1), "f": Int(2)}
	decomposed := Object{"e\u0301": Int(1), "f": Int(2)}

	c1, err := Canonical(composed)
	require.NoError(t, err)
	c2, err := Canonical(decomposed)
	require.NoError(t, err)

	assert.Equal(t, `{"f":2,"é":1}`, string(c1))
	assert.Equal(t, string(c1), string(c2))
}

func TestCanonicalRejectsKeysCollidingAfterNormalization(t *testing.T) {
	obj := Object{
		"\u00e9":  Int(1),
		"e\u0301": Int(2),
	}

	_, err := Canonical(obj)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate object key")
}
