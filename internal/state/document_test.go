package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDocumentRequiresObject(t *testing.T) {
	for _, input := range []string{`[1,2,3]`, `"text"`, `42`, `null`, `true`} {
		_, err := ParseDocument([]byte(input))
		require.Error(t, err, "input %s", input)
	}

	doc, err := ParseDocument([]byte(`{"board":"roadmap"}`))
	require.NoError(t, err)
	assert.Equal(t, String("roadmap"), doc["board"])
}

func TestDocumentIntegrity(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a":1,"metadata":{"integrity":{"sha256":"abc"}}}`))
	require.NoError(t, err)

	rec, ok := doc.Integrity()
	require.True(t, ok)
	assert.Equal(t, Object{"sha256": String("abc")}, rec)
}

func TestDocumentIntegrityAbsent(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no metadata", `{"a":1}`},
		{"metadata without record", `{"a":1,"metadata":{"owner":"ops"}}`},
		{"metadata not an object", `{"a":1,"metadata":"oops"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ParseDocument([]byte(tt.input))
			require.NoError(t, err)
			_, ok := doc.Integrity()
			assert.False(t, ok)
		})
	}
}

func TestStripIntegrityDropsEmptyMetadata(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a":1,"metadata":{"integrity":{"sha256":"abc"}}}`))
	require.NoError(t, err)

	stripped := doc.StripIntegrity()
	_, hasMeta := stripped[MetadataKey]
	assert.False(t, hasMeta, "metadata must be dropped when the record was its only key")

	// Original untouched.
	_, ok := doc.Integrity()
	assert.True(t, ok)
}

func TestStripIntegrityKeepsOtherMetadata(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a":1,"metadata":{"integrity":{"sha256":"abc"},"owner":"ops"}}`))
	require.NoError(t, err)

	stripped := doc.StripIntegrity()
	meta, ok := stripped[MetadataKey].(Object)
	require.True(t, ok)
	assert.Equal(t, String("ops"), meta["owner"])
	_, hasRec := meta[IntegrityKey]
	assert.False(t, hasRec)
}

func TestStripIntegrityMatchesUnsignedCanonical(t *testing.T) {
	unsigned, err := ParseDocument([]byte(`{"a":1}`))
	require.NoError(t, err)
	signed := unsigned.WithIntegrity(Object{"sha256": String("abc")})

	cu, err := unsigned.Canonical()
	require.NoError(t, err)
	cs, err := signed.Canonical()
	require.NoError(t, err)

	assert.Equal(t, string(cu), string(cs),
		"a signed document must canonicalize to the same bytes it was signed over")
}

func TestWithIntegrityReplacesPriorRecord(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"a":1,"metadata":{"integrity":{"sha256":"old"},"owner":"ops"}}`))
	require.NoError(t, err)

	resigned := doc.WithIntegrity(Object{"sha256": String("new")})
	rec, ok := resigned.Integrity()
	require.True(t, ok)
	assert.Equal(t, Object{"sha256": String("new")}, rec)

	meta := resigned[MetadataKey].(Object)
	assert.Equal(t, String("ops"), meta["owner"], "sibling metadata keys must survive re-signing")

	old, _ := doc.Integrity()
	assert.Equal(t, Object{"sha256": String("old")}, old, "receiver must not be modified")
}

func TestWithIntegrityDoesNotAliasRecord(t *testing.T) {
	rec := Object{"sha256": String("abc")}
	doc := Document{"a": Int(1)}.WithIntegrity(rec)

	rec["sha256"] = String("mutated")
	got, ok := doc.Integrity()
	require.True(t, ok)
	assert.Equal(t, Object{"sha256": String("abc")}, got)
}

func TestDocumentEncode(t *testing.T) {
	doc, err := ParseDocument([]byte(`{"z":1,"a":{"b":[1,2]}}`))
	require.NoError(t, err)

	data, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": {\n    \"b\": [\n      1,\n      2\n    ]\n  },\n  \"z\": 1\n}\n", string(data))
}
