package state

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Well-known keys in a state document. The integrity record lives at
// metadata.integrity and is always excluded from the bytes it certifies.
const (
	MetadataKey  = "metadata"
	IntegrityKey = "integrity"
)

// Document is a state document: a JSON object, optionally carrying an
// integrity record at metadata.integrity.
type Document map[string]Value

// ParseDocument decodes raw JSON into a Document. The top-level value must
// be an object.
func ParseDocument(data []byte) (Document, error) {
	v, err := ParseValue(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(Object)
	if !ok {
		return nil, fmt.Errorf("state document must be a JSON object, got %T", v)
	}
	return Document(obj), nil
}

// Object returns the document as a plain Object value.
func (d Document) Object() Object {
	return Object(d)
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	return Document(Clone(Object(d)).(Object))
}

// Integrity returns the raw value at metadata.integrity, if present.
func (d Document) Integrity() (Value, bool) {
	meta, ok := d[MetadataKey].(Object)
	if !ok {
		return nil, false
	}
	rec, ok := meta[IntegrityKey]
	return rec, ok
}

// StripIntegrity returns a deep copy of the document with metadata.integrity
// removed. If removing the record leaves metadata empty, metadata itself is
// dropped, so a never-signed document and a stripped signed document
// canonicalize to the same bytes. The receiver is not modified.
func (d Document) StripIntegrity() Document {
	out := d.Clone()
	meta, ok := out[MetadataKey].(Object)
	if !ok {
		return out
	}
	delete(meta, IntegrityKey)
	if len(meta) == 0 {
		delete(out, MetadataKey)
	}
	return out
}

// WithIntegrity returns a deep copy of the document with the given value
// attached at metadata.integrity, creating metadata if needed. Any prior
// record is replaced, never edited.
func (d Document) WithIntegrity(rec Object) Document {
	out := d.Clone()
	meta, ok := out[MetadataKey].(Object)
	if !ok {
		meta = Object{}
		out[MetadataKey] = meta
	}
	meta[IntegrityKey] = Clone(rec)
	return out
}

// Canonical returns the canonical bytes of the document WITHOUT its
// integrity record. These are the bytes every digest is computed over.
func (d Document) Canonical() ([]byte, error) {
	return Canonical(Object(d.StripIntegrity()))
}

// MarshalJSON encodes the document with canonical field ordering but
// standard JSON escaping. This is the persistence encoding, not the hashing
// encoding; use Canonical for digests.
func (d Document) MarshalJSON() ([]byte, error) {
	return Canonical(Object(d))
}

// Encode renders the document as indented JSON for on-disk persistence,
// matching the two-space layout the sync tooling has always written.
func (d Document) Encode() ([]byte, error) {
	compact, err := Canonical(Object(d))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, compact, "", "  "); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
