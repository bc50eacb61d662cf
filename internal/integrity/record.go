package integrity

import (
	"fmt"
	"time"

	"github.com/blackroad-os/statesync/internal/state"
)

// Algorithm and construction constants. The salt is baked into the algorithm
// version: it binds the chain seed to this specific scheme so the chain can
// never collide with a bare SHA-256 of the same bytes.
const (
	AlgorithmV1   = "sha-infinity-v1"
	ChainSalt     = "blackroad-infinity"
	RecordVersion = "1.0.0"

	// DefaultDepth is the depth used when the caller expresses no
	// preference. A tuning parameter, not a security proof parameter.
	DefaultDepth uint32 = 7
)

// Record certifies a specific canonical byte sequence at a specific chain
// depth. Records are created fresh at signing time, never mutated, and
// superseded (not edited) by the next signing. Digests are lowercase hex.
type Record struct {
	SHA256      string `json:"sha256"`
	SHAInfinity string `json:"sha_infinity"`
	ChainDepth  uint32 `json:"chain_depth"`
	Algorithm   string `json:"algorithm"`
	Timestamp   string `json:"timestamp"`
	Version     string `json:"version,omitempty"`
}

// ToObject converts a Record to a state Object for attachment at
// metadata.integrity.
func (r Record) ToObject() state.Object {
	obj := state.Object{
		"sha256":       state.String(r.SHA256),
		"sha_infinity": state.String(r.SHAInfinity),
		"chain_depth":  state.Int(int64(r.ChainDepth)),
		"algorithm":    state.String(r.Algorithm),
		"timestamp":    state.String(r.Timestamp),
	}
	if r.Version != "" {
		obj["version"] = state.String(r.Version)
	}
	return obj
}

// RecordFromDocument extracts the integrity record embedded in a document.
// The second return is false when the document carries no record at all;
// a malformed record is an error, not a missing one.
func RecordFromDocument(doc state.Document) (Record, bool, error) {
	raw, ok := doc.Integrity()
	if !ok {
		return Record{}, false, nil
	}

	obj, ok := raw.(state.Object)
	if !ok {
		return Record{}, true, &Error{
			Code:    ErrCodeMalformedRecord,
			Message: fmt.Sprintf("metadata.integrity must be an object, got %T", raw),
		}
	}

	rec := Record{}
	var err error
	if rec.SHA256, err = stringField(obj, "sha256"); err != nil {
		return Record{}, true, err
	}
	if rec.SHAInfinity, err = stringField(obj, "sha_infinity"); err != nil {
		return Record{}, true, err
	}
	if rec.Algorithm, err = stringField(obj, "algorithm"); err != nil {
		return Record{}, true, err
	}

	depth, ok := obj["chain_depth"].(state.Int)
	if !ok || depth < 0 {
		return Record{}, true, &Error{
			Code:    ErrCodeMalformedRecord,
			Message: "chain_depth must be a non-negative integer",
		}
	}
	rec.ChainDepth = uint32(depth)

	if ts, ok := obj["timestamp"].(state.String); ok {
		rec.Timestamp = string(ts)
	}
	if v, ok := obj["version"].(state.String); ok {
		rec.Version = string(v)
	}
	return rec, true, nil
}

func stringField(obj state.Object, key string) (string, error) {
	s, ok := obj[key].(state.String)
	if !ok {
		return "", &Error{
			Code:    ErrCodeMalformedRecord,
			Message: fmt.Sprintf("integrity record field %q must be a string", key),
		}
	}
	return string(s), nil
}

// timestampNow formats a signing timestamp: RFC 3339 in UTC.
func timestampNow(now func() time.Time) string {
	if now == nil {
		now = time.Now
	}
	return now().UTC().Format(time.RFC3339)
}
