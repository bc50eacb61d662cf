package integrity

import (
	"time"

	"github.com/blackroad-os/statesync/internal/state"
)

// Signer attaches fresh integrity records to state documents. A signer is
// constructed once with its policy and passed explicitly into orchestration
// calls; there is no ambient default.
type Signer struct {
	// Depth is the chain depth for new records. Zero means DefaultDepth.
	Depth uint32

	// Policy bounds the depths this signer will accept. Zero value
	// enforces only depth >= 1.
	Policy DepthPolicy

	// now overrides the timestamp source in tests.
	now func() time.Time
}

// NewSigner creates a signer with the default policy.
func NewSigner(depth uint32) *Signer {
	return &Signer{Depth: depth, Policy: DefaultDepthPolicy}
}

// Sign computes a fresh record over the document's canonical bytes (with
// any prior record excluded) and returns a copy of the document with the
// record attached at metadata.integrity, plus the record itself. This is
// the only Unsigned -> Signed transition; a prior record is replaced
// wholesale, never edited.
func (s *Signer) Sign(doc state.Document) (state.Document, Record, error) {
	depth := s.Depth
	if depth == 0 {
		depth = DefaultDepth
	}
	if err := s.Policy.Check(depth); err != nil {
		return nil, Record{}, err
	}

	canonical, err := doc.Canonical()
	if err != nil {
		return nil, Record{}, err
	}

	rec, err := computeAt(canonical, depth, s.now)
	if err != nil {
		return nil, Record{}, err
	}

	return doc.WithIntegrity(rec.ToObject()), rec, nil
}
