// Package state models the shared kanban state document as a constrained
// JSON value tree and provides its canonical byte encoding.
//
// The canonical form is the contract everything else hangs off: two parties
// holding the same logical document must produce byte-identical output
// regardless of map insertion order or incidental whitespace, because the
// integrity digests are computed over these bytes.
package state
