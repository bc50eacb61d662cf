// Package integrity implements the sha-infinity-v1 hash-chain proof: a
// primary SHA-256 digest plus a salted, depth-iterated chain digest over the
// canonical bytes of a state document.
//
// The chain is deliberately sequential - each round hashes the previous
// round's hex digest string - so the cost scales linearly with depth and
// cannot be parallelized per input. Depth is bound into the final digest, so
// a record cannot be replayed under a different claimed depth.
//
// All operations are pure functions over immutable inputs; they may be
// called concurrently without coordination.
package integrity
