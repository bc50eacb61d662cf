package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// sha256Hex returns the lowercase hex SHA-256 digest of a string.
func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// PrimaryDigest computes the plain SHA-256 of the canonical bytes, reported
// alongside the chain for simple comparison and debugging.
func PrimaryDigest(canonical []byte) string {
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:])
}

// ChainDigest computes the sha-infinity-v1 chain over canonical bytes:
//
//	h0    = SHA256(salt ":" bytes)
//	h_i   = SHA256(hex(h_{i-1}))        for i in 1..depth-1
//	chain = SHA256(hex(h_{depth-1}) ":depth:" depth)
//
// Each iteration hashes the previous HEX DIGEST STRING, not raw digest
// bytes. Binding depth into the final round means a record cannot claim a
// different depth without changing the digest. depth == 1 skips the
// iteration loop but still applies the seed and finalize steps, so the
// chain digest never equals the primary digest.
func ChainDigest(canonical []byte, depth uint32) (string, error) {
	if depth == 0 {
		return "", NewInvalidDepthError(0, "must be at least 1")
	}

	h := sha256Hex(ChainSalt + ":" + string(canonical))
	for i := uint32(1); i < depth; i++ {
		h = sha256Hex(h)
	}
	return sha256Hex(fmt.Sprintf("%s:depth:%d", h, depth)), nil
}

// Compute builds a fresh integrity record over canonical bytes at the given
// depth. Fails with INVALID_DEPTH when depth is zero.
func Compute(canonical []byte, depth uint32) (Record, error) {
	return computeAt(canonical, depth, nil)
}

func computeAt(canonical []byte, depth uint32, now func() time.Time) (Record, error) {
	chain, err := ChainDigest(canonical, depth)
	if err != nil {
		return Record{}, err
	}
	return Record{
		SHA256:      PrimaryDigest(canonical),
		SHAInfinity: chain,
		ChainDepth:  depth,
		Algorithm:   AlgorithmV1,
		Timestamp:   timestampNow(now),
		Version:     RecordVersion,
	}, nil
}
