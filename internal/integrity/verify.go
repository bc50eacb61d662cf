package integrity

import (
	"crypto/subtle"

	"github.com/blackroad-os/statesync/internal/state"
)

// Outcome classifies a verification. MissingRecord is deliberately distinct
// from both valid and invalid: a document with no baseline is not corrupt,
// and callers typically respond by minting a first-time record.
type Outcome string

const (
	OutcomeVerified             Outcome = "VERIFIED"
	OutcomeMismatch             Outcome = "MISMATCH"
	OutcomeMissingRecord        Outcome = "MISSING_RECORD"
	OutcomeUnsupportedAlgorithm Outcome = "UNSUPPORTED_ALGORITHM"
)

// Result reports a verification. The primary and chain checks are reported
// independently so a caller can tell "wrong construction version" apart
// from "tampering": a matching primary with a mismatched chain points at
// the construction, both mismatching points at the bytes.
type Result struct {
	Outcome      Outcome `json:"outcome"`
	PrimaryValid bool    `json:"primary_valid"`
	ChainValid   bool    `json:"chain_valid"`
	OverallValid bool    `json:"overall_valid"`

	ChainDepth uint32 `json:"chain_depth,omitempty"`

	ExpectedSHA256      string `json:"expected_sha256,omitempty"`
	ComputedSHA256      string `json:"computed_sha256,omitempty"`
	ExpectedSHAInfinity string `json:"expected_sha_infinity,omitempty"`
	ComputedSHAInfinity string `json:"computed_sha_infinity,omitempty"`
}

// Verify checks a document against the integrity record it carries at
// metadata.integrity. A document without a record yields MissingRecord,
// never an error. A malformed record is an error.
func Verify(doc state.Document) (Result, error) {
	rec, present, err := RecordFromDocument(doc)
	if err != nil {
		return Result{}, err
	}
	if !present {
		return Result{Outcome: OutcomeMissingRecord}, nil
	}
	return VerifyAgainst(doc, rec)
}

// VerifyAgainst checks a document against an explicit expected record. The
// record under test supplies the chain depth: depth is hashed into the
// chain digest, so an attacker who also controls the claimed depth gains
// only consistency, never a forgery.
func VerifyAgainst(doc state.Document, expected Record) (Result, error) {
	if expected.Algorithm != AlgorithmV1 {
		// Refuse to verify a future scheme under sha-infinity-v1 rules.
		// Reported as a distinct outcome, never as a plain mismatch.
		return Result{
			Outcome:             OutcomeUnsupportedAlgorithm,
			ChainDepth:          expected.ChainDepth,
			ExpectedSHA256:      expected.SHA256,
			ExpectedSHAInfinity: expected.SHAInfinity,
		}, nil
	}

	canonical, err := doc.Canonical()
	if err != nil {
		return Result{}, err
	}

	computedPrimary := PrimaryDigest(canonical)
	computedChain, err := ChainDigest(canonical, expected.ChainDepth)
	if err != nil {
		return Result{}, err
	}

	primaryValid := digestEqual(computedPrimary, expected.SHA256)
	chainValid := digestEqual(computedChain, expected.SHAInfinity)

	res := Result{
		PrimaryValid:        primaryValid,
		ChainValid:          chainValid,
		OverallValid:        primaryValid && chainValid,
		ChainDepth:          expected.ChainDepth,
		ExpectedSHA256:      expected.SHA256,
		ComputedSHA256:      computedPrimary,
		ExpectedSHAInfinity: expected.SHAInfinity,
		ComputedSHAInfinity: computedChain,
	}
	if res.OverallValid {
		res.Outcome = OutcomeVerified
	} else {
		res.Outcome = OutcomeMismatch
	}
	return res, nil
}

func digestEqual(a, b string) bool {
	return len(a) == len(b) && subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
