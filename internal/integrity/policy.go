package integrity

import "fmt"

// DepthPolicy bounds the chain depths a signer will accept. Depth is
// operator controlled, so without bounds a degenerate value can make
// signing either negligible or unboundedly expensive. The policy applies at
// SIGNING time only: verification always honors the depth claimed by the
// record under test, because depth is hashed into the chain and a lying
// depth only changes the digest, it never forges one.
type DepthPolicy struct {
	Min uint32 `yaml:"min"`
	Max uint32 `yaml:"max"`
}

// DefaultDepthPolicy bounds signing depths to a range that keeps the chain
// meaningful without letting a config typo burn CPU.
var DefaultDepthPolicy = DepthPolicy{Min: 1, Max: 64}

// Check validates a depth against the policy. A zero-valued policy enforces
// only the hard floor of depth >= 1.
func (p DepthPolicy) Check(depth uint32) error {
	if depth == 0 {
		return NewInvalidDepthError(0, "must be at least 1")
	}
	if p.Min > 0 && depth < p.Min {
		return NewInvalidDepthError(depth, fmt.Sprintf("below policy minimum %d", p.Min))
	}
	if p.Max > 0 && depth > p.Max {
		return NewInvalidDepthError(depth, fmt.Sprintf("above policy maximum %d", p.Max))
	}
	return nil
}
