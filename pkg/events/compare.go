// Package events implements the event catalog: registering known ABI
// events by selector and topic count, resolving collisions between
// differently-sourced events with the same signature hash, decoding logs
// against the catalog, and mapping decoded values to JSON.
package events

import "github.com/ethereum/go-ethereum/accounts/abi"

// Comparison describes the relationship between two events that share the
// same (selector, n_topics) key.
type Comparison int

const (
	// ExactlyEqual means the two events are identical in every parameter
	// name, type and indexing.
	ExactlyEqual Comparison = iota
	// NoEquivalence means the two events have different names, arities or
	// parameter types.
	NoEquivalence
	// SameDecoding means the two events would decode logs identically
	// despite differing in some other respect (commonly, parameter names).
	SameDecoding
	// MismatchedParamIndexing means at least one parameter is indexed in
	// one event and not indexed in the other, so decoding diverges.
	MismatchedParamIndexing
)

// DecodesSame reports whether the two compared events would produce the
// same decoded output for any log matching their shared selector.
func (c Comparison) DecodesSame() bool {
	return c == ExactlyEqual || c == SameDecoding
}

func (c Comparison) String() string {
	switch c {
	case ExactlyEqual:
		return "ExactlyEqual"
	case NoEquivalence:
		return "NoEquivalence"
	case SameDecoding:
		return "SameDecoding"
	case MismatchedParamIndexing:
		return "MismatchedParamIndexing"
	default:
		return "Unknown"
	}
}

// CompareEvents compares two ABI events that collided on the same selector
// and topic count. Unlike the name, arity and type checks (which short
// circuit to NoEquivalence/MismatchedParamIndexing on the first mismatch),
// the "exactly equal" determination starts true and is only cleared when a
// parameter name differs, so that comparing an event against itself always
// yields ExactlyEqual.
func CompareEvents(a, b abi.Event) Comparison {
	if a.Name != b.Name || len(a.Inputs) != len(b.Inputs) {
		return NoEquivalence
	}

	exactlySame := true

	for i := range a.Inputs {
		pa, pb := a.Inputs[i], b.Inputs[i]

		if pa.Type.String() != pb.Type.String() {
			return NoEquivalence
		}

		if pa.Indexed != pb.Indexed {
			return MismatchedParamIndexing
		}

		if pa.Name != pb.Name {
			exactlySame = false
		}
	}

	if exactlySame {
		return ExactlyEqual
	}
	return SameDecoding
}
