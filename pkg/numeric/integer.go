// Package numeric implements the BigQuery-flavored numeric coercions used
// throughout the transform pipeline: Integer (an i64), Numeric (a decimal
// string capped at 28 nines) and BigNumeric (a decimal string capped at
// 10^38-1), each paired with a lossless exact-value counterpart.
package numeric

import (
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// RangeError is returned when a value cannot be represented within the
// target coercion's range.
type RangeError struct {
	Kind  string // "Integer", "Numeric" or "BigNumeric"
	Value string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("value %s does not fit in %s", e.Value, e.Kind)
}

// IntegerFromUint256 converts an unsigned 256-bit integer into an i64,
// following the bit-length check used for every unsigned width: the value
// fits only if its bit length is at most 63 (so it can never collide with
// the sign bit of an int64).
func IntegerFromUint256(v *uint256.Int) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}
	if v.BitLen() > 63 {
		return 0, &RangeError{Kind: "Integer", Value: v.Dec()}
	}
	return int64(v.Uint64()), nil
}

// IntegerFromUint64 converts a u64 into an i64.
func IntegerFromUint64(v uint64) (int64, error) {
	if v > uint64(1<<63-1) {
		return 0, &RangeError{Kind: "Integer", Value: fmt.Sprintf("%d", v)}
	}
	return int64(v), nil
}

// IntegerFromBigInt converts an arbitrary-precision integer into an i64.
func IntegerFromBigInt(v *big.Int) (int64, error) {
	if v == nil {
		return 0, fmt.Errorf("nil value")
	}
	if !v.IsInt64() {
		return 0, &RangeError{Kind: "Integer", Value: v.String()}
	}
	return v.Int64(), nil
}
