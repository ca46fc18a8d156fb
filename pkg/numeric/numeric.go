package numeric

import "math/big"

// maxNumeric is the largest magnitude (28 nines) a Numeric coercion accepts,
// matching BigQuery's NUMERIC type.
var maxNumeric = mustBigInt("9999999999999999999999999999")
var minNumeric = new(big.Int).Neg(maxNumeric)

func mustBigInt(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("invalid constant: " + s)
	}
	return v
}

// NumericFromBigInt coerces an arbitrary-precision signed integer into a
// decimal string, rejecting magnitudes above 28 nines.
func NumericFromBigInt(v *big.Int) (string, error) {
	if v == nil {
		return "", nil
	}
	if v.Cmp(minNumeric) < 0 || v.Cmp(maxNumeric) > 0 {
		return "", &RangeError{Kind: "Numeric", Value: v.String()}
	}
	return v.String(), nil
}

// NumericFromUint64 coerces an unsigned 64-bit integer into a decimal
// string. u64 values can never exceed 28 nines, so this never fails.
func NumericFromUint64(v uint64) string {
	return new(big.Int).SetUint64(v).String()
}
