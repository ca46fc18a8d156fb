package numeric

import "github.com/holiman/uint256"

// bigNumericCap is 10^38-1, the largest magnitude a BigNumeric coercion
// accepts (BigQuery's BIGNUMERIC type).
const bigNumericCap = "99999999999999999999999999999999999999"

var bigNumericCapU256 = uint256.MustFromDecimal(bigNumericCap)

// WithinBigNumericRange reports whether an unsigned 256-bit integer fits in
// a BigNumeric. Values under 97 bits always fit (2^96 < 10^38-1); at or
// above that bit length the exact cap comparison applies.
func WithinBigNumericRange(v *uint256.Int) bool {
	if v.BitLen() < 97 {
		return true
	}
	return v.Cmp(bigNumericCapU256) <= 0
}

// CapBigNumeric coerces an unsigned 256-bit integer into a BigNumeric
// decimal string, saturating at the cap rather than failing. Use
// BigNumericLossless alongside it to retain the exact value.
func CapBigNumeric(v *uint256.Int) string {
	if WithinBigNumericRange(v) {
		return v.Dec()
	}
	return bigNumericCap
}

// BigNumericLossless returns the exact decimal string for a 256-bit
// unsigned integer, uncapped.
func BigNumericLossless(v *uint256.Int) string {
	return v.Dec()
}
