package numeric

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestIntegerFromUint256(t *testing.T) {
	t.Parallel()

	got, err := IntegerFromUint256(uint256.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, int64(42), got)

	tooBig := new(uint256.Int).Lsh(uint256.NewInt(1), 63) // 2^63, bit length 64
	_, err = IntegerFromUint256(tooBig)
	require.Error(t, err)
	var rangeErr *RangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Equal(t, "Integer", rangeErr.Kind)
}

func TestIntegerFromUint256MaxFits(t *testing.T) {
	t.Parallel()

	// 2^63 - 1 has bit length 63 and must fit.
	maxFit := new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 63), uint256.NewInt(1))
	got, err := IntegerFromUint256(maxFit)
	require.NoError(t, err)
	require.Equal(t, int64(1<<63-1), got)
}

func TestNumericFromBigInt(t *testing.T) {
	t.Parallel()

	in := mustBigInt("9999999999999999999999999999")
	got, err := NumericFromBigInt(in)
	require.NoError(t, err)
	require.Equal(t, "9999999999999999999999999999", got)

	over := new(big.Int).Add(in, big.NewInt(1))
	_, err = NumericFromBigInt(over)
	require.Error(t, err)

	underNeg := new(big.Int).Neg(over)
	_, err = NumericFromBigInt(underNeg)
	require.Error(t, err)
}

func TestCapBigNumeric(t *testing.T) {
	t.Parallel()

	within := uint256.MustFromDecimal(bigNumericCap)
	require.True(t, WithinBigNumericRange(within))
	require.Equal(t, bigNumericCap, CapBigNumeric(within))

	over := new(uint256.Int).AddUint64(within, 1)
	require.False(t, WithinBigNumericRange(over))
	require.Equal(t, bigNumericCap, CapBigNumeric(over))
	require.NotEqual(t, bigNumericCap, BigNumericLossless(over))
}

func TestCapBigNumericSmallAlwaysFits(t *testing.T) {
	t.Parallel()

	v := uint256.NewInt(123456789)
	require.True(t, WithinBigNumericRange(v))
	require.Equal(t, v.Dec(), CapBigNumeric(v))
}
