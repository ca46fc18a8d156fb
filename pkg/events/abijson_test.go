package events

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

func TestArgValueToJSONScalars(t *testing.T) {
	t.Parallel()

	addr := common.HexToAddress("0x52908400098527886e0f7030069857d2e4169ee")
	v, err := ArgValueToJSON(addr)
	require.NoError(t, err)
	require.Equal(t, addr.Hex(), v)

	v, err = ArgValueToJSON(true)
	require.NoError(t, err)
	require.Equal(t, true, v)

	v, err = ArgValueToJSON("hello")
	require.NoError(t, err)
	require.Equal(t, "hello", v)

	v, err = ArgValueToJSON(big.NewInt(42))
	require.NoError(t, err)
	require.Equal(t, "42", v)
}

func TestArgValueToJSONNativeSizedIntegers(t *testing.T) {
	t.Parallel()

	// go-ethereum's abi.Arguments.Unpack returns the narrow Solidity
	// integer widths as native Go integers, not *big.Int.
	v, err := ArgValueToJSON(uint8(255))
	require.NoError(t, err)
	require.Equal(t, "255", v)

	v, err = ArgValueToJSON(uint16(65535))
	require.NoError(t, err)
	require.Equal(t, "65535", v)

	v, err = ArgValueToJSON(uint32(1))
	require.NoError(t, err)
	require.Equal(t, "1", v)

	v, err = ArgValueToJSON(uint64(18446744073709551615))
	require.NoError(t, err)
	require.Equal(t, "18446744073709551615", v)

	v, err = ArgValueToJSON(int8(-128))
	require.NoError(t, err)
	require.Equal(t, "-128", v)

	v, err = ArgValueToJSON(int16(-32768))
	require.NoError(t, err)
	require.Equal(t, "-32768", v)

	v, err = ArgValueToJSON(int32(-1))
	require.NoError(t, err)
	require.Equal(t, "-1", v)

	v, err = ArgValueToJSON(int64(-9223372036854775808))
	require.NoError(t, err)
	require.Equal(t, "-9223372036854775808", v)
}

func TestArgValueToJSONBytes(t *testing.T) {
	t.Parallel()

	v, err := ArgValueToJSON([]byte{0x01, 0x02, 0xff})
	require.NoError(t, err)
	require.Equal(t, []interface{}{1, 2, 255}, v)
}

func TestArgValueToJSONFixedBytes(t *testing.T) {
	t.Parallel()

	var word [32]byte
	word[0] = 0xaa
	word[1] = 0xbb

	var four [4]byte
	copy(four[:], word[:4])

	v, err := ArgValueToJSON(four)
	require.NoError(t, err)
	require.Equal(t, []interface{}{0xaa, 0xbb, 0, 0}, v)
}

func TestArgValueToJSONArray(t *testing.T) {
	t.Parallel()

	v, err := ArgValueToJSON([]*big.Int{big.NewInt(1), big.NewInt(2)})
	require.NoError(t, err)
	require.Equal(t, []interface{}{"1", "2"}, v)
}

func TestArgValueToJSONUnsupported(t *testing.T) {
	t.Parallel()

	_, err := ArgValueToJSON(map[string]int{"a": 1})
	require.ErrorIs(t, err, ErrNotImplemented)
}
