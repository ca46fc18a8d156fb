package events

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestAttemptDecodeLogTransfer(t *testing.T) {
	t.Parallel()

	event := mustParseEvent(t, transferFragment)
	catalog := NewMapCatalog()
	require.NoError(t, catalog.Add(event))

	from := common.HexToAddress("0x0000000000000000000000000000000000000001")
	to := common.HexToAddress("0x0000000000000000000000000000000000000002")
	value := new(big.Int).SetUint64(1_000_000)

	data, err := event.Inputs.NonIndexed().Pack(value)
	require.NoError(t, err)

	lg := &types.Log{
		Topics: []common.Hash{
			event.ID,
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: data,
	}

	decoded, err := AttemptDecodeLog(catalog, lg)
	require.NoError(t, err)
	require.Equal(t, "Transfer", decoded.Event.Name)
	require.Len(t, decoded.Args, 3)
	require.Equal(t, from, decoded.Args[0])
	require.Equal(t, to, decoded.Args[1])
	require.Equal(t, 0, value.Cmp(decoded.Args[2].(*big.Int)))

	asJSON, err := decoded.ArgsToJSON()
	require.NoError(t, err)
	require.Equal(t, []interface{}{from.Hex(), to.Hex(), "1000000"}, asJSON)
}

func TestAttemptDecodeLogNoTopics(t *testing.T) {
	t.Parallel()

	catalog := NewMapCatalog()
	_, err := AttemptDecodeLog(catalog, &types.Log{})
	require.ErrorIs(t, err, ErrLogHasNoTopics)
}

func TestAttemptDecodeLogUnknownSelector(t *testing.T) {
	t.Parallel()

	catalog := NewMapCatalog()
	lg := &types.Log{Topics: []common.Hash{common.HexToHash("0x01")}}
	_, err := AttemptDecodeLog(catalog, lg)
	require.Error(t, err)
}
