package transform

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/require"

	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
)

func TestTransformTracesEmptyKindPopulatesActionFromCreateShape(t *testing.T) {
	t.Parallel()

	from := common.HexToAddress("0x1111111111111111111111111111111111111111")
	value := (*hexutil.Big)(big.NewInt(42))
	init := hexutil.Bytes{0xde, 0xad, 0xbe, 0xef}
	gasUsed := hexutil.Uint64(21_000)

	debugTraces := &extract.DebugTraces{
		BlockNumber:    100,
		BlockTimestamp: 1_700_000_000,
		Traces: []extract.Trace{
			{
				Kind: extract.TraceKindEmpty,
				ActionCreate: &extract.TraceActionCreate{
					From:  from,
					Value: value,
					Gas:   hexutil.Uint64(100_000),
					Init:  init,
				},
				ResultEmpty: &extract.TraceResultEmpty{GasUsed: gasUsed},
			},
		},
	}

	traces, _, _, err := TransformTraces(debugTraces, TraceTransformFlags{InclTraces: true})
	require.NoError(t, err)
	require.Len(t, traces, 1)

	record := traces[0]
	require.NotNil(t, record.ActionFrom)
	require.Equal(t, from.Hex(), *record.ActionFrom)
	require.NotNil(t, record.ActionGas)
	require.Equal(t, int64(100_000), *record.ActionGas)
	require.NotNil(t, record.ActionInit)
	require.Equal(t, hexutil.Encode(init), *record.ActionInit)
	require.NotNil(t, record.ActionValue)
	require.Equal(t, "42", *record.ActionValue)
	require.NotNil(t, record.ActionValueLossless)
	require.Equal(t, "42", *record.ActionValueLossless)
	require.NotNil(t, record.ResultGasUsed)
	require.Equal(t, int64(21_000), *record.ResultGasUsed)
}
