package transform

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestTransformReceiptsBackfillsFromTransaction(t *testing.T) {
	t.Parallel()

	txHash := common.HexToHash("0xaaaa")
	to := "0x2222222222222222222222222222222222222222"
	transactions := []Transaction{
		{
			TransactionHash: txHash.Hex(),
			FromAddress:     "0x1111111111111111111111111111111111111111",
			ToAddress:       &to,
		},
	}

	receipt := &types.Receipt{
		TxHash:            txHash,
		Status:            types.ReceiptStatusSuccessful,
		CumulativeGasUsed: 21_000,
		GasUsed:           21_000,
		EffectiveGasPrice: big.NewInt(1_000_000_000),
	}

	records, err := TransformReceipts([]*types.Receipt{receipt}, transactions, 100, "0xblockhash", 1_700_000_000)
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	require.Equal(t, "0x1111111111111111111111111111111111111111", record.FromAddress)
	require.NotNil(t, record.ToAddress)
	require.Equal(t, to, *record.ToAddress)
	require.NotNil(t, record.Status)
	require.Equal(t, int64(1), *record.Status)
	require.Nil(t, record.Root)
}

func TestTransformReceiptsNoMatchingTransaction(t *testing.T) {
	t.Parallel()

	receipt := &types.Receipt{
		TxHash:            common.HexToHash("0xbbbb"),
		Status:            types.ReceiptStatusSuccessful,
		EffectiveGasPrice: big.NewInt(1),
	}

	_, err := TransformReceipts([]*types.Receipt{receipt}, nil, 100, "0xblockhash", 0)
	require.Error(t, err)

	var fieldErr *FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, "from_address", fieldErr.Field)
}
