package extract

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"
)

func TestContainsFold(t *testing.T) {
	t.Parallel()

	require.True(t, containsFold("Query Returned More Than 10000 results", "query returned more than"))
	require.True(t, containsFold("limit exceeded for eth_getLogs", "limit exceeded"))
	require.False(t, containsFold("connection reset by peer", "limit exceeded"))
}

func TestIsUnretryableRangeError(t *testing.T) {
	t.Parallel()

	require.True(t, isUnretryableRangeError(errString("block range too large")))
	require.False(t, isUnretryableRangeError(errString("context deadline exceeded")))
	require.False(t, isUnretryableRangeError(nil))
}

type errString string

func (e errString) Error() string { return string(e) }

func TestDedupeLogs(t *testing.T) {
	t.Parallel()

	tx := common.HexToHash("0x1")
	logs := []types.Log{
		{BlockNumber: 10, TxHash: tx, Index: 0},
		{BlockNumber: 10, TxHash: tx, Index: 0}, // duplicate
		{BlockNumber: 10, TxHash: tx, Index: 1},
	}

	deduped := dedupeLogs(logs)
	require.Len(t, deduped, 2)
}
