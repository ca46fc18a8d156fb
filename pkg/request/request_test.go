package request

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleIndexingRequestToFullZeroesFlags(t *testing.T) {
	t.Parallel()

	simple := SimpleIndexingRequest{Start: 100, End: 200}
	full := simple.ToFull()

	require.Equal(t, uint64(100), full.Start)
	require.Equal(t, uint64(200), full.End)
	require.False(t, full.Blocks || full.Transactions || full.Logs || full.DecodedEvents || full.Receipts || full.Traces)
}

func TestIndexingRequestToSimpleDropsFlags(t *testing.T) {
	t.Parallel()

	full := IndexingRequest{Start: 1, End: 2, Blocks: true, Traces: true}
	require.Equal(t, SimpleIndexingRequest{Start: 1, End: 2}, full.ToSimple())
}

func TestExtractRequestProjectsFlags(t *testing.T) {
	t.Parallel()

	full := IndexingRequest{
		Start: 1, End: 2,
		Blocks: true, Transactions: true, Logs: true,
		DecodedEvents: true, Receipts: true, Traces: true,
	}
	req := full.ExtractRequest()
	require.True(t, req.Blocks && req.Transactions && req.Logs && req.DecodedEvents && req.Receipts && req.Traces)
}
