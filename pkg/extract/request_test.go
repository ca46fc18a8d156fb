package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleRequestRoundTrip(t *testing.T) {
	t.Parallel()

	simple := SimpleRequest{IndexBasic: true, Traces: true}
	req := simple.ToRequest()
	require.True(t, req.Blocks && req.Transactions && req.Logs && req.DecodedEvents && req.Receipts)
	require.True(t, req.Traces)

	back := req.ToSimple()
	require.Equal(t, simple, back)
}

func TestSimpleRequestPartialIsNotBasic(t *testing.T) {
	t.Parallel()

	req := Request{Blocks: true, Traces: true}
	simple := req.ToSimple()
	require.False(t, simple.IndexBasic)
	require.True(t, simple.Traces)
}
