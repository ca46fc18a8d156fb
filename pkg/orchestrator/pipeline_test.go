package orchestrator

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/blockchain-etl/sonic-indexer/pkg/events"
	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
)

// fakeExtractor is a BlockExtractor test double driven entirely by
// in-memory fixtures, so the pipeline's transform/publish wiring can be
// exercised without dialing a real JSON-RPC endpoint.
type fakeExtractor struct {
	extracted   map[uint64]*extract.EvmExtracted
	debugTraces map[uint64]*extract.DebugTraces
	basicCalls  int
	debugCalls  int
}

func (f *fakeExtractor) ExtractBasic(
	_ context.Context, blockNumber uint64, _ extract.Request, _, _ int,
) (*extract.EvmExtracted, error) {
	f.basicCalls++
	return f.extracted[blockNumber], nil
}

func (f *fakeExtractor) ExtractDebug(_ context.Context, blockNumber uint64) (*extract.DebugTraces, error) {
	f.debugCalls++
	return f.debugTraces[blockNumber], nil
}

func newTestPipeline(extractor BlockExtractor) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		catalog:   events.NewMapCatalog(),
		log:       zerolog.Nop(),
	}
}

func fixtureBlock(number uint64) *types.Block {
	header := &types.Header{
		Number:      big.NewInt(int64(number)),
		Time:        1_700_000_000,
		ParentHash:  common.HexToHash("0xaa"),
		Root:        common.HexToHash("0xbb"),
		ReceiptHash: common.HexToHash("0xcc"),
	}
	return types.NewBlockWithHeader(header)
}

func TestExtractTransformEmptySelectorIssuesNoDebugCall(t *testing.T) {
	t.Parallel()

	block := fixtureBlock(100)
	extractor := &fakeExtractor{
		extracted: map[uint64]*extract.EvmExtracted{
			100: {
				BlockNumber:    100,
				BlockHash:      block.Hash(),
				BlockTimestamp: 1_700_000_000,
			},
		},
	}
	pipeline := newTestPipeline(extractor)

	records, err := pipeline.ExtractTransform(context.Background(), 100, extract.Request{})
	require.NoError(t, err)
	require.Equal(t, uint64(100), records.BlockNumber)
	require.Nil(t, records.Block)
	require.Nil(t, records.Transactions)
	require.Nil(t, records.Logs)
	require.Nil(t, records.Events)
	require.Nil(t, records.Receipts)
	require.Nil(t, records.Traces)

	require.Equal(t, 1, extractor.basicCalls)
	require.Equal(t, 0, extractor.debugCalls, "an empty selector must not trigger a debug trace RPC call")
}

func TestExtractTransformBlockNotFound(t *testing.T) {
	t.Parallel()

	extractor := &fakeExtractor{extracted: map[uint64]*extract.EvmExtracted{}}
	pipeline := newTestPipeline(extractor)

	_, err := pipeline.ExtractTransform(context.Background(), 999, extract.Request{Blocks: true})
	require.Error(t, err)

	var notFound *ErrBlockNotFound
	require.True(t, errors.As(err, &notFound))
	require.Equal(t, uint64(999), notFound.BlockNumber)
}

func TestExtractTransformBlocksAndTransactionsSetsTransactionCount(t *testing.T) {
	t.Parallel()

	block := fixtureBlock(100)
	extracted := &extract.EvmExtracted{
		BlockNumber:    100,
		BlockHash:      block.Hash(),
		BlockTimestamp: 1_700_000_000,
		Block:          block,
		Epoch:          strPtr("0x1"),
	}
	extractor := &fakeExtractor{extracted: map[uint64]*extract.EvmExtracted{100: extracted}}
	pipeline := newTestPipeline(extractor)

	req := extract.Request{Blocks: true, Transactions: true}
	records, err := pipeline.ExtractTransform(context.Background(), 100, req)
	require.NoError(t, err)
	require.NotNil(t, records.Block)
	require.Equal(t, int64(0), records.Block.TransactionsCount)
	require.Empty(t, records.Transactions)
}

func strPtr(s string) *string { return &s }
