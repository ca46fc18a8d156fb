package orchestrator

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
	"github.com/blockchain-etl/sonic-indexer/pkg/publish"
	"github.com/blockchain-etl/sonic-indexer/pkg/request"
	"github.com/blockchain-etl/sonic-indexer/pkg/transform"
)

// recordingPublisher is a Publisher test double that appends its own table
// name to a shared order slice on every call, so a test can assert the
// fan-out sequence without inspecting real output.
type recordingPublisher struct {
	table string
	order *[]string
}

func (p *recordingPublisher) Publish(_ context.Context, _ interface{}) error {
	*p.order = append(*p.order, p.table)
	return nil
}

func (p *recordingPublisher) PublishBatch(_ context.Context, _ string, _ []int64, records []interface{}) error {
	if len(records) == 0 {
		return nil
	}
	*p.order = append(*p.order, p.table)
	return nil
}

func (p *recordingPublisher) Disconnect(_ context.Context) error { return nil }

func newRecordingStreamPublisher(order *[]string) *publish.StreamPublisher {
	newPub := func(table string) publish.Publisher { return &recordingPublisher{table: table, order: order} }
	return &publish.StreamPublisher{
		Blocks:       newPub("blocks"),
		Transactions: newPub("transactions"),
		Logs:         newPub("logs"),
		Events:       newPub("events"),
		Receipts:     newPub("receipts"),
		Traces:       newPub("traces"),
	}
}

func TestPublishRecordsFanOutOrder(t *testing.T) {
	t.Parallel()

	var order []string
	publisher := newRecordingStreamPublisher(&order)

	records := &transform.PerBlockRecords{
		BlockNumber:  100,
		Block:        &transform.Block{BlockNumber: 100},
		Transactions: []transform.Transaction{{TransactionHash: "0x1"}},
		Logs:         []transform.Log{{LogIndex: 0}},
		Events:       []transform.Event{{EventHash: "0xaa"}},
		Receipts:     []transform.Receipt{{TransactionHash: "0x1"}},
		Traces:       []transform.Trace{{TraceType: "call"}},
	}

	err := PublishRecords(context.Background(), publisher, records)
	require.NoError(t, err)
	require.Equal(t, []string{"blocks", "events", "logs", "receipts", "transactions", "traces"}, order)
}

func TestPublishRecordsSkipsEmptySequences(t *testing.T) {
	t.Parallel()

	var order []string
	publisher := newRecordingStreamPublisher(&order)

	records := &transform.PerBlockRecords{BlockNumber: 100, Block: &transform.Block{BlockNumber: 100}}

	err := PublishRecords(context.Background(), publisher, records)
	require.NoError(t, err)
	require.Equal(t, []string{"blocks"}, order)
}

// failingExtractor fails ExtractBasic for one specific block number and
// succeeds (with an empty block) for every other, simulating a single bad
// block within an otherwise healthy range.
type failingExtractor struct {
	badBlock uint64
}

func (f *failingExtractor) ExtractBasic(
	_ context.Context, blockNumber uint64, _ extract.Request, _, _ int,
) (*extract.EvmExtracted, error) {
	if blockNumber == f.badBlock {
		return nil, fmt.Errorf("simulated provider failure at block #%d", blockNumber)
	}
	return &extract.EvmExtracted{BlockNumber: blockNumber}, nil
}

func (f *failingExtractor) ExtractDebug(_ context.Context, _ uint64) (*extract.DebugTraces, error) {
	return nil, nil
}

func TestExtractTransformRangeIsolatesOneBadBlock(t *testing.T) {
	t.Parallel()

	pipeline := newTestPipeline(&failingExtractor{badBlock: 102})
	var order []string
	publisher := newRecordingStreamPublisher(&order)

	req := request.IndexingRequest{Start: 100, End: 104}
	failures := pipeline.ExtractTransformRange(context.Background(), req, publisher)

	require.Len(t, failures, 1)
	require.Equal(t, uint64(102), failures[0].BlockNumber)
}

func TestExtractTransformRangeInclusiveAtMaxUint64(t *testing.T) {
	t.Parallel()

	const maxBlock = ^uint64(0)
	pipeline := newTestPipeline(&failingExtractor{badBlock: 0})
	var order []string
	publisher := newRecordingStreamPublisher(&order)

	req := request.IndexingRequest{Start: maxBlock, End: maxBlock}
	failures := pipeline.ExtractTransformRange(context.Background(), req, publisher)
	require.Empty(t, failures)
}
