package testset

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/stretchr/testify/require"

	"github.com/blockchain-etl/sonic-indexer/pkg/events"
	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
)

func epochHex(n uint64) *string {
	s := (&big.Int{}).SetUint64(n).Text(16)
	s = "0x" + s
	return &s
}

func newFixtureExtraction() *extract.EvmExtracted {
	header := &types.Header{
		Number:      big.NewInt(100),
		Time:        1_700_000_000,
		GasLimit:    30_000_000,
		GasUsed:     21_000,
		Difficulty:  big.NewInt(1),
		Coinbase:    common.HexToAddress("0x1111111111111111111111111111111111111111"),
		ParentHash:  common.HexToHash("0xaa"),
		Root:        common.HexToHash("0xbb"),
		TxHash:      common.HexToHash("0xcc"),
		ReceiptHash: common.HexToHash("0xdd"),
	}
	block := types.NewBlockWithHeader(header)

	return &extract.EvmExtracted{
		BlockNumber:    100,
		BlockHash:      block.Hash(),
		BlockTimestamp: 1_700_000_000,
		Block:          block,
		Logs:           nil,
		Epoch:          epochHex(7),
	}
}

func TestRecordLoadReplayRoundTrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	recorder, err := NewRecorder(dir)
	require.NoError(t, err)

	catalog := events.NewMapCatalog()
	req := extract.Request{Blocks: true}
	extracted := newFixtureExtraction()

	records, err := Replay(Snapshot{
		BlockNumber:    extracted.BlockNumber,
		BlockHash:      extracted.BlockHash.Hex(),
		BlockTimestamp: extracted.BlockTimestamp,
		Request:        req,
		Block: &RawBlock{
			Header: extracted.Block.Header(),
		},
		Epoch: extracted.Epoch,
	}, catalog)
	require.NoError(t, err)
	require.NotNil(t, records.Block)

	id, err := recorder.Record(req, extracted, nil, records)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	snapshots, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	require.Equal(t, id, snapshots[0].ID)

	replayed, err := Replay(snapshots[0], catalog)
	require.NoError(t, err)
	require.Equal(t, records, replayed)
}

func TestLoadEmptyDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	snapshots, err := Load(dir)
	require.NoError(t, err)
	require.Empty(t, snapshots)
}
