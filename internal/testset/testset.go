// Package testset records and replays block fixtures for regression
// testing the extract/transform pipeline: a Snapshot pairs the raw data an
// extractor returned for one block with the records the transformer
// derived from it, so a later change to the transform package can be
// checked against real historical input without re-dialing a provider.
package testset

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/google/uuid"

	"github.com/blockchain-etl/sonic-indexer/pkg/events"
	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
	"github.com/blockchain-etl/sonic-indexer/pkg/transform"
)

// RawBlock is a JSON-safe stand-in for extract.EvmExtracted.Block:
// types.Block itself has no exported fields (its header/body are reached
// only through accessor methods), so a fixture stores the pieces
// TransformBlock and TransformTransactions actually read and
// ToExtracted rebuilds a real *types.Block from them on replay.
type RawBlock struct {
	Header       *types.Header        `json:"header"`
	Transactions []*types.Transaction `json:"transactions"`
	Uncles       []*types.Header      `json:"uncles,omitempty"`
	Withdrawals  []*types.Withdrawal  `json:"withdrawals,omitempty"`
}

// Snapshot pairs one block's raw extraction with the records it produced.
// DebugTraces is nil whenever the fixture's request didn't include traces;
// Block is nil whenever the fixture's request didn't fetch block data.
type Snapshot struct {
	ID              string                     `json:"id"`
	BlockNumber     uint64                     `json:"block_number"`
	BlockHash       string                     `json:"block_hash"`
	BlockTimestamp  int64                      `json:"block_timestamp"`
	Request         extract.Request            `json:"request"`
	Block           *RawBlock                  `json:"block,omitempty"`
	Logs            []types.Log                `json:"logs,omitempty"`
	Receipts        []*types.Receipt           `json:"receipts,omitempty"`
	Epoch           *string                    `json:"epoch,omitempty"`
	TotalDifficulty *string                    `json:"total_difficulty,omitempty"`
	DebugTraces     *extract.DebugTraces       `json:"debug_traces,omitempty"`
	Records         *transform.PerBlockRecords `json:"records"`
}

// FromExtracted builds the JSON-safe snapshot fields from a live
// extraction result.
func FromExtracted(extracted *extract.EvmExtracted) (block *RawBlock, logs []types.Log, receipts []*types.Receipt) {
	if extracted.Block != nil {
		block = &RawBlock{
			Header:       extracted.Block.Header(),
			Transactions: extracted.Block.Transactions(),
			Uncles:       extracted.Block.Uncles(),
			Withdrawals:  extracted.Block.Withdrawals(),
		}
	}
	return block, extracted.Logs, extracted.Receipts
}

// ToExtracted rebuilds an *extract.EvmExtracted from the snapshot, suitable
// for feeding back into the transform package.
func (s Snapshot) ToExtracted() *extract.EvmExtracted {
	extracted := &extract.EvmExtracted{
		BlockNumber:     s.BlockNumber,
		BlockTimestamp:  s.BlockTimestamp,
		Logs:            s.Logs,
		Receipts:        s.Receipts,
		Epoch:           s.Epoch,
		TotalDifficulty: s.TotalDifficulty,
	}
	extracted.BlockHash = common.HexToHash(s.BlockHash)

	if s.Block != nil {
		extracted.Block = types.NewBlockWithHeader(s.Block.Header).WithBody(types.Body{
			Transactions: s.Block.Transactions,
			Uncles:       s.Block.Uncles,
			Withdrawals:  s.Block.Withdrawals,
		})
	}

	return extracted
}

// Recorder writes Snapshots to JSON files under a directory, one file per
// snapshot named by a generated UUID.
type Recorder struct {
	dir string
}

// NewRecorder returns a Recorder writing fixtures under dir, creating dir
// if it doesn't already exist.
func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating testset directory %q: %w", dir, err)
	}
	return &Recorder{dir: dir}, nil
}

// Record captures one block's raw/transformed pair to a new fixture file
// and returns the snapshot's generated ID.
func (r *Recorder) Record(
	req extract.Request, extracted *extract.EvmExtracted, debugTraces *extract.DebugTraces,
	records *transform.PerBlockRecords,
) (string, error) {
	block, logs, receipts := FromExtracted(extracted)

	snap := Snapshot{
		ID:              uuid.New().String(),
		BlockNumber:     extracted.BlockNumber,
		BlockHash:       extracted.BlockHash.Hex(),
		BlockTimestamp:  extracted.BlockTimestamp,
		Request:         req,
		Block:           block,
		Logs:            logs,
		Receipts:        receipts,
		Epoch:           extracted.Epoch,
		TotalDifficulty: extracted.TotalDifficulty,
		DebugTraces:     debugTraces,
		Records:         records,
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling snapshot: %w", err)
	}

	path := filepath.Join(r.dir, snap.ID+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot %q: %w", path, err)
	}

	return snap.ID, nil
}

// Load reads every fixture file in dir and returns the decoded snapshots.
func Load(dir string) ([]Snapshot, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading testset directory %q: %w", dir, err)
	}

	var snapshots []Snapshot
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading snapshot %q: %w", path, err)
		}

		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("decoding snapshot %q: %w", path, err)
		}
		snapshots = append(snapshots, snap)
	}

	return snapshots, nil
}

// Replay re-derives PerBlockRecords from a snapshot's raw extraction, in
// the same dependency order pkg/orchestrator.Pipeline.transform uses
// (block, then transactions, then traces, then logs/events, then
// receipts), so a caller can require.Equal the result against
// snap.Records to catch a transform regression. catalog must decode the
// same events the original recording used; passing a different catalog is
// a caller error, not something this function can detect.
func Replay(snap Snapshot, catalog events.Catalog) (*transform.PerBlockRecords, error) {
	req := snap.Request
	extracted := snap.ToExtracted()
	records := &transform.PerBlockRecords{BlockNumber: snap.BlockNumber}

	var block *transform.Block
	if req.Blocks {
		b, err := transform.TransformBlock(extracted)
		if err != nil {
			return nil, fmt.Errorf("transforming block: %w", err)
		}
		block = b
		records.Block = block
	}

	var transactions []transform.Transaction
	if req.Transactions || req.Receipts {
		txs, err := transform.TransformTransactions(extracted.Block, extracted.BlockHash.Hex(), extracted.BlockTimestamp)
		if err != nil {
			return nil, fmt.Errorf("transforming transactions: %w", err)
		}
		transactions = txs
		if req.Transactions {
			records.Transactions = txs
		}
	}

	if req.Traces {
		flags := transform.TraceTransformFlags{
			InclTraces:     true,
			InclCount:      req.Blocks,
			InclPerTxCount: req.Transactions,
		}
		traces, count, perTxCount, err := transform.TransformTraces(snap.DebugTraces, flags)
		if err != nil {
			return nil, fmt.Errorf("transforming traces: %w", err)
		}
		records.Traces = traces
		if count != nil || perTxCount != nil {
			var total int64
			if count != nil {
				total = *count
			}
			transform.SetTraceCounts(block, records.Transactions, total, perTxCount)
		}
	}

	if req.Logs || req.DecodedEvents {
		logs, evts, eventCount, err := transform.TransformLogsAndEvents(
			extracted.Logs, extracted.BlockHash.Hex(), extracted.BlockTimestamp,
			catalog, req.Logs, req.DecodedEvents,
		)
		if err != nil {
			return nil, fmt.Errorf("transforming logs/events: %w", err)
		}
		if req.Logs {
			records.Logs = logs
		}
		if req.DecodedEvents {
			records.Events = evts
		}
		transform.SetEventCount(block, eventCount)
	}

	if req.Receipts {
		receipts, err := transform.TransformReceipts(
			extracted.Receipts, transactions, snap.BlockNumber, extracted.BlockHash.Hex(), extracted.BlockTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("transforming receipts: %w", err)
		}
		records.Receipts = receipts
	}

	return records, nil
}
