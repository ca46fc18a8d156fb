// Package orchestrator drives a range of block numbers (or a stream of
// indexing requests pulled from a subscription) through the extract,
// transform and publish pipeline. It owns the provider handle, the shared
// event catalog, and the per-table publishers, and is the only component
// that knows how the other subsystems compose.
package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/blockchain-etl/sonic-indexer/pkg/events"
	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
	"github.com/blockchain-etl/sonic-indexer/pkg/transform"
)

// RetryConfig bounds the per-RPC retry behavior every extraction sub-call
// uses, read from EXTRACTION_N_RETRY/EXTRACTION_RETRY_COOLDOWN.
type RetryConfig struct {
	NRetry   int
	Cooldown int
}

// BlockExtractor is the subset of *extract.Extractor the pipeline drives.
// Pipeline depends on this interface rather than the concrete type so
// tests can exercise the transform/publish wiring against a fake without
// dialing a real JSON-RPC endpoint.
type BlockExtractor interface {
	ExtractBasic(ctx context.Context, blockNumber uint64, req extract.Request, nRetry, cooldown int) (*extract.EvmExtracted, error)
	ExtractDebug(ctx context.Context, blockNumber uint64) (*extract.DebugTraces, error)
}

// Pipeline assembles PerBlockRecords for one block number at a time. The
// extractor handle is mutex-guarded rather than immutable: in subscription
// mode it is rebuilt (primary-then-fallback) between messages whenever a
// range reports a failure, but never mid-range, matching the "provider
// handles are logically immutable during a range" rule.
type Pipeline struct {
	mu        sync.RWMutex
	extractor BlockExtractor

	catalog events.Catalog
	retry   RetryConfig
	log     zerolog.Logger
}

// NewPipeline builds a Pipeline over an already-dialed extractor and a
// shared, read-only event catalog.
func NewPipeline(extractor BlockExtractor, catalog events.Catalog, retry RetryConfig) *Pipeline {
	return &Pipeline{
		extractor: extractor,
		catalog:   catalog,
		retry:     retry,
		log:       log.With().Str("component", "orchestrator").Logger(),
	}
}

// Extractor returns the currently active extractor.
func (p *Pipeline) Extractor() BlockExtractor {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.extractor
}

// SetExtractor swaps the active extractor, e.g. after BuildActiveProvider
// selects a new handle following a transport failure.
func (p *Pipeline) SetExtractor(extractor BlockExtractor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.extractor = extractor
}

// ExtractTransform runs the full pipeline for one block number: extraction
// (basic + debug, issued concurrently), then the transforms in the order
// that respects the count-backfill dependencies (block -> transactions ->
// traces -> logs/events -> receipts). It returns an *ErrBlockNotFound when
// the block does not exist on-chain.
func (p *Pipeline) ExtractTransform(ctx context.Context, blockNumber uint64, req extract.Request) (*transform.PerBlockRecords, error) {
	extractor := p.Extractor()

	basicCh := make(chan basicResult, 1)
	debugCh := make(chan debugResult, 1)

	go func() {
		extracted, err := extractor.ExtractBasic(ctx, blockNumber, req, p.retry.NRetry, p.retry.Cooldown)
		basicCh <- basicResult{extracted: extracted, err: err}
	}()
	go func() {
		if !req.Traces {
			debugCh <- debugResult{}
			return
		}
		traces, err := extractor.ExtractDebug(ctx, blockNumber)
		debugCh <- debugResult{traces: traces, err: err}
	}()

	basic, debug := <-basicCh, <-debugCh
	if basic.err != nil {
		return nil, fmt.Errorf("block #%d: extracting basic data: %w", blockNumber, basic.err)
	}
	if debug.err != nil {
		return nil, fmt.Errorf("block #%d: extracting debug traces: %w", blockNumber, debug.err)
	}
	if basic.extracted == nil {
		return nil, &ErrBlockNotFound{BlockNumber: blockNumber}
	}
	if req.Traces && debug.traces == nil {
		return nil, &ErrBlockNotFound{BlockNumber: blockNumber}
	}

	records, err := p.transform(blockNumber, req, basic.extracted, debug.traces)
	if err != nil {
		return nil, fmt.Errorf("block #%d: %w", blockNumber, err)
	}
	return records, nil
}

type basicResult struct {
	extracted *extract.EvmExtracted
	err       error
}

type debugResult struct {
	traces *extract.DebugTraces
	err    error
}

// ErrBlockNotFound is returned when the RPC provider reports no such block,
// e.g. a number past the chain head.
type ErrBlockNotFound struct {
	BlockNumber uint64
}

func (e *ErrBlockNotFound) Error() string {
	return fmt.Sprintf("block #%d: not found", e.BlockNumber)
}

// transform runs the six per-block transforms in dependency order. Any
// step whose selector flag is false is skipped entirely; emitting a block,
// transaction or receipt record without having fetched block data is
// treated as a programmer error rather than a normal skip, since the extractor
// guarantees that invariant given a faithfully-constructed Request.
func (p *Pipeline) transform(
	blockNumber uint64, req extract.Request, extracted *extract.EvmExtracted, debugTraces *extract.DebugTraces,
) (*transform.PerBlockRecords, error) {
	records := &transform.PerBlockRecords{BlockNumber: blockNumber}

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
		if extracted.Block == nil {
			return nil, fmt.Errorf("transforming transactions: %w", &transform.FieldError{
				Field: "transactions",
				Err:   fmt.Errorf("transaction record requested without extracted block data"),
			})
		}
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
		traces, count, perTxCount, err := transform.TransformTraces(debugTraces, flags)
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
			p.catalog, req.Logs, req.DecodedEvents,
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
			extracted.Receipts, transactions, blockNumber, extracted.BlockHash.Hex(), extracted.BlockTimestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("transforming receipts: %w", err)
		}
		records.Receipts = receipts
	}

	return records, nil
}
