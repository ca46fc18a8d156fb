package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/blockchain-etl/sonic-indexer/pkg/metrics"
)

// Extractor fetches raw block data from an EVM JSON-RPC endpoint.
type Extractor struct {
	client   *ethclient.Client
	counters *metrics.RequestCounters
	log      zerolog.Logger
}

// NewExtractor builds an Extractor over an already-dialed client. counters
// may be nil, in which case request accounting is skipped.
func NewExtractor(client *ethclient.Client, counters *metrics.RequestCounters) *Extractor {
	return &Extractor{
		client:   client,
		counters: counters,
		log:      log.With().Str("component", "extract").Logger(),
	}
}

func (e *Extractor) incrRequest(ctx context.Context) {
	if e.counters != nil {
		e.counters.RequestCount.Add(ctx, 1)
	}
}

func (e *Extractor) incrFailure(ctx context.Context) {
	if e.counters != nil {
		e.counters.FailedRequestCount.Add(ctx, 1)
	}
}

// rangeErrorSubstrings are fragments seen in provider error messages when a
// request's range or result size exceeds a node-side limit. These errors
// cannot be fixed by retrying the identical request, so the retry loops
// below short-circuit on them instead of burning the full retry budget.
var rangeErrorSubstrings = []string{
	"query returned more than",
	"limit exceeded",
	"block range too large",
	"response size exceeded",
}

func isUnretryableRangeError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, frag := range rangeErrorSubstrings {
		if containsFold(msg, frag) {
			return true
		}
	}
	return false
}

func containsFold(haystack, needle string) bool {
	h, n := []rune(haystack), []rune(needle)
	if len(n) == 0 || len(n) > len(h) {
		return len(n) == 0
	}
	lower := func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}
	for i := 0; i+len(n) <= len(h); i++ {
		match := true
		for j := range n {
			if lower(h[i+j]) != lower(n[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// GetBlock fetches a single block with its full transaction bodies.
func (e *Extractor) GetBlock(ctx context.Context, blockNumber uint64) (*types.Block, error) {
	e.incrRequest(ctx)
	block, err := e.client.BlockByNumber(ctx, new(big.Int).SetUint64(blockNumber))
	if err != nil {
		return nil, err
	}
	return block, nil
}

// GetBlockWithRetry retries GetBlock up to nRetry times, sleeping cooldown
// seconds between attempts, on both a transport error and a nil block
// (some providers return no error for an unindexed block). A zero nRetry
// means exactly one attempt, no retries.
func (e *Extractor) GetBlockWithRetry(
	ctx context.Context, blockNumber uint64, nRetry, cooldown int,
) (*types.Block, error) {
	if nRetry == 0 {
		return e.GetBlock(ctx, blockNumber)
	}

	var lastErr error
	for attempt := 0; attempt < nRetry; attempt++ {
		block, err := e.GetBlock(ctx, blockNumber)
		if err == nil && block != nil {
			return block, nil
		}

		e.incrFailure(ctx)
		if err != nil {
			lastErr = err
			e.log.Warn().Err(err).Uint64("block", blockNumber).
				Int("attempt", attempt).Int("n_retry", nRetry).
				Msg("failed to retrieve block, error returned")
		} else {
			lastErr = nil
			e.log.Warn().Uint64("block", blockNumber).
				Int("attempt", attempt).Int("n_retry", nRetry).
				Msg("failed to retrieve block, retrieved none")
		}

		if cooldown > 0 {
			e.log.Info().Uint64("block", blockNumber).Int("cooldown_seconds", cooldown).
				Msg("will retry block retrieval after cooldown")
			sleep(ctx, cooldown)
		}
	}

	return nil, lastErr
}

// GetLogs fetches every log emitted within a single block.
func (e *Extractor) GetLogs(ctx context.Context, blockNumber uint64) ([]types.Log, error) {
	e.incrRequest(ctx)
	bn := new(big.Int).SetUint64(blockNumber)
	logs, err := e.client.FilterLogs(ctx, ethereumFilterQuery(bn, bn))
	if err != nil {
		return nil, err
	}
	return dedupeLogs(logs), nil
}

// GetLogsWithRetry retries GetLogs up to nRetry times, sleeping cooldown
// seconds between attempts. Unlike block retrieval, an empty log slice is a
// valid (non-retried) success.
func (e *Extractor) GetLogsWithRetry(
	ctx context.Context, blockNumber uint64, nRetry, cooldown int,
) ([]types.Log, error) {
	if nRetry == 0 {
		return e.GetLogs(ctx, blockNumber)
	}

	var lastErr error
	for attempt := 0; attempt < nRetry; attempt++ {
		logs, err := e.GetLogs(ctx, blockNumber)
		if err == nil {
			return logs, nil
		}

		e.incrFailure(ctx)
		lastErr = err
		e.log.Warn().Err(err).Uint64("block", blockNumber).
			Int("attempt", attempt).Int("n_retry", nRetry).
			Msg("failed to retrieve logs, error returned")

		if isUnretryableRangeError(err) {
			e.log.Error().Err(err).Uint64("block", blockNumber).
				Msg("log retrieval failed with an unretryable range error, aborting retry budget early")
			return nil, err
		}

		if cooldown > 0 {
			e.log.Info().Uint64("block", blockNumber).Int("cooldown_seconds", cooldown).
				Msg("will retry log retrieval after cooldown")
			sleep(ctx, cooldown)
		}
	}

	return nil, lastErr
}

// BlockExtras carries header fields the standard go-ethereum decoding
// discards because they aren't part of the canonical Header schema: the
// Sonic-specific "epoch" extra field and the "totalDifficulty" value the
// JSON-RPC envelope reports alongside (but not inside) the header.
type BlockExtras struct {
	Epoch           *string
	TotalDifficulty *string
}

// GetBlockExtras fetches BlockExtras via a single header-only request,
// mirroring the debug header probe in ExtractDebug: a single un-retried
// attempt whose error is returned as-is rather than retried against the
// request's RPC budget (ExtractBasic then fails the block with it). Fields
// the node omits come back nil; the caller decides whether that's fatal.
func (e *Extractor) GetBlockExtras(ctx context.Context, blockNumber uint64) (BlockExtras, error) {
	e.incrRequest(ctx)

	var raw map[string]json.RawMessage
	hexBlock := fmt.Sprintf("0x%x", blockNumber)
	if err := e.client.Client().CallContext(ctx, &raw, "eth_getBlockByNumber", hexBlock, false); err != nil {
		e.incrFailure(ctx)
		return BlockExtras{}, err
	}

	return BlockExtras{
		Epoch:           decodeHexStringField(raw, "epoch"),
		TotalDifficulty: decodeHexStringField(raw, "totalDifficulty"),
	}, nil
}

func decodeHexStringField(raw map[string]json.RawMessage, name string) *string {
	field, ok := raw[name]
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(field, &s); err != nil {
		return nil
	}
	return &s
}

// GetBlockReceipts fetches every transaction receipt for a block.
func (e *Extractor) GetBlockReceipts(ctx context.Context, blockNumber uint64) ([]*types.Receipt, error) {
	e.incrRequest(ctx)
	receipts, err := e.client.BlockReceipts(ctx, ethereumBlockNumberRPC(blockNumber))
	if err != nil {
		return nil, err
	}
	return receipts, nil
}

// GetBlockReceiptsWithRetry retries GetBlockReceipts up to nRetry times,
// sleeping cooldown seconds between attempts.
func (e *Extractor) GetBlockReceiptsWithRetry(
	ctx context.Context, blockNumber uint64, nRetry, cooldown int,
) ([]*types.Receipt, error) {
	if nRetry == 0 {
		return e.GetBlockReceipts(ctx, blockNumber)
	}

	var lastErr error
	for attempt := 0; attempt < nRetry; attempt++ {
		receipts, err := e.GetBlockReceipts(ctx, blockNumber)
		if err == nil {
			return receipts, nil
		}

		e.incrFailure(ctx)
		lastErr = err
		e.log.Warn().Err(err).Uint64("block", blockNumber).
			Int("attempt", attempt).Int("n_retry", nRetry).
			Msg("failed to retrieve receipts, error returned")

		if cooldown > 0 {
			e.log.Info().Uint64("block", blockNumber).Int("cooldown_seconds", cooldown).
				Msg("will retry receipt retrieval after cooldown")
			sleep(ctx, cooldown)
		}
	}

	return nil, lastErr
}

func sleep(ctx context.Context, seconds int) {
	select {
	case <-time.After(time.Duration(seconds) * time.Second):
	case <-ctx.Done():
	}
}

// dedupeLogs removes duplicate log entries returned for the same
// (block_number, tx_hash, log_index) triple — a real-world RPC backend
// quirk observed on some providers when serving a single-block log filter.
func dedupeLogs(logs []types.Log) []types.Log {
	seen := make(map[string]struct{}, len(logs))
	out := make([]types.Log, 0, len(logs))
	for _, lg := range logs {
		key := fmt.Sprintf("%d:%s:%d", lg.BlockNumber, lg.TxHash.Hex(), lg.Index)
		if _, ok := seen[key]; ok {
			log.Warn().Str("tx_hash", lg.TxHash.Hex()).Uint("log_index", lg.Index).
				Msg("dropping duplicate log returned by provider")
			continue
		}
		seen[key] = struct{}{}
		out = append(out, lg)
	}
	return out
}

// ExtractBasic fetches the block, logs and receipts for one block, skipping
// whichever fetches the request doesn't need. Returns (nil, nil) when the
// block does not exist (not yet mined, or pruned).
func (e *Extractor) ExtractBasic(
	ctx context.Context, blockNumber uint64, req Request, nRetry, cooldown int,
) (*EvmExtracted, error) {
	block, err := e.GetBlockWithRetry(ctx, blockNumber, nRetry, cooldown)
	if err != nil {
		return nil, fmt.Errorf("fetching block #%d: %w", blockNumber, err)
	}
	if block == nil {
		return nil, nil
	}

	extracted := &EvmExtracted{
		BlockNumber:    blockNumber,
		BlockHash:      block.Hash(),
		BlockTimestamp: int64(block.Time()),
	}

	// The receipt record carries from/to addresses that the raw receipt
	// itself doesn't: transform.TransformReceipts recovers them by
	// matching against this block's transactions, so the full-tx block
	// is kept whenever receipts are requested too, even if neither a
	// block nor a transaction record is itself being emitted.
	if req.Blocks || req.Transactions || req.Receipts {
		extracted.Block = block
	}

	var g errgroup.Group

	if req.Logs || req.DecodedEvents || req.Blocks {
		g.Go(func() error {
			logs, err := e.GetLogsWithRetry(ctx, blockNumber, nRetry, cooldown)
			if err != nil {
				return fmt.Errorf("fetching logs for block #%d: %w", blockNumber, err)
			}
			extracted.Logs = logs
			return nil
		})
	}

	if req.Receipts {
		g.Go(func() error {
			receipts, err := e.GetBlockReceiptsWithRetry(ctx, blockNumber, nRetry, cooldown)
			if err != nil {
				return fmt.Errorf("fetching receipts for block #%d: %w", blockNumber, err)
			}
			extracted.Receipts = receipts
			return nil
		})
	}

	if req.Blocks {
		g.Go(func() error {
			extras, err := e.GetBlockExtras(ctx, blockNumber)
			if err != nil {
				return fmt.Errorf("fetching block extras for block #%d: %w", blockNumber, err)
			}
			extracted.Epoch = extras.Epoch
			extracted.TotalDifficulty = extras.TotalDifficulty
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return extracted, nil
}

