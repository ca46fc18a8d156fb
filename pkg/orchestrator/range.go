package orchestrator

import (
	"context"
	"strconv"

	"github.com/blockchain-etl/sonic-indexer/pkg/publish"
	"github.com/blockchain-etl/sonic-indexer/pkg/request"
	"github.com/blockchain-etl/sonic-indexer/pkg/transform"
)

// BlockFailure pairs a block number with the extract/transform error that
// aborted it. A range's failures are collected rather than raised, per the
// per-block isolation policy: one bad block never stops the rest.
type BlockFailure struct {
	BlockNumber uint64
	Err         error
}

// ExtractTransformRange runs ExtractTransform for every block number in
// [req.Start, req.End] (inclusive on both ends) and fans successful
// results out to publisher. It returns the list of blocks that failed
// extraction or transformation; an empty result means every block in the
// range was extracted and transformed. Publish failures are never added to
// this list: publishers retry forever and are responsible for their own
// durability (spec.md §4.8, §7).
func (p *Pipeline) ExtractTransformRange(
	ctx context.Context, req request.IndexingRequest, publisher *publish.StreamPublisher,
) []BlockFailure {
	var failures []BlockFailure
	extractReq := req.ExtractRequest()

	for blockNumber := req.Start; blockNumber <= req.End; blockNumber++ {
		records, err := p.ExtractTransform(ctx, blockNumber, extractReq)
		if err != nil {
			p.log.Error().Err(err).Uint64("block", blockNumber).Msg("block failed extraction or transformation")
			failures = append(failures, BlockFailure{BlockNumber: blockNumber, Err: err})
			if blockNumber == req.End {
				break // avoid uint64 wraparound when req.End is the max value
			}
			continue
		}

		if err := PublishRecords(ctx, publisher, records); err != nil {
			p.log.Error().Err(err).Uint64("block", blockNumber).
				Msg("publishing block records failed; publisher is expected to retry internally")
		}

		if blockNumber == req.End {
			break // avoid uint64 wraparound when req.End is the max value
		}
	}

	return failures
}

// PublishRecords fans a block's records out to the six per-table
// publishers in the fixed order the pipeline contract specifies: block,
// events, logs, receipts, transactions, traces (spec.md §5). Each
// non-empty sequence is published as one batch labeled with the block
// number, with every record in the batch carrying that block's timestamp.
func PublishRecords(ctx context.Context, publisher *publish.StreamPublisher, records *transform.PerBlockRecords) error {
	label := blockLabel(records.BlockNumber)

	if records.Block != nil && publisher.Blocks != nil {
		if err := publisher.Blocks.Publish(ctx, *records.Block); err != nil {
			return err
		}
	}
	if len(records.Events) > 0 && publisher.Events != nil {
		if err := publishBatch(ctx, publisher.Events, label, records.Events, func(e transform.Event) int64 { return e.BlockTimestamp }); err != nil {
			return err
		}
	}
	if len(records.Logs) > 0 && publisher.Logs != nil {
		if err := publishBatch(ctx, publisher.Logs, label, records.Logs, func(l transform.Log) int64 { return l.BlockTimestamp }); err != nil {
			return err
		}
	}
	if len(records.Receipts) > 0 && publisher.Receipts != nil {
		if err := publishBatch(ctx, publisher.Receipts, label, records.Receipts, func(r transform.Receipt) int64 { return r.BlockTimestamp }); err != nil {
			return err
		}
	}
	if len(records.Transactions) > 0 && publisher.Transactions != nil {
		if err := publishBatch(ctx, publisher.Transactions, label, records.Transactions, func(t transform.Transaction) int64 { return t.BlockTimestamp }); err != nil {
			return err
		}
	}
	if len(records.Traces) > 0 && publisher.Traces != nil {
		if err := publishBatch(ctx, publisher.Traces, label, records.Traces, func(t transform.Trace) int64 { return t.BlockTimestamp }); err != nil {
			return err
		}
	}

	return nil
}

// publishBatch converts a typed record slice into the []interface{} the
// Publisher interface expects and derives the parallel per-record
// timestamp slice PublishBatch's partitioning backends rely on.
func publishBatch[T any](ctx context.Context, pub publish.Publisher, label string, items []T, timestamp func(T) int64) error {
	records := make([]interface{}, len(items))
	timestamps := make([]int64, len(items))
	for i, item := range items {
		records[i] = item
		timestamps[i] = timestamp(item)
	}
	return pub.PublishBatch(ctx, label, timestamps, records)
}

func blockLabel(blockNumber uint64) string {
	return strconv.FormatUint(blockNumber, 10)
}
