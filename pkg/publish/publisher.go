// Package publish delivers per-block records to a downstream sink: a local
// JSONL file, a Google Cloud Pub/Sub topic, or a BigQuery table. Every sink
// implements the same narrow Publisher interface so the orchestrator's
// fan-out logic never needs to know which backend is live.
package publish

import "context"

// Publisher delivers records belonging to a single table to one configured
// destination. Implementations must be safe for concurrent use; a caller is
// expected to call Disconnect exactly once during shutdown.
//
// PublishBatch's name and timestamps parameters are opaque to the pipeline:
// name is a per-batch label (the block number string, in practice) and
// timestamps gives each record's block time. The file, Pub/Sub and BigQuery
// sinks in this repository ignore both.
type Publisher interface {
	Publish(ctx context.Context, record interface{}) error
	PublishBatch(ctx context.Context, name string, timestamps []int64, records []interface{}) error
	Disconnect(ctx context.Context) error
}

// StreamPublisher bundles the six per-table publishers a single indexing
// run writes to. The indexer command fills all six regardless of the
// extraction flags; a field may still be nil, and callers must check
// before using it.
type StreamPublisher struct {
	Blocks       Publisher
	Transactions Publisher
	Logs         Publisher
	Events       Publisher
	Receipts     Publisher
	Traces       Publisher
}

// Disconnect tears down every configured publisher. It continues past
// individual failures so one broken sink doesn't strand the others
// connected, returning the first error encountered.
func (s *StreamPublisher) Disconnect(ctx context.Context) error {
	var firstErr error
	for _, p := range []Publisher{s.Blocks, s.Transactions, s.Logs, s.Events, s.Receipts, s.Traces} {
		if p == nil {
			continue
		}
		if err := p.Disconnect(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
