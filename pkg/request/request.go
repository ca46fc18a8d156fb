// Package request defines the wire-level indexing request types consumed
// from a range-mode CLI invocation or a subscription-mode Pub/Sub message,
// and their conversion to pkg/extract.Request.
package request

import "github.com/blockchain-etl/sonic-indexer/pkg/extract"

// IndexingRequest is the full indexing request: a block range plus the six
// per-entity extraction flags.
type IndexingRequest struct {
	Start uint64
	End   uint64

	Blocks        bool
	Transactions  bool
	Logs          bool
	DecodedEvents bool
	Receipts      bool
	Traces        bool
}

// SimpleIndexingRequest is the minimal request shape: just the range a
// caller wants indexed, with every extraction flag implied false. It exists
// for callers that only ever need a range scan with no entity selection.
type SimpleIndexingRequest struct {
	Start uint64
	End   uint64
}

// ExtractRequest projects IndexingRequest's six entity flags onto
// pkg/extract.Request, discarding the range.
func (r IndexingRequest) ExtractRequest() extract.Request {
	return extract.Request{
		Blocks:        r.Blocks,
		Transactions:  r.Transactions,
		Logs:          r.Logs,
		DecodedEvents: r.DecodedEvents,
		Receipts:      r.Receipts,
		Traces:        r.Traces,
	}
}

// ToSimple collapses an IndexingRequest down to its range, discarding the
// entity flags.
func (r IndexingRequest) ToSimple() SimpleIndexingRequest {
	return SimpleIndexingRequest{Start: r.Start, End: r.End}
}

// ToFull expands a SimpleIndexingRequest into an IndexingRequest with every
// entity flag false, matching the original's derive(Default) semantics.
func (s SimpleIndexingRequest) ToFull() IndexingRequest {
	return IndexingRequest{Start: s.Start, End: s.End}
}
