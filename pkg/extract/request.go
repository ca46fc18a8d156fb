// Package extract fetches raw per-block data from an EVM JSON-RPC
// provider: blocks, logs, receipts and, where the node exposes the debug
// namespace, transaction traces. Block, log and receipt fetches are retried
// up to a configured attempt budget with a fixed cooldown between attempts;
// the block-extras and debug fetches are single attempts. Every request is
// counted through pkg/metrics.
package extract

// Request selects which raw entities a block extraction should fetch. It
// mirrors the six downstream record kinds, letting a caller avoid RPC calls
// for data nothing downstream needs.
type Request struct {
	Blocks        bool
	Transactions  bool
	Logs          bool
	DecodedEvents bool
	Receipts      bool
	Traces        bool
}

// SimpleRequest is a shorthand for Request: a boolean "index everything basic"
// flag plus an explicit traces flag, since trace extraction is several
// times more expensive than the rest combined.
type SimpleRequest struct {
	IndexBasic bool
	Traces     bool
}

// ToRequest expands a SimpleRequest into the full per-entity Request.
func (s SimpleRequest) ToRequest() Request {
	return Request{
		Blocks:        s.IndexBasic,
		Transactions:  s.IndexBasic,
		Logs:          s.IndexBasic,
		DecodedEvents: s.IndexBasic,
		Receipts:      s.IndexBasic,
		Traces:        s.Traces,
	}
}

// ToSimple collapses a Request back into a SimpleRequest for transport.
// IndexBasic is true only when every non-trace field agrees.
func (r Request) ToSimple() SimpleRequest {
	basic := r.Blocks && r.Transactions && r.Logs && r.DecodedEvents && r.Receipts
	return SimpleRequest{IndexBasic: basic, Traces: r.Traces}
}
