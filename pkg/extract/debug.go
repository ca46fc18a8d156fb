package extract

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// rawTrace mirrors the shape trace_block/trace_transaction actually return
// on the wire: action and result are untyped objects whose fields vary by
// the "type" discriminator, so they're decoded generically first and then
// routed into the correctly-typed Trace fields by traceFromRaw.
type rawTrace struct {
	Type                string          `json:"type"`
	Action              json.RawMessage `json:"action"`
	Result              json.RawMessage `json:"result"`
	BlockHash           common.Hash     `json:"blockHash"`
	BlockNumber         uint64          `json:"blockNumber"`
	Error               *string         `json:"error"`
	Subtraces           uint64          `json:"subtraces"`
	TraceAddress        []uint64        `json:"traceAddress"`
	TransactionHash     *common.Hash    `json:"transactionHash"`
	TransactionPosition *uint64         `json:"transactionPosition"`
}

func traceFromRaw(raw rawTrace) (Trace, error) {
	t := Trace{
		Kind:                TraceKind(raw.Type),
		BlockHash:           raw.BlockHash,
		BlockNumber:         raw.BlockNumber,
		Error:               raw.Error,
		Subtraces:           raw.Subtraces,
		TraceAddress:        raw.TraceAddress,
		TransactionHash:     raw.TransactionHash,
		TransactionPosition: raw.TransactionPosition,
	}

	switch t.Kind {
	case TraceKindCall:
		var action TraceActionCall
		if err := json.Unmarshal(raw.Action, &action); err != nil {
			return Trace{}, fmt.Errorf("decoding call action: %w", err)
		}
		t.ActionCall = &action
		if len(raw.Result) > 0 && string(raw.Result) != "null" {
			var result TraceResult
			if err := json.Unmarshal(raw.Result, &result); err != nil {
				return Trace{}, fmt.Errorf("decoding call result: %w", err)
			}
			t.ResultCall = &result
		}
	case TraceKindReward:
		var action TraceActionReward
		if err := json.Unmarshal(raw.Action, &action); err != nil {
			return Trace{}, fmt.Errorf("decoding reward action: %w", err)
		}
		t.ActionReward = &action
	case TraceKindCreate:
		var action TraceActionCreate
		if err := json.Unmarshal(raw.Action, &action); err != nil {
			return Trace{}, fmt.Errorf("decoding create action: %w", err)
		}
		t.ActionCreate = &action
		if len(raw.Result) > 0 && string(raw.Result) != "null" {
			var result TraceResultCreate
			if err := json.Unmarshal(raw.Result, &result); err != nil {
				return Trace{}, fmt.Errorf("decoding create result: %w", err)
			}
			t.ResultCreate = &result
		}
	case TraceKindSuicide:
		var action TraceActionSuicide
		if err := json.Unmarshal(raw.Action, &action); err != nil {
			return Trace{}, fmt.Errorf("decoding suicide action: %w", err)
		}
		t.ActionSuicide = &action
	case TraceKindEmpty:
		var action TraceActionCreate
		if err := json.Unmarshal(raw.Action, &action); err != nil {
			return Trace{}, fmt.Errorf("decoding empty action: %w", err)
		}
		t.ActionCreate = &action
		if len(raw.Result) > 0 && string(raw.Result) != "null" {
			var result TraceResultEmpty
			if err := json.Unmarshal(raw.Result, &result); err != nil {
				return Trace{}, fmt.Errorf("decoding empty result: %w", err)
			}
			t.ResultEmpty = &result
		}
	default:
		return Trace{}, fmt.Errorf("unknown trace type %q", raw.Type)
	}

	return t, nil
}

// GetBlockTraces returns every transaction trace within a block via
// trace_block.
func (e *Extractor) GetBlockTraces(ctx context.Context, blockNumber uint64) ([]Trace, error) {
	e.incrRequest(ctx)

	var raws []rawTrace
	hexBlock := fmt.Sprintf("0x%x", blockNumber)
	if err := e.client.Client().CallContext(ctx, &raws, "trace_block", hexBlock); err != nil {
		return nil, err
	}

	traces := make([]Trace, 0, len(raws))
	for _, raw := range raws {
		t, err := traceFromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing trace_block entry: %w", err)
		}
		traces = append(traces, t)
	}
	return traces, nil
}

// GetTxTrace returns the trace for a single transaction via
// trace_transaction.
func (e *Extractor) GetTxTrace(ctx context.Context, txHash common.Hash) ([]Trace, error) {
	e.incrRequest(ctx)

	var raws []rawTrace
	if err := e.client.Client().CallContext(ctx, &raws, "trace_transaction", txHash); err != nil {
		return nil, err
	}

	traces := make([]Trace, 0, len(raws))
	for _, raw := range raws {
		t, err := traceFromRaw(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing trace_transaction entry: %w", err)
		}
		traces = append(traces, t)
	}
	return traces, nil
}

// ExtractDebug fetches the block header (for its hash and timestamp) and,
// for every block except genesis, its traces via trace_block. Returns
// (nil, nil) when the block does not exist.
func (e *Extractor) ExtractDebug(ctx context.Context, blockNumber uint64) (*DebugTraces, error) {
	e.incrRequest(ctx)
	header, err := e.client.HeaderByNumber(ctx, blockNumberBigInt(blockNumber))
	if err != nil {
		e.incrFailure(ctx)
		return nil, fmt.Errorf("fetching header for block #%d: %w", blockNumber, err)
	}
	if header == nil {
		return nil, nil
	}

	var traces []Trace
	if blockNumber != 0 {
		traces, err = e.GetBlockTraces(ctx, blockNumber)
		if err != nil {
			return nil, fmt.Errorf("fetching traces for block #%d: %w", blockNumber, err)
		}
	}

	hash := header.Hash()
	return &DebugTraces{
		BlockNumber:    blockNumber,
		BlockHash:      &hash,
		BlockTimestamp: int64(header.Time),
		Traces:         traces,
	}, nil
}
