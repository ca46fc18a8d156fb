package extract

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
)

// EvmExtracted bundles the non-trace raw data fetched for one block. Each
// field is nil unless the triggering Request asked for it (directly, or as
// a dependency of another requested field).
type EvmExtracted struct {
	BlockNumber    uint64
	BlockHash      common.Hash
	BlockTimestamp int64

	Block    *types.Block
	Logs     []types.Log
	Receipts []*types.Receipt

	// Epoch is the raw "0x"-prefixed hex string of the chain-specific
	// epoch extra field, fetched alongside the block only when the Request
	// sets Blocks. It is nil when Blocks is not set or when the node omits
	// the field.
	Epoch *string

	// TotalDifficulty is the raw "0x"-prefixed hex string reported by the
	// JSON-RPC envelope alongside (not inside) the header.
	TotalDifficulty *string
}

// CallType is the EVM call variant of a "call" trace action.
type CallType string

// The call variants reported by trace_block/trace_transaction.
const (
	CallTypeCall         CallType = "call"
	CallTypeDelegateCall CallType = "delegatecall"
	CallTypeStaticCall   CallType = "staticcall"
	CallTypeCallCode     CallType = "callcode"
)

// RewardType distinguishes a block reward from an uncle reward.
type RewardType string

// The reward variants reported by trace_block.
const (
	RewardTypeBlock RewardType = "block"
	RewardTypeUncle RewardType = "uncle"
)

// TraceActionCall is the action payload of a "call" trace. Quantity fields
// are hex-quantity JSON (hexutil types) matching the trace_block wire
// format, not plain decimal numbers.
type TraceActionCall struct {
	From     common.Address `json:"from"`
	CallType string         `json:"callType"`
	Gas      hexutil.Uint64 `json:"gas"`
	Input    hexutil.Bytes  `json:"input"`
	To       common.Address `json:"to"`
	Value    *hexutil.Big   `json:"value"`
}

// TraceActionReward is the action payload of a "reward" trace.
type TraceActionReward struct {
	Author     common.Address `json:"author"`
	RewardType string         `json:"rewardType"`
	Value      *hexutil.Big   `json:"value"`
}

// TraceActionCreate is the action payload of a "create" trace.
type TraceActionCreate struct {
	From  common.Address `json:"from"`
	Value *hexutil.Big   `json:"value"`
	Gas   hexutil.Uint64 `json:"gas"`
	Init  hexutil.Bytes  `json:"init"`
}

// TraceActionSuicide is the action payload of a "suicide" trace.
type TraceActionSuicide struct {
	RefundAddress         *common.Address `json:"refundAddress"`
	Balance               *hexutil.Big    `json:"balance"`
	SelfDestructedAddress common.Address  `json:"address"`
}

// TraceResult is the generic result payload of a "call" trace.
type TraceResult struct {
	GasUsed hexutil.Uint64 `json:"gasUsed"`
	Output  hexutil.Bytes  `json:"output"`
}

// TraceResultCreate is the result payload of a "create" trace.
type TraceResultCreate struct {
	GasUsed hexutil.Uint64 `json:"gasUsed"`
	Address common.Address `json:"address"`
	Code    hexutil.Bytes  `json:"code"`
}

// TraceResultEmpty is the result payload of an "empty" trace.
type TraceResultEmpty struct {
	GasUsed hexutil.Uint64 `json:"gasUsed"`
}

// TraceKind identifies the tagged variant of a Trace, mirroring the
// trace_block "type" discriminator.
type TraceKind string

// The trace variants trace_block/trace_transaction can return.
const (
	TraceKindCall    TraceKind = "call"
	TraceKindReward  TraceKind = "reward"
	TraceKindCreate  TraceKind = "create"
	TraceKindSuicide TraceKind = "suicide"
	TraceKindEmpty   TraceKind = "empty"
)

// Trace is a single trace_block/trace_transaction entry. Exactly one of the
// Action* fields and at most one of the Result* fields are populated per
// Kind; callers switch on Kind
// rather than testing pointer fields for nilness, matching the Rust
// original's tagged enum.
type Trace struct {
	Kind TraceKind `json:"type"`

	ActionCall    *TraceActionCall    `json:"-"`
	ActionReward  *TraceActionReward  `json:"-"`
	ActionCreate  *TraceActionCreate  `json:"-"`
	ActionSuicide *TraceActionSuicide `json:"-"`

	ResultCall   *TraceResult       `json:"-"`
	ResultCreate *TraceResultCreate `json:"-"`
	ResultEmpty  *TraceResultEmpty  `json:"-"`

	BlockHash           common.Hash  `json:"blockHash"`
	BlockNumber         uint64       `json:"blockNumber"`
	Error               *string      `json:"error"`
	Subtraces           uint64       `json:"subtraces"`
	TraceAddress        []uint64     `json:"traceAddress"`
	TransactionHash     *common.Hash `json:"transactionHash"`
	TransactionPosition *uint64      `json:"transactionPosition"`
}

// TxInfo returns the transaction hash and position a trace belongs to,
// matching TxTrace::get_tx_info in the Rust original: a reward trace may
// have no owning transaction (block/uncle rewards), every other kind
// always does.
func (t Trace) TxInfo() (*common.Hash, *uint64) {
	return t.TransactionHash, t.TransactionPosition
}

// DebugTraces bundles the traces fetched for one block via trace_block.
type DebugTraces struct {
	BlockNumber    uint64
	BlockHash      *common.Hash
	BlockTimestamp int64
	Traces         []Trace
}
