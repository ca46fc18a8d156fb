// Package transform converts raw extracted chain data (pkg/extract) into
// the six stable output record kinds this indexer emits: blocks,
// transactions, logs, decoded events, receipts and traces. Every
// transform function here is pure over its inputs — no RPC calls, no
// shared mutable state beyond the read-only event catalog logs and events
// decode against.
package transform

// Block is the canonical block record. Counter fields are filled across
// passes: TransactionsCount and LogCount are known during this pass;
// TraceCount and DecodedEventCount start at zero and are backfilled once
// the trace and log/event passes run (see SetTraceCounts, SetEventCount).
type Block struct {
	BlockNumber       uint64
	BlockHash         string
	ParentHash        string
	Timestamp         int64
	Miner             string
	Difficulty        string
	TotalDifficulty   *string
	Size              int64
	GasLimit          int64
	GasUsed           int64
	BaseFeePerGas     *int64
	StateRoot         string
	TransactionsRoot  string
	ReceiptsRoot      string
	LogsBloom         string
	ExtraData         string
	MixHash           *string
	Nonce             *string
	WithdrawalsRoot   *string
	ParentBeaconBlockRoot *string
	Epoch             int64

	TransactionsCount   int64
	LogCount            int64
	TraceCount          int64
	DecodedEventCount   int64

	Uncles       []Uncle
	Withdrawals  []Withdrawal
}

// Uncle is one ommer header reported within a block.
type Uncle struct {
	Hash   string
	Number int64
	Miner  string
}

// Withdrawal is one validator withdrawal reported within a block.
// Withdrawal amounts are gwei-scale u64 values and are never capped: the
// lossless field always equals the primary field.
type Withdrawal struct {
	Index          int64
	ValidatorIndex int64
	Address        string
	Amount         string
	AmountLossless string
}

// AccessListEntry is one (address, storage keys) pair of a transaction's
// EIP-2930 access list.
type AccessListEntry struct {
	Address     string
	StorageKeys []string
}

// Transaction is the canonical transaction record. TraceCount starts at
// zero and is backfilled by the trace pass.
type Transaction struct {
	BlockNumber      uint64
	BlockHash        string
	BlockTimestamp   int64

	TransactionHash  string
	TransactionIndex int64
	FromAddress      string
	ToAddress        *string
	Nonce            int64
	Input            string
	Gas              int64

	Value         string
	ValueLossless string

	GasPrice              *int64
	MaxFeePerGas          *int64
	MaxPriorityFeePerGas  *int64

	TransactionType int64
	ChainID         *int64

	AccessList []AccessListEntry

	R *string
	S *string
	V *string

	YParity *string

	TraceCount int64
}

// Log is the canonical log record.
type Log struct {
	BlockNumber      uint64
	BlockHash        string
	BlockTimestamp   int64
	TransactionHash  string
	TransactionIndex int64
	LogIndex         int64
	Address          string
	Data             string
	Topics           []string
	Removed          bool
}

// Event is the canonical decoded-event record. Args is the positional
// JSON array produced by events.ArgsToJSON, serialized to a string.
type Event struct {
	BlockNumber      uint64
	BlockHash        string
	BlockTimestamp   int64
	TransactionHash  string
	TransactionIndex int64
	LogIndex         int64
	EventHash        string
	EventSignature   string
	Topics           []string
	Args             string
}

// Receipt is the canonical transaction receipt record.
type Receipt struct {
	BlockNumber       uint64
	BlockHash         string
	BlockTimestamp    int64
	TransactionHash   string
	TransactionIndex  int64
	FromAddress       string
	ToAddress         *string
	ContractAddress   *string
	CumulativeGasUsed int64
	GasUsed           int64
	EffectiveGasPrice int64
	LogsBloom         string
	Root              *string
	Status            *int64
}

// Trace is the canonical trace record: a flat union over the five trace
// kinds (call/reward/create/suicide/empty). Exactly the fields relevant to
// TraceType are populated; the rest are nil/zero.
type Trace struct {
	BlockNumber      uint64
	BlockHash        string
	BlockTimestamp   int64
	TransactionHash  *string
	TransactionIndex *int64

	TraceType     string
	TraceAddress  []int64
	SubtraceCount int64
	TraceIndex    int64
	Error         *string

	ActionFrom     *string
	ActionTo       *string
	ActionCallType *string
	ActionGas      *int64
	ActionInput    *string

	ActionValue         *string
	ActionValueLossless *string

	ActionAuthor     *string
	ActionRewardType *string

	ActionRefundAddress          *string
	ActionRefundBalance          *string
	ActionRefundBalanceLossless  *string
	ActionSelfDestructedAddress  *string

	ActionInit *string

	ResultGasUsed *int64
	ResultOutput  *string
	ResultAddress *string
	ResultCode    *string
}

// PerBlockRecords bundles the six optional record sequences produced for
// one block. A field is nil when the corresponding request flag was not
// set. When the flag is set but the block has no such records, the slice
// is empty and may be nil, so nil does not by itself mean "not requested".
type PerBlockRecords struct {
	BlockNumber uint64

	Block        *Block
	Transactions []Transaction
	Logs         []Log
	Events       []Event
	Receipts     []Receipt
	Traces       []Trace
}
