package transform

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"

	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
	"github.com/blockchain-etl/sonic-indexer/pkg/numeric"
)

// TraceTransformFlags selects which outputs TransformTraces computes. Each
// is independently optional since a caller may want the per-transaction
// trace count without materializing every trace record.
type TraceTransformFlags struct {
	InclTraces     bool
	InclCount      bool
	InclPerTxCount bool
}

// TransformTraces converts a block's raw debug traces into Trace records,
// the total trace count, and a per-transaction trace count keyed by
// transaction index. Traces with no transaction association (block and
// uncle rewards) are counted in the total but never in the per-tx map.
func TransformTraces(
	debugTraces *extract.DebugTraces, flags TraceTransformFlags,
) ([]Trace, *int64, map[uint64]int64, error) {
	if debugTraces == nil {
		return nil, nil, nil, fieldErrf("traces", "trace record requested without extracted trace data")
	}

	var blockHash *string
	if debugTraces.BlockHash != nil {
		s := debugTraces.BlockHash.Hex()
		blockHash = &s
	}

	var traces []Trace
	var perTxCount map[uint64]int64
	if flags.InclPerTxCount {
		perTxCount = make(map[uint64]int64)
	}
	var count int64

	for i, t := range debugTraces.Traces {
		count++
		if _, txIndex := t.TxInfo(); txIndex != nil && flags.InclPerTxCount {
			perTxCount[*txIndex]++
		}

		if !flags.InclTraces {
			continue
		}
		record, err := transformTrace(t, uint64(i), debugTraces.BlockNumber, blockHash, debugTraces.BlockTimestamp)
		if err != nil {
			return nil, nil, nil, err
		}
		traces = append(traces, record)
	}

	var countPtr *int64
	if flags.InclCount {
		countPtr = &count
	}
	return traces, countPtr, perTxCount, nil
}

func transformTrace(
	t extract.Trace, traceIndex, blockNumber uint64, blockHash *string, blockTimestamp int64,
) (Trace, error) {
	hash := ""
	if blockHash != nil {
		hash = *blockHash
	}

	record := Trace{
		BlockNumber:    blockNumber,
		BlockHash:      hash,
		BlockTimestamp: blockTimestamp,
		TraceType:      string(t.Kind),
		SubtraceCount:  int64(t.Subtraces),
		TraceIndex:     int64(traceIndex),
		Error:          t.Error,
	}
	record.TraceAddress = make([]int64, len(t.TraceAddress))
	for i, a := range t.TraceAddress {
		record.TraceAddress[i] = int64(a)
	}

	if t.TransactionHash != nil {
		s := t.TransactionHash.Hex()
		record.TransactionHash = &s
	}
	if t.TransactionPosition != nil {
		v := int64(*t.TransactionPosition)
		record.TransactionIndex = &v
	}

	switch t.Kind {
	case extract.TraceKindCall:
		a := t.ActionCall
		if a == nil {
			return Trace{}, fieldErrf("trace.action", "call trace at index %d is missing its action", traceIndex)
		}
		from, to, callType := a.From.Hex(), a.To.Hex(), a.CallType
		record.ActionFrom, record.ActionTo, record.ActionCallType = &from, &to, &callType
		gas, err := numeric.IntegerFromUint64(uint64(a.Gas))
		if err != nil {
			return Trace{}, fieldErr("trace.action.gas", err)
		}
		record.ActionGas = &gas
		input := hexutil.Encode(a.Input)
		record.ActionInput = &input
		value, lossless, err := bigToBigNumeric(a.Value, traceIndex, "trace.action.value")
		if err != nil {
			return Trace{}, err
		}
		record.ActionValue, record.ActionValueLossless = value, lossless

		if t.ResultCall != nil {
			gasUsed, err := numeric.IntegerFromUint64(uint64(t.ResultCall.GasUsed))
			if err != nil {
				return Trace{}, fieldErr("trace.result.gas_used", err)
			}
			record.ResultGasUsed = &gasUsed
			output := hexutil.Encode(t.ResultCall.Output)
			record.ResultOutput = &output
		}

	case extract.TraceKindReward:
		a := t.ActionReward
		if a == nil {
			return Trace{}, fieldErrf("trace.action", "reward trace at index %d is missing its action", traceIndex)
		}
		author, rewardType := a.Author.Hex(), a.RewardType
		record.ActionAuthor, record.ActionRewardType = &author, &rewardType
		value, lossless, err := bigToBigNumeric(a.Value, traceIndex, "trace.action.value")
		if err != nil {
			return Trace{}, err
		}
		record.ActionValue, record.ActionValueLossless = value, lossless

	case extract.TraceKindCreate:
		a := t.ActionCreate
		if a == nil {
			return Trace{}, fieldErrf("trace.action", "create trace at index %d is missing its action", traceIndex)
		}
		from := a.From.Hex()
		record.ActionFrom = &from
		gas, err := numeric.IntegerFromUint64(uint64(a.Gas))
		if err != nil {
			return Trace{}, fieldErr("trace.action.gas", err)
		}
		record.ActionGas = &gas
		init := hexutil.Encode(a.Init)
		record.ActionInit = &init
		value, lossless, err := bigToBigNumeric(a.Value, traceIndex, "trace.action.value")
		if err != nil {
			return Trace{}, err
		}
		record.ActionValue, record.ActionValueLossless = value, lossless

		if t.ResultCreate != nil {
			gasUsed, err := numeric.IntegerFromUint64(uint64(t.ResultCreate.GasUsed))
			if err != nil {
				return Trace{}, fieldErr("trace.result.gas_used", err)
			}
			record.ResultGasUsed = &gasUsed
			addr := t.ResultCreate.Address.Hex()
			record.ResultAddress = &addr
			code := hexutil.Encode(t.ResultCreate.Code)
			record.ResultCode = &code
		}

	case extract.TraceKindSuicide:
		a := t.ActionSuicide
		if a == nil {
			return Trace{}, fieldErrf("trace.action", "suicide trace at index %d is missing its action", traceIndex)
		}
		selfDestructed := a.SelfDestructedAddress.Hex()
		record.ActionSelfDestructedAddress = &selfDestructed
		if a.RefundAddress != nil {
			refund := a.RefundAddress.Hex()
			record.ActionRefundAddress = &refund
		}
		balance, lossless, err := bigToBigNumeric(a.Balance, traceIndex, "trace.action.balance")
		if err != nil {
			return Trace{}, err
		}
		record.ActionRefundBalance, record.ActionRefundBalanceLossless = balance, lossless

	case extract.TraceKindEmpty:
		a := t.ActionCreate
		if a == nil {
			return Trace{}, fieldErrf("trace.action", "empty trace at index %d is missing its action", traceIndex)
		}
		from := a.From.Hex()
		record.ActionFrom = &from
		gas, err := numeric.IntegerFromUint64(uint64(a.Gas))
		if err != nil {
			return Trace{}, fieldErr("trace.action.gas", err)
		}
		record.ActionGas = &gas
		init := hexutil.Encode(a.Init)
		record.ActionInit = &init
		value, lossless, err := bigToBigNumeric(a.Value, traceIndex, "trace.action.value")
		if err != nil {
			return Trace{}, err
		}
		record.ActionValue, record.ActionValueLossless = value, lossless

		if t.ResultEmpty != nil {
			gasUsed, err := numeric.IntegerFromUint64(uint64(t.ResultEmpty.GasUsed))
			if err != nil {
				return Trace{}, fieldErr("trace.result.gas_used", err)
			}
			record.ResultGasUsed = &gasUsed
		}
	}

	return record, nil
}

// bigToBigNumeric converts a hex-quantity trace value into its capped and
// lossless BigNumeric string forms. A nil value (some reward/suicide
// payloads omit it) renders as zero rather than failing the trace.
func bigToBigNumeric(v *hexutil.Big, traceIndex uint64, field string) (*string, *string, error) {
	if v == nil {
		zero := "0"
		return &zero, &zero, nil
	}
	u256, overflow := uint256.FromBig((*big.Int)(v))
	if overflow {
		return nil, nil, fieldErrf(field, "value at trace index %d overflows 256 bits", traceIndex)
	}
	capped := numeric.CapBigNumeric(u256)
	lossless := numeric.BigNumericLossless(u256)
	return &capped, &lossless, nil
}
