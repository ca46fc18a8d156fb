package transform

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
	"github.com/blockchain-etl/sonic-indexer/pkg/numeric"
)

// TransformBlock builds the Block record from raw extracted data. The
// extraction must have fetched the block (EvmExtracted.Block non-nil);
// emitting a block record without extraction data is a programmer error,
// reported here as a transformation error rather than a panic.
func TransformBlock(extracted *extract.EvmExtracted) (*Block, error) {
	if extracted == nil || extracted.Block == nil {
		return nil, fieldErrf("block", "block record requested without extracted block data")
	}
	header := extracted.Block.Header()

	if extracted.Epoch == nil {
		return nil, fieldErrf("epoch", "block is missing the epoch extra field")
	}
	epochRaw, err := hexutil.DecodeUint64(*extracted.Epoch)
	if err != nil {
		return nil, fieldErrf("epoch", "parsing epoch hex string %q: %s", *extracted.Epoch, err)
	}
	epoch, err := numeric.IntegerFromUint64(epochRaw)
	if err != nil {
		return nil, fieldErr("epoch", err)
	}

	size, err := numeric.IntegerFromUint64(uint64(extracted.Block.Size()))
	if err != nil {
		return nil, fieldErr("size", err)
	}

	txCount, err := numeric.IntegerFromUint64(uint64(len(extracted.Block.Transactions())))
	if err != nil {
		return nil, fieldErr("transactions_count", err)
	}

	gasLimit, err := numeric.IntegerFromUint64(header.GasLimit)
	if err != nil {
		return nil, fieldErr("gas_limit", err)
	}
	gasUsed, err := numeric.IntegerFromUint64(header.GasUsed)
	if err != nil {
		return nil, fieldErr("gas_used", err)
	}

	difficulty, err := numeric.NumericFromBigInt(header.Difficulty)
	if err != nil {
		return nil, fieldErr("difficulty", err)
	}

	block := &Block{
		BlockNumber:       extracted.BlockNumber,
		BlockHash:         extracted.BlockHash.Hex(),
		ParentHash:        header.ParentHash.Hex(),
		Timestamp:         extracted.BlockTimestamp,
		Miner:             header.Coinbase.Hex(),
		Difficulty:        difficulty,
		Size:              size,
		GasLimit:          gasLimit,
		GasUsed:           gasUsed,
		StateRoot:         header.Root.Hex(),
		TransactionsRoot:  header.TxHash.Hex(),
		ReceiptsRoot:      header.ReceiptHash.Hex(),
		LogsBloom:         hexutil.Encode(header.Bloom.Bytes()),
		ExtraData:         hexutil.Encode(header.Extra),
		Epoch:             epoch,
		TransactionsCount: txCount,
		LogCount:          int64(len(extracted.Logs)),
	}

	if extracted.TotalDifficulty != nil {
		td, err := hexutil.DecodeBig(*extracted.TotalDifficulty)
		if err != nil {
			return nil, fieldErrf("total_difficulty", "parsing total difficulty hex string %q: %s", *extracted.TotalDifficulty, err)
		}
		s := td.String()
		block.TotalDifficulty = &s
	}

	if header.BaseFee != nil {
		v, err := numeric.IntegerFromBigInt(header.BaseFee)
		if err != nil {
			return nil, fieldErr("base_fee_per_gas", err)
		}
		block.BaseFeePerGas = &v
	}

	if header.MixDigest != (common.Hash{}) {
		s := header.MixDigest.Hex()
		block.MixHash = &s
	}

	nonceHex := fmt.Sprintf("0x%x", header.Nonce.Uint64())
	block.Nonce = &nonceHex

	if header.WithdrawalsHash != nil {
		s := header.WithdrawalsHash.Hex()
		block.WithdrawalsRoot = &s
	}

	if header.ParentBeaconRoot != nil {
		s := header.ParentBeaconRoot.Hex()
		block.ParentBeaconBlockRoot = &s
	}

	for _, uncle := range extracted.Block.Uncles() {
		block.Uncles = append(block.Uncles, Uncle{
			Hash:   uncle.Hash().Hex(),
			Number: uncle.Number.Int64(),
			Miner:  uncle.Coinbase.Hex(),
		})
	}

	for _, w := range extracted.Block.Withdrawals() {
		withdrawal, err := TransformWithdrawal(w)
		if err != nil {
			return nil, err
		}
		block.Withdrawals = append(block.Withdrawals, withdrawal)
	}

	return block, nil
}

// TransformWithdrawal converts a single validator withdrawal. index and
// validator_index are integer-coerced; amount is gwei-scale and already
// fits comfortably within both Integer and Numeric ranges, so the
// lossless field always equals the primary field.
func TransformWithdrawal(w *types.Withdrawal) (Withdrawal, error) {
	index, err := numeric.IntegerFromUint64(w.Index)
	if err != nil {
		return Withdrawal{}, fieldErr("withdrawal.index", err)
	}
	validatorIndex, err := numeric.IntegerFromUint64(w.Validator)
	if err != nil {
		return Withdrawal{}, fieldErr("withdrawal.validator_index", err)
	}
	amount := numeric.NumericFromUint64(w.Amount)

	return Withdrawal{
		Index:          index,
		ValidatorIndex: validatorIndex,
		Address:        w.Address.Hex(),
		Amount:         amount,
		AmountLossless: amount,
	}, nil
}
