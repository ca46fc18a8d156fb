package transform

import (
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"

	"github.com/blockchain-etl/sonic-indexer/pkg/numeric"
)

// TransformTransactions builds one Transaction record per entry in the
// block's transaction list, in order. The block must have been fetched in
// full-transaction mode (extract.ExtractBasic does this whenever blocks or
// transactions are requested).
func TransformTransactions(block *types.Block, blockHash string, blockTimestamp int64) ([]Transaction, error) {
	txs := block.Transactions()
	out := make([]Transaction, 0, len(txs))

	for i, tx := range txs {
		record, err := transformTransaction(tx, uint64(i), block.NumberU64(), blockHash, blockTimestamp)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func transformTransaction(
	tx *types.Transaction, index, blockNumber uint64, blockHash string, blockTimestamp int64,
) (Transaction, error) {
	signer := types.LatestSignerForChainID(tx.ChainId())
	from, err := types.Sender(signer, tx)
	if err != nil {
		return Transaction{}, fieldErrf("from_address", "recovering sender: %s", err)
	}

	nonce, err := numeric.IntegerFromUint64(tx.Nonce())
	if err != nil {
		return Transaction{}, fieldErr("nonce", err)
	}
	gas, err := numeric.IntegerFromUint64(tx.Gas())
	if err != nil {
		return Transaction{}, fieldErr("gas", err)
	}
	txIndex, err := numeric.IntegerFromUint64(index)
	if err != nil {
		return Transaction{}, fieldErr("transaction_index", err)
	}

	valueU256, overflow := uint256.FromBig(tx.Value())
	if overflow {
		return Transaction{}, fieldErrf("value", "transaction value %s overflows 256 bits", tx.Value())
	}

	record := Transaction{
		BlockNumber:      blockNumber,
		BlockHash:        blockHash,
		BlockTimestamp:   blockTimestamp,
		TransactionHash:  tx.Hash().Hex(),
		TransactionIndex: txIndex,
		FromAddress:      from.Hex(),
		Nonce:            nonce,
		Input:            hexutil.Encode(tx.Data()),
		Gas:              gas,
		Value:            numeric.CapBigNumeric(valueU256),
		ValueLossless:    numeric.BigNumericLossless(valueU256),
		TransactionType:  int64(tx.Type()),
	}

	if to := tx.To(); to != nil {
		s := to.Hex()
		record.ToAddress = &s
	}

	switch tx.Type() {
	case types.DynamicFeeTxType, types.BlobTxType:
		maxFee, err := numeric.IntegerFromBigInt(tx.GasFeeCap())
		if err != nil {
			return Transaction{}, fieldErr("max_fee_per_gas", err)
		}
		maxPriority, err := numeric.IntegerFromBigInt(tx.GasTipCap())
		if err != nil {
			return Transaction{}, fieldErr("max_priority_fee_per_gas", err)
		}
		record.MaxFeePerGas = &maxFee
		record.MaxPriorityFeePerGas = &maxPriority
	default:
		gasPrice, err := numeric.IntegerFromBigInt(tx.GasPrice())
		if err != nil {
			return Transaction{}, fieldErr("gas_price", err)
		}
		record.GasPrice = &gasPrice
	}

	if chainID := tx.ChainId(); chainID != nil && chainID.Sign() > 0 {
		v, err := numeric.IntegerFromBigInt(chainID)
		if err != nil {
			return Transaction{}, fieldErr("chain_id", err)
		}
		record.ChainID = &v
	}

	for _, tuple := range tx.AccessList() {
		keys := make([]string, len(tuple.StorageKeys))
		for i, k := range tuple.StorageKeys {
			keys[i] = k.Hex()
		}
		record.AccessList = append(record.AccessList, AccessListEntry{
			Address:     tuple.Address.Hex(),
			StorageKeys: keys,
		})
	}

	v, r, s := tx.RawSignatureValues()
	if r != nil && s != nil && (r.Sign() != 0 || s.Sign() != 0) {
		rHex, sHex, vHex := hexutil.EncodeBig(r), hexutil.EncodeBig(s), hexutil.EncodeBig(v)
		record.R, record.S, record.V = &rHex, &sHex, &vHex

		yParity := "0x0"
		if v.Bit(0) == 1 {
			yParity = "0x1"
		}
		record.YParity = &yParity
	}

	return record, nil
}
