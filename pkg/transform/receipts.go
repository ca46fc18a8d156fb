package transform

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/blockchain-etl/sonic-indexer/pkg/numeric"
)

// TransformReceipts builds one Receipt record per entry in receipts.
// transactions supplies the from/to addresses a receipt doesn't itself
// carry, matched by transaction hash against the already-built
// Transaction records for this block.
func TransformReceipts(
	receipts []*types.Receipt, transactions []Transaction,
	blockNumber uint64, blockHash string, blockTimestamp int64,
) ([]Receipt, error) {
	txByHash := make(map[string]*Transaction, len(transactions))
	for i := range transactions {
		txByHash[transactions[i].TransactionHash] = &transactions[i]
	}

	out := make([]Receipt, 0, len(receipts))
	for _, r := range receipts {
		record, err := transformReceipt(r, txByHash, blockNumber, blockHash, blockTimestamp)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	return out, nil
}

func transformReceipt(
	r *types.Receipt, txByHash map[string]*Transaction,
	blockNumber uint64, blockHash string, blockTimestamp int64,
) (Receipt, error) {
	txIndex, err := numeric.IntegerFromUint64(uint64(r.TransactionIndex))
	if err != nil {
		return Receipt{}, fieldErr("transaction_index", err)
	}
	cumulativeGasUsed, err := numeric.IntegerFromUint64(r.CumulativeGasUsed)
	if err != nil {
		return Receipt{}, fieldErr("cumulative_gas_used", err)
	}
	gasUsed, err := numeric.IntegerFromUint64(r.GasUsed)
	if err != nil {
		return Receipt{}, fieldErr("gas_used", err)
	}
	effectiveGasPrice, err := numeric.IntegerFromBigInt(r.EffectiveGasPrice)
	if err != nil {
		return Receipt{}, fieldErr("effective_gas_price", err)
	}

	hash := r.TxHash.Hex()
	tx, ok := txByHash[hash]
	if !ok {
		return Receipt{}, fieldErrf("from_address", "no matching transaction for receipt %s", hash)
	}

	record := Receipt{
		BlockNumber:       blockNumber,
		BlockHash:         blockHash,
		BlockTimestamp:    blockTimestamp,
		TransactionHash:   hash,
		TransactionIndex:  txIndex,
		FromAddress:       tx.FromAddress,
		ToAddress:         tx.ToAddress,
		CumulativeGasUsed: cumulativeGasUsed,
		GasUsed:           gasUsed,
		EffectiveGasPrice: effectiveGasPrice,
		LogsBloom:         hexutil.Encode(r.Bloom.Bytes()),
	}

	if r.ContractAddress != (common.Address{}) {
		s := r.ContractAddress.Hex()
		record.ContractAddress = &s
	}

	if len(r.PostState) > 0 {
		s := hexutil.Encode(r.PostState)
		record.Root = &s
	} else {
		status := int64(r.Status)
		record.Status = &status
	}

	return record, nil
}
