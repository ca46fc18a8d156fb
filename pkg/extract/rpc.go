package extract

import (
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/rpc"
)

// ethereumFilterQuery builds a single-block log filter, the Go equivalent
// of alloy's Filter::new().select(block_number).
func ethereumFilterQuery(from, to *big.Int) ethereum.FilterQuery {
	return ethereum.FilterQuery{FromBlock: from, ToBlock: to}
}

// ethereumBlockNumberRPC builds the block selector BlockReceipts expects.
func ethereumBlockNumberRPC(blockNumber uint64) rpc.BlockNumberOrHash {
	return rpc.BlockNumberOrHashWithNumber(rpc.BlockNumber(blockNumber)) //nolint:gosec
}

// blockNumberBigInt converts a block number into the *big.Int HeaderByNumber
// expects.
func blockNumberBigInt(blockNumber uint64) *big.Int {
	return new(big.Int).SetUint64(blockNumber)
}
