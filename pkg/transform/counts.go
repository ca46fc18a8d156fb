package transform

// SetTraceCounts backfills the trace-derived counters that the block and
// transaction passes can't know on their own: the block's TraceCount and
// each transaction's TraceCount, keyed by transaction index. A transaction
// with no entry in perTxCount is left at zero rather than treated as
// missing data.
func SetTraceCounts(block *Block, transactions []Transaction, totalCount int64, perTxCount map[uint64]int64) {
	if block != nil {
		block.TraceCount = totalCount
	}
	for i := range transactions {
		transactions[i].TraceCount = perTxCount[uint64(transactions[i].TransactionIndex)]
	}
}

// SetEventCount backfills the block's DecodedEventCount once the log/event
// pass has run.
func SetEventCount(block *Block, eventCount int64) {
	if block != nil {
		block.DecodedEventCount = eventCount
	}
}
