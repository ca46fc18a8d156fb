package transform

import (
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/blockchain-etl/sonic-indexer/pkg/events"
	"github.com/blockchain-etl/sonic-indexer/pkg/numeric"
)

// TransformLogsAndEvents makes a single pass over extracted logs,
// producing the requested Log records, decoded Event records, and the
// event count used to backfill the block record. catalog is mandatory
// whenever inclEvents is true. A log the catalog can't resolve (no
// topics, or an unknown selector) is silently skipped for event decoding;
// any other decode failure aborts the block.
func TransformLogsAndEvents(
	logs []types.Log, blockHash string, blockTimestamp int64,
	catalog events.Catalog, inclLogs, inclEvents bool,
) ([]Log, []Event, int64, error) {
	if inclEvents && catalog == nil {
		return nil, nil, 0, fieldErrf("events", "decoded events requested without an event catalog")
	}

	var logRecords []Log
	var eventRecords []Event
	var eventCount int64

	for i := range logs {
		lg := logs[i]

		txIndex, err := numeric.IntegerFromUint64(uint64(lg.TxIndex))
		if err != nil {
			return nil, nil, 0, fieldErr("transaction_index", err)
		}
		logIndex, err := numeric.IntegerFromUint64(uint64(lg.Index))
		if err != nil {
			return nil, nil, 0, fieldErr("log_index", err)
		}

		lgBlockHash := blockHash
		if lg.BlockHash != (common.Hash{}) {
			lgBlockHash = lg.BlockHash.Hex()
		}

		topics := make([]string, len(lg.Topics))
		for i, t := range lg.Topics {
			topics[i] = t.Hex()
		}

		if inclLogs {
			logRecords = append(logRecords, Log{
				BlockNumber:      lg.BlockNumber,
				BlockHash:        lgBlockHash,
				BlockTimestamp:   blockTimestamp,
				TransactionHash:  lg.TxHash.Hex(),
				TransactionIndex: txIndex,
				LogIndex:         logIndex,
				Address:          lg.Address.Hex(),
				Data:             hexutil.Encode(lg.Data),
				Topics:           topics,
				Removed:          lg.Removed,
			})
		}

		if !inclEvents {
			continue
		}

		decoded, err := events.AttemptDecodeLog(catalog, &lg)
		if err != nil {
			if errors.Is(err, events.ErrLogHasNoTopics) || errors.Is(err, events.ErrNotFound) {
				continue
			}
			return nil, nil, 0, fieldErrf("events", "decoding log at index %d: %s", lg.Index, err)
		}

		argsJSON, err := decoded.ArgsToJSON()
		if err != nil {
			return nil, nil, 0, fieldErrf("events", "serializing decoded args for log at index %d: %s", lg.Index, err)
		}
		argsStr, err := json.Marshal(argsJSON)
		if err != nil {
			return nil, nil, 0, fieldErrf("events", "marshaling decoded args for log at index %d: %s", lg.Index, err)
		}

		eventRecords = append(eventRecords, Event{
			BlockNumber:      lg.BlockNumber,
			BlockHash:        lgBlockHash,
			BlockTimestamp:   blockTimestamp,
			TransactionHash:  lg.TxHash.Hex(),
			TransactionIndex: txIndex,
			LogIndex:         logIndex,
			EventHash:        decoded.Event.ID.Hex(),
			EventSignature:   decoded.Event.Sig,
			Topics:           topics,
			Args:             string(argsStr),
		})
		eventCount++
	}

	return logRecords, eventRecords, eventCount, nil
}
