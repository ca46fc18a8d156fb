package events

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrLogHasNoTopics is returned when attempting to decode a log that
// carries no topics at all (so no selector can be looked up).
var ErrLogHasNoTopics = errors.New("log has no topics to decode")

// DecodedEvent pairs the ABI event definition a log matched with its
// decoded, positionally-ordered argument values.
type DecodedEvent struct {
	Event abi.Event
	Args  []interface{}
}

// AttemptDecodeLog looks up the event matching a log's selector (topic[0])
// and topic count in the catalog, then decodes the log's indexed and
// non-indexed parameters against it.
func AttemptDecodeLog(catalog Catalog, lg *types.Log) (*DecodedEvent, error) {
	if len(lg.Topics) == 0 {
		return nil, ErrLogHasNoTopics
	}

	event, err := catalog.Get(lg.Topics[0], uint8(len(lg.Topics)))
	if err != nil {
		return nil, fmt.Errorf("looking up event: %w", err)
	}

	args, err := decodeArgs(event, lg)
	if err != nil {
		return nil, fmt.Errorf("decoding log against %s: %w", event.Sig, err)
	}

	return &DecodedEvent{Event: event, Args: args}, nil
}

// decodeArgs decodes a log's data and topics against event and returns the
// decoded values in the event's original parameter order.
func decodeArgs(event abi.Event, lg *types.Log) ([]interface{}, error) {
	var indexedInputs, nonIndexedInputs abi.Arguments
	for _, in := range event.Inputs {
		if in.Indexed {
			indexedInputs = append(indexedInputs, in)
		} else {
			nonIndexedInputs = append(nonIndexedInputs, in)
		}
	}

	nonIndexedValues, err := nonIndexedInputs.Unpack(lg.Data)
	if err != nil {
		return nil, fmt.Errorf("unpacking non-indexed args: %w", err)
	}

	indexedMap := make(map[string]interface{}, len(indexedInputs))
	if len(indexedInputs) > 0 {
		if err := abi.ParseTopicsIntoMap(indexedMap, indexedInputs, lg.Topics[1:]); err != nil {
			return nil, fmt.Errorf("parsing indexed args: %w", err)
		}
	}

	out := make([]interface{}, 0, len(event.Inputs))
	nonIndexedIdx := 0
	for _, in := range event.Inputs {
		if in.Indexed {
			v, ok := indexedMap[in.Name]
			if !ok {
				return nil, fmt.Errorf("missing decoded value for indexed param %q", in.Name)
			}
			out = append(out, v)
			continue
		}
		if nonIndexedIdx >= len(nonIndexedValues) {
			return nil, fmt.Errorf("missing decoded value for param %q", in.Name)
		}
		out = append(out, nonIndexedValues[nonIndexedIdx])
		nonIndexedIdx++
	}

	return out, nil
}

// ArgsToJSON converts a decoded event's arguments into the positional JSON
// array representation persisted on decoded_events records.
func (d *DecodedEvent) ArgsToJSON() ([]interface{}, error) {
	out := make([]interface{}, len(d.Args))
	for i, v := range d.Args {
		j, err := ArgValueToJSON(v)
		if err != nil {
			return nil, fmt.Errorf("arg %d (%s): %w", i, d.Event.Inputs[i].Name, err)
		}
		out[i] = j
	}
	return out, nil
}
