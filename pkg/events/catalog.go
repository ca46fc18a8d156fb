package events

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned by Get when no event is registered for the given
// selector and topic count.
var ErrNotFound = errors.New("event not found")

// ErrDoesNotExist is returned by Pop when no event is registered for the
// given selector and topic count.
var ErrDoesNotExist = errors.New("event does not exist")

// key identifies an event by its selector (topic[0]) and the number of
// topics a matching log must carry, since the same selector can be shared
// by overloaded events with a differing count of indexed parameters.
type key struct {
	selector common.Hash
	nTopics  uint8
}

// Catalog stores ABI events keyed by selector and topic count and decodes
// logs against them.
type Catalog interface {
	Get(selector common.Hash, nTopics uint8) (abi.Event, error)
	Add(event abi.Event) error
	Pop(selector common.Hash, nTopics uint8) (abi.Event, error)
}

// MapCatalog is the default in-memory Catalog implementation.
type MapCatalog struct {
	m map[key]abi.Event
}

// NewMapCatalog builds an empty catalog.
func NewMapCatalog() *MapCatalog {
	return &MapCatalog{m: make(map[key]abi.Event)}
}

// NewMapCatalogWithCapacity builds an empty catalog pre-sized for capacity
// entries.
func NewMapCatalogWithCapacity(capacity int) *MapCatalog {
	return &MapCatalog{m: make(map[key]abi.Event, capacity)}
}

func eventKey(event abi.Event) key {
	nTopics := 1 // the selector itself occupies topic[0]
	for _, in := range event.Inputs {
		if in.Indexed {
			nTopics++
		}
	}
	return key{selector: event.ID, nTopics: uint8(nTopics)}
}

// Get returns the event registered for the given selector and topic count.
func (c *MapCatalog) Get(selector common.Hash, nTopics uint8) (abi.Event, error) {
	ev, ok := c.m[key{selector: selector, nTopics: nTopics}]
	if !ok {
		return abi.Event{}, ErrNotFound
	}
	return ev, nil
}

// Add registers an event. On a collision with an already-registered event
// under the same (selector, n_topics) key, the first-registered event is
// kept; the resolution is logged according to how the two events compare:
// an exact duplicate is a silent no-op, a decoding-equivalent duplicate is
// logged at info level, a
// mismatched-indexing collision is logged as an error since the two events
// cannot both be decoded correctly, and a colliding selector with no
// equivalence at all should be unreachable (selectors are keccak256 hashes)
// and is also logged as an error without overwriting the first entry.
func (c *MapCatalog) Add(event abi.Event) error {
	k := eventKey(event)

	existing, ok := c.m[k]
	if !ok {
		c.m[k] = event
		return nil
	}

	switch CompareEvents(existing, event) {
	case ExactlyEqual:
		// no-op: identical duplicate registration.
	case SameDecoding:
		log.Info().
			Str("existing", existing.Sig).
			Str("incoming", event.Sig).
			Msg("event collision with identical decoding, keeping first registered event")
	case MismatchedParamIndexing:
		log.Error().
			Str("existing", existing.Sig).
			Str("incoming", event.Sig).
			Msg("event collision with mismatched parameter indexing, keeping first registered event")
	case NoEquivalence:
		log.Error().
			Str("existing", existing.Sig).
			Str("incoming", event.Sig).
			Msg("event selector collision between unrelated events, keeping first registered event")
	}

	return nil
}

// Pop removes and returns the event registered for the given selector and
// topic count.
func (c *MapCatalog) Pop(selector common.Hash, nTopics uint8) (abi.Event, error) {
	k := key{selector: selector, nTopics: nTopics}
	ev, ok := c.m[k]
	if !ok {
		return abi.Event{}, fmt.Errorf("%w: selector %s with %d topics", ErrDoesNotExist, selector, nTopics)
	}
	delete(c.m, k)
	return ev, nil
}
