package events

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// defaultEventABIs is the seed set of well-known event signatures loaded
// into DefaultCatalog: the common ERC token standards plus the Sonic
// Special Fee Contract staking events. Each entry is parsed as its own
// single-event ABI fragment rather than one combined ABI JSON document,
// because go-ethereum's abi.JSON keys its Events map by name —
// several signatures below share a name across standards by design (three
// Transfers, three Approvals, two ApprovalForAlls, two AuthorizedOperators,
// two RevokedOperators), and a combined document would rename every
// same-named event after the first (Transfer0, Transfer1, ...), which
// CompareEvents would then see as differently named events. Parsing one
// at a time and feeding each through
// Add lets the catalog's own collision resolution decide what survives,
// which is the point of seeding it with real-world overlapping standards
// instead of a hand-picked non-colliding subset.
var defaultEventABIs = []string{
	// ERC-20
	`[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`,
	`[{"type":"event","name":"Approval","anonymous":false,"inputs":[
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":true,"name":"spender","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`,
	// ERC-223
	`[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"},
		{"indexed":false,"name":"data","type":"bytes"}]}]`,
	// ERC-721
	`[{"type":"event","name":"Transfer","anonymous":false,"inputs":[
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":true,"name":"tokenId","type":"uint256"}]}]`,
	`[{"type":"event","name":"Approval","anonymous":false,"inputs":[
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":true,"name":"approved","type":"address"},
		{"indexed":true,"name":"tokenId","type":"uint256"}]}]`,
	`[{"type":"event","name":"ApprovalForAll","anonymous":false,"inputs":[
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":false,"name":"approved","type":"bool"}]}]`,
	// ERC-777
	`[{"type":"event","name":"Sent","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"amount","type":"uint256"},
		{"indexed":false,"name":"data","type":"bytes"},
		{"indexed":false,"name":"operatorData","type":"bytes"}]}]`,
	`[{"type":"event","name":"Minted","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"amount","type":"uint256"},
		{"indexed":false,"name":"data","type":"bytes"},
		{"indexed":false,"name":"operatorData","type":"bytes"}]}]`,
	`[{"type":"event","name":"Burned","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":false,"name":"amount","type":"uint256"},
		{"indexed":false,"name":"data","type":"bytes"},
		{"indexed":false,"name":"operatorData","type":"bytes"}]}]`,
	`[{"type":"event","name":"AuthorizedOperator","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"tokenHolder","type":"address"}]}]`,
	`[{"type":"event","name":"RevokedOperator","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"tokenHolder","type":"address"}]}]`,
	// ERC-1155
	`[{"type":"event","name":"TransferSingle","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"id","type":"uint256"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`,
	`[{"type":"event","name":"TransferBatch","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"ids","type":"uint256[]"},
		{"indexed":false,"name":"values","type":"uint256[]"}]}]`,
	`[{"type":"event","name":"ApprovalForAll","anonymous":false,"inputs":[
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":false,"name":"approved","type":"bool"}]}]`,
	`[{"type":"event","name":"URI","anonymous":false,"inputs":[
		{"indexed":false,"name":"value","type":"string"},
		{"indexed":true,"name":"id","type":"uint256"}]}]`,
	// ERC-1400
	`[{"type":"event","name":"TransferWithData","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"},
		{"indexed":false,"name":"data","type":"bytes"},
		{"indexed":false,"name":"operatorData","type":"bytes"}]}]`,
	`[{"type":"event","name":"TransferByPartition","anonymous":false,"inputs":[
		{"indexed":true,"name":"partition","type":"bytes32"},
		{"indexed":false,"name":"operator","type":"address"},
		{"indexed":true,"name":"from","type":"address"},
		{"indexed":true,"name":"to","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"},
		{"indexed":false,"name":"data","type":"bytes"},
		{"indexed":false,"name":"operatorData","type":"bytes"}]}]`,
	`[{"type":"event","name":"AuthorizedOperator","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"tokenHolder","type":"address"}]}]`,
	`[{"type":"event","name":"RevokedOperator","anonymous":false,"inputs":[
		{"indexed":true,"name":"operator","type":"address"},
		{"indexed":true,"name":"tokenHolder","type":"address"}]}]`,
	// ERC-2612
	`[{"type":"event","name":"Approval","anonymous":false,"inputs":[
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":true,"name":"spender","type":"address"},
		{"indexed":false,"name":"value","type":"uint256"}]}]`,
	// ERC-4626
	`[{"type":"event","name":"Deposit","anonymous":false,"inputs":[
		{"indexed":true,"name":"sender","type":"address"},
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":false,"name":"assets","type":"uint256"},
		{"indexed":false,"name":"shares","type":"uint256"}]}]`,
	`[{"type":"event","name":"Withdraw","anonymous":false,"inputs":[
		{"indexed":true,"name":"sender","type":"address"},
		{"indexed":true,"name":"receiver","type":"address"},
		{"indexed":true,"name":"owner","type":"address"},
		{"indexed":false,"name":"assets","type":"uint256"},
		{"indexed":false,"name":"shares","type":"uint256"}]}]`,
	// Sonic SFC staking events
	`[{"type":"event","name":"CreatedValidator","anonymous":false,"inputs":[
		{"indexed":true,"name":"validatorID","type":"uint256"},
		{"indexed":true,"name":"administrator","type":"address"},
		{"indexed":false,"name":"createdEpoch","type":"uint256"},
		{"indexed":false,"name":"createdTime","type":"uint256"}]}]`,
	`[{"type":"event","name":"DeactivatedValidator","anonymous":false,"inputs":[
		{"indexed":true,"name":"validatorID","type":"uint256"},
		{"indexed":false,"name":"deactivatedEpoch","type":"uint256"},
		{"indexed":false,"name":"deactivatedTime","type":"uint256"}]}]`,
	`[{"type":"event","name":"Delegated","anonymous":false,"inputs":[
		{"indexed":true,"name":"delegator","type":"address"},
		{"indexed":true,"name":"toValidatorID","type":"uint256"},
		{"indexed":false,"name":"amount","type":"uint256"}]}]`,
	`[{"type":"event","name":"Undelegated","anonymous":false,"inputs":[
		{"indexed":true,"name":"delegator","type":"address"},
		{"indexed":true,"name":"toValidatorID","type":"uint256"},
		{"indexed":true,"name":"requestID","type":"uint256"},
		{"indexed":false,"name":"amount","type":"uint256"}]}]`,
	`[{"type":"event","name":"Withdrawn","anonymous":false,"inputs":[
		{"indexed":true,"name":"delegator","type":"address"},
		{"indexed":true,"name":"toValidatorID","type":"uint256"},
		{"indexed":true,"name":"requestID","type":"uint256"},
		{"indexed":false,"name":"amount","type":"uint256"},
		{"indexed":false,"name":"penalty","type":"uint256"}]}]`,
	`[{"type":"event","name":"ClaimedRewards","anonymous":false,"inputs":[
		{"indexed":true,"name":"delegator","type":"address"},
		{"indexed":true,"name":"toValidatorID","type":"uint256"},
		{"indexed":false,"name":"rewards","type":"uint256"}]}]`,
	`[{"type":"event","name":"RestakedRewards","anonymous":false,"inputs":[
		{"indexed":true,"name":"delegator","type":"address"},
		{"indexed":true,"name":"toValidatorID","type":"uint256"},
		{"indexed":false,"name":"rewards","type":"uint256"}]}]`,
}

// DefaultCatalog builds a MapCatalog pre-seeded with the common ERC token
// event standards (20, 223, 721, 777, 1155, 1400, 2612, 4626) plus the
// Sonic Special Fee Contract staking events (validator lifecycle,
// delegation, rewards).
func DefaultCatalog() (*MapCatalog, error) {
	catalog := NewMapCatalogWithCapacity(len(defaultEventABIs))
	for i, fragment := range defaultEventABIs {
		parsed, err := abi.JSON(strings.NewReader(fragment))
		if err != nil {
			return nil, fmt.Errorf("parsing default event %d: %w", i, err)
		}
		for _, event := range parsed.Events {
			if err := catalog.Add(event); err != nil {
				return nil, fmt.Errorf("adding default event %q: %w", event.Sig, err)
			}
		}
	}
	return catalog, nil
}
