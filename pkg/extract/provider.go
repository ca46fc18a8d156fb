package extract

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog/log"
)

// BuildActiveProvider dials the primary RPC endpoint and probes it with
// web3_clientVersion; if that fails, it falls back to the secondary
// endpoint and probes that instead. Returning both errors when neither
// endpoint answers, matching the Rust original's build_active_provider.
func BuildActiveProvider(ctx context.Context, primaryURL, fallbackURL string) (*ethclient.Client, error) {
	if client, err := dialAndProbe(ctx, primaryURL); err == nil {
		return client, nil
	} else if fallbackURL == "" {
		return nil, fmt.Errorf("connecting to primary provider %s: %w", primaryURL, err)
	} else {
		primaryErr := err
		log.Warn().Err(primaryErr).Str("provider", primaryURL).Msg("primary provider unavailable, falling back")

		client, fallbackErr := dialAndProbe(ctx, fallbackURL)
		if fallbackErr != nil {
			return nil, fmt.Errorf(
				"both providers unavailable: primary %s (%s), fallback %s (%s)",
				primaryURL, primaryErr, fallbackURL, fallbackErr,
			)
		}
		return client, nil
	}
}

func dialAndProbe(ctx context.Context, url string) (*ethclient.Client, error) {
	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}

	var version string
	if err := rpcClient.CallContext(ctx, &version, "web3_clientVersion"); err != nil {
		rpcClient.Close()
		return nil, fmt.Errorf("probing %s: %w", url, err)
	}

	return ethclient.NewClient(rpcClient), nil
}
