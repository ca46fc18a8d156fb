package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog/log"
	"github.com/textileio/cli"

	"github.com/blockchain-etl/sonic-indexer/buildinfo"
	"github.com/blockchain-etl/sonic-indexer/pkg/events"
	"github.com/blockchain-etl/sonic-indexer/pkg/extract"
	"github.com/blockchain-etl/sonic-indexer/pkg/logging"
	"github.com/blockchain-etl/sonic-indexer/pkg/metrics"
	"github.com/blockchain-etl/sonic-indexer/pkg/orchestrator"
	"github.com/blockchain-etl/sonic-indexer/pkg/publish"
	"github.com/blockchain-etl/sonic-indexer/pkg/publish/sinks/bigquery"
	"github.com/blockchain-etl/sonic-indexer/pkg/publish/sinks/file"
	pubsubsink "github.com/blockchain-etl/sonic-indexer/pkg/publish/sinks/pubsub"
	"github.com/blockchain-etl/sonic-indexer/pkg/request"
)

// tableNames lists the six queue/table names a publisher fan-out is built
// over.
var tableNames = []string{"blocks", "transactions", "logs", "decoded_events", "receipts", "traces"}

func main() {
	cfg := setupConfig()
	logging.SetupLogger(buildinfo.GitCommit, cfg.Log.Debug, cfg.Log.Human)
	if err := metrics.SetupInstrumentation(":"+cfg.Metrics.Port, "sonic-indexer"); err != nil {
		log.Fatal().Err(err).Str("port", cfg.Metrics.Port).Msg("could not setup instrumentation")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	counters, err := metrics.NewRequestCounters("sonic")
	if err != nil {
		log.Fatal().Err(err).Msg("setting up request counters")
	}

	client, err := extract.BuildActiveProvider(ctx, cfg.Provider.URL, cfg.Provider.FallbackURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connecting to provider")
	}
	extractor := extract.NewExtractor(client, counters)

	catalog, err := events.DefaultCatalog()
	if err != nil {
		log.Fatal().Err(err).Msg("building default event catalog")
	}

	publisher, err := buildStreamPublisher(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("configuring publishers")
	}
	defer func() {
		if err := publisher.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("disconnecting publishers")
		}
	}()

	pipeline := orchestrator.NewPipeline(extractor, catalog, orchestrator.RetryConfig{
		NRetry:   cfg.Extraction.NRetry,
		Cooldown: cfg.Extraction.RetryCooldown,
	})

	switch cfg.Mode {
	case "range":
		runRange(ctx, cfg, pipeline, publisher)
	case "subscribe":
		runSubscribe(ctx, cfg, pipeline, publisher)
	default:
		log.Fatal().Str("mode", cfg.Mode).Msg("unknown indexer mode, expected \"range\" or \"subscribe\"")
	}
}

// runRange drives a single indexing request to completion. Unlike
// subscribe mode, a range run has no partial-cancellation semantics: a
// signal is logged so an operator watching the process knows a shutdown
// was requested, but the in-flight range is allowed to finish rather than
// abandoned mid-block.
func runRange(ctx context.Context, cfg *config, pipeline *orchestrator.Pipeline, publisher *publish.StreamPublisher) {
	cli.HandleInterrupt(func() {
		log.Warn().Msg("interrupt received, range will run to completion before exiting")
	})

	req := request.IndexingRequest{
		Start:         cfg.Request.Start,
		End:           cfg.Request.End,
		Blocks:        cfg.Request.Blocks,
		Transactions:  cfg.Request.Transactions,
		Logs:          cfg.Request.Logs,
		DecodedEvents: cfg.Request.DecodedEvents,
		Receipts:      cfg.Request.Receipts,
		Traces:        cfg.Request.Traces,
	}

	failures := pipeline.ExtractTransformRange(context.WithoutCancel(ctx), req, publisher)
	if len(failures) > 0 {
		log.Error().Int("failed_blocks", len(failures)).Msg("range completed with block failures")
		os.Exit(1)
	}
	log.Info().Uint64("start", req.Start).Uint64("end", req.End).Msg("range indexed successfully")
}

// runSubscribe drives the long-lived subscription worker, rebuilding the
// provider handle on a range failure the same way the initial dial does.
func runSubscribe(ctx context.Context, cfg *config, pipeline *orchestrator.Pipeline, publisher *publish.StreamPublisher) {
	if cfg.GCP.Project == "" || cfg.GCP.RequestSubscription == "" {
		log.Fatal().Msg("subscribe mode requires GCP_PROJECT and GOOGLE_PUBSUB_SUBSCRIPTION")
	}

	psClient, err := pubsub.NewClient(ctx, cfg.GCP.Project)
	if err != nil {
		log.Fatal().Err(err).Msg("creating pubsub client for subscription")
	}

	sub := &orchestrator.Subscriber{
		Subscription: psClient.Subscription(cfg.GCP.RequestSubscription),
		Pipeline:     pipeline,
		Publisher:    publisher,
		RebuildProvider: func(ctx context.Context) (*extract.Extractor, error) {
			client, err := extract.BuildActiveProvider(ctx, cfg.Provider.URL, cfg.Provider.FallbackURL)
			if err != nil {
				return nil, err
			}
			counters, err := metrics.NewRequestCounters("sonic")
			if err != nil {
				return nil, err
			}
			return extract.NewExtractor(client, counters), nil
		},
	}

	if err := sub.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("subscription worker stopped")
	}
	log.Info().Msg("subscription worker shut down cleanly")
}

// buildStreamPublisher dials all six per-table publishers against the
// configured sink family.
func buildStreamPublisher(ctx context.Context, cfg *config) (*publish.StreamPublisher, error) {
	switch cfg.Output.Sink {
	case "file":
		return buildFilePublishers(cfg)
	case "pubsub":
		return buildPubsubPublishers(ctx, cfg)
	case "bigquery":
		return buildBigQueryPublishers(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown output sink %q, expected \"file\", \"pubsub\" or \"bigquery\"", cfg.Output.Sink)
	}
}

func buildFilePublishers(cfg *config) (*publish.StreamPublisher, error) {
	pubs := make(map[string]publish.Publisher, len(tableNames))
	for _, table := range tableNames {
		p, err := file.New(cfg.Output.Dir, table)
		if err != nil {
			return nil, fmt.Errorf("creating file publisher for %s: %w", table, err)
		}
		pubs[table] = p
	}
	return streamPublisherFromMap(pubs), nil
}

func buildPubsubPublishers(ctx context.Context, cfg *config) (*publish.StreamPublisher, error) {
	client, err := pubsub.NewClient(ctx, cfg.GCP.Project)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	queueNames := map[string]string{
		"blocks":         cfg.Queue.Blocks,
		"transactions":   cfg.Queue.Transactions,
		"logs":           cfg.Queue.Logs,
		"decoded_events": cfg.Queue.DecodedEvents,
		"receipts":       cfg.Queue.Receipts,
		"traces":         cfg.Queue.Traces,
	}

	pubs := make(map[string]publish.Publisher, len(tableNames))
	for _, table := range tableNames {
		topic := client.Topic(queueNames[table])
		p, err := pubsubsink.New(ctx, topic)
		if err != nil {
			return nil, fmt.Errorf("creating pubsub publisher for %s: %w", table, err)
		}
		pubs[table] = p
	}
	return streamPublisherFromMap(pubs), nil
}

func buildBigQueryPublishers(ctx context.Context, cfg *config) (*publish.StreamPublisher, error) {
	pubs := make(map[string]publish.Publisher, len(tableNames))
	for _, table := range tableNames {
		p, err := bigquery.New(ctx, cfg.GCP.Project, cfg.GCP.BigQueryDataset, table)
		if err != nil {
			return nil, fmt.Errorf("creating bigquery publisher for %s: %w", table, err)
		}
		pubs[table] = p
	}
	return streamPublisherFromMap(pubs), nil
}

func streamPublisherFromMap(pubs map[string]publish.Publisher) *publish.StreamPublisher {
	return &publish.StreamPublisher{
		Blocks:       pubs["blocks"],
		Transactions: pubs["transactions"],
		Logs:         pubs["logs"],
		Events:       pubs["decoded_events"],
		Receipts:     pubs["receipts"],
		Traces:       pubs["traces"],
	}
}
