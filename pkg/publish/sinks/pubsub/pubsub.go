// Package pubsub publishes records to a Google Cloud Pub/Sub topic, one
// topic per table, retrying a failed publish forever with linearly
// increasing backoff.
package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// batchChunkSize caps how many messages are submitted to PublishBatch at a
// time; Pub/Sub's bulk-publish limit is 1000 messages per call.
const batchChunkSize = 900

// Publisher publishes JSON-encoded records to a single Pub/Sub topic.
type Publisher struct {
	topic *pubsub.Topic
}

// New wraps topic, confirming it actually exists before handing it off so a
// misconfigured QUEUE_NAME_* env var fails fast at startup instead of
// surfacing as a publish-time retry loop.
func New(ctx context.Context, topic *pubsub.Topic) (*Publisher, error) {
	ok, err := topic.Exists(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "checking topic %s exists", topic.ID())
	}
	if !ok {
		return nil, errors.Errorf("topic %s does not exist", topic.ID())
	}
	return &Publisher{topic: topic}, nil
}

// Publish JSON-encodes record and publishes it, retrying on failure.
func (p *Publisher) Publish(ctx context.Context, record interface{}) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshaling record: %w", err)
	}
	return publishWithBackoff(ctx, p.topic, data)
}

// PublishBatch publishes every record in chunks of at most batchChunkSize,
// falling back to retrying each message in the chunk individually whenever
// its bulk publish fails. name and timestamps are ignored: a message-bus
// sink has no file or partition to label.
func (p *Publisher) PublishBatch(ctx context.Context, _ string, _ []int64, records []interface{}) error {
	for start := 0; start < len(records); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(records) {
			end = len(records)
		}
		if err := publishChunkWithBackoff(ctx, p.topic, records[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func publishChunkWithBackoff(ctx context.Context, topic *pubsub.Topic, records []interface{}) error {
	results := make([]*pubsub.PublishResult, len(records))
	for i, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling record: %w", err)
		}
		results[i] = topic.Publish(ctx, &pubsub.Message{Data: data})
	}

	for i, result := range results {
		if _, err := result.Get(ctx); err != nil {
			data, marshalErr := json.Marshal(records[i])
			if marshalErr != nil {
				return fmt.Errorf("marshaling record: %w", marshalErr)
			}
			if err := publishWithBackoff(ctx, topic, data); err != nil {
				return err
			}
		}
	}
	return nil
}

// publishWithBackoff publishes data, retrying indefinitely on failure. Each
// failure sleeps one more second than the last: the k-th failure sleeps k
// seconds before its retry.
func publishWithBackoff(ctx context.Context, topic *pubsub.Topic, data []byte) error {
	backoff := 1
	for {
		result := topic.Publish(ctx, &pubsub.Message{Data: data})
		_, err := result.Get(ctx)
		if err == nil {
			return nil
		}
		log.Warn().Err(err).Int("backoff_seconds", backoff).Msg("pubsub publish failed, retrying")

		select {
		case <-time.After(time.Duration(backoff) * time.Second):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff++
	}
}

// Disconnect flushes and stops the topic's publisher goroutines.
func (p *Publisher) Disconnect(_ context.Context) error {
	p.topic.Stop()
	return nil
}
