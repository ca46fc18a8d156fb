// Package file publishes records as newline-delimited JSON files, one file
// per table under a configured output directory, the local-disk stand-in
// for the original's JSONL sink.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Publisher appends JSON-encoded records to dir/table.jsonl, creating the
// directory and file as needed. Writes are serialized behind a mutex since
// the underlying file handle is reopened per batch.
type Publisher struct {
	mu   sync.Mutex
	path string
}

// New returns a Publisher writing to dir/table.jsonl, creating dir if it
// doesn't already exist.
func New(dir, table string) (*Publisher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %q: %w", dir, err)
	}
	return &Publisher{path: filepath.Join(dir, table+".jsonl")}, nil
}

// Publish appends a single record.
func (p *Publisher) Publish(ctx context.Context, record interface{}) error {
	return p.PublishBatch(ctx, "", nil, []interface{}{record})
}

// PublishBatch appends every record in order, one JSON object per line. An
// empty batch is a no-op and never opens the file. name and timestamps are
// unused: a single file sink writes one file per table regardless of which
// block's batch is being appended.
func (p *Publisher) PublishBatch(_ context.Context, _ string, _ []int64, records []interface{}) error {
	if len(records) == 0 {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	f, err := os.OpenFile(p.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %q: %w", p.path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, r := range records {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding record to %q: %w", p.path, err)
		}
	}
	return nil
}

// Disconnect is a no-op: every write already opens and closes its own file
// handle.
func (p *Publisher) Disconnect(_ context.Context) error {
	return nil
}
