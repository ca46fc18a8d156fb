// Package bigquery publishes records directly into a BigQuery table, the
// indexer's stand-in for the object-storage sink family of the original.
package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"github.com/pkg/errors"
)

// Publisher inserts records into one project.dataset.table via the
// streaming inserter, the same client/dataset/table shape the teacher's
// metrics store uses.
type Publisher struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// New opens a BigQuery client for project and targets dataset.table.
func New(ctx context.Context, project, dataset, table string) (*Publisher, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, errors.Wrap(err, "bigquery.NewClient")
	}
	return &Publisher{client: client, dataset: dataset, table: table}, nil
}

// Publish inserts a single record.
func (p *Publisher) Publish(ctx context.Context, record interface{}) error {
	return p.PublishBatch(ctx, "", nil, []interface{}{record})
}

// PublishBatch inserts every record as a row. Records are saved via
// bigquery.StructSaver, so each record's exported fields map directly onto
// BigQuery columns by name. name and timestamps are ignored: the table is
// already partitioned by its own block_timestamp column.
func (p *Publisher) PublishBatch(ctx context.Context, _ string, _ []int64, records []interface{}) error {
	if len(records) == 0 {
		return nil
	}

	schema, err := bigquery.InferSchema(records[0])
	if err != nil {
		return fmt.Errorf("inferring schema: %w", err)
	}

	rows := make([]*bigquery.StructSaver, len(records))
	for i, r := range records {
		rows[i] = &bigquery.StructSaver{Struct: r, Schema: schema, InsertID: bigquery.NoDedupeID}
	}

	inserter := p.client.Dataset(p.dataset).Table(p.table).Inserter()
	if err := inserter.Put(ctx, rows); err != nil {
		return fmt.Errorf("inserter put: %w", err)
	}
	return nil
}

// Disconnect closes the BigQuery client.
func (p *Publisher) Disconnect(_ context.Context) error {
	return p.client.Close()
}
