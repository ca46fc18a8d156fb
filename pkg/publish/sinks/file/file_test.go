package file

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type sampleRecord struct {
	BlockNumber uint64 `json:"block_number"`
}

func TestPublishBatchAppendsJSONLines(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pub, err := New(dir, "blocks")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, pub.PublishBatch(ctx, "1", []int64{100, 100}, []interface{}{
		sampleRecord{BlockNumber: 1},
		sampleRecord{BlockNumber: 2},
	}))
	require.NoError(t, pub.Publish(ctx, sampleRecord{BlockNumber: 3}))

	f, err := os.Open(filepath.Join(dir, "blocks.jsonl"))
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	require.NoError(t, scanner.Err())
	require.Len(t, lines, 3)
	require.Contains(t, lines[0], `"block_number":1`)
	require.Contains(t, lines[2], `"block_number":3`)
}

func TestPublishBatchEmptyIsNoop(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pub, err := New(dir, "logs")
	require.NoError(t, err)

	require.NoError(t, pub.PublishBatch(context.Background(), "2", nil, nil))
	_, err = os.Stat(filepath.Join(dir, "logs.jsonl"))
	require.True(t, os.IsNotExist(err))
}
