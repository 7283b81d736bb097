package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHandler(t *testing.T) (*ParquetHandler, string) {
	t.Helper()
	dir := t.TempDir()
	next := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	handler, err := NewParquetHandler(next, dir)
	require.NoError(t, err)
	return handler, dir
}

func parquetFiles(t *testing.T, dir string) []string {
	t.Helper()
	files, err := filepath.Glob(filepath.Join(dir, "*.parquet"))
	require.NoError(t, err)
	return files
}

func TestParquetHandler(t *testing.T) {
	t.Run("buffers error records and flushes them to a file", func(t *testing.T) {
		handler, dir := newHandler(t)
		log := slog.New(handler)

		ctx := WithQueryID(context.Background(), "q-123")
		log.ErrorContext(ctx, "path search failed", "source", "Acme Corp")

		require.Empty(t, parquetFiles(t, dir), "records should buffer until flush")
		require.NoError(t, handler.Flush())

		files := parquetFiles(t, dir)
		require.Len(t, files, 1)

		records, err := parquet.ReadFile[LogRecord](files[0])
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "ERROR", records[0].Level)
		assert.Equal(t, "path search failed", records[0].Message)
		assert.Equal(t, "q-123", records[0].QueryID)
		assert.Contains(t, records[0].Attributes, "Acme Corp")
	})

	t.Run("non-error records pass through without buffering", func(t *testing.T) {
		handler, dir := newHandler(t)
		log := slog.New(handler)

		log.Info("query complete", "results", 2)
		require.NoError(t, handler.Flush())
		assert.Empty(t, parquetFiles(t, dir))
	})

	t.Run("missing query id leaves the field empty", func(t *testing.T) {
		handler, dir := newHandler(t)
		slog.New(handler).Error("store unreachable")
		require.NoError(t, handler.Flush())

		files := parquetFiles(t, dir)
		require.Len(t, files, 1)
		records, err := parquet.ReadFile[LogRecord](files[0])
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Empty(t, records[0].QueryID)
	})

	t.Run("flush with an empty buffer is a no-op", func(t *testing.T) {
		handler, dir := newHandler(t)
		require.NoError(t, handler.Flush())
		assert.Empty(t, parquetFiles(t, dir))
	})
}
