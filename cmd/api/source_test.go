package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"

	"github.com/servicedesk/sla-agent/internal/config"
	"github.com/servicedesk/sla-agent/internal/persistence"
)

func TestNewDatasetSource(t *testing.T) {
	ctx := context.Background()
	logger := zaptest.NewLogger(t)

	t.Run("file by default", func(t *testing.T) {
		cfg := &config.Config{Dataset: config.DatasetConfig{Source: config.SourceFile, Path: "dummy_data.json"}}

		src, closeFn := newDatasetSource(ctx, cfg, logger)
		defer closeFn()

		assert.Equal(t, "file:dummy_data.json", src.Name())
	})

	t.Run("postgres without dsn is unavailable", func(t *testing.T) {
		cfg := &config.Config{Dataset: config.DatasetConfig{Source: config.SourcePostgres}}

		src, closeFn := newDatasetSource(ctx, cfg, logger)
		defer closeFn()

		_, err := src.Load(ctx)
		assert.ErrorIs(t, err, persistence.ErrNotConfigured)
	})

	t.Run("sqlite opens a database file", func(t *testing.T) {
		cfg := &config.Config{
			Dataset: config.DatasetConfig{Source: config.SourceSQLite, Query: "SELECT doc FROM raw_tickets"},
			SQLite:  config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "tickets.db")},
		}

		src, closeFn := newDatasetSource(ctx, cfg, logger)
		defer closeFn()

		assert.Equal(t, "sqlite", src.Name())
		_, err := src.Load(ctx)
		assert.Error(t, err, "table does not exist yet")
	})
}
