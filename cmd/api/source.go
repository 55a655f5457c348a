package main

import (
	"context"

	"go.uber.org/zap"

	"github.com/servicedesk/sla-agent/internal/config"
	"github.com/servicedesk/sla-agent/internal/persistence"
	"github.com/servicedesk/sla-agent/internal/repository"
)

// newDatasetSource builds the configured raw ticket source. Connection
// failures yield a source that reports the failure on load, so startup
// continues with an empty ticket set.
func newDatasetSource(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.RawTicketSource, func()) {
	noop := func() {}

	switch cfg.Dataset.Source {
	case config.SourceRedis:
		rdb := persistence.NewRedis(ctx, cfg.Redis, logger)
		return repository.NewRedisSource(rdb.Client, cfg.Dataset.RedisKey), rdb.Close

	case config.SourcePostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Warn("postgres unavailable", zap.Error(err))
			return repository.NewUnavailableSource(config.SourcePostgres, err), noop
		}
		return repository.NewPostgresSource(pg.PoolHandle(), cfg.Dataset.Query, logger), pg.Close

	case config.SourceSQLite:
		db, err := persistence.OpenSQLite(ctx, cfg.SQLite, logger)
		if err != nil {
			logger.Warn("sqlite unavailable", zap.Error(err))
			return repository.NewUnavailableSource(config.SourceSQLite, err), noop
		}
		return repository.NewSQLSource(db, cfg.Dataset.Query, logger), func() { _ = db.Close() }

	default:
		return repository.NewFileSource(cfg.Dataset.Path), noop
	}
}
