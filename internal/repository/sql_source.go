package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/servicedesk/sla-agent/internal/domain"
)

type postgresSource struct {
	pool   *pgxpool.Pool
	query  string
	logger *zap.Logger
}

// NewPostgresSource reads one JSON document per row returned by query.
func NewPostgresSource(pool *pgxpool.Pool, query string, logger *zap.Logger) RawTicketSource {
	return &postgresSource{pool: pool, query: query, logger: logger}
}

func (s *postgresSource) Name() string {
	return "postgres"
}

func (s *postgresSource) Load(ctx context.Context) ([]domain.RawTicket, error) {
	rows, err := s.pool.Query(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query raw tickets: %w", err)
	}
	defer rows.Close()

	var records []domain.RawTicket
	for rows.Next() {
		var doc string
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan raw ticket: %w", err)
		}
		records = appendDocument(records, doc, s.logger)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw tickets: %w", err)
	}
	return records, nil
}

type sqlSource struct {
	db     *sql.DB
	query  string
	logger *zap.Logger
}

// NewSQLSource reads one JSON document per row from a database/sql handle (SQLite).
func NewSQLSource(db *sql.DB, query string, logger *zap.Logger) RawTicketSource {
	return &sqlSource{db: db, query: query, logger: logger}
}

func (s *sqlSource) Name() string {
	return "sqlite"
}

func (s *sqlSource) Load(ctx context.Context) ([]domain.RawTicket, error) {
	rows, err := s.db.QueryContext(ctx, s.query)
	if err != nil {
		return nil, fmt.Errorf("query raw tickets: %w", err)
	}
	defer rows.Close()

	var records []domain.RawTicket
	for rows.Next() {
		var doc sql.NullString
		if err := rows.Scan(&doc); err != nil {
			return nil, fmt.Errorf("scan raw ticket: %w", err)
		}
		if !doc.Valid {
			continue
		}
		records = appendDocument(records, doc.String, s.logger)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate raw tickets: %w", err)
	}
	return records, nil
}

func appendDocument(records []domain.RawTicket, doc string, logger *zap.Logger) []domain.RawTicket {
	record, err := decodeDocument(doc)
	if err != nil {
		if logger != nil {
			logger.Warn("skipping malformed raw ticket", zap.Error(err))
		}
		return records
	}
	return append(records, record)
}
