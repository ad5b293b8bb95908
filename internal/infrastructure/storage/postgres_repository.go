package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"SecurityWatchdog/internal/domain"
	"SecurityWatchdog/internal/ports"
)

// PostgresRepository exports processed items into Postgres, keyed on
// link. Used instead of the JSON log when a DSN is configured.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.ItemRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// AppendIfNew inserts the item unless its link already exists. The
// conflict target makes the insert idempotent across process restarts.
func (r *PostgresRepository) AppendIfNew(ctx context.Context, item domain.EnrichedItem) (bool, error) {
	if r.db == nil {
		return false, fmt.Errorf("postgres repository not connected")
	}

	capturedAt := item.CapturedAt
	if capturedAt.IsZero() {
		capturedAt = time.Now()
	}

	query, args, err := r.builder.
		Insert("watch_items").
		Columns("link", "title", "description", "item_date", "source", "category", "status", "matched_keyword", "content", "captured_at").
		Values(item.Link, item.Title, item.Description, item.Date, item.Source, item.Category, string(item.Status), item.MatchedKeyword, item.Content, capturedAt).
		Suffix("ON CONFLICT (link) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert item: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
