package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/abgdnv/storefront/internal/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgStore keeps each collection as a JSONB array in the collections table.
// Loads inside a transaction lock the row, so concurrent writers in other processes wait.
type PgStore struct {
	db     *pgxpool.Pool
	logger *slog.Logger
}

var _ TxStore = (*PgStore)(nil)

// pgQuerier is satisfied by *pgxpool.Pool and pgx.Tx.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// NewPgStore creates a new PgStore. The schema must already be migrated, see Migrate.
func NewPgStore(dbp *pgxpool.Pool, logger *slog.Logger) *PgStore {
	return &PgStore{db: dbp, logger: logger.With("component", "pg-store")}
}

func (p *PgStore) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	return pgLoad(ctx, p.db, p.logger, collection, false)
}

func (p *PgStore) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	return pgSave(ctx, p.db, collection, records)
}

func (p *PgStore) WithTx(ctx context.Context, fn func(tx RecordStore) error) error {
	tx, err := p.db.Begin(ctx)
	if err != nil {
		return &apperrors.PersistenceError{Op: "begin", Err: fmt.Errorf("%w: %w", apperrors.ErrTransactionBegin, err)}
	}

	if err := fn(&pgTx{tx: tx, logger: p.logger}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			p.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return &apperrors.PersistenceError{Op: "commit", Err: fmt.Errorf("%w: %w", apperrors.ErrTransactionCommit, err)}
	}
	return nil
}

func (p *PgStore) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}

func (p *PgStore) Close() error {
	p.db.Close()
	return nil
}

type pgTx struct {
	tx     pgx.Tx
	logger *slog.Logger
}

func (t *pgTx) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	return pgLoad(ctx, t.tx, t.logger, collection, true)
}

func (t *pgTx) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	return pgSave(ctx, t.tx, collection, records)
}

func pgLoad(ctx context.Context, q pgQuerier, logger *slog.Logger, collection string, forUpdate bool) ([]json.RawMessage, error) {
	query := `SELECT body FROM collections WHERE name = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	var body []byte
	err := q.QueryRow(ctx, query, collection).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	records, err := decodeBody(body)
	if err != nil {
		logger.ErrorContext(ctx, "Stored collection is not a JSON array, treating it as empty", "collection", collection, "error", err)
		return []json.RawMessage{}, nil
	}
	return records, nil
}

func pgSave(ctx context.Context, q pgQuerier, collection string, records []json.RawMessage) error {
	if err := validateName(collection); err != nil {
		return err
	}
	body, err := encodeBody(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	_, err = q.Exec(ctx, `
		INSERT INTO collections (name, body, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (name) DO UPDATE SET body = EXCLUDED.body, updated_at = EXCLUDED.updated_at`,
		collection, json.RawMessage(body))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", collection, err)
	}
	return nil
}
