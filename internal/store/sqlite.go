package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/abgdnv/storefront/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS collections (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStore keeps each collection as one row of the collections table.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

var _ TxStore = (*SQLiteStore)(nil)

// sqlQuerier is satisfied by *sql.DB and *sql.Tx.
type sqlQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// NewSQLiteStore creates the schema if needed. The store owns db and closes it.
func NewSQLiteStore(ctx context.Context, db *sql.DB, logger *slog.Logger) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db, logger: logger.With("component", "sqlite-store")}, nil
}

func (s *SQLiteStore) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	return sqliteLoad(ctx, s.db, s.logger, collection)
}

func (s *SQLiteStore) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	return sqliteSave(ctx, s.db, collection, records)
}

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx RecordStore) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &apperrors.PersistenceError{Op: "begin", Err: fmt.Errorf("%w: %w", apperrors.ErrTransactionBegin, err)}
	}

	if err := fn(&sqliteTx{tx: tx, logger: s.logger}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.ErrorContext(ctx, "Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return &apperrors.PersistenceError{Op: "commit", Err: fmt.Errorf("%w: %w", apperrors.ErrTransactionCommit, err)}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type sqliteTx struct {
	tx     *sql.Tx
	logger *slog.Logger
}

func (t *sqliteTx) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	return sqliteLoad(ctx, t.tx, t.logger, collection)
}

func (t *sqliteTx) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	return sqliteSave(ctx, t.tx, collection, records)
}

func sqliteLoad(ctx context.Context, q sqlQuerier, logger *slog.Logger, collection string) ([]json.RawMessage, error) {
	var body string
	err := q.QueryRowContext(ctx, `SELECT body FROM collections WHERE name = ?`, collection).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return []json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}
	records, err := decodeBody([]byte(body))
	if err != nil {
		logger.ErrorContext(ctx, "Stored collection is not a JSON array, treating it as empty", "collection", collection, "error", err)
		return []json.RawMessage{}, nil
	}
	return records, nil
}

func sqliteSave(ctx context.Context, q sqlQuerier, collection string, records []json.RawMessage) error {
	if err := validateName(collection); err != nil {
		return err
	}
	body, err := encodeBody(records)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	_, err = q.ExecContext(ctx, `
		INSERT INTO collections (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		collection, string(body), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", collection, err)
	}
	return nil
}
