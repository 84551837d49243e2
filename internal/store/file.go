package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	apperrors "github.com/abgdnv/storefront/internal/errors"
)

// FileStore keeps each collection in <dir>/<collection>.json as an indented JSON array.
//
// Writes go to a temporary file that is synced and then renamed over the target, so a
// reader never sees a half written collection. A transaction writes all of its temporary
// files before renaming any of them; a crash between two renames can still leave one
// collection committed and the other not.
type FileStore struct {
	dir    string
	logger *slog.Logger
	// mu serializes commits so two renames of one file cannot interleave.
	mu sync.Mutex
}

var _ TxStore = (*FileStore)(nil)

// NewFileStore creates dir if needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger.With("component", "file-store")}, nil
}

func (f *FileStore) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}

// Load never fails: missing, unreadable and malformed files all read as an empty collection.
func (f *FileStore) Load(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if err := validateName(collection); err != nil {
		return nil, err
	}
	body, err := os.ReadFile(f.path(collection))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			f.logger.WarnContext(ctx, "Collection file does not exist, starting empty", "collection", collection)
		} else {
			f.logger.ErrorContext(ctx, "Failed to read collection file, treating it as empty", "collection", collection, "error", err)
		}
		return []json.RawMessage{}, nil
	}
	records, err := decodeBody(body)
	if err != nil {
		f.logger.ErrorContext(ctx, "Collection file is not a JSON array, treating it as empty", "collection", collection, "error", err)
		return []json.RawMessage{}, nil
	}
	return records, nil
}

func (f *FileStore) Save(ctx context.Context, collection string, records []json.RawMessage) error {
	if err := validateName(collection); err != nil {
		return err
	}
	return f.commit(ctx, map[string][]json.RawMessage{collection: records})
}

func (f *FileStore) WithTx(ctx context.Context, fn func(tx RecordStore) error) error {
	tx := newStagedTx(f)
	if err := fn(tx); err != nil {
		return err
	}
	if len(tx.writes) == 0 {
		return nil
	}
	if err := f.commit(ctx, tx.writes); err != nil {
		return &apperrors.PersistenceError{Op: "commit", Err: fmt.Errorf("%w: %w", apperrors.ErrTransactionCommit, err)}
	}
	return nil
}

// commit stages every collection into a temp file, then renames them in name order.
func (f *FileStore) commit(ctx context.Context, writes map[string][]json.RawMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	names := make([]string, 0, len(writes))
	for name := range writes {
		names = append(names, name)
	}
	slices.Sort(names)

	temps := make(map[string]string, len(names))
	cleanup := func() {
		for _, tmp := range temps {
			_ = os.Remove(tmp)
		}
	}
	for _, name := range names {
		tmp, err := f.writeTemp(name, writes[name])
		if err != nil {
			cleanup()
			return err
		}
		temps[name] = tmp
	}

	for i, name := range names {
		if err := os.Rename(temps[name], f.path(name)); err != nil {
			for _, rest := range names[i:] {
				_ = os.Remove(temps[rest])
			}
			if i > 0 {
				f.logger.ErrorContext(ctx, "Commit partially applied", "committed", names[:i], "failed", name, "error", err)
			}
			return fmt.Errorf("failed to replace %s: %w", f.path(name), err)
		}
	}
	f.syncDir(ctx)
	return nil
}

func (f *FileStore) writeTemp(collection string, records []json.RawMessage) (string, error) {
	body, err := encodeBody(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", collection, err)
	}
	tmp, err := os.CreateTemp(f.dir, "."+collection+"-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", collection, err)
	}
	name := tmp.Name()
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to write %s: %w", collection, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to sync %s: %w", collection, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(name)
		return "", fmt.Errorf("failed to close %s: %w", collection, err)
	}
	return name, nil
}

// syncDir persists the renames. Failures are logged, the data itself is already synced.
func (f *FileStore) syncDir(ctx context.Context) {
	d, err := os.Open(f.dir)
	if err != nil {
		f.logger.WarnContext(ctx, "Failed to open data directory for sync", "error", err)
		return
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		f.logger.DebugContext(ctx, "Data directory sync not supported", "error", err)
	}
}

// Ping checks that the data directory is still there.
func (f *FileStore) Ping(context.Context) error {
	info, err := os.Stat(f.dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", f.dir)
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
