// Package store provides the StudyHub entity store: the persistence
// boundary behind every entity client. Records are stored as JSON
// documents keyed by (kind, id); the server assigns ids and timestamps.
package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/studyhub-app/backend/internal/errors"
	"github.com/studyhub-app/backend/internal/models"
)

// ListOptions narrows a List call.
type ListOptions struct {
	// Filter is an exact-match conjunction of field values. A nil or
	// empty map matches everything.
	Filter map[string]interface{}
	// Sort is a spec of the form "field:asc" or "field:desc". Empty
	// means insertion order.
	Sort string
	// Limit caps the result size. Zero means no limit.
	Limit int
}

// Store is the operation set every entity client is written against.
// The SQLite implementation below backs the server; entity.HTTPStore
// binds the same interface to the REST boundary.
type Store interface {
	List(ctx context.Context, kind string, opts ListOptions) ([]json.RawMessage, error)
	Get(ctx context.Context, kind, id string) (json.RawMessage, error)
	Create(ctx context.Context, kind string, fields json.RawMessage) (json.RawMessage, error)
	Update(ctx context.Context, kind, id string, patch json.RawMessage) (json.RawMessage, error)
	Delete(ctx context.Context, kind, id string) error
}

// SQLStore is the SQLite-backed Store implementation.
type SQLStore struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens the StudyHub database under dataDir with WAL mode and
// foreign keys enabled, and applies the schema.
func Open(dataDir string) (*SQLStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "studyhub.db")

	// modernc.org/sqlite: pure Go, no CGO
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't support multiple writers
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON;"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s := NewSQLStore(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an existing database handle. The caller is
// responsible for the schema; see Migrate.
func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db, now: time.Now}
}

// Migrate creates the records table and its indexes if absent.
func (s *SQLStore) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS records (
		kind       TEXT NOT NULL,
		id         TEXT NOT NULL,
		data       TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL,
		PRIMARY KEY (kind, id)
	);
	CREATE INDEX IF NOT EXISTS idx_records_kind_created ON records(kind, created_at);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return errors.Wrap(errors.ErrDatabase, "failed to apply schema", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

// List returns records of one kind, optionally filtered and sorted.
// An empty result is returned as an empty slice, never an error.
func (s *SQLStore) List(ctx context.Context, kind string, opts ListOptions) ([]json.RawMessage, error) {
	if !models.KnownKind(kind) {
		return nil, errors.Newf(errors.ErrValidation, "unknown kind: %s", kind)
	}

	query, args, err := buildListQuery(kind, opts)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "list query failed", err)
	}
	defer rows.Close()

	docs := []json.RawMessage{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, "list scan failed", err)
		}
		docs = append(docs, json.RawMessage(data))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "list iteration failed", err)
	}
	return docs, nil
}

// Get returns a single record by id.
func (s *SQLStore) Get(ctx context.Context, kind, id string) (json.RawMessage, error) {
	if !models.KnownKind(kind) {
		return nil, errors.Newf(errors.ErrValidation, "unknown kind: %s", kind)
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM records WHERE kind = ? AND id = ?", kind, id).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, errors.Newf(errors.ErrNotFound, "%s/%s not found", kind, id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "get query failed", err)
	}
	return json.RawMessage(data), nil
}

// Create stores a new record. The id and both timestamps are assigned
// here; any values the caller supplied for them are discarded.
func (s *SQLStore) Create(ctx context.Context, kind string, fields json.RawMessage) (json.RawMessage, error) {
	if !models.KnownKind(kind) {
		return nil, errors.Newf(errors.ErrValidation, "unknown kind: %s", kind)
	}

	doc, err := decodeDoc(fields)
	if err != nil {
		return nil, errors.Wrap(errors.ErrValidation, "malformed record body", err)
	}

	now := s.now().Unix()
	id := uuid.New().String()
	doc["id"] = id
	doc["createdAt"] = now
	doc["updatedAt"] = now

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to encode record", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO records (kind, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		kind, id, data, now, now)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "insert failed", err)
	}
	return json.RawMessage(data), nil
}

// Update merges a partial patch onto the stored record and returns the
// merged document. Unspecified fields keep their stored values; a JSON
// null in the patch clears the field. The id and createdAt fields are
// immutable.
func (s *SQLStore) Update(ctx context.Context, kind, id string, patch json.RawMessage) (json.RawMessage, error) {
	existing, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDoc(existing)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "stored record is corrupt", err)
	}
	patchDoc, err := decodeDoc(patch)
	if err != nil {
		return nil, errors.Wrap(errors.ErrValidation, "malformed patch body", err)
	}

	for k, v := range patchDoc {
		if k == "id" || k == "createdAt" {
			continue
		}
		doc[k] = v
	}
	now := s.now().Unix()
	doc["updatedAt"] = now

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInternal, "failed to encode record", err)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE records SET data = ?, updated_at = ? WHERE kind = ? AND id = ?",
		data, now, kind, id)
	if err != nil {
		return nil, errors.Wrap(errors.ErrDatabase, "update failed", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return nil, errors.Newf(errors.ErrNotFound, "%s/%s not found", kind, id)
	}
	return json.RawMessage(data), nil
}

// Delete removes a record. Deleting an absent id fails with NOT_FOUND;
// a second delete of the same id therefore fails the same way.
func (s *SQLStore) Delete(ctx context.Context, kind, id string) error {
	if !models.KnownKind(kind) {
		return errors.Newf(errors.ErrValidation, "unknown kind: %s", kind)
	}

	result, err := s.db.ExecContext(ctx,
		"DELETE FROM records WHERE kind = ? AND id = ?", kind, id)
	if err != nil {
		return errors.Wrap(errors.ErrDatabase, "delete failed", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return errors.Newf(errors.ErrNotFound, "%s/%s not found", kind, id)
	}
	return nil
}

// decodeDoc parses a JSON object preserving number precision.
func decodeDoc(data []byte) (map[string]interface{}, error) {
	if len(data) == 0 {
		return map[string]interface{}{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return doc, nil
}
