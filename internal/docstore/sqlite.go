package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// SQLiteStore implements Store on top of a single documents table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a store backed by the given database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Insert stores a new document under a fresh opaque id.
func (s *SQLiteStore) Insert(ctx context.Context, collection string, data map[string]any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encoding document: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(raw),
	)
	if err != nil {
		return "", fmt.Errorf("%w: inserting into %s: %v", ErrUnavailable, collection, err)
	}
	return id, nil
}

// InsertWithID stores a new document under a caller-chosen id.
func (s *SQLiteStore) InsertWithID(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)`,
		collection, id, string(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: inserting into %s: %v", ErrUnavailable, collection, err)
	}
	return nil
}

// GetAll returns every document in a collection, newest first.
func (s *SQLiteStore) GetAll(ctx context.Context, collection string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, data FROM documents WHERE collection = ? ORDER BY created_at DESC, id`,
		collection,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrUnavailable, collection, err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			id  string
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("%w: scanning %s document: %v", ErrUnavailable, collection, err)
		}
		docs = append(docs, Document{ID: id, Data: decode(raw)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrUnavailable, collection, err)
	}
	return docs, nil
}

// GetByID returns a single document by id.
func (s *SQLiteStore) GetByID(ctx context.Context, collection, id string) (*Document, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, ErrNoDocument
	}
	if err != nil {
		return nil, fmt.Errorf("%w: getting %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return &Document{ID: id, Data: decode(raw)}, nil
}

// Update merges patch into the existing document. The read-merge-write runs
// in a transaction, but only ever touches this one document.
func (s *SQLiteStore) Update(ctx context.Context, collection, id string, patch map[string]any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: beginning update of %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return ErrNoDocument
	}
	if err != nil {
		return fmt.Errorf("%w: reading %s/%s: %v", ErrUnavailable, collection, id, err)
	}

	data := decode(raw)
	for k, v := range patch {
		data[k] = v
	}

	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE collection = ? AND id = ?`,
		string(merged), collection, id,
	)
	if err != nil {
		return fmt.Errorf("%w: updating %s/%s: %v", ErrUnavailable, collection, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: committing update of %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	return nil
}

// Delete removes a document by id.
func (s *SQLiteStore) Delete(ctx context.Context, collection, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("%w: deleting %s/%s: %v", ErrUnavailable, collection, id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: deleting %s/%s: %v", ErrUnavailable, collection, id, err)
	}
	if n == 0 {
		return ErrNoDocument
	}
	return nil
}

// decode unmarshals stored JSON, tolerating corrupt rows by returning an
// empty document rather than failing the whole read.
func decode(raw string) map[string]any {
	data := map[string]any{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return map[string]any{}
	}
	return data
}
