package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// SQLStore keeps documents in the documents table of postgres or sqlite
type SQLStore struct {
	db *sqlx.DB
}

func NewSQLStore(db *sqlx.DB) *SQLStore {
	return &SQLStore{db: db}
}

// Read returns the raw document
func (s *SQLStore) Read(ctx context.Context, name string) ([]byte, error) {
	query := s.db.Rebind(`SELECT body FROM documents WHERE name = ?`)

	var body string
	err := s.db.GetContext(ctx, &body, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return []byte(body), nil
}

// Write upserts the document
func (s *SQLStore) Write(ctx context.Context, name string, body []byte) error {
	query := s.db.Rebind(`
		INSERT INTO documents (name, body, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at
	`)

	if _, err := s.db.ExecContext(ctx, query, name, string(body), time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}
