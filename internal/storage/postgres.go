package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"github.com/lib/pq"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &PostgresStore{db: db}, nil
}

func (s *PostgresStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            id UUID PRIMARY KEY,
            collection VARCHAR(128) NOT NULL,
            data JSONB NOT NULL DEFAULT '{}'::jsonb,
            created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_data ON documents USING GIN (data jsonb_path_ops)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

func (s *PostgresStore) Insert(ctx context.Context, doc *models.Document) error {
	query := `
        INSERT INTO documents (id, collection, data, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            collection = EXCLUDED.collection,
            data = EXCLUDED.data,
            updated_at = CURRENT_TIMESTAMP
    `

	data, err := json.Marshal(doc.Data)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, query,
		doc.ID,
		doc.Collection,
		string(data),
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

// InsertMany bulk loads docs with COPY. Existing IDs make the whole batch fail.
func (s *PostgresStore) InsertMany(ctx context.Context, collection string, docs []*models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("documents", "id", "collection", "data", "created_at", "updated_at"))
	if err != nil {
		return fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, doc := range docs {
		doc.Collection = collection
		data, err := json.Marshal(doc.Data)
		if err != nil {
			stmt.Close()
			return err
		}
		if _, err := stmt.ExecContext(ctx, doc.ID.String(), doc.Collection, string(data), doc.CreatedAt, doc.UpdatedAt); err != nil {
			stmt.Close()
			return fmt.Errorf("failed to copy document %s: %w", doc.ID, err)
		}
	}

	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *PostgresStore) Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]*models.Document, error) {
	if _, err := filter.sortedKeys(); err != nil {
		return nil, err
	}
	containment, err := filterJSON(filter)
	if err != nil {
		return nil, err
	}

	query := `
        SELECT id, collection, data, created_at, updated_at
        FROM documents
        WHERE collection = $1 AND data @> $2::jsonb
        ORDER BY created_at, id
        LIMIT $3 OFFSET $4
    `

	rows, err := s.db.QueryContext(ctx, query, collection, containment, limitArg(opts.Limit), opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc := &models.Document{}
		var data []byte

		err := rows.Scan(
			&doc.ID,
			&doc.Collection,
			&data,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(data, &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", doc.ID, err)
		}
		docs = append(docs, doc)
	}

	return docs, rows.Err()
}

func (s *PostgresStore) FindOne(ctx context.Context, collection string, filter Filter) (*models.Document, error) {
	docs, err := s.Find(ctx, collection, filter, FindOptions{Limit: 1})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (s *PostgresStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	if _, err := filter.sortedKeys(); err != nil {
		return 0, err
	}
	containment, err := filterJSON(filter)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM documents WHERE collection = $1 AND data @> $2::jsonb`,
		collection, containment,
	).Scan(&count)

	return count, err
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func filterJSON(filter Filter) (string, error) {
	if len(filter) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// limitArg maps "no limit" to NULL, which postgres treats as LIMIT ALL.
func limitArg(limit int) interface{} {
	if limit <= 0 {
		return nil
	}
	return limit
}
