package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Initialize() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
            id TEXT PRIMARY KEY,
            collection TEXT NOT NULL,
            data TEXT NOT NULL DEFAULT '{}',
            created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		`CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, created_at)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return fmt.Errorf("error executing query %s: %w", query, err)
		}
	}

	return nil
}

const sqliteUpsert = `
        INSERT INTO documents (id, collection, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            collection = excluded.collection,
            data = excluded.data,
            updated_at = CURRENT_TIMESTAMP
    `

func (s *SQLiteStore) Insert(ctx context.Context, doc *models.Document) error {
	data, err := json.Marshal(doc.Data)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, sqliteUpsert,
		doc.ID.String(),
		doc.Collection,
		string(data),
		doc.CreatedAt,
		doc.UpdatedAt,
	)

	return err
}

func (s *SQLiteStore) InsertMany(ctx context.Context, collection string, docs []*models.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteUpsert)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, doc := range docs {
		doc.Collection = collection
		data, err := json.Marshal(doc.Data)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, doc.ID.String(), doc.Collection, string(data), doc.CreatedAt, doc.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert document %s: %w", doc.ID, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]*models.Document, error) {
	where, args, err := sqliteWhere(collection, filter)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = -1
	}

	query := `
        SELECT id, collection, data, created_at, updated_at
        FROM documents
        WHERE ` + where + `
        ORDER BY created_at, id
        LIMIT ? OFFSET ?
    `
	args = append(args, limit, opts.Offset)

	return s.queryDocuments(ctx, query, args...)
}

func (s *SQLiteStore) FindOne(ctx context.Context, collection string, filter Filter) (*models.Document, error) {
	docs, err := s.Find(ctx, collection, filter, FindOptions{Limit: 1})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (s *SQLiteStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	where, args, err := sqliteWhere(collection, filter)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents WHERE `+where, args...).Scan(&count)
	return count, err
}

func (s *SQLiteStore) queryDocuments(ctx context.Context, query string, args ...interface{}) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var doc models.Document
		var idStr, data string

		err := rows.Scan(
			&idStr,
			&doc.Collection,
			&data,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)

		if err != nil {
			return nil, err
		}

		doc.ID, _ = uuid.Parse(idStr)
		if err := json.Unmarshal([]byte(data), &doc.Data); err != nil {
			return nil, fmt.Errorf("failed to decode document %s: %w", idStr, err)
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// sqliteWhere builds the collection and field-equality clause. Keys are
// validated before they are spliced into the json path.
func sqliteWhere(collection string, filter Filter) (string, []interface{}, error) {
	keys, err := filter.sortedKeys()
	if err != nil {
		return "", nil, err
	}

	clauses := []string{"collection = ?"}
	args := []interface{}{collection}
	for _, k := range keys {
		clauses = append(clauses, fmt.Sprintf("json_extract(data, '$.%s') = ?", k))
		args = append(args, filter[k])
	}

	return strings.Join(clauses, " AND "), args, nil
}
