package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
)

// ErrInvalidField is returned for filter keys that are not plain field names.
var ErrInvalidField = errors.New("invalid filter field")

// Filter matches documents whose top-level fields equal the given values.
type Filter map[string]any

// FindOptions bounds a Find call. A Limit of zero means no limit.
type FindOptions struct {
	Limit  int
	Offset int
}

type Store interface {
	Initialize() error
	Close() error

	Insert(ctx context.Context, doc *models.Document) error
	InsertMany(ctx context.Context, collection string, docs []*models.Document) error

	Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]*models.Document, error)
	FindOne(ctx context.Context, collection string, filter Filter) (*models.Document, error)
	Count(ctx context.Context, collection string, filter Filter) (int, error)
}

// Open returns the store for driver: postgres, sqlite or memory.
func Open(driver, url string) (Store, error) {
	switch driver {
	case "postgres":
		return NewPostgresStore(url)
	case "sqlite", "sqlite3":
		return NewSQLiteStore(url)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sortedKeys validates and orders filter keys so generated SQL is stable.
func (f Filter) sortedKeys() ([]string, error) {
	keys := make([]string, 0, len(f))
	for k := range f {
		if !fieldName.MatchString(k) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, k)
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}
