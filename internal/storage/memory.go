package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
)

// MemoryStore keeps documents in process memory, in insertion order.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string][]*models.Document
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{collections: make(map[string][]*models.Document)}
}

func (s *MemoryStore) Initialize() error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) Insert(ctx context.Context, doc *models.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	docs := s.collections[doc.Collection]
	for i, existing := range docs {
		if existing.ID == doc.ID {
			docs[i] = doc
			return nil
		}
	}
	s.collections[doc.Collection] = append(docs, doc)
	return nil
}

func (s *MemoryStore) InsertMany(ctx context.Context, collection string, docs []*models.Document) error {
	for _, doc := range docs {
		doc.Collection = collection
		if err := s.Insert(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Find(ctx context.Context, collection string, filter Filter, opts FindOptions) ([]*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := filter.sortedKeys(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []*models.Document
	skipped := 0
	for _, doc := range s.collections[collection] {
		if !filter.matches(doc) {
			continue
		}
		if skipped < opts.Offset {
			skipped++
			continue
		}
		matched = append(matched, doc)
		if opts.Limit > 0 && len(matched) == opts.Limit {
			break
		}
	}
	return matched, nil
}

func (s *MemoryStore) FindOne(ctx context.Context, collection string, filter Filter) (*models.Document, error) {
	docs, err := s.Find(ctx, collection, filter, FindOptions{Limit: 1})
	if err != nil || len(docs) == 0 {
		return nil, err
	}
	return docs[0], nil
}

func (s *MemoryStore) Count(ctx context.Context, collection string, filter Filter) (int, error) {
	docs, err := s.Find(ctx, collection, filter, FindOptions{})
	return len(docs), err
}

func (f Filter) matches(doc *models.Document) bool {
	for k, want := range f {
		got, ok := doc.Data[k]
		if !ok || !jsonEqual(got, want) {
			return false
		}
	}
	return true
}

// jsonEqual compares values by their JSON encoding so 3 and 3.0 are equal.
func jsonEqual(a, b any) bool {
	ab, err := json.Marshal(a)
	if err != nil {
		return false
	}
	bb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return bytes.Equal(ab, bb)
}
