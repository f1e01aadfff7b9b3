// Package seed loads fixture documents into a store.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"github.com/ashokbhamla/triposia.com-sub002/internal/storage"
)

// Load reads a JSON object of the form {"collection": [doc, ...]} from r and
// inserts every document into store. Collections are loaded in name order.
// A string "updated_at" field in RFC 3339 form becomes the document's
// modification time. It returns the number of documents per collection.
func Load(ctx context.Context, store storage.Store, r io.Reader) (map[string]int, error) {
	var fixtures map[string][]map[string]any
	if err := json.NewDecoder(r).Decode(&fixtures); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}

	names := make([]string, 0, len(fixtures))
	for name := range fixtures {
		names = append(names, name)
	}
	sort.Strings(names)

	counts := make(map[string]int, len(names))
	for _, name := range names {
		if name == "" {
			return counts, fmt.Errorf("seed file has an unnamed collection")
		}

		docs := make([]*models.Document, 0, len(fixtures[name]))
		for _, data := range fixtures[name] {
			doc := models.NewDocument(name, data)
			if raw, ok := data["updated_at"].(string); ok {
				if ts, err := time.Parse(time.RFC3339, raw); err == nil {
					doc.UpdatedAt = ts.UTC()
				}
			}
			docs = append(docs, doc)
		}

		if err := store.InsertMany(ctx, name, docs); err != nil {
			return counts, fmt.Errorf("failed to insert %s: %w", name, err)
		}
		counts[name] = len(docs)
	}

	return counts, nil
}
