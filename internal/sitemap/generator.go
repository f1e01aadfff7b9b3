// Package sitemap builds the site's XML sitemaps: a fixed static page list,
// one file per entity partition, and the index that links them.
package sitemap

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"github.com/ashokbhamla/triposia.com-sub002/internal/storage"
)

// DefaultPartSize is the most entities a single partition file lists.
const DefaultPartSize = 10000

type Generator struct {
	store     storage.Store
	baseURL   string
	partSize  int
	partCount int
	dynamic   bool
	now       func() time.Time
}

type Option func(*Generator)

// WithPartSize sets the number of entities per partition file.
func WithPartSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.partSize = n
		}
	}
}

// WithPartCount sets the fixed number of parts per numbered partition.
func WithPartCount(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.partCount = n
		}
	}
}

// WithDynamicParts sizes numbered partitions from collection counts.
func WithDynamicParts(enabled bool) Option {
	return func(g *Generator) { g.dynamic = enabled }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

func NewGenerator(store storage.Store, baseURL string, opts ...Option) *Generator {
	g := &Generator{
		store:     store,
		baseURL:   baseURL,
		partSize:  DefaultPartSize,
		partCount: DefaultPartCount,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) BaseURL() string {
	return g.baseURL
}

// Manifest returns the index rows. With dynamic parts each numbered
// partition gets ceil(count/partSize) parts, at least one.
func (g *Generator) Manifest(ctx context.Context) ([]models.SitemapEntry, error) {
	now := g.now().UTC()
	if !g.dynamic {
		return buildManifest(g.baseURL, now, func(Partition) int { return g.partCount }), nil
	}

	counts := make(map[Partition]int)
	for _, p := range indexOrder {
		spec := partitions[p]
		if !spec.numbered {
			continue
		}
		total, err := g.store.Count(ctx, spec.collection, nil)
		if err != nil {
			return nil, &DataAccessError{Partition: p, Err: err}
		}
		parts := (total + g.partSize - 1) / g.partSize
		if parts < 1 {
			parts = 1
		}
		counts[p] = parts
	}

	return buildManifest(g.baseURL, now, func(p Partition) int { return counts[p] }), nil
}

// Entries returns the URL records of part n of p. Parts are 1-based for
// numbered partitions; unnumbered ones accept 0 or 1. Store failures abort
// the whole partition.
func (g *Generator) Entries(ctx context.Context, p Partition, n int) ([]models.SitemapEntry, error) {
	spec, ok := partitions[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPartition, p)
	}
	if n < 0 || (spec.numbered && n < 1) || (!spec.numbered && n > 1) {
		return nil, fmt.Errorf("%w: %s part %d", ErrInvalidPart, p, n)
	}
	// Parts whose offset would overflow an int cannot exist.
	if spec.numbered && n > math.MaxInt/g.partSize {
		return nil, fmt.Errorf("%w: %s part %d", ErrInvalidPart, p, n)
	}

	now := g.now().UTC()
	if p == Static {
		return BuildStaticSitemap(g.baseURL, now), nil
	}

	offset := 0
	if spec.numbered {
		offset = (n - 1) * g.partSize
	}

	docs, err := g.store.Find(ctx, spec.collection, nil, storage.FindOptions{
		Limit:  g.partSize,
		Offset: offset,
	})
	if err != nil {
		return nil, &DataAccessError{Partition: p, Err: err}
	}

	priority := GetSitemapPriority(GetEntityRole(spec.kind))
	entries := make([]models.SitemapEntry, 0, len(docs))
	for _, doc := range docs {
		path, ok := spec.path(doc)
		if !ok {
			continue
		}

		lastMod := doc.UpdatedAt
		if lastMod.IsZero() {
			lastMod = now
		}

		entries = append(entries, models.SitemapEntry{
			Location:        g.baseURL + path,
			LastModified:    lastMod,
			ChangeFrequency: spec.entryFreq,
			Priority:        priority,
		})
	}

	return entries, nil
}
