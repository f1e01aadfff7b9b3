package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"github.com/ashokbhamla/triposia.com-sub002/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "https://example.com"

var fixedNow = time.Date(2024, 6, 15, 8, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

// failingStore fails every query with err.
type failingStore struct {
	*storage.MemoryStore
	err error
}

func (s *failingStore) Find(context.Context, string, storage.Filter, storage.FindOptions) ([]*models.Document, error) {
	return nil, s.err
}

func (s *failingStore) Count(context.Context, string, storage.Filter) (int, error) {
	return 0, s.err
}

func seed(t *testing.T, store storage.Store, collection string, data ...map[string]any) {
	t.Helper()
	docs := make([]*models.Document, 0, len(data))
	for _, d := range data {
		docs = append(docs, models.NewDocument(collection, d))
	}
	require.NoError(t, store.InsertMany(context.Background(), collection, docs))
}

func TestBuildSitemapIndex(t *testing.T) {
	entries := BuildSitemapIndex(testBaseURL, fixedNow)
	require.Len(t, entries, 18, "Expected 1+1+1+1+5+5+5 index rows")

	counts := map[string]int{}
	for _, e := range entries {
		name := strings.TrimPrefix(e.Location, testBaseURL+"/")
		p, _, err := ParseFileName(name)
		require.NoError(t, err, "Expected %s to parse as a sitemap file name", name)
		counts[string(p)]++
		assert.Equal(t, fixedNow, e.LastModified)
	}
	assert.Equal(t, map[string]int{
		"static": 1, "airports": 1, "airlines": 1, "blogs": 1,
		"flights": 5, "airline-routes": 5, "airline-airports": 5,
	}, counts)

	t.Run("Rows carry the partition metadata", func(t *testing.T) {
		byLoc := map[string]models.SitemapEntry{}
		for _, e := range entries {
			byLoc[e.Location] = e
		}
		check := func(name string, freq models.ChangeFrequency, priority float64) {
			e, ok := byLoc[testBaseURL+"/"+name]
			require.True(t, ok, "Expected %s in the index", name)
			assert.Equal(t, freq, e.ChangeFrequency, name)
			assert.Equal(t, priority, e.Priority, name)
		}
		check("sitemap-static.xml", models.Monthly, 1.0)
		check("sitemap-airports.xml", models.Daily, 0.9)
		check("sitemap-airlines.xml", models.Weekly, 0.8)
		check("sitemap-blogs.xml", models.Weekly, 0.5)
		check("sitemap-flights-3.xml", models.Daily, 0.9)
		check("sitemap-airline-routes-5.xml", models.Daily, 0.7)
		check("sitemap-airline-airports-1.xml", models.Daily, 0.6)
	})
}

func TestBuildStaticSitemap(t *testing.T) {
	entries := BuildStaticSitemap(testBaseURL, fixedNow)
	require.Len(t, entries, 8)

	want := fixedNow.Add(-7 * 24 * time.Hour)
	for _, e := range entries {
		assert.Equal(t, want, e.LastModified, "Expected one shared lastmod for %s", e.Location)
		assert.True(t, strings.HasPrefix(e.Location, testBaseURL), e.Location)
	}
	assert.Equal(t, testBaseURL, entries[0].Location)
	assert.Equal(t, testBaseURL+"/corrections", entries[7].Location)

	t.Run("Encodes as well-formed XML", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteURLSet(&buf, entries))
		assert.True(t, strings.HasPrefix(buf.String(), xml.Header))

		var set models.URLSet
		require.NoError(t, xml.Unmarshal(buf.Bytes(), &set), "Expected the output to parse")
		assert.Equal(t, models.SitemapNamespace, set.XMLName.Space)
		require.Len(t, set.URLs, 8)

		for _, u := range set.URLs {
			p, err := strconv.ParseFloat(u.Priority, 64)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
			assert.Equal(t, set.URLs[0].LastMod, u.LastMod)
			_, err = time.Parse(time.RFC3339, u.LastMod)
			assert.NoError(t, err, "Expected an ISO-8601 lastmod")
		}
	})
}

func TestGeneratorEntries(t *testing.T) {
	ctx := context.Background()

	t.Run("Airlines without a code are skipped", func(t *testing.T) {
		store := storage.NewMemoryStore()
		seed(t, store, models.CollectionAirlines,
			map[string]any{"iata_code": "AA", "name": "American Airlines"},
			map[string]any{"code": "BA", "name": "British Airways"},
			map[string]any{"name": "No Code Air"},
		)
		g := NewGenerator(store, testBaseURL, WithClock(fixedClock))

		entries, err := g.Entries(ctx, Airlines, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, testBaseURL+"/airlines/aa", entries[0].Location)
		assert.Equal(t, testBaseURL+"/airlines/ba", entries[1].Location)
		assert.Equal(t, GetSitemapPriority(GetEntityRole(KindAirline)), entries[0].Priority)
		assert.Equal(t, models.Weekly, entries[0].ChangeFrequency)

		var buf bytes.Buffer
		require.NoError(t, WriteURLSet(&buf, entries))
		assert.Equal(t, 2, strings.Count(buf.String(), "<url>"))
	})

	t.Run("Numbered partitions page through the collection", func(t *testing.T) {
		store := storage.NewMemoryStore()
		seed(t, store, models.CollectionRoutes,
			map[string]any{"origin_iata": "JFK", "destination_iata": "LAX"},
			map[string]any{"origin": "LHR", "destination": "CDG"},
			map[string]any{"origin_iata": "SFO"},
			map[string]any{"origin_iata": "SEA", "destination_iata": "ANC"},
		)
		g := NewGenerator(store, testBaseURL, WithPartSize(2), WithClock(fixedClock))

		first, err := g.Entries(ctx, Flights, 1)
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, testBaseURL+"/flights/jfk-lax", first[0].Location)
		assert.Equal(t, testBaseURL+"/flights/lhr-cdg", first[1].Location)

		second, err := g.Entries(ctx, Flights, 2)
		require.NoError(t, err)
		require.Len(t, second, 1, "Expected the route without a destination to be skipped")
		assert.Equal(t, testBaseURL+"/flights/sea-anc", second[0].Location)

		beyond, err := g.Entries(ctx, Flights, 5)
		require.NoError(t, err)
		assert.Empty(t, beyond)
	})

	t.Run("Airline routes and airline airports nest under the airline", func(t *testing.T) {
		store := storage.NewMemoryStore()
		seed(t, store, models.CollectionAirlineRoutes,
			map[string]any{"airline_code": "AA", "origin_iata": "JFK", "destination_iata": "LAX"},
			map[string]any{"origin_iata": "JFK", "destination_iata": "LAX"},
		)
		seed(t, store, models.CollectionAirlineAirports,
			map[string]any{"airline": "DL", "airport": "ATL"},
		)
		g := NewGenerator(store, testBaseURL, WithClock(fixedClock))

		routes, err := g.Entries(ctx, AirlineRoutes, 1)
		require.NoError(t, err)
		require.Len(t, routes, 1)
		assert.Equal(t, testBaseURL+"/airlines/aa/jfk-lax", routes[0].Location)

		airports, err := g.Entries(ctx, AirlineAirports, 1)
		require.NoError(t, err)
		require.Len(t, airports, 1)
		assert.Equal(t, testBaseURL+"/airlines/dl/atl", airports[0].Location)
		assert.Equal(t, 0.5, airports[0].Priority)
	})

	t.Run("Blog slugs keep their case and are path escaped", func(t *testing.T) {
		store := storage.NewMemoryStore()
		seed(t, store, models.CollectionBlogPosts,
			map[string]any{"slug": "Cheap-Flights-2024"},
			map[string]any{"permalink": "summer deals?"},
		)
		g := NewGenerator(store, testBaseURL)

		entries, err := g.Entries(ctx, Blogs, 0)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, testBaseURL+"/blog/Cheap-Flights-2024", entries[0].Location)
		assert.Equal(t, testBaseURL+"/blog/summer%20deals%3F", entries[1].Location)
	})

	t.Run("Documents without updated_at use generation time", func(t *testing.T) {
		store := storage.NewMemoryStore()
		doc := models.NewDocument(models.CollectionAirports, map[string]any{"iata_code": "JFK"})
		doc.UpdatedAt = time.Time{}
		require.NoError(t, store.Insert(ctx, doc))
		g := NewGenerator(store, testBaseURL, WithClock(fixedClock))

		entries, err := g.Entries(ctx, Airports, 0)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, fixedNow, entries[0].LastModified)
	})

	t.Run("Static partition needs no store", func(t *testing.T) {
		g := NewGenerator(&failingStore{err: errors.New("down")}, testBaseURL, WithClock(fixedClock))
		entries, err := g.Entries(ctx, Static, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 8)
	})

	t.Run("Store failures abort the partition", func(t *testing.T) {
		cause := errors.New("connection refused")
		g := NewGenerator(&failingStore{err: cause}, testBaseURL)

		entries, err := g.Entries(ctx, Airlines, 0)
		assert.Nil(t, entries)
		var dae *DataAccessError
		require.True(t, errors.As(err, &dae), "Expected a DataAccessError, got %v", err)
		assert.Equal(t, Airlines, dae.Partition)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("Bad partitions and parts are rejected", func(t *testing.T) {
		g := NewGenerator(storage.NewMemoryStore(), testBaseURL)

		_, err := g.Entries(ctx, Partition("hotels"), 1)
		assert.ErrorIs(t, err, ErrUnknownPartition)
		_, err = g.Entries(ctx, Flights, 0)
		assert.ErrorIs(t, err, ErrInvalidPart)
		_, err = g.Entries(ctx, Airlines, 2)
		assert.ErrorIs(t, err, ErrInvalidPart)
	})

	t.Run("Huge part numbers are rejected before paging", func(t *testing.T) {
		store := storage.NewMemoryStore()
		seed(t, store, models.CollectionRoutes, map[string]any{"origin_iata": "JFK", "destination_iata": "LAX"})
		g := NewGenerator(store, testBaseURL)

		p, n, err := ParseFileName("sitemap-flights-922337203685479.xml")
		require.NoError(t, err)

		entries, err := g.Entries(ctx, p, n)
		assert.ErrorIs(t, err, ErrInvalidPart)
		assert.Nil(t, entries, "Expected no URLs for an overflowing part")

		entries, err = g.Entries(ctx, Flights, math.MaxInt/DefaultPartSize)
		require.NoError(t, err, "Expected the largest addressable part to page normally")
		assert.Empty(t, entries)
	})
}

func TestGeneratorManifest(t *testing.T) {
	ctx := context.Background()

	t.Run("Fixed part count by default", func(t *testing.T) {
		g := NewGenerator(storage.NewMemoryStore(), testBaseURL, WithClock(fixedClock))
		entries, err := g.Manifest(ctx)
		require.NoError(t, err)
		assert.Equal(t, BuildSitemapIndex(testBaseURL, fixedNow), entries)
	})

	t.Run("Dynamic parts follow collection size", func(t *testing.T) {
		store := storage.NewMemoryStore()
		routes := make([]map[string]any, 5)
		for i := range routes {
			routes[i] = map[string]any{"origin_iata": "AAA", "destination_iata": "BBB"}
		}
		seed(t, store, models.CollectionRoutes, routes...)

		g := NewGenerator(store, testBaseURL, WithPartSize(2), WithDynamicParts(true), WithClock(fixedClock))
		entries, err := g.Manifest(ctx)
		require.NoError(t, err)

		var flights, airlineRoutes int
		for _, e := range entries {
			switch {
			case strings.Contains(e.Location, "sitemap-flights-"):
				flights++
			case strings.Contains(e.Location, "sitemap-airline-routes-"):
				airlineRoutes++
			}
		}
		assert.Equal(t, 3, flights, "Expected ceil(5/2) flight parts")
		assert.Equal(t, 1, airlineRoutes, "Expected an empty partition to keep one part")
		assert.Len(t, entries, 4+3+1+1)
	})

	t.Run("Dynamic parts surface store failures", func(t *testing.T) {
		g := NewGenerator(&failingStore{err: errors.New("timeout")}, testBaseURL, WithDynamicParts(true))
		_, err := g.Manifest(ctx)
		var dae *DataAccessError
		assert.True(t, errors.As(err, &dae))
	})

	t.Run("Index encodes as a sitemapindex", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteIndex(&buf, BuildSitemapIndex(testBaseURL, fixedNow)))

		var idx models.SitemapIndex
		require.NoError(t, xml.Unmarshal(buf.Bytes(), &idx))
		assert.Equal(t, "sitemapindex", idx.XMLName.Local)
		assert.Len(t, idx.Sitemaps, 18)
		assert.Equal(t, testBaseURL+"/sitemap-static.xml", idx.Sitemaps[0].Loc)
	})
}

func TestParseFileName(t *testing.T) {
	tests := []struct {
		name    string
		want    Partition
		part    int
		wantErr error
	}{
		{"sitemap-static.xml", Static, 0, nil},
		{"sitemap-airlines.xml", Airlines, 0, nil},
		{"sitemap-flights-2.xml", Flights, 2, nil},
		{"sitemap-airline-routes-5.xml", AirlineRoutes, 5, nil},
		{"sitemap-airline-airports-12.xml", AirlineAirports, 12, nil},
		{"sitemap-flights.xml", "", 0, ErrUnknownPartition},
		{"sitemap-flights-0.xml", "", 0, ErrInvalidPart},
		{"sitemap-flights-x.xml", "", 0, ErrInvalidPart},
		{"sitemap-airlines-2.xml", "", 0, ErrUnknownPartition},
		{"sitemap-hotels.xml", "", 0, ErrUnknownPartition},
		{"robots.txt", "", 0, ErrUnknownPartition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, n, err := ParseFileName(tt.name)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p)
			assert.Equal(t, tt.part, n)
			assert.Equal(t, tt.name, FileName(p, n))
		})
	}
}

func TestEntityRolePriority(t *testing.T) {
	assert.Equal(t, RoleCarrier, GetEntityRole(KindAirline))
	assert.Equal(t, RolePage, GetEntityRole("hotel"))
	assert.Equal(t, 0.8, GetSitemapPriority(RoleHub))
	assert.Equal(t, 0.5, GetSitemapPriority(EntityRole("unknown")))

	for _, p := range Partitions() {
		priority := GetSitemapPriority(GetEntityRole(partitions[p].kind))
		assert.True(t, priority >= 0 && priority <= 1, "Priority out of range for %s", p)
	}
}
