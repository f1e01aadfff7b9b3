package sitemap

import (
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
)

// DefaultPartCount is the number of parts listed per numbered partition when
// part counts are not derived from the data.
const DefaultPartCount = 5

// staticAge is how far before generation the static pages claim to have changed.
const staticAge = 7 * 24 * time.Hour

type staticPage struct {
	path     string
	freq     models.ChangeFrequency
	priority float64
}

var staticPages = []staticPage{
	{"", models.Daily, 1.0},
	{"/flights", models.Daily, 0.9},
	{"/airports", models.Daily, 0.9},
	{"/airlines", models.Weekly, 0.8},
	{"/manifesto", models.Monthly, 0.5},
	{"/how-we-help", models.Monthly, 0.5},
	{"/editorial-policy", models.Monthly, 0.4},
	{"/corrections", models.Monthly, 0.4},
}

// BuildStaticSitemap lists the fixed informational pages. Every entry shares
// one lastmod, seven days before now.
func BuildStaticSitemap(baseURL string, now time.Time) []models.SitemapEntry {
	lastMod := now.Add(-staticAge)

	entries := make([]models.SitemapEntry, 0, len(staticPages))
	for _, page := range staticPages {
		entries = append(entries, models.SitemapEntry{
			Location:        baseURL + page.path,
			LastModified:    lastMod,
			ChangeFrequency: page.freq,
			Priority:        page.priority,
		})
	}
	return entries
}

// BuildSitemapIndex returns the fixed manifest: one row per unnumbered
// partition and DefaultPartCount rows per numbered one.
func BuildSitemapIndex(baseURL string, now time.Time) []models.SitemapEntry {
	return buildManifest(baseURL, now, func(Partition) int { return DefaultPartCount })
}

func buildManifest(baseURL string, now time.Time, parts func(Partition) int) []models.SitemapEntry {
	var entries []models.SitemapEntry
	for _, p := range indexOrder {
		spec := partitions[p]

		n := 1
		if spec.numbered {
			n = parts(p)
		}
		for i := 1; i <= n; i++ {
			entries = append(entries, models.SitemapEntry{
				Location:        baseURL + "/" + FileName(p, i),
				LastModified:    now,
				ChangeFrequency: spec.indexFreq,
				Priority:        spec.indexPriority,
			})
		}
	}
	return entries
}
