package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triposia_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Sitemap Metrics
	SitemapGenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "triposia_sitemap_generation_duration_seconds",
			Help:    "Time spent building a sitemap document",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"partition"},
	)

	SitemapEntries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triposia_sitemap_entries_total",
			Help: "Total number of URLs emitted in sitemap documents",
		},
		[]string{"partition"},
	)

	SitemapErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "triposia_sitemap_errors_total",
			Help: "Total number of failed sitemap generations",
		},
		[]string{"partition"},
	)
)

// RecordHTTPRequest records one served request.
func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// RecordSitemap records a generated sitemap document, or a failure when err is set.
func RecordSitemap(partition string, entries int, duration time.Duration, err error) {
	SitemapGenerationDuration.WithLabelValues(partition).Observe(duration.Seconds())
	if err != nil {
		SitemapErrors.WithLabelValues(partition).Inc()
		return
	}
	SitemapEntries.WithLabelValues(partition).Add(float64(entries))
}
