package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/internal/metrics"
	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"github.com/ashokbhamla/triposia.com-sub002/internal/sitemap"
	"github.com/gin-gonic/gin"
)

const xmlContentType = "application/xml"

func (h *Handler) SitemapIndex(c *gin.Context) {
	start := time.Now()
	entries, err := h.generator.Manifest(c.Request.Context())
	metrics.RecordSitemap("index", len(entries), time.Since(start), err)
	if err != nil {
		h.sitemapFailed(c, "index", err)
		return
	}

	var buf bytes.Buffer
	if err := sitemap.WriteIndex(&buf, entries); err != nil {
		h.sitemapFailed(c, "index", err)
		return
	}

	noStore(c)
	c.Data(http.StatusOK, xmlContentType, buf.Bytes())
}

// SitemapFile serves /sitemap-<partition>[-<n>].xml. It is the router's
// NoRoute handler, so anything else is a JSON 404.
func (h *Handler) SitemapFile(c *gin.Context) {
	name := strings.TrimPrefix(c.Request.URL.Path, "/")
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}

	partition, part, err := sitemap.ParseFileName(name)
	if err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
		return
	}
	c.Set(routeLabelKey, "/sitemap-"+string(partition))

	start := time.Now()
	entries, err := h.generator.Entries(c.Request.Context(), partition, part)
	metrics.RecordSitemap(string(partition), len(entries), time.Since(start), err)
	if err != nil {
		if errors.Is(err, sitemap.ErrInvalidPart) || errors.Is(err, sitemap.ErrUnknownPartition) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Not found"})
			return
		}
		h.sitemapFailed(c, string(partition), err)
		return
	}

	var buf bytes.Buffer
	if err := sitemap.WriteURLSet(&buf, entries); err != nil {
		h.sitemapFailed(c, string(partition), err)
		return
	}

	h.logger.Debug().Str("partition", string(partition)).Int("part", part).Int("entries", len(entries)).Msg("sitemap generated")
	noStore(c)
	c.Data(http.StatusOK, xmlContentType, buf.Bytes())
}

// SitemapManifest lists the index rows with their changefreq and priority.
func (h *Handler) SitemapManifest(c *gin.Context) {
	entries, err := h.generator.Manifest(c.Request.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("sitemap manifest failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to build sitemap manifest"})
		return
	}

	if entries == nil {
		entries = []models.SitemapEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handler) Robots(c *gin.Context) {
	body := fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", h.generator.BaseURL())
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(body))
}

func (h *Handler) sitemapFailed(c *gin.Context, partition string, err error) {
	h.logger.Error().Err(err).Str("partition", partition).Msg("sitemap generation failed")
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate sitemap"})
}

// noStore marks a response as never cacheable.
func noStore(c *gin.Context) {
	c.Header("Cache-Control", "no-store, max-age=0")
}
