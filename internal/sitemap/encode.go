package sitemap

import (
	"encoding/xml"
	"io"

	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
)

// WriteURLSet writes entries as a <urlset> document.
func WriteURLSet(w io.Writer, entries []models.SitemapEntry) error {
	set := models.URLSet{
		Xmlns: models.SitemapNamespace,
		URLs:  make([]models.URL, 0, len(entries)),
	}
	for _, e := range entries {
		set.URLs = append(set.URLs, e.URL())
	}
	return writeXML(w, set)
}

// WriteIndex writes entries as a <sitemapindex> document. Only loc and lastmod
// are written; changefreq and priority stay in the manifest (/api/sitemaps).
func WriteIndex(w io.Writer, entries []models.SitemapEntry) error {
	idx := models.SitemapIndex{
		Xmlns:    models.SitemapNamespace,
		Sitemaps: make([]models.SitemapRef, 0, len(entries)),
	}
	for _, e := range entries {
		idx.Sitemaps = append(idx.Sitemaps, e.Ref())
	}
	return writeXML(w, idx)
}

func writeXML(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
