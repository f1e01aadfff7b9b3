// internal/models/sitemap.go
package models

import (
	"encoding/xml"
	"strconv"
	"time"
)

const SitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// ChangeFrequency is the changefreq hint of a sitemap entry.
type ChangeFrequency string

const (
	Daily   ChangeFrequency = "daily"
	Weekly  ChangeFrequency = "weekly"
	Monthly ChangeFrequency = "monthly"
)

// URLSet represents the structure of an XML sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// SitemapIndex represents a <sitemapindex> that links to sub-sitemaps.
type SitemapIndex struct {
	XMLName  xml.Name     `xml:"sitemapindex"`
	Xmlns    string       `xml:"xmlns,attr"`
	Sitemaps []SitemapRef `xml:"sitemap"`
}

// SitemapRef is a single <sitemap> entry in a sitemap index.
type SitemapRef struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// SitemapEntry is one generated location with its freshness metadata.
type SitemapEntry struct {
	Location        string          `json:"location"`
	LastModified    time.Time       `json:"last_modified"`
	ChangeFrequency ChangeFrequency `json:"change_frequency"`
	Priority        float64         `json:"priority"`
}

// URL converts the entry to its <url> element.
func (e SitemapEntry) URL() URL {
	return URL{
		Loc:        e.Location,
		LastMod:    e.LastModified.UTC().Format(time.RFC3339),
		ChangeFreq: string(e.ChangeFrequency),
		Priority:   strconv.FormatFloat(e.Priority, 'f', 1, 64),
	}
}

// Ref converts the entry to its <sitemap> element of an index.
func (e SitemapEntry) Ref() SitemapRef {
	return SitemapRef{
		Loc:     e.Location,
		LastMod: e.LastModified.UTC().Format(time.RFC3339),
	}
}
