package crawler

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ashokbhamla/triposia.com-sub002/internal/models"
	"golang.org/x/net/html"
)

// SitemapContent is what one sitemap document lists.
type SitemapContent struct {
	PageURLs    []string // from a <urlset>
	SubSitemaps []string // from a <sitemapindex>
}

// ParseSitemap parses data as either a sitemap index or a urlset.
func ParseSitemap(data []byte) (*SitemapContent, error) {
	var idx models.SitemapIndex
	if err := xml.Unmarshal(data, &idx); err == nil && idx.XMLName.Local == "sitemapindex" {
		content := &SitemapContent{}
		for _, s := range idx.Sitemaps {
			if loc := strings.TrimSpace(s.Loc); loc != "" {
				content.SubSitemaps = append(content.SubSitemaps, loc)
			}
		}
		return content, nil
	}

	var set models.URLSet
	if err := xml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("error parsing sitemap: %w", err)
	}

	content := &SitemapContent{}
	for _, u := range set.URLs {
		if loc := strings.TrimSpace(u.Loc); loc != "" {
			content.PageURLs = append(content.PageURLs, loc)
		}
	}
	return content, nil
}

// PageMeta holds the SEO fields read from a rendered page.
type PageMeta struct {
	Title       string
	Canonical   string
	Description string
	Heading     string
	NoIndex     bool
	WordCount   int
}

// ParsePage extracts PageMeta from raw HTML. Scripts, styles and comments do
// not count towards the word count.
func ParsePage(body []byte) (*PageMeta, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	stripNodes(root)

	doc := goquery.NewDocumentFromNode(root)
	meta := &PageMeta{
		Title:   strings.TrimSpace(doc.Find("title").First().Text()),
		Heading: strings.TrimSpace(doc.Find("h1").First().Text()),
	}

	if href, ok := doc.Find("link[rel='canonical']").First().Attr("href"); ok {
		meta.Canonical = strings.TrimSpace(href)
	}
	if content, ok := doc.Find("meta[name='description']").First().Attr("content"); ok {
		meta.Description = strings.TrimSpace(content)
	}
	doc.Find("meta[name='robots']").Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		for _, directive := range strings.Split(content, ",") {
			if strings.EqualFold(strings.TrimSpace(directive), "noindex") {
				meta.NoIndex = true
			}
		}
	})

	meta.WordCount = len(strings.Fields(doc.Find("body").Text()))
	return meta, nil
}

// stripNodes removes script and style elements and comments under n.
func stripNodes(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && (c.Data == "script" || c.Data == "style" || c.Data == "noscript"):
			n.RemoveChild(c)
		default:
			stripNodes(c)
		}
		c = next
	}
}
