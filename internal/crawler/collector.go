// Package crawler checks a deployed site against its own sitemaps: every
// listed location is classified and, optionally, fetched and inspected.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/internal/pagetype"
	"github.com/gocolly/colly/v2"
	"github.com/rs/zerolog"
)

type CheckerConfig struct {
	SitemapURL     string
	UserAgent      string
	AllowedDomains []string
	VisitPages     bool
	Parallelism    int
	Delay          time.Duration
	Timeout        time.Duration
}

// PageResult is the outcome of one location.
type PageResult struct {
	URL    string            `json:"url"`
	Type   pagetype.PageType `json:"type"`
	Status int               `json:"status,omitempty"`
	Meta   *PageMeta         `json:"meta,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type Report struct {
	Sitemaps      int                       `json:"sitemaps"`
	URLs          int                       `json:"urls"`
	ByType        map[pagetype.PageType]int `json:"by_type"`
	Duplicates    []string                  `json:"duplicates,omitempty"`
	SitemapErrors []string                  `json:"sitemap_errors,omitempty"`
	Pages         []PageResult              `json:"pages,omitempty"`
	Failures      []PageResult              `json:"failures,omitempty"`
}

// Failed reports whether anything in the run went wrong.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0 || len(r.SitemapErrors) > 0 || len(r.Duplicates) > 0
}

type Checker struct {
	config *CheckerConfig
	logger zerolog.Logger
}

func NewChecker(config *CheckerConfig, logger zerolog.Logger) *Checker {
	if config.Parallelism < 1 {
		config.Parallelism = 2
	}
	if config.UserAgent == "" {
		config.UserAgent = "triposia-sitemapcheck/1.0"
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	return &Checker{config: config, logger: logger}
}

func (c *Checker) options() []colly.CollectorOption {
	opts := []colly.CollectorOption{
		colly.UserAgent(c.config.UserAgent),
	}
	if len(c.config.AllowedDomains) > 0 {
		opts = append(opts, colly.AllowedDomains(c.config.AllowedDomains...))
	}
	return opts
}

// Run walks the sitemap tree from the configured root and builds a Report.
// Only a failure to read the root sitemap is returned as an error.
func (c *Checker) Run(ctx context.Context) (*Report, error) {
	report := &Report{ByType: make(map[pagetype.PageType]int)}

	locations, err := c.collectLocations(ctx, report)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(locations))
	unique := make([]string, 0, len(locations))
	for _, loc := range locations {
		if seen[loc] {
			report.Duplicates = append(report.Duplicates, loc)
			continue
		}
		seen[loc] = true
		unique = append(unique, loc)
		report.ByType[pagetype.Classify(pathOf(loc))]++
	}
	report.URLs = len(unique)

	if c.config.VisitPages {
		if err := c.visitPages(ctx, unique, report); err != nil {
			return report, err
		}
	}

	sort.Slice(report.Pages, func(i, j int) bool { return report.Pages[i].URL < report.Pages[j].URL })
	sort.Slice(report.Failures, func(i, j int) bool { return report.Failures[i].URL < report.Failures[j].URL })

	c.logger.Info().
		Int("sitemaps", report.Sitemaps).
		Int("urls", report.URLs).
		Int("duplicates", len(report.Duplicates)).
		Int("failures", len(report.Failures)).
		Msg("sitemap check finished")
	return report, nil
}

// collectLocations fetches the root sitemap and every sitemap it links to, in
// breadth-first order, and returns all page locations in listing order.
func (c *Checker) collectLocations(ctx context.Context, report *Report) ([]string, error) {
	fetcher := colly.NewCollector(c.options()...)
	fetcher.SetRequestTimeout(c.config.Timeout)

	var (
		locations []string
		queue     = []string{c.config.SitemapURL}
		parseErr  error
	)

	fetcher.OnResponse(func(r *colly.Response) {
		content, err := ParseSitemap(r.Body)
		if err != nil {
			parseErr = err
			return
		}
		report.Sitemaps++
		queue = append(queue, content.SubSitemaps...)
		locations = append(locations, content.PageURLs...)
		c.logger.Debug().
			Str("sitemap", r.Request.URL.String()).
			Int("urls", len(content.PageURLs)).
			Int("sitemaps", len(content.SubSitemaps)).
			Msg("sitemap parsed")
	})

	for first := true; len(queue) > 0; first = false {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next := queue[0]
		queue = queue[1:]

		parseErr = nil
		err := fetcher.Visit(next)
		if errors.Is(err, colly.ErrAlreadyVisited) {
			continue
		}
		if err == nil {
			err = parseErr
		}
		if err == nil {
			continue
		}
		if first {
			return nil, fmt.Errorf("failed to read sitemap %s: %w", next, err)
		}
		c.logger.Warn().Err(err).Str("sitemap", next).Msg("sitemap failed")
		report.SitemapErrors = append(report.SitemapErrors, fmt.Sprintf("%s: %v", next, err))
	}

	return locations, nil
}

func (c *Checker) visitPages(ctx context.Context, locations []string, report *Report) error {
	visitor := colly.NewCollector(append(c.options(), colly.Async(true))...)
	visitor.SetRequestTimeout(c.config.Timeout)

	// Set reasonable limits
	_ = visitor.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: c.config.Parallelism,
		Delay:       c.config.Delay,
	})

	var mu sync.Mutex
	record := func(result PageResult, failed bool) {
		mu.Lock()
		defer mu.Unlock()
		if failed {
			report.Failures = append(report.Failures, result)
			return
		}
		report.Pages = append(report.Pages, result)
	}

	visitor.OnResponse(func(r *colly.Response) {
		loc := r.Request.URL.String()
		result := PageResult{URL: loc, Type: pagetype.Classify(pathOf(loc)), Status: r.StatusCode}

		meta, err := ParsePage(r.Body)
		if err != nil {
			result.Error = err.Error()
			record(result, true)
			return
		}
		result.Meta = meta
		record(result, false)
	})

	visitor.OnError(func(r *colly.Response, err error) {
		loc := r.Request.URL.String()
		c.logger.Warn().Err(err).Str("url", loc).Int("status", r.StatusCode).Msg("page failed")
		record(PageResult{
			URL:    loc,
			Type:   pagetype.Classify(pathOf(loc)),
			Status: r.StatusCode,
			Error:  err.Error(),
		}, true)
	})

	for idx, loc := range locations {
		if ctx.Err() != nil {
			break
		}
		c.logger.Debug().Msgf("Processing URL %d/%d: %s", idx+1, len(locations), loc)
		if err := visitor.Visit(loc); err != nil && !errors.Is(err, colly.ErrAlreadyVisited) {
			record(PageResult{URL: loc, Type: pagetype.Classify(pathOf(loc)), Error: err.Error()}, true)
		}
	}
	visitor.Wait()

	return ctx.Err()
}

// pathOf returns the path of loc, "/" for a bare host.
func pathOf(loc string) string {
	u, err := url.Parse(loc)
	if err != nil || u.Path == "" {
		return "/"
	}
	return u.Path
}
