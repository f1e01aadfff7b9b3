package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/ashokbhamla/triposia.com-sub002/config"
	"github.com/ashokbhamla/triposia.com-sub002/internal/crawler"
	"github.com/ashokbhamla/triposia.com-sub002/internal/pagetype"
	"github.com/ashokbhamla/triposia.com-sub002/internal/utils"
	"github.com/spf13/cobra"
)

var opts struct {
	url       string
	visit     bool
	parallel  int
	delayMS   int
	userAgent string
	domains   []string
	jsonOut   bool
	strict    bool
	verbose   bool
}

var rootCmd = &cobra.Command{
	Use:   "sitemapcheck",
	Short: "Check a deployed site against its sitemaps",
	Long: `sitemapcheck reads a sitemap index, follows every child sitemap and
classifies each listed location by page type. With --visit it also fetches
every page and reports missing titles, canonical links and failed requests.

Without --url the sitemap of the configured site is checked.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&opts.url, "url", "", "sitemap URL (default: <site url>/sitemap.xml)")
	rootCmd.Flags().BoolVar(&opts.visit, "visit", false, "fetch every listed page")
	rootCmd.Flags().IntVarP(&opts.parallel, "concurrency", "c", 2, "parallel page fetches")
	rootCmd.Flags().IntVarP(&opts.delayMS, "delay", "d", 200, "delay between requests (ms)")
	rootCmd.Flags().StringVar(&opts.userAgent, "user-agent", "triposia-sitemapcheck/1.0", "custom User-Agent string")
	rootCmd.Flags().StringSliceVar(&opts.domains, "allowed-domain", nil, "restrict fetches to these hosts")
	rootCmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the full report as JSON")
	rootCmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when anything failed")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "verbose logging")
}

func run(cmd *cobra.Command, args []string) error {
	if opts.parallel < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}
	if opts.delayMS < 0 {
		return fmt.Errorf("delay must be non-negative")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if opts.url == "" {
		opts.url = cfg.BaseURL() + "/sitemap.xml"
	}

	level := cfg.Log.Level
	if opts.verbose {
		level = "debug"
	}
	logger, err := utils.NewLogger(utils.LogOptions{Level: level, Format: "console", Output: os.Stderr})
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	checker := crawler.NewChecker(&crawler.CheckerConfig{
		SitemapURL:     opts.url,
		UserAgent:      opts.userAgent,
		AllowedDomains: opts.domains,
		VisitPages:     opts.visit,
		Parallelism:    opts.parallel,
		Delay:          time.Duration(opts.delayMS) * time.Millisecond,
	}, logger.Logger)

	report, err := checker.Run(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(out, report)
	}

	if opts.strict && report.Failed() {
		return fmt.Errorf("sitemap check found problems")
	}
	return nil
}

func printReport(out io.Writer, report *crawler.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "sitemaps\t%d\n", report.Sitemaps)
	fmt.Fprintf(w, "urls\t%d\n", report.URLs)

	types := make([]string, 0, len(report.ByType))
	for t := range report.ByType {
		types = append(types, string(t))
	}
	sort.Strings(types)
	for _, t := range types {
		fmt.Fprintf(w, "  %s\t%d\n", t, report.ByType[pagetype.PageType(t)])
	}

	for _, loc := range report.Duplicates {
		fmt.Fprintf(w, "duplicate\t%s\n", loc)
	}
	for _, e := range report.SitemapErrors {
		fmt.Fprintf(w, "sitemap error\t%s\n", e)
	}
	for _, p := range report.Pages {
		switch {
		case p.Meta.Title == "":
			fmt.Fprintf(w, "missing title\t%s\n", p.URL)
		case p.Meta.Canonical == "":
			fmt.Fprintf(w, "missing canonical\t%s\n", p.URL)
		case p.Meta.NoIndex:
			fmt.Fprintf(w, "noindex\t%s\n", p.URL)
		}
	}
	for _, f := range report.Failures {
		fmt.Fprintf(w, "failed\t%s\t%d %s\n", f.URL, f.Status, f.Error)
	}
	w.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
