package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/naive-backlink/internal/api"
)

var (
	crawlJSONPath      string
	crawlLinksFile     string
	crawlOnlyWellKnown bool
	crawlOnlyRelMe     bool
)

var crawlCmd = &cobra.Command{
	Use:   "crawl <url>",
	Short: "Crawl url and write the full Result as JSON to --json PATH.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runCrawl(args[0])
	},
}

func init() {
	crawlCmd.Flags().StringVar(&crawlJSONPath, "json", "", "path to write the Result JSON to (required)")
	crawlCmd.Flags().StringVar(&crawlLinksFile, "links-file", "", "file of additional seed URLs, one per line")
	crawlCmd.Flags().BoolVar(&crawlOnlyWellKnown, "only-well-known-id-sites", false, "restrict crawling to well-known identity-hub hosts and trust them as surfaces")
	crawlCmd.Flags().BoolVar(&crawlOnlyRelMe, "only-rel-me", false, `require rel="me" on every counted link`)
}

func resetCrawlFlags() {
	crawlJSONPath = ""
	crawlLinksFile = ""
	crawlOnlyWellKnown = false
	crawlOnlyRelMe = false
}

func runCrawl(rawURL string) {
	if crawlJSONPath == "" {
		exitWith(1, "--json PATH is required")
	}

	origin, err := url.Parse(rawURL)
	if err != nil {
		exitWith(1, "invalid URL %q: %s", rawURL, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitWith(1, "config error: %s", err)
	}

	params, err := buildParams(crawlLinksFile, crawlOnlyWellKnown, crawlOnlyRelMe)
	if err != nil {
		exitWith(1, "links file error: %s", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "crawling %s\n", origin.String())
	}

	res, err := api.CrawlAndScore(context.Background(), cfg, *origin, params)
	if err != nil {
		exitWith(1, "crawl failed: %s", err)
	}

	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		exitWith(1, "encode result: %s", err)
	}
	if err := os.WriteFile(crawlJSONPath, raw, 0644); err != nil {
		exitWith(1, "write result: %s", err)
	}

	if len(res.Evidence) == 0 && len(res.Errors) == 0 {
		os.Exit(100)
	}
}
