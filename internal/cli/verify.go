package cli

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/naive-backlink/internal/api"
)

var (
	verifyLinksFile     string
	verifyOnlyWellKnown bool
	verifyOnlyRelMe     bool
)

var verifyCmd = &cobra.Command{
	Use:   "verify <url>",
	Short: "Crawl url and print a human-readable backlink summary.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runVerify(args[0])
	},
}

func init() {
	verifyCmd.Flags().StringVar(&verifyLinksFile, "links-file", "", "file of additional seed URLs, one per line")
	verifyCmd.Flags().BoolVar(&verifyOnlyWellKnown, "only-well-known-id-sites", false, "restrict crawling to well-known identity-hub hosts and trust them as surfaces")
	verifyCmd.Flags().BoolVar(&verifyOnlyRelMe, "only-rel-me", false, `require rel="me" on every counted link`)
}

func resetVerifyFlags() {
	verifyLinksFile = ""
	verifyOnlyWellKnown = false
	verifyOnlyRelMe = false
}

func runVerify(rawURL string) {
	origin, err := url.Parse(rawURL)
	if err != nil {
		exitWith(1, "invalid URL %q: %s", rawURL, err)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitWith(1, "config error: %s", err)
	}

	params, err := buildParams(verifyLinksFile, verifyOnlyWellKnown, verifyOnlyRelMe)
	if err != nil {
		exitWith(1, "links file error: %s", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "verifying %s\n", origin.String())
	}

	res, err := api.CrawlAndScore(context.Background(), cfg, *origin, params)
	if err != nil {
		exitWith(1, "crawl failed: %s", err)
	}

	fmt.Printf("origin:   %s\n", res.OriginURL)
	fmt.Printf("score:    %d (%s)\n", res.Score, res.Label)
	fmt.Printf("evidence: %d record(s)\n", len(res.Evidence))
	for _, e := range res.Evidence {
		fmt.Printf("  [%s/%s] %s -> %s\n", e.Kind, e.Classification, e.Source.URL, e.Target.URL)
	}
	if len(res.Errors) > 0 {
		fmt.Fprintf(os.Stderr, "%d error(s) recorded during crawl\n", len(res.Errors))
	}

	if len(res.Evidence) == 0 && len(res.Errors) == 0 {
		os.Exit(100)
	}
}
