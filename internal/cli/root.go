// Package cli implements the command-line front end of §6: three
// subcommands (verify, crawl, cache) wrapping the internal/api library
// entrypoint, plus the shared config-loading and exit-code discipline
// they follow. This plays the role the teacher's internal/cli plays for
// docs-crawler — cmd/naive-backlink/main.go calls Execute() once.
package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/naive-backlink/internal/build"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "naive-backlink",
	Short: "A non-cryptographic mutual-backlink verifier.",
	Long: `naive-backlink crawls a seed URL and its near neighbors, breadth-first
and hop-bounded, looking for mutual backlinks between sites as a low-assurance
signal of identity linkage. It proves nothing cryptographically; it only
reports what it found and how strong the surrounding evidence looks.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log crawl progress to stderr")
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.Version = build.FullVersion()
}

// Execute runs the root command. It is called once by main.main(); a
// command failure exits with status 1, matching cobra's default.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// ResetFlags restores every package-level flag variable to its zero
// value. Tests reuse the same command tree across cases and must reset
// state cobra itself does not clear between Execute calls.
func ResetFlags() {
	verbose = false
	resetVerifyFlags()
	resetCrawlFlags()
	resetCacheFlags()
}
