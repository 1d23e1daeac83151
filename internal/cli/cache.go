package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rohmanhakim/naive-backlink/internal/htmlcache"
	"github.com/rohmanhakim/naive-backlink/internal/urlx"
)

var (
	cacheDir       string
	cacheOSDefault bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or reset the on-disk HTML cache.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			fmt.Fprintf(os.Stderr, "unknown cache subcommand: %s\n", args[0])
		} else {
			fmt.Fprintln(os.Stderr, "cache requires a subcommand: clear, stats, or inspect")
		}
		os.Exit(2)
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every cached entry.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := openCacheForCLI()
		defer c.Close()
		if err := c.ClearAll(); err != nil {
			exitWith(1, "clear cache: %s", err)
		}
	},
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print item count, bytes on disk, and directory.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		c := openCacheForCLI()
		defer c.Close()
		stats, err := c.Stats()
		if err != nil {
			exitWith(1, "read cache stats: %s", err)
		}
		fmt.Printf("items:     %d\n", stats.ItemCount)
		fmt.Printf("bytes:     %d\n", stats.BytesOnDisk)
		fmt.Printf("directory: %s\n", stats.Directory)
	},
}

var cacheInspectCmd = &cobra.Command{
	Use:   "inspect <url>",
	Short: "Print the cached entry for url, or exit 2 on a miss.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		u, err := url.Parse(args[0])
		if err != nil {
			exitWith(1, "invalid URL %q: %s", args[0], err)
		}
		c := openCacheForCLI()
		defer c.Close()

		normalized := urlx.Normalize(*u)
		entry, ok := c.Get(normalized.String())
		if !ok {
			fmt.Fprintf(os.Stderr, "no cache entry for %s\n", normalized.String())
			os.Exit(2)
		}
		fmt.Printf("final_url:    %s\n", entry.FinalURL)
		fmt.Printf("status:       %d\n", entry.Status)
		fmt.Printf("content_type: %s\n", entry.ContentType)
		fmt.Printf("stored_at:    %s\n", entry.StoredAt)
	},
}

func init() {
	cacheCmd.PersistentFlags().StringVar(&cacheDir, "dir", "", "explicit cache directory")
	cacheCmd.PersistentFlags().BoolVar(&cacheOSDefault, "os-default", false, "use the OS-conventional per-app cache directory")
	cacheCmd.AddCommand(cacheClearCmd, cacheStatsCmd, cacheInspectCmd)
}

func resetCacheFlags() {
	cacheDir = ""
	cacheOSDefault = false
}

// openCacheForCLI resolves --dir/--os-default into an open cache handle
// or exits fatally; neither flag given falls back to the OS-default
// directory rather than refusing to run.
func openCacheForCLI() *htmlcache.Cache {
	dir := cacheDir
	if cacheOSDefault || dir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			exitWith(1, "resolve os-default cache dir: %s", err)
		}
		dir = filepath.Join(userCacheDir, "naive-backlink")
	}
	cache, err := htmlcache.Open(dir, 0, false)
	if err != nil {
		exitWith(1, "open cache: %s", err)
	}
	return cache
}
