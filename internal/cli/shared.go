package cli

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/rohmanhakim/naive-backlink/internal/api"
	"github.com/rohmanhakim/naive-backlink/internal/config"
)

// exitWith prints a formatted message to stderr and exits with code,
// the one place verify/crawl/cache diverge from cobra's own exit-1
// default to honor §6's exit-code contract.
func exitWith(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(code)
}

// loadConfig builds the base Config: built-in defaults, then a
// naive-backlink.toml project file if one is discovered in the current
// working directory, matching §6's deep-merge order up to (but not
// including) the call-site overrides a command's own flags contribute.
func loadConfig() (config.Config, error) {
	builder := config.WithDefault()
	cwd, err := os.Getwd()
	if err != nil {
		return builder.Build()
	}
	path, ok := config.DiscoverProjectFile(cwd)
	if !ok {
		return builder.Build()
	}
	builder, err = config.MergeProjectFile(builder, path)
	if err != nil {
		return config.Config{}, err
	}
	return builder.Build()
}

// readLinksFile parses one URL per line from path, skipping blank
// lines. A missing file is reported verbatim so the caller can surface
// it as the "missing seed file" startup failure of §7(a).
func readLinksFile(path string) ([]url.URL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []url.URL
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		u, err := url.Parse(line)
		if err != nil {
			return nil, fmt.Errorf("parse link %q: %w", line, err)
		}
		urls = append(urls, *u)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return urls, nil
}

// buildParams assembles api.Params from the flags shared by verify and
// crawl: an optional links file, the well-known-id-sites trust shortcut,
// and the rel="me"-only filter.
//
// --only-well-known-id-sites does two things at once, matching the
// original CLI's mapping: it boosts trusted_surface annotation for the
// well-known identity hosts (TrustedOverrides), and it restricts the
// crawl itself to those hosts by switching on whitelist mode with the
// matching default pattern list (WhitelistOverrides + OnlyWhitelistOverride).
func buildParams(linksFile string, onlyWellKnownIDSites, onlyRelMe bool) (api.Params, error) {
	var params api.Params
	if linksFile != "" {
		urls, err := readLinksFile(linksFile)
		if err != nil {
			return api.Params{}, err
		}
		params.SeedURLs = urls
	}
	if onlyWellKnownIDSites {
		params.TrustedOverrides = config.WellKnownIDSites
		params.WhitelistOverrides = config.WellKnownIDPatterns
		t := true
		params.OnlyWhitelistOverride = &t
	}
	if onlyRelMe {
		t := true
		params.OnlyRelMeOverride = &t
	}
	return params, nil
}
