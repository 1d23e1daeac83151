// Package api implements the crawl_and_score library entrypoint (§6):
// the single function that wires configuration, the HTML cache, the
// fetch backends, the scheduler, and the scorer together and returns a
// finished Result. It plays the role the teacher's
// internal/scheduler.ExecuteCrawling does for docs-crawler — the one
// function everything else (CLI commands, tests) calls into.
package api

import "net/url"

// Params carries crawl_and_score's optional named parameters (§6).
// Overrides that are nil/empty leave the base Config's corresponding
// field untouched; overrides that are set replace it entirely for this
// call only, without mutating the base Config.
type Params struct {
	SeedURLs           []url.URL
	TrustedOverrides   []string
	BlacklistOverrides []string
	WhitelistOverrides []string

	MaxHopsOverride       *int
	OnlyWhitelistOverride *bool
	OnlyRelMeOverride     *bool
}
