package api

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/rohmanhakim/naive-backlink/internal/config"
	"github.com/rohmanhakim/naive-backlink/internal/fetcher"
	"github.com/rohmanhakim/naive-backlink/internal/htmlcache"
	"github.com/rohmanhakim/naive-backlink/internal/metadata"
	"github.com/rohmanhakim/naive-backlink/internal/result"
	"github.com/rohmanhakim/naive-backlink/internal/scheduler"
	"github.com/rohmanhakim/naive-backlink/pkg/hashutil"
	"github.com/rohmanhakim/naive-backlink/pkg/retry"
)

// CrawlAndScore runs a single crawl_and_score invocation (§6): it merges
// params' call-site overrides over cfg, opens the configured cache,
// builds the primary (and, when enabled, headless) fetch backend, runs
// the scheduler to completion, and assembles the Result.
//
// A non-nil error is either a failure to open the HTML cache or the
// fatal-scheduler case (§7f): per-URL
// failures never reach this return, they are recorded in the Result's
// Errors list instead.
func CrawlAndScore(ctx context.Context, cfg config.Config, originURL url.URL, params Params) (result.Result, error) {
	merged := applyOverrides(cfg, params)

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	crawlID := newCrawlID(originURL)
	recorder := metadata.NewRecorder(crawlID, logger)

	cache, cacheErr := openCache(merged)
	if cacheErr != nil {
		return result.Result{}, cacheErr
	}
	defer cache.Close()

	primary := fetcher.NewHTTPFetcher(&recorder)
	var headless fetcher.Fetcher
	if merged.UseHeadlessFallback() {
		h := fetcher.NewHeadlessFetcher(&recorder)
		headless = h
	}

	retryParam := retry.NewRetryParam(
		merged.BackoffInitialDuration(),
		merged.Jitter(),
		merged.RandomSeed(),
		merged.MaxAttempt(),
		merged.BackoffParam(),
	)

	schedCfg := scheduler.Config{
		Policy:               merged.PolicyConfig(),
		MaxHops:              merged.MaxHops(),
		MaxGlobalConcurrency: merged.MaxGlobalConcurrency(),
		OnlyRelMe:            merged.OnlyRelMe(),
		UseHeadlessFallback:  merged.UseHeadlessFallback(),
		UserAgent:            merged.UserAgent(),
		FetchTimeout:         merged.Timeout(),
		MaxContentBytes:      merged.MaxContentBytes(),
		RetryParam:           retryParam,
		BaseDelay:            merged.BaseDelay(),
		Jitter:               merged.Jitter(),
		RandomSeed:           merged.RandomSeed(),
	}

	sched := scheduler.NewScheduler(schedCfg, primary, headless, cache, &recorder, &recorder)
	records, errs, fatalErr := sched.Run(ctx, originURL, params.SeedURLs)
	if fatalErr != nil {
		return result.Result{}, fatalErr
	}

	return result.FromRecords(originURL.String(), records, errs, merged.Penalties()), nil
}

// applyOverrides returns a copy of cfg with params' call-site overrides
// applied; cfg itself is left untouched so it can be reused across
// crawls.
func applyOverrides(cfg config.Config, params Params) config.Config {
	out := cfg
	if len(params.TrustedOverrides) > 0 {
		out = *(&out).WithTrustedDomains(params.TrustedOverrides)
	}
	if len(params.BlacklistOverrides) > 0 {
		out = *(&out).WithBlacklistPatterns(params.BlacklistOverrides)
	}
	if len(params.WhitelistOverrides) > 0 {
		out = *(&out).WithWhitelistPatterns(params.WhitelistOverrides)
	}
	if params.MaxHopsOverride != nil {
		out = *(&out).WithMaxHops(*params.MaxHopsOverride)
	}
	if params.OnlyWhitelistOverride != nil {
		out = *(&out).WithOnlyWhitelist(*params.OnlyWhitelistOverride)
	}
	if params.OnlyRelMeOverride != nil {
		out = *(&out).WithOnlyRelMe(*params.OnlyRelMeOverride)
	}
	return out
}

// openCache resolves the configured cache directory (explicit or
// OS-conventional per §6/supplemented feature 2) and opens it, or
// returns a disabled cache when caching is turned off.
func openCache(cfg config.Config) (*htmlcache.Cache, error) {
	if !cfg.CacheEnabled() {
		return htmlcache.Disabled(), nil
	}
	dir := cfg.CacheDir()
	if cfg.CacheOSDefault() || dir == "" {
		userCacheDir, err := os.UserCacheDir()
		if err != nil {
			return nil, fmt.Errorf("resolve os-default cache dir: %w", err)
		}
		dir = filepath.Join(userCacheDir, "naive-backlink")
	}
	cache, err := htmlcache.Open(dir, cfg.CacheTTL(), cfg.CacheStoreErrors())
	if err != nil {
		return nil, err
	}
	return cache, nil
}

func newCrawlID(originURL url.URL) string {
	digest, _ := hashutil.HashBytes([]byte(originURL.String()+time.Now().String()), hashutil.HashAlgoSHA256)
	if len(digest) > 12 {
		digest = digest[:12]
	}
	return "crawl-" + digest
}
