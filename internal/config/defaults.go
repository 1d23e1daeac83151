package config

import (
	"time"

	"github.com/rohmanhakim/naive-backlink/internal/policy"
	"github.com/rohmanhakim/naive-backlink/pkg/timeutil"
)

// WellKnownIDSites is the built-in trusted_domains seed list the
// --only-well-known-id-sites flag (§6) maps to when the caller supplies
// no trusted_overrides. Mirrors naive_backlink/cli.py's
// WELL_KNOWN_ID_SITES constant.
var WellKnownIDSites = []string{
	"github.com",
	"gitlab.com",
	"keybase.io",
	"twitter.com",
	"x.com",
	"mastodon.social",
	"bsky.app",
	"linkedin.com",
}

// WellKnownIDPatterns is the built-in whitelist pattern list
// --only-well-known-id-sites (§6) restricts crawling to, mirroring
// naive_backlink/config.py's DEFAULT_WHITELIST.
var WellKnownIDPatterns = []string{
	"github.com/*",
	"*.github.io/*",
	"gitlab.com/*",
	"*.gitlab.io/*",
	"keybase.io/*",
	"linkedin.com/in/*",
	"twitter.com/*",
	"x.com/*",
	"facebook.com/*",
	"mastodon.social/*",
	"*.m.wikipedia.org/*",
	"*.wikipedia.org/*",
}

// WithDefault returns a Config pre-populated with every built-in default
// named or implied by spec §3/§4/§5. Callers chain WithX(...) calls and
// finish with Build().
func WithDefault() *Config {
	return &Config{
		maxOutlinks:          50,
		trustedDomains:       nil,
		sameDomainPolicy:     policy.SameDomainFollow,
		useRegistrableDomain: false,
		blacklistPatterns:    nil,
		whitelistPatterns:    nil,
		onlyWhitelist:        false,

		maxHops:              3,
		timeout:              10 * time.Second,
		userAgent:            "naive-backlink/1.0",
		maxContentBytes:      5 * 1024 * 1024,
		onlyRelMe:            false,
		maxGlobalConcurrency: 8,
		useHeadlessFallback:  false,

		baseDelay:  0,
		jitter:     0,
		randomSeed: 1,

		maxAttempt:             3,
		backoffInitialDuration: 200 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     5 * time.Second,

		cacheDir:         "",
		cacheOSDefault:   true,
		cacheTTL:         24 * time.Hour,
		cacheStoreErrors: false,
		cacheEnabled:     true,

		penalties: 0,
	}
}

func (c *Config) WithMaxOutlinks(n int) *Config {
	c.maxOutlinks = n
	return c
}

func (c *Config) WithTrustedDomains(domains []string) *Config {
	c.trustedDomains = domains
	return c
}

func (c *Config) WithOnlyWellKnownIDSites(enabled bool) *Config {
	if enabled {
		c.trustedDomains = WellKnownIDSites
	}
	return c
}

func (c *Config) WithSameDomainPolicy(p policy.SameDomainPolicy) *Config {
	c.sameDomainPolicy = p
	return c
}

func (c *Config) WithUseRegistrableDomain(use bool) *Config {
	c.useRegistrableDomain = use
	return c
}

func (c *Config) WithBlacklistPatterns(patterns []string) *Config {
	c.blacklistPatterns = patterns
	return c
}

func (c *Config) WithWhitelistPatterns(patterns []string) *Config {
	c.whitelistPatterns = patterns
	return c
}

func (c *Config) WithOnlyWhitelist(only bool) *Config {
	c.onlyWhitelist = only
	return c
}

func (c *Config) WithMaxHops(hops int) *Config {
	c.maxHops = hops
	return c
}

func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.timeout = timeout
	return c
}

func (c *Config) WithUserAgent(agent string) *Config {
	c.userAgent = agent
	return c
}

func (c *Config) WithMaxContentBytes(n int64) *Config {
	c.maxContentBytes = n
	return c
}

func (c *Config) WithOnlyRelMe(only bool) *Config {
	c.onlyRelMe = only
	return c
}

func (c *Config) WithMaxGlobalConcurrency(n int) *Config {
	c.maxGlobalConcurrency = n
	return c
}

func (c *Config) WithUseHeadlessFallback(use bool) *Config {
	c.useHeadlessFallback = use
	return c
}

func (c *Config) WithBaseDelay(delay time.Duration) *Config {
	c.baseDelay = delay
	return c
}

func (c *Config) WithJitter(jitter time.Duration) *Config {
	c.jitter = jitter
	return c
}

func (c *Config) WithRandomSeed(seed int64) *Config {
	c.randomSeed = seed
	return c
}

func (c *Config) WithMaxAttempt(attempts int) *Config {
	c.maxAttempt = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(d time.Duration) *Config {
	c.backoffInitialDuration = d
	return c
}

func (c *Config) WithBackoffMultiplier(m float64) *Config {
	c.backoffMultiplier = m
	return c
}

func (c *Config) WithBackoffMaxDuration(d time.Duration) *Config {
	c.backoffMaxDuration = d
	return c
}

func (c *Config) WithCacheDir(dir string) *Config {
	c.cacheDir = dir
	c.cacheOSDefault = dir == ""
	return c
}

func (c *Config) WithCacheOSDefault() *Config {
	c.cacheDir = ""
	c.cacheOSDefault = true
	return c
}

func (c *Config) WithCacheTTL(ttl time.Duration) *Config {
	c.cacheTTL = ttl
	return c
}

func (c *Config) WithCacheStoreErrors(store bool) *Config {
	c.cacheStoreErrors = store
	return c
}

func (c *Config) WithCacheEnabled(enabled bool) *Config {
	c.cacheEnabled = enabled
	return c
}

func (c *Config) WithPenalties(penalties float64) *Config {
	c.penalties = penalties
	return c
}

// BackoffParam projects the backoff-shaped fields into pkg/timeutil's
// constructor, for callers wiring a retry.RetryParam.
func (c Config) BackoffParam() timeutil.BackoffParam {
	return timeutil.NewBackoffParam(c.backoffInitialDuration, c.backoffMultiplier, c.backoffMaxDuration)
}

// Build validates the accumulated settings and returns the finished,
// immutable Config.
func (c *Config) Build() (Config, error) {
	if c.maxHops < 1 {
		return Config{}, ErrInvalidConfig
	}
	if c.maxOutlinks < 1 {
		return Config{}, ErrInvalidConfig
	}
	if c.maxGlobalConcurrency < 1 {
		c.maxGlobalConcurrency = 1
	}
	return *c, nil
}
