// Package config builds the immutable, crawl-global configuration the
// scheduler, policy engine, cache, and fetch backends are constructed
// from. It follows the same shape the teacher's internal/config package
// uses: unexported fields, a chained WithX(...) builder, a Build()
// validation step, and a file-backed override layer merged selectively
// over defaults.
package config

import (
	"time"

	"github.com/rohmanhakim/naive-backlink/internal/policy"
)

// Config is the full set of per-crawl settings: the policy engine's
// admission rules (§4.3) plus the crawl-global knobs the spec's Logic
// configuration names (§3).
type Config struct {
	maxOutlinks          int
	trustedDomains       []string
	sameDomainPolicy     policy.SameDomainPolicy
	useRegistrableDomain bool
	blacklistPatterns    []string
	whitelistPatterns    []string
	onlyWhitelist        bool

	maxHops              int
	timeout              time.Duration
	userAgent            string
	maxContentBytes      int64
	onlyRelMe            bool
	maxGlobalConcurrency int
	useHeadlessFallback  bool

	baseDelay  time.Duration
	jitter     time.Duration
	randomSeed int64

	maxAttempt             int
	backoffInitialDuration time.Duration
	backoffMultiplier      float64
	backoffMaxDuration     time.Duration

	cacheDir          string
	cacheOSDefault    bool
	cacheTTL          time.Duration
	cacheStoreErrors  bool
	cacheEnabled      bool

	penalties float64
}

// PolicyConfig projects the fields policy.Engine consumes.
func (c Config) PolicyConfig() policy.Config {
	return policy.Config{
		MaxOutlinks:          c.maxOutlinks,
		TrustedDomains:       append([]string(nil), c.trustedDomains...),
		SameDomainPolicy:     c.sameDomainPolicy,
		UseRegistrableDomain: c.useRegistrableDomain,
		OnlyWhitelist:        c.onlyWhitelist,
		BlacklistPatterns:    append([]string(nil), c.blacklistPatterns...),
		WhitelistPatterns:    append([]string(nil), c.whitelistPatterns...),
	}
}

func (c Config) MaxOutlinks() int                          { return c.maxOutlinks }
func (c Config) TrustedDomains() []string                  { return append([]string(nil), c.trustedDomains...) }
func (c Config) SameDomainPolicy() policy.SameDomainPolicy  { return c.sameDomainPolicy }
func (c Config) UseRegistrableDomain() bool                 { return c.useRegistrableDomain }
func (c Config) BlacklistPatterns() []string                { return append([]string(nil), c.blacklistPatterns...) }
func (c Config) WhitelistPatterns() []string                { return append([]string(nil), c.whitelistPatterns...) }
func (c Config) OnlyWhitelist() bool                        { return c.onlyWhitelist }
func (c Config) MaxHops() int                               { return c.maxHops }
func (c Config) Timeout() time.Duration                     { return c.timeout }
func (c Config) UserAgent() string                          { return c.userAgent }
func (c Config) MaxContentBytes() int64                     { return c.maxContentBytes }
func (c Config) OnlyRelMe() bool                            { return c.onlyRelMe }
func (c Config) MaxGlobalConcurrency() int                  { return c.maxGlobalConcurrency }
func (c Config) UseHeadlessFallback() bool                  { return c.useHeadlessFallback }
func (c Config) BaseDelay() time.Duration                   { return c.baseDelay }
func (c Config) Jitter() time.Duration                      { return c.jitter }
func (c Config) RandomSeed() int64                          { return c.randomSeed }
func (c Config) MaxAttempt() int                            { return c.maxAttempt }
func (c Config) BackoffInitialDuration() time.Duration      { return c.backoffInitialDuration }
func (c Config) BackoffMultiplier() float64                 { return c.backoffMultiplier }
func (c Config) BackoffMaxDuration() time.Duration          { return c.backoffMaxDuration }
func (c Config) CacheDir() string                           { return c.cacheDir }
func (c Config) CacheOSDefault() bool                        { return c.cacheOSDefault }
func (c Config) CacheTTL() time.Duration                    { return c.cacheTTL }
func (c Config) CacheStoreErrors() bool                     { return c.cacheStoreErrors }
func (c Config) CacheEnabled() bool                         { return c.cacheEnabled }
func (c Config) Penalties() float64                         { return c.penalties }
