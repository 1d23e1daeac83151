package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/rohmanhakim/naive-backlink/internal/policy"
)

// projectFileDTO mirrors the file's [tool.naive_backlink] table. Only
// fields present and non-zero in the file override the defaults they are
// merged over; unknown keys are ignored by go-toml/v2 without error,
// matching §6's "unknown keys are ignored" contract.
type projectFileDTO struct {
	Tool struct {
		NaiveBacklink tomlTable `toml:"naive_backlink"`
	} `toml:"tool"`
}

type tomlTable struct {
	MaxOutlinks          int      `toml:"max_outlinks"`
	TrustedDomains       []string `toml:"trusted_domains"`
	SameDomainPolicy     string   `toml:"same_domain_policy"`
	UseRegistrableDomain bool     `toml:"use_registrable_domain"`
	BlacklistPatterns    []string `toml:"blacklist_patterns"`
	WhitelistPatterns    []string `toml:"whitelist_patterns"`
	OnlyWhitelist        bool     `toml:"only_whitelist"`

	MaxHops              int    `toml:"max_hops"`
	TimeoutSeconds       int    `toml:"timeout_seconds"`
	UserAgent            string `toml:"user_agent"`
	MaxContentBytes      int64  `toml:"max_content_bytes"`
	OnlyRelMe            bool   `toml:"only_rel_me"`
	MaxGlobalConcurrency int    `toml:"max_global_concurrency"`
	UseHeadlessFallback  bool   `toml:"use_headless_fallback"`

	CacheDir         string `toml:"cache_dir"`
	CacheTTLSeconds  int    `toml:"cache_ttl_seconds"`
	CacheStoreErrors bool   `toml:"cache_store_errors"`
}

// projectFileName is the conventional name the deep-merge order of §6
// discovers in the crawl's working directory.
const projectFileName = "naive-backlink.toml"

// DiscoverProjectFile looks for projectFileName in dir and reports its
// path if present. Absence is not an error: the deep-merge order simply
// skips the project-file layer.
func DiscoverProjectFile(dir string) (string, bool) {
	candidate := filepath.Join(dir, projectFileName)
	if _, err := os.Stat(candidate); err != nil {
		return "", false
	}
	return candidate, true
}

// MergeProjectFile reads path's [tool.naive_backlink] table and overrides
// base selectively: only fields the file sets to a non-zero value
// replace the corresponding default, mirroring the teacher's
// newConfigFromDTO merge discipline.
func MergeProjectFile(base *Config, path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	var dto projectFileDTO
	if err := toml.Unmarshal(raw, &dto); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}
	applyTable(base, dto.Tool.NaiveBacklink)
	return base, nil
}

func applyTable(c *Config, t tomlTable) {
	if t.MaxOutlinks != 0 {
		c.maxOutlinks = t.MaxOutlinks
	}
	if len(t.TrustedDomains) > 0 {
		c.trustedDomains = t.TrustedDomains
	}
	if t.SameDomainPolicy != "" {
		c.sameDomainPolicy = sameDomainPolicyFromString(t.SameDomainPolicy)
	}
	c.useRegistrableDomain = t.UseRegistrableDomain || c.useRegistrableDomain
	if len(t.BlacklistPatterns) > 0 {
		c.blacklistPatterns = t.BlacklistPatterns
	}
	if len(t.WhitelistPatterns) > 0 {
		c.whitelistPatterns = t.WhitelistPatterns
	}
	c.onlyWhitelist = t.OnlyWhitelist || c.onlyWhitelist

	if t.MaxHops != 0 {
		c.maxHops = t.MaxHops
	}
	if t.TimeoutSeconds != 0 {
		c.timeout = time.Duration(t.TimeoutSeconds) * time.Second
	}
	if t.UserAgent != "" {
		c.userAgent = t.UserAgent
	}
	if t.MaxContentBytes != 0 {
		c.maxContentBytes = t.MaxContentBytes
	}
	c.onlyRelMe = t.OnlyRelMe || c.onlyRelMe
	if t.MaxGlobalConcurrency != 0 {
		c.maxGlobalConcurrency = t.MaxGlobalConcurrency
	}
	c.useHeadlessFallback = t.UseHeadlessFallback || c.useHeadlessFallback

	if t.CacheDir != "" {
		c.cacheDir = t.CacheDir
		c.cacheOSDefault = false
	}
	if t.CacheTTLSeconds != 0 {
		c.cacheTTL = time.Duration(t.CacheTTLSeconds) * time.Second
	}
	c.cacheStoreErrors = t.CacheStoreErrors || c.cacheStoreErrors
}

// sameDomainPolicyFromString maps the file's string value onto the
// closed policy.SameDomainPolicy enum; an unrecognized value falls back
// to SameDomainFollow rather than failing the whole merge.
func sameDomainPolicyFromString(s string) policy.SameDomainPolicy {
	switch policy.SameDomainPolicy(s) {
	case policy.SameDomainNoSelf:
		return policy.SameDomainNoSelf
	case policy.SameDomainNoSelfOrSubdomain:
		return policy.SameDomainNoSelfOrSubdomain
	default:
		return policy.SameDomainFollow
	}
}
