// Package policy decides whether a candidate URL discovered on a fetched
// page is allowed to enter the crawl frontier.
package policy

import (
	"net/url"
	"strings"

	"github.com/rohmanhakim/naive-backlink/internal/patternmatch"
	"github.com/rohmanhakim/naive-backlink/internal/urlx"
)

// Claimed reports whether a candidate URL has already been visited, is
// already queued, or was already chosen earlier in the current source
// page's batch. The scheduler owns this bookkeeping; the engine only
// consults it.
type Claimed func(u url.URL) bool

// Engine evaluates candidate URLs against a compiled Config. Pattern lists
// are compiled once at construction so per-candidate evaluation never
// touches the glob compiler.
type Engine struct {
	cfg       Config
	blacklist patternmatch.Matcher
	whitelist patternmatch.Matcher
}

// New compiles cfg's pattern lists and returns a ready-to-use Engine.
func New(cfg Config) Engine {
	return Engine{
		cfg:       cfg,
		blacklist: patternmatch.Compile(cfg.BlacklistPatterns),
		whitelist: patternmatch.Compile(cfg.WhitelistPatterns),
	}
}

// ShouldEnqueue evaluates candidate against origin under the six block
// conditions of the policy engine, in the order the spec lists them, and
// returns the first reason that fires. BlockReasonNone means admit.
func (e Engine) ShouldEnqueue(candidate, origin url.URL, claimed Claimed) BlockReason {
	if !urlx.IsFetchable(candidate) {
		return BlockReasonNotFetchable
	}
	if !urlx.HasHTMLLikePath(candidate) {
		return BlockReasonNotHTMLLike
	}
	if e.cfg.OnlyWhitelist {
		if e.whitelist.Empty() || !e.whitelist.Match(candidate) {
			return BlockReasonNotWhitelisted
		}
	} else if e.blacklist.Match(candidate) {
		return BlockReasonBlacklisted
	}
	if e.blocksSameDomain(candidate, origin) {
		return BlockReasonSameDomainRule
	}
	if claimed != nil && claimed(candidate) {
		return BlockReasonAlreadyClaimed
	}
	return BlockReasonNone
}

// blocksSameDomain implements condition 5: exact-host or subdomain
// exclusion relative to origin, compared on registrable domain when
// UseRegistrableDomain is set.
func (e Engine) blocksSameDomain(candidate, origin url.URL) bool {
	switch e.cfg.SameDomainPolicy {
	case SameDomainNoSelf:
		return e.compareHost(candidate.Host) == e.compareHost(origin.Host)
	case SameDomainNoSelfOrSubdomain:
		c := e.compareHost(candidate.Host)
		o := e.compareHost(origin.Host)
		if c == o {
			return true
		}
		return isSubdomain(candidate.Host, origin.Host) || isSubdomain(origin.Host, candidate.Host)
	case SameDomainFollow, "":
		return false
	default:
		return false
	}
}

func (e Engine) compareHost(host string) string {
	if e.cfg.UseRegistrableDomain {
		return urlx.RegistrableOrHost(host)
	}
	return strings.ToLower(host)
}

// isSubdomain reports whether host is a strict subdomain of base (host
// ends with "."+base and is longer than base).
func isSubdomain(host, base string) bool {
	h := strings.ToLower(host)
	b := strings.ToLower(base)
	return len(h) > len(b) && strings.HasSuffix(h, "."+b)
}

// BlockedByPattern reports whether candidate is blocked by the allow/deny
// pattern conditions alone (conditions 3 and 4), independent of the
// same-domain and already-claimed checks. The scheduler uses this as a
// pre-fetch gate applied to every dequeued URL, including seeds and the
// origin itself, which never go through the full ShouldEnqueue admission
// path that outlinks do.
func (e Engine) BlockedByPattern(candidate url.URL) bool {
	if e.cfg.OnlyWhitelist {
		return e.whitelist.Empty() || !e.whitelist.Match(candidate)
	}
	return e.blacklist.Match(candidate)
}

// TakeUpTo returns the first n survivors from candidates, implementing the
// per-source-page outlink cap. A non-positive n is treated as unbounded.
func TakeUpTo(n int, candidates []url.URL) []url.URL {
	if n <= 0 || len(candidates) <= n {
		return candidates
	}
	return candidates[:n]
}
