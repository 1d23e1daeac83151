// Package patternmatch evaluates wildcard allow/deny patterns against a URL.
//
// A pattern is matched against six derived forms of the URL rather than the
// URL alone: the bare host, the host with a trailing slash, the host with a
// trailing "/*", and the same three forms with the path appended. This lets
// a single pattern like "github.com/sponsors/*" cover both the section root
// and anything nested under it without the caller having to enumerate forms.
package patternmatch

import (
	"net/url"
	"strings"

	"github.com/gobwas/glob"
)

// compiledPattern pairs the lowercased raw pattern text with its compiled
// glob, since the "*."-prefixed subdomain rule still needs the raw text.
type compiledPattern struct {
	raw string
	g   glob.Glob
}

// Matcher holds a precompiled set of patterns. Compiling once per crawl
// (rather than per candidate URL) keeps glob compilation off the hot path;
// each Match call still builds the six derived forms of its URL.
type Matcher struct {
	patterns []compiledPattern
}

// Compile builds a Matcher from raw wildcard patterns. Patterns are
// lowercased and trimmed; invalid glob syntax is skipped rather than
// rejected outright, since a single malformed entry in an operator-supplied
// list should not disable the rest.
func Compile(patterns []string) Matcher {
	compiled := make([]compiledPattern, 0, len(patterns))
	for _, pat := range patterns {
		p := strings.ToLower(strings.TrimSpace(pat))
		if p == "" {
			continue
		}
		g, err := glob.Compile(p)
		if err != nil {
			continue
		}
		compiled = append(compiled, compiledPattern{raw: p, g: g})
	}
	return Matcher{patterns: compiled}
}

// Empty reports whether the matcher holds no usable patterns.
func (m Matcher) Empty() bool {
	return len(m.patterns) == 0
}

// Match reports whether u matches any compiled pattern, testing each
// pattern against six candidate forms derived from u's host and path.
func (m Matcher) Match(u url.URL) bool {
	if len(m.patterns) == 0 {
		return false
	}
	host, hostPath := hostAndHostPath(u)
	if host == "" {
		return false
	}
	candidates := [...]string{
		host,
		host + "/",
		host + "/*",
		hostPath,
		hostPath + "/",
		hostPath + "/*",
	}
	for _, cp := range m.patterns {
		for _, c := range candidates {
			if cp.g.Match(c) {
				return true
			}
		}
		if strings.HasPrefix(cp.raw, "*.") {
			suffix := strings.TrimSuffix(strings.TrimSuffix(cp.raw[2:], "/*"), "/")
			if strings.HasSuffix(host, suffix) && host != suffix {
				return true
			}
		}
	}
	return false
}

// hostAndHostPath returns the lowercased host and "host/path" form of u,
// with the path's leading slash stripped. The host-only form is returned
// for hostPath when the path is empty, so a pattern written against a bare
// host still matches a path-less URL.
func hostAndHostPath(u url.URL) (host, hostPath string) {
	host = strings.ToLower(u.Host)
	path := strings.ToLower(strings.TrimPrefix(u.Path, "/"))
	if path == "" {
		return host, host
	}
	return host, host + "/" + path
}
