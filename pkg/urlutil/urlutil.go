package urlutil

import "net/url"

// Normalize applies a deterministic normalization to a URL, producing a
// canonical form. It maps equivalent URL spellings to a single
// representation used for all equality and hashing across a crawl.
//
// The normalization follows these rules:
//   - Scheme and host are lowercased
//   - Trailing slashes are stripped from the path; bare root becomes empty
//   - Fragments are removed
//   - Query parameters are preserved as-is; a bare "?" with no query is dropped
//   - Default ports are omitted (e.g., :80 for http, :443 for https)
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
//   - Idempotent: Normalize(Normalize(url)) == Normalize(url)
//   - Never mutates path/query character case
func Normalize(sourceUrl url.URL) url.URL {
	// Create a copy to avoid mutating the original
	canonical := sourceUrl

	// Lowercase scheme and host
	canonical.Scheme = lowerASCII(canonical.Scheme)
	canonical.Host = lowerASCII(canonical.Host)

	// Remove default port if present
	if host, port := canonical.Hostname(), canonical.Port(); port != "" {
		if (canonical.Scheme == "http" && port == "80") ||
			(canonical.Scheme == "https" && port == "443") {
			canonical.Host = host
		}
	}

	// Clean the path: trailing slashes are stripped; bare root is empty
	if canonical.Path == "/" {
		canonical.Path = ""
	} else if len(canonical.Path) > 1 {
		canonical.Path = stripTrailingSlash(canonical.Path)
	}

	// Remove fragment (anchor); a non-empty query is left untouched and a
	// bare "?" with nothing after it is dropped
	canonical.Fragment = ""
	canonical.RawFragment = ""
	if canonical.RawQuery == "" {
		canonical.ForceQuery = false
	}

	return canonical
}

// Resolve turns a possibly-relative URL into an absolute one against base,
// following RFC 3986 reference resolution (as net/url.ResolveReference
// does): a path-relative href like "post1.html" resolves against base's
// directory, not its host root. Already-absolute URLs pass through
// unchanged.
func Resolve(candidate url.URL, base url.URL) url.URL {
	return *base.ResolveReference(&candidate)
}

// FilterByHost keeps only URLs whose host matches the given host exactly.
func FilterByHost(host string, urls []url.URL) []url.URL {
	kept := make([]url.URL, 0, len(urls))
	for _, u := range urls {
		if lowerASCII(u.Host) == lowerASCII(host) {
			kept = append(kept, u)
		}
	}
	return kept
}

// lowerASCII converts ASCII characters to lowercase, returning s itself
// without allocating when it has no uppercase ASCII letter.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := make([]byte, len(s))
	copy(b, s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes trailing slashes from a path.
func stripTrailingSlash(path string) string {
	for len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
