package fetcher

import (
	"net/url"
	"time"
)

// FetchParam is the input to a single fetch attempt.
type FetchParam struct {
	URL       url.URL
	UserAgent string
	Timeout   time.Duration
}

func NewFetchParam(fetchURL url.URL, userAgent string, timeout time.Duration) FetchParam {
	return FetchParam{URL: fetchURL, UserAgent: userAgent, Timeout: timeout}
}

// FetchResult is the cache-entry-compatible shape every backend returns on
// success: the URL after following redirects, the response metadata, and
// the decoded text body.
type FetchResult struct {
	finalURL url.URL
	text     string
	meta     ResponseMeta
	fetchAt  time.Time
}

func (f FetchResult) FinalURL() url.URL {
	return f.finalURL
}

func (f FetchResult) Text() string {
	return f.text
}

func (f FetchResult) Status() int {
	return f.meta.statusCode
}

func (f FetchResult) ContentType() string {
	return f.meta.contentType
}

func (f FetchResult) Headers() map[string]string {
	return f.meta.headers
}

func (f FetchResult) SizeByte() uint64 {
	return uint64(len(f.text))
}

func (f FetchResult) FetchedAt() time.Time {
	return f.fetchAt
}

// ResponseMeta carries the parts of a response that feed cache storage and
// metadata recording.
type ResponseMeta struct {
	statusCode  int
	contentType string
	headers     map[string]string
}

// NewFetchResultForTest builds a FetchResult for test packages that cannot
// reach the unexported fields directly.
func NewFetchResultForTest(finalURL url.URL, text string, status int, contentType string, headers map[string]string, fetchAt time.Time) FetchResult {
	return FetchResult{
		finalURL: finalURL,
		text:     text,
		fetchAt:  fetchAt,
		meta: ResponseMeta{
			statusCode:  status,
			contentType: contentType,
			headers:     headers,
		},
	}
}
