// Package fetcher retrieves a URL and returns its cache-entry-compatible
// response shape. Two backends implement the same capability: a plain HTTP
// client (primary) and a headless-browser renderer (fallback, used only
// when the primary produced zero evidence). The scheduler depends only on
// this interface and never distinguishes between the two at call sites.
package fetcher

import (
	"context"

	"github.com/rohmanhakim/naive-backlink/pkg/failure"
	"github.com/rohmanhakim/naive-backlink/pkg/retry"
)

type Fetcher interface {
	Fetch(ctx context.Context, hops int, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError)
}
