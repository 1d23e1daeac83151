package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rohmanhakim/naive-backlink/internal/metadata"
	"github.com/rohmanhakim/naive-backlink/pkg/failure"
	"github.com/rohmanhakim/naive-backlink/pkg/retry"
)

// HTTPFetcher is the primary fetch backend: a plain net/http client that
// follows redirects, enforces a per-fetch timeout, and rejects non-HTML
// content types before the body is handed further down the pipeline.
type HTTPFetcher struct {
	metadataSink metadata.MetadataSink
	client       *http.Client
}

func NewHTTPFetcher(metadataSink metadata.MetadataSink) HTTPFetcher {
	return HTTPFetcher{
		metadataSink: metadataSink,
		client:       &http.Client{},
	}
}

func (h HTTPFetcher) Fetch(ctx context.Context, hops int, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HTTPFetcher.Fetch"
	start := time.Now()

	result, err := h.fetchWithRetry(ctx, param, retryParam)
	duration := time.Since(start)

	var status int
	var contentType string
	if err != nil {
		h.recordFetchFailure(callerMethod, param, err)
	} else {
		status = result.Status()
		contentType = result.ContentType()
	}
	h.metadataSink.RecordFetch(param.URL.String(), status, duration, contentType, 0, hops)

	if err != nil {
		return FetchResult{}, err
	}
	return result, nil
}

func (h HTTPFetcher) recordFetchFailure(callerMethod string, param FetchParam, err failure.ClassifiedError) {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		h.metadataSink.RecordError(
			time.Now(), "fetcher", callerMethod,
			mapFetchErrorToMetadataCause(fetchErr), err.Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, param.URL.String())},
		)
		return
	}
	var retryErr *retry.RetryError
	if errors.As(err, &retryErr) {
		h.metadataSink.RecordError(
			time.Now(), "fetcher", callerMethod,
			metadata.CauseRetryFailure, err.Error(),
			[]metadata.Attribute{
				metadata.NewAttr(metadata.AttrMessage, retryErr.Error()),
				metadata.NewAttr(metadata.AttrURL, param.URL.String()),
			},
		)
	}
}

func (h HTTPFetcher) fetchWithRetry(ctx context.Context, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError) {
	task := func() (FetchResult, failure.ClassifiedError) {
		return h.performFetch(ctx, param)
	}

	outcome := retry.Retry(retryParam, task)
	if outcome.IsFailure() {
		return FetchResult{}, outcome.Err()
	}
	return outcome.Value(), nil
}

func (h HTTPFetcher) performFetch(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError) {
	fetchCtx := ctx
	var cancel context.CancelFunc
	if param.Timeout > 0 {
		fetchCtx, cancel = context.WithTimeout(ctx, param.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(fetchCtx, http.MethodGet, param.URL.String(), nil)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to create request: %v", err), Retryable: false, Cause: ErrCauseNetworkFailure,
		}
	}
	for key, value := range requestHeaders(param.UserAgent) {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		cause := ErrCauseNetworkFailure
		if fetchCtx.Err() != nil {
			cause = ErrCauseTimeout
		}
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("request failed: %v", err), Retryable: true, Cause: cause,
		}
	}
	defer resp.Body.Close()

	if fetchErr := classifyStatus(resp.StatusCode); fetchErr != nil {
		return FetchResult{}, fetchErr
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTMLContent(contentType) {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("non-HTML content type: %s", contentType), Retryable: false, Cause: ErrCauseContentTypeInvalid,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("failed to read response body: %v", err), Retryable: true, Cause: ErrCauseReadResponseBodyError,
		}
	}

	headers := make(map[string]string, len(resp.Header))
	for key, values := range resp.Header {
		if len(values) > 0 {
			headers[key] = values[0]
		}
	}

	return FetchResult{
		finalURL: *resp.Request.URL,
		text:     string(body),
		fetchAt:  time.Now(),
		meta: ResponseMeta{
			statusCode:  resp.StatusCode,
			contentType: contentType,
			headers:     headers,
		},
	}, nil
}

func classifyStatus(status int) *FetchError {
	switch {
	case status >= 500:
		return &FetchError{Message: fmt.Sprintf("server error: %d", status), Retryable: true, Cause: ErrCauseRequest5xx}
	case status == 429:
		return &FetchError{Message: "rate limited (429)", Retryable: true, Cause: ErrCauseRequestTooMany}
	case status == 403:
		return &FetchError{Message: "access forbidden (403)", Retryable: false, Cause: ErrCauseRequestForbidden}
	case status >= 400:
		return &FetchError{Message: fmt.Sprintf("client error: %d", status), Retryable: false, Cause: ErrCauseRequest4xx}
	case status >= 300:
		return &FetchError{Message: fmt.Sprintf("redirect error: %d", status), Retryable: false, Cause: ErrCauseRedirectLimitExceeded}
	}
	return nil
}

func isHTMLContent(contentType string) bool {
	lower := strings.ToLower(contentType)
	return strings.Contains(lower, "text/html") || strings.Contains(lower, "application/xhtml")
}

func requestHeaders(userAgent string) map[string]string {
	return map[string]string{
		"User-Agent":      userAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Connection":      "keep-alive",
	}
}
