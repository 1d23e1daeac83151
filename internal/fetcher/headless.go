package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rohmanhakim/naive-backlink/internal/metadata"
	"github.com/rohmanhakim/naive-backlink/pkg/failure"
	"github.com/rohmanhakim/naive-backlink/pkg/retry"
)

const networkIdleWait = 2 * time.Second

// HeadlessFetcher is the fallback backend: it renders the page in a
// headless Chrome instance so JavaScript-constructed links are visible to
// the extractor. It is only invoked when the primary backend produced zero
// evidence for a page, but its Fetch contract is otherwise identical to
// HTTPFetcher's.
type HeadlessFetcher struct {
	metadataSink metadata.MetadataSink
}

func NewHeadlessFetcher(metadataSink metadata.MetadataSink) HeadlessFetcher {
	return HeadlessFetcher{metadataSink: metadataSink}
}

func (h HeadlessFetcher) Fetch(ctx context.Context, hops int, param FetchParam, retryParam retry.RetryParam) (FetchResult, failure.ClassifiedError) {
	callerMethod := "HeadlessFetcher.Fetch"
	start := time.Now()

	task := func() (FetchResult, failure.ClassifiedError) {
		return h.render(ctx, param)
	}
	outcome := retry.Retry(retryParam, task)
	duration := time.Since(start)

	var status int
	var contentType string
	if outcome.IsFailure() {
		h.metadataSink.RecordError(
			time.Now(), "fetcher", callerMethod,
			metadata.CauseNetworkFailure, outcome.Err().Error(),
			[]metadata.Attribute{metadata.NewAttr(metadata.AttrURL, param.URL.String())},
		)
	} else {
		status = outcome.Value().Status()
		contentType = outcome.Value().ContentType()
	}
	h.metadataSink.RecordFetch(param.URL.String(), status, duration, contentType, 0, hops)

	if outcome.IsFailure() {
		return FetchResult{}, outcome.Err()
	}
	return outcome.Value(), nil
}

func (h HeadlessFetcher) render(ctx context.Context, param FetchParam) (FetchResult, failure.ClassifiedError) {
	renderCtx := ctx
	var timeoutCancel context.CancelFunc
	if param.Timeout > 0 {
		renderCtx, timeoutCancel = context.WithTimeout(ctx, param.Timeout)
		defer timeoutCancel()
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(renderCtx,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.UserAgent(param.UserAgent),
	)
	defer allocCancel()

	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(param.URL.String())); err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("headless navigate failed: %v", err), Retryable: true, Cause: ErrCauseNetworkFailure,
		}
	}

	if readyCtx, cancel := context.WithTimeout(browserCtx, 10*time.Second); true {
		_ = chromedp.Run(readyCtx, chromedp.WaitReady("body", chromedp.ByQuery))
		cancel()
	}
	if idleCtx, cancel := context.WithTimeout(browserCtx, networkIdleWait+time.Second); true {
		_ = chromedp.Run(idleCtx, waitForNetworkIdle(networkIdleWait))
		cancel()
	}

	var rendered string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &rendered, chromedp.ByQuery)); err != nil {
		return FetchResult{}, &FetchError{
			Message: fmt.Sprintf("headless read failed: %v", err), Retryable: true, Cause: ErrCauseNetworkFailure,
		}
	}

	return FetchResult{
		finalURL: param.URL,
		text:     rendered,
		fetchAt:  time.Now(),
		meta: ResponseMeta{
			statusCode:  200,
			contentType: "text/html",
			headers:     map[string]string{},
		},
	}, nil
}

// waitForNetworkIdle blocks until the page reports no in-flight resource or
// navigation timing entries for d, or a fallback timeout when the
// PerformanceObserver API is unavailable.
func waitForNetworkIdle(d time.Duration) chromedp.ActionFunc {
	js := `(function(waitMs){
      return new Promise((resolve)=>{
        if (!('PerformanceObserver' in window)) {
          setTimeout(resolve, waitMs);
          return;
        }
        let last = Date.now();
        const obs = new PerformanceObserver(()=>{ last = Date.now(); });
        try { obs.observe({entryTypes:['resource','navigation']}); } catch(e) {}
        const tick = () => {
          if (Date.now()-last >= waitMs) { try { obs.disconnect(); } catch(e){} resolve(); return; }
          setTimeout(tick, 100);
        };
        tick();
      });
    })(%d);`
	return func(ctx context.Context) error {
		return chromedp.Run(ctx, chromedp.Evaluate(fmt.Sprintf(js, int(d.Milliseconds())), nil))
	}
}
