// Package scheduler runs the breadth-first, hop-bounded crawl: it seeds a
// frontier from an origin URL (or an explicit candidate list), fetches and
// extracts links from each admitted URL through a bounded worker pool, and
// emits evidence records for direct and transitive mutual backlinks. A
// single owner goroutine holds all mutable crawl state (visited set,
// parent pointers, confirmed pivots, evidence, errors); workers only
// fetch and extract, so nothing about link-discovery ordering needs a
// lock.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"

	"github.com/rohmanhakim/naive-backlink/internal/evidence"
	"github.com/rohmanhakim/naive-backlink/internal/fetcher"
	"github.com/rohmanhakim/naive-backlink/internal/frontier"
	"github.com/rohmanhakim/naive-backlink/internal/htmlcache"
	"github.com/rohmanhakim/naive-backlink/internal/linkextract"
	"github.com/rohmanhakim/naive-backlink/internal/metadata"
	"github.com/rohmanhakim/naive-backlink/internal/policy"
	"github.com/rohmanhakim/naive-backlink/internal/ratelimit"
	"github.com/rohmanhakim/naive-backlink/internal/result"
	"github.com/rohmanhakim/naive-backlink/internal/urlx"
	"github.com/rohmanhakim/naive-backlink/pkg/failure"
	"github.com/rohmanhakim/naive-backlink/pkg/retry"
	"github.com/rohmanhakim/naive-backlink/pkg/urlutil"
)

// Scheduler owns a single crawl's frontier and backend dependencies. It is
// not safe to reuse across concurrent Run calls; build a fresh one per
// crawl.
type Scheduler struct {
	cfg             Config
	policyEngine    policy.Engine
	primaryFetcher  fetcher.Fetcher
	headlessFetcher fetcher.Fetcher
	cache           *htmlcache.Cache
	metadataSink    metadata.MetadataSink
	crawlFinalizer  metadata.CrawlFinalizer
	hostGate        *hostGate
	limiter         *ratelimit.Limiter

	originURL       url.URL
	claimedURLs     frontier.Set[string]
	parent          map[string]url.URL
	pivotConfirmed  frontier.Set[string]
	evidenceBuilder *evidence.Builder
	evidenceRecords []evidence.Record
	errs            []result.CrawlError
}

// NewScheduler wires a Scheduler from its backend dependencies. headless
// may be nil, in which case cfg.UseHeadlessFallback is treated as false
// regardless of its configured value.
func NewScheduler(
	cfg Config,
	primary fetcher.Fetcher,
	headless fetcher.Fetcher,
	cache *htmlcache.Cache,
	sink metadata.MetadataSink,
	finalizer metadata.CrawlFinalizer,
) *Scheduler {
	return &Scheduler{
		cfg:             cfg,
		policyEngine:    policy.New(cfg.Policy),
		primaryFetcher:  primary,
		headlessFetcher: headless,
		cache:           cache,
		metadataSink:    sink,
		crawlFinalizer:  finalizer,
		hostGate:        newHostGate(),
		limiter:         ratelimit.New(cfg.BaseDelay, cfg.Jitter, cfg.RandomSeed),
		claimedURLs:     frontier.NewSet[string](),
		parent:          make(map[string]url.URL),
		pivotConfirmed:  frontier.NewSet[string](),
		evidenceBuilder: evidence.NewBuilder(),
	}
}

// jobResult is what a worker hands back to the owner after processing one
// job. elements is the final element set used for both detection and
// further link discovery: when a headless fallback re-fetch runs and
// finds the backlink the primary missed, elements reflects the
// JS-rendered page instead.
type jobResult struct {
	job             job
	err             failure.ClassifiedError
	elements        []linkextract.Element
	backlinkElement linkextract.Element
	backlinkFound   bool
	finalURL        url.URL
}

// Run crawls originURL (and, when supplied, an explicit set of candidate
// seed URLs) and returns every evidence record and crawl error produced.
// A non-nil returned error is always fatal and the crawl was aborted
// mid-flight: the HTML parser failed unexpectedly, or ctx was cancelled
// while a job waited for its host.
func (s *Scheduler) Run(ctx context.Context, originURL url.URL, seedURLs []url.URL) ([]evidence.Record, []result.CrawlError, failure.ClassifiedError) {
	s.originURL = urlx.Normalize(originURL)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	queue := frontier.NewFIFOQueue[job]()
	if len(seedURLs) == 0 {
		s.enqueue(queue, job{url: s.originURL, hops: 0, role: roleOrigin})
	} else {
		s.claimedURLs.Add(s.originURL.String())
		for _, seed := range seedURLs {
			normalized := urlx.Normalize(seed)
			s.enqueue(queue, job{url: normalized, hops: 1, role: roleCandidate, target: s.originURL})
		}
	}

	workerCount := s.cfg.MaxGlobalConcurrency
	if workerCount < 1 {
		workerCount = 1
	}

	jobsChan := make(chan job)
	resultsChan := make(chan jobResult)
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobsChan {
				resultsChan <- s.processJob(runCtx, j)
			}
		}()
	}

	var fatalErr failure.ClassifiedError
	pending := 0
	start := time.Now()

	for queue.Size() > 0 || pending > 0 {
		if fatalErr != nil {
			// Draining mode: stop admitting new work, wait out in-flight jobs.
			if pending == 0 {
				break
			}
			<-resultsChan
			pending--
			continue
		}
		if queue.Size() > 0 {
			next, _ := queue.Dequeue()
			if s.policyEngine.BlockedByPattern(next.url) {
				continue
			}
			select {
			case jobsChan <- next:
				pending++
			case res := <-resultsChan:
				// The front job lost the race against an in-flight
				// completion; put it back at the tail rather than drop it.
				queue.Enqueue(next)
				pending--
				if err := s.handleResult(queue, res); err != nil {
					fatalErr = err
				}
			}
			continue
		}
		res := <-resultsChan
		pending--
		if err := s.handleResult(queue, res); err != nil {
			fatalErr = err
		}
	}

	close(jobsChan)
	wg.Wait()

	if s.crawlFinalizer != nil {
		s.crawlFinalizer.RecordFinalCrawlStats(metadata.CrawlStats{
			TotalPages:    s.claimedURLs.Size(),
			TotalErrors:   len(s.errs),
			TotalEvidence: len(s.evidenceRecords),
			DurationMs:    time.Since(start).Milliseconds(),
		})
	}

	return s.evidenceRecords, s.errs, fatalErr
}

// handleResult applies the role-specific business rules for a completed
// job and enqueues whatever new work it produces. It is only ever called
// from the owner loop in Run, so it never needs to synchronize against
// the worker pool.
func (s *Scheduler) handleResult(queue *frontier.FIFOQueue[job], res jobResult) failure.ClassifiedError {
	j := res.job
	if res.err != nil {
		s.errs = append(s.errs, result.CrawlError{
			URL:     j.url.String(),
			Message: res.err.Error(),
			Cause:   causeString(res.err),
		})
		var fatal *SchedulerError
		if errors.As(res.err, &fatal) {
			return fatal
		}
		return nil
	}

	switch j.role {
	case roleOrigin:
		s.admitOutlinks(queue, j.url, j.hops, res.elements)
	case roleCandidate:
		s.handleCandidateResult(queue, j, res)
	case roleNeighbor:
		s.handleNeighborResult(j, res)
	}
	return nil
}

// admitOutlinks runs the policy engine over every link found on the
// origin page and enqueues the survivors, up to the configured outlink
// cap, as hop=1 candidates.
func (s *Scheduler) admitOutlinks(queue *frontier.FIFOQueue[job], source url.URL, hops int, elements []linkextract.Element) {
	survivors := s.policyFilteredCandidates(source, elements)
	survivors = policy.TakeUpTo(s.cfg.Policy.MaxOutlinks, survivors)
	for _, candidate := range survivors {
		s.enqueue(queue, job{url: candidate, hops: hops + 1, role: roleCandidate, target: s.originURL})
	}
}

// handleCandidateResult implements step 6 of per-URL processing: attempt
// the direct candidate->origin mutuality check, and on success (honoring
// only_rel_me) emit direct evidence, confirm the pivot, and enqueue the
// candidate's own outlinks as second-hop neighbors.
func (s *Scheduler) handleCandidateResult(queue *frontier.FIFOQueue[job], j job, res jobResult) {
	if !res.backlinkFound {
		return
	}
	if s.cfg.OnlyRelMe && !res.backlinkElement.HasRelToken("me") {
		return
	}

	rec := s.evidenceBuilder.MakeEvidence(
		res.backlinkElement,
		evidence.Endpoint{URL: j.url, Context: evidence.ContextCandidatePage},
		evidence.Endpoint{URL: s.originURL, Context: evidence.ContextOriginPage},
		j.hops,
		s.cfg.Policy.TrustedDomains,
		"",
	)
	s.evidenceRecords = append(s.evidenceRecords, rec)

	if normalizedFinal := urlx.Normalize(res.finalURL); res.finalURL != (url.URL{}) && normalizedFinal != j.url {
		redirectRec := s.evidenceBuilder.MakeRedirectEvidence(
			evidence.Endpoint{URL: j.url, Context: evidence.ContextCandidatePage},
			evidence.Endpoint{URL: normalizedFinal, Context: evidence.ContextCandidatePage},
			j.hops,
			"",
		)
		s.evidenceRecords = append(s.evidenceRecords, redirectRec)
	}

	pivotKey := j.url.String()
	s.pivotConfirmed.Add(pivotKey)

	neighbors := s.policyFilteredCandidates(j.url, res.elements)
	neighbors = policy.TakeUpTo(s.cfg.Policy.MaxOutlinks, neighbors)
	for _, neighbor := range neighbors {
		nKey := neighbor.String()
		if _, exists := s.parent[nKey]; !exists {
			s.parent[nKey] = j.url
		}
		s.enqueue(queue, job{url: neighbor, hops: j.hops + 1, role: roleNeighbor, target: j.url})
	}
}

// handleNeighborResult implements step 7: attempt the neighbor->pivot
// mutuality check and, only if the pivot was independently confirmed via
// its own direct backlink to the origin, emit indirect evidence. This
// ordering guarantee (direct evidence for a pivot always precedes any
// indirect evidence naming it) falls out of pivotConfirmed membership
// being set exclusively in handleCandidateResult.
func (s *Scheduler) handleNeighborResult(j job, res jobResult) {
	if s.cfg.OnlyRelMe {
		return
	}
	if !res.backlinkFound {
		return
	}
	pivot := j.target
	if !s.pivotConfirmed.Contains(pivot.String()) {
		return
	}
	rec := s.evidenceBuilder.MakeIndirectEvidence(s.originURL, pivot, j.url, j.hops, "")
	s.evidenceRecords = append(s.evidenceRecords, rec)
}

// policyFilteredCandidates resolves every element's href against source
// and returns the ones the policy engine admits, in document order.
func (s *Scheduler) policyFilteredCandidates(source url.URL, elements []linkextract.Element) []url.URL {
	var out []url.URL
	for _, el := range elements {
		parsed, err := url.Parse(el.Href)
		if err != nil {
			continue
		}
		resolved := urlutil.Resolve(*parsed, source)
		normalized := urlx.Normalize(resolved)
		if s.policyEngine.ShouldEnqueue(normalized, s.originURL, s.claimed) != policy.BlockReasonNone {
			continue
		}
		out = append(out, normalized)
	}
	return out
}

func (s *Scheduler) claimed(u url.URL) bool {
	return s.claimedURLs.Contains(u.String())
}

// enqueue admits job into the frontier unless it is already claimed or
// exceeds the configured hop bound. Marking claimed here, rather than at
// dispatch time, is what guarantees a URL is never fetched twice within a
// crawl even when several pages discover it concurrently.
func (s *Scheduler) enqueue(queue *frontier.FIFOQueue[job], j job) {
	if j.hops >= s.cfg.MaxHops {
		return
	}
	key := j.url.String()
	if s.claimedURLs.Contains(key) {
		return
	}
	s.claimedURLs.Add(key)
	queue.Enqueue(j)
}

// processJob runs entirely on a worker goroutine: acquire the per-host
// gate, fetch (cache-or-backend), parse, extract, and — for non-origin
// roles — attempt the mutuality check against the role's target, falling
// back to the headless backend when the primary backend found nothing
// and the fallback is enabled.
func (s *Scheduler) processJob(ctx context.Context, j job) jobResult {
	fr, ferr := s.fetchWithBackend(ctx, j, s.primaryFetcher, true)
	if ferr != nil {
		return jobResult{job: j, err: ferr}
	}

	if oversizedErr := s.checkContentSize(fr); oversizedErr != nil {
		return jobResult{job: j, err: oversizedErr}
	}

	elements, perr := s.extractElements(fr)
	if perr != nil {
		return jobResult{job: j, err: perr}
	}

	finalURL := fr.FinalURL()

	if j.role == roleOrigin {
		return jobResult{job: j, elements: elements, finalURL: finalURL}
	}

	el, found := evidence.DetectBacklink(j.url, j.target, elements)
	if !found && s.cfg.UseHeadlessFallback && s.headlessFetcher != nil {
		// The cache holds the primary backend's static HTML; a page that
		// reached this point already has an eligible cache entry but failed
		// detection against it, so the fallback must re-render live rather
		// than read the same snapshot back.
		if fr2, ferr2 := s.fetchWithBackend(ctx, j, s.headlessFetcher, false); ferr2 == nil {
			if elements2, perr2 := s.extractElements(fr2); perr2 == nil {
				if el2, found2 := evidence.DetectBacklink(j.url, j.target, elements2); found2 {
					elements, el, found = elements2, el2, found2
					finalURL = fr2.FinalURL()
				} else {
					elements = elements2
				}
			}
		}
	}

	return jobResult{job: j, elements: elements, backlinkElement: el, backlinkFound: found, finalURL: finalURL}
}

// checkContentSize enforces MaxContentBytes (§5/§7d): a body over the
// configured bound is recorded as a note and the URL is skipped without
// extraction, the same way a non-HTML content type is. A non-positive
// MaxContentBytes disables the check.
func (s *Scheduler) checkContentSize(fr fetcher.FetchResult) failure.ClassifiedError {
	if s.cfg.MaxContentBytes <= 0 {
		return nil
	}
	if fr.SizeByte() <= uint64(s.cfg.MaxContentBytes) {
		return nil
	}
	return &fetcher.FetchError{
		Message:   fmt.Sprintf("body is %d bytes, exceeds max_content_bytes %d", fr.SizeByte(), s.cfg.MaxContentBytes),
		Retryable: false,
		Cause:     fetcher.ErrCauseContentTooLarge,
	}
}

func (s *Scheduler) extractElements(fr fetcher.FetchResult) ([]linkextract.Element, failure.ClassifiedError) {
	doc, err := html.Parse(strings.NewReader(fr.Text()))
	if err != nil {
		return nil, &SchedulerError{Message: err.Error(), Cause: ErrCauseParseInvariant}
	}
	return linkextract.Extract(doc), nil
}

// cachedFinalURL parses entry's stored final URL so a cache hit can still
// surface a redirect that happened on the fetch that originally populated
// the entry. requested is the fallback when the entry predates FinalURL
// being recorded or the stored value fails to parse.
func cachedFinalURL(entry htmlcache.Entry, requested url.URL) url.URL {
	if entry.FinalURL == "" {
		return requested
	}
	parsed, err := url.Parse(entry.FinalURL)
	if err != nil {
		return requested
	}
	return *parsed
}

func (s *Scheduler) fetchWithBackend(ctx context.Context, j job, backend fetcher.Fetcher, useCache bool) (fetcher.FetchResult, failure.ClassifiedError) {
	normalized := urlx.Normalize(j.url)
	key := normalized.String()
	if useCache {
		if entry, ok := s.cache.Get(key); ok {
			return fetcher.NewFetchResultForTest(cachedFinalURL(entry, j.url), entry.Text, entry.Status, entry.ContentType, entry.Headers, entry.StoredAt), nil
		}
	}

	if err := s.hostGate.acquire(ctx, normalized.Host); err != nil {
		return fetcher.FetchResult{}, &SchedulerError{Message: err.Error(), Cause: ErrCauseCancelled}
	}
	defer s.hostGate.release(normalized.Host)

	if err := sleepContext(ctx, s.limiter.ResolveDelay(normalized.Host)); err != nil {
		return fetcher.FetchResult{}, &SchedulerError{Message: err.Error(), Cause: ErrCauseCancelled}
	}
	fr, ferr := backend.Fetch(ctx, j.hops, fetcher.NewFetchParam(j.url, s.cfg.UserAgent, s.cfg.FetchTimeout), s.cfg.RetryParam)
	s.limiter.MarkLastFetchAsNow(normalized.Host)
	if ferr != nil {
		return fetcher.FetchResult{}, ferr
	}

	_ = s.cache.SetHTMLOK(key, htmlcache.Entry{
		FinalURL:    fr.FinalURL().String(),
		Status:      fr.Status(),
		Headers:     fr.Headers(),
		Text:        fr.Text(),
		ContentType: fr.ContentType(),
		StoredAt:    fr.FetchedAt(),
	})
	return fr, nil
}

// sleepContext waits out d, the host's resolved courtesy delay, unless ctx
// is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// causeString derives a short, stable cause label for a CrawlError from
// whichever concrete error type produced it.
func causeString(err failure.ClassifiedError) string {
	var fetchErr *fetcher.FetchError
	if errors.As(err, &fetchErr) {
		return string(fetchErr.Cause)
	}
	var retryErr *retry.RetryError
	if errors.As(err, &retryErr) {
		return string(retryErr.Cause)
	}
	var cacheErr *htmlcache.CacheError
	if errors.As(err, &cacheErr) {
		return string(cacheErr.Cause)
	}
	var schedErr *SchedulerError
	if errors.As(err, &schedErr) {
		return string(schedErr.Cause)
	}
	return "unknown"
}
