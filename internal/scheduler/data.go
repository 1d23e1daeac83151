package scheduler

import (
	"net/url"
	"time"

	"github.com/rohmanhakim/naive-backlink/internal/policy"
	"github.com/rohmanhakim/naive-backlink/pkg/retry"
)

// role names the part a URL plays in the BFS. The algorithm never needs a
// fourth role: an origin's outlinks become candidates, a candidate's
// outlinks become neighbors, and a neighbor never enqueues anything
// further, so the frontier is never more than two hops deep however large
// MaxHops is configured. A smaller MaxHops prunes it further: a job whose
// hops reach MaxHops is never enqueued.
type role int

const (
	roleOrigin role = iota
	roleCandidate
	roleNeighbor
)

// job is a single unit of frontier work. target is unused for roleOrigin,
// holds the origin URL for roleCandidate (the mutuality check runs
// candidate->origin), and holds the pivot candidate URL for roleNeighbor
// (the mutuality check runs neighbor->pivot, and the same URL doubles as
// the parent pointer the spec calls for).
type job struct {
	url    url.URL
	hops   int
	role   role
	target url.URL
}

// Config is the subset of crawl-global configuration the scheduler needs.
// NewScheduler compiles Policy with policy.New; the scheduler consumes the
// resulting Engine plus MaxOutlinks for the per-page cap.
type Config struct {
	Policy               policy.Config
	MaxHops              int
	MaxGlobalConcurrency int
	OnlyRelMe            bool
	UseHeadlessFallback  bool
	UserAgent            string
	FetchTimeout         time.Duration
	MaxContentBytes      int64
	RetryParam           retry.RetryParam

	// BaseDelay, Jitter, and RandomSeed configure the courtesy pacing
	// applied between consecutive fetches to the same host, on top of the
	// hard one-in-flight-per-host admission the host gate already
	// enforces. Zero BaseDelay and zero Jitter together disable pacing.
	BaseDelay  time.Duration
	Jitter     time.Duration
	RandomSeed int64
}
