package metadata

/*
Metadata Collected
- Fetch timestamps, HTTP status codes, content types
- Crawl hop depth
- Evidence and cache artifact writes

Logging Goals
- Debuggable crawl behavior
- Post-run auditability
- Failure diagnostics

Structured logging is preferred. Allowed field values: primitives,
timestamps, URLs (as values), status codes, durations, identifiers.
*/

import (
	"time"

	"github.com/rs/zerolog"
)

// MetadataSink receives observational events emitted during a crawl. No
// implementation may use these calls to influence scheduling, retries, or
// termination — recording is a side channel, never a decision point.
type MetadataSink interface {
	RecordFetch(fetchURL string, status int, duration time.Duration, contentType string, retryCount int, hops int)
	RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, errString string, attrs []Attribute)
	RecordArtifact(kind ArtifactKind, path string, attrs []Attribute)
}

// CrawlFinalizer records the terminal summary of a completed crawl exactly
// once, after the scheduler has stopped admitting new work.
type CrawlFinalizer interface {
	RecordFinalCrawlStats(stats CrawlStats)
}

// Recorder is the zerolog-backed implementation of MetadataSink and
// CrawlFinalizer used outside of tests.
type Recorder struct {
	logger  zerolog.Logger
	crawlID string
}

// NewRecorder returns a Recorder tagging every event with crawlID.
func NewRecorder(crawlID string, logger zerolog.Logger) Recorder {
	return Recorder{
		logger:  logger.With().Str("crawl_id", crawlID).Logger(),
		crawlID: crawlID,
	}
}

func (r *Recorder) RecordFetch(fetchURL string, status int, duration time.Duration, contentType string, retryCount int, hops int) {
	r.logger.Info().
		Str("event", "fetch").
		Str("url", fetchURL).
		Int("status", status).
		Dur("duration", duration).
		Str("content_type", contentType).
		Int("retry_count", retryCount).
		Int("hops", hops).
		Msg("fetch completed")
}

func (r *Recorder) RecordError(observedAt time.Time, packageName, action string, cause ErrorCause, errString string, attrs []Attribute) {
	event := r.logger.Warn().
		Str("event", "error").
		Time("observed_at", observedAt).
		Str("package", packageName).
		Str("action", action).
		Int("cause", int(cause))
	for _, a := range attrs {
		event = event.Str(string(a.Key), a.Value)
	}
	event.Msg(errString)
}

func (r *Recorder) RecordArtifact(kind ArtifactKind, path string, attrs []Attribute) {
	event := r.logger.Info().
		Str("event", "artifact").
		Str("kind", string(kind)).
		Str("path", path)
	for _, a := range attrs {
		event = event.Str(string(a.Key), a.Value)
	}
	event.Msg("artifact recorded")
}

func (r *Recorder) RecordFinalCrawlStats(stats CrawlStats) {
	r.logger.Info().
		Str("event", "crawl_finished").
		Int("total_pages", stats.TotalPages).
		Int("total_errors", stats.TotalErrors).
		Int("total_evidence", stats.TotalEvidence).
		Int64("duration_ms", stats.DurationMs).
		Msg("crawl finished")
}
