package metadata

import "time"

/*
ErrorCause is a closed, canonical classification used exclusively for
observability (logging, metrics, reporting).

Rules:
  - ErrorCause is for observability only.
  - It must never be used to derive retry, continuation, or abort decisions.
  - ErrorCause MUST NOT influence control flow.
  - Pipeline packages MAY map their local errors to ErrorCause, but MUST
    NOT invent new meanings.

If a failure does not clearly match a defined cause, CauseUnknown MUST be
used.
*/
type ErrorCause int

const (
	// CauseUnknown is the safe fallback for failures that don't map
	// cleanly to any known category.
	CauseUnknown ErrorCause = iota
	// CauseNetworkFailure covers transport or remote-availability failures:
	// timeouts, DNS resolution failures, connection resets.
	CauseNetworkFailure
	// CausePolicyDisallow covers a candidate URL rejected by the policy
	// engine (blacklist match, scheme, same-domain rule, outlink cap).
	CausePolicyDisallow
	// CauseContentInvalid covers fetched content that could not be
	// processed meaningfully: non-HTML responses, unparseable DOM.
	CauseContentInvalid
	// CauseStorageFailure covers failures persisting cache entries.
	CauseStorageFailure
	// CauseRetryFailure covers exhaustion of the retry budget.
	CauseRetryFailure
	// CauseInvariantViolation covers a system-level invariant violation.
	CauseInvariantViolation
)

// ErrorRecord is a single observability event. It must never influence
// crawl control flow.
type ErrorRecord struct {
	PackageName string
	Action      string
	Cause       ErrorCause
	ErrorString string
	ObservedAt  time.Time
	Attrs       []Attribute
}

// ArtifactKind classifies the kind of artifact a RecordArtifact call names.
type ArtifactKind string

const (
	ArtifactCacheEntry ArtifactKind = "cache-entry"
	ArtifactResultJSON ArtifactKind = "result-json"
)

type Attribute struct {
	Key   AttributeKey
	Value string
}

func NewAttr(key AttributeKey, val string) Attribute {
	return Attribute{Key: key, Value: val}
}

type AttributeKey string

const (
	AttrTime       AttributeKey = "time"
	AttrURL        AttributeKey = "url"
	AttrHost       AttributeKey = "host"
	AttrPath       AttributeKey = "path"
	AttrHops       AttributeKey = "hops"
	AttrField      AttributeKey = "field"
	AttrHTTPStatus AttributeKey = "http_status"
	AttrWritePath  AttributeKey = "write_path"
	AttrMessage    AttributeKey = "message"
)

// CrawlStats is a terminal, derived summary of a completed crawl. It is
// computed once after crawl termination and must never influence
// scheduling, retries, or crawl termination.
type CrawlStats struct {
	TotalPages    int
	TotalErrors   int
	TotalEvidence int
	DurationMs    int64
}
