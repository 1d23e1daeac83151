package scheduler

import (
	"fmt"

	"github.com/rohmanhakim/naive-backlink/pkg/failure"
)

type ErrorCause string

const (
	// ErrCauseParseInvariant covers an unexpected failure out of the HTML
	// parser, which runs in lenient mode and in practice never returns a
	// non-nil error for malformed-but-textual input. Seeing this is a bug
	// signal, not an expected crawl condition.
	ErrCauseParseInvariant ErrorCause = "parse-invariant"
	// ErrCauseCancelled covers a host-gate wait aborted by crawl shutdown.
	ErrCauseCancelled ErrorCause = "cancelled"
	// ErrCauseContentTooLarge names a fetched body exceeding
	// Config.MaxContentBytes. checkContentSize reports that case as a
	// fetcher.FetchError with fetcher.ErrCauseContentTooLarge rather than
	// as a SchedulerError: it is recorded and the URL is skipped without
	// extraction, per the content-class handling in §7(d).
	ErrCauseContentTooLarge ErrorCause = "content-too-large"
)

// SchedulerError is a fatal, non-retryable scheduler-level failure. It is
// distinct from a per-page fetch or parse failure: recording one aborts
// the crawl instead of merely skipping the offending URL.
type SchedulerError struct {
	Message string
	Cause   ErrorCause
}

func (e *SchedulerError) Error() string {
	return fmt.Sprintf("scheduler error: %s: %s", e.Cause, e.Message)
}

func (e *SchedulerError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *SchedulerError) IsRetryable() bool {
	return false
}
