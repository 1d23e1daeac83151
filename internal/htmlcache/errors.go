package htmlcache

import (
	"fmt"

	"github.com/rohmanhakim/naive-backlink/pkg/failure"
)

type ErrorCause string

const (
	ErrCauseOpenFailed   ErrorCause = "open-failed"
	ErrCauseWriteFailed  ErrorCause = "write-failed"
	ErrCauseReadFailed   ErrorCause = "read-failed"
	ErrCauseEncodeFailed ErrorCause = "encode-failed"
)

type CacheError struct {
	Message   string
	Retryable bool
	Cause     ErrorCause
}

func (e *CacheError) Error() string {
	return fmt.Sprintf("htmlcache: %s: %s", e.Cause, e.Message)
}

func (e *CacheError) Severity() failure.Severity {
	if e.Retryable {
		return failure.SeverityRecoverable
	}
	return failure.SeverityFatal
}
