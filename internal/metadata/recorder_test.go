package metadata

import (
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func newTestRecorder(buf *bytes.Buffer) Recorder {
	logger := zerolog.New(buf)
	return NewRecorder("test-crawl", logger)
}

func TestRecordFetchLogsEvent(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRecorder(&buf)
	r.RecordFetch("https://example.com", 200, 120*time.Millisecond, "text/html", 0, 1)
	out := buf.String()
	assert.Contains(t, out, `"event":"fetch"`)
	assert.Contains(t, out, `"url":"https://example.com"`)
	assert.Contains(t, out, `"crawl_id":"test-crawl"`)
}

func TestRecordErrorIncludesAttributes(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRecorder(&buf)
	r.RecordError(time.Now(), "fetcher", "Fetch", CauseNetworkFailure, "boom", []Attribute{
		NewAttr(AttrURL, "https://example.com"),
	})
	out := buf.String()
	assert.Contains(t, out, `"package":"fetcher"`)
	assert.Contains(t, out, `"url":"https://example.com"`)
	assert.Contains(t, out, "boom")
}

func TestRecordArtifactIncludesKind(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRecorder(&buf)
	r.RecordArtifact(ArtifactCacheEntry, "/tmp/cache/entry", nil)
	assert.Contains(t, buf.String(), `"kind":"cache-entry"`)
}

func TestRecordFinalCrawlStats(t *testing.T) {
	var buf bytes.Buffer
	r := newTestRecorder(&buf)
	r.RecordFinalCrawlStats(CrawlStats{TotalPages: 3, TotalErrors: 1, TotalEvidence: 2, DurationMs: 500})
	out := buf.String()
	assert.Contains(t, out, `"total_pages":3`)
	assert.Contains(t, out, `"crawl_finished"`)
}
