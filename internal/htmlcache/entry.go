package htmlcache

import (
	"strings"
	"time"
)

// Entry is a single cached HTTP response, keyed by normalized URL.
type Entry struct {
	FinalURL    string            `json:"final_url"`
	Status      int               `json:"status"`
	Headers     map[string]string `json:"headers"`
	Text        string            `json:"text"`
	ContentType string            `json:"content_type"`
	StoredAt    time.Time         `json:"stored_at"`
}

// eligible reports whether e satisfies the cache's write/read gating
// predicates: a 200 response whose content type includes "text/html".
func (e Entry) eligible() bool {
	return e.Status == 200 && strings.Contains(e.ContentType, "text/html")
}
