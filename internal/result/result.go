// Package result defines the canonical JSON shape a crawl_and_score
// invocation returns.
package result

import (
	"github.com/rohmanhakim/naive-backlink/internal/evidence"
	"github.com/rohmanhakim/naive-backlink/internal/scorer"
)

// CrawlError is a single ordered error entry for a URL the crawl could
// not process: a fetch failure, an oversized body, or a fatal scheduler
// failure (an unexpected parse error or a cancellation), which also
// aborts the crawl.
type CrawlError struct {
	URL        string `json:"url"`
	Message    string `json:"message"`
	Cause      string `json:"cause"`
	ObservedAt string `json:"observed_at,omitempty"`
}

// EndpointJSON is the wire shape of an evidence.Endpoint.
type EndpointJSON struct {
	URL     string `json:"url"`
	Context string `json:"context"`
}

// LinkJSON is the wire shape of an evidence.LinkDetail.
type LinkJSON struct {
	RawHTML  string   `json:"raw_html"`
	Rel      []string `json:"rel"`
	NoFollow bool     `json:"nofollow"`
}

// EvidenceJSON is the canonical serialized form of evidence.Record.
type EvidenceJSON struct {
	ID             string        `json:"id"`
	Kind           string        `json:"kind"`
	Source         EndpointJSON  `json:"source"`
	Target         EndpointJSON  `json:"target"`
	Link           *LinkJSON     `json:"link,omitempty"`
	Classification string        `json:"classification"`
	Hops           int           `json:"hops"`
	TrustedSurface bool          `json:"trusted_surface"`
	ObservedAt     string        `json:"observed_at,omitempty"`
	Notes          string        `json:"notes,omitempty"`
}

// Result is the top-level crawl_and_score return value.
type Result struct {
	OriginURL string         `json:"origin_url"`
	Score     int            `json:"score"`
	Label     string         `json:"label"`
	Evidence  []EvidenceJSON `json:"evidence"`
	Errors    []CrawlError   `json:"errors"`
}

// FromRecords assembles a Result from the origin URL, evidence records in
// insertion order, accumulated errors, and penalties for the scorer's
// documented hook point.
func FromRecords(originURL string, records []evidence.Record, errs []CrawlError, penalties float64) Result {
	score, label := scorer.Score(records, penalties)
	return Result{
		OriginURL: originURL,
		Score:     score,
		Label:     string(label),
		Evidence:  toEvidenceJSON(records),
		Errors:    errs,
	}
}

func toEvidenceJSON(records []evidence.Record) []EvidenceJSON {
	out := make([]EvidenceJSON, 0, len(records))
	for _, r := range records {
		var link *LinkJSON
		if r.Link != nil {
			link = &LinkJSON{RawHTML: r.Link.RawHTML, Rel: r.Link.Rel, NoFollow: r.Link.NoFollow}
		}
		out = append(out, EvidenceJSON{
			ID:             r.ID,
			Kind:           string(r.Kind),
			Source:         EndpointJSON{URL: r.Source.URL.String(), Context: string(r.Source.Context)},
			Target:         EndpointJSON{URL: r.Target.URL.String(), Context: string(r.Target.Context)},
			Link:           link,
			Classification: string(r.Classification),
			Hops:           r.Hops,
			TrustedSurface: r.TrustedSurface,
			ObservedAt:     r.ObservedAt,
			Notes:          r.Notes,
		})
	}
	return out
}
