package evidence

import "net/url"

// Kind is the closed set of evidence categories a detected link can fall
// into. The detector produces backlink and rel-me, and the scheduler adds
// redirect for a candidate served from a different final URL; mention,
// profile, and platform-verified are reserved for
// evidence sources this crawler does not itself originate but that a
// caller may merge into the same record shape.
type Kind string

const (
	KindBacklink          Kind = "backlink"
	KindRelMe             Kind = "rel-me"
	KindMention           Kind = "mention"
	KindRedirect          Kind = "redirect"
	KindProfile           Kind = "profile"
	KindPlatformVerified  Kind = "platform-verified"
)

// Classification is the strength bucket a piece of evidence falls into,
// which is what the scorer actually consumes.
type Classification string

const (
	ClassificationStrong   Classification = "strong"
	ClassificationWeak     Classification = "weak"
	ClassificationIndirect Classification = "indirect"
)

// Context names which role a URL played when an element was observed.
type Context string

const (
	ContextOriginPage    Context = "origin-page"
	ContextCandidatePage Context = "candidate-page"
)

// Endpoint pairs a normalized URL with the page context it was observed in.
type Endpoint struct {
	URL     url.URL
	Context Context
}

// LinkDetail captures the raw element a direct evidence record was built
// from. Indirect evidence carries no LinkDetail.
type LinkDetail struct {
	RawHTML  string
	Rel      []string
	NoFollow bool
}

// Record is the canonical evidence shape, serialized verbatim into the
// crawl result.
type Record struct {
	ID             string
	Kind           Kind
	Source         Endpoint
	Target         Endpoint
	Link           *LinkDetail
	Classification Classification
	Hops           int
	TrustedSurface bool
	ObservedAt     string
	Notes          string
}
