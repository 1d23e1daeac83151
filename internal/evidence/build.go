package evidence

import (
	"fmt"
	"net/url"

	"github.com/rohmanhakim/naive-backlink/internal/linkextract"
)

// Builder assigns monotonically increasing, classification-scoped
// ordinals to evidence records as they are produced, so IDs stay unique
// within a single crawl result.
type Builder struct {
	nextDirect   int
	nextIndirect int
}

// NewBuilder returns a Builder with both ordinal counters at zero.
func NewBuilder() *Builder {
	return &Builder{}
}

// MakeEvidence builds a direct evidence record (backlink or rel-me) from a
// detected link element. hops is the candidate page's hop count from the
// origin; observedAt is an optional ISO-8601 timestamp, empty when unset.
func (b *Builder) MakeEvidence(
	element linkextract.Element,
	source, target Endpoint,
	hops int,
	trustedDomains []string,
	observedAt string,
) Record {
	kind, classification, trusted := Classify(element, source.URL.Host, trustedDomains)
	b.nextDirect++
	return Record{
		ID:   fmt.Sprintf("e-backlink-%d", b.nextDirect),
		Kind: kind,
		Source: source,
		Target: target,
		Link: &LinkDetail{
			RawHTML:  element.RawHTML,
			Rel:      element.Rel,
			NoFollow: element.HasRelToken("nofollow"),
		},
		Classification: classification,
		Hops:           hops,
		TrustedSurface: trusted,
		ObservedAt:     observedAt,
	}
}

// MakeRedirectEvidence builds a dormant, informational secondary record
// noting that a candidate page which satisfied backlink detection was
// only reachable via a redirect from the originally requested URL. Its
// Classification is deliberately the zero value, so the scorer's
// strong/weak/indirect switch never counts it and it cannot move the
// score — this kind exists for audit trails, not ranking.
func (b *Builder) MakeRedirectEvidence(requested, final Endpoint, hops int, observedAt string) Record {
	b.nextDirect++
	return Record{
		ID:         fmt.Sprintf("e-redirect-%d", b.nextDirect),
		Kind:       KindRedirect,
		Source:     requested,
		Target:     final,
		Hops:       hops,
		ObservedAt: observedAt,
		Notes:      fmt.Sprintf("redirected %s -> %s", requested.URL.String(), final.URL.String()),
	}
}

// MakeIndirectEvidence builds an A→B→C indirect record: no link details,
// classification fixed at indirect, trusted_surface always false (a
// second-hop neighbor's surface is never vouched for by the origin's
// trusted_domains list), and a notes string carrying the mandatory
// "pivot=" and "chain=" markers.
func (b *Builder) MakeIndirectEvidence(origin, pivot, neighbor url.URL, hops int, observedAt string) Record {
	b.nextIndirect++
	notes := fmt.Sprintf("pivot=%s chain=%s<->%s<->%s",
		pivot.String(), origin.String(), pivot.String(), neighbor.String())
	return Record{
		ID:   fmt.Sprintf("e-indirect-%d", b.nextIndirect),
		Kind: KindBacklink,
		Source: Endpoint{URL: neighbor, Context: ContextCandidatePage},
		Target: Endpoint{URL: origin, Context: ContextOriginPage},
		Link:           nil,
		Classification: ClassificationIndirect,
		Hops:           hops,
		TrustedSurface: false,
		ObservedAt:     observedAt,
		Notes:          notes,
	}
}
