package evidence

import (
	"net/url"

	"github.com/rohmanhakim/naive-backlink/internal/linkextract"
	"github.com/rohmanhakim/naive-backlink/internal/urlx"
	"github.com/rohmanhakim/naive-backlink/pkg/urlutil"
)

// DetectBacklink returns the first element among elements whose
// resolved-and-normalized href equals the normalized targetURL, skipping
// elements with a non-fetchable scheme. currentURL is the base a
// relative href resolves against (RFC 3986), directory and all. The
// second return value is false when no matching element exists.
//
// This is used three ways by the scheduler: candidate→origin (direct
// mutuality check), neighbor→pivot (second-hop mutuality check), and to
// locate the backlink element quoted in an indirect record.
func DetectBacklink(currentURL, targetURL url.URL, elements []linkextract.Element) (linkextract.Element, bool) {
	target := urlx.Normalize(targetURL)
	for _, el := range elements {
		parsed, err := url.Parse(el.Href)
		if err != nil {
			continue
		}
		resolved := urlutil.Resolve(*parsed, currentURL)
		if !urlx.IsFetchable(resolved) {
			continue
		}
		if urlx.Normalize(resolved) == target {
			return el, true
		}
	}
	return linkextract.Element{}, false
}
