package evidence

import (
	"strings"

	"github.com/rohmanhakim/naive-backlink/internal/linkextract"
)

// Classify returns the evidence kind, strength classification, and
// trusted-surface flag for a detected link element observed on sourceHost.
//
// classification is strong iff "me" is among the element's rel tokens,
// else weak. kind is rel-me when strong, else backlink. trusted_surface
// is true iff any entry in trustedDomains is a substring of sourceHost.
func Classify(element linkextract.Element, sourceHost string, trustedDomains []string) (kind Kind, classification Classification, trustedSurface bool) {
	if element.HasRelToken("me") {
		return KindRelMe, ClassificationStrong, isTrustedSurface(sourceHost, trustedDomains)
	}
	// TODO: a platform-specific detector (GitHub Sponsors, Mastodon
	// rel="me" profile confirmation) plugs in here and would return
	// KindProfile/KindPlatformVerified instead of falling through.
	return KindBacklink, ClassificationWeak, isTrustedSurface(sourceHost, trustedDomains)
}

func isTrustedSurface(sourceHost string, trustedDomains []string) bool {
	host := strings.ToLower(sourceHost)
	for _, d := range trustedDomains {
		if d == "" {
			continue
		}
		if strings.Contains(host, strings.ToLower(d)) {
			return true
		}
	}
	return false
}
