package urlx

import (
	"strings"

	"golang.org/x/net/publicsuffix"
)

// RegistrableOrHost returns the eTLD+1 (registrable domain) for host using
// the public suffix list, or the host with a leading "www." stripped if the
// list has no match. Comparisons against this form let same-domain policy
// treat "www.example.com" and "blog.example.com" as the same site.
func RegistrableOrHost(host string) string {
	host = strings.ToLower(host)
	if registrable, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return registrable
	}
	return strings.TrimPrefix(host, "www.")
}
