// Package linkextract pulls link-bearing elements out of a parsed HTML
// document: anchors and head <link> tags that carry an href.
package linkextract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// renderOuterHTML serializes a single element node back to markup, used
// so evidence records can carry the raw link element that produced them.
func renderOuterHTML(n *html.Node) string {
	var buf strings.Builder
	if err := html.Render(&buf, n); err != nil {
		return ""
	}
	return buf.String()
}

// Extract walks doc and returns every anchor and head-link element that
// has an href attribute, in document order on a best-effort basis. Head
// links whose rel names a non-document asset (icon, stylesheet, preload
// hint, and similar) are dropped; everything else survives.
func Extract(doc *html.Node) []Element {
	gqDoc := goquery.NewDocumentFromNode(doc)

	var elements []Element
	gqDoc.Find("a[href], link[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		rel := normalizeRel(sel)
		kind := KindAnchor
		if goquery.NodeName(sel) == "link" {
			kind = KindHeadLink
			if isAssetRel(rel) {
				return
			}
		}
		raw := ""
		if len(sel.Nodes) > 0 {
			raw = renderOuterHTML(sel.Nodes[0])
		}
		elements = append(elements, Element{Kind: kind, Href: href, Rel: rel, RawHTML: raw})
	})
	return elements
}

// normalizeRel reads the rel attribute and returns a lowercased token
// list, whether the source markup separated tokens by whitespace (the
// HTML-valid form) or the attribute happened to already be a single
// token such as "me".
func normalizeRel(sel *goquery.Selection) []string {
	raw, ok := sel.Attr("rel")
	if !ok || strings.TrimSpace(raw) == "" {
		return nil
	}
	fields := strings.Fields(strings.ToLower(raw))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, f)
	}
	return tokens
}

// isAssetRel reports whether rel identifies a non-document asset link
// rather than a navigable page. A single-token rel is checked directly;
// a compound rel such as "shortcut icon" is additionally checked as the
// space-joined whole against assetRelSet.
func isAssetRel(rel []string) bool {
	if len(rel) == 0 {
		return false
	}
	if _, ok := assetRelSet[strings.Join(rel, " ")]; ok {
		return true
	}
	for _, token := range rel {
		if _, ok := assetRelSet[token]; ok {
			return true
		}
	}
	return false
}
