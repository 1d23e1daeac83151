package linkextract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/html"
)

func parse(t *testing.T, markup string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestExtractAnchorsAndHeadLinks(t *testing.T) {
	doc := parse(t, `<html><head>
		<link rel="icon" href="/favicon.ico">
		<link rel="canonical" href="https://example.com/canonical">
	</head><body>
		<a href="https://a.example/one">one</a>
		<a href="https://a.example/two" rel="me">two</a>
		<a>no href</a>
	</body></html>`)

	elements := Extract(doc)

	var hrefs []string
	for _, e := range elements {
		hrefs = append(hrefs, e.Href)
	}
	assert.Equal(t, []string{
		"https://example.com/canonical",
		"https://a.example/one",
		"https://a.example/two",
	}, hrefs)
}

func TestExtractDropsAssetHeadLinks(t *testing.T) {
	doc := parse(t, `<html><head>
		<link rel="icon" href="/favicon.ico">
		<link rel="shortcut icon" href="/favicon2.ico">
		<link rel="stylesheet" href="/site.css">
		<link rel="manifest" href="/manifest.json">
	</head><body></body></html>`)

	elements := Extract(doc)
	assert.Empty(t, elements)
}

func TestExtractNormalizesRelTokens(t *testing.T) {
	doc := parse(t, `<html><body><a href="https://a.example/me" rel="ME Nofollow">me</a></body></html>`)
	elements := Extract(doc)
	if assert.Len(t, elements, 1) {
		assert.Equal(t, []string{"me", "nofollow"}, elements[0].Rel)
		assert.True(t, elements[0].HasRelToken("me"))
	}
}

func TestExtractAnchorWithNoRelHasEmptyTokens(t *testing.T) {
	doc := parse(t, `<html><body><a href="https://a.example/x">x</a></body></html>`)
	elements := Extract(doc)
	if assert.Len(t, elements, 1) {
		assert.Empty(t, elements[0].Rel)
		assert.False(t, elements[0].HasRelToken("me"))
	}
}
