// Package urlx classifies URLs for the crawl scheduler: which schemes are
// fetchable, which paths are likely HTML, and how a host reduces to its
// registrable (eTLD+1) form.
package urlx

import (
	"net/url"
	"strings"

	"github.com/rohmanhakim/naive-backlink/pkg/urlutil"
)

// Normalize delegates to pkg/urlutil.Normalize. Malformed inputs (a URL that
// fails to re-parse after normalization) are never expected here since the
// caller always hands us an already-parsed url.URL; normalization itself
// cannot throw.
func Normalize(u url.URL) url.URL {
	return urlutil.Normalize(u)
}

// IsFetchable reports whether the scheme is one the fetch backends can
// actually retrieve.
func IsFetchable(u url.URL) bool {
	scheme := strings.ToLower(u.Scheme)
	return scheme == "http" || scheme == "https"
}

// nonHTMLExtensions is the denylist of file extensions that are never HTML:
// images, audio/video, archives, fonts, office documents, stylesheets, and
// scripts. Extensionless paths (clean URLs) are always allowed.
var nonHTMLExtensions = map[string]struct{}{
	// images
	"png": {}, "jpg": {}, "jpeg": {}, "gif": {}, "webp": {}, "svg": {}, "ico": {}, "bmp": {}, "tiff": {}, "avif": {},
	// audio/video
	"mp3": {}, "mp4": {}, "wav": {}, "ogg": {}, "webm": {}, "avi": {}, "mov": {}, "flac": {}, "m4a": {},
	// archives
	"zip": {}, "tar": {}, "gz": {}, "rar": {}, "7z": {}, "bz2": {}, "xz": {},
	// fonts
	"woff": {}, "woff2": {}, "ttf": {}, "otf": {}, "eot": {},
	// office documents
	"pdf": {}, "doc": {}, "docx": {}, "xls": {}, "xlsx": {}, "ppt": {}, "pptx": {},
	// stylesheets/scripts
	"css": {}, "js": {}, "mjs": {}, "json": {}, "xml": {}, "wasm": {},
}

// HasHTMLLikePath reports whether u is fetchable and its path's lowercased
// extension is not in the non-HTML denylist. Extensionless paths are allowed.
func HasHTMLLikePath(u url.URL) bool {
	if !IsFetchable(u) {
		return false
	}
	ext := pathExtension(u.Path)
	if ext == "" {
		return true
	}
	_, denied := nonHTMLExtensions[strings.ToLower(ext)]
	return !denied
}

func pathExtension(path string) string {
	slash := strings.LastIndex(path, "/")
	base := path
	if slash >= 0 {
		base = path[slash+1:]
	}
	dot := strings.LastIndex(base, ".")
	if dot < 0 || dot == len(base)-1 {
		return ""
	}
	return base[dot+1:]
}
