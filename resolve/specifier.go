package resolve

import (
	"net/url"
	"path"
	"strings"
)

const fileScheme = "file://"

// Kind classifies a specifier by how it names its target.
type Kind int

const (
	KindBare Kind = iota
	KindFileURL
	KindAbsolute
	KindRelative
)

func (k Kind) String() string {
	switch k {
	case KindFileURL:
		return "file_url"
	case KindAbsolute:
		return "absolute"
	case KindRelative:
		return "relative"
	default:
		return "bare"
	}
}

// Classify reports the kind of spec. Anything that is not a file:// URL and
// does not start with "/" or "." is a bare package name, including "".
func Classify(spec string) Kind {
	switch {
	case strings.HasPrefix(spec, fileScheme):
		return KindFileURL
	case strings.HasPrefix(spec, "/"):
		return KindAbsolute
	case strings.HasPrefix(spec, "."):
		return KindRelative
	default:
		return KindBare
	}
}

// stripFileScheme turns a file:// URL into a path, percent-decoding the
// path part. The query is left as written. Plain paths pass through.
func stripFileScheme(s string) string {
	if !strings.HasPrefix(s, fileScheme) {
		return s
	}
	p, query, hasQuery := splitQuery(strings.TrimPrefix(s, fileScheme))
	if decoded, err := url.PathUnescape(p); err == nil {
		p = decoded
	}
	return withQuery(p, query, hasQuery)
}

// fileURL renders an absolute path as a file:// URL with the path
// percent-encoded.
func fileURL(p string) string {
	return (&url.URL{Scheme: "file", Path: p}).String()
}

// absPath turns a non-bare specifier into an absolute path, resolving
// relative ones against the directory of parentURL. Any "?query" suffix is
// carried over verbatim and a trailing slash on spec is kept.
func absPath(spec, parentURL string) string {
	p := stripFileScheme(spec)
	if strings.HasPrefix(p, "/") {
		return p
	}

	base, query, hasQuery := splitQuery(p)
	parent, _, _ := splitQuery(stripFileScheme(parentURL))
	joined := path.Join(path.Dir(parent), base)
	if strings.HasSuffix(base, "/") && !strings.HasSuffix(joined, "/") {
		joined += "/"
	}
	return withQuery(joined, query, hasQuery)
}

// splitQuery cuts p at the first "?". hasQuery is true whenever a "?" was
// present, even if the query after it is empty.
func splitQuery(p string) (base, query string, hasQuery bool) {
	return strings.Cut(p, "?")
}

func withQuery(p, query string, hasQuery bool) string {
	if !hasQuery {
		return p
	}
	return p + "?" + query
}
