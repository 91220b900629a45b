// Package extract parses listing and article HTML using goquery.
package extract

import "strings"

// Classifier decides whether an href points at an article. Implementations
// are per-site heuristics; swapping one never touches extraction control flow.
type Classifier interface {
	IsArticle(href string) bool
}

// ClassifierFunc adapts a plain function to the Classifier interface.
type ClassifierFunc func(href string) bool

// IsArticle calls f.
func (f ClassifierFunc) IsArticle(href string) bool {
	return f(href)
}

// Default heuristics for the target site family.
var (
	// DefaultArticleMarkers are path segments that mark an article link.
	DefaultArticleMarkers = []string{"/article/", "/news/"}
	// DefaultShallowPathDomain uses slug-at-root article URLs (domain/slug/).
	DefaultShallowPathDomain = "island.lk"
	// DefaultExcludedSegments are shallow paths that are not articles.
	DefaultExcludedSegments = []string{"/category/", "/page/", "?s="}
)

// shallowPathSlashes is the slash count of a scheme://host/slug URL.
const shallowPathSlashes = 3

// DefaultClassifier classifies hrefs by marker segments, with a shallow-path
// fallback for one site family whose article URLs are a bare slug.
type DefaultClassifier struct {
	markers       []string
	shallowDomain string
	excluded      []string
}

// NewDefaultClassifier builds the default article classifier. Nil slices fall
// back to the package defaults.
func NewDefaultClassifier(markers []string, shallowDomain string, excluded []string) *DefaultClassifier {
	if markers == nil {
		markers = DefaultArticleMarkers
	}
	if shallowDomain == "" {
		shallowDomain = DefaultShallowPathDomain
	}
	if excluded == nil {
		excluded = DefaultExcludedSegments
	}
	return &DefaultClassifier{
		markers:       markers,
		shallowDomain: shallowDomain,
		excluded:      excluded,
	}
}

// IsArticle reports whether href looks like an article link. The href is
// judged as written, before resolution against the listing URL.
func (c *DefaultClassifier) IsArticle(href string) bool {
	lower := strings.ToLower(href)

	for _, marker := range c.markers {
		if strings.Contains(lower, marker) {
			return true
		}
	}

	// Shallow-path heuristic: exactly one path segment under the site root,
	// excluding category, pagination, and search paths.
	idx := strings.Index(lower, c.shallowDomain)
	if idx >= 0 && strings.Count(href, "/") == shallowPathSlashes {
		// The segment after the domain must be a real slug, not the root.
		rest := lower[idx+len(c.shallowDomain):]
		if rest == "" || rest == "/" {
			return false
		}
		for _, segment := range c.excluded {
			if strings.Contains(lower, segment) {
				return false
			}
		}
		return true
	}

	return false
}
