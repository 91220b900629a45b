package extract

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Default relevance filter for discovered links.
var (
	// DefaultAllowedDomains is the allow-list of target site domains.
	DefaultAllowedDomains = []string{"wtin.com", "island.lk"}
	// DefaultTopicKeywords accept off-domain links that mention the topic.
	DefaultTopicKeywords = []string{"mas"}
)

// nextMarkers match the visible text of a pagination anchor.
var nextMarkers = []string{"Next", "›"}

// LinkExtractor turns a listing page into candidate article URLs plus an
// optional next-page URL.
type LinkExtractor struct {
	classifier     Classifier
	allowedDomains []string
	topicKeywords  []string
}

// NewLinkExtractor creates a link extractor. A nil classifier falls back to
// the default one; nil filter slices fall back to the package defaults.
func NewLinkExtractor(classifier Classifier, allowedDomains, topicKeywords []string) *LinkExtractor {
	if classifier == nil {
		classifier = NewDefaultClassifier(nil, "", nil)
	}
	if allowedDomains == nil {
		allowedDomains = DefaultAllowedDomains
	}
	if topicKeywords == nil {
		topicKeywords = DefaultTopicKeywords
	}
	return &LinkExtractor{
		classifier:     classifier,
		allowedDomains: allowedDomains,
		topicKeywords:  topicKeywords,
	}
}

// Extract parses listing HTML and returns article links in first-seen order
// plus the resolved next-page URL, or "" when the page has no next anchor.
// Malformed HTML never fails: no matching anchors means an empty result.
func (e *LinkExtractor) Extract(body []byte, listingURL string) (links []string, nextLink string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, ""
	}

	base, baseErr := url.Parse(listingURL)
	if baseErr != nil {
		base = nil
	}

	seen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, exists := sel.Attr("href")
		if !exists || href == "" {
			return
		}

		// Classify the raw href first; resolution happens after.
		if !e.classifier.IsArticle(href) {
			return
		}

		resolved := resolveHref(base, href)
		if !e.isRelevant(resolved) {
			return
		}

		// Exact-string dedup within one listing page; first occurrence wins.
		if _, dup := seen[resolved]; dup {
			return
		}
		seen[resolved] = struct{}{}
		links = append(links, resolved)
	})

	return links, e.findNextLink(doc, base)
}

// isRelevant applies the coarse relevance filter: the link must hit the
// domain allow-list or mention a topic keyword.
func (e *LinkExtractor) isRelevant(link string) bool {
	lower := strings.ToLower(link)

	for _, domain := range e.allowedDomains {
		if strings.Contains(lower, domain) {
			return true
		}
	}
	for _, keyword := range e.topicKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

// findNextLink locates the pagination anchor: first an anchor whose visible
// text carries a next marker, then an anchor with rel="next".
func (e *LinkExtractor) findNextLink(doc *goquery.Document, base *url.URL) string {
	var href string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.Text())
		for _, marker := range nextMarkers {
			if strings.Contains(text, marker) {
				href, _ = sel.Attr("href")
				return false
			}
		}
		return true
	})

	if href == "" {
		href, _ = doc.Find(`a[rel="next"]`).First().Attr("href")
	}

	if href == "" {
		return ""
	}
	return resolveHref(base, href)
}

// resolveHref resolves href against base, returning href unchanged when it is
// already absolute or when no base is available.
func resolveHref(base *url.URL, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
