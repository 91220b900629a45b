package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/newsharvest/internal/extract"
)

const listingURL = "https://island.lk/?s=mas"

// listingHTML is a search results page with article links, a duplicate, a
// relative href, irrelevant links, and a Next anchor.
const listingHTML = `<!DOCTYPE html>
<html>
<body>
  <nav><a href="https://island.lk/category/business/">Business</a></nav>
  <a href="https://island.lk/mas-expands-plant">MAS expands plant</a>
  <a href="https://island.lk/mas-expands-plant">MAS expands plant (again)</a>
  <a href="/news/another-story.html">Another story</a>
  <a href="https://www.wtin.com/article/2026/mas-report/">Industry report</a>
  <a href="https://example.com/about">About us</a>
  <a href="/page/2/?s=mas">Next ›</a>
</body>
</html>`

// relNextHTML has no textual next anchor, only rel="next".
const relNextHTML = `<!DOCTYPE html>
<html>
<body>
  <a href="https://island.lk/only-story">Only story</a>
  <a rel="next" href="/page/3/?s=mas">2</a>
</body>
</html>`

// noAnchorsHTML has nothing extractable.
const noAnchorsHTML = `<!DOCTYPE html><html><body><p>Nothing here.</p></body></html>`

func TestLinkExtractor_Listing(t *testing.T) {
	t.Parallel()

	e := extract.NewLinkExtractor(nil, nil, nil)

	links, nextLink := e.Extract([]byte(listingHTML), listingURL)

	assert.Equal(t, []string{
		"https://island.lk/mas-expands-plant",
		"https://island.lk/news/another-story.html",
		"https://www.wtin.com/article/2026/mas-report/",
	}, links, "duplicates collapse to first occurrence, relative hrefs resolve, order is first-seen")

	assert.Equal(t, "https://island.lk/page/2/?s=mas", nextLink)
}

func TestLinkExtractor_RelNextFallback(t *testing.T) {
	t.Parallel()

	e := extract.NewLinkExtractor(nil, nil, nil)

	links, nextLink := e.Extract([]byte(relNextHTML), listingURL)

	assert.Equal(t, []string{"https://island.lk/only-story"}, links)
	assert.Equal(t, "https://island.lk/page/3/?s=mas", nextLink)
}

func TestLinkExtractor_NoMatches(t *testing.T) {
	t.Parallel()

	e := extract.NewLinkExtractor(nil, nil, nil)

	links, nextLink := e.Extract([]byte(noAnchorsHTML), listingURL)

	assert.Empty(t, links)
	assert.Empty(t, nextLink)
}

func TestLinkExtractor_MalformedHTML(t *testing.T) {
	t.Parallel()

	e := extract.NewLinkExtractor(nil, nil, nil)

	links, nextLink := e.Extract([]byte("<a href='https://island.lk/broken-slug'><div<"), listingURL)

	// Malformed input degrades, never panics or errors.
	assert.LessOrEqual(t, len(links), 1)
	assert.Empty(t, nextLink)
}

func TestLinkExtractor_RelevanceFilter(t *testing.T) {
	t.Parallel()

	// Classifier accepts everything; only the relevance filter gates.
	e := extract.NewLinkExtractor(
		extract.ClassifierFunc(func(string) bool { return true }),
		[]string{"wtin.com"},
		[]string{"acme"},
	)

	html := `<html><body>
	  <a href="https://www.wtin.com/article/x/">on-domain</a>
	  <a href="https://example.com/acme-widgets">keyword match</a>
	  <a href="https://example.com/unrelated">filtered out</a>
	</body></html>`

	links, _ := e.Extract([]byte(html), "https://www.wtin.com/")

	assert.Equal(t, []string{
		"https://www.wtin.com/article/x/",
		"https://example.com/acme-widgets",
	}, links)
}

func TestLinkExtractor_CustomClassifierSwap(t *testing.T) {
	t.Parallel()

	// A site-specific classifier swaps in without touching extraction.
	e := extract.NewLinkExtractor(
		extract.ClassifierFunc(func(href string) bool { return href == "/special" }),
		[]string{"island.lk"},
		nil,
	)

	html := `<html><body>
	  <a href="/special">yes</a>
	  <a href="https://island.lk/mas-plant/">no</a>
	</body></html>`

	links, _ := e.Extract([]byte(html), "https://island.lk/")

	assert.Equal(t, []string{"https://island.lk/special"}, links)
}
