package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/newsharvest/internal/domain"
)

// ErrEmptyContent reports a page that parsed but yielded no body text. It is
// a soft failure: the page is counted as failed and the run continues.
var ErrEmptyContent = errors.New("no extractable content")

// UnknownTitle is used when a page has neither an h1 nor a title element.
const UnknownTitle = "Unknown Title"

// bodyContainers are tried in order; the first that exists wins.
var bodyContainers = []string{"article", "main", ".entry-content", "body"}

// blockSelector matches the text blocks collected from the body container.
const blockSelector = "p, h2, h3"

// ContentExtractor parses an article page into a Document.
type ContentExtractor struct{}

// NewContentExtractor creates a new content extractor.
func NewContentExtractor() *ContentExtractor {
	return &ContentExtractor{}
}

// Extract parses article HTML into a Document. The extraction timestamp is
// stamped here, not at fetch time. Returns ErrEmptyContent when the page has
// no usable body text.
func (e *ContentExtractor) Extract(body []byte, pageURL string) (*domain.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	text := extractBlockText(doc)
	if text == "" {
		return nil, ErrEmptyContent
	}

	return &domain.Document{
		URL:         pageURL,
		Title:       extractTitle(doc),
		Text:        text,
		Success:     true,
		ExtractedAt: time.Now(),
	}, nil
}

// extractTitle prefers the first h1, then the page title element.
func extractTitle(doc *goquery.Document) string {
	if title := strings.TrimSpace(doc.Find("h1").First().Text()); title != "" {
		return title
	}
	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		return title
	}
	return UnknownTitle
}

// extractBlockText joins the trimmed text of every paragraph and sub-heading
// in the body container with blank lines. Whitespace-only blocks are skipped
// entirely, never joined as empty entries.
func extractBlockText(doc *goquery.Document) string {
	container := findBodyContainer(doc)
	if container == nil {
		return ""
	}

	var blocks []string
	container.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			blocks = append(blocks, text)
		}
	})

	return strings.Join(blocks, "\n\n")
}

// findBodyContainer returns the first matching content wrapper.
func findBodyContainer(doc *goquery.Document) *goquery.Selection {
	for _, selector := range bodyContainers {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	return nil
}
