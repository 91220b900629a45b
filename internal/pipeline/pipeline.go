// Package pipeline orchestrates fetch, extraction, persistence, and ingestion
// for one harvesting run.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/extract"
	"github.com/jonesrussell/newsharvest/internal/logger"
	"github.com/jonesrussell/newsharvest/internal/store"
)

// Fetcher fetches a page body.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// IngestSink receives the batch of newly stored documents at the end of a
// run. It is expected to chunk and forward text downstream; its failures are
// reported but never roll back persisted documents.
type IngestSink interface {
	Ingest(ctx context.Context, docs []domain.Document) error
}

// LogSink receives human-readable progress lines in real time.
type LogSink func(msg string)

// listingQueryMarker identifies a search/listing URL on the paginated site.
const listingQueryMarker = "?s="

// IsListing reports whether rawURL is a paginated search/listing page rather
// than a single article.
func IsListing(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, extract.DefaultShallowPathDomain) &&
		strings.Contains(lower, listingQueryMarker)
}

// Params holds the dependencies for a Pipeline.
type Params struct {
	Fetcher Fetcher
	Links   *extract.LinkExtractor
	Content *extract.ContentExtractor
	Store   *store.Store
	Sink    IngestSink
	Logger  logger.Interface
	Emit    LogSink
}

// Pipeline runs the crawl-dedupe-persist flow. One run is strictly
// sequential: each document is persisted before the next fetch begins.
type Pipeline struct {
	fetcher Fetcher
	links   *extract.LinkExtractor
	content *extract.ContentExtractor
	store   *store.Store
	sink    IngestSink
	log     logger.Interface
	emit    LogSink
}

// New creates a pipeline. Links, Content, Logger, and Emit may be nil and
// fall back to defaults; Fetcher and Store are required.
func New(p Params) *Pipeline {
	if p.Links == nil {
		p.Links = extract.NewLinkExtractor(nil, nil, nil)
	}
	if p.Content == nil {
		p.Content = extract.NewContentExtractor()
	}
	if p.Logger == nil {
		p.Logger = logger.NewNoOp()
	}
	if p.Emit == nil {
		p.Emit = func(string) {}
	}
	return &Pipeline{
		fetcher: p.Fetcher,
		links:   p.Links,
		content: p.Content,
		store:   p.Store,
		sink:    p.Sink,
		log:     p.Logger,
		emit:    p.Emit,
	}
}

// ExtractLinks fetches a listing page and extracts article links plus the
// next-page URL. The fetch error is returned so callers can decide how loudly
// to degrade; link extraction itself never fails.
func (p *Pipeline) ExtractLinks(ctx context.Context, listingURL string) (links []string, nextLink string, err error) {
	body, fetchErr := p.fetcher.Get(ctx, listingURL)
	if fetchErr != nil {
		return nil, "", fmt.Errorf("fetch listing: %w", fetchErr)
	}

	links, nextLink = p.links.Extract(body, listingURL)
	return links, nextLink, nil
}

// HarvestListing runs the pipeline in paginated mode: extract links from one
// listing page, persist the continuation link before any article is
// processed, then process the discovered links. Continuation is caller
// driven; the pipeline never auto-paginates.
func (p *Pipeline) HarvestListing(ctx context.Context, listingURL string) domain.RunReport {
	p.emitf("Paginated extraction started for: %s", listingURL)

	links, nextLink, err := p.ExtractLinks(ctx, listingURL)
	if err != nil {
		// Degrade to an empty page rather than aborting the run.
		p.log.Error("link extraction failed", "listing_url", listingURL, "error", err)
		p.emitf("Failed to extract links from %s: %v", listingURL, err)
		links, nextLink = nil, ""
	}

	p.emitf("Found %d links. Next page: %s", len(links), orNone(nextLink))

	// Persist the continuation point first so it survives a crash during
	// article processing.
	p.store.SetNextLink(nextLink)
	if saveErr := p.store.Save(); saveErr != nil {
		p.log.Error("persist continuation link failed", "error", saveErr)
		p.emitf("Could not save continuation link: %v", saveErr)
	}

	report := p.ProcessURLs(ctx, links)
	report.NextLink = nextLink
	return report
}

// ProcessURLs runs the pipeline in direct mode over an explicit URL list.
// Each URL is normalized and checked against the dedup index before any
// fetch; a single bad URL never aborts the batch. Every successful document
// is persisted before the next fetch begins. The run always reaches Done.
func (p *Pipeline) ProcessURLs(ctx context.Context, urls []string) domain.RunReport {
	var report domain.RunReport

	absPath, absErr := filepath.Abs(p.store.Path())
	if absErr != nil {
		absPath = p.store.Path()
	}
	p.emitf("Processing using state file at: %s", absPath)
	p.emitf("Initial articles in store: %d", p.store.Len())

	var batch []domain.Document

	for _, rawURL := range urls {
		if p.store.Contains(rawURL) {
			report.Skipped++
			p.emitf("Skipping duplicate: %s", rawURL)
			continue
		}

		p.emitf("Scraping: %s", rawURL)

		doc, procErr := p.processURL(ctx, rawURL)
		if procErr != nil {
			report.Failed++
			p.log.Error("url failed", "url", rawURL, "error", procErr)
			if errors.Is(procErr, extract.ErrEmptyContent) {
				p.emitf("Could not extract content from: %s", rawURL)
			} else {
				p.emitf("Failed to scrape %s: %v", rawURL, procErr)
			}
			continue
		}

		p.store.Append(*doc)

		// One save per successful document: durability over throughput. A
		// save failure leaves the document in memory and in the ingest
		// batch; it is logged, not fatal.
		if saveErr := p.store.Save(); saveErr != nil {
			p.log.Error("persist state failed", "url", rawURL, "error", saveErr)
			p.emitf("Could not save state: %v", saveErr)
		} else {
			p.emitf("Saved article %q. Total articles now: %d", doc.Title, p.store.Len())
		}

		batch = append(batch, *doc)
		report.Processed++
	}

	p.ingest(ctx, batch, &report)
	return report
}

// processURL fetches and extracts a single article.
func (p *Pipeline) processURL(ctx context.Context, rawURL string) (*domain.Document, error) {
	body, fetchErr := p.fetcher.Get(ctx, rawURL)
	if fetchErr != nil {
		return nil, fetchErr
	}
	return p.content.Extract(body, rawURL)
}

// ingest hands the batch of newly stored documents to the sink. Sink failure
// is terminal for the ingestion step only; persisted documents stay put.
func (p *Pipeline) ingest(ctx context.Context, batch []domain.Document, report *domain.RunReport) {
	if len(batch) == 0 {
		p.emitf("No new articles were scraped.")
		return
	}
	if p.sink == nil {
		return
	}

	p.emitf("Handing %d new articles to the ingest sink...", len(batch))
	if err := p.sink.Ingest(ctx, batch); err != nil {
		report.IngestFailed = true
		p.log.Error("ingestion failed", "count", len(batch), "error", err)
		p.emitf("Ingestion failed: %v", err)
		return
	}
	p.emitf("Ingested %d documents.", len(batch))
}

// emitf formats a progress line for the log sink.
func (p *Pipeline) emitf(format string, args ...any) {
	p.emit(fmt.Sprintf(format, args...))
}

// orNone renders an optional link for progress output.
func orNone(link string) string {
	if link == "" {
		return "none"
	}
	return link
}
