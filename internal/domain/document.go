// Package domain provides domain models used across the application.
package domain

import "time"

// Document represents one successfully extracted article.
// Documents are immutable once appended to the crawl state; re-harvesting a
// URL whose normalized form is already stored is skipped, never merged.
type Document struct {
	// Canonical source URL, exactly as fetched (never the normalized form).
	URL string `json:"url"`
	// Best-effort extracted title; "Unknown Title" when none was found.
	Title string `json:"title"`
	// Concatenated block text, paragraphs joined by a blank line. Never empty:
	// an empty extraction is a failure, not a Document.
	Text string `json:"text"`
	// Always true for stored documents; kept for state-file compatibility.
	Success bool `json:"success"`
	// Capture time, stamped at extraction, immutable thereafter.
	ExtractedAt time.Time `json:"extracted_at"`
}

// CrawlState is the full persisted record: every known document plus the
// pagination continuation pointer.
type CrawlState struct {
	// Insertion order is discovery order; append-only.
	Articles []Document `json:"articles"`
	// Last known pagination continuation URL; overwritten each time a new
	// listing page is consulted. Nil when no continuation is known.
	NextLink *string `json:"next_link"`
}
