// Package store persists crawl state as a single JSON file with atomic,
// crash-safe replacement and a normalized-URL dedup index.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonesrussell/newsharvest/internal/domain"
	"github.com/jonesrussell/newsharvest/internal/logger"
)

// DefaultPath is the state file used when none is configured.
const DefaultPath = "articles.json"

// stateFileMode is the permission set for a freshly written state file.
const stateFileMode = 0o644

// Store owns the crawl state for the duration of a pipeline run. It is the
// single source of truth for "have we already processed this URL". Concurrent
// runs against the same path are not supported; callers serialize access.
type Store struct {
	path  string
	log   logger.Interface
	state domain.CrawlState
	index map[string]struct{}
}

// Open loads the state file at path. A missing, unreadable, or unparsable
// file yields a fresh empty state rather than an error; a legacy bare-array
// file is accepted as the document list with no continuation link.
func Open(path string, log logger.Interface) *Store {
	if path == "" {
		path = DefaultPath
	}

	s := &Store{
		path:  path,
		log:   log,
		index: make(map[string]struct{}),
	}

	s.state = loadState(path, log)
	for _, doc := range s.state.Articles {
		s.index[Normalize(doc.URL)] = struct{}{}
	}

	return s
}

// loadState reads and decodes the state file, absorbing every failure into an
// empty state.
func loadState(path string, log logger.Interface) domain.CrawlState {
	empty := domain.CrawlState{Articles: []domain.Document{}}

	raw, readErr := os.ReadFile(path)
	if readErr != nil {
		if !os.IsNotExist(readErr) {
			log.Warn("state file unreadable, starting fresh", "path", path, "error", readErr)
		}
		return empty
	}

	var state domain.CrawlState
	if err := json.Unmarshal(raw, &state); err == nil {
		if state.Articles == nil {
			state.Articles = []domain.Document{}
		}
		return state
	}

	// Legacy shape: a bare JSON array of documents.
	var docs []domain.Document
	if err := json.Unmarshal(raw, &docs); err == nil {
		return domain.CrawlState{Articles: docs}
	}

	log.Warn("state file unparsable, starting fresh", "path", path)
	return empty
}

// Path returns the state file path.
func (s *Store) Path() string {
	return s.path
}

// Documents returns the stored documents in discovery order.
func (s *Store) Documents() []domain.Document {
	return s.state.Articles
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	return len(s.state.Articles)
}

// NextLink returns the pagination continuation URL, or "" when none is known.
func (s *Store) NextLink() string {
	if s.state.NextLink == nil {
		return ""
	}
	return *s.state.NextLink
}

// SetNextLink overwrites the pagination continuation URL. An empty link
// clears it.
func (s *Store) SetNextLink(link string) {
	if link == "" {
		s.state.NextLink = nil
		return
	}
	s.state.NextLink = &link
}

// Contains reports whether a document with the same normalized URL is already
// stored. O(1) via the in-memory index.
func (s *Store) Contains(rawURL string) bool {
	_, ok := s.index[Normalize(rawURL)]
	return ok
}

// Append adds a document to the state and registers its normalized URL in the
// dedup index. The caller persists via Save.
func (s *Store) Append(doc domain.Document) {
	s.state.Articles = append(s.state.Articles, doc)
	s.index[Normalize(doc.URL)] = struct{}{}
}

// Save writes the full state durably and atomically: the JSON is written to a
// temporary file in the same directory, synced to stable storage, then
// renamed over the target. A crash before the rename leaves the prior file
// intact; a crash after leaves the new one. No partial file is ever visible
// under the target path.
func (s *Store) Save() error {
	data, marshalErr := json.MarshalIndent(s.state, "", "  ")
	if marshalErr != nil {
		return fmt.Errorf("marshal state: %w", marshalErr)
	}

	dir := filepath.Dir(s.path)

	tmp, tmpErr := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if tmpErr != nil {
		return fmt.Errorf("create temp state file: %w", tmpErr)
	}
	tmpPath := tmp.Name()

	if _, writeErr := tmp.Write(data); writeErr != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp state file: %w", writeErr)
	}

	if syncErr := tmp.Sync(); syncErr != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp state file: %w", syncErr)
	}

	if closeErr := tmp.Close(); closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp state file: %w", closeErr)
	}

	if chmodErr := os.Chmod(tmpPath, stateFileMode); chmodErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp state file: %w", chmodErr)
	}

	if renameErr := os.Rename(tmpPath, s.path); renameErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace state file: %w", renameErr)
	}

	return nil
}

// Normalize returns the dedup key for a URL: scheme and trailing slash
// stripped. Used only for comparison, never for display or storage.
func Normalize(rawURL string) string {
	normalized := strings.TrimPrefix(rawURL, "https://")
	normalized = strings.TrimPrefix(normalized, "http://")
	return strings.TrimRight(normalized, "/")
}
