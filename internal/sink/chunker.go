// Package sink forwards newly stored documents to the downstream embedding
// store, chunking their text first.
package sink

import (
	"strings"
	"unicode/utf8"
)

// Default chunking parameters.
const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 150
)

// chunkSeparators are tried in order when looking for a break point inside a
// full window: paragraph break, line break, word break.
var chunkSeparators = []string{"\n\n", "\n", " "}

// SplitText splits text into chunks of at most size runes with the given
// overlap, preferring to break at paragraph, line, or word boundaries.
// Whitespace-only chunks are dropped.
func SplitText(text string, size, overlap int) []string {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = size / 4
	}

	runes := []rune(text)
	var chunks []string

	start := 0
	for start < len(runes) {
		if len(runes)-start <= size {
			if chunk := strings.TrimSpace(string(runes[start:])); chunk != "" {
				chunks = append(chunks, chunk)
			}
			break
		}

		end := start + splitPoint(runes[start:start+size])
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	return chunks
}

// splitPoint returns the rune offset of the best break inside a full-size
// window: after the last occurrence of the strongest separator present, else
// the window end.
func splitPoint(window []rune) int {
	s := string(window)
	for _, sep := range chunkSeparators {
		if i := strings.LastIndex(s, sep); i > 0 {
			return utf8.RuneCountInString(s[:i+len(sep)])
		}
	}
	return len(window)
}
