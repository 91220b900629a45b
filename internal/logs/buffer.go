// Package logs provides the bounded in-memory log buffer that backs a run
// handle's progress view.
package logs

import (
	"sync"
	"time"
)

// defaultBufferSize is used when a non-positive capacity is requested.
const defaultBufferSize = 500

// Entry is a single buffered progress line.
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// Buffer is a thread-safe circular buffer of log entries. When full, the
// oldest entry is overwritten.
type Buffer struct {
	entries   []Entry
	size      int
	head      int // points to oldest entry
	count     int // number of entries in buffer
	lineCount int // total lines ever written
	mu        sync.RWMutex
}

// NewBuffer creates a new circular buffer with the specified capacity.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = defaultBufferSize
	}
	return &Buffer{
		entries: make([]Entry, size),
		size:    size,
	}
}

// Write appends a message to the buffer, stamping it with the current time.
func (b *Buffer) Write(message string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	idx := (b.head + b.count) % b.size

	if b.count < b.size {
		b.entries[idx] = Entry{Timestamp: time.Now(), Message: message}
		b.count++
	} else {
		b.entries[b.head] = Entry{Timestamp: time.Now(), Message: message}
		b.head = (b.head + 1) % b.size
	}

	b.lineCount++
}

// ReadAll returns all buffered entries in chronological order.
func (b *Buffer) ReadAll() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()

	result := make([]Entry, b.count)
	for i := 0; i < b.count; i++ {
		idx := (b.head + i) % b.size
		result[i] = b.entries[idx]
	}
	return result
}

// Lines returns the buffered messages in chronological order.
func (b *Buffer) Lines() []string {
	entries := b.ReadAll()
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.Message
	}
	return lines
}

// Size returns the number of entries currently in the buffer.
func (b *Buffer) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.count
}

// LineCount returns the total number of lines ever written to the buffer.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lineCount
}
