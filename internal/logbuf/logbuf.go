// Package logbuf keeps the most recent log lines in memory so the HTTP API
// can return them without touching disk.
package logbuf

import (
	"strings"
	"sync"
)

// DefaultCapacity is how many lines a Buffer retains by default.
const DefaultCapacity = 500

// Buffer is a fixed-capacity ring of log lines. It implements io.Writer so
// it can sit in a log.Logger's output chain next to stderr.
type Buffer struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}

// New creates a buffer retaining up to capacity lines. A non-positive
// capacity falls back to DefaultCapacity.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{lines: make([]string, capacity)}
}

// Write splits p into lines and appends each, evicting the oldest once the
// ring is full. It never fails.
func (b *Buffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		b.lines[b.next] = line
		b.next++
		if b.next == len(b.lines) {
			b.next = 0
			b.full = true
		}
	}
	return len(p), nil
}

// Lines returns the retained lines, oldest first.
func (b *Buffer) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.full {
		out := make([]string, b.next)
		copy(out, b.lines[:b.next])
		return out
	}
	out := make([]string, 0, len(b.lines))
	out = append(out, b.lines[b.next:]...)
	out = append(out, b.lines[:b.next]...)
	return out
}

// String returns the retained lines joined by newlines.
func (b *Buffer) String() string {
	return strings.Join(b.Lines(), "\n")
}
