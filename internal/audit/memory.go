package audit

import (
	"log"
	"sync"

	"einvois/internal/domain"
)

// MemorySink is an append-only in-memory audit sink, safe for concurrent
// writers. Batch runs append to it; the handler layer reads it back out.
type MemorySink struct {
	mu      sync.Mutex
	entries []domain.LogEntry
}

// NewMemorySink creates an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Write appends one entry.
func (s *MemorySink) Write(entry domain.LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

// Entries returns a copy of everything written so far.
func (s *MemorySink) Entries() []domain.LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.LogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// StdlogSink forwards audit entries to the process log. Used by the CLI and
// as the default sink when nothing else is configured.
type StdlogSink struct{}

// Write logs one entry with the batch prefix.
func (StdlogSink) Write(entry domain.LogEntry) {
	log.Printf("batch: [%s] %s", entry.Level, entry.Message)
}
