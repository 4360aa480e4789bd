// Package runlog is the append-only event stream of an import run.
package runlog

import (
	"sync"
	"time"
)

type Status string

const (
	StatusStarted   Status = "started"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
	StatusWarn      Status = "warn"
	StatusInfo      Status = "info"
)

// Event is one line of the run log.
type Event struct {
	Timestamp time.Time      `json:"timestamp"`
	Node      string         `json:"node"`
	Status    Status         `json:"status"`
	Message   string         `json:"message"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// Sink receives events in the order they happen. A run has exactly one writer.
type Sink interface {
	Append(event Event) error
	Close() error
}

// MemorySink keeps events in memory.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Append(event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *MemorySink) Close() error { return nil }

// Events returns a copy of everything appended so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}

// ForNode returns the events recorded for one node, in order.
func (s *MemorySink) ForNode(node string) []Event {
	var out []Event
	for _, e := range s.Events() {
		if e.Node == node {
			out = append(out, e)
		}
	}
	return out
}

// Tee forwards every event to all sinks, stopping at the first failure.
type Tee []Sink

func (t Tee) Append(event Event) error {
	for _, s := range t {
		if err := s.Append(event); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Close() error {
	var first error
	for _, s := range t {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
