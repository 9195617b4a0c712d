// Package memsink is an in-memory sink.DocumentAcceptor fake used by the
// test suite to assert emission order and the shutdown-safety invariant
// from spec.md §8 ("After shutdown() returns, no further take calls are
// made on the sink; cancel() has been called exactly once").
package memsink

import (
	"errors"
	"sync"

	"github.com/wiarlawd/fs-crawler/pkg/document"
)

// Sink records every document it is given, in order, and counts Flush/Cancel calls.
type Sink struct {
	mu         sync.Mutex
	Docs       []document.Document
	FlushCount int
	Cancelled  bool
	cancelCount int
}

// New returns an empty Sink.
func New() *Sink { return &Sink{} }

func (s *Sink) Take(doc document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Cancelled {
		return errors.New("memsink: take called after cancel")
	}
	s.Docs = append(s.Docs, doc)
	return nil
}

func (s *Sink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.FlushCount++
	return nil
}

func (s *Sink) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cancelled = true
	s.cancelCount++
	return nil
}

// CancelCount reports how many times Cancel was called — the testable
// "exactly once" property asserts this equals 1 after shutdown.
func (s *Sink) CancelCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelCount
}

// Docids returns the recorded documents' docids, in emission order, for
// assertions against the expected depth-first sequence.
func (s *Sink) Docids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.Docs))
	for i, d := range s.Docs {
		ids[i] = d.Docid
	}
	return ids
}
