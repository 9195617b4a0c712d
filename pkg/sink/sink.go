// Package sink defines the crawler's DocumentAcceptor collaborator — the
// downstream sink documents are delivered to — and ships two
// implementations of it: memsink, an in-memory fake used across the test
// suite to assert emission order and shutdown safety, and logsink, a thin
// log-and-drop sink used by the daemon's dry-run mode.
package sink

import "github.com/wiarlawd/fs-crawler/pkg/document"

// DocumentAcceptor is the external sink per spec.md §1: take(Document),
// flush(), cancel().
type DocumentAcceptor interface {
	// Take delivers one document. Implementations may block for
	// backpressure (spec.md §5 "Suspension points").
	Take(doc document.Document) error
	// Flush is called in a deferred clause at the end of every traversal
	// cycle that opened its root, even when the cycle fails later; a cycle
	// whose root cannot be opened does not flush.
	Flush() error
	// Cancel is called exactly once during shutdown, also in a
	// finally-clause.
	Cancel() error
}
