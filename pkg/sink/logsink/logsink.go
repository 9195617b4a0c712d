// Package logsink implements a sink.DocumentAcceptor that logs every
// document at info level and drops it — the daemon's -dry-run default, so
// a fresh checkout can run end-to-end without a real downstream index.
package logsink

import (
	"github.com/wiarlawd/fs-crawler/pkg/document"
	"github.com/wiarlawd/fs-crawler/pkg/log"
)

var logger = log.New("sink/logsink")

// Sink is the log-and-drop DocumentAcceptor.
type Sink struct{}

// New returns a Sink.
func New() *Sink { return &Sink{} }

func (*Sink) Take(doc document.Document) error {
	logger.Info().Str("docid", doc.Docid).Int("kind", int(doc.Kind)).Msg("document (dry-run, not delivered)")
	return nil
}

func (*Sink) Flush() error {
	logger.Debug().Msg("flush (dry-run)")
	return nil
}

func (*Sink) Cancel() error {
	logger.Info().Msg("cancel (dry-run)")
	return nil
}
