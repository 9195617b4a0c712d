// Package traversal implements the crawler's per-root scheduled crawl
// cycle (spec component C7): the full-vs-incremental decision, the visit
// loop that turns iterator output into documents and delivers them to the
// sink, and the transient-error retry/pushback behavior.
package traversal

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wiarlawd/fs-crawler/pkg/appctx"
	"github.com/wiarlawd/fs-crawler/pkg/document"
	"github.com/wiarlawd/fs-crawler/pkg/errtypes"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/iterator"
	"github.com/wiarlawd/fs-crawler/pkg/log"
	"github.com/wiarlawd/fs-crawler/pkg/match"
	"github.com/wiarlawd/fs-crawler/pkg/sink"
)

var logger = log.New("traversal")
var tracer = otel.Tracer("github.com/wiarlawd/fs-crawler/pkg/traversal")

// DefaultErrorDelay is the spec-mandated sleep after a transient failure.
const DefaultErrorDelay = 5 * time.Minute

// DefaultIfModifiedSinceCushion compensates for server clock skew and
// timestamp rounding (spec.md §4.7).
const DefaultIfModifiedSinceCushion = time.Hour

// State is the two timestamps a traverser owns across cycles (spec.md §3
// "Traversal state"). Zero value means "never traversed".
type State struct {
	LastFullTraversal time.Time
	LastTraversal     time.Time
}

// Options configures one Traverser, decoded from spec.md §6's config keys.
type Options struct {
	ErrorDelay                    time.Duration
	IfModifiedSinceCushion        time.Duration
	FullTraversalIntervalDays     int // <0: always incremental
	PushAcls                      bool
	MarkAllDocumentsPublic        bool
	SupportsInheritedAcls         bool
}

func (o Options) errorDelay() time.Duration {
	if o.ErrorDelay <= 0 {
		return DefaultErrorDelay
	}
	return o.ErrorDelay
}

func (o Options) cushion() time.Duration {
	if o.IfModifiedSinceCushion <= 0 {
		return DefaultIfModifiedSinceCushion
	}
	return o.IfModifiedSinceCushion
}

// Traverser runs one root's scheduled crawl cycle.
type Traverser struct {
	RootPath    string
	Credentials fs.Credentials
	Registry    *fs.Registry
	Matcher     *match.Matcher
	Factory     *document.Factory
	Sink        sink.DocumentAcceptor
	Opts        Options

	// Now lets tests control the clock; defaults to time.Now.
	Now func() time.Time
	// ShuttingDown is polled before each visit and after each error-delay
	// sleep so a lister shutdown ends the visit loop promptly; only ctx
	// cancellation cuts a sleep itself short.
	ShuttingDown func() bool
	// Sleep is the suspension point for the error-delay; tests substitute
	// a no-op to avoid real waits.
	Sleep func(ctx context.Context, d time.Duration)

	state State
}

func (t *Traverser) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

func (t *Traverser) shuttingDown() bool {
	return t.ShuttingDown != nil && t.ShuttingDown()
}

func (t *Traverser) sleep(ctx context.Context, d time.Duration) {
	if t.Sleep != nil {
		t.Sleep(ctx, d)
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// State returns the traverser's current timestamps, for the lister's
// progress reporting.
func (t *Traverser) State() State { return t.state }

// ifModifiedSince implements the forced-full-vs-incremental decision from
// spec.md §4.7 step 2.
func (t *Traverser) ifModifiedSince(now time.Time) (cutoff time.Time, forcedFull bool) {
	if t.Opts.FullTraversalIntervalDays >= 0 {
		interval := time.Duration(t.Opts.FullTraversalIntervalDays) * 24 * time.Hour
		if t.state.LastFullTraversal.IsZero() || now.Sub(t.state.LastFullTraversal) >= interval {
			return time.Time{}, true
		}
	}
	cutoff = t.state.LastTraversal.Add(-t.Opts.cushion())
	if cutoff.Before(time.Unix(0, 0)) {
		cutoff = time.Unix(0, 0)
	}
	return cutoff, false
}

// directoriesReturned implements spec.md §4.5's enabling condition.
func directoriesReturned(typ fs.Type, opts Options) bool {
	return typ.SupportsACL() && opts.PushAcls && opts.SupportsInheritedAcls && !opts.MarkAllDocumentsPublic
}

// Run executes one crawl cycle: spec.md §4.7 steps 1–9.
func (t *Traverser) Run(ctx context.Context) error {
	ctx = appctx.WithNewTrace(ctx)
	ctx, span := tracer.Start(ctx, "traversal.cycle", trace.WithAttributes(attribute.String("root", t.RootPath)))
	defer span.End()

	startTime := t.now()
	l := logger.With().Str("root", t.RootPath).Str("trace", appctx.GetTrace(ctx)).Logger()

	root, err := t.Registry.GetFile(ctx, t.RootPath, t.Credentials)
	if err != nil {
		l.Warn().Err(err).Msg("could not open root; will retry next scheduled cycle")
		cyclesTotal.WithLabelValues(t.RootPath, "open_failed").Inc()
		return nil
	}

	defer func() {
		if ferr := t.Sink.Flush(); ferr != nil {
			l.Warn().Err(ferr).Msg("sink flush failed")
		}
	}()

	typ := t.Registry.TypeFor(t.RootPath)
	cutoff, forcedFull := t.ifModifiedSince(startTime)
	dirsReturned := typ != nil && directoriesReturned(typ, t.Opts)

	it, err := iterator.New(ctx, root, iterator.Options{
		Matcher:             t.Matcher,
		IfModifiedSince:     cutoff,
		DirectoriesReturned: dirsReturned,
	})
	if err != nil {
		l.Warn().Err(err).Msg("could not list root")
		cyclesTotal.WithLabelValues(t.RootPath, "open_failed").Inc()
		return nil
	}

	if dirsReturned {
		shareDoc, err := t.Factory.ShareDocument(ctx, root)
		if err != nil {
			l.Warn().Err(err).Msg("could not build share acl document")
		} else if err := t.Sink.Take(shareDoc); err != nil {
			l.Warn().Err(err).Msg("sink rejected share acl document")
		} else {
			documentsEmittedTotal.WithLabelValues(t.RootPath).Inc()
		}
	}

	errBackoff := backoff.NewExponentialBackOff()
	errBackoff.InitialInterval = t.Opts.errorDelay()
	errBackoff.MaxInterval = 6 * t.Opts.errorDelay()
	errBackoff.MaxElapsedTime = 0 // never give up mid-cycle; spec.md §7 retries indefinitely
	finishedWithErrors := false

	for {
		if t.shuttingDown() {
			return nil
		}

		file, err := it.Next(ctx)
		if err != nil {
			if err == iterator.ErrDone {
				break
			}
			if errtypes.IsRepositoryError(err) {
				finishedWithErrors = true
				transientErrorsTotal.WithLabelValues(t.RootPath).Inc()
				delay := errBackoff.NextBackOff()
				l.Warn().Err(err).Dur("delay", delay).Msg("transient error during traversal; retrying after delay")
				t.sleep(ctx, delay)
				if t.shuttingDown() {
					return nil
				}
				continue
			}
			l.Warn().Err(err).Msg("unexpected iterator error; ending cycle")
			break
		}

		docs, err := t.Factory.Documents(ctx, file, root)
		if err != nil {
			if errtypes.IsRepositoryError(err) {
				finishedWithErrors = true
				transientErrorsTotal.WithLabelValues(t.RootPath).Inc()
				it.PushBack(file)
				delay := errBackoff.NextBackOff()
				l.Warn().Err(err).Str("path", file.Path()).Dur("delay", delay).Msg("transient error building documents; retrying after delay")
				t.sleep(ctx, delay)
				if t.shuttingDown() {
					return nil
				}
				continue
			}
			l.Warn().Err(err).Str("path", file.Path()).Msg("skipping document: permanent error")
			continue
		}

		for _, doc := range docs {
			if err := t.Sink.Take(doc); err != nil {
				l.Warn().Err(err).Str("docid", doc.Docid).Msg("sink rejected document")
				continue
			}
			documentsEmittedTotal.WithLabelValues(t.RootPath).Inc()
		}
	}

	t.state.LastTraversal = startTime
	if t.state.LastFullTraversal.IsZero() || forcedFull {
		t.state.LastFullTraversal = startTime
	}

	outcome := "ok"
	if finishedWithErrors {
		outcome = "finished_with_errors"
	}
	cyclesTotal.WithLabelValues(t.RootPath, outcome).Inc()
	if finishedWithErrors {
		return errtypes.Repository("cycle for " + t.RootPath + " finished with transient errors")
	}
	return nil
}
