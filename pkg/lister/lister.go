// Package lister implements the crawler's scheduler (spec component C8):
// a single-threaded control loop that dispatches one Traverser per
// configured root onto a bounded worker pool every cycle, paced by an
// external Schedule, and reconfigures the pool in place when the schedule
// or root set changes — mirroring the graceful-shutdown-with-hard-fallback
// shape the daemon runtime uses for its driven servers.
package lister

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wiarlawd/fs-crawler/pkg/log"
	"github.com/wiarlawd/fs-crawler/pkg/schedule"
	"github.com/wiarlawd/fs-crawler/pkg/sink"
)

var logger = log.New("lister")

// Traverser is the subset of *traversal.Traverser the lister depends on,
// kept as an interface so the pool can be exercised with fakes.
type Traverser interface {
	Run(ctx context.Context) error
}

// DefaultThreadPoolSize matches spec.md §6's config default.
const DefaultThreadPoolSize = 10

// DefaultErrorDelay is the fixed sleep after a cycle that finished with errors.
const DefaultErrorDelay = 5 * time.Minute

// DefaultShutdownTimeout bounds how long Shutdown waits for the loop to
// observe the shutdown flag and exit.
const DefaultShutdownTimeout = 5 * time.Minute

// forever stands in for an unbounded sleep: a schedule with no interval, or
// a negative retry delay, waits this long unless interrupted (spec.md §4.8:
// "a sleep of ∞ ... is represented as a near-maximum finite duration").
const forever = 100 * 365 * 24 * time.Hour

// pool is one (traversers, size) generation; SetTraversers installs a new
// one atomically so an in-flight cycle keeps running against the
// generation it started with (spec.md §5 "Shared resources").
type pool struct {
	traversers []Traverser
	size       int
}

// Lister runs the scheduler loop described in spec.md §4.8.
type Lister struct {
	sink sink.DocumentAcceptor

	poolVal     atomic.Value // pool
	scheduleVal atomic.Value // schedule.Schedule

	shuttingDown atomic.Bool
	interrupt    chan struct{}
	done         chan struct{}
	doneOnce     sync.Once

	errorDelay      time.Duration
	shutdownTimeout time.Duration

	// Now and Sleep let tests control timing; both default to real time.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration, interrupted <-chan struct{}) (wasInterrupted bool)
}

// New builds a Lister with the given initial traversers, pool size and
// schedule. Call Run in its own goroutine, and Shutdown to stop it.
func New(traversers []Traverser, poolSize int, sched schedule.Schedule, s sink.DocumentAcceptor) *Lister {
	if poolSize <= 0 {
		poolSize = DefaultThreadPoolSize
	}
	l := &Lister{
		sink:            s,
		interrupt:       make(chan struct{}, 1),
		done:            make(chan struct{}),
		errorDelay:      DefaultErrorDelay,
		shutdownTimeout: DefaultShutdownTimeout,
	}
	l.poolVal.Store(pool{traversers: traversers, size: poolSize})
	l.scheduleVal.Store(sched)
	return l
}

func (l *Lister) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *Lister) sleep(ctx context.Context, d time.Duration) bool {
	if l.Sleep != nil {
		return l.Sleep(ctx, d, l.interrupt)
	}
	if d <= 0 {
		return false
	}
	select {
	case <-ctx.Done():
		return false
	case <-l.interrupt:
		return true
	case <-time.After(d):
		return false
	}
}

func (l *Lister) wake() {
	select {
	case l.interrupt <- struct{}{}:
	default:
	}
}

func (l *Lister) currentPool() pool {
	return l.poolVal.Load().(pool)
}

func (l *Lister) currentSchedule() schedule.Schedule {
	return l.scheduleVal.Load().(schedule.Schedule)
}

// SetSchedule installs a new schedule and interrupts a pending sleep so the
// loop re-evaluates promptly (spec.md §8 scenario 6).
func (l *Lister) SetSchedule(sched schedule.Schedule) {
	l.scheduleVal.Store(sched)
	logger.Info().Msg("schedule changed; interrupting scheduler sleep")
	l.wake()
}

// SetTraversers replaces the root set and pool size, tearing down the old
// pool and reinstalling fresh traversers on the next cycle (spec.md §9
// "Lister/traverser re-pool on reconfiguration", modeled here as an
// atomically-swapped pool value rather than a mutable field).
func (l *Lister) SetTraversers(traversers []Traverser, poolSize int) {
	if poolSize <= 0 {
		poolSize = DefaultThreadPoolSize
	}
	l.poolVal.Store(pool{traversers: traversers, size: poolSize})
	logger.Info().Int("roots", len(traversers)).Int("poolSize", poolSize).Msg("traverser set reconfigured")
	l.wake()
}

// Run executes the scheduler loop until Shutdown is called or ctx is
// cancelled. It blocks; callers run it in its own goroutine.
func (l *Lister) Run(ctx context.Context) {
	defer l.finalize()

	for {
		if l.shuttingDown.Load() || ctx.Err() != nil {
			return
		}

		sched := l.currentSchedule()
		now := l.now()
		var preDelay time.Duration
		switch {
		case sched.IsDisabled():
			preDelay = forever
		case !sched.InScheduledInterval(now):
			preDelay = sched.NextScheduledInterval(now)
		}
		if preDelay > 0 {
			if l.sleep(ctx, preDelay) {
				continue // interrupted: re-evaluate schedule immediately
			}
		}

		if l.shuttingDown.Load() || ctx.Err() != nil {
			return
		}

		p := l.currentPool()
		finishedWithErrors := l.runCycle(ctx, p)

		if l.shuttingDown.Load() || ctx.Err() != nil {
			return
		}

		var postDelay time.Duration
		if finishedWithErrors {
			postDelay = l.errorDelay
		} else if rd := l.currentSchedule().RetryDelay(); rd < 0 {
			postDelay = forever
		} else {
			postDelay = rd
		}
		l.sleep(ctx, postDelay)
	}
}

// runCycle dispatches every traverser in p onto a worker pool bounded by
// p.size and waits for all to finish. A failing root never cancels its
// siblings: traversers share no mutable state (spec.md §5).
func (l *Lister) runCycle(ctx context.Context, p pool) (finishedWithErrors bool) {
	if len(p.traversers) == 0 {
		return false
	}
	g := new(errgroup.Group)
	g.SetLimit(p.size)
	var anyErr atomic.Bool

	for _, tr := range p.traversers {
		tr := tr
		g.Go(func() error {
			if err := tr.Run(ctx); err != nil {
				anyErr.Store(true)
				logger.Warn().Err(err).Msg("traverser returned an error")
			}
			return nil
		})
	}
	_ = g.Wait()
	return anyErr.Load()
}

// Shutdown requests the loop stop, waits up to the shutdown timeout for it
// to do so, and logs a warning if it does not (spec.md §4.8).
func (l *Lister) Shutdown(ctx context.Context) {
	l.shuttingDown.Store(true)
	l.wake()

	select {
	case <-l.done:
	case <-time.After(l.shutdownTimeout):
		logger.Warn().Dur("timeout", l.shutdownTimeout).Msg("lister did not terminate within shutdown timeout")
	case <-ctx.Done():
	}
}

// finalize runs once, in Run's defer: it cancels the sink and signals done,
// regardless of why the loop exited (spec.md §7 "shutdown ... finalizes
// with sink.cancel()").
func (l *Lister) finalize() {
	if err := l.sink.Cancel(); err != nil {
		logger.Warn().Err(err).Msg("sink cancel failed")
	}
	l.doneOnce.Do(func() { close(l.done) })
}
