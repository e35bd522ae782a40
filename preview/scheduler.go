// Package preview regenerates the live preview as the quote is edited. Only
// the newest snapshot's result is ever shown.
package preview

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sunnystate/quotes/export"
	"github.com/sunnystate/quotes/quote"
)

// RenderFunc produces a preview artifact for a snapshot.
type RenderFunc func(ctx context.Context, q quote.Quote) (*export.Artifact, error)

// Scheduler debounces snapshots and keeps the latest committed artifact.
// Each Submit cancels the pending timer and takes a new sequence number; a
// render is committed only if no newer snapshot was submitted meanwhile,
// otherwise its artifact is released immediately.
type Scheduler struct {
	delay    time.Duration
	render   RenderFunc
	log      *slog.Logger
	onCommit func(seq uint64, art *export.Artifact)

	mu         sync.Mutex
	timer      *time.Timer
	seq        uint64
	current    *export.Artifact
	currentSeq uint64
	closed     bool
	wg         sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger for render failures.
func WithLogger(l *slog.Logger) Option { return func(s *Scheduler) { s.log = l } }

// OnCommit registers a callback run after a new preview is committed.
func OnCommit(fn func(seq uint64, art *export.Artifact)) Option {
	return func(s *Scheduler) { s.onCommit = fn }
}

// NewScheduler waits delay after the last Submit before rendering.
func NewScheduler(delay time.Duration, render RenderFunc, opts ...Option) *Scheduler {
	s := &Scheduler{delay: delay, render: render, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit schedules a render of q and returns its sequence number.
func (s *Scheduler) Submit(q quote.Quote) uint64 {
	snap := q.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s.seq
	}
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.seq++
	seq := s.seq
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.delay, func() {
		defer s.wg.Done()
		s.run(seq, snap)
	})
	return seq
}

func (s *Scheduler) run(seq uint64, q quote.Quote) {
	s.mu.Lock()
	stale := s.closed || seq != s.seq
	s.mu.Unlock()
	if stale {
		return
	}

	art, err := s.render(context.Background(), q)

	s.mu.Lock()
	if err != nil {
		s.mu.Unlock()
		s.log.Error("preview render failed", slog.Uint64("seq", seq), slog.Any("error", err))
		return
	}
	if s.closed || seq != s.seq {
		s.mu.Unlock()
		art.Release()
		s.log.Debug("preview discarded", slog.Uint64("seq", seq))
		return
	}
	old := s.current
	s.current, s.currentSeq = art, seq
	cb := s.onCommit
	s.mu.Unlock()

	old.Release()
	if cb != nil {
		cb(seq, art)
	}
}

// Current returns the committed preview and its sequence number, or nil
// before the first commit.
func (s *Scheduler) Current() (*export.Artifact, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current, s.currentSeq
}

// Close stops the pending timer, waits for an in-flight render and releases
// the current preview.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil && s.timer.Stop() {
		s.wg.Done()
	}
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	cur := s.current
	s.current = nil
	s.mu.Unlock()
	cur.Release()
}
