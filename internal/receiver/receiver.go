// Package receiver keeps the lyrics state in sync with the provider.
// It subscribes to the provider's push notifications, pulls the lyrics
// and position when needed, and signals a callback after every event.
package receiver

import (
	"context"
	"sync"

	"github.com/hammamikhairi/lrcshow/internal/domain"
	"github.com/hammamikhairi/lrcshow/internal/logger"
	"github.com/hammamikhairi/lrcshow/internal/storage"
)

// Option configures the receiver.
type Option func(*Receiver)

// WithOnChange sets the callback run after every processed event. It is
// called from the receiver's goroutine and must be safe to call from there.
func WithOnChange(fn domain.ChangeFunc) Option {
	return func(r *Receiver) {
		if fn != nil {
			r.onChange = fn
		}
	}
}

// Receiver processes provider events one at a time on a single goroutine
// and is the only writer of its LyricsState.
type Receiver struct {
	lyrics   domain.LyricsService
	signals  domain.SignalSource
	state    *storage.LyricsState
	onChange domain.ChangeFunc
	log      *logger.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// New creates a receiver. Call Start (or Connect and Handle directly) to
// begin processing.
func New(lyrics domain.LyricsService, signals domain.SignalSource, state *storage.LyricsState, log *logger.Logger, opts ...Option) *Receiver {
	if log == nil {
		log = logger.Nop()
	}
	r := &Receiver{
		lyrics:   lyrics,
		signals:  signals,
		state:    state,
		onChange: func() {},
		log:      log.Named("receiver"),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start launches the event loop in the background. Non-blocking. Only the
// first call has any effect; the loop is never restarted, not even after
// Stop.
func (r *Receiver) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return
	}
	r.started = true

	childCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	go r.loop(childCtx)
	r.log.Info("started")
}

// Stop cancels the event loop. It does not wait; use Done for that.
func (r *Receiver) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
}

// Done is closed once the event loop has exited. It stays open if Start
// was never called.
func (r *Receiver) Done() <-chan struct{} {
	return r.done
}

// loop connects, then handles events until ctx ends or the subscription
// is lost. A failed subscription is not retried: the state stays empty and
// hosts render blank.
func (r *Receiver) loop(ctx context.Context) {
	defer close(r.done)

	events, err := r.Connect(ctx)
	if err != nil {
		r.log.Error("connect: %v", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			r.log.Info("stopped")
			return
		case ev, ok := <-events:
			if !ok {
				r.log.Warn("signal subscription closed")
				return
			}
			r.Handle(ctx, ev)
		}
	}
}

// Connect subscribes to the provider's notifications and then resyncs:
// lyrics first, then position. The provider may have restarted while we
// were not listening, so nothing cached is trusted. The callback runs once
// after the resync.
func (r *Receiver) Connect(ctx context.Context) (<-chan domain.Event, error) {
	events, err := r.signals.Subscribe(ctx)
	if err != nil {
		return nil, err
	}
	r.log.Debug("subscribed, resyncing")

	doc := r.fetchLyrics(ctx)
	r.state.Set(doc, r.fetchSegment(ctx))
	r.onChange()
	return events, nil
}

// Handle applies one event to the state and runs the callback exactly
// once. It must not be called concurrently with itself or with Connect.
func (r *Receiver) Handle(ctx context.Context, ev domain.Event) {
	r.log.Debug("event %s", domain.EventName(ev))

	switch e := ev.(type) {
	case domain.LyricsChanged:
		r.onLyricsChanged(ctx)
	case domain.ActiveSegmentChanged:
		r.onActiveSegmentChanged(ctx, e.Position)
	default:
		r.log.Warn("ignoring unknown event %T", ev)
		return
	}
	r.onChange()
}

// onLyricsChanged replaces the document and drops the old segment; old
// offsets mean nothing against new text. The position is pulled again and
// committed together with the new document.
func (r *Receiver) onLyricsChanged(ctx context.Context) {
	doc := r.fetchLyrics(ctx)
	r.state.Set(doc, r.fetchSegment(ctx))
}

// onActiveSegmentChanged sets the segment from pos. If no document is
// known yet (the event beat the first resync) it is fetched first.
func (r *Receiver) onActiveSegmentChanged(ctx context.Context, pos domain.Position) {
	doc := r.state.Snapshot().Lyrics
	if doc == nil {
		doc = r.fetchLyrics(ctx)
	}
	r.state.Set(doc, pos.Segment())
}

// fetchLyrics pulls the current lines. Failures are logged and yield nil.
func (r *Receiver) fetchLyrics(ctx context.Context) *domain.Document {
	lines, err := r.lyrics.GetCurrentLyrics(ctx)
	if err != nil {
		r.log.Warn("getting lyrics (%s): %v", Classify(err), err)
		return nil
	}
	r.log.Debug("new lyrics: %d lines", len(lines))
	return domain.NewDocument(lines)
}

// fetchSegment pulls the current position. Failures are logged and yield
// nil, as does the provider's "no position" sentinel.
func (r *Receiver) fetchSegment(ctx context.Context) *domain.Segment {
	pos, err := r.lyrics.GetCurrentLyricsPosition(ctx)
	if err != nil {
		r.log.Warn("getting position (%s): %v", Classify(err), err)
		return nil
	}
	return pos.Segment()
}
