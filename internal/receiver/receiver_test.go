package receiver

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hammamikhairi/lrcshow/internal/domain"
	"github.com/hammamikhairi/lrcshow/internal/logger"
	"github.com/hammamikhairi/lrcshow/internal/provider"
	"github.com/hammamikhairi/lrcshow/internal/storage"
)

// countingCallback records how often the change callback ran.
type countingCallback struct {
	mu    sync.Mutex
	calls int
	ch    chan struct{}
}

func newCountingCallback() *countingCallback {
	return &countingCallback{ch: make(chan struct{}, 64)}
}

func (c *countingCallback) fn() {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()
	c.ch <- struct{}{}
}

func (c *countingCallback) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func (c *countingCallback) wait(t *testing.T) {
	t.Helper()
	select {
	case <-c.ch:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change callback")
	}
}

func setup(t *testing.T) (*Receiver, *provider.Memory, *storage.LyricsState, *countingCallback) {
	t.Helper()
	log := logger.New(logger.LevelOff, nil)
	mem := provider.NewMemory(log)
	state := storage.NewLyricsState(log)
	cb := newCountingCallback()
	r := New(mem, mem, state, log, WithOnChange(cb.fn))
	return r, mem, state, cb
}

func TestConnectResyncs(t *testing.T) {
	r, mem, state, cb := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"first line", "second line"})
	mem.SetPosition(domain.Position{LineIndex: 1, CharFrom: 0, CharTo: 6})

	if _, err := r.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}

	snap := state.Snapshot()
	if snap.Lyrics.Len() != 2 {
		t.Fatalf("expected 2 lines after resync, got %d", snap.Lyrics.Len())
	}
	if snap.Segment == nil || *snap.Segment != (domain.Segment{LineIndex: 1, CharFrom: 0, CharTo: 6}) {
		t.Fatalf("unexpected segment after resync: %+v", snap.Segment)
	}
	if lyrics, pos := mem.Calls(); lyrics != 1 || pos != 1 {
		t.Fatalf("calls = (%d, %d), want (1, 1)", lyrics, pos)
	}
	if cb.count() != 1 {
		t.Fatalf("callback ran %d times, want 1", cb.count())
	}
}

func TestLyricsChangedClearsSegment(t *testing.T) {
	r, mem, state, cb := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"old song"})
	r.Handle(ctx, domain.LyricsChanged{})
	r.Handle(ctx, domain.ActiveSegmentChanged{Position: domain.Position{LineIndex: 0, CharFrom: 0, CharTo: 3}})
	if !state.Snapshot().HasSegment() {
		t.Fatal("expected a segment before the lyrics change")
	}

	mem.SetLyrics([]string{"new song", "with more lines"})
	r.Handle(ctx, domain.LyricsChanged{})

	snap := state.Snapshot()
	if snap.Segment != nil {
		t.Fatalf("expected segment cleared after lyrics change, got %s", snap.Segment)
	}
	if snap.Lyrics.Len() != 2 || snap.Lyrics.Lines[0] != "new song" {
		t.Fatalf("unexpected lyrics: %+v", snap.Lyrics)
	}
	if cb.count() != 3 {
		t.Fatalf("callback ran %d times, want 3", cb.count())
	}
}

func TestLyricsChangedPicksUpFreshPosition(t *testing.T) {
	r, mem, state, _ := setup(t)
	ctx := context.Background()

	// The provider already moved on by the time we pull.
	mem.SetLyrics([]string{"one", "two"})
	mem.SetPosition(domain.Position{LineIndex: 1, CharFrom: 0, CharTo: 3})
	r.Handle(ctx, domain.LyricsChanged{})

	seg := state.Snapshot().Segment
	if seg == nil || seg.LineIndex != 1 {
		t.Fatalf("expected position pulled after lyrics change, got %+v", seg)
	}
}

func TestLyricsChangedFetchFailureBlanks(t *testing.T) {
	r, mem, state, cb := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"song"})
	r.Handle(ctx, domain.LyricsChanged{})
	r.Handle(ctx, domain.ActiveSegmentChanged{Position: domain.Position{LineIndex: 0, CharFrom: 0, CharTo: 4}})

	mem.FailLyrics(errors.New("bus gone"))
	r.Handle(ctx, domain.LyricsChanged{})

	snap := state.Snapshot()
	if snap.Lyrics != nil || snap.HasSegment() {
		t.Fatalf("expected blank state after failed fetch, got %+v", snap)
	}
	if cb.count() != 3 {
		t.Fatalf("callback ran %d times, want 3", cb.count())
	}

	// Next successful event heals it.
	mem.FailLyrics(nil)
	r.Handle(ctx, domain.ActiveSegmentChanged{Position: domain.Position{LineIndex: 0, CharFrom: 0, CharTo: 2}})
	if !state.Snapshot().HasSegment() {
		t.Fatal("expected state to recover on the next event")
	}
}

func TestNegativeLineIndexClearsSegment(t *testing.T) {
	r, mem, state, cb := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"song"})
	r.Handle(ctx, domain.LyricsChanged{})
	r.Handle(ctx, domain.ActiveSegmentChanged{Position: domain.Position{LineIndex: 0, CharFrom: 0, CharTo: 4}})
	r.Handle(ctx, domain.ActiveSegmentChanged{Position: domain.NoPosition})

	snap := state.Snapshot()
	if snap.Segment != nil {
		t.Fatalf("expected no segment, got %s", snap.Segment)
	}
	if snap.Lyrics == nil {
		t.Fatal("clearing the segment must keep the document")
	}
	if cb.count() != 3 {
		t.Fatalf("callback ran %d times, want 3", cb.count())
	}
}

func TestSegmentBeforeFirstFetch(t *testing.T) {
	r, mem, state, _ := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"early bird"})
	pos := domain.Position{LineIndex: 0, CharFrom: 6, CharTo: 10}

	r.Handle(ctx, domain.ActiveSegmentChanged{Position: pos})
	if lyrics, _ := mem.Calls(); lyrics != 1 {
		t.Fatalf("expected exactly one lyrics fetch, got %d", lyrics)
	}

	// Document known now: no more fetches.
	r.Handle(ctx, domain.ActiveSegmentChanged{Position: pos})
	if lyrics, _ := mem.Calls(); lyrics != 1 {
		t.Fatalf("expected no further fetch once lyrics are known, got %d", lyrics)
	}

	snap := state.Snapshot()
	if !snap.HasSegment() || snap.Lyrics.Lines[0][snap.Segment.CharFrom:snap.Segment.CharTo] != "bird" {
		t.Fatalf("unexpected state: %+v", snap)
	}
}

func TestCallbackRunsEvenWhenUnchanged(t *testing.T) {
	r, mem, _, cb := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"same"})
	pos := domain.Position{LineIndex: 0, CharFrom: 0, CharTo: 4}
	for i := 0; i < 3; i++ {
		r.Handle(ctx, domain.ActiveSegmentChanged{Position: pos})
	}
	if cb.count() != 3 {
		t.Fatalf("callback ran %d times, want 3", cb.count())
	}
}

func TestPositionFailureKeepsDocument(t *testing.T) {
	r, mem, state, _ := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"a", "b"})
	mem.FailPosition(errors.New("timeout"))
	r.Handle(ctx, domain.LyricsChanged{})

	snap := state.Snapshot()
	if snap.Lyrics.Len() != 2 || snap.Segment != nil {
		t.Fatalf("expected document without segment, got %+v", snap)
	}
}

func TestStartProcessesEventsSerially(t *testing.T) {
	r, mem, state, cb := setup(t)
	ctx := context.Background()

	mem.SetLyrics([]string{"la la la"})
	r.Start(ctx)
	r.Start(ctx) // second call is a no-op
	defer r.Stop()

	cb.wait(t) // resync

	for _, from := range []int{0, 3, 6} {
		mem.SetPosition(domain.Position{LineIndex: 0, CharFrom: from, CharTo: from + 2})
		cb.wait(t)
	}

	seg := state.Snapshot().Segment
	if seg == nil || seg.CharFrom != 6 {
		t.Fatalf("expected last segment applied, got %+v", seg)
	}
	if cb.count() != 4 {
		t.Fatalf("callback ran %d times, want 4", cb.count())
	}

	r.Stop()
	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("receiver did not stop")
	}
}

// failingSource cannot subscribe.
type failingSource struct{}

func (failingSource) Subscribe(context.Context) (<-chan domain.Event, error) {
	return nil, domain.ErrNotConnected
}

func TestStartWithFailedSubscriptionLeavesStateBlank(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	mem := provider.NewMemory(log)
	mem.SetLyrics([]string{"never seen"})
	state := storage.NewLyricsState(log)

	r := New(mem, failingSource{}, state, log)
	r.Start(context.Background())

	select {
	case <-r.Done():
	case <-time.After(time.Second):
		t.Fatal("receiver loop should exit when subscribing fails")
	}
	if snap := state.Snapshot(); snap.Lyrics != nil {
		t.Fatalf("expected blank state, got %+v", snap)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Class
	}{
		{"plain", errors.New("x"), ClassRecoverable},
		{"canceled", context.Canceled, ClassCanceled},
		{"not connected", domain.ErrNotConnected, ClassUnavailable},
		{"wrapped no lyrics", errors.Join(errors.New("call"), domain.ErrNoLyrics), ClassUnavailable},
		{"bad signal", domain.ErrBadSignal, ClassDegraded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.err); got != tt.want {
				t.Fatalf("Classify(%v) = %s, want %s", tt.err, got, tt.want)
			}
		})
	}
}
