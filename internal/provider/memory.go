// Package provider contains an in-memory lyrics provider. It stands in for
// the D-Bus daemon in tests and in demo mode.
package provider

import (
	"context"
	"sync"

	"github.com/hammamikhairi/lrcshow/internal/domain"
	"github.com/hammamikhairi/lrcshow/internal/logger"
)

// Compile-time interface checks.
var (
	_ domain.LyricsService = (*Memory)(nil)
	_ domain.SignalSource  = (*Memory)(nil)
)

// subscriberBuffer is how many undelivered events a subscriber may lag
// behind before further events to it are dropped.
const subscriberBuffer = 256

// Memory holds the current lyrics and position and broadcasts changes to
// its subscribers, the way the daemon does. Safe for concurrent use.
type Memory struct {
	mu       sync.Mutex
	lines    []string
	position domain.Position
	subs     []chan domain.Event
	log      *logger.Logger

	lyricsErr     error
	positionErr   error
	lyricsCalls   int
	positionCalls int
}

// NewMemory creates a provider with no lyrics and no position.
func NewMemory(log *logger.Logger) *Memory {
	if log == nil {
		log = logger.Nop()
	}
	return &Memory{
		position: domain.NoPosition,
		log:      log.Named("memory"),
	}
}

// GetCurrentLyrics returns a copy of the current lines. With no lyrics
// loaded it returns an empty slice, as the daemon does.
func (m *Memory) GetCurrentLyrics(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lyricsCalls++
	if m.lyricsErr != nil {
		return nil, m.lyricsErr
	}
	return append([]string{}, m.lines...), nil
}

// GetCurrentLyricsPosition returns the current position.
func (m *Memory) GetCurrentLyricsPosition(ctx context.Context) (domain.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.positionCalls++
	if m.positionErr != nil {
		return domain.NoPosition, m.positionErr
	}
	return m.position, nil
}

// Subscribe registers a new subscriber. Its channel is closed when ctx
// is done.
func (m *Memory) Subscribe(ctx context.Context) (<-chan domain.Event, error) {
	ch := make(chan domain.Event, subscriberBuffer)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, s := range m.subs {
			if s == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}()
	return ch, nil
}

// SetLyrics replaces the lyrics, resets the position and emits
// LyricsChanged.
func (m *Memory) SetLyrics(lines []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lines = append([]string(nil), lines...)
	m.position = domain.NoPosition
	m.emitLocked(domain.LyricsChanged{})
}

// SetPosition updates the position and emits ActiveSegmentChanged. Pass
// domain.NoPosition to clear it.
func (m *Memory) SetPosition(pos domain.Position) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.position = pos
	m.emitLocked(domain.ActiveSegmentChanged{Position: pos})
}

// Emit broadcasts ev without touching the stored lyrics or position.
func (m *Memory) Emit(ev domain.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.emitLocked(ev)
}

// FailLyrics makes GetCurrentLyrics return err until called again with nil.
func (m *Memory) FailLyrics(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lyricsErr = err
}

// FailPosition makes GetCurrentLyricsPosition return err until called
// again with nil.
func (m *Memory) FailPosition(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.positionErr = err
}

// Calls returns how many times each pull call was made.
func (m *Memory) Calls() (lyrics, position int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lyricsCalls, m.positionCalls
}

// emitLocked delivers ev to every subscriber without blocking.
// Must be called with m.mu held.
func (m *Memory) emitLocked(ev domain.Event) {
	for _, ch := range m.subs {
		select {
		case ch <- ev:
		default:
			m.log.Warn("subscriber lagging, dropped %s", domain.EventName(ev))
		}
	}
}
