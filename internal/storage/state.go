// Package storage holds the in-memory lyrics state shared between the
// receiver (single writer) and any number of render hosts (readers).
package storage

import (
	"sync/atomic"

	"github.com/hammamikhairi/lrcshow/internal/domain"
	"github.com/hammamikhairi/lrcshow/internal/logger"
)

// LyricsState owns the current document and active segment. Every update
// swaps in a whole new snapshot, so readers never see a document paired
// with a segment that was set against a different one.
type LyricsState struct {
	current atomic.Pointer[domain.Snapshot]
	log     *logger.Logger
}

// NewLyricsState creates an empty state: no document, no segment.
func NewLyricsState(log *logger.Logger) *LyricsState {
	if log == nil {
		log = logger.Nop()
	}
	s := &LyricsState{log: log}
	s.current.Store(&domain.Snapshot{})
	return s
}

// Snapshot returns the current (document, segment) pair.
func (s *LyricsState) Snapshot() domain.Snapshot {
	return *s.current.Load()
}

// Set replaces both document and segment in one step. The segment is
// copied so the caller can't mutate the stored value afterwards.
func (s *LyricsState) Set(doc *domain.Document, seg *domain.Segment) {
	next := &domain.Snapshot{Lyrics: doc}
	if seg != nil {
		cp := *seg
		next.Segment = &cp
	}
	s.current.Store(next)

	if seg != nil {
		s.log.Debug("state: lines=%d segment=%s", doc.Len(), seg)
	} else {
		s.log.Debug("state: lines=%d segment=none", doc.Len())
	}
}

// SetSegment keeps the current document and replaces the segment.
// Only the single writer may call it; the read-modify-write is not
// atomic against a concurrent Set.
func (s *LyricsState) SetSegment(seg *domain.Segment) {
	s.Set(s.current.Load().Lyrics, seg)
}

// Clear drops both document and segment.
func (s *LyricsState) Clear() {
	s.current.Store(&domain.Snapshot{})
	s.log.Debug("state: cleared")
}
