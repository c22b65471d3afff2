package domain

import "context"

// LyricsService is the pull side of the lyrics provider. Both calls may
// block for as long as the provider takes to answer; no timeout is applied
// beyond what ctx carries.
type LyricsService interface {
	// GetCurrentLyrics returns every line of the current lyrics.
	GetCurrentLyrics(ctx context.Context) ([]string, error)
	// GetCurrentLyricsPosition returns the current position. A negative
	// LineIndex means there is no active position.
	GetCurrentLyricsPosition(ctx context.Context) (Position, error)
}

// SignalSource is the push side of the lyrics provider. Subscribe starts
// delivering events in the order the provider emitted them; the channel is
// closed when ctx is done or the subscription is lost.
type SignalSource interface {
	Subscribe(ctx context.Context) (<-chan Event, error)
}

// ChangeFunc is invoked after every processed event. It carries no payload:
// it only says the lyrics state may have changed.
type ChangeFunc func()
