package domain

// Event is a push notification from the lyrics provider.
type Event interface {
	eventName() string
}

// LyricsChanged says the provider switched to a new set of lyrics. It has
// no payload; the new lines must be pulled.
type LyricsChanged struct{}

func (LyricsChanged) eventName() string { return "LyricsChanged" }

// ActiveSegmentChanged carries the new position. LineIndex < 0 means no
// line is active.
type ActiveSegmentChanged struct {
	Position Position
}

func (ActiveSegmentChanged) eventName() string { return "ActiveSegmentChanged" }

// EventName returns the protocol name of e, for logs.
func EventName(e Event) string {
	if e == nil {
		return "<nil>"
	}
	return e.eventName()
}
