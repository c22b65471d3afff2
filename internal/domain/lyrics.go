// Package domain defines the lyrics types, the provider ports and the
// sentinel errors. All other packages depend on domain; domain depends on
// nothing.
package domain

import "fmt"

// Document is one fetched set of lyric lines. A Document is never edited
// after construction: a lyrics change always produces a new *Document, and
// pointer identity is what derived caches key on.
type Document struct {
	Lines []string
}

// NewDocument copies lines into a fresh Document.
func NewDocument(lines []string) *Document {
	return &Document{Lines: append([]string(nil), lines...)}
}

// Len returns the number of lines. A nil Document has none.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Lines)
}

// Segment is the highlighted half-open byte range [CharFrom, CharTo) of
// line LineIndex.
type Segment struct {
	LineIndex int
	CharFrom  int
	CharTo    int
}

// String formats the segment for logs.
func (s Segment) String() string {
	return fmt.Sprintf("line=%d bytes=[%d,%d)", s.LineIndex, s.CharFrom, s.CharTo)
}

// Position is the provider's view of the playback position, as sent by the
// position pull call and the segment-changed signal. Elapsed is the track
// time in milliseconds; -1 when the provider has no position.
type Position struct {
	LineIndex int
	CharFrom  int
	CharTo    int
	Elapsed   int
}

// NoPosition is what the provider reports when nothing is active.
var NoPosition = Position{LineIndex: -1, CharFrom: -1, CharTo: -1, Elapsed: -1}

// Segment converts the position into an active segment. A negative line
// index is the protocol's "no active line" sentinel and yields nil.
func (p Position) Segment() *Segment {
	if p.LineIndex < 0 {
		return nil
	}
	return &Segment{LineIndex: p.LineIndex, CharFrom: p.CharFrom, CharTo: p.CharTo}
}

// Snapshot is a consistent view of the lyrics state: the segment, when
// present, was set against exactly this document.
type Snapshot struct {
	Lyrics  *Document
	Segment *Segment
}

// HasSegment reports whether the segment refers to a line of the document.
// Byte offsets are validated by the formatter.
func (s Snapshot) HasSegment() bool {
	return s.Lyrics != nil && s.Segment != nil &&
		s.Segment.LineIndex >= 0 && s.Segment.LineIndex < s.Lyrics.Len()
}
