// Package window turns a lyrics snapshot into a fixed-width, five-part
// text window centred on the active segment.
//
// All arithmetic is in bytes of UTF-8 text because the provider reports
// segment offsets in bytes. Every cut is moved onto a code point boundary;
// bytes lost that way are replaced by spaces so the total never changes.
package window

import (
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hammamikhairi/lrcshow/internal/domain"
)

const (
	// Width is the byte length of every non-empty render.
	Width = 110
	// LeadingContext is the number of bytes shown before the active segment.
	LeadingContext = 20

	// lineSeparator joins lines in the flattened buffer. Lines never
	// contain it.
	lineSeparator = '\n'
)

// Render is the five-part window. Before and After are context from the
// surrounding text, PreActive and PostActive are the rest of the active
// line, Active is the highlighted segment. Either all five are empty or
// their byte lengths add up to Width.
type Render struct {
	Before     string
	PreActive  string
	Active     string
	PostActive string
	After      string
}

// Empty reports whether nothing is to be shown.
func (r Render) Empty() bool {
	return r.Len() == 0
}

// Len returns the combined byte length of the five parts.
func (r Render) Len() int {
	return len(r.Before) + len(r.PreActive) + len(r.Active) + len(r.PostActive) + len(r.After)
}

// String joins the five parts without styling.
func (r Render) String() string {
	return r.Before + r.PreActive + r.Active + r.PostActive + r.After
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithSeparator sets the byte shown in context fields where one line ends
// and the next begins. It must be a single-byte (ASCII) character.
func WithSeparator(b byte) Option {
	return func(f *Formatter) {
		if b < utf8.RuneSelf {
			f.separator = b
		}
	}
}

// WithFlattenHook registers fn to be called every time the flattened
// buffer is rebuilt.
func WithFlattenHook(fn func(*domain.Document)) Option {
	return func(f *Formatter) {
		f.onFlatten = fn
	}
}

// Formatter renders snapshots. It keeps the flattened form of the last
// document it saw and rebuilds it only when handed a different *Document.
// Safe for concurrent use.
type Formatter struct {
	separator byte
	onFlatten func(*domain.Document)

	mu    sync.Mutex
	cache flatIndex
}

// flatIndex is every line joined by lineSeparator. offsets[i] is where
// line i starts; offsets[len(lines)] is len(buf), so line i together with
// its separator spans [offsets[i], offsets[i+1]).
type flatIndex struct {
	doc     *domain.Document
	buf     string
	offsets []int
}

// NewFormatter creates a formatter.
func NewFormatter(opts ...Option) *Formatter {
	f := &Formatter{separator: ' '}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Render formats snap. Snapshots without a usable segment (none set, line
// out of range, offsets outside the line or inside a code point) render as
// all-empty.
func (f *Formatter) Render(snap domain.Snapshot) Render {
	if !snap.HasSegment() {
		return Render{}
	}
	seg := *snap.Segment
	line := snap.Lyrics.Lines[seg.LineIndex]
	if !validOffsets(line, seg.CharFrom, seg.CharTo) {
		return Render{}
	}

	idx := f.index(snap.Lyrics)

	// lineEnd includes the separator that follows the line, if any.
	lineStart := idx.offsets[seg.LineIndex]
	lineEnd := idx.offsets[seg.LineIndex+1]
	activeStart := lineStart + seg.CharFrom
	activeEnd := lineStart + seg.CharTo

	var r Render

	// Leading context: exactly LeadingContext bytes, left-padded when the
	// buffer start (or a code point boundary) cuts it short.
	from := max(activeStart-LeadingContext, 0)
	for from < activeStart && !utf8.RuneStart(idx.buf[from]) {
		from++
	}
	pad := LeadingContext - (activeStart - from)
	if from < lineStart {
		r.Before = spaces(pad) + f.display(idx.buf[from:lineStart])
		r.PreActive = idx.buf[lineStart:activeStart]
	} else {
		r.Before = spaces(pad)
		r.PreActive = idx.buf[from:activeStart]
	}

	budget := Width - LeadingContext

	var clipped bool
	r.Active, clipped = clip(idx.buf[activeStart:activeEnd], budget)
	budget -= len(r.Active)
	if !clipped {
		r.PostActive, clipped = clip(idx.buf[activeEnd:lineEnd], budget)
		r.PostActive = f.display(r.PostActive)
		budget -= len(r.PostActive)
	}
	if !clipped {
		r.After, _ = clip(idx.buf[lineEnd:], budget)
		r.After = f.display(r.After)
		budget -= len(r.After)
	}
	r.After += spaces(budget)

	return r
}

// index returns the flattened form of doc, rebuilding it only when doc is
// not the document the cache was built from.
func (f *Formatter) index(doc *domain.Document) flatIndex {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cache.doc == doc {
		return f.cache
	}

	offsets := make([]int, len(doc.Lines)+1)
	var b strings.Builder
	for i, line := range doc.Lines {
		if i > 0 {
			b.WriteByte(lineSeparator)
		}
		offsets[i] = b.Len()
		b.WriteString(line)
	}
	offsets[len(doc.Lines)] = b.Len()

	f.cache = flatIndex{doc: doc, buf: b.String(), offsets: offsets}
	if f.onFlatten != nil {
		f.onFlatten(doc)
	}
	return f.cache
}

// display swaps line separators for the configured display byte.
func (f *Formatter) display(s string) string {
	if f.separator == lineSeparator {
		return s
	}
	return strings.ReplaceAll(s, string(rune(lineSeparator)), string(rune(f.separator)))
}

// validOffsets reports whether [from, to) is a well-formed byte range of
// line whose ends sit on code point boundaries.
func validOffsets(line string, from, to int) bool {
	if from < 0 || from > to || to > len(line) {
		return false
	}
	return onBoundary(line, from) && onBoundary(line, to)
}

func onBoundary(s string, i int) bool {
	return i == len(s) || utf8.RuneStart(s[i])
}

// clip cuts s to at most n bytes on a code point boundary. The second
// result reports whether anything was cut.
func clip(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	cut := max(n, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}
