package window

import (
	"sync"

	"github.com/hammamikhairi/lrcshow/internal/domain"
)

// SnapshotSource is anything that can hand out a consistent lyrics snapshot.
type SnapshotSource interface {
	Snapshot() domain.Snapshot
}

// View is what render hosts pull from. It pairs a state with a formatter
// and runs a start hook (normally the receiver's Start) the first time it
// is rendered.
type View struct {
	src       SnapshotSource
	formatter *Formatter
	start     func()
	started   sync.Once
}

// ViewOption configures a View.
type ViewOption func(*View)

// WithStart sets the function run once, on the first Render.
func WithStart(fn func()) ViewOption {
	return func(v *View) {
		v.start = fn
	}
}

// NewView creates a view over src. A nil formatter gets the default one.
func NewView(src SnapshotSource, f *Formatter, opts ...ViewOption) *View {
	if f == nil {
		f = NewFormatter()
	}
	v := &View{src: src, formatter: f}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Render formats the current snapshot.
func (v *View) Render() Render {
	v.started.Do(func() {
		if v.start != nil {
			v.start()
		}
	})
	return v.formatter.Render(v.src.Snapshot())
}
