package display

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/x/term"

	"github.com/hammamikhairi/lrcshow/internal/window"
)

// ANSI escape codes for the plain printer.
const (
	reset = "\033[0m"
	bold  = "\033[1m"
	red   = "\033[31m"
	gray  = "\033[90m"
)

// Printer redraws the lyrics window on a single terminal line using
// carriage returns. Colors are used only when out is a terminal.
type Printer struct {
	view    Renderer
	changes trigger
	color   bool

	mu  sync.Mutex
	out io.Writer
}

// PrinterOption configures a Printer.
type PrinterOption func(*Printer)

// WithColor forces colors on or off.
func WithColor(on bool) PrinterOption {
	return func(p *Printer) {
		p.color = on
	}
}

// NewPrinter creates a printer writing to out (os.Stdout if nil).
func NewPrinter(view Renderer, out io.Writer, opts ...PrinterOption) *Printer {
	if out == nil {
		out = os.Stdout
	}
	p := &Printer{view: view, changes: newTrigger(), out: out}
	if f, ok := out.(*os.File); ok {
		p.color = term.IsTerminal(f.Fd())
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Notify schedules a redraw. Never blocks.
func (p *Printer) Notify() { p.changes.fire() }

// Run draws once, then again after every Notify, until ctx is done.
func (p *Printer) Run(ctx context.Context) error {
	for {
		if err := p.Draw(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-p.changes:
		}
	}
}

// Draw writes the current window over the previous one.
func (p *Printer) Draw() error {
	r := p.view.Render()

	p.mu.Lock()
	defer p.mu.Unlock()

	var line string
	if r.Empty() {
		line = strings.Repeat(" ", window.Width)
	} else if p.color {
		line = gray + r.Before + reset + r.PreActive + bold + red + r.Active + reset + r.PostActive + gray + r.After + reset
	} else {
		line = r.String()
	}
	_, err := fmt.Fprint(p.out, "\r"+line)
	return err
}
