package display

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/hammamikhairi/lrcshow/internal/window"
)

// Block is one i3bar protocol block.
type Block struct {
	Name                string `json:"name"`
	Instance            string `json:"instance"`
	FullText            string `json:"full_text"`
	Color               string `json:"color,omitempty"`
	Separator           bool   `json:"separator"`
	SeparatorBlockWidth int    `json:"separator_block_width"`
}

// Blocks maps r onto five adjacent blocks (context gray, active red) or,
// when r is empty, one empty block.
func Blocks(r window.Render) []Block {
	if r.Empty() {
		return []Block{{Name: "lrcshow", Instance: "empty"}}
	}
	parts := []struct {
		instance, text, color string
	}{
		{"before", r.Before, ContextColor},
		{"pre_active", r.PreActive, ""},
		{"active", r.Active, ActiveColor},
		{"post_active", r.PostActive, ""},
		{"after", r.After, ContextColor},
	}
	blocks := make([]Block, 0, len(parts))
	for _, p := range parts {
		blocks = append(blocks, Block{
			Name:     "lrcshow",
			Instance: p.instance,
			FullText: p.text,
			Color:    p.color,
		})
	}
	// The last block keeps i3's default separator after it.
	blocks[len(blocks)-1].Separator = true
	blocks[len(blocks)-1].SeparatorBlockWidth = 9
	return blocks
}

// StatusBar writes the lyrics window as an endless i3bar JSON stream.
type StatusBar struct {
	view    Renderer
	changes trigger

	mu          sync.Mutex
	out         io.Writer
	wroteHeader bool
}

// NewStatusBar creates a status-bar host writing to out (os.Stdout if nil).
func NewStatusBar(view Renderer, out io.Writer) *StatusBar {
	if out == nil {
		out = os.Stdout
	}
	return &StatusBar{view: view, changes: newTrigger(), out: out}
}

// Notify schedules a new status line. Never blocks.
func (s *StatusBar) Notify() { s.changes.fire() }

// Run writes the protocol header and a status line, then one more after
// every Notify, until ctx is done.
func (s *StatusBar) Run(ctx context.Context) error {
	for {
		if err := s.Write(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return nil
		case <-s.changes:
		}
	}
}

// Write emits one status line, preceded by the header on first use.
func (s *StatusBar) Write() error {
	line, err := json.Marshal(Blocks(s.view.Render()))
	if err != nil {
		return fmt.Errorf("encoding status line: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.wroteHeader {
		if _, err := io.WriteString(s.out, "{\"version\":1}\n[\n"); err != nil {
			return err
		}
		s.wroteHeader = true
	}
	_, err = fmt.Fprintf(s.out, "%s,\n", line)
	return err
}
