// Package display contains the render hosts. Each host pulls a
// [window.Render] from a [window.View] and draws it: [UI] as a Bubble Tea
// terminal program, [Printer] as a single carriage-return line, and
// [StatusBar] as an i3bar/swaybar JSON stream.
//
// Hosts are told about changes through Notify, which never blocks and
// collapses bursts into one redraw, so it is safe to pass as the
// receiver's change callback.
package display

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hammamikhairi/lrcshow/internal/window"
)

// Colors of the original status-bar client.
const (
	ContextColor = "#808080"
	ActiveColor  = "#ff0000"
)

var (
	contextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ContextColor))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(ActiveColor)).Bold(true)
	lineStyle    = lipgloss.NewStyle()
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#52525b")).Italic(true)
)

// Renderer is what hosts draw from; *window.View implements it.
type Renderer interface {
	Render() window.Render
}

// trigger is a one-slot wakeup channel.
type trigger chan struct{}

func newTrigger() trigger { return make(trigger, 1) }

// fire wakes the host unless a wakeup is already pending.
func (t trigger) fire() {
	select {
	case t <- struct{}{}:
	default: // already signaled
	}
}

// styled renders r with lipgloss colors.
func styled(r window.Render) string {
	return contextStyle.Render(r.Before) +
		lineStyle.Render(r.PreActive) +
		activeStyle.Render(r.Active) +
		lineStyle.Render(r.PostActive) +
		contextStyle.Render(r.After)
}
