package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// UI shows the lyrics window centred in the terminal.
//
// Call [NewUI], pass [UI.Notify] to the receiver, then [UI.Run]
// (blocking). Notify may be called from any goroutine at any time,
// including before Run.
type UI struct {
	view    Renderer
	changes trigger
	program *tea.Program
}

// NewUI creates the terminal host.
func NewUI(view Renderer) *UI {
	return &UI{view: view, changes: newTrigger()}
}

// Notify schedules a redraw. Never blocks.
func (u *UI) Notify() { u.changes.fire() }

// Run starts the Bubble Tea event loop. Blocks until the user quits.
func (u *UI) Run() error {
	u.program = tea.NewProgram(newModel(u.view, u.changes), tea.WithAltScreen())
	_, err := u.program.Run()
	return err
}

// Quit tells Bubble Tea to exit.
func (u *UI) Quit() {
	if u.program != nil {
		u.program.Quit()
	}
}

// ── Bubble Tea model ─────────────────────────────────────────────

type model struct {
	view    Renderer
	changes trigger
	width   int
	height  int
}

// changedMsg says the lyrics state may have changed.
type changedMsg struct{}

func newModel(view Renderer, changes trigger) model {
	return model{view: view, changes: changes}
}

func waitForChange(changes trigger) tea.Cmd {
	return func() tea.Msg {
		<-changes
		return changedMsg{}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForChange(m.changes),
		tea.SetWindowTitle("lrcshow"),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case changedMsg:
		// Returning re-runs View, which pulls the fresh state.
		return m, waitForChange(m.changes)
	}
	return m, nil
}

func (m model) View() string {
	r := m.view.Render()

	var line string
	if r.Empty() {
		line = hintStyle.Render(strings.Repeat(" ", 20) + "♪")
	} else {
		line = styled(r)
	}
	help := hintStyle.Render(keys.Quit.Help().Key + " " + keys.Quit.Help().Desc)

	if m.width <= 0 || m.height <= 0 {
		return line + "\n\n" + help
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, line)
	return body + "\n" + help
}
