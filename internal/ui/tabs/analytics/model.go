// Package analytics provides the analytics tab: KPI cards, charts and data
// quality rendered from the engine's visualization templates.
package analytics

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/app"
	"github.com/deeprow/deeprow-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the analytics tab.
type keyMap struct {
	PrevTemplate key.Binding
	NextTemplate key.Binding
	Reload       key.Binding
	Up           key.Binding
	Down         key.Binding
}

// defaultKeyMap returns the default key bindings for the analytics tab.
func defaultKeyMap() keyMap {
	return keyMap{
		PrevTemplate: key.NewBinding(
			key.WithKeys("left", "p"),
			key.WithHelp("←/p", "previous view"),
		),
		NextTemplate: key.NewBinding(
			key.WithKeys("right", "n"),
			key.WithHelp("→/n", "next view"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload analysis"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
	}
}

// Model represents the analytics tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	width    int
	height   int
	keys     keyMap
	viewport viewport.Model
	spinner  components.LoadingSpinner
}

// New creates a new analytics model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		viewport: viewport.New(0, 0),
		spinner:  components.NewSpinner("Crunching numbers..."),
	}
}

// Init initializes the analytics tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the analytics tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PrevTemplate):
		m.cycleTemplate(-1)

	case key.Matches(msg, m.keys.NextTemplate):
		m.cycleTemplate(1)

	case key.Matches(msg, m.keys.Reload):
		return m.reload()

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) cycleTemplate(delta int) {
	charts := chartTemplates(m.state.GetSnapshot().Templates)
	if len(charts) == 0 {
		return
	}

	idx := m.state.GetSelectedTemplateIndex()
	if idx < 0 || idx >= len(charts) {
		idx = 0
	}
	idx = (idx + delta + len(charts)) % len(charts)
	m.state.SetSelectedTemplateIndex(idx)
}

func (m *Model) reload() (app.Tab, tea.Cmd) {
	if m.state.AnyLoading() {
		return m, nil
	}

	fileID := m.state.GetSnapshot().FileID
	if fileID == "" {
		return m, m.commands.NotifyInfo("No dataset loaded yet")
	}

	m.state.SetLoading("analysis", true)
	return m, m.commands.LoadAnalysis(fileID)
}

// SetSize sets the available size for the analytics tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.PrevTemplate,
		m.keys.NextTemplate,
		m.keys.Reload,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.PrevTemplate, m.keys.NextTemplate},
		{m.keys.Reload},
		{m.keys.Up, m.keys.Down},
	}
}
