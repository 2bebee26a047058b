// Package upload provides the upload tab: a picker over the watched data
// directory, the sample dataset shortcut and the local upload history.
package upload

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/app"
	"github.com/deeprow/deeprow-tui/internal/ui/components"
)

// keyMap defines the key bindings specific to the upload tab.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Upload  key.Binding
	Sample  key.Binding
	Refresh key.Binding
	Logout  key.Binding
}

// defaultKeyMap returns the default key bindings for the upload tab.
func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Upload: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "upload selected"),
		),
		Sample: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "load sample data"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh history"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "log out"),
		),
	}
}

// Model represents the upload tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	width    int
	height   int
	keys     keyMap
	spinner  components.LoadingSpinner
}

// New creates a new upload model.
func New(state *app.State, commands *app.Commands) *Model {
	return &Model{
		state:    state,
		commands: commands,
		keys:     defaultKeyMap(),
		spinner:  components.NewSpinner("Uploading..."),
	}
}

// Init initializes the upload tab.
func (m *Model) Init() tea.Cmd {
	return m.spinner.Init()
}

// Update handles messages for the upload tab.
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
	case key.Matches(msg, m.keys.Up):
		if idx := m.state.GetSelectedFileIndex(); idx > 0 {
			m.state.SetSelectedFileIndex(idx - 1)
		}

	case key.Matches(msg, m.keys.Down):
		if idx := m.state.GetSelectedFileIndex(); idx < len(m.state.GetFiles())-1 {
			m.state.SetSelectedFileIndex(idx + 1)
		}

	case key.Matches(msg, m.keys.Upload):
		return m.startUpload()

	case key.Matches(msg, m.keys.Sample):
		return m.startSample()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.commands.LoadHistory()

	case key.Matches(msg, m.keys.Logout):
		return m, func() tea.Msg { return app.LogoutMsg{} }
	}

	return m, nil
}

func (m *Model) startUpload() (app.Tab, tea.Cmd) {
	if m.state.AnyLoading() {
		return m, nil
	}

	if !m.state.IsAuthenticated() {
		return m, m.commands.NotifyError("Log in before uploading, or press 's' for the sample dataset")
	}

	files := m.state.GetFiles()
	if len(files) == 0 {
		return m, m.commands.NotifyWarning("No data files found in the watched directory")
	}

	idx := m.state.GetSelectedFileIndex()
	if idx < 0 || idx >= len(files) {
		idx = 0
	}
	selected := files[idx]

	m.state.SetLoading("upload", true)
	return m, tea.Batch(
		m.commands.NotifyInfo(fmt.Sprintf("Uploading %s...", selected.Name)),
		m.commands.Upload(selected.Path),
	)
}

func (m *Model) startSample() (app.Tab, tea.Cmd) {
	if m.state.AnyLoading() {
		return m, nil
	}

	m.state.SetLoading("sample", true)
	return m, m.commands.LoadSample()
}

// SetSize sets the available size for the upload tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.Upload,
		m.keys.Sample,
		m.keys.Refresh,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.Up, m.keys.Down},
		{m.keys.Upload, m.keys.Sample},
		{m.keys.Refresh, m.keys.Logout},
	}
}
