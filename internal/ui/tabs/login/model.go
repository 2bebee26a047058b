// Package login provides the authentication tab for signing in or creating
// an account on the analytics engine.
package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/app"
	"github.com/deeprow/deeprow-tui/internal/ui/components"
)

// formField represents which field is currently focused.
type formField int

const (
	fieldEmail formField = iota
	fieldPassword
	fieldSubmit
	fieldToggleMode
)

const fieldCount = 4

// keyMap defines the key bindings specific to the login tab.
type keyMap struct {
	NextField key.Binding
	PrevField key.Binding
	Submit    key.Binding
	Escape    key.Binding
	Skip      key.Binding
}

// defaultKeyMap returns the default key bindings for the login tab.
func defaultKeyMap() keyMap {
	return keyMap{
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "prev field"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "submit"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear form"),
		),
		Skip: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "continue without account"),
		),
	}
}

// Model represents the login tab state.
type Model struct {
	state    *app.State
	commands *app.Commands
	width    int
	height   int
	keys     keyMap

	emailInput    textinput.Model
	passwordInput textinput.Model
	focusedField  formField
	signupMode    bool
	spinner       components.LoadingSpinner
	errorMsg      string
}

// New creates a new login model.
func New(state *app.State, commands *app.Commands) *Model {
	emailInput := textinput.New()
	emailInput.Placeholder = "analyst@example.com"
	emailInput.CharLimit = 100
	emailInput.Width = 40
	emailInput.Focus()

	passwordInput := textinput.New()
	passwordInput.Placeholder = "password"
	passwordInput.CharLimit = 200
	passwordInput.Width = 40
	passwordInput.EchoMode = textinput.EchoPassword

	return &Model{
		state:         state,
		commands:      commands,
		keys:          defaultKeyMap(),
		emailInput:    emailInput,
		passwordInput: passwordInput,
		spinner:       components.NewSpinner("Authenticating..."),
		focusedField:  fieldEmail,
	}
}

// Init initializes the login tab.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Init())
}

// Update handles messages for the login tab.
func (m *Model) Update(msg tea.Msg) (app.Tab, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case app.AuthResultMsg:
		if msg.Error != nil {
			m.errorMsg = msg.Error.Error()
		} else {
			m.errorMsg = ""
			m.passwordInput.SetValue("")
		}

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (app.Tab, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Skip):
		return m, func() tea.Msg { return app.TabSwitchMsg{Tab: app.TabUpload} }

	case key.Matches(msg, m.keys.Escape):
		m.emailInput.SetValue("")
		m.passwordInput.SetValue("")
		m.errorMsg = ""
		m.focusedField = fieldEmail
		m.updateFocus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.NextField):
		m.focusedField = (m.focusedField + 1) % fieldCount
		m.updateFocus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.PrevField):
		m.focusedField = (m.focusedField - 1 + fieldCount) % fieldCount
		m.updateFocus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Submit):
		return m.handleEnter()
	}

	// Feed everything else to the focused input.
	var cmd tea.Cmd
	switch m.focusedField {
	case fieldEmail:
		m.emailInput, cmd = m.emailInput.Update(msg)
	case fieldPassword:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) handleEnter() (app.Tab, tea.Cmd) {
	switch m.focusedField {
	case fieldEmail:
		m.focusedField = fieldPassword
		m.updateFocus()
		return m, textinput.Blink

	case fieldToggleMode:
		m.signupMode = !m.signupMode
		return m, nil

	case fieldPassword, fieldSubmit:
		return m.submit()
	}
	return m, nil
}

func (m *Model) submit() (app.Tab, tea.Cmd) {
	if m.state.AnyLoading() {
		return m, nil
	}

	email := strings.TrimSpace(m.emailInput.Value())
	password := m.passwordInput.Value()

	if email == "" || password == "" {
		m.errorMsg = "Email and password are required"
		return m, nil
	}
	if !strings.Contains(email, "@") {
		m.errorMsg = "Enter a valid email address"
		return m, nil
	}

	m.errorMsg = ""
	m.state.SetLoading("auth", true)

	if m.signupMode {
		return m, m.commands.Signup(email, password)
	}
	return m, m.commands.Login(email, password)
}

// updateFocus moves input focus to match the selected field.
func (m *Model) updateFocus() {
	m.emailInput.Blur()
	m.passwordInput.Blur()

	switch m.focusedField {
	case fieldEmail:
		m.emailInput.Focus()
	case fieldPassword:
		m.passwordInput.Focus()
	}
}

// SetSize sets the available size for the login tab.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height

	inputWidth := min(max(width-30, 20), 48)
	m.emailInput.Width = inputWidth
	m.passwordInput.Width = inputWidth
}

// ShortHelp returns the key bindings for the short help view.
func (m *Model) ShortHelp() []key.Binding {
	return []key.Binding{
		m.keys.NextField,
		m.keys.Submit,
		m.keys.Skip,
	}
}

// FullHelp returns the key bindings for the full help view.
func (m *Model) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{m.keys.NextField, m.keys.PrevField},
		{m.keys.Submit, m.keys.Escape},
		{m.keys.Skip},
	}
}
