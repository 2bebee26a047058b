package app

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/db"
	"github.com/deeprow/deeprow-tui/internal/models"
	"github.com/deeprow/deeprow-tui/internal/services"
	"github.com/deeprow/deeprow-tui/internal/services/analysis"
	"github.com/deeprow/deeprow-tui/internal/session"
)

// stubTab is a minimal Tab used to drive the model in tests.
type stubTab struct {
	name    string
	updates []tea.Msg
	width   int
	height  int
}

func (s *stubTab) Init() tea.Cmd { return nil }

func (s *stubTab) Update(msg tea.Msg) (Tab, tea.Cmd) {
	s.updates = append(s.updates, msg)
	return s, nil
}

func (s *stubTab) View() string { return s.name }

func (s *stubTab) SetSize(width, height int) {
	s.width = width
	s.height = height
}

func (s *stubTab) ShortHelp() []key.Binding { return nil }

func (s *stubTab) FullHelp() [][]key.Binding { return nil }

func testModel(t *testing.T) (*Model, []*stubTab) {
	t.Helper()

	m := NewModel(nil)
	tabs := []*stubTab{{name: "login"}, {name: "upload"}, {name: "analytics"}}
	m.SetTabs([]Tab{tabs[0], tabs[1], tabs[2]})
	return m, tabs
}

// drain runs a command tree and collects all produced messages.
func drain(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}

	var msgs []tea.Msg
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		msg := c()
		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		if msg != nil {
			msgs = append(msgs, msg)
		}
	}
	return msgs
}

func TestTabID_String(t *testing.T) {
	tests := []struct {
		id   TabID
		want string
	}{
		{TabLogin, "Login"},
		{TabUpload, "Upload"},
		{TabAnalytics, "Analytics"},
		{TabID(42), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.id.String(); got != tt.want {
			t.Errorf("TabID(%d).String() = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestNewModel_StartsOnLogin(t *testing.T) {
	m, _ := testModel(t)

	if m.GetActiveTab() != TabLogin {
		t.Errorf("active tab = %v, want TabLogin", m.GetActiveTab())
	}
	if m.IsReady() {
		t.Error("model should not be ready before a window size arrives")
	}
	if m.GetState() == nil {
		t.Fatal("state should be initialized")
	}
}

func TestModel_WindowSize(t *testing.T) {
	m, tabs := testModel(t)

	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	if !m.IsReady() {
		t.Error("model should be ready after window size")
	}
	if m.GetWidth() != 100 || m.GetHeight() != 40 {
		t.Errorf("size = %dx%d, want 100x40", m.GetWidth(), m.GetHeight())
	}
	for _, tab := range tabs {
		if tab.width != 100 {
			t.Errorf("tab width = %d, want 100", tab.width)
		}
	}
}

func TestModel_TabSwitchKeys(t *testing.T) {
	m, _ := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	// Leave the login tab first; its inputs swallow plain keys.
	m.activeTab = TabUpload

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'1'}})
	if m.GetActiveTab() != TabLogin {
		t.Errorf("active tab = %v, want TabLogin", m.GetActiveTab())
	}
}

func TestModel_AnalyticsRedirectsWithoutData(t *testing.T) {
	m, _ := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	cmds := m.switchTab(TabAnalytics)

	if m.GetActiveTab() != TabUpload {
		t.Errorf("active tab = %v, want redirect to TabUpload", m.GetActiveTab())
	}

	var notified bool
	for _, cmd := range cmds {
		for _, msg := range drain(cmd) {
			if n, ok := msg.(AddNotificationMsg); ok && n.Type == NotificationInfo {
				notified = true
			}
		}
	}
	if !notified {
		t.Error("redirect should explain itself with an info notification")
	}
}

func TestModel_AnalyticsAllowedWithData(t *testing.T) {
	m, _ := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.state.SetAnalysis(analysis.PhaseUploaded, session.Snapshot{FileID: "f1"})

	m.switchTab(TabAnalytics)

	if m.GetActiveTab() != TabAnalytics {
		t.Errorf("active tab = %v, want TabAnalytics", m.GetActiveTab())
	}
}

func TestModel_AuthResult_Success(t *testing.T) {
	m, _ := testModel(t)
	m.state.SetLoading("auth", true)

	cmds := m.handleAppMsg(AuthResultMsg{Email: "a@b.com"})

	if m.state.AnyLoading() {
		t.Error("auth loading should be cleared")
	}
	if m.GetActiveTab() != TabUpload {
		t.Errorf("active tab = %v, want TabUpload after login", m.GetActiveTab())
	}

	var success bool
	for _, cmd := range cmds {
		for _, msg := range drain(cmd) {
			if n, ok := msg.(AddNotificationMsg); ok && n.Type == NotificationSuccess {
				success = true
				if !strings.Contains(n.Message, "a@b.com") {
					t.Errorf("notification %q should name the account", n.Message)
				}
			}
		}
	}
	if !success {
		t.Error("successful login should produce a success notification")
	}
}

func TestModel_AuthResult_Failure(t *testing.T) {
	m, _ := testModel(t)
	m.state.SetLoading("auth", true)

	cmds := m.handleAppMsg(AuthResultMsg{Email: "a@b.com", Error: errors.New("invalid credentials")})

	if m.GetActiveTab() != TabLogin {
		t.Errorf("failed login should stay on the login tab, got %v", m.GetActiveTab())
	}

	var failed bool
	for _, cmd := range cmds {
		for _, msg := range drain(cmd) {
			if n, ok := msg.(AddNotificationMsg); ok && n.Type == NotificationError {
				failed = true
			}
		}
	}
	if !failed {
		t.Error("failed login should produce an error notification")
	}
}

func TestModel_SampleLoaded_SchedulesHandoff(t *testing.T) {
	m, _ := testModel(t)
	m.state.SetLoading("sample", true)
	m.state.SetAnalysis(analysis.PhaseUploaded, session.Snapshot{FileID: analysis.SampleFileID})

	cmds := m.handleAppMsg(SampleLoadedMsg{})

	if m.state.AnyLoading() {
		t.Error("sample loading should be cleared")
	}

	var handoff bool
	for _, cmd := range cmds {
		for _, msg := range drain(cmd) {
			if sw, ok := msg.(TabSwitchMsg); ok && sw.Tab == TabAnalytics {
				handoff = true
			}
		}
	}
	if !handoff {
		t.Error("sample load should schedule a switch to the analytics tab")
	}
}

func TestModel_ServiceEvents(t *testing.T) {
	m, _ := testModel(t)

	m.handleServiceEvent(services.AuthChangedEvent{Authenticated: true})
	if !m.state.IsAuthenticated() {
		t.Error("AuthChangedEvent should update auth state")
	}

	snap := session.Snapshot{
		FileID:    "f1",
		Templates: []models.VisualizationTemplate{{Type: models.KindBarChart, Title: "Revenue"}},
	}
	m.handleServiceEvent(services.AnalysisUpdatedEvent{Phase: analysis.PhaseUploaded, Snapshot: snap})
	if m.state.GetSnapshot().FileID != "f1" {
		t.Error("AnalysisUpdatedEvent should update the snapshot")
	}

	cmd := m.handleServiceEvent(services.HealthChangedEvent{Healthy: false})
	if h := m.state.GetHealthy(); h == nil || *h {
		t.Error("HealthChangedEvent should record unhealthy")
	}
	if cmd == nil {
		t.Error("going unhealthy should warn the user")
	}

	cmd = m.handleServiceEvent(services.HealthChangedEvent{Healthy: true})
	if cmd != nil {
		t.Error("recovering should not warn")
	}

	cmd = m.handleServiceEvent(services.ErrorEvent{Service: "files", Error: errors.New("boom")})
	msgs := drain(cmd)
	if len(msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(msgs))
	}
	if n := msgs[0].(AddNotificationMsg); !strings.Contains(n.Message, "files") {
		t.Errorf("error notification %q should name the service", n.Message)
	}
}

func TestModel_HistoryLoaded(t *testing.T) {
	m, _ := testModel(t)

	m.handleAppMsg(HistoryLoadedMsg{Records: []db.UploadRecord{{FileID: "f1"}}})

	if len(m.state.GetHistory()) != 1 {
		t.Error("history should be stored in state")
	}
}

func TestModel_Notifications(t *testing.T) {
	m, _ := testModel(t)

	cmds := m.handleAppMsg(AddNotificationMsg{
		Type:     NotificationSuccess,
		Message:  "saved",
		Duration: DefaultNotificationDuration,
	})

	notifications := m.state.GetNotifications()
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1", len(notifications))
	}
	if len(cmds) == 0 {
		t.Error("timed notification should schedule its own removal")
	}

	m.handleAppMsg(RemoveNotificationMsg{ID: notifications[0].ID})
	if len(m.state.GetNotifications()) != 0 {
		t.Error("notification should be removed")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	view := m.View()
	if !strings.Contains(view, "login") {
		t.Errorf("view should render the active tab content:\n%s", view)
	}
	if !strings.Contains(view, "Login") || !strings.Contains(view, "Analytics") {
		t.Errorf("view should render the tab bar:\n%s", view)
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, _ := testModel(t)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m.activeTab = TabUpload

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'?'}})

	view := m.View()
	if !strings.Contains(view, "Keyboard Shortcuts") {
		t.Errorf("help overlay missing:\n%s", view)
	}
}

func TestModel_QuitKey(t *testing.T) {
	m, _ := testModel(t)
	m.activeTab = TabUpload

	cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should quit outside the login tab")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("got %T, want tea.QuitMsg", msg)
	}
}

func TestModel_LoginTabOwnsKeys(t *testing.T) {
	m, _ := testModel(t)
	m.activeTab = TabLogin

	// Plain 'q' must not quit while typing credentials.
	if cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}); cmd != nil {
		if msg := cmd(); msg == (tea.QuitMsg{}) {
			t.Error("q should not quit on the login tab")
		}
	}

	// ctrl+c always quits.
	cmd := m.handleKeyMsg(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit everywhere")
	}
	if msg := cmd(); msg != (tea.QuitMsg{}) {
		t.Errorf("got %T, want tea.QuitMsg", msg)
	}
}
