package app

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/config"
	"github.com/deeprow/deeprow-tui/internal/services"
)

func testManager(t *testing.T, baseURL string) *services.Manager {
	t.Helper()

	dir := t.TempDir()
	cfg := &config.Config{
		APIBaseURL:          baseURL,
		DatabasePath:        filepath.Join(dir, "client.db"),
		DataDir:             filepath.Join(dir, "data"),
		HealthCheckInterval: time.Hour,
	}
	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}

	mgr, err := services.NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestTickCmd(t *testing.T) {
	cmd := tickCmd(time.Millisecond)
	if cmd == nil {
		t.Fatal("tickCmd returned nil")
	}

	msg := cmd()
	if _, ok := msg.(TickMsg); !ok {
		t.Errorf("got %T, want TickMsg", msg)
	}
}

func TestNotifyCmds(t *testing.T) {
	tests := []struct {
		name     string
		cmd      func(string) tea.Cmd
		wantType NotificationType
		wantDur  time.Duration
	}{
		{"success", notifySuccessCmd, NotificationSuccess, DefaultNotificationDuration},
		{"error", notifyErrorCmd, NotificationError, LongNotificationDuration},
		{"warning", notifyWarningCmd, NotificationWarning, DefaultNotificationDuration},
		{"info", notifyInfoCmd, NotificationInfo, QuickNotificationDuration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.cmd("hello")()
			notif, ok := msg.(AddNotificationMsg)
			if !ok {
				t.Fatalf("got %T, want AddNotificationMsg", msg)
			}
			if notif.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", notif.Type, tt.wantType)
			}
			if notif.Message != "hello" {
				t.Errorf("Message = %q, want hello", notif.Message)
			}
			if notif.Duration != tt.wantDur {
				t.Errorf("Duration = %v, want %v", notif.Duration, tt.wantDur)
			}
		})
	}
}

func TestDelayedCmd(t *testing.T) {
	cmd := delayedCmd(time.Millisecond, TabSwitchMsg{Tab: TabAnalytics})
	msg := cmd()
	switched, ok := msg.(TabSwitchMsg)
	if !ok {
		t.Fatalf("got %T, want TabSwitchMsg", msg)
	}
	if switched.Tab != TabAnalytics {
		t.Errorf("Tab = %v, want TabAnalytics", switched.Tab)
	}
}

func TestClearNotificationCmd(t *testing.T) {
	msg := clearNotificationCmd("n1", time.Millisecond)()
	removed, ok := msg.(RemoveNotificationMsg)
	if !ok {
		t.Fatalf("got %T, want RemoveNotificationMsg", msg)
	}
	if removed.ID != "n1" {
		t.Errorf("ID = %q, want n1", removed.ID)
	}
}

func TestAuthCmd_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "tok-1", "token_type": "bearer"}`))
	}))
	defer server.Close()

	mgr := testManager(t, server.URL)

	msg := authCmd(mgr, "a@b.com", "secret", false)()
	result, ok := msg.(AuthResultMsg)
	if !ok {
		t.Fatalf("got %T, want AuthResultMsg", msg)
	}
	if result.Error != nil {
		t.Fatalf("unexpected error: %v", result.Error)
	}
	if result.Email != "a@b.com" {
		t.Errorf("Email = %q", result.Email)
	}
	if result.Signup {
		t.Error("Signup should be false for login")
	}
}

func TestAuthCmd_LoginFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))
	defer server.Close()

	mgr := testManager(t, server.URL)

	msg := authCmd(mgr, "a@b.com", "wrong", false)()
	result := msg.(AuthResultMsg)
	if result.Error == nil {
		t.Fatal("expected an error for rejected login")
	}
}

func TestLoadHistoryCmd_Empty(t *testing.T) {
	mgr := testManager(t, "http://localhost:1")

	msg := loadHistoryCmd(mgr)()
	loaded, ok := msg.(HistoryLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want HistoryLoadedMsg", msg)
	}
	if len(loaded.Records) != 0 {
		t.Errorf("got %d records, want 0", len(loaded.Records))
	}
}

func TestCheckHealthCmd_Unreachable(t *testing.T) {
	mgr := testManager(t, "http://127.0.0.1:1")

	msg := checkHealthCmd(mgr)()
	checked, ok := msg.(HealthCheckedMsg)
	if !ok {
		t.Fatalf("got %T, want HealthCheckedMsg", msg)
	}
	if checked.Healthy {
		t.Error("unreachable engine should report unhealthy")
	}
}

func TestUploadCmd_UnsupportedFile(t *testing.T) {
	mgr := testManager(t, "http://localhost:1")

	msg := uploadCmd(mgr, "/tmp/notes.txt")()
	result := msg.(UploadResultMsg)
	if result.Error == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if result.Path != "/tmp/notes.txt" {
		t.Errorf("Path = %q", result.Path)
	}
}

func TestLogoutCmd(t *testing.T) {
	mgr := testManager(t, "http://localhost:1")

	msg := logoutCmd(mgr)()
	done, ok := msg.(LogoutDoneMsg)
	if !ok {
		t.Fatalf("got %T, want LogoutDoneMsg", msg)
	}
	if done.Error != nil {
		t.Errorf("logout without a token should succeed, got %v", done.Error)
	}
}

func TestCommands_Wrappers(t *testing.T) {
	mgr := testManager(t, "http://localhost:1")
	c := NewCommands(mgr)

	checks := []struct {
		name string
		cmd  tea.Cmd
	}{
		{"Login", c.Login("a@b.com", "pw")},
		{"Signup", c.Signup("a@b.com", "pw")},
		{"Logout", c.Logout()},
		{"Bootstrap", c.Bootstrap()},
		{"Upload", c.Upload("x.csv")},
		{"LoadAnalysis", c.LoadAnalysis("f1")},
		{"LoadSample", c.LoadSample()},
		{"LoadHistory", c.LoadHistory()},
		{"CheckHealth", c.CheckHealth()},
		{"NotifySuccess", c.NotifySuccess("m")},
		{"NotifyError", c.NotifyError("m")},
		{"NotifyWarning", c.NotifyWarning("m")},
		{"NotifyInfo", c.NotifyInfo("m")},
		{"Delayed", c.Delayed(time.Millisecond, TickMsg{})},
		{"Quit", c.Quit()},
	}

	for _, check := range checks {
		if check.cmd == nil {
			t.Errorf("%s returned nil command", check.name)
		}
	}
}
