package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/deeprow/deeprow-tui/internal/config"
)

func testManager(t *testing.T, baseURL string) *Manager {
	t.Helper()

	tmpDir := t.TempDir()
	cfg := &config.Config{
		APIBaseURL:          baseURL,
		DatabasePath:        filepath.Join(tmpDir, "test.db"),
		DataDir:             tmpDir,
		HealthCheckInterval: time.Hour,
	}

	mgr, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	return mgr
}

func TestNewManager(t *testing.T) {
	mgr := testManager(t, "http://localhost:0")

	if mgr.Session() == nil {
		t.Error("Session store should be initialized")
	}
	if mgr.Workflow() == nil {
		t.Error("Workflow service should be initialized")
	}
	if mgr.DataFiles() == nil {
		t.Error("Data files service should be initialized")
	}
	if mgr.API() == nil {
		t.Error("API client should be initialized")
	}
	if mgr.Database() == nil {
		t.Error("Database should be initialized")
	}
	if mgr.Authenticated() {
		t.Error("fresh manager should not be authenticated")
	}
}

func TestManager_LoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-login",
			"token_type":   "bearer",
		})
	}))
	defer server.Close()

	mgr := testManager(t, server.URL)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	if err := mgr.Login(context.Background(), "a@b.c", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if !mgr.Authenticated() {
		t.Error("Authenticated() = false after login")
	}
	token, err := mgr.Database().LoadToken()
	if err != nil || token != "tok-login" {
		t.Errorf("stored token = %q, err = %v; want tok-login", token, err)
	}

	select {
	case event := <-ch:
		auth, ok := event.(AuthChangedEvent)
		if !ok || !auth.Authenticated {
			t.Errorf("event = %#v, want AuthChangedEvent{true}", event)
		}
	case <-time.After(time.Second):
		t.Error("no auth event broadcast")
	}
}

func TestManager_LoginFailureLeavesNoToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Invalid credentials"}`))
	}))
	defer server.Close()

	mgr := testManager(t, server.URL)

	err := mgr.Login(context.Background(), "a@b.c", "wrong")
	if err == nil {
		t.Fatal("Login should fail")
	}
	if err.Error() != "Invalid credentials" {
		t.Errorf("error = %q, want Invalid credentials", err.Error())
	}
	if mgr.Authenticated() {
		t.Error("failed login must not store a token")
	}
}

func TestManager_Logout(t *testing.T) {
	mgr := testManager(t, "http://localhost:0")

	if err := mgr.Database().SaveToken("tok"); err != nil {
		t.Fatal(err)
	}
	mgr.Session().SetFileID("f1", "a.csv")

	if err := mgr.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if mgr.Authenticated() {
		t.Error("Authenticated() = true after logout")
	}
	if got := mgr.Session().FileID(); got != "" {
		t.Errorf("session fileID = %q after logout, want empty", got)
	}
}

func TestManager_UploadFlow(t *testing.T) {
	profile := `{"shape": [2, 1], "row_count": 2, "column_count": 1,
		"columns": [{"name": "v", "type": "numeric"}], "kpis": [], "date_columns": [],
		"categorical_columns": [], "numeric_columns": ["v"]}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/projects" && r.Method == http.MethodGet:
			_, _ = w.Write([]byte(`{"projects": [{"id": "p1", "name": "Default Project"}]}`))
		case r.URL.Path == "/api/datasets/upload/p1":
			_, _ = w.Write([]byte(`{"success": true, "file_id": "f-new", "filename": "orders.csv",
				"profile": ` + profile + `}`))
		default:
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	mgr := testManager(t, server.URL)
	if err := mgr.Database().SaveToken("tok"); err != nil {
		t.Fatal(err)
	}

	dataPath := filepath.Join(mgr.DataFiles().Dir(), "orders.csv")
	if err := os.WriteFile(dataPath, []byte("v\n1\n2\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap failed: %v", err)
	}
	if err := mgr.Upload(context.Background(), dataPath); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	snap := mgr.Session().Snapshot()
	if snap.FileID != "f-new" || snap.Filename != "orders.csv" {
		t.Errorf("session identity = %q/%q, want f-new/orders.csv", snap.FileID, snap.Filename)
	}

	records, err := mgr.RecentUploads(5)
	if err != nil {
		t.Fatalf("RecentUploads failed: %v", err)
	}
	if len(records) != 1 || records[0].FileID != "f-new" || records[0].RowCount != 2 {
		t.Errorf("history = %#v, want one f-new record with 2 rows", records)
	}
}

func TestManager_UploadRejectsUnsupportedExtension(t *testing.T) {
	// No server: the extension gate must reject before any network call.
	mgr := testManager(t, "http://localhost:0")

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Upload(context.Background(), path); err == nil {
		t.Error("Upload should reject a .txt file")
	}

	records, err := mgr.RecentUploads(5)
	if err != nil {
		t.Fatalf("RecentUploads failed: %v", err)
	}
	if len(records) != 0 {
		t.Error("rejected upload must not be recorded")
	}
}

func TestManager_Subscription(t *testing.T) {
	mgr := testManager(t, "http://localhost:0")

	ch, cmd := mgr.Subscribe()
	if ch == nil {
		t.Error("Subscribe returned nil channel")
	}
	if cmd == nil {
		t.Error("Subscribe returned nil command")
	}

	mgr.Unsubscribe(ch)

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("Channel should be closed")
		}
	default:
	}
}

func TestManager_Broadcast(t *testing.T) {
	mgr := testManager(t, "http://localhost:0")

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	event := HealthChangedEvent{Healthy: true}
	mgr.broadcast(event)

	select {
	case e := <-ch:
		if e != ServiceEvent(event) {
			t.Errorf("Got event %v, want %v", e, event)
		}
	case <-time.After(time.Second):
		t.Error("Timeout waiting for broadcast")
	}
}

func TestManager_ProbeHealthBroadcastsTransition(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	mgr := testManager(t, server.URL)

	ch, _ := mgr.Subscribe()
	defer mgr.Unsubscribe(ch)

	mgr.probeHealth()

	select {
	case event := <-ch:
		health, ok := event.(HealthChangedEvent)
		if !ok || !health.Healthy {
			t.Errorf("event = %#v, want HealthChangedEvent{true}", event)
		}
	case <-time.After(time.Second):
		t.Error("no health event broadcast")
	}

	// Same result again: no event.
	mgr.probeHealth()
	select {
	case event := <-ch:
		t.Errorf("unexpected event on steady health: %#v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestManager_CheckHealth(t *testing.T) {
	mgr := testManager(t, "http://localhost:0")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if mgr.CheckHealth(ctx) {
		t.Error("CheckHealth() = true against an unreachable engine")
	}
}

func TestWaitForEvent(t *testing.T) {
	ch := make(chan ServiceEvent, 1)
	ch <- HealthChangedEvent{}

	cmd := WaitForEvent(ch)
	msg := cmd()
	if msg == nil {
		t.Error("WaitForEvent cmd returned nil msg")
	}
}

func TestServiceEvent_Interface(t *testing.T) {
	var _ ServiceEvent = AuthChangedEvent{}
	var _ ServiceEvent = FilesChangedEvent{}
	var _ ServiceEvent = AnalysisUpdatedEvent{}
	var _ ServiceEvent = HealthChangedEvent{}
	var _ ServiceEvent = ErrorEvent{}
}
