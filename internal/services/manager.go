// Package services provides service orchestration for the TUI.
package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gen2brain/beeep"

	"github.com/deeprow/deeprow-tui/internal/api"
	"github.com/deeprow/deeprow-tui/internal/config"
	"github.com/deeprow/deeprow-tui/internal/db"
	"github.com/deeprow/deeprow-tui/internal/logger"
	"github.com/deeprow/deeprow-tui/internal/services/analysis"
	"github.com/deeprow/deeprow-tui/internal/services/datafiles"
	"github.com/deeprow/deeprow-tui/internal/session"
)

type (
	// AuthChangedEvent is emitted when a token is stored or cleared.
	AuthChangedEvent struct {
		Authenticated bool
	}

	// FilesChangedEvent is emitted when the data directory contents change.
	FilesChangedEvent struct {
		Files []datafiles.DataFile
	}

	// AnalysisUpdatedEvent is emitted when the session store changes after a
	// workflow step: upload, analysis fetch or sample load.
	AnalysisUpdatedEvent struct {
		Phase    analysis.Phase
		Snapshot session.Snapshot
	}

	// HealthChangedEvent is emitted when the engine health transitions.
	HealthChangedEvent struct {
		Healthy bool
	}

	// ErrorEvent is emitted when an error occurs in any service.
	ErrorEvent struct {
		Service string
		Error   error
	}
)

// ServiceEvent is the interface implemented by all service events.
type ServiceEvent interface {
	isServiceEvent()
}

func (AuthChangedEvent) isServiceEvent()     {}
func (FilesChangedEvent) isServiceEvent()    {}
func (AnalysisUpdatedEvent) isServiceEvent() {}
func (HealthChangedEvent) isServiceEvent()   {}
func (ErrorEvent) isServiceEvent()           {}

// Manager orchestrates services and event routing.
type Manager struct {
	mu          sync.RWMutex
	client      *api.Client
	database    *db.DB
	store       *session.Store
	workflow    *analysis.Service
	files       *datafiles.Service
	eventChan   chan ServiceEvent
	stopChan    chan struct{}
	subscribers []chan<- ServiceEvent

	healthInterval time.Duration
	lastHealthy    bool
	healthKnown    bool
}

// NewManager creates a new service manager.
func NewManager(cfg *config.Config) (*Manager, error) {
	m := &Manager{
		eventChan:      make(chan ServiceEvent, 100),
		stopChan:       make(chan struct{}),
		healthInterval: cfg.HealthCheckInterval,
	}
	if m.healthInterval <= 0 {
		m.healthInterval = 30 * time.Second
	}

	var err error
	m.database, err = db.New(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	m.files, err = datafiles.New(cfg.DataDir)
	if err != nil {
		if closeErr := m.database.Close(); closeErr != nil {
			logger.Error("failed to close database", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to watch data directory: %w", err)
	}

	m.client = api.New(cfg.APIBaseURL)
	m.store = session.NewStore()
	m.workflow = analysis.New(m.client, m.database, m.store)

	go m.routeEvents()

	return m, nil
}

// routeEvents routes events from individual services to subscribers.
func (m *Manager) routeEvents() {
	ticker := time.NewTicker(m.healthInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-m.files.Events():
			m.handleFileEvent(event)

		case <-ticker.C:
			m.probeHealth()

		case <-m.stopChan:
			return
		}
	}
}

// handleFileEvent converts and broadcasts data directory events.
func (m *Manager) handleFileEvent(event datafiles.Event) {
	if event.Err != nil {
		m.broadcast(ErrorEvent{Service: "datafiles", Error: event.Err})
		return
	}
	m.broadcast(FilesChangedEvent{Files: event.Files})
}

// probeHealth checks the engine and broadcasts transitions. A move from
// healthy to unhealthy raises a desktop notification.
func (m *Manager) probeHealth() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	healthy := m.client.IsHealthy(ctx)

	m.mu.Lock()
	changed := !m.healthKnown || healthy != m.lastHealthy
	wasKnown := m.healthKnown
	m.lastHealthy = healthy
	m.healthKnown = true
	m.mu.Unlock()

	if !changed {
		return
	}

	m.broadcast(HealthChangedEvent{Healthy: healthy})
	if wasKnown && !healthy {
		_ = beeep.Notify("DeepRow Engine Unreachable",
			"The analytics engine stopped responding to health probes.", "")
	}
}

// CheckHealth probes the engine once and returns the result.
func (m *Manager) CheckHealth(ctx context.Context) bool {
	return m.client.IsHealthy(ctx)
}

// Login exchanges credentials for a token and persists it.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	result, err := m.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	if err := m.database.SaveToken(result.AccessToken); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	m.broadcast(AuthChangedEvent{Authenticated: true})
	return nil
}

// Signup creates an account and persists the returned token.
func (m *Manager) Signup(ctx context.Context, email, password string) error {
	result, err := m.client.Signup(ctx, email, password)
	if err != nil {
		return err
	}

	if err := m.database.SaveToken(result.AccessToken); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	m.broadcast(AuthChangedEvent{Authenticated: true})
	return nil
}

// Logout deletes the stored token and clears the analysis session.
func (m *Manager) Logout() error {
	if err := m.database.DeleteToken(); err != nil {
		return err
	}

	m.store.ClearData()
	m.broadcast(AuthChangedEvent{Authenticated: false})
	return nil
}

// Authenticated reports whether a token is stored.
func (m *Manager) Authenticated() bool {
	token, err := m.database.LoadToken()
	if err != nil {
		logger.Error("failed to read token", "error", err)
		return false
	}
	return token != ""
}

// Bootstrap ensures a project exists for uploads.
func (m *Manager) Bootstrap(ctx context.Context) error {
	return m.workflow.Bootstrap(ctx)
}

// Upload sends the file at path through the upload workflow, records it in
// the local history and notifies on success.
func (m *Manager) Upload(ctx context.Context, path string) error {
	name := filepath.Base(path)
	if !datafiles.IsDataFile(name) {
		return fmt.Errorf("unsupported file type: %s", name)
	}

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", name, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Error("failed to close data file", "error", err)
		}
	}()

	result, err := m.workflow.Upload(ctx, file, name)
	if err != nil {
		m.broadcastAnalysis()
		return err
	}

	record := db.UploadRecord{
		FileID:      result.FileID,
		Filename:    result.Filename,
		RowCount:    result.Profile.RowCount,
		ColumnCount: result.Profile.ColumnCount,
		UploadedAt:  time.Now().UTC(),
	}
	if err := m.database.RecordUpload(record); err != nil {
		logger.Warn("failed to record upload history", "error", err)
	}

	m.broadcastAnalysis()
	_ = beeep.Notify("Upload Complete",
		fmt.Sprintf("%s: %d rows profiled.", result.Filename, result.Profile.RowCount), "")
	return nil
}

// LoadAnalysis fetches the combined analysis for a file into the session.
func (m *Manager) LoadAnalysis(ctx context.Context, fileID string) error {
	err := m.workflow.LoadAnalysis(ctx, fileID)
	m.broadcastAnalysis()
	return err
}

// LoadSample populates the session from the built-in demonstration dataset.
func (m *Manager) LoadSample(ctx context.Context) error {
	err := m.workflow.LoadSample(ctx)
	m.broadcastAnalysis()
	return err
}

// RecentUploads returns the local upload history, newest first.
func (m *Manager) RecentUploads(limit int) ([]db.UploadRecord, error) {
	return m.database.RecentUploads(limit)
}

func (m *Manager) broadcastAnalysis() {
	m.broadcast(AnalysisUpdatedEvent{
		Phase:    m.workflow.Phase(),
		Snapshot: m.store.Snapshot(),
	})
}

// broadcast sends an event to all subscribers.
func (m *Manager) broadcast(event ServiceEvent) {
	// Send to main event channel
	select {
	case m.eventChan <- event:
	default:
	}

	// Send to subscribers
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, sub := range m.subscribers {
		select {
		case sub <- event:
		default:
			// Subscriber channel full, skip
		}
	}
}

// Subscribe creates a channel for receiving service events.
// Returns a tea.Cmd that can be used in Bubble Tea's Init or Update.
func (m *Manager) Subscribe() (chan ServiceEvent, tea.Cmd) {
	ch := make(chan ServiceEvent, 50)

	m.mu.Lock()
	m.subscribers = append(m.subscribers, ch)
	m.mu.Unlock()

	return ch, waitForEvent(ch)
}

// waitForEvent returns a tea.Cmd that waits for the next event.
func waitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// WaitForEvent returns a tea.Cmd for the next event on a channel.
func WaitForEvent(ch <-chan ServiceEvent) tea.Cmd {
	return waitForEvent(ch)
}

// Unsubscribe removes a subscriber channel.
func (m *Manager) Unsubscribe(ch chan ServiceEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, sub := range m.subscribers {
		if sub == ch {
			m.subscribers = append(m.subscribers[:i], m.subscribers[i+1:]...)
			close(ch)
			break
		}
	}
}

// Session returns the analysis session store.
func (m *Manager) Session() *session.Store {
	return m.store
}

// Workflow returns the upload workflow service.
func (m *Manager) Workflow() *analysis.Service {
	return m.workflow
}

// DataFiles returns the data directory watcher.
func (m *Manager) DataFiles() *datafiles.Service {
	return m.files
}

// API returns the engine client.
func (m *Manager) API() *api.Client {
	return m.client
}

// Database returns the database instance for direct access.
func (m *Manager) Database() *db.DB {
	return m.database
}

// Close closes the manager and all its services.
func (m *Manager) Close() error {
	close(m.stopChan)

	m.mu.Lock()
	for _, sub := range m.subscribers {
		close(sub)
	}
	m.subscribers = nil
	m.mu.Unlock()

	var errs []error

	if err := m.files.Close(); err != nil {
		errs = append(errs, err)
	}

	if m.database != nil {
		if err := m.database.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
