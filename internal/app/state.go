// Package app provides the main Bubble Tea application model and state management.
package app

import (
	"sync"
	"time"

	"github.com/deeprow/deeprow-tui/internal/db"
	"github.com/deeprow/deeprow-tui/internal/services/analysis"
	"github.com/deeprow/deeprow-tui/internal/services/datafiles"
	"github.com/deeprow/deeprow-tui/internal/session"
)

// NotificationType defines the type of notification.
type NotificationType int

const (
	// NotificationSuccess represents a success notification.
	NotificationSuccess NotificationType = iota
	// NotificationError represents an error notification.
	NotificationError
	// NotificationWarning represents a warning notification.
	NotificationWarning
	// NotificationInfo represents an informational notification.
	NotificationInfo
	// NotificationLoading represents a loading notification with spinner.
	NotificationLoading
)

const (
	// LoadingNotificationID is the fixed ID for loading notifications.
	LoadingNotificationID = "__loading__"
)

// String returns the string representation of a NotificationType.
func (n NotificationType) String() string {
	switch n {
	case NotificationSuccess:
		return "success"
	case NotificationError:
		return "error"
	case NotificationWarning:
		return "warning"
	case NotificationInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Notification represents a user-facing notification message.
type Notification struct {
	ID        string
	Type      NotificationType
	Message   string
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the notification has expired.
func (n *Notification) IsExpired() bool {
	if n.Duration <= 0 {
		return false
	}
	return time.Since(n.CreatedAt) > n.Duration
}

// LoadingState tracks loading states for different resources.
type LoadingState struct {
	Auth     bool
	Upload   bool
	Analysis bool
	Sample   bool
}

// State is the shared UI state read by all tabs. The analysis session data
// itself lives in the session store; this holds presentation concerns.
type State struct {
	mu sync.RWMutex

	Authenticated bool
	Phase         analysis.Phase
	Snapshot      session.Snapshot
	Files         []datafiles.DataFile
	History       []db.UploadRecord
	Healthy       *bool

	SelectedFileIndex     int
	SelectedTemplateIndex int

	Loading LoadingState

	LastUpdated time.Time

	notifications   []Notification
	notificationSeq int
}

// NewState creates an empty shared state.
func NewState() *State {
	return &State{
		Files:         make([]datafiles.DataFile, 0),
		History:       make([]db.UploadRecord, 0),
		notifications: make([]Notification, 0),
	}
}

// SetLoading sets the loading state for a specific resource.
func (s *State) SetLoading(resource string, loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch resource {
	case "auth":
		s.Loading.Auth = loading
	case "upload":
		s.Loading.Upload = loading
	case "analysis":
		s.Loading.Analysis = loading
	case "sample":
		s.Loading.Sample = loading
	}
}

// AnyLoading returns true if any resource is currently loading.
func (s *State) AnyLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.Loading.Auth ||
		s.Loading.Upload ||
		s.Loading.Analysis ||
		s.Loading.Sample
}

// SetAuthenticated records whether a token is stored.
func (s *State) SetAuthenticated(authenticated bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Authenticated = authenticated
	s.LastUpdated = time.Now()
}

// IsAuthenticated returns the last known auth state.
func (s *State) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Authenticated
}

// SetAnalysis records the latest workflow phase and session snapshot.
func (s *State) SetAnalysis(phase analysis.Phase, snap session.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Phase = phase
	s.Snapshot = snap
	if s.SelectedTemplateIndex >= len(snap.Templates) {
		s.SelectedTemplateIndex = 0
	}
	s.LastUpdated = time.Now()
}

// GetSnapshot returns the last session snapshot.
func (s *State) GetSnapshot() session.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Snapshot
}

// GetPhase returns the last workflow phase.
func (s *State) GetPhase() analysis.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Phase
}

// SetFiles replaces the data directory listing.
func (s *State) SetFiles(files []datafiles.DataFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Files = files
	if s.SelectedFileIndex >= len(files) {
		s.SelectedFileIndex = 0
	}
	s.LastUpdated = time.Now()
}

// GetFiles returns a copy of the data directory listing.
func (s *State) GetFiles() []datafiles.DataFile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	files := make([]datafiles.DataFile, len(s.Files))
	copy(files, s.Files)
	return files
}

// SetHistory replaces the local upload history.
func (s *State) SetHistory(records []db.UploadRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.History = records
}

// GetHistory returns a copy of the local upload history.
func (s *State) GetHistory() []db.UploadRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]db.UploadRecord, len(s.History))
	copy(records, s.History)
	return records
}

// SetHealthy records the last engine health probe result.
func (s *State) SetHealthy(healthy bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Healthy = &healthy
}

// GetHealthy returns the last probe result, nil if never probed.
func (s *State) GetHealthy() *bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Healthy
}

// GetSelectedFileIndex returns the cursor position in the file list.
func (s *State) GetSelectedFileIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedFileIndex
}

// SetSelectedFileIndex updates the cursor position in the file list.
func (s *State) SetSelectedFileIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedFileIndex = idx
}

// GetSelectedTemplateIndex returns the selected template on the analytics tab.
func (s *State) GetSelectedTemplateIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.SelectedTemplateIndex
}

// SetSelectedTemplateIndex updates the selected template.
func (s *State) SetSelectedTemplateIndex(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.SelectedTemplateIndex = idx
}

// AddNotification adds a new notification and returns its ID.
func (s *State) AddNotification(notifType NotificationType, message string, duration time.Duration) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notificationSeq++
	id := time.Now().Format("20060102150405") + "-" + string(rune('A'+s.notificationSeq%26))

	notification := Notification{
		ID:        id,
		Type:      notifType,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  duration,
	}

	s.notifications = append(s.notifications, notification)

	// Keep only the last 10 notifications
	if len(s.notifications) > 10 {
		s.notifications = s.notifications[len(s.notifications)-10:]
	}

	return id
}

// RemoveNotification removes a notification by ID.
func (s *State) RemoveNotification(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == id {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// ClearExpiredNotifications removes all expired notifications.
func (s *State) ClearExpiredNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()

	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}
	s.notifications = active
}

// GetNotifications returns a copy of all active notifications.
func (s *State) GetNotifications() []Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Clear expired inline when reading
	active := make([]Notification, 0, len(s.notifications))
	for _, n := range s.notifications {
		if !n.IsExpired() {
			active = append(active, n)
		}
	}

	return active
}

// ClearAllNotifications removes all notifications.
func (s *State) ClearAllNotifications() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = make([]Notification, 0)
}

// SetLoadingNotification sets a loading notification message.
func (s *State) SetLoadingNotification(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications[i].Message = message
			return
		}
	}

	s.notifications = append(s.notifications, Notification{
		ID:        LoadingNotificationID,
		Type:      NotificationLoading,
		Message:   message,
		CreatedAt: time.Now(),
		Duration:  0,
	})
}

// ClearLoadingNotification removes the loading notification.
func (s *State) ClearLoadingNotification() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, n := range s.notifications {
		if n.ID == LoadingNotificationID {
			s.notifications = append(s.notifications[:i], s.notifications[i+1:]...)
			return
		}
	}
}

// GetLastUpdated returns the last time the state was updated.
func (s *State) GetLastUpdated() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastUpdated
}

// TimeSinceUpdate returns the duration since the last update.
func (s *State) TimeSinceUpdate() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.LastUpdated.IsZero() {
		return 0
	}
	return time.Since(s.LastUpdated)
}
