package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/db"
	"github.com/deeprow/deeprow-tui/internal/services"
)

// TickMsg is sent periodically to trigger state refresh.
type TickMsg struct {
	Time time.Time
}

// StartLoadingMsg signals that a resource is starting to load.
type StartLoadingMsg struct {
	Resource string
}

// StopLoadingMsg signals that a resource has finished loading.
type StopLoadingMsg struct {
	Resource string
}

// AuthResultMsg contains the result of a login or signup attempt.
type AuthResultMsg struct {
	Email  string
	Signup bool
	Error  error
}

// BootstrapResultMsg contains the result of the project bootstrap.
type BootstrapResultMsg struct {
	ProjectID string
	Error     error
}

// UploadResultMsg contains the result of a file upload.
type UploadResultMsg struct {
	Path  string
	Error error
}

// AnalysisLoadedMsg signals that the full analysis fetch finished.
type AnalysisLoadedMsg struct {
	FileID string
	Error  error
}

// SampleLoadedMsg signals that the sample dataset fetch finished.
type SampleLoadedMsg struct {
	Error error
}

// HistoryLoadedMsg contains the local upload history.
type HistoryLoadedMsg struct {
	Records []db.UploadRecord
}

// HealthCheckedMsg contains an on-demand health probe result.
type HealthCheckedMsg struct {
	Healthy bool
}

// LogoutMsg requests clearing the stored token and session.
type LogoutMsg struct{}

// LogoutDoneMsg signals that logout finished.
type LogoutDoneMsg struct {
	Error error
}

// AddNotificationMsg requests adding a new notification.
type AddNotificationMsg struct {
	Type     NotificationType
	Message  string
	Duration time.Duration
}

// RemoveNotificationMsg requests removal of a notification.
type RemoveNotificationMsg struct {
	ID string
}

// ClearExpiredNotificationsMsg triggers clearing of expired notifications.
type ClearExpiredNotificationsMsg struct{}

// ServiceEventMsg wraps a service event from the service manager.
type ServiceEventMsg struct {
	Event services.ServiceEvent
}

// SubscriptionEventMsg is the callback wrapper for service subscription.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}

// ErrorMsg represents a general error.
type ErrorMsg struct {
	Error   error
	Context string
}

// TabSwitchMsg requests switching to a specific tab.
type TabSwitchMsg struct {
	Tab TabID
}

// ToggleHelpMsg toggles the help display.
type ToggleHelpMsg struct{}

// DelayedMsg wraps a message to be sent after a delay.
type DelayedMsg struct {
	Delay time.Duration
	Msg   tea.Msg
}
