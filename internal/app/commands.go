package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/deeprow/deeprow-tui/internal/services"
)

const (
	// DefaultTickInterval is the default interval between ticks.
	DefaultTickInterval = 2 * time.Second

	// DefaultNotificationDuration is the default duration for notifications.
	DefaultNotificationDuration = 5 * time.Second

	// QuickNotificationDuration is for brief notifications.
	QuickNotificationDuration = 3 * time.Second

	// LongNotificationDuration is for important notifications.
	LongNotificationDuration = 10 * time.Second

	// UploadHandoffDelay is how long the upload confirmation stays on screen
	// before the app switches to the analytics tab.
	UploadHandoffDelay = 1500 * time.Millisecond

	// SampleHandoffDelay is the shorter handoff used for the sample dataset.
	SampleHandoffDelay = 800 * time.Millisecond

	// requestTimeout bounds every remote call issued from a command.
	requestTimeout = 60 * time.Second
)

// tickCmd returns a command that sends a TickMsg after the specified interval.
func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// defaultTickCmd returns a command that sends a TickMsg after the default interval.
func defaultTickCmd() tea.Cmd {
	return tickCmd(DefaultTickInterval)
}

// authCmd logs in or signs up and reports the result.
func authCmd(mgr *services.Manager, email, password string, signup bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		var err error
		if signup {
			err = mgr.Signup(ctx, email, password)
		} else {
			err = mgr.Login(ctx, email, password)
		}
		return AuthResultMsg{Email: email, Signup: signup, Error: err}
	}
}

// bootstrapCmd ensures a project exists for uploads.
func bootstrapCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := mgr.Bootstrap(ctx)
		return BootstrapResultMsg{ProjectID: mgr.Workflow().ProjectID(), Error: err}
	}
}

// uploadCmd uploads one file through the workflow.
func uploadCmd(mgr *services.Manager, path string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := mgr.Upload(ctx, path)
		return UploadResultMsg{Path: path, Error: err}
	}
}

// loadAnalysisCmd fetches the full analysis for a file.
func loadAnalysisCmd(mgr *services.Manager, fileID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := mgr.LoadAnalysis(ctx, fileID)
		return AnalysisLoadedMsg{FileID: fileID, Error: err}
	}
}

// loadSampleCmd fetches the built-in demonstration dataset.
func loadSampleCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		err := mgr.LoadSample(ctx)
		return SampleLoadedMsg{Error: err}
	}
}

// loadHistoryCmd reads the local upload history.
func loadHistoryCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		records, err := mgr.RecentUploads(20)
		if err != nil {
			return ErrorMsg{Error: err, Context: "history"}
		}
		return HistoryLoadedMsg{Records: records}
	}
}

// checkHealthCmd probes the engine once.
func checkHealthCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		return HealthCheckedMsg{Healthy: mgr.CheckHealth(ctx)}
	}
}

// logoutCmd clears the stored token and session.
func logoutCmd(mgr *services.Manager) tea.Cmd {
	return func() tea.Msg {
		return LogoutDoneMsg{Error: mgr.Logout()}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}

// waitForServiceEventCmd returns a command that waits for the next service event.
func waitForServiceEventCmd(ch <-chan services.ServiceEvent) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return ServiceEventMsg{Event: event}
	}
}

// clearNotificationCmd returns a command that removes a notification after a delay.
func clearNotificationCmd(id string, delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return RemoveNotificationMsg{ID: id}
	})
}

// notifySuccessCmd returns a command that adds a success notification.
func notifySuccessCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationSuccess,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyErrorCmd returns a command that adds an error notification.
func notifyErrorCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationError,
			Message:  message,
			Duration: LongNotificationDuration,
		}
	}
}

// notifyWarningCmd returns a command that adds a warning notification.
func notifyWarningCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationWarning,
			Message:  message,
			Duration: DefaultNotificationDuration,
		}
	}
}

// notifyInfoCmd returns a command that adds an info notification.
func notifyInfoCmd(message string) tea.Cmd {
	return func() tea.Msg {
		return AddNotificationMsg{
			Type:     NotificationInfo,
			Message:  message,
			Duration: QuickNotificationDuration,
		}
	}
}

// delayedCmd returns a command that sends a message after a delay.
func delayedCmd(delay time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(delay, func(_ time.Time) tea.Msg {
		return msg
	})
}

// Commands provides a public interface to the command functions for tabs.
type Commands struct {
	manager *services.Manager
}

// NewCommands creates a new Commands instance.
func NewCommands(mgr *services.Manager) *Commands {
	return &Commands{manager: mgr}
}

// Login returns a command that logs in with the given credentials.
func (c *Commands) Login(email, password string) tea.Cmd {
	return authCmd(c.manager, email, password, false)
}

// Signup returns a command that creates an account.
func (c *Commands) Signup(email, password string) tea.Cmd {
	return authCmd(c.manager, email, password, true)
}

// Logout returns a command that clears the stored token.
func (c *Commands) Logout() tea.Cmd {
	return logoutCmd(c.manager)
}

// Bootstrap returns a command that ensures a project exists.
func (c *Commands) Bootstrap() tea.Cmd {
	return bootstrapCmd(c.manager)
}

// Upload returns a command that uploads the file at path.
func (c *Commands) Upload(path string) tea.Cmd {
	return uploadCmd(c.manager, path)
}

// LoadAnalysis returns a command that fetches the full analysis for a file.
func (c *Commands) LoadAnalysis(fileID string) tea.Cmd {
	return loadAnalysisCmd(c.manager, fileID)
}

// LoadSample returns a command that fetches the sample dataset.
func (c *Commands) LoadSample() tea.Cmd {
	return loadSampleCmd(c.manager)
}

// LoadHistory returns a command that reads the local upload history.
func (c *Commands) LoadHistory() tea.Cmd {
	return loadHistoryCmd(c.manager)
}

// CheckHealth returns a command that probes the engine once.
func (c *Commands) CheckHealth() tea.Cmd {
	return checkHealthCmd(c.manager)
}

// NotifySuccess returns a command that adds a success notification.
func (c *Commands) NotifySuccess(message string) tea.Cmd {
	return notifySuccessCmd(message)
}

// NotifyError returns a command that adds an error notification.
func (c *Commands) NotifyError(message string) tea.Cmd {
	return notifyErrorCmd(message)
}

// NotifyWarning returns a command that adds a warning notification.
func (c *Commands) NotifyWarning(message string) tea.Cmd {
	return notifyWarningCmd(message)
}

// NotifyInfo returns a command that adds an info notification.
func (c *Commands) NotifyInfo(message string) tea.Cmd {
	return notifyInfoCmd(message)
}

// Delayed returns a command that sends a message after a delay.
func (c *Commands) Delayed(delay time.Duration, msg tea.Msg) tea.Cmd {
	return delayedCmd(delay, msg)
}

// Quit returns a command that quits the application.
func (c *Commands) Quit() tea.Cmd {
	return tea.Quit
}
