// Package session holds the single source of truth for the currently active
// dataset: its identity, profile, insights and templates, plus UI-facing
// loading and error flags. Any consumer may read it at any time; writes go
// through the named actions only.
package session

import (
	"sync"

	"github.com/deeprow/deeprow-tui/internal/models"
)

// Store is the process-wide analytics session. It is created once at
// application start and passed by reference to every consumer.
type Store struct {
	mu sync.RWMutex

	fileID    string
	filename  string
	profile   *models.DataProfile
	insights  *models.Insights
	templates []models.VisualizationTemplate
	loading   bool
	errMsg    string
}

// Snapshot is a read-only view of the session at one point in time.
type Snapshot struct {
	FileID    string
	Filename  string
	Profile   *models.DataProfile
	Insights  *models.Insights
	Templates []models.VisualizationTemplate
	Loading   bool
	Err       string
}

// NewStore creates an empty session.
func NewStore() *Store {
	return &Store{}
}

// SetFileID sets the identity fields only, leaving profile, insights and
// templates untouched. The upload flow sets identity and profile in two
// steps, so an observer may briefly see an identity paired with a stale or
// absent profile; callers that need mutually consistent data should use
// SetAnalysisData.
func (s *Store) SetFileID(fileID, filename string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileID = fileID
	s.filename = filename
}

// SetProfile replaces the profile.
func (s *Store) SetProfile(profile *models.DataProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
}

// SetInsights replaces the insights.
func (s *Store) SetInsights(insights *models.Insights) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.insights = insights
}

// SetTemplates replaces the template list.
func (s *Store) SetTemplates(templates []models.VisualizationTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates = templates
}

// SetAnalysisData atomically replaces profile, insights and templates and
// clears any existing error. This is the only action that guarantees the
// three fields come from the same remote call.
func (s *Store) SetAnalysisData(profile *models.DataProfile, insights *models.Insights, templates []models.VisualizationTemplate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	s.insights = insights
	s.templates = templates
	s.errMsg = ""
}

// SetLoading sets the loading flag.
func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

// SetError sets the user-facing error message. An empty string clears it.
func (s *Store) SetError(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errMsg = msg
}

// ClearData resets identity, profile, insights, templates and error. The
// loading flag is deliberately left alone.
func (s *Store) ClearData() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fileID = ""
	s.filename = ""
	s.profile = nil
	s.insights = nil
	s.templates = nil
	s.errMsg = ""
}

// Snapshot returns a consistent view of all fields.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		FileID:    s.fileID,
		Filename:  s.filename,
		Profile:   s.profile,
		Insights:  s.insights,
		Templates: s.templates,
		Loading:   s.loading,
		Err:       s.errMsg,
	}
}

// FileID returns the active dataset's file id.
func (s *Store) FileID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fileID
}

// Loading reports whether an operation is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the current error message, empty when there is none.
func (s *Store) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}
