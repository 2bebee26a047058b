// Package analysis sequences the upload workflow: token check, project
// bootstrap, file upload and population of the session store. It is the only
// component that chains API calls with session writes.
package analysis

import (
	"context"
	"errors"
	"io"

	"github.com/deeprow/deeprow-tui/internal/api"
	"github.com/deeprow/deeprow-tui/internal/logger"
	"github.com/deeprow/deeprow-tui/internal/session"
)

// Phase is the position in the linear upload workflow. There is no
// backtracking: a failed step leaves the service in its current phase.
type Phase int

const (
	// PhaseUnauthenticated means no bearer token is available; the caller
	// must send the user to the login flow.
	PhaseUnauthenticated Phase = iota
	// PhaseBootstrapping means a project lookup or creation is required
	// before uploads are possible.
	PhaseBootstrapping
	// PhaseIdle means a project is selected and uploads are accepted.
	PhaseIdle
	// PhaseUploading means a file upload is in flight.
	PhaseUploading
	// PhaseUploaded means the last upload completed and its identity is in
	// the session store.
	PhaseUploaded
)

// String returns the phase name.
func (p Phase) String() string {
	switch p {
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseBootstrapping:
		return "bootstrapping"
	case PhaseIdle:
		return "idle"
	case PhaseUploading:
		return "uploading"
	case PhaseUploaded:
		return "uploaded"
	default:
		return "unknown"
	}
}

// DefaultProjectName is the name used when the user has no project yet.
const DefaultProjectName = "Default Project"

// Sentinel identity written for the built-in demonstration dataset.
const (
	SampleFileID   = "sample_data"
	SampleFilename = "Sample E-Commerce Data"
)

var (
	// ErrNoToken means no bearer token is stored; this is terminal for the
	// sequence, not retryable.
	ErrNoToken = errors.New("not authenticated")
	// ErrProjectNotInitialized means bootstrap never produced a project id;
	// uploads are rejected locally without contacting the network.
	ErrProjectNotInitialized = errors.New("project not initialized")
)

// TokenStore reads the persisted bearer token. An empty token with a nil
// error means "no token stored".
type TokenStore interface {
	LoadToken() (string, error)
}

// Service drives the upload workflow. Callers are expected to serialize
// sequences: one bootstrap or upload at a time per instance.
type Service struct {
	api    *api.Client
	tokens TokenStore
	store  *session.Store

	phase     Phase
	projectID string
}

// New creates the workflow service.
func New(client *api.Client, tokens TokenStore, store *session.Store) *Service {
	return &Service{
		api:    client,
		tokens: tokens,
		store:  store,
		phase:  PhaseUnauthenticated,
	}
}

// Phase returns the current workflow phase.
func (s *Service) Phase() Phase {
	return s.phase
}

// ProjectID returns the bootstrapped project id, empty before bootstrap.
func (s *Service) ProjectID() string {
	return s.projectID
}

// token reads the bearer token fresh from the durable store. Tokens are
// never cached across sequences, so an externally rotated token takes
// effect on the next sequence start.
func (s *Service) token() (string, error) {
	token, err := s.tokens.LoadToken()
	if err != nil {
		return "", err
	}
	if token == "" {
		return "", ErrNoToken
	}
	return token, nil
}

// Bootstrap ensures a project exists: it takes the first project the server
// lists, in server order, or falls back to creating one with the default
// name. With no token it fails with ErrNoToken and the phase becomes
// Unauthenticated.
func (s *Service) Bootstrap(ctx context.Context) error {
	token, err := s.token()
	if err != nil {
		s.phase = PhaseUnauthenticated
		return err
	}

	s.phase = PhaseBootstrapping

	projects, err := s.api.ListProjects(ctx, token)
	if err == nil && len(projects) > 0 {
		s.projectID = projects[0].ID
		s.phase = PhaseIdle
		return nil
	}
	if err != nil {
		logger.Warn("project list failed, falling back to create", "error", err)
	}

	project, createErr := s.api.CreateProject(ctx, DefaultProjectName, token)
	if createErr != nil {
		// Stay in bootstrapping with no project id; uploads will be
		// rejected locally until a later bootstrap succeeds.
		return createErr
	}

	s.projectID = project.ID
	s.phase = PhaseIdle
	return nil
}

// Upload sends one file and writes its identity and profile into the
// session store. It requires a bootstrapped project and a stored token;
// either missing short-circuits locally before any network call.
func (s *Service) Upload(ctx context.Context, file io.Reader, filename string) (*api.UploadResult, error) {
	token, err := s.token()
	if err != nil {
		s.phase = PhaseUnauthenticated
		return nil, err
	}
	if s.projectID == "" {
		return nil, ErrProjectNotInitialized
	}

	s.phase = PhaseUploading
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	result, err := s.api.UploadFile(ctx, file, filename, s.projectID, token)
	if err != nil {
		s.phase = PhaseIdle
		s.store.SetError(err.Error())
		return nil, err
	}

	s.store.SetFileID(result.FileID, result.Filename)
	s.store.SetProfile(&result.Profile)
	s.store.SetError("")
	s.phase = PhaseUploaded

	logger.Info("dataset uploaded", "file_id", result.FileID, "filename", result.Filename)
	return result, nil
}

// LoadAnalysis fetches the combined profile, insights and templates for a
// file and writes them atomically into the session store.
func (s *Service) LoadAnalysis(ctx context.Context, fileID string) error {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	bundle, err := s.api.GetFullAnalysis(ctx, fileID)
	if err != nil {
		s.store.SetError(err.Error())
		return err
	}

	s.store.SetAnalysisData(&bundle.Profile, &bundle.Insights, bundle.Templates)
	return nil
}

// LoadSample bypasses auth, project and upload entirely: it fetches the
// demonstration dataset and populates the store under the sample sentinel
// identity.
func (s *Service) LoadSample(ctx context.Context) error {
	s.store.SetLoading(true)
	defer s.store.SetLoading(false)

	bundle, err := s.api.GetSampleData(ctx)
	if err != nil {
		s.store.SetError(err.Error())
		return err
	}

	s.store.SetFileID(SampleFileID, SampleFilename)
	s.store.SetAnalysisData(&bundle.Profile, &bundle.Insights, bundle.Templates)
	return nil
}
