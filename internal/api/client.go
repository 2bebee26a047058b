// Package api is the typed client for the DeepRow Analytics Engine. It
// translates operations into HTTP calls against one configurable base URL
// and normalizes every failure response into a typed error. The client holds
// no mutable state and is safe for concurrent use.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/deeprow/deeprow-tui/internal/logger"
	"github.com/deeprow/deeprow-tui/internal/models"
)

const defaultTimeout = 30 * time.Second

// AuthResult is the response of a successful signup or login.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	UserID      string `json:"user_id,omitempty"`
}

// Project is a remote project owned by the authenticated user.
type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// UploadResult is the response of a successful dataset upload.
type UploadResult struct {
	Success  bool               `json:"success"`
	FileID   string             `json:"file_id"`
	Filename string             `json:"filename"`
	Profile  models.DataProfile `json:"profile"`
}

// AnalysisBundle is the combined result of a full-analysis or sample-data
// fetch: profile, insights and templates computed from the same dataset.
type AnalysisBundle struct {
	Profile   models.DataProfile             `json:"profile"`
	Insights  models.Insights                `json:"insights"`
	Templates []models.VisualizationTemplate `json:"templates"`
}

// Client talks to one DeepRow Analytics Engine instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Signup creates a new account and returns its access token.
func (c *Client) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/signup", email, password, "Signup failed")
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", email, password, "Login failed")
}

func (c *Client) authenticate(ctx context.Context, path, email, password, fallback string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}

	status, respBody, err := c.postJSON(ctx, path, body, "")
	if err != nil {
		return nil, &AuthError{Message: err.Error()}
	}
	if status >= http.StatusBadRequest {
		return nil, &AuthError{Message: failureMessage(respBody, fallback)}
	}

	var result AuthResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &AuthError{Message: fmt.Sprintf("failed to parse auth response: %v", err)}
	}
	return &result, nil
}

// CreateProject creates a project with the given name.
func (c *Client) CreateProject(ctx context.Context, name, token string) (*Project, error) {
	body := map[string]string{"name": name}

	status, respBody, err := c.postJSON(ctx, "/api/projects", body, token)
	if err != nil {
		return nil, &ProjectError{Message: err.Error()}
	}
	if status >= http.StatusBadRequest {
		return nil, &ProjectError{Message: failureMessage(respBody, "Failed to create project")}
	}

	var project Project
	if err := json.Unmarshal(respBody, &project); err != nil {
		return nil, &ProjectError{Message: fmt.Sprintf("failed to parse project response: %v", err)}
	}
	return &project, nil
}

// ListProjects returns the user's projects in server order. A user with no
// projects gets an empty slice, not an error.
func (c *Client) ListProjects(ctx context.Context, token string) ([]Project, error) {
	status, respBody, err := c.get(ctx, "/api/projects", token)
	if err != nil {
		return nil, &ProjectError{Message: err.Error()}
	}
	if status >= http.StatusBadRequest {
		return nil, &ProjectError{Message: failureMessage(respBody, "Failed to fetch projects")}
	}

	var result struct {
		Projects []Project `json:"projects"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &ProjectError{Message: fmt.Sprintf("failed to parse projects response: %v", err)}
	}
	if result.Projects == nil {
		return []Project{}, nil
	}
	return result.Projects, nil
}

// UploadFile sends a raw data file as multipart form content and returns the
// file identity plus the server-computed profile.
func (c *Client) UploadFile(ctx context.Context, file io.Reader, filename, projectID, token string) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, &UploadError{Message: fmt.Sprintf("failed to build upload form: %v", err)}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &UploadError{Message: fmt.Sprintf("failed to read file: %v", err)}
	}
	if err := writer.Close(); err != nil {
		return nil, &UploadError{Message: fmt.Sprintf("failed to finalize upload form: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/datasets/upload/"+projectID, &buf)
	if err != nil {
		return nil, &UploadError{Message: fmt.Sprintf("failed to create upload request: %v", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	status, respBody, err := c.send(req)
	if err != nil {
		return nil, &UploadError{Message: err.Error()}
	}
	if status >= http.StatusBadRequest {
		return nil, &UploadError{Message: failureMessage(respBody, "Upload failed")}
	}

	var result UploadResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, &UploadError{Message: fmt.Sprintf("failed to parse upload response: %v", err)}
	}
	return &result, nil
}

// GetProfile fetches the data profile of an uploaded file.
func (c *Client) GetProfile(ctx context.Context, fileID string) (*models.DataProfile, error) {
	var profile models.DataProfile
	if err := c.getAnalysis(ctx, "/profile/"+fileID, "Profile fetch failed", &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetInsights fetches aggregations, distributions and trends for a file.
func (c *Client) GetInsights(ctx context.Context, fileID string) (*models.Insights, error) {
	var insights models.Insights
	if err := c.getAnalysis(ctx, "/insights/"+fileID, "Insights fetch failed", &insights); err != nil {
		return nil, err
	}
	return &insights, nil
}

// GetTemplates fetches the auto-generated visualization templates for a file.
func (c *Client) GetTemplates(ctx context.Context, fileID string) ([]models.VisualizationTemplate, error) {
	var result struct {
		Templates []models.VisualizationTemplate `json:"templates"`
	}
	if err := c.getAnalysis(ctx, "/templates/"+fileID, "Templates fetch failed", &result); err != nil {
		return nil, err
	}
	return result.Templates, nil
}

// GetFullAnalysis fetches profile, insights and templates in one call.
func (c *Client) GetFullAnalysis(ctx context.Context, fileID string) (*AnalysisBundle, error) {
	var bundle AnalysisBundle
	if err := c.getAnalysis(ctx, "/full-analysis/"+fileID, "Full analysis fetch failed", &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// GetSampleData fetches the built-in demonstration dataset.
func (c *Client) GetSampleData(ctx context.Context) (*AnalysisBundle, error) {
	var bundle AnalysisBundle
	if err := c.getAnalysis(ctx, "/sample-data", "Sample data fetch failed", &bundle); err != nil {
		return nil, err
	}
	return &bundle, nil
}

// IsHealthy probes the service root. It never returns an error: any failure,
// network or otherwise, reads as unhealthy.
func (c *Client) IsHealthy(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return false
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// getAnalysis runs one unauthenticated analysis fetch. These routes report
// failures without a detail body, so the fallback message is always used.
func (c *Client) getAnalysis(ctx context.Context, path, fallback string, out any) error {
	status, respBody, err := c.get(ctx, path, "")
	if err != nil {
		return &AnalysisError{Message: err.Error()}
	}
	if status >= http.StatusBadRequest {
		return &AnalysisError{Message: failureMessage(respBody, fallback)}
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &AnalysisError{Message: fmt.Sprintf("failed to parse analysis response: %v", err)}
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any, token string) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req)
}

func (c *Client) get(ctx context.Context, path, token string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.send(req)
}

func (c *Client) send(req *http.Request) (int, []byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}
