package api

import "encoding/json"

// The remote reports failures as a JSON body carrying a human-readable
// "detail" field. Each operation family maps that onto its own error type so
// callers can distinguish auth, project, upload and analysis failures with
// errors.As while always having a displayable message.

// AuthError is returned when a signup or login operation fails.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ProjectError is returned when a project create or list operation fails.
type ProjectError struct {
	Message string
}

func (e *ProjectError) Error() string { return e.Message }

// UploadError is returned when a dataset upload fails.
type UploadError struct {
	Message string
}

func (e *UploadError) Error() string { return e.Message }

// AnalysisError is returned when a profile, insights, templates or combined
// analysis fetch fails.
type AnalysisError struct {
	Message string
}

func (e *AnalysisError) Error() string { return e.Message }

// failureMessage extracts the server-provided detail from a failure body,
// falling back to the operation's fixed message when the body carries none.
func failureMessage(body []byte, fallback string) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return fallback
}
