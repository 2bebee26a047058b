package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// TokenKey is the fixed key the bearer token is stored under. The client
// keeps exactly one token; a new login replaces it.
const TokenKey = "access_token"

// SaveToken stores the bearer token, replacing any previous one.
func (db *DB) SaveToken(token string) error {
	if token == "" {
		return fmt.Errorf("token is empty")
	}

	_, err := db.ExecContext(context.Background(),
		`INSERT INTO auth_session (key, token, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at`,
		TokenKey, token, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

// LoadToken returns the stored bearer token, or an empty string when no
// token has been saved. Absence is not an error: it simply means the user
// is unauthenticated.
func (db *DB) LoadToken() (string, error) {
	var token string
	err := db.QueryRowContext(context.Background(),
		`SELECT token FROM auth_session WHERE key = ?`, TokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

// DeleteToken removes the stored bearer token.
func (db *DB) DeleteToken() error {
	if _, err := db.ExecContext(context.Background(),
		`DELETE FROM auth_session WHERE key = ?`, TokenKey); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
