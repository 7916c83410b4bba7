// ABOUTME: Credential and user profile store methods on SQLiteStore
// ABOUTME: Registration writes credential and profile in a single transaction

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// RegisterUser creates a credential and its companion user profile in a
// single transaction, so a failed profile write never leaves a dangling
// credential. Returns ErrUsernameTaken if the username already exists.
func (s *SQLiteStore) RegisterUser(ctx context.Context, cred *Credential, profile *UserProfile) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO credentials (username, password_hash, created_at) VALUES (?, ?, ?)`,
		cred.Username,
		cred.PasswordHash,
		cred.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("inserting credential: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO users (username, email, created_at) VALUES (?, ?, ?)`,
		profile.Username,
		profile.Email,
		profile.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("inserting user profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing registration: %w", err)
	}

	s.logger.Info("registered user", "username", cred.Username)
	return nil
}

// GetCredential retrieves a credential by username.
func (s *SQLiteStore) GetCredential(ctx context.Context, username string) (*Credential, error) {
	query := `
		SELECT username, password_hash, created_at
		FROM credentials
		WHERE username = ?
	`

	var cred Credential
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&cred.Username,
		&cred.PasswordHash,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying credential: %w", err)
	}

	cred.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &cred, nil
}

// GetUserProfile retrieves a user profile by username.
func (s *SQLiteStore) GetUserProfile(ctx context.Context, username string) (*UserProfile, error) {
	query := `
		SELECT username, email, created_at
		FROM users
		WHERE username = ?
	`

	var profile UserProfile
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&profile.Username,
		&profile.Email,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying user profile: %w", err)
	}

	profile.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &profile, nil
}
