// Package db provides PostgreSQL persistence for sessions and generated artifacts.
package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// Artifact is one persisted generation outcome.
type Artifact struct {
	SessionID    uuid.UUID       `json:"session_id"`
	Kind         string          `json:"kind"`
	Success      bool            `json:"success"`
	Content      json.RawMessage `json:"content,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Connect establishes a connection pool to the database.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// CreateSession records a new session.
func (s *Store) CreateSession(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO sessions (id, status) VALUES ($1, 'active')
		 ON CONFLICT (id) DO NOTHING`,
		sessionID,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// SaveArtifact upserts the settled outcome for one artifact kind. Each kind
// keeps only its latest outcome per session.
func (s *Store) SaveArtifact(ctx context.Context, sessionID uuid.UUID, kind string, success bool, content any, errorMessage string) error {
	var payload []byte
	if content != nil {
		var err error
		payload, err = json.Marshal(content)
		if err != nil {
			return fmt.Errorf("failed to marshal artifact: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO artifacts (session_id, kind, success, content, error_message)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (session_id, kind)
		 DO UPDATE SET success = $3, content = $4, error_message = $5, created_at = NOW()`,
		sessionID, kind, success, payload, errorMessage,
	)
	if err != nil {
		return fmt.Errorf("failed to save artifact %s: %w", kind, err)
	}
	return nil
}

// LoadArtifacts returns every persisted artifact for a session.
func (s *Store) LoadArtifacts(ctx context.Context, sessionID uuid.UUID) ([]Artifact, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT session_id, kind, success, content, error_message, created_at
		 FROM artifacts WHERE session_id = $1 ORDER BY kind`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifacts: %w", err)
	}
	defer rows.Close()

	var artifacts []Artifact
	for rows.Next() {
		var a Artifact
		if err := rows.Scan(&a.SessionID, &a.Kind, &a.Success, &a.Content, &a.ErrorMessage, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	return artifacts, rows.Err()
}

// DeleteArtifacts removes every persisted artifact for a session. Used by the
// clear-results action.
func (s *Store) DeleteArtifacts(ctx context.Context, sessionID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM artifacts WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete artifacts: %w", err)
	}
	return nil
}
