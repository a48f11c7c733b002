//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/solaris-energy/operator-assist/internal/agent"
	"github.com/solaris-energy/operator-assist/internal/config"
)

// PostgresStore keeps sessions in a PostgreSQL table with an expires_at
// column. Expired rows are ignored on read and lazily removed on write.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore creates a PostgreSQL-backed session store, verifies the
// connection, and ensures the sessions table exists.
func NewPostgresStore(
	ctx context.Context,
	cfg config.DatabaseConfig,
	ttl time.Duration,
) (*PostgresStore, error) {
	connStr := buildConnectionString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{
		pool: pool,
		ttl:  ttl,
	}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// buildConnectionString constructs a PostgreSQL connection string.
func buildConnectionString(cfg config.DatabaseConfig) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("host=%s", cfg.Host))
	parts = append(parts, fmt.Sprintf("port=%d", cfg.Port))
	parts = append(parts, fmt.Sprintf("dbname=%s", cfg.Database))

	// Username: config > PGUSER > USER
	username := cfg.Username
	if username == "" {
		username = os.Getenv("PGUSER")
	}
	if username == "" {
		username = os.Getenv("USER")
	}
	if username != "" {
		parts = append(parts, fmt.Sprintf("user=%s", username))
	}

	if cfg.Password != "" {
		parts = append(parts, fmt.Sprintf("password=%s", cfg.Password))
	}

	if cfg.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", cfg.SSLMode))
	}

	// Certificate-based authentication
	if cfg.SSLCert != "" {
		parts = append(parts, fmt.Sprintf("sslcert=%s", cfg.SSLCert))
	}
	if cfg.SSLKey != "" {
		parts = append(parts, fmt.Sprintf("sslkey=%s", cfg.SSLKey))
	}
	if cfg.SSLRootCA != "" {
		parts = append(parts, fmt.Sprintf("sslrootcert=%s", cfg.SSLRootCA))
	}

	return strings.Join(parts, " ")
}

// ensureSchema creates the sessions table if it does not exist.
func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS assist_sessions (
			session_id  text PRIMARY KEY,
			messages    jsonb NOT NULL,
			updated_at  timestamptz NOT NULL DEFAULT now(),
			expires_at  timestamptz NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create sessions table: %w", err)
	}
	return nil
}

// Load returns the stored messages for a session.
func (s *PostgresStore) Load(ctx context.Context, sessionID string) ([]agent.Message, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `
		SELECT messages FROM assist_sessions
		WHERE session_id = $1 AND expires_at > now()`,
		sessionID,
	).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var messages []agent.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return messages, nil
}

// Save stores the messages for a session, resetting its expiry. Expired
// rows are pruned opportunistically.
func (s *PostgresStore) Save(ctx context.Context, sessionID string, messages []agent.Message) error {
	data, err := json.Marshal(messages)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO assist_sessions (session_id, messages, updated_at, expires_at)
		VALUES ($1, $2, now(), now() + $3)
		ON CONFLICT (session_id) DO UPDATE SET
			messages = EXCLUDED.messages,
			updated_at = now(),
			expires_at = now() + $3`,
		sessionID, data, s.ttl,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	_, _ = s.pool.Exec(ctx, `DELETE FROM assist_sessions WHERE expires_at <= now()`)
	return nil
}

// Delete removes a session.
func (s *PostgresStore) Delete(ctx context.Context, sessionID string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM assist_sessions WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Close releases backend resources.
func (s *PostgresStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}

// Ensure PostgresStore implements the interface.
var _ Store = (*PostgresStore)(nil)
