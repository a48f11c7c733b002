//-------------------------------------------------------------------------
//
// Solaris Operator Assist Server
//
// Copyright (c) 2026, Solaris Energy, Inc.
// All rights reserved.
//
//-------------------------------------------------------------------------

// Package session provides conversation history persistence with a
// configurable backend and TTL-based expiry.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/solaris-energy/operator-assist/internal/agent"
	"github.com/solaris-energy/operator-assist/internal/config"
)

// ErrSessionNotFound is returned when a session id has no stored history.
var ErrSessionNotFound = errors.New("session not found")

// Store persists conversation history by session id.
type Store interface {
	// Load returns the stored messages for a session.
	Load(ctx context.Context, sessionID string) ([]agent.Message, error)

	// Save stores the messages for a session, resetting its expiry.
	Save(ctx context.Context, sessionID string, messages []agent.Message) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Close releases backend resources.
	Close() error
}

// New creates a session store for the configured backend.
func New(ctx context.Context, cfg config.SessionConfig) (Store, error) {
	ttl := time.Duration(cfg.TTLHours) * time.Hour

	switch strings.ToLower(cfg.Backend) {
	case "memory":
		return NewMemoryStore(ttl), nil
	case "redis":
		return NewRedisStore(cfg.Redis, ttl)
	case "postgres":
		return NewPostgresStore(ctx, cfg.Database, ttl)
	default:
		return nil, fmt.Errorf("unknown session backend: %s", cfg.Backend)
	}
}
