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
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/solaris-energy/operator-assist/internal/agent"
)

// MemoryStore keeps sessions in process memory with TTL-based eviction.
// Suitable for single-node deployments and tests.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates an in-memory session store. Expired sessions are
// purged every 10 minutes.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &MemoryStore{
		cache: cache.New(ttl, 10*time.Minute),
	}
}

// Load returns the stored messages for a session.
func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]agent.Message, error) {
	v, found := s.cache.Get(sessionID)
	if !found {
		return nil, ErrSessionNotFound
	}

	stored := v.([]agent.Message)
	messages := make([]agent.Message, len(stored))
	copy(messages, stored)
	return messages, nil
}

// Save stores the messages for a session, resetting its expiry.
func (s *MemoryStore) Save(_ context.Context, sessionID string, messages []agent.Message) error {
	stored := make([]agent.Message, len(messages))
	copy(stored, messages)
	s.cache.Set(sessionID, stored, cache.DefaultExpiration)
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(_ context.Context, sessionID string) error {
	s.cache.Delete(sessionID)
	return nil
}

// Close releases backend resources.
func (s *MemoryStore) Close() error {
	s.cache.Flush()
	return nil
}

// Ensure MemoryStore implements the interface.
var _ Store = (*MemoryStore)(nil)
