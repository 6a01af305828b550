// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// state.go persists in-progress builder machines in Valkey so an
// authoring session survives page reloads and API statelessness. The
// draft plus its step are stored as one JSON document per session.
package builder

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// stateKeyPrefix namespaces builder state keys in Valkey.
	stateKeyPrefix = "builder:"

	// DefaultStateTTL is how long an untouched builder session survives.
	DefaultStateTTL = 24 * time.Hour
)

// state is the serialized form of a machine.
type state struct {
	Draft *Draft `json:"draft"`
	Step  Step   `json:"step"`
}

// StateStore saves and restores builder machines in Valkey, keyed by an
// opaque session-scoped identifier.
type StateStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateStore creates a builder state store backed by the given Valkey
// client.
func NewStateStore(client *redis.Client, ttl time.Duration) *StateStore {
	if ttl == 0 {
		ttl = DefaultStateTTL
	}
	return &StateStore{client: client, ttl: ttl}
}

// Save serializes the machine and stores it under the key, resetting the
// TTL.
func (s *StateStore) Save(ctx context.Context, key string, m *Machine) error {
	payload, err := json.Marshal(state{Draft: m.Draft(), Step: m.Step()})
	if err != nil {
		return fmt.Errorf("builder state marshal: %w", err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+key, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("builder state save: %w", err)
	}
	return nil
}

// Load restores a machine from Valkey. Returns nil if no session exists
// under the key.
func (s *StateStore) Load(ctx context.Context, key string) (*Machine, error) {
	payload, err := s.client.Get(ctx, stateKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("builder state load: %w", err)
	}

	var st state
	if err := json.Unmarshal(payload, &st); err != nil {
		return nil, fmt.Errorf("builder state unmarshal: %w", err)
	}
	if st.Draft == nil {
		return nil, fmt.Errorf("builder state load: empty draft")
	}
	return ResumeMachine(st.Draft, st.Step), nil
}

// Delete removes a builder session, typically after a successful publish.
func (s *StateStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, stateKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("builder state delete: %w", err)
	}
	return nil
}
