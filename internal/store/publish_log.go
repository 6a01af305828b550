// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// publish_log.go records publish events for audit and debugging. Each
// entry captures which draft was promoted, into which snapshot and
// version, by whom, and when.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PublishLogEntry is one recorded publish event.
type PublishLogEntry struct {
	ID          uuid.UUID `json:"id"`
	TemplateID  uuid.UUID `json:"template_id"`
	PublishedID uuid.UUID `json:"published_id"`
	Version     int       `json:"version"`
	PublishedBy uuid.UUID `json:"published_by"`
	PublishedAt time.Time `json:"published_at"`
}

// PublishLogStore handles publish audit log operations. Writes happen
// inside the marketplace publish transaction; this store only reads.
type PublishLogStore struct {
	db *sql.DB
}

// NewPublishLogStore creates a new PublishLogStore.
func NewPublishLogStore(db *sql.DB) *PublishLogStore {
	return &PublishLogStore{db: db}
}

// RecentEntries returns the most recent publish events, newest first.
func (s *PublishLogStore) RecentEntries(ctx context.Context, limit int) ([]PublishLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, template_id, published_id, version, published_by, published_at
		FROM publish_log
		ORDER BY published_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list publish log: %w", err)
	}
	defer rows.Close()

	var entries []PublishLogEntry
	for rows.Next() {
		var e PublishLogEntry
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.PublishedID, &e.Version, &e.PublishedBy, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan publish log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HistoryFor returns every publish event for one draft, newest first.
func (s *PublishLogStore) HistoryFor(ctx context.Context, templateID uuid.UUID) ([]PublishLogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, template_id, published_id, version, published_by, published_at
		FROM publish_log
		WHERE template_id = $1
		ORDER BY version DESC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("publish history: %w", err)
	}
	defer rows.Close()

	var entries []PublishLogEntry
	for rows.Next() {
		var e PublishLogEntry
		if err := rows.Scan(&e.ID, &e.TemplateID, &e.PublishedID, &e.Version, &e.PublishedBy, &e.PublishedAt); err != nil {
			return nil, fmt.Errorf("scan publish log entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
