// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"scaffolder/internal/models"
)

// TemplateStore handles draft template database operations. The nested
// config, files, and variables are stored as jsonb columns; PostgreSQL
// never interprets them.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database
// connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// templateColumns lists the columns selected in draft queries.
const templateColumns = `id, name, description, organization_id, team_id, created_by,
	config, files, variables, is_public, created_at, updated_at`

// scanTemplate scans a draft row, decoding the jsonb columns.
func scanTemplate(scanner interface{ Scan(...any) error }) (*models.CustomTemplate, error) {
	var (
		t         models.CustomTemplate
		id        uuid.UUID
		configRaw []byte
		filesRaw  []byte
		varsRaw   []byte
	)
	err := scanner.Scan(
		&id, &t.Name, &t.Description, &t.OrganizationID, &t.TeamID, &t.CreatedBy,
		&configRaw, &filesRaw, &varsRaw, &t.IsPublic, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.ID = &id

	if err := json.Unmarshal(configRaw, &t.Config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := json.Unmarshal(filesRaw, &t.Files); err != nil {
		return nil, fmt.Errorf("decode files: %w", err)
	}
	if err := json.Unmarshal(varsRaw, &t.Variables); err != nil {
		return nil, fmt.Errorf("decode variables: %w", err)
	}
	return &t, nil
}

// encodeTemplate marshals the jsonb columns of a draft.
func encodeTemplate(t *models.CustomTemplate) (config, files, variables []byte, err error) {
	if config, err = json.Marshal(t.Config); err != nil {
		return nil, nil, nil, fmt.Errorf("encode config: %w", err)
	}
	if t.Files == nil {
		t.Files = []models.ProjectFile{}
	}
	if files, err = json.Marshal(t.Files); err != nil {
		return nil, nil, nil, fmt.Errorf("encode files: %w", err)
	}
	if t.Variables == nil {
		t.Variables = []models.TemplateVariable{}
	}
	if variables, err = json.Marshal(t.Variables); err != nil {
		return nil, nil, nil, fmt.Errorf("encode variables: %w", err)
	}
	return config, files, variables, nil
}

// Create inserts a new draft and returns the stored copy with its
// assigned ID. Ownership attribution is written once here and never
// updated afterwards.
func (s *TemplateStore) Create(ctx context.Context, t *models.CustomTemplate) (*models.CustomTemplate, error) {
	config, files, variables, err := encodeTemplate(t)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO templates (name, description, organization_id, team_id, created_by,
			config, files, variables, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+templateColumns,
		t.Name, t.Description, t.OrganizationID, t.TeamID, t.CreatedBy,
		config, files, variables, t.IsPublic,
	)
	saved, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return saved, nil
}

// FindByID retrieves a draft by its UUID. Returns nil if not found.
func (s *TemplateStore) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomTemplate, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+templateColumns+` FROM templates WHERE id = $1`, id)
	t, err := scanTemplate(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// ListByOrganization returns all drafts owned by an organization, newest
// first.
func (s *TemplateStore) ListByOrganization(ctx context.Context, organizationID uuid.UUID) ([]models.CustomTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE organization_id = $1
		ORDER BY updated_at DESC
	`, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var templates []models.CustomTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// Update replaces a draft's editable fields. Ownership columns are
// immutable after creation and deliberately absent here.
func (s *TemplateStore) Update(ctx context.Context, t *models.CustomTemplate) error {
	if t.ID == nil {
		return fmt.Errorf("update template: draft has no id")
	}

	config, files, variables, err := encodeTemplate(t)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE templates SET
			name = $1, description = $2, config = $3, files = $4, variables = $5,
			is_public = $6, updated_at = NOW()
		WHERE id = $7
	`, t.Name, t.Description, config, files, variables, t.IsPublic, *t.ID)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// Delete removes a draft by ID. Published snapshots are unaffected: they
// are append-only records in their own table.
func (s *TemplateStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM templates WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}

// Count returns the total number of drafts.
func (s *TemplateStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM templates`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count templates: %w", err)
	}
	return count, nil
}
