// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// marketplace.go persists published template snapshots. Rows are
// append-only: republishing a draft inserts a new row with the next
// version instead of mutating an existing one.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"scaffolder/internal/models"
	"scaffolder/internal/slug"
)

// MarketplaceStore handles published template operations. It implements
// the publish pipeline's persistence collaborator together with the
// draft store it wraps.
type MarketplaceStore struct {
	db        *sql.DB
	templates *TemplateStore
}

// NewMarketplaceStore creates a new MarketplaceStore.
func NewMarketplaceStore(db *sql.DB, templates *TemplateStore) *MarketplaceStore {
	return &MarketplaceStore{db: db, templates: templates}
}

// publishedColumns lists the columns selected in published-template queries.
const publishedColumns = `id, template_id, slug, version, name, description,
	organization_id, created_by, config, files, variables, category, tags,
	pricing, license, screenshots, published_by, published_at`

// scanPublished scans a published-template row, decoding jsonb columns.
func scanPublished(scanner interface{ Scan(...any) error }) (*models.ProjectTemplate, error) {
	var (
		p              models.ProjectTemplate
		configRaw      []byte
		filesRaw       []byte
		varsRaw        []byte
		tagsRaw        []byte
		pricingRaw     []byte
		screenshotsRaw []byte
	)
	err := scanner.Scan(
		&p.ID, &p.TemplateID, &p.Slug, &p.Version, &p.Name, &p.Description,
		&p.OrganizationID, &p.CreatedBy, &configRaw, &filesRaw, &varsRaw,
		&p.Category, &tagsRaw, &pricingRaw, &screenshotsRaw,
		&p.PublishedBy, &p.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, col := range []struct {
		raw []byte
		dst any
	}{
		{configRaw, &p.Config},
		{filesRaw, &p.Files},
		{varsRaw, &p.Variables},
		{tagsRaw, &p.Tags},
		{pricingRaw, &p.Pricing},
		{screenshotsRaw, &p.Screenshots},
	} {
		if err := json.Unmarshal(col.raw, col.dst); err != nil {
			return nil, fmt.Errorf("decode published template: %w", err)
		}
	}
	return &p, nil
}

// CreateCustomTemplate persists a never-saved draft. Part of the publish
// collaborator contract.
func (s *MarketplaceStore) CreateCustomTemplate(ctx context.Context, organizationID uuid.UUID, tmpl *models.CustomTemplate) (*models.CustomTemplate, error) {
	t := tmpl.Clone()
	t.OrganizationID = organizationID
	return s.templates.Create(ctx, t)
}

// PublishTemplate promotes a saved draft into a new published snapshot.
// The snapshot, its version, and the publish audit entry are written in
// one transaction, so a failure leaves no partial state behind.
func (s *MarketplaceStore) PublishTemplate(ctx context.Context, templateID uuid.UUID, meta *models.PublishMetadata, publishedBy uuid.UUID) (*models.ProjectTemplate, error) {
	draft, err := s.templates.FindByID(ctx, templateID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, fmt.Errorf("publish template: draft %s not found", templateID)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	// Next version for this draft; 1 for a first publication.
	var version int
	err = tx.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0) + 1 FROM project_templates WHERE template_id = $1
	`, templateID).Scan(&version)
	if err != nil {
		return nil, fmt.Errorf("next version: %w", err)
	}

	listingSlug, err := s.resolveSlug(ctx, tx, templateID, draft.Name)
	if err != nil {
		return nil, err
	}

	config, files, variables, err := encodeTemplate(draft)
	if err != nil {
		return nil, err
	}
	if meta.Tags == nil {
		meta.Tags = []string{}
	}
	if meta.Screenshots == nil {
		meta.Screenshots = []string{}
	}
	tags, err := json.Marshal(meta.Tags)
	if err != nil {
		return nil, fmt.Errorf("encode tags: %w", err)
	}
	pricing, err := json.Marshal(meta.Pricing)
	if err != nil {
		return nil, fmt.Errorf("encode pricing: %w", err)
	}
	screenshots, err := json.Marshal(meta.Screenshots)
	if err != nil {
		return nil, fmt.Errorf("encode screenshots: %w", err)
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO project_templates (template_id, slug, version, name, description,
			organization_id, created_by, config, files, variables, category, tags,
			pricing, license, screenshots, published_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING `+publishedColumns,
		templateID, listingSlug, version, draft.Name, draft.Description,
		draft.OrganizationID, draft.CreatedBy, config, files, variables,
		meta.Category, tags, pricing, meta.License, screenshots, publishedBy,
	)
	published, err := scanPublished(row)
	if err != nil {
		return nil, fmt.Errorf("insert published template: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO publish_log (template_id, published_id, version, published_by)
		VALUES ($1, $2, $3, $4)
	`, templateID, published.ID, version, publishedBy)
	if err != nil {
		return nil, fmt.Errorf("insert publish log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit publish: %w", err)
	}
	return published, nil
}

// resolveSlug reuses the slug of earlier versions of the same draft, or
// generates one from the name, suffixing a counter on collision with a
// different draft's listing.
func (s *MarketplaceStore) resolveSlug(ctx context.Context, tx *sql.Tx, templateID uuid.UUID, name string) (string, error) {
	var existing string
	err := tx.QueryRowContext(ctx, `
		SELECT slug FROM project_templates
		WHERE template_id = $1
		ORDER BY version DESC LIMIT 1
	`, templateID).Scan(&existing)
	if err == nil {
		return existing, nil
	}
	if err != sql.ErrNoRows {
		return "", fmt.Errorf("lookup slug: %w", err)
	}

	base := slug.Generate(name)
	if base == "" {
		base = "template"
	}

	candidate := base
	for i := 2; ; i++ {
		var taken bool
		err := tx.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM project_templates WHERE slug = $1 AND template_id <> $2
			)
		`, candidate, templateID).Scan(&taken)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// List returns the latest version of every public listing, newest first.
func (s *MarketplaceStore) List(ctx context.Context, limit, offset int) ([]models.ProjectTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM (
			SELECT DISTINCT ON (template_id) `+publishedColumns+`
			FROM project_templates
			ORDER BY template_id, version DESC
		) latest
		ORDER BY published_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published templates: %w", err)
	}
	defer rows.Close()

	var listings []models.ProjectTemplate
	for rows.Next() {
		p, err := scanPublished(rows)
		if err != nil {
			return nil, fmt.Errorf("scan published template: %w", err)
		}
		listings = append(listings, *p)
	}
	return listings, rows.Err()
}

// FindBySlug returns the latest published version for a listing slug.
// Returns nil if not found.
func (s *MarketplaceStore) FindBySlug(ctx context.Context, listingSlug string) (*models.ProjectTemplate, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+publishedColumns+`
		FROM project_templates
		WHERE slug = $1
		ORDER BY version DESC LIMIT 1
	`, listingSlug)
	p, err := scanPublished(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find published template by slug: %w", err)
	}
	return p, nil
}

// ListByCategory returns the latest public listings in one category.
func (s *MarketplaceStore) ListByCategory(ctx context.Context, category models.Category, limit, offset int) ([]models.ProjectTemplate, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT * FROM (
			SELECT DISTINCT ON (template_id) `+publishedColumns+`
			FROM project_templates
			WHERE category = $1
			ORDER BY template_id, version DESC
		) latest
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`, category, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list published templates by category: %w", err)
	}
	defer rows.Close()

	var listings []models.ProjectTemplate
	for rows.Next() {
		p, err := scanPublished(rows)
		if err != nil {
			return nil, fmt.Errorf("scan published template: %w", err)
		}
		listings = append(listings, *p)
	}
	return listings, rows.Err()
}

// Count returns the total number of published snapshots, all versions
// included.
func (s *MarketplaceStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project_templates`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count published templates: %w", err)
	}
	return count, nil
}
