// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"scaffolder/internal/models"
)

// ScreenshotStore handles screenshot metadata database operations. The
// image bytes themselves live in object storage; only the keys and URLs
// are recorded here.
type ScreenshotStore struct {
	db *sql.DB
}

// NewScreenshotStore creates a new ScreenshotStore with the given database
// connection.
func NewScreenshotStore(db *sql.DB) *ScreenshotStore {
	return &ScreenshotStore{db: db}
}

// screenshotColumns lists the columns selected in screenshot queries.
const screenshotColumns = `id, template_id, filename, content_type, size_bytes,
	s3_key, thumb_s3_key, url, uploader_id, created_at`

// scanScreenshot scans a screenshot row from the result set.
func scanScreenshot(scanner interface{ Scan(...any) error }) (*models.Screenshot, error) {
	var sc models.Screenshot
	err := scanner.Scan(
		&sc.ID, &sc.TemplateID, &sc.Filename, &sc.ContentType, &sc.SizeBytes,
		&sc.S3Key, &sc.ThumbS3Key, &sc.URL, &sc.UploaderID, &sc.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sc, nil
}

// Create inserts a new screenshot record and returns it with the
// generated ID.
func (s *ScreenshotStore) Create(ctx context.Context, sc *models.Screenshot) (*models.Screenshot, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO screenshots (template_id, filename, content_type, size_bytes,
			s3_key, thumb_s3_key, url, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+screenshotColumns,
		sc.TemplateID, sc.Filename, sc.ContentType, sc.SizeBytes,
		sc.S3Key, sc.ThumbS3Key, sc.URL, sc.UploaderID,
	)
	saved, err := scanScreenshot(row)
	if err != nil {
		return nil, fmt.Errorf("create screenshot: %w", err)
	}
	return saved, nil
}

// ListByTemplate returns all screenshots for a draft, oldest first, so
// upload order is display order.
func (s *ScreenshotStore) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]models.Screenshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+screenshotColumns+`
		FROM screenshots
		WHERE template_id = $1
		ORDER BY created_at ASC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list screenshots: %w", err)
	}
	defer rows.Close()

	var screenshots []models.Screenshot
	for rows.Next() {
		sc, err := scanScreenshot(rows)
		if err != nil {
			return nil, fmt.Errorf("scan screenshot: %w", err)
		}
		screenshots = append(screenshots, *sc)
	}
	return screenshots, rows.Err()
}

// FindByID retrieves a single screenshot record. Returns nil if not found.
func (s *ScreenshotStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Screenshot, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+screenshotColumns+` FROM screenshots WHERE id = $1`, id)
	sc, err := scanScreenshot(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find screenshot by id: %w", err)
	}
	return sc, nil
}

// Delete removes a screenshot record by ID.
func (s *ScreenshotStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM screenshots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete screenshot: %w", err)
	}
	return nil
}
