// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Screenshot represents a marketplace screenshot uploaded to S3-compatible
// object storage. Metadata is stored in PostgreSQL; the image itself lives
// in the bucket. The public URL is what ends up in PublishMetadata.Screenshots.
type Screenshot struct {
	ID          uuid.UUID `json:"id"`
	TemplateID  uuid.UUID `json:"template_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	S3Key       string    `json:"s3_key"`
	ThumbS3Key  *string   `json:"thumb_s3_key,omitempty"`
	URL         string    `json:"url"`
	UploaderID  uuid.UUID `json:"uploader_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// IsImage returns true if the stored content type is an image type.
func (s *Screenshot) IsImage() bool {
	return strings.HasPrefix(s.ContentType, "image/")
}

// HumanSize returns a human-readable file size string.
func (s *Screenshot) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case s.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(s.SizeBytes)/float64(mb))
	case s.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(s.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", s.SizeBytes)
	}
}
