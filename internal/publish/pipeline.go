// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package publish promotes a validated draft into a publicly listed
// marketplace template. The pipeline owns the validation precondition and
// the implicit save-as-draft; actual persistence is delegated to the
// marketplace collaborator.
package publish

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"scaffolder/internal/builder"
	"scaffolder/internal/models"
)

// Marketplace is the external persistence collaborator. Both operations
// are I/O and may fail with a generic error; the pipeline propagates such
// failures without retrying.
type Marketplace interface {
	// CreateCustomTemplate persists a draft for the first time and returns
	// it with an assigned ID.
	CreateCustomTemplate(ctx context.Context, organizationID uuid.UUID, tmpl *models.CustomTemplate) (*models.CustomTemplate, error)

	// PublishTemplate promotes a saved draft into a new published snapshot.
	PublishTemplate(ctx context.Context, templateID uuid.UUID, meta *models.PublishMetadata, publishedBy uuid.UUID) (*models.ProjectTemplate, error)
}

// ValidationError reports that the draft did not pass full validation.
// It carries the blocking findings for the caller to render.
type ValidationError struct {
	Findings []builder.Finding
}

func (e *ValidationError) Error() string {
	errs := 0
	for _, f := range e.Findings {
		if f.Severity == builder.SeverityError {
			errs++
		}
	}
	return fmt.Sprintf("publish blocked by %d validation error(s)", errs)
}

// PersistenceError reports a failed save or publish write. The in-memory
// draft is unchanged, so the caller can simply retry.
type PersistenceError struct {
	Op  string // "save" or "publish"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Pipeline publishes drafts through a marketplace collaborator.
type Pipeline struct {
	marketplace Marketplace
}

// NewPipeline creates a publish pipeline backed by the given collaborator.
func NewPipeline(marketplace Marketplace) *Pipeline {
	return &Pipeline{marketplace: marketplace}
}

// Publish validates the draft across every authoring step, saves it first
// if it has never been persisted, and promotes it into a published
// snapshot. The draft is snapshotted at call time, so edits made while
// the call is in flight do not leak into the published record. Returns
// *ValidationError when any step still has error-severity findings (the
// jumpTo escape hatch makes this reachable from the publish step) and
// *PersistenceError when the collaborator rejects a write.
func (p *Pipeline) Publish(ctx context.Context, draft *builder.Draft, publishedBy uuid.UUID) (*models.ProjectTemplate, error) {
	snap := draft.Snapshot()

	if findings := builder.ValidateAll(snap.Template, snap.Meta); builder.HasErrors(findings) {
		return nil, &ValidationError{Findings: findings}
	}

	tmpl := snap.Template
	if !tmpl.Saved() {
		saved, err := p.marketplace.CreateCustomTemplate(ctx, tmpl.OrganizationID, tmpl)
		if err != nil {
			return nil, &PersistenceError{Op: "save", Err: err}
		}
		tmpl = saved
	}

	published, err := p.marketplace.PublishTemplate(ctx, *tmpl.ID, snap.Meta, publishedBy)
	if err != nil {
		return nil, &PersistenceError{Op: "publish", Err: err}
	}
	return published, nil
}

// SaveDraft persists a never-saved draft and returns the stored copy with
// its assigned ID. Saving an already-saved draft is the store's update
// path, not the pipeline's concern.
func (p *Pipeline) SaveDraft(ctx context.Context, draft *builder.Draft) (*models.CustomTemplate, error) {
	snap := draft.Snapshot()
	saved, err := p.marketplace.CreateCustomTemplate(ctx, snap.Template.OrganizationID, snap.Template)
	if err != nil {
		return nil, &PersistenceError{Op: "save", Err: err}
	}
	return saved, nil
}
