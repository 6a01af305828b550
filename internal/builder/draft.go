// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package builder

import (
	"github.com/google/uuid"

	"scaffolder/internal/models"
)

// Draft is the in-progress template plus its publish metadata: the state
// the builder mutates through reducer actions. Files and variables stay
// flat and index-addressed; the tree and key uniqueness are derived views.
type Draft struct {
	Template *models.CustomTemplate  `json:"template"`
	Meta     *models.PublishMetadata `json:"meta"`
}

// NewDraft creates an empty draft owned by the given organization and user.
func NewDraft(organizationID, createdBy uuid.UUID) *Draft {
	return &Draft{
		Template: &models.CustomTemplate{
			OrganizationID: organizationID,
			CreatedBy:      createdBy,
		},
		Meta: &models.PublishMetadata{
			Pricing: models.Pricing{Type: models.PricingFree},
		},
	}
}

// Snapshot returns a deep copy of the draft. Save and publish operate on a
// snapshot so that edits made while the call is in flight do not leak into
// the persisted record.
func (d *Draft) Snapshot() *Draft {
	return &Draft{
		Template: d.Template.Clone(),
		Meta:     d.Meta.Clone(),
	}
}

// Validate runs the step validator against this draft.
func (d *Draft) Validate(step Step) []Finding {
	return Validate(step, d.Template, d.Meta)
}

// Tree returns the derived file tree of the draft.
func (d *Draft) Tree() *TreeNode {
	return BuildTree(d.Template.Files)
}
