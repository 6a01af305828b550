// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies a published template in the marketplace catalog.
type Category string

const (
	CategoryWebApp           Category = "web-app"
	CategoryMobileApp        Category = "mobile-app"
	CategoryDashboard        Category = "dashboard"
	CategoryECommerce        Category = "e-commerce"
	CategoryLandingPage      Category = "landing-page"
	CategoryAPI              Category = "api"
	CategoryComponentLibrary Category = "component-library"
	CategoryAIML             Category = "ai-ml"
)

// Categories lists every marketplace category, in display order.
var Categories = []Category{
	CategoryWebApp, CategoryMobileApp, CategoryDashboard, CategoryECommerce,
	CategoryLandingPage, CategoryAPI, CategoryComponentLibrary, CategoryAIML,
}

// Valid reports whether c is one of the closed set of categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// PricingType distinguishes free templates from paid variants.
type PricingType string

const (
	PricingFree         PricingType = "free"
	PricingOneTime      PricingType = "one-time"
	PricingSubscription PricingType = "subscription"
)

// Pricing describes how a published template is offered. AmountCents and
// Currency are zero/empty for free templates.
type Pricing struct {
	Type        PricingType `json:"type"`
	AmountCents int64       `json:"amount_cents,omitempty"`
	Currency    string      `json:"currency,omitempty"`
}

// Free reports whether the pricing is the free variant.
func (p Pricing) Free() bool {
	return p.Type == "" || p.Type == PricingFree
}

// PublishMetadata is the marketplace-facing metadata supplied on the
// publish step, separate from the draft itself.
type PublishMetadata struct {
	Category    Category `json:"category"`
	Tags        []string `json:"tags"`
	Pricing     Pricing  `json:"pricing"`
	License     string   `json:"license"`
	Screenshots []string `json:"screenshots"`
}

// Clone returns a deep copy of the publish metadata.
func (m *PublishMetadata) Clone() *PublishMetadata {
	c := *m
	c.Tags = append([]string(nil), m.Tags...)
	c.Screenshots = append([]string(nil), m.Screenshots...)
	return &c
}

// ProjectTemplate is the published, publicly listed snapshot of a draft.
// Rows are append-only: republishing a draft creates a new record with an
// incremented Version rather than mutating an existing one.
type ProjectTemplate struct {
	ID             uuid.UUID          `json:"id"`
	TemplateID     uuid.UUID          `json:"template_id"`
	Slug           string             `json:"slug"`
	Version        int                `json:"version"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	OrganizationID uuid.UUID          `json:"organization_id"`
	CreatedBy      uuid.UUID          `json:"created_by"`
	Config         TemplateConfig     `json:"config"`
	Files          []ProjectFile      `json:"files"`
	Variables      []TemplateVariable `json:"variables"`
	Category       Category           `json:"category"`
	Tags           []string           `json:"tags"`
	Pricing        Pricing            `json:"pricing"`
	License        string             `json:"license"`
	Screenshots    []string           `json:"screenshots"`
	PublishedBy    uuid.UUID          `json:"published_by"`
	PublishedAt    time.Time          `json:"published_at"`
}
