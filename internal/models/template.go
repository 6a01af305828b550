// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Framework identifies the frontend framework a template scaffolds.
type Framework string

const (
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkAngular Framework = "angular"
	FrameworkSvelte  Framework = "svelte"
	FrameworkNextJS  Framework = "nextjs"
	FrameworkNuxt    Framework = "nuxt"
)

// Frameworks lists every supported framework, in display order.
var Frameworks = []Framework{
	FrameworkReact, FrameworkVue, FrameworkAngular,
	FrameworkSvelte, FrameworkNextJS, FrameworkNuxt,
}

// Valid reports whether f is one of the supported frameworks.
func (f Framework) Valid() bool {
	for _, known := range Frameworks {
		if f == known {
			return true
		}
	}
	return false
}

// FileType is an informational tag describing a project file's role.
// It has no behavioral meaning; the builder UI uses it for grouping.
type FileType string

const (
	FileTypeComponent FileType = "component"
	FileTypeConfig    FileType = "config"
	FileTypeStyle     FileType = "style"
	FileTypePage      FileType = "page"
	FileTypeUtil      FileType = "util"
	FileTypeDoc       FileType = "doc"
)

// VariableType constrains the value a template variable accepts.
type VariableType string

const (
	VariableTypeString      VariableType = "string"
	VariableTypeNumber      VariableType = "number"
	VariableTypeBoolean     VariableType = "boolean"
	VariableTypeSelect      VariableType = "select"
	VariableTypeMultiselect VariableType = "multiselect"
	VariableTypeColor       VariableType = "color"
)

// TemplateConfig holds the framework selection and feature toggles chosen
// during the config step of the builder.
type TemplateConfig struct {
	Framework     Framework `json:"framework"`
	Styling       string    `json:"styling"`
	Features      []string  `json:"features"`
	Integrations  []string  `json:"integrations"`
	Deployment    []string  `json:"deployment"`
	Testing       bool      `json:"testing"`
	Documentation bool      `json:"documentation"`
	CI            bool      `json:"ci"`
	Monitoring    bool      `json:"monitoring"`
}

// ProjectFile is one path-addressed file inside a template. The path is the
// file's identity within the template; slice order is authoring order only.
type ProjectFile struct {
	Path         string   `json:"path"`
	Content      string   `json:"content"`
	Type         FileType `json:"type"`
	Dependencies []string `json:"dependencies"`
}

// TemplateVariable is a customizable substitution token offered to users
// who instantiate the template. Keys must be unique within a template;
// uniqueness is enforced by step validation, not by storage.
type TemplateVariable struct {
	Key          string       `json:"key"`
	Label        string       `json:"label"`
	Description  string       `json:"description"`
	Placeholder  string       `json:"placeholder"`
	Type         VariableType `json:"type"`
	Required     bool         `json:"required"`
	DefaultValue string       `json:"default_value"`
}

// CustomTemplate is the draft artifact assembled by the template builder.
// ID is nil until the draft is first persisted. Ownership attribution
// (organization, team, creator) is immutable after creation.
type CustomTemplate struct {
	ID             *uuid.UUID         `json:"id,omitempty"`
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	OrganizationID uuid.UUID          `json:"organization_id"`
	TeamID         *uuid.UUID         `json:"team_id,omitempty"`
	CreatedBy      uuid.UUID          `json:"created_by"`
	Config         TemplateConfig     `json:"config"`
	Files          []ProjectFile      `json:"files"`
	Variables      []TemplateVariable `json:"variables"`
	IsPublic       bool               `json:"is_public"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Saved reports whether the draft has ever been persisted.
func (t *CustomTemplate) Saved() bool {
	return t.ID != nil
}

// Clone returns a deep copy of the template. Publish snapshots the draft
// at call time so in-flight saves are unaffected by later edits.
func (t *CustomTemplate) Clone() *CustomTemplate {
	c := *t
	if t.ID != nil {
		id := *t.ID
		c.ID = &id
	}
	if t.TeamID != nil {
		tid := *t.TeamID
		c.TeamID = &tid
	}
	c.Config.Features = append([]string(nil), t.Config.Features...)
	c.Config.Integrations = append([]string(nil), t.Config.Integrations...)
	c.Config.Deployment = append([]string(nil), t.Config.Deployment...)
	c.Files = make([]ProjectFile, len(t.Files))
	for i, f := range t.Files {
		f.Dependencies = append([]string(nil), f.Dependencies...)
		c.Files[i] = f
	}
	c.Variables = append([]TemplateVariable(nil), t.Variables...)
	return &c
}
