// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// actions.go is the reducer surface of the builder: every draft mutation
// is an explicit action applied to a snapshot, so the HTTP layer, tests,
// and the state machine all share one mutation path.
package builder

import (
	"fmt"

	"scaffolder/internal/models"
)

// ActionOp names a draft mutation.
type ActionOp string

const (
	OpSetBasic       ActionOp = "set_basic"
	OpSetConfig      ActionOp = "set_config"
	OpSetVisibility  ActionOp = "set_visibility"
	OpAddFile        ActionOp = "add_file"
	OpUpdateFile     ActionOp = "update_file"
	OpRemoveFile     ActionOp = "remove_file"
	OpAddVariable    ActionOp = "add_variable"
	OpUpdateVariable ActionOp = "update_variable"
	OpRemoveVariable ActionOp = "remove_variable"
	OpSetPublishMeta ActionOp = "set_publish_meta"
)

// Action is one reducer action. Only the fields relevant to the op are set;
// Index addresses files and variables positionally.
type Action struct {
	Op ActionOp `json:"op"`

	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	IsPublic    *bool   `json:"is_public,omitempty"`

	Config *models.TemplateConfig `json:"config,omitempty"`

	File      *models.ProjectFile `json:"file,omitempty"`
	FilePatch *FilePatch          `json:"file_patch,omitempty"`

	VariablePatch *VariablePatch `json:"variable_patch,omitempty"`

	Index *int `json:"index,omitempty"`

	Meta *models.PublishMetadata `json:"meta,omitempty"`
}

// Apply executes the action against a snapshot of the draft and returns
// the resulting state. The input draft is never mutated. Structural
// failures (out-of-range index, unknown op, missing payload) are errors;
// they indicate caller bugs, not invalid user input.
func Apply(d *Draft, a Action) (*Draft, error) {
	next := d.Snapshot()
	tmpl := next.Template

	switch a.Op {
	case OpSetBasic:
		if a.Name != nil {
			tmpl.Name = *a.Name
		}
		if a.Description != nil {
			tmpl.Description = *a.Description
		}

	case OpSetConfig:
		if a.Config == nil {
			return nil, fmt.Errorf("%w: %s needs config", ErrMissingPayload, a.Op)
		}
		tmpl.Config = *a.Config

	case OpSetVisibility:
		if a.IsPublic == nil {
			return nil, fmt.Errorf("%w: %s needs is_public", ErrMissingPayload, a.Op)
		}
		tmpl.IsPublic = *a.IsPublic

	case OpAddFile:
		var file models.ProjectFile
		if a.File != nil {
			file = *a.File
		}
		tmpl.Files = AddFile(tmpl.Files, file)

	case OpUpdateFile:
		if a.Index == nil || a.FilePatch == nil {
			return nil, fmt.Errorf("%w: %s needs index and file_patch", ErrMissingPayload, a.Op)
		}
		files, err := UpdateFile(tmpl.Files, *a.Index, *a.FilePatch)
		if err != nil {
			return nil, err
		}
		tmpl.Files = files

	case OpRemoveFile:
		if a.Index == nil {
			return nil, fmt.Errorf("%w: %s needs index", ErrMissingPayload, a.Op)
		}
		files, err := RemoveFile(tmpl.Files, *a.Index)
		if err != nil {
			return nil, err
		}
		tmpl.Files = files

	case OpAddVariable:
		tmpl.Variables = AddVariable(tmpl.Variables)

	case OpUpdateVariable:
		if a.Index == nil || a.VariablePatch == nil {
			return nil, fmt.Errorf("%w: %s needs index and variable_patch", ErrMissingPayload, a.Op)
		}
		vars, err := UpdateVariable(tmpl.Variables, *a.Index, *a.VariablePatch)
		if err != nil {
			return nil, err
		}
		tmpl.Variables = vars

	case OpRemoveVariable:
		if a.Index == nil {
			return nil, fmt.Errorf("%w: %s needs index", ErrMissingPayload, a.Op)
		}
		vars, err := RemoveVariable(tmpl.Variables, *a.Index)
		if err != nil {
			return nil, err
		}
		tmpl.Variables = vars

	case OpSetPublishMeta:
		if a.Meta == nil {
			return nil, fmt.Errorf("%w: %s needs meta", ErrMissingPayload, a.Op)
		}
		next.Meta = a.Meta.Clone()

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, a.Op)
	}

	return next, nil
}
