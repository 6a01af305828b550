// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// variables.go holds the pure operations on the draft's variable list.
// The registry stores whatever it is given: duplicate keys are permitted
// here and flagged by step validation instead.
package builder

import (
	"fmt"

	"scaffolder/internal/models"
)

// placeholderVariableKey is the key assigned to freshly added variables
// until the author renames them.
const placeholderVariableKey = "newVariable"

// AddVariable appends a placeholder variable (string type, non-required,
// empty default) and returns the new list.
func AddVariable(vars []models.TemplateVariable) []models.TemplateVariable {
	out := make([]models.TemplateVariable, 0, len(vars)+1)
	out = append(out, vars...)
	return append(out, models.TemplateVariable{
		Key:  placeholderVariableKey,
		Type: models.VariableTypeString,
	})
}

// VariablePatch describes a partial update to a variable. Nil fields are
// unchanged.
type VariablePatch struct {
	Key          *string              `json:"key,omitempty"`
	Label        *string              `json:"label,omitempty"`
	Description  *string              `json:"description,omitempty"`
	Placeholder  *string              `json:"placeholder,omitempty"`
	Type         *models.VariableType `json:"type,omitempty"`
	Required     *bool                `json:"required,omitempty"`
	DefaultValue *string              `json:"default_value,omitempty"`
}

// UpdateVariable applies a patch to the variable at index and returns the
// new list. An out-of-range index fails with ErrOutOfRange.
func UpdateVariable(vars []models.TemplateVariable, index int, patch VariablePatch) ([]models.TemplateVariable, error) {
	if index < 0 || index >= len(vars) {
		return nil, fmt.Errorf("%w: variable index %d of %d", ErrOutOfRange, index, len(vars))
	}

	out := append([]models.TemplateVariable(nil), vars...)
	v := out[index]
	if patch.Key != nil {
		v.Key = *patch.Key
	}
	if patch.Label != nil {
		v.Label = *patch.Label
	}
	if patch.Description != nil {
		v.Description = *patch.Description
	}
	if patch.Placeholder != nil {
		v.Placeholder = *patch.Placeholder
	}
	if patch.Type != nil {
		v.Type = *patch.Type
	}
	if patch.Required != nil {
		v.Required = *patch.Required
	}
	if patch.DefaultValue != nil {
		v.DefaultValue = *patch.DefaultValue
	}
	out[index] = v
	return out, nil
}

// RemoveVariable deletes the variable at index and returns the new list.
func RemoveVariable(vars []models.TemplateVariable, index int) ([]models.TemplateVariable, error) {
	if index < 0 || index >= len(vars) {
		return nil, fmt.Errorf("%w: variable index %d of %d", ErrOutOfRange, index, len(vars))
	}

	out := make([]models.TemplateVariable, 0, len(vars)-1)
	out = append(out, vars[:index]...)
	return append(out, vars[index+1:]...), nil
}
