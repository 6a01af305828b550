package handlers

import (
	"strings"
	"unicode/utf8"

	"scaffolder/internal/builder"
	"scaffolder/internal/models"
)

// Validation limits for draft and publish fields. The step validator owns
// semantic rules; these guard request sizes only.
const (
	maxNameLen        = 200
	maxDescriptionLen = 10_000
	maxFilePathLen    = 500
	maxFileContentLen = 500_000
	maxVariableKeyLen = 100
	maxLabelLen       = 200
	maxTagLen         = 50
	maxTags           = 20
	maxLicenseLen     = 100
)

// validateBasicInput checks name/description sizes and returns the first
// problem found.
func validateBasicInput(name, description *string) string {
	if name != nil && utf8.RuneCountInString(*name) > maxNameLen {
		return "Name is too long (max 200 characters)."
	}
	if description != nil && utf8.RuneCountInString(*description) > maxDescriptionLen {
		return "Description is too long (max 10,000 characters)."
	}
	return ""
}

// validateFileInput checks a project file's sizes.
func validateFileInput(f *models.ProjectFile) string {
	if f == nil {
		return ""
	}
	if utf8.RuneCountInString(f.Path) > maxFilePathLen {
		return "File path is too long (max 500 characters)."
	}
	if utf8.RuneCountInString(f.Content) > maxFileContentLen {
		return "File content is too long (max 500,000 characters)."
	}
	return ""
}

// validateVariableInput checks a variable patch's sizes.
func validateVariableInput(p *builder.VariablePatch) string {
	if p == nil {
		return ""
	}
	if p.Key != nil && utf8.RuneCountInString(*p.Key) > maxVariableKeyLen {
		return "Variable key is too long (max 100 characters)."
	}
	if p.Label != nil && utf8.RuneCountInString(*p.Label) > maxLabelLen {
		return "Variable label is too long (max 200 characters)."
	}
	return ""
}

// validateMetaInput checks publish metadata sizes.
func validateMetaInput(m *models.PublishMetadata) string {
	if m == nil {
		return ""
	}
	if len(m.Tags) > maxTags {
		return "Too many tags (max 20)."
	}
	for _, tag := range m.Tags {
		if strings.TrimSpace(tag) == "" {
			return "Tags must not be blank."
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return "Tag is too long (max 50 characters)."
		}
	}
	if utf8.RuneCountInString(m.License) > maxLicenseLen {
		return "License is too long (max 100 characters)."
	}
	return ""
}
