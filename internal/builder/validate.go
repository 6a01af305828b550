// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// validate.go is the step validator: a pure function from (step, draft,
// publish metadata) to findings. It consults no external state, so the
// same inputs always yield the same findings.
package builder

import (
	"fmt"
	"strings"

	"scaffolder/internal/models"
)

// Validate returns the findings for one authoring step. Only error-severity
// findings block advancement; warnings and infos are advisory.
func Validate(step Step, tmpl *models.CustomTemplate, meta *models.PublishMetadata) []Finding {
	switch step {
	case StepBasic:
		return validateBasic(tmpl)
	case StepFiles:
		return validateFiles(tmpl)
	case StepVariables:
		return validateVariables(tmpl)
	case StepConfig:
		return validateConfig(tmpl)
	case StepPreview:
		// Preview has no blocking rules; it only renders what exists.
		return nil
	case StepPublish:
		return validatePublish(meta)
	}
	return nil
}

// ValidateAll runs every step in sequence and concatenates the findings.
// Publish uses this so a lingering error on an earlier step still blocks.
func ValidateAll(tmpl *models.CustomTemplate, meta *models.PublishMetadata) []Finding {
	var findings []Finding
	for _, step := range Steps {
		findings = append(findings, Validate(step, tmpl, meta)...)
	}
	return findings
}

func validateBasic(tmpl *models.CustomTemplate) []Finding {
	var findings []Finding
	if strings.TrimSpace(tmpl.Name) == "" {
		findings = append(findings, Finding{
			Field:    "name",
			Message:  "Template name is required.",
			Severity: SeverityError,
		})
	}
	if strings.TrimSpace(tmpl.Description) == "" {
		findings = append(findings, Finding{
			Field:    "description",
			Message:  "Template description is required.",
			Severity: SeverityError,
		})
	}
	return findings
}

func validateFiles(tmpl *models.CustomTemplate) []Finding {
	if len(tmpl.Files) == 0 {
		return []Finding{{
			Field:    "files",
			Message:  "Add at least one file to the template.",
			Severity: SeverityError,
		}}
	}

	// Duplicate paths are stored as-is by the file list, so flag them here
	// before they produce an ambiguous tree. Advisory only.
	var findings []Finding
	seen := make(map[string]bool, len(tmpl.Files))
	flagged := make(map[string]bool)
	for _, f := range tmpl.Files {
		if seen[f.Path] && !flagged[f.Path] {
			findings = append(findings, Finding{
				Field:    "files",
				Message:  fmt.Sprintf("Multiple files share the path %q.", f.Path),
				Severity: SeverityWarning,
			})
			flagged[f.Path] = true
		}
		seen[f.Path] = true
	}
	return findings
}

func validateVariables(tmpl *models.CustomTemplate) []Finding {
	var findings []Finding

	seen := make(map[string]bool, len(tmpl.Variables))
	flagged := make(map[string]bool)
	for _, v := range tmpl.Variables {
		if seen[v.Key] && !flagged[v.Key] {
			findings = append(findings, Finding{
				Field:    "variables",
				Message:  fmt.Sprintf("Multiple variables share the key %q.", v.Key),
				Severity: SeverityWarning,
			})
			flagged[v.Key] = true
		}
		seen[v.Key] = true

		if v.Required && v.DefaultValue == "" {
			findings = append(findings, Finding{
				Field:    "variables",
				Message:  fmt.Sprintf("Required variable %q has no default value.", v.Key),
				Severity: SeverityWarning,
			})
		}
	}
	return findings
}

func validateConfig(tmpl *models.CustomTemplate) []Finding {
	if !tmpl.Config.Framework.Valid() {
		return []Finding{{
			Field:    "framework",
			Message:  "Select a framework for the template.",
			Severity: SeverityError,
		}}
	}
	return nil
}

func validatePublish(meta *models.PublishMetadata) []Finding {
	var findings []Finding
	if meta == nil || !meta.Category.Valid() {
		findings = append(findings, Finding{
			Field:    "category",
			Message:  "Select a marketplace category.",
			Severity: SeverityError,
		})
	}
	if meta == nil || len(meta.Tags) == 0 {
		findings = append(findings, Finding{
			Field:    "tags",
			Message:  "Templates without tags are hard to discover.",
			Severity: SeverityWarning,
		})
	}
	return findings
}
