package handlers

import (
	"strings"
	"testing"

	"scaffolder/internal/builder"
	"scaffolder/internal/models"
)

func strPtr(s string) *string { return &s }

func TestValidateBasicInput(t *testing.T) {
	tests := []struct {
		name        string
		inputName   *string
		description *string
		wantError   bool
	}{
		{"both nil", nil, nil, false},
		{"valid", strPtr("My Template"), strPtr("A starter."), false},
		{"name at limit", strPtr(strings.Repeat("a", 200)), nil, false},
		{"name too long", strPtr(strings.Repeat("a", 201)), nil, true},
		{"description too long", nil, strPtr(strings.Repeat("a", 10_001)), true},
		{"empty strings allowed", strPtr(""), strPtr(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateBasicInput(tt.inputName, tt.description)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateFileInput(t *testing.T) {
	tests := []struct {
		name      string
		file      *models.ProjectFile
		wantError bool
	}{
		{"nil file", nil, false},
		{"valid", &models.ProjectFile{Path: "src/App.tsx", Content: "export {}"}, false},
		{"path too long", &models.ProjectFile{Path: strings.Repeat("a", 501)}, true},
		{"content too long", &models.ProjectFile{Path: "a.txt", Content: strings.Repeat("x", 500_001)}, true},
		{"content at limit", &models.ProjectFile{Path: "a.txt", Content: strings.Repeat("x", 500_000)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateFileInput(tt.file)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateVariableInput(t *testing.T) {
	tests := []struct {
		name      string
		patch     *builder.VariablePatch
		wantError bool
	}{
		{"nil patch", nil, false},
		{"valid", &builder.VariablePatch{Key: strPtr("appName"), Label: strPtr("App name")}, false},
		{"key too long", &builder.VariablePatch{Key: strPtr(strings.Repeat("k", 101))}, true},
		{"label too long", &builder.VariablePatch{Label: strPtr(strings.Repeat("l", 201))}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateVariableInput(tt.patch)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateMetaInput(t *testing.T) {
	manyTags := make([]string, 21)
	for i := range manyTags {
		manyTags[i] = "tag"
	}

	tests := []struct {
		name      string
		meta      *models.PublishMetadata
		wantError bool
	}{
		{"nil meta", nil, false},
		{"valid", &models.PublishMetadata{Tags: []string{"react", "starter"}, License: "MIT"}, false},
		{"too many tags", &models.PublishMetadata{Tags: manyTags}, true},
		{"blank tag", &models.PublishMetadata{Tags: []string{"react", "  "}}, true},
		{"tag too long", &models.PublishMetadata{Tags: []string{strings.Repeat("t", 51)}}, true},
		{"license too long", &models.PublishMetadata{License: strings.Repeat("l", 101)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateMetaInput(tt.meta)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}

func TestValidateActionInput(t *testing.T) {
	longContent := strings.Repeat("x", 500_001)

	tests := []struct {
		name      string
		action    builder.Action
		wantError bool
	}{
		{"empty action", builder.Action{Op: builder.OpSetBasic}, false},
		{
			"oversized name",
			builder.Action{Op: builder.OpSetBasic, Name: strPtr(strings.Repeat("a", 201))},
			true,
		},
		{
			"oversized file",
			builder.Action{Op: builder.OpAddFile, File: &models.ProjectFile{Path: "a", Content: longContent}},
			true,
		},
		{
			"oversized file patch",
			builder.Action{Op: builder.OpUpdateFile, FilePatch: &builder.FilePatch{Content: &longContent}},
			true,
		},
		{
			"oversized variable key",
			builder.Action{Op: builder.OpUpdateVariable, VariablePatch: &builder.VariablePatch{Key: strPtr(strings.Repeat("k", 101))}},
			true,
		},
		{
			"valid meta",
			builder.Action{Op: builder.OpSetPublishMeta, Meta: &models.PublishMetadata{Tags: []string{"vue"}}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := validateActionInput(&tt.action)
			if tt.wantError && result == "" {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && result != "" {
				t.Errorf("unexpected error: %s", result)
			}
		})
	}
}
