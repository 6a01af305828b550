// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package builder implements the template authoring engine: the draft
// working copy, the file tree, per-step validation, and the state machine
// that sequences the six authoring steps. Everything in this package is
// pure and in-memory; persistence is the publish package's concern.
package builder

// Step is one of the six linear stages of template authoring.
type Step string

const (
	StepBasic     Step = "basic"
	StepFiles     Step = "files"
	StepVariables Step = "variables"
	StepConfig    Step = "config"
	StepPreview   Step = "preview"
	StepPublish   Step = "publish"
)

// Steps is the authoring sequence in order. StepBasic is the initial state
// and StepPublish is terminal.
var Steps = []Step{
	StepBasic, StepFiles, StepVariables, StepConfig, StepPreview, StepPublish,
}

// Valid reports whether s is a known step.
func (s Step) Valid() bool {
	return s.index() >= 0
}

// Terminal reports whether s is the final authoring step.
func (s Step) Terminal() bool {
	return s == StepPublish
}

// index returns the position of s in the sequence, or -1 if unknown.
func (s Step) index() int {
	for i, step := range Steps {
		if step == s {
			return i
		}
	}
	return -1
}

// Severity ranks a validation finding. Only error-severity findings block
// step advancement.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is a single validation result. Findings are data, never errors:
// a blocked transition returns them to the caller instead of failing.
type Finding struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// HasErrors reports whether any finding carries error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}
