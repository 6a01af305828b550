// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// machine.go sequences the six authoring steps. Forward movement through
// Next is gated on the current step validating without errors; JumpTo is
// the deliberate ungated escape hatch the step headers use.
package builder

// Machine is the builder state machine. It holds the draft and the current
// step; it never advances past StepPublish.
type Machine struct {
	draft *Draft
	step  Step
}

// NewMachine creates a machine for the draft, positioned at the initial
// basic step.
func NewMachine(draft *Draft) *Machine {
	return &Machine{draft: draft, step: StepBasic}
}

// ResumeMachine restores a machine at a previously saved step, falling back
// to the initial step if the stored value is unknown.
func ResumeMachine(draft *Draft, step Step) *Machine {
	if !step.Valid() {
		step = StepBasic
	}
	return &Machine{draft: draft, step: step}
}

// Step returns the current authoring step.
func (m *Machine) Step() Step {
	return m.step
}

// Draft returns the draft the machine operates on.
func (m *Machine) Draft() *Draft {
	return m.draft
}

// Next validates the current step and advances one step when no finding
// has error severity. The findings of the validated step are always
// returned so the caller can render them; a refused transition is a normal
// return, not an error. At the terminal step Next is a no-op.
func (m *Machine) Next() (moved bool, findings []Finding) {
	findings = m.draft.Validate(m.step)
	if HasErrors(findings) {
		return false, findings
	}
	if m.step.Terminal() {
		return false, findings
	}
	m.step = Steps[m.step.index()+1]
	return true, findings
}

// Previous moves one step back without any validation gate. At the initial
// step it is a no-op and returns false.
func (m *Machine) Previous() bool {
	i := m.step.index()
	if i <= 0 {
		return false
	}
	m.step = Steps[i-1]
	return true
}

// JumpTo navigates directly to any known step, bypassing the gate Next
// enforces. Returns false and leaves the machine unchanged for an unknown
// step. Reaching publish this way does not make publishing succeed: the
// pipeline re-validates every step.
func (m *Machine) JumpTo(step Step) bool {
	if !step.Valid() {
		return false
	}
	m.step = step
	return true
}
