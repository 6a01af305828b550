// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// builder.go exposes the authoring state machine over HTTP. Each user has
// one active builder session, persisted in Valkey between requests; every
// mutation round-trips through it.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"scaffolder/internal/builder"
	"scaffolder/internal/cache"
	"scaffolder/internal/middleware"
	"scaffolder/internal/models"
	"scaffolder/internal/publish"
	"scaffolder/internal/session"
	"scaffolder/internal/storage"
	"scaffolder/internal/store"
)

// Builder groups the template builder handlers.
type Builder struct {
	states    *builder.StateStore
	templates *store.TemplateStore
	pipeline  *publish.Pipeline
	listings  *cache.ListingCache
	bundles   *storage.Client // nil when object storage is not configured
}

// NewBuilder creates a new Builder handler group.
func NewBuilder(states *builder.StateStore, templates *store.TemplateStore, pipeline *publish.Pipeline, listings *cache.ListingCache, bundles *storage.Client) *Builder {
	return &Builder{
		states:    states,
		templates: templates,
		pipeline:  pipeline,
		listings:  listings,
		bundles:   bundles,
	}
}

// stateKey returns the Valkey key of the caller's builder session. One
// active session per user.
func stateKey(sess *session.Data) string {
	return sess.UserID.String()
}

// machineView serializes a machine for API responses: the step, the
// draft, the current step's findings, and the derived file tree.
func machineView(m *builder.Machine) map[string]any {
	findings := m.Draft().Validate(m.Step())
	if findings == nil {
		findings = []builder.Finding{}
	}
	return map[string]any{
		"step":     m.Step(),
		"draft":    m.Draft(),
		"findings": findings,
		"tree":     m.Draft().Tree(),
	}
}

// Start opens a builder session. With a template_id in the body it resumes
// authoring of a saved draft; without one it starts from a blank draft
// owned by the caller.
func (h *Builder) Start(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var req struct {
		TemplateID *uuid.UUID `json:"template_id,omitempty"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	var draft *builder.Draft
	if req.TemplateID != nil {
		tmpl, err := h.templates.FindByID(r.Context(), *req.TemplateID)
		if err != nil {
			slog.Error("load draft failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if tmpl == nil || tmpl.OrganizationID != sess.OrganizationID {
			respondError(w, http.StatusNotFound, "template not found")
			return
		}
		draft = builder.NewDraft(sess.OrganizationID, sess.UserID)
		draft.Template = tmpl
	} else {
		draft = builder.NewDraft(sess.OrganizationID, sess.UserID)
	}

	m := builder.NewMachine(draft)
	if err := h.states.Save(r.Context(), stateKey(sess), m); err != nil {
		slog.Error("save builder state failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusCreated, machineView(m))
}

// State returns the current builder session.
func (h *Builder) State(w http.ResponseWriter, r *http.Request) {
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}
	respondJSON(w, http.StatusOK, machineView(m))
}

// Apply executes one reducer action against the draft. Structural
// failures (unknown op, missing payload, out-of-range index) are client
// errors; the draft is unchanged in every failure case.
func (h *Builder) Apply(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}

	var action builder.Action
	if err := decodeJSON(w, r, &action); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if msg := validateActionInput(&action); msg != "" {
		respondError(w, http.StatusUnprocessableEntity, msg)
		return
	}

	next, err := builder.Apply(m.Draft(), action)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	m = builder.ResumeMachine(next, m.Step())
	if err := h.states.Save(r.Context(), stateKey(sess), m); err != nil {
		slog.Error("save builder state failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, machineView(m))
}

// Next advances the machine one step when the current step has no
// error-severity findings. A refused transition is a normal 200 with
// moved=false and the blocking findings.
func (h *Builder) Next(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}

	moved, findings := m.Next()
	if moved {
		if err := h.states.Save(r.Context(), stateKey(sess), m); err != nil {
			slog.Error("save builder state failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	if findings == nil {
		findings = []builder.Finding{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"moved":    moved,
		"step":     m.Step(),
		"findings": findings,
	})
}

// Previous moves one step back, never gated.
func (h *Builder) Previous(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}

	moved := m.Previous()
	if moved {
		if err := h.states.Save(r.Context(), stateKey(sess), m); err != nil {
			slog.Error("save builder state failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]any{"moved": moved, "step": m.Step()})
}

// Jump navigates directly to any step. Deliberately ungated: the publish
// pipeline re-validates everything regardless of how the user got there.
func (h *Builder) Jump(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}

	var req struct {
		Step builder.Step `json:"step"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !m.JumpTo(req.Step) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown step %q", req.Step))
		return
	}
	if err := h.states.Save(r.Context(), stateKey(sess), m); err != nil {
		slog.Error("save builder state failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"step": m.Step()})
}

// Validate runs the step validator without moving the machine. With
// ?step=all it validates every step in order, the same check publishing
// performs.
func (h *Builder) Validate(w http.ResponseWriter, r *http.Request) {
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}

	stepParam := r.URL.Query().Get("step")
	var findings []builder.Finding
	switch {
	case stepParam == "":
		findings = m.Draft().Validate(m.Step())
	case stepParam == "all":
		findings = builder.ValidateAll(m.Draft().Template, m.Draft().Meta)
	default:
		step := builder.Step(stepParam)
		if !step.Valid() {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("unknown step %q", stepParam))
			return
		}
		findings = m.Draft().Validate(step)
	}
	if findings == nil {
		findings = []builder.Finding{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"findings": findings})
}

// Tree returns the derived file tree of the draft.
func (h *Builder) Tree(w http.ResponseWriter, r *http.Request) {
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}
	respondJSON(w, http.StatusOK, m.Draft().Tree())
}

// Save persists the draft: an insert for a never-saved draft, an update
// otherwise. The builder session adopts the assigned ID so a later
// publish hits the update path.
func (h *Builder) Save(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}

	draft := m.Draft()
	if draft.Template.Saved() {
		if err := h.templates.Update(r.Context(), draft.Template.Clone()); err != nil {
			slog.Error("update draft failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
	} else {
		saved, err := h.pipeline.SaveDraft(r.Context(), draft)
		if err != nil {
			slog.Error("save draft failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
		draft.Template.ID = saved.ID
	}

	if err := h.states.Save(r.Context(), stateKey(sess), m); err != nil {
		slog.Error("save builder state failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"template_id": draft.Template.ID})
}

// Publish promotes the draft into a published marketplace snapshot. Every
// step is re-validated; a draft that was never saved is saved implicitly.
// On success the listing cache is flushed, a bundle is exported to object
// storage, and the builder session ends.
func (h *Builder) Publish(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	m := h.loadMachine(w, r)
	if m == nil {
		return
	}

	// The snapshot is taken from the stored draft row, so edits made since
	// the last save have to land first. Never-saved drafts are saved by the
	// pipeline itself.
	if m.Draft().Template.Saved() {
		if err := h.templates.Update(r.Context(), m.Draft().Template.Clone()); err != nil {
			slog.Error("update draft failed", "error", err)
			respondError(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	published, err := h.pipeline.Publish(r.Context(), m.Draft(), sess.UserID)
	if err != nil {
		var vErr *publish.ValidationError
		if errors.As(err, &vErr) {
			respondJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":    "draft failed validation",
				"findings": vErr.Findings,
			})
			return
		}
		slog.Error("publish failed", "error", err)
		respondError(w, http.StatusInternalServerError, "publish failed")
		return
	}

	h.exportBundle(r, published)
	h.listings.InvalidateAll(r.Context())
	if err := h.states.Delete(r.Context(), stateKey(sess)); err != nil {
		slog.Warn("delete builder state failed", "error", err)
	}

	respondJSON(w, http.StatusCreated, published)
}

// exportBundle writes the published snapshot as a JSON bundle to the
// private bucket. Failures are logged, not surfaced: the publish itself
// already succeeded.
func (h *Builder) exportBundle(r *http.Request, published *models.ProjectTemplate) {
	if h.bundles == nil {
		return
	}
	payload, err := json.Marshal(published)
	if err != nil {
		slog.Error("bundle marshal failed", "error", err)
		return
	}
	key := bundleKeyFor(published)
	err = h.bundles.Upload(r.Context(), h.bundles.PrivateBucket(), key,
		"application/json", bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		slog.Error("bundle upload failed", "error", err, "key", key)
		return
	}
	slog.Info("bundle exported", "key", key)
}

// validateActionInput applies the request size limits to an action's
// payloads.
func validateActionInput(a *builder.Action) string {
	if msg := validateBasicInput(a.Name, a.Description); msg != "" {
		return msg
	}
	if msg := validateFileInput(a.File); msg != "" {
		return msg
	}
	if a.FilePatch != nil {
		patched := models.ProjectFile{}
		if a.FilePatch.Path != nil {
			patched.Path = *a.FilePatch.Path
		}
		if a.FilePatch.Content != nil {
			patched.Content = *a.FilePatch.Content
		}
		if msg := validateFileInput(&patched); msg != "" {
			return msg
		}
	}
	if msg := validateVariableInput(a.VariablePatch); msg != "" {
		return msg
	}
	if msg := validateMetaInput(a.Meta); msg != "" {
		return msg
	}
	return ""
}

// loadMachine restores the caller's builder session, writing the error
// response itself when there is none.
func (h *Builder) loadMachine(w http.ResponseWriter, r *http.Request) *builder.Machine {
	sess := middleware.SessionFromCtx(r.Context())

	m, err := h.states.Load(r.Context(), stateKey(sess))
	if err != nil {
		slog.Error("load builder state failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if m == nil {
		respondError(w, http.StatusNotFound, "no active builder session")
		return nil
	}
	return m
}
