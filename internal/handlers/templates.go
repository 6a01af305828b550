// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"scaffolder/internal/middleware"
	"scaffolder/internal/models"
	"scaffolder/internal/store"
)

// Templates groups draft management handlers. Drafts are scoped to the
// caller's organization; cross-organization access reads as not found.
type Templates struct {
	templates *store.TemplateStore
}

// NewTemplates creates a new Templates handler group.
func NewTemplates(templates *store.TemplateStore) *Templates {
	return &Templates{templates: templates}
}

// List returns all drafts of the caller's organization, newest first.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	drafts, err := h.templates.ListByOrganization(r.Context(), sess.OrganizationID)
	if err != nil {
		slog.Error("list drafts failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if drafts == nil {
		drafts = []models.CustomTemplate{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"templates": drafts})
}

// Get returns a single draft by ID.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	draft := h.ownedDraft(w, r)
	if draft == nil {
		return
	}
	respondJSON(w, http.StatusOK, draft)
}

// Delete removes a draft. Published snapshots of the draft are rows in
// their own table and stay available in the marketplace.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	draft := h.ownedDraft(w, r)
	if draft == nil {
		return
	}

	if err := h.templates.Delete(r.Context(), *draft.ID); err != nil {
		slog.Error("delete draft failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// ownedDraft resolves the {id} URL parameter to a draft owned by the
// caller's organization, writing the error response itself on failure.
func (h *Templates) ownedDraft(w http.ResponseWriter, r *http.Request) *models.CustomTemplate {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid template id")
		return nil
	}

	draft, err := h.templates.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("find draft failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return nil
	}
	if draft == nil || draft.OrganizationID != sess.OrganizationID {
		respondError(w, http.StatusNotFound, "template not found")
		return nil
	}
	return draft
}
