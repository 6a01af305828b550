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

// Admin groups organization administration handlers.
type Admin struct {
	userStore *store.UserStore
}

// NewAdmin creates a new Admin handler group.
func NewAdmin(userStore *store.UserStore) *Admin {
	return &Admin{userStore: userStore}
}

// Users lists the members of the caller's organization.
func (h *Admin) Users(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	users, err := h.userStore.ListByOrganization(sess.OrganizationID)
	if err != nil {
		slog.Error("list users failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if users == nil {
		users = []models.User{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// ResetTwoFA clears a member's TOTP enrollment so they re-run setup on
// their next login. Scoped to the caller's organization.
func (h *Admin) ResetTwoFA(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	user, err := h.userStore.FindByID(id)
	if err != nil {
		slog.Error("find user failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || user.OrganizationID != sess.OrganizationID {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}

	if err := h.userStore.ResetTOTP(user.ID); err != nil {
		slog.Error("reset totp failed", "error", err)
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	slog.Info("2fa reset", "user", user.Email, "by", sess.Email)
	respondJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}
