package rosterhandler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"talent/internal/domain/auth"
	"talent/internal/domain/roster"
	"talent/internal/transport/http/api"
	"talent/internal/transport/http/middleware"
	"talent/internal/transport/http/shared"
)

const maxCandidates = 5000

type Handler struct {
	Perms middleware.PermissionStore
}

func NewHandler(perms middleware.PermissionStore) *Handler {
	return &Handler{Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/roster", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermRosterRead, h.Perms)).Post("/duplicates", h.handleDuplicates)
	})
}

type duplicatesPayload struct {
	Candidates []roster.Candidate `json:"candidates"`
}

func (h *Handler) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	var payload duplicatesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Count("candidates", len(payload.Candidates), 0, maxCandidates, "record")
	for i, c := range payload.Candidates {
		validator.Required("candidates["+strconv.Itoa(i)+"].id", c.ID, "is required")
	}
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	clusters := roster.DetectDuplicates(payload.Candidates)
	if clusters == nil {
		clusters = []roster.Cluster{}
	}
	api.Success(w, map[string]any{"clusters": clusters}, middleware.GetRequestID(r.Context()))
}
