package jobshandler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"talent/internal/domain/auth"
	"talent/internal/domain/pip"
	"talent/internal/requestctx"
	"talent/internal/transport/http/api"
	"talent/internal/transport/http/middleware"
)

// TenantSweeper runs an on-demand PIP sweep for one tenant.
type TenantSweeper interface {
	SweepTenant(ctx context.Context, tenantID string) (pip.SweepSummary, error)
}

type Handler struct {
	Jobs  TenantSweeper
	Perms middleware.PermissionStore
}

func NewHandler(jobs TenantSweeper, perms middleware.PermissionStore) *Handler {
	return &Handler{Jobs: jobs, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/jobs", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermPIPManage, h.Perms)).Post("/pip-sweep", h.handlePIPSweep)
	})
}

func (h *Handler) handlePIPSweep(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	summary, err := h.Jobs.SweepTenant(r.Context(), user.TenantID)
	if err != nil {
		requestctx.Logger(r.Context()).Warn("pip sweep failed", "tenantId", user.TenantID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "sweep_failed", "failed to run pip sweep", middleware.GetRequestID(r.Context()))
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}
