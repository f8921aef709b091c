package reviewhandler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"talent/internal/domain/auth"
	"talent/internal/domain/review"
	"talent/internal/transport/http/api"
	"talent/internal/transport/http/middleware"
	"talent/internal/transport/http/shared"
)

const maxReviewTextBytes = 64 * 1024

// AnalysisRecorder counts AI-mode analyses and their fallbacks.
type AnalysisRecorder interface {
	RecordAnalysis(fallback bool)
}

type Handler struct {
	Analyzer      *review.Analyzer
	Perms         middleware.PermissionStore
	Metrics       AnalysisRecorder
	RatePerMinute int
}

func NewHandler(analyzer *review.Analyzer, perms middleware.PermissionStore, metrics AnalysisRecorder, ratePerMinute int) *Handler {
	return &Handler{Analyzer: analyzer, Perms: perms, Metrics: metrics, RatePerMinute: ratePerMinute}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reviews", func(r chi.Router) {
		r.With(
			middleware.RequirePermission(auth.PermReviewsAnalyze, h.Perms),
			middleware.RateLimit(h.RatePerMinute, time.Minute, middleware.WithKeyFunc(tenantKey)),
		).Post("/analyze", h.handleAnalyze)
	})
}

// Analyses draw on one budget per tenant.
func tenantKey(r *http.Request) string {
	if user, ok := middleware.GetUser(r.Context()); ok && user.TenantID != "" {
		return "analyze:" + user.TenantID
	}
	return ""
}

type analyzePayload struct {
	Text string `json:"text"`
	Mode string `json:"mode"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUser(r.Context()); !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
		return
	}

	var payload analyzePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", middleware.GetRequestID(r.Context()))
		return
	}
	validator := shared.NewValidator()
	validator.Required("text", payload.Text, "is required")
	if len(payload.Text) > maxReviewTextBytes {
		validator.Add("text", "must be at most 64KB")
	}
	validator.Enum("mode", payload.Mode, []string{string(review.ModePattern), string(review.ModeAI)}, "must be one of pattern, ai")
	if validator.Reject(w, middleware.GetRequestID(r.Context())) {
		return
	}

	mode := review.Mode(strings.ToLower(strings.TrimSpace(payload.Mode)))
	if mode == "" {
		mode = review.ModePattern
	}
	analysis := h.Analyzer.Analyze(r.Context(), payload.Text, mode)
	if mode == review.ModeAI && h.Metrics != nil {
		h.Metrics.RecordAnalysis(analysis.FallbackUsed)
	}
	api.Success(w, analysis, middleware.GetRequestID(r.Context()))
}
