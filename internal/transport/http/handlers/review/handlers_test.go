package reviewhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"talent/internal/domain/auth"
	"talent/internal/domain/lexicon"
	"talent/internal/domain/review"
	"talent/internal/transport/http/middleware"
)

const testSecret = "review-test-secret"

type fallbackCounter struct {
	analyses  int
	fallbacks int
}

func (f *fallbackCounter) RecordAnalysis(fallback bool) {
	f.analyses++
	if fallback {
		f.fallbacks++
	}
}

func newRouter(t *testing.T, metrics AnalysisRecorder, rate int) http.Handler {
	t.Helper()
	handler := NewHandler(review.NewAnalyzer(lexicon.Default()), auth.StaticPermissions{}, metrics, rate)
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(testSecret))
	router.Route("/api/v1", handler.RegisterRoutes)
	return router
}

func post(t *testing.T, router http.Handler, role string, body string) *httptest.ResponseRecorder {
	t.Helper()
	tok, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u-" + role, TenantID: "t1", RoleName: role}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/reviews/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzePatternMode(t *testing.T) {
	router := newRouter(t, nil, 10)
	rec := post(t, router, auth.RoleManager, `{"text":"Sarah exceeded expectations and shows strong leadership and takes initiative."}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data review.Analysis `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Data.Plan.PlanType != review.PlanSuccession || env.Data.Source != review.SourcePattern {
		t.Fatalf("unexpected analysis: %+v", env.Data)
	}
}

func TestAnalyzeAIModeFallsBackAndCounts(t *testing.T) {
	counter := &fallbackCounter{}
	router := newRouter(t, counter, 10)
	rec := post(t, router, auth.RoleHR, `{"text":"Meets expectations in most areas.","mode":"ai"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var env struct {
		Data review.Analysis `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !env.Data.FallbackUsed || env.Data.FallbackReason == "" {
		t.Fatalf("expected fallback without an assistant, got %+v", env.Data)
	}
	if counter.analyses != 1 || counter.fallbacks != 1 {
		t.Fatalf("unexpected counters: %+v", counter)
	}
}

func TestAnalyzeValidationAndPermissions(t *testing.T) {
	router := newRouter(t, nil, 10)
	if rec := post(t, router, auth.RoleManager, `{"text":"  ","mode":"magic"}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if rec := post(t, router, auth.RoleEmployee, `{"text":"fine"}`); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for employees, got %d", rec.Code)
	}
}

func TestAnalyzeIsRateLimited(t *testing.T) {
	router := newRouter(t, nil, 1)
	if rec := post(t, router, auth.RoleManager, `{"text":"Solid contributor."}`); rec.Code != http.StatusOK {
		t.Fatalf("expected first analysis to pass, got %d", rec.Code)
	}
	if rec := post(t, router, auth.RoleManager, `{"text":"Solid contributor."}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second analysis to be limited, got %d", rec.Code)
	}
	if rec := post(t, router, auth.RoleHR, `{"text":"Solid contributor."}`); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected another user in the tenant to share the budget, got %d", rec.Code)
	}
}
