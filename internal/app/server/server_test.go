package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"talent/internal/domain/audit"
	"talent/internal/domain/auth"
	"talent/internal/domain/pip/piptest"
	"talent/internal/platform/config"
	"talent/internal/transport/http/middleware"
)

const testSecret = "server-test-secret"

var clock = time.Date(2025, 4, 12, 9, 0, 0, 0, time.UTC)

type nopAudit struct{}

func (nopAudit) Record(context.Context, string, string, string, string, string, string, string, any, any) error {
	return nil
}

func (nopAudit) Count(context.Context, string, audit.Filter) (int, error) { return 0, nil }

func (nopAudit) List(context.Context, string, audit.Filter, bool, int, int) ([]audit.Event, error) {
	return nil, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		JWTSecret:             testSecret,
		Environment:           "test",
		MaxBodyBytes:          1 << 20,
		RateLimitPerMinute:    1000,
		AnalyzeRatePerMinute:  10,
		PIPSweepInterval:      0,
		DocumentDateLayout:    "January 2, 2006",
		LetterStorageDir:      filepath.Join(t.TempDir(), "letters"),
		AssessmentConcurrency: 2,
		MetricsEnabled:        true,
	}
}

func build(t *testing.T, cfg config.Config, ready func(context.Context) error) *App {
	t.Helper()
	app, err := Build(cfg, Components{
		Ready: ready,
		PIPs:  piptest.NewMemStore(),
		Audit: nopAudit{},
		Idem:  middleware.NewMemoryIdempotency(),
		Now:   func() time.Time { return clock },
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	return app
}

func call(t *testing.T, app *App, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	tok, err := auth.GenerateToken(testSecret, auth.Claims{UserID: "u1", TenantID: "t1", RoleName: auth.RoleHR}, time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndReadiness(t *testing.T) {
	app := build(t, testConfig(t), func(context.Context) error { return errors.New("down") })
	if rec := call(t, app, http.MethodGet, "/healthz", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	rec := call(t, app, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected readyz 503, got %d", rec.Code)
	}
	if rec.Header().Get("X-Request-Id") == "" || rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatalf("expected request id and no-store headers, got %v", rec.Header())
	}
}

func TestPIPLifecycleThroughRouter(t *testing.T) {
	app := build(t, testConfig(t), nil)

	rec := call(t, app, http.MethodPost, "/api/v1/pips", map[string]any{
		"employeeId":   "emp-1",
		"managerId":    "mgr-1",
		"startDate":    "2025-03-03",
		"reasonForPip": "Missed delivery commitments",
		"expectations": []map[string]any{
			{"phase": "30_day", "expectation": "Ship the billing fix"},
			{"phase": "60_day", "expectation": "Own the release checklist"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Data struct {
			PIP struct {
				ID string `json:"id"`
			} `json:"pip"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	rec = call(t, app, http.MethodGet, "/api/v1/pips/"+created.Data.PIP.ID+"/assessment", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected assessment 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = call(t, app, http.MethodPost, "/api/v1/jobs/pip-sweep", nil)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"assessed":1`)) {
		t.Fatalf("expected one assessed pip, got %d %s", rec.Code, rec.Body.String())
	}

	snap := app.Metrics.Snapshot()
	if snap["assessmentsTotal"].(uint64) != 2 || snap["sweepRunsTotal"].(uint64) != 1 {
		t.Fatalf("unexpected metrics: %+v", snap)
	}
	if rec := call(t, app, http.MethodGet, "/metrics", nil); rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
}

func TestBuildRejectsBadSetup(t *testing.T) {
	cfg := testConfig(t)
	cfg.AIEnabled = true
	if _, err := Build(cfg, Components{PIPs: piptest.NewMemStore()}); err == nil {
		t.Fatal("expected error for AI without API key")
	}

	cfg = testConfig(t)
	cfg.LexiconPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := Build(cfg, Components{PIPs: piptest.NewMemStore()}); err == nil {
		t.Fatal("expected error for missing lexicon file")
	}

	cfg = testConfig(t)
	cfg.MetricsEnabled = false
	app := build(t, cfg, nil)
	if rec := call(t, app, http.MethodGet, "/metrics", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("expected metrics disabled, got %d", rec.Code)
	}
}
