package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"talent/internal/domain/audit"
	"talent/internal/domain/auth"
	"talent/internal/domain/lexicon"
	"talent/internal/domain/pip"
	"talent/internal/domain/review"
	"talent/internal/platform/config"
	cryptoutil "talent/internal/platform/crypto"
	"talent/internal/platform/db"
	"talent/internal/platform/jobs"
	"talent/internal/platform/llm"
	"talent/internal/platform/metrics"
	"talent/internal/platform/querier"
	"talent/internal/transport/http/api"
	audithandler "talent/internal/transport/http/handlers/audit"
	jobshandler "talent/internal/transport/http/handlers/jobs"
	piphandler "talent/internal/transport/http/handlers/pip"
	reviewhandler "talent/internal/transport/http/handlers/review"
	rosterhandler "talent/internal/transport/http/handlers/roster"
	"talent/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	DB      *db.Pool
	Router  http.Handler
	Jobs    *jobs.Service
	Metrics *metrics.Collector
}

// Components are the storage-facing pieces the router is built from. New
// fills them from a Postgres pool; tests use in-memory fakes.
type Components struct {
	Ready  func(ctx context.Context) error
	PIPs   pip.StoreAPI
	Audit  audit.Log
	Idem   middleware.Idempotency
	JobsDB querier.Querier
	Now    func() time.Time
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	app, err := Build(cfg, Components{
		Ready:  pool.Ping,
		PIPs:   pip.NewStore(pool),
		Audit:  audit.New(pool),
		Idem:   middleware.NewIdempotencyStore(pool),
		JobsDB: pool,
	})
	if err != nil {
		pool.Close()
		return nil, err
	}
	app.DB = pool
	return app, nil
}

func (a *App) Close() {
	if a.DB != nil {
		a.DB.Close()
	}
}

// Build wires services, handlers and middleware into an App without touching
// the network.
func Build(cfg config.Config, c Components) (*App, error) {
	lexicons, err := lexicon.Load(cfg.LexiconPath)
	if err != nil {
		return nil, err
	}

	var analyzerOpts []review.Option
	if cfg.AIEnabled {
		client, err := llm.New(llm.Config{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
		if err != nil {
			return nil, fmt.Errorf("llm client: %w", err)
		}
		analyzerOpts = append(analyzerOpts, review.WithAssistant(review.NewLLMAssistant(client), cfg.AITimeout))
	}
	analyzer := review.NewAnalyzer(lexicons, analyzerOpts...)

	crypto, err := cryptoutil.New(cfg.DataEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key: %w", err)
	}

	collector := metrics.New()
	pipService := pip.NewService(c.PIPs, crypto, pip.Options{
		Alerts:      pip.AlertOptions{AllMilestones: cfg.PIPAlertAllMilestones},
		DateLayout:  cfg.DocumentDateLayout,
		LetterDir:   cfg.LetterStorageDir,
		Concurrency: cfg.AssessmentConcurrency,
		Recorder:    collector,
		Now:         c.Now,
	})
	jobsService := jobs.New(c.JobsDB, pipService, jobs.Options{
		SweepInterval: cfg.PIPSweepInterval,
		Metrics:       collector,
		Now:           c.Now,
	})
	perms := auth.StaticPermissions{}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if c.Ready != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := c.Ready(ctx); err != nil {
				http.Error(w, "db not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, collector.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		reviewhandler.NewHandler(analyzer, perms, collector, cfg.AnalyzeRatePerMinute).RegisterRoutes(r)
		piphandler.NewHandler(pipService, perms, c.Audit, c.Idem).RegisterRoutes(r)
		rosterhandler.NewHandler(perms).RegisterRoutes(r)
		audithandler.NewHandler(c.Audit, perms).RegisterRoutes(r)
		jobshandler.NewHandler(jobsService, perms).RegisterRoutes(r)
	})

	return &App{
		Config:  cfg,
		Router:  router,
		Jobs:    jobsService,
		Metrics: collector,
	}, nil
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, app.DB); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	tenantID, err := db.Seed(ctx, app.DB, cfg)
	if err != nil {
		log.Fatalf("seed failed: %v", err)
	}
	if tenantID != "" {
		slog.Info("default tenant ready", "tenantId", tenantID)
	}

	app.Jobs.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Warn("server shutdown failed", "err", err)
		}
	}()

	slog.Info("talent server listening", "addr", cfg.Addr, "env", cfg.Environment, "ai", cfg.AIEnabled)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server failed: %v", err)
	}
}
