package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"onboarding/internal/domain/auth"
	"onboarding/internal/domain/onboarding"
	"onboarding/internal/platform/config"
	"onboarding/internal/platform/db"
	"onboarding/internal/platform/email"
	"onboarding/internal/platform/jobs"
	"onboarding/internal/platform/metrics"
	"onboarding/internal/platform/webhook"
	"onboarding/internal/transport/http/api"
	authhandler "onboarding/internal/transport/http/handlers/auth"
	feedbackhandler "onboarding/internal/transport/http/handlers/feedback"
	onboardinghandler "onboarding/internal/transport/http/handlers/onboarding"
	reportshandler "onboarding/internal/transport/http/handlers/reports"
	"onboarding/internal/transport/http/middleware"
)

type App struct {
	Config  config.Config
	Router  http.Handler
	Store   *onboarding.Store
	Service *onboarding.Service
	Jobs    *jobs.Service
	Metrics *metrics.Collector
	Logger  *slog.Logger

	backend     *Backend
	surveyCheck jobs.RunFunc
}

// New wires the store, call-through service, background jobs and router.
// Nothing runs until Run is called.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	backend, err := OpenBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	collector := metrics.New()
	store := onboarding.NewStore(ctx, onboarding.NewPersistence(backend.Storage, logger), onboarding.WithLogger(logger))
	service := onboarding.NewService(store,
		onboarding.WithTaskWebhook(webhook.New(cfg.TaskWebhookURL, cfg.WebhookTimeout)),
		onboarding.WithNewHireWebhook(webhook.New(cfg.NewHireWebhookURL, cfg.WebhookTimeout)),
		onboarding.WithMailer(email.New(cfg), cfg.EmailFrom),
		onboarding.WithLatency(cfg.MockLatency),
		onboarding.WithEvents(collector),
		onboarding.WithServiceLogger(logger),
	)

	authService, err := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, auth.DefaultUsers)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("auth service: %w", err)
	}

	var recorder jobs.Recorder
	if backend.Pool != nil {
		recorder = db.NewJobRunStore(backend.Pool)
	}
	surveyCheck := func(ctx context.Context) (any, error) {
		created := service.TriggerFeedbackSurveys(ctx)
		return map[string]int{"created": len(created)}, nil
	}
	jobService := jobs.New(recorder, collector)
	jobService.Every(jobs.JobSurveyCheck, cfg.SurveyCheckInterval, surveyCheck)

	app := &App{
		Config:      cfg,
		Store:       store,
		Service:     service,
		Jobs:        jobService,
		Metrics:     collector,
		Logger:      logger,
		backend:     backend,
		surveyCheck: surveyCheck,
	}
	app.Router = app.routes(authService)
	return app, nil
}

func (a *App) routes(authService *auth.Service) http.Handler {
	cfg := a.Config
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.Logger(a.Logger, a.Metrics))
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))
	router.Use(middleware.SensitiveMutationRateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.Store.Ping(ctx); err != nil {
			slog.Warn("readiness check failed", "err", err)
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			api.Success(w, a.Metrics.Snapshot(), middleware.GetRequestID(r.Context()))
		})
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)
		onboardinghandler.NewHandler(a.Service).RegisterRoutes(r)
		feedbackhandler.NewHandler(a.Service).RegisterRoutes(r)
		reportshandler.NewHandler(a.Service).RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: cfg.FrontendDir, indexPath: "index.html"})
	return router
}

// Run performs one survey check, starts the job scheduler and serves HTTP
// until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	jobCtx, stopJobs := context.WithCancel(ctx)
	defer stopJobs()
	if _, err := a.Jobs.RunNow(jobCtx, jobs.JobSurveyCheck, a.surveyCheck); err != nil {
		a.Logger.Warn("startup survey check failed", "err", err)
	}
	a.Jobs.Start(jobCtx)

	srv := &http.Server{
		Addr:              a.Config.Addr,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("onboarding server listening", "addr", a.Config.Addr, "backend", a.Config.StorageBackend)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		stopJobs()
		a.Jobs.Wait()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	stopJobs()
	a.Jobs.Wait()
	return err
}

func (a *App) Close() {
	if a.backend != nil {
		a.backend.Close()
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	_, err := os.Stat(path)
	if err == nil {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if os.IsNotExist(err) {
		index := filepath.Join(h.staticPath, h.indexPath)
		if _, err := os.Stat(index); err != nil {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, index)
		return
	}

	http.NotFound(w, r)
}
