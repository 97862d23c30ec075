package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	api "github.com/signbridge/signbridge-lms/internal/api/http"
	"github.com/signbridge/signbridge-lms/internal/attempt"
	auth "github.com/signbridge/signbridge-lms/internal/auth/middleware"
	"github.com/signbridge/signbridge-lms/internal/config"
	"github.com/signbridge/signbridge-lms/internal/db"
	"github.com/signbridge/signbridge-lms/internal/eventlog"
	"github.com/signbridge/signbridge-lms/internal/logging"
	"github.com/signbridge/signbridge-lms/internal/media"
	"github.com/signbridge/signbridge-lms/internal/rbac"
	"github.com/signbridge/signbridge-lms/internal/scoring"
	"github.com/signbridge/signbridge-lms/internal/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}

	content := store.NewContentSQL(dbh)
	attempts := store.NewAttemptSQL(dbh)
	events := eventlog.New(dbh, cfg.SiteID, logger, time.Now)
	engine := scoring.NewEngine()
	mgr := attempt.NewManager(content, attempts, engine, events, logger, time.Now, cfg.SessionTTL)

	sweepCtx, sweepCancel := context.WithCancel(context.Background())
	defer sweepCancel()
	go mgr.RunSweeper(sweepCtx, cfg.SweepEvery)

	authSvc := auth.NewAuthService(cfg.AuthHMACSecret)

	mediaFS, err := media.NewFS(cfg.MediaDir)
	if err != nil {
		logger.Fatal("media dir", zap.Error(err))
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.HTTPTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", auth.LoginHandler(authSvc, cfg.DevUser, cfg.DevPassHash))

	// Learner surface (JWT → subject+role in context)
	r.Group(func(pr chi.Router) {
		pr.Use(auth.JWTMiddleware(authSvc))

		pr.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}", api.GetQuizHandler(content))
		pr.With(rbac.Require("quiz:view")).Get("/quizzes/{quizID}/eligibility", api.EligibilityHandler(mgr))
		pr.With(rbac.Require("attempt:review-own")).Get("/quizzes/{quizID}/attempts/latest", api.ReviewHandler(mgr, content))

		pr.With(rbac.Require("attempt:start")).Post("/attempts", api.StartAttemptHandler(mgr))
		pr.Get("/attempts/{sessionID}", api.GetAttemptHandler(mgr))
		pr.Get("/attempts/{sessionID}/questions/{index}", api.GetQuestionHandler(mgr))
		pr.With(rbac.Require("attempt:answer")).Post("/attempts/{sessionID}/answers", api.SaveAnswerHandler(mgr))
		pr.Post("/attempts/{sessionID}/navigate", api.NavigateHandler(mgr))
		pr.Post("/attempts/{sessionID}/video-ack", api.AckVideoHandler(mgr))
		pr.With(rbac.Require("attempt:submit")).Post("/attempts/{sessionID}/submit", api.SubmitAttemptHandler(mgr))

		pr.With(rbac.Require("media:view")).Get("/media/*", media.Handler(mediaFS, logger))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	logger.Info("listening",
		zap.String("addr", cfg.HTTPAddr),
		zap.String("mode", string(cfg.Mode)),
		zap.String("db", cfg.DBDriver))
	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}
