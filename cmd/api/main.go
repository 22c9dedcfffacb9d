package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/shrinksense/shrinksense-backend/internal/config"
	"github.com/shrinksense/shrinksense-backend/internal/modules/auth"
	"github.com/shrinksense/shrinksense-backend/internal/modules/decision"
	"github.com/shrinksense/shrinksense-backend/internal/modules/donation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/inventory"
	"github.com/shrinksense/shrinksense-backend/internal/modules/reallocation"
	"github.com/shrinksense/shrinksense-backend/internal/modules/report"
	"github.com/shrinksense/shrinksense-backend/internal/modules/risk"
	"github.com/shrinksense/shrinksense-backend/internal/modules/valuation"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	return log
}

func main() {
	_ = godotenv.Load()
	log := newLogger()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "engine.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load engine configuration")
	}

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.WithError(err).Fatal("failed to open database")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.WithError(err).Fatal("failed to reach database")
	}
	log.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	if os.Getenv("AUTH_DISABLED") != "true" {
		router.Use(auth.RequireTokenForMutations)
	}

	// ── Phase 1: Identity ───────────────────────────────────
	operatorRepo := auth.NewPostgresRepository(db)
	authService := auth.NewService(operatorRepo)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Phase 2: Inventory & Stores ─────────────────────────
	itemRepo := inventory.NewItemPostgresRepository(db)
	storeRepo := inventory.NewStorePostgresRepository(db)
	inventoryService := inventory.NewService(itemRepo, storeRepo)
	inventory.NewHandler(inventoryService).RegisterRoutes(router)

	// ── Phase 3: Decision Engine ────────────────────────────
	scorer := risk.NewScorer(cfg.Risk)
	donations := donation.NewEvaluator(cfg.Donation)
	realloc := reallocation.NewEvaluator(cfg.Reallocation)
	valuator := valuation.NewValuator(cfg.Valuation)
	decisionService := decision.NewService(cfg.Decision, scorer, donations, realloc, valuator, itemRepo, storeRepo, log)
	decision.NewHandler(decisionService, cfg.Decision.Facts).RegisterRoutes(router)

	// ── Phase 4: Reporting ──────────────────────────────────
	reportService := report.NewService(decisionService)
	report.NewHandler(reportService).RegisterRoutes(router)

	// ── Phase 5: Scheduled Sweep ────────────────────────────
	if cfg.Sweep.Enabled {
		scheduler := cron.New()
		_, err := scheduler.AddFunc(cfg.Sweep.Schedule, func() {
			if _, err := decisionService.EvaluateStored(context.Background()); err != nil {
				log.WithError(err).Error("scheduled sweep failed")
			}
		})
		if err != nil {
			log.WithError(err).Fatal("invalid sweep schedule")
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.WithField("schedule", cfg.Sweep.Schedule).Info("sweep scheduler started")
	}

	// ── Start Server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	log.WithField("port", port).Info("shrinksense api starting")
	log.Fatal(http.ListenAndServe(":"+port, router))
}
