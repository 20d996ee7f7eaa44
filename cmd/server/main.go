package main

import (
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/studyloop/backend/internal/auth"
	"github.com/studyloop/backend/internal/cache"
	"github.com/studyloop/backend/internal/config"
	"github.com/studyloop/backend/internal/database"
	"github.com/studyloop/backend/internal/mastery"
	"github.com/studyloop/backend/internal/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Mastery core: store, evaluator, tracker, engine, composed service.
	store := mastery.NewStore(db)
	evaluator := mastery.NewEvaluator(cfg.QuizWeight, cfg.QAWeight)
	tracker := mastery.NewProgressTracker(store, cfg.Alpha)
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		tracker.SetCache(cache.NewMasteryCache(client))
		log.Printf("Mastery cache enabled at %s", cfg.RedisAddr)
	}
	engine := mastery.NewAdaptiveEngine(store, tracker, cfg.LowThreshold, cfg.MidThreshold)
	service := mastery.NewService(store, evaluator, tracker, engine)

	authHandler := auth.NewHandler(db, []byte(cfg.JWTSecret))
	masteryHandler := mastery.NewHandler(service)

	r := mux.NewRouter()
	r.Use(middleware.Metrics)
	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth([]byte(cfg.JWTSecret)))
	protected.HandleFunc("/auth/me", authHandler.GetCurrentLearner).Methods("GET")
	masteryHandler.RegisterRoutes(protected)

	// Health check and metrics
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// CORS
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(r)

	log.Printf("Server starting on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
