package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/gradeflow/rubricd/internal/api/http"
	"github.com/gradeflow/rubricd/internal/config"
	"github.com/gradeflow/rubricd/internal/db"
	"github.com/gradeflow/rubricd/internal/draftcache"
	"github.com/gradeflow/rubricd/internal/rubric"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.FromEnv()

	// --- DB ---
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	store := rubric.NewSQLStore(dbh, cfg.DBDriver)

	// --- Draft cache (optional, redis-backed) ---
	cache, err := draftcache.New(cfg.RedisURL, cfg.DraftTTL)
	if err != nil {
		log.Fatalf("draft cache: %v", err)
	}
	defer cache.Close()

	registry := rubric.NewRegistry()

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(api.RequestMetrics)

	origins := cfg.CORSOriginsOffline
	if cfg.Mode == config.ModeOnline {
		origins = cfg.CORSOriginsOnline
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Rubric definitions
	r.Post("/rubrics", api.UploadRubricHandler(store))
	r.Get("/rubrics", api.ListRubricsHandler(store))
	r.Get("/rubrics/{rubricID}", api.GetRubricHandler(store))
	r.Get("/rubrics/{rubricID}/assessments", api.ListAssessmentsHandler(store))

	// Assessment draft flow
	r.Post("/assessments", api.OpenAssessmentHandler(store, registry, cache))
	r.Get("/assessments/{assessmentID}", api.GetAssessmentHandler(registry))
	r.Post("/assessments/{assessmentID}/criteria/{criterionID}", api.UpdateCriterionHandler(store, registry, cache))
	r.Post("/assessments/{assessmentID}/view-mode", api.SetViewModeHandler(registry))
	r.Post("/assessments/{assessmentID}/submit", api.SubmitAssessmentHandler(store, registry, cache))
	r.Delete("/assessments/{assessmentID}", api.DismissAssessmentHandler(registry, cache))

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) })

	log.Printf("listening on %s (mode=%s, db=%s, draft_cache=%v)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver, cache.Enabled())
	log.Fatal(http.ListenAndServe(cfg.HTTPAddr, r))
}
