package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs the API HTTP router.
//
// This is intentionally a thin adapter: handlers decode/encode JSON and
// delegate every decision to the application services.
func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()

	// Baseline production-safe middleware (minimal but useful).
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Health endpoint is deliberately outside /api (used for infra checks).
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/reviews", s.handleCreateReview)
		r.Get("/reviews", s.handleListReviews)
		r.Get("/reviews/location/{locationID}", s.handleListReviewsByLocation)
		r.Get("/reviews/id/{reviewID}", s.handleGetReview)
		r.Delete("/reviews/{reviewID}", s.handleDeleteReview)

		r.Get("/locations", s.handleListLocations)
		r.Get("/locations/nearby", s.handleNearbyLocations)
		r.Get("/locations/{locationID}", s.handleGetLocationWithReviews)

		r.Get("/stats", s.handleStats)
		r.Get("/export/reviews", s.handleExportReviews)

		r.Route("/cache", func(r chi.Router) {
			r.Get("/database", s.handleCacheDatabase)
			r.Get("/database/{cacheKey}", s.handleCacheByKey)
			r.Get("/summary", s.handleCacheSummary)
			r.Post("/register/{cacheKey}", s.handleCacheRegister)
		})
	})

	return r
}
