package httpapi

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/we-whacked/reviews-api/internal/app/caches"
	"github.com/we-whacked/reviews-api/internal/app/reviews"
	"github.com/we-whacked/reviews-api/internal/domain"
	clockport "github.com/we-whacked/reviews-api/internal/ports/out/clock"
)

// Server is the HTTP adapter over the review service and the cache registry.
type Server struct {
	Reviews *reviews.Service
	Caches  *caches.Registry
	Clock   clockport.Clock
}

func NewServer(reviewSvc *reviews.Service, registry *caches.Registry, clk clockport.Clock) *Server {
	return &Server{
		Reviews: reviewSvc,
		Caches:  registry,
		Clock:   clk,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	created, err := s.Reviews.CreateReview(r.Context(), reviews.CreateReviewInput{
		LocationID: req.LocationID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Title:      req.Title,
		Content:    req.Content,
		Rating:     req.Rating,
		Author:     req.Author,
		Tags:       req.Tags,
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reviewToJSON(created))
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Reviews.ListReviews(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewsResponse{Total: len(rs), Reviews: reviewsToJSON(rs)})
}

func (s *Server) handleListReviewsByLocation(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	rs, err := s.Reviews.ListReviewsByLocation(r.Context(), domain.LocationID(locationID))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewsResponse{Total: len(rs), Reviews: reviewsToJSON(rs)})
}

func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	rv, err := s.Reviews.GetReview(r.Context(), domain.ReviewID(reviewID))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reviewToJSON(rv))
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	reviewID := chi.URLParam(r, "reviewID")
	if err := s.Reviews.DeleteReview(r.Context(), domain.ReviewID(reviewID)); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, deleteReviewResponse{
		Status:   "success",
		Message:  fmt.Sprintf("Review %q deleted", reviewID),
		ReviewID: reviewID,
	})
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	ls, err := s.Reviews.ListLocations(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationsResponse{Total: len(ls), Locations: locationsToJSON(ls)})
}

func (s *Server) handleNearbyLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	details := map[string]any{}

	parse := func(field string) (float64, bool) {
		raw := q.Get(field)
		if raw == "" {
			details[field] = "is required"
			return 0, false
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details[field] = "must be a number"
			return 0, false
		}
		return v, true
	}

	lat, latOK := parse("latitude")
	lng, lngOK := parse("longitude")

	radius := reviews.DefaultRadiusMiles
	if raw := q.Get("radius_miles"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details["radius_miles"] = "must be a number"
		} else {
			radius = v
		}
	}

	if !latOK || !lngOK || len(details) > 0 {
		writeError(w, r, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "invalid nearby query", details)
		return
	}

	ls, err := s.Reviews.NearbyLocations(r.Context(), lat, lng, radius)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationsResponse{Total: len(ls), Locations: locationsToJSON(ls)})
}

func (s *Server) handleGetLocationWithReviews(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	lr, err := s.Reviews.GetLocationWithReviews(r.Context(), domain.LocationID(locationID))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationWithReviewsResponse{
		LocationID:    string(lr.Location.ID),
		Latitude:      lr.Location.Latitude,
		Longitude:     lr.Location.Longitude,
		CreatedAt:     lr.Location.CreatedAt,
		ReviewCount:   lr.Location.ReviewCount,
		AverageRating: lr.Location.AverageRating,
		Reviews:       reviewsToJSON(lr.Reviews),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := s.Reviews.GetStats(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, statsToJSON(st))
}

var exportHeader = []string{
	"review_id", "location_id", "latitude", "longitude",
	"title", "content", "rating", "author", "tags",
	"created_at", "updated_at",
}

func (s *Server) handleExportReviews(w http.ResponseWriter, r *http.Request) {
	rs, err := s.Reviews.ListReviews(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	if len(rs) == 0 {
		writeError(w, r, http.StatusNotFound, "NO_REVIEWS", "No reviews found.", nil)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename=reviews.csv`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeader)
	for _, rv := range rs {
		_ = cw.Write([]string{
			string(rv.ID),
			string(rv.LocationID),
			strconv.FormatFloat(rv.Latitude, 'f', -1, 64),
			strconv.FormatFloat(rv.Longitude, 'f', -1, 64),
			rv.Title,
			rv.Content,
			strconv.Itoa(rv.Rating),
			rv.Author,
			strings.Join(rv.Tags, ";"),
			rv.CreatedAt.Format(time.RFC3339),
			rv.UpdatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}

func (s *Server) handleCacheDatabase(w http.ResponseWriter, r *http.Request) {
	snapshot := s.Caches.Snapshot()
	summary := s.Caches.Summarize()

	entries := make(map[string]cacheEntryJSON, len(snapshot))
	for k, e := range snapshot {
		entries[k] = cacheEntryToJSON(e)
	}
	writeJSON(w, http.StatusOK, cacheDatabaseResponse{
		Timestamp: s.Clock.Now(),
		Caches:    entries,
		Summary:   cacheSummaryToJSON(summary),
	})
}

func (s *Server) handleCacheByKey(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "cacheKey")
	e, err := s.Caches.Get(key)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cacheEntryToJSON(e))
}

func (s *Server) handleCacheSummary(w http.ResponseWriter, r *http.Request) {
	summary := s.Caches.Summarize()
	writeJSON(w, http.StatusOK, cacheSummaryResponse{
		Timestamp:   s.Clock.Now(),
		TotalCaches: len(summary),
		Caches:      cacheSummaryToJSON(summary),
	})
}

func (s *Server) handleCacheRegister(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "cacheKey")

	var req cacheRegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "BAD_REQUEST", "malformed JSON body", nil)
		return
	}

	e := caches.Entry{Data: req.Data}
	if req.Timestamp != nil {
		e.Timestamp = *req.Timestamp
	}
	s.Caches.Register(key, e)

	writeJSON(w, http.StatusOK, cacheRegisterResponse{
		Status:   "success",
		Message:  fmt.Sprintf("Cache %q registered successfully", key),
		CacheKey: key,
	})
}
