package httpapi

import (
	"time"

	"github.com/we-whacked/reviews-api/internal/app/caches"
	"github.com/we-whacked/reviews-api/internal/app/reviews"
	"github.com/we-whacked/reviews-api/internal/domain"
)

type createReviewRequest struct {
	LocationID string   `json:"location_id"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Rating     int      `json:"rating"`
	Author     string   `json:"author"`
	Tags       []string `json:"tags"`
}

type reviewJSON struct {
	ReviewID   string    `json:"review_id"`
	LocationID string    `json:"location_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Rating     int       `json:"rating"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type reviewsResponse struct {
	Total   int          `json:"total"`
	Reviews []reviewJSON `json:"reviews"`
}

type locationJSON struct {
	LocationID    string    `json:"location_id"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	ReviewCount   int       `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
}

type locationsResponse struct {
	Total     int            `json:"total"`
	Locations []locationJSON `json:"locations"`
}

type locationWithReviewsResponse struct {
	LocationID    string       `json:"location_id"`
	Latitude      float64      `json:"latitude"`
	Longitude     float64      `json:"longitude"`
	CreatedAt     time.Time    `json:"created_at"`
	ReviewCount   int          `json:"review_count"`
	AverageRating float64      `json:"average_rating"`
	Reviews       []reviewJSON `json:"reviews"`
}

type deleteReviewResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	ReviewID string `json:"review_id"`
}

type topLocationJSON struct {
	LocationID    string  `json:"location_id"`
	ReviewCount   int     `json:"review_count"`
	AverageRating float64 `json:"average_rating"`
}

type statsResponse struct {
	TotalReviews         int               `json:"total_reviews"`
	TotalLocations       int               `json:"total_locations"`
	AverageRating        *float64          `json:"average_rating"`
	TopReviewedLocations []topLocationJSON `json:"top_reviewed_locations"`
}

type cacheEntryJSON struct {
	Data      any        `json:"data"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

type cacheMetadataJSON struct {
	Key             string     `json:"key"`
	Timestamp       *time.Time `json:"timestamp"`
	DataCount       int        `json:"data_count"`
	CacheAgeSeconds *float64   `json:"cache_age_seconds"`
}

type cacheDatabaseResponse struct {
	Timestamp time.Time                    `json:"timestamp"`
	Caches    map[string]cacheEntryJSON    `json:"caches"`
	Summary   map[string]cacheMetadataJSON `json:"summary"`
}

type cacheSummaryResponse struct {
	Timestamp   time.Time                    `json:"timestamp"`
	TotalCaches int                          `json:"total_caches"`
	Caches      map[string]cacheMetadataJSON `json:"caches"`
}

type cacheRegisterRequest struct {
	Data      any        `json:"data"`
	Timestamp *time.Time `json:"timestamp"`
}

type cacheRegisterResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	CacheKey string `json:"cache_key"`
}

func reviewToJSON(r domain.Review) reviewJSON {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return reviewJSON{
		ReviewID:   string(r.ID),
		LocationID: string(r.LocationID),
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Title:      r.Title,
		Content:    r.Content,
		Rating:     r.Rating,
		Author:     r.Author,
		Tags:       tags,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func reviewsToJSON(rs []domain.Review) []reviewJSON {
	out := make([]reviewJSON, 0, len(rs))
	for _, r := range rs {
		out = append(out, reviewToJSON(r))
	}
	return out
}

func locationToJSON(l domain.Location) locationJSON {
	return locationJSON{
		LocationID:    string(l.ID),
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		CreatedAt:     l.CreatedAt,
		ReviewCount:   l.ReviewCount,
		AverageRating: l.AverageRating,
	}
}

func locationsToJSON(ls []domain.Location) []locationJSON {
	out := make([]locationJSON, 0, len(ls))
	for _, l := range ls {
		out = append(out, locationToJSON(l))
	}
	return out
}

func cacheEntryToJSON(e caches.Entry) cacheEntryJSON {
	out := cacheEntryJSON{Data: e.Data}
	if !e.Timestamp.IsZero() {
		ts := e.Timestamp
		out.Timestamp = &ts
	}
	return out
}

func cacheMetadataToJSON(m caches.Metadata) cacheMetadataJSON {
	out := cacheMetadataJSON{
		Key:             m.Key,
		DataCount:       m.DataCount,
		CacheAgeSeconds: m.CacheAgeSeconds,
	}
	if !m.Timestamp.IsZero() {
		ts := m.Timestamp
		out.Timestamp = &ts
	}
	return out
}

func cacheSummaryToJSON(ms map[string]caches.Metadata) map[string]cacheMetadataJSON {
	out := make(map[string]cacheMetadataJSON, len(ms))
	for k, m := range ms {
		out[k] = cacheMetadataToJSON(m)
	}
	return out
}

func statsToJSON(st reviews.Stats) statsResponse {
	top := make([]topLocationJSON, 0, len(st.TopReviewedLocations))
	for _, tl := range st.TopReviewedLocations {
		top = append(top, topLocationJSON{
			LocationID:    string(tl.LocationID),
			ReviewCount:   tl.ReviewCount,
			AverageRating: tl.AverageRating,
		})
	}
	return statsResponse{
		TotalReviews:         st.TotalReviews,
		TotalLocations:       st.TotalLocations,
		AverageRating:        st.AverageRating,
		TopReviewedLocations: top,
	}
}
