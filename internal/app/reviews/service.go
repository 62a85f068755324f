package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/we-whacked/reviews-api/internal/domain"
	clockport "github.com/we-whacked/reviews-api/internal/ports/out/clock"
	"github.com/we-whacked/reviews-api/internal/ports/out/locationrepo"
	"github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

// DefaultRadiusMiles is the proximity search radius used when the caller
// does not supply one.
const DefaultRadiusMiles = 5.0

// Service implements the review store, the derived location aggregates, and
// proximity search over them.
//
// Location aggregates are a cache over the review set, recomputed
// synchronously inside every review mutation. An implementer may swap in
// incremental counters only if they stay exactly equivalent to the full
// recomputation under all interleavings.
type Service struct {
	reviews   reviewrepo.Repository
	locations locationrepo.Repository
	clk       clockport.Clock

	newReviewID func() domain.ReviewID

	// mu serializes writers so a review mutation and the aggregate
	// recomputation it triggers are observed together. Reads spanning both
	// collections take the read lock for the same reason.
	mu sync.RWMutex

	// TopLocationsLimit bounds the stats top-reviewed list.
	TopLocationsLimit int
}

func NewService(reviews reviewrepo.Repository, locations locationrepo.Repository, clk clockport.Clock) *Service {
	return &Service{
		reviews:   reviews,
		locations: locations,
		clk:       clk,
		newReviewID: func() domain.ReviewID {
			return domain.ReviewID(uuid.NewString())
		},
		TopLocationsLimit: 5,
	}
}

// CreateReview validates the draft, persists it, and recomputes the owning
// location aggregate before returning.
func (s *Service) CreateReview(ctx context.Context, in CreateReviewInput) (domain.Review, error) {
	details := map[string]any{}
	locID := strings.TrimSpace(in.LocationID)
	if locID == "" {
		details["location_id"] = "must be non-empty"
	}
	if in.Latitude == nil {
		details["latitude"] = "is required"
	} else if lat := *in.Latitude; math.IsNaN(lat) || lat < -90 || lat > 90 {
		details["latitude"] = "must be between -90 and 90"
	}
	if in.Longitude == nil {
		details["longitude"] = "is required"
	} else if lng := *in.Longitude; math.IsNaN(lng) || lng < -180 || lng > 180 {
		details["longitude"] = "must be between -180 and 180"
	}
	if !domain.ValidRating(in.Rating) {
		details["rating"] = fmt.Sprintf("must be between %d and %d", domain.MinRating, domain.MaxRating)
	}
	if len(details) > 0 {
		return domain.Review{}, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid review",
			Details: details,
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clk.Now()
	r := reviewrepo.Review{
		ID:         s.newReviewID(),
		LocationID: domain.LocationID(locID),
		Latitude:   *in.Latitude,
		Longitude:  *in.Longitude,
		Title:      in.Title,
		Content:    in.Content,
		Rating:     in.Rating,
		Author:     in.Author,
		Tags:       cloneTags(in.Tags),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.reviews.Create(ctx, r); err != nil {
		return domain.Review{}, fmt.Errorf("create review: %w", err)
	}
	if err := s.recomputeLocation(ctx, r.LocationID); err != nil {
		return domain.Review{}, fmt.Errorf("recompute location %q: %w", r.LocationID, err)
	}
	return toDomain(r), nil
}

// DeleteReview removes the review and recomputes (or removes) the owning
// location aggregate as part of the same logical operation. Deleting an
// unknown review is a not-found error; repeating a delete yields the same
// not-found outcome.
func (s *Service) DeleteReview(ctx context.Context, id domain.ReviewID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviewrepo.ErrNotFound) {
			return reviewNotFound(id)
		}
		return err
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, reviewrepo.ErrNotFound) {
			return reviewNotFound(id)
		}
		return err
	}
	if err := s.recomputeLocation(ctx, r.LocationID); err != nil {
		return fmt.Errorf("recompute location %q: %w", r.LocationID, err)
	}
	return nil
}

func (s *Service) GetReview(ctx context.Context, id domain.ReviewID) (domain.Review, error) {
	r, err := s.reviews.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviewrepo.ErrNotFound) {
			return domain.Review{}, reviewNotFound(id)
		}
		return domain.Review{}, err
	}
	return toDomain(r), nil
}

func (s *Service) ListReviews(ctx context.Context) ([]domain.Review, error) {
	rs, err := s.reviews.List(ctx)
	if err != nil {
		return nil, err
	}
	return toDomainAll(rs), nil
}

func (s *Service) ListReviewsByLocation(ctx context.Context, locationID domain.LocationID) ([]domain.Review, error) {
	rs, err := s.reviews.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	return toDomainAll(rs), nil
}

func (s *Service) ListLocations(ctx context.Context) ([]domain.Location, error) {
	ls, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Location, 0, len(ls))
	for _, l := range ls {
		out = append(out, locationToDomain(l))
	}
	return out, nil
}

func (s *Service) GetLocation(ctx context.Context, id domain.LocationID) (domain.Location, error) {
	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, locationrepo.ErrNotFound) {
			return domain.Location{}, locationNotFound(id)
		}
		return domain.Location{}, err
	}
	return locationToDomain(l), nil
}

// GetLocationWithReviews reads both collections under the read lock so the
// aggregate and the review list it derives from are from the same snapshot.
func (s *Service) GetLocationWithReviews(ctx context.Context, id domain.LocationID) (LocationWithReviews, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	l, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, locationrepo.ErrNotFound) {
			return LocationWithReviews{}, locationNotFound(id)
		}
		return LocationWithReviews{}, err
	}
	rs, err := s.reviews.ListByLocation(ctx, id)
	if err != nil {
		return LocationWithReviews{}, err
	}
	return LocationWithReviews{
		Location: locationToDomain(l),
		Reviews:  toDomainAll(rs),
	}, nil
}

// NearbyLocations returns every location whose great-circle distance from
// the center is within radiusMiles (inclusive). The scan is linear over all
// aggregates; fine up to roughly 10^4 locations, beyond which a spatial
// index should replace it.
func (s *Service) NearbyLocations(ctx context.Context, lat, lng, radiusMiles float64) ([]domain.Location, error) {
	details := map[string]any{}
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		details["latitude"] = "must be between -90 and 90"
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		details["longitude"] = "must be between -180 and 180"
	}
	if math.IsNaN(radiusMiles) {
		details["radius_miles"] = "must be a number"
	}
	if len(details) > 0 {
		return nil, &Error{
			Status:  422,
			Code:    "VALIDATION_ERROR",
			Message: "invalid nearby query",
			Details: details,
		}
	}
	// Degenerate radius yields an empty result, not an error.
	if radiusMiles <= 0 {
		return []domain.Location{}, nil
	}

	ls, err := s.locations.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Location, 0, len(ls))
	for _, l := range ls {
		if domain.HaversineMiles(lat, lng, l.Latitude, l.Longitude) <= radiusMiles {
			out = append(out, locationToDomain(l))
		}
	}
	return out, nil
}

// GetStats reads both collections under the read lock so totals and
// aggregates agree with each other.
func (s *Service) GetStats(ctx context.Context) (Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rs, err := s.reviews.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	ls, err := s.locations.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		TotalReviews:   len(rs),
		TotalLocations: len(ls),
	}
	if len(rs) > 0 {
		sum := 0
		for _, r := range rs {
			sum += r.Rating
		}
		avg := domain.RoundAverage(float64(sum) / float64(len(rs)))
		st.AverageRating = &avg
	}

	sort.Slice(ls, func(i, j int) bool {
		if ls[i].ReviewCount == ls[j].ReviewCount {
			return ls[i].ID < ls[j].ID
		}
		return ls[i].ReviewCount > ls[j].ReviewCount
	})
	limit := s.TopLocationsLimit
	if limit > len(ls) {
		limit = len(ls)
	}
	st.TopReviewedLocations = make([]TopLocation, 0, limit)
	for _, l := range ls[:limit] {
		st.TopReviewedLocations = append(st.TopReviewedLocations, TopLocation{
			LocationID:    l.ID,
			ReviewCount:   l.ReviewCount,
			AverageRating: l.AverageRating,
		})
	}
	return st, nil
}

// recomputeLocation derives the aggregate for id from the live review set.
// Caller must hold the write lock. When no reviews remain the aggregate is
// removed entirely; otherwise count and average are reset from scratch while
// latitude/longitude/created_at stay pinned to their first-seen values.
func (s *Service) recomputeLocation(ctx context.Context, id domain.LocationID) error {
	rs, err := s.reviews.ListByLocation(ctx, id)
	if err != nil {
		return err
	}
	if len(rs) == 0 {
		if err := s.locations.Delete(ctx, id); err != nil && !errors.Is(err, locationrepo.ErrNotFound) {
			return err
		}
		return nil
	}

	sum := 0
	for _, r := range rs {
		sum += r.Rating
	}

	l, err := s.locations.GetByID(ctx, id)
	if errors.Is(err, locationrepo.ErrNotFound) {
		// First review for this identifier: pin position and creation time.
		first := rs[0]
		l = locationrepo.Location{
			ID:        id,
			Latitude:  first.Latitude,
			Longitude: first.Longitude,
			CreatedAt: s.clk.Now(),
		}
	} else if err != nil {
		return err
	}

	l.ReviewCount = len(rs)
	l.AverageRating = domain.RoundAverage(float64(sum) / float64(len(rs)))
	return s.locations.Upsert(ctx, l)
}

func reviewNotFound(id domain.ReviewID) *Error {
	return &Error{
		Status:  404,
		Code:    "REVIEW_NOT_FOUND",
		Message: fmt.Sprintf("Review %q not found.", string(id)),
	}
}

func locationNotFound(id domain.LocationID) *Error {
	return &Error{
		Status:  404,
		Code:    "LOCATION_NOT_FOUND",
		Message: fmt.Sprintf("Location %q not found.", string(id)),
	}
}

func toDomain(r reviewrepo.Review) domain.Review {
	return domain.Review{
		ID:         r.ID,
		LocationID: r.LocationID,
		Latitude:   r.Latitude,
		Longitude:  r.Longitude,
		Title:      r.Title,
		Content:    r.Content,
		Rating:     r.Rating,
		Author:     r.Author,
		Tags:       cloneTags(r.Tags),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func toDomainAll(rs []reviewrepo.Review) []domain.Review {
	out := make([]domain.Review, 0, len(rs))
	for _, r := range rs {
		out = append(out, toDomain(r))
	}
	return out
}

func locationToDomain(l locationrepo.Location) domain.Location {
	return domain.Location{
		ID:            l.ID,
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		CreatedAt:     l.CreatedAt,
		ReviewCount:   l.ReviewCount,
		AverageRating: l.AverageRating,
	}
}

func cloneTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}
