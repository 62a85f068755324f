package reviewrepo

import (
	"context"
	"time"

	"github.com/we-whacked/reviews-api/internal/domain"
)

// Review is the persistence shape used by the review repository. It is an
// internal record, not an HTTP DTO.
type Review struct {
	ID         domain.ReviewID
	LocationID domain.LocationID

	Latitude  float64
	Longitude float64

	Title   string
	Content string
	Rating  int
	Author  string
	Tags    []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository provides access to persisted reviews.
//
// Result ordering expectations:
// - List/ListByLocation return reviews ordered by CreatedAt ascending, then
//   ID ascending, to keep behavior deterministic across calls.
//
// Mutations must be atomic with respect to concurrent readers: a reader sees
// either the pre- or post-mutation record set, never a partial one.
type Repository interface {
	Create(ctx context.Context, r Review) error
	Delete(ctx context.Context, id domain.ReviewID) error

	GetByID(ctx context.Context, id domain.ReviewID) (Review, error)

	List(ctx context.Context) ([]Review, error)
	// ListByLocation matches the location identifier exactly (case-sensitive).
	ListByLocation(ctx context.Context, locationID domain.LocationID) ([]Review, error)
}
