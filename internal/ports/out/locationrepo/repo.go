package locationrepo

import (
	"context"
	"time"

	"github.com/we-whacked/reviews-api/internal/domain"
)

// Location is the persistence shape of a derived location aggregate. The
// aggregator owns its contents; repositories store it verbatim.
type Location struct {
	ID domain.LocationID

	Latitude  float64
	Longitude float64
	CreatedAt time.Time

	ReviewCount   int
	AverageRating float64
}

// Repository provides access to persisted location aggregates.
//
// Result ordering expectations:
// - List returns locations ordered by CreatedAt ascending, then ID ascending.
type Repository interface {
	// Upsert inserts the location or fully replaces the stored record for
	// the same ID.
	Upsert(ctx context.Context, l Location) error
	Delete(ctx context.Context, id domain.LocationID) error

	GetByID(ctx context.Context, id domain.LocationID) (Location, error)
	List(ctx context.Context) ([]Location, error)
}
