package domain

import (
	"math"
	"time"
)

// Rating bounds for a review (inclusive).
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a user-submitted opinion about a location. Reviews are immutable
// after creation: the only lifecycle transitions are create and delete.
type Review struct {
	ID         ReviewID
	LocationID LocationID

	// Latitude/Longitude are the originating coordinate of this review, kept
	// even when the same LocationID is later reused with other coordinates.
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

// Location is the derived aggregate over all live reviews sharing a
// LocationID. It is fully recomputable from the review set; if the two ever
// diverge, the reviews win. A Location with zero live reviews does not exist.
type Location struct {
	ID LocationID

	// Latitude/Longitude/CreatedAt are pinned to the first review seen for
	// this LocationID and never move afterwards.
	Latitude  float64
	Longitude float64
	CreatedAt time.Time

	ReviewCount   int
	AverageRating float64
}

// RoundAverage rounds a mean rating to the presentation precision
// (1 decimal place), half-to-even.
func RoundAverage(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}

// ValidRating reports whether r is within the allowed rating range.
func ValidRating(r int) bool {
	return r >= MinRating && r <= MaxRating
}
