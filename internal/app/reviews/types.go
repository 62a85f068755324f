package reviews

import "github.com/we-whacked/reviews-api/internal/domain"

// CreateReviewInput carries a review draft into the service. Latitude and
// Longitude are pointers so a missing coordinate is distinguishable from 0.
type CreateReviewInput struct {
	LocationID string
	Latitude   *float64
	Longitude  *float64
	Title      string
	Content    string
	Rating     int
	Author     string
	Tags       []string
}

// LocationWithReviews is a location aggregate bundled with its live reviews.
type LocationWithReviews struct {
	Location domain.Location
	Reviews  []domain.Review
}

// TopLocation is one entry of the stats top-reviewed list.
type TopLocation struct {
	LocationID    domain.LocationID
	ReviewCount   int
	AverageRating float64
}

// Stats summarizes the review corpus. AverageRating is nil when no reviews
// exist.
type Stats struct {
	TotalReviews         int
	TotalLocations       int
	AverageRating        *float64
	TopReviewedLocations []TopLocation
}
