package domain

// ReviewID is the internal identifier for a review record. It is generated
// server-side and opaque to callers.
type ReviewID string

// LocationID is the caller-chosen string that groups reviews into one place.
// It is not validated against coordinates: two reviews may share a LocationID
// while reporting different positions.
type LocationID string
