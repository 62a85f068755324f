package reviewrepo

import "errors"

var (
	// ErrNotFound indicates the requested review does not exist.
	ErrNotFound = errors.New("review not found")

	// ErrAlreadyExists indicates a review already exists with the provided ID.
	ErrAlreadyExists = errors.New("review already exists")
)
