package locationrepo

import "errors"

// ErrNotFound indicates no aggregate exists for the requested location.
var ErrNotFound = errors.New("location not found")
