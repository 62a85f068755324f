package locationrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/we-whacked/reviews-api/internal/adapters/fsstore"
	"github.com/we-whacked/reviews-api/internal/domain"
	"github.com/we-whacked/reviews-api/internal/ports/out/locationrepo"
)

// record is the on-disk shape of one location aggregate. The collection is a
// JSON object keyed by location id.
type record struct {
	ID            string    `json:"location_id"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	CreatedAt     time.Time `json:"created_at"`
	ReviewCount   int       `json:"review_count"`
	AverageRating float64   `json:"average_rating"`
}

// Repo is a file-backed implementation of locationrepo.Repository using the
// fsstore snapshot pattern.
type Repo struct {
	mu   sync.RWMutex
	path string
}

func NewRepo(path string) (*Repo, error) {
	if err := fsstore.Init(path, map[string]record{}); err != nil {
		return nil, fmt.Errorf("init locations store: %w", err)
	}
	return &Repo{path: path}, nil
}

func (r *Repo) Upsert(ctx context.Context, l locationrepo.Location) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	m[string(l.ID)] = toRecord(l)
	return fsstore.Replace(r.path, m)
}

func (r *Repo) Delete(ctx context.Context, id domain.LocationID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := m[string(id)]; !ok {
		return locationrepo.ErrNotFound
	}
	delete(m, string(id))
	return fsstore.Replace(r.path, m)
}

func (r *Repo) GetByID(ctx context.Context, id domain.LocationID) (locationrepo.Location, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.load()
	if err != nil {
		return locationrepo.Location{}, err
	}
	rec, ok := m[string(id)]
	if !ok {
		return locationrepo.Location{}, locationrepo.ErrNotFound
	}
	return fromRecord(rec), nil
}

func (r *Repo) List(ctx context.Context) ([]locationrepo.Location, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]locationrepo.Location, 0, len(m))
	for _, rec := range m {
		out = append(out, fromRecord(rec))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *Repo) load() (map[string]record, error) {
	m := make(map[string]record)
	if err := fsstore.Load(r.path, &m); err != nil {
		return nil, fmt.Errorf("load locations: %w", err)
	}
	return m, nil
}

func toRecord(l locationrepo.Location) record {
	return record{
		ID:            string(l.ID),
		Latitude:      l.Latitude,
		Longitude:     l.Longitude,
		CreatedAt:     l.CreatedAt.UTC(),
		ReviewCount:   l.ReviewCount,
		AverageRating: l.AverageRating,
	}
}

func fromRecord(rec record) locationrepo.Location {
	return locationrepo.Location{
		ID:            domain.LocationID(rec.ID),
		Latitude:      rec.Latitude,
		Longitude:     rec.Longitude,
		CreatedAt:     rec.CreatedAt,
		ReviewCount:   rec.ReviewCount,
		AverageRating: rec.AverageRating,
	}
}
