package locationrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/we-whacked/reviews-api/internal/domain"
	"github.com/we-whacked/reviews-api/internal/ports/out/locationrepo"
)

// Repo is an in-memory implementation of locationrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.LocationID]locationrepo.Location
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.LocationID]locationrepo.Location),
	}
}

func (r *Repo) Upsert(ctx context.Context, l locationrepo.Location) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[l.ID] = l
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.LocationID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return locationrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.LocationID) (locationrepo.Location, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byID[id]
	if !ok {
		return locationrepo.Location{}, locationrepo.ErrNotFound
	}
	return l, nil
}

func (r *Repo) List(ctx context.Context) ([]locationrepo.Location, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]locationrepo.Location, 0, len(r.byID))
	for _, l := range r.byID {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
