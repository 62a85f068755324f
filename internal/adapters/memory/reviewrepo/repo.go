package reviewrepo

import (
	"context"
	"sort"
	"sync"

	"github.com/we-whacked/reviews-api/internal/domain"
	"github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

// Repo is an in-memory implementation of reviewrepo.Repository.
// It is safe for concurrent use.
type Repo struct {
	mu   sync.RWMutex
	byID map[domain.ReviewID]reviewrepo.Review
}

func NewRepo() *Repo {
	return &Repo{
		byID: make(map[domain.ReviewID]reviewrepo.Review),
	}
}

func (r *Repo) Create(ctx context.Context, rv reviewrepo.Review) error {
	_ = ctx
	if rv.ID == "" {
		return reviewrepo.ErrAlreadyExists // treat empty ID as invalid; the app layer always generates one
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rv.ID]; ok {
		return reviewrepo.ErrAlreadyExists
	}
	r.byID[rv.ID] = cloneReview(rv)
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ReviewID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return reviewrepo.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ReviewID) (reviewrepo.Review, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	rv, ok := r.byID[id]
	if !ok {
		return reviewrepo.Review{}, reviewrepo.ErrNotFound
	}
	return cloneReview(rv), nil
}

func (r *Repo) List(ctx context.Context) ([]reviewrepo.Review, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reviewrepo.Review, 0, len(r.byID))
	for _, rv := range r.byID {
		out = append(out, cloneReview(rv))
	}
	sortReviews(out)
	return out, nil
}

func (r *Repo) ListByLocation(ctx context.Context, locationID domain.LocationID) ([]reviewrepo.Review, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reviewrepo.Review, 0)
	for _, rv := range r.byID {
		if rv.LocationID == locationID {
			out = append(out, cloneReview(rv))
		}
	}
	sortReviews(out)
	return out, nil
}

func sortReviews(rs []reviewrepo.Review) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}

func cloneReview(rv reviewrepo.Review) reviewrepo.Review {
	out := rv
	if rv.Tags != nil {
		out.Tags = make([]string, len(rv.Tags))
		copy(out.Tags, rv.Tags)
	}
	return out
}
