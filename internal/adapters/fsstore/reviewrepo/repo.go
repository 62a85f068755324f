package reviewrepo

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/we-whacked/reviews-api/internal/adapters/fsstore"
	"github.com/we-whacked/reviews-api/internal/domain"
	"github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

// record is the on-disk shape of one review. The collection is a JSON object
// keyed by review id.
type record struct {
	ID         string    `json:"review_id"`
	LocationID string    `json:"location_id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Rating     int       `json:"rating"`
	Author     string    `json:"author"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Repo is a file-backed implementation of reviewrepo.Repository using the
// fsstore snapshot pattern. The mutex serializes writers on the collection
// file; readers share it.
type Repo struct {
	mu   sync.RWMutex
	path string
}

func NewRepo(path string) (*Repo, error) {
	if err := fsstore.Init(path, map[string]record{}); err != nil {
		return nil, fmt.Errorf("init reviews store: %w", err)
	}
	return &Repo{path: path}, nil
}

func (r *Repo) Create(ctx context.Context, rv reviewrepo.Review) error {
	_ = ctx
	if rv.ID == "" {
		return reviewrepo.ErrAlreadyExists
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := m[string(rv.ID)]; ok {
		return reviewrepo.ErrAlreadyExists
	}
	m[string(rv.ID)] = toRecord(rv)
	return fsstore.Replace(r.path, m)
}

func (r *Repo) Delete(ctx context.Context, id domain.ReviewID) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	m, err := r.load()
	if err != nil {
		return err
	}
	if _, ok := m[string(id)]; !ok {
		return reviewrepo.ErrNotFound
	}
	delete(m, string(id))
	return fsstore.Replace(r.path, m)
}

func (r *Repo) GetByID(ctx context.Context, id domain.ReviewID) (reviewrepo.Review, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.load()
	if err != nil {
		return reviewrepo.Review{}, err
	}
	rec, ok := m[string(id)]
	if !ok {
		return reviewrepo.Review{}, reviewrepo.ErrNotFound
	}
	return fromRecord(rec), nil
}

func (r *Repo) List(ctx context.Context) ([]reviewrepo.Review, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]reviewrepo.Review, 0, len(m))
	for _, rec := range m {
		out = append(out, fromRecord(rec))
	}
	sortReviews(out)
	return out, nil
}

func (r *Repo) ListByLocation(ctx context.Context, locationID domain.LocationID) ([]reviewrepo.Review, error) {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, err := r.load()
	if err != nil {
		return nil, err
	}
	out := make([]reviewrepo.Review, 0)
	for _, rec := range m {
		if rec.LocationID == string(locationID) {
			out = append(out, fromRecord(rec))
		}
	}
	sortReviews(out)
	return out, nil
}

func (r *Repo) load() (map[string]record, error) {
	m := make(map[string]record)
	if err := fsstore.Load(r.path, &m); err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	return m, nil
}

func sortReviews(rs []reviewrepo.Review) {
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].CreatedAt.Equal(rs[j].CreatedAt) {
			return rs[i].ID < rs[j].ID
		}
		return rs[i].CreatedAt.Before(rs[j].CreatedAt)
	})
}

func toRecord(rv reviewrepo.Review) record {
	tags := rv.Tags
	if tags == nil {
		tags = []string{}
	}
	return record{
		ID:         string(rv.ID),
		LocationID: string(rv.LocationID),
		Latitude:   rv.Latitude,
		Longitude:  rv.Longitude,
		Title:      rv.Title,
		Content:    rv.Content,
		Rating:     rv.Rating,
		Author:     rv.Author,
		Tags:       tags,
		CreatedAt:  rv.CreatedAt.UTC(),
		UpdatedAt:  rv.UpdatedAt.UTC(),
	}
}

func fromRecord(rec record) reviewrepo.Review {
	return reviewrepo.Review{
		ID:         domain.ReviewID(rec.ID),
		LocationID: domain.LocationID(rec.LocationID),
		Latitude:   rec.Latitude,
		Longitude:  rec.Longitude,
		Title:      rec.Title,
		Content:    rec.Content,
		Rating:     rec.Rating,
		Author:     rec.Author,
		Tags:       rec.Tags,
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
