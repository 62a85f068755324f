package locationrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/we-whacked/reviews-api/internal/domain"
	"github.com/we-whacked/reviews-api/internal/ports/out/locationrepo"
)

// Repo is a Postgres implementation of locationrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

func (r *Repo) Upsert(ctx context.Context, l locationrepo.Location) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO locations (
			location_id,
			latitude,
			longitude,
			created_at,
			review_count,
			average_rating
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (location_id) DO UPDATE SET
			latitude = EXCLUDED.latitude,
			longitude = EXCLUDED.longitude,
			created_at = EXCLUDED.created_at,
			review_count = EXCLUDED.review_count,
			average_rating = EXCLUDED.average_rating
	`,
		string(l.ID),
		l.Latitude,
		l.Longitude,
		l.CreatedAt.UTC(),
		l.ReviewCount,
		l.AverageRating,
	)
	return err
}

func (r *Repo) Delete(ctx context.Context, id domain.LocationID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM locations WHERE location_id = $1`, string(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return locationrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.LocationID) (locationrepo.Location, error) {
	if r.pool == nil {
		return locationrepo.Location{}, errors.New("nil postgres pool")
	}
	row := r.pool.QueryRow(ctx, `
		SELECT location_id, latitude, longitude, created_at, review_count, average_rating
		FROM locations WHERE location_id = $1
	`, string(id))
	l, err := scanLocation(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return locationrepo.Location{}, locationrepo.ErrNotFound
		}
		return locationrepo.Location{}, err
	}
	return l, nil
}

func (r *Repo) List(ctx context.Context) ([]locationrepo.Location, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `
		SELECT location_id, latitude, longitude, created_at, review_count, average_rating
		FROM locations ORDER BY created_at, location_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]locationrepo.Location, 0)
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanLocation(row pgx.Row) (locationrepo.Location, error) {
	var (
		l  locationrepo.Location
		id string
	)
	err := row.Scan(
		&id,
		&l.Latitude,
		&l.Longitude,
		&l.CreatedAt,
		&l.ReviewCount,
		&l.AverageRating,
	)
	if err != nil {
		return locationrepo.Location{}, err
	}
	l.ID = domain.LocationID(id)
	return l, nil
}
