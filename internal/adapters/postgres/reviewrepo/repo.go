package reviewrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	postgres "github.com/we-whacked/reviews-api/internal/adapters/postgres"
	"github.com/we-whacked/reviews-api/internal/domain"
	"github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

// Repo is a Postgres implementation of reviewrepo.Repository.
type Repo struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

const selectColumns = `
	review_id, location_id, latitude, longitude,
	title, content, rating, author, tags, created_at, updated_at
`

func (r *Repo) Create(ctx context.Context, rv reviewrepo.Review) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	id, err := uuid.Parse(string(rv.ID))
	if err != nil {
		return fmt.Errorf("invalid review id: %w", err)
	}

	tags := rv.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO reviews (
			review_id,
			location_id,
			latitude,
			longitude,
			title,
			content,
			rating,
			author,
			tags,
			created_at,
			updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`,
		id,
		string(rv.LocationID),
		rv.Latitude,
		rv.Longitude,
		rv.Title,
		rv.Content,
		rv.Rating,
		rv.Author,
		tags,
		rv.CreatedAt.UTC(),
		rv.UpdatedAt.UTC(),
	)
	if err != nil {
		if pe, ok := postgres.AsPgError(err); ok && pe.Code == postgres.UniqueViolationCode {
			return reviewrepo.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id domain.ReviewID) error {
	if r.pool == nil {
		return errors.New("nil postgres pool")
	}
	rid, err := uuid.Parse(string(id))
	if err != nil {
		// Not a UUID, so it cannot exist in the table.
		return reviewrepo.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM reviews WHERE review_id = $1`, rid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return reviewrepo.ErrNotFound
	}
	return nil
}

func (r *Repo) GetByID(ctx context.Context, id domain.ReviewID) (reviewrepo.Review, error) {
	if r.pool == nil {
		return reviewrepo.Review{}, errors.New("nil postgres pool")
	}
	rid, err := uuid.Parse(string(id))
	if err != nil {
		return reviewrepo.Review{}, reviewrepo.ErrNotFound
	}
	row := r.pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM reviews WHERE review_id = $1`, rid)
	rv, err := scanReview(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reviewrepo.Review{}, reviewrepo.ErrNotFound
		}
		return reviewrepo.Review{}, err
	}
	return rv, nil
}

func (r *Repo) List(ctx context.Context) ([]reviewrepo.Review, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx, `SELECT `+selectColumns+` FROM reviews ORDER BY created_at, review_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *Repo) ListByLocation(ctx context.Context, locationID domain.LocationID) ([]reviewrepo.Review, error) {
	if r.pool == nil {
		return nil, errors.New("nil postgres pool")
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+selectColumns+` FROM reviews WHERE location_id = $1 ORDER BY created_at, review_id`,
		string(locationID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReviews(rows)
}

func scanReviews(rows pgx.Rows) ([]reviewrepo.Review, error) {
	out := make([]reviewrepo.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanReview(row pgx.Row) (reviewrepo.Review, error) {
	var (
		rv  reviewrepo.Review
		id  uuid.UUID
		loc string
	)
	err := row.Scan(
		&id,
		&loc,
		&rv.Latitude,
		&rv.Longitude,
		&rv.Title,
		&rv.Content,
		&rv.Rating,
		&rv.Author,
		&rv.Tags,
		&rv.CreatedAt,
		&rv.UpdatedAt,
	)
	if err != nil {
		return reviewrepo.Review{}, err
	}
	rv.ID = domain.ReviewID(id.String())
	rv.LocationID = domain.LocationID(loc)
	return rv, nil
}
