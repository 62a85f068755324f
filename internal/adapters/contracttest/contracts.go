// Package contracttest holds repository contract suites shared by every
// storage adapter (memory, fsstore, postgres). Each adapter package runs the
// suites against its own factory so all backends prove the same semantics.
package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/we-whacked/reviews-api/internal/domain"
	locationrepoport "github.com/we-whacked/reviews-api/internal/ports/out/locationrepo"
	reviewrepoport "github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

type CleanupFunc = func()

type ReviewRepoFactory func(t *testing.T) (reviewrepoport.Repository, CleanupFunc)
type LocationRepoFactory func(t *testing.T) (locationrepoport.Repository, CleanupFunc)

func RunReviewRepo(t *testing.T, newRepo ReviewRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	aID := domain.ReviewID(uuid.NewString())
	if err := repo.Create(ctx, reviewrepoport.Review{
		ID:         aID,
		LocationID: "loc-1",
		Latitude:   42.3554,
		Longitude:  -71.0606,
		Title:      "Great spot",
		Content:    "Clean and central.",
		Rating:     5,
		Author:     "alice",
		Tags:       []string{"downtown", "clean"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		t.Fatalf("Create a: %v", err)
	}

	// Round-trip all fields.
	got, err := repo.GetByID(ctx, aID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.LocationID != "loc-1" || got.Rating != 5 || got.Title != "Great spot" ||
		got.Author != "alice" || got.Latitude != 42.3554 || got.Longitude != -71.0606 {
		t.Fatalf("unexpected review: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "downtown" || got.Tags[1] != "clean" {
		t.Fatalf("tags=%v", got.Tags)
	}
	if !got.CreatedAt.Equal(now) {
		t.Fatalf("createdAt=%v, want %v", got.CreatedAt, now)
	}

	// ID uniqueness.
	if err := repo.Create(ctx, reviewrepoport.Review{
		ID:         aID,
		LocationID: "loc-1",
		Rating:     3,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); !errors.Is(err, reviewrepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create err=%v, want ErrAlreadyExists", err)
	}

	// Deterministic list ordering by CreatedAt then ID.
	bID := domain.ReviewID(uuid.NewString())
	if err := repo.Create(ctx, reviewrepoport.Review{
		ID:         bID,
		LocationID: "loc-2",
		Latitude:   42.40,
		Longitude:  -71.10,
		Rating:     3,
		CreatedAt:  now.Add(time.Minute),
		UpdatedAt:  now.Add(time.Minute),
	}); err != nil {
		t.Fatalf("Create b: %v", err)
	}
	all, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 || all[0].ID != aID || all[1].ID != bID {
		t.Fatalf("unexpected list: %+v", all)
	}

	// Location filter is exact and case-sensitive.
	byLoc, err := repo.ListByLocation(ctx, "loc-1")
	if err != nil {
		t.Fatalf("ListByLocation: %v", err)
	}
	if len(byLoc) != 1 || byLoc[0].ID != aID {
		t.Fatalf("unexpected byLoc: %+v", byLoc)
	}
	if byLoc, err = repo.ListByLocation(ctx, "LOC-1"); err != nil || len(byLoc) != 0 {
		t.Fatalf("case-sensitive filter leaked: %+v err=%v", byLoc, err)
	}

	// Delete is definitive; a second delete reports not found.
	if err := repo.Delete(ctx, aID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, aID); !errors.Is(err, reviewrepoport.ErrNotFound) {
		t.Fatalf("second Delete err=%v, want ErrNotFound", err)
	}
	if _, err := repo.GetByID(ctx, aID); !errors.Is(err, reviewrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v, want ErrNotFound", err)
	}
}

func RunLocationRepo(t *testing.T, newRepo LocationRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	if err := repo.Upsert(ctx, locationrepoport.Location{
		ID:            "loc-1",
		Latitude:      42.36,
		Longitude:     -71.06,
		CreatedAt:     now,
		ReviewCount:   1,
		AverageRating: 5.0,
	}); err != nil {
		t.Fatalf("Upsert insert: %v", err)
	}

	got, err := repo.GetByID(ctx, "loc-1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ReviewCount != 1 || got.AverageRating != 5.0 || got.Latitude != 42.36 {
		t.Fatalf("unexpected location: %+v", got)
	}

	// Upsert replaces the stored record for the same ID.
	if err := repo.Upsert(ctx, locationrepoport.Location{
		ID:            "loc-1",
		Latitude:      42.36,
		Longitude:     -71.06,
		CreatedAt:     now,
		ReviewCount:   2,
		AverageRating: 4.0,
	}); err != nil {
		t.Fatalf("Upsert update: %v", err)
	}
	got, err = repo.GetByID(ctx, "loc-1")
	if err != nil || got.ReviewCount != 2 || got.AverageRating != 4.0 {
		t.Fatalf("after upsert: %+v err=%v", got, err)
	}

	// List ordering by CreatedAt then ID.
	if err := repo.Upsert(ctx, locationrepoport.Location{
		ID:            "loc-0",
		Latitude:      42.40,
		Longitude:     -71.10,
		CreatedAt:     now.Add(time.Hour),
		ReviewCount:   1,
		AverageRating: 3.0,
	}); err != nil {
		t.Fatalf("Upsert loc-0: %v", err)
	}
	ls, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(ls) != 2 || ls[0].ID != "loc-1" || ls[1].ID != "loc-0" {
		t.Fatalf("unexpected list: %+v", ls)
	}

	// Delete removes the aggregate entirely.
	if err := repo.Delete(ctx, "loc-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, "loc-1"); !errors.Is(err, locationrepoport.ErrNotFound) {
		t.Fatalf("GetByID after delete err=%v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, "loc-1"); !errors.Is(err, locationrepoport.ErrNotFound) {
		t.Fatalf("second Delete err=%v, want ErrNotFound", err)
	}
}
