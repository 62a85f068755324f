package reviewrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/we-whacked/reviews-api/internal/adapters/contracttest"
	"github.com/we-whacked/reviews-api/internal/domain"
	reviewrepoport "github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

func TestRepo_Contract(t *testing.T) {
	t.Parallel()

	contracttest.RunReviewRepo(t, func(t *testing.T) (reviewrepoport.Repository, contracttest.CleanupFunc) {
		repo, err := NewRepo(filepath.Join(t.TempDir(), "reviews.json"))
		if err != nil {
			t.Fatalf("NewRepo: %v", err)
		}
		return repo, nil
	})
}

func TestRepo_CreatesEmptySnapshotOnFirstAccess(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "reviews.json")
	if _, err := NewRepo(path); err != nil {
		t.Fatalf("NewRepo: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("snapshot not created: %v", err)
	}
	if string(b) == "" {
		t.Fatalf("empty snapshot file")
	}
}

func TestRepo_SurvivesRestart(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "reviews.json")
	repo, err := NewRepo(path)
	if err != nil {
		t.Fatalf("NewRepo: %v", err)
	}

	now := time.Unix(1000, 0).UTC()
	rv := reviewrepoport.Review{
		ID:         "11111111-1111-1111-1111-111111111111",
		LocationID: "loc-1",
		Latitude:   42.3554,
		Longitude:  -71.0606,
		Title:      "t",
		Rating:     4,
		Tags:       []string{"a"},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := repo.Create(ctx, rv); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// A fresh repo over the same path sees the persisted state.
	repo2, err := NewRepo(path)
	if err != nil {
		t.Fatalf("NewRepo reopen: %v", err)
	}
	got, err := repo2.GetByID(ctx, rv.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Title != "t" || got.Rating != 4 || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected reloaded review: %+v", got)
	}
}

func TestRepo_LeavesNoTempFilesBehind(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	dir := t.TempDir()
	repo, err := NewRepo(filepath.Join(dir, "reviews.json"))
	if err != nil {
		t.Fatalf("NewRepo: %v", err)
	}
	now := time.Unix(1000, 0).UTC()
	for i, id := range []string{
		"11111111-1111-1111-1111-111111111111",
		"22222222-2222-2222-2222-222222222222",
	} {
		if err := repo.Create(ctx, reviewrepoport.Review{
			ID:         domain.ReviewID(id),
			LocationID: "loc-1",
			Rating:     i + 1,
			CreatedAt:  now,
			UpdatedAt:  now,
		}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "reviews.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("unexpected files: %v", names)
	}
}
