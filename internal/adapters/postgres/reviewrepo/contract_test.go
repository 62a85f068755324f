package reviewrepo

import (
	"testing"

	"github.com/we-whacked/reviews-api/internal/adapters/contracttest"
	"github.com/we-whacked/reviews-api/internal/adapters/postgres/testutil"
	reviewrepoport "github.com/we-whacked/reviews-api/internal/ports/out/reviewrepo"
)

func TestRepo_Contract(t *testing.T) {
	contracttest.RunReviewRepo(t, func(t *testing.T) (reviewrepoport.Repository, contracttest.CleanupFunc) {
		pool := testutil.NewPool(t, "reviews")
		return NewRepo(pool), nil
	})
}
