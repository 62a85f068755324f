package locationrepo

import (
	"testing"

	"github.com/we-whacked/reviews-api/internal/adapters/contracttest"
	"github.com/we-whacked/reviews-api/internal/adapters/postgres/testutil"
	locationrepoport "github.com/we-whacked/reviews-api/internal/ports/out/locationrepo"
)

func TestRepo_Contract(t *testing.T) {
	contracttest.RunLocationRepo(t, func(t *testing.T) (locationrepoport.Repository, contracttest.CleanupFunc) {
		pool := testutil.NewPool(t, "locations")
		return NewRepo(pool), nil
	})
}
