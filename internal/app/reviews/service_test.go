package reviews

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	memclock "github.com/we-whacked/reviews-api/internal/adapters/memory/clock"
	memlocationrepo "github.com/we-whacked/reviews-api/internal/adapters/memory/locationrepo"
	memreviewrepo "github.com/we-whacked/reviews-api/internal/adapters/memory/reviewrepo"
	"github.com/we-whacked/reviews-api/internal/domain"
)

func newTestService() (*Service, *memclock.ManualClock) {
	clk := memclock.NewManualClock(time.Unix(100, 0).UTC())
	svc := NewService(memreviewrepo.NewRepo(), memlocationrepo.NewRepo(), clk)
	return svc, clk
}

func ptr(v float64) *float64 { return &v }

func createAt(t *testing.T, svc *Service, locationID string, lat, lng float64, rating int) domain.Review {
	t.Helper()
	rv, err := svc.CreateReview(context.Background(), CreateReviewInput{
		LocationID: locationID,
		Latitude:   ptr(lat),
		Longitude:  ptr(lng),
		Title:      "title",
		Content:    "content",
		Rating:     rating,
		Author:     "tester",
	})
	if err != nil {
		t.Fatalf("CreateReview(%s rating=%d) err=%v", locationID, rating, err)
	}
	return rv
}

func TestService_CreateReview_RoundTrip(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	created, err := svc.CreateReview(ctx, CreateReviewInput{
		LocationID: "loc1",
		Latitude:   ptr(42.3554),
		Longitude:  ptr(-71.0606),
		Title:      "Best spot downtown",
		Content:    "Clean, central, open late.",
		Rating:     5,
		Author:     "alice",
		Tags:       []string{"downtown", "clean"},
	})
	if err != nil {
		t.Fatalf("CreateReview err=%v", err)
	}
	if created.ID == "" {
		t.Fatalf("missing generated id")
	}
	if created.CreatedAt.IsZero() || !created.CreatedAt.Equal(created.UpdatedAt) {
		t.Fatalf("timestamps: created=%v updated=%v", created.CreatedAt, created.UpdatedAt)
	}

	got, err := svc.GetReview(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetReview err=%v", err)
	}
	if got.LocationID != "loc1" || got.Latitude != 42.3554 || got.Longitude != -71.0606 ||
		got.Title != "Best spot downtown" || got.Content != "Clean, central, open late." ||
		got.Rating != 5 || got.Author != "alice" {
		t.Fatalf("round-trip mismatch: %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "downtown" || got.Tags[1] != "clean" {
		t.Fatalf("tags=%v", got.Tags)
	}
}

func TestService_CreateReview_Validation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name       string
		in         CreateReviewInput
		wantFields []string
	}{
		{
			name:       "rating too low",
			in:         CreateReviewInput{LocationID: "l", Latitude: ptr(1), Longitude: ptr(1), Rating: 0},
			wantFields: []string{"rating"},
		},
		{
			name:       "rating too high",
			in:         CreateReviewInput{LocationID: "l", Latitude: ptr(1), Longitude: ptr(1), Rating: 6},
			wantFields: []string{"rating"},
		},
		{
			name:       "missing coordinates",
			in:         CreateReviewInput{LocationID: "l", Rating: 3},
			wantFields: []string{"latitude", "longitude"},
		},
		{
			name:       "latitude out of range",
			in:         CreateReviewInput{LocationID: "l", Latitude: ptr(91), Longitude: ptr(0), Rating: 3},
			wantFields: []string{"latitude"},
		},
		{
			name:       "empty location id",
			in:         CreateReviewInput{LocationID: "   ", Latitude: ptr(1), Longitude: ptr(1), Rating: 3},
			wantFields: []string{"location_id"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateReview(ctx, tc.in)
			ae := (*Error)(nil)
			if !errors.As(err, &ae) || ae.Status != 422 || ae.Code != "VALIDATION_ERROR" {
				t.Fatalf("err=%v, want VALIDATION_ERROR 422", err)
			}
			for _, f := range tc.wantFields {
				if _, ok := ae.Details[f]; !ok {
					t.Fatalf("details=%v, want field %q named", ae.Details, f)
				}
			}
		})
	}

	// A failed create must not leave any aggregate behind.
	if ls, err := svc.ListLocations(ctx); err != nil || len(ls) != 0 {
		t.Fatalf("locations=%v err=%v, want empty", ls, err)
	}
}

func TestService_AggregateTracksLiveReviews(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	// Two reviews at loc1 with ratings 5 and 3.
	r5 := createAt(t, svc, "loc1", 42.3554, -71.0606, 5)
	createAt(t, svc, "loc1", 42.3554, -71.0606, 3)

	loc, err := svc.GetLocation(ctx, "loc1")
	if err != nil {
		t.Fatalf("GetLocation err=%v", err)
	}
	if loc.ReviewCount != 2 || loc.AverageRating != 4.0 {
		t.Fatalf("count=%d avg=%v, want 2/4.0", loc.ReviewCount, loc.AverageRating)
	}

	// Deleting the rating-5 review leaves count=1, avg=3.0.
	if err := svc.DeleteReview(ctx, r5.ID); err != nil {
		t.Fatalf("DeleteReview err=%v", err)
	}
	loc, err = svc.GetLocation(ctx, "loc1")
	if err != nil {
		t.Fatalf("GetLocation err=%v", err)
	}
	if loc.ReviewCount != 1 || loc.AverageRating != 3.0 {
		t.Fatalf("count=%d avg=%v, want 1/3.0", loc.ReviewCount, loc.AverageRating)
	}
}

func TestService_AggregateConsistentAcrossSequences(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	ratings := []int{1, 5, 3, 4, 2, 5}
	var ids []domain.ReviewID
	live := map[domain.ReviewID]int{}

	check := func() {
		t.Helper()
		loc, err := svc.GetLocation(ctx, "loc1")
		if len(live) == 0 {
			ae := (*Error)(nil)
			if !errors.As(err, &ae) || ae.Status != 404 {
				t.Fatalf("err=%v, want 404 once all reviews deleted", err)
			}
			return
		}
		if err != nil {
			t.Fatalf("GetLocation err=%v", err)
		}
		sum := 0
		for _, r := range live {
			sum += r
		}
		wantAvg := domain.RoundAverage(float64(sum) / float64(len(live)))
		if loc.ReviewCount != len(live) || math.Abs(loc.AverageRating-wantAvg) > 1e-9 {
			t.Fatalf("count=%d avg=%v, want %d/%v", loc.ReviewCount, loc.AverageRating, len(live), wantAvg)
		}
	}

	for _, rating := range ratings {
		rv := createAt(t, svc, "loc1", 42.36, -71.06, rating)
		ids = append(ids, rv.ID)
		live[rv.ID] = rating
		check()
	}
	for _, id := range ids {
		if err := svc.DeleteReview(ctx, id); err != nil {
			t.Fatalf("DeleteReview err=%v", err)
		}
		delete(live, id)
		check()
	}
}

func TestService_DeleteTwice(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	rv := createAt(t, svc, "loc1", 42.36, -71.06, 4)
	if err := svc.DeleteReview(ctx, rv.ID); err != nil {
		t.Fatalf("first delete err=%v", err)
	}
	err := svc.DeleteReview(ctx, rv.ID)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "REVIEW_NOT_FOUND" {
		t.Fatalf("second delete err=%v, want REVIEW_NOT_FOUND 404", err)
	}
}

func TestService_LastDeleteRemovesLocation(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	rv := createAt(t, svc, "loc1", 42.36, -71.06, 4)
	createAt(t, svc, "loc2", 42.40, -71.10, 2)

	if err := svc.DeleteReview(ctx, rv.ID); err != nil {
		t.Fatalf("DeleteReview err=%v", err)
	}

	ls, err := svc.ListLocations(ctx)
	if err != nil {
		t.Fatalf("ListLocations err=%v", err)
	}
	if len(ls) != 1 || ls[0].ID != "loc2" {
		t.Fatalf("locations=%+v, want only loc2", ls)
	}
	if _, err := svc.GetLocation(ctx, "loc1"); err == nil {
		t.Fatalf("expected loc1 gone")
	}
}

func TestService_LocationPinsFirstSeenCoordinates(t *testing.T) {
	t.Parallel()
	svc, clk := newTestService()
	ctx := context.Background()

	createAt(t, svc, "loc1", 42.3554, -71.0606, 5)
	firstCreated := clk.Now()
	clk.Advance(time.Hour)
	// Same identifier, different coordinate: the aggregate must not move.
	createAt(t, svc, "loc1", 42.40, -71.10, 3)

	loc, err := svc.GetLocation(ctx, "loc1")
	if err != nil {
		t.Fatalf("GetLocation err=%v", err)
	}
	if loc.Latitude != 42.3554 || loc.Longitude != -71.0606 {
		t.Fatalf("coordinates drifted: %+v", loc)
	}
	if !loc.CreatedAt.Equal(firstCreated) {
		t.Fatalf("createdAt=%v, want %v", loc.CreatedAt, firstCreated)
	}
}

func TestService_NearbyBoundary(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	createAt(t, svc, "near", 42.36, -71.06, 4)
	createAt(t, svc, "far", 42.40, -71.10, 4)

	// Radius 2 from (42.36,-71.06) includes only "near".
	ls, err := svc.NearbyLocations(ctx, 42.36, -71.06, 2)
	if err != nil {
		t.Fatalf("NearbyLocations err=%v", err)
	}
	if len(ls) != 1 || ls[0].ID != "near" {
		t.Fatalf("nearby=%+v, want only near", ls)
	}

	// A location at exactly the radius distance is included; at radius-ε
	// it is excluded.
	d := domain.HaversineMiles(42.36, -71.06, 42.40, -71.10)
	ls, err = svc.NearbyLocations(ctx, 42.36, -71.06, d)
	if err != nil {
		t.Fatalf("NearbyLocations err=%v", err)
	}
	if len(ls) != 2 {
		t.Fatalf("nearby=%+v, want both at exact radius", ls)
	}
	ls, err = svc.NearbyLocations(ctx, 42.36, -71.06, d*(1-1e-9))
	if err != nil {
		t.Fatalf("NearbyLocations err=%v", err)
	}
	if len(ls) != 1 {
		t.Fatalf("nearby=%+v, want far excluded just inside radius", ls)
	}
}

func TestService_NearbyDegenerateRadius(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	createAt(t, svc, "loc1", 42.36, -71.06, 4)

	for _, radius := range []float64{0, -1} {
		ls, err := svc.NearbyLocations(ctx, 42.36, -71.06, radius)
		if err != nil {
			t.Fatalf("radius=%v err=%v, want empty result", radius, err)
		}
		if len(ls) != 0 {
			t.Fatalf("radius=%v got %+v, want empty", radius, ls)
		}
	}
}

func TestService_NearbyValidatesCenter(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()

	_, err := svc.NearbyLocations(context.Background(), 91, 0, 5)
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 422 {
		t.Fatalf("err=%v, want VALIDATION_ERROR 422", err)
	}
	if _, ok := ae.Details["latitude"]; !ok {
		t.Fatalf("details=%v, want latitude named", ae.Details)
	}
}

func TestService_GetLocationWithReviews(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	createAt(t, svc, "loc1", 42.36, -71.06, 5)
	createAt(t, svc, "loc1", 42.36, -71.06, 3)
	createAt(t, svc, "loc2", 42.40, -71.10, 1)

	lr, err := svc.GetLocationWithReviews(ctx, "loc1")
	if err != nil {
		t.Fatalf("GetLocationWithReviews err=%v", err)
	}
	if lr.Location.ReviewCount != 2 || len(lr.Reviews) != 2 {
		t.Fatalf("count=%d reviews=%d, want 2/2", lr.Location.ReviewCount, len(lr.Reviews))
	}

	_, err = svc.GetLocationWithReviews(ctx, "missing")
	ae := (*Error)(nil)
	if !errors.As(err, &ae) || ae.Status != 404 || ae.Code != "LOCATION_NOT_FOUND" {
		t.Fatalf("err=%v, want LOCATION_NOT_FOUND 404", err)
	}
}

func TestService_Stats(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	// Empty corpus: no average, no top locations.
	st, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats err=%v", err)
	}
	if st.TotalReviews != 0 || st.TotalLocations != 0 || st.AverageRating != nil {
		t.Fatalf("empty stats: %+v", st)
	}

	for i := 0; i < 7; i++ {
		locID := fmt.Sprintf("loc%d", i)
		for j := 0; j <= i%3; j++ {
			createAt(t, svc, locID, 42.0+float64(i)/100, -71.0, 3)
		}
	}

	st, err = svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats err=%v", err)
	}
	if st.TotalLocations != 7 {
		t.Fatalf("totalLocations=%d, want 7", st.TotalLocations)
	}
	if st.AverageRating == nil || *st.AverageRating != 3.0 {
		t.Fatalf("averageRating=%v, want 3.0", st.AverageRating)
	}
	if len(st.TopReviewedLocations) != 5 {
		t.Fatalf("top list len=%d, want 5", len(st.TopReviewedLocations))
	}
	for i := 1; i < len(st.TopReviewedLocations); i++ {
		if st.TopReviewedLocations[i-1].ReviewCount < st.TopReviewedLocations[i].ReviewCount {
			t.Fatalf("top list not sorted desc: %+v", st.TopReviewedLocations)
		}
	}
}

func TestService_ListReviewsByLocation_CaseSensitive(t *testing.T) {
	t.Parallel()
	svc, _ := newTestService()
	ctx := context.Background()

	createAt(t, svc, "Loc1", 42.36, -71.06, 4)

	rs, err := svc.ListReviewsByLocation(ctx, "loc1")
	if err != nil {
		t.Fatalf("ListReviewsByLocation err=%v", err)
	}
	if len(rs) != 0 {
		t.Fatalf("case-insensitive match leaked: %+v", rs)
	}
}
