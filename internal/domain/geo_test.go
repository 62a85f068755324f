package domain

import (
	"math"
	"testing"
)

func TestHaversineMiles_ZeroDistance(t *testing.T) {
	t.Parallel()

	d := HaversineMiles(42.3554, -71.0606, 42.3554, -71.0606)
	if d != 0 {
		t.Fatalf("distance=%v, want 0", d)
	}
}

func TestHaversineMiles_KnownDistances(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantMiles              float64
		tolerance              float64
	}{
		{
			// Downtown Crossing to Harvard Square, roughly 3.2 miles.
			name: "boston to cambridge",
			lat1: 42.3554, lng1: -71.0606,
			lat2: 42.3735, lng2: -71.1194,
			wantMiles: 3.2,
			tolerance: 0.2,
		},
		{
			// One degree of latitude is ~69.09 miles at this radius.
			name: "one degree latitude",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			wantMiles: 69.09,
			tolerance: 0.05,
		},
		{
			name: "antipodal half circumference",
			lat1: 0, lng1: 0,
			lat2: 0, lng2: 180,
			wantMiles: math.Pi * EarthRadiusMiles,
			tolerance: 0.01,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HaversineMiles(tc.lat1, tc.lng1, tc.lat2, tc.lng2)
			if math.Abs(got-tc.wantMiles) > tc.tolerance {
				t.Fatalf("distance=%v, want %v±%v", got, tc.wantMiles, tc.tolerance)
			}
		})
	}
}

func TestHaversineMiles_Symmetric(t *testing.T) {
	t.Parallel()

	a := HaversineMiles(42.36, -71.06, 42.40, -71.10)
	b := HaversineMiles(42.40, -71.10, 42.36, -71.06)
	if math.Abs(a-b) > 1e-9 {
		t.Fatalf("asymmetric distance: %v vs %v", a, b)
	}
}

func TestValidCoordinate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		lat, lng float64
		want     bool
	}{
		{42.3554, -71.0606, true},
		{90, 180, true},
		{-90, -180, true},
		{90.0001, 0, false},
		{0, -180.0001, false},
		{math.NaN(), 0, false},
		{0, math.Inf(1), false},
	}
	for _, tc := range cases {
		if got := ValidCoordinate(tc.lat, tc.lng); got != tc.want {
			t.Fatalf("ValidCoordinate(%v, %v)=%v, want %v", tc.lat, tc.lng, got, tc.want)
		}
	}
}

func TestRoundAverage_HalfToEven(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want float64
	}{
		{4.0, 4.0},
		{3.333333, 3.3},
		{3.666666, 3.7},
		{3.25, 3.2}, // half rounds to even
		{3.35, 3.4},
		{4.05, 4.0},
	}
	for _, tc := range cases {
		if got := RoundAverage(tc.in); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("RoundAverage(%v)=%v, want %v", tc.in, got, tc.want)
		}
	}
}
