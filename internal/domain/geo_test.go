package domain

import (
	"math"
	"testing"
)

// Stockholm to Gothenburg is roughly 398 km in a straight line.
func TestHaversineKm_KnownDistance(t *testing.T) {
	got := HaversineKm(59.3293, 18.0686, 57.7089, 11.9746)
	if math.Abs(got-398) > 5 {
		t.Errorf("expected roughly 398 km, got %.1f", got)
	}
}

func TestHaversineKm_SamePoint(t *testing.T) {
	if got := HaversineKm(59.33, 18.07, 59.33, 18.07); got != 0 {
		t.Errorf("expected 0 km, got %v", got)
	}
}

// Bearings from the origin to its four cardinal neighbours.
func TestBearing_CardinalDirections(t *testing.T) {
	cases := []struct {
		lat, lng float64
		want     float64
	}{
		{1, 0, 0},
		{0, 1, 90},
		{-1, 0, 180},
		{0, -1, 270},
	}
	for _, c := range cases {
		got := bearing(0, 0, c.lat, c.lng)
		if math.Abs(got-c.want) > 0.01 {
			t.Errorf("bearing to (%v, %v): expected %v, got %v", c.lat, c.lng, c.want, got)
		}
	}
}

// Angular spread measures the horizon arc covered by a set of bearings.
func TestAngularSpread(t *testing.T) {
	cases := []struct {
		name     string
		bearings []float64
		want     float64
	}{
		{"no bearings", nil, 0},
		{"single bearing", []float64{45}, 0},
		{"quarter circle", []float64{0, 90}, 90},
		{"opposite sides", []float64{0, 180}, 180},
		{"even thirds", []float64{0, 120, 240}, 240},
		{"cluster across north", []float64{350, 10}, 20},
	}
	for _, c := range cases {
		if got := angularSpread(c.bearings); math.Abs(got-c.want) > 1e-9 {
			t.Errorf("%s: expected spread %v, got %v", c.name, c.want, got)
		}
	}
}

// Compass naming follows the 16-wind rose, wrapping back to north.
func TestCompassDirection(t *testing.T) {
	cases := []struct {
		bearing float64
		want    string
	}{
		{0, "north"},
		{22.5, "north-northeast"},
		{45, "northeast"},
		{90, "east"},
		{135, "southeast"},
		{180, "south"},
		{225, "southwest"},
		{270, "west"},
		{315, "northwest"},
		{350, "north"},
	}
	for _, c := range cases {
		if got := compassDirection(c.bearing); got != c.want {
			t.Errorf("compassDirection(%v): expected %q, got %q", c.bearing, c.want, got)
		}
	}
}

// The weighted mean of bearings straddling north lands near north, not
// at the arithmetic mean of 180.
func TestWeightedMeanBearing_WrapsAcrossNorth(t *testing.T) {
	got := weightedMeanBearing([]float64{350, 10}, []float64{0.5, 0.5})
	if d := math.Min(got, 360-got); d > 0.01 {
		t.Errorf("expected mean near north, got %v", got)
	}
}

// Heavier weights pull the mean toward their bearing.
func TestWeightedMeanBearing_FollowsWeight(t *testing.T) {
	got := weightedMeanBearing([]float64{0, 90}, []float64{0.9, 0.1})
	if got <= 0 || got >= 45 {
		t.Errorf("expected mean between north and northeast, got %v", got)
	}
}
