package domain

import (
	"math"
	"strconv"
	"strings"
	"testing"
)

// qualityStation builds a selected station with a pre-normalized weight.
func qualityStation(id, name string, lat, lng, dist, weight float64) SelectedStation {
	return SelectedStation{
		Station:   Candidate{ID: id, Name: name, Latitude: lat, Longitude: lng, DistanceKm: dist},
		RawWeight: weight,
		Weight:    weight,
	}
}

// yearlyCloudPoints builds synthetic yearly points with a fixed cloud
// observation count.
func yearlyCloudPoints(count, obsPerPoint int) []Point {
	pts := make([]Point, count)
	for i := range pts {
		pts[i] = Point{Label: strconv.Itoa(1940 + i), ObsCount: obsPerPoint}
	}
	return pts
}

// yearlyLightningPoints builds synthetic yearly points with a fixed
// present-weather observation count.
func yearlyLightningPoints(count, obsPerPoint int) []Point {
	pts := make([]Point, count)
	for i := range pts {
		pts[i] = Point{Label: strconv.Itoa(1940 + i), LightningObsCount: obsPerPoint}
	}
	return pts
}

// A single close station with deep yearly data grades high across the
// board, with the dominant-station sentence explaining the estimate.
func TestComputeQuality_CloseDominantStation(t *testing.T) {
	cloudSD := []SelectedStation{qualityStation("C1", "Near", 59.35, 18.10, 5.0, 1.0)}
	lightningSD := []SelectedStation{qualityStation("W1", "Near", 59.34, 18.08, 3.0, 1.0)}

	q := ComputeQuality(
		yearlyCloudPoints(80, 2500), yearlyLightningPoints(80, 2500),
		ResolutionYear, cloudSD, lightningSD, 59.33, 18.07,
	)

	if q.Level != "high" {
		t.Errorf("expected overall level high, got %q", q.Level)
	}
	if q.Cloud.StationCoverage.Level != "good" {
		t.Errorf("expected good cloud station coverage, got %q", q.Cloud.StationCoverage.Level)
	}
	if q.Cloud.HistoricalData.Level != "good" {
		t.Errorf("expected good cloud historical data, got %q", q.Cloud.HistoricalData.Level)
	}
	if !strings.Contains(q.Cloud.StationCoverage.Summary, "almost entirely on the nearby Near station") {
		t.Errorf("expected dominant-station summary, got %q", q.Cloud.StationCoverage.Summary)
	}
	if !strings.Contains(q.Cloud.HistoricalData.Summary, "Every time period has real observations.") {
		t.Errorf("expected full-coverage summary, got %q", q.Cloud.HistoricalData.Summary)
	}
}

// The overall level equals the worst factor across both dimensions: a
// distant lightning network drags an otherwise good estimate to low.
func TestComputeQuality_OverallIsWorstFactor(t *testing.T) {
	cloudSD := []SelectedStation{qualityStation("C1", "Near", 59.35, 18.10, 5.0, 1.0)}
	lightningSD := []SelectedStation{qualityStation("W1", "Far", 65.0, 20.0, 500.0, 1.0)}

	q := ComputeQuality(
		yearlyCloudPoints(80, 2500), yearlyLightningPoints(80, 2500),
		ResolutionYear, cloudSD, lightningSD, 59.33, 18.07,
	)

	if q.Level != "low" {
		t.Errorf("expected overall level low from poor lightning coverage, got %q", q.Level)
	}
	if q.Lightning.StationCoverage.Level != "poor" {
		t.Errorf("expected poor lightning station coverage, got %q", q.Lightning.StationCoverage.Level)
	}
}

// Without any lightning stations the overall level caps at medium and
// the lightning dimension explains why.
func TestComputeQuality_NoLightningStationsCapsAtMedium(t *testing.T) {
	cloudSD := []SelectedStation{qualityStation("C1", "Near", 59.35, 18.10, 5.0, 1.0)}

	q := ComputeQuality(
		yearlyCloudPoints(80, 2500), nil,
		ResolutionYear, cloudSD, nil, 59.33, 18.07,
	)

	if q.Level != "medium" {
		t.Errorf("expected overall level medium, got %q", q.Level)
	}
	if q.Lightning.StationCoverage.Level != "poor" {
		t.Errorf("expected poor lightning station coverage, got %q", q.Lightning.StationCoverage.Level)
	}
	if q.Lightning.StationCoverage.Summary != "No nearby stations record lightning observations." {
		t.Errorf("unexpected lightning coverage summary %q", q.Lightning.StationCoverage.Summary)
	}
	if q.Lightning.HistoricalData.Summary != "No lightning data is available for this area." {
		t.Errorf("unexpected lightning data summary %q", q.Lightning.HistoricalData.Summary)
	}
}

// A single station 150 km out grades poor on proximity.
func TestComputeQuality_FarStationIsPoor(t *testing.T) {
	sd := []SelectedStation{qualityStation("S1", "Far", 60.50, 20.0, 150.0, 1.0)}

	q := ComputeQuality(
		yearlyCloudPoints(80, 2500), yearlyLightningPoints(80, 2500),
		ResolutionYear, sd, sd, 59.33, 18.07,
	)

	if q.Cloud.StationCoverage.Level != "poor" {
		t.Errorf("expected poor station coverage, got %q", q.Cloud.StationCoverage.Level)
	}
	if q.Level != "low" {
		t.Errorf("expected overall level low, got %q", q.Level)
	}
	if !strings.Contains(q.Cloud.StationCoverage.Summary, "no nearby stations") {
		t.Errorf("expected far-station summary, got %q", q.Cloud.StationCoverage.Summary)
	}
}

// A station holding 95% of the weight overrides the directional grade:
// angular spread is meaningless when one source dominates.
func TestComputeQuality_DominantStationOverridesDirection(t *testing.T) {
	sd := []SelectedStation{
		qualityStation("S1", "Dominant", 59.35, 18.10, 5.0, 0.95),
		qualityStation("S2", "Minor", 59.50, 18.30, 20.0, 0.05),
	}

	q := ComputeQuality(
		yearlyCloudPoints(80, 2500), yearlyLightningPoints(80, 2500),
		ResolutionYear, sd, sd, 59.33, 18.07,
	)

	if q.Cloud.StationCoverage.Level != "good" {
		t.Errorf("expected good station coverage despite one-sided stations, got %q",
			q.Cloud.StationCoverage.Level)
	}
	// When the override fires, the score falls back to the raw proximity
	// value instead of averaging in the directional score.
	if math.Abs(q.Cloud.StationCoverage.Value-97.1) > 1e-9 {
		t.Errorf("expected coverage value 97.1, got %v", q.Cloud.StationCoverage.Value)
	}
}

// A 60-85% station promotes the directional grade one level and the
// summary names the direction the stations cluster in.
func TestComputeQuality_StrongStationPromotesDirection(t *testing.T) {
	sd := []SelectedStation{
		qualityStation("S1", "North-1", 60.0, 18.07, 50.0, 0.6),
		qualityStation("S2", "North-2", 60.5, 18.07, 100.0, 0.4),
	}

	q := ComputeQuality(
		yearlyCloudPoints(80, 2500), yearlyLightningPoints(80, 2500),
		ResolutionYear, sd, sd, 59.33, 18.07,
	)

	// Both stations sit due north: spread 0 grades poor, promoted to
	// fair by the 0.6-weight station. Proximity averages 70 km, fair.
	if q.Cloud.StationCoverage.Level != "fair" {
		t.Errorf("expected fair station coverage, got %q", q.Cloud.StationCoverage.Level)
	}
	if !strings.Contains(q.Cloud.StationCoverage.Summary, "all to the north") {
		t.Errorf("expected summary naming north, got %q", q.Cloud.StationCoverage.Summary)
	}
}

// Points with no observations at all grade poor historical data.
func TestComputeQuality_SparseDataIsPoor(t *testing.T) {
	sd := []SelectedStation{qualityStation("S1", "Near", 59.35, 18.10, 5.0, 1.0)}

	q := ComputeQuality(
		yearlyCloudPoints(80, 0), yearlyLightningPoints(80, 0),
		ResolutionYear, sd, sd, 59.33, 18.07,
	)

	if q.Cloud.HistoricalData.Level != "poor" {
		t.Errorf("expected poor historical data, got %q", q.Cloud.HistoricalData.Level)
	}
	if !strings.Contains(q.Cloud.HistoricalData.Summary, "significant gaps") {
		t.Errorf("expected gaps summary, got %q", q.Cloud.HistoricalData.Summary)
	}
}

// Observation depth is graded against the per-resolution baseline: 2500
// observations per year point is deep, 50 is shallow.
func TestComputeQuality_DepthUsesResolutionBaseline(t *testing.T) {
	sd := []SelectedStation{qualityStation("S1", "Near", 59.35, 18.10, 5.0, 1.0)}

	deep := ComputeQuality(
		yearlyCloudPoints(80, 2500), yearlyLightningPoints(80, 2500),
		ResolutionYear, sd, sd, 59.33, 18.07,
	)
	shallow := ComputeQuality(
		yearlyCloudPoints(80, 50), yearlyLightningPoints(80, 50),
		ResolutionYear, sd, sd, 59.33, 18.07,
	)

	if deep.Cloud.HistoricalData.Level != "good" {
		t.Errorf("expected good depth at 2500 obs/point, got %q", deep.Cloud.HistoricalData.Level)
	}
	// 100% coverage with 2.5% depth still grades poor: the factor level
	// follows its worst component.
	if shallow.Cloud.HistoricalData.Level != "poor" {
		t.Errorf("expected poor depth at 50 obs/point, got %q", shallow.Cloud.HistoricalData.Level)
	}
}

// No points at all still returns a fully formed quality record.
func TestComputeQuality_EmptyPoints(t *testing.T) {
	sd := []SelectedStation{qualityStation("S1", "Near", 59.35, 18.10, 5.0, 1.0)}

	q := ComputeQuality(nil, nil, ResolutionYear, sd, nil, 59.33, 18.07)

	if q.Level != "low" {
		t.Errorf("expected overall level low, got %q", q.Level)
	}
	if q.Cloud.HistoricalData.Value != 0 {
		t.Errorf("expected zero historical value, got %v", q.Cloud.HistoricalData.Value)
	}
	if q.Cloud.HistoricalData.Level != "poor" {
		t.Errorf("expected poor historical data, got %q", q.Cloud.HistoricalData.Level)
	}
}

// The empty-quality record used for locations without any stations.
func TestEmptyQuality(t *testing.T) {
	q := EmptyQuality()
	if q.Level != "low" {
		t.Errorf("expected level low, got %q", q.Level)
	}
	if q.Cloud.StationCoverage.Summary != "No station data available." {
		t.Errorf("unexpected coverage summary %q", q.Cloud.StationCoverage.Summary)
	}
	if q.Lightning.HistoricalData.Summary != "No historical data available." {
		t.Errorf("unexpected data summary %q", q.Lightning.HistoricalData.Summary)
	}
}
