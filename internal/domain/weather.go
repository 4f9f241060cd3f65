// Package domain contains the core estimation logic of the weather API:
// observation aggregation, adaptive station selection, inverse-distance
// blending and quality grading. Everything here is pure computation over
// already-parsed SMHI data; fetching and caching live in other packages.
package domain

import "math"

// Resolution selects the temporal bucketing of aggregated observations.
type Resolution string

const (
	// ResolutionDay buckets observations by day of year (366 points).
	ResolutionDay Resolution = "day"
	// ResolutionMonth buckets observations by calendar month (12 points).
	ResolutionMonth Resolution = "month"
	// ResolutionYear buckets observations by calendar year.
	ResolutionYear Resolution = "year"
)

// Resolutions lists every supported resolution in pre-warm order.
var Resolutions = []Resolution{ResolutionDay, ResolutionMonth, ResolutionYear}

// NormalizeResolution coerces unknown resolution strings to month, the
// default presentation in the UI.
func NormalizeResolution(s string) Resolution {
	switch Resolution(s) {
	case ResolutionDay, ResolutionMonth, ResolutionYear:
		return Resolution(s)
	}
	return ResolutionMonth
}

// Row is a single observation parsed from an SMHI CSV archive.
type Row struct {
	Date    string // YYYY-MM-DD
	Time    string // HH:MM:SS
	Value   float64
	Quality string // SMHI quality flag (G, Y or R)
}

// Candidate is a station ranked by its distance to a query coordinate.
type Candidate struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
}

// SelectedStation is a candidate chosen by the adaptive selector together
// with its inverse-distance weight. RawWeight is the unnormalized 1/d²
// value; Weight is filled in later once the surviving set is known.
type SelectedStation struct {
	Station   Candidate `json:"station"`
	RawWeight float64   `json:"raw_weight"`
	Weight    float64   `json:"weight"`
}

// CatalogStation is one entry of the merged station catalog covering both
// observation parameters.
type CatalogStation struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	HasCloudData     bool    `json:"has_cloud_data"`
	HasLightningData bool    `json:"has_lightning_data"`
}

// Point is one aggregated time bucket. Nil pointer fields serialize as
// JSON null and mean "no observations contributed".
type Point struct {
	Label                string   `json:"label"`
	CloudCoverageAvg     *float64 `json:"cloud_coverage_avg"`
	LightningProbability *float64 `json:"lightning_probability"`
	LightningLower       *float64 `json:"lightning_lower"`
	LightningUpper       *float64 `json:"lightning_upper"`
	ObsCount             int      `json:"obs_count"`
	LightningObsCount    int      `json:"lightning_obs_count"`
}

// StationResult is the aggregated series for a single station.
type StationResult struct {
	StationID        string     `json:"station_id"`
	Resolution       Resolution `json:"resolution"`
	HasLightningData bool       `json:"has_lightning_data"`
	Points           []Point    `json:"points"`
}

// StationContribution describes one station's share of a blended estimate.
type StationContribution struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	DistanceKm float64 `json:"distance_km"`
	WeightPct  float64 `json:"weight_pct"`
}

// LocationResult is the blended estimate for an exact coordinate.
type LocationResult struct {
	HasLightningData  bool                  `json:"has_lightning_data"`
	Resolution        Resolution            `json:"resolution"`
	Points            []Point               `json:"points"`
	CloudStations     []StationContribution `json:"cloud_stations"`
	LightningStations []StationContribution `json:"lightning_stations"`
	Quality           Quality               `json:"quality"`
}

// MonthNames holds the English three-letter month abbreviations used as
// point labels.
var MonthNames = [12]string{
	"Jan", "Feb", "Mar", "Apr", "May", "Jun",
	"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
}

// daysInMonth includes Feb 29 so the day resolution always spans 366
// labels regardless of which years contributed observations.
var daysInMonth = [12]int{31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}

// ptr returns a pointer to v, for the nullable point fields.
func ptr(v float64) *float64 {
	return &v
}
