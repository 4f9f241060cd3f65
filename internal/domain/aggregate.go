package domain

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// minObsForInterval is the smallest weather-bucket size for which a
// confidence interval is reported. Below it the normal approximation
// behind the Wilson score is too shaky to show users.
const minObsForInterval = 30

// weatherBucket counts present-weather observations in one time bucket
// and the subset that reported lightning.
type weatherBucket struct {
	total     int
	lightning int
}

// Aggregate buckets raw cloud-coverage and present-weather rows into
// points at the requested resolution. The returned flag reports whether
// the station has present-weather data at all; when it is false every
// lightning field in the points is nil.
func Aggregate(cloudRows, weatherRows []Row, resolution Resolution) ([]Point, bool) {
	hasLightning := len(weatherRows) > 0
	var points []Point
	switch resolution {
	case ResolutionDay:
		points = aggregateDaily(cloudRows, weatherRows, hasLightning)
	case ResolutionYear:
		points = aggregateYearly(cloudRows, weatherRows, hasLightning)
	default:
		points = aggregateMonthly(cloudRows, weatherRows, hasLightning)
	}
	return points, hasLightning
}

// aggregateMonthly produces exactly 12 points labeled Jan through Dec.
func aggregateMonthly(cloudRows, weatherRows []Row, hasLightning bool) []Point {
	cloud := make(map[int][]float64)
	for _, row := range cloudRows {
		_, m, _, ok := dateParts(row.Date)
		if !ok || m < 1 || m > 12 {
			continue
		}
		cloud[m] = append(cloud[m], row.Value)
	}

	weather := make(map[int]weatherBucket)
	for _, row := range weatherRows {
		_, m, _, ok := dateParts(row.Date)
		if !ok || m < 1 || m > 12 {
			continue
		}
		b := weather[m]
		b.total++
		if IsLightningCode(row.Value) {
			b.lightning++
		}
		weather[m] = b
	}

	points := make([]Point, 0, 12)
	for m := 1; m <= 12; m++ {
		points = append(points, makePoint(MonthNames[m-1], cloud[m], weather[m], hasLightning))
	}
	return points
}

// aggregateDaily produces exactly 366 points labeled "Jan 01" through
// "Dec 31". Feb 29 is always present; in stations without leap-year
// observations it simply has no data.
func aggregateDaily(cloudRows, weatherRows []Row, hasLightning bool) []Point {
	type monthDay struct{ month, day int }

	cloud := make(map[monthDay][]float64)
	for _, row := range cloudRows {
		_, m, d, ok := dateParts(row.Date)
		if !ok || m < 1 || m > 12 || d < 1 || d > daysInMonth[m-1] {
			continue
		}
		key := monthDay{m, d}
		cloud[key] = append(cloud[key], row.Value)
	}

	weather := make(map[monthDay]weatherBucket)
	for _, row := range weatherRows {
		_, m, d, ok := dateParts(row.Date)
		if !ok || m < 1 || m > 12 || d < 1 || d > daysInMonth[m-1] {
			continue
		}
		key := monthDay{m, d}
		b := weather[key]
		b.total++
		if IsLightningCode(row.Value) {
			b.lightning++
		}
		weather[key] = b
	}

	points := make([]Point, 0, 366)
	for m := 1; m <= 12; m++ {
		for d := 1; d <= daysInMonth[m-1]; d++ {
			key := monthDay{m, d}
			label := fmt.Sprintf("%s %02d", MonthNames[m-1], d)
			points = append(points, makePoint(label, cloud[key], weather[key], hasLightning))
		}
	}
	return points
}

// aggregateYearly produces one point per calendar year that has at least
// one observation of either parameter, sorted ascending.
func aggregateYearly(cloudRows, weatherRows []Row, hasLightning bool) []Point {
	cloud := make(map[int][]float64)
	for _, row := range cloudRows {
		y, _, _, ok := dateParts(row.Date)
		if !ok {
			continue
		}
		cloud[y] = append(cloud[y], row.Value)
	}

	weather := make(map[int]weatherBucket)
	for _, row := range weatherRows {
		y, _, _, ok := dateParts(row.Date)
		if !ok {
			continue
		}
		b := weather[y]
		b.total++
		if IsLightningCode(row.Value) {
			b.lightning++
		}
		weather[y] = b
	}

	years := make([]int, 0, len(cloud)+len(weather))
	for y := range cloud {
		years = append(years, y)
	}
	for y := range weather {
		if _, seen := cloud[y]; !seen {
			years = append(years, y)
		}
	}
	sort.Ints(years)

	points := make([]Point, 0, len(years))
	for _, y := range years {
		points = append(points, makePoint(strconv.Itoa(y), cloud[y], weather[y], hasLightning))
	}
	return points
}

// makePoint builds one aggregated point from a cloud value list and a
// weather bucket. Fields without contributing observations stay nil.
func makePoint(label string, cloudValues []float64, wb weatherBucket, hasLightning bool) Point {
	p := Point{
		Label:             label,
		ObsCount:          len(cloudValues),
		LightningObsCount: wb.total,
	}

	if len(cloudValues) > 0 {
		sum := 0.0
		for _, v := range cloudValues {
			sum += v
		}
		p.CloudCoverageAvg = ptr(roundTo(sum/float64(len(cloudValues)), 1))
	}

	if hasLightning && wb.total > 0 {
		p.LightningProbability = ptr(roundTo(float64(wb.lightning)/float64(wb.total)*100, 2))
		if wb.total >= minObsForInterval {
			lower, upper := wilsonInterval(wb.lightning, wb.total)
			p.LightningLower = ptr(lower)
			p.LightningUpper = ptr(upper)
		}
	}
	return p
}

// wilsonInterval returns the 95% Wilson score interval for hits out of
// total, as percentages rounded to two decimals and clamped to [0, 100].
func wilsonInterval(hits, total int) (lower, upper float64) {
	const z = 1.96
	n := float64(total)
	pHat := float64(hits) / n
	denom := 1 + z*z/n
	center := (pHat + z*z/(2*n)) / denom
	margin := z / denom * math.Sqrt(pHat*(1-pHat)/n+z*z/(4*n*n))
	lower = roundTo(math.Max(0, (center-margin)*100), 2)
	upper = roundTo(math.Min(100, (center+margin)*100), 2)
	return lower, upper
}

// dateParts splits a YYYY-MM-DD date string into its numeric components.
// Rows with dates that do not fit the shape are dropped by the callers.
func dateParts(date string) (year, month, day int, ok bool) {
	parts := strings.SplitN(date, "-", 3)
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	var err error
	if year, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, 0, false
	}
	if month, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, 0, false
	}
	if day, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, false
	}
	return year, month, day, true
}
