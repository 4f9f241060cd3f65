package domain

import (
	"math"
	"sort"
)

// HaversineKm returns the great-circle distance between two points in km.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371.0 // Earth radius in km
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return R * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// bearing returns the initial great-circle bearing from point 1 to point 2
// in degrees, normalized to [0, 360).
func bearing(lat1, lng1, lat2, lng2 float64) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	lat1R := toRad(lat1)
	lat2R := toRad(lat2)
	dLngR := toRad(lng2 - lng1)
	x := math.Sin(dLngR) * math.Cos(lat2R)
	y := math.Cos(lat1R)*math.Sin(lat2R) - math.Sin(lat1R)*math.Cos(lat2R)*math.Cos(dLngR)
	return normalizeDeg(math.Atan2(x, y) * 180 / math.Pi)
}

// angularSpread returns how much of the horizon a set of bearings covers,
// in degrees. It is 360 minus the largest empty gap between consecutive
// bearings, so stations spread evenly around a point score close to 360
// and stations all on one side score close to 0.
func angularSpread(bearings []float64) float64 {
	if len(bearings) <= 1 {
		return 0.0
	}
	s := make([]float64, len(bearings))
	for i, b := range bearings {
		s[i] = normalizeDeg(b)
	}
	sort.Float64s(s)

	maxGap := 0.0
	for i := 1; i < len(s); i++ {
		if gap := s[i] - s[i-1]; gap > maxGap {
			maxGap = gap
		}
	}
	// Wrap-around gap between the last and first bearing.
	if gap := (360 - s[len(s)-1]) + s[0]; gap > maxGap {
		maxGap = gap
	}
	return roundTo(360-maxGap, 1)
}

// weightedMeanBearing returns the weight-averaged direction of a set of
// bearings, computed on the unit circle so that 350° and 10° average to
// 0° rather than 180°.
func weightedMeanBearing(bearings, weights []float64) float64 {
	x := 0.0
	y := 0.0
	for i, b := range bearings {
		rad := b * math.Pi / 180
		x += weights[i] * math.Sin(rad)
		y += weights[i] * math.Cos(rad)
	}
	return normalizeDeg(math.Atan2(x, y) * 180 / math.Pi)
}

// compassNames are the 16-wind compass point names, clockwise from north.
var compassNames = [16]string{
	"north", "north-northeast", "northeast", "east-northeast",
	"east", "east-southeast", "southeast", "south-southeast",
	"south", "south-southwest", "southwest", "west-southwest",
	"west", "west-northwest", "northwest", "north-northwest",
}

// compassDirection names the 16-wind compass point nearest to a bearing.
func compassDirection(bearing float64) string {
	return compassNames[int(math.Round(bearing/22.5))%16]
}

// normalizeDeg maps an angle in degrees onto [0, 360).
func normalizeDeg(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}
