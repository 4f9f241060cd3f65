package domain

const (
	// minStations is the number of stations always included regardless
	// of weight.
	minStations = 2
	// weightThreshold stops selection once the next candidate would
	// contribute less than this fraction of the cumulative weight.
	weightThreshold = 0.02
	// minDistKm clamps distances below this value to avoid division by
	// zero when the query sits on top of a station.
	minDistKm = 0.1
)

// SelectStations adaptively selects stations from a distance-sorted
// candidate list. Weights follow inverse-distance weighting with power 2.
// At least minStations candidates are always included; beyond that,
// selection stops at the first candidate whose weight would contribute
// less than weightThreshold of the cumulative total, so dense clusters
// use few stations and sparse regions reach further out.
func SelectStations(candidates []Candidate) []SelectedStation {
	var selected []SelectedStation
	total := 0.0
	for i, c := range candidates {
		dist := c.DistanceKm
		if dist < minDistKm {
			dist = minDistKm
		}
		rawWeight := 1.0 / (dist * dist)

		if i >= minStations && rawWeight/(total+rawWeight) < weightThreshold {
			break
		}
		selected = append(selected, SelectedStation{Station: c, RawWeight: rawWeight})
		total += rawWeight
	}
	return selected
}

// NormalizeWeights scales the raw weights of the given stations so they
// sum to 1. It runs after stations with unfetchable data have been
// dropped, so the surviving weights always describe the full blend.
func NormalizeWeights(stations []SelectedStation) {
	total := 0.0
	for _, s := range stations {
		total += s.RawWeight
	}
	if total == 0 {
		return
	}
	for i := range stations {
		stations[i].Weight = stations[i].RawWeight / total
	}
}
