// Package usecase orchestrates the weather estimation pipelines: station
// discovery, single-station aggregation, location blending and the cache
// pre-warmer.
package usecase

import (
	"math"
	"sort"

	"github.com/askvader/api/internal/domain"
	"github.com/askvader/api/internal/smhi"
)

// StationsUseCase serves station discovery from the SMHI rosters.
type StationsUseCase struct {
	smhi *smhi.Client
}

// NewStationsUseCase creates a new station discovery use case.
func NewStationsUseCase(client *smhi.Client) *StationsUseCase {
	return &StationsUseCase{smhi: client}
}

// Nearby returns the count nearest active stations for a parameter,
// ranked by great-circle distance rounded to 0.1 km. The rounded
// distance is what the selector weights later, so ranking and weighting
// always agree.
func (uc *StationsUseCase) Nearby(lat, lng float64, paramID, count int) ([]domain.Candidate, error) {
	stations, err := uc.smhi.StationList(paramID)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(stations))
	for _, s := range stations {
		if !s.Active {
			continue
		}
		dist := domain.HaversineKm(lat, lng, s.Latitude, s.Longitude)
		candidates = append(candidates, domain.Candidate{
			ID:         s.Key,
			Name:       s.Name,
			Latitude:   s.Latitude,
			Longitude:  s.Longitude,
			DistanceKm: roundTo(dist, 1),
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].DistanceKm < candidates[j].DistanceKm
	})
	if len(candidates) > count {
		candidates = candidates[:count]
	}
	return candidates, nil
}

// All merges the cloud and present-weather rosters into one catalog so
// weather-only stations (airports, mostly) appear alongside the cloud
// network. Sorted by name.
func (uc *StationsUseCase) All() ([]domain.CatalogStation, error) {
	cloud, err := uc.smhi.StationList(smhi.ParamCloudCoverage)
	if err != nil {
		return nil, err
	}
	weather, err := uc.smhi.StationList(smhi.ParamPresentWeather)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	merged := make([]domain.CatalogStation, 0, len(cloud)+len(weather))
	for _, s := range cloud {
		if !s.Active {
			continue
		}
		if _, ok := index[s.Key]; ok {
			continue
		}
		index[s.Key] = len(merged)
		merged = append(merged, domain.CatalogStation{
			ID:           s.Key,
			Name:         s.Name,
			Latitude:     s.Latitude,
			Longitude:    s.Longitude,
			HasCloudData: true,
		})
	}
	for _, s := range weather {
		if !s.Active {
			continue
		}
		if i, ok := index[s.Key]; ok {
			merged[i].HasLightningData = true
			continue
		}
		index[s.Key] = len(merged)
		merged = append(merged, domain.CatalogStation{
			ID:               s.Key,
			Name:             s.Name,
			Latitude:         s.Latitude,
			Longitude:        s.Longitude,
			HasLightningData: true,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Name < merged[j].Name
	})
	return merged, nil
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, decimals int) float64 {
	pow := math.Pow(10, float64(decimals))
	return math.Round(v*pow) / pow
}
