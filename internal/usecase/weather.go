package usecase

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/askvader/api/internal/adapter/store"
	"github.com/askvader/api/internal/domain"
	"github.com/askvader/api/internal/logger"
	"github.com/askvader/api/internal/smhi"
)

const (
	// candidateCount is the size of the per-dimension candidate pool fed
	// to the adaptive selector.
	candidateCount = 10
	// prefetchWorkers bounds concurrent archive downloads on the request
	// path so a cold query cannot monopolize the upstream.
	prefetchWorkers = 3
)

// Engine computes station series and blended location estimates on top
// of the SMHI client and the result cache.
type Engine struct {
	smhi     *smhi.Client
	results  *store.ResultStore
	stations *StationsUseCase
	log      *logger.Logger
}

// NewEngine creates the location estimation engine.
func NewEngine(client *smhi.Client, results *store.ResultStore, stations *StationsUseCase, log *logger.Logger) *Engine {
	return &Engine{smhi: client, results: results, stations: stations, log: log}
}

// StationWeather aggregates one station's full archive at a resolution,
// serving from the result cache when a fresh entry exists.
func (e *Engine) StationWeather(stationID string, resolution domain.Resolution) (domain.StationResult, error) {
	if cached, ok := e.results.Get(stationID, resolution); ok {
		return cached, nil
	}

	cloudRows, err := e.loadRows(smhi.ParamCloudCoverage, stationID)
	if err != nil {
		return domain.StationResult{}, fmt.Errorf("load cloud archive for station %s: %w", stationID, err)
	}
	weatherRows, err := e.loadRows(smhi.ParamPresentWeather, stationID)
	if err != nil {
		return domain.StationResult{}, fmt.Errorf("load weather archive for station %s: %w", stationID, err)
	}

	points, hasLightning := domain.Aggregate(cloudRows, weatherRows, resolution)
	result := domain.StationResult{
		StationID:        stationID,
		Resolution:       resolution,
		HasLightningData: hasLightning,
		Points:           points,
	}
	e.results.Put(result)
	return result, nil
}

// loadRows fetches and parses one archive. Upstream HTTP errors mean
// the station does not record that parameter and come back as an empty
// archive; anything else propagates.
func (e *Engine) loadRows(paramID int, stationID string) ([]domain.Row, error) {
	rows, err := e.smhi.FetchAndParse(paramID, stationID)
	var statusErr *smhi.StatusError
	if errors.As(err, &statusErr) {
		return nil, nil
	}
	return rows, err
}

// LocationWeather estimates historical cloud coverage and lightning
// probability at an exact coordinate by blending nearby stations, with
// station discovery and weighting run independently per dimension.
func (e *Engine) LocationWeather(lat, lng float64, resolution domain.Resolution) (domain.LocationResult, error) {
	cloudCands, err := e.stations.Nearby(lat, lng, smhi.ParamCloudCoverage, candidateCount)
	if err != nil {
		return domain.LocationResult{}, fmt.Errorf("discover cloud stations: %w", err)
	}
	lightningCands, err := e.stations.Nearby(lat, lng, smhi.ParamPresentWeather, candidateCount)
	if err != nil {
		return domain.LocationResult{}, fmt.Errorf("discover lightning stations: %w", err)
	}
	if len(cloudCands) == 0 {
		return emptyLocationResult(resolution), nil
	}

	cloudSelected := domain.SelectStations(cloudCands)
	lightningSelected := domain.SelectStations(lightningCands)

	e.prefetch(resolution, cloudSelected, lightningSelected)

	cloudSurvivors, cloudSeries := e.gather(cloudSelected, resolution)
	if len(cloudSurvivors) == 0 {
		return emptyLocationResult(resolution), nil
	}
	lightningSurvivors, lightningSeries := e.gather(lightningSelected, resolution)

	domain.NormalizeWeights(cloudSurvivors)
	domain.NormalizeWeights(lightningSurvivors)

	cloudPoints := domain.BlendCloudSeries(weightedSeries(cloudSurvivors, cloudSeries), resolution)
	lightningPoints := domain.BlendLightningSeries(weightedSeries(lightningSurvivors, lightningSeries), resolution)
	points := domain.MergePoints(cloudPoints, lightningPoints)

	hasLightning := false
	for _, result := range lightningSeries {
		if result.HasLightningData {
			hasLightning = true
			break
		}
	}

	quality := e.assessQuality(lat, lng, resolution, cloudSurvivors, lightningSurvivors, cloudPoints, lightningPoints)

	return domain.LocationResult{
		HasLightningData:  hasLightning,
		Resolution:        resolution,
		Points:            points,
		CloudStations:     contributions(cloudSurvivors),
		LightningStations: contributions(lightningSurvivors),
		Quality:           quality,
	}, nil
}

// prefetch warms the CSV disk cache for every selected station without a
// fresh result-cache entry at this resolution. Failures are logged and
// swallowed; a station that cannot be warmed just downloads later.
func (e *Engine) prefetch(resolution domain.Resolution, selections ...[]domain.SelectedStation) {
	missing := make(map[string]struct{})
	for _, sels := range selections {
		for _, sel := range sels {
			id := sel.Station.ID
			if _, seen := missing[id]; seen || e.results.Fresh(id, resolution) {
				continue
			}
			missing[id] = struct{}{}
		}
	}
	if len(missing) == 0 {
		return
	}

	var g errgroup.Group
	g.SetLimit(prefetchWorkers)
	for id := range missing {
		for _, paramID := range []int{smhi.ParamCloudCoverage, smhi.ParamPresentWeather} {
			id, paramID := id, paramID
			g.Go(func() error {
				if _, err := e.smhi.StationCSV(paramID, id); err != nil {
					e.log.Debugf("prefetch failed: param=%d station=%s: %v", paramID, id, err)
				}
				return nil
			})
		}
	}
	_ = g.Wait()
}

// gather aggregates each selected station at the resolution, dropping
// stations whose aggregation fails. The two returned slices are aligned.
func (e *Engine) gather(selected []domain.SelectedStation, resolution domain.Resolution) ([]domain.SelectedStation, []domain.StationResult) {
	survivors := make([]domain.SelectedStation, 0, len(selected))
	results := make([]domain.StationResult, 0, len(selected))
	for _, sel := range selected {
		result, err := e.StationWeather(sel.Station.ID, resolution)
		if err != nil {
			e.log.Warnf("dropping station %s from blend: %v", sel.Station.ID, err)
			continue
		}
		survivors = append(survivors, sel)
		results = append(results, result)
	}
	return survivors, results
}

// assessQuality grades the blend against the yearly baseline regardless
// of the requested resolution, so the grade does not jitter when the
// user switches views.
func (e *Engine) assessQuality(lat, lng float64, resolution domain.Resolution, cloudSurvivors, lightningSurvivors []domain.SelectedStation, cloudPoints, lightningPoints []domain.Point) domain.Quality {
	cloudYearly := cloudPoints
	lightningYearly := lightningPoints
	if resolution != domain.ResolutionYear {
		cloudYearly = domain.BlendCloudSeries(e.yearlySeries(cloudSurvivors), domain.ResolutionYear)
		lightningYearly = domain.BlendLightningSeries(e.yearlySeries(lightningSurvivors), domain.ResolutionYear)
	}
	return domain.ComputeQuality(cloudYearly, lightningYearly, domain.ResolutionYear,
		cloudSurvivors, lightningSurvivors, lat, lng)
}

// yearlySeries re-aggregates the surviving stations at year resolution,
// reusing their already-normalized weights. Stations that fail here are
// skipped; the blend self-normalizes over whoever contributed.
func (e *Engine) yearlySeries(survivors []domain.SelectedStation) []domain.WeightedSeries {
	series := make([]domain.WeightedSeries, 0, len(survivors))
	for _, sel := range survivors {
		result, err := e.StationWeather(sel.Station.ID, domain.ResolutionYear)
		if err != nil {
			e.log.Warnf("yearly aggregation failed for station %s: %v", sel.Station.ID, err)
			continue
		}
		series = append(series, domain.WeightedSeries{Weight: sel.Weight, Points: result.Points})
	}
	return series
}

func weightedSeries(survivors []domain.SelectedStation, results []domain.StationResult) []domain.WeightedSeries {
	series := make([]domain.WeightedSeries, len(survivors))
	for i := range survivors {
		series[i] = domain.WeightedSeries{Weight: survivors[i].Weight, Points: results[i].Points}
	}
	return series
}

func contributions(survivors []domain.SelectedStation) []domain.StationContribution {
	out := make([]domain.StationContribution, len(survivors))
	for i, sel := range survivors {
		out[i] = domain.StationContribution{
			ID:         sel.Station.ID,
			Name:       sel.Station.Name,
			Latitude:   sel.Station.Latitude,
			Longitude:  sel.Station.Longitude,
			DistanceKm: sel.Station.DistanceKm,
			WeightPct:  roundTo(sel.Weight*100, 1),
		}
	}
	return out
}

// emptyLocationResult is the response when no stations exist at all.
// Slices are empty rather than nil so they serialize as [].
func emptyLocationResult(resolution domain.Resolution) domain.LocationResult {
	return domain.LocationResult{
		Resolution:        resolution,
		Points:            []domain.Point{},
		CloudStations:     []domain.StationContribution{},
		LightningStations: []domain.StationContribution{},
		Quality:           domain.EmptyQuality(),
	}
}
