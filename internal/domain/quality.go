package domain

import (
	"fmt"
	"math"
	"strings"
)

// Quality grading uses a report-card model with independent assessments
// for the cloud and lightning dimensions. Each dimension is graded on two
// factors: station coverage (proximity plus directional spread of that
// dimension's stations) and historical data (time-period coverage plus
// observation depth). The overall level equals the worst factor across
// both dimensions.

// QualityFactor is one graded factor of a quality dimension.
type QualityFactor struct {
	Value   float64 `json:"value"`
	Level   string  `json:"level"`
	Summary string  `json:"summary"`
}

// QualityDimension grades the estimate for one observation parameter.
type QualityDimension struct {
	StationCoverage QualityFactor `json:"station_coverage"`
	HistoricalData  QualityFactor `json:"historical_data"`
}

// Quality is the assessment attached to every location estimate.
type Quality struct {
	Level     string           `json:"level"`
	Cloud     QualityDimension `json:"cloud"`
	Lightning QualityDimension `json:"lightning"`
}

// goodObs is the observation count per point that earns a full depth
// score at each resolution.
var goodObs = map[Resolution]float64{
	ResolutionDay:   30,
	ResolutionMonth: 500,
	ResolutionYear:  2000,
}

const (
	coverageGoodPct = 90
	coverageFairPct = 60

	depthGoodPct = 70
	depthFairPct = 40

	proxGoodKm = 25
	proxFairKm = 75

	dirGoodDeg = 180
	dirFairDeg = 90

	// dominantWeight marks a station so close that it all but determines
	// the blend, making directional spread irrelevant.
	dominantWeight = 0.85
	// strongWeight promotes the directional grade by one level.
	strongWeight = 0.60
)

// factorLevel orders the report-card grades from worst to best.
type factorLevel int

const (
	levelPoor factorLevel = iota
	levelFair
	levelGood
)

func (l factorLevel) String() string {
	switch l {
	case levelGood:
		return "good"
	case levelFair:
		return "fair"
	}
	return "poor"
}

// overallNames maps the worst factor level to the response-level grade.
var overallNames = [3]string{"low", "medium", "high"}

// EmptyQuality is the assessment for a location with no usable stations.
func EmptyQuality() Quality {
	return Quality{
		Level:     "low",
		Cloud:     emptyDimension(),
		Lightning: emptyDimension(),
	}
}

func emptyDimension() QualityDimension {
	return QualityDimension{
		StationCoverage: QualityFactor{
			Value:   0,
			Level:   "poor",
			Summary: "No station data available.",
		},
		HistoricalData: QualityFactor{
			Value:   0,
			Level:   "poor",
			Summary: "No historical data available.",
		},
	}
}

// ComputeQuality grades a blended location estimate. The cloud dimension
// reads each point's cloud observation count, the lightning dimension its
// present-weather observation count. A location whose selection found no
// lightning stations gets an explanatory empty lightning dimension, and
// the substitute fair grade in the rollup caps the overall level at
// medium.
func ComputeQuality(
	cloudPoints, lightningPoints []Point,
	resolution Resolution,
	cloudStations, lightningStations []SelectedStation,
	lat, lng float64,
) Quality {
	cloudDim, cloudLevel := assessDimension(
		cloudPoints, resolution, cloudStations, lat, lng,
		func(p Point) int { return p.ObsCount },
	)

	var lightningDim QualityDimension
	lightningRollup := levelFair
	if len(lightningStations) > 0 {
		var lightningLevel factorLevel
		lightningDim, lightningLevel = assessDimension(
			lightningPoints, resolution, lightningStations, lat, lng,
			func(p Point) int { return p.LightningObsCount },
		)
		lightningRollup = lightningLevel
	} else {
		lightningDim = emptyDimension()
		lightningDim.StationCoverage.Summary = "No nearby stations record lightning observations."
		lightningDim.HistoricalData.Summary = "No lightning data is available for this area."
	}

	overall := worseOf(cloudLevel, lightningRollup)
	return Quality{
		Level:     overallNames[overall],
		Cloud:     cloudDim,
		Lightning: lightningDim,
	}
}

// assessDimension grades one dimension's station coverage and historical
// data. It returns the dimension plus its worst factor level for the
// overall rollup.
func assessDimension(
	points []Point,
	resolution Resolution,
	stations []SelectedStation,
	lat, lng float64,
	obsOf func(Point) int,
) (QualityDimension, factorLevel) {
	if len(stations) == 0 {
		return emptyDimension(), levelPoor
	}

	// Historical data: coverage of time periods plus observation depth.
	coverageVal := 0.0
	depthVal := 0.0
	if len(points) > 0 {
		baseline := obsBaseline(resolution)
		withObs := 0
		depthSum := 0.0
		for _, p := range points {
			obs := obsOf(p)
			if obs > 0 {
				withObs++
			}
			depthSum += math.Min(float64(obs)/baseline, 1)
		}
		coverageVal = roundTo(float64(withObs)/float64(len(points))*100, 1)
		depthVal = roundTo(depthSum/float64(len(points))*100, 1)
	}

	coverageLevel := classify(coverageVal, coverageGoodPct, coverageFairPct)
	depthLevel := classify(depthVal, depthGoodPct, depthFairPct)
	hdLevel := worseOf(coverageLevel, depthLevel)
	hdVal := roundTo((coverageVal+depthVal)/2, 1)

	// Station coverage: weighted proximity plus directional spread.
	avgDist := 0.0
	for _, sd := range stations {
		avgDist += sd.Station.DistanceKm * sd.Weight
	}
	proxVal := roundTo((1-math.Min(avgDist, 200)/200)*100, 1)
	proxVal = math.Max(0, math.Min(100, proxVal))
	proxLevel := classifyLower(avgDist, proxGoodKm, proxFairKm)

	bearings := make([]float64, len(stations))
	weights := make([]float64, len(stations))
	maxWeight := 0.0
	topName := ""
	for i, sd := range stations {
		bearings[i] = bearing(lat, lng, sd.Station.Latitude, sd.Station.Longitude)
		weights[i] = sd.Weight
		if sd.Weight > maxWeight {
			maxWeight = sd.Weight
			topName = sd.Station.Name
		}
	}
	spread := angularSpread(bearings)
	dirVal := roundTo(math.Min(spread/360, 1)*100, 1)
	dirLevel := classify(spread, dirGoodDeg, dirFairDeg)

	// A dominant station overrides the directional grade: when one
	// station carries nearly all the weight, where the others sit
	// barely matters.
	effectiveDir := dirLevel
	switch {
	case maxWeight >= dominantWeight:
		effectiveDir = levelGood
	case maxWeight >= strongWeight:
		effectiveDir = promote(dirLevel)
	}

	scLevel := worseOf(proxLevel, effectiveDir)
	var scVal float64
	if effectiveDir == levelGood && dirLevel != levelGood {
		scVal = proxVal
	} else {
		scVal = roundTo((proxVal+dirVal)/2, 1)
	}

	dim := QualityDimension{
		StationCoverage: QualityFactor{
			Value:   scVal,
			Level:   scLevel.String(),
			Summary: buildStationSummary(proxLevel, dirLevel, maxWeight, topName, bearings, weights),
		},
		HistoricalData: QualityFactor{
			Value:   hdVal,
			Level:   hdLevel.String(),
			Summary: buildDataSummary(coverageVal, coverageLevel, depthLevel),
		},
	}
	return dim, worseOf(hdLevel, scLevel)
}

// buildStationSummary writes the plain-language explanation of the
// station-coverage factor.
func buildStationSummary(
	proxLevel, dirLevel factorLevel,
	maxWeight float64,
	topName string,
	bearings, weights []float64,
) string {
	var parts []string

	switch {
	case maxWeight >= dominantWeight:
		parts = append(parts, fmt.Sprintf(
			"Estimates are based almost entirely on the nearby %s station, "+
				"so the data is highly representative of this location.", topName))
	case proxLevel == levelGood:
		parts = append(parts,
			"There are stations close to this location, giving a reliable estimate.")
	case proxLevel == levelFair:
		parts = append(parts,
			"The nearest stations are at a moderate distance. "+
				"Estimates are reasonable but may not capture very local conditions.")
	default:
		parts = append(parts,
			"There are no nearby stations, so the estimates are computed "+
				"from stations that are far away.")
	}

	if maxWeight < dominantWeight && dirLevel != levelGood {
		direction := compassDirection(weightedMeanBearing(bearings, weights))
		if dirLevel == levelPoor {
			parts = append(parts, fmt.Sprintf(
				"These stations are all to the %s of the location, so the "+
					"estimate may not reflect conditions in other directions.", direction))
		} else {
			parts = append(parts, fmt.Sprintf(
				"Most stations are to the %s, which gives partial but not "+
					"full surrounding coverage.", direction))
		}
	}

	return strings.Join(parts, " ")
}

// buildDataSummary writes the plain-language explanation of the
// historical-data factor.
func buildDataSummary(coveragePct float64, coverageLevel, depthLevel factorLevel) string {
	var parts []string

	switch {
	case coveragePct == 100:
		parts = append(parts, "Every time period has real observations.")
	case coverageLevel == levelGood:
		parts = append(parts,
			"Nearly all time periods have observations, with a few small "+
				"gaps filled in by estimates.")
	case coverageLevel == levelFair:
		parts = append(parts,
			"Some time periods are missing observations and have been "+
				"filled in with estimates.")
	default:
		parts = append(parts, "There are significant gaps in the historical record.")
	}

	switch depthLevel {
	case levelGood:
		parts = append(parts,
			"The data spans many years of consistent readings, giving "+
				"reliable averages.")
	case levelFair:
		parts = append(parts,
			"The amount of data behind each average is moderate, enough "+
				"to be useful but not as precise as well-covered areas.")
	default:
		parts = append(parts,
			"The number of individual readings is low, so the averages "+
				"may be less precise.")
	}

	return strings.Join(parts, " ")
}

// classify grades a value against thresholds where higher is better.
func classify(value, good, fair float64) factorLevel {
	switch {
	case value >= good:
		return levelGood
	case value >= fair:
		return levelFair
	}
	return levelPoor
}

// classifyLower grades a value where lower is better, used for distances.
func classifyLower(value, good, fair float64) factorLevel {
	switch {
	case value <= good:
		return levelGood
	case value <= fair:
		return levelFair
	}
	return levelPoor
}

func worseOf(a, b factorLevel) factorLevel {
	if a < b {
		return a
	}
	return b
}

// promote raises a grade one level, capped at good.
func promote(l factorLevel) factorLevel {
	if l >= levelGood {
		return levelGood
	}
	return l + 1
}

func obsBaseline(r Resolution) float64 {
	if b, ok := goodObs[r]; ok {
		return b
	}
	return goodObs[ResolutionMonth]
}
