package domain

import "sort"

// WeightedSeries pairs a station's normalized blend weight with its
// aggregated point series.
type WeightedSeries struct {
	Weight float64
	Points []Point
}

// blendEntry is one station's contribution to a single time bucket.
type blendEntry struct {
	weight float64
	point  Point
}

// BlendCloudSeries combines cloud series from several stations into one
// blended series. Day and month series share a fixed calendar shape and
// blend positionally; year series blend over the sorted union of labels
// because stations cover different year ranges.
func BlendCloudSeries(series []WeightedSeries, resolution Resolution) []Point {
	return blendSeries(series, resolution, blendCloudPoint)
}

// BlendLightningSeries combines lightning series from several stations
// into one blended series.
func BlendLightningSeries(series []WeightedSeries, resolution Resolution) []Point {
	return blendSeries(series, resolution, blendLightningPoint)
}

func blendSeries(
	series []WeightedSeries,
	resolution Resolution,
	blend func(string, []blendEntry) Point,
) []Point {
	if len(series) == 0 {
		return []Point{}
	}

	if resolution == ResolutionYear {
		byLabel := make([]map[string]Point, len(series))
		for i, s := range series {
			byLabel[i] = make(map[string]Point, len(s.Points))
			for _, p := range s.Points {
				byLabel[i][p.Label] = p
			}
		}
		labels := yearLabelUnion(series)

		points := make([]Point, 0, len(labels))
		for _, label := range labels {
			entries := make([]blendEntry, 0, len(series))
			for i, s := range series {
				if p, ok := byLabel[i][label]; ok {
					entries = append(entries, blendEntry{weight: s.Weight, point: p})
				}
			}
			points = append(points, blend(label, entries))
		}
		return points
	}

	// Positional: aggregation guarantees identical calendars.
	n := len(series[0].Points)
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		entries := make([]blendEntry, 0, len(series))
		for _, s := range series {
			entries = append(entries, blendEntry{weight: s.Weight, point: s.Points[i]})
		}
		points = append(points, blend(series[0].Points[i].Label, entries))
	}
	return points
}

// yearLabelUnion returns the sorted union of year labels across all
// series. Year labels are equal-width digit strings, so lexicographic
// order matches numeric order.
func yearLabelUnion(series []WeightedSeries) []string {
	seen := make(map[string]struct{})
	var labels []string
	for _, s := range series {
		for _, p := range s.Points {
			if _, ok := seen[p.Label]; ok {
				continue
			}
			seen[p.Label] = struct{}{}
			labels = append(labels, p.Label)
		}
	}
	sort.Strings(labels)
	return labels
}

// blendCloudPoint merges per-station cloud values for one time bucket.
// Stations without observations in the bucket are skipped; dividing by
// the sum of contributing weights renormalizes the rest.
func blendCloudPoint(label string, entries []blendEntry) Point {
	sum := 0.0
	weightSum := 0.0
	obs := 0
	for _, e := range entries {
		if e.point.CloudCoverageAvg == nil {
			continue
		}
		sum += *e.point.CloudCoverageAvg * e.weight
		weightSum += e.weight
		obs += e.point.ObsCount
	}

	p := Point{Label: label, ObsCount: obs}
	if weightSum > 0 {
		p.CloudCoverageAvg = ptr(roundTo(sum/weightSum, 1))
	}
	return p
}

// blendLightningPoint merges per-station lightning values for one time
// bucket. The probability and each interval bound keep separate weight
// sums because small stations report a probability without an interval.
func blendLightningPoint(label string, entries []blendEntry) Point {
	var (
		probSum, probWeight   float64
		lowerSum, lowerWeight float64
		upperSum, upperWeight float64
		obs                   int
	)
	for _, e := range entries {
		if e.point.LightningProbability != nil {
			probSum += *e.point.LightningProbability * e.weight
			probWeight += e.weight
			obs += e.point.LightningObsCount
		}
		if e.point.LightningLower != nil {
			lowerSum += *e.point.LightningLower * e.weight
			lowerWeight += e.weight
		}
		if e.point.LightningUpper != nil {
			upperSum += *e.point.LightningUpper * e.weight
			upperWeight += e.weight
		}
	}

	p := Point{Label: label, LightningObsCount: obs}
	if probWeight > 0 {
		p.LightningProbability = ptr(roundTo(probSum/probWeight, 2))
	}
	if lowerWeight > 0 {
		p.LightningLower = ptr(roundTo(lowerSum/lowerWeight, 2))
	}
	if upperWeight > 0 {
		p.LightningUpper = ptr(roundTo(upperSum/upperWeight, 2))
	}
	return p
}

// MergePoints joins the cloud and lightning blends by label into the
// final point series. The cloud series drives the output; labels without
// a lightning counterpart keep nil lightning fields.
func MergePoints(cloudPoints, lightningPoints []Point) []Point {
	byLabel := make(map[string]Point, len(lightningPoints))
	for _, p := range lightningPoints {
		byLabel[p.Label] = p
	}

	merged := make([]Point, 0, len(cloudPoints))
	for _, cp := range cloudPoints {
		out := cp
		if lp, ok := byLabel[cp.Label]; ok {
			out.LightningProbability = lp.LightningProbability
			out.LightningLower = lp.LightningLower
			out.LightningUpper = lp.LightningUpper
			out.LightningObsCount = lp.LightningObsCount
		}
		merged = append(merged, out)
	}
	return merged
}
