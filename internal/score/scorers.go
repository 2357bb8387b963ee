package score

import (
	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
)

// ScoreWaveHeight maps a wave height onto 0-100 against a surfer's
// envelope. 100 inside the ideal band; a 60-100 ramp below it down to
// the surfable floor; a 50-100 ramp above it up to the surfable
// ceiling; a 0-30 ramp below the floor; above the ceiling it starts at
// 30 and loses 10 points per foot over.
func ScoreWaveHeight(height float64, rng HeightRange) float64 {
	switch {
	case height >= rng.IdealMin && height <= rng.IdealMax:
		return 100
	case height < rng.IdealMin && height >= rng.SurfableMin:
		span := rng.IdealMin - rng.SurfableMin
		if span <= 0 {
			return 100
		}
		return 60 + 40*(height-rng.SurfableMin)/span
	case height > rng.IdealMax && height <= rng.SurfableMax:
		span := rng.SurfableMax - rng.IdealMax
		if span <= 0 {
			return 100
		}
		return 100 - 50*(height-rng.IdealMax)/span
	case height < rng.SurfableMin:
		if rng.SurfableMin <= 0 {
			return 0
		}
		return 30 * height / rng.SurfableMin
	default: // above surfable max
		s := 30 - 10*(height-rng.SurfableMax)
		if s < 0 {
			return 0
		}
		return s
	}
}

// ScoreWavePeriod buckets swell period. Period stands in for swell
// organization; the thresholds are empirical, not continuous.
func ScoreWavePeriod(period float64) float64 {
	switch {
	case period >= 15:
		return 100
	case period >= 13:
		return 90
	case period >= 11:
		return 75
	case period >= 9:
		return 55
	case period >= 7:
		return 35
	default:
		return 20
	}
}

// windSpeedScore buckets wind speed in mph.
func windSpeedScore(speed float64) float64 {
	switch {
	case speed < 5:
		return 100
	case speed < 10:
		return 85
	case speed < 15:
		return 65
	case speed < 20:
		return 40
	case speed < 25:
		return 20
	default:
		return 5
	}
}

// windDirectionMultiplier scales the speed score by how offshore the
// wind is. Under 5 mph direction barely matters, so the multiplier is
// floored at 0.9 in glassy conditions.
func windDirectionMultiplier(speed, direction, offshoreBearing float64) float64 {
	diff := AngleDiff(direction, offshoreBearing)
	var m float64
	switch {
	case diff <= 45:
		m = 1.0
	case diff <= 90:
		m = 0.85
	case diff <= 135:
		m = 0.6
	default:
		m = 0.4
	}
	if speed < 5 && m < 0.9 {
		m = 0.9
	}
	return m
}

// ScoreWind combines a wind-speed bucket score with an offshore
// direction multiplier.
func ScoreWind(speed, direction, offshoreBearing float64) float64 {
	return windSpeedScore(speed) * windDirectionMultiplier(speed, direction, offshoreBearing)
}

// ScoreSwellDirection buckets the minimum circular distance from the
// swell bearing to any of the spot's optimal bearings. No optimal
// bearings configured means direction cannot be judged; neutral 50.
func ScoreSwellDirection(direction float64, optimalBearings []float64) float64 {
	if len(optimalBearings) == 0 {
		return 50
	}
	min := 360.0
	for _, b := range optimalBearings {
		if d := AngleDiff(direction, b); d < min {
			min = d
		}
	}
	switch {
	case min <= 15:
		return 100
	case min <= 30:
		return 85
	case min <= 45:
		return 70
	case min <= 60:
		return 50
	case min <= 90:
		return 30
	default:
		return 10
	}
}

// assumedTideRange is the local tide swing in feet used to normalize a
// height into low/mid/high thirds. Bay Area stations run roughly 0-6 ft
// MLLW on mixed semidiurnal tides.
const assumedTideRange = 6.0

// ScoreTide scores a tide height against a spot's preferred tide class.
// Spots that work on any tide get a flat 80. Otherwise the height is
// normalized against the assumed 0-6 ft range and scored by how far it
// sits from the preferred third: in it 100, within a sixth 75, within a
// third 50, beyond that 30.
func ScoreTide(height float64, class models.TideClass) float64 {
	if class == models.TideAny {
		return 80
	}

	t := height / assumedTideRange
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	var lo, hi float64
	switch class {
	case models.TideLow:
		lo, hi = 0, 1.0/3
	case models.TideMid:
		lo, hi = 1.0/3, 2.0/3
	case models.TideHigh:
		lo, hi = 2.0/3, 1
	default:
		return 80
	}

	var dist float64
	switch {
	case t < lo:
		dist = lo - t
	case t > hi:
		dist = t - hi
	}

	switch {
	case dist == 0:
		return 100
	case dist <= 1.0/6:
		return 75
	case dist <= 1.0/3:
		return 50
	default:
		return 30
	}
}
