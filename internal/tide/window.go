package tide

import (
	"fmt"

	"github.com/lukaszlysakowski/bay-area-surf-app/internal/models"
)

// Surfable daylight band searched for time windows.
const (
	SurfableStartHour = 5
	SurfableEndHour   = 20
)

// Window is a recommended contiguous block of hours. EndHour is
// exclusive. Stateless; recomputed from the day's series on demand.
type Window struct {
	StartHour  int     `json:"startHour"`
	EndHour    int     `json:"endHour"`
	Reason     string  `json:"reason"`
	MeanScore  float64 `json:"meanScore"`
	MeanHeight float64 `json:"meanHeight"`
}

// diurnalWindQuality is the fixed wind-quality-by-hour curve used in
// place of real wind forecasts, which are not available for future
// windows. Mornings are usually glassy on this coast, afternoons
// onshore. Data, not code, so it can be swapped per region.
var diurnalWindQuality = []struct {
	fromHour int // inclusive
	toHour   int // exclusive
	quality  float64
}{
	{5, 9, 50},
	{9, 11, 35},
	{11, 15, 10},
	{15, 17, 20},
	{17, 19, 40},
}

const diurnalDefaultQuality = 25

func windQualityAt(hour int) float64 {
	for _, band := range diurnalWindQuality {
		if hour >= band.fromHour && hour < band.toHour {
			return band.quality
		}
	}
	return diurnalDefaultQuality
}

// Window-search tide suitability tiers. Same three-tier shape as spot
// tide scoring but its own constants; the window search discriminates
// harder against the wrong tide.
const (
	windowTideIdeal   = 100.0
	windowTideNear    = 70.0
	windowTideOff     = 40.0
	windowTideWrong   = 15.0
	windowTideNeutral = 80.0 // spots that work on any tide
	windowTideWeight  = 0.5  // tide contributes half weight; the diurnal wind proxy is full weight
)

func windowTideScore(height float64, class models.TideClass) float64 {
	if class == models.TideAny {
		return windowTideNeutral
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
		return windowTideNeutral
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
		return windowTideIdeal
	case dist <= 1.0/6:
		return windowTideNear
	case dist <= 1.0/3:
		return windowTideOff
	default:
		return windowTideWrong
	}
}

// assumedTideRange mirrors the spot scorer's 0-6 ft normalization.
const assumedTideRange = 6.0

// IdealHeight reports whether a height sits inside the preferred third
// of the tide range for a class. Spots that take any tide count every
// hour as ideal. The week analyzer counts ideal hours per day.
func IdealHeight(height float64, class models.TideClass) bool {
	if class == models.TideAny {
		return true
	}
	return windowTideScore(height, class) == windowTideIdeal
}

// BestWindow finds the highest-scoring 2-4 hour surf window in a day's
// hourly series, within the 5am-8pm surfable band. Returns nil when the
// series has no hours in the band; callers treat nil as "no
// recommendation", not a fault.
func BestWindow(samples []Sample, class models.TideClass) *Window {
	return BestWindowBetween(samples, class, SurfableStartHour, SurfableEndHour)
}

// BestWindowBetween is BestWindow restricted to [startHour, endHour).
// The week analyzer uses it with a 6am-6pm band.
func BestWindowBetween(samples []Sample, class models.TideClass, startHour, endHour int) *Window {
	heights := make(map[int]float64, len(samples))
	for _, s := range samples {
		h := s.Time.Hour()
		if h >= startHour && h < endHour {
			heights[h] = s.Height
		}
	}
	if len(heights) == 0 {
		return nil
	}

	hourScore := func(h int) (float64, bool) {
		height, ok := heights[h]
		if !ok {
			return 0, false
		}
		return windowTideScore(height, class)*windowTideWeight + windQualityAt(h), true
	}

	var best *Window
	bestMean := 0.0
	// 3-hour windows first; strict > keeps the earliest and widest winner.
	for _, size := range []int{3, 2} {
		for start := startHour; start+size <= endHour; start++ {
			sum, heightSum := 0.0, 0.0
			ok := true
			for h := start; h < start+size; h++ {
				s, have := hourScore(h)
				if !have {
					ok = false
					break
				}
				sum += s
				heightSum += heights[h]
			}
			if !ok {
				continue
			}
			mean := sum / float64(size)
			if best == nil || mean > bestMean {
				bestMean = mean
				best = &Window{
					StartHour:  start,
					EndHour:    start + size,
					MeanScore:  mean,
					MeanHeight: heightSum / float64(size),
				}
			}
		}
	}
	if best == nil {
		return nil
	}
	best.Reason = windowReason(best)
	return best
}

func windowReason(w *Window) string {
	var when string
	switch {
	case w.StartHour < 9:
		when = "Early morning, before the wind fills in"
	case w.StartHour >= 17:
		when = "Evening glass-off"
	default:
		when = "Midday window"
	}
	return fmt.Sprintf("%s. %s through the window.", when, heightDescriptor(w.MeanHeight))
}

// heightDescriptor buckets a tide height into the five coarse labels
// used in window reasons.
func heightDescriptor(height float64) string {
	switch {
	case height < 0.5:
		return "Low tide"
	case height < 2:
		return "Low-mid tide"
	case height < 3.5:
		return "Mid tide"
	case height < 5:
		return "Mid-high tide"
	default:
		return "High tide"
	}
}
